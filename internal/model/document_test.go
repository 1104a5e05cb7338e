package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostedStatus(t *testing.T) {
	assert.Equal(t, StatusPosted, PostedStatus(DocTypePurchaseOrder))
	assert.Equal(t, StatusPosted, PostedStatus(DocTypeVendorBill))
	assert.Equal(t, StatusSent, PostedStatus(DocTypeSalesOrder))
	assert.Equal(t, StatusSent, PostedStatus(DocTypeInvoice))
}

func TestNumberPrefix(t *testing.T) {
	assert.Equal(t, "PO", NumberPrefix(DocTypePurchaseOrder))
	assert.Equal(t, "BILL", NumberPrefix(DocTypeVendorBill))
	assert.Equal(t, "SO", NumberPrefix(DocTypeSalesOrder))
	assert.Equal(t, "INV", NumberPrefix(DocTypeInvoice))
}

func TestDocumentNumberFormat(t *testing.T) {
	// Sequences start at 1001, giving zero-padded numbers like INV-01001.
	number := fmt.Sprintf("%s-%05d", NumberPrefix(DocTypeInvoice), 1001)
	assert.Equal(t, "INV-01001", number)
}
