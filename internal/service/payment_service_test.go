package service

import (
	"testing"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestReconciledStatus(t *testing.T) {
	total := decimal.NewFromInt(108560)

	cases := []struct {
		name      string
		docType   string
		totalPaid decimal.Decimal
		want      string
	}{
		{"invoice partial payment", model.DocTypeInvoice, decimal.NewFromInt(50000), model.StatusPartiallyPaid},
		{"invoice fully paid", model.DocTypeInvoice, decimal.NewFromInt(108560), model.StatusPaid},
		{"invoice overpaid stays paid", model.DocTypeInvoice, decimal.NewFromInt(120000), model.StatusPaid},
		{"invoice no payments falls back to sent", model.DocTypeInvoice, decimal.Zero, model.StatusSent},
		{"bill no payments falls back to posted", model.DocTypeVendorBill, decimal.Zero, model.StatusPosted},
		{"bill partial payment", model.DocTypeVendorBill, decimal.NewFromInt(1), model.StatusPartiallyPaid},
		{"bill fully paid", model.DocTypeVendorBill, decimal.NewFromInt(108560), model.StatusPaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reconciledStatus(tc.docType, total, tc.totalPaid))
		})
	}
}

func TestReconciledStatusIsIdempotent(t *testing.T) {
	total := decimal.NewFromInt(1000)
	paid := decimal.NewFromInt(400)

	first := reconciledStatus(model.DocTypeInvoice, total, paid)
	second := reconciledStatus(model.DocTypeInvoice, total, paid)
	assert.Equal(t, first, second)
	assert.Equal(t, model.StatusPartiallyPaid, first)
}

func TestReconciledStatusAfterDeletingAllPayments(t *testing.T) {
	// Deleting the last payment must bring the document back to its
	// posted base status, never to DRAFT.
	total := decimal.NewFromInt(500)

	assert.Equal(t, model.StatusSent, reconciledStatus(model.DocTypeInvoice, total, decimal.Zero))
	assert.Equal(t, model.StatusPosted, reconciledStatus(model.DocTypeVendorBill, total, decimal.Zero))
}
