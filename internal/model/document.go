package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType enum constants
const (
	DocTypePurchaseOrder = "PURCHASE_ORDER"
	DocTypeVendorBill    = "VENDOR_BILL"
	DocTypeSalesOrder    = "SALES_ORDER"
	DocTypeInvoice       = "INVOICE"
)

// DocumentStatus enum constants
const (
	StatusDraft         = "DRAFT"
	StatusPosted        = "POSTED" // purchase orders, vendor bills
	StatusSent          = "SENT"   // sales orders, invoices
	StatusPartiallyPaid = "PARTIALLY_PAID"
	StatusPaid          = "PAID"
	StatusCancelled     = "CANCELLED"
)

// PostedStatus returns the base status a document of the given type holds
// once posted and before any payment is linked.
func PostedStatus(docType string) string {
	switch docType {
	case DocTypeSalesOrder, DocTypeInvoice:
		return StatusSent
	default:
		return StatusPosted
	}
}

// NumberPrefix returns the human-readable number prefix per document type.
func NumberPrefix(docType string) string {
	switch docType {
	case DocTypePurchaseOrder:
		return "PO"
	case DocTypeVendorBill:
		return "BILL"
	case DocTypeSalesOrder:
		return "SO"
	default:
		return "INV"
	}
}

// Document represents any of the four transactional documents: purchase
// order, vendor bill, sales order, invoice. Subtotal/TaxAmount/TotalAmount
// are derived sums over the lines; PaidAmount is derived from linked
// payments. Neither is ever edited directly.
type Document struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Number           string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	Type             string          `gorm:"type:varchar(20);not null;index" json:"type"`
	ContactID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"contact_id"`
	Contact          *Contact        `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	DocumentDate     time.Time       `gorm:"type:date;not null" json:"document_date"`
	DueDate          *time.Time      `gorm:"type:date" json:"due_date"`
	Status           string          `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"subtotal"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"total_amount"`
	PaidAmount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"paid_amount"`
	Notes            string          `gorm:"type:text" json:"notes"`
	SourceDocumentID *uuid.UUID      `gorm:"type:uuid;index" json:"source_document_id"` // bill -> purchase order, invoice -> sales order
	Lines            []DocumentLine  `gorm:"foreignKey:DocumentID" json:"lines"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DocumentLine is a priced line item within a document. Subtotal, TaxAmount
// and LineTotal are always recomputed from Quantity/UnitPrice/TaxRate on
// every edit, never stored independently of their inputs.
type DocumentLine struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DocumentID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"document_id"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Description  string          `gorm:"type:text" json:"description"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"unit_price"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"tax_rate"` // percentage
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"subtotal"`
	TaxAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tax_amount"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"line_total"`
	CostCenterID *uuid.UUID      `gorm:"type:uuid;index" json:"cost_center_id"`
	CostCenter   *CostCenter     `gorm:"foreignKey:CostCenterID" json:"cost_center,omitempty"`
	Position     int             `gorm:"type:int;not null;default:0" json:"position"`
}

// DocumentSequence backs human-readable document numbering. The value is
// advanced with a single upsert + RETURNING so concurrent creations never
// observe the same number.
type DocumentSequence struct {
	Name  string `gorm:"type:varchar(30);primaryKey" json:"name"`
	Value int64  `gorm:"type:bigint;not null" json:"value"`
}
