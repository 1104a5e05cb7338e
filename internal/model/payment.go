package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentDirection enum constants
const (
	DirectionInbound  = "INBOUND"  // money received (invoices)
	DirectionOutbound = "OUTBOUND" // money paid out (vendor bills)
)

// PaymentMethod enum constants
const (
	MethodBankTransfer = "BANK_TRANSFER"
	MethodCash         = "CASH"
	MethodCard         = "CARD"
	MethodCheck        = "CHECK"
)

// Payment is an immutable cash movement, optionally linked to exactly one
// vendor bill or invoice. Edits are delete + recreate; both creation and
// deletion trigger reconciliation of the linked document.
type Payment struct {
	ID         uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Direction  string          `gorm:"type:varchar(10);not null;index" json:"direction"` // INBOUND, OUTBOUND
	Method     string          `gorm:"type:varchar(20);not null" json:"method"`
	PaidAt     time.Time       `gorm:"type:date;not null" json:"paid_at"`
	DocumentID *uuid.UUID      `gorm:"type:uuid;index" json:"document_id"`
	Document   *Document       `gorm:"foreignKey:DocumentID" json:"document,omitempty"`
	Reference  string          `gorm:"type:varchar(100)" json:"reference"`
	CreatedAt  time.Time       `json:"created_at"`
}
