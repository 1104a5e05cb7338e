package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget tracks a spending envelope for one cost center over a period.
// The effective amount is RevisedAmount when set, Amount otherwise.
type Budget struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CostCenterID  uuid.UUID        `gorm:"type:uuid;not null;index" json:"cost_center_id"`
	CostCenter    *CostCenter      `gorm:"foreignKey:CostCenterID" json:"cost_center,omitempty"`
	PeriodStart   time.Time        `gorm:"type:date;not null" json:"period_start"`
	PeriodEnd     time.Time        `gorm:"type:date;not null" json:"period_end"`
	Amount        decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	RevisedAmount *decimal.Decimal `gorm:"type:decimal(18,4)" json:"revised_amount"`
	Revisions     []BudgetRevision `gorm:"foreignKey:BudgetID" json:"revisions,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// BudgetRevision is an append-only history entry, created whenever the
// budget's effective amount changes.
type BudgetRevision struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BudgetID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"budget_id"`
	PreviousAmount decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"previous_amount"`
	NewAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"new_amount"`
	Reason         string          `gorm:"type:text" json:"reason"`
	RevisedBy      *uuid.UUID      `gorm:"type:uuid" json:"revised_by"`
	Revisor        *User           `gorm:"foreignKey:RevisedBy" json:"revisor,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
