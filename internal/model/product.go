package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable or purchasable item
type Product struct {
	ID                  uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU                 string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Name                string          `gorm:"type:varchar(255);not null" json:"name"`
	Category            string          `gorm:"type:varchar(100);index" json:"category"`
	SalesPrice          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"sales_price"`
	PurchasePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"purchase_price"`
	DefaultTaxRate      decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0" json:"default_tax_rate"` // percentage, e.g. 18 = 18%
	DefaultCostCenterID *uuid.UUID      `gorm:"type:uuid;index" json:"default_cost_center_id"`                 // Highest precedence for line assignment
	DefaultCostCenter   *CostCenter     `gorm:"foreignKey:DefaultCostCenterID" json:"default_cost_center,omitempty"`
	IsActive            bool            `gorm:"default:true" json:"is_active"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"-"`
}
