package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CostCenter is an analytical account used to attribute document lines
// to an organizational unit for budget tracking.
type CostCenter struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code      string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *uuid.UUID     `gorm:"type:uuid;index" json:"parent_id"`
	Parent    *CostCenter    `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AssignmentRule assigns a default cost center to document lines whose
// product has none configured. Rules are evaluated in ascending priority
// order; the first match wins. A rule with no conditions matches everything.
type AssignmentRule struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string      `gorm:"type:varchar(255);not null" json:"name"`
	ProductCategory string      `gorm:"type:varchar(100)" json:"product_category"` // match on product category, empty = not set
	NameContains    string      `gorm:"type:varchar(255)" json:"name_contains"`    // case-insensitive substring on product name
	VendorID        *uuid.UUID  `gorm:"type:uuid;index" json:"vendor_id"`          // restrict rule to one vendor's documents
	Vendor          *Contact    `gorm:"foreignKey:VendorID" json:"vendor,omitempty"`
	CostCenterID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"cost_center_id"`
	CostCenter      *CostCenter `gorm:"foreignKey:CostCenterID" json:"cost_center,omitempty"`
	Priority        int         `gorm:"type:int;not null;default:100;index" json:"priority"` // lower = evaluated first
	IsActive        bool        `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
