package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactType enum constants
const (
	ContactTypeCustomer = "CUSTOMER"
	ContactTypeVendor   = "VENDOR"
	ContactTypeBoth     = "BOTH"
)

// AddressType enum constants
const (
	AddressTypeBilling  = "BILLING"
	AddressTypeShipping = "SHIPPING"
)

// Contact represents a customer, vendor, or both
type Contact struct {
	ID            uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name          string           `gorm:"type:varchar(255);not null" json:"name"`
	Type          string           `gorm:"type:varchar(20);not null;index" json:"type"` // CUSTOMER, VENDOR, BOTH
	TaxCode       string           `gorm:"type:varchar(50)" json:"tax_code"`
	CompanyName   string           `gorm:"type:varchar(255)" json:"company_name"`
	BankAccount   string           `gorm:"type:varchar(100)" json:"bank_account"`
	ContactPerson string           `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string           `gorm:"type:varchar(50)" json:"phone"`
	Email         string           `gorm:"type:varchar(255)" json:"email"`
	IsActive      bool             `gorm:"default:true" json:"is_active"`
	Addresses     []ContactAddress `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"addresses"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`
}

// ContactAddress represents a contact's address (Billing, Shipping)
type ContactAddress struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ContactID   uuid.UUID `gorm:"type:uuid;not null;index" json:"contact_id"`
	AddressType string    `gorm:"type:varchar(20);not null" json:"address_type"` // BILLING, SHIPPING
	FullAddress string    `gorm:"type:text;not null" json:"full_address"`
	IsDefault   bool      `gorm:"default:false" json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
