package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Contact{},
		&model.ContactAddress{},
		&model.Product{},
		&model.CostCenter{},
		&model.AssignmentRule{},
		&model.Document{},
		&model.DocumentLine{},
		&model.DocumentSequence{},
		&model.Payment{},
		&model.Budget{},
		&model.BudgetRevision{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
