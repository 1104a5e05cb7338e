package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, contactType, search string, page, limit int) ([]model.Contact, int64, error)
	DeleteAddressesByContactID(ctx context.Context, contactID uuid.UUID) error
	CreateAddresses(ctx context.Context, addresses []model.ContactAddress) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return GetDB(ctx, r.db).Save(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Contact{}).Error
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := GetDB(ctx, r.db).Preload("Addresses").First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, contactType, search string, page, limit int) ([]model.Contact, int64, error) {
	var contacts []model.Contact
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if contactType != "" {
			q = q.Where("type = ? OR type = ?", contactType, model.ContactTypeBoth)
		}
		if search != "" {
			q = q.Where("name ILIKE ? OR company_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?",
				"%"+search+"%", "%"+search+"%", "%"+search+"%", "%"+search+"%")
		}
		return q
	}

	if err := apply(db.Model(&model.Contact{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := apply(db.Model(&model.Contact{}).Preload("Addresses")).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepository) DeleteAddressesByContactID(ctx context.Context, contactID uuid.UUID) error {
	return GetDB(ctx, r.db).Where("contact_id = ?", contactID).Delete(&model.ContactAddress{}).Error
}

func (r *contactRepository) CreateAddresses(ctx context.Context, addresses []model.ContactAddress) error {
	if len(addresses) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&addresses).Error
}
