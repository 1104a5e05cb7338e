package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentListFilter narrows List results. Empty fields are ignored.
type DocumentListFilter struct {
	Type      string
	Status    string
	ContactID *uuid.UUID
	Search    string // partial match on document number
	Page      int
	Limit     int
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error)
	FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter DocumentListFilter) ([]model.Document, int64, error)
	ReplaceLines(ctx context.Context, doc *model.Document, lines []model.DocumentLine) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdatePaymentState(ctx context.Context, id uuid.UUID, paidAmount decimal.Decimal, status string) error
	CountBySource(ctx context.Context, sourceID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *model.Document) error {
	return GetDB(ctx, r.db).Create(doc).Error
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByIDWithLines(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := GetDB(ctx, r.db).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Lines.Product").
		Preload("Lines.CostCenter").
		Preload("Contact").
		First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter DocumentListFilter) ([]model.Document, int64, error) {
	var docs []model.Document
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Type != "" {
			q = q.Where("type = ?", filter.Type)
		}
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.ContactID != nil {
			q = q.Where("contact_id = ?", *filter.ContactID)
		}
		if filter.Search != "" {
			q = q.Where("number ILIKE ?", "%"+filter.Search+"%")
		}
		return q
	}

	if err := apply(db.Model(&model.Document{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	if err := apply(db.Preload("Contact")).
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&docs).Error; err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// ReplaceLines swaps the document's full line set and saves the document's
// recomputed aggregates in one go. Callers must run it inside RunInTx so a
// reader never sees new lines with stale totals.
func (r *documentRepository) ReplaceLines(ctx context.Context, doc *model.Document, lines []model.DocumentLine) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("document_id = ?", doc.ID).Delete(&model.DocumentLine{}).Error; err != nil {
		return err
	}
	for i := range lines {
		lines[i].DocumentID = doc.ID
		lines[i].Position = i
	}
	if len(lines) > 0 {
		if err := db.Create(&lines).Error; err != nil {
			return err
		}
	}
	doc.Lines = nil // avoid re-saving associations
	return db.Omit("Lines").Save(doc).Error
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return GetDB(ctx, r.db).Model(&model.Document{}).Where("id = ?", id).Update("status", status).Error
}

func (r *documentRepository) UpdatePaymentState(ctx context.Context, id uuid.UUID, paidAmount decimal.Decimal, status string) error {
	return GetDB(ctx, r.db).Model(&model.Document{}).Where("id = ?", id).
		Updates(map[string]interface{}{"paid_amount": paidAmount, "status": status}).Error
}

func (r *documentRepository) CountBySource(ctx context.Context, sourceID uuid.UUID) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Document{}).
		Where("source_document_id = ? AND status <> ?", sourceID, model.StatusCancelled).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("document_id = ?", id).Delete(&model.DocumentLine{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Document{}).Error
}
