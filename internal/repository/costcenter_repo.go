package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CostCenterRepository interface {
	Create(ctx context.Context, cc *model.CostCenter) error
	Update(ctx context.Context, cc *model.CostCenter) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CostCenter, error)
	FindByCode(ctx context.Context, code string) (*model.CostCenter, error)
	List(ctx context.Context, search string, page, limit int) ([]model.CostCenter, int64, error)
	ListAll(ctx context.Context) ([]model.CostCenter, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
}

type costCenterRepository struct {
	db *gorm.DB
}

func NewCostCenterRepository(db *gorm.DB) CostCenterRepository {
	return &costCenterRepository{db: db}
}

func (r *costCenterRepository) Create(ctx context.Context, cc *model.CostCenter) error {
	return GetDB(ctx, r.db).Create(cc).Error
}

func (r *costCenterRepository) Update(ctx context.Context, cc *model.CostCenter) error {
	return GetDB(ctx, r.db).Save(cc).Error
}

func (r *costCenterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.CostCenter{}).Error
}

func (r *costCenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CostCenter, error) {
	var cc model.CostCenter
	if err := GetDB(ctx, r.db).Preload("Parent").First(&cc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cc, nil
}

func (r *costCenterRepository) FindByCode(ctx context.Context, code string) (*model.CostCenter, error) {
	var cc model.CostCenter
	if err := GetDB(ctx, r.db).First(&cc, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &cc, nil
}

func (r *costCenterRepository) List(ctx context.Context, search string, page, limit int) ([]model.CostCenter, int64, error) {
	var centers []model.CostCenter
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.CostCenter{})
	if search != "" {
		query = query.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Parent")
	if search != "" {
		fetchQuery = fetchQuery.Where("code ILIKE ? OR name ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if err := fetchQuery.Order("code ASC").Offset(offset).Limit(limit).Find(&centers).Error; err != nil {
		return nil, 0, err
	}

	return centers, total, nil
}

func (r *costCenterRepository) ListAll(ctx context.Context) ([]model.CostCenter, error) {
	var centers []model.CostCenter
	if err := GetDB(ctx, r.db).Order("code ASC").Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

func (r *costCenterRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.CostCenter{}).Where("parent_id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
