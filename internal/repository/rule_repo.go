package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RuleRepository interface {
	Create(ctx context.Context, rule *model.AssignmentRule) error
	Update(ctx context.Context, rule *model.AssignmentRule) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AssignmentRule, error)
	List(ctx context.Context, page, limit int) ([]model.AssignmentRule, int64, error)
	ListActive(ctx context.Context) ([]model.AssignmentRule, error)
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(ctx context.Context, rule *model.AssignmentRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *ruleRepository) Update(ctx context.Context, rule *model.AssignmentRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.AssignmentRule{}).Error
}

func (r *ruleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AssignmentRule, error) {
	var rule model.AssignmentRule
	if err := GetDB(ctx, r.db).Preload("CostCenter").First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *ruleRepository) List(ctx context.Context, page, limit int) ([]model.AssignmentRule, int64, error) {
	var rules []model.AssignmentRule
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AssignmentRule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("CostCenter").Preload("Vendor").
		Order("priority ASC, created_at ASC").
		Offset(offset).Limit(limit).
		Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

// ListActive returns active rules in evaluation order: ascending priority,
// oldest first on ties.
func (r *ruleRepository) ListActive(ctx context.Context) ([]model.AssignmentRule, error) {
	var rules []model.AssignmentRule
	if err := GetDB(ctx, r.db).
		Where("is_active = ?", true).
		Order("priority ASC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}
