package repository

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *model.Budget) error
	Update(ctx context.Context, budget *model.Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error)
	List(ctx context.Context, costCenterID *uuid.UUID, page, limit int) ([]model.Budget, int64, error)
	ListOverlapping(ctx context.Context, start, end time.Time) ([]model.Budget, error)
	CreateRevision(ctx context.Context, revision *model.BudgetRevision) error
}

type budgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepository {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Create(budget).Error
}

func (r *budgetRepository) Update(ctx context.Context, budget *model.Budget) error {
	return GetDB(ctx, r.db).Omit("Revisions").Save(budget).Error
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)
	if err := db.Where("budget_id = ?", id).Delete(&model.BudgetRevision{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&model.Budget{}).Error
}

func (r *budgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Budget, error) {
	var budget model.Budget
	if err := GetDB(ctx, r.db).
		Preload("CostCenter").
		Preload("Revisions", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Revisions.Revisor").
		First(&budget, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepository) List(ctx context.Context, costCenterID *uuid.UUID, page, limit int) ([]model.Budget, int64, error) {
	var budgets []model.Budget
	var total int64

	db := GetDB(ctx, r.db)
	apply := func(q *gorm.DB) *gorm.DB {
		if costCenterID != nil {
			q = q.Where("cost_center_id = ?", *costCenterID)
		}
		return q
	}

	if err := apply(db.Model(&model.Budget{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := apply(db.Preload("CostCenter")).
		Order("period_start DESC").
		Offset(offset).Limit(limit).
		Find(&budgets).Error; err != nil {
		return nil, 0, err
	}

	return budgets, total, nil
}

func (r *budgetRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]model.Budget, error) {
	var budgets []model.Budget
	if err := GetDB(ctx, r.db).Preload("CostCenter").
		Where("period_start <= ? AND period_end >= ?", end, start).
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *budgetRepository) CreateRevision(ctx context.Context, revision *model.BudgetRevision) error {
	return GetDB(ctx, r.db).Create(revision).Error
}
