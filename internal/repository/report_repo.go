package repository

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"

	"gorm.io/gorm"
)

// CostCenterSpend is one row of the budget-vs-actual report: money booked
// against a cost center by non-draft, non-cancelled vendor bills in a period.
type CostCenterSpend struct {
	CostCenterID string `json:"cost_center_id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	Actual       string `json:"actual"`
}

// AgingBucket groups outstanding amounts of open bills/invoices by days overdue.
type AgingBucket struct {
	Bucket      string `json:"bucket"`
	Count       int    `json:"count"`
	Outstanding string `json:"outstanding"`
}

type ReportRepository interface {
	SpendByCostCenter(ctx context.Context, docType string, start, end time.Time) ([]CostCenterSpend, error)
	AgingSummary(ctx context.Context, docType string, asOf time.Time) ([]AgingBucket, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SpendByCostCenter(ctx context.Context, docType string, start, end time.Time) ([]CostCenterSpend, error) {
	var rows []CostCenterSpend
	if err := r.db.WithContext(ctx).Table("document_lines").
		Select("cost_centers.id as cost_center_id, cost_centers.code as code, cost_centers.name as name, COALESCE(CAST(SUM(document_lines.line_total) AS TEXT), '0') as actual").
		Joins("JOIN documents ON documents.id = document_lines.document_id").
		Joins("JOIN cost_centers ON cost_centers.id = document_lines.cost_center_id").
		Where("documents.type = ? AND documents.status NOT IN (?, ?) AND documents.document_date >= ? AND documents.document_date <= ?",
			docType, model.StatusDraft, model.StatusCancelled, start, end).
		Group("cost_centers.id, cost_centers.code, cost_centers.name").
		Order("cost_centers.code ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query cost center spend: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) AgingSummary(ctx context.Context, docType string, asOf time.Time) ([]AgingBucket, error) {
	var rows []AgingBucket
	if err := r.db.WithContext(ctx).Table("documents").
		Select(`CASE
			WHEN due_date IS NULL OR due_date >= ? THEN 'CURRENT'
			WHEN due_date >= ? THEN '1_30'
			WHEN due_date >= ? THEN '31_60'
			WHEN due_date >= ? THEN '61_90'
			ELSE 'OVER_90'
		END as bucket,
		COUNT(*) as count,
		CAST(SUM(total_amount - paid_amount) AS TEXT) as outstanding`,
			asOf, asOf.AddDate(0, 0, -30), asOf.AddDate(0, 0, -60), asOf.AddDate(0, 0, -90)).
		Where("type = ? AND status IN (?, ?, ?)",
			docType, model.StatusPosted, model.StatusSent, model.StatusPartiallyPaid).
		Group("bucket").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query aging summary: %w", err)
	}
	return rows, nil
}
