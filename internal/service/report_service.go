package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// BudgetActualRow compares a cost center's effective budget with the spend
// booked against it by vendor bills in the period.
type BudgetActualRow struct {
	CostCenterID   string `json:"cost_center_id"`
	CostCenterCode string `json:"cost_center_code"`
	CostCenterName string `json:"cost_center_name"`
	Budget         string `json:"budget"`
	Actual         string `json:"actual"`
	Remaining      string `json:"remaining"`
}

type BudgetActualFilter struct {
	StartDate string // YYYY-MM-DD
	EndDate   string
}

// --- Interface ---

type ReportService interface {
	BudgetVsActual(ctx context.Context, filter BudgetActualFilter) ([]BudgetActualRow, error)
	Aging(ctx context.Context, docType string) ([]repository.AgingBucket, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
	budgetRepo repository.BudgetRepository
}

func NewReportService(reportRepo repository.ReportRepository, budgetRepo repository.BudgetRepository) ReportService {
	return &reportService{reportRepo: reportRepo, budgetRepo: budgetRepo}
}

// --- Implementation ---

func (s *reportService) BudgetVsActual(ctx context.Context, filter BudgetActualFilter) ([]BudgetActualRow, error) {
	start, err := time.Parse(dateLayout, filter.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(dateLayout, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}

	spend, err := s.reportRepo.SpendByCostCenter(ctx, model.DocTypeVendorBill, start, end)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.ListOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}

	// Sum overlapping budgets per cost center; a cost center may carry
	// several budget rows within one reporting window.
	budgetByCC := make(map[string]decimal.Decimal)
	for i := range budgets {
		key := budgets[i].CostCenterID.String()
		budgetByCC[key] = budgetByCC[key].Add(effectiveAmount(&budgets[i]))
	}

	rows := make([]BudgetActualRow, 0, len(spend))
	seen := make(map[string]bool, len(spend))
	for _, row := range spend {
		actual, parseErr := decimal.NewFromString(row.Actual)
		if parseErr != nil {
			actual = decimal.Zero
		}
		budget := budgetByCC[row.CostCenterID]
		rows = append(rows, BudgetActualRow{
			CostCenterID:   row.CostCenterID,
			CostCenterCode: row.Code,
			CostCenterName: row.Name,
			Budget:         budget.StringFixed(4),
			Actual:         actual.StringFixed(4),
			Remaining:      budget.Sub(actual).StringFixed(4),
		})
		seen[row.CostCenterID] = true
	}

	// Budgeted cost centers with no spend still show up, fully remaining.
	for i := range budgets {
		key := budgets[i].CostCenterID.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		budget := budgetByCC[key]
		row := BudgetActualRow{
			CostCenterID: key,
			Budget:       budget.StringFixed(4),
			Actual:       decimal.Zero.StringFixed(4),
			Remaining:    budget.StringFixed(4),
		}
		if budgets[i].CostCenter != nil {
			row.CostCenterCode = budgets[i].CostCenter.Code
			row.CostCenterName = budgets[i].CostCenter.Name
		}
		rows = append(rows, row)
	}

	return rows, nil
}

func (s *reportService) Aging(ctx context.Context, docType string) ([]repository.AgingBucket, error) {
	if docType != model.DocTypeVendorBill && docType != model.DocTypeInvoice {
		return nil, fmt.Errorf("aging report supports VENDOR_BILL and INVOICE only")
	}
	return s.reportRepo.AgingSummary(ctx, docType, time.Now())
}
