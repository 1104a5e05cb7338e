package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateBudgetRequest struct {
	CostCenterID string `json:"cost_center_id" binding:"required"`
	PeriodStart  string `json:"period_start" binding:"required"` // YYYY-MM-DD
	PeriodEnd    string `json:"period_end" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
}

type ReviseBudgetRequest struct {
	Amount string `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type BudgetRevisionResponse struct {
	PreviousAmount string `json:"previous_amount"`
	NewAmount      string `json:"new_amount"`
	Reason         string `json:"reason"`
	RevisedBy      string `json:"revised_by,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type BudgetResponse struct {
	ID              string                   `json:"id"`
	CostCenterID    string                   `json:"cost_center_id"`
	CostCenterCode  string                   `json:"cost_center_code,omitempty"`
	PeriodStart     string                   `json:"period_start"`
	PeriodEnd       string                   `json:"period_end"`
	Amount          string                   `json:"amount"`
	RevisedAmount   *string                  `json:"revised_amount"`
	EffectiveAmount string                   `json:"effective_amount"`
	Revisions       []BudgetRevisionResponse `json:"revisions,omitempty"`
	CreatedAt       string                   `json:"created_at"`
}

// --- Interface ---

type BudgetService interface {
	CreateBudget(ctx context.Context, req CreateBudgetRequest) (BudgetResponse, error)
	ReviseBudget(ctx context.Context, id string, req ReviseBudgetRequest, userID string) (BudgetResponse, error)
	GetBudget(ctx context.Context, id string) (BudgetResponse, error)
	ListBudgets(ctx context.Context, costCenterID string, page, limit int) ([]BudgetResponse, int64, error)
	DeleteBudget(ctx context.Context, id string) error
}

type budgetService struct {
	budgetRepo     repository.BudgetRepository
	costCenterRepo repository.CostCenterRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewBudgetService(
	budgetRepo repository.BudgetRepository,
	costCenterRepo repository.CostCenterRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) BudgetService {
	return &budgetService{
		budgetRepo:     budgetRepo,
		costCenterRepo: costCenterRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// --- Implementation ---

func (s *budgetService) CreateBudget(ctx context.Context, req CreateBudgetRequest) (BudgetResponse, error) {
	ccID, err := uuid.Parse(req.CostCenterID)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid cost_center_id: %w", err)
	}
	if _, err := s.costCenterRepo.FindByID(ctx, ccID); err != nil {
		return BudgetResponse{}, fmt.Errorf("cost center not found: %w", err)
	}

	start, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid period_start: %w", err)
	}
	end, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid period_end: %w", err)
	}
	if end.Before(start) {
		return BudgetResponse{}, fmt.Errorf("period_end must not precede period_start")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return BudgetResponse{}, fmt.Errorf("budget amount must not be negative")
	}

	budget := model.Budget{
		CostCenterID: ccID,
		PeriodStart:  start,
		PeriodEnd:    end,
		Amount:       amount,
	}
	if err := s.budgetRepo.Create(ctx, &budget); err != nil {
		return BudgetResponse{}, fmt.Errorf("failed to create budget: %w", err)
	}

	return s.reload(ctx, budget.ID)
}

// ReviseBudget changes the effective amount and appends a revision entry in
// the same transaction, so the history never misses a change.
func (s *budgetService) ReviseBudget(ctx context.Context, id string, req ReviseBudgetRequest, userID string) (BudgetResponse, error) {
	budgetID, err := uuid.Parse(id)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid budget id: %w", err)
	}

	newAmount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid amount: %w", err)
	}
	if newAmount.IsNegative() {
		return BudgetResponse{}, fmt.Errorf("budget amount must not be negative")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		budget, findErr := s.budgetRepo.FindByID(txCtx, budgetID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return findErr
		}

		previous := effectiveAmount(budget)
		if previous.Equal(newAmount) {
			// No change, no revision entry.
			return nil
		}

		revision := model.BudgetRevision{
			BudgetID:       budgetID,
			PreviousAmount: previous,
			NewAmount:      newAmount,
			Reason:         req.Reason,
		}
		if parsed, parseErr := uuid.Parse(userID); parseErr == nil {
			revision.RevisedBy = &parsed
		}
		if createErr := s.budgetRepo.CreateRevision(txCtx, &revision); createErr != nil {
			return createErr
		}

		budget.RevisedAmount = &newAmount
		if updateErr := s.budgetRepo.Update(txCtx, budget); updateErr != nil {
			return updateErr
		}

		entry := model.AuditLog{
			Action:   model.ActionReviseBudget,
			EntityID: budgetID.String(),
			Details:  fmt.Sprintf(`{"previous":%q,"new":%q}`, previous.StringFixed(4), newAmount.StringFixed(4)),
		}
		entry.UserID = revision.RevisedBy
		_ = s.auditRepo.Log(txCtx, &entry)
		return nil
	})
	if err != nil {
		return BudgetResponse{}, err
	}

	return s.reload(ctx, budgetID)
}

func (s *budgetService) GetBudget(ctx context.Context, id string) (BudgetResponse, error) {
	budgetID, err := uuid.Parse(id)
	if err != nil {
		return BudgetResponse{}, fmt.Errorf("invalid budget id: %w", err)
	}
	return s.reload(ctx, budgetID)
}

func (s *budgetService) ListBudgets(ctx context.Context, costCenterID string, page, limit int) ([]BudgetResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	var ccID *uuid.UUID
	if costCenterID != "" {
		parsed, err := uuid.Parse(costCenterID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid cost_center_id: %w", err)
		}
		ccID = &parsed
	}

	budgets, total, err := s.budgetRepo.List(ctx, ccID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch budgets: %w", err)
	}

	result := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		result = append(result, toBudgetResponse(b))
	}
	return result, total, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, id string) error {
	budgetID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid budget id: %w", err)
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return s.budgetRepo.Delete(txCtx, budgetID)
	})
}

// --- Helpers ---

func effectiveAmount(budget *model.Budget) decimal.Decimal {
	if budget.RevisedAmount != nil {
		return *budget.RevisedAmount
	}
	return budget.Amount
}

func (s *budgetService) reload(ctx context.Context, id uuid.UUID) (BudgetResponse, error) {
	budget, err := s.budgetRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BudgetResponse{}, ErrNotFound
		}
		return BudgetResponse{}, err
	}
	return toBudgetResponse(*budget), nil
}

// --- Mapping ---

func toBudgetResponse(budget model.Budget) BudgetResponse {
	resp := BudgetResponse{
		ID:              budget.ID.String(),
		CostCenterID:    budget.CostCenterID.String(),
		PeriodStart:     budget.PeriodStart.Format(dateLayout),
		PeriodEnd:       budget.PeriodEnd.Format(dateLayout),
		Amount:          budget.Amount.StringFixed(4),
		EffectiveAmount: effectiveAmount(&budget).StringFixed(4),
		CreatedAt:       budget.CreatedAt.Format(time.RFC3339),
	}
	if budget.CostCenter != nil {
		resp.CostCenterCode = budget.CostCenter.Code
	}
	if budget.RevisedAmount != nil {
		revised := budget.RevisedAmount.StringFixed(4)
		resp.RevisedAmount = &revised
	}
	for _, rev := range budget.Revisions {
		revResp := BudgetRevisionResponse{
			PreviousAmount: rev.PreviousAmount.StringFixed(4),
			NewAmount:      rev.NewAmount.StringFixed(4),
			Reason:         rev.Reason,
			CreatedAt:      rev.CreatedAt.Format(time.RFC3339),
		}
		if rev.Revisor != nil {
			revResp.RevisedBy = rev.Revisor.Username
		}
		resp.Revisions = append(resp.Revisions, revResp)
	}
	return resp
}
