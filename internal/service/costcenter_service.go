package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CostCenterRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parent_id"`
	IsActive *bool  `json:"is_active"`
}

type CostCenterResponse struct {
	ID         string  `json:"id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	ParentID   *string `json:"parent_id"`
	ParentCode *string `json:"parent_code"`
	IsActive   bool    `json:"is_active"`
	CreatedAt  string  `json:"created_at"`
}

type RuleRequest struct {
	Name            string `json:"name" binding:"required"`
	ProductCategory string `json:"product_category"`
	NameContains    string `json:"name_contains"`
	VendorID        string `json:"vendor_id"`
	CostCenterID    string `json:"cost_center_id" binding:"required"`
	Priority        int    `json:"priority"`
	IsActive        *bool  `json:"is_active"`
}

type RuleResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	ProductCategory string  `json:"product_category"`
	NameContains    string  `json:"name_contains"`
	VendorID        *string `json:"vendor_id"`
	CostCenterID    string  `json:"cost_center_id"`
	CostCenterCode  string  `json:"cost_center_code"`
	Priority        int     `json:"priority"`
	IsActive        bool    `json:"is_active"`
}

// --- Interface ---

type CostCenterService interface {
	CreateCostCenter(ctx context.Context, req CostCenterRequest) (CostCenterResponse, error)
	UpdateCostCenter(ctx context.Context, id string, req CostCenterRequest) (CostCenterResponse, error)
	DeleteCostCenter(ctx context.Context, id string) error
	GetCostCenter(ctx context.Context, id string) (CostCenterResponse, error)
	ListCostCenters(ctx context.Context, search string, page, limit int) ([]CostCenterResponse, int64, error)

	CreateRule(ctx context.Context, req RuleRequest) (RuleResponse, error)
	UpdateRule(ctx context.Context, id string, req RuleRequest) (RuleResponse, error)
	DeleteRule(ctx context.Context, id string) error
	ListRules(ctx context.Context, page, limit int) ([]RuleResponse, int64, error)

	// ResolveCostCenter returns the cost center a line for the given product
	// should carry, or nil when neither the product default nor any rule
	// applies. Absence of a match is a normal outcome, not an error.
	ResolveCostCenter(ctx context.Context, productID uuid.UUID, vendorID *uuid.UUID) (*uuid.UUID, error)
}

type costCenterService struct {
	costCenterRepo repository.CostCenterRepository
	ruleRepo       repository.RuleRepository
	productRepo    repository.ProductRepository
}

func NewCostCenterService(
	costCenterRepo repository.CostCenterRepository,
	ruleRepo repository.RuleRepository,
	productRepo repository.ProductRepository,
) CostCenterService {
	return &costCenterService{
		costCenterRepo: costCenterRepo,
		ruleRepo:       ruleRepo,
		productRepo:    productRepo,
	}
}

// --- Rule engine ---

func (s *costCenterService) ResolveCostCenter(ctx context.Context, productID uuid.UUID, vendorID *uuid.UUID) (*uuid.UUID, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// A statically configured product default beats every rule.
	if product.DefaultCostCenterID != nil {
		return product.DefaultCostCenterID, nil
	}

	rules, err := s.ruleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return pickRuleTarget(rules, product.Category, product.Name, vendorID), nil
}

// pickRuleTarget walks rules in evaluation order and returns the first
// matching rule's cost center, or nil when nothing matches.
func pickRuleTarget(rules []model.AssignmentRule, category, name string, vendorID *uuid.UUID) *uuid.UUID {
	for _, rule := range rules {
		if rule.VendorID != nil {
			if vendorID == nil || *rule.VendorID != *vendorID {
				continue
			}
		}
		if ruleMatches(rule, category, name) {
			target := rule.CostCenterID
			return &target
		}
	}
	return nil
}

// ruleMatches checks category first, then the case-insensitive name
// substring. A rule with neither condition matches everything.
func ruleMatches(rule model.AssignmentRule, category, name string) bool {
	if rule.ProductCategory != "" && strings.EqualFold(rule.ProductCategory, category) {
		return true
	}
	if rule.NameContains != "" && strings.Contains(strings.ToLower(name), strings.ToLower(rule.NameContains)) {
		return true
	}
	return rule.ProductCategory == "" && rule.NameContains == ""
}

// --- Cost center CRUD ---

func (s *costCenterService) CreateCostCenter(ctx context.Context, req CostCenterRequest) (CostCenterResponse, error) {
	cc := model.CostCenter{
		Code:     req.Code,
		Name:     req.Name,
		IsActive: true,
	}
	if req.IsActive != nil {
		cc.IsActive = *req.IsActive
	}

	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return CostCenterResponse{}, fmt.Errorf("invalid parent_id: %w", err)
		}
		if _, err := s.costCenterRepo.FindByID(ctx, parentID); err != nil {
			return CostCenterResponse{}, fmt.Errorf("parent cost center not found: %w", err)
		}
		cc.ParentID = &parentID
	}

	if err := s.costCenterRepo.Create(ctx, &cc); err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to create cost center: %w", err)
	}

	reloaded, err := s.costCenterRepo.FindByID(ctx, cc.ID)
	if err != nil {
		return CostCenterResponse{}, err
	}
	return toCostCenterResponse(*reloaded), nil
}

func (s *costCenterService) UpdateCostCenter(ctx context.Context, id string, req CostCenterRequest) (CostCenterResponse, error) {
	ccID, err := uuid.Parse(id)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("invalid cost center id: %w", err)
	}

	cc, err := s.costCenterRepo.FindByID(ctx, ccID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostCenterResponse{}, ErrNotFound
		}
		return CostCenterResponse{}, err
	}

	cc.Code = req.Code
	cc.Name = req.Name
	if req.IsActive != nil {
		cc.IsActive = *req.IsActive
	}

	cc.ParentID = nil
	if req.ParentID != "" {
		parentID, parseErr := uuid.Parse(req.ParentID)
		if parseErr != nil {
			return CostCenterResponse{}, fmt.Errorf("invalid parent_id: %w", parseErr)
		}
		if err := s.validateNoCycle(ctx, ccID, parentID); err != nil {
			return CostCenterResponse{}, err
		}
		cc.ParentID = &parentID
	}

	if err := s.costCenterRepo.Update(ctx, cc); err != nil {
		return CostCenterResponse{}, fmt.Errorf("failed to update cost center: %w", err)
	}

	reloaded, err := s.costCenterRepo.FindByID(ctx, ccID)
	if err != nil {
		return CostCenterResponse{}, err
	}
	return toCostCenterResponse(*reloaded), nil
}

// validateNoCycle walks from the proposed parent to the root and refuses
// any assignment that would make the cost center its own ancestor.
func (s *costCenterService) validateNoCycle(ctx context.Context, ccID, parentID uuid.UUID) error {
	if ccID == parentID {
		return fmt.Errorf("cost center cannot be its own parent")
	}

	seen := map[uuid.UUID]bool{ccID: true}
	current := parentID
	for {
		if seen[current] {
			return fmt.Errorf("cost center hierarchy would contain a cycle")
		}
		seen[current] = true

		node, err := s.costCenterRepo.FindByID(ctx, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("parent cost center not found")
			}
			return err
		}
		if node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

func (s *costCenterService) DeleteCostCenter(ctx context.Context, id string) error {
	ccID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid cost center id: %w", err)
	}

	children, err := s.costCenterRepo.CountChildren(ctx, ccID)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: cost center has child centers", ErrDependentRecordsExist)
	}

	return s.costCenterRepo.Delete(ctx, ccID)
}

func (s *costCenterService) GetCostCenter(ctx context.Context, id string) (CostCenterResponse, error) {
	ccID, err := uuid.Parse(id)
	if err != nil {
		return CostCenterResponse{}, fmt.Errorf("invalid cost center id: %w", err)
	}

	cc, err := s.costCenterRepo.FindByID(ctx, ccID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostCenterResponse{}, ErrNotFound
		}
		return CostCenterResponse{}, err
	}
	return toCostCenterResponse(*cc), nil
}

func (s *costCenterService) ListCostCenters(ctx context.Context, search string, page, limit int) ([]CostCenterResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	centers, total, err := s.costCenterRepo.List(ctx, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch cost centers: %w", err)
	}

	result := make([]CostCenterResponse, 0, len(centers))
	for _, cc := range centers {
		result = append(result, toCostCenterResponse(cc))
	}
	return result, total, nil
}

// --- Rule CRUD ---

func (s *costCenterService) CreateRule(ctx context.Context, req RuleRequest) (RuleResponse, error) {
	rule, err := s.ruleFromRequest(ctx, req)
	if err != nil {
		return RuleResponse{}, err
	}

	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return RuleResponse{}, fmt.Errorf("failed to create rule: %w", err)
	}

	reloaded, err := s.ruleRepo.FindByID(ctx, rule.ID)
	if err != nil {
		return RuleResponse{}, err
	}
	return toRuleResponse(*reloaded), nil
}

func (s *costCenterService) UpdateRule(ctx context.Context, id string, req RuleRequest) (RuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return RuleResponse{}, fmt.Errorf("invalid rule id: %w", err)
	}

	if _, err := s.ruleRepo.FindByID(ctx, ruleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RuleResponse{}, ErrNotFound
		}
		return RuleResponse{}, err
	}

	rule, err := s.ruleFromRequest(ctx, req)
	if err != nil {
		return RuleResponse{}, err
	}
	rule.ID = ruleID

	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return RuleResponse{}, fmt.Errorf("failed to update rule: %w", err)
	}

	reloaded, err := s.ruleRepo.FindByID(ctx, ruleID)
	if err != nil {
		return RuleResponse{}, err
	}
	return toRuleResponse(*reloaded), nil
}

func (s *costCenterService) ruleFromRequest(ctx context.Context, req RuleRequest) (*model.AssignmentRule, error) {
	ccID, err := uuid.Parse(req.CostCenterID)
	if err != nil {
		return nil, fmt.Errorf("invalid cost_center_id: %w", err)
	}
	if _, err := s.costCenterRepo.FindByID(ctx, ccID); err != nil {
		return nil, fmt.Errorf("target cost center not found: %w", err)
	}

	rule := model.AssignmentRule{
		Name:            req.Name,
		ProductCategory: req.ProductCategory,
		NameContains:    req.NameContains,
		CostCenterID:    ccID,
		Priority:        req.Priority,
		IsActive:        true,
	}
	if rule.Priority == 0 {
		rule.Priority = 100
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.VendorID != "" {
		vendorID, parseErr := uuid.Parse(req.VendorID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid vendor_id: %w", parseErr)
		}
		rule.VendorID = &vendorID
	}
	return &rule, nil
}

func (s *costCenterService) DeleteRule(ctx context.Context, id string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid rule id: %w", err)
	}
	return s.ruleRepo.Delete(ctx, ruleID)
}

func (s *costCenterService) ListRules(ctx context.Context, page, limit int) ([]RuleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	rules, total, err := s.ruleRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch rules: %w", err)
	}

	result := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, toRuleResponse(rule))
	}
	return result, total, nil
}

// --- Mapping ---

func toCostCenterResponse(cc model.CostCenter) CostCenterResponse {
	resp := CostCenterResponse{
		ID:        cc.ID.String(),
		Code:      cc.Code,
		Name:      cc.Name,
		IsActive:  cc.IsActive,
		CreatedAt: cc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if cc.ParentID != nil {
		s := cc.ParentID.String()
		resp.ParentID = &s
	}
	if cc.Parent != nil {
		resp.ParentCode = &cc.Parent.Code
	}
	return resp
}

func toRuleResponse(rule model.AssignmentRule) RuleResponse {
	resp := RuleResponse{
		ID:              rule.ID.String(),
		Name:            rule.Name,
		ProductCategory: rule.ProductCategory,
		NameContains:    rule.NameContains,
		CostCenterID:    rule.CostCenterID.String(),
		Priority:        rule.Priority,
		IsActive:        rule.IsActive,
	}
	if rule.VendorID != nil {
		s := rule.VendorID.String()
		resp.VendorID = &s
	}
	if rule.CostCenter != nil {
		resp.CostCenterCode = rule.CostCenter.Code
	}
	return resp
}
