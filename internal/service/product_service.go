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

type ProductRequest struct {
	SKU                 string `json:"sku" binding:"required"`
	Name                string `json:"name" binding:"required"`
	Category            string `json:"category"`
	SalesPrice          string `json:"sales_price"`
	PurchasePrice       string `json:"purchase_price"`
	DefaultTaxRate      string `json:"default_tax_rate"`
	DefaultCostCenterID string `json:"default_cost_center_id"`
	IsActive            *bool  `json:"is_active"`
}

type ProductResponse struct {
	ID                    string  `json:"id"`
	SKU                   string  `json:"sku"`
	Name                  string  `json:"name"`
	Category              string  `json:"category"`
	SalesPrice            string  `json:"sales_price"`
	PurchasePrice         string  `json:"purchase_price"`
	DefaultTaxRate        string  `json:"default_tax_rate"`
	DefaultCostCenterID   *string `json:"default_cost_center_id"`
	DefaultCostCenterCode string  `json:"default_cost_center_code,omitempty"`
	IsActive              bool    `json:"is_active"`
	CreatedAt             string  `json:"created_at"`
}

// --- Interface ---

type ProductService interface {
	CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req ProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (ProductResponse, error)
	ListProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error)
}

type productService struct {
	productRepo    repository.ProductRepository
	costCenterRepo repository.CostCenterRepository
}

func NewProductService(productRepo repository.ProductRepository, costCenterRepo repository.CostCenterRepository) ProductService {
	return &productService{productRepo: productRepo, costCenterRepo: costCenterRepo}
}

// --- Implementation ---

func (s *productService) CreateProduct(ctx context.Context, req ProductRequest) (ProductResponse, error) {
	product, err := s.productFromRequest(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}

	if _, err := s.productRepo.FindBySKU(ctx, req.SKU); err == nil {
		return ProductResponse{}, fmt.Errorf("sku already exists")
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to create product: %w", err)
	}

	reloaded, err := s.productRepo.FindByID(ctx, product.ID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*reloaded), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, req ProductRequest) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}

	existing, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, ErrNotFound
		}
		return ProductResponse{}, err
	}

	if req.SKU != existing.SKU {
		if _, skuErr := s.productRepo.FindBySKU(ctx, req.SKU); skuErr == nil {
			return ProductResponse{}, fmt.Errorf("sku already exists")
		}
	}

	product, err := s.productFromRequest(ctx, req)
	if err != nil {
		return ProductResponse{}, err
	}
	product.ID = productID
	product.CreatedAt = existing.CreatedAt

	if err := s.productRepo.Update(ctx, product); err != nil {
		return ProductResponse{}, fmt.Errorf("failed to update product: %w", err)
	}

	reloaded, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductResponse{}, err
	}
	return toProductResponse(*reloaded), nil
}

func (s *productService) productFromRequest(ctx context.Context, req ProductRequest) (*model.Product, error) {
	product := model.Product{
		SKU:      req.SKU,
		Name:     req.Name,
		Category: req.Category,
		IsActive: true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	var err error
	product.SalesPrice, err = parseAmount(req.SalesPrice, "sales_price")
	if err != nil {
		return nil, err
	}
	product.PurchasePrice, err = parseAmount(req.PurchasePrice, "purchase_price")
	if err != nil {
		return nil, err
	}
	product.DefaultTaxRate, err = parseAmount(req.DefaultTaxRate, "default_tax_rate")
	if err != nil {
		return nil, err
	}

	if req.DefaultCostCenterID != "" {
		ccID, parseErr := uuid.Parse(req.DefaultCostCenterID)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid default_cost_center_id: %w", parseErr)
		}
		if _, findErr := s.costCenterRepo.FindByID(ctx, ccID); findErr != nil {
			return nil, fmt.Errorf("default cost center not found: %w", findErr)
		}
		product.DefaultCostCenterID = &ccID
	}

	return &product, nil
}

func parseAmount(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return amount, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product id: %w", err)
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

func (s *productService) GetProduct(ctx context.Context, id string) (ProductResponse, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return ProductResponse{}, fmt.Errorf("invalid product id: %w", err)
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, ErrNotFound
		}
		return ProductResponse{}, err
	}
	return toProductResponse(*product), nil
}

func (s *productService) ListProducts(ctx context.Context, category, search string, page, limit int) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, category, search, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		result = append(result, toProductResponse(product))
	}
	return result, total, nil
}

// --- Mapping ---

func toProductResponse(product model.Product) ProductResponse {
	resp := ProductResponse{
		ID:             product.ID.String(),
		SKU:            product.SKU,
		Name:           product.Name,
		Category:       product.Category,
		SalesPrice:     product.SalesPrice.StringFixed(4),
		PurchasePrice:  product.PurchasePrice.StringFixed(4),
		DefaultTaxRate: product.DefaultTaxRate.StringFixed(4),
		IsActive:       product.IsActive,
		CreatedAt:      product.CreatedAt.Format(time.RFC3339),
	}
	if product.DefaultCostCenterID != nil {
		cc := product.DefaultCostCenterID.String()
		resp.DefaultCostCenterID = &cc
	}
	if product.DefaultCostCenter != nil {
		resp.DefaultCostCenterCode = product.DefaultCostCenter.Code
	}
	return resp
}
