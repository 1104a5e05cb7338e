package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRuleMatches(t *testing.T) {
	target := uuid.New()

	cases := []struct {
		name     string
		rule     model.AssignmentRule
		category string
		product  string
		want     bool
	}{
		{"category match", model.AssignmentRule{ProductCategory: "HARDWARE", CostCenterID: target}, "HARDWARE", "Laptop", true},
		{"category match is case insensitive", model.AssignmentRule{ProductCategory: "hardware", CostCenterID: target}, "HARDWARE", "Laptop", true},
		{"category mismatch", model.AssignmentRule{ProductCategory: "SERVICES", CostCenterID: target}, "HARDWARE", "Laptop", false},
		{"name substring match", model.AssignmentRule{NameContains: "laptop", CostCenterID: target}, "", "Business Laptop 15", true},
		{"name substring is case insensitive", model.AssignmentRule{NameContains: "LAPTOP", CostCenterID: target}, "", "laptop stand", true},
		{"name substring mismatch", model.AssignmentRule{NameContains: "printer", CostCenterID: target}, "", "Laptop", false},
		{"no conditions matches everything", model.AssignmentRule{CostCenterID: target}, "ANY", "Anything", true},
		{"category beats missing name condition", model.AssignmentRule{ProductCategory: "HARDWARE", NameContains: "printer", CostCenterID: target}, "HARDWARE", "Laptop", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ruleMatches(tc.rule, tc.category, tc.product))
		})
	}
}

func TestPickRuleTargetFirstMatchWins(t *testing.T) {
	ccA := uuid.New()
	ccB := uuid.New()

	// Rules arrive pre-sorted by ascending priority.
	rules := []model.AssignmentRule{
		{ProductCategory: "HARDWARE", CostCenterID: ccA, Priority: 10},
		{CostCenterID: ccB, Priority: 100}, // catch-all
	}

	got := pickRuleTarget(rules, "HARDWARE", "Laptop", nil)
	require.NotNil(t, got)
	assert.Equal(t, ccA, *got)

	got = pickRuleTarget(rules, "SERVICES", "Consulting", nil)
	require.NotNil(t, got)
	assert.Equal(t, ccB, *got)
}

func TestPickRuleTargetVendorFilter(t *testing.T) {
	vendor := uuid.New()
	otherVendor := uuid.New()
	cc := uuid.New()

	rules := []model.AssignmentRule{
		{VendorID: &vendor, CostCenterID: cc},
	}

	got := pickRuleTarget(rules, "", "Anything", &vendor)
	require.NotNil(t, got)
	assert.Equal(t, cc, *got)

	assert.Nil(t, pickRuleTarget(rules, "", "Anything", &otherVendor))
	// Sales side documents carry no vendor, so vendor rules never apply.
	assert.Nil(t, pickRuleTarget(rules, "", "Anything", nil))
}

func TestPickRuleTargetNoMatch(t *testing.T) {
	rules := []model.AssignmentRule{
		{ProductCategory: "SERVICES", CostCenterID: uuid.New()},
	}
	assert.Nil(t, pickRuleTarget(rules, "HARDWARE", "Laptop", nil))
	assert.Nil(t, pickRuleTarget(nil, "HARDWARE", "Laptop", nil))
}

// --- ResolveCostCenter on fakes ---

type fakeProductRepo struct {
	repository.ProductRepository
	products map[uuid.UUID]*model.Product
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type fakeRuleRepo struct {
	repository.RuleRepository
	active []model.AssignmentRule
}

func (f *fakeRuleRepo) ListActive(ctx context.Context) ([]model.AssignmentRule, error) {
	return f.active, nil
}

func TestResolveCostCenterProductDefaultWins(t *testing.T) {
	productID := uuid.New()
	defaultCC := uuid.New()
	ruleCC := uuid.New()

	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		productID: {ID: productID, Name: "Laptop", Category: "HARDWARE", DefaultCostCenterID: &defaultCC},
	}}
	ruleRepo := &fakeRuleRepo{active: []model.AssignmentRule{
		{ProductCategory: "HARDWARE", CostCenterID: ruleCC},
	}}

	svc := NewCostCenterService(nil, ruleRepo, productRepo)

	got, err := svc.ResolveCostCenter(context.Background(), productID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, defaultCC, *got)
}

func TestResolveCostCenterFallsBackToRules(t *testing.T) {
	productID := uuid.New()
	ruleCC := uuid.New()

	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		productID: {ID: productID, Name: "Laptop", Category: "HARDWARE"},
	}}
	ruleRepo := &fakeRuleRepo{active: []model.AssignmentRule{
		{ProductCategory: "HARDWARE", CostCenterID: ruleCC},
	}}

	svc := NewCostCenterService(nil, ruleRepo, productRepo)

	got, err := svc.ResolveCostCenter(context.Background(), productID, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, ruleCC, *got)
}

func TestResolveCostCenterNoMatchIsNil(t *testing.T) {
	productID := uuid.New()

	productRepo := &fakeProductRepo{products: map[uuid.UUID]*model.Product{
		productID: {ID: productID, Name: "Consulting", Category: "SERVICES"},
	}}
	svc := NewCostCenterService(nil, &fakeRuleRepo{}, productRepo)

	got, err := svc.ResolveCostCenter(context.Background(), productID, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolveCostCenterUnknownProduct(t *testing.T) {
	svc := NewCostCenterService(nil, &fakeRuleRepo{}, &fakeProductRepo{products: map[uuid.UUID]*model.Product{}})

	_, err := svc.ResolveCostCenter(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}
