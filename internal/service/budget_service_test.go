package service

import (
	"testing"

	"backend/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveAmount(t *testing.T) {
	original := decimal.NewFromInt(10000)
	revised := decimal.NewFromInt(12500)

	budget := &model.Budget{Amount: original}
	assert.True(t, original.Equal(effectiveAmount(budget)))

	budget.RevisedAmount = &revised
	assert.True(t, revised.Equal(effectiveAmount(budget)))
}
