package utils

import (
	"testing"

	"mbs/src/models"
	"mbs/src/types"

	"github.com/stretchr/testify/assert"
)

func TestPickRulePriority(t *testing.T) {
	providerID := uint(7)
	category := "cleaning"
	providerRule := models.Commission{ID: 1, Scope: types.COMMISSION_SCOPE_PROVIDER, ProviderID: &providerID, Rate: 0.05, IsActive: true}
	categoryRule := models.Commission{ID: 2, Scope: types.COMMISSION_SCOPE_CATEGORY, Category: &category, Rate: 0.12, IsActive: true}
	globalRule := models.Commission{ID: 3, Scope: types.COMMISSION_SCOPE_ALL, Rate: 0.15, IsActive: true}

	rules := []models.Commission{globalRule, categoryRule, providerRule}

	picked := PickRule(rules, &providerID, &category)
	assert.NotNil(t, picked)
	assert.Equal(t, uint(1), picked.ID)

	otherProvider := uint(99)
	picked = PickRule(rules, &otherProvider, &category)
	assert.NotNil(t, picked)
	assert.Equal(t, uint(2), picked.ID)

	otherCategory := "plumbing"
	picked = PickRule(rules, &otherProvider, &otherCategory)
	assert.NotNil(t, picked)
	assert.Equal(t, uint(3), picked.ID)
}

func TestPickRuleSkipsInactive(t *testing.T) {
	providerID := uint(7)
	inactive := models.Commission{ID: 1, Scope: types.COMMISSION_SCOPE_PROVIDER, ProviderID: &providerID, Rate: 0.05, IsActive: false}
	globalRule := models.Commission{ID: 2, Scope: types.COMMISSION_SCOPE_ALL, Rate: 0.15, IsActive: true}

	picked := PickRule([]models.Commission{inactive, globalRule}, &providerID, nil)
	assert.NotNil(t, picked)
	assert.Equal(t, uint(2), picked.ID)
}

func TestPickRuleNoMatch(t *testing.T) {
	providerID := uint(7)
	assert.Nil(t, PickRule(nil, &providerID, nil))
}

func TestCalculate(t *testing.T) {
	commission, err := Calculate(100, 0.15, 0)
	assert.NoError(t, err)
	assert.Equal(t, 15.00, commission)

	commission, err = Calculate(33.33, 0.10, 0)
	assert.NoError(t, err)
	assert.Equal(t, 3.33, commission)

	commission, err = Calculate(50, 0.10, 2.50)
	assert.NoError(t, err)
	assert.Equal(t, 7.50, commission)
}

func TestCalculateRejectsNonPositiveAmount(t *testing.T) {
	_, err := Calculate(0, 0.10, 0)
	assert.Error(t, err)
	apierr := types.AsAPIError(err)
	assert.Equal(t, types.ErrValidation, apierr.Kind)

	_, err = Calculate(-10, 0.10, 0)
	assert.Error(t, err)
}

func TestProviderAmount(t *testing.T) {
	assert.Equal(t, 85.00, ProviderAmount(100, 15))
	assert.Equal(t, 30.00, ProviderAmount(33.33, 3.33))
}
