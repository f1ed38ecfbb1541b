package utils

import (
	"math"
	"mbs/src/config"
	"mbs/src/models"
	"mbs/src/types"

	"gorm.io/gorm"
)

// RoundMoney rounds to 2 decimal places, half away from zero.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// PickRule resolves the commission rule for a provider/category pair.
// Priority order, first match wins: provider-scoped rule, category-scoped
// rule, platform-wide rule. Inactive rules never match. Returns nil when no
// rule applies and the caller should fall back to the configured rate.
func PickRule(rules []models.Commission, providerID *uint, category *string) *models.Commission {
	if providerID != nil {
		for i := range rules {
			r := &rules[i]
			if !r.IsActive || r.Scope != types.COMMISSION_SCOPE_PROVIDER {
				continue
			}
			if r.ProviderID != nil && *r.ProviderID == *providerID {
				return r
			}
		}
	}
	if category != nil {
		for i := range rules {
			r := &rules[i]
			if !r.IsActive || r.Scope != types.COMMISSION_SCOPE_CATEGORY {
				continue
			}
			if r.Category != nil && *r.Category == *category {
				return r
			}
		}
	}
	for i := range rules {
		r := &rules[i]
		if r.IsActive && r.Scope == types.COMMISSION_SCOPE_ALL {
			return r
		}
	}
	return nil
}

// ResolveRate reads the active commission rules and picks the one applying
// to this provider/category, falling back to the process-wide default rate.
func ResolveRate(tx *gorm.DB, providerID *uint, category *string) (rate float64, flatFee float64, err error) {
	var rules []models.Commission
	if err := tx.
		Model(&models.Commission{}).
		Where("is_active = ?", true).
		Find(&rules).
		Error; err != nil {
		return 0, 0, err
	}
	rule := PickRule(rules, providerID, category)
	if rule == nil {
		return config.DefaultCommissionRate(), 0, nil
	}
	return rule.Rate, rule.FlatFee, nil
}

// Calculate computes the platform commission on amount.
func Calculate(amount, rate, flatFee float64) (float64, error) {
	if amount <= 0 {
		return 0, types.NewAPIError(types.ErrValidation, "invalid amount")
	}
	return RoundMoney(amount*rate + flatFee), nil
}

// ProviderAmount is the payout remaining for the provider after commission.
func ProviderAmount(amount, commission float64) float64 {
	return RoundMoney(amount - commission)
}
