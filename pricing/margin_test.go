package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

var marginAsOf = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func staticRule(scope models.MarginScope, margin float64, createdAt time.Time) models.MarginRule {
	return models.MarginRule{
		Scope:     scope,
		Margin:    margin,
		IsActive:  utils.ToPtr(true),
		CreatedAt: createdAt,
	}
}

func dynamicRule(adjust float64, priority int, stackable bool) models.MarginRuleDynamic {
	return models.MarginRuleDynamic{
		Scope:         models.ScopeGlobal,
		AdjustPercent: adjust,
		Priority:      priority,
		Stackable:     utils.ToPtr(stackable),
		IsActive:      utils.ToPtr(true),
		CreatedAt:     marginAsOf.Add(-24 * time.Hour),
	}
}

func marginSnapshot(static []models.MarginRule, dynamic []models.MarginRuleDynamic) Snapshot {
	product := models.Product{ID: 7, CategoryID: 1, Name: "business cards"}
	return Snapshot{
		Product:      product,
		Quantity:     100,
		AsOf:         marginAsOf,
		StaticRules:  static,
		DynamicRules: dynamic,
		Context: Context{
			MarginDefault: d("0.20"),
			MarkupDefault: d("0.10"),
		},
	}
}

func TestResolveStaticMargin(t *testing.T) {
	subtotal := d("100.00")

	t.Run("ProductScopeWinsOutright", func(t *testing.T) {
		productRule := staticRule(models.ScopeProduct, 0.40, marginAsOf.Add(-72*time.Hour))
		productRule.ProductID = utils.ToPtr(uint(7))
		categoryRule := staticRule(models.ScopeCategory, 0.35, marginAsOf.Add(-time.Hour))
		categoryRule.CategoryID = utils.ToPtr(uint(1))
		globalRule := staticRule(models.ScopeGlobal, 0.25, marginAsOf.Add(-time.Hour))

		s := marginSnapshot([]models.MarginRule{globalRule, categoryRule, productRule}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.40")), "got %s", res.Margin)
	})

	t.Run("CategoryScopeBeatsGlobal", func(t *testing.T) {
		categoryRule := staticRule(models.ScopeCategory, 0.35, marginAsOf.Add(-time.Hour))
		categoryRule.CategoryID = utils.ToPtr(uint(1))
		globalRule := staticRule(models.ScopeGlobal, 0.25, marginAsOf.Add(-time.Hour))

		s := marginSnapshot([]models.MarginRule{globalRule, categoryRule}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.35")))
	})

	t.Run("CategoryRuleForOtherCategoryIgnored", func(t *testing.T) {
		otherCategory := staticRule(models.ScopeCategory, 0.50, marginAsOf.Add(-time.Hour))
		otherCategory.CategoryID = utils.ToPtr(uint(99))

		s := marginSnapshot([]models.MarginRule{otherCategory}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.20")), "falls back to context default, got %s", res.Margin)
	})

	t.Run("MostRecentWinsWithinScope", func(t *testing.T) {
		older := staticRule(models.ScopeGlobal, 0.25, marginAsOf.Add(-72*time.Hour))
		newer := staticRule(models.ScopeGlobal, 0.28, marginAsOf.Add(-time.Hour))

		s := marginSnapshot([]models.MarginRule{older, newer}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.28")))
	})

	t.Run("InactiveRuleIgnored", func(t *testing.T) {
		inactive := staticRule(models.ScopeGlobal, 0.50, marginAsOf.Add(-time.Hour))
		inactive.IsActive = utils.ToPtr(false)

		s := marginSnapshot([]models.MarginRule{inactive}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.20")))
	})

	t.Run("ExpiredRuleIgnored", func(t *testing.T) {
		expired := staticRule(models.ScopeGlobal, 0.50, marginAsOf.Add(-72*time.Hour))
		expired.ValidTo = utils.ToPtr(marginAsOf.Add(-24 * time.Hour))

		s := marginSnapshot([]models.MarginRule{expired}, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.20")))
	})

	t.Run("NoRulesFallsBackToContextDefault", func(t *testing.T) {
		s := marginSnapshot(nil, nil)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Margin.Equal(d("0.20")))
		assert.True(t, res.Markup.Equal(d("0.10")))
		assert.True(t, res.Dynamic.Equal(decimal.Zero))
	})
}

func TestResolveDynamicAdjust(t *testing.T) {
	subtotal := d("100.00")

	t.Run("StackableRulesAccumulate", func(t *testing.T) {
		rules := []models.MarginRuleDynamic{
			dynamicRule(0.02, 10, true),
			dynamicRule(0.03, 20, true),
		}
		s := marginSnapshot(nil, rules)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("0.05")), "got %s", res.Dynamic)
	})

	t.Run("NonStackableShortCircuits", func(t *testing.T) {
		// The non-stackable rule has the lowest priority value, so it is
		// evaluated first and replaces everything: exactly -0.10, not -0.05.
		rules := []models.MarginRuleDynamic{
			dynamicRule(0.02, 10, true),
			dynamicRule(0.03, 20, true),
			dynamicRule(-0.10, 5, false),
		}
		s := marginSnapshot(nil, rules)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("-0.10")), "got %s", res.Dynamic)
	})

	t.Run("NonStackableAfterStackableReplacesAccumulator", func(t *testing.T) {
		rules := []models.MarginRuleDynamic{
			dynamicRule(0.02, 10, true),
			dynamicRule(-0.10, 20, false),
			dynamicRule(0.07, 30, true), // never reached
		}
		s := marginSnapshot(nil, rules)
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("-0.10")), "got %s", res.Dynamic)
	})

	t.Run("MaxAdjustClampsMagnitude", func(t *testing.T) {
		clamped := dynamicRule(-0.20, 10, false)
		clamped.MaxAdjust = utils.ToPtr(0.05)

		s := marginSnapshot(nil, []models.MarginRuleDynamic{clamped})
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("-0.05")), "got %s", res.Dynamic)
	})

	t.Run("SubtotalThresholdGatesRule", func(t *testing.T) {
		gated := dynamicRule(0.05, 10, true)
		gated.MinSubtotal = utils.ToPtr(500.0)

		s := marginSnapshot(nil, []models.MarginRuleDynamic{gated})
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(decimal.Zero), "threshold not met, got %s", res.Dynamic)

		res, err = ResolveMargin(&s, d("500.00"))
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("0.05")), "threshold met at boundary, got %s", res.Dynamic)
	})

	t.Run("QuantityThresholdGatesRule", func(t *testing.T) {
		gated := dynamicRule(0.05, 10, true)
		gated.MinQuantity = utils.ToPtr(1000)

		s := marginSnapshot(nil, []models.MarginRuleDynamic{gated})
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(decimal.Zero))

		s.Quantity = 1000
		res, err = ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("0.05")))
	})

	t.Run("ProductScopedDynamicRuleForOtherProductIgnored", func(t *testing.T) {
		other := dynamicRule(0.05, 10, true)
		other.Scope = models.ScopeProduct
		other.ProductID = utils.ToPtr(uint(999))

		s := marginSnapshot(nil, []models.MarginRuleDynamic{other})
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(decimal.Zero))
	})

	t.Run("AllApplicableScopesAreCandidates", func(t *testing.T) {
		// Unlike static resolution, dynamic rules of every applicable
		// scope stack together.
		productRule := dynamicRule(0.01, 10, true)
		productRule.Scope = models.ScopeProduct
		productRule.ProductID = utils.ToPtr(uint(7))
		categoryRule := dynamicRule(0.02, 20, true)
		categoryRule.Scope = models.ScopeCategory
		categoryRule.CategoryID = utils.ToPtr(uint(1))
		globalRule := dynamicRule(0.03, 30, true)

		s := marginSnapshot(nil, []models.MarginRuleDynamic{productRule, categoryRule, globalRule})
		res, err := ResolveMargin(&s, subtotal)
		require.NoError(t, err)
		assert.True(t, res.Dynamic.Equal(d("0.06")), "got %s", res.Dynamic)
	})
}

func TestResolveMarginRejectsFullMargin(t *testing.T) {
	boost := dynamicRule(0.90, 10, true)
	s := marginSnapshot([]models.MarginRule{staticRule(models.ScopeGlobal, 0.50, marginAsOf.Add(-time.Hour))}, []models.MarginRuleDynamic{boost})

	_, err := ResolveMargin(&s, d("100.00"))
	require.Error(t, err)
	assert.True(t, IsInvalidMarginConfiguration(err))
}
