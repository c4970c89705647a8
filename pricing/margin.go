package pricing

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// MarginResolution is the effective margin triple of one evaluation.
// The price downstream is computed with Margin + Dynamic.
type MarginResolution struct {
	Margin  decimal.Decimal
	Markup  decimal.Decimal
	Dynamic decimal.Decimal
}

// ResolveMargin resolves the effective margin in two phases: the static
// margin from scope-matched rules (PRODUCT beats CATEGORY beats GLOBAL,
// most recently created wins within a scope, product/config defaults as
// fallback), then the dynamic adjustment accumulated from conditional
// rules walked in priority order.
func ResolveMargin(s *Snapshot, subtotal decimal.Decimal) (MarginResolution, error) {
	res := MarginResolution{
		Margin: resolveStaticMargin(s),
		Markup: s.Context.MarkupDefault,
	}

	res.Dynamic = resolveDynamicAdjust(s, subtotal)

	if res.Margin.Add(res.Dynamic).GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return MarginResolution{}, ErrInvalidMarginConfiguration
	}

	return res, nil
}

// resolveStaticMargin implements phase A. A PRODUCT-scoped rule for this
// exact product wins outright over CATEGORY and GLOBAL candidates.
func resolveStaticMargin(s *Snapshot) decimal.Decimal {
	var product, category, global *models.MarginRule

	for i := range s.StaticRules {
		r := &s.StaticRules[i]
		if !staticRuleApplies(r, s.Product, s.AsOf) {
			continue
		}
		switch r.Scope {
		case models.ScopeProduct:
			product = newerRule(product, r)
		case models.ScopeCategory:
			category = newerRule(category, r)
		case models.ScopeGlobal:
			global = newerRule(global, r)
		}
	}

	for _, r := range []*models.MarginRule{product, category, global} {
		if r != nil {
			return dec(r.Margin)
		}
	}

	// No rule matched at any scope: the context already carries the
	// product default with the global configuration as fallback.
	return s.Context.MarginDefault
}

func staticRuleApplies(r *models.MarginRule, product models.Product, asOf time.Time) bool {
	if !utils.IsTrue(r.IsActive) {
		return false
	}
	if !utils.WithinWindow(asOf, r.ValidFrom, r.ValidTo) {
		return false
	}
	switch r.Scope {
	case models.ScopeProduct:
		return r.ProductID != nil && *r.ProductID == product.ID
	case models.ScopeCategory:
		return r.CategoryID != nil && *r.CategoryID == product.CategoryID
	case models.ScopeGlobal:
		return true
	default:
		return false
	}
}

// newerRule keeps the most recently created of two candidate rules.
func newerRule(current, candidate *models.MarginRule) *models.MarginRule {
	if current == nil || candidate.CreatedAt.After(current.CreatedAt) {
		return candidate
	}
	return current
}

// resolveDynamicAdjust implements phase B. Candidate rules of every
// applicable scope are walked in ascending priority: a stackable rule
// adds its clamped adjustment and resolution continues; the first
// non-stackable rule replaces the accumulator and stops resolution.
func resolveDynamicAdjust(s *Snapshot, subtotal decimal.Decimal) decimal.Decimal {
	candidates := make([]*models.MarginRuleDynamic, 0, len(s.DynamicRules))
	for i := range s.DynamicRules {
		r := &s.DynamicRules[i]
		if dynamicRuleApplies(r, s, subtotal) {
			candidates = append(candidates, r)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	adjust := decimal.Zero
	for _, r := range candidates {
		clamped := clampAdjust(dec(r.AdjustPercent), r.MaxAdjust)
		if utils.IsTrue(r.Stackable) {
			adjust = adjust.Add(clamped)
			continue
		}
		return clamped
	}

	return adjust
}

func dynamicRuleApplies(r *models.MarginRuleDynamic, s *Snapshot, subtotal decimal.Decimal) bool {
	if !utils.IsTrue(r.IsActive) {
		return false
	}
	if !utils.WithinWindow(s.AsOf, r.ValidFrom, r.ValidTo) {
		return false
	}

	switch r.Scope {
	case models.ScopeProduct:
		if r.ProductID == nil || *r.ProductID != s.Product.ID {
			return false
		}
	case models.ScopeCategory:
		if r.CategoryID == nil || *r.CategoryID != s.Product.CategoryID {
			return false
		}
	case models.ScopeGlobal:
		// always applicable
	default:
		return false
	}

	if r.MinSubtotal != nil && subtotal.LessThan(dec(*r.MinSubtotal)) {
		return false
	}
	if r.MinQuantity != nil && s.Quantity < *r.MinQuantity {
		return false
	}

	return true
}

// clampAdjust limits an adjustment's magnitude to maxAdjust, keeping its sign.
func clampAdjust(adjust decimal.Decimal, maxAdjust *float64) decimal.Decimal {
	if maxAdjust == nil {
		return adjust
	}
	limit := dec(*maxAdjust).Abs()
	if adjust.Abs().LessThanOrEqual(limit) {
		return adjust
	}
	if adjust.IsNegative() {
		return limit.Neg()
	}
	return limit
}
