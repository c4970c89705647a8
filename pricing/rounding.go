package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
)

// RoundToStep rounds value to the nearest multiple of step. Exact halves
// round up (away from zero): RoundToStep(0.125, 0.05) = 0.15. A step of
// zero or less returns the value unchanged.
func RoundToStep(value, step decimal.Decimal) decimal.Decimal {
	if step.LessThanOrEqual(decimal.Zero) {
		return value
	}
	return value.Div(step).Round(0).Mul(step)
}

// ApplyRounding applies the rounding strategy to the pre-rounding price.
// END_ONLY rounds the aggregate once; PER_STEP rounds the per-unit price
// first and multiplies back by the quantity, which intentionally diverges
// from END_ONLY whenever the unrounded unit price is not already a step
// multiple.
func ApplyRounding(strategy models.RoundingStrategy, price, step decimal.Decimal, quantity int) decimal.Decimal {
	if step.LessThanOrEqual(decimal.Zero) {
		return price
	}

	switch strategy {
	case models.RoundPerStep:
		qty := decimal.NewFromInt(int64(quantity))
		perUnit := price.Div(qty)
		return RoundToStep(perUnit, step).Mul(qty)
	default:
		// END_ONLY and any unconfigured strategy round the aggregate once.
		return RoundToStep(price, step)
	}
}
