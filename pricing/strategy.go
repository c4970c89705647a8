package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
)

// ApplyStrategy converts (subtotal, margin, markup) into the pre-rounding
// price under the selected pricing strategy. Margin is applied as a
// fraction-of-price target, so a margin at or above 1 has no defined
// price and fails with ErrInvalidMarginConfiguration.
func ApplyStrategy(strategy models.PricingStrategy, subtotal, margin, markup decimal.Decimal, minPricePerPiece *decimal.Decimal, quantity int) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if margin.GreaterThanOrEqual(one) {
		return decimal.Zero, ErrInvalidMarginConfiguration
	}

	marginDivisor := one.Sub(margin)

	var price decimal.Decimal
	switch strategy {
	case models.StrategyCostMarkupMargin:
		price = subtotal.Mul(one.Add(markup)).Div(marginDivisor)
	case models.StrategyCostMarginOnly:
		price = subtotal.Div(marginDivisor)
	case models.StrategyMarginTarget:
		price = subtotal.Div(marginDivisor)
		if minPricePerPiece != nil {
			if floor := minPricePerPiece.Mul(decimal.NewFromInt(int64(quantity))); price.LessThan(floor) {
				price = floor
			}
		}
	default:
		// Unknown strategies are a configuration defect; fall back to the
		// markup+margin formula rather than price at cost.
		price = subtotal.Mul(one.Add(markup)).Div(marginDivisor)
	}

	return price, nil
}
