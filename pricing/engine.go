package pricing

import (
	"github.com/shopspring/decimal"
)

// EvaluateQuote runs one complete pricing evaluation over the snapshot:
// line costs, aggregation, margin resolution, strategy, rounding, VAT.
// Any failure in any phase aborts the whole evaluation; no partial
// result is ever returned.
func EvaluateQuote(s Snapshot) (*Result, error) {
	if s.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	items := make([]Item, 0, len(s.Product.Materials)+len(s.Printings)+len(s.Product.Finishes))
	costMat := decimal.Zero
	costPrint := decimal.Zero
	costFinish := decimal.Zero

	for _, pm := range s.Product.Materials {
		item, err := materialLine(&s, pm)
		if err != nil {
			return nil, err
		}
		costMat = costMat.Add(item.TotalCost)
		items = append(items, item)
	}

	for _, p := range s.Printings {
		item, err := printingLine(&s, p)
		if err != nil {
			return nil, err
		}
		costPrint = costPrint.Add(item.TotalCost)
		items = append(items, item)
	}

	for _, pf := range s.Product.Finishes {
		item, err := finishLine(&s, pf)
		if err != nil {
			return nil, err
		}
		costFinish = costFinish.Add(item.TotalCost)
		items = append(items, item)
	}

	subtotal := costMat.Add(costPrint).Add(costFinish)

	margins, err := ResolveMargin(&s, subtotal)
	if err != nil {
		return nil, err
	}

	effectiveMargin := margins.Margin.Add(margins.Dynamic)
	price, err := ApplyStrategy(s.Context.PricingStrategy, subtotal, effectiveMargin, margins.Markup, s.Context.MinPricePerPiece, s.Quantity)
	if err != nil {
		return nil, err
	}

	final := ApplyRounding(s.Context.RoundingStrategy, price, s.Context.RoundingStep, s.Quantity)

	result := &Result{
		CostMat:    costMat,
		CostPrint:  costPrint,
		CostFinish: costFinish,
		Subtotal:   subtotal,
		Markup:     margins.Markup,
		Margin:     margins.Margin,
		Dynamic:    margins.Dynamic,
		Final:      final,
		VATPercent: s.Context.VATPercent,
		Items:      items,
	}

	if s.Context.RoundingStep.GreaterThan(decimal.Zero) {
		step := s.Context.RoundingStep
		result.Step = &step
	}

	result.TotalWithVAT = final.Add(final.Mul(s.Context.VATPercent))

	return result, nil
}
