package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
)

// materialLine prices one bill-of-materials material line.
// Effective quantity = qtyPerUnit x (1 + wasteFactor) x producedQuantity.
// The base unit cost derives from the bound variant (pack price / sheets
// per pack unless the variant sets a direct unit price) and is then run
// through customer override resolution.
func materialLine(s *Snapshot, pm models.ProductMaterial) (Item, error) {
	if pm.Material == nil {
		return Item{}, fmt.Errorf("%w: material %d", ErrEntityNotFound, pm.MaterialID)
	}
	mat := pm.Material

	base := dec(mat.UnitCost)
	if pm.VariantID != nil {
		if pm.Variant == nil {
			return Item{}, fmt.Errorf("%w: material variant %d", ErrEntityNotFound, *pm.VariantID)
		}
		base = dec(pm.Variant.DerivedUnitCost())
	} else if v := mat.CurrentVariant(); v != nil {
		base = dec(v.DerivedUnitCost())
	}

	waste := decimal.Zero
	if pm.WasteFactor != nil {
		waste = dec(*pm.WasteFactor)
	}

	qty := dec(pm.QtyPerUnit).
		Mul(decimal.NewFromInt(1).Add(waste)).
		Mul(decimal.NewFromInt(int64(s.Quantity)))
	if qty.LessThanOrEqual(decimal.Zero) {
		return Item{}, fmt.Errorf("%w: material %q", ErrInvalidQuantity, mat.Name)
	}

	unitCost := ResolveUnitCost(base, s.CustomerID, s.overridesFor(models.PricedMaterial, mat.ID), s.AsOf)

	return Item{
		Type:      ItemTypeMaterial,
		RefID:     mat.ID,
		Name:      mat.Name,
		Quantity:  qty,
		Unit:      string(mat.Unit),
		UnitCost:  unitCost,
		TotalCost: qty.Mul(unitCost),
	}, nil
}

// printingLine prices one printing run.
// Base = unitPrice x producedQuantity x (1 + lossFactor); the setup fee is
// either flat or setup minutes x hourly cost, and the line is floored at
// the printing's minimum fee when one is set.
func printingLine(s *Snapshot, p models.Printing) (Item, error) {
	qty := decimal.NewFromInt(int64(s.Quantity))
	if qty.LessThanOrEqual(decimal.Zero) {
		return Item{}, fmt.Errorf("%w: printing %q", ErrInvalidQuantity, p.Name)
	}

	unitPrice := ResolveUnitCost(dec(p.UnitPrice), s.CustomerID, s.overridesFor(models.PricedPrinting, p.ID), s.AsOf)

	base := unitPrice.Mul(qty).Mul(decimal.NewFromInt(1).Add(dec(p.LossFactor)))

	var setup decimal.Decimal
	switch p.SetupMode {
	case models.SetupModeFlat:
		setup = decPtr(p.SetupFlatFee, decimal.Zero)
	case models.SetupModeTimeXRate:
		minutes := decPtr(p.SetupMinutes, s.Context.DefaultSetupMinutes)
		setup = minutes.Div(decimal.NewFromInt(60)).Mul(s.Context.PrintingHourCost)
	}

	total := base.Add(setup)
	if p.MinFee != nil {
		if min := dec(*p.MinFee); total.LessThan(min) {
			total = min
		}
	}

	return Item{
		Type:      ItemTypePrinting,
		RefID:     p.ID,
		Name:      p.Name,
		Quantity:  qty,
		Unit:      string(models.UnitPiece),
		UnitCost:  unitPrice,
		TotalCost: total,
	}, nil
}

// finishLine prices one bill-of-materials finish line. The calc type
// (line override first, finish default second) selects the quantity
// basis; a line-level cost override bypasses unit-cost resolution
// entirely.
func finishLine(s *Snapshot, pf models.ProductFinish) (Item, error) {
	if pf.Finish == nil {
		return Item{}, fmt.Errorf("%w: finish %d", ErrEntityNotFound, pf.FinishID)
	}
	fin := pf.Finish

	calcType := fin.CalcType
	if pf.CalcType != nil {
		calcType = *pf.CalcType
	}

	qty := decimal.NewFromInt(int64(s.Quantity))

	var basis decimal.Decimal
	unit := fin.Unit
	switch calcType {
	case models.FinishPerUnit:
		basis = qty.Mul(decPtr(pf.QtyPerUnit, decimal.NewFromInt(1)))
	case models.FinishPerM2:
		if s.Params.BilledAreaM2 == nil {
			return Item{}, fmt.Errorf("%w: finish %q requires a billed area", ErrInvalidQuantity, fin.Name)
		}
		area := dec(*s.Params.BilledAreaM2)
		if fin.AreaStepM2 != nil {
			area = bandUp(area, dec(*fin.AreaStepM2))
		}
		basis = area.Mul(qty)
		unit = string(models.UnitArea)
	case models.FinishPerLot:
		basis = decimal.NewFromInt(1)
		unit = string(models.UnitLot)
	case models.FinishPerHour:
		if s.Params.LaborHours == nil {
			return Item{}, fmt.Errorf("%w: finish %q requires labor hours", ErrInvalidQuantity, fin.Name)
		}
		basis = dec(*s.Params.LaborHours)
		unit = string(models.UnitHour)
	default:
		return Item{}, fmt.Errorf("%w: finish %q has unknown calc type %q", ErrEntityNotFound, fin.Name, calcType)
	}

	if basis.LessThanOrEqual(decimal.Zero) {
		return Item{}, fmt.Errorf("%w: finish %q", ErrInvalidQuantity, fin.Name)
	}

	var unitCost decimal.Decimal
	if pf.CostOverride != nil {
		unitCost = dec(*pf.CostOverride)
	} else {
		unitCost = ResolveUnitCost(dec(fin.BaseCost), s.CustomerID, s.overridesFor(models.PricedFinish, fin.ID), s.AsOf)
	}

	total := basis.Mul(unitCost)
	if fin.MinFee != nil {
		if min := dec(*fin.MinFee); total.LessThan(min) {
			total = min
		}
	}

	return Item{
		Type:      ItemTypeFinish,
		RefID:     fin.ID,
		Name:      fin.Name,
		Quantity:  basis,
		Unit:      unit,
		UnitCost:  unitCost,
		TotalCost: total,
	}, nil
}

// bandUp rounds area upward to the nearest multiple of step.
func bandUp(area, step decimal.Decimal) decimal.Decimal {
	if step.LessThanOrEqual(decimal.Zero) {
		return area
	}
	bands := area.Div(step).Ceil()
	return bands.Mul(step)
}
