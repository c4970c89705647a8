package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// ResolveUnitCost selects the unit cost for one priced entity: the single
// applicable customer override, or the catalog base cost when the
// evaluation carries no customer or no override survives.
//
// A candidate survives when it is current and asOf falls inside its
// validity window (a missing bound leaves that side open). Among
// survivors the lowest priority value wins; ties break toward the most
// recently created row. "No override found" is the expected common case,
// never an error.
func ResolveUnitCost(baseCost decimal.Decimal, customerID *uint, candidates []Override, asOf time.Time) decimal.Decimal {
	if customerID == nil || len(candidates) == 0 {
		return baseCost
	}

	var selected *Override
	for i := range candidates {
		c := &candidates[i]
		if !c.IsCurrent {
			continue
		}
		if !utils.WithinWindow(asOf, c.ValidFrom, c.ValidTo) {
			continue
		}
		if selected == nil {
			selected = c
			continue
		}
		if c.Priority < selected.Priority {
			selected = c
			continue
		}
		if c.Priority == selected.Priority && c.CreatedAt.After(selected.CreatedAt) {
			selected = c
		}
	}

	if selected == nil {
		return baseCost
	}
	return dec(selected.UnitCost)
}
