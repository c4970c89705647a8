// Package pricing implements the quote pricing engine: a pure computation
// that turns a pre-fetched catalog snapshot (product, bill of materials,
// customer price overrides, margin rules, resolved configuration defaults)
// into a deterministic final price with an itemized breakdown.
//
// The package performs no I/O and holds no mutable state: evaluating the
// same snapshot twice yields identical results. All monetary arithmetic
// uses shopspring decimals; callers convert to float64 only at the
// persistence boundary.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
)

// Item line type constants
const (
	ItemTypeMaterial = "material"
	ItemTypePrinting = "printing"
	ItemTypeFinish   = "finish"
)

// Override is one customer price override candidate, detached from the
// concrete table it came from so the resolver works uniformly across
// materials, printings, and finishes.
type Override struct {
	UnitCost  float64
	Priority  int
	ValidFrom *time.Time
	ValidTo   *time.Time
	IsCurrent bool
	CreatedAt time.Time
}

// Params carries evaluation inputs that are not part of the catalog:
// the billed area for PER_M2 finishes and the labor duration for
// PER_HOUR finishes.
type Params struct {
	BilledAreaM2 *float64
	LaborHours   *float64
}

// Snapshot is the complete, read-only input of one pricing evaluation.
// The caller assembles it from catalog/config/rule reads taken inside a
// single transaction boundary; the engine never reads anything else.
type Snapshot struct {
	Product   models.Product
	Printings []models.Printing

	Quantity   int
	CustomerID *uint
	AsOf       time.Time
	Params     Params

	// Overrides maps entity kind -> entity id -> candidate override rows
	// for the evaluation's customer. Empty or nil when no customer is set.
	Overrides map[models.PricedEntityKind]map[uint][]Override

	StaticRules  []models.MarginRule
	DynamicRules []models.MarginRuleDynamic

	Context Context
}

// overridesFor returns the override candidates for one priced entity.
func (s *Snapshot) overridesFor(kind models.PricedEntityKind, entityID uint) []Override {
	byEntity, ok := s.Overrides[kind]
	if !ok {
		return nil
	}
	return byEntity[entityID]
}

// Item is one itemized cost line of the evaluation result.
type Item struct {
	Type      string
	RefID     uint
	Name      string
	Quantity  decimal.Decimal
	Unit      string
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}

// Result is the complete outcome of one pricing evaluation.
// Margin is the statically resolved margin, Dynamic the accumulated
// conditional adjustment; the price was computed with Margin + Dynamic.
type Result struct {
	CostMat    decimal.Decimal
	CostPrint  decimal.Decimal
	CostFinish decimal.Decimal
	Subtotal   decimal.Decimal

	Markup  decimal.Decimal
	Margin  decimal.Decimal
	Dynamic decimal.Decimal

	// Step is nil when no rounding step applied.
	Step  *decimal.Decimal
	Final decimal.Decimal

	VATPercent   decimal.Decimal
	TotalWithVAT decimal.Decimal

	Items []Item
}

// dec converts a stored numeric column into an exact decimal.
func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// decPtr converts an optional numeric column, using fallback when unset.
func decPtr(f *float64, fallback decimal.Decimal) decimal.Decimal {
	if f == nil {
		return fallback
	}
	return decimal.NewFromFloat(*f)
}
