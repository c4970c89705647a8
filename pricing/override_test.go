package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func TestResolveUnitCost(t *testing.T) {
	asOf := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	customerID := utils.ToPtr(uint(42))
	base := d("10.00")

	override := func(cost float64, priority int, createdAt time.Time) Override {
		return Override{
			UnitCost:  cost,
			Priority:  priority,
			IsCurrent: true,
			CreatedAt: createdAt,
		}
	}

	t.Run("NoCustomerReturnsBase", func(t *testing.T) {
		candidates := []Override{override(5, 1, asOf)}
		got := ResolveUnitCost(base, nil, candidates, asOf)
		assert.True(t, got.Equal(base))
	})

	t.Run("NoCandidatesReturnsBase", func(t *testing.T) {
		got := ResolveUnitCost(base, customerID, nil, asOf)
		assert.True(t, got.Equal(base))
	})

	t.Run("LowestPriorityWins", func(t *testing.T) {
		candidates := []Override{
			override(8.00, 20, asOf.Add(-48*time.Hour)),
			override(7.00, 10, asOf.Add(-72*time.Hour)),
			override(9.00, 30, asOf.Add(-24*time.Hour)),
		}
		got := ResolveUnitCost(base, customerID, candidates, asOf)
		assert.True(t, got.Equal(d("7.00")), "got %s", got)
	})

	t.Run("TieBreaksToMostRecentlyCreated", func(t *testing.T) {
		candidates := []Override{
			override(8.00, 10, asOf.Add(-72*time.Hour)),
			override(7.50, 10, asOf.Add(-24*time.Hour)),
		}
		got := ResolveUnitCost(base, customerID, candidates, asOf)
		assert.True(t, got.Equal(d("7.50")), "got %s", got)
	})

	t.Run("ExpiredOverrideNeverSelected", func(t *testing.T) {
		expired := override(1.00, 1, asOf.Add(-96*time.Hour))
		expired.ValidTo = utils.ToPtr(asOf.Add(-24 * time.Hour))

		current := override(8.00, 50, asOf.Add(-96*time.Hour))

		got := ResolveUnitCost(base, customerID, []Override{expired, current}, asOf)
		assert.True(t, got.Equal(d("8.00")), "expired override must lose despite lowest priority, got %s", got)
	})

	t.Run("NotYetValidOverrideSkipped", func(t *testing.T) {
		future := override(1.00, 1, asOf)
		future.ValidFrom = utils.ToPtr(asOf.Add(24 * time.Hour))

		got := ResolveUnitCost(base, customerID, []Override{future}, asOf)
		assert.True(t, got.Equal(base))
	})

	t.Run("OpenEndedWindowApplies", func(t *testing.T) {
		open := override(6.00, 10, asOf.Add(-time.Hour))
		open.ValidFrom = utils.ToPtr(asOf.Add(-48 * time.Hour))
		// ValidTo nil: unbounded

		got := ResolveUnitCost(base, customerID, []Override{open}, asOf)
		assert.True(t, got.Equal(d("6.00")))
	})

	t.Run("NonCurrentRowsIgnored", func(t *testing.T) {
		stale := override(1.00, 1, asOf)
		stale.IsCurrent = false

		got := ResolveUnitCost(base, customerID, []Override{stale}, asOf)
		assert.True(t, got.Equal(base))
	})

	t.Run("WindowBoundariesInclusive", func(t *testing.T) {
		exact := override(6.50, 10, asOf.Add(-time.Hour))
		exact.ValidFrom = utils.ToPtr(asOf)
		exact.ValidTo = utils.ToPtr(asOf)

		got := ResolveUnitCost(base, customerID, []Override{exact}, asOf)
		assert.True(t, got.Equal(d("6.50")))
	})
}
