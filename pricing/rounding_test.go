package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		step     string
		expected string
	}{
		{"exact multiple unchanged", "123.00", "0.05", "123.00"},
		{"rounds down", "21.42", "0.05", "21.40"},
		{"rounds up", "21.43", "0.05", "21.45"},
		{"scenario price", "21.4286", "0.05", "21.45"},
		{"half rounds up", "0.125", "0.05", "0.15"},
		{"unit price", "0.123", "0.05", "0.10"},
		{"whole euro step", "17.49", "1", "17"},
		{"zero step returns value", "21.4286", "0", "21.4286"},
		{"negative step returns value", "21.4286", "-0.05", "21.4286"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundToStep(d(tt.value), d(tt.step))
			assert.True(t, got.Equal(d(tt.expected)), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestRoundToStepIdempotent(t *testing.T) {
	// Rounding an already-rounded value must be a no-op for any step.
	values := []string{"0.123", "21.4286", "99.999", "1234.56789", "0.001"}
	steps := []string{"0.01", "0.05", "0.10", "0.25", "1", "5"}

	for _, v := range values {
		for _, s := range steps {
			once := RoundToStep(d(v), d(s))
			twice := RoundToStep(once, d(s))
			require.True(t, once.Equal(twice), "value=%s step=%s: %s != %s", v, s, once, twice)
		}
	}
}

func TestApplyRoundingStrategies(t *testing.T) {
	t.Run("EndOnlyRoundsAggregateOnce", func(t *testing.T) {
		// 0.123 x 1000 = 123.00, already a multiple of 0.05.
		got := ApplyRounding(models.RoundEndOnly, d("123.00"), d("0.05"), 1000)
		assert.True(t, got.Equal(d("123.00")), "got %s", got)
	})

	t.Run("PerStepRoundsUnitPriceFirst", func(t *testing.T) {
		// Per-unit 0.123 rounds to 0.10, then x 1000 = 100.00.
		got := ApplyRounding(models.RoundPerStep, d("123.00"), d("0.05"), 1000)
		assert.True(t, got.Equal(d("100.00")), "got %s", got)
	})

	t.Run("StrategiesDiverge", func(t *testing.T) {
		endOnly := ApplyRounding(models.RoundEndOnly, d("123.00"), d("0.05"), 1000)
		perStep := ApplyRounding(models.RoundPerStep, d("123.00"), d("0.05"), 1000)
		assert.False(t, endOnly.Equal(perStep), "END_ONLY and PER_STEP must diverge when the unit price is not a step multiple")
	})

	t.Run("NoStepReturnsPriceUnchanged", func(t *testing.T) {
		got := ApplyRounding(models.RoundEndOnly, d("21.4286"), decimal.Zero, 10)
		assert.True(t, got.Equal(d("21.4286")))
	})
}
