package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

func TestApplyStrategy(t *testing.T) {
	subtotal := d("100.00")
	margin := d("0.30")
	markup := d("0.10")

	t.Run("CostMarkupMargin", func(t *testing.T) {
		// 100 x 1.10 / 0.70 = 157.142857...
		price, err := ApplyStrategy(models.StrategyCostMarkupMargin, subtotal, margin, markup, nil, 10)
		require.NoError(t, err)
		assert.True(t, price.Round(4).Equal(d("157.1429")), "got %s", price)
	})

	t.Run("CostMarginOnlyIgnoresMarkup", func(t *testing.T) {
		// 100 / 0.70 = 142.857142...
		price, err := ApplyStrategy(models.StrategyCostMarginOnly, subtotal, margin, markup, nil, 10)
		require.NoError(t, err)
		assert.True(t, price.Round(4).Equal(d("142.8571")), "got %s", price)
	})

	t.Run("MarginTargetWithoutFloorMatchesMarginOnly", func(t *testing.T) {
		marginOnly, err := ApplyStrategy(models.StrategyCostMarginOnly, subtotal, margin, markup, nil, 10)
		require.NoError(t, err)
		target, err := ApplyStrategy(models.StrategyMarginTarget, subtotal, margin, markup, nil, 10)
		require.NoError(t, err)
		assert.True(t, marginOnly.Equal(target))
	})

	t.Run("MarginTargetFloorOverridesUpward", func(t *testing.T) {
		// 100 / 0.5 = 200, but floor is 2.50 x 100 = 250.
		floor := d("2.50")
		price, err := ApplyStrategy(models.StrategyMarginTarget, subtotal, d("0.50"), markup, &floor, 100)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("250.00")), "got %s", price)
	})

	t.Run("MarginTargetFloorBelowPriceIsInert", func(t *testing.T) {
		floor := d("0.01")
		price, err := ApplyStrategy(models.StrategyMarginTarget, subtotal, d("0.50"), markup, &floor, 100)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("200.00")), "got %s", price)
	})

	t.Run("FullMarginFails", func(t *testing.T) {
		_, err := ApplyStrategy(models.StrategyCostMarginOnly, subtotal, d("1.0"), markup, nil, 10)
		require.Error(t, err)
		assert.True(t, IsInvalidMarginConfiguration(err))
	})

	t.Run("MarginAboveOneFails", func(t *testing.T) {
		_, err := ApplyStrategy(models.StrategyCostMarkupMargin, subtotal, d("1.25"), markup, nil, 10)
		require.Error(t, err)
		assert.True(t, IsInvalidMarginConfiguration(err))
	})

	t.Run("ZeroMarginPricesAtCostPlusMarkup", func(t *testing.T) {
		price, err := ApplyStrategy(models.StrategyCostMarkupMargin, subtotal, d("0"), markup, nil, 10)
		require.NoError(t, err)
		assert.True(t, price.Equal(d("110.00")), "got %s", price)
	})
}
