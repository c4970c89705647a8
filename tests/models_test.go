package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/models"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func TestEnumValidation(t *testing.T) {
	t.Run("UnitOfMeasure", func(t *testing.T) {
		assert.True(t, models.UnitPiece.Valid())
		assert.True(t, models.UnitArea.Valid())
		assert.True(t, models.UnitSheet.Valid())
		assert.False(t, models.UnitOfMeasure("gallon").Valid())
		assert.False(t, models.UnitOfMeasure("").Valid())
	})

	t.Run("SetupMode", func(t *testing.T) {
		assert.True(t, models.SetupModeFlat.Valid())
		assert.True(t, models.SetupModeTimeXRate.Valid())
		assert.False(t, models.SetupMode("HOURLY").Valid())
	})

	t.Run("FinishCalcType", func(t *testing.T) {
		assert.True(t, models.FinishPerUnit.Valid())
		assert.True(t, models.FinishPerM2.Valid())
		assert.True(t, models.FinishPerLot.Valid())
		assert.True(t, models.FinishPerHour.Valid())
		assert.False(t, models.FinishCalcType("PER_KG").Valid())
	})

	t.Run("MarginScope", func(t *testing.T) {
		assert.True(t, models.ScopeGlobal.Valid())
		assert.True(t, models.ScopeCategory.Valid())
		assert.True(t, models.ScopeProduct.Valid())
		assert.False(t, models.MarginScope("REGION").Valid())
	})

	t.Run("RoundingStrategy", func(t *testing.T) {
		assert.True(t, models.RoundEndOnly.Valid())
		assert.True(t, models.RoundPerStep.Valid())
		assert.False(t, models.RoundingStrategy("NONE").Valid())
	})

	t.Run("PricingStrategy", func(t *testing.T) {
		assert.True(t, models.StrategyCostMarkupMargin.Valid())
		assert.True(t, models.StrategyCostMarginOnly.Valid())
		assert.True(t, models.StrategyMarginTarget.Valid())
		assert.False(t, models.PricingStrategy("COST_PLUS").Valid())
	})
}

func TestMaterialVariantDerivedUnitCost(t *testing.T) {
	t.Run("FromPackPrice", func(t *testing.T) {
		variant := &models.MaterialVariant{PackPrice: 50.0, SheetsPerPack: 500}
		assert.InDelta(t, 0.10, variant.DerivedUnitCost(), 0.0001)
	})

	t.Run("DirectUnitPriceWins", func(t *testing.T) {
		variant := &models.MaterialVariant{
			PackPrice:     50.0,
			SheetsPerPack: 500,
			UnitPrice:     utils.ToPtr(0.08),
		}
		assert.InDelta(t, 0.08, variant.DerivedUnitCost(), 0.0001)
	})

	t.Run("DegenerateSheetsPerPack", func(t *testing.T) {
		variant := &models.MaterialVariant{PackPrice: 50.0, SheetsPerPack: 0}
		assert.InDelta(t, 50.0, variant.DerivedUnitCost(), 0.0001)
	})
}

func TestMaterialCurrentVariant(t *testing.T) {
	material := &models.Material{
		Variants: []models.MaterialVariant{
			{ID: 1, IsCurrent: utils.ToPtr(false)},
			{ID: 2, IsCurrent: utils.ToPtr(true)},
			{ID: 3, IsCurrent: utils.ToPtr(false)},
		},
	}
	current := material.CurrentVariant()
	require.NotNil(t, current)
	assert.Equal(t, uint(2), current.ID)

	empty := &models.Material{}
	assert.Nil(t, empty.CurrentVariant())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "materials", models.Material{}.TableName())
	assert.Equal(t, "material_variants", models.MaterialVariant{}.TableName())
	assert.Equal(t, "printings", models.Printing{}.TableName())
	assert.Equal(t, "finishes", models.Finish{}.TableName())
	assert.Equal(t, "products", models.Product{}.TableName())
	assert.Equal(t, "margin_rules", models.MarginRule{}.TableName())
	assert.Equal(t, "margin_rules_dynamic", models.MarginRuleDynamic{}.TableName())
	assert.Equal(t, "customer_material_prices", models.CustomerMaterialPrice{}.TableName())
	assert.Equal(t, "quotes", models.Quote{}.TableName())
	assert.Equal(t, "quote_items", models.QuoteItem{}.TableName())
	assert.Equal(t, "audit_logs", models.AuditLog{}.TableName())
}

func TestModelPersistence(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)

		t.Run("CustomerEmailUnique", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			assert.NotZero(t, customer.ID)
			assert.NotEmpty(t, customer.UUID.String())

			duplicate := &models.Customer{
				ContactName: "Duplicate Contact",
				Email:       customer.Email,
				IsActive:    utils.ToPtr(true),
			}
			err = testDB.DB.Create(duplicate).Error
			assert.Error(t, err)
		})

		t.Run("MaterialWithVariantsRoundTrip", func(t *testing.T) {
			material, err := fixtures.CreateTestMaterial("Persisted Stock", 0.10)
			require.NoError(t, err)
			_, err = fixtures.CreateTestVariant(material.ID, 45.0, 500, true)
			require.NoError(t, err)

			var loaded models.Material
			err = testDB.DB.Preload("Variants").First(&loaded, material.ID).Error
			require.NoError(t, err)
			require.Len(t, loaded.Variants, 1)

			current := loaded.CurrentVariant()
			require.NotNil(t, current)
			assert.InDelta(t, 0.09, current.DerivedUnitCost(), 0.0001)
		})

		t.Run("QuoteUUIDAssignedOnCreate", func(t *testing.T) {
			category, err := fixtures.CreateTestCategory("Persistence")
			require.NoError(t, err)
			material, err := fixtures.CreateTestMaterial("Quote Stock", 0.10)
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
			require.NoError(t, err)

			quote := &models.Quote{
				ProductID:   product.ID,
				Quantity:    100,
				Subtotal:    10,
				Markup:      0.10,
				Margin:      0.30,
				FinalPrice:  15.70,
				VATPercent:  0.23,
				Currency:    "EUR",
				EvaluatedAt: utils.UTCNow(),
			}
			quote.TotalWithVAT = quote.FinalPrice * (1 + quote.VATPercent)
			require.NoError(t, testDB.DB.Create(quote).Error)
			assert.NotEmpty(t, quote.UUID.String())

			item := &models.QuoteItem{
				QuoteID:   quote.ID,
				ItemType:  "material",
				RefID:     material.ID,
				Name:      material.Name,
				Quantity:  100,
				Unit:      "piece",
				UnitCost:  0.10,
				TotalCost: 10,
			}
			require.NoError(t, testDB.DB.Create(item).Error)

			var loaded models.Quote
			err = testDB.DB.Preload("Items").First(&loaded, quote.ID).Error
			require.NoError(t, err)
			require.Len(t, loaded.Items, 1)
			assert.Equal(t, "material", loaded.Items[0].ItemType)
		})

		return nil
	})
	require.NoError(t, err)
}
