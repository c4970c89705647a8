package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

var lineAsOf = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func lineSnapshot(quantity int) Snapshot {
	return Snapshot{
		Product:  models.Product{ID: 7, CategoryID: 1},
		Quantity: quantity,
		AsOf:     lineAsOf,
		Context: Context{
			MarginDefault:       d("0.30"),
			MarkupDefault:       d("0.10"),
			PrintingHourCost:    d("60"),
			DefaultSetupMinutes: d("15"),
		},
	}
}

func TestMaterialLine(t *testing.T) {
	material := models.Material{
		ID:       3,
		Name:     "coated paper 300g",
		UnitCost: 0.08,
		Unit:     models.UnitSheet,
	}

	t.Run("EffectiveQuantityIncludesWaste", func(t *testing.T) {
		s := lineSnapshot(1000)
		pm := models.ProductMaterial{
			MaterialID:  3,
			Material:    &material,
			QtyPerUnit:  0.5,
			WasteFactor: utils.ToPtr(0.10),
		}

		item, err := materialLine(&s, pm)
		require.NoError(t, err)
		// 0.5 x 1.10 x 1000 = 550 sheets x 0.08 = 44.00
		assert.True(t, item.Quantity.Equal(d("550")), "got %s", item.Quantity)
		assert.True(t, item.TotalCost.Equal(d("44.00")), "got %s", item.TotalCost)
		assert.Equal(t, ItemTypeMaterial, item.Type)
		assert.Equal(t, "sheet", item.Unit)
	})

	t.Run("VariantDerivedUnitCost", func(t *testing.T) {
		s := lineSnapshot(100)
		variant := models.MaterialVariant{
			ID:            9,
			MaterialID:    3,
			PackPrice:     50,
			SheetsPerPack: 500,
			IsCurrent:     utils.ToPtr(true),
		}
		pm := models.ProductMaterial{
			MaterialID: 3,
			Material:   &material,
			VariantID:  utils.ToPtr(uint(9)),
			Variant:    &variant,
			QtyPerUnit: 1,
		}

		item, err := materialLine(&s, pm)
		require.NoError(t, err)
		// 50 / 500 = 0.10 per sheet, 100 sheets = 10.00
		assert.True(t, item.UnitCost.Equal(d("0.10")), "got %s", item.UnitCost)
		assert.True(t, item.TotalCost.Equal(d("10.00")), "got %s", item.TotalCost)
	})

	t.Run("VariantDirectUnitPriceBeatsPackDerivation", func(t *testing.T) {
		s := lineSnapshot(100)
		variant := models.MaterialVariant{
			ID:            9,
			MaterialID:    3,
			PackPrice:     50,
			SheetsPerPack: 500,
			UnitPrice:     utils.ToPtr(0.12),
		}
		pm := models.ProductMaterial{
			MaterialID: 3,
			Material:   &material,
			VariantID:  utils.ToPtr(uint(9)),
			Variant:    &variant,
			QtyPerUnit: 1,
		}

		item, err := materialLine(&s, pm)
		require.NoError(t, err)
		assert.True(t, item.UnitCost.Equal(d("0.12")))
	})

	t.Run("CustomerOverrideAppliesToMaterial", func(t *testing.T) {
		s := lineSnapshot(100)
		s.CustomerID = utils.ToPtr(uint(42))
		s.Overrides = map[models.PricedEntityKind]map[uint][]Override{
			models.PricedMaterial: {
				3: {{UnitCost: 0.05, Priority: 1, IsCurrent: true, CreatedAt: lineAsOf.Add(-time.Hour)}},
			},
		}
		pm := models.ProductMaterial{MaterialID: 3, Material: &material, QtyPerUnit: 1}

		item, err := materialLine(&s, pm)
		require.NoError(t, err)
		assert.True(t, item.UnitCost.Equal(d("0.05")))
	})

	t.Run("ZeroQtyPerUnitFails", func(t *testing.T) {
		s := lineSnapshot(100)
		pm := models.ProductMaterial{MaterialID: 3, Material: &material, QtyPerUnit: 0}

		_, err := materialLine(&s, pm)
		require.Error(t, err)
		assert.True(t, IsInvalidQuantity(err))
	})

	t.Run("MissingMaterialFails", func(t *testing.T) {
		s := lineSnapshot(100)
		pm := models.ProductMaterial{MaterialID: 3, QtyPerUnit: 1}

		_, err := materialLine(&s, pm)
		require.Error(t, err)
		assert.True(t, IsEntityNotFound(err))
	})
}

func TestPrintingLine(t *testing.T) {
	t.Run("FlatSetupFee", func(t *testing.T) {
		s := lineSnapshot(1000)
		p := models.Printing{
			ID:           2,
			Name:         "offset 4/0",
			UnitPrice:    0.02,
			SetupMode:    models.SetupModeFlat,
			SetupFlatFee: utils.ToPtr(25.0),
		}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		// 0.02 x 1000 + 25 = 45.00
		assert.True(t, item.TotalCost.Equal(d("45.00")), "got %s", item.TotalCost)
	})

	t.Run("TimeTimesRateSetup", func(t *testing.T) {
		s := lineSnapshot(1000)
		p := models.Printing{
			ID:           2,
			Name:         "digital",
			UnitPrice:    0.02,
			SetupMode:    models.SetupModeTimeXRate,
			SetupMinutes: utils.ToPtr(30.0),
		}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		// base 20.00 + (30/60) x 60 = 50.00
		assert.True(t, item.TotalCost.Equal(d("50.00")), "got %s", item.TotalCost)
	})

	t.Run("TimeTimesRateFallsBackToDefaultMinutes", func(t *testing.T) {
		s := lineSnapshot(100)
		p := models.Printing{
			ID:        2,
			Name:      "digital",
			UnitPrice: 0.10,
			SetupMode: models.SetupModeTimeXRate,
		}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		// base 10.00 + (15/60) x 60 = 25.00
		assert.True(t, item.TotalCost.Equal(d("25.00")), "got %s", item.TotalCost)
	})

	t.Run("LossFactorInflatesBase", func(t *testing.T) {
		s := lineSnapshot(1000)
		p := models.Printing{
			ID:         2,
			Name:       "offset",
			UnitPrice:  0.02,
			LossFactor: 0.05,
			SetupMode:  models.SetupModeFlat,
		}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		// 0.02 x 1000 x 1.05 = 21.00
		assert.True(t, item.TotalCost.Equal(d("21.00")), "got %s", item.TotalCost)
	})

	t.Run("MinimumFeeFloors", func(t *testing.T) {
		s := lineSnapshot(10)
		p := models.Printing{
			ID:        2,
			Name:      "offset",
			UnitPrice: 0.02,
			SetupMode: models.SetupModeFlat,
			MinFee:    utils.ToPtr(15.0),
		}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		assert.True(t, item.TotalCost.Equal(d("15.00")), "got %s", item.TotalCost)
	})

	t.Run("CustomerOverrideAppliesToUnitPrice", func(t *testing.T) {
		s := lineSnapshot(1000)
		s.CustomerID = utils.ToPtr(uint(42))
		s.Overrides = map[models.PricedEntityKind]map[uint][]Override{
			models.PricedPrinting: {
				2: {{UnitCost: 0.015, Priority: 1, IsCurrent: true, CreatedAt: lineAsOf.Add(-time.Hour)}},
			},
		}
		p := models.Printing{ID: 2, Name: "offset", UnitPrice: 0.02, SetupMode: models.SetupModeFlat}

		item, err := printingLine(&s, p)
		require.NoError(t, err)
		assert.True(t, item.TotalCost.Equal(d("15.00")), "got %s", item.TotalCost)
	})
}

func TestFinishLine(t *testing.T) {
	t.Run("PerUnit", func(t *testing.T) {
		s := lineSnapshot(500)
		fin := models.Finish{ID: 4, Name: "matt lamination", CalcType: models.FinishPerUnit, BaseCost: 0.03, Unit: "piece"}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		// 500 x 1 x 0.03 = 15.00
		assert.True(t, item.TotalCost.Equal(d("15.00")), "got %s", item.TotalCost)
	})

	t.Run("PerUnitWithQtyPerUnit", func(t *testing.T) {
		s := lineSnapshot(500)
		fin := models.Finish{ID: 4, Name: "eyelets", CalcType: models.FinishPerUnit, BaseCost: 0.10, Unit: "piece"}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin, QtyPerUnit: utils.ToPtr(4.0)}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		// 500 x 4 x 0.10 = 200.00
		assert.True(t, item.TotalCost.Equal(d("200.00")), "got %s", item.TotalCost)
	})

	t.Run("PerM2WithAreaBanding", func(t *testing.T) {
		s := lineSnapshot(10)
		s.Params.BilledAreaM2 = utils.ToPtr(0.33)
		fin := models.Finish{
			ID:         4,
			Name:       "uv varnish",
			CalcType:   models.FinishPerM2,
			BaseCost:   8,
			AreaStepM2: utils.ToPtr(0.25),
		}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		// 0.33 bands up to 0.50; 0.50 x 10 x 8 = 40.00
		assert.True(t, item.Quantity.Equal(d("5.00")), "got %s", item.Quantity)
		assert.True(t, item.TotalCost.Equal(d("40.00")), "got %s", item.TotalCost)
		assert.Equal(t, "m2", item.Unit)
	})

	t.Run("PerM2WithoutAreaFails", func(t *testing.T) {
		s := lineSnapshot(10)
		fin := models.Finish{ID: 4, Name: "uv varnish", CalcType: models.FinishPerM2, BaseCost: 8}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		_, err := finishLine(&s, pf)
		require.Error(t, err)
		assert.True(t, IsInvalidQuantity(err))
	})

	t.Run("PerLotIgnoresQuantity", func(t *testing.T) {
		s := lineSnapshot(100000)
		fin := models.Finish{ID: 4, Name: "die setup", CalcType: models.FinishPerLot, BaseCost: 75}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		assert.True(t, item.Quantity.Equal(d("1")))
		assert.True(t, item.TotalCost.Equal(d("75.00")), "got %s", item.TotalCost)
	})

	t.Run("PerHourUsesSuppliedDuration", func(t *testing.T) {
		s := lineSnapshot(100)
		s.Params.LaborHours = utils.ToPtr(2.5)
		fin := models.Finish{ID: 4, Name: "hand assembly", CalcType: models.FinishPerHour, BaseCost: 20}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		assert.True(t, item.TotalCost.Equal(d("50.00")), "got %s", item.TotalCost)
	})

	t.Run("LineCalcTypeOverridesFinishDefault", func(t *testing.T) {
		s := lineSnapshot(100)
		fin := models.Finish{ID: 4, Name: "cutting", CalcType: models.FinishPerHour, BaseCost: 0.02}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin, CalcType: utils.ToPtr(models.FinishPerUnit)}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		// Priced per unit despite the finish's own PER_HOUR default.
		assert.True(t, item.TotalCost.Equal(d("2.00")), "got %s", item.TotalCost)
	})

	t.Run("CostOverrideBypassesResolution", func(t *testing.T) {
		s := lineSnapshot(100)
		s.CustomerID = utils.ToPtr(uint(42))
		s.Overrides = map[models.PricedEntityKind]map[uint][]Override{
			models.PricedFinish: {
				4: {{UnitCost: 0.01, Priority: 1, IsCurrent: true, CreatedAt: lineAsOf.Add(-time.Hour)}},
			},
		}
		fin := models.Finish{ID: 4, Name: "lamination", CalcType: models.FinishPerUnit, BaseCost: 0.03}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin, CostOverride: utils.ToPtr(0.05)}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		// The line-level absolute override wins over the customer override.
		assert.True(t, item.UnitCost.Equal(d("0.05")))
	})

	t.Run("MinimumFeeFloors", func(t *testing.T) {
		s := lineSnapshot(10)
		fin := models.Finish{ID: 4, Name: "lamination", CalcType: models.FinishPerUnit, BaseCost: 0.03, MinFee: utils.ToPtr(5.0)}
		pf := models.ProductFinish{FinishID: 4, Finish: &fin}

		item, err := finishLine(&s, pf)
		require.NoError(t, err)
		assert.True(t, item.TotalCost.Equal(d("5.00")), "got %s", item.TotalCost)
	})

	t.Run("MissingFinishFails", func(t *testing.T) {
		s := lineSnapshot(10)
		pf := models.ProductFinish{FinishID: 4}

		_, err := finishLine(&s, pf)
		require.Error(t, err)
		assert.True(t, IsEntityNotFound(err))
	})
}
