package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
)

func newPriceFlow(testDB *testingutil.TestDB) businessflow.CustomerPriceAdminFlow {
	db := testDB.DB
	return businessflow.NewCustomerPriceAdminFlow(
		repository.NewPriceOverrideRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewMaterialRepository(db),
		repository.NewPrintingRepository(db),
		repository.NewFinishRepository(db),
		repository.NewAuditLogRepository(db),
		db,
	)
}

func TestSetPriceOverride(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newPriceFlow(testDB)
		ctx := context.Background()

		customer, err := fixtures.CreateTestCustomer()
		require.NoError(t, err)
		material, err := fixtures.CreateTestMaterial("Recycled 100g", 0.05)
		require.NoError(t, err)
		printing, err := fixtures.CreateTestPrinting("Large Format", 2.50, models.SetupModeFlat)
		require.NoError(t, err)
		finish, err := fixtures.CreateTestFinish("UV Coating", 0.80, models.FinishPerM2)
		require.NoError(t, err)

		t.Run("MaterialOverride", func(t *testing.T) {
			result, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "material",
				CustomerID: customer.ID,
				EntityID:   material.ID,
				UnitCost:   0.04,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "material", result.Override.Kind)
			assert.InDelta(t, 0.04, result.Override.UnitCost, 0.0001)
			assert.True(t, result.Override.IsCurrent)
		})

		t.Run("PrintingOverride", func(t *testing.T) {
			result, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "printing",
				CustomerID: customer.ID,
				EntityID:   printing.ID,
				UnitCost:   2.00,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "printing", result.Override.Kind)
		})

		t.Run("FinishOverride", func(t *testing.T) {
			result, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "finish",
				CustomerID: customer.ID,
				EntityID:   finish.ID,
				UnitCost:   0.60,
			}, testMetadata())
			require.NoError(t, err)
			assert.Equal(t, "finish", result.Override.Kind)
		})

		t.Run("SupersedesPreviousCurrent", func(t *testing.T) {
			first, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "material",
				CustomerID: customer.ID,
				EntityID:   material.ID,
				UnitCost:   0.045,
			}, testMetadata())
			require.NoError(t, err)

			second, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "material",
				CustomerID: customer.ID,
				EntityID:   material.ID,
				UnitCost:   0.042,
			}, testMetadata())
			require.NoError(t, err)
			assert.NotEqual(t, first.Override.ID, second.Override.ID)

			// Only the newest row stays current; history is preserved
			var rows []models.CustomerMaterialPrice
			err = testDB.DB.
				Where("customer_id = ? AND material_id = ?", customer.ID, material.ID).
				Order("id ASC").
				Find(&rows).Error
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(rows), 2)

			currentCount := 0
			for _, row := range rows {
				if row.IsCurrent != nil && *row.IsCurrent {
					currentCount++
					assert.Equal(t, second.Override.ID, row.ID)
				}
			}
			assert.Equal(t, 1, currentCount)
		})

		t.Run("ListOverridesPerKind", func(t *testing.T) {
			result, err := flow.ListOverrides(ctx, "material", customer.ID)
			require.NoError(t, err)
			require.Len(t, result.Overrides, 1)
			assert.Equal(t, material.ID, result.Overrides[0].EntityID)

			result, err = flow.ListOverrides(ctx, "printing", customer.ID)
			require.NoError(t, err)
			require.Len(t, result.Overrides, 1)
			assert.Equal(t, printing.ID, result.Overrides[0].EntityID)
		})

		t.Run("UnknownKind", func(t *testing.T) {
			_, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "shipping",
				CustomerID: customer.ID,
				EntityID:   material.ID,
				UnitCost:   0.04,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownOverrideKind(err))

			_, err = flow.ListOverrides(ctx, "shipping", customer.ID)
			require.Error(t, err)
			assert.True(t, businessflow.IsUnknownOverrideKind(err))
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			_, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "material",
				CustomerID: 999999,
				EntityID:   material.ID,
				UnitCost:   0.04,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		t.Run("UnknownEntity", func(t *testing.T) {
			_, err := flow.SetPriceOverride(ctx, &dto.SetPriceOverrideRequest{
				Kind:       "material",
				CustomerID: customer.ID,
				EntityID:   999999,
				UnitCost:   0.04,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsMaterialNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
