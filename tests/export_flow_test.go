package tests

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func newExportFlow(testDB *testingutil.TestDB) businessflow.PriceListExportFlow {
	db := testDB.DB
	return businessflow.NewPriceListExportFlow(
		repository.NewMaterialRepository(db),
		repository.NewPrintingRepository(db),
		repository.NewFinishRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewPriceOverrideRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewAuditLogRepository(db),
	)
}

func TestExportPriceList(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newExportFlow(testDB)
		ctx := context.Background()

		material, err := fixtures.CreateTestMaterial("Export Stock", 0.10)
		require.NoError(t, err)
		_, err = fixtures.CreateTestPrinting("Export Press", 0.05, models.SetupModeFlat)
		require.NoError(t, err)
		_, err = fixtures.CreateTestFinish("Export Finish", 0.30, models.FinishPerUnit)
		require.NoError(t, err)

		t.Run("CatalogWideWorkbook", func(t *testing.T) {
			result, err := flow.ExportPriceList(ctx, &dto.ExportPriceListRequest{}, testMetadata())
			require.NoError(t, err)
			assert.Contains(t, result.FileName, "price_list_")
			assert.Contains(t, result.FileName, ".xlsx")
			require.NotEmpty(t, result.Content)

			xl, err := excelize.OpenReader(bytes.NewReader(result.Content))
			require.NoError(t, err)
			defer xl.Close()

			assert.ElementsMatch(t, []string{"Materials", "Printings", "Finishes"}, xl.GetSheetList())

			rows, err := xl.GetRows("Materials")
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(rows), 2)
			assert.Equal(t, []string{"id", "name", "unit", "base_unit_cost", "effective_unit_cost", "loss_factor"}, rows[0])
		})

		t.Run("CustomerOverrideReflected", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			_, err = fixtures.CreateTestMaterialOverride(customer.ID, material.ID, 0.07)
			require.NoError(t, err)

			result, err := flow.ExportPriceList(ctx, &dto.ExportPriceListRequest{
				CustomerID: &customer.ID,
			}, testMetadata())
			require.NoError(t, err)

			xl, err := excelize.OpenReader(bytes.NewReader(result.Content))
			require.NoError(t, err)
			defer xl.Close()

			rows, err := xl.GetRows("Materials")
			require.NoError(t, err)

			found := false
			for _, row := range rows[1:] {
				if len(row) >= 5 && row[1] == material.Name {
					found = true
					assert.Equal(t, "0.1000", row[3])
					assert.Equal(t, "0.0700", row[4])
				}
			}
			assert.True(t, found, "expected material row in export")
		})

		t.Run("QuoteBookSheetForCustomer", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			category, err := fixtures.CreateTestCategory("Export Cards")
			require.NoError(t, err)
			product, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
			require.NoError(t, err)

			quote := &models.Quote{
				ProductID:    product.ID,
				CustomerID:   &customer.ID,
				Quantity:     100,
				Subtotal:     10,
				Margin:       0.30,
				Markup:       0.10,
				FinalPrice:   15.70,
				VATPercent:   0.23,
				TotalWithVAT: 15.70 * 1.23,
				Currency:     utils.EuroCurrency,
				EvaluatedAt:  utils.UTCNow(),
			}
			require.NoError(t, testDB.DB.Create(quote).Error)

			result, err := flow.ExportPriceList(ctx, &dto.ExportPriceListRequest{
				CustomerID: &customer.ID,
			}, testMetadata())
			require.NoError(t, err)

			xl, err := excelize.OpenReader(bytes.NewReader(result.Content))
			require.NoError(t, err)
			defer xl.Close()

			require.Contains(t, xl.GetSheetList(), "Quotes")
			rows, err := xl.GetRows("Quotes")
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, []string{"uuid", "product_id", "quantity", "subtotal", "final_price", "total_with_vat", "created_at"}, rows[0])
			assert.Equal(t, quote.UUID.String(), rows[1][0])
			assert.Equal(t, "100", rows[1][2])
			assert.Equal(t, "15.7000", rows[1][4])
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			_, err := flow.ExportPriceList(ctx, &dto.ExportPriceListRequest{
				CustomerID: utils.ToPtr(uint(999999)),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
