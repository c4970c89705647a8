package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/config"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func newQuoteFlow(testDB *testingutil.TestDB) businessflow.QuoteFlow {
	db := testDB.DB
	return businessflow.NewQuoteFlow(
		repository.NewProductRepository(db),
		repository.NewPrintingRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewPriceOverrideRepository(db),
		repository.NewMarginRuleRepository(db),
		repository.NewConfigRepository(db),
		repository.NewQuoteRepository(db),
		repository.NewAuditLogRepository(db),
		db,
		nil,
		&config.CacheConfig{Enabled: false},
	)
}

func testMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "Test User Agent")
}

func TestPreviewQuote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newQuoteFlow(testDB)
		ctx := context.Background()

		category, err := fixtures.CreateTestCategory("Cards")
		require.NoError(t, err)
		material, err := fixtures.CreateTestMaterial("Coated 350g", 0.10)
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
		require.NoError(t, err)

		t.Run("MaterialOnlyBreakdown", func(t *testing.T) {
			result, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: product.ID,
				Quantity:  100,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, result)

			// 100 units x 0.10 material, default margin 0.30 and markup 0.10:
			// 10 * 1.10 / 0.70 = 15.7143, rounded to the 0.05 step = 15.70
			assert.InDelta(t, 10.0, result.CostMat, 0.0001)
			assert.InDelta(t, 10.0, result.Subtotal, 0.0001)
			assert.InDelta(t, 0.30, result.Margin, 0.0001)
			assert.InDelta(t, 0.10, result.Markup, 0.0001)
			assert.InDelta(t, 15.70, result.FinalPrice, 0.0001)
			assert.InDelta(t, 15.70*1.23, result.TotalWithVAT, 0.0001)
			assert.InDelta(t, 0.157, result.PricePerPiece, 0.0001)
			assert.Equal(t, utils.EuroCurrency, result.Currency)
			assert.Empty(t, result.QuoteUUID)
			require.Len(t, result.Items, 1)
			assert.Equal(t, "material", result.Items[0].ItemType)
			assert.Equal(t, material.ID, result.Items[0].RefID)
		})

		t.Run("PrintingRunWithFlatSetup", func(t *testing.T) {
			printing, err := fixtures.CreateTestPrinting("Digital A3", 0.05, models.SetupModeFlat)
			require.NoError(t, err)

			result, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID:   product.ID,
				Quantity:    100,
				PrintingIDs: []uint{printing.ID},
			}, testMetadata())
			require.NoError(t, err)

			// 100 x 0.05 + flat setup 10 = 15
			assert.InDelta(t, 15.0, result.CostPrint, 0.0001)
			assert.InDelta(t, 25.0, result.Subtotal, 0.0001)
			require.Len(t, result.Items, 2)
		})

		t.Run("ProductMarginRuleWins", func(t *testing.T) {
			scoped, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestMarginRule(models.ScopeProduct, nil, &scoped.ID, 0.40)
			require.NoError(t, err)

			result, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: scoped.ID,
				Quantity:  100,
			}, testMetadata())
			require.NoError(t, err)

			// 10 * 1.10 / 0.60 = 18.3333, rounded to 18.35
			assert.InDelta(t, 0.40, result.Margin, 0.0001)
			assert.InDelta(t, 18.35, result.FinalPrice, 0.0001)
		})

		t.Run("DynamicRuleAdjustsMargin", func(t *testing.T) {
			scoped, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
			require.NoError(t, err)
			_, err = fixtures.CreateTestDynamicRule(models.ScopeGlobal, utils.ToPtr(100), -0.05, false)
			require.NoError(t, err)

			result, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: scoped.ID,
				Quantity:  100,
			}, testMetadata())
			require.NoError(t, err)

			// Effective margin 0.30 - 0.05: 10 * 1.10 / 0.75 = 14.6667 -> 14.65
			assert.InDelta(t, 0.30, result.Margin, 0.0001)
			assert.InDelta(t, -0.05, result.DynamicAdjust, 0.0001)
			assert.InDelta(t, 14.65, result.FinalPrice, 0.0001)

			// Below the quantity threshold the rule stays silent
			small, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: scoped.ID,
				Quantity:  50,
			}, testMetadata())
			require.NoError(t, err)
			assert.InDelta(t, 0.0, small.DynamicAdjust, 0.0001)
		})

		t.Run("CustomerOverrideReplacesUnitCost", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			_, err = fixtures.CreateTestMaterialOverride(customer.ID, material.ID, 0.08)
			require.NoError(t, err)

			result, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID:    product.ID,
				Quantity:     100,
				CustomerUUID: utils.ToPtr(customer.UUID.String()),
			}, testMetadata())
			require.NoError(t, err)

			// 100 x 0.08 = 8: 8 * 1.10 / 0.70 = 12.5714 -> 12.55
			assert.InDelta(t, 8.0, result.CostMat, 0.0001)
			assert.InDelta(t, 12.55, result.FinalPrice, 0.0001)
		})

		t.Run("ZeroQuantity", func(t *testing.T) {
			_, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: product.ID,
				Quantity:  0,
			}, testMetadata())
			require.Error(t, err)

			var bizErr *businessflow.BusinessError
			require.True(t, errors.As(err, &bizErr))
			assert.Equal(t, "INVALID_QUANTITY", bizErr.Code)
		})

		t.Run("UnknownProduct", func(t *testing.T) {
			_, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID: 999999,
				Quantity:  10,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsProductNotFound(err))
		})

		t.Run("UnknownCustomer", func(t *testing.T) {
			_, err := flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID:    product.ID,
				Quantity:     10,
				CustomerUUID: utils.ToPtr("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerNotFound(err))
		})

		t.Run("InactiveCustomer", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)
			customer.IsActive = utils.ToPtr(false)
			require.NoError(t, testDB.DB.Save(customer).Error)

			_, err = flow.PreviewQuote(ctx, &dto.QuoteRequest{
				ProductID:    product.ID,
				Quantity:     10,
				CustomerUUID: utils.ToPtr(customer.UUID.String()),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCustomerInactive(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestCreateQuote(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newQuoteFlow(testDB)
		ctx := context.Background()

		category, err := fixtures.CreateTestCategory("Flyers")
		require.NoError(t, err)
		material, err := fixtures.CreateTestMaterial("Glossy 170g", 0.10)
		require.NoError(t, err)
		product, err := fixtures.CreateTestProduct(category.ID, nil, material.ID, 1)
		require.NoError(t, err)

		t.Run("PersistsQuoteWithItems", func(t *testing.T) {
			result, err := flow.CreateQuote(ctx, &dto.QuoteRequest{
				ProductID: product.ID,
				Quantity:  100,
			}, testMetadata())
			require.NoError(t, err)
			require.NotEmpty(t, result.QuoteUUID)
			assert.InDelta(t, 15.70, result.FinalPrice, 0.0001)

			fetched, err := flow.GetQuote(ctx, result.QuoteUUID)
			require.NoError(t, err)
			assert.Equal(t, result.QuoteUUID, fetched.Quote.QuoteUUID)
			assert.InDelta(t, result.FinalPrice, fetched.Quote.FinalPrice, 0.0001)
			require.Len(t, fetched.Quote.Items, 1)
			assert.Equal(t, "material", fetched.Quote.Items[0].ItemType)

			// Audit trail is written alongside the quote
			auditRepo := repository.NewAuditLogRepository(testDB.DB)
			rows, err := auditRepo.ListByAction(ctx, models.AuditActionQuoteCreated, 10, 0)
			require.NoError(t, err)
			assert.NotEmpty(t, rows)
		})

		t.Run("CustomerQuoteHistory", func(t *testing.T) {
			customer, err := fixtures.CreateTestCustomer()
			require.NoError(t, err)

			for i := 0; i < 2; i++ {
				_, err := flow.CreateQuote(ctx, &dto.QuoteRequest{
					ProductID:    product.ID,
					Quantity:     50,
					CustomerUUID: utils.ToPtr(customer.UUID.String()),
				}, testMetadata())
				require.NoError(t, err)
			}

			list, err := flow.ListQuotes(ctx, customer.ID, 1, 20)
			require.NoError(t, err)
			assert.Equal(t, 2, list.Total)
			require.Len(t, list.Quotes, 2)
		})

		t.Run("InvalidPagination", func(t *testing.T) {
			_, err := flow.ListQuotes(ctx, 1, 0, 20)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))

			_, err = flow.ListQuotes(ctx, 1, 1, 500)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		t.Run("MalformedQuoteUUID", func(t *testing.T) {
			_, err := flow.GetQuote(ctx, "not-a-uuid")
			require.Error(t, err)
			assert.True(t, businessflow.IsQuoteNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}
