package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func newMarginFlow(testDB *testingutil.TestDB) businessflow.MarginRuleAdminFlow {
	db := testDB.DB
	return businessflow.NewMarginRuleAdminFlow(
		repository.NewMarginRuleRepository(db),
		repository.NewConfigRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewProductRepository(db),
		repository.NewAuditLogRepository(db),
		db,
		nil,
		nil,
	)
}

func TestMarginRuleAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newMarginFlow(testDB)
		ctx := context.Background()

		t.Run("CreateGlobalRule", func(t *testing.T) {
			result, err := flow.CreateMarginRule(ctx, &dto.CreateMarginRuleRequest{
				Scope:  "GLOBAL",
				Margin: 0.35,
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Rule.ID)
			assert.Equal(t, "GLOBAL", result.Rule.Scope)
			assert.InDelta(t, 0.35, result.Rule.Margin, 0.0001)
			assert.True(t, result.Rule.IsActive)
			assert.Nil(t, result.Rule.CategoryID)
		})

		t.Run("CategoryRuleRequiresTarget", func(t *testing.T) {
			_, err := flow.CreateMarginRule(ctx, &dto.CreateMarginRuleRequest{
				Scope:  "CATEGORY",
				Margin: 0.25,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsScopeTargetRequired(err))
		})

		t.Run("CategoryRuleWithUnknownTarget", func(t *testing.T) {
			_, err := flow.CreateMarginRule(ctx, &dto.CreateMarginRuleRequest{
				Scope:      "CATEGORY",
				CategoryID: utils.ToPtr(uint(999999)),
				Margin:     0.25,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		t.Run("InvertedValidityWindow", func(t *testing.T) {
			_, err := flow.CreateMarginRule(ctx, &dto.CreateMarginRuleRequest{
				Scope:     "GLOBAL",
				Margin:    0.25,
				ValidFrom: utils.ToPtr("2026-06-01T00:00:00Z"),
				ValidTo:   utils.ToPtr("2026-01-01T00:00:00Z"),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsValidityWindowInvalid(err))
		})

		t.Run("CreateDynamicRule", func(t *testing.T) {
			category, err := fixtures.CreateTestCategory("Posters")
			require.NoError(t, err)

			result, err := flow.CreateDynamicMarginRule(ctx, &dto.CreateDynamicMarginRuleRequest{
				Scope:         "CATEGORY",
				CategoryID:    &category.ID,
				MinQuantity:   utils.ToPtr(500),
				AdjustPercent: -0.03,
				MaxAdjust:     utils.ToPtr(0.05),
				Priority:      10,
				Stackable:     true,
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Rule.ID)
			assert.InDelta(t, -0.03, result.Rule.AdjustPercent, 0.0001)
			assert.True(t, result.Rule.Stackable)
		})

		t.Run("ListMarginRules", func(t *testing.T) {
			result, err := flow.ListMarginRules(ctx, 1, 50)
			require.NoError(t, err)
			assert.NotEmpty(t, result.StaticRules)
			assert.NotEmpty(t, result.DynamicRules)
		})

		t.Run("DeactivateStaticRule", func(t *testing.T) {
			created, err := flow.CreateMarginRule(ctx, &dto.CreateMarginRuleRequest{
				Scope:  "GLOBAL",
				Margin: 0.20,
			}, testMetadata())
			require.NoError(t, err)

			result, err := flow.DeactivateMarginRule(ctx, created.Rule.ID, testMetadata())
			require.NoError(t, err)
			assert.False(t, result.Rule.IsActive)

			// The row survives deactivation
			marginRepo := repository.NewMarginRuleRepository(testDB.DB)
			rule, err := marginRepo.ByID(ctx, created.Rule.ID)
			require.NoError(t, err)
			require.NotNil(t, rule)
			assert.False(t, utils.IsTrue(rule.IsActive))
		})

		t.Run("DeactivateDynamicRule", func(t *testing.T) {
			created, err := flow.CreateDynamicMarginRule(ctx, &dto.CreateDynamicMarginRuleRequest{
				Scope:         "GLOBAL",
				MinQuantity:   utils.ToPtr(1000),
				AdjustPercent: -0.02,
				Priority:      50,
			}, testMetadata())
			require.NoError(t, err)

			result, err := flow.DeactivateDynamicMarginRule(ctx, created.Rule.ID, testMetadata())
			require.NoError(t, err)
			assert.False(t, result.Rule.IsActive)
		})

		t.Run("DeactivateUnknownRule", func(t *testing.T) {
			_, err := flow.DeactivateMarginRule(ctx, 999999, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsMarginRuleNotFound(err))
		})

		return nil
	})
	require.NoError(t, err)
}

func TestConfigAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newMarginFlow(testDB)
		ctx := context.Background()

		t.Run("GetSeededConfig", func(t *testing.T) {
			result, err := flow.GetConfig(ctx)
			require.NoError(t, err)
			assert.InDelta(t, 0.30, result.Config.MarginDefault, 0.0001)
			assert.InDelta(t, 0.10, result.Config.MarkupOperational, 0.0001)
			assert.InDelta(t, 0.05, result.Config.RoundingStep, 0.0001)
			assert.Equal(t, "END_ONLY", result.Config.RoundingStrategy)
			assert.Equal(t, "COST_MARKUP_MARGIN", result.Config.PricingStrategy)
			assert.InDelta(t, 0.23, result.Config.VATPercent, 0.0001)
		})

		t.Run("UpdateConfigPartial", func(t *testing.T) {
			result, err := flow.UpdateConfig(ctx, &dto.UpdateConfigRequest{
				MarginDefault: utils.ToPtr(0.35),
				VATPercent:    utils.ToPtr(0.06),
			}, testMetadata())
			require.NoError(t, err)
			assert.InDelta(t, 0.35, result.Config.MarginDefault, 0.0001)
			assert.InDelta(t, 0.06, result.Config.VATPercent, 0.0001)
			// Untouched fields keep their values
			assert.InDelta(t, 0.10, result.Config.MarkupOperational, 0.0001)

			fetched, err := flow.GetConfig(ctx)
			require.NoError(t, err)
			assert.InDelta(t, 0.35, fetched.Config.MarginDefault, 0.0001)
		})

		return nil
	})
	require.NoError(t, err)
}
