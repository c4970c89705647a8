package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	businessflow "github.com/smuelmfs/mp-pt-sub003/business_flow"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	testingutil "github.com/smuelmfs/mp-pt-sub003/testing"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

func newCatalogFlow(testDB *testingutil.TestDB) businessflow.CatalogAdminFlow {
	db := testDB.DB
	return businessflow.NewCatalogAdminFlow(
		repository.NewMaterialRepository(db),
		repository.NewPrintingRepository(db),
		repository.NewFinishRepository(db),
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
		repository.NewSupplierRepository(db),
		repository.NewAuditLogRepository(db),
		db,
	)
}

func TestCategoryAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCatalogFlow(testDB)
		ctx := context.Background()

		t.Run("CreateCategory", func(t *testing.T) {
			result, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{
				Name: "Business Cards",
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Category.ID)
			assert.NotEmpty(t, result.Category.UUID)
			assert.Nil(t, result.Category.ParentID)
			assert.True(t, result.Category.IsActive)
		})

		t.Run("CreateChildCategory", func(t *testing.T) {
			parent, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{
				Name: "Stationery",
			}, testMetadata())
			require.NoError(t, err)

			child, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{
				Name:     "Letterheads",
				ParentID: &parent.Category.ID,
			}, testMetadata())
			require.NoError(t, err)
			require.NotNil(t, child.Category.ParentID)
			assert.Equal(t, parent.Category.ID, *child.Category.ParentID)
		})

		t.Run("CreateCategoryWithUnknownParent", func(t *testing.T) {
			_, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{
				Name:     "Orphan",
				ParentID: utils.ToPtr(uint(999999)),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		t.Run("DuplicateCategoryName", func(t *testing.T) {
			_, err := flow.CreateCategory(ctx, &dto.CreateCategoryRequest{
				Name: "Business Cards",
			}, testMetadata())
			require.Error(t, err)

			var bizErr *businessflow.BusinessError
			require.True(t, errors.As(err, &bizErr))
			assert.Equal(t, "CATEGORY_NAME_TAKEN", bizErr.Code)
		})

		t.Run("ListCategories", func(t *testing.T) {
			result, err := flow.ListCategories(ctx)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, len(result.Categories), 3)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestMaterialAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newCatalogFlow(testDB)
		ctx := context.Background()

		t.Run("CreateMaterial", func(t *testing.T) {
			supplier, err := fixtures.CreateTestSupplier("Paper Wholesale")
			require.NoError(t, err)

			result, err := flow.CreateMaterial(ctx, &dto.CreateMaterialRequest{
				Name:       "Offset 90g",
				UnitCost:   0.04,
				SupplierID: &supplier.ID,
				LossFactor: 0.02,
				Unit:       "sheet",
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Material.ID)
			assert.NotEmpty(t, result.Material.UUID)
			assert.InDelta(t, 0.04, result.Material.UnitCost, 0.0001)
			assert.True(t, result.Material.IsActive)
		})

		t.Run("CreateMaterialWithUnknownSupplier", func(t *testing.T) {
			_, err := flow.CreateMaterial(ctx, &dto.CreateMaterialRequest{
				Name:       "Ghost Stock",
				UnitCost:   0.04,
				SupplierID: utils.ToPtr(uint(999999)),
				Unit:       "sheet",
			}, testMetadata())
			require.Error(t, err)

			var bizErr *businessflow.BusinessError
			require.True(t, errors.As(err, &bizErr))
			assert.Equal(t, "SUPPLIER_NOT_FOUND", bizErr.Code)
		})

		t.Run("UpdateMaterialPartial", func(t *testing.T) {
			material, err := fixtures.CreateTestMaterial("Kraft 120g", 0.06)
			require.NoError(t, err)

			result, err := flow.UpdateMaterial(ctx, material.ID, &dto.UpdateMaterialRequest{
				UnitCost: utils.ToPtr(0.07),
			}, testMetadata())
			require.NoError(t, err)
			assert.InDelta(t, 0.07, result.Material.UnitCost, 0.0001)
			assert.Equal(t, material.Name, result.Material.Name)
		})

		t.Run("UpdateUnknownMaterial", func(t *testing.T) {
			_, err := flow.UpdateMaterial(ctx, 999999, &dto.UpdateMaterialRequest{
				UnitCost: utils.ToPtr(0.07),
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsMaterialNotFound(err))
		})

		t.Run("AddVariantAndPromote", func(t *testing.T) {
			material, err := fixtures.CreateTestMaterial("Coated 300g", 0.12)
			require.NoError(t, err)
			first, err := fixtures.CreateTestVariant(material.ID, 50.0, 500, true)
			require.NoError(t, err)

			result, err := flow.AddMaterialVariant(ctx, material.ID, &dto.CreateMaterialVariantRequest{
				Name:          "Pack of 250",
				PackPrice:     30.0,
				SheetsPerPack: 250,
				MakeCurrent:   true,
			}, testMetadata())
			require.NoError(t, err)
			require.Len(t, result.Material.Variants, 2)

			for _, v := range result.Material.Variants {
				if v.ID == first.ID {
					assert.False(t, v.IsCurrent)
				} else {
					assert.True(t, v.IsCurrent)
					assert.InDelta(t, 0.12, v.DerivedUnitCost, 0.0001)
				}
			}
		})

		t.Run("ListMaterials", func(t *testing.T) {
			result, err := flow.ListMaterials(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Materials)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestPrintingAndFinishAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		flow := newCatalogFlow(testDB)
		ctx := context.Background()

		t.Run("CreatePrinting", func(t *testing.T) {
			result, err := flow.CreatePrinting(ctx, &dto.CreatePrintingRequest{
				Name:         "Offset 4/4",
				Technology:   "offset",
				UnitPrice:    0.03,
				SetupMode:    "TIME_X_RATE",
				SetupMinutes: utils.ToPtr(45.0),
				MinFee:       utils.ToPtr(25.0),
				Sides:        2,
				Colors:       utils.ToPtr(4),
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Printing.ID)
			assert.Equal(t, "TIME_X_RATE", result.Printing.SetupMode)
			require.NotNil(t, result.Printing.SetupMinutes)
			assert.InDelta(t, 45.0, *result.Printing.SetupMinutes, 0.0001)
		})

		t.Run("ListPrintings", func(t *testing.T) {
			result, err := flow.ListPrintings(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Printings)
		})

		t.Run("CreateFinish", func(t *testing.T) {
			result, err := flow.CreateFinish(ctx, &dto.CreateFinishRequest{
				Name:       "Matte Lamination",
				Category:   "lamination",
				CalcType:   "PER_M2",
				BaseCost:   1.20,
				AreaStepM2: utils.ToPtr(0.5),
				Unit:       "m2",
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Finish.ID)
			assert.Equal(t, "PER_M2", result.Finish.CalcType)
		})

		t.Run("ListFinishes", func(t *testing.T) {
			result, err := flow.ListFinishes(ctx)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Finishes)
		})

		return nil
	})
	require.NoError(t, err)
}

func TestProductAdministration(t *testing.T) {
	err := testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		flow := newCatalogFlow(testDB)
		ctx := context.Background()

		category, err := fixtures.CreateTestCategory("Brochures")
		require.NoError(t, err)
		material, err := fixtures.CreateTestMaterial("Silk 130g", 0.05)
		require.NoError(t, err)
		finish, err := fixtures.CreateTestFinish("Folding", 0.02, "PER_UNIT")
		require.NoError(t, err)

		t.Run("CreateProductWithBOM", func(t *testing.T) {
			result, err := flow.CreateProduct(ctx, &dto.CreateProductRequest{
				Name:       "Tri-fold Brochure A4",
				CategoryID: category.ID,
				Materials: []dto.ProductMaterialLineRequest{
					{MaterialID: material.ID, QtyPerUnit: 1, WasteFactor: utils.ToPtr(0.05)},
				},
				Finishes: []dto.ProductFinishLineRequest{
					{FinishID: finish.ID},
				},
			}, testMetadata())
			require.NoError(t, err)
			assert.NotZero(t, result.Product.ID)
			assert.Equal(t, 1, result.Product.MaterialLines)
			assert.Equal(t, 1, result.Product.FinishLines)

			fetched, err := flow.GetProduct(ctx, result.Product.ID)
			require.NoError(t, err)
			assert.Equal(t, result.Product.UUID, fetched.Product.UUID)
		})

		t.Run("CreateProductWithUnknownCategory", func(t *testing.T) {
			_, err := flow.CreateProduct(ctx, &dto.CreateProductRequest{
				Name:       "Orphan Product",
				CategoryID: 999999,
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsCategoryNotFound(err))
		})

		t.Run("CreateProductWithForeignVariant", func(t *testing.T) {
			other, err := fixtures.CreateTestMaterial("Other Stock", 0.05)
			require.NoError(t, err)
			foreign, err := fixtures.CreateTestVariant(other.ID, 40.0, 400, true)
			require.NoError(t, err)

			_, err = flow.CreateProduct(ctx, &dto.CreateProductRequest{
				Name:       "Mismatched Product",
				CategoryID: category.ID,
				Materials: []dto.ProductMaterialLineRequest{
					{MaterialID: material.ID, VariantID: &foreign.ID, QtyPerUnit: 1},
				},
			}, testMetadata())
			require.Error(t, err)
			assert.True(t, businessflow.IsVariantNotFound(err))
		})

		t.Run("ListProductsByCategory", func(t *testing.T) {
			result, err := flow.ListProducts(ctx, &category.ID, 1, 20)
			require.NoError(t, err)
			assert.NotEmpty(t, result.Products)
			for _, p := range result.Products {
				assert.Equal(t, category.ID, p.CategoryID)
			}
		})

		t.Run("ListProductsInvalidPagination", func(t *testing.T) {
			_, err := flow.ListProducts(ctx, nil, 0, 20)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPage(err))

			_, err = flow.ListProducts(ctx, nil, 1, 0)
			require.Error(t, err)
			assert.True(t, businessflow.IsInvalidPageSize(err))
		})

		return nil
	})
	require.NoError(t, err)
}
