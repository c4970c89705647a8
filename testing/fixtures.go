// Package testing provides test utilities and database setup for testing the quoting platform
package testing

import (
	"fmt"
	"math/rand"

	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestCategory creates a test category with a unique name
func (tf *TestFixtures) CreateTestCategory(name string) (*models.Category, error) {
	category := &models.Category{
		Name:     fmt.Sprintf("%s %d", name, rand.Intn(1000000)),
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}

	return category, nil
}

// CreateTestSupplier creates a test supplier with a unique name
func (tf *TestFixtures) CreateTestSupplier(name string) (*models.Supplier, error) {
	email := "sales@example.com"
	supplier := &models.Supplier{
		Name:     fmt.Sprintf("%s %d", name, rand.Intn(1000000)),
		Email:    &email,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(supplier).Error; err != nil {
		return nil, fmt.Errorf("failed to create test supplier: %w", err)
	}

	return supplier, nil
}

// CreateTestCustomer creates an active test customer
func (tf *TestFixtures) CreateTestCustomer() (*models.Customer, error) {
	n := rand.Intn(10000000)
	companyName := "Test Print Buyer Ltd"

	customer := &models.Customer{
		CompanyName: &companyName,
		ContactName: "Maria Silva",
		Email:       fmt.Sprintf("maria.silva.%d@example.com", n),
		IsActive:    utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create test customer: %w", err)
	}

	return customer, nil
}

// CreateTestMaterial creates an active test material priced per unit
func (tf *TestFixtures) CreateTestMaterial(name string, unitCost float64) (*models.Material, error) {
	material := &models.Material{
		Name:     fmt.Sprintf("%s %d", name, rand.Intn(1000000)),
		UnitCost: unitCost,
		Unit:     models.UnitPiece,
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(material).Error; err != nil {
		return nil, fmt.Errorf("failed to create test material: %w", err)
	}

	return material, nil
}

// CreateTestVariant creates a variant pack for a material
func (tf *TestFixtures) CreateTestVariant(materialID uint, packPrice float64, sheetsPerPack int, current bool) (*models.MaterialVariant, error) {
	variant := &models.MaterialVariant{
		MaterialID:    materialID,
		Name:          fmt.Sprintf("Pack of %d", sheetsPerPack),
		PackPrice:     packPrice,
		SheetsPerPack: sheetsPerPack,
		IsCurrent:     utils.ToPtr(current),
	}

	if err := tf.DB.DB.Create(variant).Error; err != nil {
		return nil, fmt.Errorf("failed to create test variant: %w", err)
	}

	return variant, nil
}

// CreateTestPrinting creates an active test printing configuration
func (tf *TestFixtures) CreateTestPrinting(name string, unitPrice float64, mode models.SetupMode) (*models.Printing, error) {
	printing := &models.Printing{
		Name:       fmt.Sprintf("%s %d", name, rand.Intn(1000000)),
		Technology: "digital",
		UnitPrice:  unitPrice,
		SetupMode:  mode,
		Sides:      1,
		IsActive:   utils.ToPtr(true),
	}
	if mode == models.SetupModeFlat {
		printing.SetupFlatFee = utils.ToPtr(10.0)
	} else {
		printing.SetupMinutes = utils.ToPtr(20.0)
	}

	if err := tf.DB.DB.Create(printing).Error; err != nil {
		return nil, fmt.Errorf("failed to create test printing: %w", err)
	}

	return printing, nil
}

// CreateTestFinish creates an active test finish
func (tf *TestFixtures) CreateTestFinish(name string, baseCost float64, calcType models.FinishCalcType) (*models.Finish, error) {
	finish := &models.Finish{
		Name:     fmt.Sprintf("%s %d", name, rand.Intn(1000000)),
		Category: "general",
		CalcType: calcType,
		BaseCost: baseCost,
		Unit:     "piece",
		IsActive: utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(finish).Error; err != nil {
		return nil, fmt.Errorf("failed to create test finish: %w", err)
	}

	return finish, nil
}

// CreateTestProduct creates an active product with a single-material bill of materials
func (tf *TestFixtures) CreateTestProduct(categoryID uint, printingID *uint, materialID uint, qtyPerUnit float64) (*models.Product, error) {
	product := &models.Product{
		Name:              fmt.Sprintf("Business Cards %d", rand.Intn(1000000)),
		CategoryID:        categoryID,
		DefaultPrintingID: printingID,
		IsActive:          utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}

	line := &models.ProductMaterial{
		ProductID:  product.ID,
		MaterialID: materialID,
		QtyPerUnit: qtyPerUnit,
	}
	if err := tf.DB.DB.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create test BOM line: %w", err)
	}

	return product, nil
}

// AddTestFinishLine attaches a finish to an existing product
func (tf *TestFixtures) AddTestFinishLine(productID, finishID uint) (*models.ProductFinish, error) {
	line := &models.ProductFinish{
		ProductID: productID,
		FinishID:  finishID,
	}

	if err := tf.DB.DB.Create(line).Error; err != nil {
		return nil, fmt.Errorf("failed to create test finish line: %w", err)
	}

	return line, nil
}

// CreateTestMarginRule creates an active static margin rule
func (tf *TestFixtures) CreateTestMarginRule(scope models.MarginScope, categoryID, productID *uint, margin float64) (*models.MarginRule, error) {
	rule := &models.MarginRule{
		Scope:      scope,
		CategoryID: categoryID,
		ProductID:  productID,
		Margin:     margin,
		IsActive:   utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test margin rule: %w", err)
	}

	return rule, nil
}

// CreateTestDynamicRule creates an active dynamic margin rule
func (tf *TestFixtures) CreateTestDynamicRule(scope models.MarginScope, minQuantity *int, adjustPercent float64, stackable bool) (*models.MarginRuleDynamic, error) {
	rule := &models.MarginRuleDynamic{
		Scope:         scope,
		MinQuantity:   minQuantity,
		AdjustPercent: adjustPercent,
		Priority:      100,
		Stackable:     utils.ToPtr(stackable),
		IsActive:      utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create test dynamic rule: %w", err)
	}

	return rule, nil
}

// CreateTestMaterialOverride creates a current customer material price
func (tf *TestFixtures) CreateTestMaterialOverride(customerID, materialID uint, unitCost float64) (*models.CustomerMaterialPrice, error) {
	row := &models.CustomerMaterialPrice{
		CustomerID: customerID,
		MaterialID: materialID,
		OverrideTerms: models.OverrideTerms{
			UnitCost:  unitCost,
			Priority:  100,
			IsCurrent: utils.ToPtr(true),
		},
	}

	if err := tf.DB.DB.Create(row).Error; err != nil {
		return nil, fmt.Errorf("failed to create test material override: %w", err)
	}

	return row, nil
}
