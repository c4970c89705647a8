// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uint) error
}

// CategoryRepository defines operations for product categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	ByName(ctx context.Context, name string) (*models.Category, error)
	ListActive(ctx context.Context) ([]*models.Category, error)
}

// SupplierRepository defines operations for material suppliers
type SupplierRepository interface {
	Repository[models.Supplier, models.SupplierFilter]
	ListActive(ctx context.Context) ([]*models.Supplier, error)
}

// CustomerRepository defines operations for customers
type CustomerRepository interface {
	Repository[models.Customer, models.CustomerFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Customer, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Customer, error)
}

// MaterialRepository defines operations for materials and their variants
type MaterialRepository interface {
	Repository[models.Material, models.MaterialFilter]
	ByIDWithVariants(ctx context.Context, id uint) (*models.Material, error)
	ListActive(ctx context.Context) ([]*models.Material, error)
	SaveVariant(ctx context.Context, variant *models.MaterialVariant) error
	MarkVariantCurrent(ctx context.Context, materialID, variantID uint) error
}

// PrintingRepository defines operations for printing configurations
type PrintingRepository interface {
	Repository[models.Printing, models.PrintingFilter]
	ByIDs(ctx context.Context, ids []uint) ([]*models.Printing, error)
	ListActive(ctx context.Context) ([]*models.Printing, error)
}

// FinishRepository defines operations for finishes
type FinishRepository interface {
	Repository[models.Finish, models.FinishFilter]
	ListActive(ctx context.Context) ([]*models.Finish, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Finish, error)
}

// ProductRepository defines operations for products and their bill of materials
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Product, error)
	ByIDWithBOM(ctx context.Context, id uint) (*models.Product, error)
	ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Product, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ReplaceMaterials(ctx context.Context, productID uint, materials []*models.ProductMaterial) error
	ReplaceFinishes(ctx context.Context, productID uint, finishes []*models.ProductFinish) error
}

// PriceOverrideRepository defines operations over the three customer price
// override tables. Reads are scoped to currently flagged rows; resolution
// ordering happens in the pricing package, not in SQL.
type PriceOverrideRepository interface {
	ListCurrentMaterialPrices(ctx context.Context, customerID uint, materialIDs []uint) ([]*models.CustomerMaterialPrice, error)
	ListCurrentPrintingPrices(ctx context.Context, customerID uint, printingIDs []uint) ([]*models.CustomerPrintingPrice, error)
	ListCurrentFinishPrices(ctx context.Context, customerID uint, finishIDs []uint) ([]*models.CustomerFinishPrice, error)
	SaveMaterialPrice(ctx context.Context, price *models.CustomerMaterialPrice) error
	SavePrintingPrice(ctx context.Context, price *models.CustomerPrintingPrice) error
	SaveFinishPrice(ctx context.Context, price *models.CustomerFinishPrice) error
	SupersedeCurrent(ctx context.Context, kind models.PricedEntityKind, customerID, entityID uint) error
}

// MarginRuleRepository defines operations for static and dynamic margin rules
type MarginRuleRepository interface {
	Repository[models.MarginRule, models.MarginRuleFilter]
	ListCandidates(ctx context.Context, categoryID, productID uint, asOf time.Time) ([]models.MarginRule, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.MarginRule, error)
	SaveDynamic(ctx context.Context, rule *models.MarginRuleDynamic) error
	UpdateDynamic(ctx context.Context, rule *models.MarginRuleDynamic) error
	DynamicByID(ctx context.Context, id uint) (*models.MarginRuleDynamic, error)
	ListDynamicCandidates(ctx context.Context, categoryID, productID uint, asOf time.Time) ([]models.MarginRuleDynamic, error)
	ListAllDynamic(ctx context.Context, limit, offset int) ([]*models.MarginRuleDynamic, error)
}

// ConfigRepository defines operations for the global pricing configuration singleton
type ConfigRepository interface {
	Get(ctx context.Context) (*models.ConfigGlobal, error)
	Update(ctx context.Context, config *models.ConfigGlobal) error
}

// QuoteRepository defines operations for persisted quotes
type QuoteRepository interface {
	Repository[models.Quote, models.QuoteFilter]
	ByUUID(ctx context.Context, uuid uuid.UUID) (*models.Quote, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Quote, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.Quote, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
