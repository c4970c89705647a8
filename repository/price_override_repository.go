// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// PriceOverrideRepositoryImpl implements PriceOverrideRepository across the
// three customer price tables.
type PriceOverrideRepositoryImpl struct {
	DB *gorm.DB
}

// NewPriceOverrideRepository creates a new price override repository
func NewPriceOverrideRepository(db *gorm.DB) PriceOverrideRepository {
	return &PriceOverrideRepositoryImpl{DB: db}
}

func (r *PriceOverrideRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// ListCurrentMaterialPrices retrieves current material overrides for a customer.
// A nil materialIDs slice means all materials.
func (r *PriceOverrideRepositoryImpl) ListCurrentMaterialPrices(ctx context.Context, customerID uint, materialIDs []uint) ([]*models.CustomerMaterialPrice, error) {
	db := r.getDB(ctx)

	query := db.Where("customer_id = ? AND is_current = ?", customerID, true)
	if len(materialIDs) > 0 {
		query = query.Where("material_id IN ?", materialIDs)
	}

	var prices []*models.CustomerMaterialPrice
	err := query.Order("priority ASC, created_at DESC").Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list current material prices: %w", err)
	}

	return prices, nil
}

// ListCurrentPrintingPrices retrieves current printing overrides for a customer.
// A nil printingIDs slice means all printing configurations.
func (r *PriceOverrideRepositoryImpl) ListCurrentPrintingPrices(ctx context.Context, customerID uint, printingIDs []uint) ([]*models.CustomerPrintingPrice, error) {
	db := r.getDB(ctx)

	query := db.Where("customer_id = ? AND is_current = ?", customerID, true)
	if len(printingIDs) > 0 {
		query = query.Where("printing_id IN ?", printingIDs)
	}

	var prices []*models.CustomerPrintingPrice
	err := query.Order("priority ASC, created_at DESC").Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list current printing prices: %w", err)
	}

	return prices, nil
}

// ListCurrentFinishPrices retrieves current finish overrides for a customer.
// A nil finishIDs slice means all finishes.
func (r *PriceOverrideRepositoryImpl) ListCurrentFinishPrices(ctx context.Context, customerID uint, finishIDs []uint) ([]*models.CustomerFinishPrice, error) {
	db := r.getDB(ctx)

	query := db.Where("customer_id = ? AND is_current = ?", customerID, true)
	if len(finishIDs) > 0 {
		query = query.Where("finish_id IN ?", finishIDs)
	}

	var prices []*models.CustomerFinishPrice
	err := query.Order("priority ASC, created_at DESC").Find(&prices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list current finish prices: %w", err)
	}

	return prices, nil
}

// SaveMaterialPrice inserts a new customer material price
func (r *PriceOverrideRepositoryImpl) SaveMaterialPrice(ctx context.Context, price *models.CustomerMaterialPrice) error {
	if err := r.getDB(ctx).Create(price).Error; err != nil {
		return fmt.Errorf("failed to save material price: %w", err)
	}
	return nil
}

// SavePrintingPrice inserts a new customer printing price
func (r *PriceOverrideRepositoryImpl) SavePrintingPrice(ctx context.Context, price *models.CustomerPrintingPrice) error {
	if err := r.getDB(ctx).Create(price).Error; err != nil {
		return fmt.Errorf("failed to save printing price: %w", err)
	}
	return nil
}

// SaveFinishPrice inserts a new customer finish price
func (r *PriceOverrideRepositoryImpl) SaveFinishPrice(ctx context.Context, price *models.CustomerFinishPrice) error {
	if err := r.getDB(ctx).Create(price).Error; err != nil {
		return fmt.Errorf("failed to save finish price: %w", err)
	}
	return nil
}

// SupersedeCurrent clears the is_current flag on every override of the
// given kind for the (customer, entity) pair. Superseded rows stay in the
// table as history.
func (r *PriceOverrideRepositoryImpl) SupersedeCurrent(ctx context.Context, kind models.PricedEntityKind, customerID, entityID uint) error {
	db := r.getDB(ctx)

	var err error
	switch kind {
	case models.PricedMaterial:
		err = db.Model(&models.CustomerMaterialPrice{}).
			Where("customer_id = ? AND material_id = ?", customerID, entityID).
			Update("is_current", false).Error
	case models.PricedPrinting:
		err = db.Model(&models.CustomerPrintingPrice{}).
			Where("customer_id = ? AND printing_id = ?", customerID, entityID).
			Update("is_current", false).Error
	case models.PricedFinish:
		err = db.Model(&models.CustomerFinishPrice{}).
			Where("customer_id = ? AND finish_id = ?", customerID, entityID).
			Update("is_current", false).Error
	default:
		return fmt.Errorf("unknown priced entity kind: %s", kind)
	}

	if err != nil {
		return fmt.Errorf("failed to supersede %s overrides for customer %d entity %d: %w", kind, customerID, entityID, err)
	}

	return nil
}
