// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// SupplierRepositoryImpl implements SupplierRepository interface
type SupplierRepositoryImpl struct {
	*BaseRepository[models.Supplier, models.SupplierFilter]
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *gorm.DB) SupplierRepository {
	return &SupplierRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Supplier, models.SupplierFilter](db),
	}
}

// ListActive retrieves all active suppliers ordered by name
func (r *SupplierRepositoryImpl) ListActive(ctx context.Context) ([]*models.Supplier, error) {
	db := r.getDB(ctx)

	var suppliers []*models.Supplier
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&suppliers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active suppliers: %w", err)
	}

	return suppliers, nil
}
