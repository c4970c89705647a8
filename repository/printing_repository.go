// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// PrintingRepositoryImpl implements PrintingRepository interface
type PrintingRepositoryImpl struct {
	*BaseRepository[models.Printing, models.PrintingFilter]
}

// NewPrintingRepository creates a new printing repository
func NewPrintingRepository(db *gorm.DB) PrintingRepository {
	return &PrintingRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Printing, models.PrintingFilter](db),
	}
}

// ByIDs retrieves printing configurations by their IDs
func (r *PrintingRepositoryImpl) ByIDs(ctx context.Context, ids []uint) ([]*models.Printing, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var printings []*models.Printing
	err := db.Where("id IN ?", ids).Find(&printings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find printings by IDs: %w", err)
	}

	return printings, nil
}

// ListActive retrieves all active printing configurations
func (r *PrintingRepositoryImpl) ListActive(ctx context.Context) ([]*models.Printing, error) {
	db := r.getDB(ctx)

	var printings []*models.Printing
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&printings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active printings: %w", err)
	}

	return printings, nil
}
