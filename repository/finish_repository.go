// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// FinishRepositoryImpl implements FinishRepository interface
type FinishRepositoryImpl struct {
	*BaseRepository[models.Finish, models.FinishFilter]
}

// NewFinishRepository creates a new finish repository
func NewFinishRepository(db *gorm.DB) FinishRepository {
	return &FinishRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Finish, models.FinishFilter](db),
	}
}

// ListActive retrieves all active finishes
func (r *FinishRepositoryImpl) ListActive(ctx context.Context) ([]*models.Finish, error) {
	db := r.getDB(ctx)

	var finishes []*models.Finish
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Find(&finishes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active finishes: %w", err)
	}

	return finishes, nil
}

// ListByCategory retrieves active finishes of one category (lamination, cutting, ...)
func (r *FinishRepositoryImpl) ListByCategory(ctx context.Context, category string) ([]*models.Finish, error) {
	db := r.getDB(ctx)

	var finishes []*models.Finish
	err := db.Where("category = ? AND is_active = ?", category, true).
		Order("name ASC").
		Find(&finishes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list finishes by category: %w", err)
	}

	return finishes, nil
}
