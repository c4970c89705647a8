// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// MaterialRepositoryImpl implements MaterialRepository interface
type MaterialRepositoryImpl struct {
	*BaseRepository[models.Material, models.MaterialFilter]
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &MaterialRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Material, models.MaterialFilter](db),
	}
}

// ByIDWithVariants retrieves a material with its variants and supplier preloaded
func (r *MaterialRepositoryImpl) ByIDWithVariants(ctx context.Context, id uint) (*models.Material, error) {
	db := r.getDB(ctx)

	var material models.Material
	err := db.Preload("Variants").
		Preload("Supplier").
		First(&material, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find material %d with variants: %w", id, err)
	}

	return &material, nil
}

// ListActive retrieves all active materials with their variants
func (r *MaterialRepositoryImpl) ListActive(ctx context.Context) ([]*models.Material, error) {
	db := r.getDB(ctx)

	var materials []*models.Material
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Preload("Variants").
		Find(&materials).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active materials: %w", err)
	}

	return materials, nil
}

// SaveVariant inserts a new material variant
func (r *MaterialRepositoryImpl) SaveVariant(ctx context.Context, variant *models.MaterialVariant) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Create(variant).Error
	if err != nil {
		return fmt.Errorf("failed to save material variant: %w", err)
	}

	return nil
}

// MarkVariantCurrent flags one variant as current and clears the flag on
// every sibling of the same material.
func (r *MaterialRepositoryImpl) MarkVariantCurrent(ctx context.Context, materialID, variantID uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Model(&models.MaterialVariant{}).
		Where("material_id = ?", materialID).
		Update("is_current", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear current variants for material %d: %w", materialID, err)
	}

	err = db.Model(&models.MaterialVariant{}).
		Where("id = ? AND material_id = ?", variantID, materialID).
		Update("is_current", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark variant %d current: %w", variantID, err)
	}

	return nil
}
