// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// ProductRepositoryImpl implements ProductRepository interface
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByUUID retrieves a product by its UUID
func (r *ProductRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	db := r.getDB(ctx)

	var product models.Product
	err := db.Where("uuid = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by UUID: %w", err)
	}

	return &product, nil
}

// ByIDWithBOM retrieves a product with its full bill of materials: material
// lines with materials and bound variants, finish lines with finishes, and
// the owning category.
func (r *ProductRepositoryImpl) ByIDWithBOM(ctx context.Context, id uint) (*models.Product, error) {
	db := r.getDB(ctx)

	var product models.Product
	err := db.Preload("Category").
		Preload("Materials").
		Preload("Materials.Material").
		Preload("Materials.Material.Variants").
		Preload("Materials.Variant").
		Preload("Finishes").
		Preload("Finishes.Finish").
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product %d with BOM: %w", id, err)
	}

	return &product, nil
}

// ListByCategory retrieves active products of one category with pagination
func (r *ProductRepositoryImpl) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)

	var products []*models.Product
	err := db.Where("category_id = ? AND is_active = ?", categoryID, true).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}

	return products, nil
}

// ListActive retrieves active products with pagination
func (r *ProductRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)

	var products []*models.Product
	err := db.Where("is_active = ?", true).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Preload("Category").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active products: %w", err)
	}

	return products, nil
}

// ReplaceMaterials swaps the product's material lines for the given set
func (r *ProductRepositoryImpl) ReplaceMaterials(ctx context.Context, productID uint, materials []*models.ProductMaterial) error {
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

	err = db.Where("product_id = ?", productID).Delete(&models.ProductMaterial{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear material lines for product %d: %w", productID, err)
	}

	for _, pm := range materials {
		pm.ProductID = productID
	}
	if len(materials) > 0 {
		if err = db.Create(materials).Error; err != nil {
			return fmt.Errorf("failed to save material lines for product %d: %w", productID, err)
		}
	}

	return nil
}

// ReplaceFinishes swaps the product's finish lines for the given set
func (r *ProductRepositoryImpl) ReplaceFinishes(ctx context.Context, productID uint, finishes []*models.ProductFinish) error {
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

	err = db.Where("product_id = ?", productID).Delete(&models.ProductFinish{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear finish lines for product %d: %w", productID, err)
	}

	for _, pf := range finishes {
		pf.ProductID = productID
	}
	if len(finishes) > 0 {
		if err = db.Create(finishes).Error; err != nil {
			return fmt.Errorf("failed to save finish lines for product %d: %w", productID, err)
		}
	}

	return nil
}
