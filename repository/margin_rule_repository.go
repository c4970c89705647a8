// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
)

// MarginRuleRepositoryImpl implements MarginRuleRepository interface
type MarginRuleRepositoryImpl struct {
	*BaseRepository[models.MarginRule, models.MarginRuleFilter]
}

// NewMarginRuleRepository creates a new margin rule repository
func NewMarginRuleRepository(db *gorm.DB) MarginRuleRepository {
	return &MarginRuleRepositoryImpl{
		BaseRepository: NewBaseRepository[models.MarginRule, models.MarginRuleFilter](db),
	}
}

// scopedRules narrows a rule query to rows that could apply to the given
// product: its own PRODUCT rules, its category's CATEGORY rules, and all
// GLOBAL rules. Window filtering beyond the coarse SQL cut happens in the
// pricing package against the evaluation timestamp.
func scopedRules(db *gorm.DB, categoryID, productID uint, asOf time.Time) *gorm.DB {
	return db.
		Where("is_active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", asOf).
		Where("valid_to IS NULL OR valid_to >= ?", asOf).
		Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("scope = ?", models.ScopeGlobal).
				Or("scope = ? AND category_id = ?", models.ScopeCategory, categoryID).
				Or("scope = ? AND product_id = ?", models.ScopeProduct, productID),
		)
}

// ListCandidates retrieves static margin rules that could apply to the product
func (r *MarginRuleRepositoryImpl) ListCandidates(ctx context.Context, categoryID, productID uint, asOf time.Time) ([]models.MarginRule, error) {
	db := r.getDB(ctx)

	var rules []models.MarginRule
	err := scopedRules(db.Model(&models.MarginRule{}), categoryID, productID, asOf).
		Order("created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list margin rule candidates: %w", err)
	}

	return rules, nil
}

// ListAll retrieves static margin rules with pagination
func (r *MarginRuleRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]*models.MarginRule, error) {
	db := r.getDB(ctx)

	var rules []*models.MarginRule
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list margin rules: %w", err)
	}

	return rules, nil
}

// SaveDynamic inserts a new dynamic margin rule
func (r *MarginRuleRepositoryImpl) SaveDynamic(ctx context.Context, rule *models.MarginRuleDynamic) error {
	if err := r.getDB(ctx).Create(rule).Error; err != nil {
		return fmt.Errorf("failed to save dynamic margin rule: %w", err)
	}
	return nil
}

// UpdateDynamic persists all fields of an existing dynamic margin rule
func (r *MarginRuleRepositoryImpl) UpdateDynamic(ctx context.Context, rule *models.MarginRuleDynamic) error {
	if err := r.getDB(ctx).Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update dynamic margin rule: %w", err)
	}
	return nil
}

// DynamicByID retrieves a dynamic margin rule by its ID
func (r *MarginRuleRepositoryImpl) DynamicByID(ctx context.Context, id uint) (*models.MarginRuleDynamic, error) {
	db := r.getDB(ctx)

	var rule models.MarginRuleDynamic
	err := db.First(&rule, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find dynamic margin rule %d: %w", id, err)
	}

	return &rule, nil
}

// ListDynamicCandidates retrieves dynamic margin rules that could apply to the product
func (r *MarginRuleRepositoryImpl) ListDynamicCandidates(ctx context.Context, categoryID, productID uint, asOf time.Time) ([]models.MarginRuleDynamic, error) {
	db := r.getDB(ctx)

	var rules []models.MarginRuleDynamic
	err := scopedRules(db.Model(&models.MarginRuleDynamic{}), categoryID, productID, asOf).
		Order("priority ASC, created_at DESC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dynamic margin rule candidates: %w", err)
	}

	return rules, nil
}

// ListAllDynamic retrieves dynamic margin rules with pagination
func (r *MarginRuleRepositoryImpl) ListAllDynamic(ctx context.Context, limit, offset int) ([]*models.MarginRuleDynamic, error) {
	db := r.getDB(ctx)

	var rules []*models.MarginRuleDynamic
	err := db.Order("priority ASC, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dynamic margin rules: %w", err)
	}

	return rules, nil
}
