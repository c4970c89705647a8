// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// ConfigRepositoryImpl implements ConfigRepository for the single-row
// global pricing configuration.
type ConfigRepositoryImpl struct {
	DB *gorm.DB
}

// NewConfigRepository creates a new config repository
func NewConfigRepository(db *gorm.DB) ConfigRepository {
	return &ConfigRepositoryImpl{DB: db}
}

func (r *ConfigRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.DB
}

// Get retrieves the global configuration row
func (r *ConfigRepositoryImpl) Get(ctx context.Context) (*models.ConfigGlobal, error) {
	db := r.getDB(ctx)

	var config models.ConfigGlobal
	err := db.First(&config, utils.ConfigGlobalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load global config: %w", err)
	}

	return &config, nil
}

// Update persists the global configuration row
func (r *ConfigRepositoryImpl) Update(ctx context.Context, config *models.ConfigGlobal) error {
	config.ID = utils.ConfigGlobalID
	if err := r.getDB(ctx).Save(config).Error; err != nil {
		return fmt.Errorf("failed to update global config: %w", err)
	}
	return nil
}
