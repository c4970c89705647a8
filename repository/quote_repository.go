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

// QuoteRepositoryImpl implements QuoteRepository interface
type QuoteRepositoryImpl struct {
	*BaseRepository[models.Quote, models.QuoteFilter]
}

// NewQuoteRepository creates a new quote repository
func NewQuoteRepository(db *gorm.DB) QuoteRepository {
	return &QuoteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Quote, models.QuoteFilter](db),
	}
}

// ByUUID retrieves a quote with its items by UUID
func (r *QuoteRepositoryImpl) ByUUID(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	db := r.getDB(ctx)

	var quote models.Quote
	err := db.Where("uuid = ?", id).
		Preload("Items").
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quote by UUID: %w", err)
	}

	return &quote, nil
}

// ListByCustomer retrieves a customer's quotes, newest first, with pagination
func (r *QuoteRepositoryImpl) ListByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]*models.Quote, error) {
	db := r.getDB(ctx)

	var quotes []*models.Quote
	err := db.Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Items").
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes by customer: %w", err)
	}

	return quotes, nil
}

// ListRecent retrieves the most recent quotes with pagination
func (r *QuoteRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.Quote, error) {
	db := r.getDB(ctx)

	var quotes []*models.Quote
	err := db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&quotes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent quotes: %w", err)
	}

	return quotes, nil
}
