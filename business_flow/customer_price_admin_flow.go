package businessflow

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// defaultOverridePriority applies when a request does not set one.
const defaultOverridePriority = 100

// CustomerPriceAdminFlow defines the customer price override administration operations.
type CustomerPriceAdminFlow interface {
	SetPriceOverride(ctx context.Context, req *dto.SetPriceOverrideRequest, metadata *ClientMetadata) (*dto.PriceOverrideResponse, error)
	ListOverrides(ctx context.Context, kind string, customerID uint) (*dto.ListPriceOverridesResponse, error)
}

// CustomerPriceAdminFlowImpl implements CustomerPriceAdminFlow.
type CustomerPriceAdminFlowImpl struct {
	overrideRepo repository.PriceOverrideRepository
	customerRepo repository.CustomerRepository
	materialRepo repository.MaterialRepository
	printingRepo repository.PrintingRepository
	finishRepo   repository.FinishRepository
	auditRepo    repository.AuditLogRepository

	db *gorm.DB
}

// NewCustomerPriceAdminFlow creates a new customer price administration flow.
func NewCustomerPriceAdminFlow(
	overrideRepo repository.PriceOverrideRepository,
	customerRepo repository.CustomerRepository,
	materialRepo repository.MaterialRepository,
	printingRepo repository.PrintingRepository,
	finishRepo repository.FinishRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) CustomerPriceAdminFlow {
	return &CustomerPriceAdminFlowImpl{
		overrideRepo: overrideRepo,
		customerRepo: customerRepo,
		materialRepo: materialRepo,
		printingRepo: printingRepo,
		finishRepo:   finishRepo,
		auditRepo:    auditRepo,
		db:           db,
	}
}

// verifyEntity checks that the targeted catalog entity exists for the kind.
func (f *CustomerPriceAdminFlowImpl) verifyEntity(ctx context.Context, kind models.PricedEntityKind, entityID uint) error {
	switch kind {
	case models.PricedMaterial:
		material, err := f.materialRepo.ByID(ctx, entityID)
		if err != nil {
			return err
		}
		if material == nil {
			return NewBusinessErrorf("MATERIAL_NOT_FOUND", "material %d not found", ErrMaterialNotFound, entityID)
		}
	case models.PricedPrinting:
		printing, err := f.printingRepo.ByID(ctx, entityID)
		if err != nil {
			return err
		}
		if printing == nil {
			return NewBusinessErrorf("PRINTING_NOT_FOUND", "printing %d not found", ErrPrintingNotFound, entityID)
		}
	case models.PricedFinish:
		finish, err := f.finishRepo.ByID(ctx, entityID)
		if err != nil {
			return err
		}
		if finish == nil {
			return NewBusinessErrorf("FINISH_NOT_FOUND", "finish %d not found", ErrFinishNotFound, entityID)
		}
	default:
		return NewBusinessErrorf("UNKNOWN_OVERRIDE_KIND", "unknown override kind %q", ErrUnknownOverrideKind, string(kind))
	}
	return nil
}

// SetPriceOverride records a customer-specific unit cost. The previous
// current row for the same (customer, entity) pair is superseded in the
// same transaction, never deleted.
func (f *CustomerPriceAdminFlowImpl) SetPriceOverride(ctx context.Context, req *dto.SetPriceOverrideRequest, metadata *ClientMetadata) (*dto.PriceOverrideResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	kind := models.PricedEntityKind(req.Kind)

	customer, err := f.customerRepo.ByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewBusinessErrorf("CUSTOMER_NOT_FOUND", "customer %d not found", ErrCustomerNotFound, req.CustomerID)
	}

	if err := f.verifyEntity(ctx, kind, req.EntityID); err != nil {
		return nil, err
	}

	from, to, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	terms := models.OverrideTerms{
		UnitCost:  req.UnitCost,
		Priority:  utils.Deref(req.Priority, defaultOverridePriority),
		ValidFrom: from,
		ValidTo:   to,
		IsCurrent: utils.ToPtr(true),
	}

	var result dto.PriceOverrideDTO
	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.overrideRepo.SupersedeCurrent(txCtx, kind, req.CustomerID, req.EntityID); err != nil {
			return err
		}

		switch kind {
		case models.PricedMaterial:
			row := &models.CustomerMaterialPrice{
				CustomerID:    req.CustomerID,
				MaterialID:    req.EntityID,
				OverrideTerms: terms,
			}
			if err := f.overrideRepo.SaveMaterialPrice(txCtx, row); err != nil {
				return err
			}
			result = materialPriceToDTO(row)
		case models.PricedPrinting:
			row := &models.CustomerPrintingPrice{
				CustomerID:    req.CustomerID,
				PrintingID:    req.EntityID,
				OverrideTerms: terms,
			}
			if err := f.overrideRepo.SavePrintingPrice(txCtx, row); err != nil {
				return err
			}
			result = printingPriceToDTO(row)
		case models.PricedFinish:
			row := &models.CustomerFinishPrice{
				CustomerID:    req.CustomerID,
				FinishID:      req.EntityID,
				OverrideTerms: terms,
			}
			if err := f.overrideRepo.SaveFinishPrice(txCtx, row); err != nil {
				return err
			}
			result = finishPriceToDTO(row)
		}

		audit := &models.AuditLog{
			CustomerID:  utils.ToPtr(req.CustomerID),
			Action:      models.AuditActionOverrideChanged,
			Description: utils.ToPtr(fmt.Sprintf("%s override set for entity %d at %.4f", req.Kind, req.EntityID, req.UnitCost)),
			Success:     utils.ToPtr(true),
		}
		if metadata != nil {
			audit.IPAddress = utils.ToPtr(metadata.IPAddress)
			audit.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("OVERRIDE_SAVE_FAILED", "failed to save price override", err)
	}

	return &dto.PriceOverrideResponse{
		Message:  "Price override set successfully",
		Override: result,
	}, nil
}

// ListOverrides retrieves a customer's current overrides of one kind.
func (f *CustomerPriceAdminFlowImpl) ListOverrides(ctx context.Context, kind string, customerID uint) (*dto.ListPriceOverridesResponse, error) {
	customer, err := f.customerRepo.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, NewBusinessErrorf("CUSTOMER_NOT_FOUND", "customer %d not found", ErrCustomerNotFound, customerID)
	}

	var items []dto.PriceOverrideDTO
	switch models.PricedEntityKind(kind) {
	case models.PricedMaterial:
		rows, err := f.overrideRepo.ListCurrentMaterialPrices(ctx, customerID, nil)
		if err != nil {
			return nil, err
		}
		items = make([]dto.PriceOverrideDTO, 0, len(rows))
		for _, row := range rows {
			items = append(items, materialPriceToDTO(row))
		}
	case models.PricedPrinting:
		rows, err := f.overrideRepo.ListCurrentPrintingPrices(ctx, customerID, nil)
		if err != nil {
			return nil, err
		}
		items = make([]dto.PriceOverrideDTO, 0, len(rows))
		for _, row := range rows {
			items = append(items, printingPriceToDTO(row))
		}
	case models.PricedFinish:
		rows, err := f.overrideRepo.ListCurrentFinishPrices(ctx, customerID, nil)
		if err != nil {
			return nil, err
		}
		items = make([]dto.PriceOverrideDTO, 0, len(rows))
		for _, row := range rows {
			items = append(items, finishPriceToDTO(row))
		}
	default:
		return nil, NewBusinessErrorf("UNKNOWN_OVERRIDE_KIND", "unknown override kind %q", ErrUnknownOverrideKind, kind)
	}

	return &dto.ListPriceOverridesResponse{
		Message:   "Price overrides retrieved successfully",
		Overrides: items,
	}, nil
}

func overrideTermsToDTO(id uint, uuidStr string, kind models.PricedEntityKind, customerID, entityID uint, terms models.OverrideTerms, createdAt time.Time) dto.PriceOverrideDTO {
	return dto.PriceOverrideDTO{
		ID:         id,
		UUID:       uuidStr,
		Kind:       string(kind),
		CustomerID: customerID,
		EntityID:   entityID,
		UnitCost:   terms.UnitCost,
		Priority:   terms.Priority,
		ValidFrom:  formatTimePtr(terms.ValidFrom),
		ValidTo:    formatTimePtr(terms.ValidTo),
		IsCurrent:  utils.IsTrue(terms.IsCurrent),
		CreatedAt:  createdAt.Format(time.RFC3339),
	}
}

func materialPriceToDTO(row *models.CustomerMaterialPrice) dto.PriceOverrideDTO {
	return overrideTermsToDTO(row.ID, row.UUID.String(), models.PricedMaterial, row.CustomerID, row.MaterialID, row.OverrideTerms, row.CreatedAt)
}

func printingPriceToDTO(row *models.CustomerPrintingPrice) dto.PriceOverrideDTO {
	return overrideTermsToDTO(row.ID, row.UUID.String(), models.PricedPrinting, row.CustomerID, row.PrintingID, row.OverrideTerms, row.CreatedAt)
}

func finishPriceToDTO(row *models.CustomerFinishPrice) dto.PriceOverrideDTO {
	return overrideTermsToDTO(row.ID, row.UUID.String(), models.PricedFinish, row.CustomerID, row.FinishID, row.OverrideTerms, row.CreatedAt)
}
