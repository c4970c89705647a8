package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/config"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// MarginRuleAdminFlow defines the margin rule and configuration administration operations.
type MarginRuleAdminFlow interface {
	CreateMarginRule(ctx context.Context, req *dto.CreateMarginRuleRequest, metadata *ClientMetadata) (*dto.MarginRuleResponse, error)
	CreateDynamicMarginRule(ctx context.Context, req *dto.CreateDynamicMarginRuleRequest, metadata *ClientMetadata) (*dto.DynamicMarginRuleResponse, error)
	ListMarginRules(ctx context.Context, page, pageSize int) (*dto.ListMarginRulesResponse, error)
	DeactivateMarginRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.MarginRuleResponse, error)
	DeactivateDynamicMarginRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.DynamicMarginRuleResponse, error)

	GetConfig(ctx context.Context) (*dto.ConfigResponse, error)
	UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest, metadata *ClientMetadata) (*dto.ConfigResponse, error)
}

// MarginRuleAdminFlowImpl implements MarginRuleAdminFlow.
type MarginRuleAdminFlowImpl struct {
	marginRepo   repository.MarginRuleRepository
	configRepo   repository.ConfigRepository
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditLogRepository

	db          *gorm.DB
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

// NewMarginRuleAdminFlow creates a new margin rule administration flow.
func NewMarginRuleAdminFlow(
	marginRepo repository.MarginRuleRepository,
	configRepo repository.ConfigRepository,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) MarginRuleAdminFlow {
	return &MarginRuleAdminFlowImpl{
		marginRepo:   marginRepo,
		configRepo:   configRepo,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
		db:           db,
		rc:           rc,
		cacheConfig:  cacheConfig,
	}
}

// validateScope checks that a scoped rule names its target and that the
// target exists. GLOBAL rules carry no target.
func (f *MarginRuleAdminFlowImpl) validateScope(ctx context.Context, scope models.MarginScope, categoryID, productID *uint) error {
	switch scope {
	case models.ScopeCategory:
		if categoryID == nil {
			return NewBusinessError("SCOPE_TARGET_REQUIRED", "CATEGORY rules require a category_id", ErrScopeTargetRequired)
		}
		category, err := f.categoryRepo.ByID(ctx, *categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return NewBusinessErrorf("CATEGORY_NOT_FOUND", "category %d not found", ErrCategoryNotFound, *categoryID)
		}
	case models.ScopeProduct:
		if productID == nil {
			return NewBusinessError("SCOPE_TARGET_REQUIRED", "PRODUCT rules require a product_id", ErrScopeTargetRequired)
		}
		product, err := f.productRepo.ByID(ctx, *productID)
		if err != nil {
			return err
		}
		if product == nil {
			return NewBusinessErrorf("PRODUCT_NOT_FOUND", "product %d not found", ErrProductNotFound, *productID)
		}
	}
	return nil
}

// parseWindow parses and orders an optional validity window.
func parseWindow(fromStr, toStr *string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if fromStr != nil {
		t, err := time.Parse(time.RFC3339, *fromStr)
		if err != nil {
			return nil, nil, NewBusinessError("INVALID_VALIDITY_WINDOW", "valid_from is malformed", err)
		}
		from = utils.ToPtr(t.UTC())
	}
	if toStr != nil {
		t, err := time.Parse(time.RFC3339, *toStr)
		if err != nil {
			return nil, nil, NewBusinessError("INVALID_VALIDITY_WINDOW", "valid_to is malformed", err)
		}
		to = utils.ToPtr(t.UTC())
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, NewBusinessError("INVALID_VALIDITY_WINDOW", "valid_from must not be after valid_to", ErrValidityWindowInvalid)
	}
	return from, to, nil
}

// CreateMarginRule registers a static margin rule.
func (f *MarginRuleAdminFlowImpl) CreateMarginRule(ctx context.Context, req *dto.CreateMarginRuleRequest, metadata *ClientMetadata) (*dto.MarginRuleResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	scope := models.MarginScope(req.Scope)
	if err := f.validateScope(ctx, scope, req.CategoryID, req.ProductID); err != nil {
		return nil, err
	}
	from, to, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	rule := &models.MarginRule{
		Scope:      scope,
		CategoryID: req.CategoryID,
		ProductID:  req.ProductID,
		Margin:     req.Margin,
		ValidFrom:  from,
		ValidTo:    to,
		IsActive:   utils.ToPtr(true),
	}
	if scope == models.ScopeGlobal {
		rule.CategoryID = nil
		rule.ProductID = nil
	}

	if err := f.marginRepo.Save(ctx, rule); err != nil {
		return nil, NewBusinessError("MARGIN_RULE_SAVE_FAILED", "failed to save margin rule", err)
	}

	f.audit(ctx, models.AuditActionMarginRuleChange, metadata,
		fmt.Sprintf("static rule %d created (%s, margin %.4f)", rule.ID, rule.Scope, rule.Margin))

	return &dto.MarginRuleResponse{
		Message: "Margin rule created successfully",
		Rule:    toMarginRuleDTO(rule),
	}, nil
}

// CreateDynamicMarginRule registers a conditional margin adjustment.
func (f *MarginRuleAdminFlowImpl) CreateDynamicMarginRule(ctx context.Context, req *dto.CreateDynamicMarginRuleRequest, metadata *ClientMetadata) (*dto.DynamicMarginRuleResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	scope := models.MarginScope(req.Scope)
	if err := f.validateScope(ctx, scope, req.CategoryID, req.ProductID); err != nil {
		return nil, err
	}
	from, to, err := parseWindow(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	rule := &models.MarginRuleDynamic{
		Scope:         scope,
		CategoryID:    req.CategoryID,
		ProductID:     req.ProductID,
		MinSubtotal:   req.MinSubtotal,
		MinQuantity:   req.MinQuantity,
		AdjustPercent: req.AdjustPercent,
		MaxAdjust:     req.MaxAdjust,
		Priority:      req.Priority,
		Stackable:     utils.ToPtr(req.Stackable),
		ValidFrom:     from,
		ValidTo:       to,
		IsActive:      utils.ToPtr(true),
	}
	if scope == models.ScopeGlobal {
		rule.CategoryID = nil
		rule.ProductID = nil
	}

	if err := f.marginRepo.SaveDynamic(ctx, rule); err != nil {
		return nil, NewBusinessError("MARGIN_RULE_SAVE_FAILED", "failed to save dynamic margin rule", err)
	}

	f.audit(ctx, models.AuditActionMarginRuleChange, metadata,
		fmt.Sprintf("dynamic rule %d created (%s, adjust %.4f, priority %d)", rule.ID, rule.Scope, rule.AdjustPercent, rule.Priority))

	return &dto.DynamicMarginRuleResponse{
		Message: "Dynamic margin rule created successfully",
		Rule:    toDynamicMarginRuleDTO(rule),
	}, nil
}

// ListMarginRules retrieves both rule families.
func (f *MarginRuleAdminFlowImpl) ListMarginRules(ctx context.Context, page, pageSize int) (*dto.ListMarginRulesResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "page must be at least 1", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "page size must be between 1 and 100", ErrInvalidPageSize)
	}

	offset := (page - 1) * pageSize
	static, err := f.marginRepo.ListAll(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}
	dynamic, err := f.marginRepo.ListAllDynamic(ctx, pageSize, offset)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListMarginRulesResponse{
		Message:      "Margin rules retrieved successfully",
		StaticRules:  make([]dto.MarginRuleDTO, 0, len(static)),
		DynamicRules: make([]dto.DynamicMarginRuleDTO, 0, len(dynamic)),
	}
	for _, r := range static {
		resp.StaticRules = append(resp.StaticRules, toMarginRuleDTO(r))
	}
	for _, r := range dynamic {
		resp.DynamicRules = append(resp.DynamicRules, toDynamicMarginRuleDTO(r))
	}

	return resp, nil
}

// DeactivateMarginRule retires a static rule without deleting its history.
func (f *MarginRuleAdminFlowImpl) DeactivateMarginRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.MarginRuleResponse, error) {
	rule, err := f.marginRepo.ByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, NewBusinessErrorf("MARGIN_RULE_NOT_FOUND", "margin rule %d not found", ErrMarginRuleNotFound, ruleID)
	}

	rule.IsActive = utils.ToPtr(false)
	if err := f.marginRepo.Update(ctx, rule); err != nil {
		return nil, NewBusinessError("MARGIN_RULE_SAVE_FAILED", "failed to deactivate margin rule", err)
	}

	f.audit(ctx, models.AuditActionMarginRuleChange, metadata,
		fmt.Sprintf("static rule %d deactivated", rule.ID))

	return &dto.MarginRuleResponse{
		Message: "Margin rule deactivated successfully",
		Rule:    toMarginRuleDTO(rule),
	}, nil
}

// DeactivateDynamicMarginRule retires a dynamic rule without deleting its history.
func (f *MarginRuleAdminFlowImpl) DeactivateDynamicMarginRule(ctx context.Context, ruleID uint, metadata *ClientMetadata) (*dto.DynamicMarginRuleResponse, error) {
	rule, err := f.marginRepo.DynamicByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule == nil {
		return nil, NewBusinessErrorf("MARGIN_RULE_NOT_FOUND", "dynamic margin rule %d not found", ErrMarginRuleNotFound, ruleID)
	}

	rule.IsActive = utils.ToPtr(false)
	if err := f.marginRepo.UpdateDynamic(ctx, rule); err != nil {
		return nil, NewBusinessError("MARGIN_RULE_SAVE_FAILED", "failed to deactivate dynamic margin rule", err)
	}

	f.audit(ctx, models.AuditActionMarginRuleChange, metadata,
		fmt.Sprintf("dynamic rule %d deactivated", rule.ID))

	return &dto.DynamicMarginRuleResponse{
		Message: "Dynamic margin rule deactivated successfully",
		Rule:    toDynamicMarginRuleDTO(rule),
	}, nil
}

// GetConfig retrieves the global pricing configuration.
func (f *MarginRuleAdminFlowImpl) GetConfig(ctx context.Context) (*dto.ConfigResponse, error) {
	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, NewBusinessError("CONFIG_NOT_FOUND", "global configuration is missing", ErrConfigNotFound)
	}

	return &dto.ConfigResponse{
		Message: "Configuration retrieved successfully",
		Config:  toConfigDTO(cfg),
	}, nil
}

// UpdateConfig changes the global pricing configuration and invalidates
// the cached copy so the next evaluation sees the new values.
func (f *MarginRuleAdminFlowImpl) UpdateConfig(ctx context.Context, req *dto.UpdateConfigRequest, metadata *ClientMetadata) (*dto.ConfigResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, NewBusinessError("CONFIG_NOT_FOUND", "global configuration is missing", ErrConfigNotFound)
	}

	if req.MarginDefault != nil {
		cfg.MarginDefault = *req.MarginDefault
	}
	if req.MarkupOperational != nil {
		cfg.MarkupOperational = *req.MarkupOperational
	}
	if req.RoundingStep != nil {
		cfg.RoundingStep = *req.RoundingStep
	}
	if req.RoundingStrategy != nil {
		cfg.RoundingStrategy = models.RoundingStrategy(*req.RoundingStrategy)
	}
	if req.PricingStrategy != nil {
		cfg.PricingStrategy = models.PricingStrategy(*req.PricingStrategy)
	}
	if req.LossFactor != nil {
		cfg.LossFactor = *req.LossFactor
	}
	if req.PrintingHourCost != nil {
		cfg.PrintingHourCost = *req.PrintingHourCost
	}
	if req.VATPercent != nil {
		cfg.VATPercent = *req.VATPercent
	}
	if req.SetupMinutes != nil {
		cfg.SetupMinutes = *req.SetupMinutes
	}

	if err := f.configRepo.Update(ctx, cfg); err != nil {
		return nil, NewBusinessError("CONFIG_SAVE_FAILED", "failed to update configuration", err)
	}

	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		_ = f.rc.Del(ctx, cacheKey(*f.cacheConfig, utils.ConfigCacheKey)).Err()
	}

	f.audit(ctx, models.AuditActionConfigChanged, metadata, "global configuration updated")

	return &dto.ConfigResponse{
		Message: "Configuration updated successfully",
		Config:  toConfigDTO(cfg),
	}, nil
}

// audit records a best-effort audit row outside any transaction.
func (f *MarginRuleAdminFlowImpl) audit(ctx context.Context, action string, metadata *ClientMetadata, description string) {
	row := &models.AuditLog{
		Action:      action,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(true),
	}
	if metadata != nil {
		row.IPAddress = utils.ToPtr(metadata.IPAddress)
		row.UserAgent = utils.ToPtr(metadata.UserAgent)
	}
	_ = f.auditRepo.Save(ctx, row)
}

func toMarginRuleDTO(r *models.MarginRule) dto.MarginRuleDTO {
	return dto.MarginRuleDTO{
		ID:         r.ID,
		UUID:       r.UUID.String(),
		Scope:      string(r.Scope),
		CategoryID: r.CategoryID,
		ProductID:  r.ProductID,
		Margin:     r.Margin,
		ValidFrom:  formatTimePtr(r.ValidFrom),
		ValidTo:    formatTimePtr(r.ValidTo),
		IsActive:   utils.IsTrue(r.IsActive),
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func toDynamicMarginRuleDTO(r *models.MarginRuleDynamic) dto.DynamicMarginRuleDTO {
	return dto.DynamicMarginRuleDTO{
		ID:            r.ID,
		UUID:          r.UUID.String(),
		Scope:         string(r.Scope),
		CategoryID:    r.CategoryID,
		ProductID:     r.ProductID,
		MinSubtotal:   r.MinSubtotal,
		MinQuantity:   r.MinQuantity,
		AdjustPercent: r.AdjustPercent,
		MaxAdjust:     r.MaxAdjust,
		Priority:      r.Priority,
		Stackable:     utils.IsTrue(r.Stackable),
		IsActive:      utils.IsTrue(r.IsActive),
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
}

func toConfigDTO(cfg *models.ConfigGlobal) dto.ConfigDTO {
	return dto.ConfigDTO{
		MarginDefault:     cfg.MarginDefault,
		MarkupOperational: cfg.MarkupOperational,
		RoundingStep:      cfg.RoundingStep,
		RoundingStrategy:  string(cfg.RoundingStrategy),
		PricingStrategy:   string(cfg.PricingStrategy),
		LossFactor:        cfg.LossFactor,
		PrintingHourCost:  cfg.PrintingHourCost,
		VATPercent:        cfg.VATPercent,
		SetupMinutes:      cfg.SetupMinutes,
		UpdatedAt:         cfg.UpdatedAt.Format(time.RFC3339),
	}
}
