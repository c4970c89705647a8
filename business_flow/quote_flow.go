package businessflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/config"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/pricing"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

// QuoteFlow defines the quoting operations.
type QuoteFlow interface {
	PreviewQuote(ctx context.Context, req *dto.QuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error)
	CreateQuote(ctx context.Context, req *dto.QuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error)
	GetQuote(ctx context.Context, quoteUUID string) (*dto.GetQuoteResponse, error)
	ListQuotes(ctx context.Context, customerID uint, page, pageSize int) (*dto.ListQuotesResponse, error)
}

// QuoteFlowImpl implements QuoteFlow.
type QuoteFlowImpl struct {
	productRepo  repository.ProductRepository
	printingRepo repository.PrintingRepository
	customerRepo repository.CustomerRepository
	overrideRepo repository.PriceOverrideRepository
	marginRepo   repository.MarginRuleRepository
	configRepo   repository.ConfigRepository
	quoteRepo    repository.QuoteRepository
	auditRepo    repository.AuditLogRepository

	db          *gorm.DB
	rc          *redis.Client
	cacheConfig *config.CacheConfig
}

// NewQuoteFlow creates a new quote flow.
func NewQuoteFlow(
	productRepo repository.ProductRepository,
	printingRepo repository.PrintingRepository,
	customerRepo repository.CustomerRepository,
	overrideRepo repository.PriceOverrideRepository,
	marginRepo repository.MarginRuleRepository,
	configRepo repository.ConfigRepository,
	quoteRepo repository.QuoteRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
) QuoteFlow {
	return &QuoteFlowImpl{
		productRepo:  productRepo,
		printingRepo: printingRepo,
		customerRepo: customerRepo,
		overrideRepo: overrideRepo,
		marginRepo:   marginRepo,
		configRepo:   configRepo,
		quoteRepo:    quoteRepo,
		auditRepo:    auditRepo,
		db:           db,
		rc:           rc,
		cacheConfig:  cacheConfig,
	}
}

// cacheKey derives the namespaced redis key for a cache entry.
func cacheKey(cfg config.CacheConfig, key string) string {
	return cfg.RedisPrefix + key
}

// loadConfig returns the global pricing configuration, going through the
// redis cache when one is wired. A cache miss falls back to the database
// and repopulates the cache; cache write failures are ignored.
func (f *QuoteFlowImpl) loadConfig(ctx context.Context) (*models.ConfigGlobal, error) {
	var key string
	if f.rc != nil && f.cacheConfig != nil && f.cacheConfig.Enabled {
		key = cacheKey(*f.cacheConfig, utils.ConfigCacheKey)
		if bs, err := f.rc.Get(ctx, key).Bytes(); err == nil && len(bs) > 0 {
			var cfg models.ConfigGlobal
			if err := json.Unmarshal(bs, &cfg); err == nil {
				return &cfg, nil
			}
		}
	}

	cfg, err := f.configRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, NewBusinessError("CONFIG_NOT_FOUND", "global configuration is missing", ErrConfigNotFound)
	}

	if key != "" {
		if bs, err := json.Marshal(cfg); err == nil {
			_ = f.rc.Set(ctx, key, bs, utils.ConfigCacheTTL).Err()
		}
	}

	return cfg, nil
}

// buildSnapshot assembles the complete read-only input of one evaluation.
func (f *QuoteFlowImpl) buildSnapshot(ctx context.Context, req *dto.QuoteRequest) (*pricing.Snapshot, *models.Customer, error) {
	product, err := f.productRepo.ByIDWithBOM(ctx, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, NewBusinessErrorf("PRODUCT_NOT_FOUND", "product %d not found", ErrProductNotFound, req.ProductID)
	}
	if !utils.IsTrue(product.IsActive) {
		return nil, nil, NewBusinessErrorf("PRODUCT_INACTIVE", "product %d is inactive", ErrProductInactive, req.ProductID)
	}

	printings, err := f.resolvePrintings(ctx, req, product)
	if err != nil {
		return nil, nil, err
	}

	var customer *models.Customer
	if req.CustomerUUID != nil && *req.CustomerUUID != "" {
		customerUUID, err := uuid.Parse(*req.CustomerUUID)
		if err != nil {
			return nil, nil, NewBusinessError("CUSTOMER_NOT_FOUND", "customer UUID is malformed", ErrCustomerNotFound)
		}
		customer, err = f.customerRepo.ByUUID(ctx, customerUUID)
		if err != nil {
			return nil, nil, err
		}
		if customer == nil {
			return nil, nil, NewBusinessError("CUSTOMER_NOT_FOUND", "customer not found", ErrCustomerNotFound)
		}
		if !utils.IsTrue(customer.IsActive) {
			return nil, nil, NewBusinessError("CUSTOMER_INACTIVE", "customer is inactive", ErrCustomerInactive)
		}
	}

	cfg, err := f.loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	asOf := utils.UTCNow()

	snapshot := &pricing.Snapshot{
		Product:   *product,
		Printings: printings,
		Quantity:  req.Quantity,
		AsOf:      asOf,
		Params: pricing.Params{
			BilledAreaM2: req.BilledAreaM2,
			LaborHours:   req.LaborHours,
		},
		Context: pricing.NewContext(*cfg, *product),
	}

	if customer != nil {
		snapshot.CustomerID = &customer.ID
		snapshot.Overrides, err = f.loadOverrides(ctx, customer.ID, product, printings)
		if err != nil {
			return nil, nil, err
		}
	}

	snapshot.StaticRules, err = f.marginRepo.ListCandidates(ctx, product.CategoryID, product.ID, asOf)
	if err != nil {
		return nil, nil, err
	}
	snapshot.DynamicRules, err = f.marginRepo.ListDynamicCandidates(ctx, product.CategoryID, product.ID, asOf)
	if err != nil {
		return nil, nil, err
	}

	return snapshot, customer, nil
}

// resolvePrintings picks the printing runs of the evaluation: the explicitly
// requested configurations, or the product's default when none are named.
func (f *QuoteFlowImpl) resolvePrintings(ctx context.Context, req *dto.QuoteRequest, product *models.Product) ([]models.Printing, error) {
	ids := req.PrintingIDs
	if len(ids) == 0 && product.DefaultPrintingID != nil {
		ids = []uint{*product.DefaultPrintingID}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := f.printingRepo.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[uint]*models.Printing, len(rows))
	for _, p := range rows {
		found[p.ID] = p
	}

	printings := make([]models.Printing, 0, len(ids))
	for _, id := range ids {
		p, ok := found[id]
		if !ok {
			return nil, NewBusinessErrorf("PRINTING_NOT_FOUND", "printing %d not found", ErrPrintingNotFound, id)
		}
		printings = append(printings, *p)
	}

	return printings, nil
}

// loadOverrides fetches the customer's current override rows for every
// entity the evaluation touches and reshapes them for the resolver.
func (f *QuoteFlowImpl) loadOverrides(ctx context.Context, customerID uint, product *models.Product, printings []models.Printing) (map[models.PricedEntityKind]map[uint][]pricing.Override, error) {
	materialIDs := make([]uint, 0, len(product.Materials))
	for _, pm := range product.Materials {
		materialIDs = append(materialIDs, pm.MaterialID)
	}
	printingIDs := make([]uint, 0, len(printings))
	for _, p := range printings {
		printingIDs = append(printingIDs, p.ID)
	}
	finishIDs := make([]uint, 0, len(product.Finishes))
	for _, pf := range product.Finishes {
		finishIDs = append(finishIDs, pf.FinishID)
	}

	overrides := make(map[models.PricedEntityKind]map[uint][]pricing.Override, 3)

	if len(materialIDs) > 0 {
		rows, err := f.overrideRepo.ListCurrentMaterialPrices(ctx, customerID, materialIDs)
		if err != nil {
			return nil, err
		}
		byEntity := make(map[uint][]pricing.Override)
		for _, row := range rows {
			byEntity[row.MaterialID] = append(byEntity[row.MaterialID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
		}
		overrides[models.PricedMaterial] = byEntity
	}

	if len(printingIDs) > 0 {
		rows, err := f.overrideRepo.ListCurrentPrintingPrices(ctx, customerID, printingIDs)
		if err != nil {
			return nil, err
		}
		byEntity := make(map[uint][]pricing.Override)
		for _, row := range rows {
			byEntity[row.PrintingID] = append(byEntity[row.PrintingID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
		}
		overrides[models.PricedPrinting] = byEntity
	}

	if len(finishIDs) > 0 {
		rows, err := f.overrideRepo.ListCurrentFinishPrices(ctx, customerID, finishIDs)
		if err != nil {
			return nil, err
		}
		byEntity := make(map[uint][]pricing.Override)
		for _, row := range rows {
			byEntity[row.FinishID] = append(byEntity[row.FinishID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
		}
		overrides[models.PricedFinish] = byEntity
	}

	return overrides, nil
}

func toPricingOverride(terms models.OverrideTerms, createdAt time.Time) pricing.Override {
	return pricing.Override{
		UnitCost:  terms.UnitCost,
		Priority:  terms.Priority,
		ValidFrom: terms.ValidFrom,
		ValidTo:   terms.ValidTo,
		IsCurrent: utils.IsTrue(terms.IsCurrent),
		CreatedAt: createdAt,
	}
}

// evaluate runs the engine and maps its error taxonomy onto business errors.
func evaluate(s *pricing.Snapshot) (*pricing.Result, error) {
	result, err := pricing.EvaluateQuote(*s)
	if err != nil {
		switch {
		case pricing.IsInvalidQuantity(err):
			return nil, NewBusinessError("INVALID_QUANTITY", "quantity or quantity basis is invalid", err)
		case pricing.IsEntityNotFound(err):
			return nil, NewBusinessError("ENTITY_NOT_FOUND", "a referenced catalog entity is missing", err)
		case pricing.IsInvalidMarginConfiguration(err):
			return nil, NewBusinessError("INVALID_MARGIN_CONFIGURATION", "effective margin leaves no valid price", err)
		default:
			return nil, NewBusinessError("PRICING_FAILED", "pricing evaluation failed", err)
		}
	}
	return result, nil
}

// PreviewQuote evaluates a price without persisting anything.
func (f *QuoteFlowImpl) PreviewQuote(ctx context.Context, req *dto.QuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	snapshot, _, err := f.buildSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := evaluate(snapshot)
	if err != nil {
		return nil, err
	}

	f.audit(ctx, models.AuditActionQuotePreviewed, snapshot.CustomerID, metadata,
		fmt.Sprintf("previewed product %d x %d", req.ProductID, req.Quantity))

	resp := toQuoteResponse(result, req, snapshot.AsOf)
	return &resp, nil
}

// CreateQuote evaluates a price and persists the quote with its itemized
// breakdown in one transaction.
func (f *QuoteFlowImpl) CreateQuote(ctx context.Context, req *dto.QuoteRequest, metadata *ClientMetadata) (*dto.QuoteResponse, error) {
	if req == nil {
		return nil, NewBusinessError("INVALID_REQUEST", "request is required", nil)
	}

	snapshot, customer, err := f.buildSnapshot(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := evaluate(snapshot)
	if err != nil {
		return nil, err
	}

	quote := toQuoteModel(result, req, snapshot.AsOf)
	if customer != nil {
		quote.CustomerID = &customer.ID
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.quoteRepo.Save(txCtx, quote); err != nil {
			return err
		}

		audit := &models.AuditLog{
			CustomerID:  quote.CustomerID,
			Action:      models.AuditActionQuoteCreated,
			Description: utils.ToPtr(fmt.Sprintf("quote %s for product %d x %d", quote.UUID, req.ProductID, req.Quantity)),
			Success:     utils.ToPtr(true),
		}
		if metadata != nil {
			audit.IPAddress = utils.ToPtr(metadata.IPAddress)
			audit.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		return f.auditRepo.Save(txCtx, audit)
	})
	if err != nil {
		return nil, NewBusinessError("QUOTE_SAVE_FAILED", "failed to persist quote", err)
	}

	resp := toQuoteResponse(result, req, snapshot.AsOf)
	resp.QuoteUUID = quote.UUID.String()
	return &resp, nil
}

// GetQuote retrieves a persisted quote by UUID.
func (f *QuoteFlowImpl) GetQuote(ctx context.Context, quoteUUID string) (*dto.GetQuoteResponse, error) {
	id, err := uuid.Parse(quoteUUID)
	if err != nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "quote UUID is malformed", ErrQuoteNotFound)
	}

	quote, err := f.quoteRepo.ByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, NewBusinessError("QUOTE_NOT_FOUND", "quote not found", ErrQuoteNotFound)
	}

	return &dto.GetQuoteResponse{
		Message: "Quote retrieved successfully",
		Quote:   quoteModelToResponse(quote),
	}, nil
}

// ListQuotes retrieves a customer's quote history.
func (f *QuoteFlowImpl) ListQuotes(ctx context.Context, customerID uint, page, pageSize int) (*dto.ListQuotesResponse, error) {
	if page < 1 {
		return nil, NewBusinessError("INVALID_PAGE", "page must be at least 1", ErrInvalidPage)
	}
	if pageSize < 1 || pageSize > 100 {
		return nil, NewBusinessError("INVALID_PAGE_SIZE", "page size must be between 1 and 100", ErrInvalidPageSize)
	}

	quotes, err := f.quoteRepo.ListByCustomer(ctx, customerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	items := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, quoteModelToResponse(q))
	}

	return &dto.ListQuotesResponse{
		Message: "Quotes retrieved successfully",
		Quotes:  items,
		Total:   len(items),
	}, nil
}

// audit records a best-effort audit row outside any transaction.
func (f *QuoteFlowImpl) audit(ctx context.Context, action string, customerID *uint, metadata *ClientMetadata, description string) {
	row := &models.AuditLog{
		CustomerID:  customerID,
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

func toQuoteModel(result *pricing.Result, req *dto.QuoteRequest, asOf time.Time) *models.Quote {
	quote := &models.Quote{
		UUID:          uuid.New(),
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		CostMat:       result.CostMat.InexactFloat64(),
		CostPrint:     result.CostPrint.InexactFloat64(),
		CostFinish:    result.CostFinish.InexactFloat64(),
		Subtotal:      result.Subtotal.InexactFloat64(),
		Markup:        result.Markup.InexactFloat64(),
		Margin:        result.Margin.InexactFloat64(),
		DynamicAdjust: result.Dynamic.InexactFloat64(),
		FinalPrice:    result.Final.InexactFloat64(),
		VATPercent:    result.VATPercent.InexactFloat64(),
		TotalWithVAT:  result.TotalWithVAT.InexactFloat64(),
		Currency:      utils.EuroCurrency,
		EvaluatedAt:   asOf,
	}
	if result.Step != nil {
		quote.RoundingStep = utils.ToPtr(result.Step.InexactFloat64())
	}

	quote.Items = make([]models.QuoteItem, 0, len(result.Items))
	for _, item := range result.Items {
		quote.Items = append(quote.Items, models.QuoteItem{
			ItemType:  item.Type,
			RefID:     item.RefID,
			Name:      item.Name,
			Quantity:  item.Quantity.InexactFloat64(),
			Unit:      item.Unit,
			UnitCost:  item.UnitCost.InexactFloat64(),
			TotalCost: item.TotalCost.InexactFloat64(),
		})
	}

	return quote
}

func toQuoteResponse(result *pricing.Result, req *dto.QuoteRequest, asOf time.Time) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		CostMat:       result.CostMat.InexactFloat64(),
		CostPrint:     result.CostPrint.InexactFloat64(),
		CostFinish:    result.CostFinish.InexactFloat64(),
		Subtotal:      result.Subtotal.InexactFloat64(),
		Markup:        result.Markup.InexactFloat64(),
		Margin:        result.Margin.InexactFloat64(),
		DynamicAdjust: result.Dynamic.InexactFloat64(),
		FinalPrice:    result.Final.InexactFloat64(),
		VATPercent:    result.VATPercent.InexactFloat64(),
		TotalWithVAT:  result.TotalWithVAT.InexactFloat64(),
		Currency:      utils.EuroCurrency,
		EvaluatedAt:   asOf.Format(time.RFC3339),
	}
	if result.Step != nil {
		resp.RoundingStep = utils.ToPtr(result.Step.InexactFloat64())
	}
	if req.Quantity > 0 {
		resp.PricePerPiece = result.Final.Div(decimal.NewFromInt(int64(req.Quantity))).InexactFloat64()
	}

	resp.Items = make([]dto.QuoteItemDTO, 0, len(result.Items))
	for _, item := range result.Items {
		resp.Items = append(resp.Items, dto.QuoteItemDTO{
			ItemType:  item.Type,
			RefID:     item.RefID,
			Name:      item.Name,
			Quantity:  item.Quantity.InexactFloat64(),
			Unit:      item.Unit,
			UnitCost:  item.UnitCost.InexactFloat64(),
			TotalCost: item.TotalCost.InexactFloat64(),
		})
	}

	return resp
}

func quoteModelToResponse(q *models.Quote) dto.QuoteResponse {
	resp := dto.QuoteResponse{
		QuoteUUID:     q.UUID.String(),
		ProductID:     q.ProductID,
		Quantity:      q.Quantity,
		CostMat:       q.CostMat,
		CostPrint:     q.CostPrint,
		CostFinish:    q.CostFinish,
		Subtotal:      q.Subtotal,
		Markup:        q.Markup,
		Margin:        q.Margin,
		DynamicAdjust: q.DynamicAdjust,
		RoundingStep:  q.RoundingStep,
		FinalPrice:    q.FinalPrice,
		VATPercent:    q.VATPercent,
		TotalWithVAT:  q.TotalWithVAT,
		Currency:      q.Currency,
		EvaluatedAt:   q.EvaluatedAt.Format(time.RFC3339),
	}
	if q.Quantity > 0 {
		resp.PricePerPiece = q.FinalPrice / float64(q.Quantity)
	}

	resp.Items = make([]dto.QuoteItemDTO, 0, len(q.Items))
	for _, item := range q.Items {
		resp.Items = append(resp.Items, dto.QuoteItemDTO{
			ItemType:  item.ItemType,
			RefID:     item.RefID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
			UnitCost:  item.UnitCost,
			TotalCost: item.TotalCost,
		})
	}

	return resp
}
