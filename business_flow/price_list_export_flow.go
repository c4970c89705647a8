package businessflow

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/smuelmfs/mp-pt-sub003/app/dto"
	"github.com/smuelmfs/mp-pt-sub003/models"
	"github.com/smuelmfs/mp-pt-sub003/pricing"
	"github.com/smuelmfs/mp-pt-sub003/repository"
	"github.com/smuelmfs/mp-pt-sub003/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PriceListExportFlow defines the price list export operations.
type PriceListExportFlow interface {
	ExportPriceList(ctx context.Context, req *dto.ExportPriceListRequest, metadata *ClientMetadata) (*dto.ExportPriceListResponse, error)
}

// PriceListExportFlowImpl implements PriceListExportFlow.
type PriceListExportFlowImpl struct {
	materialRepo repository.MaterialRepository
	printingRepo repository.PrintingRepository
	finishRepo   repository.FinishRepository
	customerRepo repository.CustomerRepository
	overrideRepo repository.PriceOverrideRepository
	quoteRepo    repository.QuoteRepository
	auditRepo    repository.AuditLogRepository
}

// NewPriceListExportFlow creates a new price list export flow.
func NewPriceListExportFlow(
	materialRepo repository.MaterialRepository,
	printingRepo repository.PrintingRepository,
	finishRepo repository.FinishRepository,
	customerRepo repository.CustomerRepository,
	overrideRepo repository.PriceOverrideRepository,
	quoteRepo repository.QuoteRepository,
	auditRepo repository.AuditLogRepository,
) PriceListExportFlow {
	return &PriceListExportFlowImpl{
		materialRepo: materialRepo,
		printingRepo: printingRepo,
		finishRepo:   finishRepo,
		customerRepo: customerRepo,
		overrideRepo: overrideRepo,
		quoteRepo:    quoteRepo,
		auditRepo:    auditRepo,
	}
}

// ExportPriceList builds an XLSX workbook with one sheet per catalog family.
// When a customer is named, their current overrides replace catalog base
// costs wherever one resolves, and a quote book sheet with their recent
// quotes is appended.
func (f *PriceListExportFlowImpl) ExportPriceList(ctx context.Context, req *dto.ExportPriceListRequest, metadata *ClientMetadata) (*dto.ExportPriceListResponse, error) {
	if req == nil {
		req = &dto.ExportPriceListRequest{}
	}

	var customerID *uint
	if req.CustomerID != nil {
		customer, err := f.customerRepo.ByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, NewBusinessErrorf("CUSTOMER_NOT_FOUND", "customer %d not found", ErrCustomerNotFound, *req.CustomerID)
		}
		customerID = utils.ToPtr(customer.ID)
	}

	materials, err := f.materialRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	printings, err := f.printingRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	finishes, err := f.finishRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	overrides, err := f.loadOverrides(ctx, customerID)
	if err != nil {
		return nil, err
	}

	asOf := utils.UTCNow()

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	// Materials sheet replaces the default sheet, the rest are appended.
	xl.SetSheetName(xl.GetSheetName(0), "Materials")
	header := []string{"id", "name", "unit", "base_unit_cost", "effective_unit_cost", "loss_factor"}
	_ = xl.SetSheetRow("Materials", "A1", &header)
	for i, m := range materials {
		base := m.UnitCost
		if variant := m.CurrentVariant(); variant != nil {
			base = variant.DerivedUnitCost()
		}
		effective := pricing.ResolveUnitCost(decimal.NewFromFloat(base), customerID, overrides[models.PricedMaterial][m.ID], asOf)
		record := []string{
			strconv.FormatUint(uint64(m.ID), 10),
			m.Name,
			string(m.Unit),
			formatMoney(base),
			effective.StringFixed(4),
			strconv.FormatFloat(m.LossFactor, 'f', 4, 64),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow("Materials", cellRef, &record)
	}

	_, _ = xl.NewSheet("Printings")
	header = []string{"id", "name", "technology", "setup_mode", "base_unit_price", "effective_unit_price", "min_fee"}
	_ = xl.SetSheetRow("Printings", "A1", &header)
	for i, p := range printings {
		effective := pricing.ResolveUnitCost(decimal.NewFromFloat(p.UnitPrice), customerID, overrides[models.PricedPrinting][p.ID], asOf)
		minFee := ""
		if p.MinFee != nil {
			minFee = formatMoney(*p.MinFee)
		}
		record := []string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			p.Technology,
			string(p.SetupMode),
			formatMoney(p.UnitPrice),
			effective.StringFixed(4),
			minFee,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow("Printings", cellRef, &record)
	}

	_, _ = xl.NewSheet("Finishes")
	header = []string{"id", "name", "category", "calc_type", "base_cost", "effective_cost", "min_fee", "unit"}
	_ = xl.SetSheetRow("Finishes", "A1", &header)
	for i, fin := range finishes {
		effective := pricing.ResolveUnitCost(decimal.NewFromFloat(fin.BaseCost), customerID, overrides[models.PricedFinish][fin.ID], asOf)
		minFee := ""
		if fin.MinFee != nil {
			minFee = formatMoney(*fin.MinFee)
		}
		record := []string{
			strconv.FormatUint(uint64(fin.ID), 10),
			fin.Name,
			fin.Category,
			string(fin.CalcType),
			formatMoney(fin.BaseCost),
			effective.StringFixed(4),
			minFee,
			fin.Unit,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow("Finishes", cellRef, &record)
	}

	if customerID != nil {
		if err := f.appendQuoteBook(ctx, xl, *customerID); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "failed to write price list workbook", err)
	}

	fileName := fmt.Sprintf("price_list_%s.xlsx", asOf.Format("20060102_150405"))
	f.audit(ctx, customerID, metadata, fmt.Sprintf("price list %s generated", fileName))

	return &dto.ExportPriceListResponse{
		FileName:    fileName,
		ContentType: xlsxContentType,
		Content:     buf.Bytes(),
	}, nil
}

// appendQuoteBook adds a sheet with the customer's recent quotes.
func (f *PriceListExportFlowImpl) appendQuoteBook(ctx context.Context, xl *excelize.File, customerID uint) error {
	quotes, err := f.quoteRepo.ListByCustomer(ctx, customerID, 1000, 0)
	if err != nil {
		return err
	}

	_, _ = xl.NewSheet("Quotes")
	header := []string{"uuid", "product_id", "quantity", "subtotal", "final_price", "total_with_vat", "created_at"}
	_ = xl.SetSheetRow("Quotes", "A1", &header)
	for i, q := range quotes {
		record := []string{
			q.UUID.String(),
			strconv.FormatUint(uint64(q.ProductID), 10),
			strconv.Itoa(q.Quantity),
			formatMoney(q.Subtotal),
			formatMoney(q.FinalPrice),
			formatMoney(q.TotalWithVAT),
			q.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow("Quotes", cellRef, &record)
	}

	return nil
}

// loadOverrides fetches all current override rows of the customer, keyed
// by kind and entity. Without a customer the map stays empty and catalog
// base costs pass through untouched.
func (f *PriceListExportFlowImpl) loadOverrides(ctx context.Context, customerID *uint) (map[models.PricedEntityKind]map[uint][]pricing.Override, error) {
	overrides := map[models.PricedEntityKind]map[uint][]pricing.Override{
		models.PricedMaterial: {},
		models.PricedPrinting: {},
		models.PricedFinish:   {},
	}
	if customerID == nil {
		return overrides, nil
	}

	materialRows, err := f.overrideRepo.ListCurrentMaterialPrices(ctx, *customerID, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range materialRows {
		overrides[models.PricedMaterial][row.MaterialID] = append(overrides[models.PricedMaterial][row.MaterialID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
	}

	printingRows, err := f.overrideRepo.ListCurrentPrintingPrices(ctx, *customerID, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range printingRows {
		overrides[models.PricedPrinting][row.PrintingID] = append(overrides[models.PricedPrinting][row.PrintingID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
	}

	finishRows, err := f.overrideRepo.ListCurrentFinishPrices(ctx, *customerID, nil)
	if err != nil {
		return nil, err
	}
	for _, row := range finishRows {
		overrides[models.PricedFinish][row.FinishID] = append(overrides[models.PricedFinish][row.FinishID], toPricingOverride(row.OverrideTerms, row.CreatedAt))
	}

	return overrides, nil
}

// audit records a best-effort export row.
func (f *PriceListExportFlowImpl) audit(ctx context.Context, customerID *uint, metadata *ClientMetadata, description string) {
	row := &models.AuditLog{
		CustomerID:  customerID,
		Action:      models.AuditActionExportGenerated,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(true),
	}
	if metadata != nil {
		row.IPAddress = utils.ToPtr(metadata.IPAddress)
		row.UserAgent = utils.ToPtr(metadata.UserAgent)
	}
	_ = f.auditRepo.Save(ctx, row)
}

func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}
