package pricing

import (
	"github.com/shopspring/decimal"
	"github.com/smuelmfs/mp-pt-sub003/models"
)

// Context carries the configuration defaults one evaluation runs under,
// already resolved from the global configuration and the product's own
// overrides. Passing it explicitly keeps the engine free of hidden global
// reads and makes evaluations reproducible.
type Context struct {
	MarginDefault decimal.Decimal
	MarkupDefault decimal.Decimal

	RoundingStep     decimal.Decimal
	RoundingStrategy models.RoundingStrategy
	PricingStrategy  models.PricingStrategy

	LossFactor          decimal.Decimal
	PrintingHourCost    decimal.Decimal
	DefaultSetupMinutes decimal.Decimal
	VATPercent          decimal.Decimal

	// MinPricePerPiece is nil unless the product configures a price floor.
	MinPricePerPiece *decimal.Decimal
}

// NewContext resolves the evaluation context for a product: every optional
// product-level override takes precedence over the global configuration.
func NewContext(cfg models.ConfigGlobal, product models.Product) Context {
	ctx := Context{
		MarginDefault:       decPtr(product.MarginDefault, dec(cfg.MarginDefault)),
		MarkupDefault:       decPtr(product.MarkupDefault, dec(cfg.MarkupOperational)),
		RoundingStep:        decPtr(product.RoundingStep, dec(cfg.RoundingStep)),
		RoundingStrategy:    cfg.RoundingStrategy,
		PricingStrategy:     cfg.PricingStrategy,
		LossFactor:          dec(cfg.LossFactor),
		PrintingHourCost:    dec(cfg.PrintingHourCost),
		DefaultSetupMinutes: dec(cfg.SetupMinutes),
		VATPercent:          dec(cfg.VATPercent),
	}

	if product.RoundingStrategy != nil {
		ctx.RoundingStrategy = *product.RoundingStrategy
	}
	if product.PricingStrategy != nil {
		ctx.PricingStrategy = *product.PricingStrategy
	}
	if product.MinPricePerPiece != nil {
		floor := dec(*product.MinPricePerPiece)
		ctx.MinPricePerPiece = &floor
	}

	return ctx
}
