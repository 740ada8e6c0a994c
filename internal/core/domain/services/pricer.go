package services

import (
	"geoshop/internal/core/domain/model/kernel"
	"geoshop/internal/core/domain/model/product"
	"geoshop/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingContext supplies the order-item measurements a pricing strategy may
// need: the ordered area, the number of features inside the perimeter, and
// whether the buyer is under a subscription agreement.
type PricingContext struct {
	// Area is the ordered area in square meters of the canonical SRID.
	Area float64

	// FeatureCount is the number of product features inside the perimeter.
	FeatureCount int64

	// Subscribed is true when the client, the invoice contact or the order
	// type waives fees under a subscription agreement.
	Subscribed bool
}

// strategyFunc computes the price of one item under a single pricing strategy.
// Strategies are pure: they never mutate the pricing, the product or any
// order state.
type strategyFunc func(pricing *product.Pricing, ctx PricingContext) (product.PriceResult, error)

// Pricer is the pricing engine: a strategy table keyed by pricing type, with
// one pure function per strategy and an explicit unsupported path. An
// unrecognized strategy prices as pending and surfaces a
// PricingUnsupportedError so the caller can log it; it is never silently
// priced as free.
type Pricer struct {
	strategies map[product.PricingType]strategyFunc
}

// NewPricer creates a pricing engine with all known strategies registered.
func NewPricer() Pricer {
	return Pricer{
		strategies: map[product.PricingType]strategyFunc{
			product.PricingFree:                priceFree,
			product.PricingSingle:              priceSingle,
			product.PricingByNumberObjects:     priceByNumberObjects,
			product.PricingByArea:              priceByArea,
			product.PricingManual:              pricePendingQuote,
			product.PricingFromPricingLayer:    pricePendingQuote,
			product.PricingFromChildrenOfGroup: pricePendingQuote,
		},
	}
}

// Compute prices one order item for the given product. A subscription
// combined with the product's free-when-subscribed flag short-circuits every
// strategy to free. The result never carries an order-status side effect;
// callers store it on the item.
func (p Pricer) Compute(prod *product.Product, ctx PricingContext) (product.PriceResult, error) {
	if err := prod.Validate(); err != nil {
		return product.PriceResult{}, err
	}

	if prod.FreeWhenSubscribed() && ctx.Subscribed {
		return priceFree(prod.Pricing(), ctx)
	}

	pricing := prod.Pricing()
	strategy, ok := p.strategies[pricing.Type()]
	if !ok {
		return product.NewPendingPrice(), errs.NewPricingUnsupportedError(string(pricing.Type()))
	}

	return strategy(pricing, ctx)
}

func priceFree(_ *product.Pricing, _ PricingContext) (product.PriceResult, error) {
	zero := kernel.ZeroMoney(kernel.DefaultCurrency)
	return product.NewCalculatedPrice(zero, zero)
}

func priceSingle(pricing *product.Pricing, _ PricingContext) (product.PriceResult, error) {
	return product.NewCalculatedPrice(*pricing.UnitPrice(), pricing.BaseFee())
}

func priceByNumberObjects(pricing *product.Pricing, ctx PricingContext) (product.PriceResult, error) {
	price, err := pricing.UnitPrice().Mul(decimal.NewFromInt(ctx.FeatureCount))
	if err != nil {
		return product.PriceResult{}, err
	}
	price, err = price.Min(*pricing.MaxPrice())
	if err != nil {
		return product.PriceResult{}, err
	}
	return product.NewCalculatedPrice(price, pricing.BaseFee())
}

func priceByArea(pricing *product.Pricing, ctx PricingContext) (product.PriceResult, error) {
	price, err := pricing.UnitPrice().Mul(decimal.NewFromFloat(ctx.Area))
	if err != nil {
		return product.PriceResult{}, err
	}
	if pricing.MaxPrice() != nil {
		if price, err = price.Min(*pricing.MaxPrice()); err != nil {
			return product.PriceResult{}, err
		}
	}
	if pricing.MinPrice() != nil && price.Amount().LessThan(pricing.MinPrice().Amount()) {
		price = *pricing.MinPrice()
	}
	return product.NewCalculatedPrice(price, pricing.BaseFee())
}

// pricePendingQuote covers the strategies that always require a human quote.
func pricePendingQuote(_ *product.Pricing, _ PricingContext) (product.PriceResult, error) {
	return product.NewPendingPrice(), nil
}
