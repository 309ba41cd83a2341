package domain

import "math"

// EffectivePrice returns the unit price for a product with the given
// variant selected. An unknown or empty variant id means no modifier.
func EffectivePrice(p Product, variantID string) float64 {
	return p.Price + priceModifier(p, variantID)
}

// OriginalUnitPrice returns the pre-discount unit price with the same
// variant modifier applied, or 0 when the product has no original price.
func OriginalUnitPrice(p Product, variantID string) float64 {
	if p.OriginalPrice <= 0 {
		return 0
	}
	return p.OriginalPrice + priceModifier(p, variantID)
}

// LineTotal returns the effective unit price times quantity
func LineTotal(p Product, variantID string, quantity int) float64 {
	return EffectivePrice(p, variantID) * float64(quantity)
}

// DiscountPercentage returns the rounded percentage drop from the
// variant-adjusted original price to the variant-adjusted price. Both
// prices receive the same modifier before the percentage is derived.
// Returns 0 when there is no original price or nothing is discounted.
func DiscountPercentage(p Product, variantID string) int {
	if !p.OnSale() {
		return 0
	}
	original := OriginalUnitPrice(p, variantID)
	price := EffectivePrice(p, variantID)
	if original <= 0 || original <= price {
		return 0
	}
	return int(math.Round((original - price) / original * 100))
}

func priceModifier(p Product, variantID string) float64 {
	if variantID == "" {
		return 0
	}
	v, ok := p.Variant(variantID)
	if !ok {
		return 0
	}
	return v.PriceModifier
}
