package domain

import (
	"strings"
	"time"

	"github.com/jafarshop/storefront/pkg/errors"
)

// Variant is a named sub-option of a product (size, color, ...) with a
// price delta relative to the product's base price. The modifier may be
// negative, zero, or positive.
type Variant struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceModifier float64 `json:"priceModifier"`
}

// Product is a catalog entry. OriginalPrice == 0 means the product was
// never discounted; a positive OriginalPrice above Price marks it on sale.
type Product struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt,omitempty"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Price            float64   `json:"price"`
	OriginalPrice    float64   `json:"originalPrice,omitempty"`
	SalesCount       int       `json:"salesCount,omitempty"`
	Stock            int       `json:"stock"`
	Category         string    `json:"category"`
	ImageURL         string    `json:"imageUrl"`
	WhatsAppImageURL string    `json:"whatsappImageUrl,omitempty"`
	Variants         []Variant `json:"variants"`
}

// Variant looks up a variant by id
func (p Product) Variant(variantID string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == variantID {
			return v, true
		}
	}
	return Variant{}, false
}

// OnSale reports whether the product carries a base-price discount
func (p Product) OnSale() bool {
	return p.OriginalPrice > 0 && p.OriginalPrice > p.Price
}

// Purchasable reports whether the product can be bought. Out of stock
// overrides everything else, including sale display.
func (p Product) Purchasable() bool {
	return p.Stock > 0
}

// Clone returns a deep copy, including the variants slice
func (p Product) Clone() Product {
	c := p
	if p.Variants != nil {
		c.Variants = make([]Variant, len(p.Variants))
		copy(c.Variants, p.Variants)
	}
	return c
}

// CloneProducts deep-copies a product list. Snapshots taken for optimistic
// rollback go through here so a later in-place edit can't corrupt them.
func CloneProducts(products []Product) []Product {
	if products == nil {
		return nil
	}
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}

// ValidateProduct checks the invariants a product must hold before it is
// accepted into the catalog.
func ValidateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return &errors.ValidationError{Field: "name", Message: "product name cannot be empty"}
	}
	if p.Price < 0 {
		return &errors.ValidationError{Field: "price", Message: "price cannot be negative"}
	}
	if p.OriginalPrice < 0 {
		return &errors.ValidationError{Field: "originalPrice", Message: "original price cannot be negative"}
	}
	if p.Stock < 0 {
		return &errors.ValidationError{Field: "stock", Message: "stock cannot be negative"}
	}
	seen := make(map[string]struct{}, len(p.Variants))
	for _, v := range p.Variants {
		if v.ID == "" {
			return &errors.ValidationError{Field: "variants", Message: "variant id cannot be empty"}
		}
		if _, dup := seen[v.ID]; dup {
			return &errors.ValidationError{Field: "variants", Message: "duplicate variant id: " + v.ID}
		}
		seen[v.ID] = struct{}{}
	}
	return nil
}

// CartItem is one cart line. (ProductID, VariantID) is the composite key;
// the product reference is weak: a line whose product vanished stays in the
// cart but contributes nothing to totals.
type CartItem struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// ProductLookup resolves a product id against the current catalog snapshot
type ProductLookup func(productID string) (Product, bool)

// PopupSettings configures the promotional popup. An empty LinkProductID
// means no product is linked; the popup must not be enabled in that state.
type PopupSettings struct {
	Enabled       bool   `json:"enabled"`
	ImageURL      string `json:"imageUrl"`
	LinkProductID string `json:"linkProductId"`
}

// ThemeSettings is the single global store appearance record
type ThemeSettings struct {
	StoreName        string        `json:"storeName"`
	StoreDescription string        `json:"storeDescription"`
	InstagramURL     string        `json:"instagramUrl"`
	FacebookURL      string        `json:"facebookUrl"`
	TikTokURL        string        `json:"tiktokUrl"`
	BackgroundImage  string        `json:"backgroundImage"`
	PopupSettings    PopupSettings `json:"popupSettings"`
}

// DefaultThemeSettings returns the out-of-the-box store appearance
func DefaultThemeSettings() ThemeSettings {
	return ThemeSettings{
		StoreName:        "CICI NYEMIL",
		StoreDescription: "Yuk jajan di cici nyemil di jamin ketagihan",
	}
}
