package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func saleProduct() Product {
	return Product{
		ID:            "1",
		Name:          "T-Shirt Keren",
		Price:         10000,
		OriginalPrice: 15000,
		Stock:         5,
		Category:      "Pakaian",
		Variants: []Variant{
			{ID: "v1", Name: "L", PriceModifier: 2000},
			{ID: "v2", Name: "S", PriceModifier: -1000},
		},
	}
}

func TestEffectivePrice(t *testing.T) {
	p := saleProduct()

	t.Run("adds the variant modifier", func(t *testing.T) {
		assert.Equal(t, 12000.0, EffectivePrice(p, "v1"))
		assert.Equal(t, 9000.0, EffectivePrice(p, "v2"))
	})

	t.Run("no variant means base price", func(t *testing.T) {
		assert.Equal(t, 10000.0, EffectivePrice(p, ""))
	})

	t.Run("unknown variant id is treated as no variant", func(t *testing.T) {
		assert.Equal(t, 10000.0, EffectivePrice(p, "gone"))
	})
}

func TestLineTotal(t *testing.T) {
	p := saleProduct()
	assert.Equal(t, 24000.0, LineTotal(p, "v1", 2))
	assert.Equal(t, 30000.0, LineTotal(p, "", 3))
}

func TestOriginalUnitPrice(t *testing.T) {
	p := saleProduct()
	assert.Equal(t, 17000.0, OriginalUnitPrice(p, "v1"))
	assert.Equal(t, 15000.0, OriginalUnitPrice(p, ""))

	p.OriginalPrice = 0
	assert.Equal(t, 0.0, OriginalUnitPrice(p, "v1"))
}

func TestDiscountPercentage(t *testing.T) {
	t.Run("applies the variant modifier to both prices", func(t *testing.T) {
		p := saleProduct()
		// round((17000-12000)/17000*100) = 29
		assert.Equal(t, 29, DiscountPercentage(p, "v1"))
		// round((15000-10000)/15000*100) = 33
		assert.Equal(t, 33, DiscountPercentage(p, ""))
	})

	t.Run("zero without an original price", func(t *testing.T) {
		p := saleProduct()
		p.OriginalPrice = 0
		assert.Equal(t, 0, DiscountPercentage(p, "v1"))
	})

	t.Run("zero when original price does not exceed price", func(t *testing.T) {
		p := saleProduct()
		p.OriginalPrice = p.Price
		assert.Equal(t, 0, DiscountPercentage(p, ""))
	})

	t.Run("stays within 0..100", func(t *testing.T) {
		p := saleProduct()
		p.Price = 0
		assert.Equal(t, 100, DiscountPercentage(p, ""))
	})
}

func TestProductFlags(t *testing.T) {
	t.Run("on sale requires original above price", func(t *testing.T) {
		p := saleProduct()
		assert.True(t, p.OnSale())

		p.OriginalPrice = p.Price
		assert.False(t, p.OnSale())
	})

	t.Run("out of stock is never purchasable", func(t *testing.T) {
		p := saleProduct()
		assert.True(t, p.Purchasable())

		p.Stock = 0
		assert.False(t, p.Purchasable())
		assert.True(t, p.OnSale(), "sale flag still set, display just loses to out-of-stock")
	})
}

func TestValidateProduct(t *testing.T) {
	t.Run("accepts a well-formed product", func(t *testing.T) {
		assert.NoError(t, ValidateProduct(saleProduct()))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		p := saleProduct()
		p.Price = -1
		assert.Error(t, ValidateProduct(p))
	})

	t.Run("rejects negative stock", func(t *testing.T) {
		p := saleProduct()
		p.Stock = -1
		assert.Error(t, ValidateProduct(p))
	})

	t.Run("rejects blank name", func(t *testing.T) {
		p := saleProduct()
		p.Name = "  "
		assert.Error(t, ValidateProduct(p))
	})

	t.Run("rejects duplicate variant ids", func(t *testing.T) {
		p := saleProduct()
		p.Variants = append(p.Variants, Variant{ID: "v1", Name: "dup"})
		assert.Error(t, ValidateProduct(p))
	})
}

func TestClone(t *testing.T) {
	p := saleProduct()
	c := p.Clone()
	c.Variants[0].PriceModifier = 999

	assert.Equal(t, 2000.0, p.Variants[0].PriceModifier, "clone must not alias the variants slice")
}
