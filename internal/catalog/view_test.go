package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jafarshop/storefront/internal/domain"
)

func viewFixture() []domain.Product {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Product{
		{ID: "p1", Name: "T-Shirt Keren", Category: "Pakaian", Price: 120000, OriginalPrice: 150000, SalesCount: 42, CreatedAt: base.Add(48 * time.Hour)},
		{ID: "p2", Name: "Sepatu Lari Cepat", Category: "Sepatu", Price: 750000, SalesCount: 15, CreatedAt: base.Add(72 * time.Hour)},
		{ID: "p3", Name: "Topi Gaul", Category: "Aksesoris", Price: 85000, SalesCount: 73, CreatedAt: base},
		{ID: "p4", Name: "Kaos Polos", Category: "Pakaian", Price: 45000, OriginalPrice: 60000, SalesCount: 42, CreatedAt: base.Add(24 * time.Hour)},
	}
}

func viewIDs(products []domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestFilterIsValid(t *testing.T) {
	assert.True(t, FilterAll.IsValid())
	assert.True(t, FilterNewest.IsValid())
	assert.True(t, FilterBestselling.IsValid())
	assert.True(t, FilterSale.IsValid())
	assert.False(t, Filter("cheapest").IsValid())
	assert.False(t, Filter("").IsValid())
}

func TestView(t *testing.T) {
	t.Run("all keeps insertion order", func(t *testing.T) {
		got := View(viewFixture(), "", FilterAll)
		assert.Equal(t, []string{"p1", "p2", "p3", "p4"}, viewIDs(got))
	})

	t.Run("search matches name or category, case-insensitively", func(t *testing.T) {
		got := View(viewFixture(), "pakaian", FilterAll)
		assert.Equal(t, []string{"p1", "p4"}, viewIDs(got))

		got = View(viewFixture(), "SEPATU", FilterAll)
		assert.Equal(t, []string{"p2"}, viewIDs(got))

		got = View(viewFixture(), "tidak ada", FilterAll)
		assert.Empty(t, got)
	})

	t.Run("search applies before the filter", func(t *testing.T) {
		got := View(viewFixture(), "pakaian", FilterSale)
		assert.Equal(t, []string{"p1", "p4"}, viewIDs(got))
	})

	t.Run("newest sorts by creation time, descending", func(t *testing.T) {
		got := View(viewFixture(), "", FilterNewest)
		assert.Equal(t, []string{"p2", "p1", "p4", "p3"}, viewIDs(got))
	})

	t.Run("bestselling breaks ties by original position", func(t *testing.T) {
		got := View(viewFixture(), "", FilterBestselling)
		// p1 and p4 share a sales count; p1 came first
		assert.Equal(t, []string{"p3", "p1", "p4", "p2"}, viewIDs(got))
	})

	t.Run("sale keeps only discounted products, in order", func(t *testing.T) {
		got := View(viewFixture(), "", FilterSale)
		assert.Equal(t, []string{"p1", "p4"}, viewIDs(got))
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		products := viewFixture()
		_ = View(products, "", FilterBestselling)
		require.Equal(t, []string{"p1", "p2", "p3", "p4"}, viewIDs(products))
	})
}
