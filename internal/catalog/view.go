package catalog

import (
	"sort"
	"strings"

	"github.com/jafarshop/storefront/internal/domain"
)

// Filter selects how the storefront list is narrowed or ordered
type Filter string

const (
	FilterAll         Filter = "all"
	FilterNewest      Filter = "newest"
	FilterBestselling Filter = "bestselling"
	FilterSale        Filter = "sale"
)

// IsValid checks if the filter is one of the known values
func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterNewest, FilterBestselling, FilterSale:
		return true
	default:
		return false
	}
}

// View produces the rendering-ready product list. The search term is a
// case-insensitive substring match on name or category and applies before
// the filter. Sorts are explicitly stable: ties keep their relative order.
func View(products []domain.Product, searchTerm string, filter Filter) []domain.Product {
	result := make([]domain.Product, 0, len(products))

	term := strings.ToLower(strings.TrimSpace(searchTerm))
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Category), term) {
			continue
		}
		result = append(result, p)
	}

	switch filter {
	case FilterNewest:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	case FilterBestselling:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].SalesCount > result[j].SalesCount
		})
	case FilterSale:
		onSale := result[:0]
		for _, p := range result {
			if p.OnSale() {
				onSale = append(onSale, p)
			}
		}
		result = onSale
	}

	return result
}
