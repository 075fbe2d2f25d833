package catalog

import (
	"slices"
	"strings"

	"jewellery-catalog-service/internal/domain"
)

// FacetOptions lists the distinct facet values present in products, each
// sorted case-insensitively, and the highest list price.
func FacetOptions(products []domain.Product) domain.FacetOptions {
	categories := newFacetValues()
	subcategories := newFacetValues()
	materials := newFacetValues()
	gemstones := newFacetValues()
	occasions := newFacetValues()
	sizes := newFacetValues()
	colors := newFacetValues()

	var maxPrice float64
	for i := range products {
		p := &products[i]
		categories.add(p.Category)
		subcategories.add(p.Subcategory)
		materials.add(p.Materials...)
		materials.add(p.Metal)
		gemstones.add(p.Gemstone)
		occasions.add(p.Occasions...)
		occasions.add(p.Occasion)
		sizes.add(p.Sizes...)
		sizes.add(p.Size)
		colors.add(p.Colors...)
		colors.add(p.Color)
		maxPrice = max(maxPrice, ListPrice(p))
	}

	return domain.FacetOptions{
		Categories:    categories.sorted(),
		Subcategories: subcategories.sorted(),
		Materials:     materials.sorted(),
		Gemstones:     gemstones.sorted(),
		Occasions:     occasions.sorted(),
		Sizes:         sizes.sorted(),
		Colors:        colors.sorted(),
		MaxPrice:      maxPrice,
	}
}

type facetValues struct {
	seen   map[string]struct{}
	values []string
}

func newFacetValues() *facetValues {
	return &facetValues{seen: make(map[string]struct{}), values: []string{}}
}

func (f *facetValues) add(values ...string) {
	for _, v := range values {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if k == "" {
			continue
		}
		if _, ok := f.seen[k]; ok {
			continue
		}
		f.seen[k] = struct{}{}
		f.values = append(f.values, v)
	}
}

func (f *facetValues) sorted() []string {
	slices.SortFunc(f.values, compareNames)
	return f.values
}
