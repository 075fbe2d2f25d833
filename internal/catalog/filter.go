package catalog

import (
	"cmp"
	"slices"
	"strings"

	"jewellery-catalog-service/internal/domain"
	"jewellery-catalog-service/internal/pricing"
)

type predicate func(p *domain.Product) bool

// ApplyFilters returns the products matching every active facet of c,
// ordered by c.Sort. Filtering always happens before sorting; products is
// never modified.
func ApplyFilters(products []domain.Product, c domain.FilterCriteria) []domain.Product {
	if c.IsEmpty() {
		out := append(make([]domain.Product, 0, len(products)), products...)
		SortProducts(out, c.Sort)
		return out
	}
	preds := predicatesFor(c)

	out := make([]domain.Product, 0, len(products))
	for i := range products {
		if matchesAll(&products[i], preds) {
			out = append(out, products[i])
		}
	}
	SortProducts(out, c.Sort)
	return out
}

// SortProducts stably orders products in place. Unknown options keep the
// current order.
func SortProducts(products []domain.Product, by domain.SortOption) {
	switch by {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case domain.SortNameAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareNames(a.Name, b.Name)
		})
	case domain.SortNameDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return compareNames(b.Name, a.Name)
		})
	}
}

func compareNames(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func matchesAll(p *domain.Product, preds []predicate) bool {
	for _, pred := range preds {
		if !pred(p) {
			return false
		}
	}
	return true
}

func predicatesFor(c domain.FilterCriteria) []predicate {
	var preds []predicate

	if len(c.Categories) > 0 || len(c.Subcategories) > 0 {
		mains := valueSet(c.Categories)
		subs := make(map[string]struct{}, len(c.Subcategories))
		for _, s := range c.Subcategories {
			if _, sub, ok := strings.Cut(s, "::"); ok {
				s = sub
			}
			if k := facetKey(s); k != "" {
				subs[k] = struct{}{}
			}
		}
		preds = append(preds, func(p *domain.Product) bool {
			if _, ok := mains[facetKey(p.Category)]; ok && p.Category != "" {
				return true
			}
			_, ok := subs[facetKey(p.Subcategory)]
			return ok && p.Subcategory != ""
		})
	}

	if set := valueSet(c.Materials); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, p.Materials, p.Metal)
		})
	}
	if set := valueSet(c.Gemstones); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, nil, p.Gemstone)
		})
	}
	if set := valueSet(c.Occasions); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, p.Occasions, p.Occasion)
		})
	}
	if set := valueSet(c.Sizes); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, p.Sizes, p.Size)
		})
	}
	if set := valueSet(c.Colors); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, p.Colors, p.Color)
		})
	}
	if set := valueSet(c.Badges); len(set) > 0 {
		preds = append(preds, func(p *domain.Product) bool {
			return anyIn(set, nil, p.Badge)
		})
	}

	if c.InStockOnly {
		preds = append(preds, func(p *domain.Product) bool { return p.InStock })
	}

	if c.PriceRange.Min > 0 || c.PriceRange.Max > 0 {
		r := c.PriceRange
		preds = append(preds, func(p *domain.Product) bool {
			price := ListPrice(p)
			if r.Min > 0 && price < r.Min {
				return false
			}
			return r.Max <= 0 || price <= r.Max
		})
	}

	switch tier := c.DiscountTier; {
	case tier == domain.TierAnyDiscount:
		preds = append(preds, func(p *domain.Product) bool {
			return pricing.BestAvailableDiscountPercent(p) > 0
		})
	case tier > domain.TierAnyDiscount:
		preds = append(preds, func(p *domain.Product) bool {
			return pricing.BestAvailableDiscountPercent(p) >= float64(tier)
		})
	}

	return preds
}

// ListPrice is the price range sliders bound: the reference price when the
// product has one, else its selling price.
func ListPrice(p *domain.Product) float64 {
	if p.OriginalPrice > 0 {
		return p.OriginalPrice
	}
	return p.Price
}

func facetKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func valueSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if k := facetKey(v); k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}

func anyIn(set map[string]struct{}, list []string, single string) bool {
	if single != "" {
		if _, ok := set[facetKey(single)]; ok {
			return true
		}
	}
	for _, v := range list {
		if _, ok := set[facetKey(v)]; ok && v != "" {
			return true
		}
	}
	return false
}
