package domain

// DiscountTier is a "percent off and above" threshold used by listing filters.
type DiscountTier int

const (
	TierAny         DiscountTier = 0
	TierAnyDiscount DiscountTier = 1
	Tier20          DiscountTier = 20
	Tier30          DiscountTier = 30
	Tier50          DiscountTier = 50
)

// Valid reports whether t is one of the tiers offered by the storefront.
func (t DiscountTier) Valid() bool {
	switch t {
	case TierAny, TierAnyDiscount, Tier20, Tier30, Tier50:
		return true
	}
	return false
}

// SortOption selects the ordering applied after filtering.
type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortNameDesc  SortOption = "name-desc"
)

// PriceRange bounds the reference price inclusively. A non-positive bound is
// treated as open.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FilterCriteria is a listing query. Within one facet the selected values
// are alternatives; facets combine conjunctively. Empty facets match all.
type FilterCriteria struct {
	Categories    []string
	Subcategories []string // plain names or "Main::Sub"
	Materials     []string
	Gemstones     []string
	Occasions     []string
	Sizes         []string
	Colors        []string
	Badges        []string
	PriceRange    PriceRange
	DiscountTier  DiscountTier
	InStockOnly   bool
	Sort          SortOption
}

// IsEmpty reports whether c filters nothing out. Sort is not considered.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Categories) == 0 &&
		len(c.Subcategories) == 0 &&
		len(c.Materials) == 0 &&
		len(c.Gemstones) == 0 &&
		len(c.Occasions) == 0 &&
		len(c.Sizes) == 0 &&
		len(c.Colors) == 0 &&
		len(c.Badges) == 0 &&
		c.PriceRange.Min <= 0 &&
		c.PriceRange.Max <= 0 &&
		c.DiscountTier == TierAny &&
		!c.InStockOnly
}

// FacetOptions lists the distinct values available in a product collection,
// used to render the filter panel.
type FacetOptions struct {
	Categories    []string `json:"categories"`
	Subcategories []string `json:"subcategories"`
	Materials     []string `json:"materials"`
	Gemstones     []string `json:"gemstones"`
	Occasions     []string `json:"occasions"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	MaxPrice      float64  `json:"max_price"`
}
