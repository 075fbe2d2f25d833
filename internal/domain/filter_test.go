package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountTier_Valid(t *testing.T) {
	for _, tier := range []DiscountTier{TierAny, TierAnyDiscount, Tier20, Tier30, Tier50} {
		assert.True(t, tier.Valid(), "tier %d", tier)
	}
	for _, tier := range []DiscountTier{-1, 10, 15, 100} {
		assert.False(t, tier.Valid(), "tier %d", tier)
	}
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.True(t, FilterCriteria{Sort: SortPriceAsc}.IsEmpty(), "sort alone filters nothing")
	assert.True(t, FilterCriteria{PriceRange: PriceRange{Min: -5}}.IsEmpty())

	assert.False(t, FilterCriteria{Colors: []string{"Gold"}}.IsEmpty())
	assert.False(t, FilterCriteria{PriceRange: PriceRange{Max: 500}}.IsEmpty())
	assert.False(t, FilterCriteria{DiscountTier: Tier20}.IsEmpty())
	assert.False(t, FilterCriteria{InStockOnly: true}.IsEmpty())
}
