package catalog

import (
	"testing"

	"jewellery-catalog-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestFacetOptions(t *testing.T) {
	got := FacetOptions(listingFixture())

	assert.Equal(t, []string{"Bracelets", "Necklaces", "Rings"}, got.Categories)
	assert.Equal(t, []string{"Gold", "Silver"}, got.Subcategories)
	assert.Equal(t, []string{"Gold", "Silver"}, got.Materials)
	assert.Equal(t, []string{"Coral", "Ruby"}, got.Gemstones)
	assert.Equal(t, []string{"Wedding"}, got.Occasions)
	assert.Equal(t, []string{"6", "7"}, got.Sizes)
	assert.Equal(t, []string{"Orange", "Red"}, got.Colors)
	assert.Equal(t, 1000.0, got.MaxPrice)
}

func TestFacetOptions_FirstCasingWins(t *testing.T) {
	got := FacetOptions([]domain.Product{
		{Colors: []string{"rose gold", "Silver"}},
		{Color: "Rose Gold"},
	})

	assert.Equal(t, []string{"rose gold", "Silver"}, got.Colors)
}

func TestFacetOptions_Empty(t *testing.T) {
	got := FacetOptions(nil)

	assert.NotNil(t, got.Categories)
	assert.Empty(t, got.Categories)
	assert.Zero(t, got.MaxPrice)
}
