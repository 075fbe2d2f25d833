package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"

	"jewellery-catalog-service/internal/domain"
)

// MinQueryLength is the shortest trimmed query that is ranked at all.
const MinQueryLength = 2

// Field weights for search scoring.
const (
	weightPhraseInName = 10
	weightName         = 5
	weightCategory     = 3
	weightSubcategory  = 3
	weightGemstone     = 2
	weightMaterial     = 2
	weightOccasion     = 1
	weightColor        = 1
)

// Score rates how well p matches query. Zero means no match.
func Score(p *domain.Product, query string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if utf8.RuneCountInString(q) < MinQueryLength {
		return 0
	}

	name := strings.ToLower(p.Name)
	score := 0
	if strings.Contains(name, q) {
		score += weightPhraseInName
	}

	fields := []struct {
		value  string
		weight int
	}{
		{name, weightName},
		{strings.ToLower(p.Category), weightCategory},
		{strings.ToLower(p.Subcategory), weightSubcategory},
		{strings.ToLower(p.Gemstone), weightGemstone},
		{strings.ToLower(p.Metal), weightMaterial},
		{strings.ToLower(p.Occasion), weightOccasion},
		{strings.ToLower(p.Color), weightColor},
	}
	for _, kw := range strings.Fields(q) {
		if utf8.RuneCountInString(kw) <= 1 {
			continue
		}
		for _, f := range fields {
			if f.value != "" && strings.Contains(f.value, kw) {
				score += f.weight
			}
		}
	}
	return score
}

// RankBySearch returns the products matching query, best match first. Ties
// keep their input order. Queries shorter than MinQueryLength match nothing.
func RankBySearch(products []domain.Product, query string) []domain.Product {
	type scored struct {
		product domain.Product
		score   int
	}

	if utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLength {
		return []domain.Product{}
	}

	hits := make([]scored, 0)
	for i := range products {
		if s := Score(&products[i], query); s > 0 {
			hits = append(hits, scored{product: products[i], score: s})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		return b.score - a.score
	})

	out := make([]domain.Product, len(hits))
	for i, h := range hits {
		out[i] = h.product
	}
	return out
}
