// Package variant resolves color/size options and variant selection for a
// product detail page.
package variant

import (
	"strings"

	"jewellery-catalog-service/internal/domain"
)

// optionSet collects display labels de-duplicated case-insensitively. The
// first casing seen wins and insertion order is kept.
type optionSet struct {
	seen   map[string]struct{}
	labels []string
}

func newOptionSet() *optionSet {
	return &optionSet{seen: make(map[string]struct{})}
}

func (s *optionSet) add(values ...string) {
	for _, v := range values {
		label := strings.TrimSpace(v)
		if label == "" {
			continue
		}
		k := normalize(label)
		if _, ok := s.seen[k]; ok {
			continue
		}
		s.seen[k] = struct{}{}
		s.labels = append(s.labels, label)
	}
}

func (s *optionSet) list() []string {
	if s.labels == nil {
		return []string{}
	}
	return s.labels
}

// CollectColorOptions returns every color offered by p or its variants.
func CollectColorOptions(p *domain.Product) []string {
	set := newOptionSet()
	if p == nil {
		return set.list()
	}
	set.add(p.Colors...)
	set.add(p.Color)
	for _, v := range p.Variants {
		set.add(v.Colors...)
		set.add(v.Color)
	}
	return set.list()
}

// CollectSizeOptions returns every size offered by p or its variants.
func CollectSizeOptions(p *domain.Product) []string {
	set := newOptionSet()
	if p == nil {
		return set.list()
	}
	set.add(p.Sizes...)
	set.add(p.Size)
	for _, v := range p.Variants {
		set.add(v.Sizes...)
		set.add(v.Size)
	}
	return set.list()
}

// SizeOptionsForColor narrows the size picker once a color is chosen: sizes
// of the variants in that color, else the product's own sizes.
func SizeOptionsForColor(p *domain.Product, color string) []string {
	set := newOptionSet()
	if p == nil {
		return set.list()
	}
	if normalize(color) != "" {
		for _, v := range p.Variants {
			if hasValue(v.Colors, v.Color, color) {
				set.add(v.Sizes...)
				set.add(v.Size)
			}
		}
		if len(set.labels) > 0 {
			return set.list()
		}
	}
	set.add(p.Sizes...)
	set.add(p.Size)
	return set.list()
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func hasValue(list []string, single, target string) bool {
	want := normalize(target)
	if want == "" {
		return false
	}
	for _, v := range list {
		if normalize(v) == want {
			return true
		}
	}
	return normalize(single) == want
}
