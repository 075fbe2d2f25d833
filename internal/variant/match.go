package variant

import "jewellery-catalog-service/internal/domain"

// FindVariantFor returns the variant matching a color and size selection.
// Blank arguments count as not selected. When both are selected only an
// exact match on both qualifies. A nil result means the caller stays on the
// base product.
func FindVariantFor(p *domain.Product, color, size string) *domain.Variant {
	if p == nil || len(p.Variants) == 0 {
		return nil
	}
	wantColor := normalize(color) != ""
	wantSize := normalize(size) != ""

	switch {
	case wantColor && wantSize:
		return firstVariant(p, func(v *domain.Variant) bool {
			return hasValue(v.Colors, v.Color, color) && hasValue(v.Sizes, v.Size, size)
		})
	case wantColor:
		return firstVariant(p, func(v *domain.Variant) bool {
			return hasValue(v.Colors, v.Color, color)
		})
	case wantSize:
		return firstVariant(p, func(v *domain.Variant) bool {
			return hasValue(v.Sizes, v.Size, size)
		})
	}
	return nil
}

func firstVariant(p *domain.Product, match func(*domain.Variant) bool) *domain.Variant {
	for i := range p.Variants {
		if match(&p.Variants[i]) {
			return &p.Variants[i]
		}
	}
	return nil
}
