package pricing

import "jewellery-catalog-service/internal/domain"

// PricePair is a resolved (selling, list) price pair. Zero means unknown.
type PricePair struct {
	Unit      float64
	Reference float64
}

// ResolvePrice picks the authoritative unit and reference price for p, or
// for v when a selected variant is given. The first positive source wins:
// the variant's selling price, the product's selling price, the cheapest
// positively priced variant, then the product's MRP. A pair whose reference
// is below its unit price is swapped, since upstream data sometimes
// transposes MRP and selling price.
func ResolvePrice(p *domain.Product, v *domain.Variant) PricePair {
	if p == nil {
		return PricePair{}
	}
	pair := resolveUnnormalized(p, v)
	if pair.Unit > 0 && pair.Reference > 0 && pair.Reference < pair.Unit {
		pair.Unit, pair.Reference = pair.Reference, pair.Unit
	}
	return pair
}

// ResolveUnitPrice returns the unit half of ResolvePrice.
func ResolveUnitPrice(p *domain.Product, v *domain.Variant) float64 {
	return ResolvePrice(p, v).Unit
}

// ResolveReferencePrice returns the reference half of ResolvePrice.
func ResolveReferencePrice(p *domain.Product, v *domain.Variant) float64 {
	return ResolvePrice(p, v).Reference
}

func resolveUnnormalized(p *domain.Product, v *domain.Variant) PricePair {
	productRef := positive(p.MRP)

	if v != nil && v.SellingPrice > 0 {
		ref := positive(v.MRP)
		if ref == 0 {
			ref = productRef
		}
		return PricePair{Unit: v.SellingPrice, Reference: ref}
	}

	if p.SellingPrice > 0 {
		return PricePair{Unit: p.SellingPrice, Reference: productRef}
	}

	if cheapest := CheapestVariant(p); cheapest != nil {
		ref := positive(cheapest.MRP)
		if ref == 0 {
			ref = productRef
		}
		return PricePair{Unit: cheapest.SellingPrice, Reference: ref}
	}

	if productRef > 0 {
		return PricePair{Unit: productRef, Reference: productRef}
	}
	return PricePair{}
}

// CheapestVariant returns the variant with the lowest positive selling
// price, the earliest one on ties, or nil when no variant is priced.
func CheapestVariant(p *domain.Product) *domain.Variant {
	if p == nil {
		return nil
	}
	var best *domain.Variant
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.SellingPrice <= 0 {
			continue
		}
		if best == nil || v.SellingPrice < best.SellingPrice {
			best = v
		}
	}
	return best
}
