package pricing

import (
	"math"

	"jewellery-catalog-service/internal/domain"
)

// DiscountPercent is the whole-number percentage by which unit undercuts
// reference. It is 0 unless 0 < unit < reference.
func DiscountPercent(unit, reference float64) int {
	if reference <= 0 || unit <= 0 || unit >= reference {
		return 0
	}
	return int(math.Round((1 - unit/reference) * 100))
}

// BestAvailableDiscountPercent compares the product's own MRP discount with
// every attached coupon and returns the largest, as a percentage in [0, 100]
// with two decimals. Flat coupons are converted against the unit price, or
// the reference price when the product has no unit price.
func BestAvailableDiscountPercent(p *domain.Product) float64 {
	if p == nil {
		return 0
	}
	pair := ResolvePrice(p, nil)

	best := float64(DiscountPercent(pair.Unit, pair.Reference))

	priceForFlat := pair.Unit
	if priceForFlat <= 0 {
		priceForFlat = pair.Reference
	}
	for _, d := range p.Discounts {
		if d.Value <= 0 {
			continue
		}
		switch d.Type {
		case domain.DiscountPercentage:
			best = math.Max(best, d.Value)
		case domain.DiscountFlat:
			if priceForFlat > 0 {
				best = math.Max(best, d.Value/priceForFlat*100)
			}
		}
	}

	if math.IsNaN(best) || best < 0 {
		return 0
	}
	return Round2(math.Min(best, 100))
}

// ApplyCoupon returns price after applying d. The result never drops below
// zero; unusable coupons leave the price unchanged.
func ApplyCoupon(price float64, d domain.Discount) float64 {
	if price <= 0 || d.Value <= 0 {
		return math.Max(price, 0)
	}
	switch d.Type {
	case domain.DiscountPercentage:
		return math.Max(0, price*(1-math.Min(d.Value, 100)/100))
	case domain.DiscountFlat:
		return math.Max(0, price-d.Value)
	}
	return price
}
