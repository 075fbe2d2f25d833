package pricing

import "jewellery-catalog-service/internal/domain"

// GSTPercent returns the product's GST rate as a percentage. Rates stored
// as a fraction (0.03) are read as 3%.
func GSTPercent(p *domain.Product) float64 {
	if p == nil || p.GST <= 0 {
		return 0
	}
	if p.GST < 1 {
		return p.GST * 100
	}
	return p.GST
}

// ShippingCharge returns the per-unit delivery charge, never negative.
func ShippingCharge(p *domain.Product) float64 {
	if p == nil {
		return 0
	}
	return positive(p.DeliveryCharges)
}

// CalculateCartTotals aggregates the checkout summary for lines. Sums are
// carried unrounded and rounded once on return. Lines without a product are
// skipped.
func CalculateCartTotals(lines []domain.CartLine) domain.CartTotals {
	var subtotal, gst, shipping float64
	rates := make([]float64, 0, len(lines))
	seen := make(map[float64]struct{})

	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		qty := line.Quantity
		if qty < 1 {
			qty = 1
		}

		lineSubtotal := ResolveUnitPrice(line.Product, line.Variant) * float64(qty)
		rate := GSTPercent(line.Product)

		subtotal += lineSubtotal
		gst += lineSubtotal * (rate / 100)
		shipping += ShippingCharge(line.Product) * float64(qty)

		if rate > 0 {
			r := Round2(rate)
			if _, dup := seen[r]; !dup {
				seen[r] = struct{}{}
				rates = append(rates, r)
			}
		}
	}

	var effective float64
	if subtotal > 0 {
		effective = gst / subtotal * 100
	}

	return domain.CartTotals{
		Subtotal:            Round2(subtotal),
		GSTAmount:           Round2(gst),
		ShippingTotal:       Round2(shipping),
		Total:               Round2(subtotal + gst + shipping),
		EffectiveGSTPercent: Round2(effective),
		GSTPercentsUsed:     rates,
	}
}
