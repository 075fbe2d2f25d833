package domain

// CartItemRef is a cart entry as the storefront submits it at checkout.
type CartItemRef struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id,omitempty"`
	Quantity  int   `json:"quantity"`
}

// CartLine joins a resolved product (and optional variant) with a quantity.
// Product is nil when the referenced product could not be resolved; such
// lines contribute nothing to the totals.
type CartLine struct {
	Product  *Product
	Variant  *Variant
	Quantity int
}

// CartTotals is the checkout summary. Monetary values are rounded to two
// decimal places.
type CartTotals struct {
	Subtotal            float64   `json:"subtotal"`
	GSTAmount           float64   `json:"gst_amount"`
	ShippingTotal       float64   `json:"shipping_total"`
	Total               float64   `json:"total"`
	EffectiveGSTPercent float64   `json:"effective_gst_percent"`
	GSTPercentsUsed     []float64 `json:"gst_percents_used"`
}
