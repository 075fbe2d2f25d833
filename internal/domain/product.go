package domain

// RawProduct is a product document exactly as the commerce API returns it.
// Keys may be snake_case or camelCase; the catalog package normalizes them
// into Product once at ingestion.
type RawProduct map[string]any

// RawVariant is a variant document nested under a RawProduct.
type RawVariant map[string]any

// DiscountType is the kind of coupon-style discount attached to a product.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Discount is a coupon attached to a product. Value is a percentage for
// DiscountPercentage and an absolute amount for DiscountFlat.
type Discount struct {
	ID          int64        `json:"id,omitempty"`
	Code        string       `json:"code,omitempty"`
	Description string       `json:"description,omitempty"`
	Type        DiscountType `json:"type"`
	Value       float64      `json:"value"`
}

// Variant is a priced and stocked color/size instance of a Product.
type Variant struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name,omitempty"`
	SKU          string   `json:"sku,omitempty"`
	SellingPrice float64  `json:"selling_price"`
	MRP          float64  `json:"mrp"`
	Stock        *int     `json:"stock,omitempty"` // nil when the source did not report stock
	Images       []string `json:"images,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	Color        string   `json:"color,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	Size         string   `json:"size,omitempty"`
}

// Product is the canonical catalog entry.
//
// SellingPrice and MRP hold the values ingested from the source record.
// Price and OriginalPrice are the resolved display prices; they are derived
// from the ingested values and the variants, never the other way around.
type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`

	SellingPrice  float64 `json:"selling_price"`
	MRP           float64 `json:"mrp"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"original_price,omitempty"`

	ImageURL string   `json:"image_url"`
	Images   []string `json:"images,omitempty"`
	InStock  bool     `json:"in_stock"`
	Stock    *int     `json:"stock,omitempty"`
	Status   string   `json:"status,omitempty"`

	Materials []string `json:"materials,omitempty"`
	Metal     string   `json:"metal,omitempty"`
	Gemstone  string   `json:"gemstone,omitempty"`
	Colors    []string `json:"colors,omitempty"`
	Color     string   `json:"color,omitempty"`
	Occasions []string `json:"occasions,omitempty"`
	Occasion  string   `json:"occasion,omitempty"`
	Sizes     []string `json:"sizes,omitempty"`
	Size      string   `json:"size,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Badge     string   `json:"badge,omitempty"`

	GST             float64    `json:"gst"`
	DeliveryCharges float64    `json:"delivery_charges"`
	Discounts       []Discount `json:"discounts,omitempty"`
	Variants        []Variant  `json:"variants,omitempty"`
	DealEndsAt      string     `json:"deal_ends_at,omitempty"`

	// Set only on listing cards expanded from a single variant.
	ParentID      int64  `json:"parent_id,omitempty"`
	VariantID     int64  `json:"variant_id,omitempty"`
	IsVariantCard bool   `json:"is_variant_card,omitempty"`
	DisplayID     string `json:"display_id,omitempty"`
}

// VariantByID returns the variant with the given id, or nil.
func (p *Product) VariantByID(id int64) *Variant {
	if p == nil || id <= 0 {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}
