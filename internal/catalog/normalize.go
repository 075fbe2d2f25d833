// Package catalog turns commerce API product documents into canonical
// products and answers listing, search and checkout queries over an
// in-memory snapshot of them.
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"jewellery-catalog-service/internal/domain"
	"jewellery-catalog-service/internal/pricing"
)

// Accepted source keys per canonical field, in lookup order.
var (
	keysCategory    = []string{"main_category", "mainCategory", "category"}
	keysSubcategory = []string{"sub_category", "subCategory", "subcategory"}
	keysSelling     = []string{"selling_price", "sellingPrice", "price"}
	keysMRP         = []string{"mrp", "originalPrice", "original_price"}
	keysGemstone    = []string{"crystal_name", "crystalName", "gemstone"}
	keysGST         = []string{"gst", "gst_percent", "gstPercent"}
	keysDelivery    = []string{"delivery_charges", "deliveryCharges"}
	keysDealEndsAt  = []string{"dealEndsAt", "limitedDealEndsAt", "limited_deal_ends_at"}
)

const statusOutOfStock = "out_of_stock"

// badgeTags maps merchandising tags to listing badges. Order matters: the
// first tag present on a product decides its badge.
var badgeTags = []struct {
	tag   string
	badge string
}{
	{"Featured Products", "Featured"},
	{"Best Sellers", "Best Seller"},
	{"New Arrival", "New Arrivals"},
	{"Limited Deal", "Limited"},
	{"Limited Offer", "Limited"},
	{"Festive Sale", "Festive Sale"},
	{"Sale", "Sale"},
}

// NormalizeCatalog normalizes every record with a positive id.
func NormalizeCatalog(raws []domain.RawProduct) []domain.Product {
	products := make([]domain.Product, 0, len(raws))
	for _, raw := range raws {
		p := NormalizeProduct(raw)
		if p.ID <= 0 {
			continue
		}
		products = append(products, p)
	}
	return products
}

// NormalizeProduct maps a raw product document onto the canonical shape and
// derives its display price, image, stock flag and badge.
func NormalizeProduct(raw domain.RawProduct) domain.Product {
	p := domain.Product{
		ID:           toID(raw["id"]),
		Name:         toString(raw["name"]),
		Category:     toString(first(raw, keysCategory...)),
		Subcategory:  toString(first(raw, keysSubcategory...)),
		SellingPrice: pricing.PositiveOrZero(first(raw, keysSelling...)),
		MRP:          pricing.PositiveOrZero(first(raw, keysMRP...)),
		Stock:        toStock(raw["stock"]),
		Status:       toString(raw["status"]),
		Images:       toStrings(raw["images"]),
		Materials:    toStrings(raw["materials"]),
		Metal:        toString(raw["metal"]),
		Gemstone:     toString(first(raw, keysGemstone...)),
		Colors:       toStrings(raw["colors"]),
		Color:        toString(raw["color"]),
		Occasions:    toStrings(raw["occasions"]),
		Occasion:     toString(raw["occasion"]),
		Sizes:        toStrings(raw["sizes"]),
		Size:         toString(raw["size"]),
		Tags:         toStrings(raw["tags"]),
		DealEndsAt:   toString(first(raw, keysDealEndsAt...)),
		Discounts:    toDiscounts(raw["discounts"]),
		Variants:     toVariants(raw["variants"]),
	}
	if gst, ok := pricing.ToNumber(first(raw, keysGST...)); ok {
		p.GST = gst
	}
	if charge, ok := pricing.ToNumber(first(raw, keysDelivery...)); ok {
		p.DeliveryCharges = charge
	}

	p.Metal = orFirst(p.Metal, p.Materials)
	p.Color = orFirst(p.Color, p.Colors)
	p.Occasion = orFirst(p.Occasion, p.Occasions)
	p.Size = orFirst(p.Size, p.Sizes)

	pair := pricing.ResolvePrice(&p, nil)
	p.Price = pair.Unit
	p.OriginalPrice = pair.Reference

	cheapest := pricing.CheapestVariant(&p)
	p.ImageURL = imageFor(cheapest, p.Images)
	p.InStock = inStock(p.Status, cheapest, p.Stock)
	p.Badge = badgeFor(&p, cheapest)

	return p
}

// NormalizeVariant maps a raw variant document onto the canonical shape.
func NormalizeVariant(raw domain.RawVariant) domain.Variant {
	v := domain.Variant{
		ID:           toID(raw["id"]),
		Name:         toString(raw["name"]),
		SKU:          toString(first(raw, "sku", "unique_code")),
		SellingPrice: pricing.PositiveOrZero(first(raw, keysSelling...)),
		MRP:          pricing.PositiveOrZero(first(raw, keysMRP...)),
		Stock:        toStock(raw["stock"]),
		Images:       toStrings(raw["images"]),
		Tags:         toStrings(raw["tags"]),
		Colors:       toStrings(raw["colors"]),
		Color:        toString(raw["color"]),
		Sizes:        toStrings(raw["sizes"]),
		Size:         toString(raw["size"]),
	}
	v.Color = orFirst(v.Color, v.Colors)
	v.Size = orFirst(v.Size, v.Sizes)
	return v
}

// VariantCards expands p into one listing card per variant. Each card keeps
// the parent's id and classification, overridden by whatever the variant
// defines itself.
func VariantCards(p domain.Product) []domain.Product {
	cards := make([]domain.Product, 0, len(p.Variants))
	for i, v := range p.Variants {
		card := p
		card.ParentID = p.ID
		card.VariantID = v.ID
		card.IsVariantCard = true
		card.DisplayID = fmt.Sprintf("v-%d-%d", p.ID, v.ID)
		if v.ID == 0 {
			card.DisplayID = fmt.Sprintf("v-%d-i%d", p.ID, i)
		}

		card.Name = v.Name
		if card.Name == "" {
			card.Name = "Variant"
		}
		if v.SellingPrice > 0 {
			card.SellingPrice = v.SellingPrice
		} else {
			card.SellingPrice = p.Price
		}
		if v.MRP > 0 {
			card.MRP = v.MRP
		} else {
			card.MRP = p.OriginalPrice
		}
		// Resolve from the card's own pair only.
		card.Variants = nil
		pair := pricing.ResolvePrice(&card, nil)
		card.Price, card.OriginalPrice = pair.Unit, pair.Reference
		card.Variants = p.Variants

		if len(v.Images) > 0 {
			card.ImageURL = v.Images[0]
		}
		if v.Stock != nil {
			card.Stock = v.Stock
			card.InStock = *v.Stock > 0
		}
		if len(v.Colors) > 0 {
			card.Colors = v.Colors
			card.Color = v.Colors[0]
		} else if v.Color != "" {
			card.Color = v.Color
		}
		if len(v.Sizes) > 0 {
			card.Sizes = v.Sizes
			card.Size = v.Sizes[0]
		} else if v.Size != "" {
			card.Size = v.Size
		}
		cards = append(cards, card)
	}
	return cards
}

func imageFor(cheapest *domain.Variant, images []string) string {
	if cheapest != nil && len(cheapest.Images) > 0 {
		return cheapest.Images[0]
	}
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

func inStock(status string, cheapest *domain.Variant, stock *int) bool {
	if status != "" && status != statusOutOfStock {
		return true
	}
	if cheapest != nil && cheapest.Stock != nil && *cheapest.Stock > 0 {
		return true
	}
	return stock != nil && *stock > 0
}

func badgeFor(p *domain.Product, cheapest *domain.Variant) string {
	tags := make(map[string]struct{}, len(p.Tags))
	for _, t := range p.Tags {
		tags[t] = struct{}{}
	}
	if cheapest != nil {
		for _, t := range cheapest.Tags {
			tags[t] = struct{}{}
		}
	}
	for _, bt := range badgeTags {
		if _, ok := tags[bt.tag]; ok {
			return bt.badge
		}
	}
	if p.Price > 0 && p.OriginalPrice > p.Price {
		return "Sale"
	}
	return ""
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func orFirst(single string, list []string) string {
	if single != "" || len(list) == 0 {
		return single
	}
	return list[0]
}

func toID(v any) int64 {
	n, ok := pricing.ToNumber(v)
	if !ok || n <= 0 || n >= math.MaxInt64 {
		return 0
	}
	return int64(n)
}

func toStock(v any) *int {
	n, ok := pricing.ToNumber(v)
	if !ok {
		return nil
	}
	stock := int(max(min(n, math.MaxInt32), 0))
	return &stock
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case map[string]any:
		// Lookup tables are sometimes expanded into {"id":..,"name":..}.
		return toString(s["name"])
	default:
		return strings.TrimSpace(fmt.Sprint(s))
	}
}

func toStrings(v any) []string {
	var items []any
	switch list := v.(type) {
	case nil:
		return nil
	case []any:
		items = list
	case []string:
		items = make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
	default:
		items = []any{list}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := toString(item); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func toDiscounts(v any) []domain.Discount {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	discounts := make([]domain.Discount, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value, _ := pricing.ToNumber(m["value"])
		discounts = append(discounts, domain.Discount{
			ID:          toID(m["id"]),
			Code:        toString(first(m, "code", "name")),
			Description: toString(m["description"]),
			Type:        toDiscountType(toString(first(m, "type", "discount_type"))),
			Value:       value,
		})
	}
	return discounts
}

// toDiscountType maps backend coupon kinds onto DiscountType. The commerce
// API calls flat coupons "fixed"; a missing type means percentage.
func toDiscountType(s string) domain.DiscountType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "percentage", "percent":
		return domain.DiscountPercentage
	case "fixed", "flat", "amount":
		return domain.DiscountFlat
	default:
		return domain.DiscountType(strings.ToLower(strings.TrimSpace(s)))
	}
}

func toVariants(v any) []domain.Variant {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	variants := make([]domain.Variant, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		variants = append(variants, NormalizeVariant(domain.RawVariant(m)))
	}
	return variants
}
