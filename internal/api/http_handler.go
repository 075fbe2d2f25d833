package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"jewellery-catalog-service/internal/catalog"
	"jewellery-catalog-service/internal/domain"
	"jewellery-catalog-service/internal/metrics"
	"jewellery-catalog-service/internal/pricing"
	"jewellery-catalog-service/internal/variant"
)

const (
	defaultListLimit   = 24
	maxListLimit       = 100
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

// CatalogService is the read side of the catalog used by the transports.
type CatalogService interface {
	Snapshot(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (*domain.Product, error)
	CartLines(ctx context.Context, items []domain.CartItemRef) ([]domain.CartLine, error)
	Invalidate(ctx context.Context) error
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	catalog  CatalogService
	validate *validator.Validate
	metrics  *metrics.CatalogMetrics
	log      zerolog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(svc CatalogService, m *metrics.CatalogMetrics, log zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		catalog:  svc,
		validate: validator.New(),
		metrics:  m,
		log:      log.With().Str("component", "http").Logger(),
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	if payload == nil {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func parseProductID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	return id, err == nil && id > 0
}

// Pagination matches the envelope used by every list endpoint.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

func paginate(products []domain.Product, page, limit int) ([]domain.Product, Pagination) {
	total := len(products)
	p := Pagination{Page: page, Limit: limit, TotalItems: total}
	if total > 0 {
		p.TotalPages = (total + limit - 1) / limit
	}
	if page-1 >= (total+limit-1)/limit {
		return []domain.Product{}, p
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return products[start:end], p
}

// --- Listing ---

// ListProductsQuery is the validated form of the listing query string.
type ListProductsQuery struct {
	Query          string  `validate:"max=200"`
	Page           int     `validate:"gte=1"`
	Limit          int     `validate:"gte=1,lte=100"`
	MinPrice       float64 `validate:"gte=0"`
	MaxPrice       float64 `validate:"gte=0"`
	Discount       int
	Sort           string  `validate:"omitempty,oneof=relevance price-asc price-desc name-asc name-desc"`
	InStock        bool
	ExpandVariants bool
	Criteria       domain.FilterCriteria `validate:"-"`
}

func parseListQuery(q url.Values) (ListProductsQuery, error) {
	out := ListProductsQuery{
		Query: strings.TrimSpace(q.Get("q")),
		Page:  1,
		Limit: defaultListLimit,
		Sort:  q.Get("sort"),
	}

	var err error
	if out.Page, err = intParam(q, "page", 1); err != nil {
		return out, err
	}
	if out.Limit, err = intParam(q, "limit", defaultListLimit); err != nil {
		return out, err
	}
	out.Limit = min(out.Limit, maxListLimit)
	if out.Discount, err = intParam(q, "discount", 0); err != nil {
		return out, err
	}
	if out.MinPrice, err = floatParam(q, "min_price"); err != nil {
		return out, err
	}
	if out.MaxPrice, err = floatParam(q, "max_price"); err != nil {
		return out, err
	}
	if out.InStock, err = boolParam(q, "in_stock"); err != nil {
		return out, err
	}
	if out.ExpandVariants, err = boolParam(q, "expand_variants"); err != nil {
		return out, err
	}

	out.Criteria = domain.FilterCriteria{
		Categories:    multiParam(q, "category"),
		Subcategories: multiParam(q, "subcategory"),
		Materials:     multiParam(q, "material"),
		Gemstones:     multiParam(q, "gemstone"),
		Occasions:     multiParam(q, "occasion"),
		Sizes:         multiParam(q, "size"),
		Colors:        multiParam(q, "color"),
		Badges:        multiParam(q, "badge"),
		PriceRange:    domain.PriceRange{Min: out.MinPrice, Max: out.MaxPrice},
		DiscountTier:  domain.DiscountTier(out.Discount),
		InStockOnly:   out.InStock,
		Sort:          domain.SortOption(out.Sort),
	}
	return out, nil
}

// ListProductsResponse is the body of GET /products.
type ListProductsResponse struct {
	Data       []domain.Product    `json:"data"`
	Facets     domain.FacetOptions `json:"facets"`
	Pagination Pagination          `json:"pagination"`
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(query); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if !query.Criteria.DiscountTier.Valid() {
		h.respondWithError(w, http.StatusBadRequest, "Invalid discount value: must be one of 0, 1, 20, 30, 50")
		return
	}
	if query.MaxPrice > 0 && query.MinPrice > query.MaxPrice {
		h.respondWithError(w, http.StatusBadRequest, "min_price cannot exceed max_price")
		return
	}

	products, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("ListProducts snapshot failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}
	h.metrics.IncQuery("listing")

	if query.ExpandVariants {
		products = expandVariants(products)
	}
	facets := catalog.FacetOptions(products)
	// Queries too short to rank leave the listing unsearched.
	if utf8.RuneCountInString(query.Query) >= catalog.MinQueryLength {
		products = catalog.RankBySearch(products, query.Query)
	}
	filtered := catalog.ApplyFilters(products, query.Criteria)

	page, pagination := paginate(filtered, query.Page, query.Limit)
	h.respondWithJSON(w, http.StatusOK, ListProductsResponse{
		Data:       page,
		Facets:     facets,
		Pagination: pagination,
	})
}

// expandVariants replaces every product that has variants with one card per
// variant.
func expandVariants(products []domain.Product) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(p.Variants) == 0 {
			out = append(out, p)
			continue
		}
		out = append(out, catalog.VariantCards(p)...)
	}
	return out
}

// --- Search suggestions ---

// SearchResponse is the body of GET /products/search.
type SearchResponse struct {
	Data  []domain.Product `json:"data"`
	Total int              `json:"total"`
}

func (h *HTTPHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q, "limit", defaultSearchLimit)
	if err != nil || limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	products, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("SearchProducts snapshot failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}
	h.metrics.IncQuery("search")

	ranked := catalog.RankBySearch(products, q.Get("q"))
	h.respondWithJSON(w, http.StatusOK, SearchResponse{
		Data:  ranked[:min(limit, len(ranked))],
		Total: len(ranked),
	})
}

// --- Product detail ---

// ProductDetailResponse is a product plus what the detail page derives from it.
type ProductDetailResponse struct {
	*domain.Product
	ColorOptions        []string `json:"color_options"`
	SizeOptions         []string `json:"size_options"`
	DiscountPercent     int      `json:"discount_percent"`
	BestDiscountPercent float64  `json:"best_discount_percent"`
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, ok := h.lookupProduct(w, r, productID)
	if !ok {
		return
	}
	h.metrics.IncQuery("detail")

	h.respondWithJSON(w, http.StatusOK, ProductDetailResponse{
		Product:             product,
		ColorOptions:        variant.CollectColorOptions(product),
		SizeOptions:         variant.CollectSizeOptions(product),
		DiscountPercent:     pricing.DiscountPercent(product.Price, product.OriginalPrice),
		BestDiscountPercent: pricing.BestAvailableDiscountPercent(product),
	})
}

// VariantSelectionResponse describes the purchasable unit for a color/size
// selection. Variant is null when no variant matches.
type VariantSelectionResponse struct {
	ProductID       int64           `json:"product_id"`
	Variant         *domain.Variant `json:"variant"`
	Price           float64         `json:"price"`
	OriginalPrice   float64         `json:"original_price"`
	DiscountPercent int             `json:"discount_percent"`
	ImageURL        string          `json:"image_url"`
	InStock         bool            `json:"in_stock"`
	SizeOptions     []string        `json:"size_options"`
}

func (h *HTTPHandler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := parseProductID(r)
	if !ok {
		h.respondWithError(w, http.StatusBadRequest, "Invalid product ID format")
		return
	}
	product, ok := h.lookupProduct(w, r, productID)
	if !ok {
		return
	}
	h.metrics.IncQuery("variant")

	color := r.URL.Query().Get("color")
	size := r.URL.Query().Get("size")
	v := variant.FindVariantFor(product, color, size)
	pair := pricing.ResolvePrice(product, v)

	resp := VariantSelectionResponse{
		ProductID:       product.ID,
		Variant:         v,
		Price:           pair.Unit,
		OriginalPrice:   pair.Reference,
		DiscountPercent: pricing.DiscountPercent(pair.Unit, pair.Reference),
		ImageURL:        product.ImageURL,
		InStock:         product.InStock,
		SizeOptions:     variant.SizeOptionsForColor(product, color),
	}
	if strings.TrimSpace(color) == "" {
		resp.SizeOptions = variant.CollectSizeOptions(product)
	}
	if v != nil {
		if len(v.Images) > 0 {
			resp.ImageURL = v.Images[0]
		}
		if v.Stock != nil {
			resp.InStock = *v.Stock > 0
		}
	}
	h.respondWithJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) lookupProduct(w http.ResponseWriter, r *http.Request, id int64) (*domain.Product, bool) {
	product, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, catalog.ErrProductNotFound.Error())
		} else {
			h.log.Error().Err(err).Int64("product_id", id).Msg("product lookup failed")
			h.respondWithError(w, http.StatusInternalServerError, "Failed to retrieve product")
		}
		return nil, false
	}
	return product, true
}

// --- Cart ---

// CartItemInput is one line of a cart totals request.
type CartItemInput struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	VariantID int64 `json:"variant_id" validate:"omitempty,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gte=1,lte=999"`
}

// CouponInput is a coupon applied to the cart total.
type CouponInput struct {
	Type  string  `json:"type" validate:"required,oneof=percentage flat"`
	Value float64 `json:"value" validate:"gt=0"`
}

// CartTotalsInput defines the expected input for POST /cart/totals.
type CartTotalsInput struct {
	Items  []CartItemInput `json:"items" validate:"required,min=1,max=100,dive"`
	Coupon *CouponInput    `json:"coupon,omitempty"`
}

// CartTotalsResponse is CartTotals plus the couponed total when a coupon
// was supplied.
type CartTotalsResponse struct {
	domain.CartTotals
	DiscountedTotal *float64 `json:"discounted_total,omitempty"`
}

func (h *HTTPHandler) CalculateCartTotals(w http.ResponseWriter, r *http.Request) {
	var input CartTotalsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	resp, err := cartTotals(r.Context(), h.catalog, input)
	if err != nil {
		h.log.Error().Err(err).Int("items", len(input.Items)).Msg("CalculateCartTotals failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to calculate cart totals")
		return
	}
	h.metrics.IncQuery("cart")
	h.respondWithJSON(w, http.StatusOK, resp)
}

// cartTotals is shared by the HTTP and gRPC transports.
func cartTotals(ctx context.Context, svc CatalogService, input CartTotalsInput) (CartTotalsResponse, error) {
	refs := make([]domain.CartItemRef, len(input.Items))
	for i, it := range input.Items {
		refs[i] = domain.CartItemRef{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity}
	}
	lines, err := svc.CartLines(ctx, refs)
	if err != nil {
		return CartTotalsResponse{}, err
	}

	resp := CartTotalsResponse{CartTotals: pricing.CalculateCartTotals(lines)}
	if input.Coupon != nil {
		discounted := pricing.Round2(pricing.ApplyCoupon(resp.Total, domain.Discount{
			Type:  domain.DiscountType(input.Coupon.Type),
			Value: input.Coupon.Value,
		}))
		resp.DiscountedTotal = &discounted
	}
	return resp, nil
}

// --- Admin ---

func (h *HTTPHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		h.log.Error().Err(err).Msg("RefreshCatalog failed")
		h.respondWithError(w, http.StatusInternalServerError, "Failed to refresh catalog")
		return
	}
	h.respondWithJSON(w, http.StatusNoContent, nil)
}

// --- Query parameter helpers ---

func intParam(q url.Values, key string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("Invalid " + key + " value: must be an integer")
	}
	return n, nil
}

func floatParam(q url.Values, key string) (float64, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("Invalid " + key + " format")
	}
	return f, nil
}

func boolParam(q url.Values, key string) (bool, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.New("Invalid " + key + " value: must be true or false")
	}
	return b, nil
}

// multiParam accepts both repeated keys and comma-separated values.
func multiParam(q url.Values, key string) []string {
	var out []string
	for _, raw := range q[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		// Before {productId} so "search" is not parsed as an id.
		r.Get("/search", h.SearchProducts)

		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Get("/variant", h.SelectVariant)
		})
	})

	r.Post("/api/v1/cart/totals", h.CalculateCartTotals)
	r.Post("/api/v1/catalog/refresh", h.RefreshCatalog)
}
