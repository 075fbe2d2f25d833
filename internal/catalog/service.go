package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"jewellery-catalog-service/internal/cache"
	"jewellery-catalog-service/internal/domain"
	"jewellery-catalog-service/internal/metrics"
	"jewellery-catalog-service/internal/store"
)

// SnapshotKey is the cache key holding the normalized catalog.
const SnapshotKey = "products:snapshot:v1"

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("catalog: product not found")

// ProductSource yields raw product documents from the commerce backend.
type ProductSource interface {
	FetchRawProducts(ctx context.Context) ([]domain.RawProduct, error)
	FetchRawProductsByIDs(ctx context.Context, ids []int64) ([]domain.RawProduct, error)
}

// Service serves the normalized catalog, caching the snapshot between loads.
type Service struct {
	source  ProductSource
	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.CatalogMetrics
	log     zerolog.Logger
	loads   singleflight.Group
}

// NewService builds a Service. A nil cache disables snapshot caching.
func NewService(source ProductSource, c cache.Cache, ttl time.Duration, m *metrics.CatalogMetrics, log zerolog.Logger) *Service {
	return &Service{
		source:  source,
		cache:   c,
		ttl:     ttl,
		metrics: m,
		log:     log.With().Str("component", "catalog").Logger(),
	}
}

// Snapshot returns the normalized catalog. Cache failures are logged and
// never fail the call.
func (s *Service) Snapshot(ctx context.Context) ([]domain.Product, error) {
	if products, ok := s.cached(ctx); ok {
		s.metrics.ObserveSnapshot(metrics.SourceCache, true, len(products))
		return products, nil
	}

	v, err, _ := s.loads.Do(SnapshotKey, func() (any, error) {
		// Shared by every waiting caller, so one disconnect must not cancel it.
		return s.load(context.WithoutCancel(ctx))
	})
	if err != nil {
		s.metrics.ObserveSnapshot(metrics.SourceOrigin, false, 0)
		return nil, err
	}
	products := v.([]domain.Product)
	s.metrics.ObserveSnapshot(metrics.SourceOrigin, true, len(products))
	// Shared results must not be mutated by callers.
	return slices.Clone(products), nil
}

func (s *Service) cached(ctx context.Context) ([]domain.Product, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.log.Warn().Err(err).Msg("snapshot cache read failed")
		}
		return nil, false
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		s.log.Warn().Err(err).Msg("discarding undecodable snapshot")
		return nil, false
	}
	return products, true
}

func (s *Service) load(ctx context.Context) ([]domain.Product, error) {
	raws, err := s.source.FetchRawProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch products: %w", err)
	}
	products := NormalizeCatalog(raws)
	s.log.Debug().Int("raw", len(raws)).Int("products", len(products)).Msg("catalog snapshot loaded")

	if s.cache != nil {
		data, err := json.Marshal(products)
		if err != nil {
			s.log.Warn().Err(err).Msg("snapshot encode failed")
			return products, nil
		}
		if err := s.cache.Set(ctx, SnapshotKey, data, s.ttl); err != nil {
			s.log.Warn().Err(err).Msg("snapshot cache write failed")
		}
	}
	return products, nil
}

// Invalidate drops the cached snapshot so the next read reloads it.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("catalog: invalidate snapshot: %w", err)
	}
	s.log.Info().Msg("catalog snapshot invalidated")
	return nil
}

// documentGetter is implemented by sources that can read a single document.
type documentGetter interface {
	GetRawProduct(ctx context.Context, id int64) (domain.RawProduct, error)
}

// Product returns the product with the given id from the snapshot. Products
// published after the snapshot was cached are read from the source directly
// when it supports single reads.
func (s *Service) Product(ctx context.Context, id int64) (*domain.Product, error) {
	products, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}

	getter, ok := s.source.(documentGetter)
	if !ok {
		return nil, ErrProductNotFound
	}
	raw, err := getter.GetRawProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("catalog: fetch product %d: %w", id, err)
	}
	found := NormalizeCatalog([]domain.RawProduct{raw})
	if len(found) == 0 {
		return nil, ErrProductNotFound
	}
	s.log.Debug().Int64("product_id", id).Msg("product served ahead of snapshot")
	return &found[0], nil
}

// CartLines resolves cart references against fresh source records. Lines
// whose product cannot be found keep a nil Product; an unknown variant id
// falls back to the base product.
func (s *Service) CartLines(ctx context.Context, items []domain.CartItemRef) ([]domain.CartLine, error) {
	if len(items) == 0 {
		return []domain.CartLine{}, nil
	}
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !slices.Contains(ids, it.ProductID) {
			ids = append(ids, it.ProductID)
		}
	}

	raws, err := s.source.FetchRawProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("catalog: fetch cart products: %w", err)
	}
	byID := make(map[int64]*domain.Product, len(raws))
	for _, p := range NormalizeCatalog(raws) {
		byID[p.ID] = &p
	}

	lines := make([]domain.CartLine, 0, len(items))
	for _, it := range items {
		p := byID[it.ProductID]
		line := domain.CartLine{Product: p, Quantity: it.Quantity}
		if p != nil {
			line.Variant = p.VariantByID(it.VariantID)
		} else {
			s.log.Debug().Int64("product_id", it.ProductID).Msg("cart references unknown product")
		}
		lines = append(lines, line)
	}
	return lines, nil
}
