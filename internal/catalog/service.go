package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/frostmart/storefront-service/internal/kvstore"
	"github.com/frostmart/storefront-service/internal/metrics"
)

// OffersCategory is the synthetic category listing discounted products.
// Prepended to the upstream category list. ByCategory also accepts the
// plain "offers" alias so clients need not URL-encode the emoji.
const (
	OffersCategory = "🔥 Ofertas"
	offersAlias    = "offers"
)

// Fallback product ID range used for mention filtering when the
// catalog has not been loaded yet.
const (
	fallbackMinID = 1
	fallbackMaxID = 20
)

// cachedSnapshot is the persisted form of an enriched catalog.
type cachedSnapshot struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Products  []Product `json:"products"`
}

// Fetcher is the upstream catalog contract. Satisfied by *Client.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// Service loads, enriches, and caches the product catalog. The
// enriched snapshot is held in memory and mirrored to the key-value
// store with a freshness window; concurrent refreshes collapse into a
// single upstream fetch.
type Service struct {
	fetcher   Fetcher
	store     kvstore.Store
	discounts DiscountTable
	cacheTTL  time.Duration
	metrics   *metrics.Recorder
	logger    zerolog.Logger

	group singleflight.Group

	mu       sync.RWMutex
	snapshot []Product
	loadedAt time.Time
}

// NewService creates a catalog service.
func NewService(fetcher Fetcher, store kvstore.Store, discounts DiscountTable, cacheTTL time.Duration, rec *metrics.Recorder, logger zerolog.Logger) *Service {
	if len(discounts) == 0 {
		discounts = DefaultDiscountTable()
	}
	return &Service{
		fetcher:   fetcher,
		store:     store,
		discounts: discounts,
		cacheTTL:  cacheTTL,
		metrics:   rec,
		logger:    logger.With().Str("component", "catalog").Logger(),
	}
}

// Load returns the enriched catalog, serving from cache while it is
// fresh. forceRefresh bypasses both the in-memory and persisted cache.
func (s *Service) Load(ctx context.Context, forceRefresh bool) ([]Product, error) {
	if !forceRefresh {
		if products, ok := s.fromMemory(); ok {
			s.metrics.RecordCatalogCacheHit()
			return products, nil
		}
		if products, ok := s.fromStore(ctx); ok {
			s.metrics.RecordCatalogCacheHit()
			return products, nil
		}
	}

	// Collapse concurrent refreshes into one upstream fetch.
	result, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]Product), nil
}

// refresh fetches from upstream, applies discounts, and updates both
// cache layers.
func (s *Service) refresh(ctx context.Context) ([]Product, error) {
	start := time.Now()
	raw, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.metrics.RecordCatalogFetch(time.Since(start), false)
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	s.metrics.RecordCatalogFetch(time.Since(start), true)

	enriched := s.discounts.ApplyAll(raw)
	now := time.Now()

	s.mu.Lock()
	s.snapshot = enriched
	s.loadedAt = now
	s.mu.Unlock()

	s.persist(ctx, cachedSnapshot{FetchedAt: now, Products: enriched})

	s.logger.Info().
		Int("products", len(enriched)).
		Dur("duration", time.Since(start)).
		Msg("Catalog refreshed")

	return enriched, nil
}

func (s *Service) fromMemory() ([]Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil || time.Since(s.loadedAt) > s.cacheTTL {
		return nil, false
	}
	return s.snapshot, true
}

func (s *Service) fromStore(ctx context.Context) ([]Product, bool) {
	value, found, err := s.store.Get(ctx, kvstore.KeyCatalogCache)
	if err != nil || !found {
		return nil, false
	}

	var snap cachedSnapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable catalog cache")
		return nil, false
	}
	if time.Since(snap.FetchedAt) > s.cacheTTL {
		return nil, false
	}

	s.mu.Lock()
	s.snapshot = snap.Products
	s.loadedAt = snap.FetchedAt
	s.mu.Unlock()

	return snap.Products, true
}

// persist mirrors the snapshot to the key-value store. Best-effort:
// failures are logged, never surfaced.
func (s *Service) persist(ctx context.Context, snap cachedSnapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode catalog cache")
		return
	}
	if err := s.store.Set(ctx, kvstore.KeyCatalogCache, string(data)); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist catalog cache")
	}
}

// ClearCache drops both cache layers so the next Load hits upstream.
func (s *Service) ClearCache(ctx context.Context) {
	s.mu.Lock()
	s.snapshot = nil
	s.loadedAt = time.Time{}
	s.mu.Unlock()

	if err := s.store.Remove(ctx, kvstore.KeyCatalogCache); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to clear persisted catalog cache")
	}
}

// Categories returns the upstream category list with the synthetic
// offers category prepended.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	upstream, err := s.fetcher.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{OffersCategory}, upstream...), nil
}

// Discounted returns the discounted subset of the catalog.
func (s *Service) Discounted(ctx context.Context) ([]Product, error) {
	products, err := s.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, p := range products {
		if p.Discounted() {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByCategory returns the catalog filtered to one category. The
// synthetic offers category maps to the discounted subset.
func (s *Service) ByCategory(ctx context.Context, category string) ([]Product, error) {
	if category == OffersCategory || strings.EqualFold(category, offersAlias) {
		return s.Discounted(ctx)
	}
	products, err := s.Load(ctx, false)
	if err != nil {
		return nil, err
	}
	var out []Product
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// ByID returns a single enriched product, or found=false.
func (s *Service) ByID(ctx context.Context, id int) (Product, bool, error) {
	products, err := s.Load(ctx, false)
	if err != nil {
		return Product{}, false, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, true, nil
		}
	}
	return Product{}, false, nil
}

// IDRange returns the min and max product IDs in the loaded catalog.
// Falls back to 1-20 when no catalog has been loaded, matching the
// upstream demo catalog's ID space.
func (s *Service) IDRange() (min, max int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshot) == 0 {
		return fallbackMinID, fallbackMaxID
	}
	min, max = s.snapshot[0].ID, s.snapshot[0].ID
	for _, p := range s.snapshot[1:] {
		if p.ID < min {
			min = p.ID
		}
		if p.ID > max {
			max = p.ID
		}
	}
	return min, max
}
