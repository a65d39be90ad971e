package translation

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/kvstore"
)

// CacheVersion tags the persisted cache format. Entries from any
// other version are discarded wholesale, never migrated.
const CacheVersion = "v1"

// CacheEntry holds the translated text for one product.
type CacheEntry struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type cachePayload struct {
	Version string                `json:"version"`
	Data    map[string]CacheEntry `json:"data"`
}

// Cache is the persistent translation cache. Entries never expire by
// time; only a version bump or an explicit clear invalidates them.
type Cache struct {
	store  kvstore.Store
	logger zerolog.Logger
}

// NewCache creates a translation cache over the key-value store.
func NewCache(store kvstore.Store, logger zerolog.Logger) *Cache {
	return &Cache{
		store:  store,
		logger: logger.With().Str("component", "translation-cache").Logger(),
	}
}

// Get returns the cached entry for a product, if present.
func (c *Cache) Get(ctx context.Context, productID int) (CacheEntry, bool) {
	payload := c.load(ctx)
	entry, ok := payload.Data[strconv.Itoa(productID)]
	return entry, ok
}

// Put stores a translated entry. Best-effort: failures are logged.
func (c *Cache) Put(ctx context.Context, productID int, entry CacheEntry) {
	payload := c.load(ctx)
	payload.Data[strconv.Itoa(productID)] = entry
	c.save(ctx, payload)
}

// Clear drops every cached translation.
func (c *Cache) Clear(ctx context.Context) {
	if err := c.store.Remove(ctx, kvstore.KeyTranslationCache); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to clear translation cache")
	}
}

// load reads the payload, returning an empty one on any miss, decode
// failure, or version mismatch.
func (c *Cache) load(ctx context.Context) cachePayload {
	empty := cachePayload{Version: CacheVersion, Data: make(map[string]CacheEntry)}

	value, found, err := c.store.Get(ctx, kvstore.KeyTranslationCache)
	if err != nil || !found {
		return empty
	}

	var payload cachePayload
	if err := json.Unmarshal([]byte(value), &payload); err != nil {
		c.logger.Warn().Err(err).Msg("Discarding unreadable translation cache")
		return empty
	}
	if payload.Version != CacheVersion {
		c.logger.Info().
			Str("found", payload.Version).
			Str("expected", CacheVersion).
			Msg("Discarding translation cache with stale format version")
		return empty
	}
	if payload.Data == nil {
		payload.Data = make(map[string]CacheEntry)
	}
	return payload
}

func (c *Cache) save(ctx context.Context, payload cachePayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to encode translation cache")
		return
	}
	if err := c.store.Set(ctx, kvstore.KeyTranslationCache, string(data)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist translation cache")
	}
}
