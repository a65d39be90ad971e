package translation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/metrics"
)

// Service translates product text serially, consulting the cache
// before any network call. Calls are deliberately spaced by a fixed
// delay to stay within the free endpoint's limits.
type Service struct {
	translator Translator
	cache      *Cache
	limiter    *rate.Limiter
	sourceLang string
	targetLang string
	metrics    *metrics.Recorder
	logger     zerolog.Logger
}

// NewService creates a translation service. callDelay is the minimum
// spacing between upstream calls.
func NewService(translator Translator, cache *Cache, callDelay time.Duration, sourceLang, targetLang string, rec *metrics.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		translator: translator,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Every(callDelay), 1),
		sourceLang: sourceLang,
		targetLang: targetLang,
		metrics:    rec,
		logger:     logger.With().Str("component", "translation").Logger(),
	}
}

// TranslateProducts rewrites title/description of every product when
// enabled. A single product's failure falls back to its original text
// and does not abort the rest of the batch.
func (s *Service) TranslateProducts(ctx context.Context, products []catalog.Product, enabled bool) []catalog.Product {
	if !enabled {
		return products
	}

	out := make([]catalog.Product, len(products))
	for i, p := range products {
		out[i] = s.translateProduct(ctx, p)
	}
	return out
}

func (s *Service) translateProduct(ctx context.Context, p catalog.Product) catalog.Product {
	if entry, ok := s.cache.Get(ctx, p.ID); ok {
		s.metrics.RecordTranslation("cached")
		p.Title = entry.Title
		p.Description = entry.Description
		return p
	}

	title, err := s.translateText(ctx, p.Title)
	if err != nil {
		s.metrics.RecordTranslation("fallback")
		s.logger.Warn().Err(err).Int("product_id", p.ID).Msg("Translation failed, keeping original text")
		return p
	}

	description, err := s.translateText(ctx, p.Description)
	if err != nil {
		s.metrics.RecordTranslation("fallback")
		s.logger.Warn().Err(err).Int("product_id", p.ID).Msg("Translation failed, keeping original text")
		return p
	}

	s.cache.Put(ctx, p.ID, CacheEntry{
		Title:       title,
		Description: description,
		Timestamp:   time.Now(),
	})
	s.metrics.RecordTranslation("translated")

	p.Title = title
	p.Description = description
	return p
}

// translateText waits out the inter-call delay, then calls upstream.
func (s *Service) translateText(ctx context.Context, text string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return s.translator.Translate(ctx, text, s.sourceLang, s.targetLang)
}

// ClearCache drops every cached translation.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
}
