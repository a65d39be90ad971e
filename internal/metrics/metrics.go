// Package metrics records storefront service metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// catalogCacheHits tracks catalog loads served from the cached snapshot.
	catalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_hits_total",
		Help: "Total number of catalog loads served from cache",
	})

	// catalogCacheMisses tracks catalog loads that hit the upstream API.
	catalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_misses_total",
		Help: "Total number of catalog loads that fetched from the catalog API",
	})

	// catalogFetchDuration tracks upstream catalog fetch latency.
	catalogFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_catalog_fetch_duration_seconds",
		Help:    "Time taken to fetch and enrich the catalog",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	})

	// catalogFetchErrors tracks catalog fetch failures.
	catalogFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_fetch_errors_total",
		Help: "Total number of catalog fetch failures",
	})

	// translations tracks translation calls by result.
	translations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_translations_total",
		Help: "Total number of product translations by result",
	}, []string{"result"}) // result: cached, translated, fallback

	// chatTurns tracks assistant turns by outcome.
	chatTurns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_chat_turns_total",
		Help: "Total number of assistant chat turns by outcome",
	}, []string{"outcome"}) // outcome: success, timeout, error, disabled

	// chatDuration tracks assistant turn latency.
	chatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_chat_turn_duration_seconds",
		Help:    "Time taken to complete an assistant chat turn",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 15, 30},
	})

	// purchaseIntents tracks resolver verdicts on assistant turns.
	purchaseIntents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_purchase_intents_total",
		Help: "Total number of resolved purchase intents by kind",
	}, []string{"kind"}) // kind: resolved, unresolved, none

	// cartItems tracks the distribution of cart line counts on mutation.
	cartItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_cart_lines_count",
		Help:    "Number of lines in the cart after a mutation",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})
)

// Recorder provides methods to record storefront metrics.
// A nil Recorder is safe to use and records nothing.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordCatalogCacheHit records a catalog load served from cache.
func (m *Recorder) RecordCatalogCacheHit() {
	if m == nil {
		return
	}
	catalogCacheHits.Inc()
}

// RecordCatalogFetch records an upstream catalog fetch.
func (m *Recorder) RecordCatalogFetch(duration time.Duration, success bool) {
	if m == nil {
		return
	}
	catalogCacheMisses.Inc()
	catalogFetchDuration.Observe(duration.Seconds())
	if !success {
		catalogFetchErrors.Inc()
	}
}

// RecordTranslation records a single product translation by result.
func (m *Recorder) RecordTranslation(result string) {
	if m == nil {
		return
	}
	translations.WithLabelValues(result).Inc()
}

// RecordChatTurn records an assistant turn.
func (m *Recorder) RecordChatTurn(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	chatTurns.WithLabelValues(outcome).Inc()
	chatDuration.Observe(duration.Seconds())
}

// RecordPurchaseIntent records a resolver verdict.
func (m *Recorder) RecordPurchaseIntent(kind string) {
	if m == nil {
		return
	}
	purchaseIntents.WithLabelValues(kind).Inc()
}

// RecordCartSize records the cart line count after a mutation.
func (m *Recorder) RecordCartSize(lines int) {
	if m == nil {
		return
	}
	cartItems.Observe(float64(lines))
}
