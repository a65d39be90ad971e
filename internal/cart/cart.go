// Package cart maintains the shopper's cart: product quantities plus
// derived totals, persisted to the key-value store on every mutation.
package cart

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/kvstore"
	"github.com/frostmart/storefront-service/internal/metrics"
)

// Line is one cart entry. Title, price, and image are snapshotted at
// add time so later catalog changes do not reprice the cart.
type Line struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Snapshot is the cart's persisted and API-facing form. Total and
// ItemCount are pure projections of the line list.
type Snapshot struct {
	Items     []Line  `json:"items"`
	Total     float64 `json:"total"`
	ItemCount int     `json:"itemCount"`
}

// Service owns the cart state. All mutations persist the full
// snapshot best-effort: storage failures are logged, never returned.
type Service struct {
	store   kvstore.Store
	metrics *metrics.Recorder
	logger  zerolog.Logger

	mu    sync.RWMutex
	lines []Line
}

// NewService creates a cart service, restoring any persisted snapshot.
func NewService(ctx context.Context, store kvstore.Store, rec *metrics.Recorder, logger zerolog.Logger) *Service {
	s := &Service{
		store:   store,
		metrics: rec,
		logger:  logger.With().Str("component", "cart").Logger(),
	}
	s.restore(ctx)
	return s
}

func (s *Service) restore(ctx context.Context) {
	value, found, err := s.store.Get(ctx, kvstore.KeyCart)
	if err != nil || !found {
		return
	}
	var snap Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		s.logger.Warn().Err(err).Msg("Discarding unreadable cart snapshot")
		return
	}
	s.lines = snap.Items
}

// Add merges quantity into an existing line or appends a new one
// snapshotting the product's current title/price/image. Always
// succeeds.
func (s *Service) Add(ctx context.Context, p catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			ProductID: p.ID,
			Title:     p.Title,
			Price:     p.Price,
			Image:     p.Image,
			Quantity:  quantity,
		})
	}
	lineCount := len(s.lines)
	s.mu.Unlock()

	s.metrics.RecordCartSize(lineCount)
	s.persist(ctx)
}

// Remove deletes the line if present. Unknown IDs are a no-op.
func (s *Service) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	lineCount := len(s.lines)
	s.mu.Unlock()

	s.metrics.RecordCartSize(lineCount)
	s.persist(ctx)
}

// SetQuantity overwrites a line's quantity. Zero or negative removes
// the line; unknown IDs are a no-op.
func (s *Service) SetQuantity(ctx context.Context, productID, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID)
		return
	}

	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			break
		}
	}
	lineCount := len(s.lines)
	s.mu.Unlock()

	s.metrics.RecordCartSize(lineCount)
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.metrics.RecordCartSize(0)
	s.persist(ctx)
}

// Contains reports whether a line for the product exists.
func (s *Service) Contains(productID int) bool {
	return s.QuantityOf(productID) > 0
}

// QuantityOf returns the line's quantity, 0 if absent.
func (s *Service) QuantityOf(productID int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, line := range s.lines {
		if line.ProductID == productID {
			return line.Quantity
		}
	}
	return 0
}

// Get returns the current snapshot with recomputed projections.
func (s *Service) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Line, len(s.lines))
	copy(items, s.lines)

	var total float64
	var count int
	for _, line := range items {
		total += line.Price * float64(line.Quantity)
		count += line.Quantity
	}

	return Snapshot{
		Items:     items,
		Total:     math.Round(total*100) / 100,
		ItemCount: count,
	}
}

// persist writes the snapshot to the key-value store. Cart mutation
// must not fail due to storage issues, so errors are only logged.
func (s *Service) persist(ctx context.Context) {
	snap := s.Get()
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode cart snapshot")
		return
	}
	if err := s.store.Set(ctx, kvstore.KeyCart, string(data)); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to persist cart snapshot")
	}
}
