package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/kvstore"
)

// stubTranslator prefixes text deterministically and can fail on
// selected inputs.
type stubTranslator struct {
	failOn map[string]bool
	calls  int
}

func (s *stubTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	s.calls++
	if s.failOn[text] {
		return "", errors.New("endpoint unavailable")
	}
	return "es:" + text, nil
}

func newTestService(translator Translator, store kvstore.Store) *Service {
	cache := NewCache(store, zerolog.Nop())
	return NewService(translator, cache, time.Millisecond, "en", "es", nil, zerolog.Nop())
}

func TestTranslateProducts(t *testing.T) {
	translator := &stubTranslator{}
	svc := newTestService(translator, kvstore.NewMemory())

	products := []catalog.Product{
		{ID: 1, Title: "Backpack", Description: "A sturdy backpack"},
		{ID: 2, Title: "Shirt", Description: "A casual shirt"},
	}

	out := svc.TranslateProducts(context.Background(), products, true)
	require.Len(t, out, 2)
	assert.Equal(t, "es:Backpack", out[0].Title)
	assert.Equal(t, "es:A sturdy backpack", out[0].Description)
	assert.Equal(t, "es:Shirt", out[1].Title)
}

func TestTranslateDisabledReturnsOriginals(t *testing.T) {
	translator := &stubTranslator{}
	svc := newTestService(translator, kvstore.NewMemory())

	products := []catalog.Product{{ID: 1, Title: "Backpack", Description: "Sturdy"}}
	out := svc.TranslateProducts(context.Background(), products, false)

	assert.Equal(t, products, out)
	assert.Zero(t, translator.calls, "disabled translation must not call upstream")
}

func TestTranslateFallbackIsPerProduct(t *testing.T) {
	translator := &stubTranslator{failOn: map[string]bool{"Shirt": true}}
	svc := newTestService(translator, kvstore.NewMemory())

	products := []catalog.Product{
		{ID: 1, Title: "Backpack", Description: "Sturdy"},
		{ID: 2, Title: "Shirt", Description: "Casual"},
		{ID: 3, Title: "Ring", Description: "Shiny"},
	}

	out := svc.TranslateProducts(context.Background(), products, true)
	require.Len(t, out, 3)

	assert.Equal(t, "es:Backpack", out[0].Title)
	// Failed product keeps both original fields.
	assert.Equal(t, "Shirt", out[1].Title)
	assert.Equal(t, "Casual", out[1].Description)
	// The rest of the batch is unaffected.
	assert.Equal(t, "es:Ring", out[2].Title)
}

func TestTranslateUsesCache(t *testing.T) {
	translator := &stubTranslator{}
	store := kvstore.NewMemory()
	svc := newTestService(translator, store)

	products := []catalog.Product{{ID: 1, Title: "Backpack", Description: "Sturdy"}}

	svc.TranslateProducts(context.Background(), products, true)
	callsAfterFirst := translator.calls
	svc.TranslateProducts(context.Background(), products, true)

	assert.Equal(t, callsAfterFirst, translator.calls, "cached products must not call upstream")
}

func TestTranslateFailuresAreNotCached(t *testing.T) {
	translator := &stubTranslator{failOn: map[string]bool{"Backpack": true}}
	store := kvstore.NewMemory()
	svc := newTestService(translator, store)

	products := []catalog.Product{{ID: 1, Title: "Backpack", Description: "Sturdy"}}
	svc.TranslateProducts(context.Background(), products, true)

	// Endpoint recovers; the retry must reach upstream again.
	translator.failOn = nil
	out := svc.TranslateProducts(context.Background(), products, true)
	assert.Equal(t, "es:Backpack", out[0].Title)
}

func TestCacheVersionMismatchDiscardsWholesale(t *testing.T) {
	store := kvstore.NewMemory()
	require.NoError(t, store.Set(context.Background(), kvstore.KeyTranslationCache,
		`{"version":"v0","data":{"1":{"title":"stale","description":"stale"}}}`))

	cache := NewCache(store, zerolog.Nop())
	_, ok := cache.Get(context.Background(), 1)
	assert.False(t, ok, "entries from a stale format version must be discarded")
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", cleanText("  a \n b\t c "))
	assert.Equal(t, "", cleanText("   "))

	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, cleanText(string(long)), maxTextLength)
}
