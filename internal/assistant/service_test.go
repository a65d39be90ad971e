package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/intent"
	"github.com/frostmart/storefront-service/internal/kvstore"
)

// mockProvider returns scripted replies.
type mockProvider struct {
	enabled bool
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (m *mockProvider) Enabled() bool        { return m.enabled }
func (m *mockProvider) ModelVersion() string { return "mock" }

func (m *mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.delay):
		}
	}
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

type fixedFetcher struct {
	products []catalog.Product
}

func (f *fixedFetcher) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	return f.products, nil
}

func (f *fixedFetcher) FetchCategories(ctx context.Context) ([]string, error) {
	return []string{"electronics"}, nil
}

func newTestAssistant(provider Provider) *Service {
	cat := catalog.NewService(
		&fixedFetcher{products: []catalog.Product{
			{ID: 1, Title: "Backpack", Price: 109.95},
			{ID: 2, Title: "Shirt", Price: 22.3},
			{ID: 3, Title: "Jacket", Price: 55.99},
		}},
		kvstore.NewMemory(), nil, 30*time.Minute, nil, zerolog.Nop())
	resolver := intent.NewResolver(intent.DefaultLexicon())
	return NewService(provider, cat, resolver, time.Second, 10, 20, nil, zerolog.Nop())
}

func TestSendAttachesPurchaseIntent(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "Te recomiendo la mochila (ID: 1) y la chaqueta (ID: 3)."}
	svc := newTestAssistant(provider)

	reply := svc.Send(context.Background(), "quiero comprar el primero")

	require.NotNil(t, reply.Intent)
	assert.True(t, reply.Intent.Detected)
	assert.Equal(t, []int{1}, reply.Intent.ProductIDs)
	assert.Equal(t, provider.reply, reply.Message.Text)
}

func TestSendWithoutBuyKeywordHasNoIntent(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "La mochila (ID: 1) cuesta 71.47."}
	svc := newTestAssistant(provider)

	reply := svc.Send(context.Background(), "cuéntame más sobre la mochila")

	assert.Nil(t, reply.Intent)
}

func TestSendDisabledShortCircuits(t *testing.T) {
	provider := &mockProvider{enabled: false}
	svc := newTestAssistant(provider)

	reply := svc.Send(context.Background(), "hola")

	assert.Equal(t, disabledReply, reply.Message.Text)
	assert.Nil(t, reply.Intent)
	assert.Empty(t, provider.prompts, "disabled provider must not be called")
}

func TestSendFailureReturnsCannedReply(t *testing.T) {
	provider := &mockProvider{enabled: true, err: errors.New("model exploded")}
	svc := newTestAssistant(provider)

	reply := svc.Send(context.Background(), "quiero comprar algo")

	assert.Equal(t, failureReply, reply.Message.Text)
	assert.Nil(t, reply.Intent, "failures must never carry purchase intent")
}

func TestSendTimeoutReturnsCannedReply(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "ok", delay: 5 * time.Second}
	svc := newTestAssistant(provider)
	svc.timeout = 50 * time.Millisecond

	reply := svc.Send(context.Background(), "quiero comprar algo")

	assert.Equal(t, failureReply, reply.Message.Text)
	assert.Nil(t, reply.Intent)
}

func TestHistoryAndClear(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "Hola, ¿en qué te ayudo?"}
	svc := newTestAssistant(provider)

	svc.Send(context.Background(), "hola")

	history := svc.History()
	require.Len(t, history, 2)
	assert.True(t, history[0].IsUser)
	assert.False(t, history[1].IsUser)
	assert.NotEqual(t, history[0].ID, history[1].ID)

	svc.Clear()
	assert.Empty(t, svc.History())
}

func TestPromptCarriesCatalogAndHistory(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "claro"}
	svc := newTestAssistant(provider)

	svc.Send(context.Background(), "hola")
	svc.Send(context.Background(), "busco una mochila")

	require.Len(t, provider.prompts, 2)
	last := provider.prompts[1]
	assert.Contains(t, last, "ID: 1 | Backpack")
	assert.Contains(t, last, "Cliente: hola")
	assert.Contains(t, last, "Cliente: busco una mochila")
}

func TestRecommendParsesModelReply(t *testing.T) {
	provider := &mockProvider{enabled: true, reply: "2, 3, 1"}
	svc := newTestAssistant(provider)

	recs, err := svc.Recommend(context.Background(), []int{1})
	require.NoError(t, err)

	require.Len(t, recs, 2, "cart items must be excluded")
	assert.Equal(t, 2, recs[0].ID)
	assert.Equal(t, 3, recs[1].ID)
}

func TestRecommendFallsBackToDiscounts(t *testing.T) {
	provider := &mockProvider{enabled: true, err: errors.New("down")}
	svc := newTestAssistant(provider)

	recs, err := svc.Recommend(context.Background(), nil)
	require.NoError(t, err)

	// Products 1 and 3 carry built-in discounts.
	require.Len(t, recs, 2)
	assert.True(t, recs[0].Discounted())
	assert.True(t, recs[1].Discounted())
}

func TestBuildPromptBoundsExcerptAndHistory(t *testing.T) {
	products := make([]catalog.Product, 30)
	for i := range products {
		products[i] = catalog.Product{ID: i + 1, Title: "P", Price: 1}
	}
	history := make([]Message, 15)
	for i := range history {
		history[i] = Message{Text: "turn", IsUser: i%2 == 0}
	}

	prompt := BuildPrompt(products, history, "hola", 20, 10)

	assert.Contains(t, prompt, "ID: 20 |")
	assert.NotContains(t, prompt, "ID: 21 |")
	assert.Equal(t, 10, strings.Count(prompt, "turn"))
}
