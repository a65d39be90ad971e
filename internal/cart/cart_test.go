package cart

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/kvstore"
	"github.com/frostmart/storefront-service/internal/metrics"
)

func newTestCart() *Service {
	return NewService(context.Background(), kvstore.NewMemory(), nil, zerolog.Nop())
}

func TestAddMergesDuplicates(t *testing.T) {
	svc := newTestCart()
	p := catalog.Product{ID: 1, Title: "Backpack", Price: 10}

	svc.Add(context.Background(), p, 1)
	svc.Add(context.Background(), p, 1)

	snap := svc.Get()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, 20.0, snap.Total)
	assert.Equal(t, 2, snap.ItemCount)
}

func TestTotalsAreProjections(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 2)
	svc.Add(context.Background(), catalog.Product{ID: 2, Price: 5}, 1)

	snap := svc.Get()
	assert.Equal(t, 25.0, snap.Total)
	assert.Equal(t, 3, snap.ItemCount)

	svc.Remove(context.Background(), 1)
	snap = svc.Get()
	assert.Equal(t, 5.0, snap.Total)
	assert.Equal(t, 1, snap.ItemCount)
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 1)

	svc.Remove(context.Background(), 42)

	snap := svc.Get()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, 10.0, snap.Total)
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 3)

	svc.SetQuantity(context.Background(), 1, 0)

	assert.False(t, svc.Contains(1))
	assert.Empty(t, svc.Get().Items)
}

func TestSetQuantityOverwrites(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 3)

	svc.SetQuantity(context.Background(), 1, 7)
	assert.Equal(t, 7, svc.QuantityOf(1))

	// Unknown ID is a no-op.
	svc.SetQuantity(context.Background(), 9, 5)
	assert.Equal(t, 0, svc.QuantityOf(9))
}

func TestClear(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 2)

	svc.Clear(context.Background())

	snap := svc.Get()
	assert.Empty(t, snap.Items)
	assert.Zero(t, snap.Total)
	assert.Zero(t, snap.ItemCount)
}

func TestAddSnapshotsPriceAtAddTime(t *testing.T) {
	svc := newTestCart()
	svc.Add(context.Background(), catalog.Product{ID: 1, Title: "Backpack", Price: 71.47}, 1)

	snap := svc.Get()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 71.47, snap.Items[0].Price)
	assert.Equal(t, "Backpack", snap.Items[0].Title)
}

// cartSizeSamples reads the observation count of the cart line-count
// histogram from the default registry.
func cartSizeSamples(t *testing.T) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "storefront_cart_lines_count" {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	return 0
}

func TestEveryMutationRecordsCartSize(t *testing.T) {
	svc := NewService(context.Background(), kvstore.NewMemory(), metrics.NewRecorder(), zerolog.Nop())
	ctx := context.Background()

	before := cartSizeSamples(t)

	svc.Add(ctx, catalog.Product{ID: 1, Price: 10}, 1)
	svc.SetQuantity(ctx, 1, 4)
	svc.Remove(ctx, 1)
	svc.Clear(ctx)

	assert.Equal(t, before+4, cartSizeSamples(t))
}

func TestCartSurvivesRestart(t *testing.T) {
	store := kvstore.NewMemory()

	first := NewService(context.Background(), store, nil, zerolog.Nop())
	first.Add(context.Background(), catalog.Product{ID: 1, Price: 10}, 2)

	second := NewService(context.Background(), store, nil, zerolog.Nop())
	snap := second.Get()
	assert.Equal(t, 20.0, snap.Total)
	assert.Equal(t, 2, snap.ItemCount)
}
