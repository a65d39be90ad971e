package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountTableApply(t *testing.T) {
	table := DefaultDiscountTable()

	tests := []struct {
		name          string
		product       Product
		wantDiscount  int
		wantPrice     float64
		wantUnchanged bool
	}{
		{
			name:         "discounted product",
			product:      Product{ID: 1, Price: 109.95},
			wantDiscount: 35,
			wantPrice:    71.47,
		},
		{
			name:         "half off",
			product:      Product{ID: 18, Price: 9.85},
			wantDiscount: 50,
			wantPrice:    4.93,
		},
		{
			name:          "product outside table passes through",
			product:       Product{ID: 2, Price: 22.3},
			wantUnchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.Apply(tt.product)

			if tt.wantUnchanged {
				assert.Equal(t, tt.product, got)
				return
			}

			assert.Equal(t, tt.wantDiscount, got.DiscountPercent)
			assert.Equal(t, tt.product.Price, got.OriginalPrice)
			assert.InDelta(t, tt.wantPrice, got.Price, 0.001)
		})
	}
}

func TestDiscountInvariant(t *testing.T) {
	table := DefaultDiscountTable()
	products := []Product{
		{ID: 1, Price: 109.95},
		{ID: 3, Price: 55.99},
		{ID: 5, Price: 695},
		{ID: 7, Price: 9.99},
		{ID: 9, Price: 64},
		{ID: 11, Price: 109},
		{ID: 15, Price: 56.99},
		{ID: 18, Price: 9.85},
		{ID: 2, Price: 22.3},
	}

	for _, p := range table.ApplyAll(products) {
		if !p.Discounted() {
			continue
		}
		expected := math.Round(p.OriginalPrice*(1-float64(p.DiscountPercent)/100)*100) / 100
		assert.Equal(t, expected, p.Price, "product %d price must match its discount", p.ID)
	}
}

func TestDiscountTableRejectsBadPercentages(t *testing.T) {
	table := DiscountTable{1: 0, 2: -5, 3: 150}
	for _, p := range table.ApplyAll([]Product{{ID: 1, Price: 10}, {ID: 2, Price: 10}, {ID: 3, Price: 10}}) {
		assert.False(t, p.Discounted())
		assert.Equal(t, 10.0, p.Price)
	}
}
