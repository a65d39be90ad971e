package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []int
	}{
		{
			name:  "explicit ID markers",
			reply: "Te recomiendo la mochila (ID: 1) y la camiseta (ID: 2).",
			want:  []int{1, 2},
		},
		{
			name:  "producto phrase",
			reply: "El producto 5 es una ganga, y el producto 12 también.",
			want:  []int{5, 12},
		},
		{
			name:  "mixed forms deduplicated in first-occurrence order",
			reply: "Mira el producto 7 (ID: 3). El producto 7 tiene descuento.",
			want:  []int{7, 3},
		},
		{
			name:  "out-of-range numbers rejected",
			reply: "El producto 999 no existe, pero el producto 4 sí.",
			want:  []int{4},
		},
		{
			name:  "prices are not mentions",
			reply: "La mochila cuesta $109.95 con un 35% de descuento.",
			want:  nil,
		},
		{
			name:  "empty reply",
			reply: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMentions(tt.reply, 1, 20))
		})
	}
}

func TestResolve(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	tests := []struct {
		name      string
		message   string
		mentioned []int
		want      Intent
	}{
		{
			name:      "ordinal selects by position",
			message:   "quiero comprar el segundo",
			mentioned: []int{5, 12, 18},
			want:      Intent{Detected: true, ProductIDs: []int{12}},
		},
		{
			name:      "last ordinal",
			message:   "agrega el último al carrito",
			mentioned: []int{5, 12, 18},
			want:      Intent{Detected: true, ProductIDs: []int{18}},
		},
		{
			name:      "no buy keyword",
			message:   "cuéntame más sobre el producto 5",
			mentioned: []int{5, 12},
			want:      Intent{Detected: false, ProductIDs: []int{}},
		},
		{
			name:      "demonstrative picks last mention",
			message:   "lo quiero",
			mentioned: []int{3, 7},
			want:      Intent{Detected: true, ProductIDs: []int{7}},
		},
		{
			name:      "explicit numeric reference",
			message:   "quiero el producto 7",
			mentioned: []int{3, 7},
			want:      Intent{Detected: true, ProductIDs: []int{7}},
		},
		{
			name:      "explicit number not mentioned falls back to first",
			message:   "quiero el producto 9",
			mentioned: []int{3, 7},
			want:      Intent{Detected: true, ProductIDs: []int{3}},
		},
		{
			name:      "fallback to first mention",
			message:   "quiero comprarlo ya, añádelo",
			mentioned: []int{14},
			want:      Intent{Detected: true, ProductIDs: []int{14}},
		},
		{
			name:      "intent without resolvable target",
			message:   "quiero comprar algo bonito",
			mentioned: nil,
			want:      Intent{Detected: true, ProductIDs: []int{}},
		},
		{
			name:      "out-of-bounds ordinal falls through",
			message:   "compra el cuarto",
			mentioned: []int{3, 7},
			want:      Intent{Detected: true, ProductIDs: []int{3}},
		},
		{
			name:      "english phrasing",
			message:   "I want to buy the second one",
			mentioned: []int{2, 8, 11},
			want:      Intent{Detected: true, ProductIDs: []int{8}},
		},
		{
			name:      "english demonstrative",
			message:   "add that to my cart",
			mentioned: []int{4, 9},
			want:      Intent{Detected: true, ProductIDs: []int{9}},
		},
		{
			name:      "diacritics do not matter",
			message:   "anade el ultimo",
			mentioned: []int{1, 2, 3},
			want:      Intent{Detected: true, ProductIDs: []int{3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.message, tt.mentioned))
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver(DefaultLexicon())

	first := r.Resolve("quiero comprar el segundo", []int{5, 12, 18})
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, r.Resolve("quiero comprar el segundo", []int{5, 12, 18}))
	}
}

func TestNormalizeFoldsDiacritics(t *testing.T) {
	assert.Equal(t, "anadelo al carrito", normalize("Añádelo al carrito"))
	assert.Equal(t, "ultimo", normalize("ÚLTIMO"))
}
