package catalog

import "math"

// DiscountTable maps product IDs to discount percentages. Products
// not in the table pass through enrichment unchanged.
type DiscountTable map[int]int

// DefaultDiscountTable returns the built-in promotional discounts.
// Swappable via catalog.discounts in the config file.
func DefaultDiscountTable() DiscountTable {
	return DiscountTable{
		1:  35,
		3:  25,
		5:  40,
		7:  20,
		9:  45,
		11: 30,
		15: 15,
		18: 50,
	}
}

// Apply enriches a product with its table discount, if any. The
// discounted price is rounded to 2 decimal places. Total and
// deterministic: products outside the table are returned as-is.
func (t DiscountTable) Apply(p Product) Product {
	pct, ok := t[p.ID]
	if !ok || pct <= 0 || pct > 100 {
		return p
	}
	p.OriginalPrice = p.Price
	p.DiscountPercent = pct
	p.Price = round2(p.OriginalPrice * (1 - float64(pct)/100))
	return p
}

// ApplyAll enriches every product in the slice.
func (t DiscountTable) ApplyAll(products []Product) []Product {
	enriched := make([]Product, len(products))
	for i, p := range products {
		enriched[i] = t.Apply(p)
	}
	return enriched
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
