// Package catalog fetches products from the upstream catalog API and
// enriches them with the storefront's discount table.
package catalog

// Rating is the aggregate review score a catalog product carries.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog entry. Price is the current (possibly
// discounted) price; OriginalPrice and DiscountPercent are present
// only on discounted products.
type Product struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`

	DiscountPercent int     `json:"discount,omitempty"`
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
}

// Discounted reports whether the product carries a discount.
func (p Product) Discounted() bool {
	return p.DiscountPercent > 0
}
