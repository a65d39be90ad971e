package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/frostmart/storefront-service/internal/catalog"
)

// ListProductsRequest represents query parameters for listing products
type ListProductsRequest struct {
	Category string `form:"category"`
	Limit    int    `form:"limit" binding:"min=0,max=500"`
	Refresh  bool   `form:"refresh"`
}

// ListProductsResponse represents the product listing response
type ListProductsResponse struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
}

// ListProducts returns the enriched catalog, optionally filtered and
// translated.
// GET /api/v1/products?category=...&limit=...&refresh=true
func (h *Handlers) ListProducts(c *gin.Context) {
	var req ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	var products []catalog.Product
	var err error
	switch {
	case req.Category != "":
		products, err = h.Catalog.ByCategory(ctx, req.Category)
	default:
		products, err = h.Catalog.Load(ctx, req.Refresh)
	}
	if err != nil {
		h.Logger.Error().Err(err).Msg("Failed to load catalog")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}

	if req.Limit > 0 && req.Limit < len(products) {
		products = products[:req.Limit]
	}

	products = h.Translation.TranslateProducts(ctx, products, h.Settings.TranslationsEnabled(ctx))

	c.JSON(http.StatusOK, ListProductsResponse{Products: products, Total: len(products)})
}

// GetProduct returns one enriched product.
// GET /api/v1/products/:id
func (h *Handlers) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
		return
	}

	ctx := c.Request.Context()
	product, found, err := h.Catalog.ByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	translated := h.Translation.TranslateProducts(ctx, []catalog.Product{product}, h.Settings.TranslationsEnabled(ctx))
	c.JSON(http.StatusOK, translated[0])
}

// ListCategories returns the category names, offers first.
// GET /api/v1/products/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.Catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListRecommendations suggests products based on the cart contents.
// GET /api/v1/products/recommendations
func (h *Handlers) ListRecommendations(c *gin.Context) {
	snap := h.Cart.Get()
	cartIDs := make([]int, 0, len(snap.Items))
	for _, line := range snap.Items {
		cartIDs = append(cartIDs, line.ProductID)
	}

	recs, err := h.Assistant.Recommend(c.Request.Context(), cartIDs)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": recs})
}
