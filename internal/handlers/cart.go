package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID int `json:"productId" binding:"required"`
	Quantity  int `json:"quantity"`
}

// SetQuantityRequest represents the quantity update payload
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the current cart snapshot.
// GET /api/v1/cart
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.Cart.Get())
}

// AddCartItem adds a product to the cart, merging duplicates.
// POST /api/v1/cart/items
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	product, found, err := h.Catalog.ByID(ctx, req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	h.Cart.Add(ctx, product, req.Quantity)
	c.JSON(http.StatusOK, h.Cart.Get())
}

// SetCartItemQuantity overwrites a line's quantity; zero removes it.
// PUT /api/v1/cart/items/:id
func (h *Handlers) SetCartItemQuantity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
		return
	}

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.Cart.SetQuantity(c.Request.Context(), id, req.Quantity)
	c.JSON(http.StatusOK, h.Cart.Get())
}

// RemoveCartItem deletes a line. Unknown IDs are a no-op.
// DELETE /api/v1/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
		return
	}

	h.Cart.Remove(c.Request.Context(), id)
	c.JSON(http.StatusOK, h.Cart.Get())
}

// ClearCart empties the cart.
// DELETE /api/v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	h.Cart.Clear(c.Request.Context())
	c.JSON(http.StatusOK, h.Cart.Get())
}
