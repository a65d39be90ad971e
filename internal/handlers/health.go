package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// HealthCheck handles the health check endpoint
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}

	if h.Status != nil {
		if err := h.Status.Status(c.Request.Context()); err != nil {
			response.Store = "disconnected"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
		response.Store = "connected"
	} else {
		response.Store = "local"
	}

	c.JSON(http.StatusOK, response)
}
