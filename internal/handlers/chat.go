package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatRequest represents one user turn
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendChatMessage runs one assistant turn. Failures still return 200
// with a canned reply; the shopper never sees a raw error.
// POST /api/v1/chat
func (h *Handlers) SendChatMessage(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.Assistant.Send(c.Request.Context(), req.Message)
	c.JSON(http.StatusOK, reply)
}

// GetChatHistory returns the in-memory conversation.
// GET /api/v1/chat/history
func (h *Handlers) GetChatHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"messages": h.Assistant.History()})
}

// ClearChatHistory discards the conversation.
// DELETE /api/v1/chat/history
func (h *Handlers) ClearChatHistory(c *gin.Context) {
	h.Assistant.Clear()
	c.JSON(http.StatusOK, gin.H{"messages": []any{}})
}
