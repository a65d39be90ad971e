package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frostmart/storefront-service/internal/settings"
)

// SettingsResponse represents the persisted preferences
type SettingsResponse struct {
	Theme               string `json:"theme"`
	TranslationsEnabled bool   `json:"translationsEnabled"`
}

// UpdateSettingsRequest represents a partial preferences update
type UpdateSettingsRequest struct {
	Theme               *string `json:"theme"`
	TranslationsEnabled *bool   `json:"translationsEnabled"`
}

// GetSettings returns the shopper's preferences.
// GET /api/v1/settings
func (h *Handlers) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, SettingsResponse{
		Theme:               h.Settings.Theme(ctx),
		TranslationsEnabled: h.Settings.TranslationsEnabled(ctx),
	})
}

// UpdateSettings applies a partial preferences update.
// PUT /api/v1/settings
func (h *Handlers) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if req.Theme != nil {
		switch *req.Theme {
		case settings.ThemeLight, settings.ThemeDark, settings.ThemeSystem:
			h.Settings.SetTheme(ctx, *req.Theme)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be light, dark, or system"})
			return
		}
	}
	if req.TranslationsEnabled != nil {
		h.Settings.SetTranslationsEnabled(ctx, *req.TranslationsEnabled)
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Theme:               h.Settings.Theme(ctx),
		TranslationsEnabled: h.Settings.TranslationsEnabled(ctx),
	})
}
