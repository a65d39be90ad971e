package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/frostmart/storefront-service/internal/export"
)

// ClearCaches drops the catalog and translation caches.
// POST /api/v1/admin/cache/clear
func (h *Handlers) ClearCaches(c *gin.Context) {
	ctx := c.Request.Context()
	h.Catalog.ClearCache(ctx)
	h.Translation.ClearCache(ctx)
	c.JSON(http.StatusOK, gin.H{"status": "caches cleared"})
}

// ExportCatalog streams the enriched catalog as an Excel workbook.
// GET /api/v1/admin/export
func (h *Handlers) ExportCatalog(c *gin.Context) {
	products, err := h.Catalog.Load(c.Request.Context(), false)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Catalog is unavailable, try again"})
		return
	}

	workbook, err := export.Workbook(products)
	if err != nil {
		h.Logger.Error().Err(err).Msg("Catalog export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Export failed"})
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("catalog-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		h.Logger.Error().Err(err).Msg("Failed to stream workbook")
	}
}
