package api

import (
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/admin/exports?resource=...&format=...
// Streams the export directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	resource := c.Query("resource")
	format := c.DefaultQuery("format", "ndjson")

	err := h.services.Export.Stream(c.Request.Context(), c.Writer, resource, format)
	if err == nil {
		return
	}
	if !c.Writer.Written() {
		respondError(c, h.log, err)
		return
	}
	// Can't return error JSON after streaming has started
	h.log.Error().Err(err).Str("resource", resource).Msg("Export failed mid-stream")
}
