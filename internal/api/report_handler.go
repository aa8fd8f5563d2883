package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ReportHandler handles article reports
type ReportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

func NewReportHandler(services *service.Services, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		services: services,
		log:      log.With().Str("handler", "report").Logger(),
	}
}

// Create handles POST /v1/articles/:id/report
func (h *ReportHandler) Create(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if !bindJSON(c, &req) {
		return
	}
	report, err := h.services.Report.Create(c.Request.Context(), currentUser(c), id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// List handles GET /v1/admin/reports?status=
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.services.Report.List(c.Request.Context(), models.ReportStatus(c.Query("status")))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// UpdateStatus handles PATCH /v1/admin/reports/:id
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.ReportStatus `json:"status"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.services.Report.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report updated", "status": req.Status})
}

func (h *ReportHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Report.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}
