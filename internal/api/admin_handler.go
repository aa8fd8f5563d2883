package api

import (
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AdminHandler handles moderation, user administration and site settings
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.services.Admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListArticles handles GET /v1/admin/articles?status=&page=&limit=
func (h *AdminHandler) ListArticles(c *gin.Context) {
	page, err := h.services.Admin.ListArticles(c.Request.Context(),
		models.ArticleStatus(c.Query("status")), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Approve handles POST /v1/admin/articles/:id/approve. The body is
// optional; a future scheduledAt schedules the article instead.
func (h *AdminHandler) Approve(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ScheduledAt *time.Time `json:"scheduledAt"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	article, err := h.services.Admin.Approve(c.Request.Context(), currentUser(c), id, req.ScheduledAt)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Reject handles POST /v1/admin/articles/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
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
	article, err := h.services.Admin.Reject(c.Request.Context(), currentUser(c), id, req.Reason)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListUsers handles GET /v1/admin/users?page=&limit=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.services.Admin.ListUsers(c.Request.Context(), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// SetBanned handles PATCH /v1/admin/users/:id/ban with {"banned": bool}
func (h *AdminHandler) SetBanned(c *gin.Context) {
	id, value, ok := h.flag(c, "banned")
	if !ok {
		return
	}
	user, err := h.services.Admin.SetBanned(c.Request.Context(), currentUser(c), id, value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// SetAdmin handles PATCH /v1/admin/users/:id/admin with {"admin": bool}
func (h *AdminHandler) SetAdmin(c *gin.Context) {
	id, value, ok := h.flag(c, "admin")
	if !ok {
		return
	}
	user, err := h.services.Admin.SetAdmin(c.Request.Context(), currentUser(c), id, value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// flag reads the user ID and the boolean body field named key
func (h *AdminHandler) flag(c *gin.Context, key string) (string, bool, bool) {
	id, ok := pathID(c, "id")
	if !ok {
		return "", false, false
	}
	var req map[string]*bool
	if !bindJSON(c, &req) {
		return "", false, false
	}
	value, present := req[key]
	if !present || value == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": key + " is required"})
		return "", false, false
	}
	return id, *value, true
}

// GetSiteConfig handles GET /v1/site-config
func (h *AdminHandler) GetSiteConfig(c *gin.Context) {
	cfg, err := h.services.Admin.SiteConfig(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// UpdateSiteConfig handles PUT /v1/admin/site-config
func (h *AdminHandler) UpdateSiteConfig(c *gin.Context) {
	var cfg models.SiteConfig
	if !bindJSON(c, &cfg) {
		return
	}
	saved, err := h.services.Admin.UpdateSiteConfig(c.Request.Context(), &cfg)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
