package api

import (
	"io"
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const streamKeepAlive = 25 * time.Second

// NotificationHandler handles the notification inbox and its live stream
type NotificationHandler struct {
	services *service.Services
	bus      realtime.Bus
	log      zerolog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(services *service.Services, bus realtime.Bus, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		services: services,
		bus:      bus,
		log:      log.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /v1/notifications?limit=
func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.services.Notification.List(c.Request.Context(), currentUser(c), queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount handles GET /v1/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.services.Notification.UnreadCount(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead handles PATCH /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Notification.MarkRead(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// MarkAllRead handles PATCH /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.services.Notification.MarkAllRead(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete handles DELETE /v1/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Notification.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}

// Stream handles GET /v1/notifications/stream as server-sent events.
// Each new notification for the signed-in user is sent as a
// "notification" event; a "ping" comment keeps proxies from idling out.
func (h *NotificationHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	events, unsubscribe, err := h.bus.Subscribe(ctx, user.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	h.log.Debug().Str("user_id", user.ID).Msg("Notification stream opened")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent("notification", event.Notification)
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		}
	})

	h.log.Debug().Str("user_id", user.ID).Msg("Notification stream closed")
}
