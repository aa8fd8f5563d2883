package service

import (
	"context"
	"time"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notice describes one notification to dispatch
type Notice struct {
	RecipientID   string
	Type          models.NotificationType
	Message       string
	ArticleID     string
	RelatedUserID string
}

const defaultNotificationLimit = 50

// notificationService is the concrete implementation of NotificationService
type notificationService struct {
	repo repository.NotificationRepository
	bus  realtime.Publisher
	now  func() time.Time
	log  zerolog.Logger
}

func newNotificationService(repo repository.NotificationRepository, bus realtime.Publisher, now func() time.Time, log zerolog.Logger) *notificationService {
	return &notificationService{
		repo: repo,
		bus:  bus,
		now:  now,
		log:  log.With().Str("service", "notification").Logger(),
	}
}

// Notify stores the notice and pushes it to the recipient's live sessions.
// actorID is "" for system actions.
func (s *notificationService) Notify(ctx context.Context, actorID string, notice Notice) {
	if notice.RecipientID == "" || notice.RecipientID == actorID {
		return
	}

	n := &models.Notification{
		ID:            uuid.New().String(),
		RecipientID:   notice.RecipientID,
		ActorID:       optional(actorID),
		Type:          notice.Type,
		Message:       notice.Message,
		ArticleID:     optional(notice.ArticleID),
		RelatedUserID: optional(notice.RelatedUserID),
		CreatedAt:     s.now(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error().Err(err).
			Str("recipient_id", n.RecipientID).
			Str("type", string(n.Type)).
			Msg("Failed to store notification")
		return
	}

	if s.bus != nil {
		s.bus.Publish(ctx, realtime.Event{UserID: n.RecipientID, Notification: n})
	}
}

func (s *notificationService) List(ctx context.Context, recipient *models.User, limit int) ([]*models.Notification, error) {
	if limit < 1 || limit > defaultNotificationLimit {
		limit = defaultNotificationLimit
	}
	return s.repo.ListByRecipient(ctx, recipient.ID, limit)
}

func (s *notificationService) UnreadCount(ctx context.Context, recipient *models.User) (int, error) {
	return s.repo.CountUnread(ctx, recipient.ID)
}

// MarkRead marks one of the recipient's notifications as read
func (s *notificationService) MarkRead(ctx context.Context, recipient *models.User, id string) error {
	ok, err := s.repo.MarkRead(ctx, id, recipient.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipient *models.User) (int, error) {
	return s.repo.MarkAllRead(ctx, recipient.ID)
}

func (s *notificationService) Delete(ctx context.Context, recipient *models.User, id string) error {
	ok, err := s.repo.Delete(ctx, id, recipient.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
