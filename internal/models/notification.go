package models

import (
	"time"
)

// NotificationType identifies what triggered a notification
type NotificationType string

const (
	NotificationLike         NotificationType = "like"
	NotificationComment      NotificationType = "comment"
	NotificationReply        NotificationType = "reply"
	NotificationFollow       NotificationType = "follow"
	NotificationBlogApproved NotificationType = "blog_approved"
	NotificationBlogRejected NotificationType = "blog_rejected"
	NotificationBlogPending  NotificationType = "blog_pending"
)

// Notification is a message addressed to a single recipient
type Notification struct {
	ID            string           `json:"id" db:"id"`
	RecipientID   string           `json:"recipientId" db:"recipient_id"`
	ActorID       *string          `json:"actorId,omitempty" db:"actor_id"`
	Type          NotificationType `json:"type" db:"type"`
	Message       string           `json:"message" db:"message"`
	ArticleID     *string          `json:"articleId,omitempty" db:"article_id"`
	RelatedUserID *string          `json:"relatedUserId,omitempty" db:"related_user_id"`
	Read          bool             `json:"read" db:"read"`
	CreatedAt     time.Time        `json:"createdAt" db:"created_at"`
}
