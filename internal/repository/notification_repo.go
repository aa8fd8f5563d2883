package repository

import (
	"context"
	"database/sql"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

type notificationRepo struct {
	db *database.DB
}

// NewNotificationRepo creates a new notification repository
func NewNotificationRepo(db *database.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (id, recipient_id, actor_id, type, message, article_id,
			related_user_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.ActorID, n.Type, n.Message, n.ArticleID,
		n.RelatedUserID, n.Read, n.CreatedAt,
	)
	return err
}

// ListByRecipient returns the newest notifications for a user
func (r *notificationRepo) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, recipient_id, actor_id, type, message, article_id, related_user_id, read, created_at
		FROM notifications WHERE recipient_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, recipientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]*models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		var actorID, articleID, relatedUserID sql.NullString
		if err := rows.Scan(&n.ID, &n.RecipientID, &actorID, &n.Type, &n.Message,
			&articleID, &relatedUserID, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if actorID.Valid {
			n.ActorID = &actorID.String
		}
		if articleID.Valid {
			n.ArticleID = &articleID.String
		}
		if relatedUserID.Valid {
			n.RelatedUserID = &relatedUserID.String
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND NOT read`, recipientID).Scan(&count)
	return count, err
}

// MarkRead marks one notification read; false means it does not exist for this recipient
func (r *notificationRepo) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND NOT read`, recipientID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (r *notificationRepo) Delete(ctx context.Context, id, recipientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return false, err
	}
	return affected(res)
}
