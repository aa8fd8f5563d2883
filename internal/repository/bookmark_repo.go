package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

type bookmarkRepo struct {
	db *database.DB
}

// NewBookmarkRepo creates a new bookmark repository
func NewBookmarkRepo(db *database.DB) BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) Add(ctx context.Context, userID, articleID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, article_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, userID, articleID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *bookmarkRepo) Remove(ctx context.Context, userID, articleID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND article_id = $2`, userID, articleID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *bookmarkRepo) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND article_id = $2)`,
		userID, articleID).Scan(&exists)
	return exists, err
}

// ListArticles returns the user's bookmarked articles, most recently bookmarked first
func (r *bookmarkRepo) ListArticles(ctx context.Context, userID string) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, articleSelect+`
		JOIN bookmarks b ON b.article_id = a.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}
