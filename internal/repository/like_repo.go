package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
)

type likeRepo struct {
	db *database.DB
}

// NewLikeRepo creates a new like repository
func NewLikeRepo(db *database.DB) LikeRepository {
	return &likeRepo{db: db}
}

// Add records a like; false means the user had already liked the article
func (r *likeRepo) Add(ctx context.Context, articleID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO article_likes (article_id, user_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, articleID, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Remove deletes a like; false means there was none
func (r *likeRepo) Remove(ctx context.Context, articleID, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM article_likes WHERE article_id = $1 AND user_id = $2`, articleID, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *likeRepo) Exists(ctx context.Context, articleID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM article_likes WHERE article_id = $1 AND user_id = $2)`,
		articleID, userID).Scan(&exists)
	return exists, err
}

func (r *likeRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_likes WHERE article_id = $1`, articleID).Scan(&count)
	return count, err
}

// CountByUser returns how many likes the user has given in total
func (r *likeRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_likes WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
