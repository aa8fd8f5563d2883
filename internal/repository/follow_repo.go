package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

type followRepo struct {
	db *database.DB
}

// NewFollowRepo creates a new follow repository
func NewFollowRepo(db *database.DB) FollowRepository {
	return &followRepo{db: db}
}

// Add inserts a follow edge; false means it already existed
func (r *followRepo) Add(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Remove deletes a follow edge; false means there was none
func (r *followRepo) Remove(ctx context.Context, followerID, followeeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *followRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID).Scan(&exists)
	return exists, err
}

// Followers lists users following userID
func (r *followRepo) Followers(ctx context.Context, userID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1 ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

// Following lists users that userID follows
func (r *followRepo) Following(ctx context.Context, userID string) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM follows f JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1 ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *followRepo) Counts(ctx context.Context, userID string) (int, int, error) {
	var followers, following int
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	return followers, following, err
}
