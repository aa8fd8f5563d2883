package repository

import (
	"context"
	"database/sql"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

const commentSelect = `
	SELECT c.id, c.article_id, c.author_id, u.name, c.body, c.parent_id, c.created_at
	FROM comments c JOIN users u ON u.id = c.author_id`

func scanComment(row rowScanner) (*models.Comment, error) {
	var comment models.Comment
	var parentID sql.NullString
	err := row.Scan(
		&comment.ID, &comment.ArticleID, &comment.AuthorID, &comment.AuthorName,
		&comment.Body, &parentID, &comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		comment.ParentID = &parentID.String
	}
	return &comment, nil
}

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db *database.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *database.DB) CommentRepository {
	return &commentRepo{db: db}
}

// Create inserts a new comment as a single row
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, article_id, author_id, body, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.ArticleID, comment.AuthorID, comment.Body,
		comment.ParentID, comment.CreatedAt,
	)
	return err
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return comment, err
}

// ListByArticle returns an article's comments in insertion order
func (r *commentRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+`
		WHERE c.article_id = $1 ORDER BY c.created_at, c.id
	`, articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete removes a comment and its replies, returning the number of rows removed
func (r *commentRepo) Delete(ctx context.Context, id string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1 OR parent_id = $1`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountByAuthor returns how many comments the user has written
func (r *commentRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments WHERE author_id = $1", authorID).Scan(&count)
	return count, err
}

// Count returns the total number of comments
func (r *commentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments").Scan(&count)
	return count, err
}

// StreamAll streams all comments for export
func (r *commentRepo) StreamAll(ctx context.Context, callback func(*models.Comment) error) error {
	rows, err := r.db.QueryContext(ctx, commentSelect+` ORDER BY c.created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return err
		}
		if err := callback(comment); err != nil {
			return err
		}
	}

	return rows.Err()
}
