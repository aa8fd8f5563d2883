package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/lib/pq"
)

// articleSelect loads an article with its author name, liker IDs and
// comment count. Likes and comments live in their own tables.
const articleSelect = `
	SELECT a.id, a.title, a.body, a.tags, a.image_url, a.category, a.status,
		a.scheduled_at, a.rejection_reason, a.author_id, u.name, a.views,
		a.published_at, a.created_at, a.updated_at,
		COALESCE((SELECT array_agg(l.user_id::text ORDER BY l.created_at)
			FROM article_likes l WHERE l.article_id = a.id), '{}'),
		(SELECT COUNT(*) FROM comments c WHERE c.article_id = a.id)
	FROM articles a JOIN users u ON u.id = a.author_id`

func scanArticle(row rowScanner) (*models.Article, error) {
	var article models.Article
	var scheduledAt, publishedAt sql.NullTime
	var rejectionReason sql.NullString

	err := row.Scan(
		&article.ID, &article.Title, &article.Body, pq.Array(&article.Tags), &article.ImageURL,
		&article.Category, &article.Status, &scheduledAt, &rejectionReason, &article.AuthorID,
		&article.AuthorName, &article.Views, &publishedAt, &article.CreatedAt, &article.UpdatedAt,
		pq.Array(&article.Likes), &article.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	if scheduledAt.Valid {
		article.ScheduledAt = &scheduledAt.Time
	}
	if publishedAt.Valid {
		article.PublishedAt = &publishedAt.Time
	}
	if rejectionReason.Valid {
		article.RejectionReason = &rejectionReason.String
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if article.Likes == nil {
		article.Likes = []string{}
	}
	article.LikeCount = len(article.Likes)
	return &article, nil
}

func collectArticles(rows *sql.Rows) ([]*models.Article, error) {
	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	query := `
		INSERT INTO articles (id, title, body, tags, image_url, category, status, scheduled_at,
			rejection_reason, author_id, views, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, $11, $12, $12)
	`
	if article.Tags == nil {
		article.Tags = []string{}
	}
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.Title, article.Body, pq.Array(article.Tags), article.ImageURL,
		article.Category, article.Status, article.ScheduledAt, article.RejectionReason,
		article.AuthorID, article.PublishedAt, article.CreatedAt,
	)
	return err
}

// Update writes the non-status fields of an article
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET title = $1, body = $2, tags = $3, image_url = $4, category = $5,
			scheduled_at = $6, updated_at = $7
		WHERE id = $8
	`
	article.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		article.Title, article.Body, pq.Array(article.Tags), article.ImageURL, article.Category,
		article.ScheduledAt, article.UpdatedAt, article.ID,
	)
	return err
}

// UpdateStatus writes the moderation fields of an article
func (r *articleRepo) UpdateStatus(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET status = $1, scheduled_at = $2, rejection_reason = $3,
			published_at = $4, updated_at = $5
		WHERE id = $6
	`
	article.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		article.Status, article.ScheduledAt, article.RejectionReason,
		article.PublishedAt, article.UpdatedAt, article.ID,
	)
	return err
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, articleSelect+` WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// Delete removes an article; likes, comments, bookmarks and reports cascade
func (r *articleRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// List returns one page of articles matching filter, newest first
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "a.status = "+arg(filter.Status))
	}
	if filter.AuthorID != "" {
		conds = append(conds, "a.author_id = "+arg(filter.AuthorID))
	}
	if filter.Category != "" {
		conds = append(conds, "a.category = "+arg(filter.Category))
	}
	if filter.Tag != "" {
		conds = append(conds, arg(filter.Tag)+" = ANY(a.tags)")
	}
	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conds = append(conds, "(a.title ILIKE "+p+" OR a.body ILIKE "+p+")")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles a`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := articleSelect + where + ` ORDER BY a.created_at DESC LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset())
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles, err := collectArticles(rows)
	return articles, total, err
}

// ListPublished returns every published article with its engagement counts
func (r *articleRepo) ListPublished(ctx context.Context) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, articleSelect+` WHERE a.status = 'published'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectArticles(rows)
}

// CountByAuthor returns how many articles the author has, in any status
func (r *articleRepo) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE author_id = $1", authorID).Scan(&count)
	return count, err
}

func (r *articleRepo) CountByStatus(ctx context.Context, status models.ArticleStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles WHERE status = $1", status).Scan(&count)
	return count, err
}

// IncrementViews bumps the view counter in place
func (r *articleRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE articles SET views = views + 1 WHERE id = $1`, id)
	return err
}

// PublishDue flips scheduled articles whose time has come to published and
// returns them
func (r *articleRepo) PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE articles SET status = 'published', published_at = $1, updated_at = $1
		WHERE status = 'scheduled' AND scheduled_at <= $1
		RETURNING id, title, author_id
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var published []*models.Article
	for rows.Next() {
		article := &models.Article{Status: models.StatusPublished, PublishedAt: &now}
		if err := rows.Scan(&article.ID, &article.Title, &article.AuthorID); err != nil {
			return nil, err
		}
		published = append(published, article)
	}
	return published, rows.Err()
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

// StreamAll streams all articles for export
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryContext(ctx, articleSelect+` ORDER BY a.created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return err
		}
		if err := callback(article); err != nil {
			return err
		}
	}

	return rows.Err()
}
