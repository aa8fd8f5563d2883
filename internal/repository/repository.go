package repository

import (
	"context"
	"errors"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/lib/pq"
)

// ErrDuplicate is returned when an insert violates a unique constraint
var ErrDuplicate = errors.New("duplicate record")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create inserts the user; the first user ever stored is made admin
	// and user.IsAdmin reflects the persisted value afterwards.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	SetBanned(ctx context.Context, id string, banned bool) (bool, error)
	SetAdmin(ctx context.Context, id string, admin bool) (bool, error)
	List(ctx context.Context, page, limit int) ([]*models.User, int, error)
	ListAdminIDs(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.User) error) error
}

// FollowRepository stores follower edges
type FollowRepository interface {
	Add(ctx context.Context, followerID, followeeID string) (bool, error)
	Remove(ctx context.Context, followerID, followeeID string) (bool, error)
	Exists(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]*models.User, error)
	Following(ctx context.Context, userID string) ([]*models.User, error)
	Counts(ctx context.Context, userID string) (followers int, following int, err error)
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, article *models.Article) error
	UpdateStatus(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id string) (*models.Article, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error)
	ListPublished(ctx context.Context) ([]*models.Article, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	CountByStatus(ctx context.Context, status models.ArticleStatus) (int, error)
	IncrementViews(ctx context.Context, id string) error
	PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// LikeRepository stores article likes as individual rows
type LikeRepository interface {
	Add(ctx context.Context, articleID, userID string) (bool, error)
	Remove(ctx context.Context, articleID, userID string) (bool, error)
	Exists(ctx context.Context, articleID, userID string) (bool, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// BookmarkRepository stores per-user article bookmarks
type BookmarkRepository interface {
	Add(ctx context.Context, userID, articleID string) (bool, error)
	Remove(ctx context.Context, userID, articleID string) (bool, error)
	Exists(ctx context.Context, userID, articleID string) (bool, error)
	ListArticles(ctx context.Context, userID string) ([]*models.Article, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)
	// Delete removes the comment and any replies to it
	Delete(ctx context.Context, id string) (int, error)
	CountByAuthor(ctx context.Context, authorID string) (int, error)
	Count(ctx context.Context) (int, error)
	StreamAll(ctx context.Context, callback func(*models.Comment) error) error
}

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
	MarkAllRead(ctx context.Context, recipientID string) (int, error)
	Delete(ctx context.Context, id, recipientID string) (bool, error)
}

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	// Create returns ErrDuplicate when the reporter already reported the article
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, status models.ReportStatus) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context, status models.ReportStatus) (int, error)
}

// SiteConfigRepository reads and writes the single site configuration row
type SiteConfigRepository interface {
	Get(ctx context.Context) (*models.SiteConfig, error)
	Save(ctx context.Context, cfg *models.SiteConfig) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User         UserRepository
	Follow       FollowRepository
	Article      ArticleRepository
	Like         LikeRepository
	Bookmark     BookmarkRepository
	Comment      CommentRepository
	Notification NotificationRepository
	Report       ReportRepository
	SiteConfig   SiteConfigRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepo(db),
		Follow:       NewFollowRepo(db),
		Article:      NewArticleRepo(db),
		Like:         NewLikeRepo(db),
		Bookmark:     NewBookmarkRepo(db),
		Comment:      NewCommentRepo(db),
		Notification: NewNotificationRepo(db),
		Report:       NewReportRepo(db),
		SiteConfig:   NewSiteConfigRepo(db),
	}
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// nullString maps "" to NULL
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// affected returns whether a statement changed at least one row
func affected(res interface{ RowsAffected() (int64, error) }) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
