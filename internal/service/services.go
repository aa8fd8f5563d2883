package service

import (
	"context"
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/mailer"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// AuthService handles sign-up, sign-in and session tokens
type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error)
	// Authenticate resolves a session token to an active user
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ArticleService handles article authoring, reading and engagement
type ArticleService interface {
	Create(ctx context.Context, actor *models.User, input *models.ArticleInput) (*models.Article, error)
	Update(ctx context.Context, actor *models.User, id string, input *models.ArticleInput) (*models.Article, error)
	Delete(ctx context.Context, actor *models.User, id string) error
	// Get returns an article; viewer may be nil. Reading a published
	// article counts a view.
	Get(ctx context.Context, viewer *models.User, id string) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error)
	ListByAuthor(ctx context.Context, viewer *models.User, authorID string, page, limit int) (*models.ArticlePage, error)
	Submit(ctx context.Context, actor *models.User, id string) (*models.Article, error)
	ToggleLike(ctx context.Context, actor *models.User, id string) (*models.LikeResult, error)
	ToggleBookmark(ctx context.Context, actor *models.User, id string) (bool, error)
	Bookmarks(ctx context.Context, actor *models.User) ([]*models.Article, error)
	Trending(ctx context.Context) ([]*models.Article, error)
}

// CommentService handles comment threads
type CommentService interface {
	List(ctx context.Context, articleID string) ([]*models.CommentThread, error)
	Create(ctx context.Context, actor *models.User, articleID string, input *models.CommentInput) (*models.Comment, error)
	Delete(ctx context.Context, actor *models.User, id string) error
}

// UserService handles profiles and follows
type UserService interface {
	Profile(ctx context.Context, viewer *models.User, id string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, actor *models.User, input *models.ProfileInput) (*models.User, error)
	ToggleFollow(ctx context.Context, actor *models.User, id string) (*models.FollowResult, error)
	Followers(ctx context.Context, id string) ([]*models.User, error)
	Following(ctx context.Context, id string) ([]*models.User, error)
}

// NotificationService dispatches and serves notifications
type NotificationService interface {
	// Notify records a notification for notice.RecipientID unless the
	// recipient is the actor. Failures are logged, never returned.
	Notify(ctx context.Context, actorID string, notice Notice)
	List(ctx context.Context, recipient *models.User, limit int) ([]*models.Notification, error)
	UnreadCount(ctx context.Context, recipient *models.User) (int, error)
	MarkRead(ctx context.Context, recipient *models.User, id string) error
	MarkAllRead(ctx context.Context, recipient *models.User) (int, error)
	Delete(ctx context.Context, recipient *models.User, id string) error
}

// ReportService handles article reports
type ReportService interface {
	Create(ctx context.Context, actor *models.User, articleID, reason string) (*models.Report, error)
	List(ctx context.Context, status models.ReportStatus) ([]*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	Delete(ctx context.Context, id string) error
}

// AdminService handles moderation and site administration
type AdminService interface {
	Stats(ctx context.Context) (*models.Stats, error)
	ListArticles(ctx context.Context, status models.ArticleStatus, page, limit int) (*models.ArticlePage, error)
	Approve(ctx context.Context, actor *models.User, id string, scheduledAt *time.Time) (*models.Article, error)
	Reject(ctx context.Context, actor *models.User, id, reason string) (*models.Article, error)
	ListUsers(ctx context.Context, page, limit int) (*models.UserPage, error)
	SetBanned(ctx context.Context, actor *models.User, id string, banned bool) (*models.User, error)
	SetAdmin(ctx context.Context, actor *models.User, id string, admin bool) (*models.User, error)
	SiteConfig(ctx context.Context) (*models.SiteConfig, error)
	UpdateSiteConfig(ctx context.Context, cfg *models.SiteConfig) (*models.SiteConfig, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	Stream(ctx context.Context, w http.ResponseWriter, resource, format string) error
	GetCount(ctx context.Context, resource string) (int, error)
}

// SchedulerService publishes scheduled articles when they fall due
type SchedulerService interface {
	StartProcessor(ctx context.Context)
	StopProcessor()
	PublishDue(ctx context.Context) (int, error)
}

// TokenIssuer issues session tokens and resolves them back to a user ID
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Parse(token string) (string, error)
}

// Deps are the collaborators the services use besides the repositories
type Deps struct {
	Tokens TokenIssuer
	OTP    auth.OTPStore
	Social auth.SocialVerifier
	Mailer mailer.Mailer
	Bus    realtime.Publisher
	// Now defaults to time.Now
	Now func() time.Time
}

// Services holds all service interfaces
type Services struct {
	Auth         AuthService
	Article      ArticleService
	Comment      CommentService
	User         UserService
	Notification NotificationService
	Report       ReportService
	Admin        AdminService
	Export       ExportService
	Scheduler    SchedulerService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, deps Deps, cfg *config.Config, log zerolog.Logger) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	notifier := newNotificationService(repos.Notification, deps.Bus, deps.Now, log)
	limiter := newLimiter(cfg.Quota, repos)

	return &Services{
		Auth:         newAuthService(repos, deps, cfg.Auth, log),
		Article:      newArticleService(repos, limiter, notifier, deps.Now, log),
		Comment:      newCommentService(repos, limiter, notifier, deps.Now, log),
		User:         newUserService(repos, notifier, log),
		Notification: notifier,
		Report:       newReportService(repos, deps.Now, log),
		Admin:        newAdminService(repos, notifier, deps.Mailer, deps.Now, log),
		Export:       newExportService(repos, log),
		Scheduler:    newSchedulerService(repos.Article, notifier, cfg.Scheduler.Interval, deps.Now, log),
	}
}

// pagination clamps page and limit to sane values
func pagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}
