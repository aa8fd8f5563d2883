package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/mailer"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/validation"
	"github.com/rs/zerolog"
)

type adminService struct {
	repos    *repository.Repositories
	notifier NotificationService
	mailer   mailer.Mailer
	now      func() time.Time
	log      zerolog.Logger
}

func newAdminService(repos *repository.Repositories, notifier NotificationService, m mailer.Mailer, now func() time.Time, log zerolog.Logger) *adminService {
	return &adminService{
		repos:    repos,
		notifier: notifier,
		mailer:   m,
		now:      now,
		log:      log.With().Str("service", "admin").Logger(),
	}
}

func (s *adminService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	var err error

	if stats.Users, err = s.repos.User.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Articles, err = s.repos.Article.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.repos.Comment.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingReview, err = s.repos.Article.CountByStatus(ctx, models.StatusPending); err != nil {
		return nil, err
	}
	if stats.OpenReports, err = s.repos.Report.CountByStatus(ctx, models.ReportPending); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *adminService) ListArticles(ctx context.Context, status models.ArticleStatus, page, limit int) (*models.ArticlePage, error) {
	if status != "" && !models.ValidStatuses[status] {
		return nil, apperr.BadRequest("invalid article status: %s", status)
	}

	page, limit = pagination(page, limit)
	articles, total, err := s.repos.Article.List(ctx, models.ArticleFilter{Status: status, Page: page, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return &models.ArticlePage{Articles: articles, Total: total, Page: page, Limit: limit}, nil
}

// Approve publishes an article, or schedules it when scheduledAt is in the
// future. Without scheduledAt the author's requested time is kept if it is
// still ahead. The author is notified and emailed.
func (s *adminService) Approve(ctx context.Context, actor *models.User, id string, scheduledAt *time.Time) (*models.Article, error) {
	article, err := s.article(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if scheduledAt == nil && article.ScheduledAt != nil && article.ScheduledAt.After(now) {
		scheduledAt = article.ScheduledAt
	}
	target := models.StatusPublished
	if scheduledAt != nil && scheduledAt.After(now) {
		target = models.StatusScheduled
	}
	if !models.CanTransition(article.Status, target) {
		return nil, apperr.BadRequest("article cannot be %s from status %s", target, article.Status)
	}

	article.Status = target
	article.RejectionReason = nil
	if target == models.StatusScheduled {
		article.ScheduledAt = scheduledAt
	} else {
		article.ScheduledAt = nil
		article.PublishedAt = &now
	}

	if err := s.repos.Article.UpdateStatus(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to approve article: %w", err)
	}

	s.log.Info().
		Str("article_id", id).
		Str("admin_id", actor.ID).
		Str("status", string(target)).
		Msg("Article approved")

	message := fmt.Sprintf("Your article %q has been published", article.Title)
	if target == models.StatusScheduled {
		message = fmt.Sprintf("Your article %q has been approved and scheduled for %s",
			article.Title, scheduledAt.UTC().Format(time.RFC1123))
	}
	s.notifier.Notify(ctx, actor.ID, Notice{
		RecipientID: article.AuthorID,
		Type:        models.NotificationBlogApproved,
		Message:     message,
		ArticleID:   article.ID,
	})
	s.emailAuthor(ctx, article.AuthorID, "Your article was approved", message)

	return article, nil
}

// Reject turns down a pending article with a reason
func (s *adminService) Reject(ctx context.Context, actor *models.User, id, reason string) (*models.Article, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation([]validation.ValidationError{{Field: "reason", Message: "reason is required"}})
	}

	article, err := s.article(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransition(article.Status, models.StatusRejected) {
		return nil, apperr.BadRequest("article cannot be rejected from status %s", article.Status)
	}

	article.Status = models.StatusRejected
	article.RejectionReason = &reason
	if err := s.repos.Article.UpdateStatus(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to reject article: %w", err)
	}

	s.log.Info().Str("article_id", id).Str("admin_id", actor.ID).Msg("Article rejected")

	s.notifier.Notify(ctx, actor.ID, Notice{
		RecipientID: article.AuthorID,
		Type:        models.NotificationBlogRejected,
		Message:     fmt.Sprintf("Your article %q was rejected: %s", article.Title, reason),
		ArticleID:   article.ID,
	})
	return article, nil
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) (*models.UserPage, error) {
	page, limit = pagination(page, limit)
	users, total, err := s.repos.User.List(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &models.UserPage{Users: users, Total: total, Page: page, Limit: limit}, nil
}

func (s *adminService) SetBanned(ctx context.Context, actor *models.User, id string, banned bool) (*models.User, error) {
	if actor.ID == id {
		return nil, apperr.BadRequest("you cannot ban yourself")
	}
	return s.setFlag(ctx, id, func() (bool, error) { return s.repos.User.SetBanned(ctx, id, banned) })
}

func (s *adminService) SetAdmin(ctx context.Context, actor *models.User, id string, admin bool) (*models.User, error) {
	if actor.ID == id && !admin {
		return nil, apperr.BadRequest("you cannot remove your own admin rights")
	}
	return s.setFlag(ctx, id, func() (bool, error) { return s.repos.User.SetAdmin(ctx, id, admin) })
}

func (s *adminService) setFlag(ctx context.Context, id string, update func() (bool, error)) (*models.User, error) {
	ok, err := update()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return s.repos.User.GetByID(ctx, id)
}

func (s *adminService) SiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	return s.repos.SiteConfig.Get(ctx)
}

func (s *adminService) UpdateSiteConfig(ctx context.Context, cfg *models.SiteConfig) (*models.SiteConfig, error) {
	if errs := validation.ValidateSiteConfig(cfg); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}
	if err := s.repos.SiteConfig.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to save site config: %w", err)
	}
	return cfg, nil
}

func (s *adminService) article(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}

func (s *adminService) emailAuthor(ctx context.Context, authorID, subject, body string) {
	if s.mailer == nil {
		return
	}
	author, err := s.repos.User.GetByID(ctx, authorID)
	if err != nil || author == nil {
		s.log.Warn().Err(err).Str("user_id", authorID).Msg("Could not load author for email")
		return
	}
	mailer.Async(s.mailer, s.log, author.Email, subject, body)
}
