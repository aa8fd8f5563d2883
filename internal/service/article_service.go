package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repos    *repository.Repositories
	limiter  *limiter
	notifier NotificationService
	now      func() time.Time
	log      zerolog.Logger
}

func newArticleService(repos *repository.Repositories, limiter *limiter, notifier NotificationService, now func() time.Time, log zerolog.Logger) *articleService {
	return &articleService{
		repos:    repos,
		limiter:  limiter,
		notifier: notifier,
		now:      now,
		log:      log.With().Str("service", "article").Logger(),
	}
}

// canManage reports whether actor may edit or delete the article
func canManage(actor *models.User, article *models.Article) bool {
	return actor != nil && (actor.IsAdmin || actor.ID == article.AuthorID)
}

// visibleTo reports whether actor may read the article. Unpublished
// articles are only visible to those who can manage them.
func visibleTo(actor *models.User, article *models.Article) bool {
	return article.Status == models.StatusPublished || canManage(actor, article)
}

// initialStatus decides the stored status of a new article. Only admins
// publish or schedule directly; everyone else goes through review.
func initialStatus(actor *models.User, requested models.ArticleStatus) models.ArticleStatus {
	switch requested {
	case "", models.StatusDraft:
		return models.StatusDraft
	case models.StatusPublished, models.StatusScheduled:
		if actor.IsAdmin {
			return requested
		}
		return models.StatusPending
	default:
		return models.StatusPending
	}
}

func (s *articleService) Create(ctx context.Context, actor *models.User, input *models.ArticleInput) (*models.Article, error) {
	now := s.now()
	if errs := validation.ValidateArticle(input, now); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	if err := s.limiter.Allow(ctx, actor, ActivityArticle); err != nil {
		return nil, err
	}

	article := &models.Article{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Body:        input.Body,
		Tags:        normalizeTags(input.Tags),
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		Status:      initialStatus(actor, models.ArticleStatus(input.Status)),
		ScheduledAt: input.ScheduledAt,
		AuthorID:    actor.ID,
		AuthorName:  actor.Name,
		Likes:       []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if article.Status == models.StatusPublished {
		article.PublishedAt = &now
	}

	if err := s.repos.Article.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}

	s.log.Info().
		Str("article_id", article.ID).
		Str("author_id", actor.ID).
		Str("status", string(article.Status)).
		Msg("Article created")

	if article.Status == models.StatusPending {
		s.notifyAdminsPending(ctx, actor, article)
	}
	return article, nil
}

func (s *articleService) Update(ctx context.Context, actor *models.User, id string, input *models.ArticleInput) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, article) {
		return nil, apperr.Forbidden("you are not allowed to edit this article")
	}

	// status changes go through submit and moderation
	fields := *input
	fields.Status = ""
	if errs := validation.ValidateArticle(&fields, s.now()); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	article.Title = strings.TrimSpace(input.Title)
	article.Body = input.Body
	article.Tags = normalizeTags(input.Tags)
	article.ImageURL = input.ImageURL
	article.Category = input.Category

	if err := s.repos.Article.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to update article: %w", err)
	}
	return article, nil
}

func (s *articleService) Delete(ctx context.Context, actor *models.User, id string) error {
	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(actor, article) {
		return apperr.Forbidden("you are not allowed to delete this article")
	}

	deleted, err := s.repos.Article.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if !deleted {
		return apperr.NotFound("article not found")
	}

	s.log.Info().Str("article_id", id).Str("actor_id", actor.ID).Msg("Article deleted")
	return nil
}

func (s *articleService) Get(ctx context.Context, viewer *models.User, id string) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !visibleTo(viewer, article) {
		return nil, apperr.NotFound("article not found")
	}
	if article.Status != models.StatusPublished {
		return article, nil
	}

	if err := s.repos.Article.IncrementViews(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("article_id", id).Msg("Failed to count view")
	} else {
		article.Views++
	}
	return article, nil
}

// List returns published articles only
func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	filter.Status = models.StatusPublished
	return s.page(ctx, filter)
}

// ListByAuthor shows every status to the author and admins, and only
// published articles to anyone else
func (s *articleService) ListByAuthor(ctx context.Context, viewer *models.User, authorID string, page, limit int) (*models.ArticlePage, error) {
	filter := models.ArticleFilter{AuthorID: authorID, Page: page, Limit: limit}
	if viewer == nil || (!viewer.IsAdmin && viewer.ID != authorID) {
		filter.Status = models.StatusPublished
	}
	return s.page(ctx, filter)
}

func (s *articleService) page(ctx context.Context, filter models.ArticleFilter) (*models.ArticlePage, error) {
	filter.Page, filter.Limit = pagination(filter.Page, filter.Limit)
	articles, total, err := s.repos.Article.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return &models.ArticlePage{Articles: articles, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Submit sends a draft for review
func (s *articleService) Submit(ctx context.Context, actor *models.User, id string) (*models.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(actor, article) {
		return nil, apperr.Forbidden("you are not allowed to submit this article")
	}
	if !models.CanTransition(article.Status, models.StatusPending) {
		return nil, apperr.BadRequest("article cannot be submitted from status %s", article.Status)
	}

	article.Status = models.StatusPending
	if err := s.repos.Article.UpdateStatus(ctx, article); err != nil {
		return nil, fmt.Errorf("failed to submit article: %w", err)
	}

	s.notifyAdminsPending(ctx, actor, article)
	return article, nil
}

// ToggleLike adds the actor's like, or removes it when already present.
// Only adding counts against the like quota.
func (s *articleService) ToggleLike(ctx context.Context, actor *models.User, id string) (*models.LikeResult, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if article.Status != models.StatusPublished {
		return nil, apperr.BadRequest("only published articles can be liked")
	}

	liked, err := s.repos.Like.Exists(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}

	if liked {
		if _, err := s.repos.Like.Remove(ctx, id, actor.ID); err != nil {
			return nil, fmt.Errorf("failed to remove like: %w", err)
		}
	} else {
		if err := s.limiter.Allow(ctx, actor, ActivityLike); err != nil {
			return nil, err
		}
		added, err := s.repos.Like.Add(ctx, id, actor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to add like: %w", err)
		}
		if added {
			s.notifier.Notify(ctx, actor.ID, Notice{
				RecipientID:   article.AuthorID,
				Type:          models.NotificationLike,
				Message:       fmt.Sprintf("%s liked your article %q", actor.Name, article.Title),
				ArticleID:     article.ID,
				RelatedUserID: actor.ID,
			})
		}
	}

	count, err := s.repos.Like.CountByArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.LikeResult{Liked: !liked, LikeCount: count}, nil
}

// ToggleBookmark returns whether the article is bookmarked afterwards
func (s *articleService) ToggleBookmark(ctx context.Context, actor *models.User, id string) (bool, error) {
	if _, err := s.load(ctx, id); err != nil {
		return false, err
	}

	removed, err := s.repos.Bookmark.Remove(ctx, actor.ID, id)
	if err != nil {
		return false, fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if removed {
		return false, nil
	}

	if _, err := s.repos.Bookmark.Add(ctx, actor.ID, id); err != nil {
		return false, fmt.Errorf("failed to add bookmark: %w", err)
	}
	return true, nil
}

func (s *articleService) Bookmarks(ctx context.Context, actor *models.User) ([]*models.Article, error) {
	return s.repos.Bookmark.ListArticles(ctx, actor.ID)
}

// Trending scores every published article on each call
func (s *articleService) Trending(ctx context.Context) ([]*models.Article, error) {
	articles, err := s.repos.Article.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load published articles: %w", err)
	}
	return RankTrending(articles, s.now(), TrendingLimit), nil
}

func (s *articleService) load(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}

func (s *articleService) notifyAdminsPending(ctx context.Context, actor *models.User, article *models.Article) {
	adminIDs, err := s.repos.User.ListAdminIDs(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list admins for review notification")
		return
	}
	for _, adminID := range adminIDs {
		s.notifier.Notify(ctx, actor.ID, Notice{
			RecipientID:   adminID,
			Type:          models.NotificationBlogPending,
			Message:       fmt.Sprintf("%s submitted %q for review", actor.Name, article.Title),
			ArticleID:     article.ID,
			RelatedUserID: actor.ID,
		})
	}
}

// normalizeTags trims tags and drops duplicates, keeping first-seen order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
