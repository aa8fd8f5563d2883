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

type commentService struct {
	repos    *repository.Repositories
	limiter  *limiter
	notifier NotificationService
	now      func() time.Time
	log      zerolog.Logger
}

func newCommentService(repos *repository.Repositories, limiter *limiter, notifier NotificationService, now func() time.Time, log zerolog.Logger) *commentService {
	return &commentService{
		repos:    repos,
		limiter:  limiter,
		notifier: notifier,
		now:      now,
		log:      log.With().Str("service", "comment").Logger(),
	}
}

// List returns the article's comments grouped into threads
func (s *commentService) List(ctx context.Context, articleID string) ([]*models.CommentThread, error) {
	if _, err := s.article(ctx, articleID); err != nil {
		return nil, err
	}

	comments, err := s.repos.Comment.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return GroupThreads(comments), nil
}

func (s *commentService) Create(ctx context.Context, actor *models.User, articleID string, input *models.CommentInput) (*models.Comment, error) {
	if errs := validation.ValidateComment(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	article, err := s.article(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article.Status != models.StatusPublished {
		return nil, apperr.BadRequest("comments are only allowed on published articles")
	}

	if err := s.limiter.Allow(ctx, actor, ActivityComment); err != nil {
		return nil, err
	}

	existing, err := s.repos.Comment.ListByArticle(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}
	repliedTo, parentID, err := ResolveParent(input.ParentID, existing)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:         uuid.New().String(),
		ArticleID:  articleID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Body:       strings.TrimSpace(input.Text),
		ParentID:   parentID,
		CreatedAt:  s.now(),
	}
	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.dispatch(ctx, actor, article, repliedTo)
	return comment, nil
}

// dispatch notifies the article author and, for a reply, the author of the
// comment replied to. Each recipient is notified at most once.
func (s *commentService) dispatch(ctx context.Context, actor *models.User, article *models.Article, repliedTo *models.Comment) {
	if repliedTo == nil {
		s.notifier.Notify(ctx, actor.ID, Notice{
			RecipientID:   article.AuthorID,
			Type:          models.NotificationComment,
			Message:       fmt.Sprintf("%s commented on your article %q", actor.Name, article.Title),
			ArticleID:     article.ID,
			RelatedUserID: actor.ID,
		})
		return
	}

	if repliedTo.AuthorID != article.AuthorID {
		s.notifier.Notify(ctx, actor.ID, Notice{
			RecipientID:   article.AuthorID,
			Type:          models.NotificationComment,
			Message:       fmt.Sprintf("%s replied on your article %q", actor.Name, article.Title),
			ArticleID:     article.ID,
			RelatedUserID: actor.ID,
		})
	}
	s.notifier.Notify(ctx, actor.ID, Notice{
		RecipientID:   repliedTo.AuthorID,
		Type:          models.NotificationReply,
		Message:       fmt.Sprintf("%s replied to your comment on %q", actor.Name, article.Title),
		ArticleID:     article.ID,
		RelatedUserID: actor.ID,
	})
}

// Delete removes a comment and its replies. The comment author, the
// article owner and admins may delete.
func (s *commentService) Delete(ctx context.Context, actor *models.User, id string) error {
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}
	if comment == nil {
		return apperr.NotFound("comment not found")
	}

	if !actor.IsAdmin && actor.ID != comment.AuthorID {
		article, err := s.article(ctx, comment.ArticleID)
		if err != nil {
			return err
		}
		if article.AuthorID != actor.ID {
			return apperr.Forbidden("you are not allowed to delete this comment")
		}
	}

	removed, err := s.repos.Comment.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if removed == 0 {
		return apperr.NotFound("comment not found")
	}

	s.log.Info().Str("comment_id", id).Int("removed", removed).Msg("Comment deleted")
	return nil
}

func (s *commentService) article(ctx context.Context, id string) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil {
		return nil, apperr.NotFound("article not found")
	}
	return article, nil
}
