package service

import (
	"context"
	"fmt"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
)

// Activity is a kind of contribution subject to a per-account quota
type Activity string

const (
	ActivityArticle Activity = "blogs"
	ActivityLike    Activity = "likes"
	ActivityComment Activity = "comments"
)

// limiter caps how many contributions of each kind a non-admin may hold.
// Each kind is counted and limited on its own.
type limiter struct {
	limits   map[Activity]int
	counters map[Activity]func(ctx context.Context, userID string) (int, error)
}

func newLimiter(cfg config.QuotaConfig, repos *repository.Repositories) *limiter {
	return &limiter{
		limits: map[Activity]int{
			ActivityArticle: cfg.MaxArticles,
			ActivityLike:    cfg.MaxLikes,
			ActivityComment: cfg.MaxComments,
		},
		counters: map[Activity]func(context.Context, string) (int, error){
			ActivityArticle: repos.Article.CountByAuthor,
			ActivityLike:    repos.Like.CountByUser,
			ActivityComment: repos.Comment.CountByAuthor,
		},
	}
}

// Allow returns a forbidden error when actor has used up the quota for kind
func (l *limiter) Allow(ctx context.Context, actor *models.User, kind Activity) error {
	if actor.IsAdmin {
		return nil
	}

	count, err := l.counters[kind](ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("failed to count %s: %w", kind, err)
	}

	if limit := l.limits[kind]; count >= limit {
		return apperr.Forbidden("Maximum limit reached: you can have at most %d %s", limit, kind)
	}
	return nil
}
