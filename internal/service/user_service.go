package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/validation"
	"github.com/rs/zerolog"
)

type userService struct {
	repos    *repository.Repositories
	notifier NotificationService
	log      zerolog.Logger
}

func newUserService(repos *repository.Repositories, notifier NotificationService, log zerolog.Logger) *userService {
	return &userService{
		repos:    repos,
		notifier: notifier,
		log:      log.With().Str("service", "user").Logger(),
	}
}

// Profile returns a user with follow counts and published article count
func (s *userService) Profile(ctx context.Context, viewer *models.User, id string) (*models.Profile, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	followers, following, err := s.repos.Follow.Counts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}

	_, articles, err := s.repos.Article.List(ctx, models.ArticleFilter{
		Status: models.StatusPublished, AuthorID: id, Page: 1, Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	profile := &models.Profile{User: user, Followers: followers, Following: following, Articles: articles}
	if viewer != nil && viewer.ID != id {
		if profile.IsFollowing, err = s.repos.Follow.Exists(ctx, viewer.ID, id); err != nil {
			return nil, err
		}
	}
	return profile, nil
}

// UpdateProfile applies the fields present in input
func (s *userService) UpdateProfile(ctx context.Context, actor *models.User, input *models.ProfileInput) (*models.User, error) {
	if errs := validation.ValidateProfile(input); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	user, err := s.load(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&user.Name, input.Name)
	set(&user.Bio, input.Bio)
	set(&user.AvatarURL, input.AvatarURL)
	set(&user.CoverURL, input.CoverURL)
	set(&user.Website, input.Website)
	set(&user.Location, input.Location)

	if err := s.repos.User.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ToggleFollow follows the user, or unfollows when already following
func (s *userService) ToggleFollow(ctx context.Context, actor *models.User, id string) (*models.FollowResult, error) {
	if actor.ID == id {
		return nil, apperr.BadRequest("you cannot follow yourself")
	}
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	removed, err := s.repos.Follow.Remove(ctx, actor.ID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to unfollow: %w", err)
	}

	if !removed {
		added, err := s.repos.Follow.Add(ctx, actor.ID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to follow: %w", err)
		}
		if added {
			s.notifier.Notify(ctx, actor.ID, Notice{
				RecipientID:   id,
				Type:          models.NotificationFollow,
				Message:       fmt.Sprintf("%s started following you", actor.Name),
				RelatedUserID: actor.ID,
			})
		}
	}

	followers, _, err := s.repos.Follow.Counts(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.FollowResult{Following: !removed, Followers: followers}, nil
}

func (s *userService) Followers(ctx context.Context, id string) ([]*models.User, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Follow.Followers(ctx, id)
}

func (s *userService) Following(ctx context.Context, id string) ([]*models.User, error) {
	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s.repos.Follow.Following(ctx, id)
}

func (s *userService) load(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}
