package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// schedulerService is the concrete implementation of SchedulerService
type schedulerService struct {
	articleRepo repository.ArticleRepository
	notifier    NotificationService
	interval    time.Duration
	now         func() time.Time
	log         zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func newSchedulerService(articleRepo repository.ArticleRepository, notifier NotificationService, interval time.Duration, now func() time.Time, log zerolog.Logger) *schedulerService {
	return &schedulerService{
		articleRepo: articleRepo,
		notifier:    notifier,
		interval:    interval,
		now:         now,
		log:         log.With().Str("service", "scheduler").Logger(),
	}
}

// StartProcessor runs the publish loop until ctx is cancelled or
// StopProcessor is called. It blocks, so callers run it in a goroutine.
func (s *schedulerService) StartProcessor(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	s.log.Info().Dur("interval", s.interval).Msg("Scheduled publisher started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Scheduled publisher stopping")
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// StopProcessor stops the loop and waits for the current pass to finish
func (s *schedulerService) StopProcessor() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	s.log.Info().Msg("Scheduled publisher stopped")
}

func (s *schedulerService) tick() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("Scheduled publish panicked - recovered")
		}
	}()

	if _, err := s.PublishDue(s.ctx); err != nil {
		s.log.Error().Err(err).Msg("Scheduled publish failed")
	}
}

// PublishDue publishes every scheduled article whose time has come and
// tells each author
func (s *schedulerService) PublishDue(ctx context.Context) (int, error) {
	published, err := s.articleRepo.PublishDue(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to publish due articles: %w", err)
	}

	for _, article := range published {
		s.log.Info().Str("article_id", article.ID).Msg("Scheduled article published")
		s.notifier.Notify(ctx, "", Notice{
			RecipientID: article.AuthorID,
			Type:        models.NotificationBlogApproved,
			Message:     fmt.Sprintf("Your scheduled article %q is now published", article.Title),
			ArticleID:   article.ID,
		})
	}
	return len(published), nil
}
