package service

import (
	"context"
	"errors"
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

type reportService struct {
	repos *repository.Repositories
	now   func() time.Time
	log   zerolog.Logger
}

func newReportService(repos *repository.Repositories, now func() time.Time, log zerolog.Logger) *reportService {
	return &reportService{
		repos: repos,
		now:   now,
		log:   log.With().Str("service", "report").Logger(),
	}
}

// Create files a report. Each user may report an article once, and only
// articles they are allowed to read.
func (s *reportService) Create(ctx context.Context, actor *models.User, articleID, reason string) (*models.Report, error) {
	if errs := validation.ValidateReport(reason); len(errs) > 0 {
		return nil, apperr.Validation(errs)
	}

	article, err := s.repos.Article.GetByID(ctx, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	if article == nil || !visibleTo(actor, article) {
		return nil, apperr.NotFound("article not found")
	}

	report := &models.Report{
		ID:         uuid.New().String(),
		ArticleID:  articleID,
		ReporterID: actor.ID,
		Reason:     strings.TrimSpace(reason),
		Status:     models.ReportPending,
		CreatedAt:  s.now(),
	}
	err = s.repos.Report.Create(ctx, report)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperr.Conflict("you have already reported this article")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	s.log.Info().Str("report_id", report.ID).Str("article_id", articleID).Msg("Article reported")
	return report, nil
}

// List returns reports, optionally only those with status
func (s *reportService) List(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	if status != "" && !models.ValidReportStatuses[status] {
		return nil, apperr.BadRequest("invalid report status: %s", status)
	}
	return s.repos.Report.List(ctx, status)
}

func (s *reportService) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	if !models.ValidReportStatuses[status] {
		return apperr.BadRequest("invalid report status: %s", status)
	}
	ok, err := s.repos.Report.UpdateStatus(ctx, id, status)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("report not found")
	}
	return nil
}

func (s *reportService) Delete(ctx context.Context, id string) error {
	ok, err := s.repos.Report.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("report not found")
	}
	return nil
}
