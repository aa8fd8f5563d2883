package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// recordStream feeds every record of a resource to emit
type recordStream func(ctx context.Context, emit func(record interface{}) error) error

func (s *exportService) streamFor(resource string) (recordStream, bool) {
	switch resource {
	case "users":
		return func(ctx context.Context, emit func(interface{}) error) error {
			return s.repos.User.StreamAll(ctx, func(u *models.User) error { return emit(u) })
		}, true
	case "articles":
		return func(ctx context.Context, emit func(interface{}) error) error {
			return s.repos.Article.StreamAll(ctx, func(a *models.Article) error { return emit(a) })
		}, true
	case "comments":
		return func(ctx context.Context, emit func(interface{}) error) error {
			return s.repos.Comment.StreamAll(ctx, func(c *models.Comment) error { return emit(c) })
		}, true
	}
	return nil, false
}

// Stream writes an export of resource in format. CSV is offered for users only.
func (s *exportService) Stream(ctx context.Context, w http.ResponseWriter, resource, format string) error {
	stream, ok := s.streamFor(resource)
	if !ok {
		return apperr.BadRequest("unknown resource: %s", resource)
	}

	s.log.Info().Str("resource", resource).Str("format", format).Msg("Starting export")

	var count int
	var err error
	switch format {
	case "ndjson":
		count, err = s.writeNDJSON(ctx, w, resource, stream)
	case "json":
		count, err = s.writeJSON(ctx, w, resource, stream)
	case "csv":
		if resource != "users" {
			return apperr.BadRequest("csv export is only available for users")
		}
		count, err = s.writeUsersCSV(ctx, w)
	default:
		return apperr.BadRequest("unsupported format: %s", format)
	}

	if err != nil {
		s.log.Error().Err(err).Str("resource", resource).Int("count", count).Msg("Export aborted")
		return err
	}
	s.log.Info().Str("resource", resource).Int("count", count).Msg("Export completed")
	return nil
}

func (s *exportService) writeNDJSON(ctx context.Context, w http.ResponseWriter, resource string, stream recordStream) (int, error) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.ndjson", resource))

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	count := 0

	err := stream(ctx, func(record interface{}) error {
		if err := enc.Encode(record); err != nil {
			return err
		}
		count++
		if count%100 == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	return count, err
}

func (s *exportService) writeJSON(ctx context.Context, w http.ResponseWriter, resource string, stream recordStream) (int, error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", resource))

	if _, err := w.Write([]byte("[")); err != nil {
		return 0, err
	}
	count := 0

	err := stream(ctx, func(record interface{}) error {
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if count > 0 {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		count++
		_, err = w.Write(data)
		return err
	})

	w.Write([]byte("]"))
	return count, err
}

func (s *exportService) writeUsersCSV(ctx context.Context, w http.ResponseWriter) (int, error) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=users.csv")

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"id", "email", "name", "is_admin", "is_banned", "created_at", "updated_at"}); err != nil {
		return 0, err
	}

	count := 0
	err := s.repos.User.StreamAll(ctx, func(user *models.User) error {
		count++
		return writer.Write([]string{
			user.ID,
			user.Email,
			user.Name,
			strconv.FormatBool(user.IsAdmin),
			strconv.FormatBool(user.IsBanned),
			user.CreatedAt.UTC().Format(time.RFC3339),
			user.UpdatedAt.UTC().Format(time.RFC3339),
		})
	})
	return count, err
}

// GetCount returns count for a resource
func (s *exportService) GetCount(ctx context.Context, resource string) (int, error) {
	switch resource {
	case "users":
		return s.repos.User.Count(ctx)
	case "articles":
		return s.repos.Article.Count(ctx)
	case "comments":
		return s.repos.Comment.Count(ctx)
	default:
		return 0, apperr.BadRequest("unknown resource: %s", resource)
	}
}
