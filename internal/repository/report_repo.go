package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

type reportRepo struct {
	db *database.DB
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *database.DB) ReportRepository {
	return &reportRepo{db: db}
}

// Create inserts a report. The (article_id, reporter_id) unique key turns a
// repeat report into ErrDuplicate.
func (r *reportRepo) Create(ctx context.Context, report *models.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reports (id, article_id, reporter_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, report.ID, report.ArticleID, report.ReporterID, report.Reason, report.Status, report.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// List returns reports, newest first, optionally filtered by status
func (r *reportRepo) List(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, article_id, reporter_id, reason, status, created_at
		FROM reports WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
	`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reports := make([]*models.Report, 0)
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(&report.ID, &report.ArticleID, &report.ReporterID,
			&report.Reason, &report.Status, &report.CreatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}

func (r *reportRepo) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE reports SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *reportRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *reportRepo) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports WHERE status = $1", status).Scan(&count)
	return count, err
}
