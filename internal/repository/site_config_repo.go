package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

type siteConfigRepo struct {
	db *database.DB
}

// NewSiteConfigRepo creates a new site configuration repository
func NewSiteConfigRepo(db *database.DB) SiteConfigRepository {
	return &siteConfigRepo{db: db}
}

// Get returns the stored configuration, or the defaults if none was saved
func (r *siteConfigRepo) Get(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	err := r.db.QueryRowContext(ctx, `
		SELECT site_name, tagline, logo_url, footer_text, announcement, allow_registration, updated_at
		FROM site_config WHERE id = 1
	`).Scan(&cfg.SiteName, &cfg.Tagline, &cfg.LogoURL, &cfg.FooterText,
		&cfg.Announcement, &cfg.AllowRegistration, &cfg.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.DefaultSiteConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save upserts the single configuration row
func (r *siteConfigRepo) Save(ctx context.Context, cfg *models.SiteConfig) error {
	cfg.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO site_config (id, site_name, tagline, logo_url, footer_text, announcement,
			allow_registration, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			tagline = EXCLUDED.tagline,
			logo_url = EXCLUDED.logo_url,
			footer_text = EXCLUDED.footer_text,
			announcement = EXCLUDED.announcement,
			allow_registration = EXCLUDED.allow_registration,
			updated_at = EXCLUDED.updated_at
	`, cfg.SiteName, cfg.Tagline, cfg.LogoURL, cfg.FooterText, cfg.Announcement,
		cfg.AllowRegistration, cfg.UpdatedAt)
	return err
}
