package models

import (
	"time"
)

// SiteConfig holds the admin-editable site settings. There is a single row.
type SiteConfig struct {
	SiteName          string    `json:"siteName" db:"site_name"`
	Tagline           string    `json:"tagline" db:"tagline"`
	LogoURL           string    `json:"logoUrl" db:"logo_url"`
	FooterText        string    `json:"footerText" db:"footer_text"`
	Announcement      string    `json:"announcement" db:"announcement"`
	AllowRegistration bool      `json:"allowRegistration" db:"allow_registration"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

// DefaultSiteConfig is served until an admin saves a configuration
func DefaultSiteConfig() *SiteConfig {
	return &SiteConfig{
		SiteName:          "Blog",
		AllowRegistration: true,
	}
}

// Stats is the admin dashboard summary
type Stats struct {
	Users         int `json:"users"`
	Articles      int `json:"articles"`
	Comments      int `json:"comments"`
	PendingReview int `json:"pendingReview"`
	OpenReports   int `json:"openReports"`
}
