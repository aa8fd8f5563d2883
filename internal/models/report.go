package models

import (
	"time"
)

// ReportStatus tracks admin handling of a report
type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// ValidReportStatuses defines allowed report statuses
var ValidReportStatuses = map[ReportStatus]bool{
	ReportPending:   true,
	ReportResolved:  true,
	ReportDismissed: true,
}

// Report is a user's complaint about an article
type Report struct {
	ID         string       `json:"id" db:"id"`
	ArticleID  string       `json:"articleId" db:"article_id"`
	ReporterID string       `json:"reporterId" db:"reporter_id"`
	Reason     string       `json:"reason" db:"reason"`
	Status     ReportStatus `json:"status" db:"status"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}
