package models

import (
	"time"
)

// ArticleStatus is the moderation state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPending   ArticleStatus = "pending"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
	StatusRejected  ArticleStatus = "rejected"
)

// Category values an article may be filed under
const (
	CategoryTutorials = "Tutorials"
	CategoryDesign    = "Design"
	CategoryCommunity = "Community"
)

// ValidCategories defines allowed article categories
var ValidCategories = map[string]bool{
	CategoryTutorials: true,
	CategoryDesign:    true,
	CategoryCommunity: true,
}

// ValidStatuses defines allowed article statuses
var ValidStatuses = map[ArticleStatus]bool{
	StatusDraft:     true,
	StatusPending:   true,
	StatusScheduled: true,
	StatusPublished: true,
	StatusRejected:  true,
}

// statusTransitions lists the moves each status may make. Everything not
// listed is refused: published and rejected are terminal.
var statusTransitions = map[ArticleStatus][]ArticleStatus{
	StatusDraft:     {StatusPending, StatusScheduled, StatusPublished},
	StatusPending:   {StatusPublished, StatusScheduled, StatusRejected},
	StatusScheduled: {StatusPublished},
}

// CanTransition reports whether an article may move from one status to another
func CanTransition(from, to ArticleStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Article represents a blog post
type Article struct {
	ID              string        `json:"id" db:"id"`
	Title           string        `json:"title" db:"title"`
	Body            string        `json:"body" db:"body"`
	Tags            []string      `json:"tags" db:"tags"`
	ImageURL        string        `json:"imageUrl" db:"image_url"`
	Category        string        `json:"category" db:"category"`
	Status          ArticleStatus `json:"status" db:"status"`
	ScheduledAt     *time.Time    `json:"scheduledAt,omitempty" db:"scheduled_at"`
	RejectionReason *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
	AuthorID        string        `json:"authorId" db:"author_id"`
	AuthorName      string        `json:"authorName,omitempty" db:"-"`
	Likes           []string      `json:"likes" db:"-"`
	LikeCount       int           `json:"likeCount" db:"-"`
	CommentCount    int           `json:"commentCount" db:"-"`
	Views           int64         `json:"views" db:"views"`
	PublishedAt     *time.Time    `json:"publishedAt,omitempty" db:"published_at"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// ArticleInput is the writable part of an article, as sent by clients
type ArticleInput struct {
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Tags        []string   `json:"tags"`
	ImageURL    string     `json:"imageUrl"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Status   ArticleStatus
	AuthorID string
	Category string
	Tag      string
	Query    string
	Page     int
	Limit    int
}

// Offset returns the row offset for the filter's page
func (f ArticleFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// ArticlePage is one page of an article listing
type ArticlePage struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Page     int        `json:"page"`
	Limit    int        `json:"limit"`
}

// LikeResult is returned by a like toggle
type LikeResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}
