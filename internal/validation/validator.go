package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/blog-platform-api/internal/models"
	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	MinPasswordLength = 6
	MaxTitleLength    = 200
	MaxTags           = 10
	MaxTagLength      = 30
	MaxReasonLength   = 1000
	MaxBioLength      = 500
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidateRegistration validates a sign-up request
func ValidateRegistration(name, email, password string) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name is required"})
	}
	errors = append(errors, validateEmail(email)...)

	if password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	} else if utf8.RuneCountInString(password) < MinPasswordLength {
		errors = append(errors, ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		})
	}

	return errors
}

// ValidateLogin validates a password login request
func ValidateLogin(email, password string) []ValidationError {
	errors := validateEmail(email)
	if password == "" {
		errors = append(errors, ValidationError{Field: "password", Message: "password is required"})
	}
	return errors
}

// ValidateEmail validates a bare email field
func ValidateEmail(email string) []ValidationError {
	return validateEmail(email)
}

func validateEmail(email string) []ValidationError {
	if email == "" {
		return []ValidationError{{Field: "email", Message: "email is required"}}
	}
	if !emailRegex.MatchString(email) {
		return []ValidationError{{Field: "email", Message: "invalid email format", Value: email}}
	}
	return nil
}

// ValidateArticle validates an article as submitted by its author. now is
// used to check that a scheduled time lies in the future.
func ValidateArticle(input *models.ArticleInput, now time.Time) []ValidationError {
	var errors []ValidationError

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds maximum of %d characters", MaxTitleLength),
		})
	}

	if strings.TrimSpace(input.Body) == "" {
		errors = append(errors, ValidationError{Field: "body", Message: "body is required"})
	}

	if input.Category == "" {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	} else if !models.ValidCategories[input.Category] {
		errors = append(errors, ValidationError{
			Field:   "category",
			Message: "invalid category, must be one of: Tutorials, Design, Community",
			Value:   input.Category,
		})
	}

	status := models.ArticleStatus(input.Status)
	switch status {
	case "", models.StatusDraft, models.StatusPending, models.StatusPublished:
	case models.StatusScheduled:
		if input.ScheduledAt == nil {
			errors = append(errors, ValidationError{Field: "scheduledAt", Message: "scheduledAt is required for scheduled articles"})
		} else if !input.ScheduledAt.After(now) {
			errors = append(errors, ValidationError{Field: "scheduledAt", Message: "scheduledAt must be in the future", Value: input.ScheduledAt})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "invalid status, must be one of: draft, pending, scheduled, published",
			Value:   input.Status,
		})
	}

	if len(input.Tags) > MaxTags {
		errors = append(errors, ValidationError{Field: "tags", Message: fmt.Sprintf("at most %d tags are allowed", MaxTags)})
	}
	for _, tag := range input.Tags {
		if strings.TrimSpace(tag) == "" {
			errors = append(errors, ValidationError{Field: "tags", Message: "tags must not be empty"})
			break
		}
		if utf8.RuneCountInString(tag) > MaxTagLength {
			errors = append(errors, ValidationError{
				Field:   "tags",
				Message: fmt.Sprintf("tag exceeds maximum of %d characters", MaxTagLength),
				Value:   tag,
			})
			break
		}
	}

	if input.ImageURL != "" && !isValidURL(input.ImageURL) {
		errors = append(errors, ValidationError{Field: "imageUrl", Message: "invalid URL", Value: input.ImageURL})
	}

	return errors
}

// ValidateComment validates a new comment
func ValidateComment(input *models.CommentInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Text) == "" {
		errors = append(errors, ValidationError{Field: "text", Message: "text is required"})
	} else if wordCount := len(strings.Fields(input.Text)); wordCount > models.MaxCommentWords {
		errors = append(errors, ValidationError{
			Field:   "text",
			Message: fmt.Sprintf("text exceeds maximum of %d words (has %d)", models.MaxCommentWords, wordCount),
		})
	}

	if input.ParentID != "" && !IsValidID(input.ParentID) {
		errors = append(errors, ValidationError{Field: "parentId", Message: "invalid UUID format", Value: input.ParentID})
	}

	return errors
}

// ValidateProfile validates the fields present in a profile update
func ValidateProfile(input *models.ProfileInput) []ValidationError {
	var errors []ValidationError

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		errors = append(errors, ValidationError{Field: "name", Message: "name must not be empty"})
	}
	if input.Bio != nil && utf8.RuneCountInString(*input.Bio) > MaxBioLength {
		errors = append(errors, ValidationError{
			Field:   "bio",
			Message: fmt.Sprintf("bio exceeds maximum of %d characters", MaxBioLength),
		})
	}

	urls := []struct {
		field string
		value *string
	}{
		{"avatarUrl", input.AvatarURL},
		{"coverUrl", input.CoverURL},
		{"website", input.Website},
	}
	for _, u := range urls {
		if u.value != nil && *u.value != "" && !isValidURL(*u.value) {
			errors = append(errors, ValidationError{Field: u.field, Message: "invalid URL", Value: *u.value})
		}
	}

	return errors
}

// ValidateReport validates a report reason
func ValidateReport(reason string) []ValidationError {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return []ValidationError{{Field: "reason", Message: "reason is required"}}
	}
	if utf8.RuneCountInString(reason) > MaxReasonLength {
		return []ValidationError{{
			Field:   "reason",
			Message: fmt.Sprintf("reason exceeds maximum of %d characters", MaxReasonLength),
		}}
	}
	return nil
}

// ValidateSiteConfig validates an admin site configuration update
func ValidateSiteConfig(cfg *models.SiteConfig) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(cfg.SiteName) == "" {
		errors = append(errors, ValidationError{Field: "siteName", Message: "siteName is required"})
	}
	if cfg.LogoURL != "" && !isValidURL(cfg.LogoURL) {
		errors = append(errors, ValidationError{Field: "logoUrl", Message: "invalid URL", Value: cfg.LogoURL})
	}
	return errors
}

// IsValidID checks if a string is a valid UUID
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func isValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
