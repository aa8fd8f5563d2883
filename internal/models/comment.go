package models

import (
	"time"
)

// Comment is a comment on an article. ParentID is nil for top-level
// comments and otherwise points at a top-level comment of the same article.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	ArticleID  string    `json:"articleId" db:"article_id"`
	AuthorID   string    `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName,omitempty" db:"-"`
	Body       string    `json:"text" db:"body"`
	ParentID   *string   `json:"parentComment" db:"parent_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// IsReply reports whether the comment has a parent
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentInput is a new comment as sent by clients
type CommentInput struct {
	Text     string `json:"text"`
	ParentID string `json:"parentId,omitempty"`
}

// CommentThread is a top-level comment with its replies
type CommentThread struct {
	*Comment
	Replies []*Comment `json:"replies"`
}

// MaxCommentWords is the maximum allowed words in a comment body
const MaxCommentWords = 500
