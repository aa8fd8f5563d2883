package service

import (
	"sort"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/models"
)

// ResolveParent decides where a new comment attaches. candidateID is the
// comment the author replied to ("" for a top-level comment) and comments
// is the article's existing comments.
//
// It returns the replied-to comment and the parent ID to store. Replies to
// a reply are attached to that reply's own parent, so threads are never
// more than one level deep. An unknown candidate is a not-found error.
func ResolveParent(candidateID string, comments []*models.Comment) (*models.Comment, *string, error) {
	if candidateID == "" {
		return nil, nil, nil
	}

	for _, c := range comments {
		if c.ID != candidateID {
			continue
		}
		if c.IsReply() {
			root := *c.ParentID
			return c, &root, nil
		}
		id := c.ID
		return c, &id, nil
	}

	return nil, nil, apperr.NotFound("parent comment not found")
}

// GroupThreads arranges comments, given in insertion order, into threads.
// Top-level comments come newest first; replies keep insertion order
// under their parent. Replies whose parent is missing are left out.
func GroupThreads(comments []*models.Comment) []*models.CommentThread {
	threads := make([]*models.CommentThread, 0)
	byID := make(map[string]*models.CommentThread)

	for _, c := range comments {
		if !c.IsReply() {
			thread := &models.CommentThread{Comment: c, Replies: make([]*models.Comment, 0)}
			threads = append(threads, thread)
			byID[c.ID] = thread
		}
	}

	for _, c := range comments {
		if !c.IsReply() {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}

	// reverse first so equal timestamps keep newest-inserted first
	for i, j := 0, len(threads)-1; i < j; i, j = i+1, j-1 {
		threads[i], threads[j] = threads[j], threads[i]
	}
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].CreatedAt.After(threads[j].CreatedAt)
	})

	return threads
}
