package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/mocks"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
)

func TestMockUserRepository_FirstUserIsAdmin(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	ctx := context.Background()

	first := &models.User{ID: "user-1", Email: "First@Example.com", Name: "First"}
	second := &models.User{ID: "user-2", Email: "second@example.com", Name: "Second"}

	if err := repos.User.Create(ctx, first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repos.User.Create(ctx, second); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if !first.IsAdmin {
		t.Error("Expected the first user to be admin")
	}
	if second.IsAdmin {
		t.Error("Expected later users not to be admin")
	}

	// Email lookup is case-insensitive
	stored, err := repos.User.GetByEmail(ctx, "FIRST@example.com")
	if err != nil || stored == nil || stored.ID != "user-1" {
		t.Errorf("Expected to find user-1, got %v, %v", stored, err)
	}

	dup := &models.User{ID: "user-3", Email: "first@example.com", Name: "Dup"}
	if err := repos.User.Create(ctx, dup); err != repository.ErrDuplicate {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}
}

func TestMockUserRepository_ConcurrentSignUpsHaveOneAdmin(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	ctx := context.Background()

	const n = 20
	users := make([]*models.User, n)
	var wg sync.WaitGroup
	for i := range users {
		users[i] = &models.User{ID: fmt.Sprintf("user-%d", i), Email: fmt.Sprintf("u%d@example.com", i)}
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()
			if err := repos.User.Create(ctx, u); err != nil {
				t.Errorf("Create failed: %v", err)
			}
		}(users[i])
	}
	wg.Wait()

	admins := 0
	for _, u := range users {
		if u.IsAdmin {
			admins++
		}
	}
	if admins != 1 {
		t.Errorf("Expected exactly one admin, got %d", admins)
	}
}

func TestMockUserRepository_NotFound(t *testing.T) {
	repos, _ := mocks.NewRepositories()

	user, err := repos.User.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user != nil {
		t.Error("Expected nil user for unknown ID")
	}
}

func TestMockLikeRepository_Idempotent(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	ctx := context.Background()

	if added, _ := repos.Like.Add(ctx, "a1", "u1"); !added {
		t.Error("Expected first like to be added")
	}
	if added, _ := repos.Like.Add(ctx, "a1", "u1"); added {
		t.Error("Expected duplicate like to be ignored")
	}
	if count, _ := repos.Like.CountByArticle(ctx, "a1"); count != 1 {
		t.Errorf("Expected 1 like, got %d", count)
	}
	if removed, _ := repos.Like.Remove(ctx, "a1", "u1"); !removed {
		t.Error("Expected like to be removed")
	}
	if removed, _ := repos.Like.Remove(ctx, "a1", "u1"); removed {
		t.Error("Expected second remove to report nothing removed")
	}
}

func TestMockCommentRepository_DeleteRemovesReplies(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	ctx := context.Background()

	root := "c1"
	comments := []*models.Comment{
		{ID: "c1", ArticleID: "a1", AuthorID: "u1", Body: "root", CreatedAt: time.Now()},
		{ID: "c2", ArticleID: "a1", AuthorID: "u2", Body: "reply", ParentID: &root, CreatedAt: time.Now()},
		{ID: "c3", ArticleID: "a1", AuthorID: "u3", Body: "other", CreatedAt: time.Now()},
	}
	for _, c := range comments {
		if err := repos.Comment.Create(ctx, c); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	removed, err := repos.Comment.Delete(ctx, "c1")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("Expected 2 removed, got %d", removed)
	}

	left, _ := repos.Comment.ListByArticle(ctx, "a1")
	if len(left) != 1 || left[0].ID != "c3" {
		t.Errorf("Expected only c3 to remain, got %d comments", len(left))
	}
}

func TestMockNotificationRepository_ScopedToRecipient(t *testing.T) {
	repos, _ := mocks.NewRepositories()
	ctx := context.Background()

	n := &models.Notification{ID: "n1", RecipientID: "alice", Type: models.NotificationFollow, Message: "hi", CreatedAt: time.Now()}
	if err := repos.Notification.Create(ctx, n); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if ok, _ := repos.Notification.MarkRead(ctx, "n1", "bob"); ok {
		t.Error("Expected another user's notification to be untouched")
	}
	if ok, _ := repos.Notification.MarkRead(ctx, "n1", "alice"); !ok {
		t.Error("Expected recipient to mark notification read")
	}
	if unread, _ := repos.Notification.CountUnread(ctx, "alice"); unread != 0 {
		t.Errorf("Expected 0 unread, got %d", unread)
	}
}
