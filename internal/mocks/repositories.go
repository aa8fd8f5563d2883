package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
)

// Store is the shared in-memory state behind the mock repositories. Likes,
// comments and authors are joined onto articles on read, the way the SQL
// repositories do.
type Store struct {
	mu sync.Mutex

	users         []*models.User
	articles      []*models.Article
	likes         map[string][]string
	follows       []edge
	bookmarks     []edge
	comments      []*models.Comment
	notifications []*models.Notification
	reports       []*models.Report
	siteConfig    *models.SiteConfig

	// Error injection
	NotificationError error
	ArticleError      error
}

type edge struct {
	from, to string
}

// NewRepositories returns repositories backed by a fresh Store
func NewRepositories() (*repository.Repositories, *Store) {
	s := &Store{likes: make(map[string][]string)}
	return &repository.Repositories{
		User:         &MockUserRepository{s},
		Follow:       &MockFollowRepository{s},
		Article:      &MockArticleRepository{s},
		Like:         &MockLikeRepository{s},
		Bookmark:     &MockBookmarkRepository{s},
		Comment:      &MockCommentRepository{s},
		Notification: &MockNotificationRepository{s},
		Report:       &MockReportRepository{s},
		SiteConfig:   &MockSiteConfigRepository{s},
	}, s
}

// Notifications returns a snapshot of every stored notification
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[i] = *n
	}
	return out
}

// NotificationsFor returns the notifications addressed to recipientID
func (s *Store) NotificationsFor(recipientID string) []models.Notification {
	var out []models.Notification
	for _, n := range s.Notifications() {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

// AddUser stores a user as given, bypassing the first-user admin rule
func (s *Store) AddUser(user *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	s.users = append(s.users, &stored)
	return user
}

// ArticleCount returns how many articles are stored
func (s *Store) ArticleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.articles)
}

// Likes returns the user IDs liking articleID
func (s *Store) Likes(articleID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.likes[articleID]...)
}

func (s *Store) userByID(id string) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) articleByID(id string) *models.Article {
	for _, a := range s.articles {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// decorate copies a stored article and joins likes, comment count and author
func (s *Store) decorate(a *models.Article) *models.Article {
	out := *a
	out.Tags = append([]string{}, a.Tags...)
	out.Likes = append([]string{}, s.likes[a.ID]...)
	out.LikeCount = len(out.Likes)
	out.CommentCount = 0
	for _, c := range s.comments {
		if c.ArticleID == a.ID {
			out.CommentCount++
		}
	}
	if author := s.userByID(a.AuthorID); author != nil {
		out.AuthorName = author.Name
	}
	return &out
}

func hasEdge(edges []edge, from, to string) bool {
	for _, e := range edges {
		if e.from == from && e.to == to {
			return true
		}
	}
	return false
}

func removeEdge(edges []edge, from, to string) ([]edge, bool) {
	for i, e := range edges {
		if e.from == from && e.to == to {
			return append(edges[:i], edges[i+1:]...), true
		}
	}
	return edges, false
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct{ s *Store }

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	user.UpdatedAt = user.CreatedAt
	user.IsAdmin = len(m.s.users) == 0

	stored := *user
	m.s.users = append(m.s.users, &stored)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u := m.s.userByID(id); u != nil {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == strings.ToLower(email) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u := m.s.userByID(user.ID); u != nil {
		u.Name, u.Bio, u.AvatarURL = user.Name, user.Bio, user.AvatarURL
		u.CoverURL, u.Website, u.Location = user.CoverURL, user.Website, user.Location
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockUserRepository) SetBanned(ctx context.Context, id string, banned bool) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u := m.s.userByID(id)
	if u == nil {
		return false, nil
	}
	u.IsBanned = banned
	return true, nil
}

func (m *MockUserRepository) SetAdmin(ctx context.Context, id string, admin bool) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u := m.s.userByID(id)
	if u == nil {
		return false, nil
	}
	u.IsAdmin = admin
	return true, nil
}

func (m *MockUserRepository) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	users := make([]*models.User, 0, len(m.s.users))
	for i := len(m.s.users) - 1; i >= 0; i-- {
		out := *m.s.users[i]
		users = append(users, &out)
	}
	return paginate(users, page, limit), len(m.s.users), nil
}

func (m *MockUserRepository) ListAdminIDs(ctx context.Context) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []string
	for _, u := range m.s.users {
		if u.IsAdmin && !u.IsBanned {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.users), nil
}

func (m *MockUserRepository) StreamAll(ctx context.Context, callback func(*models.User) error) error {
	m.s.mu.Lock()
	users := append([]*models.User{}, m.s.users...)
	m.s.mu.Unlock()

	for _, u := range users {
		out := *u
		if err := callback(&out); err != nil {
			return err
		}
	}
	return nil
}

// MockFollowRepository is a mock implementation of FollowRepository
type MockFollowRepository struct{ s *Store }

var _ repository.FollowRepository = (*MockFollowRepository)(nil)

func (m *MockFollowRepository) Add(ctx context.Context, followerID, followeeID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if hasEdge(m.s.follows, followerID, followeeID) {
		return false, nil
	}
	m.s.follows = append(m.s.follows, edge{followerID, followeeID})
	return true, nil
}

func (m *MockFollowRepository) Remove(ctx context.Context, followerID, followeeID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var removed bool
	m.s.follows, removed = removeEdge(m.s.follows, followerID, followeeID)
	return removed, nil
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return hasEdge(m.s.follows, followerID, followeeID), nil
}

func (m *MockFollowRepository) Followers(ctx context.Context, userID string) ([]*models.User, error) {
	return m.related(userID, func(e edge) (string, bool) { return e.from, e.to == userID })
}

func (m *MockFollowRepository) Following(ctx context.Context, userID string) ([]*models.User, error) {
	return m.related(userID, func(e edge) (string, bool) { return e.to, e.from == userID })
}

func (m *MockFollowRepository) related(userID string, pick func(edge) (string, bool)) ([]*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	users := make([]*models.User, 0)
	for i := len(m.s.follows) - 1; i >= 0; i-- {
		if id, ok := pick(m.s.follows[i]); ok {
			if u := m.s.userByID(id); u != nil {
				out := *u
				users = append(users, &out)
			}
		}
	}
	return users, nil
}

func (m *MockFollowRepository) Counts(ctx context.Context, userID string) (int, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var followers, following int
	for _, e := range m.s.follows {
		if e.to == userID {
			followers++
		}
		if e.from == userID {
			following++
		}
	}
	return followers, following, nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct{ s *Store }

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.ArticleError != nil {
		return m.s.ArticleError
	}
	stored := *article
	stored.Tags = append([]string{}, article.Tags...)
	m.s.articles = append(m.s.articles, &stored)
	return nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a := m.s.articleByID(article.ID); a != nil {
		a.Title, a.Body, a.ImageURL, a.Category = article.Title, article.Body, article.ImageURL, article.Category
		a.Tags = append([]string{}, article.Tags...)
		a.ScheduledAt = article.ScheduledAt
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockArticleRepository) UpdateStatus(ctx context.Context, article *models.Article) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a := m.s.articleByID(article.ID); a != nil {
		a.Status, a.ScheduledAt, a.RejectionReason = article.Status, article.ScheduledAt, article.RejectionReason
		a.PublishedAt = article.PublishedAt
		a.UpdatedAt = time.Now()
	}
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a := m.s.articleByID(id); a != nil {
		return m.s.decorate(a), nil
	}
	return nil, nil
}

// Delete removes the article with its likes, comments, bookmarks and reports
func (m *MockArticleRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	found := false
	articles := m.s.articles[:0]
	for _, a := range m.s.articles {
		if a.ID == id {
			found = true
			continue
		}
		articles = append(articles, a)
	}
	m.s.articles = articles
	if !found {
		return false, nil
	}

	delete(m.s.likes, id)
	comments := m.s.comments[:0]
	for _, c := range m.s.comments {
		if c.ArticleID != id {
			comments = append(comments, c)
		}
	}
	m.s.comments = comments
	bookmarks := m.s.bookmarks[:0]
	for _, b := range m.s.bookmarks {
		if b.to != id {
			bookmarks = append(bookmarks, b)
		}
	}
	m.s.bookmarks = bookmarks
	reports := m.s.reports[:0]
	for _, r := range m.s.reports {
		if r.ArticleID != id {
			reports = append(reports, r)
		}
	}
	m.s.reports = reports
	return true, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var matched []*models.Article
	for _, a := range m.s.articles {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && a.AuthorID != filter.AuthorID {
			continue
		}
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !contains(a.Tags, filter.Tag) {
			continue
		}
		if q := strings.ToLower(filter.Query); q != "" &&
			!strings.Contains(strings.ToLower(a.Title), q) && !strings.Contains(strings.ToLower(a.Body), q) {
			continue
		}
		matched = append(matched, m.s.decorate(a))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, filter.Page, filter.Limit), len(matched), nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []*models.Article
	for _, a := range m.s.articles {
		if a.Status == models.StatusPublished {
			out = append(out, m.s.decorate(a))
		}
	}
	return out, nil
}

func (m *MockArticleRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, a := range m.s.articles {
		if a.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *MockArticleRepository) CountByStatus(ctx context.Context, status models.ArticleStatus) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, a := range m.s.articles {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *MockArticleRepository) IncrementViews(ctx context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a := m.s.articleByID(id); a != nil {
		a.Views++
	}
	return nil
}

func (m *MockArticleRepository) PublishDue(ctx context.Context, now time.Time) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var published []*models.Article
	for _, a := range m.s.articles {
		if a.Status == models.StatusScheduled && a.ScheduledAt != nil && !a.ScheduledAt.After(now) {
			at := now
			a.Status = models.StatusPublished
			a.PublishedAt = &at
			published = append(published, m.s.decorate(a))
		}
	}
	return published, nil
}

func (m *MockArticleRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.articles), nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.s.mu.Lock()
	articles := make([]*models.Article, len(m.s.articles))
	for i, a := range m.s.articles {
		articles[i] = m.s.decorate(a)
	}
	m.s.mu.Unlock()

	for _, a := range articles {
		if err := callback(a); err != nil {
			return err
		}
	}
	return nil
}

// MockLikeRepository is a mock implementation of LikeRepository
type MockLikeRepository struct{ s *Store }

var _ repository.LikeRepository = (*MockLikeRepository)(nil)

func (m *MockLikeRepository) Add(ctx context.Context, articleID, userID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if contains(m.s.likes[articleID], userID) {
		return false, nil
	}
	m.s.likes[articleID] = append(m.s.likes[articleID], userID)
	return true, nil
}

func (m *MockLikeRepository) Remove(ctx context.Context, articleID, userID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	likes := m.s.likes[articleID]
	for i, id := range likes {
		if id == userID {
			m.s.likes[articleID] = append(likes[:i], likes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockLikeRepository) Exists(ctx context.Context, articleID, userID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return contains(m.s.likes[articleID], userID), nil
}

func (m *MockLikeRepository) CountByArticle(ctx context.Context, articleID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.likes[articleID]), nil
}

func (m *MockLikeRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, likers := range m.s.likes {
		if contains(likers, userID) {
			count++
		}
	}
	return count, nil
}

// MockBookmarkRepository is a mock implementation of BookmarkRepository
type MockBookmarkRepository struct{ s *Store }

var _ repository.BookmarkRepository = (*MockBookmarkRepository)(nil)

func (m *MockBookmarkRepository) Add(ctx context.Context, userID, articleID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if hasEdge(m.s.bookmarks, userID, articleID) {
		return false, nil
	}
	m.s.bookmarks = append(m.s.bookmarks, edge{userID, articleID})
	return true, nil
}

func (m *MockBookmarkRepository) Remove(ctx context.Context, userID, articleID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var removed bool
	m.s.bookmarks, removed = removeEdge(m.s.bookmarks, userID, articleID)
	return removed, nil
}

func (m *MockBookmarkRepository) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return hasEdge(m.s.bookmarks, userID, articleID), nil
}

func (m *MockBookmarkRepository) ListArticles(ctx context.Context, userID string) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	articles := make([]*models.Article, 0)
	for i := len(m.s.bookmarks) - 1; i >= 0; i-- {
		b := m.s.bookmarks[i]
		if b.from != userID {
			continue
		}
		if a := m.s.articleByID(b.to); a != nil {
			articles = append(articles, m.s.decorate(a))
		}
	}
	return articles, nil
}

// MockCommentRepository is a mock implementation of CommentRepository
type MockCommentRepository struct{ s *Store }

var _ repository.CommentRepository = (*MockCommentRepository)(nil)

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored := *comment
	m.s.comments = append(m.s.comments, &stored)
	return nil
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.comments {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockCommentRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	comments := make([]*models.Comment, 0)
	for _, c := range m.s.comments {
		if c.ArticleID == articleID {
			out := *c
			comments = append(comments, &out)
		}
	}
	return comments, nil
}

func (m *MockCommentRepository) Delete(ctx context.Context, id string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	removed := 0
	kept := m.s.comments[:0]
	for _, c := range m.s.comments {
		if c.ID == id || (c.ParentID != nil && *c.ParentID == id) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	m.s.comments = kept
	return removed, nil
}

func (m *MockCommentRepository) CountByAuthor(ctx context.Context, authorID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, c := range m.s.comments {
		if c.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *MockCommentRepository) Count(ctx context.Context) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.comments), nil
}

func (m *MockCommentRepository) StreamAll(ctx context.Context, callback func(*models.Comment) error) error {
	m.s.mu.Lock()
	comments := append([]*models.Comment{}, m.s.comments...)
	m.s.mu.Unlock()

	for _, c := range comments {
		out := *c
		if err := callback(&out); err != nil {
			return err
		}
	}
	return nil
}

// MockNotificationRepository is a mock implementation of NotificationRepository
type MockNotificationRepository struct{ s *Store }

var _ repository.NotificationRepository = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.NotificationError != nil {
		return m.s.NotificationError
	}
	stored := *n
	m.s.notifications = append(m.s.notifications, &stored)
	return nil
}

func (m *MockNotificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]*models.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Notification, 0)
	for i := len(m.s.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		if n := m.s.notifications[i]; n.RecipientID == recipientID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, n := range m.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, n := range m.s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, n := range m.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (m *MockNotificationRepository) Delete(ctx context.Context, id, recipientID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, n := range m.s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			m.s.notifications = append(m.s.notifications[:i], m.s.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// MockReportRepository is a mock implementation of ReportRepository
type MockReportRepository struct{ s *Store }

var _ repository.ReportRepository = (*MockReportRepository)(nil)

func (m *MockReportRepository) Create(ctx context.Context, report *models.Report) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.reports {
		if r.ArticleID == report.ArticleID && r.ReporterID == report.ReporterID {
			return repository.ErrDuplicate
		}
	}
	stored := *report
	m.s.reports = append(m.s.reports, &stored)
	return nil
}

func (m *MockReportRepository) List(ctx context.Context, status models.ReportStatus) ([]*models.Report, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]*models.Report, 0)
	for i := len(m.s.reports) - 1; i >= 0; i-- {
		if r := m.s.reports[i]; status == "" || r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, r := range m.s.reports {
		if r.ID == id {
			r.Status = status
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReportRepository) Delete(ctx context.Context, id string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, r := range m.s.reports {
		if r.ID == id {
			m.s.reports = append(m.s.reports[:i], m.s.reports[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockReportRepository) CountByStatus(ctx context.Context, status models.ReportStatus) (int, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	count := 0
	for _, r := range m.s.reports {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

// MockSiteConfigRepository is a mock implementation of SiteConfigRepository
type MockSiteConfigRepository struct{ s *Store }

var _ repository.SiteConfigRepository = (*MockSiteConfigRepository)(nil)

func (m *MockSiteConfigRepository) Get(ctx context.Context) (*models.SiteConfig, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.siteConfig == nil {
		return models.DefaultSiteConfig(), nil
	}
	out := *m.s.siteConfig
	return &out, nil
}

func (m *MockSiteConfigRepository) Save(ctx context.Context, cfg *models.SiteConfig) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cfg.UpdatedAt = time.Now()
	stored := *cfg
	m.s.siteConfig = &stored
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	start := 0
	if page > 1 {
		start = (page - 1) * limit
	}
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
