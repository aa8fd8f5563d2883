package benchmark

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/mocks"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/blog-platform-api/internal/validation"
	"github.com/rs/zerolog"
)

var benchNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func makeArticles(n int) []*models.Article {
	articles := make([]*models.Article, n)
	for i := range articles {
		likes := make([]string, i%40)
		for j := range likes {
			likes[j] = fmt.Sprintf("user-%d", j)
		}
		articles[i] = &models.Article{
			ID:           fmt.Sprintf("article-%05d", i),
			Status:       models.StatusPublished,
			Likes:        likes,
			LikeCount:    len(likes),
			CommentCount: i % 25,
			Views:        int64(i * 7 % 1000),
			CreatedAt:    benchNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	return articles
}

// makeComments builds a flat article thread: every fifth comment is top-level
// and the rest reply to the latest root
func makeComments(n int) []*models.Comment {
	comments := make([]*models.Comment, n)
	var root string
	for i := range comments {
		c := &models.Comment{
			ID:        fmt.Sprintf("comment-%05d", i),
			ArticleID: "article",
			AuthorID:  fmt.Sprintf("user-%d", i%10),
			Body:      "benchmark comment",
			CreatedAt: benchNow.Add(time.Duration(i) * time.Second),
		}
		if i%5 == 0 {
			root = c.ID
		} else {
			parent := root
			c.ParentID = &parent
		}
		comments[i] = c
	}
	return comments
}

// BenchmarkRankTrending benchmarks scoring and ranking every published article
func BenchmarkRankTrending(b *testing.B) {
	articles := makeArticles(5000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		top := service.RankTrending(articles, benchNow, service.TrendingLimit)
		if len(top) != service.TrendingLimit {
			b.Fatalf("expected %d articles, got %d", service.TrendingLimit, len(top))
		}
	}

	b.ReportMetric(float64(5000*b.N)/b.Elapsed().Seconds(), "articles/sec")
}

// BenchmarkGroupThreads benchmarks building reply threads for an article
func BenchmarkGroupThreads(b *testing.B) {
	comments := makeComments(2000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		threads := service.GroupThreads(comments)
		if len(threads) != 400 {
			b.Fatalf("expected 400 threads, got %d", len(threads))
		}
	}
}

// BenchmarkResolveParent benchmarks resolving a reply target deep in a thread
func BenchmarkResolveParent(b *testing.B) {
	comments := makeComments(2000)
	target := comments[len(comments)-1].ID

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := service.ResolveParent(target, comments); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkValidation benchmarks article validation
func BenchmarkValidation(b *testing.B) {
	input := &models.ArticleInput{
		Title:    "Benchmarking Go services",
		Body:     "Some body text",
		Category: models.CategoryTutorials,
		Tags:     []string{"go", "performance", "testing"},
		ImageURL: "https://example.com/cover.png",
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validation.ValidateArticle(input, benchNow)
	}
}

// BenchmarkExportArticlesNDJSON benchmarks streaming an article export
func BenchmarkExportArticlesNDJSON(b *testing.B) {
	repos, store := mocks.NewRepositories()
	author := store.AddUser(&models.User{ID: "author", Name: "Author", Email: "author@example.com"})
	ctx := context.Background()
	for _, a := range makeArticles(1000) {
		a.AuthorID = author.ID
		a.Likes = nil
		repos.Article.Create(ctx, a)
	}

	cfg := &config.Config{Scheduler: config.SchedulerConfig{Interval: time.Minute}}
	services := service.NewServices(repos, service.Deps{Bus: mocks.NewMockBus()}, cfg, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		if err := services.Export.Stream(ctx, w, "articles", "ndjson"); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}
