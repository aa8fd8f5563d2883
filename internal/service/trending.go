package service

import (
	"sort"
	"time"

	"github.com/blog-platform-api/internal/models"
)

const (
	TrendingLimit = 6

	likeWeight    = 3.0
	commentWeight = 2.0
	viewWeight    = 0.1
	freshBonus    = 50.0
	freshWindow   = 7 * 24 * time.Hour
)

// TrendingScore weighs an article's engagement, with a flat bonus for
// articles created within the last week
func TrendingScore(a *models.Article, now time.Time) float64 {
	score := likeWeight*float64(a.LikeCount) +
		commentWeight*float64(a.CommentCount) +
		viewWeight*float64(a.Views)
	if now.Sub(a.CreatedAt) < freshWindow {
		score += freshBonus
	}
	return score
}

// RankTrending returns the n highest scoring articles, best first. Equal
// scores go to the newer article.
func RankTrending(articles []*models.Article, now time.Time, n int) []*models.Article {
	type scored struct {
		article *models.Article
		score   float64
	}

	ranked := make([]scored, len(articles))
	for i, a := range articles {
		ranked[i] = scored{article: a, score: TrendingScore(a, now)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].article.CreatedAt.After(ranked[j].article.CreatedAt)
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	top := make([]*models.Article, n)
	for i := range top {
		top[i] = ranked[i].article
	}
	return top
}
