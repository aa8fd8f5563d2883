package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles?category=&tag=&author=&q=&page=&limit=
func (h *ArticleHandler) List(c *gin.Context) {
	page, err := h.services.Article.List(c.Request.Context(), models.ArticleFilter{
		Category: c.Query("category"),
		Tag:      c.Query("tag"),
		AuthorID: c.Query("author"),
		Query:    c.Query("q"),
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Trending handles GET /v1/articles/trending
func (h *ArticleHandler) Trending(c *gin.Context) {
	articles, err := h.services.Article.Trending(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Get handles GET /v1/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.services.Article.Get(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var input models.ArticleInput
	if !bindJSON(c, &input) {
		return
	}
	article, err := h.services.Article.Create(c.Request.Context(), currentUser(c), &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var input models.ArticleInput
	if !bindJSON(c, &input) {
		return
	}
	article, err := h.services.Article.Update(c.Request.Context(), currentUser(c), id, &input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.services.Article.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "article deleted"})
}

// Submit handles POST /v1/articles/:id/submit
func (h *ArticleHandler) Submit(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	article, err := h.services.Article.Submit(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ToggleLike handles POST /v1/articles/:id/like
func (h *ArticleHandler) ToggleLike(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.services.Article.ToggleLike(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ToggleBookmark handles POST /v1/articles/:id/bookmark
func (h *ArticleHandler) ToggleBookmark(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	bookmarked, err := h.services.Article.ToggleBookmark(c.Request.Context(), currentUser(c), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookmarked": bookmarked})
}

// Bookmarks handles GET /v1/me/bookmarks
func (h *ArticleHandler) Bookmarks(c *gin.Context) {
	articles, err := h.services.Article.Bookmarks(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// ListMine handles GET /v1/me/articles
func (h *ArticleHandler) ListMine(c *gin.Context) {
	user := currentUser(c)
	h.listByAuthor(c, user.ID)
}

// ListByAuthor handles GET /v1/users/:id/articles
func (h *ArticleHandler) ListByAuthor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listByAuthor(c, id)
}

func (h *ArticleHandler) listByAuthor(c *gin.Context, authorID string) {
	page, err := h.services.Article.ListByAuthor(c.Request.Context(), currentUser(c), authorID,
		queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
