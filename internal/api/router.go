package api

import (
	"net/http"
	"time"

	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/realtime"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, bus realtime.Bus, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))

	sessions := newSessionAuth(services.Auth, cfg.Auth)

	// Handlers
	authHandler := NewAuthHandler(services, sessions, log)
	articleHandler := NewArticleHandler(services, log)
	commentHandler := NewCommentHandler(services, log)
	userHandler := NewUserHandler(services, log)
	notificationHandler := NewNotificationHandler(services, bus, log)
	reportHandler := NewReportHandler(services, log)
	adminHandler := NewAdminHandler(services, log)
	exportHandler := NewExportHandler(services, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	requireAuth := sessions.required(log)
	optionalAuth := sessions.optional()

	// API v1
	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/resend-otp", authHandler.ResendOTP)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.Google)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/me", requireAuth, authHandler.Me)
		}

		v1.GET("/site-config", adminHandler.GetSiteConfig)

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/trending", articleHandler.Trending)
			articles.GET("/:id", optionalAuth, articleHandler.Get)
			articles.GET("/:id/comments", commentHandler.List)

			articles.POST("", requireAuth, articleHandler.Create)
			articles.PUT("/:id", requireAuth, articleHandler.Update)
			articles.DELETE("/:id", requireAuth, articleHandler.Delete)
			articles.POST("/:id/submit", requireAuth, articleHandler.Submit)
			articles.POST("/:id/like", requireAuth, articleHandler.ToggleLike)
			articles.POST("/:id/bookmark", requireAuth, articleHandler.ToggleBookmark)
			articles.POST("/:id/comments", requireAuth, commentHandler.Create)
			articles.POST("/:id/report", requireAuth, reportHandler.Create)
		}

		v1.DELETE("/comments/:id", requireAuth, commentHandler.Delete)

		users := v1.Group("/users")
		{
			users.GET("/:id", optionalAuth, userHandler.Profile)
			users.GET("/:id/articles", optionalAuth, articleHandler.ListByAuthor)
			users.GET("/:id/followers", userHandler.Followers)
			users.GET("/:id/following", userHandler.Following)
			users.POST("/:id/follow", requireAuth, userHandler.ToggleFollow)
		}

		me := v1.Group("/me", requireAuth)
		{
			me.PUT("/profile", userHandler.UpdateProfile)
			me.GET("/articles", articleHandler.ListMine)
			me.GET("/bookmarks", articleHandler.Bookmarks)
		}

		notifications := v1.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.GET("/stream", notificationHandler.Stream)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.DELETE("/:id", notificationHandler.Delete)
		}

		admin := v1.Group("/admin", requireAuth, requireAdmin())
		{
			admin.GET("/stats", adminHandler.Stats)
			admin.GET("/articles", adminHandler.ListArticles)
			admin.POST("/articles/:id/approve", adminHandler.Approve)
			admin.POST("/articles/:id/reject", adminHandler.Reject)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/ban", adminHandler.SetBanned)
			admin.PATCH("/users/:id/admin", adminHandler.SetAdmin)
			admin.PUT("/site-config", adminHandler.UpdateSiteConfig)
			admin.GET("/reports", reportHandler.List)
			admin.PATCH("/reports/:id", reportHandler.UpdateStatus)
			admin.DELETE("/reports/:id", reportHandler.Delete)
			admin.GET("/exports", exportHandler.StreamExport)
		}
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "blog-platform-api",
	})
}

// metricsHandler returns row counts of the main tables
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		usersCount, _ := services.Export.GetCount(ctx, "users")
		articlesCount, _ := services.Export.GetCount(ctx, "articles")
		commentsCount, _ := services.Export.GetCount(ctx, "comments")

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":    usersCount,
				"articles": articlesCount,
				"comments": commentsCount,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
