package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userKey = "user"

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"message": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		if user := currentUser(c); user != nil {
			event = event.Str("user_id", user.ID)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware allows the front end origin to send the session cookie
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// sessionAuth reads the session token from the cookie, or from an
// Authorization bearer header
type sessionAuth struct {
	auth service.AuthService
	cfg  config.AuthConfig
}

func newSessionAuth(auth service.AuthService, cfg config.AuthConfig) *sessionAuth {
	return &sessionAuth{auth: auth, cfg: cfg}
}

func (s *sessionAuth) token(c *gin.Context) string {
	if token, err := c.Cookie(s.cfg.CookieName); err == nil && token != "" {
		return token
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func (s *sessionAuth) required(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := s.token(c)
		if token == "" {
			respondError(c, log, apperr.Unauthorized("not authenticated"))
			c.Abort()
			return
		}
		user, err := s.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, log, err)
			c.Abort()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// optional attaches the user when a valid session is present and carries
// on anonymously otherwise
func (s *sessionAuth) optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := s.token(c); token != "" {
			if user, err := s.auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userKey, user)
			}
		}
		c.Next()
	}
}

func (s *sessionAuth) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, token, int(s.cfg.TokenTTL.Seconds()), "/", "", s.cfg.CookieSecure, true)
}

func (s *sessionAuth) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cfg.CookieName, "", -1, "/", "", s.cfg.CookieSecure, true)
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := currentUser(c); user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}

// currentUser returns the authenticated user, or nil
func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
