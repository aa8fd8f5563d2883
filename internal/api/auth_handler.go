package api

import (
	"net/http"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// AuthHandler handles sign-up, sign-in and session endpoints
type AuthHandler struct {
	services *service.Services
	sessions *sessionAuth
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, sessions *sessionAuth, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		sessions: sessions,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.services.Auth.Register(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "verification code sent"})
}

// VerifyOTP handles POST /v1/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.services.Auth.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	h.signedIn(c, user, token, err)
}

// ResendOTP handles POST /v1/auth/resend-otp
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.services.Auth.ResendOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "verification code sent"})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	h.signedIn(c, user, token, err)
}

// Google handles POST /v1/auth/google
func (h *AuthHandler) Google(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.services.Auth.GoogleLogin(c.Request.Context(), req.Token)
	h.signedIn(c, user, token, err)
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (h *AuthHandler) signedIn(c *gin.Context, user *models.User, token string, err error) {
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.sessions.setCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}
