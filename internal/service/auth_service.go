package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blog-platform-api/internal/apperr"
	"github.com/blog-platform-api/internal/auth"
	"github.com/blog-platform-api/internal/config"
	"github.com/blog-platform-api/internal/mailer"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/blog-platform-api/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxOTPAttempts is how many wrong codes a record survives
const maxOTPAttempts = 5

type authService struct {
	repos *repository.Repositories
	deps  Deps
	cfg   config.AuthConfig
	log   zerolog.Logger
}

func newAuthService(repos *repository.Repositories, deps Deps, cfg config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		repos: repos,
		deps:  deps,
		cfg:   cfg,
		log:   log.With().Str("service", "auth").Logger(),
	}
}

// Register stores a pending sign-up and emails a verification code. The
// account is created once the code is verified.
func (s *authService) Register(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)
	if errs := validation.ValidateRegistration(name, email, password); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	if err := s.registrationOpen(ctx); err != nil {
		return err
	}

	existing, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return apperr.Conflict("email already registered")
	}

	passwordHash, err := auth.HashSecret(password)
	if err != nil {
		return err
	}

	return s.issueOTP(ctx, &models.OTPRecord{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: passwordHash,
	})
}

// VerifyOTP checks the code for email. A pending sign-up creates the
// account; otherwise the existing account is signed in.
func (s *authService) VerifyOTP(ctx context.Context, email, code string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if code == "" {
		return nil, "", apperr.Validation([]validation.ValidationError{{Field: "otp", Message: "otp is required"}})
	}

	record, err := s.deps.OTP.Get(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, "", apperr.NotFound("no pending verification for this email")
	}
	if record.Expired(s.deps.Now()) {
		if err := s.deps.OTP.Delete(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("Failed to clear expired OTP")
		}
		return nil, "", apperr.Expired("OTP expired")
	}
	if !auth.CheckSecret(code, record.CodeHash) {
		return nil, "", s.failedAttempt(ctx, record)
	}

	if err := s.deps.OTP.Delete(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("Failed to clear used OTP")
	}

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		if record.PasswordHash == "" {
			return nil, "", apperr.NotFound("user not found")
		}
		user, err = s.createUser(ctx, &models.User{
			Name:         record.Name,
			Email:        email,
			PasswordHash: record.PasswordHash,
		})
		if err != nil {
			return nil, "", err
		}
	}

	return s.session(user)
}

// ResendOTP issues a fresh code. With no pending sign-up, a registered
// email gets a sign-in code instead.
func (s *authService) ResendOTP(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if errs := validation.ValidateEmail(email); len(errs) > 0 {
		return apperr.Validation(errs)
	}

	record, err := s.deps.OTP.Get(ctx, email)
	if err != nil {
		return err
	}
	if record == nil {
		user, err := s.repos.User.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("no pending verification for this email")
		}
		if user.IsBanned {
			return apperr.Forbidden("your account has been banned")
		}
		record = &models.OTPRecord{Email: email}
	}

	return s.issueOTP(ctx, record)
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = normalizeEmail(email)
	if errs := validation.ValidateLogin(email, password); len(errs) > 0 {
		return nil, "", apperr.Validation(errs)
	}

	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || !auth.CheckSecret(password, user.PasswordHash) {
		return nil, "", apperr.Unauthorized("invalid email or password")
	}

	return s.session(user)
}

// GoogleLogin signs in with a Google ID token, creating the account on
// first use
func (s *authService) GoogleLogin(ctx context.Context, idToken string) (*models.User, string, error) {
	if idToken == "" {
		return nil, "", apperr.Validation([]validation.ValidationError{{Field: "token", Message: "token is required"}})
	}

	identity, err := s.deps.Social.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, auth.ErrSocialToken) {
			return nil, "", apperr.Unauthorized("invalid Google token")
		}
		return nil, "", err
	}

	email := normalizeEmail(identity.Email)
	user, err := s.repos.User.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		if err := s.registrationOpen(ctx); err != nil {
			return nil, "", err
		}
		name := identity.Name
		if name == "" {
			name = strings.Split(email, "@")[0]
		}
		user, err = s.createUser(ctx, &models.User{Name: name, Email: email, AvatarURL: identity.AvatarURL})
		if err != nil {
			return nil, "", err
		}
	}

	return s.session(user)
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.deps.Tokens.Parse(token)
	if err != nil {
		return nil, apperr.Unauthorized("not authenticated")
	}

	user, err := s.repos.User.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Unauthorized("not authenticated")
	}
	if user.IsBanned {
		return nil, apperr.Forbidden("your account has been banned")
	}
	return user, nil
}

func (s *authService) session(user *models.User) (*models.User, string, error) {
	if user.IsBanned {
		return nil, "", apperr.Forbidden("your account has been banned")
	}
	token, err := s.deps.Tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// createUser stores a new account. A concurrent sign-up for the same
// email resolves to the account that won.
func (s *authService) createUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()
	user.CreatedAt = s.deps.Now()

	err := s.repos.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return s.repos.User.GetByEmail(ctx, user.Email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Bool("is_admin", user.IsAdmin).Msg("User created")
	return user, nil
}

func (s *authService) issueOTP(ctx context.Context, record *models.OTPRecord) error {
	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	if record.CodeHash, err = auth.HashSecret(code); err != nil {
		return err
	}
	record.ExpiresAt = s.deps.Now().Add(s.cfg.OTPTTL)
	record.Attempts = 0

	if err := s.deps.OTP.Save(ctx, record); err != nil {
		return err
	}

	body := fmt.Sprintf("Your verification code is %s. It expires in %s.", code, s.cfg.OTPTTL)
	mailer.Async(s.deps.Mailer, s.log, record.Email, "Your verification code", body)
	return nil
}

// failedAttempt counts a wrong code. The record is dropped once
// maxOTPAttempts is reached, so a new code has to be requested.
func (s *authService) failedAttempt(ctx context.Context, record *models.OTPRecord) error {
	record.Attempts++
	if record.Attempts >= maxOTPAttempts {
		if err := s.deps.OTP.Delete(ctx, record.Email); err != nil {
			return fmt.Errorf("failed to clear OTP: %w", err)
		}
		s.log.Warn().Str("email", record.Email).Msg("OTP attempts exhausted")
		return apperr.TooManyRequests("too many invalid attempts; request a new code")
	}
	if err := s.deps.OTP.Save(ctx, record); err != nil {
		return fmt.Errorf("failed to save OTP: %w", err)
	}
	return apperr.BadRequest("invalid OTP")
}

func (s *authService) registrationOpen(ctx context.Context) error {
	cfg, err := s.repos.SiteConfig.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}
	if cfg != nil && !cfg.AllowRegistration {
		return apperr.Forbidden("registration is currently closed")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
