package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mcq-exam-api/internal/dto"
	"github.com/noah-isme/mcq-exam-api/internal/models"
	"github.com/noah-isme/mcq-exam-api/internal/repository"
	appErrors "github.com/noah-isme/mcq-exam-api/pkg/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	BcryptCost int
	ProfileTTL time.Duration
}

// AuthService provides registration, login, logout and profile lookups.
type AuthService struct {
	repo      authUserRepository
	sessions  *SessionService
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, sessions *SessionService, cache *CacheService, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.BcryptCost <= 0 {
		config.BcryptCost = DefaultBcryptCost
	}
	return &AuthService{repo: repo, sessions: sessions, cache: cache, validator: validate, logger: logger, config: config}
}

// Register creates a user and opens a session for it.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.AcademicQualification = strings.TrimSpace(req.AcademicQualification)

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Name, email, and password are required")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Invalid email format")
	}
	if len(req.Password) < MinPasswordLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Password must be at least 6 characters long")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid registration payload")
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up user")
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "User with this email already exists")
	}

	hash, err := HashPassword(req.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if req.AcademicQualification != "" {
		qualification := req.AcademicQualification
		user.AcademicQualification = &qualification
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "User with this email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create user")
	}

	token, _, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return &dto.AuthResult{User: user, SessionToken: token}, nil
}

// Login checks credentials and opens a session. Unknown email and wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if user == nil || !VerifyPassword(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, _, err := s.sessions.Create(user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.cache.Set(ctx, profileCacheKey(user.ID), user.Public(), s.config.ProfileTTL)
	return &dto.AuthResult{User: user, SessionToken: token}, nil
}

// Logout drops the cached profile and, when enabled, revokes the session server side.
// It succeeds for anonymous callers so the cookie can always be cleared.
func (s *AuthService) Logout(ctx context.Context, claims *models.SessionClaims) error {
	if claims == nil {
		return nil
	}
	if err := s.cache.Invalidate(ctx, profileCacheKey(claims.UserID)); err != nil {
		s.logger.Warn("failed to invalidate profile cache", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	if err := s.sessions.Revoke(ctx, claims); err != nil {
		s.logger.Warn("failed to revoke session", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	return nil
}

// CurrentUser resolves the public profile of the session owner.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	if userID == "" {
		return nil, appErrors.ErrUnauthorized
	}

	var cached models.PublicUser
	if s.cache.Get(ctx, profileCacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}

	public := user.Public()
	s.cache.Set(ctx, profileCacheKey(userID), public, s.config.ProfileTTL)
	return &public, nil
}
