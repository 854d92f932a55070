package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
	"github.com/travelbook/story-api/internal/pkg/metrics"
)

const (
	DefaultRegisterTokenTTL = 48 * time.Hour
	DefaultLoginTokenTTL    = 7 * 24 * time.Hour
)

// AuthService implements registration, login and session user lookup.
type AuthService struct {
	repo        ports.UserRepository
	tokens      ports.TokenService
	registerTTL time.Duration
	loginTTL    time.Duration
	log         zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, registerTTL, loginTTL time.Duration, log zerolog.Logger) *AuthService {
	if registerTTL <= 0 {
		registerTTL = DefaultRegisterTokenTTL
	}
	if loginTTL <= 0 {
		loginTTL = DefaultLoginTokenTTL
	}
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		registerTTL: registerTTL,
		loginTTL:    loginTTL,
		log:         log,
	}
}

// Register creates an account and returns it with a fresh token. Email
// uniqueness is left to the repository's atomic insert.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*ports.AuthResult, error) {
	if strings.TrimSpace(fullName) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.NewValidationError("All fields are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedOn:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "conflict").Inc()
		}
		return nil, err
	}

	token, err := s.tokens.Issue(created.ID, s.registerTTL)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return &ports.AuthResult{User: created, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "unknown_user").Inc()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, s.loginTTL)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return &ports.AuthResult{User: user, Token: token}, nil
}

// CurrentUser resolves the session user. A user id that no longer exists is
// reported as domain.ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
