package ports

import (
	"context"
	"time"

	"github.com/travelbook/story-api/internal/core/domain"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	User  *domain.User
	Token string
}

type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}

// TokenService issues and verifies bearer tokens carrying a user id.
type TokenService interface {
	Issue(userID string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}
