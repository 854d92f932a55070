package ports

import (
	"context"

	"github.com/travelbook/story-api/internal/core/domain"
)

// UserRepository persists user accounts. Create must fail with
// domain.ErrUserExists when the email is already taken, atomically.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
