package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/travelbook/story-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byEmail map[string]*domain.User
	seq     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byEmail: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Create mirrors the unique email index: the existence check and the insert
// are one step.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = "user-" + strconv.Itoa(r.seq)
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret")
	return NewAuthService(repo, tokens, 0, 0, zerolog.Nop()), tokens
}

func expiryOf(t *testing.T, token string) time.Time {
	t.Helper()
	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return claims.ExpiresAt.Time
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	res, err := svc.Register(context.Background(), "Alice Doe", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.User.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if cost, _ := bcrypt.Cost([]byte(res.User.PasswordHash)); cost != 10 {
		t.Fatalf("expected bcrypt cost 10, got %d", cost)
	}

	userID, err := tokens.Verify(res.Token)
	if err != nil || userID != res.User.ID {
		t.Fatalf("token does not resolve to new user: %q %v", userID, err)
	}

	ttl := time.Until(expiryOf(t, res.Token))
	if ttl < 47*time.Hour || ttl > 48*time.Hour {
		t.Fatalf("expected ~48h token, got %s", ttl)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	cases := [][3]string{
		{"", "a@example.com", "pass"},
		{"Alice", "", "pass"},
		{"Alice", "a@example.com", ""},
	}
	for _, c := range cases {
		if _, err := svc.Register(context.Background(), c[0], c[1], c[2]); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %v, got %v", c, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "Bob", "bob@example.com", "pass"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Bobby", "bob@example.com", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(repo.byEmail) != 1 {
		t.Fatalf("expected a single stored user, got %d", len(repo.byEmail))
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	reg, err := svc.Register(context.Background(), "Carol", "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.FullName != "Carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	userID, err := tokens.Verify(res.Token)
	if err != nil || userID != reg.User.ID {
		t.Fatalf("login token does not resolve to user: %q %v", userID, err)
	}

	ttl := time.Until(expiryOf(t, res.Token))
	if ttl < 7*24*time.Hour-time.Hour || ttl > 7*24*time.Hour {
		t.Fatalf("expected ~7d token, got %s", ttl)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	_, _ = svc.Register(context.Background(), "Dave", "dave@example.com", "goodpass")
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CurrentUser
// ---------------------------------------------------------------------------

func TestAuthService_CurrentUser(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	reg, _ := svc.Register(context.Background(), "Erin", "erin@example.com", "pw")

	user, err := svc.CurrentUser(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.CurrentUser(context.Background(), "missing"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
