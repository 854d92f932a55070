package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelbook/story-api/internal/core/domain"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the user id stored by Auth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey{}).(string)
	return id, ok && id != ""
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Auth validates the bearer token and stores the resolved user id in the
// request context.
func Auth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			userID, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, domain.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx := WithUserID(c.Request().Context(), userID)
			log := zerolog.Ctx(ctx).With().Str("user_id", userID).Logger()
			c.SetRequest(c.Request().WithContext(log.WithContext(ctx)))

			return next(c)
		}
	}
}
