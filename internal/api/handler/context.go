package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelbook/story-api/internal/api/middleware"
)

// currentUserID returns the user id injected by the Auth middleware. A
// missing id means the route was mounted without the guard; fail closed.
func currentUserID(c echo.Context) (string, error) {
	userID, ok := middleware.UserIDFromContext(c.Request().Context())
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return userID, nil
}
