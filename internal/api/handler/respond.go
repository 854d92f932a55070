package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelbook/story-api/internal/core/domain"
)

// errorResponse is the envelope of every failed request.
type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type messageResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ErrorStatus maps an error to its HTTP status and client-facing message.
// Unknown errors are internal; their message is passed through.
func ErrorStatus(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "Invalid password"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token expired"
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrStoryNotFound):
		return http.StatusNotFound, "Travel story not found"
	case errors.Is(err, domain.ErrImageNotFound):
		return http.StatusNotFound, "Image not found"
	}

	return http.StatusInternalServerError, err.Error()
}

// respondError writes err in the error envelope. Internal errors are logged
// with the request-scoped logger.
func respondError(c echo.Context, err error) error {
	code, msg := ErrorStatus(err)
	if code >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("request failed")
	}
	return c.JSON(code, errorResponse{Error: true, Message: msg})
}

func respondMessage(c echo.Context, code int, msg string) error {
	return c.JSON(code, errorResponse{Error: true, Message: msg})
}
