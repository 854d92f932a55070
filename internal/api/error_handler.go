package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/travelbook/story-api/internal/api/handler"
)

type errorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler for errors that escape
// handlers: router 404/405, the session guard, recovered panics. It renders
// the same {"error": true, "message": "..."} envelope as the handlers.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := handler.ErrorStatus(err)
		if code >= http.StatusInternalServerError {
			reqLog := zerolog.Ctx(c.Request().Context())
			if reqLog.GetLevel() == zerolog.Disabled {
				reqLog = &log
			}
			reqLog.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: true, Message: msg})
	}
}
