package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped logger (tagged with the request id)
// to the request context and writes one access log line per request. It must
// run after echo's RequestID middleware.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		BeforeNextFunc: func(c echo.Context) {
			reqLog := base.With().
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Logger()
			c.SetRequest(c.Request().WithContext(reqLog.WithContext(c.Request().Context())))
		},
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := base.Info()
			if v.Status >= 500 {
				evt = base.Error().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
