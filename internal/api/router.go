package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/travelbook/story-api/internal/api/handler"
	"github.com/travelbook/story-api/internal/api/middleware"
	"github.com/travelbook/story-api/internal/core/ports"
)

// Deps holds everything the router wires into handlers.
type Deps struct {
	AuthService  ports.AuthService
	StoryService ports.StoryService
	ImageService ports.ImageService
	Tokens       middleware.TokenVerifier

	// Readiness checks run by GET /health/ready.
	Checks []handler.DependencyCheck

	// AssetsDir is served under /assets.
	AssetsDir string

	Log zerolog.Logger

	// Registerer and Gatherer back the HTTP metrics and GET /metrics.
	// Nil values select the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "travelstory",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(d.AuthService)
	storyHandler := handler.NewStoryHandler(d.StoryService)
	imageHandler := handler.NewImageHandler(d.ImageService)
	requireAuth := middleware.Auth(d.Tokens)

	// --- Account routes ---
	e.POST("/create-account", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.GET("/get-user", authHandler.GetUser, requireAuth)

	// --- Image routes (no auth required) ---
	e.POST("/image-upload", imageHandler.Upload)
	e.DELETE("/delete-image", imageHandler.Delete)
	e.GET("/uploads/:filename", imageHandler.Serve)
	if d.AssetsDir != "" {
		e.Static("/assets", d.AssetsDir)
	}

	// --- Story routes ---
	e.POST("/add-travel-story", storyHandler.Add, requireAuth)
	e.GET("/get-all-stories", storyHandler.ListMine, requireAuth)
	e.GET("/get-stories", storyHandler.ListAll, requireAuth)
	e.PUT("/edit-story/:id", storyHandler.Edit, requireAuth)
	e.DELETE("/delete-story/:id", storyHandler.Delete, requireAuth)
	e.PUT("/update-is-favourite/:id", storyHandler.Favourite, requireAuth)
	e.GET("/search", storyHandler.Search, requireAuth)
	e.GET("/travel-stories/filter", storyHandler.Filter, requireAuth)

	// --- Health checks (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks...)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: d.Gatherer,
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
