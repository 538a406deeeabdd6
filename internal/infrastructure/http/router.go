package http

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	// registers the OpenAPI document served under /swagger
	_ "github.com/socialconnect/social-api/docs"
	apimiddleware "github.com/socialconnect/social-api/internal/api/middleware"
	"github.com/socialconnect/social-api/internal/infrastructure/http/handlers"
)

// formOverheadBytes leaves room for the text fields that travel next to an
// upload in the same multipart body.
const formOverheadBytes = 1 << 20

// RouterOptions configures the shared HTTP plumbing.
type RouterOptions struct {
	Logger         zerolog.Logger
	MaxUploadBytes int64
	// Checks feeds the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Checker
	// MetricsSubsystem prefixes the HTTP metrics. Empty disables them.
	MetricsSubsystem string
}

// NewRouter builds the Echo instance with global middleware and the ops
// routes. API routes are registered on the result by the caller.
func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(apimiddleware.RequestLogger(opts.Logger))
	e.Use(middleware.CORS())
	if opts.MaxUploadBytes > 0 {
		e.Use(middleware.BodyLimit(strconv.FormatInt(opts.MaxUploadBytes+formOverheadBytes, 10)))
	}
	if opts.MetricsSubsystem != "" {
		e.Use(echoprometheus.NewMiddleware(opts.MetricsSubsystem))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(opts.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
