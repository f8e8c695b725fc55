package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/civicvote/voting-api/docs"
	"github.com/civicvote/voting-api/internal/api/handler"
	"github.com/civicvote/voting-api/internal/api/middleware"
	"github.com/civicvote/voting-api/internal/core/domain"
	"github.com/civicvote/voting-api/internal/core/ports"
	"github.com/civicvote/voting-api/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router mounts. Readiness may be nil, in
// which case /health/ready reports no dependencies.
type Deps struct {
	Log       zerolog.Logger
	Auth      ports.AuthService
	Elections ports.ElectionService
	Votes     ports.VotingService
	Tokens    ports.TokenIssuer
	Readiness *handlers.ReadinessHandler

	// Registry receives the HTTP metrics. Defaults to the global registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestContext())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "voting",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Probes, metrics and docs (no auth required) ---
	health := handlers.NewHealthHandler()
	readiness := d.Readiness
	if readiness == nil {
		readiness = handlers.NewReadinessHandler(0)
	}

	e.GET("/", health.Root)
	e.GET("/health", health.Liveness)           // liveness
	e.GET("/health/ready", readiness.Readiness) // readiness: mongo and redis
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- API ---
	authHandler := handler.NewAuthHandler(d.Auth)
	electionHandler := handler.NewElectionHandler(d.Elections)
	voteHandler := handler.NewVoteHandler(d.Votes)

	authenticated := middleware.Auth(d.Tokens)
	voter := []echo.MiddlewareFunc{authenticated, middleware.RequireRole(domain.RoleUser, domain.RoleAdmin)}
	admin := []echo.MiddlewareFunc{authenticated, middleware.RequireRole(domain.RoleAdmin)}

	api := e.Group("/api")

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	api.GET("/elections", electionHandler.List, voter...)
	api.GET("/results", electionHandler.Results, voter...)
	api.POST("/election/vote", voteHandler.Cast, voter...)

	api.POST("/election", electionHandler.Create, admin...)
	api.POST("/election/candidate", electionHandler.AddCandidate, admin...)
	api.PUT("/election/:id/end", electionHandler.End, admin...)

	return e
}
