package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/camlink/camera-registry/docs"
	"github.com/camlink/camera-registry/internal/api/handler"
	"github.com/camlink/camera-registry/internal/api/middleware"
	"github.com/camlink/camera-registry/internal/core/domain"
	"github.com/camlink/camera-registry/internal/core/ports"
	"github.com/camlink/camera-registry/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Presence ports.PresenceService
	// Checkers are pinged by GET /health/ready, keyed by dependency name.
	Checkers map[string]handlers.Checker
	Cookie   handler.CookieConfig

	CORSOrigins []string
	// PresenceServerOnly restricts POST /estado-camara to server accounts.
	PresenceServerOnly bool
	// DisableMetrics skips the Prometheus middleware and /metrics route.
	DisableMetrics bool
	Log            zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	if !d.DisableMetrics {
		e.Use(echoprometheus.NewMiddleware("camera_registry"))
	}
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
	}))

	authHandler := handler.NewAuthHandler(d.Auth, d.Cookie)
	presenceHandler := handler.NewPresenceHandler(d.Presence)
	session := middleware.Session(d.Auth, d.Cookie.Name)

	// --- Account routes ---
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)

	// --- Presence routes ---
	e.GET("/check-auth", presenceHandler.CheckAuth, session)
	cameraMW := []echo.MiddlewareFunc{session}
	if d.PresenceServerOnly {
		cameraMW = append(cameraMW, middleware.RBAC(string(domain.RoleServer)))
	}
	e.POST("/estado-camara", presenceHandler.SetCameraState, cameraMW...)
	e.GET("/ping", presenceHandler.Ping)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(d.Checkers)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	if !d.DisableMetrics {
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
