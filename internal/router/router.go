// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/iliyamo/planetarium-reservation/internal/config"
	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/metrics"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/policy"
	"github.com/iliyamo/planetarium-reservation/internal/validation"
)

// Deps is everything Register needs. Redis may be nil, in which case rate
// limiting and the response cache are pass-through. DB is only used by the
// health check and may be nil as well.
type Deps struct {
	Cfg       config.Config
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Log       *zap.Logger
	Redis     *redis.Client
	DB        handler.Pinger

	Auth         *handler.AuthHandler
	Domes        *handler.DomeHandler
	Themes       *handler.ThemeHandler
	Shows        *handler.ShowHandler
	Sessions     *handler.SessionHandler
	Reservations *handler.ReservationHandler
}

// Register installs the global middleware chain and every route on e.
//
// Order matters: the request logger wraps everything so that rejected
// requests are logged too, and Authenticate runs before the rate limiter so
// buckets can be keyed by user.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Validator = validation.NewRequest()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(
		echomw.Recover(),
		middleware.RequestLogger(d.Log),
		middleware.Authenticate(d.Cfg.JWTSecret),
		middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log),
	)

	e.GET("/health", handler.Health(d.DB))
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	if d.Cfg.MediaRoot != "" {
		e.Static("/media", d.Cfg.MediaRoot)
	}

	if d.Auth != nil {
		registerAuth(e, d.Auth)
	}
	registerCatalog(e, d)
	if d.Reservations != nil {
		registerReservations(e, d.Reservations)
	}
}

// registerAuth mounts /user. Registration, login and refresh are open;
// the remaining endpoints need a valid access token.
func registerAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/user")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout, middleware.Authorize(policy.UserMe))
	g.GET("/me", a.Me, middleware.Authorize(policy.UserMe))
}
