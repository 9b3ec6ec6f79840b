package server

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/auth"
	"storefront/internal/core/config"
	"storefront/internal/core/logger"
	"storefront/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "storefront/docs/swagger"
)

// HealthCheck checks one dependency for /health.
type HealthCheck func(ctx context.Context) error

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// checks are the named dependency checks reported by /health.
	checks map[string]HealthCheck
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "storefront",
	})

	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Use(metrics.Middleware())

	s := &Server{
		App:    app,
		cfg:    cfg,
		checks: make(map[string]HealthCheck),
	}

	app.Get("/health", s.health)
	app.Get("/metrics", metrics.Handler())
	app.Get("/swagger/*", swagger.HandlerDefault)

	return s
}

// AddHealthCheck registers a dependency check under name.
func (s *Server) AddHealthCheck(name string, check HealthCheck) {
	s.checks[name] = check
}

// health answers 200 when every dependency responds, 503 otherwise.
func (s *Server) health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, overall := fiber.StatusOK, "ok"
	report := make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			logger.Get().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
			report[name] = err.Error()
			status, overall = fiber.StatusServiceUnavailable, "degraded"
			continue
		}
		report[name] = "ok"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":       overall,
		"dependencies": report,
	})
}

// OrderLimiter throttles order submissions to max per minute for each caller.
// Authenticated callers are keyed by user id, anonymous ones by address.
func OrderLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if p, ok := auth.PrincipalFrom(c); ok {
				return "user:" + p.UserID
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "too many order submissions, try again shortly",
				"ray_id":  auth.RayID(c),
			})
		},
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.App.ShutdownWithContext(ctx)
}
