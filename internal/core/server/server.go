package server

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"parcel-tracker/internal/core/config"
	"parcel-tracker/internal/core/logger"
	"parcel-tracker/internal/core/metrics"
	"parcel-tracker/internal/core/ratelimit"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "parcel-tracker/docs/swagger"
)

// RayIDHeader carries the request id in both directions.
const RayIDHeader = "X-Ray-ID"

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// limiter throttles /api requests per client IP; nil disables throttling.
	limiter ratelimit.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimiter throttles every /api route with l.
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, opts ...Option) *Server {
	s := &Server{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               cfg.ServiceName,
	})

	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Header:    RayIDHeader,
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Content-Type",
		ExposeHeaders: RayIDHeader,
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Use(observeRequests)

	if s.limiter != nil {
		app.Use("/api", rateLimit(s.limiter))
	}

	app.Get("/healthz", s.health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)

	s.App = app
	return s
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown stops accepting connections and waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.App.ShutdownWithTimeout(timeout)
}

func (s *Server) health(c *fiber.Ctx) error {
	if s.limiter != nil {
		if err := s.limiter.Ping(c.UserContext()); err != nil {
			logger.Get().Warn("Rate limiter store unreachable", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// observeRequests records request counts and latency per route template.
func observeRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	route := c.Route().Path
	metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
	metrics.HTTPRequestDurationSeconds.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
	return err
}

// rateLimit rejects clients over budget with 429. Store failures let the request through.
func rateLimit(l ratelimit.Limiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		allowed, retryAfter, err := l.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Get().Warn("Rate limiter unavailable, allowing request",
				zap.String("ip", c.IP()),
				zap.Error(err),
			)
			return c.Next()
		}

		if !allowed {
			rayID, _ := c.Locals("requestid").(string)
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":  "rate limit exceeded",
				"ray_id": rayID,
			})
		}

		return c.Next()
	}
}
