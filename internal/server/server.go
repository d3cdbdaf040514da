// Package server exposes the conversion pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/gogpu/signkit"
	"github.com/gogpu/signkit/internal/config"
	"github.com/gogpu/signkit/internal/service"
)

// Server is the signkit HTTP API.
type Server struct {
	app *fiber.App
	cfg *config.Config
	svc *service.Service
}

// Option configures a Server.
type Option func(*options)

type options struct {
	requestLog bool
}

// WithRequestLog enables or disables the per-request access log.
func WithRequestLog(enabled bool) Option {
	return func(o *options) {
		o.requestLog = enabled
	}
}

// New builds the fiber app and registers every route.
func New(cfg *config.Config, svc *service.Service, opts ...Option) *Server {
	o := options{requestLog: true}
	for _, opt := range opts {
		opt(&o)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
		BodyLimit:    cfg.BodyLimit << 20,
		AppName:      "signkit",
		ErrorHandler: errorHandler,
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	if o.requestLog {
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	s := &Server{app: app, cfg: cfg, svc: svc}
	h := &handlers{svc: svc}

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})
	app.Get("/health/ready", h.ready)

	// ============================================================
	// Pipeline Routes
	// ============================================================

	app.Post("/prepare", h.prepare)
	app.Post("/validate", h.validate)
	app.Post("/segment", h.segment)

	// ============================================================
	// Reference Tables
	// ============================================================

	app.Get("/rules", h.rules)
	app.Get("/rules/:lighting", h.rule)
	app.Get("/materials", h.materials)
	app.Get("/led-modules", h.ledModules)

	// ============================================================
	// Presets
	// ============================================================

	presets := app.Group("/presets")
	presets.Get("/", h.listPresets)
	presets.Get("/:name", h.getPreset)
	presets.Put("/:name", h.savePreset)
	presets.Delete("/:name", h.deletePreset)

	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured port until Shutdown is called.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%s", s.cfg.Port)
	signkit.Logger().Info("starting server", "addr", addr, "env", s.cfg.Environment)
	if err := s.app.Listen(addr); err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// errorHandler renders errors that escape handlers as JSON.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		signkit.Logger().Error("request failed", "path", c.Path(), "err", err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
