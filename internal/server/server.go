// Package server exposes the practice service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/abhisek/lina/internal/metrics"
	"github.com/abhisek/lina/internal/practice"
)

// Config holds the HTTP server settings.
type Config struct {
	Addr string
}

// Server is the lina HTTP API.
type Server struct {
	app     *fiber.App
	svc     *practice.Service
	metrics *metrics.Metrics
	logger  zerolog.Logger
	config  Config
}

// New creates a server with all routes registered. m may be nil.
func New(cfg Config, svc *practice.Service, m *metrics.Metrics, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "server").Logger()
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	s := &Server{
		app:     app,
		svc:     svc,
		metrics: m,
		logger:  logger,
		config:  cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	s.app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = statusFor(err)
		}
		route := c.Route().Path
		s.metrics.ObserveRequest(route, strconv.Itoa(status), time.Since(start).Seconds())

		if path := c.Path(); path != "/healthz" && path != "/metrics" {
			s.logger.Debug().
				Str("method", c.Method()).
				Str("path", path).
				Int("status", status).
				Dur("took", time.Since(start)).
				Msg("request")
		}
		return err
	})
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	v1 := s.app.Group("/api/v1")
	v1.Get("/skills", s.listSkills)
	v1.Get("/skills/buckets", s.buckets)
	v1.Get("/reminders", s.listReminders)
	v1.Get("/events", s.listEvents)
	v1.Post("/reviews", s.finishReview)
	v1.Post("/items/:id/grade", s.gradeItem)
	v1.Get("/items/due", s.dueItems)
	v1.Get("/items/:id", s.getItem)
	v1.Post("/flow", s.logFlow)
	v1.Get("/flow", s.listFlow)
}

// Start listens on the configured address. Blocks until stopped.
func (s *Server) Start() error {
	addr := s.config.Addr
	if addr == "" {
		addr = ":8080"
	}
	s.logger.Info().Str("addr", addr).Msg("http server starting")
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("http server shutting down")
	return s.app.Shutdown()
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// ProblemDetail is an RFC 7807 error body.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case lerrors.IsInvalidInput(err):
		return fiber.StatusBadRequest
	case lerrors.IsMissingSkill(err), lerrors.IsMissingItem(err):
		return fiber.StatusNotFound
	}
	return fiber.StatusInternalServerError
}

func errorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := statusFor(err)
		problem := ProblemDetail{
			Status:   code,
			Detail:   err.Error(),
			Instance: c.Path(),
		}

		switch code {
		case fiber.StatusBadRequest:
			problem.Type, problem.Title = "invalid_input", "Bad Request"
		case fiber.StatusNotFound:
			problem.Type, problem.Title = "not_found", "Not Found"
		case fiber.StatusInternalServerError:
			logger.Error().
				Err(err).
				Str("path", c.Path()).
				Str("method", c.Method()).
				Msg("unhandled error")
			problem.Type, problem.Title = "internal_error", "Internal Server Error"
			problem.Detail = "An internal error occurred"
		default:
			problem.Type, problem.Title = "error", utils.StatusMessage(code)
		}
		return c.Status(code).JSON(problem)
	}
}
