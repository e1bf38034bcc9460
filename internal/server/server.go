package server

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"omr-grader/internal/config"
	"omr-grader/internal/omr"
)

type ServerOption func(*Server) error

// Server ties the Fiber engine, the grading processor and the result
// store together behind a functional-options constructor.
type Server struct {
	engine     *fiber.App
	log        *logrus.Logger
	cfg        *config.Config
	middleware Middleware
	validator  *validator.Validate
	processor  *omr.Processor
	results    *ResultStore
	handlers   []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.processor == nil {
		return nil, fmt.Errorf("processor is required")
	}

	if server.validator == nil {
		server.validator = config.NewValidator()
	}
	if server.middleware == nil {
		server.middleware = NewMiddleware(server.log, 50, 100)
	}
	if server.results == nil {
		server.results = NewResultStore()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithConfig(cfg *config.Config) ServerOption {
	return func(s *Server) error {
		s.cfg = cfg
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithProcessor injects the grading processor. The processor carries
// its own validated answer key and grid, so the server never touches
// key files at request time.
func WithProcessor(processor *omr.Processor) ServerOption {
	return func(s *Server) error {
		if processor == nil {
			return fmt.Errorf("processor must not be nil")
		}
		s.processor = processor
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		reqRate, burst := 50.0, 100
		if s.cfg != nil {
			reqRate, burst = s.cfg.RateLimit, s.cfg.RateBurst
		}
		s.middleware = NewMiddleware(s.log, reqRate, burst)
		return nil
	}
}

func WithResultStore(store *ResultStore) ServerOption {
	return func(s *Server) error {
		s.results = store
		return nil
	}
}

func (s *Server) RegisterHandler() {
	maxUpload := int64(10) << 20
	if s.cfg != nil {
		maxUpload = int64(s.cfg.UploadLimitMB) << 20
	}

	evaluationHandlers := NewEvaluationHandler(s.log, s.validator, s.middleware, s.processor, s.results, maxUpload)

	s.setupHealthCheck()
	s.handlers = append(s.handlers, evaluationHandlers)
}

// Router mounts the middleware chain and every registered handler under
// /api/v1 and returns the engine. Call it once; Run does so itself.
func (s *Server) Router() *fiber.App {
	router := s.engine.Group("/api/v1")
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggerMiddleware())

	for _, h := range s.handlers {
		h.Start(router)
	}

	return s.engine
}

func (s *Server) Run() error {
	engine := s.Router()

	port := os.Getenv("APP_PORT")
	if s.cfg != nil && s.cfg.Port != "" {
		port = s.cfg.Port
	}
	if port == "" {
		port = "3000"
	}

	return engine.Listen(fmt.Sprintf(":%s", port))
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "OMR grader is healthy!",
		})
	})
}

// NewFiber builds the Fiber app with the jsoniter codec and the upload
// body limit from configuration. The body limit is double the file
// limit so base64 JSON bodies of a maximum-size sheet still fit.
func NewFiber(cfg *config.Config) *fiber.App {
	appName := "OMR Grader"
	bodyLimit := 20 * 1024 * 1024
	if cfg != nil {
		appName = cfg.AppName
		bodyLimit = 2 * cfg.UploadLimitMB * 1024 * 1024
	}

	app := fiber.New(
		fiber.Config{
			AppName:           appName,
			BodyLimit:         bodyLimit,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: true,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
		})

	return app
}
