package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/leak-priority-service/internal/config"
	"github.com/leak-priority-service/internal/delivery/http/handler"
	"github.com/leak-priority-service/internal/delivery/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the operational HTTP surface: health, run summaries, manual job
// triggers and Prometheus metrics. It serves no report data.
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	healthHandler *handler.HealthHandler
	jobHandler    *handler.JobHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthHandler *handler.HealthHandler,
	jobHandler *handler.JobHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Leak Priority Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})

	s := &Server{
		app:           app,
		config:        cfg,
		logger:        logger,
		healthHandler: healthHandler,
		jobHandler:    jobHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery())
	s.app.Use(middleware.Logger(s.logger))
}

func (s *Server) setupRoutes() {
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := s.app.Group("/api/v1")

	api.Get("/health", s.healthHandler.Health)
	api.Get("/runs/latest", s.jobHandler.LatestRuns)
	api.Post("/jobs/sync", s.jobHandler.TriggerSync)
	api.Post("/jobs/score", s.jobHandler.TriggerScore)
}

func (s *Server) Listen() error {
	return s.app.Listen(s.config.GetServerAddr())
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
