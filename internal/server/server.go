// Package server exposes the animation engine over HTTP: job submission,
// progress streaming over websockets, and schedule previews.
package server

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/seedframe/seedframe/internal/log"
	"github.com/seedframe/seedframe/pkg/synthesis"
)

// Server is the animation job server.
type Server struct {
	app        *fiber.App
	port       string
	oracle     synthesis.Oracle
	outputRoot string
	jobs       *Store
	logger     *slog.Logger
}

// NewServer creates a job server. Frames for each job are written under
// outputRoot/<job-id>/.
func NewServer(port, outputRoot string, oracle synthesis.Oracle) *Server {
	s := &Server{
		port:       port,
		oracle:     oracle,
		outputRoot: outputRoot,
		jobs:       NewStore(),
		logger:     log.Component("server"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "seedframe",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Post("/jobs", s.handleCreateJob)
	api.Get("/jobs", s.handleListJobs)
	api.Get("/jobs/:id", s.handleGetJob)
	api.Delete("/jobs/:id", s.handleCancelJob)
	api.Post("/schedules/preview", s.handleSchedulePreview)
	api.Get("/samplers", s.handleListSamplers)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/jobs/:id", websocket.New(s.handleJobWS))

	s.app = app
	return s
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// Shutdown stops the listener and disconnects progress streams. Running
// jobs keep their contexts; cancel them individually before shutdown if
// needed.
func (s *Server) Shutdown() error {
	s.jobs.StopHubs()
	return s.app.Shutdown()
}
