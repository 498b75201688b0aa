package api

import (
	"net/http"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/quizfolkco/rote/pkg/registry"
	"github.com/quizfolkco/rote/pkg/worker"
)

// Server is the API server for the rote system.
type Server struct {
	config   Config
	registry *registry.Registry
	pool     *worker.Pool
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server.
// The registry is injected to allow sharing with other components
// (e.g., the MCP server and the knowledge base watcher).
// The pool may be nil, in which case review events are not published.
func NewServer(config Config, reg *registry.Registry, pool *worker.Pool, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		registry: reg,
		pool:     pool,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/api/kbs", s.handleListKnowledgeBases)
	app.Get("/api/review/state/:kb", s.handleReviewState)
	app.Post("/api/review/action", s.handleReviewAction)
	app.Post("/api/review/reset/:kb", s.handleReviewReset)
	app.Get("/api/review/export/:kb", s.handleReviewExport)

	return s
}

// Mount registers an http.Handler under the given path prefix. The MCP
// streamable HTTP handler is mounted this way.
func (s *Server) Mount(path string, h http.Handler) {
	s.app.Use(path, adaptor.HTTPHandler(h))
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
