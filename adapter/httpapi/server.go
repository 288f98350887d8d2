// Package httpapi exposes the availability engine's query API over REST,
// using gin for routing and middleware.
package httpapi

import (
	"context"
	"log/slog"
	"time"

	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Config holds server-level settings independent of the engine itself.
type Config struct {
	Addr           string
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// DefaultConfig returns sensible defaults for local/dev use.
func DefaultConfig() Config {
	return Config{
		Addr:           "0.0.0.0:8080",
		AllowedOrigins: []string{"http://localhost:3000"},
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
	}
}

// Server wraps a gin.Engine and the underlying net/http.Server.
type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *slog.Logger
}

// NewServer builds a Server with the availability routes registered
// under /v1.
func NewServer(cfg Config, handler *Handler, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = cfg.AllowedOrigins
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsCfg))

	engine.GET("/health", handleHealth)

	v1 := engine.Group("/v1")
	{
		v1.POST("/organizers/:organizerId/availability", handler.CalculateSlots)
		v1.POST("/organizers/:organizerId/availability/invalidate", handler.InvalidateCache)
		v1.GET("/organizers/:organizerId/availability/dirty", handler.ListDirty)
	}

	return &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.logger.Info("starting availability API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down availability API server")
	return s.server.Shutdown(ctx)
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().UTC().Format(time.RFC3339)})
}
