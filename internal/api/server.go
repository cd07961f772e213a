// Package api assembles the gin engine, middleware, and routes for the
// gateway's HTTP surface.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/icanbwell/language-model-gateway/internal/api/handlers"
	"github.com/icanbwell/language-model-gateway/internal/buildinfo"
	"github.com/icanbwell/language-model-gateway/internal/config"
	"github.com/icanbwell/language-model-gateway/internal/logging"
	log "github.com/sirupsen/logrus"
)

// Server is the gateway HTTP server.
type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.Config
}

// NewServer builds the HTTP server with routes wired to the given handlers.
func NewServer(cfg *config.Config, chatHandler *handlers.ChatHandler, modelsHandler *handlers.ModelsHandler) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(logging.GinLogrusLogger())
	engine.Use(logging.GinLogrusRecovery())
	engine.Use(corsMiddleware())

	s := &Server{
		engine: engine,
		cfg:    cfg,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler: engine,
		},
	}

	v1 := engine.Group("/api/v1")
	v1.POST("/chat/completions", chatHandler.Completions)
	v1.GET("/models", modelsHandler.List)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": buildinfo.Version,
		})
	})

	return s
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	log.Debugf("Starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	log.Debug("Stopping API server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	log.Debug("API server stopped")
	return nil
}

// corsMiddleware adds permissive CORS headers and answers preflight requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
