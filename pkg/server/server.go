package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coastwise/gcpkit/pkg/config"
	"github.com/coastwise/gcpkit/pkg/embedding"
	"github.com/coastwise/gcpkit/pkg/gen"
	"github.com/coastwise/gcpkit/pkg/nlp"
	"github.com/coastwise/gcpkit/pkg/server/handlers"
)

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	router     *gin.Engine
	embedder   *embedding.Client
	language   *nlp.Client
	summarizer *gen.Summarizer
	log        *slog.Logger
	server     *http.Server
}

// New creates a new server instance. The language client and summarizer are
// optional; their endpoints return 503 when nil.
func New(cfg *config.Config, embedder *embedding.Client, language *nlp.Client, summarizer *gen.Summarizer, log *slog.Logger) *Server {
	return &Server{
		config:     cfg,
		embedder:   embedder,
		language:   language,
		summarizer: summarizer,
		log:        log,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	// Set gin mode
	gin.SetMode(s.config.Server.Mode)

	// Create router
	s.router = gin.New()

	// Add middleware
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(requestIDMiddleware())

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	// Create handlers
	healthHandler := handlers.NewHealthHandler(s.embedder)
	embedHandler := handlers.NewEmbedHandler(s.embedder)
	textHandler := handlers.NewTextHandler(s.language, s.summarizer)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck)
	s.router.GET("/health/detailed", healthHandler.DetailedHealthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/embed", embedHandler.Embed)
		v1.POST("/embed/batch", embedHandler.EmbedBatch)
		v1.POST("/sentiment", textHandler.Sentiment)
		v1.POST("/summary", textHandler.Summary)
	}
}

// Start starts the server
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// Router exposes the underlying gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware tags every request with an id, honoring one supplied by
// the caller.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
