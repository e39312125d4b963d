package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"portfolio-assistant/backend/internal/constants"
	"portfolio-assistant/backend/internal/services"
	"portfolio-assistant/backend/pkg/config"
	"portfolio-assistant/backend/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Options controls the HTTP surface
type Options struct {
	Port            string
	AllowedOrigins  []string
	RateLimitRPS    float64
	RateLimitBurst  int
	SuggestionLimit int
	Production      bool
}

// OptionsFromConfig maps application configuration onto server options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Port:            cfg.Port,
		AllowedOrigins:  cfg.Origins(),
		RateLimitRPS:    cfg.RateLimitRPS,
		RateLimitBurst:  cfg.RateLimitBurst,
		SuggestionLimit: cfg.SuggestionLimit,
		Production:      cfg.IsProduction(),
	}
}

// Server is the HTTP and WebSocket front end for the assistant
type Server struct {
	assistant *services.Assistant
	opts      Options
	router    *gin.Engine
	limiter   *ipRateLimiter
	logger    *zap.Logger
}

// New builds the router and registers every route
func New(assistant *services.Assistant, opts Options) *Server {
	if opts.SuggestionLimit <= 0 {
		opts.SuggestionLimit = constants.DefaultSuggestionLimit
	}
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		assistant: assistant,
		opts:      opts,
		router:    gin.New(),
		logger:    logger.Get(),
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = newIPRateLimiter(opts.RateLimitRPS, max(1, opts.RateLimitBurst))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(ginLogger(s.logger))
	r.Use(gin.Recovery())
	r.Use(cors(s.opts.AllowedOrigins))

	// Health check
	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(rateLimit(s.limiter))
	}
	{
		api.POST("/chat", s.handleChat)
		api.POST("/suggestions", s.handleSuggestions)
		api.GET("/faqs", s.handleFAQs)

		g := api.Group("/graph")
		g.GET("/stats", s.handleGraphStats)
		g.GET("/entities", s.handleEntities)
		g.GET("/entities/:id", s.handleEntity)
		g.GET("/entities/:id/connected", s.handleConnected)
		g.GET("/paths", s.handlePaths)
	}

	ws := r.Group("/ws")
	if s.limiter != nil {
		ws.Use(rateLimit(s.limiter))
	}
	ws.GET("/chat", s.handleWebSocket)
}

// Handler returns the router for use with httptest or a custom server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.opts.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("Server started", zap.String("port", s.opts.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("Server exited")
	return nil
}
