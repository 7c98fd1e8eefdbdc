package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/domain"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/health"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/middleware"
	"github.com/Git-of-Ritesh/NextGen-Medicine-Recommendation/internal/service"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// RecommendationService runs the recommendation pipeline
type RecommendationService interface {
	Predict(ctx context.Context, req domain.RecommendationRequest) (*service.Prediction, error)
	Recommend(ctx context.Context, req domain.RecommendationRequest) (*domain.RecommendationResult, error)
	Stream(ctx context.Context, w service.Sink, prediction *service.Prediction, mode domain.StreamMode) error
}

// AlternativesService finds brand-name alternatives for a medicine
type AlternativesService interface {
	Alternatives(ctx context.Context, name string) (*domain.AlternativesResponse, error)
}

// Server represents the HTTP server
type Server struct {
	configManager   domain.ConfigManager
	recommendations RecommendationService
	alternatives    AlternativesService
	readiness       *health.Checker
	logger          *logrus.Logger
	router          *gin.Engine
	server          *http.Server
}

// NewServer creates a new HTTP server instance. readiness may be nil.
func NewServer(configManager domain.ConfigManager, recommendations RecommendationService, alternatives AlternativesService, readiness *health.Checker, logger *logrus.Logger) *Server {
	cfg := configManager.GetConfig()

	if gin.Mode() != gin.TestMode {
		if cfg.Logging.Level == "debug" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.Metrics())
	router.Use(middleware.LimitBodySize(cfg.Server.MaxBodyBytes))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))

	server := &Server{
		configManager:   configManager,
		recommendations: recommendations,
		alternatives:    alternatives,
		readiness:       readiness,
		logger:          logger,
		router:          router,
	}

	server.setupRoutes()

	return server
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ready", s.handleReady)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.POST("/recommendations", s.handleRecommendation)
		api.POST("/recommendations/stream", s.handleRecommendationStream)
		api.POST("/alternative-medicines", s.handleAlternatives)
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.CorrelationHeader},
		ExposeHeaders:    []string{middleware.CorrelationHeader},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return cors.New(config)
}
