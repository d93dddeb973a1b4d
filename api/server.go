// Package api serves the REST routes the tokenization UI calls. Every route
// translates into keeper calls against the ledger.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"

	"github.com/owlprotocol/denote-workspace-sub000/ledger"
	bondkeeper "github.com/owlprotocol/denote-workspace-sub000/x/bond/keeper"
	etfkeeper "github.com/owlprotocol/denote-workspace-sub000/x/etf/keeper"
	tokenkeeper "github.com/owlprotocol/denote-workspace-sub000/x/token/keeper"
)

// Server represents the REST API server
type Server struct {
	router    *gin.Engine
	config    *Config
	logger    log.Logger
	client    ledger.Client
	custodian ledger.Party

	tokens *tokenkeeper.Keeper
	bonds  *bondkeeper.Keeper
	etf    *etfkeeper.Keeper
}

// Config holds server configuration
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	RateLimitRPS    int           `mapstructure:"rate_limit_rps"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns default server configuration
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            "8080",
		CORSOrigins:     []string{"http://localhost:3000"},
		RateLimitRPS:    50,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		RequestTimeout:  45 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new API server backed by client. custodianParty is
// reported to the UI so it can address requests to the custodian.
func NewServer(client ledger.Client, custodianParty ledger.Party, config *Config, logger log.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	tokens := tokenkeeper.NewKeeper(client, logger)

	s := &Server{
		config:    config,
		logger:    logger.With("module", "api"),
		client:    client,
		custodian: custodianParty,
		tokens:    tokens,
		bonds:     bondkeeper.NewKeeper(client, logger),
		etf:       etfkeeper.NewKeeper(client, tokens, logger),
	}
	s.setupRouter()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with all routes and middleware
func (s *Server) setupRouter() {
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()

	// order matters: recovery first, rate limiting before any ledger call
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(SecurityHeadersMiddleware())
	s.router.Use(RequestIDMiddleware())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(MetricsMiddleware(NewMetrics()))
	s.router.Use(s.CORSMiddleware())
	if s.config.RateLimitRPS > 0 {
		s.router.Use(RateLimitMiddleware(s.config.RateLimitRPS))
	}
	s.router.Use(TimeoutMiddleware(s.config.RequestTimeout))

	s.router.GET("/health", s.healthCheck)
	s.registerRoutes()
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"custodian": s.custodian,
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:           net.JoinHostPort(s.config.Host, s.config.Port),
		Handler:        s.router,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
