package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/owlprotocol/denote-workspace-sub000/api/health"
)

// OpsServer serves Prometheus metrics and health probes.
type OpsServer struct {
	addr    string
	router  *mux.Router
	logger  log.Logger
	checker *health.Checker
}

// NewOpsServer creates the ops listener for addr
func NewOpsServer(addr string, checker *health.Checker, logger log.Logger) *OpsServer {
	s := &OpsServer{
		addr:    addr,
		router:  mux.NewRouter(),
		logger:  logger.With("module", "ops"),
		checker: checker,
	}
	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/health", checker.HealthHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/health/live", checker.LivenessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/health/ready", checker.ReadinessHandler).Methods(http.MethodGet)
	return s
}

// Handler returns the ops router
func (s *OpsServer) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled.
func (s *OpsServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting ops server", "addr", s.addr, "checks", s.checker.Names())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ops server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
