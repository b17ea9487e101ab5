// Package rootapi serves root verdicts over a small local REST API.
//
// Routes:
//   - /api/health           - liveness
//   - /api/v1/verdict       - short-circuited verdict
//   - /api/v1/report        - every detector with evidence
//   - /api/v1/detectors     - detector names in run order
package rootapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/rootcheck/pkg/rootapi/handlers"
	"github.com/txn2/rootcheck/pkg/rootapi/middleware"
	"github.com/txn2/rootcheck/pkg/rootcheck"
)

// DefaultAddr keeps the API on loopback; the verdict describes the device
// and should not be exposed to the network.
const DefaultAddr = "127.0.0.1:8086"

// Server owns the HTTP listener and its router
type Server struct {
	checker   rootcheck.Checker
	version   string
	startTime time.Time
	router    *gin.Engine
}

// New creates a server backed by checker
func New(checker rootcheck.Checker, version string) *Server {
	s := &Server{
		checker:   checker,
		version:   version,
		startTime: time.Now(),
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.NoCache())

	api := r.Group("/api")
	{
		healthHandler := handlers.NewHealthHandler(s.version, s.startTime)
		api.GET("/health", healthHandler.Health)

		v1 := api.Group("/v1")
		{
			verdictHandler := handlers.NewVerdictHandler(s.checker)
			v1.GET("/verdict", verdictHandler.Verdict)
			v1.GET("/report", verdictHandler.Report)
			v1.GET("/detectors", verdictHandler.Detectors)
		}
	}

	return r
}

// Run listens on addr until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Infof("Server listening on http://%s/api", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "API server shutdown")
		}
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return errors.Wrapf(err, "API server on %s", addr)
	}
}
