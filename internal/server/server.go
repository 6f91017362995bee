package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// DefaultAddr is the listen address used when none is configured
const DefaultAddr = ":5000"

// Options configures the HTTP boundary
type Options struct {
	Addr            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

// DefaultOptions listens on DefaultAddr and allows any origin
func DefaultOptions() Options {
	return Options{
		Addr:            DefaultAddr,
		AllowedOrigins:  []string{"*"},
		ShutdownTimeout: 5 * time.Second,
	}
}

// Server exposes the simulator over HTTP. Handlers share one catalog and
// engine; both are read-only so requests run without locking.
type Server struct {
	catalog *catalog.RateCatalog
	compare *compare.CompareEngine
	options Options
	log     *logrus.Entry
	handler http.Handler
}

// New builds a server over a rate catalog
func New(cat *catalog.RateCatalog, options Options, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.WithField("module", "server")
	}
	if options.Addr == "" {
		options.Addr = DefaultAddr
	}
	if len(options.AllowedOrigins) == 0 {
		options.AllowedOrigins = []string{"*"}
	}
	if options.ShutdownTimeout <= 0 {
		options.ShutdownTimeout = 5 * time.Second
	}

	engine := calculation.NewRegimeEngine(cat)
	engine.SetLogger(log.WithField("component", "engine"))

	s := &Server{
		catalog: cat,
		compare: compare.NewCompareEngine(engine),
		options: options,
		log:     log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /simulate", s.handleSimulate)
	mux.HandleFunc("POST /calculate", s.handleCalculate)
	mux.HandleFunc("GET /catalog", s.handleCatalog)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: options.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	s.handler = requestID(s.logRequests(c.Handler(mux)))

	return s
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.options.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server listening at %v", s.options.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
