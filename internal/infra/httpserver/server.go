package httpserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/aalvaropc/brixcalc/internal/domain"
	"github.com/aalvaropc/brixcalc/internal/infra/metrics"
	"github.com/aalvaropc/brixcalc/internal/usecase"
)

// maxBodyBytes bounds form and JSON request bodies.
const maxBodyBytes = 64 << 10

// Deps are the collaborators the server needs.
type Deps struct {
	Compute *usecase.ComputeBalance
	Metrics *metrics.Registry
	Logger  *slog.Logger
	Version string
}

// Server serves the HTML form and the JSON API.
type Server struct {
	cfg     domain.Config
	deps    Deps
	router  *mux.Router
	server  *http.Server
	limiter *clientLimiter

	// overrides serves requests that ask for a dilution policy other than
	// the configured one.
	overrides map[domain.DilutionPolicy]*usecase.ComputeBalance
}

// New builds a server from the loaded configuration.
func New(cfg domain.Config, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}
	if deps.Compute == nil {
		deps.Compute = usecase.NewComputeBalance(
			usecase.NewLocalCalculator(cfg.NewCalculator()),
			usecase.WithRecorder(deps.Metrics),
			usecase.WithLogger(deps.Logger),
		)
	}

	s := &Server{
		cfg:     cfg,
		deps:    deps,
		router:  mux.NewRouter(),
		limiter: newClientLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),

		overrides: make(map[domain.DilutionPolicy]*usecase.ComputeBalance),
	}
	for _, p := range []domain.DilutionPolicy{domain.DilutionAllow, domain.DilutionReject} {
		if p == cfg.Calculation.Dilution {
			continue
		}
		s.overrides[p] = usecase.NewComputeBalance(
			usecase.NewLocalCalculator(domain.NewCalculator(domain.WithDilutionPolicy(p))),
			usecase.WithRecorder(deps.Metrics),
			usecase.WithLogger(deps.Logger),
		)
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// computeFor returns the use case for a requested policy. The configured
// calculator handles requests without an override.
func (s *Server) computeFor(p domain.DilutionPolicy, override bool) *usecase.ComputeBalance {
	if uc, ok := s.overrides[p]; override && ok {
		return uc
	}
	return s.deps.Compute
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.rateLimitMiddleware)

	s.router.HandleFunc("/", s.handleFormPage).Methods(http.MethodGet)
	s.router.HandleFunc("/", s.handleFormSubmit).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)
	api.HandleFunc("/balance", s.handleBalance).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
}

// Handler returns the routed handler; useful for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.deps.Logger.Info("server.start", "addr", ln.Addr().String(), "version", s.deps.Version)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.deps.Logger.Info("server.shutdown")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ListenAndServe listens on the configured address and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return &domain.OpError{
			Op:   "httpserver.listen",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}
	return s.Serve(ctx, ln)
}
