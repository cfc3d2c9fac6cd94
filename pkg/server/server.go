package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlb-trending/trending/internal/errors"
	"github.com/mlb-trending/trending/pkg/assets"
	"github.com/mlb-trending/trending/pkg/router"
)

// Response headers set on shell documents.
const (
	HeaderRouteName = "X-Route-Name"
	HeaderRouteView = "X-Route-View"
)

// Server serves the application shell and the navigation endpoints.
type Server struct {
	router   *router.Router
	store    assets.Store
	manifest *assets.Manifest
	config   Config
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu         sync.Mutex
	httpServer *http.Server
	conns      map[*navConn]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithManifest sets the build manifest used to recognize fingerprinted
// assets.
func WithManifest(m *assets.Manifest) Option {
	return func(s *Server) {
		s.manifest = m
	}
}

// WithGatherer sets the registry exposed on the metrics path.
// Default: prometheus.DefaultGatherer
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a server resolving against r and serving documents from store.
func New(r *router.Router, store assets.Store, config Config, opts ...Option) *Server {
	defaults := DefaultConfig()
	if config.Index == "" {
		config.Index = defaults.Index
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.ReadHeaderTimeout == 0 {
		config.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.CheckOrigin == nil {
		config.CheckOrigin = SameOriginCheck
	}

	s := &Server{
		router:   r,
		store:    store,
		config:   config,
		gatherer: prometheus.DefaultGatherer,
		conns:    make(map[*navConn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.manifest == nil {
		s.manifest = assets.NewManifest()
	}
	if s.logger == nil {
		s.logger = slog.Default().With("component", "server")
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     config.CheckOrigin,
	}
	return s
}

// Handler returns the HTTP handler with every endpoint mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	if s.config.MetricsPath != "" {
		r.Method(http.MethodGet, s.config.MetricsPath,
			promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/_routes", s.handleRoutes)
	r.Get("/_resolve", s.handleResolve)
	r.Get("/_nav", s.handleNav)
	r.Get("/*", s.handleShell)
	r.Head("/*", s.handleShell)
	return r
}

// Run listens on the configured address and serves until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.New(errors.CodeServerStart).WithDetail(s.config.Address).Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(errors.CodeServerStart).Wrap(err)

	case <-ctx.Done():
		s.logger.Info("shutting down")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes navigation connections and gracefully stops the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	srv := s.httpServer
	conns := make([]*navConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	// Hijacked connections are not tracked by http.Server.
	for _, c := range conns {
		c.closeGoingAway()
	}

	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

func (s *Server) track(c *navConn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *navConn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
