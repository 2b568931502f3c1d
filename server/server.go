package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/wikiredirect/health"
	"github.com/jonwraymond/wikiredirect/observe"
	"github.com/jonwraymond/wikiredirect/resolve"
)

// Resolver is the resolution behavior the server needs.
type Resolver interface {
	Resolve(ctx context.Context, rawTitle string) (resolve.Result, error)
	Home() string
}

var _ Resolver = (*resolve.Resolver)(nil)

// Config configures a Server.
type Config struct {
	Resolver Resolver
	Health   *health.Aggregator

	// Metrics serves /metrics when non-nil.
	Metrics http.Handler

	// Middleware wraps every route. Nil means no request telemetry.
	Middleware *observe.Middleware

	// Logger defaults to a no-op logger.
	Logger observe.Logger

	// ShutdownTimeout bounds graceful shutdown in Run. Default: 10s.
	ShutdownTimeout time.Duration
}

// Server serves redirects.
type Server struct {
	resolver        Resolver
	logger          observe.Logger
	handler         http.Handler
	shutdownTimeout time.Duration
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, ErrNilResolver
	}
	if cfg.Health == nil {
		return nil, ErrNilHealth
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		resolver:        cfg.Resolver,
		logger:          cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /t/{title}", s.handleTitle)
	health.RegisterHandlers(mux, cfg.Health)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	s.handler = mux
	if cfg.Middleware != nil {
		s.handler = cfg.Middleware.Handler(mux)
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.resolver.Home(), http.StatusFound)
}

func (s *Server) handleTitle(w http.ResponseWriter, r *http.Request) {
	res, err := s.resolver.Resolve(r.Context(), r.PathValue("title"))
	if err != nil {
		code := StatusFor(err)
		http.Error(w, http.StatusText(code), code)
		return
	}
	http.Redirect(w, r, res.URL, http.StatusFound)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like Run but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info(gctx, "listening", observe.F("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info(context.WithoutCancel(gctx), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), s.shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
