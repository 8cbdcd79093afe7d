package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/apexframe/apex/pkg/resolve"
	"github.com/apexframe/apex/pkg/router"
)

// tracerName identifies this package's tracer.
const tracerName = "apexframe/apex/server"

// Options configures the boundary server.
type Options struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// Logger receives request logs. Defaults to slog.Default().
	Logger *slog.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration

	// Tracer overrides the default tracer, mainly for tests.
	Tracer trace.Tracer
}

// Server is the HTTP boundary over the route registry and resolver.
// The registry and compiled programs are immutable after construction,
// so one Server handles unlimited concurrent requests without locking.
type Server struct {
	reg      *router.Registry
	resolver *resolve.Resolver
	log      *slog.Logger
	metrics  *metrics
	tracer   trace.Tracer
	opts     Options

	http *http.Server
}

// New creates a Server over the given registry.
func New(reg *router.Registry, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}

	s := &Server{
		reg:      reg,
		resolver: resolve.New(reg),
		log:      opts.Logger,
		metrics:  newMetrics(),
		tracer:   opts.Tracer,
		opts:     opts,
	}
	s.http = &http.Server{Addr: opts.Addr, Handler: s.Handler()}
	return s
}

// Handler returns the routing handler. Pages are served from the
// catch-all; operational endpoints live under /__apex/.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/__apex/healthz", s.handleHealth)
	r.Handle("/__apex/metrics", s.metrics.handler())
	r.Get("/__apex/stream", s.handleStream)
	r.HandleFunc("/*", s.handlePage)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("apex server listening", "addr", s.opts.Addr)
		errc <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
