package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/hookdom/pkg/component"
	"github.com/vango-dev/hookdom/pkg/host/memhost"
	"github.com/vango-dev/hookdom/pkg/middleware"
)

// Server is the HTTP/websocket server.
type Server struct {
	config   *Config
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *middleware.Metrics

	// Session tracking
	baseCtx    context.Context
	cancel     context.CancelFunc
	sessions   sync.WaitGroup
	active     atomic.Int64
	nextID     atomic.Uint64
	httpServer *http.Server

	logger *slog.Logger
}

// New creates a Server. It panics if config.App is nil.
func New(config *Config) *Server {
	config = config.withDefaults()
	if config.App == nil {
		panic("server: Config.App is required")
	}

	s := &Server{
		config: config,
		logger: config.Logger.With("component", "server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
	}
	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	if config.Registry != nil {
		s.metrics = middleware.NewMetrics(
			middleware.WithRegistry(config.Registry),
			middleware.WithNamespace(config.MetricsNamespace),
		)
	}

	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if s.config.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{}))
	}
	r.Get("/snapshot", s.handleSnapshot)
	r.Get("/ws", s.handleWebSocket)
	return r
}

// logRequests logs each request at debug level. Websocket requests are
// logged when the session ends.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()))
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server's router, for mounting under another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleSnapshot renders a fresh component once and writes its markup.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	doc := memhost.New()
	in := component.Mount(doc, doc.Root(), s.config.App().Render,
		component.WithLogger(s.logger),
		component.WithMiddleware(middleware.Recover()))
	if err := in.RenderPass(r.Context()); err != nil {
		s.logger.Error("snapshot render failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(memhost.InnerHTML(doc.Root())))
}

// handleWebSocket upgrades the connection and serves one session until the
// client disconnects or the server shuts down.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.baseCtx.Err() != nil {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.sessions.Add(1)
	defer s.sessions.Done()

	sess := newSession(s, conn)
	s.active.Add(1)
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	defer func() {
		s.active.Add(-1)
		if s.metrics != nil {
			s.metrics.SessionClosed()
		}
	}()

	sess.serve(s.baseCtx)
}

// SessionCount returns the number of connected sessions.
func (s *Server) SessionCount() int {
	return int(s.active.Load())
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Metrics returns the pass metrics, or nil without a registry.
func (s *Server) Metrics() *middleware.Metrics {
	return s.metrics
}

// Run listens on the configured address until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown ends every session and stops the HTTP server, waiting at most
// ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Close all sessions first
	s.cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	// Hijacked connections are not tracked by http.Server.
	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("sessions still open at shutdown", "sessions", s.SessionCount())
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}
