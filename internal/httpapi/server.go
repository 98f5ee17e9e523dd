// Package httpapi exposes the task use cases over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskboard/internal/domain"
	"github.com/runoshun/taskboard/internal/usecase"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "taskboard-api"

// UseCases holds the operations served by the API.
type UseCases struct {
	ListTasks  *usecase.ListTasks
	NewTask    *usecase.NewTask
	EditTask   *usecase.EditTask
	DeleteTask *usecase.DeleteTask
}

// Server is the HTTP front end of the task service.
type Server struct {
	handler http.Handler
	log     *slog.Logger
	limiter *rateLimiter
	cfg     domain.ServerConfig
}

// New builds the routes and middleware chain.
func New(uc UseCases, cfg domain.ServerConfig, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		cfg:     cfg,
		log:     log,
		limiter: newRateLimiter(cfg.RateLimit, cfg.RateWindow(), time.Now),
	}

	h := &handlers{uc: uc, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/tasks", h.listTasks)
	mux.HandleFunc("POST /api/tasks", h.createTask)
	mux.HandleFunc("PATCH /api/tasks/{id}", h.patchTask)
	mux.HandleFunc("DELETE /api/tasks/{id}", h.deleteTask)
	mux.HandleFunc("/", h.notFound)

	s.handler = chain(mux,
		requestID,
		accessLog(log),
		securityHeaders,
		cors(cfg.FrontendOrigin),
		rateLimit(s.limiter),
		bodyLimit(cfg.BodyLimit),
	)
	return s
}

// Handler returns the root handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ListenAndServe listens on the configured address and calls Run.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Run(ctx, ln)
}
