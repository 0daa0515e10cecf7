// Package billserver serves bill records over HTTP in the shape
// bill.HTTPResolver consumes. It is a development peer for the wizard.
package billserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Iron-Ham/solarsizer/internal/bill"
	"github.com/Iron-Ham/solarsizer/internal/errors"
	"github.com/Iron-Ham/solarsizer/internal/logging"
)

const (
	// DefaultRequestTimeout bounds each request.
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// Lister is implemented by resolvers that can enumerate their references.
type Lister interface {
	References() []string
}

// Server answers bill lookups from a resolver.
type Server struct {
	resolver bill.Resolver
	logger   *logging.Logger
	timeout  time.Duration
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRequestTimeout overrides DefaultRequestTimeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// New returns a Server backed by resolver.
func New(resolver bill.Resolver, opts ...Option) *Server {
	s := &Server{
		resolver: resolver,
		logger:   logging.NopLogger(),
		timeout:  DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/bills", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{reference}", s.handleBill)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("bill server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "bill server failed")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("bill server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "bill server shutdown")
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	refs := []string{}
	if l, ok := s.resolver.(Lister); ok {
		refs = l.References()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"references": refs})
}

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "reference")
	ref, err := bill.NormalizeReference(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	rec, err := s.resolver.Resolve(r.Context(), ref)
	if err != nil {
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			s.logger.WithReference(ref).Error("bill lookup failed", "error", err)
		}
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// errorBody mirrors what bill.HTTPResolver parses from failed lookups.
type errorBody struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func errorResponse(err error) (int, errorBody) {
	var resErr *errors.ResolutionError
	if errors.As(err, &resErr) {
		switch resErr.Kind {
		case errors.UnknownReference:
			return http.StatusNotFound, errorBody{Error: resErr.Error(), Suggestion: resErr.Suggestion}
		case errors.MalformedReference:
			return http.StatusBadRequest, errorBody{Error: resErr.Error()}
		case errors.Unreachable:
			return http.StatusServiceUnavailable, errorBody{Error: resErr.Error()}
		}
	}
	if errors.Is(err, errors.ErrMalformedRecord) {
		return http.StatusUnprocessableEntity, errorBody{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal error"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger logs one line per request with the chi request ID.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Debug("request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
