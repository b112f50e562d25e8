// Package server implements the demo HTTP API. The same routes are offered
// on a chi router and on a plain net/http ServeMux.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mcncl/scriptkit/internal/models"
	"github.com/mcncl/scriptkit/internal/parser"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Users is the fixed list returned by GET /api/users.
var Users = []string{"Alice", "Bob", "Charlie"}

type handlers struct {
	name   string
	logger *zap.Logger
}

func newHandlers(name string, logger *zap.Logger) *handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &handlers{name: name, logger: logger}
}

func (h *handlers) welcome(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, render.M{"message": fmt.Sprintf("Welcome to %s!", h.name)})
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, render.M{"users": Users})
}

func (h *handlers) createUser(w http.ResponseWriter, r *http.Request) {
	data, err := parser.Parse(r.Body)
	if err != nil {
		h.logger.Warn("rejected user data", zap.Error(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, render.M{"error": "Invalid JSON"})
		return
	}
	h.logger.Info("received user data", zap.String("data", models.Compact(data)))
	render.JSON(w, r, render.M{"message": "User created successfully"})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, render.M{"error": "Not Found"})
}

// CORS allows any origin and answers every OPTIONS request itself.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		h.Set("Content-Type", "application/json")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request at info level.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// NewRouter returns the API on a chi router.
func NewRouter(name string, logger *zap.Logger) http.Handler {
	h := newHandlers(name, logger)

	r := chi.NewRouter()
	r.Use(RequestLogger(h.logger))
	r.Use(CORS)

	r.HandleFunc("/", h.welcome)
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", h.listUsers)
		r.Post("/users", h.createUser)
	})
	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.notFound)
	return r
}

// NewMux returns the API on a net/http ServeMux.
func NewMux(name string, logger *zap.Logger) http.Handler {
	h := newHandlers(name, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			h.welcome(w, r)
		case r.URL.Path == "/api/users" && r.Method == http.MethodGet:
			h.listUsers(w, r)
		case r.URL.Path == "/api/users" && r.Method == http.MethodPost:
			h.createUser(w, r)
		default:
			h.notFound(w, r)
		}
	})
	return RequestLogger(h.logger)(CORS(mux))
}

// Run serves handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		return nil
	})
	return eg.Wait()
}
