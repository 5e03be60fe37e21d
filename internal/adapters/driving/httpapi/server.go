package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tetrivo/tetra/internal/logger"
)

// DefaultAddr is the default listen address.
const DefaultAddr = "127.0.0.1:8080"

// Config holds server settings.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:8080).
	Addr string

	// RequestTimeout bounds each request (default: 30s).
	RequestTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown (default: 10s).
	ShutdownTimeout time.Duration

	// MCP, when set, is served at /mcp next to the API, without the
	// request timeout since its responses stream.
	MCP http.Handler
}

// Server serves the JSON API.
type Server struct {
	config  Config
	handler http.Handler
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, config Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	if config.Addr == "" {
		config.Addr = DefaultAddr
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 30 * time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	handler := NewRouter(ports, config.RequestTimeout)
	if config.MCP != nil {
		mux := http.NewServeMux()
		mux.Handle("/mcp", config.MCP)
		mux.Handle("/", handler)
		handler = mux
	}
	return &Server{config: config, handler: handler}, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.config.Addr
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.config.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// NewRouter builds the chi router for the API.
func NewRouter(ports *Ports, timeout time.Duration) http.Handler {
	h := &handlers{ports: ports}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)
	if timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	r.Get("/health", h.health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", h.ask)
		r.Post("/rank", h.rank)
		r.Post("/keywords", h.keywords)
		r.Post("/chunks", h.chunks)

		r.Route("/instructions", func(r chi.Router) {
			r.Get("/", h.listInstructions)
			r.Get("/{id}", h.getInstruction)
			r.Get("/{id}/chunks", h.getChunks)
			if ports.Index != nil {
				r.Post("/", h.saveInstruction)
				r.Delete("/{id}", h.deleteInstruction)
			}
		})
	})

	return r
}

// requestLogger logs each request through the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s -> %d (%s, %s)", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond),
			chimiddleware.GetReqID(r.Context()))
	})
}
