package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-fukushima/mdbatch/pkg/domain/interfaces"
	"github.com/m-fukushima/mdbatch/pkg/usecase"
)

// config holds internal HTTP server configuration
type config struct {
	addr               string
	maxUploadBytes     int64
	defaultConcurrency int
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithMaxUploadBytes caps the total size of one upload request
func WithMaxUploadBytes(n int64) Option {
	return func(c *config) {
		if n > 0 {
			c.maxUploadBytes = n
		}
	}
}

// WithDefaultConcurrency sets the worker count used when the request does
// not specify one
func WithDefaultConcurrency(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.defaultConcurrency = n
		}
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	convertUC interfaces.ConvertUseCase,
	store *usecase.Store,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:               "localhost:8080",
		maxUploadBytes:     200 << 20,
		defaultConcurrency: 4,
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	convertHandler := NewConvertHandler(convertUC, store,
		cfg.maxUploadBytes, cfg.defaultConcurrency)

	// Upload UI
	router.Get("/", convertHandler.HandleIndex)

	// Conversion API
	router.Route("/api", func(r chi.Router) {
		r.Post("/convert", convertHandler.HandleConvert)
		r.Route("/batches/{batchID}", func(r chi.Router) {
			r.Get("/", convertHandler.HandleBatch)
			r.Delete("/", convertHandler.HandleDeleteBatch)
			r.Get("/files/{index}", convertHandler.HandleFile)
			r.Get("/archive", convertHandler.HandleArchive)
		})
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
