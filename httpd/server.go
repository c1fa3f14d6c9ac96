// Package httpd serves the submission form and the JSON submission API.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/netutil"

	"github.com/rdb-forms/rdb-app-sheets/log"
	"github.com/rdb-forms/rdb-app-sheets/submission"
)

const shutdownTimeout = 5 * time.Second

type Config struct {
	HTTPAddr string
	// MaxConnections caps simultaneous connections. Zero is unlimited.
	MaxConnections int
	Title          string
}

type Server struct {
	config Config
	server *http.Server
}

func NewServer(config Config, submissions *submission.Handler) *Server {
	if config.Title == "" {
		config.Title = "RDB"
	}

	return &Server{
		config: config,
		server: &http.Server{
			Addr:              config.HTTPAddr,
			Handler:           NewRouter(config.Title, submissions),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// NewRouter returns the HTTP handler for the landing page, the submission API and the
// liveness probe.
func NewRouter(title string, submissions *submission.Handler) http.Handler {
	h := handlers{
		submissions: submissions,
		title:       title,
	}

	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(logger)
	r.Use(middleware.Recoverer)

	r.Get("/", h.index)
	r.Get("/healthz", healthz)
	r.Post("/api/submit", h.submit)

	return otelhttp.NewHandler(r, "rdb-app-sheets")
}

// ListenAndServe serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("unable to listen on %v (%w)", s.config.HTTPAddr, err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if s.config.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, s.config.MaxConnections)
	}

	log.Infof("Listening on %v", listener.Addr())

	errs := make(chan error, 1)
	go func() {
		errs <- s.server.Serve(listener)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Infof("Shutting down")
		if err := s.server.Shutdown(shutdown); err != nil {
			return err
		}

		return nil
	}
}
