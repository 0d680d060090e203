// Package web provides the browser-based admin UI for BenDB tables.
package web

import (
	"context"
	"crypto/rand"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds configuration for the admin server
type Config struct {
	Registry      *manager.Registry
	Addr          string
	DefaultTable  string
	SessionSecret string
	Logger        *slog.Logger
}

// Server is the admin UI server.
// Handlers run one at a time since the row store does no locking.
type Server struct {
	registry     *manager.Registry
	addr         string
	defaultTable string
	sessionStore *sessions.CookieStore
	templates    *template.Template
	logger       *slog.Logger
	mu           sync.Mutex
}

// NewServer creates a new admin server instance
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("no admin.session_secret configured, flash cookies will not survive a restart")
	}

	sessionStore := sessions.NewCookieStore(secret)
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		registry:     cfg.Registry,
		addr:         cfg.Addr,
		defaultTable: cfg.DefaultTable,
		sessionStore: sessionStore,
		templates:    tmpl,
		logger:       logger,
	}, nil
}

// Handler returns the router serving the admin UI
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/", s.index)
	r.Route("/rows", func(r chi.Router) {
		r.Post("/", s.addRow)
		r.Get("/{table}/{pk}/edit", s.editRow)
		r.Post("/update", s.updateRow)
		r.Post("/delete", s.deleteRow)
	})
	return r
}

// Serve starts the admin server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting admin UI", slog.String("addr", "http://"+s.addr))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down admin UI...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
