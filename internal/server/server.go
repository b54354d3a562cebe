// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: New opens the database, builds the
// services and handlers on top of it, and maps routes to handlers.
// Nothing below this package knows about the others it is wired to.
//
// DEPENDENCY FLOW:
//
//	config.Config → gormdb.DB → BookService / UserService → handlers → chi routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/config"
	"github.com/sakif/bookshelf/internal/handler"
	"github.com/sakif/bookshelf/internal/middleware"
	"github.com/sakif/bookshelf/internal/repository/gormdb"
	"github.com/sakif/bookshelf/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed when Start returns.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *gormdb.DB
}

// New opens the database described by cfg.Database and wires every route.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gormdb.Open(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}
	s.setupRoutes()

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
// GET    /healthz              → database ping
// GET    /book/{id}            → one book, or null
// GET    /dashboard            → books with authors, filtered and paged
// GET    /users                → all users
// GET    /user/{id}/drafts     → a user's unpublished books
// POST   /post                 → create a draft
// POST   /sign-up              → create a user with nested books
// POST   /user/{id}/profile    → create a profile
// PUT    /publish/{id}         → toggle published
// PUT    /book/{id}/views      → increment view count
// DELETE /book/{id}            → delete a book
//
// MIDDLEWARE ORDER:
// 1. RequestID: assigns or reuses X-Request-ID
// 2. RealIP: extracts the client IP from proxy headers
// 3. Recoverer: turns panics into 500s
// 4. Logger: one line per request, tagged with the request ID
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	passwords := auth.NewEncoder(s.config.Security.HashPasswords, s.config.Security.BcryptCost)

	bookHandler := handler.NewBookHandler(service.NewBookService(s.db, s.logger), s.logger)
	userHandler := handler.NewUserHandler(service.NewUserService(s.db, passwords, s.logger), s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Get("/dashboard", bookHandler.HandleDashboard)
	s.router.Post("/post", bookHandler.HandleCreateDraft)
	s.router.Put("/publish/{id}", bookHandler.HandleTogglePublish)
	s.router.Route("/book/{id}", func(r chi.Router) {
		r.Get("/", bookHandler.HandleGet)
		r.Delete("/", bookHandler.HandleDelete)
		r.Put("/views", bookHandler.HandleIncrementViews)
	})

	s.router.Get("/users", userHandler.HandleList)
	s.router.Post("/sign-up", userHandler.HandleSignUp)
	s.router.Route("/user/{id}", func(r chi.Router) {
		r.Get("/drafts", userHandler.HandleDrafts)
		r.Post("/profile", userHandler.HandleCreateProfile)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves HTTP until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, let in-flight requests finish within
// server.shutdown_timeout, then close the database.
func (s *Server) Start() error {
	defer s.Close()

	cfg := s.config.Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", cfg.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", cfg.Port)),
			slog.String("driver", s.config.Database.Driver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
