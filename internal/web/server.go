// Package web exposes the application over HTTP: dashboard and report
// views, transaction mutations, login and logout, the notification
// snapshot, and a pass-through proxy to the remote cash-flow API.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"aruskas/internal/auth"
	"aruskas/internal/config"
	"aruskas/internal/log"
	"aruskas/internal/notify"
	"aruskas/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Server struct {
	cfg      *config.Config
	flows    *store.Store
	auth     *auth.Store
	notifier *notify.Notifier
	validate *validator.Validate
	router   chi.Router
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer wires routes and middleware, returning a ready-to-mount handler.
func NewServer(cfg *config.Config, flows *store.Store, authStore *auth.Store, notifier *notify.Notifier) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		flows:    flows,
		auth:     authStore,
		notifier: notifier,
		validate: validator.New(),
		logger:   slog.Default().With(log.FieldComponent, log.ComponentWeb),
		now:      time.Now,
	}

	proxy, err := s.newAPIProxy()
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", handleHealth)

	r.Get("/login", s.redirectIfAuthenticated(s.handleLoginPage))
	r.Post("/login", s.handleLogin)

	// Everything below needs a session.
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/report", s.handleReport)

		r.Post("/transactions", s.handleCreateTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/notification", s.handleNotification)
		r.Post("/logout", s.handleLogout)

		r.Handle("/api/*", proxy)
	})

	s.router = r
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
