package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/marcusziade/githubcards/pkg/app"
	"github.com/marcusziade/githubcards/pkg/client"
	"github.com/marcusziade/githubcards/pkg/form"
	"github.com/marcusziade/githubcards/pkg/models"
	"github.com/marcusziade/githubcards/pkg/render"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server represents the web server
type Server struct {
	app    *app.App
	router *mux.Router
	logger *zap.Logger
}

// NewServer creates a new web server
func NewServer(a *app.App, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		app:    a,
		router: mux.NewRouter(),
		logger: logger,
	}
	s.routes()
	return s
}

// routes sets up the routes for the web server
func (s *Server) routes() {
	s.router.Use(requestID, s.accessLog)

	s.router.HandleFunc("/", s.index).Methods("GET")
	s.router.HandleFunc("/profiles", s.submitForm).Methods("POST")
	s.router.HandleFunc("/api/profiles", s.listProfiles).Methods("GET")
	s.router.HandleFunc("/api/profiles", s.addProfile).Methods("POST")
	s.router.HandleFunc("/healthz", s.healthz).Methods("GET")
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("Web server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Web server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// index handles GET /
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.app.NewForm(), nil)
}

// submitForm handles POST /profiles
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Failed to parse form: %v", err), http.StatusBadRequest)
		return
	}

	f := s.app.NewForm()
	f.HandleChange(r.PostForm.Get("username"))

	if err := f.HandleSubmit(r.Context()); err != nil {
		s.logger.Info("Form submission failed", zap.String("username", f.Value()), zap.Error(err))
		s.renderPage(w, r, statusFor(err), f, err)
		return
	}

	// a cleared form means a card was added
	if f.Value() == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.renderPage(w, r, http.StatusOK, f, nil)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, f *form.Form, err error) {
	view := render.PageView{
		Title: s.app.Title(),
		Form: render.FormView{
			Action:      "/profiles",
			Placeholder: f.Input().Placeholder,
			Value:       f.Input().Value(),
			Required:    f.Input().Required,
		},
		Profiles: s.app.Profiles().Profiles(),
	}
	if err != nil {
		view.Form.Error = render.ErrorMessage(err, f.Value())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.Page(w, view); err != nil {
		s.logger.Error("Failed to render page", zap.String("request_id", RequestIDFrom(r.Context())), zap.Error(err))
	}
}

// listProfiles handles GET /api/profiles
func (s *Server) listProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.Profiles().Profiles())
}

type addProfileRequest struct {
	Username string `json:"username"`
}

// addProfile handles POST /api/profiles
func (s *Server) addProfile(w http.ResponseWriter, r *http.Request) {
	var req addProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Failed to decode request: %v", err), http.StatusBadRequest)
		return
	}

	var added *models.Profile
	f := s.app.NewForm(func(p models.Profile) { added = &p })
	f.HandleChange(req.Username)

	if err := f.HandleSubmit(r.Context()); err != nil {
		http.Error(w, render.ErrorMessage(err, req.Username), statusFor(err))
		return
	}

	if added == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	writeJSON(w, http.StatusCreated, added)
}

// healthz handles GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, form.ErrRequired):
		return http.StatusUnprocessableEntity
	case errors.Is(err, client.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
