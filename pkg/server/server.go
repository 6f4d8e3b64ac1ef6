package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// Server serves one controller.
type Server struct {
	mu      sync.Mutex
	ctrl    *simulation.Controller
	hub     *Hub
	logger  *log.Logger
	started time.Time
	router  chi.Router
}

// New wires the routes. hub may be nil when websocket push is not wanted;
// when set it should also be the controller's presenter.
func New(ctrl *simulation.Controller, hub *Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		ctrl:    ctrl,
		hub:     hub,
		logger:  logger,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/objects", s.handleDrop)
		r.Delete("/objects", s.handleReset)
		r.Get("/objects/{id}", s.handleObject)
		r.Get("/plank.svg", s.handleSVG)
	})
	if s.hub != nil {
		r.Get("/ws", s.handleWS)
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	if s.hub != nil {
		s.hub.Close()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// snapshot reads the controller under the lock.
func (s *Server) snapshot() simulation.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Snapshot()
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := seesawerrors.GetCode(err)
	if code == "" {
		code = seesawerrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(err), errorResponse{Error: string(code), Message: seesawerrors.UserMessage(err)})
}

// statusFor maps an error to an HTTP status. Every caller-input code
// (INVALID_*, OUT_OF_BOUNDS) is a 400.
func statusFor(err error) int {
	if seesawerrors.IsValidation(err) {
		return http.StatusBadRequest
	}
	switch seesawerrors.GetCode(err) {
	case seesawerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case seesawerrors.ErrCodeMissingCollaborator:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// placedResponse is the body of a successful POST /api/objects.
type placedResponse struct {
	Object render.ObjectView `json:"object"`
	State  render.View       `json:"state"`
}
