package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/buildinfo"
	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
)

// dropRequest is the body of POST /api/objects. Weight is optional; when
// absent the controller's weight source chooses it.
type dropRequest struct {
	X      *float64 `json:"x"`
	Weight *float64 `json:"weight,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, render.NewView(s.snapshot(), s.ctrl.Plank()))
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	body := http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, seesawerrors.Wrap(seesawerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.X == nil {
		writeError(w, seesawerrors.New(seesawerrors.ErrCodeInvalidInput, "field x is required"))
		return
	}

	s.mu.Lock()
	var (
		obj balance.Object
		err error
	)
	if req.Weight != nil {
		obj, err = s.ctrl.Place(r.Context(), *req.X, *req.Weight)
	} else {
		obj, err = s.ctrl.Drop(r.Context(), *req.X)
	}
	snap := s.ctrl.Snapshot()
	s.mu.Unlock()

	if err != nil {
		writeError(w, err)
		return
	}

	plank := s.ctrl.Plank()
	view := render.NewView(simulation.Snapshot{Objects: []balance.Object{obj}}, plank)
	writeJSON(w, http.StatusCreated, placedResponse{
		Object: view.Objects[0],
		State:  render.NewView(snap, plank),
	})
}

func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	obj, err := s.ctrl.Object(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	view := render.NewView(simulation.Snapshot{Objects: []balance.Object{obj}}, s.ctrl.Plank())
	writeJSON(w, http.StatusOK, view.Objects[0])
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.ctrl.Reset(r.Context())
	snap := s.ctrl.Snapshot()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, render.NewView(snap, s.ctrl.Plank()))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	svg := render.RenderSVG(s.snapshot(),
		render.WithPlank(s.ctrl.Plank()),
		render.WithParams(s.ctrl.Params()))
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(svg)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, &s.mu, func() Event {
		return Event{Type: EventSnapshot, State: render.NewView(s.ctrl.Snapshot(), s.ctrl.Plank())}
	})
}
