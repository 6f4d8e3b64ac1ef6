package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/seesaw/pkg/cache"
	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/registry"
	"github.com/matzehuels/seesaw/pkg/render"
	"github.com/matzehuels/seesaw/pkg/simulation"
	"github.com/matzehuels/seesaw/pkg/store"
)

func newTestServer(t *testing.T) (*Server, *store.KVGateway) {
	t.Helper()
	logger := log.New(io.Discard)
	plank := geometry.NewPlank(400)
	hub := NewHub(plank, logger)
	gw := store.NewKVGateway(cache.NewMemoryCache(), "seesaw:state:test", "memory")

	ctrl, err := simulation.New(simulation.Options{
		Plank:     plank,
		IDs:       registry.NewCounterGenerator("obj-", 0),
		Weights:   simulation.FixedWeight(5),
		Gateway:   gw,
		Presenter: hub,
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("simulation.New: %v", err)
	}
	return New(ctrl, hub, logger), gw
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestDropScenario(t *testing.T) {
	s, gw := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/api/objects", `{"x": 300}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decode[placedResponse](t, rec)
	if resp.Object.ID != "obj-1" || resp.Object.Distance != 100 || resp.Object.Weight != 5 {
		t.Errorf("object = %+v", resp.Object)
	}
	if resp.State.Right.Torque != 500 || resp.State.Angle != 30 {
		t.Errorf("state = %+v", resp.State)
	}
	if resp.Object.Offset != 300 {
		t.Errorf("offset = %v, want 300", resp.Object.Offset)
	}

	st, found, err := gw.Load(context.Background())
	if err != nil || !found || len(st.Objects) != 1 {
		t.Errorf("persisted = %+v, found %v, err %v", st, found, err)
	}
}

func TestDropExplicitWeight(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodPost, "/api/objects", `{"x": 150, "weight": 2}`)
	rec := do(t, s, http.MethodPost, "/api/objects", `{"x": 240, "weight": 3}`)
	resp := decode[placedResponse](t, rec)

	if resp.State.NetTorque != 20 || resp.State.Angle != 2 {
		t.Errorf("net/angle = %v/%v, want 20/2", resp.State.NetTorque, resp.State.Angle)
	}
	if resp.State.Left.Count != 1 || resp.State.Right.Count != 1 {
		t.Errorf("counts = %d/%d", resp.State.Left.Count, resp.State.Right.Count)
	}
}

func TestDropErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   seesawerrors.Code
	}{
		{"out of bounds", `{"x": 401}`, http.StatusBadRequest, seesawerrors.ErrCodeOutOfBounds},
		{"negative", `{"x": -1}`, http.StatusBadRequest, seesawerrors.ErrCodeOutOfBounds},
		{"missing x", `{}`, http.StatusBadRequest, seesawerrors.ErrCodeInvalidInput},
		{"empty body", ``, http.StatusBadRequest, seesawerrors.ErrCodeInvalidInput},
		{"bad json", `{"x":`, http.StatusBadRequest, seesawerrors.ErrCodeInvalidInput},
		{"bad weight", `{"x": 100, "weight": 0}`, http.StatusBadRequest, seesawerrors.ErrCodeInvalidWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			rec := do(t, s, http.MethodPost, "/api/objects", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			resp := decode[errorResponse](t, rec)
			if resp.Error != string(tt.code) {
				t.Errorf("error = %q, want %q", resp.Error, tt.code)
			}

			state := decode[render.View](t, do(t, s, http.MethodGet, "/api/state", ""))
			if len(state.Objects) != 0 {
				t.Errorf("rejected drop created %d objects", len(state.Objects))
			}
		})
	}
}

func TestResetAndState(t *testing.T) {
	s, gw := newTestServer(t)
	do(t, s, http.MethodPost, "/api/objects", `{"x": 10}`)
	do(t, s, http.MethodPost, "/api/objects", `{"x": 20}`)

	state := decode[render.View](t, do(t, s, http.MethodGet, "/api/state", ""))
	if len(state.Objects) != 2 || state.Angle != -30 {
		t.Fatalf("state = %+v", state)
	}

	rec := do(t, s, http.MethodDelete, "/api/objects", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	state = decode[render.View](t, rec)
	if len(state.Objects) != 0 || state.Angle != 0 {
		t.Errorf("after reset = %+v", state)
	}

	st, found, _ := gw.Load(context.Background())
	if !found || len(st.Objects) != 0 {
		t.Errorf("persisted after reset = %+v", st)
	}
}

func TestSVG(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/objects", `{"x": 300}`)

	rec := do(t, s, http.MethodGet, "/api/plank.svg", "")
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `id="object-obj-1"`) {
		t.Error("SVG missing placed object")
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[seesawerrors.Code]int{
		seesawerrors.ErrCodeOutOfBounds:         http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidInput:        http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidWeight:       http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidFormat:       http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidConfig:       http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidBackend:      http.StatusBadRequest,
		seesawerrors.ErrCodeInvalidSlot:         http.StatusBadRequest,
		seesawerrors.ErrCodeNotFound:            http.StatusNotFound,
		seesawerrors.ErrCodePersistence:         http.StatusInternalServerError,
		seesawerrors.ErrCodeMissingCollaborator: http.StatusServiceUnavailable,
		seesawerrors.ErrCodeInternal:            http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := statusFor(seesawerrors.New(code, "x")); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", code, got, want)
		}
	}
	if got := statusFor(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("statusFor(uncoded) = %d, want 500", got)
	}
}

func TestGetObject(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPost, "/api/objects", `{"x": 150, "weight": 2}`)

	rec := do(t, s, http.MethodGet, "/api/objects/obj-1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	obj := decode[render.ObjectView](t, rec)
	if obj.ID != "obj-1" || obj.Distance != -50 || obj.Weight != 2 || obj.Side != "left" {
		t.Errorf("object = %+v", obj)
	}

	rec = do(t, s, http.MethodGet, "/api/objects/obj-9", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
	if e := decode[errorResponse](t, rec); e.Error != string(seesawerrors.ErrCodeNotFound) {
		t.Errorf("error = %+v", e)
	}
}

func TestAttachRegistersBeforeSnapshot(t *testing.T) {
	s, _ := newTestServer(t)
	c := &client{send: make(chan []byte, sendBuffer)}

	s.hub.attach(c, &s.mu, func() Event {
		// A mutation racing the connect must already see this client.
		if s.hub.Len() != 1 {
			t.Error("snapshot taken before the client was registered")
		}
		return Event{Type: EventSnapshot, State: render.NewView(s.ctrl.Snapshot(), s.ctrl.Plank())}
	})

	do(t, s, http.MethodPost, "/api/objects", `{"x": 300}`)

	var first, second Event
	if err := json.Unmarshal(<-c.send, &first); err != nil {
		t.Fatalf("decode first: %v", err)
	}
	if err := json.Unmarshal(<-c.send, &second); err != nil {
		t.Fatalf("decode second: %v", err)
	}
	if first.Type != EventSnapshot || len(first.State.Objects) != 0 {
		t.Errorf("first event = %+v, want empty snapshot", first)
	}
	if second.Type != EventPlaced || len(second.State.Objects) != 1 {
		t.Errorf("second event = %+v, want placement", second)
	}
}

func TestWebSocketPush(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	read := func() Event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		return ev
	}

	if ev := read(); ev.Type != EventSnapshot || len(ev.State.Objects) != 0 {
		t.Fatalf("first event = %+v", ev)
	}

	resp, err := http.Post(ts.URL+"/api/objects", "application/json", strings.NewReader(`{"x": 100}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	ev := read()
	if ev.Type != EventPlaced || ev.Object == nil || ev.Object.Distance != -100 {
		t.Fatalf("placed event = %+v", ev)
	}
	if ev.State.Angle != -30 {
		t.Errorf("angle = %v, want -30", ev.State.Angle)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/objects", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()

	if ev := read(); ev.Type != EventCleared || len(ev.State.Objects) != 0 {
		t.Errorf("cleared event = %+v", ev)
	}
}
