package simulation

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seesaw/pkg/balance"
	seesawerrors "github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/registry"
)

// memGateway keeps the last saved state.
type memGateway struct {
	state   State
	found   bool
	saves   int
	saveErr error
	loadErr error
}

func (g *memGateway) Save(ctx context.Context, s State) error {
	if g.saveErr != nil {
		return g.saveErr
	}
	g.saves++
	g.state = State{Objects: append([]balance.Object(nil), s.Objects...), Angle: s.Angle}
	g.found = true
	return nil
}

func (g *memGateway) Load(ctx context.Context) (State, bool, error) {
	if g.loadErr != nil {
		return State{}, false, g.loadErr
	}
	return g.state, g.found, nil
}

// recorder captures presenter calls.
type recorder struct {
	placed   []balance.Object
	restored []Snapshot
	cleared  int
	last     Snapshot
}

func (r *recorder) ObjectPlaced(snap Snapshot, obj balance.Object) {
	r.placed = append(r.placed, obj)
	r.last = snap
}

func (r *recorder) Restored(snap Snapshot) {
	r.restored = append(r.restored, snap)
	r.last = snap
}

func (r *recorder) Cleared(snap Snapshot) {
	r.cleared++
	r.last = snap
}

func newTestController(t *testing.T, gw Gateway, p Presenter) (*Controller, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	c, err := New(Options{
		Plank:     geometry.NewPlank(400),
		IDs:       registry.NewCounterGenerator("obj-", 0),
		Weights:   FixedWeight(5),
		Gateway:   gw,
		Presenter: p,
		Logger:    log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c, &buf
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if c.Plank().Length != geometry.DefaultPlankLength {
		t.Errorf("Plank().Length = %v, want %v", c.Plank().Length, geometry.DefaultPlankLength)
	}
	if c.Params() != balance.DefaultParams() {
		t.Errorf("Params() = %+v, want defaults", c.Params())
	}
	st := c.State()
	if len(st.Objects) != 0 || st.Angle != 0 {
		t.Errorf("initial State() = %+v, want empty", st)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative plank", Options{Plank: geometry.Plank{Length: -1}}},
		{"zero torque scale", Options{Params: balance.Params{MinAngle: -30, MaxAngle: 30}}},
		{"inverted angles", Options{Params: balance.Params{TorqueScale: 10, MinAngle: 30, MaxAngle: -30}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			if !seesawerrors.Is(err, seesawerrors.ErrCodeInvalidConfig) {
				t.Errorf("New() error = %v, want %s", err, seesawerrors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestDropScenario(t *testing.T) {
	gw := &memGateway{}
	rec := &recorder{}
	c, _ := newTestController(t, gw, rec)

	obj, err := c.Drop(context.Background(), 300)
	if err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	if obj.Distance != 100 || obj.Weight != 5 || obj.ID != "obj-1" {
		t.Errorf("Drop() = %+v, want obj-1 5kg at 100", obj)
	}

	b := c.Balance()
	if b.RightTorque != 500 || b.NetTorque != 500 || b.Angle != 30 {
		t.Errorf("Balance() = %+v, want right=500 net=500 angle=30", b)
	}

	if len(rec.placed) != 1 || rec.placed[0] != obj {
		t.Errorf("presenter placed = %+v, want [%+v]", rec.placed, obj)
	}
	if rec.last.Balance != b {
		t.Errorf("presenter snapshot balance = %+v, want %+v", rec.last.Balance, b)
	}

	if gw.saves != 1 || gw.state.Angle != 30 || len(gw.state.Objects) != 1 {
		t.Errorf("gateway state = %+v (saves=%d)", gw.state, gw.saves)
	}
}

func TestPlaceTwoObjects(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	ctx := context.Background()

	// distance -50 and 40 on a 400px plank
	if _, err := c.Place(ctx, 150, 2); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if _, err := c.Place(ctx, 240, 3); err != nil {
		t.Fatalf("Place() error: %v", err)
	}

	b := c.Balance()
	want := balance.Result{
		Angle: 2, NetTorque: 20, LeftTorque: 100, RightTorque: 120,
		LeftWeight: 2, RightWeight: 3, LeftCount: 1, RightCount: 1,
	}
	if b != want {
		t.Errorf("Balance() = %+v, want %+v", b, want)
	}
	if c.State().Angle != 2 {
		t.Errorf("State().Angle = %v, want 2", c.State().Angle)
	}
}

func TestDropOutOfBounds(t *testing.T) {
	gw := &memGateway{}
	rec := &recorder{}
	c, _ := newTestController(t, gw, rec)

	for _, x := range []float64{-1, 400.5, 1e9} {
		_, err := c.Drop(context.Background(), x)
		if !seesawerrors.Is(err, seesawerrors.ErrCodeOutOfBounds) {
			t.Errorf("Drop(%v) error = %v, want OUT_OF_BOUNDS", x, err)
		}
	}

	if len(c.State().Objects) != 0 {
		t.Errorf("objects created for rejected drops: %+v", c.State().Objects)
	}
	if gw.saves != 0 || len(rec.placed) != 0 {
		t.Errorf("collaborators notified for rejected drops (saves=%d placed=%d)", gw.saves, len(rec.placed))
	}
}

func TestPlaceRejectsBadWeight(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	_, err := c.Place(context.Background(), 100, 0)
	if !seesawerrors.Is(err, seesawerrors.ErrCodeInvalidWeight) {
		t.Errorf("Place() error = %v, want INVALID_WEIGHT", err)
	}
}

func TestPlaceOnPivot(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	if _, err := c.Place(context.Background(), 200, 9); err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if b := c.Balance(); b != (balance.Result{}) {
		t.Errorf("Balance() = %+v, want zero result", b)
	}
	if len(c.State().Objects) != 1 {
		t.Error("pivot object should still be recorded")
	}
}

func TestResetPersistsThroughLoad(t *testing.T) {
	gw := &memGateway{}
	rec := &recorder{}
	c, _ := newTestController(t, gw, rec)
	ctx := context.Background()

	for _, x := range []float64{10, 250, 399} {
		if _, err := c.Drop(ctx, x); err != nil {
			t.Fatalf("Drop() error: %v", err)
		}
	}
	c.Reset(ctx)
	c.Reset(ctx)

	if st := c.State(); len(st.Objects) != 0 || st.Angle != 0 {
		t.Errorf("State() after Reset = %+v, want empty", st)
	}
	if rec.cleared != 2 {
		t.Errorf("presenter cleared %d times, want 2", rec.cleared)
	}

	fresh, _ := newTestController(t, gw, nil)
	if !fresh.Restore(ctx) {
		t.Fatal("Restore() = false, want true")
	}
	if st := fresh.State(); len(st.Objects) != 0 || st.Angle != 0 {
		t.Errorf("restored State() = %+v, want empty", st)
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	gw := &memGateway{}
	c, _ := newTestController(t, gw, nil)
	ctx := context.Background()

	for _, p := range []struct{ x, w float64 }{{20, 3}, {390, 1}, {200, 4}, {120, 7}} {
		if _, err := c.Place(ctx, p.x, p.w); err != nil {
			t.Fatalf("Place() error: %v", err)
		}
	}
	want := c.State()

	rec := &recorder{}
	restored, _ := newTestController(t, gw, rec)
	if !restored.Restore(ctx) {
		t.Fatal("Restore() = false, want true")
	}

	got := restored.State()
	if got.Angle != want.Angle {
		t.Errorf("Angle = %v, want %v", got.Angle, want.Angle)
	}
	if len(got.Objects) != len(want.Objects) {
		t.Fatalf("len(Objects) = %d, want %d", len(got.Objects), len(want.Objects))
	}
	for i := range want.Objects {
		if got.Objects[i] != want.Objects[i] {
			t.Errorf("Objects[%d] = %+v, want %+v", i, got.Objects[i], want.Objects[i])
		}
	}
	if len(rec.restored) != 1 || len(rec.restored[0].Objects) != 4 {
		t.Errorf("presenter restored = %+v, want one full snapshot", rec.restored)
	}

	// New ids continue after the restored ones.
	obj, err := restored.Place(ctx, 50, 1)
	if err != nil {
		t.Fatalf("Place() error: %v", err)
	}
	if obj.ID != "obj-5" {
		t.Errorf("next id = %q, want obj-5", obj.ID)
	}
}

func TestRestoreRecomputesAngle(t *testing.T) {
	gw := &memGateway{
		found: true,
		state: State{
			Objects: []balance.Object{{ID: "a", Weight: 2, Distance: -50}, {ID: "b", Weight: 3, Distance: 40}},
			Angle:   17,
		},
	}
	c, logs := newTestController(t, gw, nil)

	if !c.Restore(context.Background()) {
		t.Fatal("Restore() = false, want true")
	}
	if c.State().Angle != 2 {
		t.Errorf("Angle = %v, want recomputed 2", c.State().Angle)
	}
	if !strings.Contains(logs.String(), "stored angle differs") {
		t.Error("expected a log line about the stale stored angle")
	}
}

func TestRestoreFailuresFallBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		gw   *memGateway
	}{
		{"load error", &memGateway{loadErr: errors.New("disk on fire")}},
		{"invalid objects", &memGateway{found: true, state: State{
			Objects: []balance.Object{{ID: "a", Weight: -1, Distance: 10}},
		}}},
		{"off plank objects", &memGateway{found: true, state: State{
			Objects: []balance.Object{{ID: "a", Weight: 1, Distance: 900}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			c, logs := newTestController(t, tt.gw, rec)

			if c.Restore(context.Background()) {
				t.Error("Restore() = true, want false")
			}
			if st := c.State(); len(st.Objects) != 0 || st.Angle != 0 {
				t.Errorf("State() = %+v, want empty", st)
			}
			if len(rec.restored) != 0 {
				t.Error("presenter should not see a failed restore")
			}
			if !strings.Contains(logs.String(), "could not restore state") {
				t.Error("expected a warning about the failed restore")
			}

			// The simulation keeps working in memory.
			if _, err := c.Drop(context.Background(), 100); err != nil {
				t.Errorf("Drop() after failed restore error: %v", err)
			}
		})
	}
}

func TestRestoreNotFound(t *testing.T) {
	c, _ := newTestController(t, &memGateway{}, nil)
	if c.Restore(context.Background()) {
		t.Error("Restore() = true for empty gateway, want false")
	}
}

func TestSuccessfulMutationsDoNotLog(t *testing.T) {
	c, logs := newTestController(t, &memGateway{}, nil)
	ctx := context.Background()

	if _, err := c.Drop(ctx, 300); err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	c.Reset(ctx)
	if logs.Len() != 0 {
		t.Errorf("placement and reset should be reported through hooks only, got logs:\n%s", logs.String())
	}
}

func TestObjectLookup(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	obj, _ := c.Place(context.Background(), 150, 2)

	got, err := c.Object(obj.ID)
	if err != nil || got != obj {
		t.Errorf("Object(%q) = %+v, %v, want %+v", obj.ID, got, err, obj)
	}
	if _, err := c.Object("missing"); !seesawerrors.Is(err, seesawerrors.ErrCodeNotFound) {
		t.Errorf("Object(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestSaveFailureDoesNotAbort(t *testing.T) {
	gw := &memGateway{saveErr: errors.New("read-only filesystem")}
	rec := &recorder{}
	c, logs := newTestController(t, gw, rec)

	obj, err := c.Drop(context.Background(), 300)
	if err != nil {
		t.Fatalf("Drop() error = %v, want nil despite save failure", err)
	}
	if len(rec.placed) != 1 || rec.placed[0] != obj {
		t.Error("presenter should still be notified")
	}
	if c.Balance().Angle != 30 {
		t.Errorf("Angle = %v, want 30", c.Balance().Angle)
	}
	if !strings.Contains(logs.String(), "could not save state") {
		t.Error("expected a warning about the failed save")
	}

	if err := c.Save(context.Background()); err == nil {
		t.Error("explicit Save() should surface the gateway error")
	}
}

func TestMissingCollaborators(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	ctx := context.Background()

	if _, err := c.Drop(ctx, 0); err != nil {
		t.Fatalf("Drop() error: %v", err)
	}
	c.Reset(ctx)
	if c.Restore(ctx) {
		t.Error("Restore() without gateway = true, want false")
	}
	if err := c.Save(ctx); !seesawerrors.Is(err, seesawerrors.ErrCodeMissingCollaborator) {
		t.Errorf("Save() error = %v, want MISSING_COLLABORATOR", err)
	}
}

func TestMultiPresenter(t *testing.T) {
	if Multi() != nil || Multi(nil, nil) != nil {
		t.Error("Multi of no presenters should be nil")
	}

	a, b := &recorder{}, &recorder{}
	if Multi(nil, a) != Presenter(a) {
		t.Error("Multi of one presenter should return it unchanged")
	}

	c, _ := newTestController(t, nil, Multi(a, b))
	ctx := context.Background()
	if _, err := c.Drop(ctx, 10); err != nil {
		t.Fatal(err)
	}
	c.Reset(ctx)

	for i, r := range []*recorder{a, b} {
		if len(r.placed) != 1 || r.cleared != 1 {
			t.Errorf("presenter %d: placed=%d cleared=%d, want 1/1", i, len(r.placed), r.cleared)
		}
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	c, _ := newTestController(t, nil, nil)
	if _, err := c.Place(context.Background(), 100, 2); err != nil {
		t.Fatal(err)
	}

	snap := c.Snapshot()
	snap.Objects[0].Weight = 1000
	if c.State().Objects[0].Weight != 2 {
		t.Error("mutating a snapshot changed controller state")
	}
	if st := snap.State(); st.Angle != snap.Balance.Angle {
		t.Errorf("Snapshot.State().Angle = %v, want %v", st.Angle, snap.Balance.Angle)
	}
}

func TestRandomWeights(t *testing.T) {
	w, err := NewRandomWeights(1, 10, 42)
	if err != nil {
		t.Fatalf("NewRandomWeights() error: %v", err)
	}

	seen := make(map[float64]bool)
	for i := 0; i < 2000; i++ {
		v := w.Next()
		if v < 1 || v > 10 || v != float64(int(v)) {
			t.Fatalf("Next() = %v, want integer in [1, 10]", v)
		}
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Errorf("saw %d distinct weights, want all 10", len(seen))
	}

	again, _ := NewRandomWeights(1, 10, 42)
	replay, _ := NewRandomWeights(1, 10, 42)
	for i := 0; i < 20; i++ {
		if again.Next() != replay.Next() {
			t.Fatal("same seed should replay the same weights")
		}
	}

	if lo, hi := w.Range(); lo != 1 || hi != 10 {
		t.Errorf("Range() = %d, %d", lo, hi)
	}
}

func TestRandomWeightsInvalidRange(t *testing.T) {
	for _, r := range [][2]int{{0, 10}, {5, 4}, {-1, 3}} {
		if _, err := NewRandomWeights(r[0], r[1], 1); err == nil {
			t.Errorf("NewRandomWeights(%d, %d) error = nil, want error", r[0], r[1])
		}
	}
}
