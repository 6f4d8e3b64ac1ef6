package simulation

import (
	"context"

	"github.com/matzehuels/seesaw/pkg/balance"
)

// State is the persisted form of a simulation: the placed objects in
// placement order and the angle derived from them.
type State struct {
	Objects []balance.Object `json:"objects"`
	Angle   float64          `json:"angle"`
}

// Empty returns the initial state: no objects, level plank.
func Empty() State {
	return State{Objects: []balance.Object{}}
}

// Snapshot is what presenters receive after every recompute.
type Snapshot struct {
	Objects []balance.Object `json:"objects"`
	Balance balance.Result   `json:"balance"`
}

// State converts the snapshot to its persisted form.
func (s Snapshot) State() State {
	return State{Objects: s.Objects, Angle: s.Balance.Angle}
}

// Gateway loads and saves the full simulation state.
type Gateway interface {
	// Save replaces the stored state.
	Save(ctx context.Context, s State) error

	// Load returns the stored state. found is false when nothing was saved.
	Load(ctx context.Context) (s State, found bool, err error)
}

// Presenter renders simulation changes.
type Presenter interface {
	// ObjectPlaced is called after a placement with the new object.
	ObjectPlaced(snap Snapshot, obj balance.Object)

	// Restored is called after state was loaded; snap holds the full list.
	Restored(snap Snapshot)

	// Cleared is called after a reset.
	Cleared(snap Snapshot)
}

// multiPresenter fans out to several presenters in order.
type multiPresenter []Presenter

// Multi combines presenters. Nil entries are dropped; if none remain the
// result is nil, which the controller treats as "no presenter".
func Multi(ps ...Presenter) Presenter {
	var out multiPresenter
	for _, p := range ps {
		if p != nil {
			out = append(out, p)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	}
	return out
}

func (m multiPresenter) ObjectPlaced(snap Snapshot, obj balance.Object) {
	for _, p := range m {
		p.ObjectPlaced(snap, obj)
	}
}

func (m multiPresenter) Restored(snap Snapshot) {
	for _, p := range m {
		p.Restored(snap)
	}
}

func (m multiPresenter) Cleared(snap Snapshot) {
	for _, p := range m {
		p.Cleared(snap)
	}
}
