// Package registry owns the ordered list of objects placed on the plank and
// hands out their identities.
package registry

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/errors"
)

// IDGenerator produces identifiers that are unique for the generator's lifetime.
type IDGenerator interface {
	NextID() string
}

// UUIDGenerator issues random (version 4) UUIDs.
type UUIDGenerator struct{}

// NextID returns a fresh UUID string.
func (UUIDGenerator) NextID() string { return uuid.NewString() }

// CounterGenerator issues monotonically increasing ids of the form
// "<prefix><n>", starting at 1.
type CounterGenerator struct {
	Prefix string
	n      atomic.Uint64
}

// NewCounterGenerator returns a counter that resumes after start, so ids
// issued after a restore never collide with restored ones.
func NewCounterGenerator(prefix string, start uint64) *CounterGenerator {
	g := &CounterGenerator{Prefix: prefix}
	g.n.Store(start)
	return g
}

// NextID returns the next id in sequence.
func (g *CounterGenerator) NextID() string {
	return g.Prefix + strconv.FormatUint(g.n.Add(1), 10)
}

// Resume advances the counter past every id in ids that carries the
// generator's prefix.
func (g *CounterGenerator) Resume(ids []string) {
	for _, id := range ids {
		if !strings.HasPrefix(id, g.Prefix) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(id, g.Prefix), 10, 64)
		if err != nil {
			continue
		}
		for {
			cur := g.n.Load()
			if n <= cur || g.n.CompareAndSwap(cur, n) {
				break
			}
		}
	}
}

// resumer is implemented by generators that must skip ids loaded from storage.
type resumer interface {
	Resume(ids []string)
}

// Registry is the mutable list of placed objects. It is not safe for
// concurrent use; callers serialise access.
type Registry struct {
	halfLength float64
	ids        IDGenerator
	objects    []balance.Object
	seen       map[string]struct{}
}

// New creates an empty registry for a plank with the given half length.
// A nil generator defaults to UUIDGenerator.
func New(halfLength float64, ids IDGenerator) *Registry {
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Registry{
		halfLength: halfLength,
		ids:        ids,
		seen:       make(map[string]struct{}),
	}
}

// Create appends a new object and returns it.
func (r *Registry) Create(weight, distance float64) (balance.Object, error) {
	if err := errors.ValidateWeight(weight); err != nil {
		return balance.Object{}, err
	}
	if err := errors.ValidateDistance(distance, r.halfLength); err != nil {
		return balance.Object{}, err
	}

	id := r.ids.NextID()
	if _, dup := r.seen[id]; dup {
		return balance.Object{}, errors.New(errors.ErrCodeInternal, "id generator repeated %q", id)
	}

	o := balance.Object{ID: id, Weight: weight, Distance: distance}
	r.objects = append(r.objects, o)
	r.seen[id] = struct{}{}
	return o, nil
}

// Reset removes every object.
func (r *Registry) Reset() {
	r.objects = nil
	clear(r.seen)
}

// Restore replaces the contents wholesale, keeping the given order. Every
// object must satisfy the same preconditions as Create and ids must be unique.
// On error the registry is left unchanged.
func (r *Registry) Restore(objects []balance.Object) error {
	seen := make(map[string]struct{}, len(objects))
	for i, o := range objects {
		if o.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "object %d has no id", i)
		}
		if _, dup := seen[o.ID]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate object id %q", o.ID)
		}
		if err := errors.ValidateWeight(o.Weight); err != nil {
			return fmt.Errorf("object %q: %w", o.ID, err)
		}
		if err := errors.ValidateDistance(o.Distance, r.halfLength); err != nil {
			return fmt.Errorf("object %q: %w", o.ID, err)
		}
		seen[o.ID] = struct{}{}
	}

	r.objects = append([]balance.Object(nil), objects...)
	r.seen = seen
	if g, ok := r.ids.(resumer); ok {
		ids := make([]string, len(objects))
		for i, o := range objects {
			ids[i] = o.ID
		}
		g.Resume(ids)
	}
	return nil
}

// Objects returns a copy of the objects in placement order.
func (r *Registry) Objects() []balance.Object {
	if len(r.objects) == 0 {
		return []balance.Object{}
	}
	return append([]balance.Object(nil), r.objects...)
}

// Get returns the object with the given id.
func (r *Registry) Get(id string) (balance.Object, bool) {
	for _, o := range r.objects {
		if o.ID == id {
			return o, true
		}
	}
	return balance.Object{}, false
}

// Len returns the number of objects.
func (r *Registry) Len() int { return len(r.objects) }

// Balance recomputes the balance over every object.
func (r *Registry) Balance(p balance.Params) balance.Result {
	return balance.Compute(r.objects, p)
}
