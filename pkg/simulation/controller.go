package simulation

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seesaw/pkg/balance"
	"github.com/matzehuels/seesaw/pkg/errors"
	"github.com/matzehuels/seesaw/pkg/geometry"
	"github.com/matzehuels/seesaw/pkg/observability"
	"github.com/matzehuels/seesaw/pkg/registry"
)

// Options configure a Controller. Zero values fall back to the defaults:
// a 400px plank, balance.DefaultParams, UUID ids, random 1..10 kg weights.
// Gateway and Presenter may be nil.
type Options struct {
	Plank     geometry.Plank
	Params    balance.Params
	IDs       registry.IDGenerator
	Weights   WeightSource
	Gateway   Gateway
	Presenter Presenter
	Logger    *log.Logger
}

// Controller holds the simulation state with exclusive mutation rights.
// Placements, resets and restores are reported through the observability
// hooks; the logger only carries warnings and restore diagnostics.
type Controller struct {
	plank     geometry.Plank
	params    balance.Params
	reg       *registry.Registry
	weights   WeightSource
	gateway   Gateway
	presenter Presenter
	logger    *log.Logger
	result    balance.Result
}

// New creates a controller with an empty plank.
func New(opts Options) (*Controller, error) {
	if opts.Plank.Length == 0 {
		opts.Plank = geometry.NewPlank(geometry.DefaultPlankLength)
	}
	if opts.Plank.Length < 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "plank length must be positive, got %g", opts.Plank.Length)
	}
	if opts.Params == (balance.Params{}) {
		opts.Params = balance.DefaultParams()
	}
	if err := opts.Params.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "balance parameters")
	}
	if opts.Weights == nil {
		w, err := NewRandomWeights(DefaultMinWeight, DefaultMaxWeight, 0)
		if err != nil {
			return nil, err
		}
		opts.Weights = w
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Controller{
		plank:     opts.Plank,
		params:    opts.Params,
		reg:       registry.New(opts.Plank.HalfLength(), opts.IDs),
		weights:   opts.Weights,
		gateway:   opts.Gateway,
		presenter: opts.Presenter,
		logger:    opts.Logger,
	}, nil
}

// Plank returns the plank geometry.
func (c *Controller) Plank() geometry.Plank { return c.plank }

// Params returns the balance parameters.
func (c *Controller) Params() balance.Params { return c.params }

// Balance returns the current balance.
func (c *Controller) Balance() balance.Result { return c.result }

// State returns a copy of the current state.
func (c *Controller) State() State {
	return State{Objects: c.reg.Objects(), Angle: c.result.Angle}
}

// Snapshot returns a copy of the objects together with the current balance.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{Objects: c.reg.Objects(), Balance: c.result}
}

// Object looks up a placed object by id. Unknown ids are NOT_FOUND.
func (c *Controller) Object(id string) (balance.Object, error) {
	o, ok := c.reg.Get(id)
	if !ok {
		return balance.Object{}, errors.New(errors.ErrCodeNotFound, "no object %q on the plank", id)
	}
	return o, nil
}

// Drop places an object of source-chosen weight at plank-local coordinate x.
// Coordinates off the plank are rejected with OUT_OF_BOUNDS before any
// weight is drawn or object created.
func (c *Controller) Drop(ctx context.Context, x float64) (balance.Object, error) {
	if err := c.gate(ctx, x); err != nil {
		return balance.Object{}, err
	}
	return c.Place(ctx, x, c.weights.Next())
}

// Place puts an object of the given weight at plank-local coordinate x,
// recomputes the balance, notifies the presenter and saves.
func (c *Controller) Place(ctx context.Context, x, weight float64) (balance.Object, error) {
	if err := c.gate(ctx, x); err != nil {
		return balance.Object{}, err
	}

	obj, err := c.reg.Create(weight, c.plank.Distance(x))
	if err != nil {
		observability.Simulation().OnReject(ctx, x, err)
		return balance.Object{}, err
	}
	c.recompute()
	observability.Simulation().OnPlace(ctx, obj.Weight, obj.Distance, c.result.Angle)

	if c.presenter != nil {
		c.presenter.ObjectPlaced(c.Snapshot(), obj)
	}
	c.persist(ctx)
	return obj, nil
}

// Reset empties the plank. It is idempotent.
func (c *Controller) Reset(ctx context.Context) {
	c.reg.Reset()
	c.recompute()
	observability.Simulation().OnReset(ctx)

	if c.presenter != nil {
		c.presenter.Cleared(c.Snapshot())
	}
	c.persist(ctx)
}

// Restore replaces the in-memory state with the one held by the gateway.
// It reports whether a stored state was applied. Load failures and invalid
// stored objects are logged and leave the controller on an empty plank.
func (c *Controller) Restore(ctx context.Context) bool {
	if c.gateway == nil {
		c.logger.Debug("no persistence gateway; starting empty")
		return false
	}

	st, found, err := c.gateway.Load(ctx)
	if err == nil && found {
		err = c.apply(st)
	}
	observability.Simulation().OnRestore(ctx, len(st.Objects), found && err == nil, err)

	switch {
	case err != nil:
		c.logger.Warn("could not restore state; starting empty", "err", err)
		c.reg.Reset()
		c.recompute()
		return false
	case !found:
		return false
	}

	if c.presenter != nil {
		c.presenter.Restored(c.Snapshot())
	}
	return true
}

// apply installs a loaded state. The stored angle is advisory: the angle is
// always recomputed from the objects.
func (c *Controller) apply(st State) error {
	if err := c.reg.Restore(st.Objects); err != nil {
		return errors.Wrap(errors.ErrCodePersistence, err, "stored objects")
	}
	c.recompute()
	if st.Angle != c.result.Angle {
		c.logger.Debug("stored angle differs from recomputed angle",
			"stored", st.Angle,
			"recomputed", c.result.Angle)
	}
	return nil
}

// Save writes the current state through the gateway and returns any error.
// Mutations save on their own; Save exists for explicit flushes.
func (c *Controller) Save(ctx context.Context) error {
	if c.gateway == nil {
		return errors.New(errors.ErrCodeMissingCollaborator, "no persistence gateway configured")
	}
	if err := c.gateway.Save(ctx, c.State()); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (c *Controller) gate(ctx context.Context, x float64) error {
	if err := errors.ValidateClick(x, c.plank.Length); err != nil {
		observability.Simulation().OnReject(ctx, x, err)
		return err
	}
	return nil
}

func (c *Controller) recompute() {
	c.result = c.reg.Balance(c.params)
}

func (c *Controller) persist(ctx context.Context) {
	if c.gateway == nil {
		return
	}
	if err := c.gateway.Save(ctx, c.State()); err != nil {
		c.logger.Warn("could not save state; continuing in memory", "err", err)
	}
}
