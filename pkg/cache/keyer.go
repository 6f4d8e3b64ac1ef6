package cache

// Keyer produces storage keys for persisted simulation data.
type Keyer interface {
	// StateKey returns the key holding the simulation state of a slot.
	StateKey(slot string) string
}

// DefaultKeyer produces keys of the form "seesaw:state:<slot>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// StateKey returns the state key for slot.
func (DefaultKeyer) StateKey(slot string) string {
	return "seesaw:state:" + slot
}

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend (for example one Redis database) without key collisions.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "classroom-b:")
//	k.StateKey("default") // "classroom-b:seesaw:state:default"
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// StateKey generates a prefixed state key.
func (k *ScopedKeyer) StateKey(slot string) string {
	return k.prefix + k.inner.StateKey(slot)
}
