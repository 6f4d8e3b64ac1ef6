package balance

import (
	"fmt"
	"math"
)

// Defaults for the angle derivation.
const (
	DefaultTorqueScale = 10.0
	DefaultMinAngle    = -30.0
	DefaultMaxAngle    = 30.0

	// AngleLimit bounds the magnitude of MinAngle and MaxAngle. A vertical
	// plank has no defined drawing.
	AngleLimit = 90.0
)

// Side is the plank half an object rests on.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// String returns the lowercase side name.
func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// Object is a weight placed on the plank.
type Object struct {
	ID       string  `json:"id"`
	Weight   float64 `json:"weight"`   // kilograms, > 0
	Distance float64 `json:"distance"` // pixels from pivot, signed
}

// Torque returns weight × distance, negative for objects left of the pivot.
func (o Object) Torque() float64 { return o.Weight * o.Distance }

// Side reports which half of the plank the object rests on.
func (o Object) Side() Side {
	switch {
	case o.Distance < 0:
		return Left
	case o.Distance > 0:
		return Right
	default:
		return Center
	}
}

// Params control how net torque maps to an angle.
type Params struct {
	TorqueScale float64 // torque units per degree; larger is gentler
	MinAngle    float64 // degrees, < 0
	MaxAngle    float64 // degrees, > 0
}

// DefaultParams returns TorqueScale 10 with a ±30° range.
func DefaultParams() Params {
	return Params{
		TorqueScale: DefaultTorqueScale,
		MinAngle:    DefaultMinAngle,
		MaxAngle:    DefaultMaxAngle,
	}
}

// Validate checks that the parameters describe a usable mapping.
func (p Params) Validate() error {
	if !(p.TorqueScale > 0) || math.IsInf(p.TorqueScale, 0) {
		return fmt.Errorf("torque scale must be positive, got %g", p.TorqueScale)
	}
	if !(p.MinAngle < 0) || !(p.MaxAngle > 0) {
		return fmt.Errorf("angle range must straddle zero, got [%g, %g]", p.MinAngle, p.MaxAngle)
	}
	if !(p.MinAngle > -AngleLimit) || !(p.MaxAngle < AngleLimit) {
		return fmt.Errorf("angle limits must stay within ±%g°, got [%g, %g]", AngleLimit, p.MinAngle, p.MaxAngle)
	}
	return nil
}

// Angle maps a net torque onto a clamped angle in degrees.
func (p Params) Angle(netTorque float64) float64 {
	return Clamp(netTorque/p.TorqueScale, p.MinAngle, p.MaxAngle)
}

// Result is the balance of an object list.
type Result struct {
	Angle       float64 `json:"angle"`
	NetTorque   float64 `json:"netTorque"`
	LeftTorque  float64 `json:"leftTorque"` // magnitude, >= 0
	RightTorque float64 `json:"rightTorque"`
	LeftWeight  float64 `json:"leftWeight"`
	RightWeight float64 `json:"rightWeight"`
	LeftCount   int     `json:"leftCount"`
	RightCount  int     `json:"rightCount"`
}

// Tilt names the direction the plank leans.
func (r Result) Tilt() string {
	switch {
	case r.Angle > 0:
		return "right"
	case r.Angle < 0:
		return "left"
	default:
		return "level"
	}
}

// Saturated reports whether the angle hit one of the clamp limits.
func (r Result) Saturated(p Params) bool {
	return r.Angle == p.MinAngle || r.Angle == p.MaxAngle
}

// Compute recomputes the balance of objects from scratch.
func Compute(objects []Object, p Params) Result {
	var acc Accumulator
	for _, o := range objects {
		acc.Add(o)
	}
	return acc.Result(p)
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
