package balance

// Accumulator maintains running per-side aggregates. The zero value is an
// empty plank. Results are identical to calling Compute over every object
// passed to Add since the last Reset.
type Accumulator struct {
	leftTorque  float64
	rightTorque float64
	leftWeight  float64
	rightWeight float64
	leftCount   int
	rightCount  int
}

// Add folds one object into the aggregates.
func (a *Accumulator) Add(o Object) {
	switch o.Side() {
	case Left:
		a.leftTorque += -o.Torque()
		a.leftWeight += o.Weight
		a.leftCount++
	case Right:
		a.rightTorque += o.Torque()
		a.rightWeight += o.Weight
		a.rightCount++
	}
}

// Reset returns the accumulator to the empty plank.
func (a *Accumulator) Reset() { *a = Accumulator{} }

// Result derives the balance from the current aggregates.
func (a *Accumulator) Result(p Params) Result {
	net := a.rightTorque - a.leftTorque
	return Result{
		Angle:       p.Angle(net),
		NetTorque:   net,
		LeftTorque:  a.leftTorque,
		RightTorque: a.rightTorque,
		LeftWeight:  a.leftWeight,
		RightWeight: a.rightWeight,
		LeftCount:   a.leftCount,
		RightCount:  a.rightCount,
	}
}
