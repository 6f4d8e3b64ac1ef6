// Package balance computes the torque balance of a first-class lever.
//
// Objects sit on a plank at a signed distance from the pivot: negative on the
// left, positive on the right. Each contributes torque = weight × distance.
// [Compute] folds an arbitrary object list into per-side aggregates and
// derives the plank angle:
//
//	left   = Σ |w·d| over d < 0
//	right  = Σ  w·d  over d > 0
//	net    = right − left
//	angle  = clamp(net / TorqueScale, MinAngle, MaxAngle)
//
// Objects exactly on the pivot contribute to neither side. A right-heavy
// plank has a positive angle.
//
// Compute is pure and total: it accepts any finite object list, including an
// empty one, and never fails. [Accumulator] maintains the same aggregates
// incrementally for callers that want running totals without a full rescan.
package balance
