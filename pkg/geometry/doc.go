// Package geometry converts between plank-local coordinates and signed
// pivot-relative distances.
//
// A plank of length L has its pivot at L/2. A plank-local coordinate x is
// measured from the plank's left edge and lies in [0, L]. The signed distance
// of x from the pivot is negative on the left, positive on the right and zero
// exactly on the pivot:
//
//	d := geometry.PositionToDistance(300, 400) // 100
//	x := geometry.DistanceToRenderOffset(d, 400) // 300
//
// The two functions are exact inverses for a fixed plank length.
package geometry
