package geometry

// DefaultPlankLength is the plank length in pixels.
const DefaultPlankLength = 400.0

// PositionToDistance converts a plank-local coordinate into a signed distance
// from the pivot. The caller is responsible for bounds checking clickX.
func PositionToDistance(clickX, plankLength float64) float64 {
	return clickX - plankLength/2
}

// DistanceToRenderOffset converts a signed pivot distance back into an offset
// from the plank's left edge.
func DistanceToRenderOffset(distance, plankLength float64) float64 {
	return plankLength/2 + distance
}

// ToPlankLocal converts an absolute horizontal position (screen column,
// viewport pixel) into a plank-local coordinate given the position of the
// plank's left edge in the same space.
func ToPlankLocal(screenX, plankLeft float64) float64 {
	return screenX - plankLeft
}

// Plank describes a straight plank balanced on a pivot at its center.
type Plank struct {
	Length float64
}

// NewPlank returns a plank of the given length. Non-positive lengths fall
// back to DefaultPlankLength.
func NewPlank(length float64) Plank {
	if length <= 0 {
		length = DefaultPlankLength
	}
	return Plank{Length: length}
}

// Pivot returns the plank-local coordinate of the pivot.
func (p Plank) Pivot() float64 { return p.Length / 2 }

// HalfLength returns the largest distance an object can sit from the pivot.
func (p Plank) HalfLength() float64 { return p.Length / 2 }

// Contains reports whether x lies on the plank, ends included.
func (p Plank) Contains(x float64) bool { return x >= 0 && x <= p.Length }

// Distance converts a plank-local coordinate into a signed pivot distance.
func (p Plank) Distance(x float64) float64 { return PositionToDistance(x, p.Length) }

// Offset converts a signed pivot distance into a plank-local coordinate.
func (p Plank) Offset(d float64) float64 { return DistanceToRenderOffset(d, p.Length) }

// Scale maps a plank-local coordinate onto a surface of the given width,
// e.g. a terminal row or an SVG viewport.
func (p Plank) Scale(x, width float64) float64 {
	return x / p.Length * width
}

// Unscale is the inverse of Scale.
func (p Plank) Unscale(v, width float64) float64 {
	if width == 0 {
		return 0
	}
	return v / width * p.Length
}
