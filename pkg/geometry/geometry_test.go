package geometry

import "testing"

func TestPositionToDistance(t *testing.T) {
	tests := []struct {
		x, length float64
		want      float64
	}{
		{300, 400, 100},
		{100, 400, -100},
		{200, 400, 0},
		{0, 400, -200},
		{400, 400, 200},
		{25, 50, 0},
	}

	for _, tt := range tests {
		if got := PositionToDistance(tt.x, tt.length); got != tt.want {
			t.Errorf("PositionToDistance(%v, %v) = %v, want %v", tt.x, tt.length, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, length := range []float64{400, 250, 1000} {
		for x := 0.0; x <= length; x += length / 16 {
			d := PositionToDistance(x, length)
			if got := DistanceToRenderOffset(d, length); got != x {
				t.Errorf("length=%v: round trip of %v = %v", length, x, got)
			}
		}
	}
}

func TestToPlankLocal(t *testing.T) {
	if got := ToPlankLocal(350, 50); got != 300 {
		t.Errorf("ToPlankLocal(350, 50) = %v, want 300", got)
	}
}

func TestPlank(t *testing.T) {
	p := NewPlank(0)
	if p.Length != DefaultPlankLength {
		t.Fatalf("NewPlank(0).Length = %v, want %v", p.Length, DefaultPlankLength)
	}
	if p.Pivot() != 200 || p.HalfLength() != 200 {
		t.Errorf("Pivot/HalfLength = %v/%v, want 200/200", p.Pivot(), p.HalfLength())
	}

	contains := []struct {
		x    float64
		want bool
	}{
		{0, true},
		{400, true},
		{-1, false},
		{400.5, false},
	}
	for _, tt := range contains {
		if got := p.Contains(tt.x); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}

	if d := p.Distance(300); d != 100 {
		t.Errorf("Distance(300) = %v, want 100", d)
	}
	if x := p.Offset(-100); x != 100 {
		t.Errorf("Offset(-100) = %v, want 100", x)
	}
}

func TestPlankScale(t *testing.T) {
	p := NewPlank(400)
	if got := p.Scale(200, 80); got != 40 {
		t.Errorf("Scale(200, 80) = %v, want 40", got)
	}
	if got := p.Unscale(40, 80); got != 200 {
		t.Errorf("Unscale(40, 80) = %v, want 200", got)
	}
	if got := p.Unscale(40, 0); got != 0 {
		t.Errorf("Unscale with zero width = %v, want 0", got)
	}
}
