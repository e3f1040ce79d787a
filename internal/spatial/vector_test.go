package spatial

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := V3(3, 4, 0).Normalize()
	if math.Abs(v.Len()-1) > 1e-12 {
		t.Errorf("expected unit length, got %v", v.Len())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Y-0.8) > 1e-12 {
		t.Errorf("unexpected direction: %+v", v)
	}

	zero := Vec3{}.Normalize()
	if !zero.IsZero() {
		t.Errorf("zero vector should normalize to zero, got %+v", zero)
	}
}

func TestLerp(t *testing.T) {
	a := V3(0, 0, 0)
	b := V3(10, -10, 4)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("t=0: expected %+v, got %+v", a, got)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("t=1: expected %+v, got %+v", b, got)
	}
	mid := a.Lerp(b, 0.5)
	if mid != (Vec3{5, -5, 2}) {
		t.Errorf("t=0.5: got %+v", mid)
	}
}

func TestFrameRange(t *testing.T) {
	tests := []struct {
		start, end int
		count      int
		valid      bool
	}{
		{0, 3, 4, true},
		{5, 5, 1, true},
		{10, 9, 0, false},
		{-2, 2, 5, true},
	}

	for _, tt := range tests {
		r := FrameRange{Start: tt.start, End: tt.end}
		if r.Valid() != tt.valid {
			t.Errorf("(%d,%d): valid = %v, want %v", tt.start, tt.end, r.Valid(), tt.valid)
		}
		if tt.valid && r.Count() != tt.count {
			t.Errorf("(%d,%d): count = %d, want %d", tt.start, tt.end, r.Count(), tt.count)
		}
	}
}
