package motion

import (
	"math"
	"testing"
)

func TestVec2Basics(t *testing.T) {
	v := V2(3, 4)
	w := V2(-1, 2)

	if got := v.Add(w); got != (Vec2{2, 6}) {
		t.Errorf("Add = %v, want {2 6}", got)
	}
	if got := v.Sub(w); got != (Vec2{4, 2}) {
		t.Errorf("Sub = %v, want {4 2}", got)
	}
	if got := v.Mul(2); got != (Vec2{6, 8}) {
		t.Errorf("Mul = %v, want {6 8}", got)
	}
	if got := v.Neg(); got != (Vec2{-3, -4}) {
		t.Errorf("Neg = %v, want {-3 -4}", got)
	}
	if got := v.Dot(w); got != 5 {
		t.Errorf("Dot = %v, want 5", got)
	}
	if got := v.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := v.LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v, want 25", got)
	}
}

func TestVec2Perp(t *testing.T) {
	v := V2(3, 4)
	p := v.Perp()

	if got := v.Dot(p); got != 0 {
		t.Errorf("Dot(v, Perp(v)) = %v, want 0", got)
	}
	if got := p.Length(); got != v.Length() {
		t.Errorf("Perp length = %v, want %v", got, v.Length())
	}
}

func TestVec2Normalize(t *testing.T) {
	v := V2(3, 4).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Normalize length = %v, want 1", v.Length())
	}

	// Zero vector stays zero.
	if got := V2(0, 0).Normalize(); got != (Vec2{}) {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
}

func TestVec2Lerp(t *testing.T) {
	a := V2(0, 0)
	b := V2(10, -4)

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != (Vec2{5, -2}) {
		t.Errorf("Lerp(0.5) = %v, want {5 -2}", got)
	}
}
