package proj

import (
	"math"
	"testing"
)

func TestIdentityTransform(t *testing.T) {
	p, ok := Identity().Transform(Position{3, -4, 5})
	if !ok {
		t.Fatal("identity transform reported invalid w")
	}
	if p != (Position{3, -4, 5}) {
		t.Fatalf("got %v, want [3 -4 5]", p)
	}
}

func TestMulAppliesRightFirst(t *testing.T) {
	// Scale then translate: (1,1,0) -> (2,3,0) -> (12,23,0).
	m := Translate(10, 20, 0).Mul(Scale(2, 3, 1))
	p, ok := m.Transform(Position{1, 1, 0})
	if !ok {
		t.Fatal("transform reported invalid w")
	}
	want := Position{12, 23, 0}
	if !closePos(p, want, 1e-12) {
		t.Fatalf("got %v, want %v", p, want)
	}
}

func TestRotateZQuarterTurn(t *testing.T) {
	p, _ := RotateZ(math.Pi / 2).Transform(Position{1, 0, 0})
	if !closePos(p, Position{0, 1, 0}, 1e-12) {
		t.Fatalf("got %v, want [0 1 0]", p)
	}
}

func TestInvertRoundTrip(t *testing.T) {
	m := Translate(5, -7, 3).
		Mul(RotateX(0.4)).
		Mul(RotateZ(-1.1)).
		Mul(Scale(2, 2, 2))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("matrix reported singular")
	}
	got := m.Mul(inv)
	want := Identity()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("m * m^-1 not identity at %d: %v", i, got[i])
		}
	}
}

func TestInvertSingular(t *testing.T) {
	if _, ok := (Mat4{}).Invert(); ok {
		t.Fatal("zero matrix reported invertible")
	}
}

func TestPerspectiveBehindCamera(t *testing.T) {
	m := Perspective(math.Pi/3, 1, 1, 100)
	// A point behind the camera has w <= 0 after projection.
	if _, ok := m.Transform(Position{0, 0, 5}); ok {
		t.Fatal("point behind camera reported projectable")
	}
	if _, ok := m.Transform(Position{0, 0, -5}); !ok {
		t.Fatal("point in front of camera reported unprojectable")
	}
}

func closePos(a, b Position, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}
