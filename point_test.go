package brownian

import (
	"math"
	"testing"
)

func TestPoint_Arithmetic(t *testing.T) {
	p := Pt(3, 4)
	q := Pt(1, -2)

	if got := p.Add(q); got != Pt(4, 2) {
		t.Errorf("Add = %v, want (4, 2)", got)
	}
	if got := p.Sub(q); got != Pt(2, 6) {
		t.Errorf("Sub = %v, want (2, 6)", got)
	}
	if got := p.Mul(2); got != Pt(6, 8) {
		t.Errorf("Mul = %v, want (6, 8)", got)
	}
	if got := p.Dot(q); got != -5 {
		t.Errorf("Dot = %v, want -5", got)
	}
	if got := p.Cross(q); got != -10 {
		t.Errorf("Cross = %v, want -10", got)
	}
	if got := p.Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := p.DistanceSquared(Pt(0, 0)); got != 25 {
		t.Errorf("DistanceSquared = %v, want 25", got)
	}
}

func TestPoint_Rotate(t *testing.T) {
	tests := []struct {
		name  string
		p     Point
		angle float64
		want  Point
	}{
		{"zero", Pt(1, 0), 0, Pt(1, 0)},
		{"quarter", Pt(1, 0), math.Pi / 2, Pt(0, 1)},
		{"half", Pt(1, 0), math.Pi, Pt(-1, 0)},
		{"negative length", Pt(-5, 0), math.Pi / 2, Pt(0, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Rotate(tt.angle)
			if !got.Approx(tt.want, 1e-12) {
				t.Errorf("%v.Rotate(%v) = %v, want %v", tt.p, tt.angle, got, tt.want)
			}
		})
	}
}

func TestPoint_Angle(t *testing.T) {
	tests := []struct {
		p    Point
		want float64
	}{
		{Pt(1, 0), 0},
		{Pt(0, 1), math.Pi / 2},
		{Pt(-1, 0), math.Pi},
		{Pt(0, -1), -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := tt.p.Angle(); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%v.Angle() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestPoint_Normalize(t *testing.T) {
	if got := Pt(0, 0).Normalize(); got != Pt(0, 0) {
		t.Errorf("zero Normalize = %v, want zero", got)
	}
	if got := Pt(0, 3).Normalize(); !got.Approx(Pt(0, 1), 1e-12) {
		t.Errorf("Normalize = %v, want (0, 1)", got)
	}
}

func TestPoint_IsFinite(t *testing.T) {
	if !Pt(1, 2).IsFinite() {
		t.Error("(1, 2) should be finite")
	}
	if Pt(math.NaN(), 0).IsFinite() {
		t.Error("NaN point should not be finite")
	}
	if Pt(0, math.Inf(-1)).IsFinite() {
		t.Error("-Inf point should not be finite")
	}
}

func TestRect_Contains(t *testing.T) {
	r := Canvas(100, 50)

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"inside", Pt(10, 10), true},
		{"origin", Pt(0, 0), true},
		{"far corner", Pt(100, 50), true},
		{"left", Pt(-0.001, 10), false},
		{"below", Pt(10, 50.001), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRect_Empty(t *testing.T) {
	if Canvas(10, 10).Empty() {
		t.Error("10x10 canvas should not be empty")
	}
	if !Canvas(0, 10).Empty() {
		t.Error("0x10 canvas should be empty")
	}
	if !Canvas(10, -1).Empty() {
		t.Error("10x-1 canvas should be empty")
	}
	if !Canvas(math.NaN(), 10).Empty() {
		t.Error("NaN canvas should be empty")
	}
}
