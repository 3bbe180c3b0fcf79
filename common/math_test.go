package common

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

func TestSegmentIntersect(t *testing.T) {
	cases := []struct {
		name        string
		a1, a2      cp.Vector
		b1, b2      cp.Vector
		wantHit     bool
		wantX       float64
		wantY       float64
	}{
		{
			name: "crossing",
			a1:   cp.Vector{X: 0, Y: 0}, a2: cp.Vector{X: 10, Y: 10},
			b1: cp.Vector{X: 0, Y: 10}, b2: cp.Vector{X: 10, Y: 0},
			wantHit: true, wantX: 5, wantY: 5,
		},
		{
			name: "parallel",
			a1:   cp.Vector{X: 0, Y: 0}, a2: cp.Vector{X: 10, Y: 0},
			b1: cp.Vector{X: 0, Y: 1}, b2: cp.Vector{X: 10, Y: 1},
			wantHit: false,
		},
		{
			name: "disjoint",
			a1:   cp.Vector{X: 0, Y: 0}, a2: cp.Vector{X: 1, Y: 1},
			b1: cp.Vector{X: 5, Y: 0}, b2: cp.Vector{X: 5, Y: 10},
			wantHit: false,
		},
		{
			name: "touching_endpoint",
			a1:   cp.Vector{X: 0, Y: 0}, a2: cp.Vector{X: 5, Y: 5},
			b1: cp.Vector{X: 5, Y: 5}, b2: cp.Vector{X: 10, Y: 0},
			wantHit: true, wantX: 5, wantY: 5,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, hit := SegmentIntersect(c.a1, c.a2, c.b1, c.b2)
			if hit != c.wantHit {
				t.Fatalf("hit = %v, want %v", hit, c.wantHit)
			}
			if !hit {
				return
			}
			if math.Abs(got.X-c.wantX) > 1e-9 || math.Abs(got.Y-c.wantY) > 1e-9 {
				t.Fatalf("point = (%v, %v), want (%v, %v)", got.X, got.Y, c.wantX, c.wantY)
			}
		})
	}
}

func TestSideOfLine(t *testing.T) {
	a := cp.Vector{X: 0, Y: 0}
	b := cp.Vector{X: 10, Y: 0}

	if got := SideOfLine(a, b, cp.Vector{X: 5, Y: 3}); got != 1 {
		t.Fatalf("above = %v, want 1", got)
	}
	if got := SideOfLine(a, b, cp.Vector{X: 5, Y: -3}); got != -1 {
		t.Fatalf("below = %v, want -1", got)
	}
	if got := SideOfLine(a, b, cp.Vector{X: 5, Y: 0}); got != 0 {
		t.Fatalf("on line = %v, want 0", got)
	}
}

func TestProjectOnSegment(t *testing.T) {
	cases := []struct {
		name    string
		a, b, p cp.Vector
		wantSq  float64
		wantPt  cp.Vector
	}{
		{
			name: "perpendicular_foot",
			a:    cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 10, Y: 0}, p: cp.Vector{X: 5, Y: 4},
			wantSq: 16, wantPt: cp.Vector{X: 5, Y: 0},
		},
		{
			name: "clamped_to_start",
			a:    cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 10, Y: 0}, p: cp.Vector{X: -3, Y: 4},
			wantSq: 25, wantPt: cp.Vector{X: 0, Y: 0},
		},
		{
			name: "clamped_to_end",
			a:    cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 10, Y: 0}, p: cp.Vector{X: 13, Y: 4},
			wantSq: 25, wantPt: cp.Vector{X: 10, Y: 0},
		},
		{
			name: "degenerate_segment",
			a:    cp.Vector{X: 2, Y: 2}, b: cp.Vector{X: 2, Y: 2}, p: cp.Vector{X: 5, Y: 2},
			wantSq: 9, wantPt: cp.Vector{X: 2, Y: 2},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			gotSq, gotPt := ProjectOnSegment(c.a, c.b, c.p)
			if math.Abs(gotSq-c.wantSq) > 1e-9 {
				t.Fatalf("distSq = %v, want %v", gotSq, c.wantSq)
			}
			if gotPt.DistanceSq(c.wantPt) > 1e-9 {
				t.Fatalf("closest = (%v, %v), want (%v, %v)", gotPt.X, gotPt.Y, c.wantPt.X, c.wantPt.Y)
			}
		})
	}
}

func TestLerpAndClamp(t *testing.T) {
	if got := Lerp(0, 10, 0.5); got != 5 {
		t.Fatalf("Lerp = %v, want 5", got)
	}
	if got := Clamp(12, 0, 10); got != 10 {
		t.Fatalf("Clamp high = %v, want 10", got)
	}
	if got := Clamp(-2, 0, 10); got != 0 {
		t.Fatalf("Clamp low = %v, want 0", got)
	}
}
