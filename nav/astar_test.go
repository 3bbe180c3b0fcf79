package nav

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
)

// hopKind classifies the connection the path takes from one node to the
// next, failing the test when no connection links them.
func hopKind(t *testing.T, g *Graph, from, to int) ConnectionType {
	t.Helper()
	for _, kind := range []ConnectionType{Walkable, Jumpable, Droppable} {
		if _, ok := connectionTo(g, from, to, kind); ok {
			return kind
		}
	}
	t.Fatalf("path hop %d -> %d has no connection", from, to)
	return Walkable
}

func TestFindPathFlatCorridor(t *testing.T) {
	g := buildGraph(t, platform(0, 100, 0))

	path, ok := g.FindPath(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 100, Y: 0}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a path along the corridor")
	}
	if len(path) != 6 {
		t.Fatalf("path length = %d, want 6", len(path))
	}
	for i, wantX := range []float64{0, 20, 40, 60, 80, 100} {
		if math.Abs(path[i].Position.X-wantX) > 1e-9 {
			t.Fatalf("path[%d].X = %v, want %v", i, path[i].Position.X, wantX)
		}
		if path[i].ID != g.Nodes[path[i].ID].ID {
			t.Fatalf("path[%d] carries a stale node id", i)
		}
	}
	for i := 0; i+1 < len(path); i++ {
		if kind := hopKind(t, g, path[i].ID, path[i+1].ID); kind != Walkable {
			t.Fatalf("corridor hop %d is %v, want walkable", i, kind)
		}
	}
}

func TestFindPathEndsOnGoalNode(t *testing.T) {
	g := buildGraph(t, platform(0, 100, 0))

	path, ok := g.FindPath(cp.Vector{X: 2, Y: 1}, cp.Vector{X: 97, Y: 3}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a path")
	}
	last := path[len(path)-1]
	if last.Position.DistanceSq(cp.Vector{X: 100, Y: 0}) > 1e-9 {
		t.Fatalf("path ends at (%v, %v), want the resolved goal node (100, 0)",
			last.Position.X, last.Position.Y)
	}
}

func TestFindPathStartEqualsGoal(t *testing.T) {
	g := buildGraph(t, platform(0, 100, 0))

	path, ok := g.FindPath(cp.Vector{X: 1, Y: 5}, cp.Vector{X: 2, Y: 4}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a trivial path")
	}
	if len(path) != 1 {
		t.Fatalf("path length = %d, want 1", len(path))
	}
	if path[0].Position.DistanceSq(cp.Vector{X: 0, Y: 0}) > 1e-9 {
		t.Fatalf("trivial path should sit on the shared nearest node")
	}
}

func TestFindPathDisconnected(t *testing.T) {
	g := buildGraph(t,
		platform(0, 40, 0),
		platform(500, 540, 0),
	)

	if _, ok := g.FindPath(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 540, Y: 0}, DefaultConfig()); ok {
		t.Fatalf("gap beyond jump range should yield no path")
	}
}

func TestFindPathUsesJumpAcrossGap(t *testing.T) {
	g := buildGraph(t,
		platform(0, 40, 0),
		platform(80, 120, 40),
	)

	path, ok := g.FindPath(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 120, Y: 40}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a route onto the upper platform")
	}
	if path[len(path)-1].Position.DistanceSq(cp.Vector{X: 120, Y: 40}) > 1e-9 {
		t.Fatalf("path does not end on the goal node")
	}

	jumps := 0
	for i := 0; i+1 < len(path); i++ {
		if hopKind(t, g, path[i].ID, path[i+1].ID) == Jumpable {
			jumps++
		}
	}
	if jumps != 1 {
		t.Fatalf("path crosses the gap with %d jump hops, want exactly 1", jumps)
	}
}

func TestFindPathDropsToLowerPlatform(t *testing.T) {
	g := buildGraph(t,
		platform(0, 40, 40),
		platform(0, 200, 0),
	)

	path, ok := g.FindPath(cp.Vector{X: 20, Y: 40}, cp.Vector{X: 20, Y: 0}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a route down")
	}
	if len(path) != 2 {
		t.Fatalf("path length = %d, want the direct 2-node drop", len(path))
	}
	if kind := hopKind(t, g, path[0].ID, path[1].ID); kind != Droppable {
		t.Fatalf("descent hop is %v, want droppable", kind)
	}
}

func TestFindPathDeterminism(t *testing.T) {
	g := buildGraph(t,
		platform(0, 40, 0),
		platform(80, 120, 40),
		platform(0, 100, -60),
	)

	first, ok := g.FindPath(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 120, Y: 40}, DefaultConfig())
	if !ok {
		t.Fatalf("expected a path")
	}
	for run := 0; run < 5; run++ {
		again, ok := g.FindPath(cp.Vector{X: 0, Y: 0}, cp.Vector{X: 120, Y: 40}, DefaultConfig())
		if !ok {
			t.Fatalf("run %d found no path", run)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d path length %d, want %d", run, len(again), len(first))
		}
		for i := range again {
			if again[i].ID != first[i].ID {
				t.Fatalf("run %d diverges at hop %d", run, i)
			}
		}
	}
}

func TestFindPathFarOutsideIndexedBounds(t *testing.T) {
	g := buildGraph(t, platform(0, 100, 0))

	// positions way past every indexed cell must still resolve via the
	// full scan
	path, ok := g.FindPath(cp.Vector{X: 100000, Y: 5000}, cp.Vector{X: 0, Y: 0}, DefaultConfig())
	if !ok {
		t.Fatalf("expected resolution to fall back to a full scan")
	}
	if path[0].Position.DistanceSq(cp.Vector{X: 100, Y: 0}) > 1e-9 {
		t.Fatalf("far start resolved to (%v, %v), want the closest node (100, 0)",
			path[0].Position.X, path[0].Position.Y)
	}
}

func TestHeuristicAsymmetry(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		from cp.Vector
		to   cp.Vector
		want float64
	}{
		{"climb", cp.Vector{}, cp.Vector{Y: 10}, 15},
		{"descend", cp.Vector{Y: 10}, cp.Vector{}, 10},
		{"level", cp.Vector{}, cp.Vector{X: 10}, 10},
		{"diagonal_climb", cp.Vector{}, cp.Vector{X: 3, Y: 4}, math.Sqrt(9 + 36)},
		{"diagonal_descend", cp.Vector{X: 3, Y: 4}, cp.Vector{}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := heuristic(tt.from, tt.to, cfg)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("heuristic(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}
