// Package level holds the polygonal geometry a navigation graph is built
// over. A level is read-only once loaded; the navigation core never mutates
// it.
package level

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformnav/common"
)

// Polygon is a closed chain of points. Edge i runs from Points[i] to
// Points[i+1]; the loader closes open chains by repeating the first point.
// Container polygons enclose the playable area instead of filling it, so
// their winding faces inward.
type Polygon struct {
	Points    []cp.Vector
	Container bool
}

// EdgeCount returns the number of edges in the polygon chain.
func (p *Polygon) EdgeCount() int {
	if len(p.Points) < 2 {
		return 0
	}
	return len(p.Points) - 1
}

// Edge returns the endpoints of edge i.
func (p *Polygon) Edge(i int) (cp.Vector, cp.Vector) {
	return p.Points[i], p.Points[i+1]
}

// Level is a set of polygons plus their world bounds.
type Level struct {
	Polygons []Polygon
	bounds   cp.BB
}

// New builds a level from polygons, closing any open chains and computing
// bounds.
func New(polygons []Polygon) *Level {
	l := &Level{Polygons: polygons}
	for i := range l.Polygons {
		closeChain(&l.Polygons[i])
	}
	l.bounds = computeBounds(l.Polygons)
	return l
}

// Bounds returns the axis-aligned bounds over every polygon point.
func (l *Level) Bounds() cp.BB {
	return l.bounds
}

// BlockedSegment reports whether the segment a-b crosses any level edge.
// Edges for which skip returns true are ignored; skip may be nil.
func (l *Level) BlockedSegment(a, b cp.Vector, skip func(polygon, edge int) bool) bool {
	for pi := range l.Polygons {
		poly := &l.Polygons[pi]
		for ei := 0; ei < poly.EdgeCount(); ei++ {
			if skip != nil && skip(pi, ei) {
				continue
			}
			s, e := poly.Edge(ei)
			if _, hit := common.SegmentIntersect(a, b, s, e); hit {
				return true
			}
		}
	}
	return false
}

// LineOfSight reports whether nothing in the level blocks the segment a-b.
func (l *Level) LineOfSight(a, b cp.Vector) bool {
	return !l.BlockedSegment(a, b, nil)
}

type levelFile struct {
	Polygons []polygonFile `json:"polygons"`
}

type polygonFile struct {
	Points    [][2]float64 `json:"points"`
	Container bool         `json:"container,omitempty"`
}

// Load reads a level from a JSON file at path.
func Load(path string) (*Level, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: read %s: %w", path, err)
	}

	var lf levelFile
	if err := json.Unmarshal(b, &lf); err != nil {
		return nil, fmt.Errorf("level: unmarshal %s: %w", path, err)
	}
	if len(lf.Polygons) == 0 {
		return nil, fmt.Errorf("level: %s has no polygons", path)
	}

	polygons := make([]Polygon, 0, len(lf.Polygons))
	for i, pf := range lf.Polygons {
		if len(pf.Points) < 2 {
			return nil, fmt.Errorf("level: %s polygon %d has %d points", path, i, len(pf.Points))
		}
		points := make([]cp.Vector, 0, len(pf.Points))
		for _, pt := range pf.Points {
			points = append(points, cp.Vector{X: pt[0], Y: pt[1]})
		}
		polygons = append(polygons, Polygon{Points: points, Container: pf.Container})
	}

	return New(polygons), nil
}

func closeChain(p *Polygon) {
	if len(p.Points) < 3 {
		return
	}
	first := p.Points[0]
	last := p.Points[len(p.Points)-1]
	if first.DistanceSq(last) > 1e-9 {
		p.Points = append(p.Points, first)
	}
}

func computeBounds(polygons []Polygon) cp.BB {
	bb := cp.BB{L: math.Inf(1), B: math.Inf(1), R: math.Inf(-1), T: math.Inf(-1)}
	for i := range polygons {
		for _, pt := range polygons[i].Points {
			bb.L = math.Min(bb.L, pt.X)
			bb.B = math.Min(bb.B, pt.Y)
			bb.R = math.Max(bb.R, pt.X)
			bb.T = math.Max(bb.T, pt.Y)
		}
	}
	if bb.L > bb.R {
		return cp.BB{}
	}
	return bb
}
