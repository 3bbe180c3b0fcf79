// Package nav builds a traversal graph over polygonal platformer geometry
// and answers path queries against it. The graph is built once at startup
// and is immutable afterwards, so any number of agents may read it without
// locking.
package nav

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformnav/level"
)

// ConnectionType tags how an agent travels between two nodes.
type ConnectionType int

const (
	Walkable ConnectionType = iota
	Jumpable
	Droppable
)

func (t ConnectionType) String() string {
	switch t {
	case Walkable:
		return "walkable"
	case Jumpable:
		return "jumpable"
	case Droppable:
		return "droppable"
	default:
		return "unknown"
	}
}

// Connection is a directed edge to another node. Walkable connections are
// always created in mutual pairs; jumpable and droppable connections are
// one-way.
type Connection struct {
	NodeID int
	Dist   float64
	Effort float64
	Type   ConnectionType
}

// Node is a navigable point on level geometry. After Build returns, a
// node's ID always equals its index in Graph.Nodes.
type Node struct {
	ID           int
	Position     cp.Vector
	PolygonIndex int
	LineIndices  []int
	Walkable     []Connection
	Jumpable     []Connection
	Droppable    []Connection
	Normal       cp.Vector
	IsCorner     bool
	// ExternalCorner is set only for corner nodes: true when the corner
	// points away from the surface.
	ExternalCorner *bool
}

func (n *Node) ownsEdge(polygon, edge int) bool {
	if n.PolygonIndex != polygon {
		return false
	}
	for _, li := range n.LineIndices {
		if li == edge {
			return true
		}
	}
	return false
}

type gridCell struct {
	x int
	y int
}

// Graph is the immutable traversal graph plus a sparse spatial index over
// node positions.
type Graph struct {
	Nodes []Node

	grid     map[gridCell][]int
	gridMin  cp.Vector
	cellSize float64
}

func (g *Graph) cellFor(pos cp.Vector) gridCell {
	return gridCell{
		x: int(math.Floor((pos.X - g.gridMin.X) / g.cellSize)),
		y: int(math.Floor((pos.Y - g.gridMin.Y) / g.cellSize)),
	}
}

// nearbyNodeIndices returns node indices in the 3x3 cell block around pos.
func (g *Graph) nearbyNodeIndices(pos cp.Vector) []int {
	c := g.cellFor(pos)
	var indices []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			indices = append(indices, g.grid[gridCell{x: c.x + dx, y: c.y + dy}]...)
		}
	}
	return indices
}

// Build constructs the traversal graph for a level and an agent of the
// given collision radius. It is deterministic for identical inputs and is
// meant to run once at startup; an empty level yields a valid empty graph.
func Build(lvl *level.Level, radius float64, cfg Config) *Graph {
	b := &builder{lvl: lvl, radius: radius, cfg: cfg}

	b.placeNodes()
	b.mirrorWalkable()
	b.mergeDuplicates()
	b.reindex()
	b.classifyJumps()
	b.classifyDrops()
	b.computeNormals()
	b.markCorners()

	g := &Graph{Nodes: b.nodes, cellSize: cfg.CellSize}
	g.buildSpatialIndex()
	return g
}

type builder struct {
	lvl    *level.Level
	radius float64
	cfg    Config
	nodes  []Node
}

// placeNodes drops a node every NodeSpacing units along each walkable-facing
// edge plus one at the edge end, linking consecutive nodes as it goes. The
// outermost container polygon is the level boundary and gets no nodes.
func (b *builder) placeNodes() {
	containerSeen := false

	for pi := range b.lvl.Polygons {
		poly := &b.lvl.Polygons[pi]
		if poly.Container {
			containerSeen = !containerSeen
		}
		if containerSeen && poly.Container {
			continue
		}

		for ei := 0; ei < poly.EdgeCount(); ei++ {
			start, end := poly.Edge(ei)
			dir := end.Sub(start)
			length := dir.Length()
			if length == 0 {
				continue
			}

			count := math.Ceil(length / b.cfg.NodeSpacing)
			step := length / count
			dir = dir.Mult(1 / length)

			if dir.Dot(cp.Vector{X: 1}) <= b.cfg.EdgeDirectionThreshold {
				continue
			}

			for j := 0; j < int(count); j++ {
				node := Node{
					ID:           len(b.nodes),
					Position:     start.Add(dir.Mult(float64(j) * step)),
					PolygonIndex: pi,
					LineIndices:  []int{ei},
				}
				if j > 0 {
					node.Walkable = append(node.Walkable, Connection{
						NodeID: len(b.nodes) - 1,
						Dist:   step,
						Type:   Walkable,
					})
				}
				b.nodes = append(b.nodes, node)
			}

			b.nodes = append(b.nodes, Node{
				ID:           len(b.nodes),
				Position:     end,
				PolygonIndex: pi,
				LineIndices:  []int{ei},
				Walkable: []Connection{{
					NodeID: len(b.nodes) - 1,
					Dist:   step,
					Type:   Walkable,
				}},
			})
		}
	}
}

// mirrorWalkable makes every walkable connection mutual. Placement only
// links forward nodes back to earlier ones, so mirrors always land on nodes
// that have already been visited.
func (b *builder) mirrorWalkable() {
	for i := range b.nodes {
		for _, conn := range b.nodes[i].Walkable {
			b.nodes[conn.NodeID].Walkable = append(b.nodes[conn.NodeID].Walkable, Connection{
				NodeID: i,
				Dist:   conn.Dist,
				Type:   Walkable,
			})
		}
	}
}

// mergeDuplicates collapses nodes closer than the dedupe distance (edge
// endpoints shared by adjacent edges or polygons) into the earlier node,
// redirecting connections to the survivor.
func (b *builder) mergeDuplicates() {
	i := 0
	for i < len(b.nodes) {
		j := i + 1
		for j < len(b.nodes) {
			if b.nodes[i].Position.DistanceSq(b.nodes[j].Position) >= b.cfg.DedupeDistanceSq {
				j++
				continue
			}

			survivorID := b.nodes[i].ID
			removedID := b.nodes[j].ID

			b.nodes[i].Walkable = append(b.nodes[i].Walkable, b.nodes[j].Walkable...)
			b.nodes[i].LineIndices = append(b.nodes[i].LineIndices, b.nodes[j].LineIndices[0])

			b.nodes = append(b.nodes[:j], b.nodes[j+1:]...)

			for k := range b.nodes {
				for c := range b.nodes[k].Walkable {
					if b.nodes[k].Walkable[c].NodeID == removedID {
						b.nodes[k].Walkable[c].NodeID = survivorID
					}
				}
			}
		}
		i++
	}
}

// reindex rewrites node ids to match slice positions. Connections still
// hold pre-merge ids at this point; afterwards every reference is a valid
// index into the node slice.
func (b *builder) reindex() {
	idToIndex := make(map[int]int, len(b.nodes))
	for idx := range b.nodes {
		idToIndex[b.nodes[idx].ID] = idx
	}

	for idx := range b.nodes {
		b.nodes[idx].ID = idx
		for c := range b.nodes[idx].Walkable {
			b.nodes[idx].Walkable[c].NodeID = idToIndex[b.nodes[idx].Walkable[c].NodeID]
		}
	}
}

// classifyJumps tests every cross-polygon node pair for a collision-free
// parabolic jump and records the required launch speed as effort. This is
// the quadratic part of construction and is paid once at startup.
func (b *builder) classifyJumps() {
	for i := range b.nodes {
		src := &b.nodes[i]

		var conns []Connection
		for j := range b.nodes {
			if i == j {
				continue
			}
			dst := &b.nodes[j]
			if src.PolygonIndex == dst.PolygonIndex {
				continue
			}
			// Near-vertical descents belong to drop classification; a
			// minimum-effort "jump" straight down needs no launch at all
			// and would shadow the drop connection with zero effort.
			if b.dropCandidate(src, dst) {
				continue
			}
			if b.blockedBetween(src, dst) {
				continue
			}

			effort, ok := b.jumpabilityCheck(src, dst)
			if !ok {
				continue
			}

			conns = append(conns, Connection{
				NodeID: j,
				Dist:   src.Position.Distance(dst.Position),
				Effort: effort,
				Type:   Jumpable,
			})
		}
		b.nodes[i].Jumpable = conns
	}
}

// classifyDrops records one-way connections to nodes nearly straight below
// the source that can be reached by free fall. Drops are never mirrored.
func (b *builder) classifyDrops() {
	for i := range b.nodes {
		src := &b.nodes[i]

		var conns []Connection
		for j := range b.nodes {
			if i == j {
				continue
			}
			dst := &b.nodes[j]
			if src.PolygonIndex == dst.PolygonIndex {
				continue
			}
			if !b.dropCandidate(src, dst) {
				continue
			}
			if b.cfg.MaxDropHeight > 0 && src.Position.Y-dst.Position.Y > b.cfg.MaxDropHeight {
				continue
			}
			if b.blockedBetween(src, dst) {
				continue
			}
			if !b.droppabilityCheck(src, dst) {
				continue
			}

			dist := src.Position.Distance(dst.Position)
			conns = append(conns, Connection{
				NodeID: j,
				Dist:   dist,
				Effort: dist * b.cfg.DropEffortMultiplier,
				Type:   Droppable,
			})
		}
		b.nodes[i].Droppable = conns
	}
}

// dropCandidate reports whether dst sits strictly below src within the
// horizontal drop window. Such pairs are classified as drops, never jumps.
func (b *builder) dropCandidate(src, dst *Node) bool {
	if dst.Position.Y >= src.Position.Y {
		return false
	}
	return math.Abs(dst.Position.X-src.Position.X) <= b.cfg.MaxDropOffset
}

// blockedBetween reports whether level geometry not owned by either node
// crosses the straight segment between them.
func (b *builder) blockedBetween(src, dst *Node) bool {
	return b.lvl.BlockedSegment(src.Position, dst.Position, func(polygon, edge int) bool {
		return src.ownsEdge(polygon, edge) || dst.ownsEdge(polygon, edge)
	})
}

// computeNormals averages the left-hand normals of each node's owning edges.
func (b *builder) computeNormals() {
	for i := range b.nodes {
		node := &b.nodes[i]
		poly := &b.lvl.Polygons[node.PolygonIndex]

		normal := cp.Vector{}
		for _, li := range node.LineIndices {
			if li >= poly.EdgeCount() {
				continue
			}
			s, e := poly.Edge(li)
			normal = normal.Add(e.Sub(s).Perp().Normalize())
		}
		node.Normal = normal.Normalize()
	}
}

// markCorners flags nodes owning more than one edge and classifies them as
// external when the surrounding surface bends away from the node normal.
func (b *builder) markCorners() {
	for i := range b.nodes {
		node := &b.nodes[i]
		node.IsCorner = len(node.LineIndices) > 1
		if !node.IsCorner {
			continue
		}

		lineDir := cp.Vector{}
		for _, conn := range node.Walkable {
			lineDir = lineDir.Add(b.nodes[conn.NodeID].Position.Sub(node.Position))
		}

		external := lineDir.Dot(node.Normal) < 0
		node.ExternalCorner = &external
	}
}

func (g *Graph) buildSpatialIndex() {
	g.grid = make(map[gridCell][]int, len(g.Nodes))
	if len(g.Nodes) == 0 {
		return
	}

	min := cp.Vector{X: math.Inf(1), Y: math.Inf(1)}
	for i := range g.Nodes {
		min.X = math.Min(min.X, g.Nodes[i].Position.X)
		min.Y = math.Min(min.Y, g.Nodes[i].Position.Y)
	}
	g.gridMin = min

	for i := range g.Nodes {
		c := g.cellFor(g.Nodes[i].Position)
		g.grid[c] = append(g.grid[c], i)
	}
}
