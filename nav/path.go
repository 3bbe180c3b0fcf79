package nav

import "github.com/jakecoffman/cp"

// PathNode is one step of a computed path.
type PathNode struct {
	ID       int
	Position cp.Vector
}

// Path is an ordered sequence of nodes. The first element is the node
// nearest the query start and the last element is always the resolved goal
// node.
type Path []PathNode
