package graph

import "fmt"

// Camera describes the viewpoint requested by the scene source.
type Camera struct {
	Eye    Vec3    `json:"eye"`
	Target Vec3    `json:"target"`
	Up     Vec3    `json:"up"`
	FOV    float64 `json:"fov"` // vertical field of view, degrees
}

// DefaultCamera looks at the origin from +z.
var DefaultCamera = Camera{
	Eye:    Vec3{0, 0, 8},
	Target: Vec3{},
	Up:     Vec3{0, 1, 0},
	FOV:    45,
}

// Settings contains scene-wide settings.
type Settings struct {
	Camera     Camera `json:"camera"`
	Background string `json:"background"` // "#rrggbb"
}

// SceneGraph is the data structure produced by evaluating scene source.
// It is never mutated after evaluation; each evaluation produces a new graph.
type SceneGraph struct {
	Nodes     map[NodeID]*Node  `json:"nodes"`
	Roots     []NodeID          `json:"roots"`
	NameIndex map[string]NodeID `json:"name_index"`
	Settings  Settings          `json:"settings"`
	Version   uint64            `json:"version"`
}

// New creates an empty SceneGraph with default settings.
func New() *SceneGraph {
	return &SceneGraph{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Settings: Settings{
			Camera:     DefaultCamera,
			Background: "#1e1e24",
		},
	}
}

// AddNode adds a node to the graph, filling in its content hash. It does
// not check for duplicates.
func (g *SceneGraph) AddNode(n *Node) {
	if n.ContentHash.IsZero() {
		n.ContentHash = HashNode(n)
	}
	g.Nodes[n.ID] = n
	if n.Name != "" {
		g.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the graph.
func (g *SceneGraph) AddRoot(id NodeID) {
	g.Roots = append(g.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (g *SceneGraph) Lookup(name string) *Node {
	id, ok := g.NameIndex[name]
	if !ok {
		return nil
	}
	return g.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (g *SceneGraph) MustLookup(name string) *Node {
	n := g.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("graph: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (g *SceneGraph) Get(id NodeID) *Node {
	return g.Nodes[id]
}

// Objects returns the root object nodes in root order.
func (g *SceneGraph) Objects() []*Node {
	var objs []*Node
	for _, id := range g.Roots {
		if n := g.Nodes[id]; n != nil && n.Kind == NodeObject {
			objs = append(objs, n)
		}
	}
	return objs
}

// Primitives returns all primitive nodes in the graph.
func (g *SceneGraph) Primitives() []*Node {
	var prims []*Node
	for _, n := range g.Nodes {
		if n.Kind == NodePrimitive {
			prims = append(prims, n)
		}
	}
	return prims
}

// Children returns the child nodes of the given node.
func (g *SceneGraph) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := g.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (g *SceneGraph) NodeCount() int {
	return len(g.Nodes)
}
