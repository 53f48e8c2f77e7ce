package graph

// NodeKind enumerates the types of nodes in the scene graph.
type NodeKind int

const (
	NodePrimitive NodeKind = iota // sphere, quadric, box, plane, cylinder, pipe
	NodeTransform                 // translate / rotate / scale of one child
	NodeBoolean                   // union, intersection, difference of two children
	NodeClip                      // intersection of one child with a box
	NodeObject                    // named, colored scene instance (a root)
)

func (k NodeKind) String() string {
	switch k {
	case NodePrimitive:
		return "primitive"
	case NodeTransform:
		return "transform"
	case NodeBoolean:
		return "boolean"
	case NodeClip:
		return "clip"
	case NodeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Arity returns the number of children a node of kind k must have.
func (k NodeKind) Arity() int {
	switch k {
	case NodePrimitive:
		return 0
	case NodeBoolean:
		return 2
	default:
		return 1
	}
}

// Node is the fundamental element of the scene graph.
type Node struct {
	ID          NodeID      `json:"id"`
	Kind        NodeKind    `json:"kind"`
	Name        string      `json:"name,omitempty"`
	Source      SourceRef   `json:"source"`
	ContentHash ContentHash `json:"content_hash"`
	Children    []NodeID    `json:"children,omitempty"`
	Data        NodeData    `json:"data"`
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
