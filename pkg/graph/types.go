package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// NodeID identifies a node. IDs are derived from a construction path so
// that re-evaluating the same source yields the same IDs.
type NodeID [16]byte

// ZeroID is the unset NodeID.
var ZeroID NodeID

// NewNodeID derives an ID from a path such as "sphere/ball".
func NewNodeID(path string) NodeID {
	sum := sha256.Sum256([]byte(path))
	var id NodeID
	copy(id[:], sum[:len(id)])
	return id
}

func (id NodeID) String() string { return hex.EncodeToString(id[:]) }

// Short returns the first eight hex digits, for messages.
func (id NodeID) Short() string { return id.String()[:8] }

// IsZero reports whether id is unset.
func (id NodeID) IsZero() bool { return id == ZeroID }

func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *NodeID) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != len(id) {
		return fmt.Errorf("graph: node id %q has wrong length", b)
	}
	_, err := hex.Decode(id[:], b)
	return err
}

// ContentHash fingerprints a node's kind, payload and children.
type ContentHash [32]byte

func (h ContentHash) String() string { return hex.EncodeToString(h[:]) }

// IsZero reports whether the hash is unset.
func (h ContentHash) IsZero() bool { return h == ContentHash{} }

// HashNode computes the content hash of n. Two nodes with equal hashes
// describe the same geometry.
func HashNode(n *Node) ContentHash {
	payload, err := json.Marshal(struct {
		Kind     NodeKind `json:"kind"`
		Data     NodeData `json:"data"`
		Children []NodeID `json:"children"`
	}{n.Kind, n.Data, n.Children})
	if err != nil {
		panic(fmt.Sprintf("graph: hashing node %s: %v", n.ID.Short(), err))
	}
	return sha256.Sum256(payload)
}

// SourceRef locates the source form that created a node.
type SourceRef struct {
	Line int `json:"line,omitempty"`
	Col  int `json:"col,omitempty"`
}

// Vec3 is a plain JSON-friendly vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// Array returns the components as an array.
func (v Vec3) Array() [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
