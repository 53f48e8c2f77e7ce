// Package tessellate walks a scene graph and produces triangle meshes
// using a meshing kernel. One mesh is produced per scene object.
package tessellate

import (
	"fmt"

	"github.com/chazu/csgray/pkg/assemble"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/kernel"
)

// MeshKernel is a kernel that can also tessellate its solids.
type MeshKernel interface {
	kernel.Kernel
	kernel.Mesher
}

// Tessellate assembles every root of the graph with k and meshes it. The
// graph is never mutated. Objects whose solid is empty produce no mesh.
func Tessellate(g *graph.SceneGraph, k MeshKernel) ([]*kernel.Mesh, error) {
	parts, err := assemble.Assemble(g, k)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}

	var meshes []*kernel.Mesh
	for _, p := range parts {
		if kernel.Empty(p.Solid) {
			continue
		}
		mesh, err := k.ToMesh(p.Solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: error meshing %s: %w", p.Name, err)
		}
		if mesh.IsEmpty() {
			continue
		}
		mesh.PartName = p.Name
		mesh.Color = fmt.Sprintf("#%02x%02x%02x", p.Color.R, p.Color.G, p.Color.B)
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}
