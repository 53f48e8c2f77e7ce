package sdfx

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// quadricSDF approximates the distance to (p-c)ᵗQ(p-c) + r = 0 by the
// first-order estimate f/|∇f|. The sign is exact.
type quadricSDF struct {
	q      [9]float64
	center [3]float64
	r      float64
	extent float64
}

func (s *quadricSDF) Evaluate(p v3.Vec) float64 {
	d := [3]float64{p.X - s.center[0], p.Y - s.center[1], p.Z - s.center[2]}
	var qd [3]float64
	for i := 0; i < 3; i++ {
		qd[i] = s.q[3*i]*d[0] + s.q[3*i+1]*d[1] + s.q[3*i+2]*d[2]
	}
	f := d[0]*qd[0] + d[1]*qd[1] + d[2]*qd[2] + s.r

	// ∇f = (Q + Qᵗ) d
	var grad float64
	for i := 0; i < 3; i++ {
		g := qd[i] + s.q[i]*d[0] + s.q[3+i]*d[1] + s.q[6+i]*d[2]
		grad += g * g
	}
	grad = math.Sqrt(grad)
	if grad < 1e-9 {
		return f
	}
	return f / grad
}

func (s *quadricSDF) BoundingBox() sdf.Box3 {
	return worldBox(s.extent)
}

// halfSpaceSDF is the signed distance to a plane; negative behind the normal.
type halfSpaceSDF struct {
	point  [3]float64
	normal [3]float64 // unit length
	extent float64
}

func (s *halfSpaceSDF) Evaluate(p v3.Vec) float64 {
	return (p.X-s.point[0])*s.normal[0] + (p.Y-s.point[1])*s.normal[1] + (p.Z-s.point[2])*s.normal[2]
}

func (s *halfSpaceSDF) BoundingBox() sdf.Box3 {
	return worldBox(s.extent)
}

// emptySDF contains no points.
type emptySDF struct {
	at v3.Vec
}

func (s emptySDF) Evaluate(p v3.Vec) float64 { return 1 }

func (s emptySDF) BoundingBox() sdf.Box3 {
	return sdf.Box3{Min: s.at, Max: s.at}
}

func worldBox(extent float64) sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{X: -extent, Y: -extent, Z: -extent},
		Max: v3.Vec{X: extent, Y: extent, Z: extent},
	}
}
