package raytrace

import (
	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Near and far clip distances of the camera projection.
	cameraNear = 0.05
	cameraFar  = 1000
)

// Camera maps pixels to world-space rays through view and projection
// matrices.
type Camera struct {
	View       mgl64.Mat4
	Projection mgl64.Mat4
	Eye        mgl64.Vec3
	Focus      float64 // distance from eye to target
}

// LookAt builds a perspective camera at eye looking towards target. fovDeg
// is the vertical field of view in degrees.
func LookAt(eye, target, up mgl64.Vec3, fovDeg, aspect float64) Camera {
	return Camera{
		View:       mgl64.LookAtV(eye, target, up),
		Projection: geom.Perspective(mgl64.DegToRad(fovDeg), aspect, cameraNear, cameraFar),
		Eye:        eye,
		Focus:      target.Sub(eye).Len(),
	}
}

// Ray returns the primary ray through pixel coordinates (px, py) of a
// width x height image. Use px+0.5, py+0.5 for pixel centers.
func (c Camera) Ray(px, py float64, width, height int) geom.Ray {
	return geom.FromScreen(px, py, width, height, c.View, c.Projection)
}
