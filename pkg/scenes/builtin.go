package scenes

import (
	"image/color"

	"github.com/chazu/csgray/pkg/csg"
	"github.com/chazu/csgray/pkg/geom"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/primitive"
	"github.com/chazu/csgray/pkg/raytrace"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	darkBackground = color.RGBA{R: 0x1e, G: 0x1e, B: 0x24, A: 0xff}
	grey           = color.RGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xff}
	brass          = color.RGBA{R: 0xc8, G: 0xa0, B: 0x48, A: 0xff}
	spruce         = color.RGBA{R: 0xe0, G: 0xb8, B: 0x78, A: 0xff}
	rosewood       = color.RGBA{R: 0x5a, G: 0x2e, B: 0x1c, A: 0xff}
	steel          = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd8, A: 0xff}
)

func inst(name string, g geom.Geometry, toWorld mgl64.Mat4, c color.RGBA) raytrace.Instance {
	return raytrace.Instance{Name: name, Geometry: g, ToWorld: toWorld, Color: c}
}

func camera(eye, target graph.Vec3, fov float64) graph.Camera {
	return graph.Camera{Eye: eye, Target: target, Up: graph.Vec3{Y: 1}, FOV: fov}
}

func sphere(c mgl64.Vec3, r float64) *csg.Leaf {
	return csg.Primitive(primitive.NewSphere(c, r))
}

func box(lo, hi mgl64.Vec3) *csg.Leaf {
	return csg.Primitive(primitive.NewBox(lo, hi))
}

// floor is a large slab under the scene, clipped from a half-space.
func floor(y float64) geom.Solid {
	plane := csg.Primitive(primitive.NewPlane(mgl64.Vec3{0, y, 0}, mgl64.Vec3{0, 1, 0}))
	return csg.Clip(plane, geom.Bounds{Lower: mgl64.Vec3{-20, y - 1, -20}, Upper: mgl64.Vec3{20, y, 20}})
}

// spheres places three quadrics on a floor: a sphere, an ellipsoid and a
// general quadric sheet clipped to a box.
func spheres() *Scene {
	hyperboloid := primitive.NewQuadric(
		mgl64.Mat3FromRows(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, -0.25, 0}, mgl64.Vec3{0, 0, 1}),
		mgl64.Vec3{2.5, 0, 0}, -0.36)
	return &Scene{
		Name:        "spheres",
		Description: "a sphere, an ellipsoid and a clipped one-sheet hyperboloid on a floor",
		Camera:      camera(graph.Vec3{Y: 2, Z: 9}, graph.Vec3{}, 45),
		Background:  darkBackground,
		Instances: []raytrace.Instance{
			inst("sphere", sphere(mgl64.Vec3{-2.5, 0, 0}, 1), mgl64.Ident4(), color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0xff}),
			inst("ellipsoid", csg.Primitive(primitive.NewEllipsoid(mgl64.Vec3{}, mgl64.Vec3{0.6, 1, 0.6})), mgl64.Ident4(), color.RGBA{R: 0x40, G: 0xa0, B: 0x50, A: 0xff}),
			inst("hyperboloid", csg.Clip(csg.Primitive(hyperboloid), geom.Bounds{Lower: mgl64.Vec3{1, -1, -1.5}, Upper: mgl64.Vec3{4, 1, 1.5}}), mgl64.Ident4(), color.RGBA{R: 0x40, G: 0x60, B: 0xd0, A: 0xff}),
			inst("floor", floor(-1), mgl64.Ident4(), grey),
		},
	}
}

// carvedBox is a cube with a sphere removed and a corner cut by a plane.
func carvedBox() *Scene {
	cube := box(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})
	hole := sphere(mgl64.Vec3{}, 1.25)
	corner := csg.Primitive(primitive.NewPlane(mgl64.Vec3{0.6, 0.6, 0.6}, mgl64.Vec3{1, 1, 1}))
	solid := csg.Intersect(csg.Subtract(cube, hole), corner)
	return &Scene{
		Name:        "carved-box",
		Description: "box minus sphere, with one corner sliced off by a half-space",
		Camera:      camera(graph.Vec3{X: 3, Y: 2.5, Z: 4}, graph.Vec3{}, 40),
		Background:  darkBackground,
		Instances: []raytrace.Instance{
			inst("carved", solid, mgl64.HomogRotate3DY(mgl64.DegToRad(20)), brass),
		},
	}
}

// cross is the union of two perpendicular unbounded cylinders, clipped to a
// cube so it stays finite.
func cross() *Scene {
	x := csg.Primitive(primitive.NewCylinder(primitive.AxesYZ, mgl64.Vec3{}, 0.5))
	y := csg.Primitive(primitive.NewCylinder(primitive.AxesXZ, mgl64.Vec3{}, 0.5))
	both := csg.Clip(csg.Union(x, y), geom.Bounds{Lower: mgl64.Vec3{-2, -2, -2}, Upper: mgl64.Vec3{2, 2, 2}})
	return &Scene{
		Name:        "cross",
		Description: "two perpendicular cylinders united and clipped to a cube",
		Camera:      camera(graph.Vec3{X: 2, Y: 1.5, Z: 6}, graph.Vec3{}, 45),
		Background:  darkBackground,
		Instances: []raytrace.Instance{
			inst("cross", both, mgl64.Ident4(), color.RGBA{R: 0x60, G: 0xb0, B: 0xc0, A: 0xff}),
		},
	}
}

// pipes is a tee junction of three tubes.
func pipes() *Scene {
	run := csg.Pipe(primitive.AxesYZ, mgl64.Vec3{}, 0.4, 0.1, 5)
	branch := csg.Pipe(primitive.AxesXY, mgl64.Vec3{0, 0, 1.25}, 0.3, 0.1, 2.5)
	// Bore the branch into the run so the junction is open inside.
	bore := csg.FiniteCylinder(primitive.AxesXY, mgl64.Vec3{0, 0, 0.5}, 0.3, 1)
	tee := csg.Subtract(csg.Union(run, branch), bore)

	riser := csg.Pipe(primitive.AxesXZ, mgl64.Vec3{}, 0.2, 0.05, 3)
	return &Scene{
		Name:        "pipes",
		Description: "a tee junction of pipes and a thin riser",
		Camera:      camera(graph.Vec3{X: 3, Y: 4, Z: 6}, graph.Vec3{Z: 0.5}, 45),
		Background:  darkBackground,
		Instances: []raytrace.Instance{
			inst("tee", tee, mgl64.Ident4(), steel),
			inst("riser", riser, mgl64.Translate3D(-2, 1, -1), brass),
		},
	}
}

// guitar builds an acoustic guitar from stretched unit cylinders: two
// overlapping lobes for the body with a sound hole, a neck, a clipped
// headstock and six strings.
func guitar() *Scene {
	unit := csg.FiniteCylinder(primitive.AxesXY, mgl64.Vec3{}, 1, 1)
	lobe := func(cx, cy, rx, ry float64) geom.Solid {
		return csg.Transformed(unit, mgl64.Translate3D(cx, cy, 0).Mul4(mgl64.Scale3D(rx, ry, 0.8)))
	}
	body := csg.UnionAll(lobe(0, -1.6, 2.1, 1.9), lobe(0, 0.9, 1.6, 1.4))
	waist := csg.UnionAll(
		csg.Transformed(unit, mgl64.Translate3D(-2.05, -0.3, 0).Mul4(mgl64.Scale3D(0.55, 0.6, 1))),
		csg.Transformed(unit, mgl64.Translate3D(2.05, -0.3, 0).Mul4(mgl64.Scale3D(0.55, 0.6, 1))),
	)
	hole := csg.Transformed(unit, mgl64.Translate3D(0, 0.7, 0.3).Mul4(mgl64.Scale3D(0.55, 0.55, 0.4)))
	top := csg.Subtract(csg.Subtract(body, waist), hole)

	neck := box(mgl64.Vec3{-0.3, 2.1, 0.1}, mgl64.Vec3{0.3, 7, 0.4})
	head := csg.Clip(
		csg.Transformed(unit, mgl64.Translate3D(0, 7.9, 0.25).Mul4(mgl64.Scale3D(0.55, 1.1, 0.3))),
		geom.Bounds{Lower: mgl64.Vec3{-1, 7, -1}, Upper: mgl64.Vec3{1, 8.6, 1}},
	)
	neckAndHead := csg.Union(neck, head)

	var wires []geom.Solid
	for i := 0; i < 6; i++ {
		x := -0.2 + 0.08*float64(i)
		wires = append(wires, csg.FiniteCylinder(primitive.AxesXZ, mgl64.Vec3{x, 3.2, 0.48}, 0.012, 8.4))
	}

	return &Scene{
		Name:        "guitar",
		Description: "an acoustic guitar modelled from scaled cylinders",
		Camera:      camera(graph.Vec3{X: 4, Y: 2, Z: 13}, graph.Vec3{Y: 2.5}, 50),
		Background:  darkBackground,
		Instances: []raytrace.Instance{
			inst("body", top, mgl64.Ident4(), spruce),
			inst("neck", neckAndHead, mgl64.Ident4(), rosewood),
			inst("strings", csg.UnionAll(wires...), mgl64.Ident4(), steel),
		},
	}
}
