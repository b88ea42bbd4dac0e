package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v2"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// All gizmo shapes are built along +Z (unit gizmo size) and oriented by their mesh node.

const (
	arrowLength    = 0.275
	arrowTipLength = 0.075
	ringRadius     = 0.3
	planeSize      = 0.1
	planeOffset    = 0.15
)

func must3(s sdf.SDF3, err error) sdf.SDF3 {
	if err != nil {
		panic(err) // Constant shape parameters
	}
	return s
}

func must2(s sdf.SDF2, err error) sdf.SDF2 {
	if err != nil {
		panic(err) // Constant shape parameters
	}
	return s
}

func alongZ(s sdf.SDF3, start float64) sdf.SDF3 {
	bb := s.BoundingBox()
	return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: start - bb.Min.Z}))
}

// arrowShape is a shaft with a cone tip.
func arrowShape(thickness float64) sdf.SDF3 {
	shaft := alongZ(must3(sdf.Cylinder3D(arrowLength, 0.0075*thickness, 0)), 0)
	tip := alongZ(must3(sdf.Cone3D(arrowTipLength, 0.01875*thickness, 0, 0)), arrowLength)
	return sdf.Union3D(shaft, tip)
}

// arrowCollider is a thick cylinder covering the whole arrow.
func arrowCollider(thickness float64) sdf.SDF3 {
	return alongZ(must3(sdf.Cylinder3D(arrowLength+arrowTipLength, 0.025*thickness, 0)), 0)
}

// scaleArrowShape is a shaft with a box tip.
func scaleArrowShape(thickness float64) sdf.SDF3 {
	shaft := alongZ(must3(sdf.Cylinder3D(arrowLength, 0.0075*thickness, 0)), 0)
	side := 0.05 * thickness
	tip := alongZ(must3(sdf.Box3D(v3.Vec{X: side, Y: side, Z: side}, 0)), arrowLength)
	return sdf.Union3D(shaft, tip)
}

// ringShape is a torus around +Z.
func ringShape(radius, tube float64) sdf.SDF3 {
	profile := sdf.Transform2D(must2(sdf.Circle2D(tube)), sdf.Translate2d(v2.Vec{X: radius}))
	return must3(sdf.Revolve3D(profile))
}

// planeShape is a thin square facing +Z.
func planeShape(size, thickness float64) sdf.SDF3 {
	return must3(sdf.Box3D(v3.Vec{X: size, Y: size, Z: 0.005 * thickness}, 0))
}

// uniformShape is the center handle of the scale gizmo.
func uniformShape(thickness float64) sdf.SDF3 {
	return must3(sdf.Sphere3D(0.05 * thickness))
}

// orientZTo returns the rotation taking +Z to dir.
func orientZTo(dir mgl64.Vec3) mgl64.Quat {
	dir = dir.Normalize()
	if dir.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9) {
		return mgl64.QuatRotate(math.Pi, scene.Up)
	}
	return mgl64.QuatBetweenVectors(scene.ReferencePoint, dir)
}

// newPart creates a mesh under parent, oriented so that its +Z points along dir.
func newPart(layer *scene.UtilityLayer, name string, shape sdf.SDF3, parent scene.Transformable, dir mgl64.Vec3,
	mat *scene.Material) *scene.Mesh {
	m := scene.NewMesh(name, shape, layer.Scene)
	m.SetParent(parent)
	m.Rotation = scene.QuatOrientation(orientZTo(dir))
	m.Material = mat
	return m
}

// newCollider is like newPart but invisible.
func newCollider(layer *scene.UtilityLayer, name string, shape sdf.SDF3, parent scene.Transformable,
	dir mgl64.Vec3) *scene.Mesh {
	m := newPart(layer, name, shape, parent, dir, nil)
	m.Visibility = 0
	return m
}
