package scene

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"image/color"
	"math"
)

// Material is the visible state of a mesh.
type Material struct {
	Name  string
	Color color.RGBA
}

// Mesh is a transform node with a signed distance field as its shape (for picking, collisions and display).
type Mesh struct {
	*TransformNode
	Shape           sdf.SDF3
	Material        *Material
	Pickable        bool
	Visible         bool    // Enabled for display and picking
	Visibility      float64 // Display opacity, a zero still allows picking
	CheckCollisions bool
	scene           *Scene
}

// Raycast configuration used when picking meshes
const (
	pickEpsilon  = 1e-3
	pickMaxSteps = 200
)

// NewMesh creates a visible, pickable mesh and registers it in s (if not nil).
func NewMesh(name string, shape sdf.SDF3, s *Scene) *Mesh {
	m := &Mesh{
		TransformNode: NewTransformNode(name),
		Shape:         shape,
		Material:      &Material{Name: name + "Material", Color: color.RGBA{R: 200, G: 200, B: 200, A: 255}},
		Pickable:      true,
		Visible:       true,
		Visibility:    1,
	}
	if s != nil {
		s.AddMesh(m)
	}
	return m
}

// Scene returns the scene owning the mesh (nil once disposed).
func (m *Mesh) Scene() *Scene {
	return m.scene
}

// Dispose removes the mesh from its scene.
func (m *Mesh) Dispose() {
	if m.scene != nil {
		m.scene.RemoveMesh(m)
	}
}

// Intersect casts ray against the shape. The distance and point are expressed in world space.
func (m *Mesh) Intersect(ray Ray) (dist float64, point mgl64.Vec3, ok bool) {
	if m.Shape == nil {
		return 0, mgl64.Vec3{}, false
	}
	world := m.WorldMatrix()
	local := ray.Transform(world.Inv())
	from := ToV3(local.Origin)
	dir := ToV3(local.Direction)
	bb := m.Shape.BoundingBox()
	maxDist := collideRayBb(from, dir, bb)
	if maxDist < 0 {
		return 0, mgl64.Vec3{}, false
	}
	hit, t, _ := sdf.Raycast3(m.Shape, from, dir, 0, 1, pickEpsilon, maxDist+pickEpsilon, pickMaxSteps)
	if t < 0 {
		return 0, mgl64.Vec3{}, false
	}
	point = mgl64.TransformCoordinate(FromV3(hit), world)
	dist = point.Sub(ray.Origin).Len()
	if dist > ray.Length {
		return 0, mgl64.Vec3{}, false
	}
	return dist, point, true
}

// collideRayBb https://gamedev.stackexchange.com/a/18459.
// Returns the distance along the ray at which it leaves the box, or -1 if the box is missed or behind.
func collideRayBb(origin v3.Vec, dir v3.Vec, bb sdf.Box3) float64 {
	dirFrac := v3.Vec{X: 1 / dir.X, Y: 1 / dir.Y, Z: 1 / dir.Z} // Assumes normalized dir
	t135 := bb.Min.Sub(origin).Mul(dirFrac)
	t246 := bb.Max.Sub(origin).Mul(dirFrac)
	tmin := math.Max(math.Max(math.Min(t135.X, t246.X), math.Min(t135.Y, t246.Y)), math.Min(t135.Z, t246.Z))
	tmax := math.Min(math.Min(math.Max(t135.X, t246.X), math.Max(t135.Y, t246.Y)), math.Max(t135.Z, t246.Z))
	if tmax < 0 || tmin > tmax || math.IsNaN(tmin) || math.IsNaN(tmax) {
		return -1
	}
	return tmax
}

// ToV3 converts to the sdfx vector type.
func ToV3(v mgl64.Vec3) v3.Vec {
	return v3.Vec{X: v[0], Y: v[1], Z: v[2]}
}

// FromV3 converts from the sdfx vector type.
func FromV3(v v3.Vec) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
