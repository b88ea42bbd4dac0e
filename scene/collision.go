package scene

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// Collider describes the moving ellipsoid submitted to a CollisionCoordinator.
type Collider struct {
	Radius        mgl64.Vec3 // Ellipsoid radii
	CollisionMask int
}

// NewPositionFunc receives the corrected position. collidedMesh is nil if nothing was hit.
type NewPositionFunc func(collisionIndex int, newPosition mgl64.Vec3, collidedMesh *Mesh)

// CollisionCoordinator moves a collider through the world. Implementations may call onNewPosition later, but the
// one in this package calls it before returning.
type CollisionCoordinator interface {
	GetNewPosition(position, displacement mgl64.Vec3, collider *Collider, maximumRetry int, excludedMesh *Mesh,
		onNewPosition NewPositionFunc, collisionIndex int)
}

// SDFCollisionCoordinator slides a sphere (the smallest radius of the ellipsoid) along the signed distance fields
// of the meshes that have CheckCollisions set.
type SDFCollisionCoordinator struct {
	scene     *Scene
	NormalEps float64
}

// NewSDFCollisionCoordinator creates the default coordinator for s.
func NewSDFCollisionCoordinator(s *Scene) *SDFCollisionCoordinator {
	return &SDFCollisionCoordinator{scene: s, NormalEps: 1e-4}
}

func (c *SDFCollisionCoordinator) GetNewPosition(position, displacement mgl64.Vec3, collider *Collider,
	maximumRetry int, excludedMesh *Mesh, onNewPosition NewPositionFunc, collisionIndex int) {
	radius := math.Min(collider.Radius[0], math.Min(collider.Radius[1], collider.Radius[2]))
	world := &worldSDF{}
	for _, m := range c.scene.meshes {
		if m.CheckCollisions && m != excludedMesh && m.Shape != nil {
			world.add(m)
		}
	}
	if len(world.meshes) == 0 || radius <= 0 {
		onNewPosition(collisionIndex, position.Add(displacement), nil)
		return
	}
	steps := int(math.Ceil(displacement.Len() / (radius / 2)))
	if steps < 1 {
		steps = 1
	}
	if maximumRetry < 1 {
		maximumRetry = 1
	}
	step := displacement.Mul(1 / float64(steps))
	pos := position
	var collided *Mesh
	for i := 0; i < steps; i++ {
		pos = pos.Add(step)
		for retry := 0; retry < maximumRetry; retry++ {
			d, m := world.closest(ToV3(pos))
			if d >= radius {
				break
			}
			collided = m
			normal := FromV3(sdf.Normal3(world, ToV3(pos), c.NormalEps))
			pos = pos.Add(normal.Mul(radius - d))
		}
	}
	onNewPosition(collisionIndex, pos, collided)
}

type collisionMesh struct {
	mesh     *Mesh
	inv      mgl64.Mat4
	minScale float64
	bb       sdf.Box3
}

// worldSDF is the union of collidable meshes evaluated in world space. Distances through scaled meshes are
// approximated using their smallest scale factor.
type worldSDF struct {
	meshes []collisionMesh
	bb     sdf.Box3
}

func (w *worldSDF) add(m *Mesh) {
	world := m.WorldMatrix()
	scale, _, _, _ := Decompose(world)
	minScale := math.Min(math.Abs(scale[0]), math.Min(math.Abs(scale[1]), math.Abs(scale[2])))
	local := m.Shape.BoundingBox()
	var bb sdf.Box3
	for i, corner := range []mgl64.Vec3{
		{local.Min.X, local.Min.Y, local.Min.Z}, {local.Max.X, local.Min.Y, local.Min.Z},
		{local.Min.X, local.Max.Y, local.Min.Z}, {local.Max.X, local.Max.Y, local.Min.Z},
		{local.Min.X, local.Min.Y, local.Max.Z}, {local.Max.X, local.Min.Y, local.Max.Z},
		{local.Min.X, local.Max.Y, local.Max.Z}, {local.Max.X, local.Max.Y, local.Max.Z},
	} {
		p := ToV3(mgl64.TransformCoordinate(corner, world))
		if i == 0 {
			bb = sdf.Box3{Min: p, Max: p}
		} else {
			bb = sdf.Box3{Min: bb.Min.Min(p), Max: bb.Max.Max(p)}
		}
	}
	w.meshes = append(w.meshes, collisionMesh{mesh: m, inv: world.Inv(), minScale: minScale, bb: bb})
	if len(w.meshes) == 1 {
		w.bb = bb
	} else {
		w.bb = sdf.Box3{Min: w.bb.Min.Min(bb.Min), Max: w.bb.Max.Max(bb.Max)}
	}
}

func (w *worldSDF) closest(p v3.Vec) (float64, *Mesh) {
	best, bestMesh := math.MaxFloat64, (*Mesh)(nil)
	for _, cm := range w.meshes {
		local := mgl64.TransformCoordinate(FromV3(p), cm.inv)
		d := cm.mesh.Shape.Evaluate(ToV3(local)) * cm.minScale
		if d < best {
			best, bestMesh = d, cm.mesh
		}
	}
	return best, bestMesh
}

func (w *worldSDF) Evaluate(p v3.Vec) float64 {
	d, _ := w.closest(p)
	return d
}

func (w *worldSDF) BoundingBox() sdf.Box3 {
	return w.bb
}
