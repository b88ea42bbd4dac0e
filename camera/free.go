package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
)

// CollisionsEpsilon is the smallest corrected movement that is applied.
const CollisionsEpsilon = 0.001

// collisionRetryCount bounds the collision resolution passes of a single movement.
const collisionRetryCount = 3

// Collisions moves a camera through the collision coordinator of its scene. It is shared by the cameras that
// walk or fly through the world.
type Collisions struct {
	// CheckCollisions routes movements through the scene collision coordinator.
	CheckCollisions bool
	// ApplyGravity adds the scene gravity to every movement (requires CheckCollisions).
	ApplyGravity bool
	// Ellipsoid surrounds the camera, EllipsoidOffset moves it away from the eye.
	Ellipsoid       mgl64.Vec3
	EllipsoidOffset mgl64.Vec3
	CollisionMask   int
	// OnCollide is notified with the mesh that stopped a movement.
	OnCollide scene.Observable[*scene.Mesh]

	scene       *scene.Scene
	collider    *scene.Collider
	oldPosition mgl64.Vec3
	warned      bool
}

func newCollisions(s *scene.Scene) Collisions {
	return Collisions{Ellipsoid: mgl64.Vec3{0.5, 1, 0.5}, CollisionMask: -1, scene: s}
}

// Scene returns the scene providing the collision coordinator and gravity.
func (cl *Collisions) Scene() *scene.Scene {
	return cl.scene
}

func (cl *Collisions) enabled() bool {
	return cl.CheckCollisions && cl.scene != nil && cl.scene.CollisionsEnabled
}

// needsToMove also reports true while gravity has to be applied.
func (cl *Collisions) needsToMove(c *TargetCamera) bool {
	return (cl.ApplyGravity && cl.enabled()) || c.hasPendingMove()
}

// move applies CameraDirection to c, through the collision coordinator when enabled.
func (cl *Collisions) move(c *TargetCamera) {
	if !cl.enabled() {
		c.applyDirection()
		return
	}
	coordinator := cl.scene.CollisionCoordinator
	if coordinator == nil {
		if !cl.warned {
			log.Println("[Camera] WARNING: collisions enabled without a collision coordinator for", c.Name())
			cl.warned = true
		}
		c.applyDirection()
		return
	}
	cl.oldPosition = c.GlobalPosition().Sub(mgl64.Vec3{0, cl.Ellipsoid[1], 0}).Add(cl.EllipsoidOffset)
	if cl.collider == nil {
		cl.collider = &scene.Collider{}
	}
	cl.collider.Radius = cl.Ellipsoid
	cl.collider.CollisionMask = cl.CollisionMask

	displacement := c.CameraDirection
	if cl.ApplyGravity {
		displacement = displacement.Add(cl.scene.Gravity)
	}
	coordinator.GetNewPosition(cl.oldPosition, displacement, cl.collider, collisionRetryCount, nil,
		func(_ int, newPosition mgl64.Vec3, collidedMesh *scene.Mesh) {
			cl.onNewPosition(c, newPosition, collidedMesh)
		}, 0)
}

func (cl *Collisions) onNewPosition(c *TargetCamera, newPosition mgl64.Vec3, collidedMesh *scene.Mesh) {
	diff := newPosition.Sub(cl.oldPosition)
	if diff.Len() <= CollisionsEpsilon {
		return
	}
	if c.Parent() != nil {
		diff = mgl64.TransformNormal(diff, c.parentMatrix().Inv())
	}
	c.Position = c.Position.Add(diff)
	if collidedMesh != nil {
		cl.OnCollide.Notify(collidedMesh)
	}
}

//-----------------------------------------------------------------------------

// FreeCamera is a first person camera: keyboard-like inputs move it in its own frame and pointer movements turn
// it. It may collide with the scene and fall under gravity.
type FreeCamera struct {
	*TargetCamera
	Collisions
	// AngularSensibility is the pointer movement (in pixels) that turns the camera by one radian.
	AngularSensibility float64
}

// NewFreeCamera creates a free camera living in s (s may be nil if collisions are never enabled).
func NewFreeCamera(name string, position mgl64.Vec3, s *scene.Scene, opts ...Option) *FreeCamera {
	return &FreeCamera{
		TargetCamera:       NewTargetCamera(name, position, opts...),
		Collisions:         newCollisions(s),
		AngularSensibility: 2000,
	}
}

func (c *FreeCamera) Update() {
	c.checkInputs(c.Collisions.needsToMove(c.TargetCamera), func() { c.Collisions.move(c.TargetCamera) })
	c.updateRigCameras()
}

// MoveInput queues a movement expressed in the camera frame (X right, Y up, Z forward), for a frame lasting dt
// seconds.
func (c *FreeCamera) MoveInput(local mgl64.Vec3, dt float64) {
	c.queueLocalMove(local, dt)
}

// LookInput queues a rotation for a pointer movement of (dx, dy) pixels.
func (c *FreeCamera) LookInput(dx, dy float64) {
	if c.AngularSensibility == 0 {
		return
	}
	if c.Parent() != nil && c.parentMatrix().Det() < 0 {
		dx = -dx
	}
	c.CameraRotation[1] += dx / c.AngularSensibility
	c.CameraRotation[0] += dy / c.AngularSensibility
}
