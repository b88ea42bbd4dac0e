// Package camera implements the target camera family: cameras that are steered by a position, a rotation and
// optionally a target they keep looking at.
package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
	"math"
)

// Epsilon is the smallest meaningful change of any camera quantity.
const Epsilon = 0.001

// PitchLimit is the maximum absolute pitch allowed while the rotation constraint is active.
const PitchLimit = 1.570796

// Target is something a camera can keep looking at.
type Target interface {
	TargetPosition() mgl64.Vec3
}

// Point is a fixed world-space target.
type Point mgl64.Vec3

func (p Point) TargetPosition() mgl64.Vec3 {
	return mgl64.Vec3(p)
}

// NodeTarget follows the absolute position of a node.
type NodeTarget struct {
	Node scene.Transformable
}

func (t NodeTarget) TargetPosition() mgl64.Vec3 {
	return scene.AbsolutePosition(t.Node)
}

//-----------------------------------------------------------------------------

// TargetCamera is a camera defined by its position and rotation. Pending movement (CameraDirection) and rotation
// (CameraRotation) are consumed on every Update and then decay by Inertia.
type TargetCamera struct {
	*scene.TransformNode
	// CameraDirection is the pending displacement, in world axes (parent space if parented).
	CameraDirection mgl64.Vec3
	// CameraRotation is the pending rotation: X is pitch, Y is yaw.
	CameraRotation mgl64.Vec2
	// Speed scales the inputs and the threshold under which pending changes are dropped.
	Speed float64
	// Inertia is the factor applied to pending changes after each frame (0 stops at once).
	Inertia float64
	// LockedTarget forces the camera to look at it on every view matrix computation.
	LockedTarget Target
	// UpVector is used to build the view matrix.
	UpVector mgl64.Vec3
	// UpdateUpVectorFromRotation derives the up vector from the rotation (allows roll).
	UpdateUpVectorFromRotation bool
	// NoRotationConstraint disables the pitch clamp.
	NoRotationConstraint bool
	// InvertRotation reverses and scales (by InverseRotationSpeed) the pending rotation.
	InvertRotation       bool
	InverseRotationSpeed float64
	// IgnoreParentScaling removes the scale of the parent from the camera world matrix.
	IgnoreParentScaling bool
	// Fov is the vertical field of view in radians, MinZ and MaxZ are the clipping planes.
	Fov, MinZ, MaxZ float64
	// OnViewMatrixChanged is notified when the computed view matrix differs from the previous one.
	OnViewMatrixChanged scene.Observable[mgl64.Mat4]

	rig                  rig
	initialFocalDistance float64
	lastView             mgl64.Mat4
	stored               *State
}

// NewTargetCamera creates a camera at position, looking along +Z.
func NewTargetCamera(name string, position mgl64.Vec3, opts ...Option) *TargetCamera {
	c := &TargetCamera{
		TransformNode:        scene.NewTransformNode(name),
		Speed:                2,
		Inertia:              0.9,
		UpVector:             scene.Up,
		InverseRotationSpeed: 0.2,
		Fov:                  0.8,
		MinZ:                 0.1,
		MaxZ:                 1e4,
		initialFocalDistance: 1,
	}
	c.Position = position
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *TargetCamera) Kind() scene.Kind {
	return scene.KindCamera
}

// Target returns the point the camera currently looks at, in local (parent) space.
func (c *TargetCamera) Target() mgl64.Vec3 {
	return c.Position.Add(c.Rotation.Quat().Rotate(scene.ReferencePoint))
}

// SetTarget rotates the camera to look at target (local space). The roll is reset.
func (c *TargetCamera) SetTarget(target mgl64.Vec3) {
	if c.Position[2] == target[2] {
		c.Position[2] += Epsilon
	}
	d := target.Sub(c.Position)
	c.initialFocalDistance = d.Len()

	var yaw float64
	if d[0] >= 0 {
		yaw = -math.Atan(d[2]/d[0]) + math.Pi/2
	} else {
		yaw = -math.Atan(d[2]/d[0]) - math.Pi/2
	}
	pitch := math.Atan(-d[1] / math.Hypot(d[0], d[2]))
	if math.IsNaN(yaw) {
		yaw = 0
	}
	if math.IsNaN(pitch) {
		pitch = 0
	}
	c.Rotation.SetEuler(mgl64.Vec3{pitch, yaw, 0})
}

// FrontPosition returns the world point at distance in front of the camera.
func (c *TargetCamera) FrontPosition(distance float64) mgl64.Vec3 {
	forward := mgl64.TransformNormal(scene.ReferencePoint, c.WorldMatrix())
	return c.GlobalPosition().Add(scene.SafeNormalize(forward).Mul(distance))
}

// parentMatrix is the world matrix of the parent, without scale if IgnoreParentScaling is set.
func (c *TargetCamera) parentMatrix() mgl64.Mat4 {
	m := scene.ParentWorld(c)
	if !c.IgnoreParentScaling || c.Parent() == nil {
		return m
	}
	_, rot, t, ok := scene.Decompose(m)
	if !ok {
		return mgl64.Translate3D(t[0], t[1], t[2])
	}
	return scene.Compose(mgl64.Vec3{1, 1, 1}, rot, t)
}

func (c *TargetCamera) GlobalPosition() mgl64.Vec3 {
	return mgl64.TransformCoordinate(c.Position, c.parentMatrix())
}

func (c *TargetCamera) upVector() mgl64.Vec3 {
	if c.UpdateUpVectorFromRotation {
		return c.Rotation.Quat().Rotate(scene.Up)
	}
	return c.UpVector
}

func (c *TargetCamera) computeViewMatrix() mgl64.Mat4 {
	view := scene.LookAtLH(c.Position, c.Target(), c.upVector())
	if c.Parent() == nil {
		return view
	}
	return c.parentMatrix().Mul4(view.Inv()).Inv()
}

// ViewMatrix applies the locked target (if any) and returns the world to view transform.
func (c *TargetCamera) ViewMatrix() mgl64.Mat4 {
	if c.LockedTarget != nil {
		c.SetTarget(c.lockedTargetPosition())
	}
	view := c.computeViewMatrix()
	if view != c.lastView {
		c.lastView = view
		c.OnViewMatrixChanged.Notify(view)
	}
	return view
}

// lockedTargetPosition expresses the locked target in the parent space of the camera.
func (c *TargetCamera) lockedTargetPosition() mgl64.Vec3 {
	p := c.LockedTarget.TargetPosition()
	if c.Parent() == nil {
		return p
	}
	return mgl64.TransformCoordinate(p, c.parentMatrix().Inv())
}

// WorldMatrix is the inverse of the view matrix.
func (c *TargetCamera) WorldMatrix() mgl64.Mat4 {
	return c.computeViewMatrix().Inv()
}

// SetWorldMatrix moves and rotates the camera so that it matches m. Scale is ignored.
func (c *TargetCamera) SetWorldMatrix(m mgl64.Mat4) {
	local := m
	if c.Parent() != nil {
		local = c.parentMatrix().Inv().Mul4(m)
	}
	_, rot, pos, ok := scene.Decompose(local)
	c.Position = pos
	if ok {
		c.Rotation.Set(rot)
	}
}

//-----------------------------------------------------------------------------

// Update consumes the pending inputs and refreshes the rig cameras.
func (c *TargetCamera) Update() {
	c.checkInputs(c.hasPendingMove(), c.applyDirection)
	c.updateRigCameras()
}

func (c *TargetCamera) hasPendingMove() bool {
	return c.CameraDirection != mgl64.Vec3{}
}

// applyDirection moves the camera by CameraDirection, converted to local space when parented.
func (c *TargetCamera) applyDirection() {
	d := c.CameraDirection
	if c.Parent() != nil {
		d = mgl64.TransformNormal(d, c.parentMatrix().Inv())
	}
	c.Position = c.Position.Add(d)
}

// checkInputs is the shared per-frame step: move (with the given strategy), rotate, then decay.
func (c *TargetCamera) checkInputs(needToMove bool, move func()) {
	needToRotate := c.CameraRotation != mgl64.Vec2{}
	if needToMove {
		move()
	}
	if needToRotate {
		multiplier := 1.0
		if c.InvertRotation {
			multiplier = -c.InverseRotationSpeed
		}
		angles := c.Rotation.Euler()
		angles[0] += c.CameraRotation[0] * multiplier
		angles[1] += c.CameraRotation[1] * multiplier
		if !c.NoRotationConstraint {
			angles[0] = mgl64.Clamp(angles[0], -PitchLimit, PitchLimit)
		}
		c.Rotation.SetEuler(angles)
	}

	threshold := c.Speed * Epsilon
	if needToMove {
		for i := range c.CameraDirection {
			if math.Abs(c.CameraDirection[i]) < threshold {
				c.CameraDirection[i] = 0
			}
		}
		c.CameraDirection = c.CameraDirection.Mul(c.Inertia)
	}
	if needToRotate {
		for i := range c.CameraRotation {
			if math.Abs(c.CameraRotation[i]) < threshold {
				c.CameraRotation[i] = 0
			}
		}
		c.CameraRotation = c.CameraRotation.Mul(c.Inertia)
	}
}

// localSpeed converts Speed into a per-frame amount for a frame lasting dt seconds: sqrt(ms / (fps * 100)).
func (c *TargetCamera) localSpeed(dt float64) float64 {
	if dt <= 0 {
		log.Println("[Camera] WARNING: non-positive frame time, ignoring input")
		return 0
	}
	fps := 1 / dt
	return c.Speed * math.Sqrt(dt*1000/(fps*100))
}

// queueLocalMove adds a movement expressed in the camera frame to CameraDirection.
func (c *TargetCamera) queueLocalMove(local mgl64.Vec3, dt float64) {
	speed := c.localSpeed(dt)
	if speed == 0 || local == (mgl64.Vec3{}) {
		return
	}
	c.CameraDirection = c.CameraDirection.Add(mgl64.TransformNormal(local.Mul(speed), c.computeViewMatrix().Inv()))
}
