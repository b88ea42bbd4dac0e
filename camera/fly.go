package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// FlyCamera turns freely in its own frame (no pitch limit, roll allowed). The quaternion is the authoritative
// rotation. With BankedTurn, yawing also rolls the camera, and the roll is slowly corrected back to the manual
// roll level.
type FlyCamera struct {
	*TargetCamera
	Collisions
	AngularSensibility float64
	// BankedTurn rolls the camera by BankedTurnMultiplier times the yaw while |roll| < BankedTurnLimit.
	BankedTurn           bool
	BankedTurnLimit      float64
	BankedTurnMultiplier float64
	// RollCorrect is the number of frames it takes to level a banked roll (0 keeps the roll).
	RollCorrect float64

	trackRoll float64
}

// NewFlyCamera creates a fly camera living in s (s may be nil if collisions are never enabled).
func NewFlyCamera(name string, position mgl64.Vec3, s *scene.Scene, opts ...Option) *FlyCamera {
	c := &FlyCamera{
		TargetCamera:         NewTargetCamera(name, position, append([]Option{OptQuaternion()}, opts...)...),
		Collisions:           newCollisions(s),
		AngularSensibility:   2000,
		BankedTurnLimit:      math.Pi / 2,
		BankedTurnMultiplier: 1,
		RollCorrect:          100,
	}
	c.NoRotationConstraint = true
	c.UpdateUpVectorFromRotation = true
	return c
}

func (c *FlyCamera) Update() {
	c.checkInputs(c.Collisions.needsToMove(c.TargetCamera), func() { c.Collisions.move(c.TargetCamera) })
	c.levelRoll()
	c.updateRigCameras()
}

// MoveInput queues a movement expressed in the camera frame (X right, Y up, Z forward), for a frame lasting dt
// seconds.
func (c *FlyCamera) MoveInput(local mgl64.Vec3, dt float64) {
	c.queueLocalMove(local, dt)
}

// LookInput pitches (dy) and yaws (dx) the camera around its own axes for a pointer movement in pixels.
func (c *FlyCamera) LookInput(dx, dy float64) {
	if c.AngularSensibility == 0 {
		return
	}
	if c.Parent() != nil && c.parentMatrix().Det() < 0 {
		dx = -dx
	}
	x, y := dx/c.AngularSensibility, dy/c.AngularSensibility
	q := c.Rotation.Quat()
	q = q.Mul(mgl64.QuatRotate(y, mgl64.Vec3{1, 0, 0}))
	q = q.Mul(mgl64.QuatRotate(x, mgl64.Vec3{0, 1, 0}))
	limit := c.BankedTurnLimit + c.trackRoll
	if roll := c.Rotation.Euler()[2]; c.BankedTurn && -limit < roll && roll < limit {
		q = q.Mul(mgl64.QuatRotate(-x*c.BankedTurnMultiplier, mgl64.Vec3{0, 0, 1}))
	}
	c.Rotation.Set(q)
}

// RollInput rolls the camera for a pointer movement of dx pixels. The roll is kept by the leveling.
func (c *FlyCamera) RollInput(dx float64) {
	if c.AngularSensibility == 0 {
		return
	}
	x := dx / c.AngularSensibility
	c.trackRoll -= x
	c.Rotation.Set(c.Rotation.Quat().Mul(mgl64.QuatRotate(-x, mgl64.Vec3{0, 0, 1})))
}

func (c *FlyCamera) levelRoll() {
	if !c.BankedTurn || c.RollCorrect == 0 {
		return
	}
	angles := c.Rotation.Euler()
	if math.Abs(angles[2]-c.trackRoll) < Epsilon {
		return
	}
	angles[2] -= (angles[2] - c.trackRoll) / c.RollCorrect
	c.Rotation.SetEuler(angles)
}
