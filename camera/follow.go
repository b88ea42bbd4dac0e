package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// FollowCamera chases a node, staying Radius behind it (around its heading) and HeightOffset above it. The
// approach is smoothed by CameraAcceleration and bounded by MaxCameraSpeed per frame.
type FollowCamera struct {
	*TargetCamera
	Radius float64
	// RotationOffset turns the chase position around the target heading, in degrees.
	RotationOffset     float64
	HeightOffset       float64
	CameraAcceleration float64
	MaxCameraSpeed     float64
	// LowerRadiusLimit and UpperRadiusLimit clamp Radius when positive.
	LowerRadiusLimit, UpperRadiusLimit float64
}

// NewFollowCamera creates a camera following target (which may be nil and set later through LockedTarget).
func NewFollowCamera(name string, position mgl64.Vec3, target scene.Transformable, opts ...Option) *FollowCamera {
	c := &FollowCamera{
		TargetCamera:       NewTargetCamera(name, position, opts...),
		Radius:             12,
		HeightOffset:       4,
		CameraAcceleration: 0.05,
		MaxCameraSpeed:     20,
	}
	if target != nil {
		c.LockedTarget = NodeTarget{Node: target}
	}
	return c
}

func (c *FollowCamera) Update() {
	c.checkInputs(c.hasPendingMove(), c.applyDirection)
	c.follow()
	c.updateRigCameras()
}

func (c *FollowCamera) radius() float64 {
	r := c.Radius
	if c.LowerRadiusLimit > 0 && r < c.LowerRadiusLimit {
		r = c.LowerRadiusLimit
	}
	if c.UpperRadiusLimit > 0 && r > c.UpperRadiusLimit {
		r = c.UpperRadiusLimit
	}
	return r
}

func (c *FollowCamera) follow() {
	if c.LockedTarget == nil {
		return
	}
	heading := 0.0
	if nt, ok := c.LockedTarget.(NodeTarget); ok && nt.Node != nil {
		_, rot, _, _ := scene.Decompose(nt.Node.WorldMatrix())
		forward := rot.Rotate(scene.ReferencePoint)
		heading = math.Atan2(forward[0], forward[2])
	}
	radians := mgl64.DegToRad(c.RotationOffset) + heading
	target := c.lockedTargetPosition()
	radius := c.radius()

	dx := target[0] + math.Sin(radians)*radius - c.Position[0]
	dy := target[1] + c.HeightOffset - c.Position[1]
	dz := target[2] + math.Cos(radians)*radius - c.Position[2]
	v := mgl64.Vec3{dx * c.CameraAcceleration * 2, dy * c.CameraAcceleration, dz * c.CameraAcceleration * 2}
	for i := range v {
		v[i] = mgl64.Clamp(v[i], -c.MaxCameraSpeed, c.MaxCameraSpeed)
	}
	c.Position = c.Position.Add(v)
	c.SetTarget(target)
}

//-----------------------------------------------------------------------------

// ArcFollowCamera orbits a node on a sphere: Alpha is the angle around the vertical axis (from +X towards +Z),
// Beta the elevation and Radius the distance.
type ArcFollowCamera struct {
	*TargetCamera
	Alpha, Beta, Radius float64
	target              scene.Transformable
}

// NewArcFollowCamera creates an orbiting camera around target (nil orbits nothing until SetFollowed is called).
func NewArcFollowCamera(name string, alpha, beta, radius float64, target scene.Transformable,
	opts ...Option) *ArcFollowCamera {
	c := &ArcFollowCamera{
		TargetCamera: NewTargetCamera(name, mgl64.Vec3{}, opts...),
		Alpha:        alpha,
		Beta:         beta,
		Radius:       radius,
		target:       target,
	}
	c.follow()
	return c
}

// SetFollowed changes the orbited node.
func (c *ArcFollowCamera) SetFollowed(target scene.Transformable) {
	c.target = target
	c.follow()
}

// Followed returns the orbited node.
func (c *ArcFollowCamera) Followed() scene.Transformable {
	return c.target
}

func (c *ArcFollowCamera) Update() {
	c.checkInputs(c.hasPendingMove(), c.applyDirection)
	c.follow()
	c.updateRigCameras()
}

func (c *ArcFollowCamera) follow() {
	if c.target == nil {
		return
	}
	offset := mgl64.Vec3{
		c.Radius * math.Cos(c.Alpha) * math.Cos(c.Beta),
		c.Radius * math.Sin(c.Beta),
		c.Radius * math.Sin(c.Alpha) * math.Cos(c.Beta),
	}
	target := scene.AbsolutePosition(c.target)
	c.Position = target.Add(offset)
	c.SetTarget(target)
}
