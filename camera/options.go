package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// Option configures a camera at creation time.
type Option func(c *TargetCamera)

// OptSpeed sets the input speed (default 2).
func OptSpeed(speed float64) Option {
	return func(c *TargetCamera) {
		c.Speed = speed
	}
}

// OptInertia sets the per-frame decay factor of pending inputs (default 0.9).
func OptInertia(inertia float64) Option {
	return func(c *TargetCamera) {
		c.Inertia = inertia
	}
}

// OptTarget looks at target right after creation.
func OptTarget(target mgl64.Vec3) Option {
	return func(c *TargetCamera) {
		c.SetTarget(target)
	}
}

// OptLockedTarget keeps the camera looking at target.
func OptLockedTarget(target Target) Option {
	return func(c *TargetCamera) {
		c.LockedTarget = target
	}
}

// OptParent attaches the camera to a node.
func OptParent(parent scene.Transformable) Option {
	return func(c *TargetCamera) {
		c.SetParent(parent)
	}
}

// OptQuaternion makes the quaternion the authoritative rotation.
func OptQuaternion() Option {
	return func(c *TargetCamera) {
		c.Rotation.UseQuaternion(true)
	}
}

// OptNoRotationConstraint allows pitching beyond the vertical.
func OptNoRotationConstraint() Option {
	return func(c *TargetCamera) {
		c.NoRotationConstraint = true
	}
}

// OptInvertRotation reverses the rotation inputs, scaled by speed.
func OptInvertRotation(speed float64) Option {
	return func(c *TargetCamera) {
		c.InvertRotation = true
		c.InverseRotationSpeed = speed
	}
}

// OptFov sets the vertical field of view (radians) and clipping planes.
func OptFov(fov, minZ, maxZ float64) Option {
	return func(c *TargetCamera) {
		c.Fov, c.MinZ, c.MaxZ = fov, minZ, maxZ
	}
}

// OptRig renders the camera through a rig of sub-cameras.
func OptRig(mode RigMode, interaxialDistance float64) Option {
	return func(c *TargetCamera) {
		c.SetRigMode(mode, interaxialDistance)
	}
}
