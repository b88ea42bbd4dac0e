package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// OrientationKind tells which representation of an Orientation is authoritative.
type OrientationKind uint8

const (
	OrientationEuler OrientationKind = iota
	OrientationQuaternion
)

// Orientation is a rotation stored either as (pitch, yaw, roll) Euler angles or as a quaternion.
// Only the field matching Kind is meaningful: always read it through Quat or Euler.
type Orientation struct {
	Kind   OrientationKind
	Angles mgl64.Vec3 // Pitch (X), yaw (Y) and roll (Z), used when Kind == OrientationEuler
	Q      mgl64.Quat // Used when Kind == OrientationQuaternion
}

// EulerOrientation returns an Euler-authoritative orientation.
func EulerOrientation(angles mgl64.Vec3) Orientation {
	return Orientation{Kind: OrientationEuler, Angles: angles, Q: mgl64.QuatIdent()}
}

// QuatOrientation returns a quaternion-authoritative orientation.
func QuatOrientation(q mgl64.Quat) Orientation {
	return Orientation{Kind: OrientationQuaternion, Q: q.Normalize()}
}

// IsQuaternion reports whether the quaternion is authoritative.
func (o Orientation) IsQuaternion() bool {
	return o.Kind == OrientationQuaternion
}

// Quat returns the normalized quaternion form, whatever the authoritative representation.
func (o Orientation) Quat() mgl64.Quat {
	if o.Kind == OrientationQuaternion {
		if o.Q.Len() == 0 {
			return mgl64.QuatIdent()
		}
		return o.Q.Normalize()
	}
	return EulerToQuat(o.Angles)
}

// Euler returns the (pitch, yaw, roll) form, whatever the authoritative representation.
func (o Orientation) Euler() mgl64.Vec3 {
	if o.Kind == OrientationQuaternion {
		return QuatToEuler(o.Quat())
	}
	return o.Angles
}

// Set stores q, keeping the current representation.
func (o *Orientation) Set(q mgl64.Quat) {
	if o.Kind == OrientationQuaternion {
		o.Q = q.Normalize()
	} else {
		o.Angles = QuatToEuler(q.Normalize())
	}
}

// SetEuler stores angles, keeping the current representation.
func (o *Orientation) SetEuler(angles mgl64.Vec3) {
	if o.Kind == OrientationQuaternion {
		o.Q = EulerToQuat(angles)
	} else {
		o.Angles = angles
	}
}

// UseQuaternion switches the authoritative representation without changing the rotation.
func (o *Orientation) UseQuaternion(enable bool) {
	if enable == o.IsQuaternion() {
		return
	}
	if enable {
		*o = QuatOrientation(o.Quat())
	} else {
		*o = EulerOrientation(o.Euler())
	}
}

// Matrix returns the rotation matrix.
func (o Orientation) Matrix() mgl64.Mat4 {
	return o.Quat().Mat4()
}
