package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// ReferencePoint is the local forward direction of cameras (left-handed, +Z forward, +Y up).
var ReferencePoint = mgl64.Vec3{0, 0, 1}

// Up is the default up vector.
var Up = mgl64.Vec3{0, 1, 0}

// Compose builds the matrix that scales, then rotates, then translates.
func Compose(scale mgl64.Vec3, rot mgl64.Quat, translation mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(translation[0], translation[1], translation[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// Decompose splits an affine matrix into scale, rotation and translation.
// A negative determinant is folded into the Y scale. ok is false when any scale is zero, in which case the
// returned rotation is the identity.
func Decompose(m mgl64.Mat4) (scale mgl64.Vec3, rot mgl64.Quat, translation mgl64.Vec3, ok bool) {
	translation = mgl64.Vec3{m[12], m[13], m[14]}
	scale = mgl64.Vec3{
		mgl64.Vec3{m[0], m[1], m[2]}.Len(),
		mgl64.Vec3{m[4], m[5], m[6]}.Len(),
		mgl64.Vec3{m[8], m[9], m[10]}.Len(),
	}
	if m.Det() <= 0 {
		scale[1] = -scale[1]
	}
	if scale[0] == 0 || scale[1] == 0 || scale[2] == 0 {
		return scale, mgl64.QuatIdent(), translation, false
	}
	r := mgl64.Ident4()
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			r.Set(row, col, m.At(row, col)/scale[col])
		}
	}
	return scale, mgl64.Mat4ToQuat(r).Normalize(), translation, true
}

// Translation returns the translation column of m.
func Translation(m mgl64.Mat4) mgl64.Vec3 {
	return mgl64.Vec3{m[12], m[13], m[14]}
}

// SetTranslation overwrites the translation column of m.
func SetTranslation(m *mgl64.Mat4, t mgl64.Vec3) {
	m[12], m[13], m[14] = t[0], t[1], t[2]
}

// EulerToQuat converts (pitch, yaw, roll) angles into a quaternion, applying roll (Z) first, then pitch (X),
// then yaw (Y).
func EulerToQuat(e mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(e[1], e[0], e[2], mgl64.YXZ)
}

// QuatToEuler is the inverse of EulerToQuat. Gimbal-locked inputs report roll as zero.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	qx, qy, qz, qw := q.V[0], q.V[1], q.V[2], q.W
	sqx, sqy, sqz, sqw := qx*qx, qy*qy, qz*qz, qw*qw
	zAxisY := qy*qz - qx*qw
	const limit = .4999999
	switch {
	case zAxisY < -limit:
		return mgl64.Vec3{math.Pi / 2, 2 * math.Atan2(qy, qw), 0}
	case zAxisY > limit:
		return mgl64.Vec3{-math.Pi / 2, 2 * math.Atan2(qy, qw), 0}
	default:
		return mgl64.Vec3{
			math.Asin(-2 * zAxisY),
			math.Atan2(2*(qz*qx+qy*qw), sqz-sqx-sqy+sqw),
			math.Atan2(2*(qx*qy+qz*qw), -sqz-sqx+sqy+sqw),
		}
	}
}

// LookAtLH builds a left-handed view matrix (the camera looks down its local +Z).
func LookAtLH(eye, target, up mgl64.Vec3) mgl64.Mat4 {
	z := target.Sub(eye)
	if z.Len() == 0 {
		z = ReferencePoint
	}
	z = z.Normalize()
	x := up.Cross(z)
	if x.Len() == 0 {
		x = mgl64.Vec3{1, 0, 0}
	} else {
		x = x.Normalize()
	}
	y := z.Cross(x)
	return mgl64.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// ParentWorld returns the world matrix of the parent of n, or the identity.
func ParentWorld(n Transformable) mgl64.Mat4 {
	if n == nil || n.Parent() == nil {
		return mgl64.Ident4()
	}
	return n.Parent().WorldMatrix()
}

// LocalFromWorld expresses the world matrix m in the parent space of n.
func LocalFromWorld(n Transformable, m mgl64.Mat4) mgl64.Mat4 {
	if n == nil || n.Parent() == nil {
		return m
	}
	return n.Parent().WorldMatrix().Inv().Mul4(m)
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// SafeNormalize returns v normalized, or the zero vector for a zero-length input.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}
