package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func assertVec3(t *testing.T, expected, actual mgl64.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, msgAndArgs...)
}

func TestComposeDecompose(t *testing.T) {
	scale := mgl64.Vec3{1, 2, 3}
	rot := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize())
	pos := mgl64.Vec3{-4, 5, 6}
	s, r, p, ok := Decompose(Compose(scale, rot, pos))
	require.True(t, ok)
	assertVec3(t, scale, s, 1e-9)
	assertVec3(t, pos, p, 1e-9)
	assert.True(t, r.OrientationEqualThreshold(rot, 1e-9), "got %v want %v", r, rot)
}

func TestDecomposeMirrored(t *testing.T) {
	m := Compose(mgl64.Vec3{2, -1, 1}, mgl64.QuatIdent(), mgl64.Vec3{})
	s, r, _, ok := Decompose(m)
	require.True(t, ok)
	assertVec3(t, mgl64.Vec3{2, -1, 1}, s, 1e-9)
	assert.True(t, r.OrientationEqualThreshold(mgl64.QuatIdent(), 1e-9))
}

func TestDecomposeZeroScale(t *testing.T) {
	_, r, p, ok := Decompose(Compose(mgl64.Vec3{0, 1, 1}, mgl64.QuatRotate(1, Up), mgl64.Vec3{1, 2, 3}))
	assert.False(t, ok)
	assert.Equal(t, mgl64.QuatIdent(), r)
	assertVec3(t, mgl64.Vec3{1, 2, 3}, p, 1e-12)
}

func TestEulerRoundTrip(t *testing.T) {
	for _, e := range []mgl64.Vec3{
		{0, 0, 0},
		{0.3, 0, 0},
		{0, 1.2, 0},
		{0, 0, -0.8},
		{0.4, -2.5, 1.1},
		{-1.2, 3, -0.2},
	} {
		got := QuatToEuler(EulerToQuat(e))
		assertVec3(t, e, got, 1e-9, "angles %v", e)
	}
}

func TestEulerYawRotatesForwardTowardsX(t *testing.T) {
	q := EulerToQuat(mgl64.Vec3{0, math.Pi / 2, 0})
	assertVec3(t, mgl64.Vec3{1, 0, 0}, q.Rotate(ReferencePoint), 1e-9)
	// Positive pitch looks down
	q = EulerToQuat(mgl64.Vec3{math.Pi / 2, 0, 0})
	assertVec3(t, mgl64.Vec3{0, -1, 0}, q.Rotate(ReferencePoint), 1e-9)
}

func TestLookAtLH(t *testing.T) {
	eye := mgl64.Vec3{1, 2, -5}
	target := mgl64.Vec3{1, 2, 0}
	view := LookAtLH(eye, target, Up)
	assertVec3(t, mgl64.Vec3{}, mgl64.TransformCoordinate(eye, view), 1e-12)
	assertVec3(t, mgl64.Vec3{0, 0, 5}, mgl64.TransformCoordinate(target, view), 1e-12)
	assertVec3(t, mgl64.Vec3{1, 0, 0}, mgl64.TransformNormal(mgl64.Vec3{1, 0, 0}, view), 1e-12)
}

func TestOrientationKeepsKind(t *testing.T) {
	q := mgl64.QuatRotate(0.5, Up)
	e := EulerOrientation(mgl64.Vec3{})
	e.Set(q)
	assert.False(t, e.IsQuaternion())
	assertVec3(t, mgl64.Vec3{0, 0.5, 0}, e.Angles, 1e-9)

	o := QuatOrientation(mgl64.QuatIdent())
	o.SetEuler(mgl64.Vec3{0, 0.5, 0})
	assert.True(t, o.IsQuaternion())
	assert.True(t, o.Q.OrientationEqualThreshold(q, 1e-9))

	o.UseQuaternion(false)
	assertVec3(t, mgl64.Vec3{0, 0.5, 0}, o.Euler(), 1e-9)
}

func TestOrientationZeroQuaternion(t *testing.T) {
	o := Orientation{Kind: OrientationQuaternion}
	assert.Equal(t, mgl64.QuatIdent(), o.Quat())
}
