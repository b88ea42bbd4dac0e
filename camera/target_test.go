package camera

import (
	"github.com/Yeicor/sdfx-gizmo"
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func assertVec3(t *testing.T, expected, actual mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, "expected %v, got %v", expected, actual)
}

func forward(c *TargetCamera) mgl64.Vec3 {
	return c.Rotation.Quat().Rotate(scene.ReferencePoint)
}

func TestInertiaDecay(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{})
	c.CameraDirection = mgl64.Vec3{1, -0.5, 0}
	threshold := c.Speed * Epsilon
	expected := mgl64.Vec3{1, -0.5, 0}
	travelled := mgl64.Vec3{}
	for n := 1; n <= 100; n++ {
		travelled = travelled.Add(expected)
		c.Update()
		for i := range expected {
			if math.Abs(expected[i]) < threshold {
				expected[i] = 0
			} else {
				expected[i] *= c.Inertia
			}
		}
		assertVec3(t, expected, c.CameraDirection, 1e-12)
		assert.GreaterOrEqual(t, c.CameraDirection[0], 0.0)
		assert.LessOrEqual(t, c.CameraDirection[1], 0.0)
	}
	assert.Equal(t, mgl64.Vec3{}, c.CameraDirection)
	assertVec3(t, travelled, c.Position, 1e-9)
	// Close to the geometric limit 1/(1-0.9)
	assert.InDelta(t, 10, c.Position[0], 0.05)

	c.Inertia = 0
	c.CameraRotation = mgl64.Vec2{0, 0.5}
	c.Update()
	assert.Equal(t, mgl64.Vec2{}, c.CameraRotation)
	assert.InDelta(t, 0.5, c.Rotation.Euler()[1], 1e-12)
}

func TestLockedTargetOverridesRotation(t *testing.T) {
	s := scene.NewScene("test")
	target := mgl64.Vec3{3, 4, 10}
	c := NewTargetCamera("cam", mgl64.Vec3{}, OptLockedTarget(Point(target)))
	s.ActiveCamera = c

	c.Rotation.SetEuler(mgl64.Vec3{1, 2, 0.5})
	c.CameraRotation = mgl64.Vec2{0.3, 0.3}
	s.Tick()
	assertVec3(t, target.Normalize(), forward(c), 1e-9)
	assertVec3(t, target.Normalize(), scene.ForwardOf(c), 1e-9)
	assert.Zero(t, c.Rotation.Euler()[2])

	// Following a node
	node := scene.NewTransformNode("box")
	node.Position = mgl64.Vec3{-5, 0, 0}
	c.LockedTarget = NodeTarget{Node: node}
	s.Tick()
	assertVec3(t, mgl64.Vec3{-1, 0, 0}, forward(c), 1e-3)
}

func TestSetTarget(t *testing.T) {
	for _, target := range []mgl64.Vec3{{1, 2, 3}, {-4, 1, 2}, {-1, -1, -1}, {2, 0, -5}, {0, 3, 1}} {
		c := NewTargetCamera("cam", mgl64.Vec3{0.5, 0.5, 0.5})
		c.SetTarget(target)
		assertVec3(t, target.Sub(c.Position).Normalize(), forward(c), 1e-9)
		assertVec3(t, target.Sub(c.Position).Normalize(), scene.ForwardOf(c), 1e-9)
		assert.InDelta(t, target.Sub(c.Position).Len(), c.initialFocalDistance, 1e-12)
	}
}

func TestSetTargetSameDepth(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{0, 0, 5})
	c.SetTarget(mgl64.Vec3{-1, 0, 5})
	assert.Equal(t, 5+Epsilon, c.Position[2])
	assertVec3(t, mgl64.Vec3{-1, 0, 0}, forward(c), 1e-3)

	// Looking at its own position keeps a valid rotation
	c.SetTarget(c.Position)
	for _, a := range c.Rotation.Euler() {
		assert.False(t, math.IsNaN(a))
	}
}

func TestPitchConstraint(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{}, OptInertia(0))
	c.CameraRotation = mgl64.Vec2{3, 0}
	c.Update()
	assert.Equal(t, PitchLimit, c.Rotation.Euler()[0])
	c.CameraRotation = mgl64.Vec2{-10, 0}
	c.Update()
	assert.Equal(t, -PitchLimit, c.Rotation.Euler()[0])

	free := NewTargetCamera("free", mgl64.Vec3{}, OptInertia(0), OptNoRotationConstraint())
	free.CameraRotation = mgl64.Vec2{3, 0}
	free.Update()
	assert.Equal(t, 3.0, free.Rotation.Euler()[0])
}

func TestInvertRotation(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{}, OptInertia(0), OptInvertRotation(0.2))
	c.CameraRotation = mgl64.Vec2{0.5, 1}
	c.Update()
	assertVec3(t, mgl64.Vec3{-0.1, -0.2, 0}, c.Rotation.Euler(), 1e-12)
}

func TestQuaternionRotationIsKept(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{}, OptInertia(0), OptQuaternion())
	c.CameraRotation = mgl64.Vec2{0.25, 0.5}
	c.Update()
	require.True(t, c.Rotation.IsQuaternion())
	assertVec3(t, mgl64.Vec3{0.25, 0.5, 0}, c.Rotation.Euler(), 1e-9)
}

func TestParentedCamera(t *testing.T) {
	parent := scene.NewTransformNode("rig")
	parent.Position = mgl64.Vec3{10, 0, 0}
	parent.Rotation.SetEuler(mgl64.Vec3{0, math.Pi / 2, 0})
	parent.Scaling = mgl64.Vec3{2, 2, 2}
	c := NewTargetCamera("cam", mgl64.Vec3{0, 0, 1}, OptParent(parent))

	assertVec3(t, mgl64.Vec3{12, 0, 0}, c.GlobalPosition(), 1e-9)
	c.IgnoreParentScaling = true
	assertVec3(t, mgl64.Vec3{11, 0, 0}, c.GlobalPosition(), 1e-9)

	view := c.ViewMatrix()
	assertVec3(t, mgl64.Vec3{}, mgl64.TransformCoordinate(c.GlobalPosition(), view), 1e-9)
	assertVec3(t, mgl64.Vec3{1, 0, 0}, scene.ForwardOf(c), 1e-9)

	// Pending movement is expressed in world axes
	c.CameraDirection = mgl64.Vec3{0, 0, 1}
	c.Inertia = 0
	c.Update()
	assertVec3(t, mgl64.Vec3{11, 0, 1}, c.GlobalPosition(), 1e-9)

	// A locked target is given in world space
	c.LockedTarget = Point{11, 0, 10}
	c.ViewMatrix()
	assertVec3(t, mgl64.Vec3{0, 0, 1}, scene.ForwardOf(c), 1e-3)
}

func TestCameraWorldMatrix(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{1, 2, 3}, OptTarget(mgl64.Vec3{4, 0, 8}))
	other := NewTargetCamera("other", mgl64.Vec3{})
	other.SetWorldMatrix(c.WorldMatrix())
	assertVec3(t, c.Position, other.Position, 1e-9)
	assertVec3(t, forward(c), forward(other), 1e-9)
	assert.Equal(t, scene.KindCamera, c.Kind())
	assertVec3(t, c.Position.Add(forward(c).Mul(5)), c.FrontPosition(5), 1e-9)

	// Gizmos move cameras like any other node
	gizmo.ApplyTranslationDelta(c, mgl64.Vec3{1, 1, 1})
	assertVec3(t, mgl64.Vec3{2, 3, 4}, c.Position, 1e-9)
	before := forward(c)
	gizmo.ApplyRotationDelta(c, mgl64.Vec3{0, 1, 0}, math.Pi/2, true)
	assertVec3(t, mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}).Rotate(before), forward(c), 1e-9)
}

func TestViewMatrixChangeNotification(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{})
	changes := 0
	c.OnViewMatrixChanged.Add(func(mgl64.Mat4) { changes++ })
	c.ViewMatrix()
	c.ViewMatrix()
	assert.Equal(t, 1, changes)
	c.Position = mgl64.Vec3{1, 0, 0}
	c.ViewMatrix()
	assert.Equal(t, 2, changes)
}

func TestStoreRestoreState(t *testing.T) {
	c := NewTargetCamera("cam", mgl64.Vec3{1, 2, 3})
	assert.False(t, c.RestoreState())

	c.Rotation.SetEuler(mgl64.Vec3{0.1, 0.2, 0})
	c.StoreState()
	c.Position = mgl64.Vec3{9, 9, 9}
	c.Rotation.SetEuler(mgl64.Vec3{1, 1, 1})
	c.Fov = 1.2
	c.CameraDirection = mgl64.Vec3{1, 0, 0}
	c.CameraRotation = mgl64.Vec2{1, 0}

	require.True(t, c.RestoreState())
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, c.Position)
	assertVec3(t, mgl64.Vec3{0.1, 0.2, 0}, c.Rotation.Euler(), 1e-12)
	assert.Equal(t, 0.8, c.Fov)
	assert.Equal(t, mgl64.Vec3{}, c.CameraDirection)
	assert.Equal(t, mgl64.Vec2{}, c.CameraRotation)
}
