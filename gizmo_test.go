package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

// testCamera looks at a fixed target.
type testCamera struct {
	*scene.TransformNode
	target mgl64.Vec3
}

func (c *testCamera) Kind() scene.Kind           { return scene.KindCamera }
func (c *testCamera) GlobalPosition() mgl64.Vec3 { return c.Position }
func (c *testCamera) Update()                    {}
func (c *testCamera) ViewMatrix() mgl64.Mat4     { return scene.LookAtLH(c.Position, c.target, scene.Up) }
func (c *testCamera) rayTo(p mgl64.Vec3) scene.Ray {
	return scene.NewRay(c.Position, p.Sub(c.Position), 0)
}

func newTestLayer(t *testing.T) (*scene.Scene, *scene.UtilityLayer, *testCamera) {
	t.Helper()
	s := scene.NewScene("test")
	cam := &testCamera{TransformNode: scene.NewTransformNode("camera")}
	cam.Position = mgl64.Vec3{0, 5, -10}
	s.ActiveCamera = cam
	layer := scene.NewUtilityLayer(s)
	return s, layer, cam
}

func assertVec3(t *testing.T, expected, actual mgl64.Vec3, delta float64) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, "expected %v, got %v", expected, actual)
}

// assertSameRotation compares two unit quaternions up to sign.
func assertSameRotation(t *testing.T, expected, actual mgl64.Quat) {
	t.Helper()
	dot := expected.Normalize().Dot(actual.Normalize())
	assert.InDelta(t, 1, math.Abs(dot), 1e-6, "expected %v, got %v", expected, actual)
}

func TestGizmoFollowsAttachedNode(t *testing.T) {
	s, layer, cam := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer, OptScaleRatio(0.5))
	node := scene.NewTransformNode("box")
	node.Position = mgl64.Vec3{0, 5, 0}
	node.Rotation.SetEuler(mgl64.Vec3{0, 0.5, 0})
	g.SetAttachedNode(node)

	assertVec3(t, node.Position, g.Root().Position, 1e-9)
	assertSameRotation(t, node.Rotation.Quat(), g.Root().Rotation.Quat())
	dist := cam.Position.Sub(node.Position).Len()
	assertVec3(t, mgl64.Vec3{0.5 * dist, 0.5 * dist, 0.5 * dist}, g.Root().Scaling, 1e-9)

	// Followed on the next frame
	node.Position = mgl64.Vec3{1, 2, 3}
	s.Tick()
	assertVec3(t, node.Position, g.Root().Position, 1e-9)

	g.UpdateGizmoRotationToMatchAttachedMesh = false
	g.UpdateScale = false
	s.Tick()
	assertSameRotation(t, mgl64.QuatIdent(), g.Root().Rotation.Quat())
	assertVec3(t, mgl64.Vec3{0.5, 0.5, 0.5}, g.Root().Scaling, 1e-9)
}

func TestGizmoMirroredNodeFlipsRoot(t *testing.T) {
	_, layer, _ := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer, OptUpdateScale(false))
	node := scene.NewTransformNode("mirrored")
	node.Scaling = mgl64.Vec3{1, 1, -1}
	g.SetAttachedNode(node)
	assert.Less(t, g.Root().Scaling[1], 0.0)
	assert.Less(t, g.Root().WorldMatrix().Det(), 0.0)
}

func TestGizmoPivotAnchor(t *testing.T) {
	_, layer, _ := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer, OptAnchorPoint(AnchorPivot))
	node := scene.NewTransformNode("pivoted")
	node.Position = mgl64.Vec3{1, 0, 0}
	node.SetPivotPoint(mgl64.Vec3{0, 2, 0})
	node.Rotation.SetEuler(mgl64.Vec3{0, 0, math.Pi / 2})
	g.SetAttachedNode(node)
	assertVec3(t, node.PositionInWorld(), g.Root().Position, 1e-9)

	g.AnchorPoint = AnchorOrigin
	g.SetAttachedNode(node)
	assertVec3(t, scene.Translation(node.WorldMatrix()), g.Root().Position, 1e-9)
}

func TestGizmoCustomRotation(t *testing.T) {
	_, layer, _ := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{0, 1, 0}, layer)
	q := mgl64.QuatRotate(0.3, mgl64.Vec3{0, 0, 1})
	g.CustomRotationQuaternion = &q
	g.SetAttachedNode(scene.NewTransformNode("box"))
	assertSameRotation(t, q, g.Root().Rotation.Quat())
}

func TestGizmoMeshesFollowAttachment(t *testing.T) {
	_, layer, _ := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer)
	meshes := g.Meshes()
	require.Len(t, meshes, 2)
	for _, m := range meshes {
		assert.False(t, m.Visible)
	}
	g.SetAttachedNode(scene.NewTransformNode("box"))
	for _, m := range meshes {
		assert.True(t, m.Visible)
	}
	g.Dispose()
	assert.Empty(t, layer.Scene.Meshes())
}

func TestSetCustomMesh(t *testing.T) {
	_, layer, _ := newTestLayer(t)
	g := NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer)

	foreign := scene.NewMesh("foreign", uniformShape(1), scene.NewScene("other"))
	assert.ErrorIs(t, g.SetCustomMesh(foreign), ErrCustomMeshScene)
	assert.Len(t, g.Meshes(), 2)

	custom := scene.NewMesh("custom", uniformShape(1), layer.Scene)
	require.NoError(t, g.SetCustomMesh(custom))
	assert.Equal(t, []*scene.Mesh{custom}, g.Meshes())
	entry := g.cache.Entry(g.CacheHandle())
	require.NotNil(t, entry)
	assert.Equal(t, []*scene.Mesh{custom}, entry.ColliderMeshes)

	pos := NewPositionGizmo(layer)
	assert.ErrorIs(t, pos.SetCustomMesh(custom), ErrCustomMeshUnsupported)
}
