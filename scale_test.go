package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func newTestScaleGizmo(t *testing.T, opts ...Option) (*ScaleGizmo, *scene.UtilityLayer, *testCamera,
	*scene.TransformNode) {
	t.Helper()
	_, layer, cam := newTestLayer(t)
	g := NewScaleGizmo(layer, append([]Option{OptUpdateScale(false)}, opts...)...)
	node := scene.NewTransformNode("box")
	g.SetAttachedNode(node)
	return g, layer, cam, node
}

func dragX(layer *scene.UtilityLayer, cam *testCamera, xs ...float64) {
	layer.SimulatePointer(scene.PointerDown, cam.rayTo(mgl64.Vec3{xs[0], 0, 0}))
	for _, x := range xs[1:] {
		layer.SimulatePointer(scene.PointerMove, cam.rayTo(mgl64.Vec3{x, 0, 0}))
	}
	layer.SimulatePointer(scene.PointerUp, cam.rayTo(mgl64.Vec3{}))
}

func TestAxisScaleContinuous(t *testing.T) {
	g, layer, cam, node := newTestScaleGizmo(t)
	// A unit gizmo turns a drag of d into a scale change of d*sqrt(3)
	dragX(layer, cam, 0.15, 0.65)
	assertVec3(t, mgl64.Vec3{1 + 0.5*math.Sqrt(3), 1, 1}, node.Scaling, 1e-6)
	assert.False(t, g.IsDragging())
}

func TestAxisScaleSensitivity(t *testing.T) {
	g, layer, cam, node := newTestScaleGizmo(t, OptSensitivity(2))
	assert.Equal(t, 2.0, g.Sensitivity())
	g.SetSensitivity(0.5)
	dragX(layer, cam, 0.15, 0.65)
	assertVec3(t, mgl64.Vec3{1 + 0.25*math.Sqrt(3), 1, 1}, node.Scaling, 1e-6)
}

func TestAxisScaleSnapModes(t *testing.T) {
	for _, tc := range []struct {
		incremental bool
		expected    float64
	}{
		{false, 2.25}, // 1.5 then 1.5*1.5
		{true, 2},     // 1.5 then 1.5+0.5
	} {
		g, layer, cam, node := newTestScaleGizmo(t, OptSnapDistance(0.5), OptIncrementalSnap(tc.incremental))
		assert.Equal(t, tc.incremental, g.IncrementalSnap())
		var events []float64
		g.XGizmo.OnSnap.Add(func(ev SnapEvent) { events = append(events, ev.SnapDistance) })
		// Raw amounts 0.87 then 1.39 in total: one quantum per move
		dragX(layer, cam, 0.15, 0.65, 0.95)
		assert.InDelta(t, tc.expected, node.Scaling[0], 1e-6)
		assert.InDelta(t, 1, node.Scaling[1], 1e-9)
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, events, 1e-9)
	}
}

func TestUniformScale(t *testing.T) {
	g, layer, cam, node := newTestScaleGizmo(t)
	require.True(t, g.UniformScaleGizmo.UniformScaling)
	// The center handle is dragged vertically
	layer.SimulatePointer(scene.PointerDown, cam.rayTo(mgl64.Vec3{}))
	require.True(t, g.UniformScaleGizmo.IsDragging())
	layer.SimulatePointer(scene.PointerMove, cam.rayTo(mgl64.Vec3{0, 0.5, 0}))
	layer.SimulatePointer(scene.PointerUp, cam.rayTo(mgl64.Vec3{}))
	s := 1 + 0.5*math.Sqrt(3)*invSqrt3
	assertVec3(t, mgl64.Vec3{s, s, s}, node.Scaling, 1e-4)
}

func TestScaleGizmoOverflowIsDiscarded(t *testing.T) {
	_, layer, cam, node := newTestScaleGizmo(t)
	node.Scaling = mgl64.Vec3{1e-10, 1, 1}
	// Collapsing the X axis to zero cannot be decomposed
	dragX(layer, cam, 0.15, 0.15-1/math.Sqrt(3))
	assertVec3(t, mgl64.Vec3{1e-10, 1, 1}, node.Scaling, 1e-12)
	assert.Equal(t, mgl64.Vec3{}, node.Position)
}
