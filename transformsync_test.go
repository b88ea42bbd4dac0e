package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"math"
	"testing"
)

func TestTranslationRoundTrip(t *testing.T) {
	parent := scene.NewTransformNode("parent")
	parent.Position = mgl64.Vec3{3, -1, 2}
	parent.Rotation.SetEuler(mgl64.Vec3{0.2, 0.9, -0.4})
	parent.Scaling = mgl64.Vec3{2, 0.5, 1.5}

	orphan := scene.NewTransformNode("orphan")
	orphan.Position = mgl64.Vec3{1, 2, 3}
	child := scene.NewTransformNode("child")
	child.Position = mgl64.Vec3{-1, 0.5, 4}
	child.SetParent(parent)
	pivoted := scene.NewTransformNode("pivoted")
	pivoted.SetPivotPoint(mgl64.Vec3{0, 1, 0})
	pivoted.Rotation.SetEuler(mgl64.Vec3{0, 0, 0.7})

	v := mgl64.Vec3{0.3, -7, 12.5}
	for _, node := range []*scene.TransformNode{orphan, child, pivoted} {
		before := scene.Translation(node.WorldMatrix())
		ApplyTranslationDelta(node, v)
		if !node.IsUsingPivotMatrix() {
			assertVec3(t, before.Add(v), scene.Translation(node.WorldMatrix()), 1e-9)
		}
		ApplyTranslationDelta(node, v.Mul(-1))
		assertVec3(t, before, scene.Translation(node.WorldMatrix()), 1e-9)
	}
}

func TestTranslationKeepsRotationAndScale(t *testing.T) {
	node := scene.NewTransformNode("box")
	node.Rotation.SetEuler(mgl64.Vec3{0.1, 0.2, 0.3})
	node.Scaling = mgl64.Vec3{1, 2, 3}
	rot := node.Rotation.Quat()
	ApplyTranslationDelta(node, mgl64.Vec3{1, 1, 1})
	assertVec3(t, mgl64.Vec3{1, 1, 1}, node.Position, 1e-9)
	assertVec3(t, mgl64.Vec3{1, 2, 3}, node.Scaling, 1e-9)
	assertSameRotation(t, rot, node.Rotation.Quat())
}

func TestRotationCompositionOrder(t *testing.T) {
	orig := mgl64.QuatRotate(0.7, mgl64.Vec3{1, 0, 0})
	axis := mgl64.Vec3{0, 1, 0}
	delta := mgl64.QuatRotate(0.4, axis)

	fixed := scene.NewTransformNode("fixed")
	fixed.Rotation = scene.QuatOrientation(orig)
	ApplyRotationDelta(fixed, axis, 0.4, true)
	assertSameRotation(t, delta.Mul(orig), fixed.Rotation.Quat())

	local := scene.NewTransformNode("local")
	local.Rotation = scene.QuatOrientation(orig)
	ApplyRotationDelta(local, axis, 0.4, false)
	assertSameRotation(t, orig.Mul(delta), local.Rotation.Quat())

	dot := fixed.Rotation.Quat().Dot(local.Rotation.Quat())
	assert.Less(t, math.Abs(dot), 1-1e-6)
	assert.True(t, local.Rotation.IsQuaternion())
}

func TestRotationKeepsEulerKind(t *testing.T) {
	node := scene.NewTransformNode("euler")
	node.Position = mgl64.Vec3{1, 2, 3}
	ApplyRotationDelta(node, mgl64.Vec3{0, 1, 0}, math.Pi/2, true)
	assert.False(t, node.Rotation.IsQuaternion())
	assert.InDelta(t, math.Pi/2, node.Rotation.Euler()[1], 1e-9)
	assertVec3(t, mgl64.Vec3{1, 2, 3}, node.Position, 1e-9)
}

func TestScaleDelta(t *testing.T) {
	node := scene.NewTransformNode("box")
	assert.True(t, ApplyScaleDelta(node, mgl64.Vec3{1, 0, 0}, 0.5, false))
	assertVec3(t, mgl64.Vec3{1.5, 1, 1}, node.Scaling, 1e-9)
	assert.True(t, ApplyScaleDelta(node, mgl64.Vec3{0, 1, 0}, 1, true))
	assertVec3(t, mgl64.Vec3{3, 2, 2}, node.Scaling, 1e-9)
}

func TestScaleDeltaOverflowIsDiscarded(t *testing.T) {
	node := scene.NewTransformNode("degenerate")
	node.Position = mgl64.Vec3{1, 2, 3}
	node.Rotation.SetEuler(mgl64.Vec3{0.1, 0.2, 0.3})
	node.Scaling = mgl64.Vec3{1e-10, 1, 1}
	position, rotation, scaling := node.Position, node.Rotation, node.Scaling

	assert.False(t, ApplyScaleDelta(node, mgl64.Vec3{0, 1, 0}, 1e6, true))
	assert.Equal(t, position, node.Position)
	assert.Equal(t, rotation, node.Rotation)
	assert.Equal(t, scaling, node.Scaling)

	assert.False(t, ApplyScaleDelta(node, mgl64.Vec3{1, 0, 0}, -1, false)) // Zero scale cannot be decomposed
	assert.Equal(t, scaling, node.Scaling)
}

func TestScaleFactorsUniform(t *testing.T) {
	assert.Equal(t, mgl64.Vec3{1.5, 1.5, 1.5}, ScaleFactors(mgl64.Vec3{0, 0, 1}, 0.5, true))
	assert.Equal(t, mgl64.Vec3{1, 1, 1.5}, ScaleFactors(mgl64.Vec3{0, 0, 1}, 0.5, false))
}

func TestTransformSyncOnOtherKinds(t *testing.T) {
	root := scene.NewBone("root", nil, mgl64.Translate3D(0, 1, 0))
	bone := scene.NewBone("arm", root, mgl64.Translate3D(1, 0, 0))
	root.ClearDirty()
	bone.ClearDirty()
	ApplyTranslationDelta(bone, mgl64.Vec3{0, 0, 2})
	assertVec3(t, mgl64.Vec3{1, 1, 2}, scene.Translation(bone.WorldMatrix()), 1e-9)
	assert.True(t, bone.IsDirty())
	assert.False(t, root.IsDirty())

	light := scene.NewLight("sun", scene.LightDirectional, mgl64.Vec3{})
	ApplyTranslationDelta(light, mgl64.Vec3{4, 0, 0})
	assertVec3(t, mgl64.Vec3{4, 0, 0}, light.Position, 1e-9)
	direction := light.Direction
	ApplyRotationDelta(light, mgl64.Vec3{1, 0, 0}, 1, true)
	assert.Equal(t, direction, light.Direction)

	hemi := scene.NewLight("sky", scene.LightHemispheric, mgl64.Vec3{})
	ApplyTranslationDelta(hemi, mgl64.Vec3{4, 0, 0})
	assert.Equal(t, mgl64.Vec3{}, hemi.Position)
}
