package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// MaxTransformMagnitude bounds the scale and translation a scale drag may produce.
const MaxTransformMagnitude = 100000

// correctedWorldMatrix returns the world matrix of node, with the logical position as translation for nodes that
// rotate and scale around a pivot.
func correctedWorldMatrix(node scene.Transformable) mgl64.Mat4 {
	m := node.WorldMatrix()
	if p, ok := node.(scene.Pivoted); ok && p.IsUsingPivotMatrix() {
		scene.SetTranslation(&m, p.PositionInWorld())
	}
	return m
}

// ApplyTranslationDelta moves node by delta (world space).
func ApplyTranslationDelta(node scene.Transformable, delta mgl64.Vec3) {
	if node == nil {
		return
	}
	m := correctedWorldMatrix(node)
	scene.SetTranslation(&m, scene.Translation(m).Add(delta))
	node.SetWorldMatrix(m)
}

// ScaleFactors returns the per-axis scale factors of a scale drag of the given magnitude.
func ScaleFactors(axis mgl64.Vec3, magnitude float64, uniform bool) mgl64.Vec3 {
	if uniform {
		return mgl64.Vec3{1 + magnitude, 1 + magnitude, 1 + magnitude}
	}
	return mgl64.Vec3{1, 1, 1}.Add(axis.Mul(magnitude))
}

// ApplyScaleDelta scales node along axis (its local frame). See ApplyScaleFactors.
func ApplyScaleDelta(node scene.Transformable, axis mgl64.Vec3, magnitude float64, uniform bool) bool {
	return ApplyScaleFactors(node, ScaleFactors(axis, magnitude, uniform))
}

// ApplyScaleFactors multiplies the local scale of node by factors. The update is discarded (false is returned)
// when the result cannot be decomposed or has a non-finite or huge scale or translation.
func ApplyScaleFactors(node scene.Transformable, factors mgl64.Vec3) bool {
	if node == nil {
		return false
	}
	m := correctedWorldMatrix(node).Mul4(mgl64.Scale3D(factors[0], factors[1], factors[2]))
	scale, _, translation, ok := scene.Decompose(scene.LocalFromWorld(node, m))
	if !ok || !withinBounds(scale) || !withinBounds(translation) {
		return false
	}
	node.SetWorldMatrix(m)
	return true
}

func withinBounds(v mgl64.Vec3) bool {
	if !scene.Finite(v) {
		return false
	}
	for _, c := range v {
		if math.Abs(c) >= MaxTransformMagnitude {
			return false
		}
	}
	return true
}

// ApplyRotationDelta rotates node by angle around axis. With fixedAxis the rotation is applied after the current
// orientation (axis in world space), otherwise before it (axis in the node's own frame).
func ApplyRotationDelta(node scene.Transformable, axis mgl64.Vec3, angle float64, fixedAxis bool) {
	if node == nil {
		return
	}
	m := correctedWorldMatrix(node)
	scale, orig, translation, _ := scene.Decompose(m) // mirroring stays folded into the Y scale
	delta := mgl64.QuatRotate(angle, axis.Normalize())
	var rot mgl64.Quat
	if fixedAxis {
		rot = delta.Mul(orig)
	} else {
		rot = orig.Mul(delta)
	}
	node.SetWorldMatrix(scene.Compose(scale, rot.Normalize(), translation))
}
