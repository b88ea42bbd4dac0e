package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// ScaleGizmo scales its attached node along its local axes, or uniformly from the center handle.
type ScaleGizmo struct {
	*composite
	XGizmo, YGizmo, ZGizmo *AxisScaleGizmo
	UniformScaleGizmo      *AxisScaleGizmo
}

// NewScaleGizmo creates the scale gizmo in layer.
func NewScaleGizmo(layer *scene.UtilityLayer, opts ...Option) *ScaleGizmo {
	s := newSettings(opts)
	g := &ScaleGizmo{composite: newComposite("ScaleGizmo", layer, s)}
	sub := g.subOptions(opts)
	g.XGizmo = NewAxisScaleGizmo(mgl64.Vec3{1, 0, 0}, layer, sub(OptColor(ColorX))...)
	g.YGizmo = NewAxisScaleGizmo(mgl64.Vec3{0, 1, 0}, layer, sub(OptColor(ColorY))...)
	g.ZGizmo = NewAxisScaleGizmo(mgl64.Vec3{0, 0, 1}, layer, sub(OptColor(ColorZ))...)
	g.UniformScaleGizmo = NewUniformScaleGizmo(layer, sub(OptColor(ColorUniform))...)
	for _, p := range g.handles() {
		g.add(p)
	}
	return g
}

func (g *ScaleGizmo) handles() []*AxisScaleGizmo {
	return []*AxisScaleGizmo{g.XGizmo, g.YGizmo, g.ZGizmo, g.UniformScaleGizmo}
}

// Sensitivity returns the drag sensitivity shared by the handles.
func (g *ScaleGizmo) Sensitivity() float64 {
	return g.XGizmo.Sensitivity
}

// SetSensitivity multiplies the drag strength of every handle.
func (g *ScaleGizmo) SetSensitivity(sensitivity float64) {
	for _, h := range g.handles() {
		h.Sensitivity = sensitivity
	}
}

func (g *ScaleGizmo) IncrementalSnap() bool {
	return g.XGizmo.IncrementalSnap
}

// SetIncrementalSnap makes snapped drags add to the scale instead of multiplying it.
func (g *ScaleGizmo) SetIncrementalSnap(incremental bool) {
	for _, h := range g.handles() {
		h.IncrementalSnap = incremental
	}
}
