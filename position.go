package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// PositionGizmo moves its attached node along the X, Y and Z axes, and optionally within the XY, YZ and XZ planes.
type PositionGizmo struct {
	*composite
	XGizmo, YGizmo, ZGizmo                *AxisDragGizmo
	XPlaneGizmo, YPlaneGizmo, ZPlaneGizmo *PlaneDragGizmo
	planar                                bool
}

// NewPositionGizmo creates the translation gizmo in layer. See OptPlanarGizmoEnabled for the plane handles.
func NewPositionGizmo(layer *scene.UtilityLayer, opts ...Option) *PositionGizmo {
	s := newSettings(opts)
	g := &PositionGizmo{composite: newComposite("PositionGizmo", layer, s)}
	sub := g.subOptions(opts)
	g.XGizmo = NewAxisDragGizmo(mgl64.Vec3{1, 0, 0}, layer, sub(OptColor(ColorX))...)
	g.YGizmo = NewAxisDragGizmo(mgl64.Vec3{0, 1, 0}, layer, sub(OptColor(ColorY))...)
	g.ZGizmo = NewAxisDragGizmo(mgl64.Vec3{0, 0, 1}, layer, sub(OptColor(ColorZ))...)
	g.XPlaneGizmo = NewPlaneDragGizmo(mgl64.Vec3{1, 0, 0}, layer, sub(OptColor(ColorX))...)
	g.YPlaneGizmo = NewPlaneDragGizmo(mgl64.Vec3{0, 1, 0}, layer, sub(OptColor(ColorY))...)
	g.ZPlaneGizmo = NewPlaneDragGizmo(mgl64.Vec3{0, 0, 1}, layer, sub(OptColor(ColorZ))...)
	for _, p := range []part{g.XGizmo, g.YGizmo, g.ZGizmo, g.XPlaneGizmo, g.YPlaneGizmo, g.ZPlaneGizmo} {
		g.add(p)
	}
	g.SetPlanarGizmoEnabled(s.planar)
	return g
}

// PlanarGizmoEnabled reports whether the plane handles are shown.
func (g *PositionGizmo) PlanarGizmoEnabled() bool {
	return g.planar
}

// SetPlanarGizmoEnabled shows or hides the plane handles.
func (g *PositionGizmo) SetPlanarGizmoEnabled(enabled bool) {
	g.planar = enabled
	for _, p := range []*PlaneDragGizmo{g.XPlaneGizmo, g.YPlaneGizmo, g.ZPlaneGizmo} {
		p.SetEnabled(enabled)
	}
}
