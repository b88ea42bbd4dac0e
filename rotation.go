package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
)

// RotationGizmo rotates its attached node with three rings, around the X, Y and Z axes.
// Its snap distance is an angle in radians.
type RotationGizmo struct {
	*composite
	XGizmo, YGizmo, ZGizmo *PlaneRotationGizmo
}

// NewRotationGizmo creates the rotation gizmo in layer.
func NewRotationGizmo(layer *scene.UtilityLayer, opts ...Option) *RotationGizmo {
	s := newSettings(opts)
	g := &RotationGizmo{composite: newComposite("RotationGizmo", layer, s)}
	sub := g.subOptions(opts)
	g.XGizmo = NewPlaneRotationGizmo(mgl64.Vec3{1, 0, 0}, layer, sub(OptColor(ColorX))...)
	g.YGizmo = NewPlaneRotationGizmo(mgl64.Vec3{0, 1, 0}, layer, sub(OptColor(ColorY))...)
	g.ZGizmo = NewPlaneRotationGizmo(mgl64.Vec3{0, 0, 1}, layer, sub(OptColor(ColorZ))...)
	for _, p := range g.rings() {
		g.add(p)
	}
	return g
}

func (g *RotationGizmo) rings() []*PlaneRotationGizmo {
	return []*PlaneRotationGizmo{g.XGizmo, g.YGizmo, g.ZGizmo}
}

// SetMaxDragAngle sets the largest angle (radians) between the view ray and a ring normal that still drags.
func (g *RotationGizmo) SetMaxDragAngle(angle float64) {
	for _, r := range g.rings() {
		r.DragBehavior.MaxDragAngle = angle
	}
}

// SetUseAlternatePickedPointAboveMaxDragAngle keeps dragging past the max drag angle with a projected point.
func (g *RotationGizmo) SetUseAlternatePickedPointAboveMaxDragAngle(use bool) {
	for _, r := range g.rings() {
		r.DragBehavior.UseAlternatePickedPointAboveMaxDragAngle = use
	}
}

// Angle returns the angle dragged by the active (or last dragged) ring.
func (g *RotationGizmo) Angle() float64 {
	for _, r := range g.rings() {
		if r.IsDragging() {
			return r.Angle
		}
	}
	for _, r := range g.rings() {
		if r.Angle != 0 {
			return r.Angle
		}
	}
	return 0
}
