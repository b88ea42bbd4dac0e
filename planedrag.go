package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// PlaneDragGizmo translates its attached node within a plane.
type PlaneDragGizmo struct {
	*Gizmo
	DragBehavior *DragController
	OnSnap       scene.Observable[SnapEvent]

	normal   mgl64.Vec3
	plane    *scene.Mesh
	cache    *HoverActiveCache
	ownCache bool
	handle   CacheHandle
}

// NewPlaneDragGizmo creates a square handle for the plane with the given normal.
func NewPlaneDragGizmo(normal mgl64.Vec3, layer *scene.UtilityLayer, opts ...Option) *PlaneDragGizmo {
	s := newSettings(opts)
	g := &PlaneDragGizmo{Gizmo: newGizmo(layer, s), normal: normal.Normalize()}
	base, hover, disabled := axisMaterials("planeDrag", axisColor(g.normal, s.color))

	g.plane = newPart(layer, "plane", planeShape(planeSize, s.thickness), g.root, g.normal, base)
	// Off the axes, towards the positive quadrant of the plane
	g.plane.Position = mgl64.Vec3{1, 1, 1}.Sub(g.normal.Mul(g.normal.Dot(mgl64.Vec3{1, 1, 1}))).Mul(planeOffset)

	g.DragBehavior = NewPlaneDragController(g.normal)
	g.DragBehavior.SetSnapDistance(s.snapDistance)
	g.DragBehavior.Attach(g.root, layer.Scene)
	g.DragBehavior.OnDrag.Add(g.onDrag)

	g.cache, g.ownCache = s.cache, s.cache == nil
	if g.ownCache {
		g.cache = NewHoverActiveCache(layer.Scene)
	}
	g.handle = g.cache.Register(CacheEntry{
		Key:             g.root,
		GizmoMeshes:     []*scene.Mesh{g.plane},
		ColliderMeshes:  []*scene.Mesh{g.plane},
		Material:        base,
		HoverMaterial:   hover,
		DisableMaterial: disabled,
		DragBehavior:    g.DragBehavior,
	})
	g.onAttach = func(node scene.Transformable) {
		g.DragBehavior.SetEnabled(node != nil)
	}
	g.onCustomMesh = func(m *scene.Mesh) {
		e := g.cache.Entry(g.handle)
		e.GizmoMeshes, e.ColliderMeshes = []*scene.Mesh{m}, []*scene.Mesh{m}
		g.plane = m
	}
	g.SetAttachedNode(nil)
	return g
}

// Normal returns the plane normal.
func (g *PlaneDragGizmo) Normal() mgl64.Vec3 {
	return g.normal
}

func (g *PlaneDragGizmo) SnapDistance() float64 {
	return g.DragBehavior.SnapDistance()
}

func (g *PlaneDragGizmo) SetSnapDistance(distance float64) {
	g.DragBehavior.SetSnapDistance(distance)
}

func (g *PlaneDragGizmo) IsDragging() bool {
	return g.DragBehavior.Dragging()
}

func (g *PlaneDragGizmo) onDrag(ev *DragEvent) {
	if g.attached == nil {
		return
	}
	session := g.DragBehavior.Session()
	if session == nil {
		return
	}
	if session.Snap.Distance == 0 {
		ApplyTranslationDelta(g.attached, ev.Delta)
		return
	}
	if ev.DragDistance == 0 {
		return
	}
	// The distance is unsigned in a plane: snapping follows the direction of the latest move
	applied, snapped := session.Snap.Step(ev.DragDistance)
	if !snapped {
		return
	}
	ApplyTranslationDelta(g.attached, ev.Delta.Normalize().Mul(math.Abs(applied)))
	g.OnSnap.Notify(SnapEvent{SnapDistance: applied})
}

func (g *PlaneDragGizmo) controller() *DragController {
	return g.DragBehavior
}

// Dispose removes the gizmo.
func (g *PlaneDragGizmo) Dispose() {
	g.DragBehavior.Detach()
	if g.ownCache {
		g.cache.Dispose()
	}
	g.Gizmo.Dispose()
}
