package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"image/color"
)

// AxisDragGizmo translates its attached node along one axis.
type AxisDragGizmo struct {
	*Gizmo
	DragBehavior *DragController
	OnSnap       scene.Observable[SnapEvent]

	axis     mgl64.Vec3
	group    *scene.TransformNode
	arrow    *scene.Mesh
	collider *scene.Mesh
	cache    *HoverActiveCache
	ownCache bool
	handle   CacheHandle
}

// NewAxisDragGizmo creates an arrow along axis (in the attached node's frame when rotations match).
func NewAxisDragGizmo(axis mgl64.Vec3, layer *scene.UtilityLayer, opts ...Option) *AxisDragGizmo {
	s := newSettings(opts)
	g := &AxisDragGizmo{Gizmo: newGizmo(layer, s), axis: axis.Normalize()}
	c := axisColor(g.axis, s.color)
	base, hover, disabled := axisMaterials("axisDrag", c)

	g.group = scene.NewTransformNode("axisDragGroup")
	g.group.SetParent(g.root)
	g.arrow = newPart(layer, "arrow", arrowShape(s.thickness), g.group, g.axis, base)
	g.collider = newCollider(layer, "arrowCollider", arrowCollider(s.thickness), g.group, g.axis)

	g.DragBehavior = NewAxisDragController(g.axis)
	g.DragBehavior.SetSnapDistance(s.snapDistance)
	g.DragBehavior.Attach(g.root, layer.Scene)
	g.DragBehavior.OnDrag.Add(g.onDrag)

	g.cache, g.ownCache = s.cache, s.cache == nil
	if g.ownCache {
		g.cache = NewHoverActiveCache(layer.Scene)
	}
	g.handle = g.cache.Register(CacheEntry{
		Key:             g.root,
		GizmoMeshes:     []*scene.Mesh{g.arrow},
		ColliderMeshes:  []*scene.Mesh{g.arrow, g.collider},
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
		g.arrow, g.collider = m, m
	}
	g.SetAttachedNode(nil)
	return g
}

func axisColor(axis mgl64.Vec3, override *color.RGBA) color.RGBA {
	switch {
	case override != nil:
		return *override
	case axis[0] != 0 && axis[1] == 0 && axis[2] == 0:
		return ColorX
	case axis[1] != 0 && axis[0] == 0 && axis[2] == 0:
		return ColorY
	case axis[2] != 0 && axis[0] == 0 && axis[1] == 0:
		return ColorZ
	default:
		return ColorUniform
	}
}

// Axis returns the drag axis.
func (g *AxisDragGizmo) Axis() mgl64.Vec3 {
	return g.axis
}

// SnapDistance returns the translation quantum (0 means continuous).
func (g *AxisDragGizmo) SnapDistance() float64 {
	return g.DragBehavior.SnapDistance()
}

func (g *AxisDragGizmo) SetSnapDistance(distance float64) {
	g.DragBehavior.SetSnapDistance(distance)
}

// CacheHandle returns the entry of this gizmo in its hover cache.
func (g *AxisDragGizmo) CacheHandle() CacheHandle {
	return g.handle
}

// IsDragging reports whether the arrow is being dragged.
func (g *AxisDragGizmo) IsDragging() bool {
	return g.DragBehavior.Dragging()
}

func (g *AxisDragGizmo) onDrag(ev *DragEvent) {
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
	applied, snapped := session.Snap.Step(ev.DragDistance)
	if !snapped {
		return
	}
	worldAxis := ev.Delta.Mul(1 / ev.DragDistance)
	ApplyTranslationDelta(g.attached, worldAxis.Mul(applied))
	g.OnSnap.Notify(SnapEvent{SnapDistance: applied})
}

func (g *AxisDragGizmo) controller() *DragController {
	return g.DragBehavior
}

// Dispose removes the gizmo.
func (g *AxisDragGizmo) Dispose() {
	g.DragBehavior.Detach()
	if g.ownCache {
		g.cache.Dispose()
	}
	g.Gizmo.Dispose()
}
