package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
)

// part is a single-axis gizmo owned by a composite.
type part interface {
	gizmo() *Gizmo
	controller() *DragController
	SetSnapDistance(distance float64)
	Dispose()
}

// composite owns a set of single-axis gizmos that share a hover cache and an attached node.
type composite struct {
	// OnDragStart and OnDragEnd fire when any sub-gizmo starts or ends a drag.
	OnDragStart scene.Observable[struct{}]
	OnDragEnd   scene.Observable[struct{}]

	name         string
	layer        *scene.UtilityLayer
	cache        *HoverActiveCache
	parts        []part
	attached     scene.Transformable
	snapDistance float64
}

func newComposite(name string, layer *scene.UtilityLayer, s *settings) *composite {
	return &composite{name: name, layer: layer, cache: NewHoverActiveCache(layer.Scene), snapDistance: s.snapDistance}
}

// subOptions returns a builder of sub-gizmo options: opts, the shared cache, then extra.
func (c *composite) subOptions(opts []Option) func(extra ...Option) []Option {
	return func(extra ...Option) []Option {
		res := make([]Option, 0, len(opts)+1+len(extra))
		res = append(res, opts...)
		res = append(res, OptCache(c.cache))
		return append(res, extra...)
	}
}

func (c *composite) add(p part) {
	c.parts = append(c.parts, p)
	p.gizmo().parentGet = func() scene.Transformable { return c.attached }
	p.controller().OnDragStart.Add(func(*DragStartEvent) { c.OnDragStart.Notify(struct{}{}) })
	p.controller().OnDragEnd.Add(func(*DragEndEvent) { c.OnDragEnd.Notify(struct{}{}) })
}

// Layer returns the utility layer of the sub-gizmos.
func (c *composite) Layer() *scene.UtilityLayer {
	return c.layer
}

// Cache returns the hover cache shared by the sub-gizmos.
func (c *composite) Cache() *HoverActiveCache {
	return c.cache
}

// AttachedNode returns the manipulated node (nil when detached).
func (c *composite) AttachedNode() scene.Transformable {
	return c.attached
}

// SetAttachedNode attaches every enabled sub-gizmo to node (nil detaches).
func (c *composite) SetAttachedNode(node scene.Transformable) {
	c.attached = node
	for _, p := range c.parts {
		if p.gizmo().IsEnabled() {
			p.gizmo().SetAttachedNode(node)
		} else {
			p.gizmo().SetAttachedNode(nil)
		}
	}
}

// IsHovered reports whether the pointer is over any sub-gizmo.
func (c *composite) IsHovered() bool {
	for _, p := range c.parts {
		if p.gizmo().IsHovered() {
			return true
		}
	}
	return false
}

// IsDragging reports whether any sub-gizmo is being dragged.
func (c *composite) IsDragging() bool {
	for _, p := range c.parts {
		if p.controller().Dragging() {
			return true
		}
	}
	return false
}

func (c *composite) SnapDistance() float64 {
	return c.snapDistance
}

// SetSnapDistance sets the snap distance of every sub-gizmo.
func (c *composite) SetSnapDistance(distance float64) {
	c.snapDistance = distance
	for _, p := range c.parts {
		p.SetSnapDistance(distance)
	}
}

func (c *composite) ScaleRatio() float64 {
	if len(c.parts) == 0 {
		return 0
	}
	return c.parts[0].gizmo().ScaleRatio
}

// SetScaleRatio sets the size of every sub-gizmo.
func (c *composite) SetScaleRatio(ratio float64) {
	c.each(func(g *Gizmo) { g.ScaleRatio = ratio })
}

// SetUpdateGizmoRotationToMatchAttachedMesh orients every sub-gizmo like the attached node.
func (c *composite) SetUpdateGizmoRotationToMatchAttachedMesh(match bool) {
	c.each(func(g *Gizmo) { g.UpdateGizmoRotationToMatchAttachedMesh = match })
}

// SetUpdateGizmoPositionToMatchAttachedMesh places every sub-gizmo on the attached node.
func (c *composite) SetUpdateGizmoPositionToMatchAttachedMesh(match bool) {
	c.each(func(g *Gizmo) { g.UpdateGizmoPositionToMatchAttachedMesh = match })
}

func (c *composite) SetUpdateScale(update bool) {
	c.each(func(g *Gizmo) { g.UpdateScale = update })
}

func (c *composite) SetAnchorPoint(anchor AnchorPoint) {
	c.each(func(g *Gizmo) { g.AnchorPoint = anchor })
}

// SetCustomRotationQuaternion overrides the orientation of every sub-gizmo (nil restores the default).
func (c *composite) SetCustomRotationQuaternion(q *mgl64.Quat) {
	c.each(func(g *Gizmo) { g.CustomRotationQuaternion = q })
}

// SetCustomMesh is refused: custom meshes go on the sub-gizmos.
func (c *composite) SetCustomMesh(*scene.Mesh) error {
	log.Println("[Gizmo] ERROR:", c.name+":", ErrCustomMeshUnsupported)
	return ErrCustomMeshUnsupported
}

func (c *composite) each(fn func(g *Gizmo)) {
	for _, p := range c.parts {
		fn(p.gizmo())
	}
}

// Dispose removes every sub-gizmo.
func (c *composite) Dispose() {
	for _, p := range c.parts {
		p.Dispose()
	}
	c.parts = nil
	c.attached = nil
	c.cache.Dispose()
	c.OnDragStart.Clear()
	c.OnDragEnd.Clear()
}
