package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

const invSqrt3 = 0.57735

// AxisScaleGizmo scales its attached node along one local axis, or uniformly.
type AxisScaleGizmo struct {
	*Gizmo
	DragBehavior *DragController
	OnSnap       scene.Observable[SnapEvent]
	// UniformScaling scales the three axes together.
	UniformScaling bool
	// Sensitivity multiplies the drag strength.
	Sensitivity float64
	// DragScale is an extra factor applied to the drag distance.
	DragScale float64
	// IncrementalSnap adds snapped quanta to the scale (1.1, 1.2, 1.3) instead of multiplying it (1.1, 1.21, 1.33).
	IncrementalSnap bool

	axis     mgl64.Vec3
	visual   *scene.Mesh
	collider *scene.Mesh
	cache    *HoverActiveCache
	ownCache bool
	handle   CacheHandle
}

// NewAxisScaleGizmo creates a scale handle along axis.
func NewAxisScaleGizmo(axis mgl64.Vec3, layer *scene.UtilityLayer, opts ...Option) *AxisScaleGizmo {
	return newAxisScaleGizmo(axis, false, layer, newSettings(opts))
}

// NewUniformScaleGizmo creates the center handle that scales the three axes together (dragged vertically).
func NewUniformScaleGizmo(layer *scene.UtilityLayer, opts ...Option) *AxisScaleGizmo {
	return newAxisScaleGizmo(scene.Up, true, layer, newSettings(opts))
}

func newAxisScaleGizmo(axis mgl64.Vec3, uniform bool, layer *scene.UtilityLayer, s *settings) *AxisScaleGizmo {
	g := &AxisScaleGizmo{
		Gizmo:           newGizmo(layer, s),
		UniformScaling:  uniform,
		Sensitivity:     s.sensitivity,
		DragScale:       1,
		IncrementalSnap: s.incremental,
		axis:            axis.Normalize(),
	}
	name := "axisScale"
	c := axisColor(g.axis, s.color)
	if uniform {
		name = "uniformScale"
		if s.color == nil {
			c = ColorUniform
		}
	}
	base, hover, disabled := axisMaterials(name, c)
	if uniform {
		g.visual = newPart(layer, name, uniformShape(s.thickness), g.root, g.axis, base)
		g.collider = newCollider(layer, name+"Collider", uniformShape(1.5*s.thickness), g.root, g.axis)
	} else {
		g.visual = newPart(layer, name, scaleArrowShape(s.thickness), g.root, g.axis, base)
		g.collider = newCollider(layer, name+"Collider", arrowCollider(s.thickness), g.root, g.axis)
	}

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
		GizmoMeshes:     []*scene.Mesh{g.visual},
		ColliderMeshes:  []*scene.Mesh{g.visual, g.collider},
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
		g.visual, g.collider = m, m
	}
	g.SetAttachedNode(nil)
	return g
}

func (g *AxisScaleGizmo) Axis() mgl64.Vec3 {
	return g.axis
}

func (g *AxisScaleGizmo) SnapDistance() float64 {
	return g.DragBehavior.SnapDistance()
}

func (g *AxisScaleGizmo) SetSnapDistance(distance float64) {
	g.DragBehavior.SetSnapDistance(distance)
}

func (g *AxisScaleGizmo) IsDragging() bool {
	return g.DragBehavior.Dragging()
}

// dragStrength converts a drag distance into a scale amount. Small gizmos (far away or tiny nodes) drag harder.
func (g *AxisScaleGizmo) dragStrength(distance float64) float64 {
	size := g.root.Scaling.Len()
	if size == 0 {
		return 0
	}
	return g.Sensitivity * g.DragScale * distance * (g.ScaleRatio * 3 / size)
}

func (g *AxisScaleGizmo) onDrag(ev *DragEvent) {
	if g.attached == nil {
		return
	}
	session := g.DragBehavior.Session()
	if session == nil {
		return
	}
	amount := g.dragStrength(ev.DragDistance)
	snapped := false
	if session.Snap.Distance != 0 {
		amount, snapped = session.Snap.Step(amount)
		if !snapped {
			return
		}
	}
	magnitude := amount
	if g.UniformScaling {
		magnitude *= invSqrt3
	}
	if snapped && g.IncrementalSnap {
		g.applyIncremental(ScaleFactors(g.axis, magnitude, g.UniformScaling).Sub(mgl64.Vec3{1, 1, 1}))
	} else {
		ApplyScaleDelta(g.attached, g.axis, magnitude, g.UniformScaling)
	}
	if snapped {
		g.OnSnap.Notify(SnapEvent{SnapDistance: amount})
	}
}

// applyIncremental adds delta to the current scale of the attached node.
func (g *AxisScaleGizmo) applyIncremental(delta mgl64.Vec3) {
	scale, _, _, ok := scene.Decompose(g.attached.WorldMatrix())
	if !ok {
		return
	}
	var factors mgl64.Vec3
	for i := range factors {
		factors[i] = (math.Abs(scale[i]) + delta[i]) / math.Abs(scale[i])
	}
	ApplyScaleFactors(g.attached, factors)
}

func (g *AxisScaleGizmo) controller() *DragController {
	return g.DragBehavior
}

// Dispose removes the gizmo.
func (g *AxisScaleGizmo) Dispose() {
	g.DragBehavior.Detach()
	if g.ownCache {
		g.cache.Dispose()
	}
	g.Gizmo.Dispose()
}
