package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
	"math"
)

// DefaultMaxDragAngle is the default MaxDragAngle of rotation gizmos (81 degrees).
const DefaultMaxDragAngle = math.Pi * 9 / 20

// AngleIndicator describes the arc drawn while a ring is dragged.
type AngleIndicator struct {
	Visible     bool
	StartOffset float64 // Angle of the drag start point in the ring plane
	Sweep       float64 // Rotation applied since the drag started, from the viewer's side
}

// PlaneRotationGizmo rotates its attached node around the normal of a ring.
type PlaneRotationGizmo struct {
	*Gizmo
	DragBehavior *DragController
	OnSnap       scene.Observable[SnapEvent]
	// Angle accumulates the rotation of the current (or last) drag as seen from the camera.
	Angle     float64
	Indicator AngleIndicator

	normal     mgl64.Vec3
	ring       *scene.Mesh
	collider   *scene.Mesh
	cache      *HoverActiveCache
	ownCache   bool
	handle     CacheHandle
	warnedDrag bool
}

// NewPlaneRotationGizmo creates a ring around normal.
func NewPlaneRotationGizmo(normal mgl64.Vec3, layer *scene.UtilityLayer, opts ...Option) *PlaneRotationGizmo {
	s := newSettings(opts)
	g := &PlaneRotationGizmo{Gizmo: newGizmo(layer, s), normal: normal.Normalize()}
	base, hover, disabled := axisMaterials("planeRotation", axisColor(g.normal, s.color))

	g.ring = newPart(layer, "ring", ringShape(ringRadius, 0.005*s.thickness), g.root, g.normal, base)
	g.collider = newCollider(layer, "ringCollider", ringShape(ringRadius, 0.03*s.thickness), g.root, g.normal)

	g.DragBehavior = NewPlaneDragController(g.normal)
	g.DragBehavior.MaxDragAngle = DefaultMaxDragAngle
	g.DragBehavior.SetSnapDistance(s.snapDistance)
	g.DragBehavior.Attach(g.root, layer.Scene)
	g.DragBehavior.OnDragStart.Add(g.onDragStart)
	g.DragBehavior.OnDrag.Add(g.onDrag)
	g.DragBehavior.OnDragEnd.Add(func(*DragEndEvent) { g.Indicator.Visible = false })

	g.cache, g.ownCache = s.cache, s.cache == nil
	if g.ownCache {
		g.cache = NewHoverActiveCache(layer.Scene)
	}
	g.handle = g.cache.Register(CacheEntry{
		Key:             g.root,
		GizmoMeshes:     []*scene.Mesh{g.ring},
		ColliderMeshes:  []*scene.Mesh{g.ring, g.collider},
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
		g.ring, g.collider = m, m
	}
	g.SetAttachedNode(nil)
	return g
}

// Normal returns the rotation axis (in the gizmo frame).
func (g *PlaneRotationGizmo) Normal() mgl64.Vec3 {
	return g.normal
}

// SnapDistance returns the angle quantum in radians (0 means continuous).
func (g *PlaneRotationGizmo) SnapDistance() float64 {
	return g.DragBehavior.SnapDistance()
}

func (g *PlaneRotationGizmo) SetSnapDistance(distance float64) {
	g.DragBehavior.SetSnapDistance(distance)
}

func (g *PlaneRotationGizmo) IsDragging() bool {
	return g.DragBehavior.Dragging()
}

func (g *PlaneRotationGizmo) onDragStart(ev *DragStartEvent) {
	g.Angle = 0
	g.warnedDrag = false
	local := mgl64.TransformCoordinate(ev.DragPlanePoint, g.root.WorldMatrix().Inv())
	u, v := planeBasis(g.normal)
	g.Indicator = AngleIndicator{Visible: true, StartOffset: math.Atan2(local.Dot(v), local.Dot(u))}
}

// IndicatorArc returns segments+1 world-space points along the ring, from the drag start over the current sweep.
// It returns nil while the indicator is hidden.
func (g *PlaneRotationGizmo) IndicatorArc(segments int) []mgl64.Vec3 {
	if !g.Indicator.Visible || segments < 1 {
		return nil
	}
	u, v := planeBasis(g.normal)
	world := g.root.WorldMatrix()
	res := make([]mgl64.Vec3, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := g.Indicator.StartOffset + g.Indicator.Sweep*float64(i)/float64(segments)
		local := u.Mul(ringRadius * math.Cos(a)).Add(v.Mul(ringRadius * math.Sin(a)))
		res = append(res, mgl64.TransformCoordinate(local, world))
	}
	return res
}

// planeBasis returns two unit vectors spanning the plane with normal n.
func planeBasis(n mgl64.Vec3) (u, v mgl64.Vec3) {
	ref := mgl64.Vec3{1, 0, 0}
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = mgl64.Vec3{0, 1, 0}
	}
	u = ref.Sub(n.Mul(n.Dot(ref))).Normalize()
	return u, n.Cross(u)
}

func (g *PlaneRotationGizmo) onDrag(ev *DragEvent) {
	session := g.DragBehavior.Session()
	if g.attached == nil || session == nil {
		return
	}
	scale, rot, translation, _ := scene.Decompose(g.attached.WorldMatrix())
	uniform := math.Abs(math.Abs(scale[0])-math.Abs(scale[1])) <= mgl64.Epsilon &&
		math.Abs(math.Abs(scale[0])-math.Abs(scale[2])) <= mgl64.Epsilon
	if !uniform && g.UpdateGizmoRotationToMatchAttachedMesh {
		if !g.warnedDrag {
			log.Println("[Gizmo] WARNING: a rotation gizmo matching the node rotation needs uniform scaling." +
				" Use uniform scaling or set UpdateGizmoRotationToMatchAttachedMesh to false.")
			g.warnedDrag = true
		}
		return
	}

	center := translation
	if !g.UpdateGizmoPositionToMatchAttachedMesh {
		center = g.root.Position
	}
	newVector := scene.SafeNormalize(ev.DragPlanePoint.Sub(center))
	originalVector := scene.SafeNormalize(session.LastDragPosition.Sub(center))
	cross := newVector.Cross(originalVector)
	angle := math.Atan2(cross.Len(), newVector.Dot(originalVector))

	// The displayed ring normal, turned towards the camera
	worldNormal := g.normal
	if g.UpdateGizmoRotationToMatchAttachedMesh {
		worldNormal = rot.Rotate(g.normal)
	}
	cameraFlipped := false
	if cam := g.layer.Camera(); cam != nil {
		if scene.SafeNormalize(cam.GlobalPosition().Sub(center)).Dot(worldNormal) > 0 {
			worldNormal = worldNormal.Mul(-1)
			cameraFlipped = true
		}
	}
	if worldNormal.Dot(cross) > 0 {
		// Other half circle
		angle = -angle
	}

	snapped := false
	if session.Snap.Distance != 0 {
		angle, snapped = session.Snap.Step(angle)
	}
	if angle != 0 {
		if g.UpdateGizmoRotationToMatchAttachedMesh {
			ApplyRotationDelta(g.attached, worldNormal, angle, true)
		} else {
			localAxis := rot.Inverse().Rotate(worldNormal)
			ApplyRotationDelta(g.attached, localAxis, angle, false)
		}
	}
	session.LastDragPosition = ev.DragPlanePoint
	session.AccumulatedAngle += angle
	if cameraFlipped {
		g.Angle -= angle
	} else {
		g.Angle += angle
	}
	g.Indicator.Sweep = g.Angle
	if snapped {
		g.OnSnap.Notify(SnapEvent{SnapDistance: angle})
	}
}

func (g *PlaneRotationGizmo) controller() *DragController {
	return g.DragBehavior
}

// Dispose removes the gizmo.
func (g *PlaneRotationGizmo) Dispose() {
	g.DragBehavior.Detach()
	if g.ownCache {
		g.cache.Dispose()
	}
	g.Gizmo.Dispose()
}
