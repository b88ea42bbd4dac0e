package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// DragStartEvent is delivered when a drag starts.
type DragStartEvent struct {
	DragPlanePoint mgl64.Vec3
}

// DragEvent is delivered on every pointer move of a drag that hits the drag plane.
type DragEvent struct {
	Delta           mgl64.Vec3 // World-space movement since the previous event (projected on the axis in axis mode)
	DragPlanePoint  mgl64.Vec3 // Current intersection with the drag plane
	DragPlaneNormal mgl64.Vec3
	DragDistance    float64 // Signed length along the axis in axis mode, length of Delta in plane mode
}

// DragEndEvent is delivered when a drag ends (pointer up, disable or detach).
type DragEndEvent struct {
	DragPlanePoint mgl64.Vec3
}

// DragSession is the transient state of one drag, from pointer down to pointer up.
type DragSession struct {
	LastDragPosition mgl64.Vec3
	Snap             Snapper
	AccumulatedAngle float64
	Dragging         bool
}

// DragController turns pointer events on the meshes under a node into drag events, constrained to an axis or to
// a plane. It never moves the node itself.
type DragController struct {
	dragAxis        *mgl64.Vec3
	dragPlaneNormal *mgl64.Vec3
	// UseObjectOrientationForDragging expresses the axis or normal in the attached node's frame.
	UseObjectOrientationForDragging bool
	// UpdateDragPlane recenters the drag plane on the picked point at each move.
	UpdateDragPlane bool
	// MaxDragAngle (radians, 0 to disable) is the largest angle allowed between the pointer ray and the drag plane
	// normal direction before picks on the drag plane are rejected.
	MaxDragAngle float64
	// UseAlternatePickedPointAboveMaxDragAngle replaces rejected picks with a point projected around the node.
	UseAlternatePickedPointAboveMaxDragAngle bool
	AlternatePickedPointDragSpeed            float64

	OnDragStart scene.Observable[*DragStartEvent]
	OnDrag      scene.Observable[*DragEvent]
	OnDragEnd   scene.Observable[*DragEndEvent]

	enabled      bool
	node         scene.Transformable
	source       *scene.Scene
	pointerObs   *scene.Observer[*scene.PointerInfo]
	session      *DragSession
	planePoint   mgl64.Vec3
	planeNormal  mgl64.Vec3
	snapDistance float64
}

// NewAxisDragController creates a controller constrained to a (local) axis.
func NewAxisDragController(axis mgl64.Vec3) *DragController {
	a := axis.Normalize()
	return newDragController(&a, nil)
}

// NewPlaneDragController creates a controller constrained to the plane with the given (local) normal.
func NewPlaneDragController(normal mgl64.Vec3) *DragController {
	n := normal.Normalize()
	return newDragController(nil, &n)
}

func newDragController(axis, normal *mgl64.Vec3) *DragController {
	return &DragController{
		dragAxis:                        axis,
		dragPlaneNormal:                 normal,
		UseObjectOrientationForDragging: true,
		UpdateDragPlane:                 true,
		AlternatePickedPointDragSpeed:   1.1,
		enabled:                         true,
	}
}

// Attach listens to the pointer events of s and starts drags on the meshes under node.
func (d *DragController) Attach(node scene.Transformable, s *scene.Scene) {
	d.Detach()
	d.node, d.source = node, s
	d.pointerObs = s.OnPointer.Add(d.onPointer)
}

// Detach ends any drag and stops listening.
func (d *DragController) Detach() {
	d.ReleaseDrag()
	if d.source != nil {
		d.source.OnPointer.Remove(d.pointerObs)
	}
	d.node, d.source, d.pointerObs = nil, nil, nil
}

func (d *DragController) Enabled() bool {
	return d.enabled
}

// SetEnabled enables or disables new drags; disabling ends the current one.
func (d *DragController) SetEnabled(enabled bool) {
	if !enabled {
		d.ReleaseDrag()
	}
	d.enabled = enabled
}

// SetSnapDistance sets the snap distance used by future sessions.
func (d *DragController) SetSnapDistance(distance float64) {
	d.snapDistance = distance
	if d.session != nil {
		d.session.Snap.Distance = distance
	}
}

func (d *DragController) SnapDistance() float64 {
	return d.snapDistance
}

// Dragging reports whether a session is active.
func (d *DragController) Dragging() bool {
	return d.session != nil && d.session.Dragging
}

// Session returns the active session or nil.
func (d *DragController) Session() *DragSession {
	return d.session
}

// DragPlane returns the current drag plane (point and normal).
func (d *DragController) DragPlane() (point, normal mgl64.Vec3) {
	return d.planePoint, d.planeNormal
}

func (d *DragController) onPointer(info *scene.PointerInfo) {
	switch info.Type {
	case scene.PointerDown:
		if d.Dragging() {
			// The pointer up of the previous drag was lost
			d.ReleaseDrag()
			return
		}
		if !d.enabled || d.node == nil || info.Pick == nil || !info.Pick.Hit || info.Pick.PickedMesh == nil {
			return
		}
		if scene.IsDescendantOf(info.Pick.PickedMesh, d.node) {
			d.StartDrag(info.Ray)
		}
	case scene.PointerUp:
		d.ReleaseDrag()
	case scene.PointerMove:
		if d.Dragging() {
			d.MoveDrag(info.Ray)
		}
	}
}

// StartDrag opens a session if ray hits the drag plane through the attached node.
func (d *DragController) StartDrag(ray scene.Ray) bool {
	if d.node == nil || d.Dragging() {
		return false
	}
	d.updateDragPlane(ray, scene.AbsolutePosition(d.node))
	picked, ok := d.pickOnDragPlane(ray)
	if !ok {
		return false
	}
	d.session = &DragSession{LastDragPosition: picked, Snap: Snapper{Distance: d.snapDistance}, Dragging: true}
	d.OnDragStart.Notify(&DragStartEvent{DragPlanePoint: picked})
	return true
}

// MoveDrag emits a drag event for the new pointer ray (nothing if the drag plane is missed).
func (d *DragController) MoveDrag(ray scene.Ray) {
	if !d.Dragging() {
		return
	}
	picked, ok := d.pickOnDragPlane(ray)
	if !ok {
		return
	}
	if d.UpdateDragPlane {
		d.updateDragPlane(ray, picked)
	}
	moved := picked.Sub(d.session.LastDragPosition)
	ev := &DragEvent{DragPlanePoint: picked, DragPlaneNormal: d.planeNormal}
	if d.dragAxis != nil {
		axis := d.worldDirection(*d.dragAxis)
		ev.DragDistance = axis.Dot(moved)
		ev.Delta = axis.Mul(ev.DragDistance)
	} else {
		ev.Delta = moved
		ev.DragDistance = moved.Len()
	}
	d.OnDrag.Notify(ev)
	if d.session != nil {
		d.session.LastDragPosition = picked
	}
}

// ReleaseDrag closes the active session, if any.
func (d *DragController) ReleaseDrag() {
	if !d.Dragging() {
		return
	}
	last := d.session.LastDragPosition
	d.session = nil
	d.OnDragEnd.Notify(&DragEndEvent{DragPlanePoint: last})
}

func (d *DragController) worldDirection(local mgl64.Vec3) mgl64.Vec3 {
	if !d.UseObjectOrientationForDragging || d.node == nil {
		return local
	}
	_, rot, _, _ := scene.Decompose(d.node.WorldMatrix())
	return rot.Rotate(local).Normalize()
}

// updateDragPlane places the drag plane through point. In axis mode its normal is perpendicular to the axis and
// as close as possible to the direction of the viewer.
func (d *DragController) updateDragPlane(ray scene.Ray, point mgl64.Vec3) {
	d.planePoint = point
	if d.dragPlaneNormal != nil {
		d.planeNormal = d.worldDirection(*d.dragPlaneNormal)
		return
	}
	axis := d.worldDirection(*d.dragAxis)
	toEye := scene.SafeNormalize(ray.Origin.Sub(point))
	if math.Abs(axis.Dot(toEye)) > 0.999 {
		// Looking along the axis
		if math.Abs(scene.Up.Dot(toEye)) > 0.999 {
			d.planeNormal = mgl64.Vec3{1, 0, 0}
		} else {
			d.planeNormal = scene.Up
		}
		return
	}
	d.planeNormal = axis.Cross(toEye).Cross(axis).Normalize()
}

func (d *DragController) pickOnDragPlane(ray scene.Ray) (mgl64.Vec3, bool) {
	if d.MaxDragAngle > 0 {
		angle := math.Acos(math.Min(1, math.Abs(d.planeNormal.Dot(ray.Direction))))
		if angle > d.MaxDragAngle {
			if !d.UseAlternatePickedPointAboveMaxDragAngle || d.node == nil {
				return mgl64.Vec3{}, false
			}
			return d.alternatePickedPoint(ray), true
		}
	}
	t, ok := ray.IntersectPlane(d.planeNormal, d.planePoint)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return ray.At(t), true
}

// alternatePickedPoint bends the ray towards the node and projects it onto the drag plane.
func (d *DragController) alternatePickedPoint(ray scene.Ray) mgl64.Vec3 {
	nodePos := scene.AbsolutePosition(d.node)
	towards := scene.SafeNormalize(nodePos.Sub(ray.Origin))
	dir := ray.Direction.Add(towards.Mul(d.AlternatePickedPointDragSpeed * towards.Dot(ray.Direction)))
	onPlane := dir.Sub(d.planeNormal.Mul(d.planeNormal.Dot(dir)))
	return onPlane.Add(nodePos)
}
