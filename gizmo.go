// Package gizmo provides 3D manipulation handles (arrows, planes, rings and scale boxes) that turn pointer drags
// into translation, rotation and scale changes of scene nodes.
package gizmo

import (
	"errors"
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
)

// AnchorPoint selects where a gizmo is drawn relative to its attached node.
type AnchorPoint uint8

const (
	AnchorOrigin AnchorPoint = iota // The world translation of the node
	AnchorPivot                     // The logical position of a pivot-using node
)

// ErrCustomMeshScene is returned when a custom mesh does not belong to the gizmo's utility layer.
var ErrCustomMeshScene = errors.New("custom gizmo meshes must belong to the gizmo's utility layer scene")

// ErrCustomMeshUnsupported is returned by composite gizmos.
var ErrCustomMeshUnsupported = errors.New("custom meshes are not supported on this gizmo, set them on its sub-gizmos")

// Gizmo is the part shared by every gizmo: a root node in a utility layer that follows the attached node each frame.
type Gizmo struct {
	// ScaleRatio multiplies the size of the gizmo.
	ScaleRatio float64
	// UpdateGizmoRotationToMatchAttachedMesh orients the gizmo like the attached node (local axes).
	UpdateGizmoRotationToMatchAttachedMesh bool
	// UpdateGizmoPositionToMatchAttachedMesh places the gizmo on the attached node.
	UpdateGizmoPositionToMatchAttachedMesh bool
	// UpdateScale keeps a constant on-screen size by scaling with the distance to the camera.
	UpdateScale bool
	AnchorPoint AnchorPoint
	// CustomRotationQuaternion overrides the orientation of the gizmo when not nil.
	CustomRotationQuaternion *mgl64.Quat

	layer         *scene.UtilityLayer
	root          *scene.TransformNode
	attached      scene.Transformable
	hovered       bool
	customMeshSet bool
	enabled       bool
	parentGet     func() scene.Transformable // Node of the owning composite
	tickObs       *scene.Observer[*scene.Scene]
	pointerObs    *scene.Observer[*scene.PointerInfo]
	onAttach      func(scene.Transformable)
	onCustomMesh  func(*scene.Mesh)
}

func newGizmo(layer *scene.UtilityLayer, s *settings) *Gizmo {
	g := &Gizmo{
		ScaleRatio:                             s.scaleRatio,
		UpdateGizmoRotationToMatchAttachedMesh: s.matchRotation,
		UpdateGizmoPositionToMatchAttachedMesh: s.matchPosition,
		UpdateScale:                            s.updateScale,
		AnchorPoint:                            s.anchor,
		layer:                                  layer,
		root:                                   scene.NewTransformNode("gizmoRoot"),
		enabled:                                true,
	}
	g.root.Rotation = scene.QuatOrientation(mgl64.QuatIdent())
	g.tickObs = layer.Scene.OnBeforeRender.Add(func(*scene.Scene) { g.update() })
	g.pointerObs = layer.Scene.OnPointer.Add(func(info *scene.PointerInfo) {
		if info.Type == scene.PointerMove || info.Type == scene.PointerDown {
			g.hovered = info.Pick != nil && info.Pick.PickedMesh != nil && scene.IsDescendantOf(info.Pick.PickedMesh, g.root)
		}
	})
	return g
}

// Layer returns the utility layer holding the gizmo meshes.
func (g *Gizmo) Layer() *scene.UtilityLayer {
	return g.layer
}

// Root returns the node that carries the gizmo meshes.
func (g *Gizmo) Root() *scene.TransformNode {
	return g.root
}

// AttachedNode returns the manipulated node (nil when detached).
func (g *Gizmo) AttachedNode() scene.Transformable {
	return g.attached
}

// SetAttachedNode attaches the gizmo to node, or detaches it with nil.
func (g *Gizmo) SetAttachedNode(node scene.Transformable) {
	g.attached = node
	g.setMeshesEnabled(node != nil)
	if g.onAttach != nil {
		g.onAttach(node)
	}
	if node != nil {
		g.update()
	}
}

func (g *Gizmo) gizmo() *Gizmo {
	return g
}

// IsEnabled reports whether the gizmo accepts attachments.
func (g *Gizmo) IsEnabled() bool {
	return g.enabled
}

// SetEnabled detaches the gizmo when disabled, and reattaches it to its composite's node when enabled again.
func (g *Gizmo) SetEnabled(enabled bool) {
	g.enabled = enabled
	if !enabled {
		g.SetAttachedNode(nil)
	} else if g.parentGet != nil {
		g.SetAttachedNode(g.parentGet())
	}
}

// IsHovered reports whether the pointer is over one of the gizmo meshes.
func (g *Gizmo) IsHovered() bool {
	return g.hovered
}

// Meshes returns the meshes carried by the gizmo root.
func (g *Gizmo) Meshes() []*scene.Mesh {
	var res []*scene.Mesh
	for _, m := range g.layer.Scene.Meshes() {
		if m.Parent() != nil && scene.IsDescendantOf(m.Parent(), g.root) {
			res = append(res, m)
		}
	}
	return res
}

func (g *Gizmo) setMeshesEnabled(enabled bool) {
	for _, m := range g.Meshes() {
		m.Visible = enabled
	}
}

// SetCustomMesh replaces the gizmo meshes with mesh, which must have been created in the utility layer scene.
func (g *Gizmo) SetCustomMesh(mesh *scene.Mesh) error {
	if mesh.Scene() != g.layer.Scene {
		log.Println("[Gizmo] ERROR:", ErrCustomMeshScene)
		return ErrCustomMeshScene
	}
	for _, m := range g.Meshes() {
		m.Dispose()
	}
	mesh.SetParent(g.root)
	mesh.Visible = g.attached != nil
	g.customMeshSet = true
	if g.onCustomMesh != nil {
		g.onCustomMesh(mesh)
	}
	return nil
}

// update moves the gizmo root onto the attached node.
func (g *Gizmo) update() {
	if g.attached == nil {
		return
	}
	world := g.attached.WorldMatrix()
	_, rot, translation, _ := scene.Decompose(world)
	if g.UpdateGizmoPositionToMatchAttachedMesh {
		if p, ok := g.attached.(scene.Pivoted); ok && g.AnchorPoint == AnchorPivot && p.IsUsingPivotMatrix() {
			g.root.Position = p.PositionInWorld()
		} else {
			g.root.Position = translation
		}
	}
	switch {
	case g.CustomRotationQuaternion != nil:
		g.root.Rotation.Set(*g.CustomRotationQuaternion)
	case g.UpdateGizmoRotationToMatchAttachedMesh:
		g.root.Rotation.Set(rot)
	default:
		g.root.Rotation.Set(mgl64.QuatIdent())
	}
	if g.UpdateScale {
		dist := g.ScaleRatio
		if cam := g.layer.Camera(); cam != nil {
			dist *= g.root.Position.Sub(cam.GlobalPosition()).Len()
		}
		g.root.Scaling = mgl64.Vec3{dist, dist, dist}
	} else {
		g.root.Scaling = mgl64.Vec3{g.ScaleRatio, g.ScaleRatio, g.ScaleRatio}
	}
	if world.Det() < 0 {
		// Same handedness as the node
		g.root.Scaling[1] = -g.root.Scaling[1]
	}
}

// Dispose detaches the gizmo and removes its meshes.
func (g *Gizmo) Dispose() {
	g.SetAttachedNode(nil)
	g.layer.Scene.OnBeforeRender.Remove(g.tickObs)
	g.layer.Scene.OnPointer.Remove(g.pointerObs)
	for _, m := range g.Meshes() {
		m.Dispose()
	}
}
