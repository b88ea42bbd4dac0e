package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"log"
	"sort"
)

// Camera is what the scene needs from its active camera.
type Camera interface {
	Transformable
	// GlobalPosition is the eye position in world space.
	GlobalPosition() mgl64.Vec3
	// Update consumes pending inputs (movement, rotation, locked target) once per frame.
	Update()
	// ViewMatrix is the world to view transform.
	ViewMatrix() mgl64.Mat4
}

// ForwardOf returns the world-space view direction of c.
func ForwardOf(c Camera) mgl64.Vec3 {
	return SafeNormalize(mgl64.TransformNormal(ReferencePoint, c.ViewMatrix().Inv()))
}

// PointerType identifies a pointer event.
type PointerType uint8

const (
	PointerDown PointerType = iota
	PointerUp
	PointerMove
)

func (t PointerType) String() string {
	switch t {
	case PointerDown:
		return "down"
	case PointerUp:
		return "up"
	default:
		return "move"
	}
}

// PickingInfo is the result of a pick. PickedMesh is nil on a miss.
type PickingInfo struct {
	Hit         bool
	PickedMesh  *Mesh
	PickedPoint mgl64.Vec3
	Distance    float64
	Ray         Ray
}

// PointerInfo is delivered by Scene.OnPointer.
type PointerInfo struct {
	Type PointerType
	Pick *PickingInfo
	Ray  Ray
}

// Scene owns meshes and named nodes, the active camera and the per-frame and pointer observables.
type Scene struct {
	Name                 string
	ActiveCamera         Camera
	OnPointer            Observable[*PointerInfo]
	OnBeforeRender       Observable[*Scene]
	Gravity              mgl64.Vec3
	CollisionsEnabled    bool
	CollisionCoordinator CollisionCoordinator
	meshes               []*Mesh
	nodes                map[string]Transformable
	frame                int
}

// NewScene creates an empty scene with an SDF collision coordinator.
func NewScene(name string) *Scene {
	s := &Scene{
		Name:              name,
		Gravity:           mgl64.Vec3{0, -9.81, 0},
		CollisionsEnabled: true,
		nodes:             map[string]Transformable{},
	}
	s.CollisionCoordinator = NewSDFCollisionCoordinator(s)
	return s
}

// AddMesh registers m (moving it out of any previous scene).
func (s *Scene) AddMesh(m *Mesh) {
	if m.scene == s {
		return
	}
	if m.scene != nil {
		m.scene.RemoveMesh(m)
	}
	m.scene = s
	s.meshes = append(s.meshes, m)
	s.nodes[m.Name()] = m
}

// RemoveMesh unregisters m.
func (s *Scene) RemoveMesh(m *Mesh) {
	for i, cur := range s.meshes {
		if cur == m {
			s.meshes = append(s.meshes[:i:i], s.meshes[i+1:]...)
			break
		}
	}
	if s.nodes[m.Name()] == Transformable(m) {
		delete(s.nodes, m.Name())
	}
	m.scene = nil
}

// Meshes returns the registered meshes in insertion order.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// AddNode registers a named node (cameras, bones, lights, transform nodes).
func (s *Scene) AddNode(n Transformable) {
	if _, ok := s.nodes[n.Name()]; ok {
		log.Println("[Scene] WARNING: replacing node with duplicate name", n.Name())
	}
	s.nodes[n.Name()] = n
}

// Node looks up a node by name.
func (s *Scene) Node(name string) Transformable {
	return s.nodes[name]
}

// Nodes returns every named node (meshes included), sorted by name.
func (s *Scene) Nodes() []Transformable {
	res := make([]Transformable, 0, len(s.nodes))
	for _, n := range s.nodes {
		res = append(res, n)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

// Frame returns the number of completed ticks.
func (s *Scene) Frame() int {
	return s.frame
}

// Tick runs one frame: the camera consumes its inputs, then every before-render observer runs, then the view
// matrix is computed (identity without camera).
func (s *Scene) Tick() mgl64.Mat4 {
	if s.ActiveCamera != nil {
		s.ActiveCamera.Update()
	}
	s.OnBeforeRender.Notify(s)
	s.frame++
	if s.ActiveCamera == nil {
		return mgl64.Ident4()
	}
	return s.ActiveCamera.ViewMatrix()
}

// DefaultPickPredicate accepts pickable and visible meshes.
func DefaultPickPredicate(m *Mesh) bool {
	return m.Pickable && m.Visible
}

// Pick returns the closest mesh accepted by predicate (DefaultPickPredicate if nil) hit by ray.
func (s *Scene) Pick(ray Ray, predicate func(*Mesh) bool) *PickingInfo {
	if predicate == nil {
		predicate = DefaultPickPredicate
	}
	res := &PickingInfo{Ray: ray}
	for _, m := range s.meshes {
		if !predicate(m) {
			continue
		}
		dist, point, ok := m.Intersect(ray)
		if !ok || (res.Hit && dist >= res.Distance) {
			continue
		}
		res.Hit, res.PickedMesh, res.PickedPoint, res.Distance = true, m, point, dist
	}
	return res
}

// SimulatePointer picks along ray and notifies OnPointer.
func (s *Scene) SimulatePointer(t PointerType, ray Ray) *PointerInfo {
	info := &PointerInfo{Type: t, Pick: s.Pick(ray, nil), Ray: ray}
	s.OnPointer.Notify(info)
	return info
}

//-----------------------------------------------------------------------------
// UTILITY LAYER
//-----------------------------------------------------------------------------

// UtilityLayer is an overlay scene holding helper meshes (gizmos) on top of an original scene.
// It shares the original camera and ticks right after the original scene's before-render observers.
type UtilityLayer struct {
	Scene    *Scene
	Original *Scene
	tickObs  *Observer[*Scene]
}

// NewUtilityLayer creates the overlay for original.
func NewUtilityLayer(original *Scene) *UtilityLayer {
	u := &UtilityLayer{Scene: NewScene(original.Name + "Utility"), Original: original}
	u.Scene.CollisionsEnabled = false
	u.tickObs = original.OnBeforeRender.Add(func(*Scene) {
		u.Scene.ActiveCamera = original.ActiveCamera
		u.Scene.OnBeforeRender.Notify(u.Scene)
		u.Scene.frame++
	})
	u.Scene.ActiveCamera = original.ActiveCamera
	return u
}

// Camera returns the camera shared with the original scene.
func (u *UtilityLayer) Camera() Camera {
	return u.Original.ActiveCamera
}

// SimulatePointer dispatches a pointer event to the overlay. It reports whether an overlay mesh was hit, in which
// case the host should not forward the event to the original scene.
func (u *UtilityLayer) SimulatePointer(t PointerType, ray Ray) bool {
	u.Scene.ActiveCamera = u.Original.ActiveCamera
	info := u.Scene.SimulatePointer(t, ray)
	return info.Pick.Hit
}

// Dispose detaches the overlay from the original scene.
func (u *UtilityLayer) Dispose() {
	u.Original.OnBeforeRender.Remove(u.tickObs)
	for _, m := range append([]*Mesh(nil), u.Scene.meshes...) {
		m.Dispose()
	}
}
