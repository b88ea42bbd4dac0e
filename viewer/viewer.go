// Package viewer is an interactive ebiten window over a scene: a free camera, the three transform gizmos on the
// selected node and a software rendering of the meshed shapes.
package viewer

import (
	"context"
	"fmt"
	"github.com/Yeicor/sdfx-gizmo"
	"github.com/Yeicor/sdfx-gizmo/camera"
	"github.com/Yeicor/sdfx-gizmo/internal/inspect"
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/subchen/go-trylock/v2"
	"log"
	"math"
	"os"
)

// Mode selects the gizmo attached to the selected node.
type Mode uint8

const (
	ModePosition Mode = iota
	ModeRotation
	ModeScale
)

func (m Mode) String() string {
	switch m {
	case ModePosition:
		return "position"
	case ModeRotation:
		return "rotation"
	case ModeScale:
		return "scale"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// attachable is the part of the composite gizmos used by the viewer.
type attachable interface {
	SetAttachedNode(node scene.Transformable)
	IsDragging() bool
	IsHovered() bool
}

// Viewer is an ebiten.Game editing Scene. Every update runs while holding Lock, so that other goroutines (the
// remote editor service) can safely change the scene between frames.
type Viewer struct {
	Scene         *scene.Scene
	Layer         *scene.UtilityLayer
	Camera        *camera.FreeCamera
	PositionGizmo *gizmo.PositionGizmo
	RotationGizmo *gizmo.RotationGizmo
	ScaleGizmo    *gizmo.ScaleGizmo
	Lock          trylock.TryLocker

	cfg        *Config
	configs    chan *Config
	mode       Mode
	selected   scene.Transformable
	renderer   *renderer
	frames     []*ebiten.Image
	screenSize [2]int
	cursor     [2]int
	lastSnap   float64
	busy       bool // The last update could not take the lock
	done       chan os.Signal
	lastGood   camera.State
}

// New creates the viewer of s. The camera and the gizmos are created from cfg (DefaultConfig if nil).
func New(s *scene.Scene, cfg *Config, opts ...Option) *Viewer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	v := &Viewer{
		Scene:    s,
		Layer:    scene.NewUtilityLayer(s),
		Lock:     trylock.New(),
		cfg:      cfg,
		configs:  make(chan *Config, 1),
		done:     make(chan os.Signal, 1),
		renderer: newRenderer(cfg.Render.Smoothing),
	}
	camOpts := []camera.Option{
		camera.OptSpeed(cfg.Camera.Speed),
		camera.OptInertia(cfg.Camera.Inertia),
		camera.OptFov(cfg.Camera.Fov, 0.1, 1e3),
		camera.OptTarget(mgl64.Vec3(cfg.Camera.Target)),
	}
	if cfg.Camera.Stereo {
		camOpts = append(camOpts, camera.OptRig(camera.RigStereoSideBySide, 0.0637))
	}
	v.Camera = camera.NewFreeCamera("viewerCamera", mgl64.Vec3(cfg.Camera.Position), s, camOpts...)
	s.ActiveCamera = v.Camera
	v.PositionGizmo = gizmo.NewPositionGizmo(v.Layer, gizmo.OptScaleRatio(cfg.Gizmo.ScaleRatio),
		gizmo.OptSnapDistance(cfg.Gizmo.TranslateSnap), gizmo.OptPlanarGizmoEnabled(cfg.Gizmo.Planar))
	v.RotationGizmo = gizmo.NewRotationGizmo(v.Layer, gizmo.OptScaleRatio(cfg.Gizmo.ScaleRatio),
		gizmo.OptSnapDistance(cfg.Gizmo.RotateSnap))
	v.ScaleGizmo = gizmo.NewScaleGizmo(v.Layer, gizmo.OptScaleRatio(cfg.Gizmo.ScaleRatio),
		gizmo.OptSnapDistance(cfg.Gizmo.ScaleSnap))
	v.applyConfig(cfg)
	v.lastGood = v.Camera.State()
	v.watchSnaps()
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Config returns the active configuration.
func (v *Viewer) Config() *Config {
	return v.cfg
}

// SetConfig queues cfg to be applied on the next update. It may be called from any goroutine.
func (v *Viewer) SetConfig(cfg *Config) {
	select {
	case <-v.configs: // Drop the unapplied one
	default:
	}
	v.configs <- cfg
}

// applyConfig updates the live settings (window, camera tuning, gizmo snapping and colors).
func (v *Viewer) applyConfig(cfg *Config) {
	v.cfg = cfg
	v.Camera.Speed = cfg.Camera.Speed
	v.Camera.Inertia = cfg.Camera.Inertia
	v.Camera.Fov = cfg.Camera.Fov
	v.Camera.AngularSensibility = cfg.Camera.AngularSensibility
	v.Camera.CheckCollisions = cfg.Camera.Collisions
	v.Camera.ApplyGravity = cfg.Camera.Gravity
	v.PositionGizmo.SetSnapDistance(cfg.Gizmo.TranslateSnap)
	v.PositionGizmo.SetPlanarGizmoEnabled(cfg.Gizmo.Planar)
	v.PositionGizmo.SetScaleRatio(cfg.Gizmo.ScaleRatio)
	v.RotationGizmo.SetSnapDistance(cfg.Gizmo.RotateSnap)
	v.RotationGizmo.SetScaleRatio(cfg.Gizmo.ScaleRatio)
	v.ScaleGizmo.SetSnapDistance(cfg.Gizmo.ScaleSnap)
	v.ScaleGizmo.SetScaleRatio(cfg.Gizmo.ScaleRatio)
	v.renderer.smoothing = cfg.Render.Smoothing
}

func (v *Viewer) watchSnaps() {
	record := func(ev gizmo.SnapEvent) { v.lastSnap = ev.SnapDistance }
	for _, g := range []*gizmo.AxisDragGizmo{v.PositionGizmo.XGizmo, v.PositionGizmo.YGizmo, v.PositionGizmo.ZGizmo} {
		g.OnSnap.Add(record)
	}
	for _, g := range []*gizmo.PlaneDragGizmo{v.PositionGizmo.XPlaneGizmo, v.PositionGizmo.YPlaneGizmo,
		v.PositionGizmo.ZPlaneGizmo} {
		g.OnSnap.Add(record)
	}
	for _, g := range []*gizmo.PlaneRotationGizmo{v.RotationGizmo.XGizmo, v.RotationGizmo.YGizmo, v.RotationGizmo.ZGizmo} {
		g.OnSnap.Add(record)
	}
	for _, g := range []*gizmo.AxisScaleGizmo{v.ScaleGizmo.XGizmo, v.ScaleGizmo.YGizmo, v.ScaleGizmo.ZGizmo,
		v.ScaleGizmo.UniformScaleGizmo} {
		g.OnSnap.Add(record)
	}
}

//-----------------------------------------------------------------------------
// SELECTION
//-----------------------------------------------------------------------------

func (v *Viewer) gizmos() []attachable {
	return []attachable{v.PositionGizmo, v.RotationGizmo, v.ScaleGizmo}
}

// Mode returns the active gizmo.
func (v *Viewer) Mode() Mode {
	return v.mode
}

// SetMode switches the gizmo shown on the selected node.
func (v *Viewer) SetMode(mode Mode) {
	if mode > ModeScale {
		log.Println("[Viewer] WARNING: ignoring unknown gizmo mode", mode)
		return
	}
	v.mode = mode
	v.attach()
}

// Selected returns the node being edited (nil if none).
func (v *Viewer) Selected() scene.Transformable {
	return v.selected
}

// Select attaches the active gizmo to node (nil clears the selection). A locked camera keeps looking at the new
// selection.
func (v *Viewer) Select(node scene.Transformable) {
	v.selected = node
	if _, locked := v.Camera.LockedTarget.(camera.NodeTarget); locked {
		if node == nil {
			v.Camera.LockedTarget = nil
		} else {
			v.Camera.LockedTarget = camera.NodeTarget{Node: node}
		}
	}
	v.attach()
}

func (v *Viewer) attach() {
	for i, g := range v.gizmos() {
		if Mode(i) == v.mode {
			g.SetAttachedNode(v.selected)
		} else {
			g.SetAttachedNode(nil)
		}
	}
}

// SelectNext selects the node following the current selection in s.Nodes (cameras excluded), wrapping around.
func (v *Viewer) SelectNext() {
	var nodes []scene.Transformable
	for _, n := range v.Scene.Nodes() {
		if n.Kind() != scene.KindCamera {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return
	}
	next := 0
	for i, n := range nodes {
		if n == v.selected {
			next = (i + 1) % len(nodes)
			break
		}
	}
	v.Select(nodes[next])
}

// ToggleLock makes the camera keep looking at the selected node, or releases it.
func (v *Viewer) ToggleLock() {
	if v.Camera.LockedTarget != nil || v.selected == nil {
		v.Camera.LockedTarget = nil
		return
	}
	v.Camera.LockedTarget = camera.NodeTarget{Node: v.selected}
}

func (v *Viewer) active() attachable {
	return v.gizmos()[v.mode]
}

//-----------------------------------------------------------------------------
// POINTER
//-----------------------------------------------------------------------------

// pointerRay is the picking ray through pixel (x, y) of the screen, from the camera of the viewport under it.
func (v *Viewer) pointerRay(x, y int) scene.Ray {
	fx, fy := float64(x)+0.5, float64(y)+0.5
	viewports := v.viewports()
	vp := viewports[0]
	for _, cur := range viewports[1:] {
		if fx >= cur.x {
			vp = cur
		}
	}
	return scene.RayFromScreen(fx-vp.x, fy-vp.y, vp.w, vp.h, vp.camera.ViewMatrix(), vp.camera.Fov)
}

// PointerDown starts a gizmo drag under (x, y) or, if no gizmo is there, selects the mesh under it (or nothing).
func (v *Viewer) PointerDown(x, y int) {
	ray := v.pointerRay(x, y)
	if v.Layer.SimulatePointer(scene.PointerDown, ray) {
		return
	}
	info := v.Scene.SimulatePointer(scene.PointerDown, ray)
	if info.Pick.PickedMesh != nil {
		v.Select(info.Pick.PickedMesh)
	} else {
		v.Select(nil)
	}
}

// PointerMove moves the pointer to (x, y), dragging or hovering the gizmos.
func (v *Viewer) PointerMove(x, y int) {
	ray := v.pointerRay(x, y)
	if !v.Layer.SimulatePointer(scene.PointerMove, ray) && !v.active().IsDragging() {
		v.Scene.SimulatePointer(scene.PointerMove, ray)
	}
}

// PointerUp ends any drag.
func (v *Viewer) PointerUp(x, y int) {
	ray := v.pointerRay(x, y)
	v.Layer.SimulatePointer(scene.PointerUp, ray)
	v.Scene.SimulatePointer(scene.PointerUp, ray)
}

//-----------------------------------------------------------------------------
// FRAME
//-----------------------------------------------------------------------------

// Tick runs one frame of the scene while holding the lock. It reports false if the lock could not be taken
// before ctx is done (the frame is skipped).
func (v *Viewer) Tick(ctx context.Context, input func()) bool {
	if !v.Lock.TryLock(ctx) {
		return false
	}
	defer v.Lock.Unlock()
	select {
	case cfg := <-v.configs:
		v.applyConfig(cfg)
	default:
	}
	if input != nil {
		input()
	}
	v.Scene.Tick()
	st := v.Camera.State()
	if bad := inspect.NonFinite(st); len(bad) > 0 {
		log.Println("[Viewer] ERROR: non-finite camera state in", bad, "going back to the last valid pose")
		v.Camera.ApplyState(v.lastGood)
	} else {
		v.lastGood = st
	}
	return true
}

// distanceToSelection is the distance from the camera to the selected node (0 if none).
func (v *Viewer) distanceToSelection() float64 {
	if v.selected == nil {
		return 0
	}
	return scene.AbsolutePosition(v.selected).Sub(v.Camera.GlobalPosition()).Len()
}

// hudAngle is the current rotation drag angle in degrees (NaN if not dragging).
func (v *Viewer) hudAngle() float64 {
	for _, g := range []*gizmo.PlaneRotationGizmo{v.RotationGizmo.XGizmo, v.RotationGizmo.YGizmo, v.RotationGizmo.ZGizmo} {
		if g.IsDragging() {
			return mgl64.RadToDeg(g.Angle)
		}
	}
	return math.NaN()
}
