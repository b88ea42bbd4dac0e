package viewer

import (
	"context"
	"fmt"
	"github.com/Yeicor/sdfx-gizmo"
	"github.com/Yeicor/sdfx-gizmo/camera"
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
	"image/color"
	"log"
	"math"
	"os"
	"os/signal"
	"time"
)

// drawLockTimeout bounds the wait for the scene lock while drawing; the previous frame is shown instead.
const drawLockTimeout = time.Millisecond

var defaultFont = basicfont.Face7x13

// game hides the ebiten implementation while behaving like a *Viewer internally
type game struct {
	*Viewer
	ctx context.Context
}

// Run opens the window and blocks until it is closed, ctx is done, a termination signal is received or a value
// is sent on Done.
func (v *Viewer) Run(ctx context.Context) error {
	signal.Notify(v.done, signals()...)
	defer signal.Stop(v.done)
	ebiten.SetWindowSize(v.cfg.Window.Width, v.cfg.Window.Height)
	ebiten.SetWindowTitle(v.cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game{Viewer: v, ctx: ctx}); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	return nil
}

// Done receives the requests to close the viewer (see remote.NewEditorService).
func (v *Viewer) Done() chan<- os.Signal {
	return v.done
}

func (g game) Update() error {
	select {
	case sig := <-g.done:
		log.Println("[Viewer] Received", sig, "closing")
		return ebiten.Termination
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	title := g.cfg.Window.Title
	ctx, cancel := context.WithTimeout(g.ctx, time.Duration(frameTime()*float64(time.Second)))
	defer cancel()
	g.busy = !g.Tick(ctx, g.onUpdateInputs)
	if g.cfg.Window.Title != title {
		ebiten.SetWindowTitle(g.cfg.Window.Title)
	}
	return nil
}

func (g game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	g.screenSize = [2]int{outsideWidth, outsideHeight}
	return outsideWidth, outsideHeight
}

func (g game) Draw(screen *ebiten.Image) {
	ctx, cancel := context.WithTimeout(context.Background(), drawLockTimeout)
	defer cancel()
	if g.Lock.RTryLock(ctx) {
		g.renderFrames()
		g.drawFrames(screen)
		g.drawIndicators(screen)
		g.Lock.RUnlock()
	} else {
		g.drawFrames(screen)
		ebitenutil.DebugPrintAt(screen, "Busy...", 5, 5)
	}
	g.drawUI(screen)
}

//-----------------------------------------------------------------------------
// INPUT
//-----------------------------------------------------------------------------

// frameTime is the expected duration of an update, in seconds.
func frameTime() float64 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return 1 / float64(tps)
}

func getCursor() (int, int) {
	cx, cy := ebiten.CursorPosition()
	if ids := ebiten.AppendTouchIDs(nil); len(ids) > 0 { // Override cursor with touch if available
		cx, cy = ebiten.TouchPosition(ids[0])
	}
	return cx, cy
}

// onUpdateInputs runs inside Tick, with the lock held.
func (v *Viewer) onUpdateInputs() {
	cx, cy := getCursor()
	// Camera
	looking := ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	if looking && !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		v.Camera.LookInput(float64(cx-v.cursor[0]), float64(cy-v.cursor[1]))
	}
	pressed := func(arrow ebiten.Key, letter ebiten.Key) bool {
		// Letters only move while looking around: they are also gizmo shortcuts
		return ebiten.IsKeyPressed(arrow) || looking && ebiten.IsKeyPressed(letter)
	}
	var move mgl64.Vec3
	if pressed(ebiten.KeyArrowUp, ebiten.KeyW) {
		move[2]++
	}
	if pressed(ebiten.KeyArrowDown, ebiten.KeyS) {
		move[2]--
	}
	if pressed(ebiten.KeyArrowRight, ebiten.KeyD) {
		move[0]++
	}
	if pressed(ebiten.KeyArrowLeft, ebiten.KeyA) {
		move[0]--
	}
	if pressed(ebiten.KeyPageUp, ebiten.KeyE) {
		move[1]++
	}
	if pressed(ebiten.KeyPageDown, ebiten.KeyQ) {
		move[1]--
	}
	if move != (mgl64.Vec3{}) {
		v.Camera.MoveInput(move, frameTime())
	}

	// Shortcuts
	if !looking {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyG):
			v.SetMode(ModePosition)
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			v.SetMode(ModeRotation)
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			v.SetMode(ModeScale)
		case inpututil.IsKeyJustPressed(ebiten.KeyTab):
			v.SelectNext()
		case inpututil.IsKeyJustPressed(ebiten.KeyL):
			v.ToggleLock()
		case inpututil.IsKeyJustPressed(ebiten.KeyP):
			v.PositionGizmo.SetPlanarGizmoEnabled(!v.PositionGizmo.PlanarGizmoEnabled())
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			v.Camera.StoreState()
		case inpututil.IsKeyJustPressed(ebiten.KeyHome):
			v.Camera.RestoreState()
		}
	}

	// Pointer
	touched := len(inpututil.AppendJustPressedTouchIDs(nil)) > 0
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || touched:
		v.PointerDown(cx, cy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) || len(inpututil.AppendJustReleasedTouchIDs(nil)) > 0:
		v.PointerUp(cx, cy)
	case cx != v.cursor[0] || cy != v.cursor[1]:
		v.PointerMove(cx, cy)
	}
	v.cursor = [2]int{cx, cy}
}

//-----------------------------------------------------------------------------
// DRAWING
//-----------------------------------------------------------------------------

// viewport is a camera drawn on a region of the screen (in pixels).
type viewport struct {
	camera     *camera.TargetCamera
	x, y, w, h float64
}

// viewports returns one viewport per eye: the rig cameras if any, or the viewer camera on the whole screen.
func (v *Viewer) viewports() []viewport {
	w, h := float64(v.screenSize[0]), float64(v.screenSize[1])
	if w <= 0 || h <= 0 {
		w, h = float64(v.cfg.Window.Width), float64(v.cfg.Window.Height)
	}
	rig := v.Camera.RigCameras()
	if len(rig) == 0 {
		return []viewport{{camera: v.Camera.TargetCamera, w: w, h: h}}
	}
	res := make([]viewport, len(rig))
	for i, c := range rig {
		x, y, vw, vh := v.Camera.RigViewport(i)
		res[i] = viewport{camera: c, x: x * w, y: y * h, w: vw * w, h: vh * h}
	}
	return res
}

func (vp viewport) eye() eye {
	return eye{
		view:     vp.camera.ViewMatrix(),
		position: vp.camera.GlobalPosition(),
		fov:      vp.camera.Fov,
		near:     vp.camera.MinZ,
		far:      vp.camera.MaxZ,
	}
}

func (v *Viewer) renderFrames() {
	v.renderer.forget()
	selected, _ := v.selected.(*scene.Mesh)
	bg := mustColor(v.cfg.Render.Background)
	viewports := v.viewports()
	if len(v.frames) != len(viewports) {
		v.frames = make([]*ebiten.Image, len(viewports))
	}
	for i, vp := range viewports {
		w := int(vp.w) / v.cfg.Render.ResInv
		h := int(vp.h) / v.cfg.Render.ResInv
		if w < 1 || h < 1 {
			continue
		}
		img := v.renderer.render(w, h, bg, vp.eye(),
			pass{meshes: v.Scene.Meshes(), cells: v.cfg.Render.MeshCells, selected: selected,
				highlight: mustColor(v.cfg.Render.Selected)},
			pass{meshes: v.Layer.Scene.Meshes(), cells: v.cfg.Render.GizmoCells})
		if f := v.frames[i]; f == nil || f.Bounds().Dx() != w || f.Bounds().Dy() != h {
			if f != nil {
				f.Deallocate()
			}
			v.frames[i] = ebiten.NewImage(w, h)
		}
		v.frames[i].WritePixels(img.Pix)
	}
}

func (v *Viewer) drawFrames(screen *ebiten.Image) {
	viewports := v.viewports()
	for i, f := range v.frames {
		if f == nil || i >= len(viewports) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(v.cfg.Render.ResInv), float64(v.cfg.Render.ResInv))
		op.GeoM.Translate(viewports[i].x, viewports[i].y)
		screen.DrawImage(f, op)
	}
}

// drawIndicators draws the arc swept by the ring being dragged.
func (v *Viewer) drawIndicators(screen *ebiten.Image) {
	clr := mustColor(v.cfg.Render.Selected)
	for _, ring := range []*gizmo.PlaneRotationGizmo{v.RotationGizmo.XGizmo, v.RotationGizmo.YGizmo,
		v.RotationGizmo.ZGizmo} {
		arc := ring.IndicatorArc(32)
		if len(arc) == 0 {
			continue
		}
		for _, vp := range v.viewports() {
			e := vp.eye()
			for i := 1; i < len(arc); i++ {
				x0, y0, ok0 := projectToScreen(arc[i-1], e, vp.w, vp.h)
				x1, y1, ok1 := projectToScreen(arc[i], e, vp.w, vp.h)
				if !ok0 || !ok1 {
					continue
				}
				vector.StrokeLine(screen, float32(vp.x+x0), float32(vp.y+y0), float32(vp.x+x1), float32(vp.y+y1), 3,
					clr, true)
			}
		}
	}
}

func drawDefaultTextWithShadow(screen *ebiten.Image, msg string, x, y int, c color.Color) {
	text.Draw(screen, msg, defaultFont, x+1, y+1, color.RGBA{A: 255})
	text.Draw(screen, msg, defaultFont, x, y, c)
}

// drawUI draws the current state and the controls
func (v *Viewer) drawUI(screen *ebiten.Image) {
	selected := "none"
	if v.selected != nil {
		selected = fmt.Sprintf("%s (%s) at %.2f", v.selected.Name(), v.selected.Kind(), v.distanceToSelection())
	}
	locked := v.Camera.LockedTarget != nil
	msg := fmt.Sprintf("TPS: %0.2f/%d\nSelected: %s [LeftMouse/Tab]\nGizmo: %s [G/R/S]\nPlanar: %t [P]\nLocked: %t [L]\n"+
		"Last snap: %.3f\nStore/restore camera [C/Home]\nMove [Arrows, RightMouse+WASDQE]\nLook [RightMouse]",
		ebiten.ActualTPS(), ebiten.TPS(), selected, v.mode, v.PositionGizmo.PlanarGizmoEnabled(), locked, v.lastSnap)
	if angle := v.hudAngle(); !math.IsNaN(angle) {
		msg += fmt.Sprintf("\nAngle: %.1f", angle)
	}
	if v.busy {
		msg += "\nRemote editing..."
	}
	boundString := text.BoundString(defaultFont, msg)
	drawDefaultTextWithShadow(screen, msg, 5, v.screenSize[1]-boundString.Dy()+5, mustColor(v.cfg.Render.Text))
}
