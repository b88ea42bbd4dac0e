// Package remote exposes a running editor over net/rpc, so that other processes (scripts, a restarted build of
// the scene code) can read the scene and drive the camera and the gizmo transforms.
package remote

import (
	"context"
	"errors"
	"fmt"
	"github.com/Yeicor/sdfx-gizmo"
	"github.com/Yeicor/sdfx-gizmo/camera"
	"github.com/Yeicor/sdfx-gizmo/internal/inspect"
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/barkimedes/go-deepcopy"
	"github.com/deadsy/sdfx/sdf"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/subchen/go-trylock/v2"
	"log"
	"net"
	"net/rpc"
	"os"
	"time"
)

var (
	// ErrBusy is returned when the editor kept its lock for longer than the configured timeout.
	ErrBusy = errors.New("editor busy")
	// ErrNonFinite is returned for arguments holding NaN or infinite values.
	ErrNonFinite = errors.New("non-finite values")
	// ErrUnknownNode is returned when no node has the requested name.
	ErrUnknownNode = errors.New("unknown node")
)

// NodeInfo is the exported state of a mesh.
type NodeInfo struct {
	Name     string
	Kind     scene.Kind
	Position mgl64.Vec3 // World space
	Rotation mgl64.Quat
	Scaling  mgl64.Vec3
	Bounds   []sdf.Box3 // Shape hierarchy, in the local frame of the mesh
}

// Snapshot is the state returned by EditorService.Snapshot.
type Snapshot struct {
	Frame  int
	Camera camera.State
	Nodes  []NodeInfo
}

// TranslateArgs moves Node by Delta (world space).
type TranslateArgs struct {
	Node  string
	Delta mgl64.Vec3
}

// RotateArgs rotates Node by Angle around Axis (world axis if FixedAxis, local otherwise).
type RotateArgs struct {
	Node      string
	Axis      mgl64.Vec3
	Angle     float64
	FixedAxis bool
}

// ScaleArgs multiplies the scale of Node by Factors.
type ScaleArgs struct {
	Node    string
	Factors mgl64.Vec3
}

// EditorService is the net/rpc receiver. Every call runs while holding the editor lock, so that it never races
// with a frame update.
type EditorService struct {
	scene       *scene.Scene
	camera      *camera.TargetCamera
	lock        trylock.TryLocker
	lockTimeout time.Duration
	done        chan<- os.Signal
	bounds      map[*scene.Mesh][]sdf.Box3
}

// NewEditorService registers an EditorService for s and cam in a new rpc server. done receives os.Kill on
// Shutdown.
func NewEditorService(s *scene.Scene, cam *camera.TargetCamera, lock trylock.TryLocker, lockTimeout time.Duration,
	done chan<- os.Signal) *rpc.Server {
	server := rpc.NewServer()
	srv := &EditorService{
		scene:       s,
		camera:      cam,
		lock:        lock,
		lockTimeout: lockTimeout,
		done:        done,
		bounds:      map[*scene.Mesh][]sdf.Box3{},
	}
	if err := server.Register(srv); err != nil {
		panic(err) // Only on a bad method set
	}
	return server
}

func (e *EditorService) withLock(f func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.lockTimeout)
	defer cancel()
	if !e.lock.TryLock(ctx) {
		return ErrBusy
	}
	defer e.lock.Unlock()
	return f()
}

func (e *EditorService) node(name string) (scene.Transformable, error) {
	n := e.scene.Node(name)
	if n == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNode, name)
	}
	return n, nil
}

func checkFinite(args interface{}) error {
	if bad := inspect.NonFinite(args); len(bad) > 0 {
		return fmt.Errorf("%w in %v", ErrNonFinite, bad)
	}
	return nil
}

// Snapshot exports the camera pose and every mesh of the scene.
func (e *EditorService) Snapshot(_ int, out *Snapshot) error {
	return e.withLock(func() error {
		out.Frame = e.scene.Frame()
		out.Camera = e.camera.State()
		out.Nodes = out.Nodes[:0]
		for _, m := range e.scene.Meshes() {
			scale, rot, pos, _ := scene.Decompose(m.WorldMatrix())
			bounds, ok := e.bounds[m]
			if !ok && m.Shape != nil {
				bounds = inspect.ShapeTree(m.Shape).Bounds()
				e.bounds[m] = bounds
			}
			out.Nodes = append(out.Nodes, NodeInfo{
				Name:     m.Name(),
				Kind:     m.Kind(),
				Position: pos,
				Rotation: rot,
				Scaling:  scale,
				Bounds:   deepcopy.MustAnything(bounds).([]sdf.Box3), // The cache outlives the lock
			})
		}
		return nil
	})
}

// SetCameraPose moves the editor camera.
func (e *EditorService) SetCameraPose(st camera.State, _ *int) error {
	if err := checkFinite(st); err != nil {
		return err
	}
	return e.withLock(func() error {
		e.camera.ApplyState(st)
		return nil
	})
}

// Translate moves a node like a position gizmo would.
func (e *EditorService) Translate(args TranslateArgs, _ *int) error {
	if err := checkFinite(args); err != nil {
		return err
	}
	return e.withLock(func() error {
		n, err := e.node(args.Node)
		if err != nil {
			return err
		}
		gizmo.ApplyTranslationDelta(n, args.Delta)
		return nil
	})
}

// Rotate turns a node like a rotation gizmo would.
func (e *EditorService) Rotate(args RotateArgs, _ *int) error {
	if err := checkFinite(args); err != nil {
		return err
	}
	if args.Axis.Len() == 0 {
		return errors.New("zero rotation axis")
	}
	return e.withLock(func() error {
		n, err := e.node(args.Node)
		if err != nil {
			return err
		}
		gizmo.ApplyRotationDelta(n, args.Axis, args.Angle, args.FixedAxis)
		return nil
	})
}

// Scale scales a node like a scale gizmo would. Updates that would degenerate the node are refused.
func (e *EditorService) Scale(args ScaleArgs, _ *int) error {
	if err := checkFinite(args); err != nil {
		return err
	}
	return e.withLock(func() error {
		n, err := e.node(args.Node)
		if err != nil {
			return err
		}
		if !gizmo.ApplyScaleFactors(n, args.Factors) {
			return fmt.Errorf("scale %v discarded for %q", args.Factors, args.Node)
		}
		return nil
	})
}

// Shutdown asks the editor to exit, failing if it does not accept the request in time.
func (e *EditorService) Shutdown(timeout time.Duration, _ *int) error {
	select {
	case e.done <- os.Kill:
		return nil
	case <-time.After(timeout):
		return errors.New("shutdown timeout")
	}
}

//-----------------------------------------------------------------------------

// Serve accepts connections on l until ctx is done.
func Serve(ctx context.Context, l net.Listener, server *rpc.Server) error {
	go func() {
		<-ctx.Done()
		_ = l.Close()
	}()
	log.Println("[Remote] Serving editor on", l.Addr())
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go server.ServeConn(conn)
	}
}
