package viewer

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/subchen/go-trylock/v2"
)

// Option configures a Viewer once the camera and the gizmos exist.
type Option func(v *Viewer)

// OptLock shares lock with other goroutines that modify the scene (see remote.NewEditorService).
func OptLock(lock trylock.TryLocker) Option {
	return func(v *Viewer) {
		v.Lock = lock
	}
}

// OptSelect selects node at startup.
func OptSelect(node scene.Transformable) Option {
	return func(v *Viewer) {
		v.Select(node)
	}
}

// OptMode sets the initial gizmo.
func OptMode(mode Mode) Option {
	return func(v *Viewer) {
		v.SetMode(mode)
	}
}
