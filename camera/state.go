package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
)

// State is the restorable pose of a camera.
type State struct {
	Position mgl64.Vec3
	Rotation scene.Orientation
	Fov      float64
}

// State returns a copy of the current pose.
func (c *TargetCamera) State() State {
	return State{Position: c.Position, Rotation: c.Rotation, Fov: c.Fov}
}

// StoreState remembers the current pose for RestoreState.
func (c *TargetCamera) StoreState() {
	st := c.State()
	c.stored = &st
}

// RestoreState goes back to the stored pose and drops pending inputs. It returns false if nothing was stored.
func (c *TargetCamera) RestoreState() bool {
	if c.stored == nil {
		log.Println("[Camera] WARNING: no stored state for", c.Name())
		return false
	}
	c.ApplyState(*c.stored)
	return true
}

// ApplyState sets the pose and drops pending inputs.
func (c *TargetCamera) ApplyState(st State) {
	c.Position = st.Position
	c.Rotation = st.Rotation
	if st.Fov > 0 {
		c.Fov = st.Fov
	}
	c.CameraDirection = mgl64.Vec3{}
	c.CameraRotation = mgl64.Vec2{}
}
