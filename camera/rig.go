package camera

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/go-gl/mathgl/mgl64"
	"log"
)

// RigMode selects how a camera is split into sub-cameras for display.
type RigMode uint8

const (
	RigNone RigMode = iota
	// RigStereoSideBySide renders a left and a right eye converging on the focal point (parallel view).
	RigStereoSideBySide
	// RigStereoCrossEyed swaps the eyes of RigStereoSideBySide.
	RigStereoCrossEyed
	// RigVR renders both eyes from the pose of the camera.
	RigVR
)

func (m RigMode) String() string {
	switch m {
	case RigNone:
		return "none"
	case RigStereoSideBySide:
		return "stereo-side-by-side"
	case RigStereoCrossEyed:
		return "stereo-cross-eyed"
	case RigVR:
		return "vr"
	default:
		return "unknown"
	}
}

// stereoDistanceUnit is the interaxial distance that gives a half angle of one degree.
const stereoDistanceUnit = 0.0637

type rig struct {
	mode               RigMode
	interaxialDistance float64
	halfAngle          float64
	cameras            []*TargetCamera
}

// SetRigMode replaces the rig cameras. interaxialDistance only matters for stereo modes.
func (c *TargetCamera) SetRigMode(mode RigMode, interaxialDistance float64) {
	c.rig = rig{mode: mode, interaxialDistance: interaxialDistance}
	switch mode {
	case RigNone:
		return
	case RigStereoSideBySide, RigStereoCrossEyed, RigVR:
	default:
		log.Println("[Camera] WARNING: unknown rig mode", mode, "for", c.Name())
		c.rig.mode = RigNone
		return
	}
	c.rig.halfAngle = mgl64.DegToRad(interaxialDistance / stereoDistanceUnit)
	for _, side := range []string{"_L", "_R"} {
		rc := NewTargetCamera(c.Name()+side, c.Position)
		rc.Inertia = 0
		c.rig.cameras = append(c.rig.cameras, rc)
	}
	c.updateRigCameras()
}

// RigMode returns the current rig mode.
func (c *TargetCamera) RigMode() RigMode {
	return c.rig.mode
}

// RigCameras returns the sub-cameras (left eye first), or nil without rig.
func (c *TargetCamera) RigCameras() []*TargetCamera {
	return c.rig.cameras
}

// RigViewport returns the normalized viewport (x, y, width, height) of rig camera i.
func (c *TargetCamera) RigViewport(i int) (x, y, w, h float64) {
	if c.rig.mode == RigNone || len(c.rig.cameras) < 2 {
		return 0, 0, 1, 1
	}
	return 0.5 * float64(i), 0, 0.5, 1
}

func (c *TargetCamera) updateRigCameras() {
	if c.rig.mode == RigNone {
		return
	}
	if c.LockedTarget != nil {
		c.SetTarget(c.lockedTargetPosition())
	}
	left, right := c.rig.cameras[0], c.rig.cameras[1]
	for _, rc := range c.rig.cameras {
		rc.SetParent(c.Parent())
		rc.IgnoreParentScaling = c.IgnoreParentScaling
		rc.UpVector = c.upVector()
		rc.Fov, rc.MinZ, rc.MaxZ = c.Fov, c.MinZ, c.MaxZ
	}
	switch c.rig.mode {
	case RigStereoSideBySide:
		c.placeRigCamera(c.rig.halfAngle, left)
		c.placeRigCamera(-c.rig.halfAngle, right)
	case RigStereoCrossEyed:
		c.placeRigCamera(-c.rig.halfAngle, left)
		c.placeRigCamera(c.rig.halfAngle, right)
	case RigVR:
		for _, rc := range c.rig.cameras {
			rc.Position = c.Position
			rc.Rotation = scene.QuatOrientation(c.Rotation.Quat())
		}
	}
}

// placeRigCamera turns the camera position by halfSpace around the focal point (the target at the initial focal
// distance), then aims rc at that point.
func (c *TargetCamera) placeRigCamera(halfSpace float64, rc *TargetCamera) {
	focal := scene.SafeNormalize(c.Target().Sub(c.Position)).Mul(c.initialFocalDistance).Add(c.Position)
	m := mgl64.Translate3D(focal[0], focal[1], focal[2]).
		Mul4(mgl64.HomogRotate3D(halfSpace, rc.UpVector.Normalize())).
		Mul4(mgl64.Translate3D(-focal[0], -focal[1], -focal[2]))
	rc.Position = mgl64.TransformCoordinate(c.Position, m)
	rc.SetTarget(focal)
}
