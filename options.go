package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"golang.org/x/image/colornames"
	"image/color"
)

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

type settings struct {
	thickness     float64
	scaleRatio    float64
	snapDistance  float64
	matchRotation bool
	matchPosition bool
	updateScale   bool
	anchor        AnchorPoint
	color         *color.RGBA
	cache         *HoverActiveCache
	sensitivity   float64
	incremental   bool
	planar        bool
}

func defaultSettings() *settings {
	return &settings{
		thickness:     1,
		scaleRatio:    1,
		matchRotation: true,
		matchPosition: true,
		updateScale:   true,
		sensitivity:   1,
	}
}

func newSettings(opts []Option) *settings {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a gizmo at construction time.
type Option func(s *settings)

// OptThickness scales the width of the gizmo meshes and colliders.
func OptThickness(thickness float64) Option {
	return func(s *settings) {
		s.thickness = thickness
	}
}

// OptScaleRatio multiplies the size of the gizmo.
func OptScaleRatio(ratio float64) Option {
	return func(s *settings) {
		s.scaleRatio = ratio
	}
}

// OptSnapDistance quantizes drags (0 for continuous dragging). Rotation gizmos take radians.
func OptSnapDistance(distance float64) Option {
	return func(s *settings) {
		s.snapDistance = distance
	}
}

// OptMatchRotation orients the gizmo like the attached node (true by default).
func OptMatchRotation(match bool) Option {
	return func(s *settings) {
		s.matchRotation = match
	}
}

// OptMatchPosition places the gizmo on the attached node (true by default).
func OptMatchPosition(match bool) Option {
	return func(s *settings) {
		s.matchPosition = match
	}
}

// OptUpdateScale keeps a constant on-screen size (true by default).
func OptUpdateScale(update bool) Option {
	return func(s *settings) {
		s.updateScale = update
	}
}

// OptAnchorPoint selects where the gizmo is drawn.
func OptAnchorPoint(anchor AnchorPoint) Option {
	return func(s *settings) {
		s.anchor = anchor
	}
}

// OptColor sets the base color of single-axis gizmos.
func OptColor(c color.RGBA) Option {
	return func(s *settings) {
		s.color = &c
	}
}

// OptCache shares the hover and active state with other gizmos.
func OptCache(cache *HoverActiveCache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// OptSensitivity multiplies scale drags.
func OptSensitivity(sensitivity float64) Option {
	return func(s *settings) {
		s.sensitivity = sensitivity
	}
}

// OptIncrementalSnap makes snapped scale drags add to the scale instead of multiplying it.
func OptIncrementalSnap(incremental bool) Option {
	return func(s *settings) {
		s.incremental = incremental
	}
}

// OptPlanarGizmoEnabled shows the plane handles of a position gizmo.
func OptPlanarGizmoEnabled(enabled bool) Option {
	return func(s *settings) {
		s.planar = enabled
	}
}

//-----------------------------------------------------------------------------
// MATERIALS
//-----------------------------------------------------------------------------

// Default axis colors
var (
	ColorX       = scaleColor(colornames.Red, 0.5)
	ColorY       = scaleColor(colornames.Lime, 0.5)
	ColorZ       = scaleColor(colornames.Blue, 0.5)
	ColorUniform = scaleColor(colornames.Gray, 0.5)
)

func scaleColor(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func brighten(c color.RGBA, amount uint8) color.RGBA {
	add := func(v uint8) uint8 {
		if int(v)+int(amount) > 255 {
			return 255
		}
		return v + amount
	}
	return color.RGBA{R: add(c.R), G: add(c.G), B: add(c.B), A: c.A}
}

// axisMaterials returns the base, hover and disabled materials for c.
func axisMaterials(name string, c color.RGBA) (base, hover, disabled *scene.Material) {
	base = &scene.Material{Name: name, Color: c}
	hover = &scene.Material{Name: name + "Hover", Color: brighten(c, 77)}
	gray := colornames.Gray
	gray.A = 102
	disabled = &scene.Material{Name: name + "Disabled", Color: gray}
	return
}
