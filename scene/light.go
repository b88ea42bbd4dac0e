package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// LightKind enumerates the supported light types.
type LightKind uint8

const (
	LightDirectional LightKind = iota
	LightSpot
	LightPoint
	LightHemispheric
)

// Light is a light source. Only directional, spot and point lights have a position that gizmos can move.
type Light struct {
	name      string
	LightKind LightKind
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Intensity float64
	parent    Transformable
}

// NewLight creates a light pointing down.
func NewLight(name string, kind LightKind, position mgl64.Vec3) *Light {
	return &Light{name: name, LightKind: kind, Position: position, Direction: mgl64.Vec3{0, -1, 0}, Intensity: 1}
}

func (l *Light) Name() string              { return l.name }
func (l *Light) Kind() Kind                { return KindLight }
func (l *Light) Parent() Transformable     { return l.parent }
func (l *Light) SetParent(p Transformable) { l.parent = p }

// HasPosition reports whether the light type supports world matrix writes.
func (l *Light) HasPosition() bool {
	return l.LightKind == LightDirectional || l.LightKind == LightSpot || l.LightKind == LightPoint
}

func (l *Light) WorldMatrix() mgl64.Mat4 {
	return ParentWorld(l).Mul4(mgl64.Translate3D(l.Position[0], l.Position[1], l.Position[2]))
}

// SetWorldMatrix keeps only the translation of m; the direction is not derived from it.
// Hemispheric lights ignore it.
func (l *Light) SetWorldMatrix(m mgl64.Mat4) {
	if !l.HasPosition() {
		return
	}
	l.Position = Translation(LocalFromWorld(l, m))
}
