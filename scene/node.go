package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Kind is the closed set of entities whose world matrix a gizmo may rewrite.
// Each kind recovers its local state from a new world matrix differently (see SetWorldMatrix implementations).
type Kind uint8

const (
	KindTransform Kind = iota
	KindCamera
	KindBone
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindTransform:
		return "transform"
	case KindCamera:
		return "camera"
	case KindBone:
		return "bone"
	case KindLight:
		return "light"
	default:
		return "unknown"
	}
}

// Transformable is a scene-graph node with a world matrix that can be written back.
type Transformable interface {
	Name() string
	Kind() Kind
	// Parent returns the parent node or nil.
	Parent() Transformable
	// WorldMatrix returns the current world matrix (parent chain included).
	WorldMatrix() mgl64.Mat4
	// SetWorldMatrix recovers the local state of the node so that WorldMatrix returns (approximately) m.
	SetWorldMatrix(m mgl64.Mat4)
}

// Pivoted is implemented by nodes that may rotate and scale around a point other than their position.
type Pivoted interface {
	IsUsingPivotMatrix() bool
	// PositionInWorld is the logical position of the node expressed in world space.
	PositionInWorld() mgl64.Vec3
}

// Billboarded is implemented by nodes whose orientation may be computed at render time.
type Billboarded interface {
	IsBillboard() bool
}

// AbsolutePosition returns the world translation of n.
func AbsolutePosition(n Transformable) mgl64.Vec3 {
	return Translation(n.WorldMatrix())
}

// IsDescendantOf reports whether n has ancestor in its parent chain (or is ancestor itself).
func IsDescendantOf(n, ancestor Transformable) bool {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur == ancestor {
			return true
		}
	}
	return false
}

//-----------------------------------------------------------------------------
// TRANSFORM NODE
//-----------------------------------------------------------------------------

// TransformNode is a generic node described by position, orientation and scaling.
type TransformNode struct {
	name      string
	Position  mgl64.Vec3
	Rotation  Orientation
	Scaling   mgl64.Vec3
	Billboard bool // Orientation is computed elsewhere, never written back
	parent    Transformable
	pivot     mgl64.Vec3
	usePivot  bool
}

// NewTransformNode creates a node at the origin with unit scale and Euler orientation.
func NewTransformNode(name string) *TransformNode {
	return &TransformNode{
		name:     name,
		Rotation: EulerOrientation(mgl64.Vec3{}),
		Scaling:  mgl64.Vec3{1, 1, 1},
	}
}

func (n *TransformNode) Name() string          { return n.name }
func (n *TransformNode) Kind() Kind            { return KindTransform }
func (n *TransformNode) Parent() Transformable { return n.parent }
func (n *TransformNode) IsBillboard() bool     { return n.Billboard }

// SetParent reparents the node without changing its local state.
func (n *TransformNode) SetParent(p Transformable) {
	n.parent = p
}

// SetPivotPoint makes rotation and scaling happen around the local point p.
func (n *TransformNode) SetPivotPoint(p mgl64.Vec3) {
	n.pivot = p
	n.usePivot = p != mgl64.Vec3{}
}

// PivotPoint returns the local pivot point.
func (n *TransformNode) PivotPoint() mgl64.Vec3 {
	return n.pivot
}

func (n *TransformNode) IsUsingPivotMatrix() bool {
	return n.usePivot
}

func (n *TransformNode) PositionInWorld() mgl64.Vec3 {
	return mgl64.TransformCoordinate(n.Position, ParentWorld(n))
}

// LocalMatrix returns the matrix relative to the parent.
func (n *TransformNode) LocalMatrix() mgl64.Mat4 {
	trs := Compose(n.Scaling, n.Rotation.Quat(), n.Position)
	if !n.usePivot {
		return trs
	}
	p := n.pivot
	rs := Compose(n.Scaling, n.Rotation.Quat(), mgl64.Vec3{})
	return mgl64.Translate3D(n.Position[0]+p[0], n.Position[1]+p[1], n.Position[2]+p[2]).
		Mul4(rs).Mul4(mgl64.Translate3D(-p[0], -p[1], -p[2]))
}

func (n *TransformNode) WorldMatrix() mgl64.Mat4 {
	return ParentWorld(n).Mul4(n.LocalMatrix())
}

// SetWorldMatrix decomposes m (relative to the parent) into scaling, orientation and position.
// A pivot-using node expects m to carry its logical position as translation. The orientation is
// left untouched in billboard mode.
func (n *TransformNode) SetWorldMatrix(m mgl64.Mat4) {
	scale, rot, pos, ok := Decompose(LocalFromWorld(n, m))
	n.Scaling = scale
	n.Position = pos
	if ok && !n.Billboard {
		n.Rotation.Set(rot)
	}
}
