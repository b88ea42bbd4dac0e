package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Bone is a skeletal joint. Its state is a local matrix only; it is never decomposed.
type Bone struct {
	name     string
	parent   Transformable
	local    mgl64.Mat4
	children []*Bone
	dirty    bool
}

// NewBone creates a bone with the given local matrix under parent (a bone, the skeleton's mesh or nil).
func NewBone(name string, parent Transformable, local mgl64.Mat4) *Bone {
	b := &Bone{name: name, parent: parent, local: local}
	if pb, ok := parent.(*Bone); ok {
		pb.children = append(pb.children, b)
	}
	return b
}

func (b *Bone) Name() string            { return b.name }
func (b *Bone) Kind() Kind              { return KindBone }
func (b *Bone) Parent() Transformable   { return b.parent }
func (b *Bone) Children() []*Bone       { return b.children }
func (b *Bone) LocalMatrix() mgl64.Mat4 { return b.local }

// IsDirty reports whether the bone moved since the last ClearDirty.
func (b *Bone) IsDirty() bool { return b.dirty }

// ClearDirty is called by whoever consumes the skeleton (skinning, rendering).
func (b *Bone) ClearDirty() { b.dirty = false }

// MarkAsDirty flags this bone and its whole subtree.
func (b *Bone) MarkAsDirty() {
	b.dirty = true
	for _, c := range b.children {
		c.MarkAsDirty()
	}
}

// SetLocalMatrix replaces the local matrix and marks the subtree dirty.
func (b *Bone) SetLocalMatrix(m mgl64.Mat4) {
	b.local = m
	b.MarkAsDirty()
}

func (b *Bone) WorldMatrix() mgl64.Mat4 {
	return ParentWorld(b).Mul4(b.local)
}

// SetWorldMatrix stores parentWorld^-1 * m as the local matrix.
func (b *Bone) SetWorldMatrix(m mgl64.Mat4) {
	b.SetLocalMatrix(LocalFromWorld(b, m))
}
