package gizmo

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
)

// CacheHandle addresses an entry of a HoverActiveCache.
type CacheHandle int

// Enabler is the part of a drag behavior the cache needs.
type Enabler interface {
	Enabled() bool
}

// CacheEntry is the visual state of one interactive mesh group.
type CacheEntry struct {
	Key             scene.Transformable // Mesh group identity (the root node of an axis gizmo)
	GizmoMeshes     []*scene.Mesh       // Meshes whose material changes
	ColliderMeshes  []*scene.Mesh       // Meshes that react to the pointer
	Material        *scene.Material
	HoverMaterial   *scene.Material
	DisableMaterial *scene.Material
	Active          bool
	DragBehavior    Enabler
}

func (e *CacheEntry) hasCollider(m *scene.Mesh) bool {
	if m == nil {
		return false
	}
	for _, c := range e.ColliderMeshes {
		if c == m {
			return true
		}
	}
	return false
}

func (e *CacheEntry) enabled() bool {
	return e.DragBehavior == nil || e.DragBehavior.Enabled()
}

func (e *CacheEntry) setMaterial(mat *scene.Material) {
	for _, m := range e.GizmoMeshes {
		m.Material = mat
	}
}

// HoverActiveCache keeps the hover and active materials of several axis gizmos consistent. At most one entry is
// active, from a pointer down on its colliders until the next pointer up.
type HoverActiveCache struct {
	entries  []CacheEntry
	dragging bool
	observer *scene.Observer[*scene.PointerInfo]
	source   *scene.Scene
}

// NewHoverActiveCache creates a cache listening to the pointer events of s (usually a utility layer scene).
func NewHoverActiveCache(s *scene.Scene) *HoverActiveCache {
	c := &HoverActiveCache{source: s}
	c.observer = s.OnPointer.Add(c.onPointer)
	return c
}

// Register inserts entry, or overwrites the entry with the same key.
func (c *HoverActiveCache) Register(entry CacheEntry) CacheHandle {
	entry.setMaterial(entry.Material)
	for i := range c.entries {
		if c.entries[i].Key == entry.Key {
			c.entries[i] = entry
			return CacheHandle(i)
		}
	}
	c.entries = append(c.entries, entry)
	return CacheHandle(len(c.entries) - 1)
}

// Entry returns the entry for h. The pointer stays valid until the next Register.
func (c *HoverActiveCache) Entry(h CacheHandle) *CacheEntry {
	if int(h) < 0 || int(h) >= len(c.entries) {
		return nil
	}
	return &c.entries[h]
}

// Len returns the number of entries.
func (c *HoverActiveCache) Len() int {
	return len(c.entries)
}

// Dragging reports whether hover updates are suspended by an active drag.
func (c *HoverActiveCache) Dragging() bool {
	return c.dragging
}

// ActiveCount returns the number of active entries (0 or 1).
func (c *HoverActiveCache) ActiveCount() int {
	n := 0
	for i := range c.entries {
		if c.entries[i].Active {
			n++
		}
	}
	return n
}

// Dispose stops listening to pointer events.
func (c *HoverActiveCache) Dispose() {
	if c.source != nil {
		c.source.OnPointer.Remove(c.observer)
		c.source = nil
	}
}

func (c *HoverActiveCache) onPointer(info *scene.PointerInfo) {
	if info.Pick == nil {
		return
	}
	switch info.Type {
	case scene.PointerMove:
		c.OnPointerMove(info.Pick.PickedMesh)
	case scene.PointerDown:
		c.OnPointerDown(info.Pick.PickedMesh)
	case scene.PointerUp:
		c.OnPointerUp()
	}
}

// OnPointerMove highlights the hovered entry (unless a drag is in progress).
func (c *HoverActiveCache) OnPointerMove(picked *scene.Mesh) {
	if c.dragging {
		return
	}
	for i := range c.entries {
		e := &c.entries[i]
		if len(e.ColliderMeshes) == 0 || len(e.GizmoMeshes) == 0 {
			continue
		}
		switch {
		case !e.enabled():
			e.setMaterial(e.DisableMaterial)
		case e.hasCollider(picked) || e.Active:
			e.setMaterial(e.HoverMaterial)
		default:
			e.setMaterial(e.Material)
		}
	}
}

// OnPointerDown activates the entry owning picked, if any, and greys out the others.
func (c *HoverActiveCache) OnPointerDown(picked *scene.Mesh) {
	target := -1
	for i := range c.entries {
		if c.entries[i].hasCollider(picked) {
			target = i
			break
		}
	}
	if target < 0 {
		return
	}
	c.dragging = true
	for i := range c.entries {
		e := &c.entries[i]
		e.Active = i == target
		if e.Active && e.enabled() {
			e.setMaterial(e.HoverMaterial)
		} else {
			e.setMaterial(e.DisableMaterial)
		}
	}
}

// OnPointerUp deactivates every entry and restores the base materials.
func (c *HoverActiveCache) OnPointerUp() {
	c.dragging = false
	for i := range c.entries {
		e := &c.entries[i]
		e.Active = false
		if e.enabled() {
			e.setMaterial(e.Material)
		} else {
			e.setMaterial(e.DisableMaterial)
		}
	}
}
