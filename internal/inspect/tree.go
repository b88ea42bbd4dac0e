// Package inspect uses reflection to look inside shapes and values: the hierarchy of a signed distance field
// and the floating point values of a state struct.
package inspect

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/mitchellh/reflectwalk"
	"reflect"
	"unsafe"
)

var sdf3Type = reflect.TypeOf((*sdf.SDF3)(nil)).Elem()

// Node describes one shape found while walking a hierarchy.
// Reflection is slow: walk once per shape and keep the result.
type Node struct {
	ID     int      // Unique inside the tree, in pre-order
	Depth  int      // Reflection depth, only comparable along a branch
	Bounds sdf.Box3 // Bounding box in the frame of the root
	Shape  sdf.SDF3
	Value  reflect.Value
}

// Tree is the shape hierarchy of a mesh.
type Tree struct {
	Node     *Node
	Children []*Tree
}

// ShapeTree walks root and returns every nested sdf.SDF3, rooted at root itself.
func ShapeTree(root sdf.SDF3) *Tree {
	var res *Tree
	byShape := map[interface{}]*Tree{}
	nextID := 0
	err := reflectwalk.Walk([]interface{}{root}, /* the root must be inside an interface to be visited */
		newShapeWalker(func(parents []*Node, n *Node) error {
			n.ID = nextID
			nextID++
			sub := &Tree{Node: n}
			if len(parents) == 0 {
				res = sub
			} else {
				parent := byShape[parents[len(parents)-1].Shape]
				parent.Children = append(parent.Children, sub)
			}
			byShape[n.Shape] = sub
			return nil
		}))
	if err != nil {
		panic(err) // The walker never fails
	}
	return res
}

// Len counts the nodes of the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, ch := range t.Children {
		n += ch.Len()
	}
	return n
}

// Bounds flattens the tree into bounding boxes in the root frame. Shapes below a transform are skipped, as
// their boxes live in another frame.
func (t *Tree) Bounds() []sdf.Box3 {
	if t == nil {
		return nil
	}
	res := []sdf.Box3{t.Node.Bounds}
	if t.Node.Value.IsValid() && !t.Node.Value.IsNil() {
		switch t.Node.Value.Type().String() {
		case "*sdf.TransformSDF3", "*sdf.ScaleUniformSDF3":
			return res
		}
	}
	for _, ch := range t.Children {
		res = append(res, ch.Bounds()...)
	}
	return res
}

//-----------------------------------------------------------------------------

type shapeWalker struct {
	visit                      func(parents []*Node, n *Node) error
	parents                    []*Node
	last                       *Node
	depth, minDepthSinceLatest int
}

func newShapeWalker(visit func(parents []*Node, n *Node) error) *shapeWalker {
	return &shapeWalker{visit: visit}
}

func (w *shapeWalker) Enter(_ reflectwalk.Location) error {
	w.depth++
	return nil
}

func (w *shapeWalker) Exit(_ reflectwalk.Location) error {
	w.depth--
	if w.depth < w.minDepthSinceLatest {
		w.minDepthSinceLatest = w.depth
	}
	return nil
}

func (w *shapeWalker) Interface(value reflect.Value) error {
	// Shapes are only found behind interfaces (struct fields of type sdf.SDF3 or slices of them)
	if !value.CanInterface() {
		// Read-only access to the unexported fields of the sdf package
		value = reflect.NewAt(value.Type(), unsafe.Pointer(value.UnsafeAddr())).Elem()
	}
	value = value.Elem()
	if !value.IsValid() || !value.Type().Implements(sdf3Type) {
		return nil
	}
	return w.found(value, value.Interface().(sdf.SDF3))
}

func (w *shapeWalker) found(value reflect.Value, s sdf.SDF3) error {
	if w.last != nil && w.depth > w.last.Depth && w.minDepthSinceLatest > w.last.Depth {
		w.parents = append(w.parents, w.last)
	} else {
		for len(w.parents) > 0 && w.depth <= w.parents[len(w.parents)-1].Depth {
			w.parents = w.parents[:len(w.parents)-1]
		}
	}
	w.last = &Node{ID: -1, Depth: w.depth, Bounds: s.BoundingBox(), Shape: s, Value: value}
	w.minDepthSinceLatest = w.depth + 1
	return w.visit(w.parents, w.last)
}
