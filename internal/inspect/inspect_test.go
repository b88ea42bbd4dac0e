package inspect

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"sort"
	"testing"
)

func childCounts(tree *Tree, res []int) []int {
	res = append(res, len(tree.Children))
	for _, ch := range tree.Children {
		res = childCounts(ch, res)
	}
	return res
}

func box(t *testing.T, size float64) sdf.SDF3 {
	t.Helper()
	s, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	require.NoError(t, err)
	return s
}

func TestShapeTreeSingle(t *testing.T) {
	tree := ShapeTree(box(t, 1))
	assert.Equal(t, []int{0}, childCounts(tree, nil))
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, 0, tree.Node.ID)
}

func TestShapeTreeUnion(t *testing.T) {
	s := sdf.Union3D(box(t, 1), box(t, 2))
	tree := ShapeTree(s)
	assert.Equal(t, []int{2, 0, 0}, childCounts(tree, nil))
	assert.Len(t, tree.Bounds(), 3)
	assert.Equal(t, s.BoundingBox(), tree.Bounds()[0])
}

func TestShapeTreeMultiLevel(t *testing.T) {
	s := sdf.Union3D(box(t, 1), box(t, 2))
	s = sdf.Difference3D(s, box(t, 0.5))
	tree := ShapeTree(s)
	assert.Equal(t, []int{2, 2, 0, 0, 0}, childCounts(tree, nil))
	assert.Equal(t, 5, tree.Len())
}

func TestShapeTreeStopsAtTransforms(t *testing.T) {
	moved := sdf.Transform3D(box(t, 1), sdf.Translate3d(v3.Vec{X: 5}))
	tree := ShapeTree(sdf.Union3D(moved, box(t, 1)))
	assert.Equal(t, 4, tree.Len())
	// The box below the transform is not reported
	assert.Len(t, tree.Bounds(), 3)
}

type pose struct {
	Position [3]float64
	Rotation struct {
		Angles [3]float64
		W      float64
	}
	Fov  float64
	Name string
}

func TestFloats(t *testing.T) {
	p := pose{Position: [3]float64{1, 2, 3}, Fov: 0.8, Name: "cam"}
	p.Rotation.W = 1
	floats := Floats(p)
	assert.Equal(t, []float64{1, 2, 3}, floats["Position"])
	assert.Equal(t, []float64{0, 0, 0}, floats["Rotation.Angles"])
	assert.Equal(t, []float64{1}, floats["Rotation.W"])
	assert.Equal(t, []float64{0.8}, floats["Fov"])
	assert.Len(t, floats, 4)
	assert.Nil(t, NonFinite(p))

	p.Position[1] = math.NaN()
	p.Rotation.W = math.Inf(-1)
	bad := NonFinite(&p)
	sort.Strings(bad)
	assert.Equal(t, []string{"Position", "Rotation.W"}, bad)
}
