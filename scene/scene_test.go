package scene

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func testBox(t *testing.T, s *Scene, name string, size float64) *Mesh {
	t.Helper()
	shape, err := sdf.Box3D(v3.Vec{X: size, Y: size, Z: size}, 0)
	require.NoError(t, err)
	return NewMesh(name, shape, s)
}

func TestPickClosest(t *testing.T) {
	s := NewScene("test")
	near := testBox(t, s, "near", 2)
	near.Position = mgl64.Vec3{0, 0, 5}
	far := testBox(t, s, "far", 2)
	far.Position = mgl64.Vec3{0, 0, 10}
	far.Scaling = mgl64.Vec3{3, 3, 3}

	pick := s.Pick(NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0), nil)
	require.True(t, pick.Hit)
	assert.Same(t, near, pick.PickedMesh)
	assert.InDelta(t, 4, pick.Distance, 1e-2)
	assertVec3(t, mgl64.Vec3{0, 0, 4}, pick.PickedPoint, 1e-2)

	near.Pickable = false
	pick = s.Pick(NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0), nil)
	require.True(t, pick.Hit)
	assert.Same(t, far, pick.PickedMesh)
	assert.InDelta(t, 7, pick.Distance, 1e-2)

	pick = s.Pick(NewRay(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 0), nil)
	assert.False(t, pick.Hit)
	assert.Nil(t, pick.PickedMesh)
}

func TestSimulatePointerNotifiesInOrder(t *testing.T) {
	s := NewScene("test")
	testBox(t, s, "box", 1)
	var got []string
	s.OnPointer.Add(func(info *PointerInfo) { got = append(got, "a:"+info.Type.String()) })
	s.OnPointer.Add(func(info *PointerInfo) { got = append(got, "b:"+info.Type.String()) })
	info := s.SimulatePointer(PointerDown, NewRay(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, 0))
	assert.True(t, info.Pick.Hit)
	assert.Equal(t, []string{"a:down", "b:down"}, got)
}

func TestObservablePanicIsContained(t *testing.T) {
	var o Observable[int]
	sum := 0
	o.Add(func(v int) { panic("broken observer") })
	second := o.Add(func(v int) { sum += v })
	o.Notify(2)
	assert.Equal(t, 2, sum)
	assert.True(t, o.Remove(second))
	assert.False(t, o.Remove(second))
	o.Notify(2)
	assert.Equal(t, 2, sum)
}

func TestObservableRemoveDuringNotify(t *testing.T) {
	var o Observable[int]
	calls := 0
	var second *Observer[int]
	o.Add(func(int) { calls++; o.Remove(second) })
	second = o.Add(func(int) { calls += 10 })
	o.Notify(0)
	assert.Equal(t, 1, calls)
	o.Clear()
	assert.False(t, o.HasObservers())
}

func TestUtilityLayerTicksWithOriginal(t *testing.T) {
	s := NewScene("main")
	u := NewUtilityLayer(s)
	ticks := 0
	u.Scene.OnBeforeRender.Add(func(*Scene) { ticks++ })
	s.Tick()
	s.Tick()
	assert.Equal(t, 2, ticks)
	assert.Equal(t, 2, u.Scene.Frame())
	u.Dispose()
	s.Tick()
	assert.Equal(t, 2, ticks)
}

func TestUtilityLayerPointerHit(t *testing.T) {
	s := NewScene("main")
	u := NewUtilityLayer(s)
	testBox(t, u.Scene, "handle", 1)
	assert.True(t, u.SimulatePointer(PointerDown, NewRay(mgl64.Vec3{0, 0, -5}, mgl64.Vec3{0, 0, 1}, 0)))
	assert.False(t, u.SimulatePointer(PointerDown, NewRay(mgl64.Vec3{5, 0, -5}, mgl64.Vec3{0, 0, 1}, 0)))
}

func TestRayFromScreenCenter(t *testing.T) {
	view := LookAtLH(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{}, Up)
	ray := RayFromScreen(50, 50, 100, 100, view, 0.8)
	assertVec3(t, mgl64.Vec3{0, 0, -10}, ray.Origin, 1e-9)
	assertVec3(t, mgl64.Vec3{0, 0, 1}, ray.Direction, 1e-9)
	// Top of the screen looks up
	ray = RayFromScreen(50, 0, 100, 100, view, 0.8)
	assert.Greater(t, ray.Direction[1], 0.)
}

func TestRayIntersectPlane(t *testing.T) {
	ray := NewRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 0)
	d, ok := ray.IntersectPlane(Up, mgl64.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 5, d, 1e-12)
	_, ok = ray.IntersectPlane(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
	assert.False(t, ok)
	_, ok = NewRay(mgl64.Vec3{0, 5, 0}, Up, 0).IntersectPlane(Up, mgl64.Vec3{})
	assert.False(t, ok)
}

func TestSDFCollisionCoordinatorStopsAtWall(t *testing.T) {
	s := NewScene("test")
	wall := testBox(t, s, "wall", 2)
	wall.Position = mgl64.Vec3{0, 0, 5}
	wall.CheckCollisions = true
	collider := &Collider{Radius: mgl64.Vec3{0.5, 1, 0.5}}

	var got mgl64.Vec3
	var hit *Mesh
	s.CollisionCoordinator.GetNewPosition(mgl64.Vec3{}, mgl64.Vec3{0, 0, 10}, collider, 3, nil,
		func(_ int, p mgl64.Vec3, m *Mesh) { got, hit = p, m }, 0)
	assert.Same(t, wall, hit)
	assert.InDelta(t, 3.5, got[2], 0.05)

	s.CollisionCoordinator.GetNewPosition(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, collider, 3, nil,
		func(_ int, p mgl64.Vec3, m *Mesh) { got, hit = p, m }, 0)
	assert.Nil(t, hit)
	assertVec3(t, mgl64.Vec3{1, 0, 0}, got, 1e-12)
}

func TestSceneNodesSorted(t *testing.T) {
	s := NewScene("test")
	b := testBox(t, s, "b", 1)
	s.AddNode(NewLight("c", LightPoint, mgl64.Vec3{}))
	s.AddNode(NewTransformNode("a"))
	names := make([]string, 0, 3)
	for _, n := range s.Nodes() {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	b.Dispose()
	assert.Len(t, s.Nodes(), 2)
}
