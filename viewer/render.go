package viewer

import (
	"github.com/Yeicor/sdfx-gizmo/scene"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	"github.com/fogleman/fauxgl"
	"github.com/go-gl/mathgl/mgl64"
	"image"
	"image/color"
	"log"
	"math"
)

//-----------------------------------------------------------------------------
// RENDERER
//-----------------------------------------------------------------------------

// meshEntry is the triangle mesh of a scene mesh shape, in the local frame of the mesh.
type meshEntry struct {
	shape sdf.SDF3
	cells int
	mesh  *fauxgl.Mesh
}

// renderer rasterizes meshed SDFs with fauxgl. It is only used from the ebiten goroutine.
type renderer struct {
	ctx       *fauxgl.Context
	meshes    map[*scene.Mesh]*meshEntry
	smoothing float64
}

// eye is the camera used for one render.
type eye struct {
	view      mgl64.Mat4 // Left-handed world to view transform
	position  mgl64.Vec3
	fov       float64 // Vertical, radians
	near, far float64
}

// pass is a set of meshes drawn over the previous passes, ignoring their depth.
type pass struct {
	meshes    []*scene.Mesh
	cells     int
	selected  *scene.Mesh
	highlight color.RGBA
}

func newRenderer(smoothing float64) *renderer {
	return &renderer{meshes: map[*scene.Mesh]*meshEntry{}, smoothing: smoothing}
}

// meshFor returns the (cached) local mesh of m, meshing its shape with cells cells on the longest side.
func (r *renderer) meshFor(m *scene.Mesh, cells int) *fauxgl.Mesh {
	if e, ok := r.meshes[m]; ok && e.shape == m.Shape && e.cells == cells {
		return e.mesh
	}
	mesh := meshShape(m.Shape, cells, r.smoothing)
	if len(mesh.Triangles) == 0 {
		log.Println("[Viewer] WARNING: empty mesh for", m.Name())
	}
	r.meshes[m] = &meshEntry{shape: m.Shape, cells: cells, mesh: mesh}
	return mesh
}

// forget drops the meshes of disposed scene meshes.
func (r *renderer) forget() {
	for m := range r.meshes {
		if m.Scene() == nil {
			delete(r.meshes, m)
		}
	}
}

func meshShape(s sdf.SDF3, cells int, smoothing float64) *fauxgl.Mesh {
	var triangles []*fauxgl.Triangle
	triChan := make(chan []*sdf.Triangle3)
	go func() {
		render.NewMarchingCubesUniform(cells).Render(s, triChan)
		close(triChan)
	}()
	for tris := range triChan {
		for _, tri := range tris {
			triangles = append(triangles, convertTriangle(tri))
		}
	}
	mesh := fauxgl.NewTriangleMesh(triangles)
	mesh.SmoothNormalsThreshold(smoothing)
	return mesh
}

// render draws every pass from e into a w*h image. The returned image is reused by the next call.
func (r *renderer) render(w, h int, background color.RGBA, e eye, passes ...pass) *image.NRGBA {
	if r.ctx == nil || r.ctx.Width != w || r.ctx.Height != h {
		r.ctx = fauxgl.NewContext(w, h)
	}
	// The scene is left-handed, flip Z into the fauxgl clip space (this also flips the winding)
	r.ctx.Cull = fauxgl.CullNone
	r.ctx.Wireframe = false
	r.ctx.ClearColorBufferWith(fauxgl.MakeColor(background))
	aspect := float64(w) / float64(h)
	matrix := fauxgl.Perspective(e.fov*180/math.Pi, aspect, e.near, e.far).
		Mul(fauxgl.Scale(fauxgl.Vector{X: 1, Y: 1, Z: -1})).
		Mul(toFauxglMatrix(e.view))
	light := toFauxglVector(scene.SafeNormalize(mgl64.TransformNormal(scene.ReferencePoint.Mul(-1), e.view.Inv())))
	for _, p := range passes {
		r.ctx.ClearDepthBuffer()
		for _, m := range p.meshes {
			if !m.Visible || m.Visibility <= 0 || m.Shape == nil || m.Material == nil {
				continue
			}
			mesh := r.meshFor(m, p.cells).Copy()
			mesh.Transform(toFauxglMatrix(m.WorldMatrix()))
			shader := fauxgl.NewPhongShader(matrix, light, toFauxglVector(e.position))
			c := m.Material.Color
			if m == p.selected {
				c = p.highlight
			}
			shader.ObjectColor = fauxgl.MakeColor(c)
			r.ctx.Shader = shader
			r.ctx.DrawMesh(mesh)
		}
	}
	return r.ctx.Image().(*image.NRGBA)
}

// projectToScreen maps a world point to the pixel it is drawn at, on a w*h viewport. It is the inverse of
// scene.RayFromScreen. ok is false for points behind the near plane.
func projectToScreen(p mgl64.Vec3, e eye, w, h float64) (x, y float64, ok bool) {
	v := mgl64.TransformCoordinate(p, e.view)
	if v[2] < e.near {
		return 0, 0, false
	}
	tanHalf := math.Tan(e.fov / 2)
	ndcX := v[0] / (v[2] * tanHalf * w / h)
	ndcY := v[1] / (v[2] * tanHalf)
	return (ndcX + 1) / 2 * w, (1 - ndcY) / 2 * h, true
}

func convertTriangle(tri *sdf.Triangle3) *fauxgl.Triangle {
	normal := toFauxglVector(scene.FromV3(tri.Normal()))
	vertex := func(i int) fauxgl.Vertex {
		return fauxgl.Vertex{Position: toFauxglVector(scene.FromV3(tri.V[i])), Normal: normal, Color: fauxgl.Gray(1)}
	}
	return &fauxgl.Triangle{V1: vertex(0), V2: vertex(1), V3: vertex(2)}
}

func toFauxglVector(v mgl64.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: v[0], Y: v[1], Z: v[2]}
}

func toFauxglMatrix(m mgl64.Mat4) fauxgl.Matrix {
	return fauxgl.Matrix{
		X00: m.At(0, 0), X01: m.At(0, 1), X02: m.At(0, 2), X03: m.At(0, 3),
		X10: m.At(1, 0), X11: m.At(1, 1), X12: m.At(1, 2), X13: m.At(1, 3),
		X20: m.At(2, 0), X21: m.At(2, 1), X22: m.At(2, 2), X23: m.At(2, 3),
		X30: m.At(3, 0), X31: m.At(3, 1), X32: m.At(3, 2), X33: m.At(3, 3),
	}
}
