package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"math"
)

// Ray is a half-line. Direction is normalized by NewRay.
type Ray struct {
	Origin, Direction mgl64.Vec3
	Length            float64
}

// NewRay builds a ray; a non-positive length means unbounded.
func NewRay(origin, direction mgl64.Vec3, length float64) Ray {
	if length <= 0 {
		length = math.MaxFloat64
	}
	return Ray{Origin: origin, Direction: SafeNormalize(direction), Length: length}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform maps the ray through m. The direction is renormalized.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	return NewRay(mgl64.TransformCoordinate(r.Origin, m), mgl64.TransformNormal(r.Direction, m), r.Length)
}

// IntersectPlane returns the distance to the plane through point with the given normal, if it is in front of
// the ray origin.
func (r Ray) IntersectPlane(normal, point mgl64.Vec3) (float64, bool) {
	denom := r.Direction.Dot(normal)
	if math.Abs(denom) < 1e-10 {
		return 0, false
	}
	t := point.Sub(r.Origin).Dot(normal) / denom
	if t < 0 || t > r.Length {
		return 0, false
	}
	return t, true
}

// RayFromScreen generates the picking ray of pixel (x, y) on a w*h viewport for a perspective camera with the
// given view matrix and vertical field of view.
func RayFromScreen(x, y, w, h float64, view mgl64.Mat4, fovY float64) Ray {
	ndcX := 2*x/w - 1
	ndcY := 1 - 2*y/h
	tanHalf := math.Tan(fovY / 2)
	dirView := mgl64.Vec3{ndcX * tanHalf * w / h, ndcY * tanHalf, 1}
	inv := view.Inv()
	return NewRay(Translation(inv), mgl64.TransformNormal(dirView, inv), 0)
}
