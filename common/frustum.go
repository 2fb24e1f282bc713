package common

import "math"

// Plane is the set of points p with Dot(Normal, p) + Distance = 0.
// The positive half-space is the inside of the frustum that owns it.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum holds the six planes of a camera view volume.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix builds the frustum of a column-major view-projection matrix with the
// Gribb/Hartmann method, using the WebGPU depth range [0, 1] for the near plane.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined projection * view matrix (16 elements, column-major)
//
// Returns:
//   - Frustum: the extracted frustum
//   - bool: false when a plane degenerates to a zero normal and the matrix cannot be used for culling
func ExtractFrustumFromMatrix(viewProj [16]float32) (Frustum, bool) {
	// row r, column c lives at viewProj[c*4+r]
	row := func(r int) [4]float32 {
		return [4]float32{viewProj[r], viewProj[4+r], viewProj[8+r], viewProj[12+r]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)
	combine := func(a, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   [3]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[FrustumLeft] = combine(r3, r0, 1)
	f.Planes[FrustumRight] = combine(r3, r0, -1)
	f.Planes[FrustumBottom] = combine(r3, r1, 1)
	f.Planes[FrustumTop] = combine(r3, r1, -1)
	f.Planes[FrustumNear] = Plane{Normal: [3]float32{r2[0], r2[1], r2[2]}, Distance: r2[3]}
	f.Planes[FrustumFar] = combine(r3, r2, -1)

	for i := range f.Planes {
		if !f.normalizePlane(i) {
			return Frustum{}, false
		}
	}
	return f, true
}

// IntersectsSphere reports whether a sphere is at least partially inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: true unless the sphere lies entirely outside one of the planes
func (f *Frustum) IntersectsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		if Dot3(p.Normal, center)+p.Distance < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) normalizePlane(index int) bool {
	p := &f.Planes[index]
	length := float32(math.Sqrt(float64(Dot3(p.Normal, p.Normal))))
	if length == 0 || math.IsNaN(float64(length)) || math.IsInf(float64(length), 0) {
		return false
	}
	inv := 1 / length
	p.Normal = [3]float32{p.Normal[0] * inv, p.Normal[1] * inv, p.Normal[2] * inv}
	p.Distance *= inv
	return true
}
