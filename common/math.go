package common

import "math"

// Identity resets a 4x4 column-major matrix to the identity.
//
// Parameters:
//   - m: destination slice (at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Mul4 stores a * b in out. All matrices are column-major; out may alias a or b.
//
// Parameters:
//   - out: destination slice (at least 16 elements)
//   - a: left-hand matrix
//   - b: right-hand matrix
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective writes a right-handed perspective projection mapping depth to the WebGPU [0, 1] clip range.
//
// Parameters:
//   - out: destination slice (at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: width / height
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
}

// LookAt writes a view matrix for an eye at eye looking towards center.
//
// Parameters:
//   - out: destination slice (at least 16 elements)
//   - eye: camera position
//   - center: point the camera looks at
//   - up: up direction, typically (0, 1, 0)
func LookAt(out []float32, eye, center, up [3]float32) {
	z := Normalize3([3]float32{eye[0] - center[0], eye[1] - center[1], eye[2] - center[2]})
	x := Normalize3(Cross3(up, z))
	y := Cross3(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot3(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot3(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot3(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// Dot3 returns the dot product of two 3-vectors.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Normalize3 returns v scaled to unit length. A zero vector is returned unchanged.
func Normalize3(v [3]float32) [3]float32 {
	length := float32(math.Sqrt(float64(Dot3(v, v))))
	if length == 0 {
		return v
	}
	inv := 1 / length
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}
