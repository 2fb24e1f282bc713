package common

import "math"

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: the lower bound
//   - hi: the upper bound
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T ~int | ~int32 | ~float32 | ~float64](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate clamps v to [0, 1].
func Saturate(v float32) float32 {
	return Clamp(v, 0, 1)
}

// GammaToLinear converts a single sRGB-encoded channel value to linear space.
//
// Parameters:
//   - c: the gamma-space channel value
//
// Returns:
//   - float32: the linear-space channel value
func GammaToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return float32(math.Pow((float64(c)+0.055)/1.055, 2.4))
}

// LinearToGamma converts a single linear channel value to sRGB encoding.
//
// Parameters:
//   - c: the linear channel value
//
// Returns:
//   - float32: the gamma-space channel value
func LinearToGamma(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return float32(1.055*math.Pow(float64(c), 1.0/2.4) - 0.055)
}

// ColorToLinear converts the RGB channels of a gamma-space color to linear space, leaving alpha untouched.
//
// Parameters:
//   - c: the RGBA color in gamma space
//
// Returns:
//   - [4]float32: the color with linear RGB channels
func ColorToLinear(c [4]float32) [4]float32 {
	return [4]float32{GammaToLinear(c[0]), GammaToLinear(c[1]), GammaToLinear(c[2]), c[3]}
}
