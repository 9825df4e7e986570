// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package lin provides the linear math needed by an offline renderer:
// vectors, matrices, quaternions, closed intervals, axis aligned bounding
// boxes and random sampling. Operations are useful for describing and
// transforming virtual objects and for generating scatter directions.
//
// Package lin is provided as part of the trace rendering engine.
package lin

// Design Notes:
//
// 1) This is a CPU based 3D math library called from the ray intersection
//    loops where performance is key. Some general guidelines, verified
//    with benchmarks, can be seen throughout the library.
//     - small value types that fit in registers and copy cheaply.
//     - prefer multiply over divide.
//     - no allocation on any code path.
//
// 2) The default scalar size is float32. Rays, bounds, and colors are
//    all single precision; it halves cache pressure on the intersection
//    hot path and matches how geometry arrives from asset files.
//    The underlying go math package works in float64, so the few
//    transcendental calls round-trip through the wrappers below.

import "math"

// Various linear math constants.
const (

	// PI and its commonly needed variants.
	PI     float32 = math.Pi
	PIx2   float32 = PI * 2
	HalfPi float32 = PI * 0.5
	DegRad float32 = PIx2 / 360.0 // X degrees * DegRad = Y radians
	RadDeg float32 = 360.0 / PIx2 // Y radians * RadDeg = X degrees

	// Epsilon is used to distinguish when a float is close enough
	// to a number that the difference no longer matters.
	Epsilon float32 = 0.000001

	// MaxFloat is the largest representable float32.
	MaxFloat float32 = math.MaxFloat32
)

// Inf is the positive float32 infinity.
var Inf = float32(math.Inf(1))

// NaN returns a float32 quiet not-a-number.
func NaN() float32 { return float32(math.NaN()) }

// IsNaN returns true if x is not-a-number.
func IsNaN(x float32) bool { return x != x }

// IsInf returns true if x is positive or negative infinity.
func IsInf(x float32) bool { return x > math.MaxFloat32 || x < -math.MaxFloat32 }

// Rad converts degrees to radians.
func Rad(deg float32) float32 { return deg * DegRad }

// Deg converts radians to degrees.
func Deg(rad float32) float32 { return rad * RadDeg }

// Aeq (~=) almost-equals returns true if the difference between a and b
// is so small that it doesn't matter.
func Aeq(a, b float32) bool {
	if a == b {
		return true
	}
	return Abs(a-b) < Epsilon
}

// AeqZ (~=) almost-equals returns true if the difference between x and
// zero is so small that it doesn't matter.
func AeqZ(x float32) bool { return Abs(x) < Epsilon }

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// Clamp returns x limited to the range lo, hi.
func Clamp(x, lo, hi float32) float32 {
	return max(lo, min(hi, x))
}

// Lerp returns the linear blend of a and b by ratio t,
// where t 0 returns a and t 1 returns b.
func Lerp(a, b, t float32) float32 { return a + (b-a)*t }

// Single precision wrappers for the go math package.

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 { return float32(math.Sqrt(float64(x))) }

// Floor returns the largest integer value less than or equal to x.
func Floor(x float32) float32 { return float32(math.Floor(float64(x))) }

// Pow returns x raised to the power y.
func Pow(x, y float32) float32 { return float32(math.Pow(float64(x), float64(y))) }

// Sin returns the sine of the radian angle x.
func Sin(x float32) float32 { return float32(math.Sin(float64(x))) }

// Cos returns the cosine of the radian angle x.
func Cos(x float32) float32 { return float32(math.Cos(float64(x))) }

// Tan returns the tangent of the radian angle x.
func Tan(x float32) float32 { return float32(math.Tan(float64(x))) }

// Acos returns the arccosine of x in radians.
func Acos(x float32) float32 { return float32(math.Acos(float64(x))) }

// Atan2 returns the arctangent of y/x in radians using the signs
// of the two to determine the quadrant of the result.
func Atan2(y, x float32) float32 { return float32(math.Atan2(float64(y), float64(x))) }
