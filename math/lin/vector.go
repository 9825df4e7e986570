// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// Vector performs the 2, 3, and 4 element vector math needed for ray
// tracing. Vectors are small value types: methods return new values and
// never mutate their receivers so that vectors can be freely copied
// between goroutines.

// V2 is a 2 element vector. Used for texture coordinates
// and screen space offsets.
type V2 struct {
	X float32 // increments as X moves to the right.
	Y float32 // increments as Y moves down the image.
}

// V3 is a 3 element vector. This can also be used as a point
// or as an RGB color where X:red Y:green Z:blue.
type V3 struct {
	X float32 // increments as X moves to the right.
	Y float32 // increments as Y moves up.
	Z float32 // increments as Z moves out of the screen (right handed).
}

// V4 is a 4 element vector. Used for tangents where X,Y,Z is the
// tangent direction and W is the -1/+1 bitangent handedness.
type V4 struct {
	X, Y, Z float32
	W       float32
}

// V2 methods.

// Add (+) returns the element sum of vectors v and a.
func (v V2) Add(a V2) V2 { return V2{v.X + a.X, v.Y + a.Y} }

// Sub (-) returns the element difference of vectors v and a.
func (v V2) Sub(a V2) V2 { return V2{v.X - a.X, v.Y - a.Y} }

// Scale (*) returns vector v with each element multiplied by scalar s.
func (v V2) Scale(s float32) V2 { return V2{v.X * s, v.Y * s} }

// Mul (*) returns the element product of vectors v and a.
func (v V2) Mul(a V2) V2 { return V2{v.X * a.X, v.Y * a.Y} }

// Dot returns the dot product of vectors v and a.
func (v V2) Dot(a V2) float32 { return v.X*a.X + v.Y*a.Y }

// Len returns the length of vector v.
func (v V2) Len() float32 { return Sqrt(v.Dot(v)) }

// Len2 returns the squared length of vector v.
// Cheaper than Len when only comparing magnitudes.
func (v V2) Len2() float32 { return v.Dot(v) }

// V3 methods.

// Add (+) returns the element sum of vectors v and a.
func (v V3) Add(a V3) V3 { return V3{v.X + a.X, v.Y + a.Y, v.Z + a.Z} }

// Sub (-) returns the element difference of vectors v and a.
func (v V3) Sub(a V3) V3 { return V3{v.X - a.X, v.Y - a.Y, v.Z - a.Z} }

// Neg (-) returns vector v with each element negated.
func (v V3) Neg() V3 { return V3{-v.X, -v.Y, -v.Z} }

// Scale (*) returns vector v with each element multiplied by scalar s.
func (v V3) Scale(s float32) V3 { return V3{v.X * s, v.Y * s, v.Z * s} }

// Mul (*) returns the element product of vectors v and a.
// Used for color attenuation.
func (v V3) Mul(a V3) V3 { return V3{v.X * a.X, v.Y * a.Y, v.Z * a.Z} }

// Div (/) returns vector v with each element divided by the
// corresponding element of a. Division by zero yields ±Inf as
// expected by the ray inverse direction cache.
func (v V3) Div(a V3) V3 { return V3{v.X / a.X, v.Y / a.Y, v.Z / a.Z} }

// Dot returns the dot product of vectors v and a.
func (v V3) Dot(a V3) float32 { return v.X*a.X + v.Y*a.Y + v.Z*a.Z }

// Cross returns the vector cross product of vectors v and a.
func (v V3) Cross(a V3) V3 {
	return V3{
		v.Y*a.Z - v.Z*a.Y,
		v.Z*a.X - v.X*a.Z,
		v.X*a.Y - v.Y*a.X,
	}
}

// Len returns the length of vector v.
func (v V3) Len() float32 { return Sqrt(v.Dot(v)) }

// Len2 returns the squared length of vector v.
// Cheaper than Len when only comparing magnitudes.
func (v V3) Len2() float32 { return v.Dot(v) }

// Unit returns vector v scaled to length 1.
func (v V3) Unit() V3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Min returns the element minimums of vectors v and a.
func (v V3) Min(a V3) V3 { return V3{min(v.X, a.X), min(v.Y, a.Y), min(v.Z, a.Z)} }

// Max returns the element maximums of vectors v and a.
func (v V3) Max(a V3) V3 { return V3{max(v.X, a.X), max(v.Y, a.Y), max(v.Z, a.Z)} }

// Lerp returns the linear blend of vectors v and a by ratio t.
func (v V3) Lerp(a V3, t float32) V3 { return v.Add(a.Sub(v).Scale(t)) }

// Axis returns the vector element selected by axis 0:X 1:Y 2:Z.
func (v V3) Axis(axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

// NearZero returns true if every element of vector v is close
// enough to zero that the vector has no usable direction.
func (v V3) NearZero() bool {
	const tiny = 1e-8
	return Abs(v.X) < tiny && Abs(v.Y) < tiny && Abs(v.Z) < tiny
}

// HasNaN returns true if any element of vector v is not-a-number.
func (v V3) HasNaN() bool {
	return IsNaN(v.X) || IsNaN(v.Y) || IsNaN(v.Z)
}

// Reflect returns vector v mirrored about the unit normal n.
func (v V3) Reflect(n V3) V3 {
	return v.Sub(n.Scale(2 * v.Dot(n)))
}

// Refract returns unit vector v bent through a surface with unit
// normal n where ratio is the quotient of the refractive indices.
// The caller is expected to have rejected total internal reflection.
func (v V3) Refract(n V3, ratio float32) V3 {
	cosTheta := min(v.Neg().Dot(n), 1)
	perp := v.Add(n.Scale(cosTheta)).Scale(ratio)
	parallel := n.Scale(-Sqrt(Abs(1 - perp.Len2())))
	return perp.Add(parallel)
}

// V4 methods.

// V3 returns the first three elements of vector v as a V3.
func (v V4) V3() V3 { return V3{v.X, v.Y, v.Z} }

// Add (+) returns the element sum of vectors v and a.
func (v V4) Add(a V4) V4 { return V4{v.X + a.X, v.Y + a.Y, v.Z + a.Z, v.W + a.W} }

// Scale (*) returns vector v with each element multiplied by scalar s.
func (v V4) Scale(s float32) V4 { return V4{v.X * s, v.Y * s, v.Z * s, v.W * s} }
