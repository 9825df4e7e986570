// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// Quaternion math for scene instance rotations. Only the operations
// needed to compose and apply orientations are provided; renderers do
// not interpolate rotations the way animation systems do.

// Q is a unit length quaternion representing an orientation
// or a rotation about an arbitrary axis.
type Q struct {
	X, Y, Z float32 // Vector part: rotation axis scaled by sin(angle/2).
	W       float32 // Scalar part: cos(angle/2).
}

// QI is the identity (no rotation) quaternion.
var QI = Q{W: 1}

// Aeq (~=) almost-equals returns true if all the elements in
// quaternion q have essentially the same value as the corresponding
// elements in r.
func (q Q) Aeq(r Q) bool {
	return Aeq(q.X, r.X) && Aeq(q.Y, r.Y) && Aeq(q.Z, r.Z) && Aeq(q.W, r.W)
}

// Mult (*) returns the quaternion product q x r: the rotation r
// followed by the rotation q.
func (q Q) Mult(r Q) Q {
	return Q{
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
	}
}

// Inv returns the inverse rotation of unit quaternion q.
func (q Q) Inv() Q { return Q{-q.X, -q.Y, -q.Z, q.W} }

// Unit returns quaternion q scaled to length 1.
func (q Q) Unit() Q {
	l := Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QI
	}
	il := 1 / l
	return Q{q.X * il, q.Y * il, q.Z * il, q.W * il}
}

// App applies the rotation q to vector v and returns the
// rotated vector.
func (q Q) App(v V3) V3 {
	// v' = v + 2w(u x v) + 2(u x (u x v)) where u is the vector part.
	u := V3{q.X, q.Y, q.Z}
	uv := u.Cross(v)
	return v.Add(uv.Scale(2 * q.W)).Add(u.Cross(uv).Scale(2))
}

// NewQAa returns a quaternion rotating by ang radians about the
// given axis. The axis need not be unit length.
func NewQAa(axis V3, ang float32) Q {
	a := axis.Unit()
	s, c := Sin(ang*0.5), Cos(ang*0.5)
	return Q{a.X * s, a.Y * s, a.Z * s, c}
}

// NewQEuler returns a quaternion for the given pitch, yaw, and roll
// rotations in degrees, applied in yaw, pitch, roll order. This is
// the rotation convention used by scene description files.
func NewQEuler(pitch, yaw, roll float32) Q {
	qy := NewQAa(V3{0, 1, 0}, Rad(yaw))
	qx := NewQAa(V3{1, 0, 0}, Rad(pitch))
	qz := NewQAa(V3{0, 0, 1}, Rad(roll))
	return qy.Mult(qx).Mult(qz)
}
