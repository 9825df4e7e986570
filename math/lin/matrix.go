// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// Matrix holds the 4x4 affine transform math needed to place and
// orient scene instances. Matrices, like vectors, are value types.

// M4 is a 4x4 column-major affine matrix. The columns X, Y, Z hold the
// rotated and scaled basis vectors and column W holds the translation.
// Fields are named by column then row, so Yx is column Y, row x.
// Applied to a point the translation participates, applied to a
// direction it does not.
type M4 struct {
	Xx, Xy, Xz, Xw float32 // X column.
	Yx, Yy, Yz, Yw float32 // Y column.
	Zx, Zy, Zz, Zw float32 // Z column.
	Wx, Wy, Wz, Ww float32 // W column: translation.
}

// M4I is the identity matrix.
var M4I = M4{
	Xx: 1,
	Yy: 1,
	Zz: 1,
	Ww: 1,
}

// Aeq (~=) almost-equals returns true if all the elements in matrix m
// have essentially the same value as the corresponding elements in a.
func (m M4) Aeq(a M4) bool {
	return Aeq(m.Xx, a.Xx) && Aeq(m.Xy, a.Xy) && Aeq(m.Xz, a.Xz) && Aeq(m.Xw, a.Xw) &&
		Aeq(m.Yx, a.Yx) && Aeq(m.Yy, a.Yy) && Aeq(m.Yz, a.Yz) && Aeq(m.Yw, a.Yw) &&
		Aeq(m.Zx, a.Zx) && Aeq(m.Zy, a.Zy) && Aeq(m.Zz, a.Zz) && Aeq(m.Zw, a.Zw) &&
		Aeq(m.Wx, a.Wx) && Aeq(m.Wy, a.Wy) && Aeq(m.Wz, a.Wz) && Aeq(m.Ww, a.Ww)
}

// Mult (*) returns the matrix product m x a. A point transformed by the
// result is equivalent to transforming by a first and then by m.
func (m M4) Mult(a M4) M4 {
	return M4{
		Xx: m.Xx*a.Xx + m.Yx*a.Xy + m.Zx*a.Xz + m.Wx*a.Xw,
		Xy: m.Xy*a.Xx + m.Yy*a.Xy + m.Zy*a.Xz + m.Wy*a.Xw,
		Xz: m.Xz*a.Xx + m.Yz*a.Xy + m.Zz*a.Xz + m.Wz*a.Xw,
		Xw: m.Xw*a.Xx + m.Yw*a.Xy + m.Zw*a.Xz + m.Ww*a.Xw,
		Yx: m.Xx*a.Yx + m.Yx*a.Yy + m.Zx*a.Yz + m.Wx*a.Yw,
		Yy: m.Xy*a.Yx + m.Yy*a.Yy + m.Zy*a.Yz + m.Wy*a.Yw,
		Yz: m.Xz*a.Yx + m.Yz*a.Yy + m.Zz*a.Yz + m.Wz*a.Yw,
		Yw: m.Xw*a.Yx + m.Yw*a.Yy + m.Zw*a.Yz + m.Ww*a.Yw,
		Zx: m.Xx*a.Zx + m.Yx*a.Zy + m.Zx*a.Zz + m.Wx*a.Zw,
		Zy: m.Xy*a.Zx + m.Yy*a.Zy + m.Zy*a.Zz + m.Wy*a.Zw,
		Zz: m.Xz*a.Zx + m.Yz*a.Zy + m.Zz*a.Zz + m.Wz*a.Zw,
		Zw: m.Xw*a.Zx + m.Yw*a.Zy + m.Zw*a.Zz + m.Ww*a.Zw,
		Wx: m.Xx*a.Wx + m.Yx*a.Wy + m.Zx*a.Wz + m.Wx*a.Ww,
		Wy: m.Xy*a.Wx + m.Yy*a.Wy + m.Zy*a.Wz + m.Wy*a.Ww,
		Wz: m.Xz*a.Wx + m.Yz*a.Wy + m.Zz*a.Wz + m.Wz*a.Ww,
		Ww: m.Xw*a.Wx + m.Yw*a.Wy + m.Zw*a.Wz + m.Ww*a.Ww,
	}
}

// MultPoint applies matrix m to point p, ie. m x V4{p, 1}.
// The translation column participates.
func (m M4) MultPoint(p V3) V3 {
	return V3{
		m.Xx*p.X + m.Yx*p.Y + m.Zx*p.Z + m.Wx,
		m.Xy*p.X + m.Yy*p.Y + m.Zy*p.Z + m.Wy,
		m.Xz*p.X + m.Yz*p.Y + m.Zz*p.Z + m.Wz,
	}
}

// MultDir applies matrix m to direction d, ie. m x V4{d, 0}.
// The translation column does not participate.
func (m M4) MultDir(d V3) V3 {
	return V3{
		m.Xx*d.X + m.Yx*d.Y + m.Zx*d.Z,
		m.Xy*d.X + m.Yy*d.Y + m.Zy*d.Z,
		m.Xz*d.X + m.Yz*d.Y + m.Zz*d.Z,
	}
}

// MultNormal applies the transpose of the 3x3 part of matrix m to
// normal n. Calling this on an inverse model matrix applies the
// inverse-transpose of the model matrix, which is the correct
// transform for surface normals under non-uniform scale.
// The result is not normalized.
func (m M4) MultNormal(n V3) V3 {
	return V3{
		m.Xx*n.X + m.Xy*n.Y + m.Xz*n.Z,
		m.Yx*n.X + m.Yy*n.Y + m.Yz*n.Z,
		m.Zx*n.X + m.Zy*n.Y + m.Zz*n.Z,
	}
}

// Transpose returns matrix m flipped about its diagonal.
func (m M4) Transpose() M4 {
	return M4{
		Xx: m.Xx, Xy: m.Yx, Xz: m.Zx, Xw: m.Wx,
		Yx: m.Xy, Yy: m.Yy, Yz: m.Zy, Yw: m.Wy,
		Zx: m.Xz, Zy: m.Yz, Zz: m.Zz, Zw: m.Wz,
		Wx: m.Xw, Wy: m.Yw, Wz: m.Zw, Ww: m.Ww,
	}
}

// Inv returns the inverse of affine matrix m, ie. a matrix that undoes
// the rotation, scale, and translation of m. Only valid for affine
// matrices where the bottom row is 0,0,0,1; the general 4x4 inverse is
// not needed for scene transforms.
func (m M4) Inv() M4 {
	// Invert the 3x3 linear part by adjugate over determinant.
	c00 := m.Yy*m.Zz - m.Zy*m.Yz
	c01 := m.Zy*m.Xz - m.Xy*m.Zz
	c02 := m.Xy*m.Yz - m.Yy*m.Xz
	det := m.Xx*c00 + m.Yx*c01 + m.Zx*c02
	if det == 0 {
		return M4I // degenerate scale: identity beats NaN propagation.
	}
	id := 1 / det
	i := M4{
		Xx: c00 * id,
		Xy: c01 * id,
		Xz: c02 * id,
		Yx: (m.Zx*m.Yz - m.Yx*m.Zz) * id,
		Yy: (m.Xx*m.Zz - m.Zx*m.Xz) * id,
		Yz: (m.Yx*m.Xz - m.Xx*m.Yz) * id,
		Zx: (m.Yx*m.Zy - m.Zx*m.Yy) * id,
		Zy: (m.Zx*m.Xy - m.Xx*m.Zy) * id,
		Zz: (m.Xx*m.Yy - m.Yx*m.Xy) * id,
		Ww: 1,
	}

	// Inverse translation is -R⁻¹S⁻¹ * t.
	t := i.MultDir(V3{m.Wx, m.Wy, m.Wz})
	i.Wx, i.Wy, i.Wz = -t.X, -t.Y, -t.Z
	return i
}

// NewM4Translate returns a matrix that translates by t.
func NewM4Translate(t V3) M4 {
	m := M4I
	m.Wx, m.Wy, m.Wz = t.X, t.Y, t.Z
	return m
}

// NewM4Scale returns a matrix that scales by s.
func NewM4Scale(s V3) M4 {
	return M4{Xx: s.X, Yy: s.Y, Zz: s.Z, Ww: 1}
}

// NewM4Q returns the rotation matrix for unit quaternion q.
func NewM4Q(q Q) M4 {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z
	return M4{
		Xx: 1 - 2*(yy+zz), Xy: 2 * (xy + wz), Xz: 2 * (xz - wy),
		Yx: 2 * (xy - wz), Yy: 1 - 2*(xx+zz), Yz: 2 * (yz + wx),
		Zx: 2 * (xz + wy), Zy: 2 * (yz - wx), Zz: 1 - 2*(xx+yy),
		Ww: 1,
	}
}

// NewM4TRS composes a model matrix that scales, then rotates,
// then translates, matching how scene transforms are declared.
func NewM4TRS(t V3, r Q, s V3) M4 {
	m := NewM4Q(r)

	// Fold the scale into the basis columns and set the translation
	// directly rather than paying for two full matrix multiplies.
	m.Xx, m.Xy, m.Xz = m.Xx*s.X, m.Xy*s.X, m.Xz*s.X
	m.Yx, m.Yy, m.Yz = m.Yx*s.Y, m.Yy*s.Y, m.Yz*s.Y
	m.Zx, m.Zy, m.Zz = m.Zx*s.Z, m.Zy*s.Z, m.Zz*s.Z
	m.Wx, m.Wy, m.Wz = t.X, t.Y, t.Z
	return m
}
