// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package lin

// AABB is an axis aligned bounding box. The empty box has Min at
// +MaxFloat and Max at -MaxFloat per component so that extending or
// unioning the empty box yields the other operand unchanged.
type AABB struct {
	Min, Max V3
}

// EmptyAABB returns the box containing nothing.
func EmptyAABB() AABB {
	return AABB{
		Min: V3{MaxFloat, MaxFloat, MaxFloat},
		Max: V3{-MaxFloat, -MaxFloat, -MaxFloat},
	}
}

// ExtendTo returns box b grown just enough to contain point p.
func (b AABB) ExtendTo(p V3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes b and a.
func (b AABB) Union(a AABB) AABB {
	return AABB{Min: b.Min.Min(a.Min), Max: b.Max.Max(a.Max)}
}

// Contains returns true if box b fully contains box a.
// The empty box contains nothing and is contained by everything.
func (b AABB) Contains(a AABB) bool {
	if a.Empty() {
		return true
	}
	return b.Min.X <= a.Min.X && b.Min.Y <= a.Min.Y && b.Min.Z <= a.Min.Z &&
		b.Max.X >= a.Max.X && b.Max.Y >= a.Max.Y && b.Max.Z >= a.Max.Z
}

// Empty returns true if box b contains nothing.
func (b AABB) Empty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Extent returns the size of box b along each axis.
func (b AABB) Extent() V3 { return b.Max.Sub(b.Min) }

// Center returns the midpoint of box b.
func (b AABB) Center() V3 { return b.Min.Add(b.Max).Scale(0.5) }

// SurfaceArea returns the total area of the six box faces.
// Used by the surface area heuristic when building spatial trees.
// The empty box has zero area.
func (b AABB) SurfaceArea() float32 {
	if b.Empty() {
		return 0
	}
	e := b.Extent()
	return 2 * (e.X*e.Y + e.Y*e.Z + e.Z*e.X)
}

// LongestAxis returns 0, 1, or 2 for the axis along which
// box b is largest.
func (b AABB) LongestAxis() int {
	e := b.Extent()
	axis := 0
	if e.Y > e.X {
		axis = 1
	}
	if e.Z > e.Axis(axis) {
		axis = 2
	}
	return axis
}
