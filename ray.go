// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// hitEpsilon is the initial lower bound of a ray interval. Starting
// marginally above zero stops a bounced ray from re-hitting the
// surface it just left due to float rounding.
const hitEpsilon = 0.001

// Ray is a half line shot through the scene. Dir does not need to be
// unit length: every parameter t stored relative to this ray
// corresponds to the world distance t*|Dir|. T.Max shrinks
// monotonically as closer hits are found, so geometry tested later is
// automatically culled by earlier hits.
type Ray struct {
	Origin lin.V3
	Dir    lin.V3
	InvDir lin.V3       // 1/Dir per component, ±Inf permitted.
	T      lin.Interval // Active hit parameter range.

	// Traversal work counters feeding the diagnostic heat map channels.
	AABBTests int
	TriTests  int
}

// NewRay returns a ray from origin along dir with the hit interval
// open to infinity.
func NewRay(origin, dir lin.V3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		InvDir: lin.V3{X: 1, Y: 1, Z: 1}.Div(dir),
		T:      lin.Interval{Min: hitEpsilon, Max: lin.Inf},
	}
}

// At returns the point at parameter t along ray r.
func (r *Ray) At(t float32) lin.V3 {
	return r.Origin.Add(r.Dir.Scale(t))
}

// Transformed returns ray r mapped by the affine matrix m: the origin
// as a point, the direction as a vector. The transformed direction is
// generally not unit length, but the ray parameter is preserved by
// affine maps (p = o + t*d implies Mp = Mo + t*Md), so the interval
// carries over unchanged and a child hit parameter can be copied
// straight back onto the outer ray.
//
// Work counters carry over so instances keep accumulating.
func (r *Ray) Transformed(m *lin.M4) Ray {
	dir := m.MultDir(r.Dir)
	return Ray{
		Origin:    m.MultPoint(r.Origin),
		Dir:       dir,
		InvDir:    lin.V3{X: 1, Y: 1, Z: 1}.Div(dir),
		T:         r.T,
		AABBTests: r.AABBTests,
		TriTests:  r.TriTests,
	}
}
