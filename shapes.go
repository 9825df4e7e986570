// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// shapes.go holds the analytic hittables. Meshes are handled by
// Model; everything here intersects in closed form.

import (
	"github.com/gazed/trace/math/lin"
)

// Sphere is an analytic sphere.
type Sphere struct {
	Center   lin.V3
	Radius   float32
	Material *Material
}

// NewSphere returns a sphere at center with the given radius.
func NewSphere(center lin.V3, radius float32, mat *Material) *Sphere {
	return &Sphere{Center: center, Radius: radius, Material: mat}
}

// Hit solves the ray-sphere quadratic, returning the nearer root
// inside the ray interval, else the farther root, else a miss.
func (s *Sphere) Hit(r *Ray) HitRecord {
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	halfB := r.Dir.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitRecord{}
	}

	sqrtD := lin.Sqrt(discriminant)
	t := (-halfB - sqrtD) / a
	if !r.T.Surrounds(t) {
		t = (-halfB + sqrtD) / a
		if !r.T.Surrounds(t) {
			return HitRecord{}
		}
	}

	r.T.Max = t
	return HitRecord{
		Hit:      true,
		Normal:   r.At(t).Sub(s.Center).Scale(1 / s.Radius),
		Material: s.Material,
	}
}

// FrameBegin is a no-op: spheres carry no mutable caches.
func (s *Sphere) FrameBegin() error { return nil }

// Sphere
// ===========================================================================
// InfinitePlane

// InfinitePlane is an unbounded analytic plane.
type InfinitePlane struct {
	Origin   lin.V3
	Normal   lin.V3 // Unit plane normal.
	Material *Material
}

// NewInfinitePlane returns a plane through origin facing normal.
func NewInfinitePlane(origin, normal lin.V3, mat *Material) *InfinitePlane {
	return &InfinitePlane{Origin: origin, Normal: normal.Unit(), Material: mat}
}

// Hit intersects the plane, reporting the stored normal or its
// negation depending on which face the ray struck.
func (p *InfinitePlane) Hit(r *Ray) HitRecord {
	dot := p.Normal.Dot(r.Dir)
	if lin.Abs(dot) < 1e-6 {
		return HitRecord{} // Parallel ray.
	}

	t := p.Origin.Sub(r.Origin).Dot(p.Normal) / dot
	if !r.T.Surrounds(t) {
		return HitRecord{}
	}

	r.T.Max = t
	normal := p.Normal
	if dot >= 0 {
		normal = normal.Neg()
	}
	return HitRecord{Hit: true, Normal: normal, Material: p.Material}
}

// FrameBegin is a no-op: planes carry no mutable caches.
func (p *InfinitePlane) FrameBegin() error { return nil }

// InfinitePlane
// ===========================================================================
// Rect

// Rect is a unit square in its local XZ plane, centered at the origin
// and facing +Y, placed in the world by its transform.
type Rect struct {
	Transform Transform
	Material  *Material
}

// NewRect returns a rectangle with the given transform.
func NewRect(transform Transform, mat *Material) *Rect {
	return &Rect{Transform: transform, Material: mat}
}

// Hit maps the ray into local space and intersects the local y=0
// plane bounded to |x|,|z| <= 0.5.
func (c *Rect) Hit(r *Ray) HitRecord {
	local := r.Transformed(c.Transform.ModelInverse())
	if lin.Abs(local.Dir.Y) < 1e-6 {
		return HitRecord{}
	}

	t := -local.Origin.Y / local.Dir.Y
	p := local.At(t)
	if !local.T.Surrounds(t) || lin.Abs(p.X) > 0.5 || lin.Abs(p.Z) > 0.5 {
		return HitRecord{}
	}

	r.T.Max = t
	hit := HitRecord{
		Hit:      true,
		Normal:   lin.V3{Y: 1},
		UV:       lin.V2{X: p.X + 0.5, Y: p.Z + 0.5},
		Material: c.Material,
	}
	if local.Dir.Y >= 0 {
		hit.Normal = lin.V3{Y: -1}
	}
	hit.transform(c.Transform.ModelInverse())
	return hit
}

// FrameBegin refreshes the transform cache.
func (c *Rect) FrameBegin() error {
	c.Transform.UpdateMatrices()
	return nil
}

// Rect
// ===========================================================================
// Disc

// Disc is an ellipse in its local XZ plane facing +Y, placed in the
// world by its transform. Size is the full length of the two axes:
// the half axes are Size/2, so a Size of (1,1) is a circle of radius 0.5.
type Disc struct {
	Transform Transform
	Material  *Material
	Size      lin.V2

	// World space frame cached at FrameBegin so the Hit path avoids
	// transforming the ray.
	origin    lin.V3
	normal    lin.V3
	u, v      lin.V3
	uvLen2Inv lin.V2
}

// NewDisc returns a disc with the given transform and full axis lengths.
func NewDisc(transform Transform, mat *Material, size lin.V2) *Disc {
	return &Disc{Transform: transform, Material: mat, Size: size}
}

// Hit intersects the disc plane and accepts points whose scaled UV
// radius is inside the ellipse.
func (d *Disc) Hit(r *Ray) HitRecord {
	dot := d.normal.Dot(r.Dir)
	if lin.Abs(dot) < 1e-6 {
		return HitRecord{}
	}

	t := d.origin.Sub(r.Origin).Dot(d.normal) / dot
	p := r.At(t).Sub(d.origin)
	uv := lin.V2{X: p.Dot(d.u), Y: p.Dot(d.v)}.Mul(d.uvLen2Inv)
	if !r.T.Surrounds(t) || uv.Len() > 0.5 {
		return HitRecord{}
	}

	r.T.Max = t
	hit := HitRecord{
		Hit:      true,
		Normal:   d.normal,
		UV:       uv.Add(lin.V2{X: 0.5, Y: 0.5}),
		Material: d.Material,
	}
	if dot >= 0 {
		hit.Normal = hit.Normal.Neg()
	}
	return hit
}

// FrameBegin refreshes the transform cache and derives the world
// space disc frame from it.
func (d *Disc) FrameBegin() error {
	d.Transform.UpdateMatrices()
	m := d.Transform.Model()
	d.origin = d.Transform.Position()
	d.normal = m.MultDir(lin.V3{Y: 1}).Unit()
	d.u = m.MultDir(lin.V3{X: d.Size.X})
	d.v = m.MultDir(lin.V3{Z: d.Size.Y})
	d.uvLen2Inv = lin.V2{X: 1 / d.u.Len2(), Y: 1 / d.v.Len2()}
	return nil
}
