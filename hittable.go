// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// Hittable is anything a ray can intersect. A successful Hit shrinks
// the ray's T.Max to the hit parameter so that anything tested
// afterwards is culled against the closest hit so far.
//
// FrameBegin runs once before any rays are cast for a frame. It is the
// only point where hittables may mutate shared state: transform matrix
// caches refresh and mesh spatial indexes build here. After every
// FrameBegin returns the scene is read-only and safe for the parallel
// pixel workers.
type Hittable interface {
	Hit(r *Ray) HitRecord
	FrameBegin() error
}

// HitRecord describes the closest intersection found along a ray.
// It is a value type: closest-hit updates copy the whole record.
type HitRecord struct {
	Hit bool // False if the ray escaped the scene.

	// Surface frame at the hit, world space.
	Normal    lin.V3
	Tangent   lin.V3
	Bitangent lin.V3

	UV          lin.V2 // Interpolated texture coordinates.
	Barycentric lin.V3 // Triangle hits only.

	// Point is populated by the integrator just before scattering,
	// from the final ray origin and T.Max, so that nested instance
	// transforms never re-derive it and accumulate error.
	Point lin.V3

	TriangleID uint32        // Index into Geometry.Tris for mesh hits.
	Geometry   *MeshGeometry // Mesh hits only, else nil.
	Material   *Material     // Shading material, set by the hittable.
}

// transform maps the record's surface frame by the inverse-transpose
// of a model matrix. inv is the cached inverse model matrix; applying
// its transpose keeps normals perpendicular under non-uniform scale.
func (h *HitRecord) transform(inv *lin.M4) {
	h.Normal = inv.MultNormal(h.Normal).Unit()
	h.Tangent = inv.MultNormal(h.Tangent).Unit()
	h.Bitangent = inv.MultNormal(h.Bitangent).Unit()
}

// Hittable
// ===========================================================================
// Group

// Group is an ordered collection of hittables intersected together.
// The scene root is typically a group.
type Group struct {
	kids []Hittable
}

// NewGroup returns a group containing the given hittables.
func NewGroup(kids ...Hittable) *Group {
	return &Group{kids: kids}
}

// Add appends hittables to the group.
func (g *Group) Add(kids ...Hittable) {
	g.kids = append(g.kids, kids...)
}

// Clear removes all hittables from the group.
func (g *Group) Clear() { g.kids = nil }

// Hit asks each child for its closest intersection. A child that hits
// shrinks the ray's T.Max, so later children are tested against an
// ever narrowing interval and the last accepted record is the
// closest overall.
func (g *Group) Hit(r *Ray) HitRecord {
	var hit HitRecord
	for _, kid := range g.kids {
		if childHit := kid.Hit(r); childHit.Hit {
			hit = childHit
		}
	}
	return hit
}

// FrameBegin prepares each child, stopping on the first failure.
func (g *Group) FrameBegin() error {
	for _, kid := range g.kids {
		if err := kid.FrameBegin(); err != nil {
			return err
		}
	}
	return nil
}
