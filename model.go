// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"log"
)

// Model makes a mesh hittable: it owns the lazy spatial index build
// and turns raw triangle hits into shaded hit records with
// interpolated vertex attributes.
type Model struct {
	Name string
	Mesh *Mesh

	// AND of the material culling flags, refreshed each FrameBegin.
	// One two-sided material makes the whole mesh two-sided because
	// the index is traversed once per ray, not once per material.
	cullBackfaces bool
}

// NewModel returns a model over the given mesh.
func NewModel(name string, mesh *Mesh) *Model {
	return &Model{Name: name, Mesh: mesh}
}

// Hit defers to the geometry's spatial index, then fills in the
// surface frame: interpolated or flat normal, texture coordinates,
// and a reorthogonalized tangent basis.
func (m *Model) Hit(r *Ray) HitRecord {
	g := m.Mesh.Geometry
	hit := g.bvh.Intersect(r, m.cullBackfaces)
	if !hit.Hit {
		return hit
	}

	tri := g.Tris[hit.TriangleID]
	hit.Geometry = g
	hit.Material = m.Mesh.material(tri)
	b := hit.Barycentric

	if len(g.UVs) != 0 {
		hit.UV = g.UVs[tri.V[0]].Scale(b.X).
			Add(g.UVs[tri.V[1]].Scale(b.Y)).
			Add(g.UVs[tri.V[2]].Scale(b.Z))
	}

	if len(g.Normals) != 0 {
		hit.Normal = g.Normals[tri.V[0]].Scale(b.X).
			Add(g.Normals[tri.V[1]].Scale(b.Y)).
			Add(g.Normals[tri.V[2]].Scale(b.Z)).Unit()
	} else {
		hit.Normal = g.FlatNormal(tri)
	}

	if len(g.Tangents) != 0 {
		tangent := g.Tangents[tri.V[0]].V3().Scale(b.X).
			Add(g.Tangents[tri.V[1]].V3().Scale(b.Y)).
			Add(g.Tangents[tri.V[2]].V3().Scale(b.Z))
		handedness := g.Tangents[tri.V[0]].W

		// One Gram-Schmidt step: normal interpolation bends the
		// frame, so project the tangent back onto the surface plane.
		hit.Tangent = tangent.Sub(hit.Normal.Scale(tangent.Dot(hit.Normal))).Unit()
		hit.Bitangent = hit.Normal.Cross(hit.Tangent).Scale(handedness).Unit()
	}
	return hit
}

// FrameBegin validates the geometry, builds the spatial index if this
// is the first frame, and refreshes the culling flag from the mesh
// materials.
func (m *Model) FrameBegin() error {
	g := m.Mesh.Geometry
	if !g.bvh.Built() {
		if err := g.Validate(); err != nil {
			return err
		}
		g.bvh.Build(g)

		s := g.bvh.Stats()
		log.Printf("%s BVH: build %.2fms tris %d nodes %d leaves %d depth %d avgLeaf %.1f maxLeaf %d",
			m.Name, float64(s.BuildTime.Microseconds())/1000.0,
			s.Triangles, s.Nodes, s.Leaves, s.MaxDepth,
			float64(s.Triangles)/float64(max(s.Leaves, 1)), s.MaxLeafSize)
	}

	m.cullBackfaces = true
	for _, mat := range m.Mesh.Materials {
		m.cullBackfaces = m.cullBackfaces && mat.BackfaceCulling && mat.Kind != Dielectric
	}
	return nil
}
