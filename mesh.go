// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"fmt"

	"github.com/gazed/trace/math/lin"
)

// Triangle indexes three vertices and a material of its parent mesh.
type Triangle struct {
	V        [3]uint32 // Indexes into the geometry vertex arrays.
	Material uint32    // Indexes into the mesh material list.
}

// MeshGeometry holds triangle mesh data as parallel per-vertex arrays
// plus an indexed triangle list. UVs, Normals, and Tangents are
// optional; when present their length equals len(Verts). Tangent W is
// the -1/+1 bitangent handedness.
//
// A geometry owns its spatial index and may be shared by any number of
// models and instances; it must outlive the render using it.
type MeshGeometry struct {
	Verts    []lin.V3
	UVs      []lin.V2
	Normals  []lin.V3
	Tangents []lin.V4
	Tris     []Triangle

	bvh BVH // Built once at the first FrameBegin.
}

// Validate checks the geometry invariants that intersection relies
// on: a non-empty triangle list, in-range indices, and attribute
// arrays matching the vertex array. The renderer refuses geometries
// that fail validation rather than crashing mid-render.
func (g *MeshGeometry) Validate() error {
	if len(g.Verts) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(g.Tris) == 0 {
		return fmt.Errorf("mesh has no triangles")
	}
	n := uint32(len(g.Verts))
	for i, tri := range g.Tris {
		if tri.V[0] >= n || tri.V[1] >= n || tri.V[2] >= n {
			return fmt.Errorf("triangle %d vertex index out of range", i)
		}
	}
	if len(g.UVs) != 0 && len(g.UVs) != len(g.Verts) {
		return fmt.Errorf("uv count %d does not match vertex count %d", len(g.UVs), len(g.Verts))
	}
	if len(g.Normals) != 0 && len(g.Normals) != len(g.Verts) {
		return fmt.Errorf("normal count %d does not match vertex count %d", len(g.Normals), len(g.Verts))
	}
	if len(g.Tangents) != 0 && len(g.Tangents) != len(g.Verts) {
		return fmt.Errorf("tangent count %d does not match vertex count %d", len(g.Tangents), len(g.Verts))
	}
	return nil
}

// FlatNormal returns the geometric normal of triangle tri from the
// winding of its vertex positions. Used when the geometry arrives
// without per-vertex normals.
func (g *MeshGeometry) FlatNormal(tri Triangle) lin.V3 {
	v0 := g.Verts[tri.V[0]]
	e1 := g.Verts[tri.V[1]].Sub(v0)
	e2 := g.Verts[tri.V[2]].Sub(v0)
	return e1.Cross(e2).Unit()
}

// BVH exposes the geometry's spatial index, mainly for diagnostics.
func (g *MeshGeometry) BVH() *BVH { return &g.bvh }

// MeshGeometry
// ===========================================================================
// Mesh

// Mesh pairs shared geometry with the material list its triangles
// index into.
type Mesh struct {
	Geometry  *MeshGeometry
	Materials []*Material
}

// NewMesh returns a mesh over the given geometry. A nil or empty
// material list gets a single default diffuse material so that
// triangle material ids always resolve.
func NewMesh(geometry *MeshGeometry, materials []*Material) *Mesh {
	if len(materials) == 0 {
		materials = []*Material{NewLambert(lin.V3{X: 0.8, Y: 0.8, Z: 0.8})}
	}
	return &Mesh{Geometry: geometry, Materials: materials}
}

// material returns the material for the given triangle, clamping
// out-of-range ids to the first material.
func (m *Mesh) material(tri Triangle) *Material {
	if int(tri.Material) >= len(m.Materials) {
		return m.Materials[0]
	}
	return m.Materials[tri.Material]
}
