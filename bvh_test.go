// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"testing"

	"github.com/gazed/trace/math/lin"
)

// randomTriangleCloud builds a geometry of n small triangles
// scattered deterministically inside a cube of the given half size.
func randomTriangleCloud(n int, halfSize float32, seed uint64) *MeshGeometry {
	rng := lin.NewXoshiro256SS(seed)
	g := &MeshGeometry{}
	for i := 0; i < n; i++ {
		base := lin.V3{
			X: rng.Range(-halfSize, halfSize),
			Y: rng.Range(-halfSize, halfSize),
			Z: rng.Range(-halfSize, halfSize),
		}
		v := uint32(len(g.Verts))
		g.Verts = append(g.Verts,
			base,
			base.Add(lin.V3{X: rng.Range(0.01, 0.3), Y: rng.Range(0.01, 0.3)}),
			base.Add(lin.V3{Y: rng.Range(0.01, 0.3), Z: rng.Range(0.01, 0.3)}))
		g.Tris = append(g.Tris, Triangle{V: [3]uint32{v, v + 1, v + 2}})
	}
	return g
}

func triangleAABB(g *MeshGeometry, tri Triangle) lin.AABB {
	aabb := lin.EmptyAABB()
	for _, vid := range tri.V {
		aabb = aabb.ExtendTo(g.Verts[vid])
	}
	return aabb
}

// bruteForceHit linearly scans every triangle for the closest hit.
func bruteForceHit(g *MeshGeometry, r *Ray) (uint32, float32, bool) {
	closest := uint32(0)
	closestT := float32(0)
	found := false
	for i, tri := range g.Tris {
		t, _, ok := rayTriangle(r.Origin, r.Dir,
			g.Verts[tri.V[0]], g.Verts[tri.V[1]], g.Verts[tri.V[2]], false)
		if ok && r.T.Surrounds(t) {
			r.T.Max = t
			closest, closestT, found = uint32(i), t, true
		}
	}
	return closest, closestT, found
}

func TestBVHConservative(t *testing.T) {
	g := randomTriangleCloud(2000, 5, 1)
	g.bvh.Build(g)

	for ni, node := range g.bvh.nodes {
		if node.count > 0 {
			for i := node.index; i < node.index+node.count; i++ {
				if !node.aabb.Contains(triangleAABB(g, g.Tris[i])) {
					t.Fatalf("Leaf %d does not contain triangle %d", ni, i)
				}
			}
			continue
		}
		for _, child := range []uint32{node.index, node.index + 1} {
			if !node.aabb.Contains(g.bvh.nodes[child].aabb) {
				t.Fatalf("Node %d does not contain child %d", ni, child)
			}
		}
	}
}

func TestBVHCoverage(t *testing.T) {
	g := randomTriangleCloud(3000, 5, 2)
	g.bvh.Build(g)

	// Leaf slices must partition the triangle list exactly.
	covered := make([]int, len(g.Tris))
	leaves := 0
	for _, node := range g.bvh.nodes {
		if node.count == 0 {
			continue
		}
		leaves++
		for i := node.index; i < node.index+node.count; i++ {
			covered[i]++
		}
	}
	for i, n := range covered {
		if n != 1 {
			t.Fatalf("Triangle %d appears in %d leaves", i, n)
		}
	}

	s := g.bvh.Stats()
	if s.Leaves != leaves {
		t.Errorf("Stats leaves %d, counted %d", s.Leaves, leaves)
	}
	if s.Nodes != len(g.bvh.nodes) {
		t.Errorf("Stats nodes %d, actual %d", s.Nodes, len(g.bvh.nodes))
	}
	if s.Nodes > 2*s.Leaves-1 {
		t.Errorf("Node count %d exceeds 2*leaves-1 = %d", s.Nodes, 2*s.Leaves-1)
	}
	if s.MaxDepth > bvhMaxDepth {
		t.Errorf("Depth %d exceeds cap %d", s.MaxDepth, bvhMaxDepth)
	}
}

func TestBVHMatchesBruteForce(t *testing.T) {
	g := randomTriangleCloud(10000, 5, 3)
	g.bvh.Build(g)

	rng := lin.NewXoshiro256SS(99)
	misses, hits := 0, 0
	for i := 0; i < 1000; i++ {
		origin := lin.V3{X: rng.Range(-8, 8), Y: rng.Range(-8, 8), Z: -10}
		target := lin.V3{X: rng.Range(-5, 5), Y: rng.Range(-5, 5), Z: rng.Range(-5, 5)}
		dir := target.Sub(origin)

		bvhRay := NewRay(origin, dir)
		bruteRay := NewRay(origin, dir)
		hit := g.bvh.Intersect(&bvhRay, false)
		id, bt, found := bruteForceHit(g, &bruteRay)

		if hit.Hit != found {
			t.Fatalf("Ray %d: bvh hit %v, brute force hit %v", i, hit.Hit, found)
		}
		if !found {
			misses++
			continue
		}
		hits++
		if hit.TriangleID != id {
			t.Fatalf("Ray %d: bvh triangle %d, brute force %d", i, hit.TriangleID, id)
		}
		if !lin.Aeq(bvhRay.T.Max, bt) {
			t.Fatalf("Ray %d: bvh t %f, brute force t %f", i, bvhRay.T.Max, bt)
		}
	}
	if hits == 0 || misses == 0 {
		t.Errorf("Degenerate ray coverage: %d hits %d misses", hits, misses)
	}
}

func TestSlabUnitCube(t *testing.T) {
	cube := lin.AABB{
		Min: lin.V3{X: -0.5, Y: -0.5, Z: -0.5},
		Max: lin.V3{X: 0.5, Y: 0.5, Z: 0.5},
	}
	r := NewRay(lin.V3{Z: -2}, lin.V3{Z: 1})
	got := rayAABB(r.Origin, r.InvDir, cube)
	if !lin.Aeq(got.Min, 1.5) || !lin.Aeq(got.Max, 2.5) {
		t.Errorf("Slab test got [%f, %f] wanted [1.5, 2.5]", got.Min, got.Max)
	}

	miss := NewRay(lin.V3{X: 2, Z: -2}, lin.V3{Z: 1})
	if got := rayAABB(miss.Origin, miss.InvDir, cube); !lin.IsNaN(got.Min) {
		t.Errorf("Missing ray should report NaN, got [%f, %f]", got.Min, got.Max)
	}
}

func TestWatertightSharedEdge(t *testing.T) {
	// Two triangles sharing the edge x=0 between y=0 and y=1.
	v0 := lin.V3{X: -1, Y: 0, Z: 0}
	v1 := lin.V3{X: 0, Y: 0, Z: 0}
	v2 := lin.V3{X: 0, Y: 1, Z: 0}
	v3 := lin.V3{X: 1, Y: 1, Z: 0}

	origin := lin.V3{X: 0, Y: 0.5, Z: -1} // Aimed exactly at the edge.
	dir := lin.V3{Z: 1}

	// The shear formulation guarantees no gap along the shared edge.
	hits := 0
	for _, tri := range [][3]lin.V3{{v0, v1, v2}, {v1, v3, v2}} {
		t0, _, ok := rayTriangle(origin, dir, tri[0], tri[1], tri[2], false)
		if ok && t0 > 0 {
			hits++
		}
	}
	if hits == 0 {
		t.Fatalf("Edge crossing ray fell through the shared edge")
	}

	// At the traversal level a duplicate equal-t acceptance is
	// rejected by the strict interval check, so the record reflects
	// exactly one hit.
	g := &MeshGeometry{
		Verts: []lin.V3{v0, v1, v2, v3},
		Tris: []Triangle{
			{V: [3]uint32{0, 1, 2}},
			{V: [3]uint32{1, 3, 2}},
		},
	}
	g.bvh.Build(g)
	r := NewRay(origin, dir)
	if hit := g.bvh.Intersect(&r, false); !hit.Hit || !lin.Aeq(r.T.Max, 1) {
		t.Errorf("Traversal missed the shared edge: hit %v t %f", hit.Hit, r.T.Max)
	}
}

func TestTriangleBarycentric(t *testing.T) {
	v0 := lin.V3{X: 0, Y: 0, Z: 0}
	v1 := lin.V3{X: 1, Y: 0, Z: 0}
	v2 := lin.V3{X: 0, Y: 1, Z: 0}

	// Hit each vertex: barycentric weight belongs to that vertex.
	for i, target := range []lin.V3{v0, v1, v2} {
		origin := target.Add(lin.V3{Z: -1})
		_, bary, ok := rayTriangle(origin, lin.V3{Z: 1}, v0, v1, v2, false)
		if !ok {
			t.Fatalf("Vertex %d ray missed", i)
		}
		if !lin.Aeq(bary.Axis(i), 1) {
			t.Errorf("Vertex %d barycentric got %v", i, bary)
		}
	}

	// Hit distance.
	tHit, _, ok := rayTriangle(lin.V3{X: 0.25, Y: 0.25, Z: -3}, lin.V3{Z: 1}, v0, v1, v2, false)
	if !ok || !lin.Aeq(tHit, 3) {
		t.Errorf("Center hit got t %f ok %v wanted 3", tHit, ok)
	}
}

func TestTriangleBackfaceCulling(t *testing.T) {
	v0 := lin.V3{X: 0, Y: 0, Z: 0}
	v1 := lin.V3{X: 1, Y: 0, Z: 0}
	v2 := lin.V3{X: 0, Y: 1, Z: 0}
	origin := lin.V3{X: 0.25, Y: 0.25, Z: -1}

	if _, _, ok := rayTriangle(origin, lin.V3{Z: 1}, v0, v1, v2, false); !ok {
		t.Fatalf("Two sided test should hit")
	}

	front := false
	if _, _, ok := rayTriangle(origin, lin.V3{Z: 1}, v0, v1, v2, true); ok {
		front = true
	}
	back := false
	if _, _, ok := rayTriangle(origin, lin.V3{Z: 1}, v0, v2, v1, true); ok {
		back = true
	}
	if front == back {
		t.Errorf("Culling must accept exactly one winding: front %v back %v", front, back)
	}
}

func TestDegenerateTriangleSkipped(t *testing.T) {
	v := lin.V3{X: 1, Y: 1, Z: 1}
	if _, _, ok := rayTriangle(lin.V3{Z: -1}, lin.V3{Z: 1}, v, v, v, false); ok {
		t.Errorf("Zero area triangle must never hit")
	}
}

func TestBVHBuildIdempotent(t *testing.T) {
	g := randomTriangleCloud(100, 2, 4)
	g.bvh.Build(g)
	nodes := g.bvh.Stats().Nodes
	g.bvh.Build(g) // Second build must be a no-op.
	if g.bvh.Stats().Nodes != nodes {
		t.Errorf("Rebuild changed the tree")
	}
}

func TestBVHNarrowsInterval(t *testing.T) {
	// Two parallel quads; the closer one must win and the ray
	// interval must end at it.
	g := &MeshGeometry{
		Verts: []lin.V3{
			{X: -1, Y: -1, Z: 1}, {X: 1, Y: -1, Z: 1}, {X: 0, Y: 1, Z: 1},
			{X: -1, Y: -1, Z: 3}, {X: 1, Y: -1, Z: 3}, {X: 0, Y: 1, Z: 3},
		},
		Tris: []Triangle{
			{V: [3]uint32{0, 1, 2}},
			{V: [3]uint32{3, 4, 5}},
		},
	}
	g.bvh.Build(g)

	r := NewRay(lin.V3{Y: -0.5}, lin.V3{Z: 1})
	hit := g.bvh.Intersect(&r, false)
	if !hit.Hit {
		t.Fatalf("Ray should hit")
	}
	if !lin.Aeq(r.T.Max, 1) {
		t.Errorf("Closest hit t got %f wanted 1", r.T.Max)
	}
	if r.AABBTests == 0 || r.TriTests == 0 {
		t.Errorf("Traversal counters not incremented: aabb %d tri %d", r.AABBTests, r.TriTests)
	}
}
