// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// bvh.go holds the bounding volume hierarchy: a binary tree of axis
// aligned boxes over mesh triangles that answers closest-hit queries
// in O(log n) nodes per ray. The build reorders the mesh triangle
// list in place so that every leaf owns one contiguous slice and no
// secondary index array is needed.

import (
	"time"

	"github.com/gazed/trace/math/lin"
)

const (
	// bvhMaxDepth caps tree depth. The traversal stack is sized from
	// this, so overflow is structurally impossible.
	bvhMaxDepth = 128

	// bvhMaxLeafSize stops splitting nodes at or below this many
	// triangles regardless of what the split heuristic says.
	bvhMaxLeafSize = 32

	// bvhSplitTests is the number of equal width bins tested per axis
	// when searching for the best surface area heuristic split.
	bvhSplitTests = 16
)

// bvhNode is one tree node in the contiguous node array. Index 0 is
// the root. A node is a leaf iff count > 0, in which case it owns the
// triangle slice [index, index+count). Interior nodes have count 0 and
// two children at index and index+1.
type bvhNode struct {
	aabb  lin.AABB
	count uint32
	index uint32
}

// BVHStats records what the builder produced.
type BVHStats struct {
	BuildTime   time.Duration
	Triangles   int
	Nodes       int
	Leaves      int
	MaxDepth    int
	MaxLeafSize int // Most triangles in any one leaf.
}

// BVH indexes the triangles of one MeshGeometry. The zero value is an
// unbuilt index; Build is called once from the geometry's first
// FrameBegin and the tree is immutable afterwards.
type BVH struct {
	nodes []bvhNode
	geom  *MeshGeometry
	stats BVHStats
	built bool
}

// Built returns true once Build has completed.
func (b *BVH) Built() bool { return b.built }

// Stats returns the build statistics.
func (b *BVH) Stats() BVHStats { return b.stats }

// bvh accessors
// ===========================================================================
// build

// workItem queues a node for splitting at a given tree depth.
type workItem struct {
	node  uint32
	depth uint32
}

// Build constructs the tree over the geometry's triangles,
// reordering g.Tris in place. Idempotent: a built tree is kept.
func (b *BVH) Build(g *MeshGeometry) {
	if b.built {
		return
	}
	start := time.Now()
	b.geom = g
	tris := g.Tris

	// Bound each triangle and note its centroid for split binning.
	triAABBs := make([]lin.AABB, len(tris))
	centroids := make([]lin.V3, len(tris))
	for i, tri := range tris {
		aabb := lin.EmptyAABB()
		for _, vid := range tri.V {
			aabb = aabb.ExtendTo(g.Verts[vid])
		}
		triAABBs[i] = aabb
		centroids[i] = aabb.Center()
	}

	b.nodes = make([]bvhNode, 1, 2*len(tris)/bvhMaxLeafSize+1)
	b.nodes[0] = bvhNode{count: uint32(len(tris))}

	queue := []workItem{{node: 0, depth: 1}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		node := &b.nodes[item.node]
		first, count := node.index, node.count

		// The node box is the union of its triangle boxes, computed
		// here so children never re-bound the parent's work.
		aabb := lin.EmptyAABB()
		for i := first; i < first+count; i++ {
			aabb = aabb.Union(triAABBs[i])
		}
		node.aabb = aabb

		if count <= bvhMaxLeafSize || item.depth >= bvhMaxDepth {
			b.leafStats(item, count)
			continue
		}

		axis, splitBin, binOf, cost := b.findBestSplit(triAABBs, centroids, first, count)
		if splitBin < 0 || cost >= float32(count)*aabb.SurfaceArea() {
			// No split beats leaving the node whole.
			b.leafStats(item, count)
			continue
		}

		// Partition the triangle slice in place. Bin membership, not a
		// float plane compare, decides sides so the partition count
		// exactly matches what the heuristic measured.
		mid := first
		for i, j := first, first+count-1; i <= j; {
			if binOf(centroids[i], axis) < splitBin {
				i++
				mid = i
			} else {
				tris[i], tris[j] = tris[j], tris[i]
				triAABBs[i], triAABBs[j] = triAABBs[j], triAABBs[i]
				centroids[i], centroids[j] = centroids[j], centroids[i]
				j--
			}
		}

		left := bvhNode{index: first, count: mid - first}
		right := bvhNode{index: mid, count: first + count - mid}

		childIndex := uint32(len(b.nodes))
		node.count = 0
		node.index = childIndex
		// Appending may grow the array: node is not referenced after.
		b.nodes = append(b.nodes, left, right)
		queue = append(queue,
			workItem{node: childIndex, depth: item.depth + 1},
			workItem{node: childIndex + 1, depth: item.depth + 1})
	}

	// Shed the growth slack: the node array is kept for the
	// lifetime of the geometry.
	b.nodes = append(make([]bvhNode, 0, len(b.nodes)), b.nodes...)

	b.stats.BuildTime = time.Since(start)
	b.stats.Triangles = len(tris)
	b.stats.Nodes = len(b.nodes)
	b.built = true
}

// leafStats folds a finished leaf into the build statistics.
func (b *BVH) leafStats(item workItem, count uint32) {
	b.stats.Leaves++
	b.stats.MaxDepth = max(b.stats.MaxDepth, int(item.depth))
	b.stats.MaxLeafSize = max(b.stats.MaxLeafSize, int(count))
}

// binFunc maps a centroid to its bin index along one axis.
type binFunc func(c lin.V3, axis int) int

// sahBin accumulates the bounds and population of one candidate bin.
type sahBin struct {
	aabb  lin.AABB
	count uint32
}

// findBestSplit runs a binned surface area heuristic sweep over all
// three axes for the triangle slice [first, first+count) and returns
// the cheapest split as an axis, a bin boundary, the binning function,
// and the split cost. splitBin -1 means no usable split exists.
func (b *BVH) findBestSplit(triAABBs []lin.AABB, centroids []lin.V3, first, count uint32) (bestAxis, bestSplit int, binOf binFunc, bestCost float32) {
	// True centroid extents per axis; the node box can be much larger
	// than where the centroids actually are.
	cmin := lin.V3{X: lin.MaxFloat, Y: lin.MaxFloat, Z: lin.MaxFloat}
	cmax := cmin.Neg()
	for i := first; i < first+count; i++ {
		cmin = cmin.Min(centroids[i])
		cmax = cmax.Max(centroids[i])
	}
	extent := cmax.Sub(cmin)

	binOf = func(c lin.V3, axis int) int {
		e := extent.Axis(axis)
		if e <= 0 {
			return 0
		}
		bin := int(float32(bvhSplitTests) * (c.Axis(axis) - cmin.Axis(axis)) / e)
		return min(bin, bvhSplitTests-1)
	}

	bestAxis, bestSplit, bestCost = 0, -1, lin.MaxFloat
	for axis := 0; axis < 3; axis++ {
		if extent.Axis(axis) <= 0 {
			continue // All centroids coincide on this axis.
		}

		var bins [bvhSplitTests]sahBin
		for i := range bins {
			bins[i].aabb = lin.EmptyAABB()
		}
		for i := first; i < first+count; i++ {
			bin := &bins[binOf(centroids[i], axis)]
			bin.aabb = bin.aabb.Union(triAABBs[i])
			bin.count++
		}

		// Suffix sums give the right side of every candidate plane in
		// one sweep; the left side accumulates as the plane advances.
		var rightAABBs [bvhSplitTests]lin.AABB
		var rightCounts [bvhSplitTests]uint32
		rightAABBs[bvhSplitTests-1] = bins[bvhSplitTests-1].aabb
		rightCounts[bvhSplitTests-1] = bins[bvhSplitTests-1].count
		for i := bvhSplitTests - 2; i > 0; i-- {
			rightAABBs[i] = bins[i].aabb.Union(rightAABBs[i+1])
			rightCounts[i] = bins[i].count + rightCounts[i+1]
		}

		leftAABB := lin.EmptyAABB()
		leftCount := uint32(0)
		for split := 1; split < bvhSplitTests; split++ {
			leftAABB = leftAABB.Union(bins[split-1].aabb)
			leftCount += bins[split-1].count
			if leftCount == 0 || leftCount == count {
				continue
			}
			cost := float32(leftCount)*leftAABB.SurfaceArea() +
				float32(rightCounts[split])*rightAABBs[split].SurfaceArea()
			if cost < bestCost {
				bestAxis, bestSplit, bestCost = axis, split, cost
			}
		}
	}
	return bestAxis, bestSplit, binOf, bestCost
}

// build
// ===========================================================================
// traversal

// stackEntry defers a node during traversal along with its slab entry
// distance, letting nodes already beaten by a closer hit be discarded
// without re-testing.
type stackEntry struct {
	node  uint32
	tNear float32
}

// Intersect walks the tree for the closest triangle hit along the
// ray, shrinking r.T.Max as hits are found. Children are pushed far
// first so the near child is popped and tested while the interval is
// at its current tightest.
func (b *BVH) Intersect(r *Ray, cullBackfaces bool) HitRecord {
	var hit HitRecord
	var stack [bvhMaxDepth + 2]stackEntry
	sp := 0

	r.AABBTests++
	rootT := rayAABB(r.Origin, r.InvDir, b.nodes[0].aabb)
	if lin.IsNaN(rootT.Min) || !r.T.Intersects(rootT) {
		return hit
	}
	stack[sp] = stackEntry{node: 0, tNear: rootT.Min}
	sp++

	for sp > 0 {
		sp--
		entry := stack[sp]
		if entry.tNear > r.T.Max {
			continue // A closer hit landed after this was pushed.
		}
		node := &b.nodes[entry.node]

		if node.count > 0 {
			b.intersectLeaf(r, node, cullBackfaces, &hit)
			continue
		}

		near, far := node.index, node.index+1
		r.AABBTests += 2
		nearT := rayAABB(r.Origin, r.InvDir, b.nodes[near].aabb)
		farT := rayAABB(r.Origin, r.InvDir, b.nodes[far].aabb)
		if farT.Min < nearT.Min {
			near, far = far, near
			nearT, farT = farT, nearT
		}
		if !lin.IsNaN(farT.Min) && r.T.Intersects(farT) {
			stack[sp] = stackEntry{node: far, tNear: farT.Min}
			sp++
		}
		if !lin.IsNaN(nearT.Min) && r.T.Intersects(nearT) {
			stack[sp] = stackEntry{node: near, tNear: nearT.Min}
			sp++
		}
	}
	return hit
}

// intersectLeaf tests every triangle in the leaf's slice, keeping the
// closest acceptance and narrowing the ray interval as it goes.
func (b *BVH) intersectLeaf(r *Ray, node *bvhNode, cullBackfaces bool, hit *HitRecord) {
	g := b.geom
	for i := node.index; i < node.index+node.count; i++ {
		tri := &g.Tris[i]
		r.TriTests++
		t, bary, ok := rayTriangle(r.Origin, r.Dir,
			g.Verts[tri.V[0]], g.Verts[tri.V[1]], g.Verts[tri.V[2]],
			cullBackfaces)
		if ok && r.T.Surrounds(t) {
			r.T.Max = t
			hit.Hit = true
			hit.TriangleID = i
			hit.Barycentric = bary
		}
	}
}

// rayAABB slab-tests a ray against a box using the precomputed
// inverse direction. A miss returns an interval whose Min is NaN.
// NaN also results when the ray origin lies exactly on a slab of a
// box it otherwise misses; the caller treats both as a miss, which
// for boxes is conservative only in the harmless direction.
func rayAABB(origin, invDir lin.V3, aabb lin.AABB) lin.Interval {
	t1 := aabb.Min.Sub(origin).Mul(invDir)
	t2 := aabb.Max.Sub(origin).Mul(invDir)

	tEnter := max(min(t1.X, t2.X), min(t1.Y, t2.Y), min(t1.Z, t2.Z))
	tExit := min(max(t1.X, t2.X), max(t1.Y, t2.Y), max(t1.Z, t2.Z))
	if !(tEnter <= tExit) {
		return lin.Interval{Min: lin.NaN(), Max: lin.NaN()}
	}
	return lin.Interval{Min: tEnter, Max: tExit}
}

// rayTriangle is the watertight ray-triangle intersection of Woop,
// Benthin, and Wald: shear the triangle into a ray aligned coordinate
// system and evaluate three 2D edge functions. Shared edges between
// triangles get exactly one hit regardless of floating point order.
//
// With cullBackfaces only counter-clockwise front faces are accepted;
// otherwise both orientations hit. Degenerate zero area triangles
// produce a zero or NaN determinant and are silently skipped.
// Barycentric results weight the triangle vertices in order.
func rayTriangle(origin, dir, v0, v1, v2 lin.V3, cullBackfaces bool) (t float32, bary lin.V3, ok bool) {
	// Permute the axes so Z is the dominant ray direction.
	kz := 0
	ax, ay, az := lin.Abs(dir.X), lin.Abs(dir.Y), lin.Abs(dir.Z)
	if ay > ax && ay >= az {
		kz = 1
	} else if az > ax && az > ay {
		kz = 2
	}
	kx := (kz + 1) % 3
	ky := (kx + 1) % 3
	if dir.Axis(kz) < 0 {
		kx, ky = ky, kx // Preserve winding.
	}

	// Shear constants, computed once per ray-triangle pair. Hoisting
	// them per ray measures slower than it reads: the traversal
	// rarely reaches more than a few leaves.
	sz := 1 / dir.Axis(kz)
	sx := dir.Axis(kx) * sz
	sy := dir.Axis(ky) * sz

	// Translate vertices against the ray origin, then shear.
	a, bv, c := v0.Sub(origin), v1.Sub(origin), v2.Sub(origin)
	axs := a.Axis(kx) - sx*a.Axis(kz)
	ays := a.Axis(ky) - sy*a.Axis(kz)
	bxs := bv.Axis(kx) - sx*bv.Axis(kz)
	bys := bv.Axis(ky) - sy*bv.Axis(kz)
	cxs := c.Axis(kx) - sx*c.Axis(kz)
	cys := c.Axis(ky) - sy*c.Axis(kz)

	// Edge functions: the scaled barycentrics of the origin.
	u := cxs*bys - cys*bxs
	v := axs*cys - ays*cxs
	w := bxs*ays - bys*axs

	if cullBackfaces {
		if u < 0 || v < 0 || w < 0 {
			return 0, bary, false
		}
	} else if (u < 0 || v < 0 || w < 0) && (u > 0 || v > 0 || w > 0) {
		return 0, bary, false
	}

	det := u + v + w
	if det == 0 {
		return 0, bary, false
	}

	// Hit distance in the sheared frame. A negative or NaN t is
	// rejected by the caller's interval check.
	azs := sz * a.Axis(kz)
	bzs := sz * bv.Axis(kz)
	czs := sz * c.Axis(kz)
	scaledT := u*azs + v*bzs + w*czs

	invDet := 1 / det
	t = scaledT * invDet
	bary = lin.V3{X: u * invDet, Y: v * invDet, Z: w * invDet}
	return t, bary, true
}
