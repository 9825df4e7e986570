// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// Instance places a shared hittable into the scene under its own
// transform. Multiple instances may reference the same child, so a
// large mesh is stored and indexed once however many times it
// appears.
type Instance struct {
	Name      string
	Transform Transform
	Child     Hittable
}

// NewInstance wraps a hittable with a transform.
func NewInstance(child Hittable, transform Transform) *Instance {
	return &Instance{Transform: transform, Child: child}
}

// Hit intersects by mapping the ray into the child's local space with
// the inverse model matrix. Affine maps preserve the ray parameter,
// so a child hit parameter is copied straight onto the outer ray:
// the world distance to the hit divided by the outer direction length
// equals the child's t by construction.
func (n *Instance) Hit(r *Ray) HitRecord {
	local := r.Transformed(n.Transform.ModelInverse())
	hit := n.Child.Hit(&local)

	if hit.Hit {
		r.T.Max = local.T.Max
		hit.transform(n.Transform.ModelInverse())
	}
	r.AABBTests = local.AABBTests
	r.TriTests = local.TriTests
	return hit
}

// FrameBegin refreshes the transform cache and prepares the child.
func (n *Instance) FrameBegin() error {
	n.Transform.UpdateMatrices()
	return n.Child.FrameBegin()
}
