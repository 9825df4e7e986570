// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// Transform places, orients, and sizes a scene instance. The model
// matrix and its inverse are cached; mutations mark the cache dirty
// and UpdateMatrices recomputes it. UpdateMatrices is called from
// FrameBegin, before the parallel pixel work starts, so the Hit path
// reads the cache without synchronization.
type Transform struct {
	position lin.V3
	rotation lin.Q
	scale    lin.V3

	model   lin.M4
	inverse lin.M4
	valid   bool
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		rotation: lin.QI,
		scale:    lin.V3{X: 1, Y: 1, Z: 1},
		model:    lin.M4I,
		inverse:  lin.M4I,
		valid:    true,
	}
}

// NewTransformAt returns a transform translated to position p.
func NewTransformAt(p lin.V3) Transform {
	t := NewTransform()
	t.SetPosition(p)
	return t
}

// Position returns the transform translation.
func (t *Transform) Position() lin.V3 { return t.position }

// Rotation returns the transform orientation.
func (t *Transform) Rotation() lin.Q { return t.rotation }

// Scale returns the transform scale.
func (t *Transform) Scale() lin.V3 { return t.scale }

// SetPosition moves the transform to position p.
func (t *Transform) SetPosition(p lin.V3) {
	t.position = p
	t.valid = false
}

// Move offsets the transform position.
func (t *Transform) Move(offset lin.V3) { t.SetPosition(t.position.Add(offset)) }

// SetRotation orients the transform to rotation q.
func (t *Transform) SetRotation(q lin.Q) {
	t.rotation = q
	t.valid = false
}

// Rotate applies an additional rotation on top of the current one.
func (t *Transform) Rotate(q lin.Q) { t.SetRotation(q.Mult(t.rotation)) }

// SetScale sizes the transform to scale s.
func (t *Transform) SetScale(s lin.V3) {
	t.scale = s
	t.valid = false
}

// UpdateMatrices recomputes the cached model matrix and its inverse
// if any of position, rotation, or scale changed since the last call.
func (t *Transform) UpdateMatrices() {
	if t.valid {
		return
	}
	t.model = lin.NewM4TRS(t.position, t.rotation, t.scale)
	t.inverse = t.model.Inv()
	t.valid = true
}

// Model returns the cached model matrix.
// Valid after UpdateMatrices.
func (t *Transform) Model() *lin.M4 { return &t.model }

// ModelInverse returns the cached inverse model matrix.
// Valid after UpdateMatrices.
func (t *Transform) ModelInverse() *lin.M4 { return &t.inverse }
