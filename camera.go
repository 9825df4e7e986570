// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// Camera is a thin-lens perspective camera. The public fields
// describe the view; Initialize derives the per-pixel grid vectors
// from them once per frame, before any rays are generated.
//
// DefocusAngle 0 is a pinhole camera. Otherwise ray origins are
// jittered over an aperture disk so that geometry away from the focus
// distance blurs.
type Camera struct {
	Position lin.V3
	LookAt   lin.V3
	Up       lin.V3
	FOV      float32 // Vertical field of view, degrees.

	DefocusAngle  float32 // Aperture cone angle, degrees.
	FocusDistance float32

	// Derived by Initialize.
	pixelDeltaU  lin.V3 // World step right one pixel.
	pixelDeltaV  lin.V3 // World step down one pixel.
	gridOrigin   lin.V3 // Center of pixel 0,0.
	defocusDiskU lin.V3
	defocusDiskV lin.V3
}

// NewCamera returns a pinhole camera at the origin looking down
// negative Z with a 90 degree field of view.
func NewCamera() *Camera {
	return &Camera{
		LookAt:        lin.V3{Z: -1},
		Up:            lin.V3{Y: 1},
		FOV:           90,
		FocusDistance: 10,
	}
}

// Initialize derives the pixel grid for the given image size.
// Called once per frame by the renderer.
func (c *Camera) Initialize(width, height int) {
	aspect := float32(width) / float32(height)
	viewportH := 2 * c.FocusDistance * lin.Tan(lin.Rad(c.FOV)/2)
	viewportW := aspect * viewportH

	// Orthonormal camera basis: w back, u right, v up.
	w := c.Position.Sub(c.LookAt).Unit()
	u := c.Up.Cross(w).Unit()
	v := w.Cross(u)

	viewportU := u.Scale(viewportW)
	viewportV := v.Scale(-viewportH)
	c.pixelDeltaU = viewportU.Scale(1 / float32(width))
	c.pixelDeltaV = viewportV.Scale(1 / float32(height))

	c.gridOrigin = c.Position.
		Sub(w.Scale(c.FocusDistance)).
		Sub(viewportU.Scale(0.5)).
		Sub(viewportV.Scale(0.5)).
		Add(c.pixelDeltaU.Scale(0.5)).
		Add(c.pixelDeltaV.Scale(0.5))

	defocusRadius := c.FocusDistance * lin.Tan(lin.Rad(c.DefocusAngle)/2)
	c.defocusDiskU = u.Scale(defocusRadius)
	c.defocusDiskV = v.Scale(defocusRadius)
}

// CreateRay returns the primary ray for a pixel and a sub-pixel
// offset in [-0.5, 0.5]². The direction is not normalized; ray
// parameters measure multiples of the origin-to-viewport distance.
func (c *Camera) CreateRay(px, py int, offset lin.V2, rng *lin.Xoshiro256SS) Ray {
	pixelCenter := c.gridOrigin.
		Add(c.pixelDeltaU.Scale(float32(px))).
		Add(c.pixelDeltaV.Scale(float32(py)))
	samplePoint := pixelCenter.
		Add(c.pixelDeltaU.Scale(offset.X)).
		Add(c.pixelDeltaV.Scale(offset.Y))

	origin := c.Position
	if c.DefocusAngle > 0 {
		d := rng.InUnitDiskV2()
		origin = origin.Add(c.defocusDiskU.Scale(d.X)).Add(c.defocusDiskV.Scale(d.Y))
	}
	return NewRay(origin, samplePoint.Sub(origin))
}
