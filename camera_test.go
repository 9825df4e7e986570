// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"testing"

	"github.com/gazed/trace/math/lin"
)

func TestPinholeThroughPixelCenters(t *testing.T) {
	// For a pinhole camera and zero sub-pixel offset the ray must
	// pass through the center of its pixel's viewport cell.
	cam := NewCamera()
	cam.Position = lin.V3{Z: 2}
	cam.LookAt = lin.V3{}
	cam.FOV = 60
	cam.FocusDistance = 2
	rng := lin.NewXoshiro256SS(1)

	const w, h = 64, 64
	cam.Initialize(w, h)

	for _, px := range [][2]int{{0, 0}, {31, 31}, {63, 0}, {12, 50}} {
		ray := cam.CreateRay(px[0], px[1], lin.V2{}, rng)
		if ray.Origin != cam.Position {
			t.Fatalf("Pinhole rays start at the camera position")
		}

		// Advance to the focus plane z=0 and re-derive the pixel.
		tPlane := -ray.Origin.Z / ray.Dir.Z
		p := ray.At(tPlane)
		back := p.Sub(cam.gridOrigin)
		gotX := back.Dot(cam.pixelDeltaU) / cam.pixelDeltaU.Len2()
		gotY := back.Dot(cam.pixelDeltaV) / cam.pixelDeltaV.Len2()
		if lin.Abs(gotX-float32(px[0])) > 0.01 || lin.Abs(gotY-float32(px[1])) > 0.01 {
			t.Errorf("Pixel %v ray crossed the plane at %f,%f", px, gotX, gotY)
		}
	}
}

func TestCameraCenterRay(t *testing.T) {
	cam := NewCamera()
	cam.Position = lin.V3{Z: 2}
	cam.LookAt = lin.V3{}
	cam.FocusDistance = 2
	rng := lin.NewXoshiro256SS(2)
	cam.Initialize(63, 63) // Odd size: pixel 31,31 is the exact center.

	ray := cam.CreateRay(31, 31, lin.V2{}, rng)
	dir := ray.Dir.Unit()
	if !aeqV3(dir, lin.V3{Z: -1}) {
		t.Errorf("Center ray direction got %v wanted -Z", dir)
	}
}

func TestCameraAspect(t *testing.T) {
	cam := NewCamera()
	cam.Position = lin.V3{Z: 1}
	cam.LookAt = lin.V3{}
	cam.FOV = 90
	cam.FocusDistance = 1
	cam.Initialize(200, 100)

	// FOV is vertical: a 2:1 image spans twice the world width.
	du := cam.pixelDeltaU.Len() * 200
	dv := cam.pixelDeltaV.Len() * 100
	if !lin.Aeq(du, 2*dv) {
		t.Errorf("Viewport %f x %f is not 2:1", du, dv)
	}
	if !lin.Aeq(dv, 2) { // 2*tan(45°)*dist = 2.
		t.Errorf("Viewport height got %f wanted 2", dv)
	}
}

func TestDefocusDiskOrigins(t *testing.T) {
	cam := NewCamera()
	cam.Position = lin.V3{Z: 2}
	cam.LookAt = lin.V3{}
	cam.DefocusAngle = 10
	cam.FocusDistance = 2
	rng := lin.NewXoshiro256SS(4)
	cam.Initialize(32, 32)

	moved := 0
	maxRadius := cam.FocusDistance * lin.Tan(lin.Rad(10)/2)
	for i := 0; i < 200; i++ {
		ray := cam.CreateRay(16, 16, lin.V2{}, rng)
		off := ray.Origin.Sub(cam.Position)
		if off.Len() > maxRadius+lin.Epsilon {
			t.Fatalf("Aperture sample outside the defocus disk: %f", off.Len())
		}
		if off.Len() > 0 {
			moved++
		}
	}
	if moved == 0 {
		t.Errorf("Defocus camera never jittered its origin")
	}
}
