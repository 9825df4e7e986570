// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"testing"

	"github.com/gazed/trace/math/lin"
)

func TestTextureRepeat(t *testing.T) {
	tex := NewTexture[float32](2, 2)
	tex.Set(0, 0, 1)
	tex.Set(1, 1, 4)

	if got := tex.At(2, 2); got != 1 {
		t.Errorf("Wrapped index got %f wanted 1", got)
	}
	if got := tex.At(-1, -1); got != 4 {
		t.Errorf("Negative index got %f wanted 4", got)
	}
}

func TestSampleNearest(t *testing.T) {
	tex := NewTexture[lin.V3](2, 1)
	tex.Set(0, 0, lin.V3{X: 1})
	tex.Set(1, 0, lin.V3{Z: 1})

	if got := tex.Sample(lin.V2{X: 0}); got != (lin.V3{X: 1}) {
		t.Errorf("Left sample got %v", got)
	}
	if got := tex.Sample(lin.V2{X: 1}); got != (lin.V3{Z: 1}) {
		t.Errorf("Right sample got %v", got)
	}
}

func TestSampleInterpolated(t *testing.T) {
	tex := NewTexture[float32](3, 1)
	tex.Set(0, 0, 0)
	tex.Set(1, 0, 1)
	tex.Set(2, 0, 0)

	// Halfway between texels 0 and 1: uv 0.25 maps to pixel 0.5.
	if got := tex.SampleInterpolated(lin.V2{X: 0.25, Y: 0}); !lin.Aeq(got, 0.5) {
		t.Errorf("Midpoint sample got %f wanted 0.5", got)
	}

	// Texel centers take the exact value.
	if got := tex.SampleInterpolated(lin.V2{X: 0.5, Y: 0}); got != 1 {
		t.Errorf("Center sample got %f wanted 1", got)
	}
}

func TestSampleBoundary(t *testing.T) {
	// The filter must be stable exactly on the last texel: no reads
	// past the data, no wrap bleeding.
	tex := NewTexture[float32](4, 4)
	tex.Clear(2)
	tex.Set(0, 0, 9) // Would bleed in if uv 1 wrapped.

	if got := tex.SampleInterpolated(lin.V2{X: 1, Y: 1}); got != 2 {
		t.Errorf("Boundary sample got %f wanted 2", got)
	}
	if got := tex.SampleInterpolated(lin.V2{X: 0, Y: 0}); got != 9 {
		t.Errorf("Origin sample got %f wanted 9", got)
	}
}

func TestLerpTexelKinds(t *testing.T) {
	if got := lerpTexel(float32(0), 2, 0.25); got != 0.5 {
		t.Errorf("float32 lerp got %f", got)
	}
	if got := lerpTexel(lin.V2{}, lin.V2{X: 2, Y: 4}, 0.5); got != (lin.V2{X: 1, Y: 2}) {
		t.Errorf("V2 lerp got %v", got)
	}
	if got := lerpTexel(lin.V3{}, lin.V3{X: 2}, 0.5); got != (lin.V3{X: 1}) {
		t.Errorf("V3 lerp got %v", got)
	}
	if got := lerpTexel(lin.V4{}, lin.V4{W: 2}, 0.5); got != (lin.V4{W: 1}) {
		t.Errorf("V4 lerp got %v", got)
	}
}

func TestEmptyTexture(t *testing.T) {
	tex := NewTexture[lin.V3](0, 0)
	if !tex.Empty() {
		t.Errorf("Zero size texture should report empty")
	}
}
