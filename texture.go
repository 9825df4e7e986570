// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// Texel is the set of channel layouts a texture can store: scalar
// masks, 2D offsets, RGB colors, and tangent style 4-vectors.
type Texel interface {
	float32 | lin.V2 | lin.V3 | lin.V4
}

// Texture is a 2D image sampled by materials and written by the
// renderer. Storage is row major: row y starts at offset y*width.
// Textures are immutable once loaded; output textures are written
// only by the pixel's owning worker.
type Texture[T Texel] struct {
	width, height int
	data          []T
}

// NewTexture returns a zeroed texture of the given size. A zero by
// zero texture is valid and represents a disabled output channel.
func NewTexture[T Texel](width, height int) *Texture[T] {
	return &Texture[T]{width: width, height: height, data: make([]T, width*height)}
}

// NewTextureFrom wraps existing row major pixel data.
// The data length must be width*height.
func NewTextureFrom[T Texel](width, height int, data []T) *Texture[T] {
	return &Texture[T]{width: width, height: height, data: data}
}

// Width returns the texture width in pixels.
func (t *Texture[T]) Width() int { return t.width }

// Height returns the texture height in pixels.
func (t *Texture[T]) Height() int { return t.height }

// Empty returns true for zero sized textures.
func (t *Texture[T]) Empty() bool { return t.width == 0 || t.height == 0 }

// Data returns the underlying row major pixel array.
func (t *Texture[T]) Data() []T { return t.data }

// At returns the texel at integer coordinates x, y.
// Coordinates repeat: out of range indices wrap around.
func (t *Texture[T]) At(x, y int) T {
	x = mod(x, t.width)
	y = mod(y, t.height)
	return t.data[y*t.width+x]
}

// Set writes the texel at integer coordinates x, y.
func (t *Texture[T]) Set(x, y int, v T) {
	t.data[y*t.width+x] = v
}

// Sample returns the texel at uv scaled by size-1 and truncated to
// integers; indices outside the texture repeat.
func (t *Texture[T]) Sample(uv lin.V2) T {
	return t.At(int(uv.X*float32(t.width-1)), int(uv.Y*float32(t.height-1)))
}

// SampleInterpolated returns the bilinear interpolation of the four
// texels around uv. An axis whose fractional position is within snap
// of zero takes no neighbour, so the filter never reads past the data
// even exactly on the boundary; a uv that lands on a texel center takes
// the fast unfiltered path.
func (t *Texture[T]) SampleInterpolated(uv lin.V2) T {
	p := uv.Mul(lin.V2{X: float32(t.width - 1), Y: float32(t.height - 1)})
	x0, y0 := lin.Floor(p.X), lin.Floor(p.Y)
	fx, fy := p.X-x0, p.Y-y0

	const snap = 0.001
	if fx <= snap && fy <= snap {
		return t.At(int(x0), int(y0))
	}

	ix, iy := int(x0), int(y0)
	ix1, iy1 := ix+1, iy+1
	if fx <= snap {
		ix1 = ix
	}
	if fy <= snap {
		iy1 = iy
	}
	top := lerpTexel(t.At(ix, iy), t.At(ix1, iy), fx)
	bottom := lerpTexel(t.At(ix, iy1), t.At(ix1, iy1), fx)
	return lerpTexel(top, bottom, fy)
}

// Clear sets every texel to v.
func (t *Texture[T]) Clear(v T) {
	for i := range t.data {
		t.data[i] = v
	}
}

// mod wraps x into [0, n), handling negative x unlike the
// native remainder operator.
func mod(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}

// lerpTexel blends two texels of any channel layout. The type switch
// compiles to straight line code per instantiation.
func lerpTexel[T Texel](a, b T, s float32) T {
	switch av := any(a).(type) {
	case float32:
		return any(lin.Lerp(av, any(b).(float32), s)).(T)
	case lin.V2:
		bv := any(b).(lin.V2)
		return any(av.Add(bv.Sub(av).Scale(s))).(T)
	case lin.V3:
		return any(av.Lerp(any(b).(lin.V3), s)).(T)
	case lin.V4:
		bv := any(b).(lin.V4)
		return any(av.Add(bv.Add(av.Scale(-1)).Scale(s))).(T)
	}
	return a
}
