// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// post.go converts linear HDR render output into displayable 8-bit
// sRGB images.

import (
	"image"

	"github.com/gazed/trace/math/lin"
)

// ACES applies the filmic tone mapping curve approximation by
// Krzysztof Narkowicz, mapping linear HDR radiance into [0, 1].
// https://knarkowicz.wordpress.com/2016/01/06/aces-filmic-tone-mapping-curve/
func ACES(color lin.V3) lin.V3 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	v := color.Scale(0.6)
	num := v.Mul(v.Scale(a).Add(lin.V3{X: b, Y: b, Z: b}))
	den := v.Mul(v.Scale(c).Add(lin.V3{X: d, Y: d, Z: d})).Add(lin.V3{X: e, Y: e, Z: e})
	return lin.V3{
		X: lin.Clamp(num.X/den.X, 0, 1),
		Y: lin.Clamp(num.Y/den.Y, 0, 1),
		Z: lin.Clamp(num.Z/den.Z, 0, 1),
	}
}

// ToSRGB tone maps, gamma corrects, and quantizes one linear HDR
// color to 8-bit sRGB.
func ToSRGB(color lin.V3, gamma float32) (r, g, b uint8) {
	v := ACES(color)
	ig := 1 / gamma
	v = lin.V3{X: lin.Pow(v.X, ig), Y: lin.Pow(v.Y, ig), Z: lin.Pow(v.Z, ig)}
	return uint8(lin.Clamp(v.X, 0, 1) * 255),
		uint8(lin.Clamp(v.Y, 0, 1) * 255),
		uint8(lin.Clamp(v.Z, 0, 1) * 255)
}

// ToNRGBA tone maps a linear HDR texture into a standard image for
// the encoders. Gamma 2.2 is the usual display target.
func ToNRGBA(t *Texture[lin.V3], gamma float32) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width(), t.Height()))
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			r, g, b := ToSRGB(t.At(x, y), gamma)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = r
			img.Pix[i+1] = g
			img.Pix[i+2] = b
			img.Pix[i+3] = 255
		}
	}
	return img
}

// VecToNRGBA encodes a direction texture, remapping each component
// from [-1, 1] to [0, 1]. Used to preview normal channels.
func VecToNRGBA(t *Texture[lin.V3]) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width(), t.Height()))
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			v := t.At(x, y).Scale(0.5).Add(lin.V3{X: 0.5, Y: 0.5, Z: 0.5})
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(lin.Clamp(v.X, 0, 1) * 255)
			img.Pix[i+1] = uint8(lin.Clamp(v.Y, 0, 1) * 255)
			img.Pix[i+2] = uint8(lin.Clamp(v.Z, 0, 1) * 255)
			img.Pix[i+3] = 255
		}
	}
	return img
}

// GrayToNRGBA encodes a scalar texture as grayscale, scaling the
// data so its largest value is white. Used for depth and the
// traversal heat maps.
func GrayToNRGBA(t *Texture[float32]) *image.NRGBA {
	var peak float32
	for _, v := range t.Data() {
		if !lin.IsNaN(v) {
			peak = max(peak, v)
		}
	}
	scale := float32(1)
	if peak > 0 {
		scale = 1 / peak
	}

	img := image.NewNRGBA(image.Rect(0, 0, t.Width(), t.Height()))
	for y := 0; y < t.Height(); y++ {
		for x := 0; x < t.Width(); x++ {
			g := uint8(lin.Clamp(t.At(x, y)*scale, 0, 1) * 255)
			i := img.PixOffset(x, y)
			img.Pix[i+0] = g
			img.Pix[i+1] = g
			img.Pix[i+2] = g
			img.Pix[i+3] = 255
		}
	}
	return img
}
