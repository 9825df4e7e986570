// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"image"
	_ "image/jpeg" // Register JPEG decoding.
	_ "image/png"  // Register PNG decoding.
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gazed/trace"
	"github.com/gazed/trace/math/lin"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp" // Register BMP decoding.
)

// Img decodes a PNG, JPEG, or BMP image into an RGB texture with
// channels normalized to [0, 1]. Radiance HDR files keep their raw
// linear float range instead; see Hdr. Set flip to mirror the image
// vertically during load, for assets authored bottom-up.
func Img(r io.Reader, flip bool) (*trace.Texture[lin.V3], error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	if flip {
		img = imaging.FlipV(img)
	}

	b := img.Bounds()
	tex := trace.NewTexture[lin.V3](b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			cr, cg, cb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Set(x, y, lin.V3{
				X: float32(cr) / 0xffff,
				Y: float32(cg) / 0xffff,
				Z: float32(cb) / 0xffff,
			})
		}
	}
	return tex, nil
}

// ImgGray decodes an image into a single channel texture normalized
// to [0, 1], keeping the red channel. Used for alpha masks.
func ImgGray(r io.Reader, flip bool) (*trace.Texture[float32], error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	if flip {
		img = imaging.FlipV(img)
	}

	b := img.Bounds()
	tex := trace.NewTexture[float32](b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			cr, _, _, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			tex.Set(x, y, float32(cr)/0xffff)
		}
	}
	return tex, nil
}

// loadColor opens and decodes a color texture by asset name,
// dispatching HDR files to the Radiance decoder.
func loadColor(loc *Locator, name string) (*trace.Texture[lin.V3], error) {
	file, err := loc.GetResource(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.HasSuffix(strings.ToLower(name), ".hdr") {
		return Hdr(file)
	}
	return Img(file, false)
}

// loadGray opens and decodes a single channel texture by asset name.
func loadGray(loc *Locator, name string) (*trace.Texture[float32], error) {
	file, err := loc.GetResource(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ImgGray(file, false)
}
