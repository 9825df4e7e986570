// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"fmt"

	"github.com/gazed/trace/math/lin"
)

// Denoiser post-processes a noisy render using the albedo and normal
// guide channels, matching the contract of Intel OIDN's "RT" filter:
// three float RGB buffers in, linear and HDR, one buffer out.
//
// Denoising libraries are external; the engine only promises to
// produce compatible guide channels (see ChanDenoise).
type Denoiser interface {
	Denoise(color, albedo, normal *Texture[lin.V3]) (*Texture[lin.V3], error)
}

// NopDenoiser satisfies Denoiser without changing the image. It
// stands in where a real denoiser binding is not linked, keeping the
// output file set identical either way.
type NopDenoiser struct{}

// Denoise returns a copy of the color texture unchanged.
func (NopDenoiser) Denoise(color, albedo, normal *Texture[lin.V3]) (*Texture[lin.V3], error) {
	if color.Empty() || albedo.Empty() || normal.Empty() {
		return nil, fmt.Errorf("denoise needs color, albedo, and normal channels")
	}
	out := NewTexture[lin.V3](color.Width(), color.Height())
	copy(out.Data(), color.Data())
	return out, nil
}
