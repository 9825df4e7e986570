// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/gazed/trace"
	"github.com/gazed/trace/math/lin"
	"github.com/pkg/errors"
)

// Hdr decodes a Radiance RGBE (.hdr) image into a linear float RGB
// texture. This is the usual interchange format for equirectangular
// environment maps; values are raw radiance, not normalized.
//
//	https://paulbourke.net/dataformats/pic/
//
// Both flat RGBE scanlines and the adaptive run length encoding are
// handled. The Reader r is expected to be opened and closed by the
// caller.
func Hdr(r io.Reader) (*trace.Texture[lin.V3], error) {
	reader := bufio.NewReader(r)

	// Header: "#?RADIANCE" style magic, attribute lines, blank line.
	magic, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(magic, "#?") {
		return nil, fmt.Errorf("not a radiance file")
	}
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, errors.Wrap(err, "hdr header")
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break // End of header.
		}
		if strings.HasPrefix(line, "FORMAT=") && line != "FORMAT=32-bit_rle_rgbe" {
			return nil, fmt.Errorf("unsupported hdr format %q", line)
		}
	}

	// Resolution line. Only the standard -Y height +X width
	// orientation is supported.
	var width, height int
	resolution, err := reader.ReadString('\n')
	if err != nil {
		return nil, errors.Wrap(err, "hdr resolution")
	}
	if _, err := fmt.Sscanf(resolution, "-Y %d +X %d", &height, &width); err != nil {
		return nil, fmt.Errorf("unsupported hdr orientation %q", strings.TrimSpace(resolution))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bad hdr size %dx%d", width, height)
	}

	tex := trace.NewTexture[lin.V3](width, height)
	scanline := make([]byte, 4*width)
	for y := 0; y < height; y++ {
		if err := readScanline(reader, scanline, width); err != nil {
			return nil, errors.Wrapf(err, "hdr scanline %d", y)
		}
		for x := 0; x < width; x++ {
			tex.Set(x, y, rgbe(scanline[4*x], scanline[4*x+1], scanline[4*x+2], scanline[4*x+3]))
		}
	}
	return tex, nil
}

// readScanline fills one RGBE scanline, detecting the adaptive RLE
// marker 2,2,hi,lo used by files wider than 8 pixels.
func readScanline(r *bufio.Reader, out []byte, width int) error {
	var head [4]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return err
	}

	if head[0] == 2 && head[1] == 2 && int(head[2])<<8|int(head[3]) == width {
		// New style: four separately run length encoded planes.
		for c := 0; c < 4; c++ {
			for x := 0; x < width; {
				n, err := r.ReadByte()
				if err != nil {
					return err
				}
				if n > 128 { // Run of a repeated byte.
					v, err := r.ReadByte()
					if err != nil {
						return err
					}
					for i := 0; i < int(n)-128 && x < width; i++ {
						out[4*x+c] = v
						x++
					}
				} else { // Literal span.
					for i := 0; i < int(n) && x < width; i++ {
						v, err := r.ReadByte()
						if err != nil {
							return err
						}
						out[4*x+c] = v
						x++
					}
				}
			}
		}
		return nil
	}

	// Old style: flat RGBE pixels, with 1,1,1,n repeat markers.
	copy(out[0:4], head[:])
	x := 1
	shift := uint(0)
	for x < width {
		var px [4]byte
		if _, err := io.ReadFull(r, px[:]); err != nil {
			return err
		}
		if px[0] == 1 && px[1] == 1 && px[2] == 1 {
			count := int(px[3]) << shift
			prev := out[4*(x-1) : 4*x]
			for i := 0; i < count && x < width; i++ {
				copy(out[4*x:4*x+4], prev)
				x++
			}
			shift += 8
			continue
		}
		copy(out[4*x:4*x+4], px[:])
		x++
		shift = 0
	}
	return nil
}

// rgbe converts one shared exponent pixel to linear RGB.
func rgbe(r, g, b, e byte) lin.V3 {
	if e == 0 {
		return lin.V3{}
	}
	f := float32(math.Ldexp(1, int(e)-(128+8)))
	return lin.V3{X: float32(r) * f, Y: float32(g) * f, Z: float32(b) * f}
}
