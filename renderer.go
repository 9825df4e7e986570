// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// renderer.go drives frames: prepare the scene once, then accumulate
// path samples into the output textures in parallel over scanlines.

import (
	"sync"

	"github.com/gazed/trace/math/lin"
)

// OutputChannel is a bitmask selecting which textures a render
// produces.
type OutputChannel uint32

// The available output channels.
const (
	ChanColor    OutputChannel = 1 << iota // Linear HDR radiance.
	ChanDepth                              // Reverse depth, 0 at infinity.
	ChanNormal                             // World space shading normal.
	ChanAlbedo                             // Material base color.
	ChanEmission                           // Material emission.

	// Diagnostic heat maps of traversal work per primary ray.
	ChanAABBTests
	ChanTriTests
)

// ChanDenoise enables the channels Intel OIDN style denoisers take
// as guides alongside the color image.
const ChanDenoise = ChanColor | ChanNormal | ChanAlbedo

// Output holds one texture per enabled channel. Disabled channels
// are zero-size textures, not nil, so callers can test Empty without
// nil checks.
type Output struct {
	Color    *Texture[lin.V3]
	Depth    *Texture[float32]
	Normal   *Texture[lin.V3]
	Albedo   *Texture[lin.V3]
	Emission *Texture[lin.V3]

	AABBTests *Texture[float32]
	TriTests  *Texture[float32]
}

// SampleCallback observes render progress once per accumulated
// sample. It runs on the frame goroutine with no workers active.
type SampleCallback func(out *Output, sampleNum int)

// Renderer accumulates Monte-Carlo path samples into images.
// A renderer may be reused across frames and worlds; it holds no
// scene state between RenderFrame calls.
type Renderer struct {
	conf Config

	// Per-frame state, valid only inside RenderFrame.
	world  *World
	camera *Camera
}

// NewRenderer returns a renderer with the given attribute overrides
// applied over the defaults.
func NewRenderer(attrs ...Attr) *Renderer {
	conf := configDefaults
	conf.workers = defaultWorkers()
	for _, attr := range attrs {
		attr(&conf)
	}
	return &Renderer{conf: conf}
}

// RenderFrame renders the world as seen by the camera and returns
// the output textures. The scene is prepared exactly once: every
// transform cache refresh and spatial index build happens inside
// FrameBegin before the first worker starts, after which the
// hierarchy is read-only.
func (r *Renderer) RenderFrame(world *World, camera *Camera) (*Output, error) {
	r.world, r.camera = world, camera
	defer func() { r.world, r.camera = nil, nil }()

	camera.Initialize(r.conf.width, r.conf.height)
	if err := world.Hierarchy.FrameBegin(); err != nil {
		return nil, err
	}

	out := r.newOutput()
	if r.conf.channels == 0 {
		return out, nil
	}

	for sampleNum := 1; sampleNum <= r.conf.samples; sampleNum++ {
		r.sampleFrame(out, sampleNum)
		if r.conf.onSample != nil {
			r.conf.onSample(out, sampleNum)
		}
	}
	return out, nil
}

// newOutput allocates the enabled channels at image size and the
// disabled ones at zero size.
func (r *Renderer) newOutput() *Output {
	w, h := r.conf.width, r.conf.height
	dim := func(c OutputChannel) (int, int) {
		if r.conf.channels&c != 0 {
			return w, h
		}
		return 0, 0
	}
	out := &Output{}
	out.Color = NewTexture[lin.V3](dim(ChanColor))
	out.Depth = NewTexture[float32](dim(ChanDepth))
	out.Normal = NewTexture[lin.V3](dim(ChanNormal))
	out.Albedo = NewTexture[lin.V3](dim(ChanAlbedo))
	out.Emission = NewTexture[lin.V3](dim(ChanEmission))
	out.AABBTests = NewTexture[float32](dim(ChanAABBTests))
	out.TriTests = NewTexture[float32](dim(ChanTriTests))
	return out
}

// sampleFrame adds one sample to every pixel, parallel over
// scanlines. Each scanline's random stream is seeded from the base
// seed, the sample number, and the row, so the image is identical
// however the rows land on workers.
func (r *Renderer) sampleFrame(out *Output, sampleNum int) {
	rows := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < r.conf.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				r.sampleScanline(out, sampleNum, y)
			}
		}()
	}
	for y := 0; y < r.conf.height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
}

// sampleScanline runs the path integrator once per pixel of row y and
// folds the results into the running means.
func (r *Renderer) sampleScanline(out *Output, sampleNum, y int) {
	rng := lin.NewXoshiro256SS(r.conf.seed + uint64(sampleNum)<<32 + uint64(y))
	chans := r.conf.channels

	for x := 0; x < r.conf.width; x++ {
		jitter := lin.V2{X: rng.Range(-0.5, 0.5), Y: rng.Range(-0.5, 0.5)}
		ray := r.camera.CreateRay(x, y, jitter, rng)
		sample := r.samplePath(&ray, rng)

		if chans&ChanColor != 0 {
			out.Color.Set(x, y, runningMeanV3(out.Color.At(x, y), sample.Color, sampleNum))
		}
		if chans&ChanDepth != 0 {
			out.Depth.Set(x, y, runningMean(out.Depth.At(x, y), sample.Depth, sampleNum))
		}
		if chans&ChanNormal != 0 {
			out.Normal.Set(x, y, runningMeanV3(out.Normal.At(x, y), sample.Normal, sampleNum))
		}
		if chans&ChanAlbedo != 0 {
			out.Albedo.Set(x, y, runningMeanV3(out.Albedo.At(x, y), sample.Albedo, sampleNum))
		}
		if chans&ChanEmission != 0 {
			out.Emission.Set(x, y, runningMeanV3(out.Emission.At(x, y), sample.Emission, sampleNum))
		}
		if chans&ChanAABBTests != 0 {
			out.AABBTests.Set(x, y, runningMean(out.AABBTests.At(x, y), sample.AABBTests, sampleNum))
		}
		if chans&ChanTriTests != 0 {
			out.TriTests.Set(x, y, runningMean(out.TriTests.At(x, y), sample.TriTests, sampleNum))
		}
	}
}

// runningMean folds the n'th sample into the mean of the previous
// n-1 so the output is correctly scaled after every sample. A NaN
// sample keeps the previous mean and a NaN mean is replaced by the
// sample, stopping one bad path from poisoning a pixel.
func runningMean(prev, sample float32, n int) float32 {
	if n == 1 {
		return sample
	}
	if lin.IsNaN(sample) {
		return prev
	}
	if lin.IsNaN(prev) {
		return sample
	}
	return (prev*float32(n-1) + sample) / float32(n)
}

// runningMeanV3 is runningMean per component, with whole-vector NaN
// guards.
func runningMeanV3(prev, sample lin.V3, n int) lin.V3 {
	if n == 1 {
		return sample
	}
	if sample.HasNaN() {
		return prev
	}
	if prev.HasNaN() {
		return sample
	}
	return prev.Scale(float32(n - 1)).Add(sample).Scale(1 / float32(n))
}
