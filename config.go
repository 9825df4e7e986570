// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// config.go reduces the NewRenderer API footprint using functional
// options.
// See: http://dave.cheney.net/2014/10/17/functional-options-for-friendly-apis

import "runtime"

// Config contains the render attributes that can be set before
// rendering a frame.
type Config struct {
	width, height int           // output image size in pixels.
	samples       int           // paths accumulated per pixel.
	maxBounces    int           // scatter events per path.
	channels      OutputChannel // enabled output textures.
	workers       int           // parallel scanline goroutines.
	seed          uint64        // base of the deterministic RNG streams.
	onSample      SampleCallback
}

// configDefaults provides reasonable defaults so a renderer produces
// an image even if no attributes are set.
var configDefaults = Config{
	width:      256,
	height:     256,
	samples:    32,
	maxBounces: 10,
	channels:   ChanColor,
	seed:       1,
}

// Attr defines optional render attributes used to configure a
// renderer.
//
//	r := trace.NewRenderer(
//	   trace.Size(640, 480),
//	   trace.Samples(128),
//	   trace.Bounces(32),
//	)
type Attr func(*Config) // type for attribute overrides

// Size sets the output image size in pixels.
func Size(width, height int) Attr {
	return func(c *Config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
	}
}

// Samples sets how many paths are accumulated per pixel.
func Samples(n int) Attr {
	return func(c *Config) {
		if n > 0 {
			c.samples = n
		}
	}
}

// Bounces sets the maximum number of scatter events per path.
// Zero renders direct visibility only.
func Bounces(n int) Attr {
	return func(c *Config) {
		if n >= 0 {
			c.maxBounces = n
		}
	}
}

// Channels sets which output textures are produced. Disabled
// channels cost nothing.
func Channels(mask OutputChannel) Attr {
	return func(c *Config) { c.channels = mask }
}

// Workers sets the number of parallel scanline goroutines.
// The default is one per CPU.
func Workers(n int) Attr {
	return func(c *Config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// Seed sets the base seed of the per-worker random streams. Renders
// with the same seed, scene, and settings are identical.
func Seed(seed uint64) Attr {
	return func(c *Config) { c.seed = seed }
}

// OnSample registers a callback invoked after each accumulated
// sample with the output buffers quiescent, typically to preview or
// save progress. The running mean keeps the output correctly scaled
// after every sample.
func OnSample(cb SampleCallback) Attr {
	return func(c *Config) { c.onSample = cb }
}

// defaultWorkers returns the worker count used when none is set.
func defaultWorkers() int { return runtime.NumCPU() }
