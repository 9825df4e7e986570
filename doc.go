// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package trace is an offline Monte-Carlo path tracer. It renders
// physically plausible images of triangle meshes and analytic shapes
// lit by emissive surfaces and an environment map.
//
// A render needs three things: a World holding the hittable scene
// hierarchy, a Camera, and a Renderer configured with functional
// options:
//
//	world := trace.NewWorld()
//	world.Hierarchy.Add(trace.NewSphere(lin.V3{Z: -1}, 0.5, trace.NewLambert(red)))
//
//	cam := trace.NewCamera()
//	r := trace.NewRenderer(trace.Size(640, 480), trace.Samples(128))
//	out, err := r.RenderFrame(world, cam)
//
// RenderFrame prepares the scene exactly once (transform caches,
// mesh spatial indexes), then accumulates samples in parallel over
// scanlines into running per-pixel means, so the optional per-sample
// callback always observes a correctly scaled image. Output channels
// beyond color (depth, normal, albedo, emission) feed external
// denoisers.
//
// Asset decoding lives in the load subpackage and linear math,
// including the deterministic random streams that make renders
// reproducible, in math/lin.
package trace
