// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

// integrator.go turns intersection events into radiance estimates.
// One call of samplePath follows one camera ray through the scene
// until it is absorbed, escapes, or runs out of bounces.

import (
	"github.com/gazed/trace/math/lin"
)

// maxAlphaPasses bounds consecutive alpha-masked pass-throughs so a
// ray inside stacked fully transparent surfaces cannot loop forever.
const maxAlphaPasses = 64

// PathSample is the result of following one primary ray: the color
// estimate plus the auxiliary channel values denoisers consume.
// Auxiliaries default to NaN, which the running mean treats as
// "keep the previous value".
type PathSample struct {
	Color lin.V3

	Depth float32 // Reverse depth: 1/(distance+1), 0 at infinity.

	// Surface description at the first non-transmission bounce, so
	// glass shows the first surface behind it.
	Normal   lin.V3
	Albedo   lin.V3
	Emission lin.V3

	// Traversal work for the primary ray, for the heat map channels.
	AABBTests float32
	TriTests  float32
}

// samplePath integrates radiance along a primary ray: repeatedly find
// the closest hit, ask its material where the ray continues, and
// accumulate emission weighted by the attenuation so far.
func (r *Renderer) samplePath(ray *Ray, rng *lin.Xoshiro256SS) PathSample {
	nan := lin.V3{X: lin.NaN(), Y: lin.NaN(), Z: lin.NaN()}
	out := PathSample{Normal: nan, Albedo: nan, Emission: nan}

	attenuation := lin.V3{X: 1, Y: 1, Z: 1}
	incomingLight := lin.V3{}
	sampledNonTransmission := false

	for bounceNum := 0; bounceNum <= r.conf.maxBounces; bounceNum++ {
		hit, scatter := r.sampleRay(ray, rng)

		incomingLight = incomingLight.Add(attenuation.Mul(scatter.Emission))
		attenuation = attenuation.Mul(scatter.Albedo)

		if bounceNum == 0 {
			if lin.IsInf(ray.T.Max) {
				out.Depth = 0
			} else {
				out.Depth = 1 / (ray.T.Max*ray.Dir.Len() + 1)
			}
			out.AABBTests = float32(ray.AABBTests)
			out.TriTests = float32(ray.TriTests)
		}

		if !sampledNonTransmission && !scatter.IsTransmission {
			// The first non-refractive surface is what a denoiser
			// wants to see in the guide channels.
			sampledNonTransmission = true
			out.Normal = hit.Normal
			out.Albedo = scatter.Albedo
			out.Emission = scatter.Emission
		}

		if !scatter.DidScatter {
			break // Absorbed.
		}
		*ray = continuedRay(ray, hit.Point, scatter.Dir)
	}

	out.Color = incomingLight
	return out
}

// sampleRay finds the closest scattering surface along the ray. Rays
// that escape the scene are given a synthesized environment hit.
// Alpha-masked hits restart the ray from the masked point with the
// same direction and do not count as a bounce.
func (r *Renderer) sampleRay(ray *Ray, rng *lin.Xoshiro256SS) (HitRecord, ScatterOutput) {
	for pass := 0; pass < maxAlphaPasses; pass++ {
		hit := r.world.Hierarchy.Hit(ray)

		if !hit.Hit {
			hit.Hit = true
			hit.Material = r.world.Environment
			hit.Normal = ray.Dir.Unit().Neg()
		}

		// The hit point is derived once, here, from the outermost
		// ray so instance transform chains cannot accumulate
		// point-recomputation error.
		hit.Point = ray.At(ray.T.Max)

		scatter := hit.Material.Scatter(ray, &hit, rng)
		if !hit.Hit {
			// Alpha-masked: continue through from the masked point.
			*ray = continuedRay(ray, hit.Point, ray.Dir)
			continue
		}
		return hit, scatter
	}

	// Too many masked layers: treat as absorbed.
	return HitRecord{Hit: true}, ScatterOutput{}
}

// continuedRay starts a fresh ray at origin along dir, carrying over
// the traversal counters of the ray it extends.
func continuedRay(prev *Ray, origin, dir lin.V3) Ray {
	next := NewRay(origin, dir)
	next.AABBTests = prev.AABBTests
	next.TriTests = prev.TriTests
	return next
}
