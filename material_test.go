// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"testing"

	"github.com/gazed/trace/math/lin"
)

func TestLambertScatter(t *testing.T) {
	rng := lin.NewXoshiro256SS(1)
	m := NewLambert(lin.V3{X: 0.5, Y: 0.25, Z: 0.125})
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}
	r := NewRay(lin.V3{}, lin.V3{Y: -1})

	for i := 0; i < 200; i++ {
		out := m.Scatter(&r, &hit, rng)
		if !out.DidScatter {
			t.Fatalf("Lambert always scatters")
		}
		if !lin.Aeq(out.Dir.Len(), 1) {
			t.Fatalf("Scatter direction must be unit, got %f", out.Dir.Len())
		}
		if out.Dir.Dot(hit.Normal) < 0 {
			t.Fatalf("Lambert scatter went below the surface: %v", out.Dir)
		}
		if out.Albedo != m.Albedo {
			t.Fatalf("Albedo got %v", out.Albedo)
		}
	}
}

func TestMetalMirror(t *testing.T) {
	rng := lin.NewXoshiro256SS(2)
	m := NewMetal(lin.V3{X: 1, Y: 1, Z: 1}, 0)
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}
	r := NewRay(lin.V3{Y: 1}, lin.V3{X: 1, Y: -1})

	out := m.Scatter(&r, &hit, rng)
	if !out.DidScatter {
		t.Fatalf("Grazing mirror reflection should scatter")
	}
	want := lin.V3{X: 1, Y: 1}.Unit()
	if !aeqV3(out.Dir, want) {
		t.Errorf("Mirror reflection got %v wanted %v", out.Dir, want)
	}
}

func TestMetalAbsorbsBelowSurface(t *testing.T) {
	// Heavy fuzz can push the reflection under the surface, which
	// counts as absorbed.
	rng := lin.NewXoshiro256SS(3)
	m := NewMetal(lin.V3{X: 1, Y: 1, Z: 1}, 1)
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}

	absorbed := 0
	for i := 0; i < 500; i++ {
		r := NewRay(lin.V3{Y: 1}, lin.V3{X: 1, Y: -0.05})
		if out := m.Scatter(&r, &hit, rng); !out.DidScatter {
			absorbed++
		}
	}
	if absorbed == 0 {
		t.Errorf("Grazing fuzzy metal never absorbed in 500 tries")
	}
}

func TestDielectricTIR(t *testing.T) {
	// From inside glass at a grazing angle the refraction attempt
	// must totally internally reflect, deterministically.
	rng := lin.NewXoshiro256SS(4)
	m := NewDielectric(1.5)

	// Back face hit (ray leaving glass): sin > 1/ratio forces TIR.
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}
	incoming := lin.V3{X: 1, Y: 0.1}.Unit() // Hits the underside.
	r := NewRay(lin.V3{}, incoming)

	for i := 0; i < 50; i++ {
		out := m.Scatter(&r, &hit, rng)
		if !out.DidScatter || !out.IsTransmission {
			t.Fatalf("Dielectric always scatters as transmission")
		}
		want := incoming.Reflect(lin.V3{Y: -1})
		if !aeqV3(out.Dir, want.Unit()) {
			t.Fatalf("TIR expected pure reflection %v, got %v", want.Unit(), out.Dir)
		}
	}
}

func TestDielectricSchlickRatio(t *testing.T) {
	// The observed reflect/refract split must track Schlick's
	// formula within sampling variance.
	rng := lin.NewXoshiro256SS(5)
	m := NewDielectric(1.5)
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}
	incoming := lin.V3{X: 1, Y: -1}.Unit() // 45 degrees onto the front face.

	const n = 20000
	reflected := 0
	for i := 0; i < n; i++ {
		r := NewRay(lin.V3{Y: 1}, incoming)
		out := m.Scatter(&r, &hit, rng)
		if out.Dir.Y > 0 {
			reflected++
		}
	}

	cosTheta := incoming.Neg().Dot(lin.V3{Y: 1})
	want := schlick(cosTheta, 1/1.5)
	got := float32(reflected) / n
	if lin.Abs(got-want) > 0.01 {
		t.Errorf("Reflect fraction got %f wanted %f", got, want)
	}
}

func TestEnvironmentConstant(t *testing.T) {
	rng := lin.NewXoshiro256SS(6)
	m := &Material{
		Kind:              Environment,
		Emission:          lin.V3{X: 0.5, Y: 0.5, Z: 0.5},
		EmissionIntensity: 2,
	}
	hit := HitRecord{Hit: true, Normal: lin.V3{Z: 1}}
	r := NewRay(lin.V3{}, lin.V3{Z: -1})

	out := m.Scatter(&r, &hit, rng)
	if out.DidScatter {
		t.Errorf("Environment never scatters")
	}
	if !aeqV3(out.Emission, lin.V3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("Environment emission got %v", out.Emission)
	}
}

func TestEnvironmentEquirect(t *testing.T) {
	rng := lin.NewXoshiro256SS(7)

	// A 4x2 map with a distinct top row: rays pointing up must
	// sample the top row.
	env := NewTexture[lin.V3](4, 2)
	for x := 0; x < 4; x++ {
		env.Set(x, 0, lin.V3{X: 1}) // Top: red.
		env.Set(x, 1, lin.V3{Z: 1}) // Bottom: blue.
	}
	m := &Material{Kind: Environment, EmissionIntensity: 1, EmissionTexture: env}

	up := NewRay(lin.V3{}, lin.V3{Y: 1})
	hit := HitRecord{Hit: true}
	out := m.Scatter(&up, &hit, rng)
	if !aeqV3(out.Emission, lin.V3{X: 1}) {
		t.Errorf("Up ray sampled %v wanted red", out.Emission)
	}

	down := NewRay(lin.V3{}, lin.V3{Y: -1})
	out = m.Scatter(&down, &hit, rng)
	if !aeqV3(out.Emission, lin.V3{Z: 1}) {
		t.Errorf("Down ray sampled %v wanted blue", out.Emission)
	}
}

func TestAlphaMask(t *testing.T) {
	rng := lin.NewXoshiro256SS(8)

	// Left half transparent, right half opaque.
	alpha := NewTexture[float32](2, 1)
	alpha.Set(0, 0, 0)
	alpha.Set(1, 0, 1)
	m := NewLambert(lin.V3{X: 1})
	m.AlphaTexture = alpha

	r := NewRay(lin.V3{}, lin.V3{Z: -1})
	hit := HitRecord{Hit: true, Normal: lin.V3{Z: 1}, UV: lin.V2{X: 0, Y: 0}}
	out := m.Scatter(&r, &hit, rng)
	if hit.Hit || out.DidScatter {
		t.Errorf("Transparent texel must mask the hit out")
	}

	hit = HitRecord{Hit: true, Normal: lin.V3{Z: 1}, UV: lin.V2{X: 1, Y: 0}}
	out = m.Scatter(&r, &hit, rng)
	if !hit.Hit || !out.DidScatter {
		t.Errorf("Opaque texel must keep the hit")
	}
}

func TestNormalMap(t *testing.T) {
	rng := lin.NewXoshiro256SS(9)

	// A map encoding the tangent direction: the shading normal must
	// flip onto the tangent.
	nm := NewTexture[lin.V3](1, 1)
	nm.Set(0, 0, lin.V3{X: 1, Y: 0.5, Z: 0.5}) // (1,0,0) after decode.
	m := NewLambert(lin.V3{X: 1})
	m.NormalTexture = nm

	hit := HitRecord{
		Hit:       true,
		Normal:    lin.V3{Z: 1},
		Tangent:   lin.V3{X: 1},
		Bitangent: lin.V3{Y: 1},
	}
	r := NewRay(lin.V3{}, lin.V3{Z: -1})
	m.Scatter(&r, &hit, rng)
	if !aeqV3(hit.Normal, lin.V3{X: 1}) {
		t.Errorf("Mapped normal got %v wanted +X", hit.Normal)
	}
}

func TestUnknownKindFallsBack(t *testing.T) {
	rng := lin.NewXoshiro256SS(10)
	m := &Material{Name: "mystery", Kind: Kind(200), Albedo: lin.V3{X: 1}}
	hit := HitRecord{Hit: true, Normal: lin.V3{Y: 1}}
	r := NewRay(lin.V3{}, lin.V3{Y: -1})
	out := m.Scatter(&r, &hit, rng)
	if !out.DidScatter {
		t.Errorf("Unknown kinds fall back to diffuse so renders complete")
	}
}

func TestSchlickBounds(t *testing.T) {
	// Normal incidence matches the analytic Fresnel value and
	// grazing incidence approaches full reflection.
	if got := schlick(1, 1/1.5); !lin.Aeq(got, 0.04) {
		t.Errorf("Normal incidence reflectance got %f wanted 0.04", got)
	}
	if got := schlick(0, 1/1.5); got < 0.99 {
		t.Errorf("Grazing reflectance got %f wanted ~1", got)
	}
}
