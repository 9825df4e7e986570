// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"log"
	"sync"

	"github.com/gazed/trace/math/lin"
)

// Kind selects a material's scatter behaviour.
type Kind uint8

// The supported material kinds.
const (
	Lambert     Kind = iota // Diffuse cosine-ish scatter.
	Metal                   // Mirror reflection with optional fuzz.
	Dielectric              // Glass: reflect or refract by Schlick.
	Environment             // Emits when a ray escapes the scene.
)

// ScatterOutput is a material's answer for one intersection: where
// the ray continues, how strongly it is attenuated, and how much
// light the surface itself emits.
type ScatterOutput struct {
	DidScatter     bool   // False when the ray is absorbed.
	IsTransmission bool   // True for refractive pass-through bounces.
	Dir            lin.V3 // Unit scatter direction.
	Albedo         lin.V3
	Emission       lin.V3
}

// Material is a tagged record: Kind selects the scatter function and
// the parameters it reads; the rest are ignored. Materials are shared
// by triangles and hittables and must stay alive for the render.
type Material struct {
	Name string
	Kind Kind

	Albedo        lin.V3
	AlbedoTexture *Texture[lin.V3]

	Emission          lin.V3
	EmissionIntensity float32
	EmissionTexture   *Texture[lin.V3]

	NormalTexture *Texture[lin.V3]  // Tangent space, 0..1 encoded.
	AlphaTexture  *Texture[float32] // Below 0.5 masks the hit out.

	Fuzziness float32 // Metal reflection perturbation radius.
	IOR       float32 // Dielectric index of refraction.

	// BackfaceCulling lets mesh intersection skip triangles facing
	// away. Dielectrics always intersect both faces.
	BackfaceCulling bool
}

// NewLambert returns a diffuse material with the given base color.
func NewLambert(albedo lin.V3) *Material {
	return &Material{Kind: Lambert, Albedo: albedo, BackfaceCulling: true}
}

// NewMetal returns a reflective material. Fuzziness 0 is a perfect
// mirror; 1 approaches diffuse.
func NewMetal(albedo lin.V3, fuzziness float32) *Material {
	return &Material{Kind: Metal, Albedo: albedo, Fuzziness: fuzziness, BackfaceCulling: true}
}

// NewDielectric returns a clear refractive material with the given
// index of refraction.
func NewDielectric(ior float32) *Material {
	return &Material{Kind: Dielectric, IOR: ior}
}

// NewEmissive returns a diffuse material that also emits.
func NewEmissive(emission lin.V3, intensity float32) *Material {
	return &Material{Kind: Lambert, EmissionIntensity: intensity, Emission: emission, BackfaceCulling: true}
}

// Scatter dispatches on the material kind. It may flip hit.Hit to
// false to signal an alpha-masked pass-through; the integrator then
// continues the ray from the masked point without using a bounce.
func (m *Material) Scatter(r *Ray, hit *HitRecord, rng *lin.Xoshiro256SS) ScatterOutput {
	switch m.Kind {
	case Lambert:
		return m.lambertScatter(hit, rng)
	case Metal:
		return m.metalScatter(r, hit, rng)
	case Dielectric:
		return m.dielectricScatter(r, hit, rng)
	case Environment:
		return m.environmentScatter(r)
	}
	logUnknownKind(m)
	return m.lambertScatter(hit, rng)
}

// surfaceDetail applies the textured surface modifiers shared by the
// reflective kinds: the alpha mask and the normal map. Returns false
// when the hit is masked out.
func (m *Material) surfaceDetail(hit *HitRecord) bool {
	if m.AlphaTexture != nil && !m.AlphaTexture.Empty() {
		if m.AlphaTexture.SampleInterpolated(hit.UV) < 0.5 {
			hit.Hit = false
			return false
		}
	}

	if m.NormalTexture != nil && !m.NormalTexture.Empty() && !hit.Tangent.NearZero() {
		s := m.NormalTexture.SampleInterpolated(hit.UV).Scale(2).Sub(lin.V3{X: 1, Y: 1, Z: 1})
		hit.Normal = hit.Tangent.Scale(s.X).
			Add(hit.Bitangent.Scale(s.Y)).
			Add(hit.Normal.Scale(s.Z)).Unit()
	}
	return true
}

// albedoAt returns the textured or constant base color.
func (m *Material) albedoAt(uv lin.V2) lin.V3 {
	if m.AlbedoTexture != nil && !m.AlbedoTexture.Empty() {
		return m.AlbedoTexture.SampleInterpolated(uv)
	}
	return m.Albedo
}

// emissionAt returns the textured or constant emission scaled by the
// emission intensity.
func (m *Material) emissionAt(uv lin.V2) lin.V3 {
	e := m.Emission
	if m.EmissionTexture != nil && !m.EmissionTexture.Empty() {
		e = m.EmissionTexture.SampleInterpolated(uv)
	}
	return e.Scale(m.EmissionIntensity)
}

// lambertScatter bounces into the normal plus a random unit vector,
// which cosine weights the hemisphere.
func (m *Material) lambertScatter(hit *HitRecord, rng *lin.Xoshiro256SS) ScatterOutput {
	if !m.surfaceDetail(hit) {
		return ScatterOutput{}
	}

	dir := hit.Normal.Add(rng.UnitV3())
	if dir.NearZero() {
		dir = hit.Normal // Sample landed opposite the normal.
	}
	return ScatterOutput{
		DidScatter: true,
		Dir:        dir.Unit(),
		Albedo:     m.albedoAt(hit.UV),
		Emission:   m.emissionAt(hit.UV),
	}
}

// metalScatter mirrors the incoming direction about the normal and
// perturbs it inside the fuzziness radius. Reflections that end up
// under the surface count as absorbed.
func (m *Material) metalScatter(r *Ray, hit *HitRecord, rng *lin.Xoshiro256SS) ScatterOutput {
	if !m.surfaceDetail(hit) {
		return ScatterOutput{}
	}

	reflected := r.Dir.Unit().Reflect(hit.Normal)
	if m.Fuzziness > 0 {
		reflected = reflected.Add(rng.UnitV3().Scale(m.Fuzziness))
	}
	return ScatterOutput{
		DidScatter: reflected.Dot(hit.Normal) > 0,
		Dir:        reflected.Unit(),
		Albedo:     m.albedoAt(hit.UV),
		Emission:   m.emissionAt(hit.UV),
	}
}

// dielectricScatter reflects or refracts using Schlick's reflectance
// approximation. Total internal reflection always reflects. Glass
// absorbs nothing, so albedo is white and there is no emission.
func (m *Material) dielectricScatter(r *Ray, hit *HitRecord, rng *lin.Xoshiro256SS) ScatterOutput {
	dir := r.Dir.Unit()
	frontFace := dir.Dot(hit.Normal) <= 0
	ratio := m.IOR
	outwardNormal := hit.Normal.Neg()
	if frontFace {
		ratio = 1 / m.IOR
		outwardNormal = hit.Normal
	}

	cosTheta := min(dir.Neg().Dot(outwardNormal), 1)
	sinTheta := lin.Sqrt(1 - cosTheta*cosTheta)

	var scattered lin.V3
	if ratio*sinTheta > 1 || schlick(cosTheta, ratio) > rng.Float32() {
		scattered = dir.Reflect(outwardNormal)
	} else {
		scattered = dir.Refract(outwardNormal, ratio)
	}

	return ScatterOutput{
		DidScatter:     true,
		IsTransmission: true,
		Dir:            scattered.Unit(),
		Albedo:         lin.V3{X: 1, Y: 1, Z: 1},
	}
}

// environmentScatter terminates an escaped ray with the emission of
// the equirectangular environment map, or the constant emission when
// no map is set.
func (m *Material) environmentScatter(r *Ray) ScatterOutput {
	emission := m.Emission
	if m.EmissionTexture != nil && !m.EmissionTexture.Empty() {
		dir := r.Dir.Unit()
		uv := lin.V2{
			X: lin.Atan2(dir.Z, dir.X)/lin.PIx2 + 0.5,
			Y: lin.Acos(lin.Clamp(dir.Y, -1, 1)) / lin.PI,
		}
		emission = m.EmissionTexture.SampleInterpolated(uv)
	}
	return ScatterOutput{Emission: emission.Scale(m.EmissionIntensity)}
}

// schlick approximates the Fresnel reflectance for the given
// incident angle cosine and refraction ratio.
func schlick(cosTheta, ratio float32) float32 {
	r0 := (1 - ratio) / (1 + ratio)
	r0 *= r0
	return r0 + (1-r0)*lin.Pow(1-cosTheta, 5)
}

// unknownKinds logs each unknown material kind once rather than
// flooding the render log at millions of rays per second.
var unknownKinds sync.Map

func logUnknownKind(m *Material) {
	if _, logged := unknownKinds.LoadOrStore(m.Kind, true); !logged {
		log.Printf("Scatter function not set for material %q kind %d: falling back to diffuse", m.Name, m.Kind)
	}
}
