// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"fmt"
	"io"

	"github.com/gazed/trace"
	"github.com/gazed/trace/math/lin"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SceneData is a declarative scene and render description decoded
// from YAML. The yaml is string based so that scenes are easy to
// read and tweak without recompiling:
//
//	renderer:
//	  size: [640, 480]
//	  samples: 128
//	  bounces: 16
//	  channels: [color, normal, albedo]
//	camera:
//	  position: [0, 1, 4]
//	  look_at: [0, 0.5, 0]
//	  fov: 60
//	environment:
//	  emission: [0.05, 0.05, 0.08]
//	objects:
//	  - type: sphere
//	    center: [0, 0.5, 0]
//	    radius: 0.5
//	    material: {kind: dielectric, ior: 1.5}
//	  - type: model
//	    file: bunny.obj
//	    transform: {position: [1, 0, 0], rotation: [0, 90, 0]}
type SceneData struct {
	Renderer struct {
		Size     []int    `yaml:"size"`
		Samples  int      `yaml:"samples"`
		Bounces  int      `yaml:"bounces"`
		Channels []string `yaml:"channels"`
		Seed     uint64   `yaml:"seed"`
		Workers  int      `yaml:"workers"`
	} `yaml:"renderer"`

	Camera struct {
		Position      []float32 `yaml:"position"`
		LookAt        []float32 `yaml:"look_at"`
		Up            []float32 `yaml:"up"`
		FOV           float32   `yaml:"fov"`
		DefocusAngle  float32   `yaml:"defocus_angle"`
		FocusDistance float32   `yaml:"focus_distance"`
	} `yaml:"camera"`

	Environment struct {
		Emission  []float32 `yaml:"emission"`
		Intensity *float32  `yaml:"intensity"`
		Texture   string    `yaml:"texture"`
	} `yaml:"environment"`

	Objects []ObjectData `yaml:"objects"`
}

// ObjectData describes one hittable in a scene file.
type ObjectData struct {
	Type string `yaml:"type"` // sphere, plane, rect, disc, model.
	Name string `yaml:"name"`

	// Shape parameters; which apply depends on Type.
	Center []float32 `yaml:"center"`
	Origin []float32 `yaml:"origin"`
	Normal []float32 `yaml:"normal"`
	Radius float32   `yaml:"radius"`
	Size   []float32 `yaml:"size"`
	File   string    `yaml:"file"` // Model OBJ file.

	Transform *TransformData `yaml:"transform"`
	Material  *MaterialData  `yaml:"material"`
}

// TransformData is a position, rotation (degrees pitch/yaw/roll),
// and scale triple.
type TransformData struct {
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"`
	Scale    []float32 `yaml:"scale"`
}

// MaterialData describes a material in a scene file.
type MaterialData struct {
	Kind      string    `yaml:"kind"` // lambert, metal, dielectric.
	Albedo    []float32 `yaml:"albedo"`
	Emission  []float32 `yaml:"emission"`
	Intensity float32   `yaml:"intensity"`
	Fuzziness float32   `yaml:"fuzziness"`
	IOR       float32   `yaml:"ior"`
	TwoSided  bool      `yaml:"two_sided"`

	AlbedoMap string `yaml:"albedo_map"`
	NormalMap string `yaml:"normal_map"`
	AlphaMap  string `yaml:"alpha_map"`
}

// Scene decodes a YAML scene description.
// The Reader r is expected to be opened and closed by the caller.
func Scene(r io.Reader) (*SceneData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read scene")
	}
	s := &SceneData{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "scene yaml")
	}
	return s, nil
}

// Build turns the description into a renderable world, camera, and
// renderer attributes, loading any referenced assets through the
// locator.
func (s *SceneData) Build(loc *Locator) (*trace.World, *trace.Camera, []trace.Attr, error) {
	world := trace.NewWorld()

	if len(s.Environment.Emission) > 0 {
		world.Environment.Emission = v3(s.Environment.Emission)
	}
	if s.Environment.Intensity != nil {
		world.Environment.EmissionIntensity = *s.Environment.Intensity
	}
	if s.Environment.Texture != "" {
		tex, err := loadColor(loc, s.Environment.Texture)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "environment texture")
		}
		world.Environment.EmissionTexture = tex
	}

	for i, o := range s.Objects {
		h, err := s.buildObject(loc, &o)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "object %d (%s)", i, o.Type)
		}
		world.Hierarchy.Add(h)
	}

	cam := trace.NewCamera()
	if len(s.Camera.Position) > 0 {
		cam.Position = v3(s.Camera.Position)
	}
	if len(s.Camera.LookAt) > 0 {
		cam.LookAt = v3(s.Camera.LookAt)
	}
	if len(s.Camera.Up) > 0 {
		cam.Up = v3(s.Camera.Up)
	}
	if s.Camera.FOV > 0 {
		cam.FOV = s.Camera.FOV
	}
	if s.Camera.FocusDistance > 0 {
		cam.FocusDistance = s.Camera.FocusDistance
	}
	cam.DefocusAngle = s.Camera.DefocusAngle

	attrs, err := s.rendererAttrs()
	if err != nil {
		return nil, nil, nil, err
	}
	return world, cam, attrs, nil
}

// rendererAttrs converts the renderer section to engine options.
func (s *SceneData) rendererAttrs() ([]trace.Attr, error) {
	var attrs []trace.Attr
	r := s.Renderer
	if len(r.Size) == 2 {
		attrs = append(attrs, trace.Size(r.Size[0], r.Size[1]))
	}
	if r.Samples > 0 {
		attrs = append(attrs, trace.Samples(r.Samples))
	}
	if r.Bounces > 0 {
		attrs = append(attrs, trace.Bounces(r.Bounces))
	}
	if r.Seed != 0 {
		attrs = append(attrs, trace.Seed(r.Seed))
	}
	if r.Workers > 0 {
		attrs = append(attrs, trace.Workers(r.Workers))
	}
	if len(r.Channels) > 0 {
		mask := trace.OutputChannel(0)
		for _, name := range r.Channels {
			c, ok := channelNames[name]
			if !ok {
				return nil, fmt.Errorf("unknown output channel %q", name)
			}
			mask |= c
		}
		attrs = append(attrs, trace.Channels(mask))
	}
	return attrs, nil
}

var channelNames = map[string]trace.OutputChannel{
	"color":     trace.ChanColor,
	"depth":     trace.ChanDepth,
	"normal":    trace.ChanNormal,
	"albedo":    trace.ChanAlbedo,
	"emission":  trace.ChanEmission,
	"aabbTests": trace.ChanAABBTests,
	"triTests":  trace.ChanTriTests,
}

// buildObject converts one object description.
func (s *SceneData) buildObject(loc *Locator, o *ObjectData) (trace.Hittable, error) {
	switch o.Type {
	case "sphere":
		mat, err := s.buildMaterial(loc, o.Material)
		if err != nil {
			return nil, err
		}
		return trace.NewSphere(v3(o.Center), o.Radius, mat), nil

	case "plane":
		mat, err := s.buildMaterial(loc, o.Material)
		if err != nil {
			return nil, err
		}
		normal := lin.V3{Y: 1}
		if len(o.Normal) > 0 {
			normal = v3(o.Normal)
		}
		return trace.NewInfinitePlane(v3(o.Origin), normal, mat), nil

	case "rect":
		mat, err := s.buildMaterial(loc, o.Material)
		if err != nil {
			return nil, err
		}
		return trace.NewRect(transform(o.Transform), mat), nil

	case "disc":
		mat, err := s.buildMaterial(loc, o.Material)
		if err != nil {
			return nil, err
		}
		size := lin.V2{X: 1, Y: 1}
		if len(o.Size) == 2 {
			size = lin.V2{X: o.Size[0], Y: o.Size[1]}
		}
		return trace.NewDisc(transform(o.Transform), mat, size), nil

	case "model":
		if o.File == "" {
			return nil, fmt.Errorf("model needs a file")
		}
		mesh, err := Model(loc, o.File)
		if err != nil {
			return nil, err
		}
		model := trace.NewModel(o.Name, mesh)
		if o.Transform == nil {
			return model, nil
		}
		return trace.NewInstance(model, transform(o.Transform)), nil
	}
	return nil, fmt.Errorf("unknown object type %q", o.Type)
}

// buildMaterial converts a material description, nil meaning a
// default gray diffuse.
func (s *SceneData) buildMaterial(loc *Locator, d *MaterialData) (*trace.Material, error) {
	if d == nil {
		return trace.NewLambert(lin.V3{X: 0.8, Y: 0.8, Z: 0.8}), nil
	}

	var m *trace.Material
	switch d.Kind {
	case "", "lambert":
		m = trace.NewLambert(v3(d.Albedo))
	case "metal":
		m = trace.NewMetal(v3(d.Albedo), d.Fuzziness)
	case "dielectric":
		ior := d.IOR
		if ior <= 0 {
			ior = 1.5
		}
		m = trace.NewDielectric(ior)
	default:
		return nil, fmt.Errorf("unknown material kind %q", d.Kind)
	}

	if len(d.Emission) > 0 {
		m.Emission = v3(d.Emission)
		m.EmissionIntensity = 1
		if d.Intensity > 0 {
			m.EmissionIntensity = d.Intensity
		}
	}
	if d.TwoSided {
		m.BackfaceCulling = false
	}

	if d.AlbedoMap != "" {
		tex, err := loadColor(loc, d.AlbedoMap)
		if err != nil {
			return nil, err
		}
		m.AlbedoTexture = tex
	}
	if d.NormalMap != "" {
		tex, err := loadColor(loc, d.NormalMap)
		if err != nil {
			return nil, err
		}
		m.NormalTexture = tex
	}
	if d.AlphaMap != "" {
		tex, err := loadGray(loc, d.AlphaMap)
		if err != nil {
			return nil, err
		}
		m.AlphaTexture = tex
	}
	return m, nil
}

// transform converts an optional transform description.
func transform(d *TransformData) trace.Transform {
	t := trace.NewTransform()
	if d == nil {
		return t
	}
	if len(d.Position) > 0 {
		t.SetPosition(v3(d.Position))
	}
	if len(d.Rotation) == 3 {
		t.SetRotation(lin.NewQEuler(d.Rotation[0], d.Rotation[1], d.Rotation[2]))
	}
	if len(d.Scale) == 3 {
		t.SetScale(v3(d.Scale))
	} else if len(d.Scale) == 1 {
		t.SetScale(lin.V3{X: d.Scale[0], Y: d.Scale[0], Z: d.Scale[0]})
	}
	return t
}

// v3 converts a yaml float list to a vector, zero filling.
func v3(f []float32) lin.V3 {
	v := lin.V3{}
	if len(f) > 0 {
		v.X = f[0]
	}
	if len(f) > 1 {
		v.Y = f[1]
	}
	if len(f) > 2 {
		v.Z = f[2]
	}
	return v
}
