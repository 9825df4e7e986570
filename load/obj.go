// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/gazed/trace"
	"github.com/gazed/trace/math/lin"
	"github.com/pkg/errors"
)

// ObjData is the result of decoding a Wavefront OBJ file: indexed
// geometry ready for the engine plus the material names the faces
// reference, in material id order.
type ObjData struct {
	Name     string
	MtlLib   string // Material library referenced by mtllib.
	Geometry *trace.MeshGeometry

	// MaterialNames[id] names the material for triangles with that
	// material id, in order of first usemtl appearance. Empty when
	// the file uses no materials.
	MaterialNames []string
}

// Obj loads a Wavefront OBJ file, a text representation of one or
// more 3D models. This loader handles triangle and polygon faces
// (fan triangulated), the v/vt/vn index forms including negative
// indices, and per-face material assignment via usemtl.
//
//	https://en.wikipedia.org/wiki/Wavefront_.obj_file#File_format
//
// When the file has no normals the engine falls back to flat
// triangle normals. When it has both normals and texture coordinates
// per-vertex tangents are generated for normal mapping.
// The Reader r is expected to be opened and closed by the caller.
func Obj(r io.Reader) (*ObjData, error) {
	d := &ObjData{Geometry: &trace.MeshGeometry{}}

	// Raw attribute lists, indexed by the face statements.
	var vs []lin.V3
	var vts []lin.V2
	var vns []lin.V3

	// Each distinct v/vt/vn triple becomes one output vertex.
	corners := map[string]uint32{}
	material := uint32(0)
	usedMaterials := map[string]uint32{}
	hasUV, hasNormal := false, false

	var f1, f2, f3 float32
	reader := bufio.NewReader(r)
	line, e1 := reader.ReadString('\n')
	for ; e1 == nil || len(line) > 0; line, e1 = reader.ReadString('\n') {
		line = strings.TrimSpace(line)
		tokens := strings.Fields(line)
		if len(tokens) == 0 || strings.HasPrefix(tokens[0], "#") {
			if e1 != nil {
				break
			}
			continue
		}

		switch tokens[0] {
		case "v":
			if _, e := fmt.Sscanf(line, "v %f %f %f", &f1, &f2, &f3); e != nil {
				log.Printf("Bad vertex: %s", line)
				return nil, fmt.Errorf("could not parse vertex %s", e)
			}
			vs = append(vs, lin.V3{X: f1, Y: f2, Z: f3})
		case "vt":
			if _, e := fmt.Sscanf(line, "vt %f %f", &f1, &f2); e != nil {
				log.Printf("Bad texture coord: %s", line)
				return nil, fmt.Errorf("could not parse texture coordinate %s", e)
			}
			vts = append(vts, lin.V2{X: f1, Y: 1 - f2}) // OBJ v runs bottom up.
		case "vn":
			if _, e := fmt.Sscanf(line, "vn %f %f %f", &f1, &f2, &f3); e != nil {
				log.Printf("Bad normal: %s", line)
				return nil, fmt.Errorf("could not parse normal %s", e)
			}
			vns = append(vns, lin.V3{X: f1, Y: f2, Z: f3})
		case "f":
			if len(tokens) < 4 {
				return nil, fmt.Errorf("face with %d corners: %s", len(tokens)-1, line)
			}
			ids := make([]uint32, 0, len(tokens)-1)
			for _, corner := range tokens[1:] {
				id, uv, norm, err := d.corner(corner, corners, vs, vts, vns)
				if err != nil {
					return nil, err
				}
				hasUV = hasUV || uv
				hasNormal = hasNormal || norm
				ids = append(ids, id)
			}
			for i := 2; i < len(ids); i++ { // Fan triangulate.
				d.Geometry.Tris = append(d.Geometry.Tris, trace.Triangle{
					V:        [3]uint32{ids[0], ids[i-1], ids[i]},
					Material: material,
				})
			}
		case "usemtl":
			name := tokens[len(tokens)-1]
			id, ok := usedMaterials[name]
			if !ok {
				id = uint32(len(d.MaterialNames))
				usedMaterials[name] = id
				d.MaterialNames = append(d.MaterialNames, name)
			}
			material = id
		case "mtllib":
			d.MtlLib = tokens[len(tokens)-1]
		case "o", "g":
			if d.Name == "" && len(tokens) > 1 {
				d.Name = tokens[len(tokens)-1]
			}
		case "s": // Smoothing groups: normals come from vn data.
		}
		if e1 != nil {
			break
		}
	}

	if !hasUV {
		d.Geometry.UVs = nil
	}
	if !hasNormal {
		d.Geometry.Normals = nil
	}
	if hasUV && hasNormal {
		generateTangents(d.Geometry)
	}
	if err := d.Geometry.Validate(); err != nil {
		return nil, errors.Wrap(err, "obj geometry")
	}
	return d, nil
}

// corner resolves one face corner "v", "v/t", "v//n", or "v/t/n"
// into an output vertex id, deduplicating identical triples.
func (d *ObjData) corner(token string, corners map[string]uint32, vs []lin.V3, vts []lin.V2, vns []lin.V3) (id uint32, hasUV, hasNormal bool, err error) {
	if id, ok := corners[token]; ok {
		parts := strings.Split(token, "/")
		return id, len(parts) > 1 && parts[1] != "", len(parts) > 2 && parts[2] != "", nil
	}

	parts := strings.Split(token, "/")
	vi, err := objIndex(parts[0], len(vs))
	if err != nil {
		return 0, false, false, fmt.Errorf("face corner %q: %s", token, err)
	}

	g := d.Geometry
	id = uint32(len(g.Verts))
	g.Verts = append(g.Verts, vs[vi])

	// UVs and normals stay parallel to the vertex list; corners
	// without them get zero values, dropped later if unused
	// file-wide.
	uv, normal := lin.V2{}, lin.V3{}
	if len(parts) > 1 && parts[1] != "" {
		ti, terr := objIndex(parts[1], len(vts))
		if terr != nil {
			return 0, false, false, fmt.Errorf("face corner %q: %s", token, terr)
		}
		uv, hasUV = vts[ti], true
	}
	if len(parts) > 2 && parts[2] != "" {
		ni, nerr := objIndex(parts[2], len(vns))
		if nerr != nil {
			return 0, false, false, fmt.Errorf("face corner %q: %s", token, nerr)
		}
		normal, hasNormal = vns[ni], true
	}
	g.UVs = append(g.UVs, uv)
	g.Normals = append(g.Normals, normal)

	corners[token] = id
	return id, hasUV, hasNormal, nil
}

// objIndex turns a 1-based, possibly negative, OBJ index into a
// 0-based slice index.
func objIndex(token string, count int) (int, error) {
	idx, err := strconv.Atoi(token)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		idx += count
	} else {
		idx--
	}
	if idx < 0 || idx >= count {
		return 0, fmt.Errorf("index %s out of range", token)
	}
	return idx, nil
}

// generateTangents derives per-vertex tangents from the triangle
// positions and texture coordinates, averaging across shared
// vertices, with the bitangent handedness in W.
func generateTangents(g *trace.MeshGeometry) {
	tan := make([]lin.V3, len(g.Verts))
	bitan := make([]lin.V3, len(g.Verts))

	for _, tri := range g.Tris {
		p0, p1, p2 := g.Verts[tri.V[0]], g.Verts[tri.V[1]], g.Verts[tri.V[2]]
		u0, u1, u2 := g.UVs[tri.V[0]], g.UVs[tri.V[1]], g.UVs[tri.V[2]]

		e1, e2 := p1.Sub(p0), p2.Sub(p0)
		d1, d2 := u1.Sub(u0), u2.Sub(u0)

		det := d1.X*d2.Y - d2.X*d1.Y
		if lin.AeqZ(det) {
			continue // Degenerate UV mapping.
		}
		f := 1 / det
		t := e1.Scale(d2.Y).Sub(e2.Scale(d1.Y)).Scale(f)
		b := e2.Scale(d1.X).Sub(e1.Scale(d2.X)).Scale(f)
		for _, vid := range tri.V {
			tan[vid] = tan[vid].Add(t)
			bitan[vid] = bitan[vid].Add(b)
		}
	}

	g.Tangents = make([]lin.V4, len(g.Verts))
	for i := range g.Tangents {
		n := g.Normals[i]
		t := tan[i].Sub(n.Scale(n.Dot(tan[i]))).Unit() // Gram-Schmidt.
		if t.NearZero() {
			t = lin.V3{X: 1}
		}
		w := float32(1)
		if n.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		g.Tangents[i] = lin.V4{X: t.X, Y: t.Y, Z: t.Z, W: w}
	}
}

// obj parsing
// ===========================================================================
// model assembly

// Model loads an OBJ file and its material library into a renderable
// mesh: geometry, converted materials, and any referenced textures.
func Model(loc *Locator, name string) (*trace.Mesh, error) {
	file, err := loc.GetResource(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	d, err := Obj(file)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", name)
	}

	var mats []*trace.Material
	if d.MtlLib != "" && len(d.MaterialNames) > 0 {
		mats, err = loadMaterials(loc, d)
		if err != nil {
			return nil, errors.Wrapf(err, "load %s materials", name)
		}
	}
	return trace.NewMesh(d.Geometry, mats), nil
}

// loadMaterials reads the OBJ's material library and converts the
// referenced materials in face id order.
func loadMaterials(loc *Locator, d *ObjData) ([]*trace.Material, error) {
	file, err := loc.GetResource(d.MtlLib)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	defs, err := Mtl(file)
	if err != nil {
		return nil, err
	}
	byName := map[string]*MtlData{}
	for i := range defs {
		byName[defs[i].Name] = &defs[i]
	}

	mats := make([]*trace.Material, len(d.MaterialNames))
	for i, name := range d.MaterialNames {
		def, ok := byName[name]
		if !ok {
			log.Printf("Material %q not in %s: using default", name, d.MtlLib)
			mats[i] = trace.NewLambert(lin.V3{X: 0.8, Y: 0.8, Z: 0.8})
			continue
		}
		mats[i] = convertMaterial(loc, def)
	}
	return mats, nil
}

// convertMaterial maps a Wavefront material onto the engine's
// material kinds: dissolved or refractive definitions become
// dielectrics, mirror-style illumination models become metal, and
// everything else is diffuse.
func convertMaterial(loc *Locator, d *MtlData) *trace.Material {
	var m *trace.Material
	switch {
	case d.Alpha < 1 || (d.Illum >= 4 && d.Illum <= 7):
		ior := d.Ni
		if ior <= 1 {
			ior = 1.5
		}
		m = trace.NewDielectric(ior)
	case d.Illum == 3 && (d.KsR > 0 || d.KsG > 0 || d.KsB > 0):
		fuzz := lin.Clamp(1-d.Ns/1000, 0, 1)
		m = trace.NewMetal(lin.V3{X: d.KsR, Y: d.KsG, Z: d.KsB}, fuzz)
	default:
		m = trace.NewLambert(lin.V3{X: d.KdR, Y: d.KdG, Z: d.KdB})
	}
	m.Name = d.Name

	if d.KeR > 0 || d.KeG > 0 || d.KeB > 0 {
		m.Emission = lin.V3{X: d.KeR, Y: d.KeG, Z: d.KeB}
		m.EmissionIntensity = 1
	}

	m.AlbedoTexture = textureOrNil(loc, d.MapKd, d.Name)
	m.EmissionTexture = textureOrNil(loc, d.MapKe, d.Name)
	m.NormalTexture = textureOrNil(loc, d.MapBump, d.Name)
	if d.MapD != "" {
		if tex, err := loadGray(loc, d.MapD); err == nil {
			m.AlphaTexture = tex
		} else {
			log.Printf("Material %q alpha map: %s", d.Name, err)
		}
	}
	return m
}

// textureOrNil loads a color texture, logging and continuing with
// the material's constant fallback on failure.
func textureOrNil(loc *Locator, name, owner string) *trace.Texture[lin.V3] {
	if name == "" {
		return nil
	}
	tex, err := loadColor(loc, name)
	if err != nil {
		log.Printf("Material %q texture %s: %s", owner, name, err)
		return nil
	}
	return tex
}
