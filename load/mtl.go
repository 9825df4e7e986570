// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MtlData is one material description from a Wavefront MTL file.
// See the MTL file format specification at:
//
//	https://en.wikipedia.org/wiki/Wavefront_.obj_file#File_format
//	http://paulbourke.net/dataformats/mtl/
type MtlData struct {
	Name string

	KdR, KdG, KdB float32 // Diffuse color.
	KsR, KsG, KsB float32 // Specular color.
	KeR, KeG, KeB float32 // Emissive color.

	Ns    float32 // Specular exponent.
	Ni    float32 // Optical density: index of refraction.
	Alpha float32 // Dissolve: 1 fully opaque.
	Illum int     // Illumination model.

	MapKd   string // Diffuse texture file.
	MapKe   string // Emissive texture file.
	MapD    string // Dissolve (alpha) texture file.
	MapBump string // Normal/bump texture file.
}

// Mtl loads a Wavefront MTL file which is a text representation of
// one or more material descriptions. The Reader r is expected to be
// opened and closed by the caller.
func Mtl(r io.Reader) ([]MtlData, error) {
	var mats []MtlData
	var cur *MtlData
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

		if tokens[0] == "newmtl" {
			mats = append(mats, MtlData{Name: tokens[len(tokens)-1], Alpha: 1, Ni: 1})
			cur = &mats[len(mats)-1]
			if e1 != nil {
				break
			}
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("material statement before newmtl: %s", line)
		}

		switch tokens[0] {
		case "Kd": // diffuse
			if _, e := fmt.Sscanf(line, "Kd %f %f %f", &f1, &f2, &f3); e != nil {
				return nil, fmt.Errorf("could not parse diffuse values %s", e)
			}
			cur.KdR, cur.KdG, cur.KdB = f1, f2, f3
		case "Ks": // specular
			if _, e := fmt.Sscanf(line, "Ks %f %f %f", &f1, &f2, &f3); e != nil {
				return nil, fmt.Errorf("could not parse specular values %s", e)
			}
			cur.KsR, cur.KsG, cur.KsB = f1, f2, f3
		case "Ke": // emissive
			if _, e := fmt.Sscanf(line, "Ke %f %f %f", &f1, &f2, &f3); e != nil {
				return nil, fmt.Errorf("could not parse emissive values %s", e)
			}
			cur.KeR, cur.KeG, cur.KeB = f1, f2, f3
		case "d": // dissolve: 1 opaque, 0 transparent
			a, _ := strconv.ParseFloat(tokens[len(tokens)-1], 32)
			cur.Alpha = float32(a)
		case "Tr": // inverted dissolve
			a, _ := strconv.ParseFloat(tokens[len(tokens)-1], 32)
			cur.Alpha = 1 - float32(a)
		case "Ns": // specular exponent
			ns, _ := strconv.ParseFloat(tokens[len(tokens)-1], 32)
			cur.Ns = float32(ns)
		case "Ni": // optical density
			ni, _ := strconv.ParseFloat(tokens[len(tokens)-1], 32)
			cur.Ni = float32(ni)
		case "illum": // illumination model
			cur.Illum, _ = strconv.Atoi(tokens[len(tokens)-1])
		case "map_Kd":
			cur.MapKd = tokens[len(tokens)-1]
		case "map_Ke":
			cur.MapKe = tokens[len(tokens)-1]
		case "map_d":
			cur.MapD = tokens[len(tokens)-1]
		case "map_bump", "map_Bump", "bump", "norm":
			cur.MapBump = tokens[len(tokens)-1]
		case "Ka": // ambient: no ambient term in a path tracer.
		}
		if e1 != nil {
			break
		}
	}
	return mats, nil
}
