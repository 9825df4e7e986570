// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"strings"
	"testing"

	"github.com/gazed/trace"
)

const sampleMtl = `# materials
newmtl red
Kd 0.9 0.1 0.2
Ks 0 0 0
Ns 10
illum 2
map_Kd red.png

newmtl glow
Kd 0 0 0
Ke 2 2 2

newmtl glass
Kd 1 1 1
Ni 1.45
d 0.1
illum 7
`

func TestMtl(t *testing.T) {
	mats, err := Mtl(strings.NewReader(sampleMtl))
	if err != nil {
		t.Fatalf("Mtl: %s", err)
	}
	if len(mats) != 3 {
		t.Fatalf("Materials got %d wanted 3", len(mats))
	}

	red := mats[0]
	if red.Name != "red" || red.KdR != 0.9 || red.KdG != 0.1 || red.KdB != 0.2 {
		t.Errorf("Diffuse got %+v", red)
	}
	if red.MapKd != "red.png" {
		t.Errorf("Texture got %q", red.MapKd)
	}
	if red.Alpha != 1 {
		t.Errorf("Default alpha got %f wanted 1", red.Alpha)
	}

	glow := mats[1]
	if glow.KeR != 2 || glow.KeG != 2 || glow.KeB != 2 {
		t.Errorf("Emission got %+v", glow)
	}

	glass := mats[2]
	if glass.Ni != 1.45 || glass.Alpha != 0.1 || glass.Illum != 7 {
		t.Errorf("Glass got %+v", glass)
	}
}

func TestMtlConvertKinds(t *testing.T) {
	mats, err := Mtl(strings.NewReader(sampleMtl))
	if err != nil {
		t.Fatalf("Mtl: %s", err)
	}
	loc := NewLocator(t.TempDir())

	red := convertMaterial(loc, &mats[0])
	if red.Kind != trace.Lambert {
		t.Errorf("Diffuse definition converted to kind %d", red.Kind)
	}

	glow := convertMaterial(loc, &mats[1])
	if glow.EmissionIntensity != 1 || glow.Emission.X != 2 {
		t.Errorf("Emissive conversion got %+v", glow)
	}

	glass := convertMaterial(loc, &mats[2])
	if glass.IOR != 1.45 {
		t.Errorf("Glass conversion got ior %f", glass.IOR)
	}
	if glass.BackfaceCulling {
		t.Errorf("Dielectrics intersect both faces")
	}
}

func TestMtlBadStatement(t *testing.T) {
	if _, err := Mtl(strings.NewReader("Kd 1 1 1\n")); err == nil {
		t.Errorf("Statement before newmtl must error")
	}
}
