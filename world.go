// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package trace

import (
	"github.com/gazed/trace/math/lin"
)

// World is a scene: the hittable hierarchy plus the environment
// material consulted when a ray escapes everything.
type World struct {
	Hierarchy   Group
	Environment *Material
}

// NewWorld returns an empty world under a dim uniform environment.
func NewWorld() *World {
	return &World{
		Environment: &Material{
			Name:              "Environment",
			Kind:              Environment,
			Emission:          lin.V3{X: 0.05, Y: 0.05, Z: 0.05},
			EmissionIntensity: 1,
		},
	}
}
