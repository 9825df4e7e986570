// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

// Package load decodes render assets from disk into the in-memory
// structures the trace engine consumes: Wavefront OBJ/MTL geometry,
// PNG/JPEG/BMP and Radiance HDR images, and YAML scene descriptions.
// The engine itself never sees file bytes; everything it renders
// arrives through this package or is built in code.
package load

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Locator finds asset files by name. It uses a convention of file
// extensions mapped to directories under a root, so scene files can
// reference "cube.obj" and have it found in the models directory.
// The defaults can be overridden or added to using Dir.
type Locator struct {
	root string
	dirs map[string]string
}

// NewLocator returns a locator rooted at the given directory with
// the default extension mapping:
//
//	OBJ, MTL          : "models"
//	PNG, JPG, BMP, HDR: "images"
//	YAML, YML         : "scenes"
func NewLocator(root string) *Locator {
	return &Locator{
		root: root,
		dirs: map[string]string{
			".obj":  "models",
			".mtl":  "models",
			".png":  "images",
			".jpg":  "images",
			".jpeg": "images",
			".bmp":  "images",
			".hdr":  "images",
			".yaml": "scenes",
			".yml":  "scenes",
		},
	}
}

// Dir maps a file extension like ".obj" to a directory under the
// locator root. The updated locator is returned.
func (l *Locator) Dir(ext, dir string) *Locator {
	l.dirs[strings.ToLower(ext)] = dir
	return l
}

// Resolve returns the full path for an asset name. Names that are
// already absolute or that exist relative to the root pass through
// unchanged; otherwise the extension directory convention applies.
func (l *Locator) Resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	direct := filepath.Join(l.root, name)
	if _, err := os.Stat(direct); err == nil {
		return direct
	}
	if dir, ok := l.dirs[strings.ToLower(filepath.Ext(name))]; ok {
		return filepath.Join(l.root, dir, name)
	}
	return direct
}

// GetResource opens an asset by name. The caller closes the reader.
func (l *Locator) GetResource(name string) (io.ReadCloser, error) {
	path := l.Resolve(name)
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "locate %s", name)
	}
	return file, nil
}
