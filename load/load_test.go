// SPDX-FileCopyrightText : © 2024 Galvanized Logic Inc.
// SPDX-License-Identifier: BSD-2-Clause

package load

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLocatorConventions(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "models"), 0o755); err != nil {
		t.Fatalf("mkdir: %s", err)
	}
	path := filepath.Join(root, "models", "cube.obj")
	if err := os.WriteFile(path, []byte("o cube\n"), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}

	loc := NewLocator(root)
	file, err := loc.GetResource("cube.obj")
	if err != nil {
		t.Fatalf("GetResource: %s", err)
	}
	defer file.Close()
	data, _ := io.ReadAll(file)
	if string(data) != "o cube\n" {
		t.Errorf("Read got %q", data)
	}
}

func TestLocatorDirectPath(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "standalone.obj")
	if err := os.WriteFile(path, []byte("o s\n"), 0o644); err != nil {
		t.Fatalf("write: %s", err)
	}

	// Files directly under the root win over the convention dirs.
	loc := NewLocator(root)
	if got := loc.Resolve("standalone.obj"); got != path {
		t.Errorf("Resolve got %q wanted %q", got, path)
	}
}

func TestLocatorDirOverride(t *testing.T) {
	root := t.TempDir()
	loc := NewLocator(root).Dir(".obj", "geometry")
	want := filepath.Join(root, "geometry", "cube.obj")
	if got := loc.Resolve("cube.obj"); got != want {
		t.Errorf("Resolve got %q wanted %q", got, want)
	}
}

func TestLocatorMissing(t *testing.T) {
	loc := NewLocator(t.TempDir())
	if _, err := loc.GetResource("nope.obj"); err == nil {
		t.Errorf("Missing asset must error")
	}
}
