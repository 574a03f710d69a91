// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writePyProject(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, pyProjectFile), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write pyproject.toml: %v", err)
	}
}

func TestProjectTools(t *testing.T) {
	tmpDir := t.TempDir()
	writePyProject(t, tmpDir, `
[project]
name = "sample"

[tool.ruff]
line-length = 100

[tool.mypy]
strict = true

[tool.setuptools]
packages = ["sample"]
`)

	got, err := ProjectTools(tmpDir)
	if err != nil {
		t.Fatalf("ProjectTools() error: %v", err)
	}
	want := []string{"mypy", "ruff"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectTools() = %v, want %v", got, want)
	}
}

func TestProjectTools_MissingManifest(t *testing.T) {
	got, err := ProjectTools(t.TempDir())
	if err != nil {
		t.Fatalf("ProjectTools() error for missing manifest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ProjectTools() = %v, want empty", got)
	}
}

func TestProjectTools_MalformedManifest(t *testing.T) {
	tmpDir := t.TempDir()
	writePyProject(t, tmpDir, "[tool.ruff\nbroken")

	if _, err := ProjectTools(tmpDir); err == nil {
		t.Error("ProjectTools() error = nil for malformed manifest, want error")
	}
}
