// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"os"
	"path/filepath"
	"testing"

	"preflight-cli/pkg/platform"
)

// createVenvLayout creates a virtual environment skeleton and returns its root.
func createVenvLayout(t *testing.T, parent, name, binDir, interpreter string) string {
	t.Helper()
	root := filepath.Join(parent, name)
	if err := os.MkdirAll(filepath.Join(root, binDir), 0o755); err != nil {
		t.Fatalf("failed to create venv layout: %v", err)
	}
	interp := filepath.Join(root, binDir, interpreter)
	if err := os.WriteFile(interp, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("failed to create interpreter stub: %v", err)
	}
	return root
}

func noEnv(string) string { return "" }

func TestInfo_PosixLayout(t *testing.T) {
	tmpDir := t.TempDir()
	root := createVenvLayout(t, tmpDir, ".venv", "bin", "python")

	m := NewManager(tmpDir, platform.Linux, WithGetenv(noEnv))
	info := m.Info()

	if !info.Detected {
		t.Fatal("Info().Detected = false, want true")
	}
	if info.Path != root {
		t.Errorf("Info().Path = %q, want %q", info.Path, root)
	}
	if info.BinDir != "bin" {
		t.Errorf("Info().BinDir = %q, want %q", info.BinDir, "bin")
	}
}

func TestInfo_WindowsLayout(t *testing.T) {
	tmpDir := t.TempDir()
	root := createVenvLayout(t, tmpDir, ".venv", "Scripts", "python.exe")

	m := NewManager(tmpDir, platform.Windows, WithGetenv(noEnv))
	info := m.Info()

	if !info.Detected {
		t.Fatal("Info().Detected = false, want true")
	}
	if info.BinDir != "Scripts" {
		t.Errorf("Info().BinDir = %q, want %q", info.BinDir, "Scripts")
	}
	if info.Path != root {
		t.Errorf("Info().Path = %q, want %q", info.Path, root)
	}
}

func TestInfo_NotDetectedIsNotAnError(t *testing.T) {
	m := NewManager(t.TempDir(), platform.Linux, WithGetenv(noEnv))
	info := m.Info()

	if info.Detected {
		t.Error("Info().Detected = true for empty directory, want false")
	}
	if info.Path != "" {
		t.Errorf("Info().Path = %q, want empty", info.Path)
	}
}

func TestInfo_BareDirectoryDoesNotCount(t *testing.T) {
	tmpDir := t.TempDir()
	// A directory named venv without the interpreter must not trigger detection.
	if err := os.MkdirAll(filepath.Join(tmpDir, "venv", "bin"), 0o755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	m := NewManager(tmpDir, platform.Linux, WithGetenv(noEnv))
	if m.Detect() {
		t.Error("Detect() = true for venv directory without interpreter, want false")
	}
}

func TestInfo_VirtualEnvVarTakesPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	createVenvLayout(t, tmpDir, ".venv", "bin", "python")
	active := createVenvLayout(t, tmpDir, "elsewhere", "bin", "python")

	getenv := func(key string) string {
		if key == "VIRTUAL_ENV" {
			return active
		}
		return ""
	}

	m := NewManager(tmpDir, platform.Linux, WithGetenv(getenv))
	info := m.Info()

	if !info.Detected {
		t.Fatal("Info().Detected = false, want true")
	}
	if info.Path != active {
		t.Errorf("Info().Path = %q, want active venv %q", info.Path, active)
	}
}

func TestInfo_StaleVirtualEnvVarFallsBack(t *testing.T) {
	tmpDir := t.TempDir()
	local := createVenvLayout(t, tmpDir, ".venv", "bin", "python")

	getenv := func(key string) string {
		if key == "VIRTUAL_ENV" {
			return filepath.Join(tmpDir, "gone")
		}
		return ""
	}

	m := NewManager(tmpDir, platform.Linux, WithGetenv(getenv))
	info := m.Info()

	if !info.Detected || info.Path != local {
		t.Errorf("Info() = %+v, want detection of %q", info, local)
	}
}

func TestExecutablePath(t *testing.T) {
	tmpDir := t.TempDir()
	root := createVenvLayout(t, tmpDir, ".venv", "bin", "python")

	m := NewManager(tmpDir, platform.Linux, WithGetenv(noEnv))
	got := m.ExecutablePath(m.Info(), "ruff")
	want := filepath.Join(root, "bin", "ruff")
	if got != want {
		t.Errorf("ExecutablePath() = %q, want %q", got, want)
	}
}

func TestExecutablePath_WindowsSuffix(t *testing.T) {
	tmpDir := t.TempDir()
	root := createVenvLayout(t, tmpDir, ".venv", "Scripts", "python.exe")

	m := NewManager(tmpDir, platform.Windows, WithGetenv(noEnv))
	got := m.ExecutablePath(m.Info(), "ruff")
	want := filepath.Join(root, "Scripts", "ruff.exe")
	if got != want {
		t.Errorf("ExecutablePath() = %q, want %q", got, want)
	}
}
