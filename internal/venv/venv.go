// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"os"
	"path/filepath"

	"preflight-cli/pkg/platform"
)

// conventionalDirs are the virtual-environment directory names searched
// relative to the working directory, in order of precedence.
var conventionalDirs = []string{".venv", "venv", "env"}

type (
	// Info describes a resolved virtual environment.
	// It is computed once per orchestration run and read-only afterward.
	Info struct {
		// Detected reports whether a usable virtual environment was found.
		Detected bool
		// Path is the environment's root directory (empty when not detected).
		Path string
		// BinDir is the platform-specific binary subdirectory inside Path.
		BinDir string
	}

	// Manager resolves the platform-specific layout of a virtual environment.
	// It performs pure filesystem reads and has no side effects.
	Manager struct {
		platform platform.Platform
		workDir  string
		getenv   func(string) string
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// WithGetenv overrides the environment lookup used to honor VIRTUAL_ENV.
// Primarily intended for tests.
func WithGetenv(getenv func(string) string) Option {
	return func(m *Manager) {
		m.getenv = getenv
	}
}

// NewManager creates a Manager that searches workDir using the layout
// conventions of p.
func NewManager(workDir string, p platform.Platform, opts ...Option) *Manager {
	m := &Manager{
		platform: p,
		workDir:  workDir,
		getenv:   os.Getenv,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BinDirName returns the binary subdirectory name for the manager's platform:
// "Scripts" on Windows layouts, "bin" on POSIX layouts.
func (m *Manager) BinDirName() string {
	if m.platform.IsWindows() {
		return "Scripts"
	}
	return "bin"
}

// InterpreterName returns the Python interpreter filename for the layout.
func (m *Manager) InterpreterName() string {
	return "python" + m.platform.ExeSuffix()
}

// Detect reports whether a virtual environment is active or present.
func (m *Manager) Detect() bool {
	return m.Info().Detected
}

// Info resolves the virtual environment, if any.
//
// An active environment (VIRTUAL_ENV set and structurally valid) takes
// precedence over conventional directories under the working directory.
// A directory only counts when its binary subdirectory contains the
// interpreter, so stray directories named "venv" do not trigger detection.
func (m *Manager) Info() Info {
	if root := m.getenv("VIRTUAL_ENV"); root != "" {
		if info, ok := m.infoAt(root); ok {
			return info
		}
	}

	for _, name := range conventionalDirs {
		if info, ok := m.infoAt(filepath.Join(m.workDir, name)); ok {
			return info
		}
	}

	return Info{}
}

// ExecutablePath returns the path a tool executable would have inside the
// environment's binary subdirectory, bypassing PATH entirely.
func (m *Manager) ExecutablePath(info Info, tool string) string {
	return filepath.Join(info.Path, info.BinDir, tool+m.platform.ExeSuffix())
}

// infoAt validates the layout rooted at dir.
func (m *Manager) infoAt(dir string) (Info, bool) {
	binDir := m.BinDirName()
	interp := filepath.Join(dir, binDir, m.InterpreterName())
	st, err := os.Stat(interp)
	if err != nil || st.IsDir() {
		return Info{}, false
	}
	return Info{
		Detected: true,
		Path:     dir,
		BinDir:   binDir,
	}, true
}
