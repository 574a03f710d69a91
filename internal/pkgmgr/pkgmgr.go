// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Manager identifies a JavaScript package manager.
type Manager string

// Known package managers.
const (
	Npm  Manager = "npm"
	Pnpm Manager = "pnpm"
	Yarn Manager = "yarn"
	Bun  Manager = "bun"
)

// lockfiles maps lockfile names to managers, in precedence order.
// Manager-specific lockfiles come before npm's generic package-lock.json.
var lockfiles = []struct {
	name    string
	manager Manager
}{
	{"pnpm-lock.yaml", Pnpm},
	{"yarn.lock", Yarn},
	{"bun.lock", Bun},
	{"bun.lockb", Bun},
	{"package-lock.json", Npm},
}

// packageJSON models the subset of package.json we inspect.
type packageJSON struct {
	// PackageManager is the corepack-style declaration, e.g. "pnpm@9.1.0".
	PackageManager string `json:"packageManager"`
}

// Service resolves the active package manager for a project directory.
// The resolution is memoized for the lifetime of the Service.
type Service struct {
	dir      string
	override Manager

	detectOnce sync.Once
	manager    Manager
}

// Option configures a Service.
type Option func(*Service)

// WithOverride forces the manager, bypassing project detection.
// The zero value keeps detection active.
func WithOverride(m Manager) Option {
	return func(s *Service) {
		s.override = m
	}
}

// NewService creates a Service rooted at dir.
func NewService(dir string, opts ...Option) *Service {
	s := &Service{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Manager returns the package manager in effect for the project.
//
// Precedence: package.json packageManager field, then lockfiles (specific
// before generic), then npm as the default when nothing declares otherwise.
func (s *Service) Manager() Manager {
	s.detectOnce.Do(func() {
		s.manager = s.detect()
	})
	return s.manager
}

// InstallCommand returns a ready-to-display shell command that installs pkg
// as a development dependency using the active manager's syntax.
func (s *Service) InstallCommand(pkg string) string {
	switch s.Manager() {
	case Pnpm:
		return fmt.Sprintf("pnpm add -D %s", pkg)
	case Yarn:
		return fmt.Sprintf("yarn add --dev %s", pkg)
	case Bun:
		return fmt.Sprintf("bun add -d %s", pkg)
	default:
		return fmt.Sprintf("npm install --save-dev %s", pkg)
	}
}

func (s *Service) detect() Manager {
	if s.override != "" {
		return s.override
	}

	if m, ok := s.declaredManager(); ok {
		return m
	}

	for _, lf := range lockfiles {
		if fileExists(filepath.Join(s.dir, lf.name)) {
			return lf.manager
		}
	}

	return Npm
}

// declaredManager reads the packageManager field from package.json, if any.
// Parse failures are treated as "not declared" so a broken manifest cannot
// abort detection.
func (s *Service) declaredManager() (Manager, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, "package.json"))
	if err != nil {
		return "", false
	}

	var manifest packageJSON
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", false
	}
	if manifest.PackageManager == "" {
		return "", false
	}

	name, _, _ := strings.Cut(manifest.PackageManager, "@")
	switch Manager(name) {
	case Npm, Pnpm, Yarn, Bun:
		return Manager(name), true
	default:
		return "", false
	}
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
