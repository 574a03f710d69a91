// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
}

func TestManager_LockfilePrecedence(t *testing.T) {
	tests := []struct {
		name      string
		lockfiles []string
		want      Manager
	}{
		{"pnpm lockfile", []string{"pnpm-lock.yaml"}, Pnpm},
		{"yarn lockfile", []string{"yarn.lock"}, Yarn},
		{"bun text lockfile", []string{"bun.lock"}, Bun},
		{"bun binary lockfile", []string{"bun.lockb"}, Bun},
		{"npm lockfile", []string{"package-lock.json"}, Npm},
		{"specific beats generic", []string{"package-lock.json", "pnpm-lock.yaml"}, Pnpm},
		{"no lockfile defaults to npm", nil, Npm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			for _, lf := range tt.lockfiles {
				touch(t, tmpDir, lf)
			}

			if got := NewService(tmpDir).Manager(); got != tt.want {
				t.Errorf("Manager() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManager_PackageJSONDeclarationWins(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "package-lock.json")
	content := `{"name": "sample", "packageManager": "yarn@4.0.2"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write package.json: %v", err)
	}

	if got := NewService(tmpDir).Manager(); got != Yarn {
		t.Errorf("Manager() = %q, want %q", got, Yarn)
	}
}

func TestManager_OverrideWinsOverDeclaration(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "pnpm-lock.yaml")
	content := `{"name": "sample", "packageManager": "yarn@4.0.2"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write package.json: %v", err)
	}

	if got := NewService(tmpDir, WithOverride(Bun)).Manager(); got != Bun {
		t.Errorf("Manager() = %q, want %q", got, Bun)
	}
}

func TestManager_EmptyOverrideKeepsDetection(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "yarn.lock")

	if got := NewService(tmpDir, WithOverride("")).Manager(); got != Yarn {
		t.Errorf("Manager() = %q, want %q", got, Yarn)
	}
}

func TestManager_MalformedPackageJSONIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "pnpm-lock.yaml")
	if err := os.WriteFile(filepath.Join(tmpDir, "package.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("failed to write package.json: %v", err)
	}

	if got := NewService(tmpDir).Manager(); got != Pnpm {
		t.Errorf("Manager() = %q, want %q", got, Pnpm)
	}
}

func TestManager_Memoized(t *testing.T) {
	tmpDir := t.TempDir()
	svc := NewService(tmpDir)

	if got := svc.Manager(); got != Npm {
		t.Fatalf("Manager() = %q, want %q", got, Npm)
	}

	// A lockfile appearing after first resolution must not change the result.
	touch(t, tmpDir, "pnpm-lock.yaml")
	if got := svc.Manager(); got != Npm {
		t.Errorf("Manager() after memoization = %q, want %q", got, Npm)
	}
}

func TestInstallCommand(t *testing.T) {
	tests := []struct {
		lockfile string
		want     string
	}{
		{"pnpm-lock.yaml", "pnpm add -D eslint"},
		{"yarn.lock", "yarn add --dev eslint"},
		{"bun.lock", "bun add -d eslint"},
		{"package-lock.json", "npm install --save-dev eslint"},
	}

	for _, tt := range tests {
		t.Run(tt.lockfile, func(t *testing.T) {
			tmpDir := t.TempDir()
			touch(t, tmpDir, tt.lockfile)

			if got := NewService(tmpDir).InstallCommand("eslint"); got != tt.want {
				t.Errorf("InstallCommand() = %q, want %q", got, tt.want)
			}
		})
	}
}
