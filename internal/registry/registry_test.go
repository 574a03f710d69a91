// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	git, ok := reg.Tools["git"]
	if !ok {
		t.Fatal("default registry is missing git")
	}
	if !git.Critical {
		t.Error("git should be critical in the default registry")
	}
	if git.Command != "git --version" {
		t.Errorf("git command = %q, want %q", git.Command, "git --version")
	}

	docker, ok := reg.Tools["docker"]
	if !ok {
		t.Fatal("default registry is missing docker")
	}
	if !docker.WSLFallback {
		t.Error("docker should declare the WSL fallback")
	}

	if _, ok := reg.EnvVars["SNYK_TOKEN"]; !ok {
		t.Error("default registry is missing SNYK_TOKEN")
	}
	if len(reg.ReportPaths) == 0 {
		t.Error("default registry has no report paths")
	}
}

func TestDefault_CriticalNeverDeclaresFallback(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	for name, spec := range reg.Critical() {
		if spec.Fallback != "" {
			t.Errorf("critical tool %q declares fallback %q", name, spec.Fallback)
		}
	}
}

func TestCriticalOptionalPartition(t *testing.T) {
	reg, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	critical := reg.Critical()
	optional := reg.Optional()

	if len(critical)+len(optional) != len(reg.Tools) {
		t.Errorf("partition sizes %d+%d do not cover %d tools", len(critical), len(optional), len(reg.Tools))
	}
	for name := range critical {
		if _, ok := optional[name]; ok {
			t.Errorf("tool %q is in both partitions", name)
		}
	}
}

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.cue")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write registry: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeRegistry(t, `
tools: {
	git: {
		command:  "git --version"
		critical: true
	}
	shellcheck: {
		command:     "shellcheck --version"
		description: "shell script linter"
	}
}
envVars: {
	API_TOKEN: {tool: "shellcheck"}
}
reportPaths: ["out/reports"]
`)

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(reg.Tools) != 2 {
		t.Errorf("Load() tools = %d, want 2", len(reg.Tools))
	}
	if !reg.Tools["git"].Critical {
		t.Error("git not critical after load")
	}
	if got := reg.EnvVars["API_TOKEN"].Tool; got != "shellcheck" {
		t.Errorf("API_TOKEN tool = %q, want %q", got, "shellcheck")
	}
}

func TestLoad_CriticalWithFallbackRejected(t *testing.T) {
	path := writeRegistry(t, `
tools: {
	git: {
		command:  "git --version"
		critical: true
		fallback: "hg"
	}
}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil for critical tool with fallback, want error")
	}
	if !strings.Contains(err.Error(), "fallback") {
		t.Errorf("Load() error = %q, want fallback complaint", err)
	}
}

func TestLoad_EnvVarForUnknownTool(t *testing.T) {
	path := writeRegistry(t, `
tools: {
	git: {command: "git --version"}
}
envVars: {
	GHOST_TOKEN: {tool: "ghost"}
}
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for env var referencing unknown tool, want error")
	}
}

func TestLoad_EmptyCommandRejected(t *testing.T) {
	path := writeRegistry(t, `
tools: {
	broken: {command: ""}
}
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() error = nil for empty probe command, want error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.cue")); err == nil {
		t.Error("Load() error = nil for missing file, want error")
	}
}
