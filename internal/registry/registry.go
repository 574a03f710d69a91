// SPDX-License-Identifier: MPL-2.0

package registry

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"preflight-cli/internal/envcheck"
	"preflight-cli/internal/toolcheck"
	"preflight-cli/pkg/cueutil"
)

//go:embed registry_schema.cue
var registrySchema []byte

//go:embed default_registry.cue
var defaultRegistry []byte

type (
	// Registry is the declarative input to an orchestration run.
	Registry struct {
		// Tools maps tool name to its probe spec.
		Tools map[string]toolcheck.Spec
		// EnvVars maps environment variable name to its declaration.
		EnvVars map[string]envcheck.VarSpec
		// ReportPaths are directories that must be writable.
		ReportPaths []string
	}

	// registryFile mirrors the CUE document shape for decoding.
	registryFile struct {
		Tools       map[string]toolEntry   `json:"tools"`
		EnvVars     map[string]envVarEntry `json:"envVars"`
		ReportPaths []string               `json:"reportPaths"`
	}

	toolEntry struct {
		Command     string `json:"command"`
		Critical    bool   `json:"critical"`
		Fallback    string `json:"fallback"`
		Description string `json:"description"`
		InstallURL  string `json:"installUrl"`
		Package     string `json:"package"`
		PythonTool  bool   `json:"pythonTool"`
		WSLFallback bool   `json:"wslFallback"`
		MinVersion  string `json:"minVersion"`
	}

	envVarEntry struct {
		Tool        string `json:"tool"`
		Description string `json:"description"`
	}
)

// Default returns the built-in registry.
func Default() (*Registry, error) {
	return parse(defaultRegistry, "default_registry.cue")
}

// Load reads a user registry from path, validates it against the schema and
// the Go-level invariants, and returns it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	return parse(data, filepath.Base(path))
}

func parse(data []byte, filename string) (*Registry, error) {
	decoded, err := cueutil.ParseAndDecode[registryFile](registrySchema, data, "#Registry", filename)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		Tools:       make(map[string]toolcheck.Spec, len(decoded.Tools)),
		EnvVars:     make(map[string]envcheck.VarSpec, len(decoded.EnvVars)),
		ReportPaths: decoded.ReportPaths,
	}

	for name, entry := range decoded.Tools {
		spec := toolcheck.Spec{
			Command:     entry.Command,
			Critical:    entry.Critical,
			Fallback:    entry.Fallback,
			Description: entry.Description,
			InstallURL:  entry.InstallURL,
			Package:     entry.Package,
			PythonTool:  entry.PythonTool,
			WSLFallback: entry.WSLFallback,
			MinVersion:  entry.MinVersion,
		}
		// Invariants the schema cannot express (e.g. critical excludes fallback).
		if err := spec.Validate(name); err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		reg.Tools[name] = spec
	}

	for name, entry := range decoded.EnvVars {
		if _, ok := decoded.Tools[entry.Tool]; !ok {
			return nil, fmt.Errorf("%s: env var '%s' references unknown tool '%s'", filename, name, entry.Tool)
		}
		reg.EnvVars[name] = envcheck.VarSpec{
			Tool:        entry.Tool,
			Description: entry.Description,
		}
	}

	return reg, nil
}

// Critical returns the specs of critical tools.
func (r *Registry) Critical() map[string]toolcheck.Spec {
	return r.filter(true)
}

// Optional returns the specs of non-critical tools.
func (r *Registry) Optional() map[string]toolcheck.Spec {
	return r.filter(false)
}

func (r *Registry) filter(critical bool) map[string]toolcheck.Spec {
	out := make(map[string]toolcheck.Spec)
	for name, spec := range r.Tools {
		if spec.Critical == critical {
			out[name] = spec
		}
	}
	return out
}
