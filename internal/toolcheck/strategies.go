// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"preflight-cli/pkg/platform"
)

// probeFunc is one detection strategy. It returns the successful result and
// true, or a zero result, false, and the failure for diagnostics.
type probeFunc func(ctx context.Context, name string, spec Spec) (Result, bool, error)

// strategiesFor assembles the ordered strategy list for one tool. The list
// is explicit rather than hardcoded branching: the checker tries each entry
// in sequence and stops at the first success.
func (c *Checker) strategiesFor(name string, spec Spec) []probeFunc {
	var probes []probeFunc
	if c.venvInfo.Detected && c.isPythonTool(name, spec) {
		probes = append(probes, c.venvProbe)
	}
	if spec.Package != "" {
		probes = append(probes, c.fileProbe)
	}
	probes = append(probes, c.standardProbe)
	if spec.WSLFallback && c.subsystem != platform.SubsystemNone {
		probes = append(probes, c.wslProbe)
	}
	return probes
}

// isPythonTool reports whether the venv-aware probe applies: either the spec
// declares it, or the project's pyproject.toml configures the tool.
func (c *Checker) isPythonTool(name string, spec Spec) bool {
	return spec.PythonTool || c.pythonTools[name]
}

// venvProbe rewrites the probe command to invoke the tool's executable
// directly from the virtual environment's binary subdirectory.
func (c *Checker) venvProbe(ctx context.Context, name string, spec Spec) (Result, bool, error) {
	argv, err := splitCommand(spec.Command)
	if err != nil {
		return Result{}, false, err
	}
	argv[0] = c.venvMgr.ExecutablePath(c.venvInfo, name)
	if _, err := os.Stat(argv[0]); err != nil {
		return Result{}, false, fmt.Errorf("not installed in virtual environment: %w", err)
	}

	out, err := c.run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Available: true, Version: ParseVersion(out), Method: MethodVenv}, true, nil
}

// packageManifest models the subset of an installed package.json we read.
type packageManifest struct {
	Version string `json:"version"`
}

// fileProbe verifies presence by reading the installed package manifest
// under node_modules, avoiding a process spawn entirely.
func (c *Checker) fileProbe(_ context.Context, _ string, spec Spec) (Result, bool, error) {
	manifestPath := filepath.Join(c.workDir, "node_modules", filepath.FromSlash(spec.Package), "package.json")
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return Result{}, false, fmt.Errorf("package manifest not found: %w", err)
	}

	var manifest packageManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return Result{}, false, fmt.Errorf("invalid package manifest %s: %w", manifestPath, err)
	}
	if manifest.Version == "" {
		return Result{}, false, fmt.Errorf("package manifest %s has no version", manifestPath)
	}
	return Result{Available: true, Version: manifest.Version, Method: MethodFileBased}, true, nil
}

// standardProbe executes the literal configured command.
func (c *Checker) standardProbe(ctx context.Context, _ string, spec Spec) (Result, bool, error) {
	argv, err := splitCommand(spec.Command)
	if err != nil {
		return Result{}, false, err
	}

	out, err := c.run(ctx, argv[0], argv[1:]...)
	if err != nil {
		return Result{}, false, err
	}
	// A zero exit with unparseable output still counts as available.
	return Result{Available: true, Version: ParseVersion(out), Method: MethodStandard}, true, nil
}

// wslProbe retries the configured command through the WSL compatibility
// layer. It only appears in strategy lists of specs that declare it.
func (c *Checker) wslProbe(ctx context.Context, _ string, spec Spec) (Result, bool, error) {
	argv, err := splitCommand(spec.Command)
	if err != nil {
		return Result{}, false, err
	}
	wrapped := append(platform.SpawnArgsFor(c.subsystem), argv...)

	out, err := c.run(ctx, platform.SpawnCommandFor(c.subsystem), wrapped...)
	if err != nil {
		return Result{}, false, err
	}
	return Result{Available: true, Version: ParseVersion(out), Method: MethodWSLFallback}, true, nil
}
