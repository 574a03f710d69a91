// SPDX-License-Identifier: MPL-2.0

package preflight

import (
	"fmt"
	"maps"
	"slices"

	"preflight-cli/internal/toolcheck"
	"preflight-cli/internal/venv"
)

// recommend scans the run's results and derives the advisory list. Order is
// deterministic (sorted tool/variable names) so repeated runs against an
// unchanged environment produce identical output.
func (c *Checker) recommend(venvInfo venv.Info, permissionErr string) []string {
	var recs []string

	for _, name := range sortedKeys(c.optional) {
		result := c.optional[name]
		switch {
		case !result.Available && result.Fallback != "" && c.IsToolAvailable(result.Fallback):
			recs = append(recs, fmt.Sprintf(
				"%s is unavailable; install it (%s) or rely on %s, which is available",
				name, result.InstallURL, result.Fallback))
		case !result.Available:
			recs = append(recs, installSuggestionFor(name, result, c))
		case result.Available && !toolcheck.MeetsMinimum(result.Version, c.reg.Tools[name].MinVersion):
			recs = append(recs, fmt.Sprintf(
				"%s %s is older than the recommended %s; consider upgrading",
				name, result.Version, c.reg.Tools[name].MinVersion))
		}
	}

	// Minimum-version advisories also apply to critical tools (which, being
	// present, never block on version alone).
	for _, name := range sortedKeys(c.critical) {
		result := c.critical[name]
		if result.Available && !toolcheck.MeetsMinimum(result.Version, c.reg.Tools[name].MinVersion) {
			recs = append(recs, fmt.Sprintf(
				"%s %s is older than the recommended %s; consider upgrading",
				name, result.Version, c.reg.Tools[name].MinVersion))
		}
	}

	if !venvInfo.Detected && c.hasPythonTools() {
		recs = append(recs, "no virtual environment detected; consider creating one: python -m venv .venv")
	}

	for _, name := range sortedKeys(c.environment) {
		if c.environment[name].Available {
			continue
		}
		spec := c.reg.EnvVars[name]
		// No point suggesting configuration for a tool that cannot run.
		if !c.IsToolAvailable(spec.Tool) {
			continue
		}
		recs = append(recs, fmt.Sprintf("%s needs %s (%s); export it before running", spec.Tool, name, spec.Description))
	}

	if permissionErr != "" {
		recs = append(recs, "fix report directory permissions or configure a writable reportPaths entry: "+permissionErr)
	}

	return recs
}

// installSuggestionFor prefers an exact package-manager command when the
// tool is npm-distributed, falling back to the install URL.
func installSuggestionFor(name string, result toolcheck.Result, c *Checker) string {
	if pkg := c.reg.Tools[name].Package; pkg != "" {
		return fmt.Sprintf("%s is unavailable; install it with: %s", name, c.pkgSvc.InstallCommand(pkg))
	}
	return installSuggestion(name, result.Description, result.InstallURL)
}

func installSuggestion(name, description, installURL string) string {
	if installURL == "" {
		return fmt.Sprintf("%s (%s) is unavailable; install it to enable this check", name, description)
	}
	return fmt.Sprintf("%s (%s) is unavailable; install it: %s", name, description, installURL)
}

func (c *Checker) hasPythonTools() bool {
	for _, spec := range c.reg.Tools {
		if spec.PythonTool {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
