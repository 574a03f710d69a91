// SPDX-License-Identifier: MPL-2.0

package envcheck

import (
	"fmt"
	"os"
	"path/filepath"
)

type (
	// VarSpec declares one required environment variable.
	VarSpec struct {
		// Tool names the tool that needs the variable (e.g. a scanner that
		// authenticates with a token). Recommendations are scoped to it.
		Tool string
		// Description says what the variable is for.
		Description string
	}

	// VarResult reports presence of one variable. The value itself is never
	// captured so it cannot leak into logs or reports.
	VarResult struct {
		Available bool
	}

	// Validator checks environment variables and filesystem permissions.
	Validator struct {
		lookupEnv func(string) (string, bool)
	}

	// Option configures a Validator.
	Option func(*Validator)
)

// WithLookupEnv overrides the environment lookup. Primarily intended for
// tests, which otherwise would have to mutate process-global state.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(v *Validator) {
		v.lookupEnv = lookup
	}
}

// NewValidator creates a Validator reading the process environment.
func NewValidator(opts ...Option) *Validator {
	v := &Validator{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CheckEnvironmentVariables reports presence (set and non-empty) for each
// declared variable. The returned map has one entry per spec.
func (v *Validator) CheckEnvironmentVariables(specs map[string]VarSpec) map[string]VarResult {
	results := make(map[string]VarResult, len(specs))
	for name := range specs {
		value, ok := v.lookupEnv(name)
		results[name] = VarResult{Available: ok && value != ""}
	}
	return results
}

// CheckFileSystemPermissions verifies each declared output directory is
// writable, creating it if absent. The probe writes and deletes a transient
// test file; nothing persists. The first unwritable path fails the check.
func (v *Validator) CheckFileSystemPermissions(paths []string) error {
	for _, dir := range paths {
		if err := probeWritable(dir); err != nil {
			return fmt.Errorf("report directory %s is not writable: %w", dir, err)
		}
	}
	return nil
}

func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	probe := filepath.Join(dir, fmt.Sprintf(".preflight-probe-%d", os.Getpid()))
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
