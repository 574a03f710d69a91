// SPDX-License-Identifier: MPL-2.0

package preflight

import (
	"preflight-cli/internal/envcheck"
	"preflight-cli/internal/pkgmgr"
	"preflight-cli/internal/toolcheck"
	"preflight-cli/internal/venv"
)

// Status constants for a summarized run.
const (
	// StatusReady means all critical tools are available; the parent CLI
	// may proceed, possibly degraded.
	StatusReady Status = "ready"
	// StatusBlocked means at least one critical tool is missing.
	StatusBlocked Status = "blocked"
)

type (
	// Status is the pass/block verdict of a run.
	Status string

	// Counts tallies one tool class.
	Counts struct {
		Total     int `json:"total"`
		Available int `json:"available"`
	}

	// Summary aggregates critical and optional tool counts.
	// Status is blocked iff critical.Available < critical.Total; optional
	// shortfalls never block.
	Summary struct {
		Critical Counts `json:"critical"`
		Optional Counts `json:"optional"`
		Status   Status `json:"status"`
	}

	// Report is the structured verdict of one orchestration run.
	Report struct {
		// Success is false only for a blocked run.
		Success bool `json:"success"`
		// Summary carries the aggregate counts and status.
		Summary Summary `json:"summary"`
		// Recommendations are advisory remediation strings, recomputed
		// every run from current results. Never persisted.
		Recommendations []string `json:"recommendations,omitempty"`
		// Err carries the blocking error message, or a non-blocking
		// degradation (e.g. an unwritable report directory).
		Err string `json:"error,omitempty"`
		// Venv is the virtual-environment context the run resolved.
		Venv venv.Info `json:"venv"`
		// PackageManager is the JavaScript package manager in effect.
		PackageManager pkgmgr.Manager `json:"packageManager"`
	}

	// Results exposes the per-probe result maps for downstream reporting.
	Results struct {
		Critical        map[string]toolcheck.Result
		Optional        map[string]toolcheck.Result
		Environment     map[string]envcheck.VarResult
		Recommendations []string
	}
)
