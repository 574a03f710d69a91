// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"errors"
	"fmt"
)

// Detection method constants. The method records which strategy confirmed a
// tool's availability.
const (
	// MethodStandard means the configured probe command succeeded as-is.
	MethodStandard Method = "standard"
	// MethodVenv means the tool was invoked directly from a virtual
	// environment's binary subdirectory, bypassing PATH.
	MethodVenv Method = "venv"
	// MethodFileBased means an installed package manifest confirmed the tool
	// without spawning a process.
	MethodFileBased Method = "file-based"
	// MethodWSLFallback means the tool was reached through the WSL
	// compatibility layer after the standard probe failed.
	MethodWSLFallback Method = "wsl-fallback"
	// MethodFailed means every strategy failed.
	MethodFailed Method = "failed"
)

// ErrToolNotAvailable is the sentinel error wrapped by CriticalToolError.
var ErrToolNotAvailable = errors.New("tool not available")

type (
	// Method identifies the detection strategy that produced a result.
	Method string

	// Spec declares how to probe one tool. Specs are provided by the caller
	// (normally the tool registry) and never mutated.
	Spec struct {
		// Command is the probe command line, e.g. "git --version".
		Command string
		// Critical marks a tool whose absence blocks the whole run.
		// Critical specs must not declare a Fallback.
		Critical bool
		// Fallback names an alternate tool surfaced in recommendations when
		// this one is unavailable.
		Fallback string
		// Description is the human-readable purpose of the tool.
		Description string
		// InstallURL points at installation instructions.
		InstallURL string
		// Package is the npm package name backing the file-based probe.
		// Empty means the strategy is skipped.
		Package string
		// PythonTool marks a Python-ecosystem tool that gets the venv-aware
		// probe when a virtual environment is detected.
		PythonTool bool
		// WSLFallback enables the secondary invocation path through WSL.
		// Only registry entries declare this; no other targets are invented.
		WSLFallback bool
		// MinVersion is an advisory semver minimum. Older detected versions
		// stay available but yield an upgrade recommendation.
		MinVersion string
	}

	// Result is the normalized outcome of probing one tool.
	//
	// Available=true implies Method != MethodFailed and Version set when the
	// probe output was parseable. Available=false implies Err is set.
	Result struct {
		// Name is the tool name from the probing batch.
		Name string
		// Available reports whether any strategy confirmed the tool.
		Available bool
		// Version is the parsed version token sequence, when obtainable.
		Version string
		// Method is the strategy that succeeded, or MethodFailed.
		Method Method
		// Err preserves the most informative failure message for diagnostics.
		// It never changes control flow.
		Err string
		// TimedOut marks that the preserved failure was a probe deadline
		// expiry rather than a missing or broken tool.
		TimedOut bool
		// Fallback echoes Spec.Fallback.
		Fallback string
		// Command echoes Spec.Command.
		Command string
		// Description echoes Spec.Description.
		Description string
		// InstallURL echoes Spec.InstallURL.
		InstallURL string
	}

	// CriticalToolError is returned by CheckCriticalTools when a critical
	// tool is undetectable after all strategies. It identifies the tool so
	// the orchestrator can surface its install URL.
	CriticalToolError struct {
		// Name is the missing tool.
		Name string
		// Result is the failed probe result for the tool.
		Result Result
	}
)

// Error implements the error interface.
func (e *CriticalToolError) Error() string {
	msg := fmt.Sprintf("critical tool '%s' is not available", e.Name)
	if e.Result.Err != "" {
		msg += ": " + e.Result.Err
	}
	return msg
}

// Unwrap returns ErrToolNotAvailable for errors.Is compatibility.
func (e *CriticalToolError) Unwrap() error {
	return ErrToolNotAvailable
}

// Validate checks the spec invariants that the registry schema cannot
// express: a probe command must be present, and a critical tool must not
// degrade silently through a fallback.
func (s Spec) Validate(name string) error {
	if s.Command == "" {
		return fmt.Errorf("tool '%s': probe command must not be empty", name)
	}
	if s.Critical && s.Fallback != "" {
		return fmt.Errorf("tool '%s': critical tools must not declare a fallback", name)
	}
	return nil
}
