// SPDX-License-Identifier: MPL-2.0

// Package preflight orchestrates the capability-detection run.
//
// It composes virtual-environment resolution, package-manager detection,
// tool probing and environment validation into a single verdict: which
// tools are ready, whether the run can proceed, and what to recommend. The
// flow is strictly ordered: critical tools resolve (or fatally reject)
// before any optional-tool or environment-variable probe begins, so a
// doomed run wastes no work.
package preflight
