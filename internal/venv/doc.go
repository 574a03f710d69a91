// SPDX-License-Identifier: MPL-2.0

// Package venv resolves Python-style virtual environments.
//
// A virtual environment changes how Python-ecosystem tools are probed: when
// one is detected, their executables are invoked directly from the
// environment's binary subdirectory instead of relying on PATH. Absence of
// a virtual environment is a normal, non-error outcome that downstream code
// turns into a recommendation.
package venv
