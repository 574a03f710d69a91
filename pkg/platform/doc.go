// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility utilities.
//
// This package resolves the operating-system family once at startup and
// detects the WSL compatibility layer, which some tools (notably container
// runtimes on Windows hosts) can be reached through when they are not
// directly on PATH.
package platform
