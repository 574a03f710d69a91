// SPDX-License-Identifier: MPL-2.0

// Package pkgmgr detects the JavaScript package manager in effect for a
// project and synthesizes install-command strings for recommendations.
//
// Detection is by lockfile precedence: a manager-specific lockfile wins over
// the generic npm one, and an explicit packageManager field in package.json
// wins over any lockfile. The package performs no installation.
package pkgmgr
