// SPDX-License-Identifier: MPL-2.0

// Package envcheck validates the process environment: presence of declared
// environment variables and write permission on declared report directories.
//
// Checks are deliberately simple. Variable values are never parsed and never
// logged; permission probes write and delete a transient test file.
package envcheck
