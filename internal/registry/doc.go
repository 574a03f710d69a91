// SPDX-License-Identifier: MPL-2.0

// Package registry loads the declarative tool registry: which tools to
// probe, which environment variables they need, and which report paths must
// be writable. Registries are CUE documents validated against an embedded
// schema; a built-in default ships with the binary.
package registry
