// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for preflight.
//
// This package implements the Cobra command hierarchy for the preflight CLI,
// including the root command and subcommands for environment checks, registry
// inspection, and configuration management.
package cmd
