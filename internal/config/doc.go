// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/preflight/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/preflight/config.cue on macOS, %APPDATA%\preflight\config.cue
// on Windows). The package provides type-safe configuration access and covers the probe
// timeout, the tool registry path, report directories, JavaScript package manager selection,
// and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
