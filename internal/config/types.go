// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// PackageManagerAuto lets the detector pick the package manager from
	// project files (lockfiles, package.json).
	PackageManagerAuto PackageManagerName = ""
	// PackageManagerNpm forces npm.
	PackageManagerNpm PackageManagerName = "npm"
	// PackageManagerPnpm forces pnpm.
	PackageManagerPnpm PackageManagerName = "pnpm"
	// PackageManagerYarn forces yarn.
	PackageManagerYarn PackageManagerName = "yarn"
	// PackageManagerBun forces bun.
	PackageManagerBun PackageManagerName = "bun"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultProbeTimeout is the fallback per-probe timeout.
	DefaultProbeTimeout = "8s"
)

var (
	// ErrInvalidPackageManagerName is returned when a PackageManagerName value is not recognized.
	ErrInvalidPackageManagerName = errors.New("invalid package manager name")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidProbeTimeout is returned when a ProbeTimeout value is not a positive duration.
	ErrInvalidProbeTimeout = errors.New("invalid probe timeout")
	// ErrInvalidRegistryFilePath is returned when a RegistryFilePath value is whitespace-only.
	ErrInvalidRegistryFilePath = errors.New("invalid registry file path")
	// ErrInvalidReportDirPath is returned when a ReportDirPath value is empty or whitespace-only.
	ErrInvalidReportDirPath = errors.New("invalid report dir path")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// PackageManagerName specifies a JavaScript package manager override.
	// Defined locally to avoid coupling config to internal/pkgmgr;
	// the orchestrator casts at the boundary.
	PackageManagerName string

	// InvalidPackageManagerNameError is returned when a PackageManagerName value is
	// not recognized. It wraps ErrInvalidPackageManagerName for errors.Is() compatibility.
	InvalidPackageManagerNameError struct {
		Value PackageManagerName
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ProbeTimeout is a Go duration string bounding each tool probe.
	// The zero value ("") is valid and means "use the default timeout".
	ProbeTimeout string

	// InvalidProbeTimeoutError is returned when a ProbeTimeout value is not a
	// positive parseable duration. It wraps ErrInvalidProbeTimeout for errors.Is().
	InvalidProbeTimeoutError struct {
		Value ProbeTimeout
	}

	// RegistryFilePath represents a filesystem path to a registry CUE file.
	// The zero value ("") is valid and means "use the built-in registry".
	// Non-zero values must not be whitespace-only.
	RegistryFilePath string

	// InvalidRegistryFilePathError is returned when a RegistryFilePath value is
	// non-empty but whitespace-only.
	InvalidRegistryFilePathError struct {
		Value RegistryFilePath
	}

	// ReportDirPath represents a directory that report-writing stages need
	// writable. A valid path must be non-empty and not whitespace-only.
	ReportDirPath string

	// InvalidReportDirPathError is returned when a ReportDirPath value is
	// empty or whitespace-only. It wraps ErrInvalidReportDirPath for errors.Is().
	InvalidReportDirPathError struct {
		Value ReportDirPath
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ProbeTimeout bounds each tool probe (e.g. "8s", "30s").
		ProbeTimeout ProbeTimeout `json:"probe_timeout" mapstructure:"probe_timeout"`
		// RegistryPath overrides the built-in tool registry when set.
		RegistryPath RegistryFilePath `json:"registry_path" mapstructure:"registry_path"`
		// ReportPaths overrides the registry's writable-directory list when set.
		ReportPaths []ReportDirPath `json:"report_paths" mapstructure:"report_paths"`
		// PackageManager forces a JavaScript package manager instead of detecting one.
		PackageManager PackageManagerName `json:"package_manager" mapstructure:"package_manager"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ProbeTimeout.IsValid(), RegistryPath.IsValid(), each
// ReportPaths entry's IsValid(), PackageManager.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ProbeTimeout.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.RegistryPath.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, dir := range c.ReportPaths {
		if valid, fieldErrs := dir.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.PackageManager.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the ProbeTimeout.
func (t ProbeTimeout) String() string { return string(t) }

// IsValid returns whether the ProbeTimeout is valid.
// The zero value ("") is valid (means "use the default timeout").
// Non-zero values must parse as a positive Go duration.
func (t ProbeTimeout) IsValid() (bool, []error) {
	if t == "" {
		return true, nil
	}
	d, err := time.ParseDuration(string(t))
	if err != nil || d <= 0 {
		return false, []error{&InvalidProbeTimeoutError{Value: t}}
	}
	return true, nil
}

// Duration returns the parsed timeout, falling back to the default for the
// zero value. Call IsValid first; invalid values also fall back.
func (t ProbeTimeout) Duration() time.Duration {
	if d, err := time.ParseDuration(string(t)); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultProbeTimeout)
	return d
}

// Error implements the error interface for InvalidProbeTimeoutError.
func (e *InvalidProbeTimeoutError) Error() string {
	return fmt.Sprintf("invalid probe timeout %q: must be a positive duration like \"8s\"", e.Value)
}

// Unwrap returns ErrInvalidProbeTimeout for errors.Is() compatibility.
func (e *InvalidProbeTimeoutError) Unwrap() error { return ErrInvalidProbeTimeout }

// String returns the string representation of the RegistryFilePath.
func (p RegistryFilePath) String() string { return string(p) }

// IsValid returns whether the RegistryFilePath is valid.
// The zero value ("") is valid (means "use the built-in registry").
// Non-zero values must not be whitespace-only.
func (p RegistryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidRegistryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRegistryFilePathError.
func (e *InvalidRegistryFilePathError) Error() string {
	return fmt.Sprintf("invalid registry file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidRegistryFilePath for errors.Is() compatibility.
func (e *InvalidRegistryFilePathError) Unwrap() error { return ErrInvalidRegistryFilePath }

// String returns the string representation of the ReportDirPath.
func (p ReportDirPath) String() string { return string(p) }

// IsValid returns whether the ReportDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p ReportDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidReportDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidReportDirPathError.
func (e *InvalidReportDirPathError) Error() string {
	return fmt.Sprintf("invalid report dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidReportDirPath for errors.Is() compatibility.
func (e *InvalidReportDirPathError) Unwrap() error { return ErrInvalidReportDirPath }

// Error implements the error interface for InvalidPackageManagerNameError.
func (e *InvalidPackageManagerNameError) Error() string {
	return fmt.Sprintf("invalid package manager name %q (valid: npm, pnpm, yarn, bun)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidPackageManagerNameError) Unwrap() error {
	return ErrInvalidPackageManagerName
}

// String returns the string representation of the PackageManagerName.
func (n PackageManagerName) String() string { return string(n) }

// IsValid returns whether the PackageManagerName is one of the defined managers,
// and a list of validation errors if it is not. The zero value means auto-detect.
func (n PackageManagerName) IsValid() (bool, []error) {
	switch n {
	case PackageManagerAuto, PackageManagerNpm, PackageManagerPnpm, PackageManagerYarn, PackageManagerBun:
		return true, nil
	default:
		return false, []error{&InvalidPackageManagerNameError{Value: n}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ProbeTimeout:   DefaultProbeTimeout,
		RegistryPath:   "", // Built-in registry
		ReportPaths:    []ReportDirPath{},
		PackageManager: PackageManagerAuto,
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
