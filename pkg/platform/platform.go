// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"sync"
)

// Platform identifies the operating-system family the process runs on.
// It is resolved once and threaded through components as a parameter so
// platform branching stays in one place instead of scattered GOOS checks.
type Platform string

// Platform constants for runtime.GOOS families.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows Platform = "windows"
	Darwin  Platform = "darwin"
	Linux   Platform = "linux"
	// Other covers the remaining POSIX-style GOOS values (BSDs, etc.),
	// which share the Linux layout conventions for our purposes.
	Other Platform = "other"
)

// currentOnce caches the platform resolution for the lifetime of the process.
// GOOS is immutable during process lifetime, making process-wide caching safe.
var currentOnce = sync.OnceValue(func() Platform {
	return FromGOOS(runtime.GOOS)
})

// Current returns the platform the process is running on.
// The result is cached after the first call.
func Current() Platform {
	return currentOnce()
}

// FromGOOS maps a runtime.GOOS value to a Platform.
// This is a pure function that does not depend on cached detection state,
// making it directly testable without process-wide side effects.
func FromGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return Windows
	case "darwin":
		return Darwin
	case "linux":
		return Linux
	default:
		return Other
	}
}

// IsWindows reports whether p uses Windows filesystem and executable conventions.
func (p Platform) IsWindows() bool {
	return p == Windows
}

// ExeSuffix returns the executable filename suffix for p ("" on POSIX).
func (p Platform) ExeSuffix() string {
	if p.IsWindows() {
		return ".exe"
	}
	return ""
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	return string(p)
}
