// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"os/exec"
	"sync"
)

// Subsystem type constants.
const (
	// SubsystemNone indicates no compatibility layer is reachable.
	SubsystemNone SubsystemType = ""
	// SubsystemWSL indicates the Windows Subsystem for Linux is reachable
	// as a secondary invocation path.
	SubsystemWSL SubsystemType = "wsl"
)

// SubsystemType identifies a compatibility layer that can host a secondary
// invocation path for a tool, if any.
type SubsystemType string

// detectOnce caches the subsystem detection result for the lifetime of the
// process. Whether WSL is installed does not change while we run, making
// process-wide caching safe.
//
// INVARIANT: detectSubsystemFrom MUST NOT panic. sync.OnceValue propagates
// a panic on every subsequent call, creating a persistent crash condition.
var detectOnce = sync.OnceValue(func() SubsystemType {
	return detectSubsystemFrom(Current(), os.Getenv, lookPath)
})

// DetectSubsystem returns the compatibility layer reachable from the current
// process. The result is cached after the first call.
//
// Detection methods:
//   - Windows host: wsl.exe resolvable on PATH
//   - Inside WSL itself: WSL_DISTRO_NAME or WSL_INTEROP environment variables
func DetectSubsystem() SubsystemType {
	return detectOnce()
}

// HasSubsystem returns true if a compatibility layer is reachable.
func HasSubsystem() bool {
	return DetectSubsystem() != SubsystemNone
}

// SpawnCommandFor returns the command used to run a program through the
// given subsystem. Returns an empty string for SubsystemNone.
// This is a pure function that does not depend on cached detection state,
// making it directly testable without process-wide side effects.
func SpawnCommandFor(st SubsystemType) string {
	switch st {
	case SubsystemWSL:
		return "wsl"
	default:
		return ""
	}
}

// SpawnArgsFor returns the arguments prepended before the actual command
// when invoking through the given subsystem.
//
// For WSL, returns ["--exec"] so the target runs without an intermediate
// shell. For no subsystem, returns nil.
func SpawnArgsFor(st SubsystemType) []string {
	switch st {
	case SubsystemWSL:
		return []string{"--exec"}
	default:
		return nil
	}
}

// detectSubsystemFrom performs subsystem detection using the provided lookup
// functions. Accepting lookupEnv and lookPath as parameters allows tests to
// inject custom behavior without mutating process-wide state.
func detectSubsystemFrom(p Platform, lookupEnv func(string) string, lookPath func(string) (string, error)) SubsystemType {
	switch p {
	case Windows:
		// On a Windows host WSL is a usable secondary path only when the
		// wsl launcher itself resolves.
		if _, err := lookPath("wsl.exe"); err == nil {
			return SubsystemWSL
		}
	case Linux:
		// Inside a WSL distribution the interop variables are always set.
		if lookupEnv("WSL_DISTRO_NAME") != "" || lookupEnv("WSL_INTEROP") != "" {
			return SubsystemWSL
		}
	}
	return SubsystemNone
}

// lookPath is the production adapter for the lookPath parameter of
// detectSubsystemFrom, matching exec.LookPath's signature.
func lookPath(name string) (string, error) {
	return exec.LookPath(name)
}
