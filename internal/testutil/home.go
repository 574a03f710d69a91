// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home-directory variable (USERPROFILE on
// Windows, HOME elsewhere) at dir and returns a function restoring the
// original value. Config-directory tests use this to keep lookups that fall
// back to the home directory inside a temp dir.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "USERPROFILE", dir)
	default:
		return MustSetenv(t, "HOME", dir)
	}
}
