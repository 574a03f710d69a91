// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride redirects ConfigDir for tests. os.UserHomeDir does not
// consistently follow a mutated HOME on every platform, so pointing HOME at
// a temp dir is not always enough to isolate config lookups.
var configDirOverride string

// Reset clears the test override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}

// SetConfigDirOverride makes ConfigDir return dir unconditionally until
// Reset. Test-only.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}
