// SPDX-License-Identifier: MPL-2.0

// Package testutil provides small test helpers for process-global state:
// environment variables (MustSetenv, MustUnsetenv, SetHomeDir), the working
// directory (MustChdir), and the container-test parallelism semaphore. Each
// mutator fails the test on error and returns a restore function.
package testutil
