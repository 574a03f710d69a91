// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/shell"
)

// runCommand executes a command and returns its combined output as a string.
// A deadline expiry is reported as a timeout error rather than the raw exit
// failure so the diagnostic message names the real cause.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	// Avoid pagers and color escape sequences in captured output.
	cmd.Env = append(os.Environ(), "NO_COLOR=1")
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("probe timed out: %w", ctx.Err())
	}
	if err != nil {
		return string(out), fmt.Errorf("probe failed: %w", err)
	}
	return string(out), nil
}

// splitCommand splits a configured probe command line into argv, honoring
// shell quoting rules. No expansion environment is supplied, so $VAR
// references resolve to empty rather than leaking process state into probes.
func splitCommand(command string) ([]string, error) {
	fields, err := shell.Fields(command, func(string) string { return "" })
	if err != nil {
		return nil, fmt.Errorf("invalid probe command %q: %w", command, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty probe command")
	}
	return fields, nil
}
