// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"preflight-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand builds the base command and its subcommand tree.
func newRootCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	rootCmd := &cobra.Command{
		Use:   "preflight",
		Short: "Validate your development environment before automation runs",
		Long: TitleStyle.Render("preflight") + SubtitleStyle.Render(" - Validate your development environment before automation runs") + `

preflight probes the tools, environment variables, and filesystem
permissions a development-automation run depends on. Critical tools
block the run when missing; optional tools degrade it with actionable
recommendations instead.

Tool requirements are declared in a registry file using CUE format,
with a built-in registry covering common development tooling.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'preflight check' in your project directory
  2. Follow the recommendations for anything missing
  3. Re-run until the environment reports ready

` + SubtitleStyle.Render("Examples:") + `
  preflight check               Check the current directory
  preflight check --json        Emit the report as JSON
  preflight registry show       Show the effective tool registry
  preflight config show         Show current configuration`,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/preflight/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(newCheckCommand(app, &verbose, &cfgFile))
	rootCmd.AddCommand(newRegistryCommand(app, &cfgFile))
	rootCmd.AddCommand(newConfigCommand(app, &cfgFile))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the command tree and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
