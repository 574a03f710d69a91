// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"preflight-cli/internal/config"
	"preflight-cli/internal/issue"
	"preflight-cli/internal/pkgmgr"
	"preflight-cli/internal/preflight"
	"preflight-cli/internal/toolcheck"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// checkOptions captures all `preflight check` inputs as an immutable value.
type checkOptions struct {
	// Dir is the project directory to check (defaults to the working directory).
	Dir string
	// RegistryPath overrides the registry file (flag wins over config).
	RegistryPath string
	// JSONOutput emits the structured report instead of styled text.
	JSONOutput bool
	// Verbose enables per-probe diagnostic detail.
	Verbose bool
	// ConfigPath is the explicit --config flag value.
	ConfigPath string

	// toolOpts forwards extra probe options; tests use this to inject
	// fake runners.
	toolOpts []toolcheck.Option
}

// newCheckCommand creates the `preflight check` command.
func newCheckCommand(app *App, verbose *bool, cfgFile *string) *cobra.Command {
	var (
		jsonOutput   bool
		dir          string
		registryPath string
	)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check tools, environment variables, and report directories",
		Long: `Check that the development environment satisfies the tool registry.

Critical tools are probed first; a missing critical tool blocks the run
with a non-zero exit code. Optional tools, environment variables, and
report directory permissions are checked next and produce
recommendations instead of failures.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), app, checkOptions{
				Dir:          dir,
				RegistryPath: registryPath,
				JSONOutput:   jsonOutput,
				Verbose:      *verbose,
				ConfigPath:   *cfgFile,
			})
		},
	}

	checkCmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the report as JSON")
	checkCmd.Flags().StringVar(&dir, "dir", "", "project directory to check (default is the working directory)")
	checkCmd.Flags().StringVar(&registryPath, "registry", "", "registry file (default is the built-in registry)")

	return checkCmd
}

func runCheck(ctx context.Context, app *App, opts checkOptions) error {
	cfg, warning, err := loadConfigWithFallback(ctx, app.Config, opts.ConfigPath)
	if err != nil {
		renderIssue(app.stderr, issue.ConfigLoadFailedId, cfg)
		return err
	}
	if warning != "" {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+warning)
	}

	verbose := opts.Verbose || cfg.UI.Verbose

	registryPath := opts.RegistryPath
	if registryPath == "" {
		registryPath = string(cfg.RegistryPath)
	}
	reg, err := app.Registry.Resolve(registryPath)
	if err != nil {
		renderIssue(app.stderr, issue.RegistryLoadFailedId, cfg)
		return err
	}
	reg.ReportPaths = mergeReportPaths(reg.ReportPaths, cfg.ReportPaths)

	workDir := opts.Dir
	if workDir == "" {
		workDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine working directory: %w", err)
		}
	}

	// Info is the floor: the per-probe success line (tool name and
	// version) is part of the command's observable output.
	logger := log.NewWithOptions(app.stderr, log.Options{
		Prefix: "preflight",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	checker := preflight.New(workDir, reg,
		preflight.WithLogger(logger),
		preflight.WithPackageManagerService(
			pkgmgr.NewService(workDir, pkgmgr.WithOverride(pkgmgr.Manager(cfg.PackageManager)))),
		preflight.WithToolOptions(
			append([]toolcheck.Option{toolcheck.WithTimeout(cfg.ProbeTimeout.Duration())}, opts.toolOpts...)...),
	)

	report := checker.CheckEnvironment(ctx)

	if opts.JSONOutput {
		if err := writeReportJSON(app.stdout, report); err != nil {
			return err
		}
	} else {
		results := checker.Results()
		renderReport(app.stdout, workDir, report, results, verbose)
		for _, id := range advisoryIssues(report, results, verbose) {
			renderIssue(app.stderr, id, cfg)
		}
	}

	if !report.Success {
		if !opts.JSONOutput {
			renderIssue(app.stderr, issue.CriticalToolMissingId, cfg)
		}
		return &ExitError{Code: 1, Err: errors.New(report.Err)}
	}

	return nil
}

// mergeReportPaths appends configured report directories to the registry's,
// skipping paths already declared. Comparison is on cleaned paths so trailing
// separators do not produce duplicates.
func mergeReportPaths(declared []string, configured []config.ReportDirPath) []string {
	seen := make(map[string]bool, len(declared))
	for _, p := range declared {
		seen[filepath.Clean(p)] = true
	}

	merged := declared
	for _, p := range configured {
		cleaned := filepath.Clean(string(p))
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		merged = append(merged, string(p))
	}
	return merged
}

func writeReportJSON(w io.Writer, report *preflight.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// renderReport writes the styled human-readable report.
func renderReport(w io.Writer, workDir string, report *preflight.Report, results preflight.Results, verbose bool) {
	fmt.Fprintln(w, TitleStyle.Render("Preflight Check"))
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Directory"), workDir)
	fmt.Fprintln(w)

	renderToolSection(w, "Critical tools", results.Critical, verbose)
	renderToolSection(w, "Optional tools", results.Optional, verbose)

	if len(results.Environment) > 0 {
		fmt.Fprintf(w, "%s:\n", CmdStyle.Render("Environment variables"))
		for _, name := range slices.Sorted(maps.Keys(results.Environment)) {
			if results.Environment[name].Available {
				fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), name)
			} else {
				fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), name, SubtitleStyle.Render("(not set)"))
			}
		}
		fmt.Fprintln(w)
	}

	if report.Venv.Detected {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Virtual environment"), SuccessStyle.Render(report.Venv.Path))
	} else {
		fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Virtual environment"), SubtitleStyle.Render("(none detected)"))
	}
	fmt.Fprintf(w, "%s: %s\n", CmdStyle.Render("Package manager"), string(report.PackageManager))

	if report.Err != "" && report.Success {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("Warning: ")+report.Err)
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", WarningStyle.Render("Recommendations"))
		for _, rec := range report.Recommendations {
			fmt.Fprintf(w, "  - %s\n", rec)
		}
	}

	fmt.Fprintln(w)
	summary := report.Summary
	verdict := SuccessStyle.Render(string(summary.Status))
	if summary.Status == preflight.StatusBlocked {
		verdict = ErrorStyle.Render(string(summary.Status))
	}
	fmt.Fprintf(w, "%s: %s — critical %d/%d, optional %d/%d\n",
		TitleStyle.Render("Status"), verdict,
		summary.Critical.Available, summary.Critical.Total,
		summary.Optional.Available, summary.Optional.Total)
}

func renderToolSection(w io.Writer, title string, results map[string]toolcheck.Result, verbose bool) {
	if len(results) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", CmdStyle.Render(title))
	for _, name := range slices.Sorted(maps.Keys(results)) {
		result := results[name]
		switch {
		case result.Available && result.Version != "":
			fmt.Fprintf(w, "  %s %s %s\n", SuccessStyle.Render("✓"), name, VerboseStyle.Render(result.Version))
		case result.Available:
			fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render("✓"), name)
		default:
			fmt.Fprintf(w, "  %s %s %s\n", ErrorStyle.Render("✗"), name, SubtitleStyle.Render("(unavailable)"))
		}
		if verbose {
			fmt.Fprintf(w, "    %s\n", VerboseStyle.Render(fmt.Sprintf("method: %s, command: %s", result.Method, result.Command)))
			if result.Err != "" {
				fmt.Fprintf(w, "    %s\n", VerboseStyle.Render("error: "+result.Err))
			}
		}
	}
	fmt.Fprintln(w)
}

// advisoryIssues selects the help cards a finished run warrants. An
// unwritable report directory always gets its card because report
// generation will fail later; the remaining cards are diagnostic detail
// gated behind verbose.
func advisoryIssues(report *preflight.Report, results preflight.Results, verbose bool) []issue.Id {
	var ids []issue.Id
	if report.Success && report.Err != "" {
		ids = append(ids, issue.ReportDirUnwritableId)
	}
	if !verbose {
		return ids
	}
	if !report.Venv.Detected {
		ids = append(ids, issue.VenvNotDetectedId)
	}
	for _, result := range results.Environment {
		if !result.Available {
			ids = append(ids, issue.EnvVarMissingId)
			break
		}
	}
	if anyProbeTimedOut(results.Critical) || anyProbeTimedOut(results.Optional) {
		ids = append(ids, issue.ProbeTimeoutId)
	}
	return ids
}

func anyProbeTimedOut(results map[string]toolcheck.Result) bool {
	for _, r := range results {
		if r.TimedOut {
			return true
		}
	}
	return false
}

// renderIssue writes a rendered issue catalog entry to stderr. Rendering
// failures are swallowed; help text must never mask the underlying error.
func renderIssue(stderr io.Writer, id issue.Id, cfg *config.Config) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}

	rendered, err := entry.Render(colorScheme(cfg))
	if err != nil {
		return
	}
	fmt.Fprint(stderr, rendered)
}

// colorScheme maps the configured scheme to a glamour style name.
func colorScheme(cfg *config.Config) string {
	if cfg != nil && cfg.UI.ColorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}
