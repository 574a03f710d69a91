// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"preflight-cli/internal/issue"
	"preflight-cli/internal/registry"
	"preflight-cli/internal/toolcheck"

	"github.com/spf13/cobra"
)

// newRegistryCommand creates the `preflight registry` command tree.
func newRegistryCommand(app *App, cfgFile *string) *cobra.Command {
	regCmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and validate tool registries",
		Long: `Inspect and validate tool registries.

A registry declares the tools, environment variables, and report
directories a check run verifies. Without a configured registry_path,
the built-in registry is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var registryPath string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective tool registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRegistry(cmd.Context(), app, registryPath, *cfgFile)
		},
	}
	showCmd.Flags().StringVar(&registryPath, "registry", "", "registry file (default is the built-in registry)")
	regCmd.AddCommand(showCmd)

	regCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a registry file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateRegistry(app, args[0])
		},
	})

	return regCmd
}

func showRegistry(ctx context.Context, app *App, registryPath, configPath string) error {
	cfg, warning, err := loadConfigWithFallback(ctx, app.Config, configPath)
	if err != nil {
		renderIssue(app.stderr, issue.ConfigLoadFailedId, cfg)
		return err
	}
	if warning != "" {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+warning)
	}

	if registryPath == "" {
		registryPath = string(cfg.RegistryPath)
	}
	reg, err := app.Registry.Resolve(registryPath)
	if err != nil {
		renderIssue(app.stderr, issue.RegistryLoadFailedId, cfg)
		return err
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Tool Registry"))
	if registryPath == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Source"), SubtitleStyle.Render("(built-in)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", CmdStyle.Render("Source"), registryPath)
	}
	fmt.Fprintln(app.stdout)

	renderSpecSection(app.stdout, "Critical tools", reg.Critical())
	renderSpecSection(app.stdout, "Optional tools", reg.Optional())

	if len(reg.EnvVars) > 0 {
		fmt.Fprintf(app.stdout, "%s:\n", CmdStyle.Render("Environment variables"))
		for _, name := range slices.Sorted(maps.Keys(reg.EnvVars)) {
			spec := reg.EnvVars[name]
			fmt.Fprintf(app.stdout, "  - %s %s\n", name, SubtitleStyle.Render(fmt.Sprintf("(%s: %s)", spec.Tool, spec.Description)))
		}
		fmt.Fprintln(app.stdout)
	}

	if len(reg.ReportPaths) > 0 {
		fmt.Fprintf(app.stdout, "%s:\n", CmdStyle.Render("Report directories"))
		for _, p := range reg.ReportPaths {
			fmt.Fprintf(app.stdout, "  - %s\n", p)
		}
	}

	return nil
}

func renderSpecSection(w io.Writer, title string, specs map[string]toolcheck.Spec) {
	if len(specs) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", CmdStyle.Render(title))
	for _, name := range slices.Sorted(maps.Keys(specs)) {
		spec := specs[name]
		line := fmt.Sprintf("  - %s %s", name, SubtitleStyle.Render("("+spec.Description+")"))
		fmt.Fprintln(w, line)

		details := fmt.Sprintf("probe: %s", spec.Command)
		if spec.MinVersion != "" {
			details += fmt.Sprintf(", min version: %s", spec.MinVersion)
		}
		if spec.Fallback != "" {
			details += fmt.Sprintf(", fallback: %s", spec.Fallback)
		}
		fmt.Fprintf(w, "    %s\n", VerboseStyle.Render(details))
	}
	fmt.Fprintln(w)
}

func validateRegistry(app *App, path string) error {
	if _, err := registry.Load(path); err != nil {
		fmt.Fprintf(app.stdout, "%s %s is not a valid registry\n", ErrorStyle.Render("✗"), path)
		return err
	}

	fmt.Fprintf(app.stdout, "%s %s is a valid registry\n", SuccessStyle.Render("✓"), path)
	return nil
}
