// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"preflight-cli/internal/config"
	"preflight-cli/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `preflight config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, cfgFile *string) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage preflight configuration",
		Long: `Manage preflight configuration.

Configuration is stored in:
  - Linux: ~/.config/preflight/config.cue
  - macOS: ~/Library/Application Support/preflight/config.cue
  - Windows: %APPDATA%\preflight\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, *cfgFile)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, *cfgFile, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: *cfgFile})
			if err != nil {
				return err
			}

			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, configPath string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		renderIssue(app.stderr, issue.ConfigLoadFailedId, nil)
		return err
	}

	// Style definitions using shared color palette
	headerStyle := TitleStyle
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	// Derive config file path from the standard config directory since the
	// provider does not cache resolved paths.
	cfgPath := configPath
	if cfgPath == "" {
		if cfgDir, dirErr := config.ConfigDir(); dirErr == nil {
			cfgPath = filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		}
	}
	if cfgPath != "" && fileExistsCheck(cfgPath) {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	// Show values
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("probe_timeout"), valueStyle.Render(string(cfg.ProbeTimeout)))
	if cfg.RegistryPath == "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("registry_path"), SubtitleStyle.Render("(built-in registry)"))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("registry_path"), valueStyle.Render(string(cfg.RegistryPath)))
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("package_manager"), valueStyle.Render(pkgManagerDisplay(cfg.PackageManager)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("report_paths"))
	if len(cfg.ReportPaths) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, p := range cfg.ReportPaths {
			fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(string(p)))
		}
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

// pkgManagerDisplay formats the package manager value; the zero value means
// project detection stays in effect.
func pkgManagerDisplay(m config.PackageManagerName) string {
	if m == config.PackageManagerAuto {
		return "(auto-detect)"
	}
	return string(m)
}

func initConfig() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"),
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))

	return nil
}

func setConfigValue(ctx context.Context, app *App, configPath, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		return err
	}

	switch key {
	case "probe_timeout":
		timeout := config.ProbeTimeout(value)
		if ok, errs := timeout.IsValid(); !ok {
			return fmt.Errorf("invalid probe_timeout: %w", errs[0])
		}
		cfg.ProbeTimeout = timeout

	case "registry_path":
		cfg.RegistryPath = config.RegistryFilePath(value)

	case "package_manager":
		manager := config.PackageManagerName(value)
		if ok, errs := manager.IsValid(); !ok {
			return fmt.Errorf("invalid package_manager: %w", errs[0])
		}
		cfg.PackageManager = manager

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if ok, errs := scheme.IsValid(); !ok {
			return fmt.Errorf("invalid ui.color_scheme: %w", errs[0])
		}
		cfg.UI.ColorScheme = scheme

	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
