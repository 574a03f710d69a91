// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"preflight-cli/internal/config"
	"preflight-cli/internal/registry"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer — all Cobra command handlers receive an App reference and
	// delegate business logic through its service interfaces (Config, Registry).
	App struct {
		Config   ConfigProvider
		Registry RegistrySource
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply mock
	// implementations to isolate specific service behavior.
	Dependencies struct {
		Config   ConfigProvider
		Registry RegistrySource
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RegistrySource resolves the tool registry for a run. An empty path
	// selects the built-in registry.
	RegistrySource interface {
		Resolve(path string) (*registry.Registry, error)
	}

	fileRegistrySource struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Registry == nil {
		deps.Registry = &fileRegistrySource{}
	}

	return &App{
		Config:   deps.Config,
		Registry: deps.Registry,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// Resolve loads the registry from path, or the built-in registry when path is empty.
func (s *fileRegistrySource) Resolve(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Default()
	}
	return registry.Load(path)
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults with a warning string so callers stay operational; only an
// explicitly requested config file escalates to a hard error.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string) (*config.Config, string, error) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, "", nil
	}

	// When the user explicitly specified a config path, do not silently fall
	// back to defaults.
	if configPath != "" {
		return nil, "", err
	}

	return config.DefaultConfig(), fmt.Sprintf("failed to load config, using defaults: %s", formatErrorForDisplay(err, false)), nil
}
