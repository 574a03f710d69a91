// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions names the explicit inputs of one configuration load. The zero
// value means "resolve everything": platform config directory, then the
// working directory.
type LoadOptions struct {
	// ConfigFilePath forces loading from one specific file when set.
	ConfigFilePath string
	// ConfigDirPath replaces the platform config-directory lookup when set.
	ConfigDirPath string
}

// Provider is the loading seam the CLI composes against; tests substitute
// canned configs or failures through it.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates the file-backed configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load resolves and validates the configuration per opts.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
