// SPDX-License-Identifier: MPL-2.0

package venv

import (
	"errors"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

// pyProjectFile is the conventional Python project manifest name.
const pyProjectFile = "pyproject.toml"

// pyProject models the subset of pyproject.toml we inspect. Tool sections
// ([tool.ruff], [tool.mypy], ...) reveal which Python-ecosystem tools the
// project has configured.
type pyProject struct {
	Tool map[string]any `toml:"tool"`
}

// nonToolSections are [tool.*] keys that name build machinery rather than
// an invocable tool.
var nonToolSections = map[string]bool{
	"setuptools": true,
	"hatch":      true,
	"pdm":        true,
}

// ProjectTools reads pyproject.toml under dir and returns the names of
// configured Python-ecosystem tools, sorted. A missing manifest yields an
// empty list and no error; a malformed one yields an error so the caller
// can log it without aborting detection.
func ProjectTools(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, pyProjectFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var manifest pyProject
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(manifest.Tool))
	for name := range manifest.Tool {
		if nonToolSections[name] {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
