// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var versionRe = regexp.MustCompile(`(?i)\bv?(\d+\.\d+(?:\.\d+)?(?:[\w.+-]*))\b`)

// ParseVersion extracts a version token sequence from probe output.
// It considers the first line first (tool name prefixes are stripped by the
// match itself), then falls back to the full output. Returns "" when no
// parseable version token exists.
func ParseVersion(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return ""
	}
	line, _, _ := strings.Cut(out, "\n")
	if m := versionRe.FindStringSubmatch(line); len(m) > 1 {
		return m[1]
	}
	if m := versionRe.FindStringSubmatch(out); len(m) > 1 {
		return m[1]
	}
	return ""
}

// MeetsMinimum reports whether version satisfies the advisory minimum.
// Unparseable versions are treated as satisfying: a version we cannot
// compare must not generate a misleading upgrade recommendation.
func MeetsMinimum(version, minimum string) bool {
	if version == "" || minimum == "" {
		return true
	}
	v := canonicalize(version)
	m := canonicalize(minimum)
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return true
	}
	return semver.Compare(v, m) >= 0
}

// canonicalize turns a loosely formatted version into the "vMAJOR[.MINOR[.PATCH]]"
// shape golang.org/x/mod/semver expects, dropping build suffixes it rejects.
func canonicalize(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	// Keep only the leading dotted-number run plus a well-formed pre-release.
	if m := regexp.MustCompile(`^(\d+(?:\.\d+){0,2})(-[0-9A-Za-z.-]+)?`).FindStringSubmatch(version); len(m) > 1 {
		version = m[1]
		if len(m) > 2 {
			version += m[2]
		}
	}
	return "v" + version
}
