// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"preflight-cli/internal/venv"
	"preflight-cli/pkg/platform"
)

// fakeRunner returns canned output keyed by the executable name (argv[0]).
// Unknown executables fail like a missing binary would.
func fakeRunner(outputs map[string]string) func(context.Context, string, ...string) (string, error) {
	return func(_ context.Context, name string, _ ...string) (string, error) {
		if out, ok := outputs[name]; ok {
			return out, nil
		}
		return "", fmt.Errorf("probe failed: exec: %q: executable file not found in $PATH", name)
	}
}

func newTestChecker(t *testing.T, opts ...Option) *Checker {
	t.Helper()
	base := []Option{WithSubsystem(platform.SubsystemNone)}
	return New(t.TempDir(), platform.Linux, append(base, opts...)...)
}

func TestCheckTool_StandardProbeSuccess(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"git": "git version 2.39.2",
	})))

	result := c.CheckTool(context.Background(), "git", Spec{Command: "git --version"})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Version != "2.39.2" {
		t.Errorf("CheckTool() version = %q, want %q", result.Version, "2.39.2")
	}
	if result.Method != MethodStandard {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodStandard)
	}
}

func TestCheckTool_ZeroExitWithoutVersionStillAvailable(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"mystery": "ready",
	})))

	result := c.CheckTool(context.Background(), "mystery", Spec{Command: "mystery --version"})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Version != "" {
		t.Errorf("CheckTool() version = %q, want empty", result.Version)
	}
}

func TestCheckTool_AllStrategiesFail(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(nil)))

	result := c.CheckTool(context.Background(), "ghost", Spec{
		Command:     "ghost --version",
		Description: "a tool that is not there",
		InstallURL:  "https://example.com/ghost",
		Fallback:    "phantom",
	})

	if result.Available {
		t.Fatal("CheckTool() available = true, want false")
	}
	if result.Method != MethodFailed {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodFailed)
	}
	if result.Err == "" {
		t.Error("CheckTool() err is empty, want failure message")
	}
	if result.Fallback != "phantom" || result.InstallURL != "https://example.com/ghost" {
		t.Errorf("CheckTool() did not echo spec fields: %+v", result)
	}
}

func TestCheckTool_TimeoutCollapsesToUnavailable(t *testing.T) {
	blocking := func(ctx context.Context, _ string, _ ...string) (string, error) {
		<-ctx.Done()
		return "", fmt.Errorf("probe timed out: %w", ctx.Err())
	}
	c := newTestChecker(t, WithRunner(blocking), WithTimeout(10*time.Millisecond))

	result := c.CheckTool(context.Background(), "slow", Spec{Command: "slow --version"})

	if result.Available {
		t.Fatal("CheckTool() available = true for timed-out probe, want false")
	}
	if !strings.Contains(result.Err, "timed out") {
		t.Errorf("CheckTool() err = %q, want timeout message", result.Err)
	}
	if !result.TimedOut {
		t.Error("CheckTool() timedOut = false for deadline expiry, want true")
	}
}

func TestCheckTool_SpawnFailureNotMarkedTimedOut(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(nil)))

	result := c.CheckTool(context.Background(), "absent", Spec{Command: "absent --version"})

	if result.Available {
		t.Fatal("CheckTool() available = true for missing tool, want false")
	}
	if result.TimedOut {
		t.Error("CheckTool() timedOut = true for spawn failure, want false")
	}
}

func TestCheckTool_FileBasedProbe(t *testing.T) {
	tmpDir := t.TempDir()
	manifestDir := filepath.Join(tmpDir, "node_modules", "eslint")
	if err := os.MkdirAll(manifestDir, 0o755); err != nil {
		t.Fatalf("failed to create node_modules: %v", err)
	}
	manifest := `{"name": "eslint", "version": "8.57.0"}`
	if err := os.WriteFile(filepath.Join(manifestDir, "package.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	c := New(tmpDir, platform.Linux,
		WithSubsystem(platform.SubsystemNone),
		WithRunner(fakeRunner(nil))) // spawning anything would fail

	result := c.CheckTool(context.Background(), "eslint", Spec{
		Command: "eslint --version",
		Package: "eslint",
	})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Method != MethodFileBased {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodFileBased)
	}
	if result.Version != "8.57.0" {
		t.Errorf("CheckTool() version = %q, want %q", result.Version, "8.57.0")
	}
}

func TestCheckTool_FileBasedFallsThroughToStandard(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"eslint": "v8.57.0",
	})))

	result := c.CheckTool(context.Background(), "eslint", Spec{
		Command: "eslint --version",
		Package: "eslint", // no node_modules in tmp dir
	})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Method != MethodStandard {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodStandard)
	}
}

func TestCheckTool_VenvAwareProbeWindowsLayout(t *testing.T) {
	tmpDir := t.TempDir()
	venvRoot := filepath.Join(tmpDir, ".venv")
	scripts := filepath.Join(venvRoot, "Scripts")
	if err := os.MkdirAll(scripts, 0o755); err != nil {
		t.Fatalf("failed to create venv layout: %v", err)
	}
	for _, exe := range []string{"python.exe", "ruff.exe"} {
		if err := os.WriteFile(filepath.Join(scripts, exe), []byte("stub"), 0o755); err != nil {
			t.Fatalf("failed to create %s: %v", exe, err)
		}
	}

	mgr := venv.NewManager(tmpDir, platform.Windows, venv.WithGetenv(func(string) string { return "" }))
	info := mgr.Info()
	if !info.Detected {
		t.Fatal("expected venv to be detected")
	}

	var probedPath string
	runner := func(_ context.Context, name string, _ ...string) (string, error) {
		probedPath = name
		return "ruff 0.4.4", nil
	}

	c := New(tmpDir, platform.Windows,
		WithSubsystem(platform.SubsystemNone),
		WithVenv(mgr, info),
		WithRunner(runner))

	result := c.CheckTool(context.Background(), "ruff", Spec{
		Command:    "ruff --version",
		PythonTool: true,
	})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Method != MethodVenv {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodVenv)
	}
	want := filepath.Join(venvRoot, "Scripts", "ruff.exe")
	if probedPath != want {
		t.Errorf("probe invoked %q, want venv executable %q", probedPath, want)
	}
}

func TestCheckTool_VenvProbeSkippedWithoutVenv(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"ruff": "ruff 0.4.4",
	})))

	result := c.CheckTool(context.Background(), "ruff", Spec{
		Command:    "ruff --version",
		PythonTool: true,
	})

	if result.Method != MethodStandard {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodStandard)
	}
}

func TestCheckTool_WSLFallback(t *testing.T) {
	var invocations []string
	runner := func(_ context.Context, name string, args ...string) (string, error) {
		invocations = append(invocations, name)
		if name == "wsl" {
			if len(args) < 2 || args[0] != "--exec" || args[1] != "docker" {
				return "", fmt.Errorf("unexpected wsl args: %v", args)
			}
			return "Docker version 24.0.7, build afdd53b", nil
		}
		return "", errors.New("probe failed: not found")
	}

	c := New(t.TempDir(), platform.Windows,
		WithSubsystem(platform.SubsystemWSL),
		WithRunner(runner))

	result := c.CheckTool(context.Background(), "docker", Spec{
		Command:     "docker --version",
		WSLFallback: true,
	})

	if !result.Available {
		t.Fatalf("CheckTool() available = false, err = %q", result.Err)
	}
	if result.Method != MethodWSLFallback {
		t.Errorf("CheckTool() method = %q, want %q", result.Method, MethodWSLFallback)
	}
	if result.Version != "24.0.7" {
		t.Errorf("CheckTool() version = %q, want %q", result.Version, "24.0.7")
	}
	if len(invocations) != 2 || invocations[0] != "docker" || invocations[1] != "wsl" {
		t.Errorf("invocation order = %v, want [docker wsl]", invocations)
	}
}

func TestCheckTool_WSLFallbackNotDeclaredNotTried(t *testing.T) {
	var invocations []string
	runner := func(_ context.Context, name string, _ ...string) (string, error) {
		invocations = append(invocations, name)
		return "", errors.New("probe failed: not found")
	}

	c := New(t.TempDir(), platform.Windows,
		WithSubsystem(platform.SubsystemWSL),
		WithRunner(runner))

	result := c.CheckTool(context.Background(), "trivy", Spec{Command: "trivy --version"})

	if result.Available {
		t.Fatal("CheckTool() available = true, want false")
	}
	for _, name := range invocations {
		if name == "wsl" {
			t.Error("wsl fallback was tried for a spec that does not declare it")
		}
	}
}

func TestCheckTools_Concurrent(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"git":  "git version 2.39.2",
		"node": "v20.11.0",
	})))

	specs := map[string]Spec{
		"git":    {Command: "git --version"},
		"node":   {Command: "node --version"},
		"absent": {Command: "absent --version"},
	}

	results := c.CheckTools(context.Background(), specs)

	if len(results) != len(specs) {
		t.Fatalf("CheckTools() returned %d results, want %d", len(results), len(specs))
	}
	if !results["git"].Available || !results["node"].Available {
		t.Error("CheckTools() missed available tools")
	}
	if results["absent"].Available {
		t.Error("CheckTools() reported absent tool as available")
	}
}

func TestCheckCriticalTools_AllAvailable(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"git": "git version 2.39.2",
	})))

	results, err := c.CheckCriticalTools(context.Background(), map[string]Spec{
		"git": {Command: "git --version", Critical: true},
	})
	if err != nil {
		t.Fatalf("CheckCriticalTools() error: %v", err)
	}
	if !results["git"].Available {
		t.Error("CheckCriticalTools() git unavailable")
	}
}

func TestCheckCriticalTools_RejectsOnMissing(t *testing.T) {
	c := newTestChecker(t, WithRunner(fakeRunner(map[string]string{
		"git": "git version 2.39.2",
	})))

	_, err := c.CheckCriticalTools(context.Background(), map[string]Spec{
		"git":  {Command: "git --version", Critical: true},
		"make": {Command: "make --version", Critical: true},
	})

	if err == nil {
		t.Fatal("CheckCriticalTools() error = nil, want CriticalToolError")
	}
	var critErr *CriticalToolError
	if !errors.As(err, &critErr) {
		t.Fatalf("CheckCriticalTools() error type = %T, want *CriticalToolError", err)
	}
	if critErr.Name != "make" {
		t.Errorf("CriticalToolError.Name = %q, want %q", critErr.Name, "make")
	}
	if !errors.Is(err, ErrToolNotAvailable) {
		t.Error("CheckCriticalTools() error does not unwrap to ErrToolNotAvailable")
	}
}

func TestSpecValidate(t *testing.T) {
	if err := (Spec{Command: "git --version", Critical: true}).Validate("git"); err != nil {
		t.Errorf("Validate() error for valid critical spec: %v", err)
	}
	if err := (Spec{Command: "x --version", Critical: true, Fallback: "y"}).Validate("x"); err == nil {
		t.Error("Validate() = nil for critical spec with fallback, want error")
	}
	if err := (Spec{}).Validate("empty"); err == nil {
		t.Error("Validate() = nil for empty command, want error")
	}
}
