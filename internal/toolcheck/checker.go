// SPDX-License-Identifier: MPL-2.0

package toolcheck

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"preflight-cli/internal/venv"
	"preflight-cli/pkg/platform"
)

// DefaultProbeTimeout bounds each individual probe so one hanging subprocess
// cannot stall a batch.
const DefaultProbeTimeout = 8 * time.Second

type (
	// Checker executes ordered detection strategies for declared tools.
	// It owns no state beyond its configuration; every check returns plain
	// result values, so concurrent probes need no locking of shared state.
	Checker struct {
		workDir     string
		timeout     time.Duration
		platform    platform.Platform
		subsystem   platform.SubsystemType
		venvMgr     *venv.Manager
		venvInfo    venv.Info
		pythonTools map[string]bool
		logger      *log.Logger

		// run executes a probe subprocess. Tests inject a fake.
		run func(ctx context.Context, name string, args ...string) (string, error)
	}

	// Option configures a Checker.
	Option func(*Checker)
)

// WithTimeout overrides the per-probe timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithVenv supplies the virtual-environment context resolved by the
// orchestrator. The info is read-only here; the checker never mutates it.
func WithVenv(mgr *venv.Manager, info venv.Info) Option {
	return func(c *Checker) {
		c.venvMgr = mgr
		c.venvInfo = info
	}
}

// WithPythonTools adds tool names that get the venv-aware probe in addition
// to specs that declare PythonTool themselves (e.g. names discovered in
// pyproject.toml).
func WithPythonTools(names []string) Option {
	return func(c *Checker) {
		for _, name := range names {
			c.pythonTools[name] = true
		}
	}
}

// WithSubsystem overrides the detected compatibility layer.
func WithSubsystem(st platform.SubsystemType) Option {
	return func(c *Checker) {
		c.subsystem = st
	}
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithRunner overrides subprocess execution. Primarily intended for tests.
func WithRunner(run func(ctx context.Context, name string, args ...string) (string, error)) Option {
	return func(c *Checker) {
		c.run = run
	}
}

// New creates a Checker probing relative to workDir on platform p.
func New(workDir string, p platform.Platform, opts ...Option) *Checker {
	c := &Checker{
		workDir:     workDir,
		timeout:     DefaultProbeTimeout,
		platform:    p,
		subsystem:   platform.DetectSubsystem(),
		pythonTools: make(map[string]bool),
		logger:      log.Default(),
		run:         runCommand,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.venvMgr == nil {
		c.venvMgr = venv.NewManager(workDir, p)
	}
	return c
}

// CheckTool probes one tool through its ordered strategy list, stopping at
// the first success. It never returns an error: absence is a normal outcome
// captured in the result.
func (c *Checker) CheckTool(ctx context.Context, name string, spec Spec) Result {
	var firstErr error

	for _, probe := range c.strategiesFor(name, spec) {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, ok, err := probe(probeCtx, name, spec)
		cancel()

		if ok {
			result = c.finalize(name, spec, result)
			c.logSuccess(result)
			return result
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	result := c.finalize(name, spec, Result{
		Available: false,
		Method:    MethodFailed,
	})
	if firstErr != nil {
		result.Err = firstErr.Error()
		result.TimedOut = errors.Is(firstErr, context.DeadlineExceeded)
	} else {
		result.Err = "no detection strategy applicable"
	}
	c.logFailure(result, spec)
	return result
}

// CheckTools probes all specs concurrently. Each probe is independently
// timeout-bounded; results are merged after all probes finish. The returned
// map always contains one entry per spec.
func (c *Checker) CheckTools(ctx context.Context, specs map[string]Spec) map[string]Result {
	results := make(map[string]Result, len(specs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for name, spec := range specs {
		g.Go(func() error {
			result := c.CheckTool(gctx, name, spec)
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	// Probes never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	return results
}

// CheckCriticalTools is CheckTools with fail-fast semantics: when any
// critical tool is unavailable the whole batch fails with a
// CriticalToolError identifying the tool. All probes still run to
// completion so the partial results remain usable for reporting.
func (c *Checker) CheckCriticalTools(ctx context.Context, specs map[string]Spec) (map[string]Result, error) {
	results := c.CheckTools(ctx, specs)

	for _, name := range slices.Sorted(maps.Keys(results)) {
		if result := results[name]; !result.Available {
			return results, &CriticalToolError{Name: name, Result: result}
		}
	}
	return results, nil
}

// finalize echoes the spec fields the result contract requires.
func (c *Checker) finalize(name string, spec Spec, result Result) Result {
	result.Name = name
	result.Fallback = spec.Fallback
	result.Command = spec.Command
	result.Description = spec.Description
	result.InstallURL = spec.InstallURL
	return result
}

func (c *Checker) logSuccess(result Result) {
	if result.Method != MethodStandard {
		c.logger.Info("tool available", "tool", result.Name, "version", result.Version, "method", result.Method)
		return
	}
	c.logger.Info("tool available", "tool", result.Name, "version", result.Version)
}

func (c *Checker) logFailure(result Result, spec Spec) {
	if spec.Critical || c.logger.GetLevel() <= log.DebugLevel {
		c.logger.Warn("tool unavailable",
			"tool", result.Name,
			"error", result.Err,
			"description", spec.Description,
			"install", spec.InstallURL)
		return
	}
	c.logger.Warn("tool unavailable", "tool", result.Name, "error", result.Err)
}
