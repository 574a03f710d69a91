// SPDX-License-Identifier: MPL-2.0

package preflight

import (
	"context"
	"errors"
	"maps"

	"github.com/charmbracelet/log"

	"preflight-cli/internal/envcheck"
	"preflight-cli/internal/pkgmgr"
	"preflight-cli/internal/registry"
	"preflight-cli/internal/toolcheck"
	"preflight-cli/internal/venv"
	"preflight-cli/pkg/platform"
)

type (
	// Checker runs the environment check. It owns the orchestration-scoped
	// result maps; the composed sub-components own no state beyond a run.
	Checker struct {
		reg       *registry.Registry
		workDir   string
		platform  platform.Platform
		logger    *log.Logger
		venvMgr   *venv.Manager
		pkgSvc    *pkgmgr.Service
		validator *envcheck.Validator
		toolOpts  []toolcheck.Option

		// per-run aggregates, rebuilt from scratch on every CheckEnvironment
		// call so repeated runs cannot observe stale state
		critical        map[string]toolcheck.Result
		optional        map[string]toolcheck.Result
		environment     map[string]envcheck.VarResult
		recommendations []string
	}

	// Option configures a Checker.
	Option func(*Checker)
)

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// WithVenvManager overrides virtual-environment resolution.
func WithVenvManager(mgr *venv.Manager) Option {
	return func(c *Checker) {
		c.venvMgr = mgr
	}
}

// WithPackageManagerService overrides package-manager detection.
func WithPackageManagerService(svc *pkgmgr.Service) Option {
	return func(c *Checker) {
		c.pkgSvc = svc
	}
}

// WithValidator overrides the environment validator.
func WithValidator(v *envcheck.Validator) Option {
	return func(c *Checker) {
		c.validator = v
	}
}

// WithToolOptions forwards options to the tool checker built for each run
// (timeouts, fake runners in tests, subsystem overrides).
func WithToolOptions(opts ...toolcheck.Option) Option {
	return func(c *Checker) {
		c.toolOpts = append(c.toolOpts, opts...)
	}
}

// New creates a Checker for workDir using the given registry.
func New(workDir string, reg *registry.Registry, opts ...Option) *Checker {
	c := &Checker{
		reg:      reg,
		workDir:  workDir,
		platform: platform.Current(),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.venvMgr == nil {
		c.venvMgr = venv.NewManager(workDir, c.platform)
	}
	if c.pkgSvc == nil {
		c.pkgSvc = pkgmgr.NewService(workDir)
	}
	if c.validator == nil {
		c.validator = envcheck.NewValidator()
	}
	return c
}

// CheckEnvironment runs the full detection flow and returns the verdict.
//
// Critical tools resolve first; when any is missing the run short-circuits
// to a blocked report without attempting optional-tool or environment
// checks. A filesystem-permission failure is surfaced in the report but
// does not block: report generation failing later is an accepted degraded
// mode. Results are recomputed from scratch so repeated calls against an
// unchanged environment yield identical reports.
func (c *Checker) CheckEnvironment(ctx context.Context) *Report {
	c.critical = nil
	c.optional = nil
	c.environment = nil
	c.recommendations = nil

	// Context other steps depend on: the virtual environment changes how
	// Python-ecosystem tools are probed, the package manager shapes
	// remediation text.
	venvInfo := c.venvMgr.Info()
	pkgManager := c.pkgSvc.Manager()
	pythonTools, err := venv.ProjectTools(c.workDir)
	if err != nil {
		c.logger.Debug("ignoring unreadable pyproject.toml", "error", err)
	}

	checker := toolcheck.New(c.workDir, c.platform,
		append([]toolcheck.Option{
			toolcheck.WithVenv(c.venvMgr, venvInfo),
			toolcheck.WithPythonTools(pythonTools),
			toolcheck.WithLogger(c.logger),
		}, c.toolOpts...)...)

	report := &Report{
		Venv:           venvInfo,
		PackageManager: pkgManager,
	}

	criticalResults, err := checker.CheckCriticalTools(ctx, c.reg.Critical())
	c.critical = criticalResults
	if err != nil {
		return c.blockedReport(report, err)
	}

	c.optional = checker.CheckTools(ctx, c.reg.Optional())
	c.environment = c.validator.CheckEnvironmentVariables(c.reg.EnvVars)

	if err := c.validator.CheckFileSystemPermissions(c.reg.ReportPaths); err != nil {
		// Reported, not blocking.
		report.Err = err.Error()
		c.logger.Warn("report directory check failed", "error", err)
	}

	report.Summary = c.summarize()
	c.recommendations = c.recommend(venvInfo, report.Err)
	report.Recommendations = c.recommendations
	report.Success = true
	return report
}

// blockedReport finalizes a short-circuited run. Optional and environment
// checks were never attempted; probing further gains nothing once blocked.
func (c *Checker) blockedReport(report *Report, err error) *Report {
	report.Success = false
	report.Err = err.Error()
	report.Summary = c.summarize()

	var critErr *toolcheck.CriticalToolError
	if errors.As(err, &critErr) {
		c.recommendations = []string{installSuggestion(critErr.Name, critErr.Result.Description, critErr.Result.InstallURL)}
		report.Recommendations = c.recommendations
	}
	return report
}

// summarize derives the aggregate counts. Totals come from the registry so
// a blocked run still reports how much was declared; availability comes
// from whatever was actually probed.
func (c *Checker) summarize() Summary {
	s := Summary{
		Critical: Counts{Total: len(c.reg.Critical()), Available: countAvailable(c.critical)},
		Optional: Counts{Total: len(c.reg.Optional()), Available: countAvailable(c.optional)},
	}
	if s.Critical.Available < s.Critical.Total {
		s.Status = StatusBlocked
	} else {
		s.Status = StatusReady
	}
	return s
}

// IsToolAvailable reports whether the named tool was probed available in
// either result map. Unknown names return false; the query never fails.
func (c *Checker) IsToolAvailable(name string) bool {
	if result, ok := c.critical[name]; ok && result.Available {
		return true
	}
	if result, ok := c.optional[name]; ok && result.Available {
		return true
	}
	return false
}

// Results returns copies of the per-probe result maps for downstream
// reporting. Mutating the copies cannot corrupt orchestrator state.
func (c *Checker) Results() Results {
	return Results{
		Critical:        maps.Clone(c.critical),
		Optional:        maps.Clone(c.optional),
		Environment:     maps.Clone(c.environment),
		Recommendations: append([]string(nil), c.recommendations...),
	}
}

func countAvailable(results map[string]toolcheck.Result) int {
	n := 0
	for _, r := range results {
		if r.Available {
			n++
		}
	}
	return n
}
