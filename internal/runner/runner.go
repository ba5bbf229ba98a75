// Package runner wires the pipeline together: it enumerates candidate files,
// applies the file filter and gitignore decisions, resolves one configuration
// per file, short-circuits through the result cache, runs the enabled rules,
// and filters findings through inline disablers.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/robocop-go/robocop/internal/cache"
	"github.com/robocop-go/robocop/internal/config"
	"github.com/robocop-go/robocop/internal/disablers"
	"github.com/robocop-go/robocop/internal/pathignore"
	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

// Runner executes lint and format-check runs.
type Runner struct {
	configs  *config.Manager
	ignore   *pathignore.Resolver
	cache    *cache.ResultCache
	registry *lint.Registry
	parser   model.Parser
	log      *slog.Logger
	workers  int

	mu     sync.Mutex
	params map[setupKey]ruleSetup
}

// setupKey memoizes parameter resolution per rule per configuration zone.
type setupKey struct {
	rule lint.Rule
	cfg  *config.Resolved
}

// ruleSetup is a rule's resolved parameters and effective severity under the
// current configuration.
type ruleSetup struct {
	params   map[string]any
	severity core.Severity
}

// Options configures a Runner.
type Options struct {
	Configs  *config.Manager
	Ignore   *pathignore.Resolver
	Cache    *cache.ResultCache
	Registry *lint.Registry
	Parser   model.Parser
	Logger   *slog.Logger
	// Workers caps parallel per-file work; 0 means GOMAXPROCS.
	Workers int
}

// New builds a Runner.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Parser == nil {
		opts.Parser = model.NewLineParser()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		configs:  opts.Configs,
		ignore:   opts.Ignore,
		cache:    opts.Cache,
		registry: opts.Registry,
		parser:   opts.Parser,
		log:      opts.Logger,
		workers:  opts.Workers,
		params:   make(map[setupKey]ruleSetup),
	}
}

// Result aggregates one run.
type Result struct {
	Diagnostics []core.Diagnostic
	// FilesScanned counts files actually checked this run; cache hits do
	// not count. A fully warm second run reports zero.
	FilesScanned int
	// FilesCached counts files restored from the result cache.
	FilesCached int
	// FilesSkipped counts files dropped for per-file I/O errors.
	FilesSkipped int
}

// Run lints every admitted file under paths. Configuration errors abort the
// whole run; per-file errors are isolated. The result cache is saved exactly
// once, after all per-file work completes, even when some files failed.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	defer r.cache.Save()

	files, err := r.gatherFiles(paths)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			diags, fromCache, err := r.lintFile(file)
			if err != nil {
				var cfgErr *config.ConfigurationError
				if errors.As(err, &cfgErr) {
					return err
				}
				r.log.Warn("skipping unreadable file", "path", file, "error", err)
				mu.Lock()
				result.FilesSkipped++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			result.Diagnostics = append(result.Diagnostics, diags...)
			if fromCache {
				result.FilesCached++
			} else {
				result.FilesScanned++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortDiagnostics(result.Diagnostics)
	return result, nil
}

// lintFile resolves the file's configuration, consults the cache, and when
// needed runs the enabled rules and filters through inline disablers.
func (r *Runner) lintFile(path string) ([]core.Diagnostic, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, false, err
	}
	resolved, err := r.configs.GetConfigFor(abs)
	if err != nil {
		return nil, false, err
	}

	if diags, ok := r.cache.GetLinterEntry(abs, resolved.LinterHash); ok {
		return diags, true, nil
	}

	file, err := r.parser.Parse(abs, resolved.Language)
	if err != nil {
		return nil, false, err
	}

	// A whole-file disable discards everything, so skip rule execution
	// outright. Partial disables still filter after rules produce.
	found := disablers.ParseFile(abs)
	if found.FileDisabled() {
		r.cache.SetLinterEntry(abs, resolved.LinterHash, nil)
		return nil, false, nil
	}

	matcher := resolved.Matcher()
	var diags []core.Diagnostic
	for _, rule := range r.registry.All() {
		if !matcher.SelectionEnabled(rule) || matcher.PerFileExcluded(rule, abs) {
			continue
		}
		setup, err := r.ruleSetup(rule, resolved)
		if err != nil {
			return nil, false, err
		}
		if setup.severity < resolved.Linter.Threshold {
			continue
		}
		for _, report := range rule.Apply(file, setup.params) {
			msg, err := rule.BuildMessage(report.Args)
			if err != nil {
				r.log.Warn("dropping report with mismatched template",
					"rule", rule.ID(), "error", err)
				continue
			}
			diags = append(diags, core.Diagnostic{
				RuleID:   rule.ID(),
				RuleName: rule.Name(),
				Severity: setup.severity,
				Message:  msg,
				Path:     abs,
				Range:    report.Range,
				Args:     report.Args,
			})
		}
	}

	if found.Any() {
		kept := diags[:0]
		for _, d := range diags {
			if !found.IsRuleDisabled(d) {
				kept = append(kept, d)
			}
		}
		diags = kept
	}

	sortDiagnostics(diags)
	r.cache.SetLinterEntry(abs, resolved.LinterHash, diags)
	return diags, false, nil
}

// ruleSetup resolves a rule's configure entries once per rule and memoizes
// the outcome. Unknown parameter names and unparseable values are fatal
// configuration errors.
func (r *Runner) ruleSetup(rule lint.Rule, resolved *config.Resolved) (ruleSetup, error) {
	key := setupKey{rule: rule, cfg: resolved}
	r.mu.Lock()
	if setup, ok := r.params[key]; ok {
		r.mu.Unlock()
		return setup, nil
	}
	r.mu.Unlock()

	source := config.CLISource
	if n := len(resolved.Sources); n > 0 {
		source = resolved.Sources[n-1]
	}
	setup := ruleSetup{
		params:   lint.DefaultParams(rule),
		severity: rule.DefaultSeverity(),
	}
	for _, entry := range resolved.Linter.Configure {
		ruleRef, param, raw, ok := splitConfigure(entry)
		if !ok {
			return ruleSetup{}, &config.ConfigurationError{
				File:  source,
				Key:   "lint.configure",
				Value: entry,
				Msg:   "expected RULE.param=value",
			}
		}
		if ruleRef != rule.ID() && ruleRef != rule.Name() {
			continue
		}
		if param == "severity" {
			sev, ok := core.ParseSeverity(raw)
			if !ok {
				return ruleSetup{}, &config.ConfigurationError{
					File:  source,
					Key:   "lint.configure",
					Value: entry,
					Msg:   "expected one of: info, warning, error",
				}
			}
			setup.severity = sev
			continue
		}
		value, err := lint.ResolveParam(rule, param, raw)
		if err != nil {
			return ruleSetup{}, &config.ConfigurationError{
				File:  source,
				Key:   "lint.configure",
				Value: entry,
				Msg:   "invalid rule parameter",
				Err:   err,
			}
		}
		setup.params[param] = value
	}

	r.mu.Lock()
	r.params[key] = setup
	r.mu.Unlock()
	return setup, nil
}

// gatherFiles expands paths into the admitted file list. Directories are
// walked; excluded directories are pruned without descending. Explicitly
// named files honor excludes but bypass the include globs.
func (r *Runner) gatherFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	var files []string
	seen := make(map[string]bool)

	admit := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			r.log.Warn("skipping missing path", "path", root, "error", err)
			continue
		}
		if !info.IsDir() {
			resolved, err := r.configs.GetConfigFor(abs)
			if err != nil {
				return nil, err
			}
			if !resolved.Filter.PathExcluded(abs, false) && !r.ignore.IsIgnored(abs, false) {
				admit(abs)
			}
			continue
		}

		walkErr := filepath.WalkDir(abs, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				r.log.Warn("cannot read path", "path", path, "error", err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			resolved, cfgErr := r.configs.GetConfigFor(path)
			if cfgErr != nil {
				return cfgErr
			}
			if d.IsDir() {
				if path != abs && (resolved.Filter.PathExcluded(path, true) || r.ignore.IsIgnored(path, true)) {
					return filepath.SkipDir
				}
				return nil
			}
			if resolved.Filter.PathExcluded(path, false) || !resolved.Filter.PathIncluded(path) {
				return nil
			}
			if r.ignore.IsIgnored(path, false) {
				return nil
			}
			admit(path)
			return nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}
	sort.Strings(files)
	return files, nil
}

func splitConfigure(entry string) (rule, param, value string, ok bool) {
	eq := -1
	dot := -1
	for i, ch := range entry {
		if ch == '=' {
			eq = i
			break
		}
		if ch == '.' && dot < 0 {
			dot = i
		}
	}
	if dot <= 0 || eq <= dot+1 {
		return "", "", "", false
	}
	return entry[:dot], entry[dot+1 : eq], entry[eq+1:], true
}

func sortDiagnostics(diags []core.Diagnostic) {
	sort.Slice(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		if diags[i].Range.Start.Line != diags[j].Range.Start.Line {
			return diags[i].Range.Start.Line < diags[j].Range.Start.Line
		}
		if diags[i].Range.Start.Col != diags[j].Range.Start.Col {
			return diags[i].Range.Start.Col < diags[j].Range.Start.Col
		}
		return diags[i].RuleID < diags[j].RuleID
	})
}
