// Package commands implements the robocop subcommands.
package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/robocop-go/robocop/internal/cache"
	"github.com/robocop-go/robocop/internal/config"
	"github.com/robocop-go/robocop/internal/pathignore"
	"github.com/robocop-go/robocop/internal/runner"
	"github.com/robocop-go/robocop/internal/version"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/rules"
)

// commonOptions are the flags shared by check and format.
type commonOptions struct {
	ConfigPath   string
	Include      []string
	Exclude      []string
	Language     []string
	NoCache      bool
	ClearCache   bool
	CacheDir     string
	IgnoreGitDir bool
	Workers      int
}

func addCommonFlags(cmd *cobra.Command, opts *commonOptions) {
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Use this config file for every path, skipping discovery")
	cmd.Flags().StringSliceVar(&opts.Include, "include", nil, "Extra include globs")
	cmd.Flags().StringSliceVar(&opts.Exclude, "exclude", nil, "Extra exclude globs")
	cmd.Flags().StringSliceVar(&opts.Language, "language", nil, "Language hints passed to the source parser")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Disable the result cache")
	cmd.Flags().BoolVar(&opts.ClearCache, "clear-cache", false, "Discard cached results before the run")
	cmd.Flags().StringVar(&opts.CacheDir, "cache-dir", "", "Result cache directory")
	cmd.Flags().BoolVar(&opts.IgnoreGitDir, "ignore-git-dir", false, "Keep discovering config above repository roots")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Parallel workers (0 = number of CPUs)")
}

// applyCommonFlags copies the set common flags into the CLI fragment.
// Only flags the user actually passed land in the fragment, so unset flags
// never shadow config file values.
func applyCommonFlags(cmd *cobra.Command, opts *commonOptions, frag *config.Fragment) {
	if cmd.Flags().Changed("include") {
		frag.Include = opts.Include
	}
	if cmd.Flags().Changed("exclude") {
		frag.Exclude = opts.Exclude
	}
	if cmd.Flags().Changed("language") {
		frag.Language = opts.Language
	}
	if cmd.Flags().Changed("no-cache") {
		enabled := !opts.NoCache
		frag.Cache.Enabled = &enabled
	}
	if cmd.Flags().Changed("cache-dir") {
		frag.Cache.Dir = &opts.CacheDir
	}
}

// buildRunner wires the whole pipeline: config manager, gitignore resolver,
// result cache, rule registry, runner. It also returns the working
// directory's resolved configuration: that zone anchors the cache directory
// and the run-level behavior flags like exit-zero.
func buildRunner(opts *commonOptions, cliFrag *config.Fragment, registry *lint.Registry) (*runner.Runner, *config.Resolved, error) {
	log := slog.Default()

	manager, err := config.NewManager(config.ManagerOptions{
		CLI:          cliFrag,
		ConfigPath:   opts.ConfigPath,
		IgnoreGitDir: opts.IgnoreGitDir,
		Logger:       log,
	})
	if err != nil {
		return nil, nil, err
	}

	cwdConfig, err := manager.GetConfigFor(".")
	if err != nil {
		return nil, nil, err
	}
	cacheDir := cwdConfig.Cache.Dir
	if !filepath.IsAbs(cacheDir) {
		abs, err := filepath.Abs(cacheDir)
		if err != nil {
			return nil, nil, err
		}
		cacheDir = abs
	}

	resultCache := cache.New(cache.Options{
		Enabled:  cwdConfig.Cache.Enabled,
		Dir:      cacheDir,
		Version:  version.Version,
		Registry: registry,
		Logger:   log,
	})
	if opts.ClearCache {
		resultCache.InvalidateAll()
	}

	run := runner.New(runner.Options{
		Configs:  manager,
		Ignore:   pathignore.NewResolver(log),
		Cache:    resultCache,
		Registry: registry,
		Logger:   log,
		Workers:  opts.Workers,
	})
	return run, cwdConfig, nil
}

// newRegistry builds the run's rule registry from the builtin set.
func newRegistry() *lint.Registry {
	return rules.NewRegistry()
}
