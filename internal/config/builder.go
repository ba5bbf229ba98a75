package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/robocop-go/robocop/pkg/core"
)

// CLISource is the File name used in errors for values that came from flags.
const CLISource = "<command line>"

// Builder merges a CLI fragment and a file fragment (with its extends chain
// flattened) into one Resolved configuration.
//
// Precedence per scalar field: CLI if set, else file chain (later fragments
// win), else default. Most list fields follow the same override rule between
// file and CLI; the merge-marked lists (configure, reports, skip, language)
// are concatenated file-then-CLI instead. Within an extends chain every list
// concatenates base-first, duplicates preserved.
type Builder struct {
	cli *Fragment
}

// NewBuilder returns a Builder applying the given CLI fragment on top of
// every file configuration. A nil fragment means no CLI overrides.
func NewBuilder(cli *Fragment) *Builder {
	if cli == nil {
		cli = &Fragment{}
	}
	cli.Path = CLISource
	return &Builder{cli: cli}
}

// Build resolves fileFrag (which may be nil: CLI + defaults only) into a
// Resolved configuration.
func (b *Builder) Build(fileFrag *Fragment) (*Resolved, error) {
	var chain []*Fragment
	if fileFrag != nil {
		var err error
		chain, err = flattenExtends(fileFrag, make(map[string]bool), nil)
		if err != nil {
			return nil, err
		}
	}

	merged := &Fragment{}
	sources := make([]string, 0, len(chain))
	for _, frag := range chain {
		if err := validateFragment(frag); err != nil {
			return nil, err
		}
		mergeFile(merged, frag)
		sources = append(sources, frag.Path)
	}
	if err := validateFragment(b.cli); err != nil {
		return nil, err
	}
	applyCLI(merged, b.cli)

	return materialize(merged, sources)
}

// flattenExtends returns the fragment's inheritance chain base-first, the
// fragment itself last. A parent reached through two paths (diamond) is
// merged once, at its first encounter; a parent already on the in-progress
// stack is a circular-extends error naming that file.
func flattenExtends(frag *Fragment, visited map[string]bool, stack []string) ([]*Fragment, error) {
	stack = append(stack, frag.Path)

	var chain []*Fragment
	for _, parent := range frag.Extends {
		parentPath := parent
		if !filepath.IsAbs(parentPath) {
			parentPath = filepath.Join(frag.Dir, parentPath)
		}
		parentPath = filepath.Clean(parentPath)

		if visited[parentPath] {
			// Diamond: already merged through another branch.
			continue
		}
		cycle := false
		for _, onStack := range stack {
			if onStack == parentPath {
				cycle = true
				break
			}
		}
		if cycle {
			return nil, &ConfigurationError{
				File:  frag.Path,
				Key:   "extends",
				Value: parent,
				Msg:   "circular extends chain",
			}
		}

		if _, err := os.Stat(parentPath); err != nil {
			return nil, &ConfigurationError{
				File:  frag.Path,
				Key:   "extends",
				Value: parent,
				Msg:   "extended config does not exist",
				Err:   err,
			}
		}
		parentFrag, err := LoadFragment(parentPath)
		if err != nil {
			return nil, err
		}
		parentChain, err := flattenExtends(parentFrag, visited, stack)
		if err != nil {
			return nil, err
		}
		chain = append(chain, parentChain...)
	}

	visited[frag.Path] = true
	return append(chain, frag), nil
}

// mergeFile merges one file fragment over the accumulator: lists concatenate
// (accumulator first, so bases stay in front), scalars override when set,
// per-file-ignore entries override per path glob.
func mergeFile(dst, src *Fragment) {
	dst.Include = append(dst.Include, src.Include...)
	dst.Exclude = append(dst.Exclude, src.Exclude...)
	dst.Language = append(dst.Language, src.Language...)
	if src.TargetVersion != nil {
		dst.TargetVersion = src.TargetVersion
	}

	dst.Lint.Select = append(dst.Lint.Select, src.Lint.Select...)
	dst.Lint.ExtendSelect = append(dst.Lint.ExtendSelect, src.Lint.ExtendSelect...)
	dst.Lint.Ignore = append(dst.Lint.Ignore, src.Lint.Ignore...)
	dst.Lint.Configure = append(dst.Lint.Configure, src.Lint.Configure...)
	dst.Lint.CustomRules = append(dst.Lint.CustomRules, src.Lint.CustomRules...)
	dst.Lint.Reports = append(dst.Lint.Reports, src.Lint.Reports...)
	if src.Lint.Threshold != nil {
		dst.Lint.Threshold = src.Lint.Threshold
	}
	if src.Lint.ExitZero != nil {
		dst.Lint.ExitZero = src.Lint.ExitZero
	}
	if len(src.Lint.PerFileIgnores) > 0 {
		if dst.Lint.PerFileIgnores == nil {
			dst.Lint.PerFileIgnores = make(map[string][]string)
		}
		for glob, patterns := range src.Lint.PerFileIgnores {
			dst.Lint.PerFileIgnores[glob] = patterns
		}
	}

	dst.Format.Select = append(dst.Format.Select, src.Format.Select...)
	dst.Format.Configure = append(dst.Format.Configure, src.Format.Configure...)
	dst.Format.Skip = append(dst.Format.Skip, src.Format.Skip...)
	if src.Format.SpaceCount != nil {
		dst.Format.SpaceCount = src.Format.SpaceCount
	}
	if src.Format.Indent != nil {
		dst.Format.Indent = src.Format.Indent
	}
	if src.Format.LineLength != nil {
		dst.Format.LineLength = src.Format.LineLength
	}
	if src.Format.Separator != nil {
		dst.Format.Separator = src.Format.Separator
	}
	if src.Format.LineEnding != nil {
		dst.Format.LineEnding = src.Format.LineEnding
	}
	if src.Format.Overwrite != nil {
		dst.Format.Overwrite = src.Format.Overwrite
	}

	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != nil {
		dst.Cache.Dir = src.Cache.Dir
	}
}

// applyCLI lays the CLI fragment over the merged file configuration. Scalars
// and selection lists override when set; merge-marked lists concatenate
// file-then-CLI.
func applyCLI(dst, cli *Fragment) {
	if len(cli.Include) > 0 {
		dst.Include = cli.Include
	}
	if len(cli.Exclude) > 0 {
		dst.Exclude = cli.Exclude
	}
	dst.Language = append(dst.Language, cli.Language...)
	if cli.TargetVersion != nil {
		dst.TargetVersion = cli.TargetVersion
	}

	if len(cli.Lint.Select) > 0 {
		dst.Lint.Select = cli.Lint.Select
	}
	if len(cli.Lint.ExtendSelect) > 0 {
		dst.Lint.ExtendSelect = cli.Lint.ExtendSelect
	}
	if len(cli.Lint.Ignore) > 0 {
		dst.Lint.Ignore = cli.Lint.Ignore
	}
	if len(cli.Lint.CustomRules) > 0 {
		dst.Lint.CustomRules = cli.Lint.CustomRules
	}
	dst.Lint.Configure = append(dst.Lint.Configure, cli.Lint.Configure...)
	dst.Lint.Reports = append(dst.Lint.Reports, cli.Lint.Reports...)
	if cli.Lint.Threshold != nil {
		dst.Lint.Threshold = cli.Lint.Threshold
	}
	if cli.Lint.ExitZero != nil {
		dst.Lint.ExitZero = cli.Lint.ExitZero
	}
	if len(cli.Lint.PerFileIgnores) > 0 {
		dst.Lint.PerFileIgnores = cli.Lint.PerFileIgnores
	}

	if len(cli.Format.Select) > 0 {
		dst.Format.Select = cli.Format.Select
	}
	dst.Format.Configure = append(dst.Format.Configure, cli.Format.Configure...)
	dst.Format.Skip = append(dst.Format.Skip, cli.Format.Skip...)
	if cli.Format.SpaceCount != nil {
		dst.Format.SpaceCount = cli.Format.SpaceCount
	}
	if cli.Format.Indent != nil {
		dst.Format.Indent = cli.Format.Indent
	}
	if cli.Format.LineLength != nil {
		dst.Format.LineLength = cli.Format.LineLength
	}
	if cli.Format.Separator != nil {
		dst.Format.Separator = cli.Format.Separator
	}
	if cli.Format.LineEnding != nil {
		dst.Format.LineEnding = cli.Format.LineEnding
	}
	if cli.Format.Overwrite != nil {
		dst.Format.Overwrite = cli.Format.Overwrite
	}

	if cli.Cache.Enabled != nil {
		dst.Cache.Enabled = cli.Cache.Enabled
	}
	if cli.Cache.Dir != nil {
		dst.Cache.Dir = cli.Cache.Dir
	}
}

// validateFragment rejects invalid option values and missing referenced
// paths, and resolves custom-rule paths against the fragment's directory so
// the merged result is location-independent.
func validateFragment(frag *Fragment) error {
	if frag.Lint.Threshold != nil {
		if _, ok := core.ParseSeverity(*frag.Lint.Threshold); !ok {
			return &ConfigurationError{
				File:  frag.Path,
				Key:   "lint.threshold",
				Value: *frag.Lint.Threshold,
				Msg:   "expected one of: info, warning, error",
			}
		}
	}
	if frag.Format.Separator != nil {
		switch *frag.Format.Separator {
		case "space", "tab":
		default:
			return &ConfigurationError{
				File:  frag.Path,
				Key:   "format.separator",
				Value: *frag.Format.Separator,
				Msg:   "expected one of: space, tab",
			}
		}
	}
	if frag.Format.LineEnding != nil {
		switch *frag.Format.LineEnding {
		case "native", "unix", "windows":
		default:
			return &ConfigurationError{
				File:  frag.Path,
				Key:   "format.line_ending",
				Value: *frag.Format.LineEnding,
				Msg:   "expected one of: native, unix, windows",
			}
		}
	}
	for i, rulePath := range frag.Lint.CustomRules {
		resolved := rulePath
		if !filepath.IsAbs(resolved) && frag.Dir != "" {
			resolved = filepath.Join(frag.Dir, resolved)
		}
		if _, err := os.Stat(resolved); err != nil {
			return &ConfigurationError{
				File:  frag.Path,
				Key:   "lint.custom_rules",
				Value: rulePath,
				Msg:   "custom rules path does not exist",
				Err:   err,
			}
		}
		frag.Lint.CustomRules[i] = resolved
	}
	return nil
}

// materialize turns the merged fragment into the immutable Resolved bundle
// and computes its fingerprints.
func materialize(merged *Fragment, sources []string) (*Resolved, error) {
	linter := LinterSettings{
		Select:         merged.Lint.Select,
		ExtendSelect:   merged.Lint.ExtendSelect,
		Ignore:         merged.Lint.Ignore,
		Configure:      merged.Lint.Configure,
		CustomRules:    merged.Lint.CustomRules,
		Threshold:      DefaultThreshold,
		PerFileIgnores: merged.Lint.PerFileIgnores,
		Reports:        merged.Lint.Reports,
	}
	if merged.Lint.Threshold != nil {
		sev, ok := core.ParseSeverity(*merged.Lint.Threshold)
		if !ok {
			// validateFragment already rejected this; keep the guard.
			return nil, fmt.Errorf("unparseable threshold %q", *merged.Lint.Threshold)
		}
		linter.Threshold = sev
	}
	if merged.Lint.ExitZero != nil {
		linter.ExitZero = *merged.Lint.ExitZero
	}
	if merged.TargetVersion != nil {
		linter.TargetVersion = *merged.TargetVersion
	}

	formatter := FormatterSettings{
		Select:     merged.Format.Select,
		Configure:  merged.Format.Configure,
		SpaceCount: DefaultSpaceCount,
		Indent:     DefaultIndent,
		LineLength: DefaultLineLength,
		Separator:  DefaultSeparator,
		LineEnding: DefaultLineEnding,
		Skip:       merged.Format.Skip,
	}
	if merged.Format.SpaceCount != nil {
		formatter.SpaceCount = *merged.Format.SpaceCount
	}
	if merged.Format.Indent != nil {
		formatter.Indent = *merged.Format.Indent
	}
	if merged.Format.LineLength != nil {
		formatter.LineLength = *merged.Format.LineLength
	}
	if merged.Format.Separator != nil {
		formatter.Separator = *merged.Format.Separator
	}
	if merged.Format.LineEnding != nil {
		formatter.LineEnding = *merged.Format.LineEnding
	}
	if merged.Format.Overwrite != nil {
		formatter.Overwrite = *merged.Format.Overwrite
	}
	if merged.TargetVersion != nil {
		formatter.TargetVersion = *merged.TargetVersion
	}

	cache := CacheSettings{Enabled: true, Dir: DefaultCacheDir}
	if merged.Cache.Enabled != nil {
		cache.Enabled = *merged.Cache.Enabled
	}
	if merged.Cache.Dir != nil {
		cache.Dir = *merged.Cache.Dir
	}

	resolved := &Resolved{
		Sources:   sources,
		Filter:    NewFileFilter(merged.Include, merged.Exclude),
		Language:  merged.Language,
		Linter:    linter,
		Formatter: formatter,
		Cache:     cache,
	}
	resolved.LinterHash = LinterHash(&resolved.Linter)
	resolved.FormatterHash = FormatterHash(&resolved.Formatter)
	resolved.Fingerprint = CombinedFingerprint(resolved.LinterHash, resolved.FormatterHash, resolved.Language)
	return resolved, nil
}
