package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/robocop-go/robocop/internal/config"
)

// FormatResult aggregates one format-check run.
type FormatResult struct {
	// NeedsFormatting lists the files the formatter would change.
	NeedsFormatting []string
	FilesScanned    int
	FilesCached     int
	FilesSkipped    int
}

// RunFormatCheck reports which admitted files the formatter would rewrite.
// The stored signal is deliberately coarse — a boolean per file, not the
// rewritten content — so a hit only skips the probe, never substitutes for
// running the real formatter.
func (r *Runner) RunFormatCheck(ctx context.Context, paths []string) (*FormatResult, error) {
	defer r.cache.Save()

	files, err := r.gatherFiles(paths)
	if err != nil {
		return nil, err
	}

	result := &FormatResult{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			needs, fromCache, err := r.formatCheckFile(file)
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
			if needs {
				result.NeedsFormatting = append(result.NeedsFormatting, file)
			}
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

	sort.Strings(result.NeedsFormatting)
	return result, nil
}

func (r *Runner) formatCheckFile(path string) (needs bool, fromCache bool, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, false, err
	}
	resolved, err := r.configs.GetConfigFor(abs)
	if err != nil {
		return false, false, err
	}

	if needs, ok := r.cache.GetFormatterEntry(abs, resolved.FormatterHash); ok {
		return needs, true, nil
	}

	needs, err = needsFormatting(abs, &resolved.Formatter)
	if err != nil {
		return false, false, err
	}
	r.cache.SetFormatterEntry(abs, resolved.FormatterHash, needs)
	return needs, false, nil
}

// needsFormatting is the formatting probe: trailing whitespace, a line
// ending that disagrees with the configured one, or a missing final newline.
func needsFormatting(path string, settings *config.FormatterSettings) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	text := string(data)

	switch settings.LineEnding {
	case "unix":
		if strings.Contains(text, "\r\n") {
			return true, nil
		}
	case "windows":
		if strings.Contains(strings.ReplaceAll(text, "\r\n", ""), "\n") {
			return true, nil
		}
	}

	if !strings.HasSuffix(text, "\n") {
		return true, nil
	}
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimRight(line, " \t") != line {
			return true, nil
		}
	}
	return false, nil
}
