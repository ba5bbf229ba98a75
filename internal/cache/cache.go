// Package cache implements the persistent per-file result cache. It remembers
// which diagnostics a file produced (and whether it needed formatting) under a
// given configuration, keyed by absolute path and validated against file
// metadata plus the config hash, so unchanged files are never reprocessed.
//
// Cache failures are never fatal: a missing, corrupt, or version-mismatched
// cache file is a cold start, and a failed save is logged and retried on the
// next save.
package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
)

// FileName is the cache file inside the cache directory.
const FileName = "cache.msgpack"

// diagRecord is the durable form of one diagnostic: enough to fully
// reconstruct it from the rule's live message template without rerunning the
// rule.
type diagRecord struct {
	RuleID   string            `msgpack:"rule_id"`
	RuleName string            `msgpack:"rule_name"`
	Line     int               `msgpack:"line"`
	Col      int               `msgpack:"col"`
	EndLine  int               `msgpack:"end_line"`
	EndCol   int               `msgpack:"end_col"`
	Severity string            `msgpack:"severity"`
	Args     map[string]string `msgpack:"args"`
}

// linterEntry caches one file's lint result.
type linterEntry struct {
	Mtime       int64        `msgpack:"mtime"`
	Size        int64        `msgpack:"size"`
	ConfigHash  uint64       `msgpack:"config_hash"`
	Diagnostics []diagRecord `msgpack:"diagnostics"`
}

// formatterEntry caches the coarse "would the formatter change this file"
// signal. It is deliberately a boolean, not a cached rewrite.
type formatterEntry struct {
	Mtime           int64  `msgpack:"mtime"`
	Size            int64  `msgpack:"size"`
	ConfigHash      uint64 `msgpack:"config_hash"`
	NeedsFormatting bool   `msgpack:"needs_formatting"`
}

// cacheFile is the on-disk layout.
type cacheFile struct {
	Version   string                    `msgpack:"version"`
	Linter    map[string]linterEntry    `msgpack:"linter"`
	Formatter map[string]formatterEntry `msgpack:"formatter"`
}

// ResultCache is the persistent, versioned result cache. Keys are resolved
// absolute path strings; callers must resolve relative paths before calling
// so the same file maps to the same key regardless of working directory.
//
// The in-memory maps are guarded by a mutex so parallel per-file workers can
// share one instance.
type ResultCache struct {
	mu       sync.Mutex
	enabled  bool
	dir      string
	version  string
	registry *lint.Registry
	log      *slog.Logger

	loaded bool
	dirty  bool
	data   cacheFile
}

// Options configures a ResultCache.
type Options struct {
	// Enabled gates everything: a disabled cache misses every get and
	// ignores every set and save.
	Enabled bool
	// Dir is the cache directory; the cache file and its VCS-ignore marker
	// live inside it.
	Dir string
	// Version is the tool version persisted with the cache. A mismatch on
	// load discards both maps wholesale.
	Version string
	// Registry resolves stored rule ids/names when entries are rehydrated.
	Registry *lint.Registry
	Logger   *slog.Logger
}

// New builds a ResultCache. The cache file is loaded lazily on first access.
func New(opts Options) *ResultCache {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ResultCache{
		enabled:  opts.Enabled,
		dir:      opts.Dir,
		version:  opts.Version,
		registry: opts.Registry,
		log:      opts.Logger,
		data: cacheFile{
			Version:   opts.Version,
			Linter:    make(map[string]linterEntry),
			Formatter: make(map[string]formatterEntry),
		},
	}
}

// GetLinterEntry returns the cached diagnostics for path under configHash.
// Any mismatch — caching disabled, file missing, metadata drift, hash drift,
// or a stored rule that no longer resolves — is a miss, never an error.
func (c *ResultCache) GetLinterEntry(path string, configHash uint64) ([]core.Diagnostic, bool) {
	if !c.enabled {
		return nil, false
	}
	mtime, size, ok := statFile(path)
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()

	entry, ok := c.data.Linter[path]
	if !ok || entry.Mtime != mtime || entry.Size != size || entry.ConfigHash != configHash {
		return nil, false
	}
	diags, ok := c.rehydrate(path, entry.Diagnostics)
	if !ok {
		// A rule id or name that no longer resolves poisons the whole
		// entry: partial restoration would silently under-report.
		return nil, false
	}
	return diags, true
}

// SetLinterEntry stores the diagnostics produced for path under configHash.
// A no-op when caching is disabled or the file has vanished.
func (c *ResultCache) SetLinterEntry(path string, configHash uint64, diags []core.Diagnostic) {
	if !c.enabled {
		return
	}
	mtime, size, ok := statFile(path)
	if !ok {
		return
	}
	records := make([]diagRecord, 0, len(diags))
	for _, d := range diags {
		records = append(records, diagRecord{
			RuleID:   d.RuleID,
			RuleName: d.RuleName,
			Line:     d.Range.Start.Line,
			Col:      d.Range.Start.Col,
			EndLine:  d.Range.End.Line,
			EndCol:   d.Range.End.Col,
			Severity: d.Severity.Letter(),
			Args:     d.Args,
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	c.data.Linter[path] = linterEntry{
		Mtime:       mtime,
		Size:        size,
		ConfigHash:  configHash,
		Diagnostics: records,
	}
	c.dirty = true
}

// GetFormatterEntry returns the cached needs-formatting flag for path.
func (c *ResultCache) GetFormatterEntry(path string, configHash uint64) (bool, bool) {
	if !c.enabled {
		return false, false
	}
	mtime, size, ok := statFile(path)
	if !ok {
		return false, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()

	entry, ok := c.data.Formatter[path]
	if !ok || entry.Mtime != mtime || entry.Size != size || entry.ConfigHash != configHash {
		return false, false
	}
	return entry.NeedsFormatting, true
}

// SetFormatterEntry stores the needs-formatting flag for path.
func (c *ResultCache) SetFormatterEntry(path string, configHash uint64, needsFormatting bool) {
	if !c.enabled {
		return
	}
	mtime, size, ok := statFile(path)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loadLocked()
	c.data.Formatter[path] = formatterEntry{
		Mtime:           mtime,
		Size:            size,
		ConfigHash:      configHash,
		NeedsFormatting: needsFormatting,
	}
	c.dirty = true
}

// InvalidateAll clears both in-memory maps. The disk file is untouched until
// the next Save.
func (c *ResultCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = true
	c.data.Linter = make(map[string]linterEntry)
	c.data.Formatter = make(map[string]formatterEntry)
	c.dirty = true
}

// Save persists the cache. It is a no-op when disabled or clean; a write
// failure is logged and the dirty flag stays set for a later retry — it
// never propagates to the caller.
func (c *ResultCache) Save() {
	if !c.enabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return
	}

	c.data.Version = c.version
	payload, err := msgpack.Marshal(&c.data)
	if err != nil {
		c.log.Warn("cannot encode result cache", "error", err)
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.log.Warn("cannot create cache directory", "dir", c.dir, "error", err)
		return
	}
	if err := os.WriteFile(c.path(), payload, 0o644); err != nil {
		c.log.Warn("cannot write result cache", "path", c.path(), "error", err)
		return
	}
	c.dirty = false
	c.writeIgnoreMarker()
}

// loadLocked lazily reads the cache file. Corruption and version mismatch
// both degrade to an empty cache.
func (c *ResultCache) loadLocked() {
	if c.loaded {
		return
	}
	c.loaded = true

	payload, err := os.ReadFile(c.path())
	if err != nil {
		return
	}
	var data cacheFile
	if err := msgpack.Unmarshal(payload, &data); err != nil {
		c.log.Debug("discarding undecodable result cache", "path", c.path(), "error", err)
		return
	}
	if data.Version != c.version {
		c.log.Debug("discarding result cache from another version",
			"cached", data.Version, "current", c.version)
		return
	}
	if data.Linter == nil {
		data.Linter = make(map[string]linterEntry)
	}
	if data.Formatter == nil {
		data.Formatter = make(map[string]formatterEntry)
	}
	c.data = data
}

// rehydrate rebuilds diagnostics from durable records against the currently
// loaded rules. It fails as a whole when any record's rule or template no
// longer lines up.
func (c *ResultCache) rehydrate(path string, records []diagRecord) ([]core.Diagnostic, bool) {
	diags := make([]core.Diagnostic, 0, len(records))
	for _, rec := range records {
		rule, ok := c.registry.Resolve(rec.RuleID)
		if !ok {
			rule, ok = c.registry.Resolve(rec.RuleName)
		}
		if !ok {
			return nil, false
		}
		msg, err := rule.BuildMessage(rec.Args)
		if err != nil {
			return nil, false
		}
		sev, _ := core.ParseSeverity(rec.Severity)
		diags = append(diags, core.Diagnostic{
			RuleID:   rec.RuleID,
			RuleName: rec.RuleName,
			Severity: sev,
			Message:  msg,
			Path:     path,
			Range: core.Range{
				Start: core.Position{Line: rec.Line, Col: rec.Col},
				End:   core.Position{Line: rec.EndLine, Col: rec.EndCol},
			},
			Args: rec.Args,
		})
	}
	return diags, true
}

// writeIgnoreMarker best-effort drops a wildcard .gitignore in the cache
// directory after a successful save so the cache never ends up committed.
// Failure must not abort the save.
func (c *ResultCache) writeIgnoreMarker() {
	marker := filepath.Join(c.dir, ".gitignore")
	if _, err := os.Stat(marker); err == nil {
		return
	}
	if err := os.WriteFile(marker, []byte("*\n"), 0o644); err != nil {
		c.log.Debug("cannot write cache ignore marker", "path", marker, "error", err)
	}
}

func (c *ResultCache) path() string {
	return filepath.Join(c.dir, FileName)
}

func statFile(path string) (mtime int64, size int64, ok bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, 0, false
	}
	return info.ModTime().UnixNano(), info.Size(), true
}
