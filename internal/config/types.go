// Package config resolves the effective configuration for each source file:
// it discovers the nearest config document walking up from the file, flattens
// extends chains, merges CLI overrides, and fingerprints the result so the
// result cache can tell identical configurations apart from changed ones.
package config

// Fragment is one source's partial settings: a single config file, or the
// CLI flags. Every field is optional; scalar fields use pointers so "unset"
// is distinguishable from the zero value. Fragments are never used for
// decisions directly — they are merged into a Resolved config first.
type Fragment struct {
	Extends       []string `koanf:"extends"`
	Include       []string `koanf:"include"`
	Exclude       []string `koanf:"exclude"`
	Language      []string `koanf:"language"`
	TargetVersion *string  `koanf:"target_version"`

	Lint   LintFragment   `koanf:"lint"`
	Format FormatFragment `koanf:"format"`
	Cache  CacheFragment  `koanf:"cache"`

	// Path and Dir locate the document this fragment came from; empty for
	// the CLI fragment. Relative extends entries resolve against Dir.
	Path string `koanf:"-"`
	Dir  string `koanf:"-"`
}

// LintFragment holds the linter sub-section of one source.
type LintFragment struct {
	Select         []string            `koanf:"select"`
	ExtendSelect   []string            `koanf:"extend_select"`
	Ignore         []string            `koanf:"ignore"`
	Configure      []string            `koanf:"configure"`
	CustomRules    []string            `koanf:"custom_rules"`
	Threshold      *string             `koanf:"threshold"`
	PerFileIgnores map[string][]string `koanf:"per_file_ignores"`
	Reports        []string            `koanf:"reports"`
	ExitZero       *bool               `koanf:"exit_zero"`
}

// FormatFragment holds the formatter sub-section of one source.
type FormatFragment struct {
	Select     []string `koanf:"select"`
	Configure  []string `koanf:"configure"`
	SpaceCount *int     `koanf:"space_count"`
	Indent     *int     `koanf:"indent"`
	LineLength *int     `koanf:"line_length"`
	Separator  *string  `koanf:"separator"`
	LineEnding *string  `koanf:"line_ending"`
	Skip       []string `koanf:"skip"`
	Overwrite  *bool    `koanf:"overwrite"`
}

// CacheFragment holds the cache sub-section of one source.
type CacheFragment struct {
	Enabled *bool   `koanf:"enabled"`
	Dir     *string `koanf:"dir"`
}

// topLevelKeys is the closed set of keys a config document may use. Anything
// else is a hard error, so migration mistakes surface instead of being
// silently dropped.
var topLevelKeys = map[string]bool{
	"extends":        true,
	"include":        true,
	"exclude":        true,
	"language":       true,
	"target_version": true,
	"lint":           true,
	"format":         true,
	"cache":          true,
}
