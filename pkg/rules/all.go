// Package rules contains the builtin lint rules. Each rule lives in its own
// file and registers itself in init(); Builtin returns the full static set,
// from which callers construct a lint.Registry for the run.
package rules

import "github.com/robocop-go/robocop/pkg/lint"

var builtin []lint.RuleDef

// register adds a rule definition to the builtin set.
// Call this from init() functions in rule files.
func register(def lint.RuleDef) {
	builtin = append(builtin, def)
}

// Builtin returns the definitions of all builtin rules.
func Builtin() []lint.RuleDef {
	out := make([]lint.RuleDef, len(builtin))
	copy(out, builtin)
	return out
}

// NewRegistry builds a fresh registry holding every builtin rule.
func NewRegistry() *lint.Registry {
	return lint.NewRegistry(Builtin()...)
}
