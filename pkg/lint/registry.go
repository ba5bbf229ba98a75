package lint

import (
	"sort"
	"sync"
)

// Registry stores the rules loaded for one run. It is constructed explicitly
// and threaded through the pipeline; a fresh run gets a fresh Registry, so
// there is no process-wide rule state to clear.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by ID
	names map[string]Rule // keyed by Name
}

// NewRegistry builds a registry from rule definitions.
func NewRegistry(defs ...RuleDef) *Registry {
	r := &Registry{
		rules: make(map[string]Rule, len(defs)),
		names: make(map[string]Rule, len(defs)),
	}
	for _, def := range defs {
		r.Register(WrapRuleDef(def))
	}
	return r
}

// Register adds a rule. A rule with a duplicate ID replaces the earlier one.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[rule.ID()] = rule
	r.names[rule.Name()] = rule
}

// GetByID returns a rule by its ID.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// GetByName returns a rule by its human-readable name.
func (r *Registry) GetByName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.names[name]
	return rule, ok
}

// Resolve returns a rule by ID or name, whichever matches.
func (r *Registry) Resolve(idOrName string) (Rule, bool) {
	if rule, ok := r.GetByID(idOrName); ok {
		return rule, true
	}
	return r.GetByName(idOrName)
}

// All returns every registered rule ordered by ID.
func (r *Registry) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rules := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID() < rules[j].ID() })
	return rules
}

// ByGroup returns all rules in a group, ordered by ID.
func (r *Registry) ByGroup(group string) []Rule {
	var rules []Rule
	for _, rule := range r.All() {
		if rule.Group() == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}
