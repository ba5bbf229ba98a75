package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/model"
)

// =============================================================================
// Rule Definitions
// =============================================================================

// CheckFunc analyzes a file model and returns reports. Reports carry only the
// positional data and message arguments; the runner fills in message text and
// severity from the rule definition.
type CheckFunc func(file *model.File, params map[string]any) []Report

// Report is one raw finding produced by a CheckFunc, before it is turned
// into a core.Diagnostic.
type Report struct {
	Range core.Range
	Args  map[string]string
}

// ParamDef is a typed, enumerated rule parameter. Unknown parameter names
// are a validated lookup failure, never silent acceptance.
type ParamDef struct {
	Name    string
	Default any
	// Parse converts a raw string value from configuration into the typed
	// parameter value, or returns an error describing why it is invalid.
	Parse func(raw string) (any, error)
}

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "DOC01"
	Name        string        // Human-readable name, e.g., "missing-doc-test-case"
	Group       string        // Category, e.g., "documentation", "lengths"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Message     string        // Message template with {placeholder} arguments
	Params      []ParamDef    // Enumerated typed parameters
	Check       CheckFunc     // The check function
}

// Rule is the capability interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "DOC01".
	ID() string

	// Name returns the human-readable name, e.g., "missing-doc-test-case".
	Name() string

	// Group returns the category, e.g., "documentation".
	Group() string

	// Description returns a human-readable description.
	Description() string

	// DefaultSeverity returns the default severity for this rule.
	DefaultSeverity() core.Severity

	// Params returns the enumerated parameter schema.
	Params() []ParamDef

	// BuildMessage renders the rule's message template with args. A
	// placeholder without a matching argument is a TemplateMismatchError.
	BuildMessage(args map[string]string) (string, error)

	// Apply runs the check against a file model with resolved parameters.
	Apply(file *model.File, params map[string]any) []Report
}

// =============================================================================
// Template errors
// =============================================================================

// TemplateMismatchError reports a message template whose placeholders could
// not be satisfied by the supplied arguments.
type TemplateMismatchError struct {
	RuleID      string
	Placeholder string
}

func (e *TemplateMismatchError) Error() string {
	return fmt.Sprintf("rule %s: message template placeholder {%s} has no argument", e.RuleID, e.Placeholder)
}

// UnknownParamError reports a configured parameter name the rule does not
// declare in its schema.
type UnknownParamError struct {
	RuleID string
	Param  string
	Known  []string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("rule %s: unknown parameter %q (accepts: %s)",
		e.RuleID, e.Param, strings.Join(e.Known, ", "))
}

// =============================================================================
// Wrapped RuleDef
// =============================================================================

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                     { return w.def.ID }
func (w *wrappedRuleDef) Name() string                   { return w.def.Name }
func (w *wrappedRuleDef) Group() string                  { return w.def.Group }
func (w *wrappedRuleDef) Description() string            { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedRuleDef) Params() []ParamDef             { return w.def.Params }

func (w *wrappedRuleDef) BuildMessage(args map[string]string) (string, error) {
	var missing string
	msg := placeholderRe.ReplaceAllStringFunc(w.def.Message, func(m string) string {
		key := m[1 : len(m)-1]
		if v, ok := args[key]; ok {
			return v
		}
		if missing == "" {
			missing = key
		}
		return m
	})
	if missing != "" {
		return "", &TemplateMismatchError{RuleID: w.def.ID, Placeholder: missing}
	}
	return msg, nil
}

func (w *wrappedRuleDef) Apply(file *model.File, params map[string]any) []Report {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(file, params)
}

// DefaultParams materializes the schema defaults into a parameter map.
func DefaultParams(r Rule) map[string]any {
	params := make(map[string]any, len(r.Params()))
	for _, p := range r.Params() {
		params[p.Name] = p.Default
	}
	return params
}

// ResolveParam looks up a parameter by name in the rule's schema and parses
// the raw configured value through it.
func ResolveParam(r Rule, name, raw string) (any, error) {
	for _, p := range r.Params() {
		if p.Name == name {
			if p.Parse == nil {
				return raw, nil
			}
			v, err := p.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("rule %s: parameter %q: %w", r.ID(), name, err)
			}
			return v, nil
		}
	}
	known := make([]string, 0, len(r.Params()))
	for _, p := range r.Params() {
		known = append(known, p.Name)
	}
	sort.Strings(known)
	return nil, &UnknownParamError{RuleID: r.ID(), Param: name, Known: known}
}
