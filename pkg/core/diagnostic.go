package core

import "fmt"

// =============================================================================
// Positions
// =============================================================================

// Position is a 1-based line/column location in a source file.
type Position struct {
	Line int
	Col  int
}

// String returns "line:col".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Range spans from Start to End, inclusive.
type Range struct {
	Start Position
	End   Position
}

// =============================================================================
// Diagnostics
// =============================================================================

// Diagnostic represents a single lint finding in one file.
//
// Args carries the keyword arguments that were interpolated into Message.
// They are persisted in the result cache so the message can be rebuilt from
// the rule's live template without rerunning the rule.
type Diagnostic struct {
	RuleID   string
	RuleName string
	Severity Severity
	Message  string
	Path     string
	Range    Range
	Args     map[string]string
}

// String renders the diagnostic in the canonical report form:
//
//	path:line:col [W] DOC01 Missing documentation
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d [%s] %s %s",
		d.Path, d.Range.Start.Line, d.Range.Start.Col, d.Severity.Letter(), d.RuleID, d.Message)
}
