package core

import "strings"

// =============================================================================
// Severity
// =============================================================================

// Severity indicates the importance of a lint diagnostic.
// The ordering is significant: severities compare with <, so a threshold
// check is a plain `severity >= threshold`.
type Severity int

// Severity levels for diagnostics, lowest first.
const (
	// SeverityInfo indicates informational feedback.
	SeverityInfo Severity = iota
	// SeverityWarning indicates a potential issue that should be reviewed.
	SeverityWarning
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Letter returns the single-letter form used in report output and in
// persisted cache entries ("I", "W", "E").
func (s Severity) Letter() string {
	switch s {
	case SeverityInfo:
		return "I"
	case SeverityWarning:
		return "W"
	case SeverityError:
		return "E"
	default:
		return "?"
	}
}

// ParseSeverity converts a string to a Severity value. It accepts both the
// long form ("warning") and the letter form ("W"), case-insensitively.
// Returns the severity and true if valid, or SeverityWarning and false if invalid.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info", "i":
		return SeverityInfo, true
	case "warning", "w":
		return SeverityWarning, true
	case "error", "e":
		return SeverityError, true
	default:
		return SeverityWarning, false
	}
}
