package rules

import (
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

func init() {
	register(TrailingWhitespace)
}

// TrailingWhitespace flags lines ending in spaces or tabs.
var TrailingWhitespace = lint.RuleDef{
	ID:          "SPC01",
	Name:        "trailing-whitespace",
	Group:       "spacing",
	Description: "Line ends with whitespace.",
	Severity:    core.SeverityInfo,
	Message:     "Trailing whitespace at the end of line",
	Check:       checkTrailingWhitespace,
}

func checkTrailingWhitespace(file *model.File, _ map[string]any) []lint.Report {
	var reports []lint.Report
	for i, line := range file.Lines {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == line {
			continue
		}
		reports = append(reports, lint.Report{
			Range: core.Range{
				Start: core.Position{Line: i + 1, Col: len(trimmed) + 1},
				End:   core.Position{Line: i + 1, Col: len(line)},
			},
			Args: map[string]string{},
		})
	}
	return reports
}
