package rules

import (
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

func init() {
	register(DuplicatedTags)
}

// DuplicatedTags flags a [Tags] setting that lists the same tag twice.
// Robot Framework tags are case- and space-insensitive, so "Smoke" and
// "smoke" are duplicates.
var DuplicatedTags = lint.RuleDef{
	ID:          "TAG01",
	Name:        "duplicated-tags",
	Group:       "tags",
	Description: "Tag is duplicated within the same [Tags] setting.",
	Severity:    core.SeverityWarning,
	Message:     "Duplicated tag '{tag}'",
	Check:       checkDuplicatedTags,
}

func checkDuplicatedTags(file *model.File, _ map[string]any) []lint.Report {
	var reports []lint.Report
	for i, line := range file.Lines {
		lower := strings.ToLower(line)
		idx := strings.Index(lower, "[tags]")
		if idx < 0 {
			continue
		}
		rest := line[idx+len("[tags]"):]
		seen := make(map[string]bool)
		for _, tag := range splitCells(rest) {
			normalized := strings.ToLower(strings.ReplaceAll(tag, " ", ""))
			if normalized == "" {
				continue
			}
			if seen[normalized] {
				reports = append(reports, lint.Report{
					Range: core.Range{
						Start: core.Position{Line: i + 1, Col: idx + 1},
						End:   core.Position{Line: i + 1, Col: len(line)},
					},
					Args: map[string]string{"tag": tag},
				})
				continue
			}
			seen[normalized] = true
		}
	}
	return reports
}

// splitCells splits a data row on the two-or-more-spaces / tab separator.
func splitCells(row string) []string {
	var cells []string
	for _, part := range strings.Split(row, "\t") {
		for _, cell := range strings.Split(part, "  ") {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
