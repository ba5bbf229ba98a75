package rules

import (
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

func init() {
	register(MissingDocumentation)
}

// MissingDocumentation flags test cases and keywords without a
// [Documentation] setting.
var MissingDocumentation = lint.RuleDef{
	ID:          "DOC01",
	Name:        "missing-doc",
	Group:       "documentation",
	Description: "Test case or keyword is missing documentation.",
	Severity:    core.SeverityWarning,
	Message:     "Missing documentation in '{name}'",
	Check:       checkMissingDocumentation,
}

func checkMissingDocumentation(file *model.File, _ map[string]any) []lint.Report {
	var reports []lint.Report
	for _, section := range file.Sections {
		if section.Kind != model.SectionTestCases && section.Kind != model.SectionKeywords && section.Kind != model.SectionTasks {
			continue
		}
		end := sectionEnd(file, section)
		for line := section.Line + 1; line <= end; line++ {
			text := file.Line(line)
			if !isBlockHeader(text) {
				continue
			}
			name := strings.TrimSpace(text)
			if !blockHasDocumentation(file, line, end) {
				reports = append(reports, lint.Report{
					Range: core.Range{
						Start: core.Position{Line: line, Col: 1},
						End:   core.Position{Line: line, Col: len(text)},
					},
					Args: map[string]string{"name": name},
				})
			}
		}
	}
	return reports
}

// isBlockHeader reports whether the line opens a test case or keyword body:
// non-empty, no leading whitespace, not a comment.
func isBlockHeader(line string) bool {
	if line == "" || strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
		return false
	}
	return !strings.HasPrefix(strings.TrimSpace(line), "#")
}

func blockHasDocumentation(file *model.File, header, sectionEnd int) bool {
	for line := header + 1; line <= sectionEnd; line++ {
		text := file.Line(line)
		if isBlockHeader(text) {
			return false
		}
		if strings.Contains(strings.ToLower(text), "[documentation]") {
			return true
		}
	}
	return false
}

// sectionEnd returns the last line belonging to the section.
func sectionEnd(file *model.File, section model.Section) int {
	for _, s := range file.Sections {
		if s.Line > section.Line {
			return s.Line - 1
		}
	}
	return file.LineCount()
}
