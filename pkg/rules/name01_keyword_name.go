package rules

import (
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

func init() {
	register(LowercaseKeywordName)
}

// LowercaseKeywordName flags keyword definitions whose words are not
// capitalized ("open browser" instead of "Open Browser").
var LowercaseKeywordName = lint.RuleDef{
	ID:          "NAME01",
	Name:        "not-capitalized-keyword-name",
	Group:       "naming",
	Description: "Keyword name should be capitalized.",
	Severity:    core.SeverityWarning,
	Message:     "Keyword name '{name}' should be capitalized",
	Check:       checkKeywordCapitalization,
}

func checkKeywordCapitalization(file *model.File, _ map[string]any) []lint.Report {
	var reports []lint.Report
	for _, section := range file.Sections {
		if section.Kind != model.SectionKeywords {
			continue
		}
		end := sectionEnd(file, section)
		for line := section.Line + 1; line <= end; line++ {
			text := file.Line(line)
			if !isBlockHeader(text) {
				continue
			}
			name := strings.TrimSpace(text)
			if !isCapitalized(name) {
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

// isCapitalized accepts names whose space-separated words each start with an
// uppercase letter or a non-letter (variables, digits).
func isCapitalized(name string) bool {
	for _, word := range strings.Fields(name) {
		r := rune(word[0])
		if r >= 'a' && r <= 'z' {
			return false
		}
	}
	return true
}
