package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

// fileModel builds a File model from raw source, tagging section headers the
// same way the line parser does.
func fileModel(t *testing.T, source string) *model.File {
	t.Helper()
	file := &model.File{Path: "test.robot", Lines: strings.Split(source, "\n")}
	for i, line := range file.Lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "***") {
			continue
		}
		name := strings.TrimSpace(strings.Trim(trimmed, "* \t"))
		var kind model.SectionKind
		switch strings.ToLower(name) {
		case "test cases":
			kind = model.SectionTestCases
		case "keywords":
			kind = model.SectionKeywords
		case "tasks":
			kind = model.SectionTasks
		case "settings":
			kind = model.SectionSettings
		default:
			kind = model.SectionUnknown
		}
		file.Sections = append(file.Sections, model.Section{Kind: kind, Name: name, Line: i + 1})
	}
	return file
}

func applyRule(t *testing.T, def lint.RuleDef, file *model.File) []lint.Report {
	t.Helper()
	rule := lint.WrapRuleDef(def)
	return rule.Apply(file, lint.DefaultParams(rule))
}

func TestMissingDocumentation(t *testing.T) {
	file := fileModel(t, `*** Test Cases ***
Documented Test
    [Documentation]    Logs in.
    Log    message

Undocumented Test
    Log    message
`)

	reports := applyRule(t, MissingDocumentation, file)
	require.Len(t, reports, 1, "only the undocumented test should be flagged")
	assert.Equal(t, 6, reports[0].Range.Start.Line)
	assert.Equal(t, "Undocumented Test", reports[0].Args["name"])
}

func TestMissingDocumentation_IgnoresOtherSections(t *testing.T) {
	file := fileModel(t, `*** Settings ***
Library    Collections

*** Variables ***
${NAME}    value
`)

	assert.Empty(t, applyRule(t, MissingDocumentation, file))
}

func TestLineTooLong_Default(t *testing.T) {
	long := strings.Repeat("x", 130)
	file := fileModel(t, "short line\n"+long)

	reports := applyRule(t, LineTooLong, file)
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Range.Start.Line)
	assert.Equal(t, "130", reports[0].Args["length"])
	assert.Equal(t, "120", reports[0].Args["max"])
}

func TestLineTooLong_ConfiguredLimit(t *testing.T) {
	file := fileModel(t, strings.Repeat("x", 50))
	rule := lint.WrapRuleDef(LineTooLong)

	reports := rule.Apply(file, map[string]any{"line_length": 40})
	require.Len(t, reports, 1)
	assert.Equal(t, "40", reports[0].Args["max"])

	assert.Empty(t, rule.Apply(file, map[string]any{"line_length": 60}))
}

func TestTrailingWhitespace(t *testing.T) {
	file := fileModel(t, "clean\ndirty   \nalso dirty\t")

	reports := applyRule(t, TrailingWhitespace, file)
	require.Len(t, reports, 2)
	assert.Equal(t, 2, reports[0].Range.Start.Line)
	assert.Equal(t, 6, reports[0].Range.Start.Col)
	assert.Equal(t, 3, reports[1].Range.Start.Line)
}

func TestDuplicatedTags(t *testing.T) {
	file := fileModel(t, `*** Test Cases ***
My Test
    [Tags]    smoke    regression    Smoke
    Log    message
`)

	reports := applyRule(t, DuplicatedTags, file)
	require.Len(t, reports, 1, "case-insensitive duplicate should be flagged once")
	assert.Equal(t, "Smoke", reports[0].Args["tag"])
}

func TestDuplicatedTags_NoDuplicates(t *testing.T) {
	file := fileModel(t, "    [Tags]    smoke    regression")
	assert.Empty(t, applyRule(t, DuplicatedTags, file))
}

func TestLowercaseKeywordName(t *testing.T) {
	file := fileModel(t, `*** Keywords ***
Open Browser To Login Page
    Log    ok

open browser to signup page
    Log    flagged
`)

	reports := applyRule(t, LowercaseKeywordName, file)
	require.Len(t, reports, 1)
	assert.Equal(t, "open browser to signup page", reports[0].Args["name"])
}

func TestBuiltinRegistry(t *testing.T) {
	r := NewRegistry()
	require.GreaterOrEqual(t, r.Count(), 5, "all builtin rules should register")

	for _, id := range []string{"DOC01", "LEN01", "NAME01", "SPC01", "TAG01"} {
		rule, ok := r.GetByID(id)
		require.True(t, ok, "expected builtin rule %s", id)
		assert.NotEmpty(t, rule.Name(), "rule %s needs a name", id)
		assert.NotEmpty(t, rule.Group(), "rule %s needs a group", id)
	}
}
