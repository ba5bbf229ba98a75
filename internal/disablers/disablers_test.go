package disablers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocop-go/robocop/pkg/core"
)

func diag(ruleID, ruleName string, line int) core.Diagnostic {
	return core.Diagnostic{
		RuleID:   ruleID,
		RuleName: ruleName,
		Range:    core.Range{Start: core.Position{Line: line, Col: 1}},
	}
}

func TestParse_NoDirectives(t *testing.T) {
	f := Parse([]string{"My Test", "    Log    message"})

	assert.False(t, f.Any())
	assert.False(t, f.FileDisabled())
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 1)))
}

func TestParse_SingleLineDisable(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"    Log    message    # robocop: disable=DOC01",
		"    Log    message",
	})

	require.True(t, f.Any())
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)),
		"the directive's own line is suppressed")
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 3)),
		"a single-line disable must not leak to the next line")
	assert.False(t, f.IsRuleDisabled(diag("LEN01", "line-too-long", 2)),
		"other rules stay enabled")
}

func TestParse_BlockDisable(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"# robocop: disable=DOC01",
		"    Log    one",
		"    Log    two",
		"# robocop: enable=DOC01",
		"    Log    three",
	})

	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 1)))
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 3)))
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 4)))
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 5)), "enable line closes the block inclusively")
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 6)))
}

func TestParse_BlockRunsToEOF(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"# robocop: disable=LEN01",
		"    Log    one",
		"    Log    two",
	})

	assert.True(t, f.IsRuleDisabled(diag("LEN01", "line-too-long", 4)),
		"an unbalanced disable runs to end of file")
	assert.False(t, f.FileDisabled(), "code before the directive means the file is not whole-file disabled")
}

func TestParse_WholeFileDisable(t *testing.T) {
	f := Parse([]string{
		"# robocop: disable",
		"My Test",
		"    Log    message",
	})

	assert.True(t, f.FileDisabled(),
		"a bare disable before any code suppresses the whole file")
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)))
}

func TestParse_WholeFileDisable_LeadingCommentsAllowed(t *testing.T) {
	f := Parse([]string{
		"# suite header comment",
		"",
		"# robocop: disable",
		"My Test",
	})

	assert.True(t, f.FileDisabled(), "blank lines and comments do not count as code")
}

func TestParse_DisableAllThenEnableAll(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"# robocop: disable",
		"    Log    one",
		"# robocop: enable",
		"    Log    two",
	})

	assert.False(t, f.FileDisabled())
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 3)))
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 5)))
}

func TestParse_EnableAllForceClosesNamedBlocks(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"# robocop: disable=DOC01,LEN01",
		"    Log    one",
		"# robocop: enable",
		"    Log    two",
	})

	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 3)))
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 5)))
	assert.False(t, f.IsRuleDisabled(diag("LEN01", "line-too-long", 5)))
}

func TestParse_StrayEnableIsNoOp(t *testing.T) {
	f := Parse([]string{
		"# robocop: enable=DOC01",
		"My Test",
	})

	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)))
}

func TestParse_RepeatedDisableIsIdempotent(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"# robocop: disable=DOC01",
		"# robocop: disable=DOC01",
		"    Log    one",
		"# robocop: enable=DOC01",
		"    Log    two",
	})

	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 4)))
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 6)),
		"one enable closes the block regardless of repeated disables")
}

func TestParse_MatchesRuleNameToo(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"    Log    message    # robocop: disable=missing-doc",
	})

	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)),
		"directives may name rules by human-readable name")
}

func TestParse_MultipleIDs(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"    Log    message    # robocop: disable=DOC01, LEN01",
	})

	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)))
	assert.True(t, f.IsRuleDisabled(diag("LEN01", "line-too-long", 2)))
	assert.False(t, f.IsRuleDisabled(diag("SPC01", "trailing-whitespace", 2)))
}

func TestParse_ProseAfterVerbIsNotADirective(t *testing.T) {
	f := Parse([]string{
		"# robocop: disabled temporarily, see JIRA-123",
		"My Test",
		"    Log    message",
	})

	assert.False(t, f.Any(), "a verb inside a longer word is prose")
	assert.False(t, f.FileDisabled())
	assert.False(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 3)))
}

func TestParse_NearMissVerbs(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"past tense", "# robocop: disabled"},
		{"plural", "# robocop: enables everything"},
		{"trailing prose", "# robocop: disable until the fixture is stable"},
		{"punctuation after verb", "# robocop: disable, really"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Parse([]string{tt.line, "My Test"})

			assert.False(t, f.Any(), "line %q must not parse as a directive", tt.line)
		})
	}
}

func TestParse_TrailingCommentAfterIDs(t *testing.T) {
	f := Parse([]string{
		"My Test",
		"    Log    message    # robocop: disable=DOC01  # flaky fixture",
	})

	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)))
	assert.False(t, f.IsRuleDisabled(diag("LEN01", "line-too-long", 2)))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.robot")
	require.NoError(t, os.WriteFile(path, []byte("My Test\n    Log    x    # robocop: disable=DOC01\n"), 0o644))

	f := ParseFile(path)
	assert.True(t, f.IsRuleDisabled(diag("DOC01", "missing-doc", 2)))
}

func TestParseFile_Unreadable(t *testing.T) {
	f := ParseFile(filepath.Join(t.TempDir(), "absent.robot"))
	assert.False(t, f.Any(), "an unreadable file yields zero disablers")
}
