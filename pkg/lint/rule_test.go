package lint

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robocop-go/robocop/pkg/core"
)

func testRule() Rule {
	return WrapRuleDef(RuleDef{
		ID:       "LEN99",
		Name:     "too-many-things",
		Group:    "lengths",
		Severity: core.SeverityWarning,
		Message:  "Too many things ({count}/{max})",
		Params: []ParamDef{
			{
				Name:    "max_things",
				Default: 10,
				Parse: func(raw string) (any, error) {
					n, err := strconv.Atoi(raw)
					if err != nil {
						return nil, fmt.Errorf("expected an integer, got %q", raw)
					}
					return n, nil
				},
			},
		},
	})
}

func TestRule_BuildMessage(t *testing.T) {
	rule := testRule()

	msg, err := rule.BuildMessage(map[string]string{"count": "12", "max": "10"})
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, "Too many things (12/10)", msg)
}

func TestRule_BuildMessage_MissingArg(t *testing.T) {
	rule := testRule()

	_, err := rule.BuildMessage(map[string]string{"count": "12"})
	require.Error(t, err, "expected error for unsatisfied placeholder")

	var mismatch *TemplateMismatchError
	require.True(t, errors.As(err, &mismatch), "expected *TemplateMismatchError, got %T", err)
	assert.Equal(t, "LEN99", mismatch.RuleID)
	assert.Equal(t, "max", mismatch.Placeholder)
}

func TestRule_BuildMessage_NoPlaceholders(t *testing.T) {
	rule := WrapRuleDef(RuleDef{ID: "SPC99", Name: "plain", Message: "Trailing whitespace"})

	msg, err := rule.BuildMessage(nil)
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, "Trailing whitespace", msg)
}

func TestDefaultParams(t *testing.T) {
	params := DefaultParams(testRule())
	assert.Equal(t, map[string]any{"max_things": 10}, params)
}

func TestResolveParam(t *testing.T) {
	rule := testRule()

	v, err := ResolveParam(rule, "max_things", "25")
	require.NoError(t, err, "unexpected error")
	assert.Equal(t, 25, v)
}

func TestResolveParam_InvalidValue(t *testing.T) {
	_, err := ResolveParam(testRule(), "max_things", "lots")
	require.Error(t, err, "expected error for unparseable value")
	assert.Contains(t, err.Error(), "LEN99")
}

func TestResolveParam_UnknownName(t *testing.T) {
	_, err := ResolveParam(testRule(), "max_stuff", "5")
	require.Error(t, err, "expected error for unknown parameter")

	var unknown *UnknownParamError
	require.True(t, errors.As(err, &unknown), "expected *UnknownParamError, got %T", err)
	assert.Equal(t, "max_stuff", unknown.Param)
	assert.Equal(t, []string{"max_things"}, unknown.Known)
}
