package rules

import (
	"fmt"
	"strconv"

	"github.com/robocop-go/robocop/pkg/core"
	"github.com/robocop-go/robocop/pkg/lint"
	"github.com/robocop-go/robocop/pkg/model"
)

func init() {
	register(LineTooLong)
}

// LineTooLong flags source lines longer than the configured limit.
var LineTooLong = lint.RuleDef{
	ID:          "LEN01",
	Name:        "line-too-long",
	Group:       "lengths",
	Description: "Line is longer than the configured maximum.",
	Severity:    core.SeverityWarning,
	Message:     "Line is too long ({length}/{max})",
	Params: []lint.ParamDef{
		{
			Name:    "line_length",
			Default: 120,
			Parse: func(raw string) (any, error) {
				n, err := strconv.Atoi(raw)
				if err != nil || n <= 0 {
					return nil, fmt.Errorf("expected a positive integer, got %q", raw)
				}
				return n, nil
			},
		},
	},
	Check: checkLineTooLong,
}

func checkLineTooLong(file *model.File, params map[string]any) []lint.Report {
	max := 120
	if v, ok := params["line_length"].(int); ok {
		max = v
	}
	var reports []lint.Report
	for i, line := range file.Lines {
		length := len([]rune(line))
		if length <= max {
			continue
		}
		reports = append(reports, lint.Report{
			Range: core.Range{
				Start: core.Position{Line: i + 1, Col: max + 1},
				End:   core.Position{Line: i + 1, Col: length},
			},
			Args: map[string]string{
				"length": strconv.Itoa(length),
				"max":    strconv.Itoa(max),
			},
		})
	}
	return reports
}
