// Package disablers parses inline suppression comments into per-rule line and
// block ranges. The grammar is:
//
//	# robocop: disable=DOC01,missing-doc
//	# robocop: enable=DOC01
//
// with an omitted id list meaning "all". A disable on a line that also holds
// code suppresses only that line; a disable on its own line opens a block
// that runs until the matching enable or end of file. Directives need not be
// balanced: a stray enable is a no-op, a repeated disable is idempotent.
package disablers

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/robocop-go/robocop/pkg/core"
)

// allRules is the sentinel id used when a directive names no rules.
const allRules = "all"

// The verb must end at a word boundary and be followed by an id list, a
// trailing comment, or nothing: "# robocop: disabled for now" is prose,
// not a directive.
var directiveRe = regexp.MustCompile(`#\s*robocop\s*:\s*(disable|enable)\b(?:\s*=\s*([^#]*))?\s*(?:#.*)?$`)

// ruleDisablers collects the suppressed single lines and closed blocks of one
// rule, plus the currently open block start (-1 when none).
type ruleDisablers struct {
	lines  map[int]bool
	blocks [][2]int
	open   int
}

func newRuleDisablers() *ruleDisablers {
	return &ruleDisablers{lines: make(map[int]bool), open: -1}
}

// Finder holds the parsed disablers of one file.
type Finder struct {
	rules    map[string]*ruleDisablers
	lastLine int
}

// ParseFile reads and scans path. An unreadable file yields zero disablers,
// never an error: suppression is best-effort and must not fail the batch.
func ParseFile(path string) *Finder {
	f, err := os.Open(path)
	if err != nil {
		return Parse(nil)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanner.Err() != nil {
		return Parse(nil)
	}
	return Parse(lines)
}

// Parse scans source lines in a single pass.
func Parse(lines []string) *Finder {
	f := &Finder{
		rules:    make(map[string]*ruleDisablers),
		lastLine: len(lines),
	}
	seenCode := false
	for i, line := range lines {
		lineNo := i + 1
		loc := directiveRe.FindStringSubmatchIndex(line)
		if loc == nil {
			if !isBlankOrComment(line) {
				seenCode = true
			}
			continue
		}
		verb := line[loc[2]:loc[3]]
		ids := []string{allRules}
		if loc[4] >= 0 {
			if named := splitIDs(line[loc[4]:loc[5]]); len(named) > 0 {
				ids = named
			}
		}
		codeBefore := strings.TrimSpace(line[:loc[0]]) != ""
		if codeBefore {
			seenCode = true
		}

		switch verb {
		case "disable":
			if codeBefore {
				for _, id := range ids {
					f.rule(id).lines[lineNo] = true
				}
			} else {
				start := lineNo
				if !seenCode {
					// Nothing ran before this directive: the block covers
					// the whole file from line 0, the distinguished
					// whole-file-disabled shape.
					start = 0
				}
				for _, id := range ids {
					r := f.rule(id)
					if r.open < 0 {
						r.open = start
					}
				}
			}
		case "enable":
			if codeBefore {
				continue
			}
			for _, id := range ids {
				f.closeBlock(id, lineNo)
			}
			if len(ids) == 1 && ids[0] == allRules {
				// "enable all" force-closes every other rule's open block.
				for id := range f.rules {
					f.closeBlock(id, lineNo)
				}
			}
		}
	}
	// EOF force-closes any still-open block.
	for _, r := range f.rules {
		if r.open >= 0 {
			r.blocks = append(r.blocks, [2]int{r.open, f.lastLine})
			r.open = -1
		}
	}
	return f
}

func (f *Finder) rule(id string) *ruleDisablers {
	r, ok := f.rules[id]
	if !ok {
		r = newRuleDisablers()
		f.rules[id] = r
	}
	return r
}

func (f *Finder) closeBlock(id string, line int) {
	r, ok := f.rules[id]
	if !ok || r.open < 0 {
		return
	}
	r.blocks = append(r.blocks, [2]int{r.open, line})
	r.open = -1
}

// Any reports whether the file contains any disabler at all; callers skip
// the per-diagnostic checks entirely when it is false.
func (f *Finder) Any() bool {
	return len(f.rules) > 0
}

// FileDisabled reports the distinguished whole-file state: "all" has exactly
// one block spanning line 0 to the last line.
func (f *Finder) FileDisabled() bool {
	r, ok := f.rules[allRules]
	if !ok || len(r.blocks) != 1 {
		return false
	}
	return r.blocks[0][0] == 0 && r.blocks[0][1] == f.lastLine
}

// IsRuleDisabled reports whether the diagnostic's line is suppressed for
// "all", the rule id, or the rule name. Id and name are checked
// independently since source comments may use either.
func (f *Finder) IsRuleDisabled(d core.Diagnostic) bool {
	line := d.Range.Start.Line
	if f.matches(allRules, line) {
		return true
	}
	if f.matches(d.RuleID, line) {
		return true
	}
	return d.RuleName != "" && f.matches(d.RuleName, line)
}

func (f *Finder) matches(id string, line int) bool {
	r, ok := f.rules[id]
	if !ok {
		return false
	}
	if r.lines[line] {
		return true
	}
	for _, block := range r.blocks {
		if line >= block[0] && line <= block[1] {
			return true
		}
	}
	return false
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func isBlankOrComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}
