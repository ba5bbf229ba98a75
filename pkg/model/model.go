// Package model defines the source-parsing collaborator consumed by the lint
// pipeline. The pipeline itself never parses Robot Framework syntax: a Parser
// supplies a shallow section model plus the raw line-indexed text, and rules
// work against that.
package model

import (
	"bufio"
	"os"
	"strings"
)

// SectionKind classifies a top-level Robot Framework section header.
type SectionKind string

// Recognized section kinds.
const (
	SectionSettings  SectionKind = "settings"
	SectionVariables SectionKind = "variables"
	SectionTestCases SectionKind = "test cases"
	SectionTasks     SectionKind = "tasks"
	SectionKeywords  SectionKind = "keywords"
	SectionComments  SectionKind = "comments"
	SectionUnknown   SectionKind = "unknown"
)

// Section is one `*** ... ***` block of a file.
type Section struct {
	Kind SectionKind
	Name string
	Line int // 1-based line of the header
}

// File is the parsed model of one source file: raw lines plus the shallow
// section structure. Lines preserve the original text without trailing
// newlines; Lines[0] is line 1.
type File struct {
	Path     string
	Lines    []string
	Sections []Section
}

// LineCount returns the number of source lines.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// Line returns the 1-based line n, or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.Lines) {
		return ""
	}
	return f.Lines[n-1]
}

// Parser produces a File model for a path. Languages are optional locale
// hints for translated section headers; implementations may ignore them.
type Parser interface {
	Parse(path string, languages []string) (*File, error)
}

// LineParser is the default Parser. It reads the file, splits it into lines,
// and tags section headers. It does not build a real grammar tree.
type LineParser struct{}

// NewLineParser returns a LineParser.
func NewLineParser() *LineParser {
	return &LineParser{}
}

// Parse reads path and returns its File model.
func (p *LineParser) Parse(path string, _ []string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file := &File{Path: path}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		file.Lines = append(file.Lines, line)
		if kind, name, ok := parseSectionHeader(line); ok {
			file.Sections = append(file.Sections, Section{Kind: kind, Name: name, Line: lineNo})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return file, nil
}

// parseSectionHeader recognizes `*** Name ***` headers.
func parseSectionHeader(line string) (SectionKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "***") {
		return SectionUnknown, "", false
	}
	name := strings.TrimSpace(strings.Trim(trimmed, "* \t"))
	if name == "" {
		return SectionUnknown, "", false
	}
	switch strings.ToLower(name) {
	case "settings", "setting":
		return SectionSettings, name, true
	case "variables", "variable":
		return SectionVariables, name, true
	case "test cases", "test case":
		return SectionTestCases, name, true
	case "tasks", "task":
		return SectionTasks, name, true
	case "keywords", "keyword":
		return SectionKeywords, name, true
	case "comments", "comment":
		return SectionComments, name, true
	default:
		return SectionUnknown, name, true
	}
}
