// Package semdiff computes a line-level unified diff between two versions of
// a text artifact and summarizes it.
package semdiff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeType classifies a diff. It does not separate whitespace-only edits
// from content edits.
type ChangeType string

const (
	ChangeNone     ChangeType = "none"
	ChangeSemantic ChangeType = "semantic"
)

// ContextLines is the number of unchanged lines shown around each hunk.
const ContextLines = 3

// Summary is the coarse result written next to the diff.
type Summary struct {
	OldVersion   string     `json:"old_version"`
	NewVersion   string     `json:"new_version"`
	LinesAdded   int        `json:"lines_added"`
	LinesRemoved int        `json:"lines_removed"`
	ChangeType   ChangeType `json:"change_type"`
}

// Result holds the summary and the unified diff lines (without line endings).
type Result struct {
	Summary Summary
	Lines   []string
}

// Text joins the diff lines with newlines. It is empty when nothing changed.
func (r Result) Text() string {
	return strings.Join(r.Lines, "\n")
}

// Compute diffs oldLines against newLines. Counts come from the matcher's
// opcodes, so header and hunk marker lines are never counted.
func Compute(oldName, newName string, oldLines, newLines []string) Result {
	summary := Summary{
		OldVersion: oldName,
		NewVersion: newName,
		ChangeType: ChangeNone,
	}

	matcher := difflib.NewMatcher(oldLines, newLines)
	groups := matcher.GetGroupedOpCodes(ContextLines)
	if len(groups) == 0 {
		return Result{Summary: summary, Lines: []string{}}
	}

	for _, group := range groups {
		for _, op := range group {
			switch op.Tag {
			case 'r':
				summary.LinesRemoved += op.I2 - op.I1
				summary.LinesAdded += op.J2 - op.J1
			case 'd':
				summary.LinesRemoved += op.I2 - op.I1
			case 'i':
				summary.LinesAdded += op.J2 - op.J1
			}
		}
	}
	summary.ChangeType = ChangeSemantic

	return Result{Summary: summary, Lines: render(oldName, newName, oldLines, newLines)}
}

func render(oldName, newName string, oldLines, newLines []string) []string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(oldLines),
		B:        terminate(newLines),
		FromFile: oldName,
		ToFile:   newName,
		Context:  ContextLines,
	})
	if err != nil {
		// writes go to an in-memory buffer and cannot fail
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

// SplitLines splits text into lines, accepting \n and \r\n endings. A
// trailing newline does not produce an empty final line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
