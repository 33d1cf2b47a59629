package semdiff

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatCLI formats a freshly computed diff for terminal output. written
// reports whether the artifacts were saved.
func FormatCLI(s Summary, written bool) string {
	var sb strings.Builder
	if written {
		sb.WriteString(fmt.Sprintf("Semantic diff written for %s\n", s.NewVersion))
	} else {
		sb.WriteString(fmt.Sprintf("Semantic diff for %s (not written)\n", s.NewVersion))
	}
	sb.WriteString(FormatSummary(s))
	return sb.String()
}

// FormatSummary formats the one-line change summary.
func FormatSummary(s Summary) string {
	if s.ChangeType == ChangeNone {
		return fmt.Sprintf("  %s → %s: no changes\n", s.OldVersion, s.NewVersion)
	}
	return fmt.Sprintf("  %s → %s: +%d -%d (%s)\n",
		s.OldVersion, s.NewVersion, s.LinesAdded, s.LinesRemoved, s.ChangeType)
}

// FormatCI formats a diff summary as a GitHub Actions notice annotation.
func FormatCI(s Summary) string {
	if s.ChangeType == ChangeNone {
		return fmt.Sprintf("::notice title=diff %s::no changes since %s\n", s.NewVersion, s.OldVersion)
	}
	return fmt.Sprintf("::notice title=diff %s::%d line(s) added, %d removed since %s\n",
		s.NewVersion, s.LinesAdded, s.LinesRemoved, s.OldVersion)
}

// FormatJSON formats a diff summary as JSON.
func FormatJSON(s Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
