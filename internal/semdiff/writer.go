package semdiff

import (
	"encoding/json"
	"os"
	"path/filepath"

	"promptgate/internal/policy"
)

// Output file names inside <dir>/<new_version>/.
const (
	DiffFile    = "diff.txt"
	SummaryFile = "summary.json"
)

// WriteToDir writes diff.txt and summary.json under dir/<new_version>,
// creating directories as needed. Existing files are replaced.
func (r Result) WriteToDir(dir string) (string, error) {
	if err := policy.CheckVersion(r.Summary.NewVersion); err != nil {
		return "", err
	}

	out := filepath.Join(dir, r.Summary.NewVersion)
	if err := os.MkdirAll(out, 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(out, DiffFile), []byte(r.Text()), 0644); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r.Summary, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(out, SummaryFile), data, 0644); err != nil {
		return "", err
	}
	return out, nil
}

// LoadSummary reads a previously written summary for version.
func LoadSummary(dir, version string) (Summary, error) {
	if err := policy.CheckVersion(version); err != nil {
		return Summary{}, err
	}
	data, err := os.ReadFile(filepath.Join(dir, version, SummaryFile))
	if err != nil {
		return Summary{}, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}
	return s, nil
}
