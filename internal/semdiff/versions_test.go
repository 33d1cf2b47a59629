package semdiff

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeVersion(t *testing.T, dir, version, content string) {
	t.Helper()
	vdir := filepath.Join(dir, version)
	require.NoError(t, os.MkdirAll(vdir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(vdir, ContentFile), []byte(content), 0644))
}

func TestSource_ReadLines(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "v1", "line one\nline two\n")

	lines, err := NewSource(dir).ReadLines("v1")
	require.NoError(t, err)
	assert.Equal(t, []string{"line one", "line two"}, lines)

	_, err = NewSource(dir).ReadLines("v2")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestSource_Previous(t *testing.T) {
	dir := t.TempDir()
	writeVersion(t, dir, "v1.0.0", "a")
	writeVersion(t, dir, "v1.2.0", "a")
	writeVersion(t, dir, "v1.10.0", "a")
	writeVersion(t, dir, "v2.0.0", "a")
	writeVersion(t, dir, "scratch", "a")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "v1.11.0"), 0755)) // no content

	src := NewSource(dir)

	prev, err := src.Previous("v1.12.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.10.0", prev)

	prev, err = src.Previous("v2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "v1.10.0", prev)

	_, err = src.Previous("v1.0.0")
	assert.ErrorIs(t, err, ErrNoPrevious)

	_, err = src.Previous("scratch")
	assert.ErrorIs(t, err, ErrNoPrevious)
}

func TestResult_WriteToDir(t *testing.T) {
	dir := t.TempDir()
	r := Compute("v1", "v2", []string{"a", "b"}, []string{"a", "b", "c"})

	out, err := r.WriteToDir(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "v2"), out)

	diff, err := os.ReadFile(filepath.Join(out, DiffFile))
	require.NoError(t, err)
	assert.Equal(t, "--- v1\n+++ v2\n@@ -1,2 +1,3 @@\n a\n b\n+c", string(diff))

	raw, err := os.ReadFile(filepath.Join(out, SummaryFile))
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "semantic", fields["change_type"])
	assert.Equal(t, float64(1), fields["lines_added"])

	loaded, err := LoadSummary(dir, "v2")
	require.NoError(t, err)
	assert.Equal(t, r.Summary, loaded)
}

func TestResult_WriteToDir_RejectsBadVersion(t *testing.T) {
	r := Compute("v1", "../v2", nil, nil)
	_, err := r.WriteToDir(t.TempDir())
	assert.Error(t, err)
}

func TestFormatters(t *testing.T) {
	changed := Summary{OldVersion: "v1", NewVersion: "v2", LinesAdded: 3, LinesRemoved: 1, ChangeType: ChangeSemantic}
	same := Summary{OldVersion: "v1", NewVersion: "v2", ChangeType: ChangeNone}

	assert.Contains(t, FormatCLI(changed, true), "Semantic diff written for v2")
	assert.Contains(t, FormatCLI(changed, true), "+3 -1")
	assert.Contains(t, FormatCLI(same, true), "no changes")
	assert.Equal(t, "Semantic diff for v2 (not written)\n  v1 → v2: +3 -1 (semantic)\n", FormatCLI(changed, false))
	assert.NotContains(t, FormatSummary(changed), "written")
	assert.Contains(t, FormatCI(changed), "::notice title=diff v2::3 line(s) added, 1 removed since v1")
	assert.Contains(t, FormatCI(same), "no changes since v1")

	out, err := FormatJSON(changed)
	require.NoError(t, err)
	assert.Contains(t, out, `"lines_removed": 1`)
}
