// Package review reads per-version review results written by the evaluation
// pipeline and turns them into typed policy inputs.
package review

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"promptgate/internal/coerce"
	"promptgate/internal/docschema"
	"promptgate/internal/policy"
)

// FileName is the review document inside each version directory.
const FileName = "review.json"

const source = "review"

// Field names as they appear in the review document.
const (
	FieldComplianceScore = "compliance_score"
	FieldViolations      = "violations"
	FieldWarnings        = "warnings"
	FieldLawCoverage     = "law_coverage"
)

var reviewSchema = docschema.MustCompile("review", `{
  "type": "object",
  "properties": {
    "compliance_score": {"type": ["number", "string"]},
    "violations": {"type": "array"},
    "warnings": {"type": "array"},
    "law_coverage": {"type": "object"}
  }
}`)

// Store reads reviews laid out as <Dir>/<version>/review.json.
type Store struct {
	Dir string
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the review file path for version.
func (s *Store) Path(version string) string {
	return filepath.Join(s.Dir, version, FileName)
}

// Exists reports whether a review file is present for version.
func (s *Store) Exists(version string) bool {
	if policy.CheckVersion(version) != nil {
		return false
	}
	info, err := os.Stat(s.Path(version))
	return err == nil && !info.IsDir()
}

// Load reads the review for version. A missing file yields a
// *policy.NotFoundError; an unreadable document a *policy.ConfigurationError.
func (s *Store) Load(version string) (policy.ReviewResult, error) {
	if err := policy.CheckVersion(version); err != nil {
		return policy.ReviewResult{}, err
	}

	path := s.Path(version)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return policy.ReviewResult{}, &policy.NotFoundError{Version: version, Path: path}
		}
		return policy.ReviewResult{}, fmt.Errorf("read review %s: %w", path, err)
	}

	result, err := Parse(data)
	if err != nil {
		var ce *policy.ConfigurationError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return policy.ReviewResult{}, err
	}
	return result, nil
}

// Versions lists the version directories that contain a review, sorted by name.
func (s *Store) Versions() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	versions := []string{}
	for _, entry := range entries {
		if entry.IsDir() && s.Exists(entry.Name()) {
			versions = append(versions, entry.Name())
		}
	}
	sort.Strings(versions)
	return versions, nil
}

// Parse converts a review document into a typed result. Absent fields read
// as a zero score, no findings and no coverage.
func Parse(data []byte) (policy.ReviewResult, error) {
	doc, err := docschema.Decode(data)
	if err != nil {
		return policy.ReviewResult{}, configErr("", fmt.Errorf("invalid JSON: %w", err))
	}
	if err := reviewSchema.Validate(doc); err != nil {
		var v *docschema.Violation
		if errors.As(err, &v) {
			return policy.ReviewResult{}, configErr(v.Field, errors.New(v.Message))
		}
		return policy.ReviewResult{}, configErr("", err)
	}

	fields := doc.(map[string]interface{})
	var result policy.ReviewResult

	if result.ComplianceScore, err = coerce.Float(fields[FieldComplianceScore], 0); err != nil {
		return policy.ReviewResult{}, configErr(FieldComplianceScore, err)
	}
	if result.Violations, err = coerce.Items(fields[FieldViolations]); err != nil {
		return policy.ReviewResult{}, configErr(FieldViolations, err)
	}
	if result.Warnings, err = coerce.Items(fields[FieldWarnings]); err != nil {
		return policy.ReviewResult{}, configErr(FieldWarnings, err)
	}
	if result.LawCoverage, err = coerce.Coverage(fields[FieldLawCoverage]); err != nil {
		return policy.ReviewResult{}, configErr(FieldLawCoverage, err)
	}

	return result, nil
}

func configErr(field string, err error) *policy.ConfigurationError {
	return &policy.ConfigurationError{Source: source, Field: field, Err: err}
}
