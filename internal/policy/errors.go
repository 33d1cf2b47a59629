package policy

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is the sentinel every NotFoundError matches with errors.Is.
var ErrNotFound = errors.New("not found")

// ErrConfiguration is the sentinel every ConfigurationError matches with errors.Is.
var ErrConfiguration = errors.New("configuration error")

// NotFoundError reports that a version has no review to evaluate.
type NotFoundError struct {
	Version string
	Path    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("review not found for %s", e.Version)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConfigurationError reports a rules or review document that cannot be read
// into typed fields. Field is empty when the whole document is at fault.
type ConfigurationError struct {
	Source string // "rules" or "review"
	Path   string
	Field  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s configuration %s: field '%s': %v", e.Source, e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s configuration %s: %v", e.Source, e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConfiguration) true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// FormatError renders a provider error as a one-line user-facing message.
func FormatError(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("ERROR: Review not found for %s", nf.Version)
	}

	var ce *ConfigurationError
	if errors.As(err, &ce) {
		if ce.Field != "" {
			return fmt.Sprintf("ERROR: %s file %s: '%s' %v", ce.Source, ce.Path, ce.Field, ce.Err)
		}
		return fmt.Sprintf("ERROR: %s file %s: %v", ce.Source, ce.Path, ce.Err)
	}

	return fmt.Sprintf("ERROR: %v", err)
}

// ErrInvalidVersion is returned for version identifiers that are empty or
// would escape their storage directory.
var ErrInvalidVersion = errors.New("invalid version identifier")

// CheckVersion rejects version identifiers that cannot be used as a single
// directory name.
func CheckVersion(version string) error {
	if version == "" || version == "." || version == ".." ||
		strings.ContainsAny(version, `/\`) || strings.ContainsRune(version, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return nil
}
