package semdiff

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"promptgate/internal/policy"
)

// ContentFile is the text artifact compared between versions.
const ContentFile = "user.md"

// ErrContentNotFound is returned when a version has no content file.
var ErrContentNotFound = errors.New("version content not found")

// ErrNoPrevious is returned when no earlier version can be found.
var ErrNoPrevious = errors.New("no previous version")

// Source reads version content laid out as <Dir>/<version>/user.md.
type Source struct {
	Dir string
}

// NewSource creates a source rooted at dir.
func NewSource(dir string) *Source {
	return &Source{Dir: dir}
}

// Path returns the content file path for version.
func (s *Source) Path(version string) string {
	return filepath.Join(s.Dir, version, ContentFile)
}

// ReadLines returns the content of version split into lines.
func (s *Source) ReadLines(version string) ([]string, error) {
	if err := policy.CheckVersion(version); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(version))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrContentNotFound, s.Path(version))
		}
		return nil, err
	}
	return SplitLines(string(data)), nil
}

// Previous returns the highest semver version below version that has
// content. Directories whose names are not semver are ignored.
func (s *Source) Previous(version string) (string, error) {
	target, err := semver.NewVersion(version)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a semantic version", ErrNoPrevious, version)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s does not exist", ErrNoPrevious, s.Dir)
		}
		return "", err
	}

	var best *semver.Version
	bestName := ""
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, err := semver.NewVersion(entry.Name())
		if err != nil || !v.LessThan(target) {
			continue
		}
		if _, err := os.Stat(s.Path(entry.Name())); err != nil {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestName = entry.Name()
		}
	}

	if best == nil {
		return "", fmt.Errorf("%w: nothing below %s in %s", ErrNoPrevious, version, s.Dir)
	}
	return bestName, nil
}
