// Package status persists promotion decisions, one payload per version.
package status

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"

	"promptgate/internal/policy"
)

// FileName is the decision payload inside each version directory.
const FileName = "status.json"

// ErrStatusNotFound is returned when a version has no stored decision.
var ErrStatusNotFound = errors.New("status not found")

// ErrCorruptStatus is returned for a stored payload that does not describe a
// decision for its own version.
var ErrCorruptStatus = errors.New("corrupt status payload")

// Store manages decision persistence under <Dir>/<version>/status.json.
type Store struct {
	Dir string
}

// NewStore creates a store with the given directory.
func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the payload path for version.
func (s *Store) Path(version string) string {
	return filepath.Join(s.Dir, version, FileName)
}

// Save writes the decision for d.Version, replacing any earlier one. The
// payload is written to a temp file and renamed into place.
func (s *Store) Save(d policy.Decision) error {
	if err := policy.CheckVersion(d.Version); err != nil {
		return err
	}

	dir := filepath.Join(s.Dir, d.Version)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, ".status-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.Path(d.Version))
}

// Load retrieves the decision for version.
func (s *Store) Load(version string) (policy.Decision, error) {
	if err := policy.CheckVersion(version); err != nil {
		return policy.Decision{}, err
	}

	data, err := os.ReadFile(s.Path(version))
	if err != nil {
		if os.IsNotExist(err) {
			return policy.Decision{}, ErrStatusNotFound
		}
		return policy.Decision{}, err
	}

	var d policy.Decision
	if err := json.Unmarshal(data, &d); err != nil {
		return policy.Decision{}, fmt.Errorf("%w: %v", ErrCorruptStatus, err)
	}
	if err := check(version, d); err != nil {
		return policy.Decision{}, err
	}
	return d, nil
}

func check(version string, d policy.Decision) error {
	if d.Version != version {
		return fmt.Errorf("%w: version %q stored under %q", ErrCorruptStatus, d.Version, version)
	}
	if !d.PromotionStatus.Valid() {
		return fmt.Errorf("%w: unknown promotion_status %q", ErrCorruptStatus, d.PromotionStatus)
	}
	if _, err := d.EvaluatedTime(); err != nil {
		return fmt.Errorf("%w: evaluated_at_utc: %v", ErrCorruptStatus, err)
	}
	return nil
}

// List returns summaries of every stored decision, ordered by semantic
// version where versions parse as semver and by name otherwise.
func (s *Store) List() ([]Summary, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Summary{}, nil
		}
		return nil, err
	}

	summaries := []Summary{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		d, err := s.Load(entry.Name())
		if err != nil {
			continue // skip directories without a readable payload
		}
		summaries = append(summaries, Summary{
			Version:         d.Version,
			PromotionStatus: d.PromotionStatus,
			EvaluatedAt:     d.EvaluatedAt,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return VersionLess(summaries[i].Version, summaries[j].Version)
	})
	return summaries, nil
}

// Delete removes the stored decision for version. The version directory is
// removed too when nothing else is left in it.
func (s *Store) Delete(version string) error {
	if err := policy.CheckVersion(version); err != nil {
		return err
	}

	if err := os.Remove(s.Path(version)); err != nil {
		if os.IsNotExist(err) {
			return ErrStatusNotFound
		}
		return err
	}
	_ = os.Remove(filepath.Join(s.Dir, version)) // fails harmlessly when not empty
	return nil
}

// Exists checks if a decision is stored for version.
func (s *Store) Exists(version string) bool {
	if policy.CheckVersion(version) != nil {
		return false
	}
	_, err := os.Stat(s.Path(version))
	return err == nil
}

// VersionLess orders semver-parseable versions first, by precedence, then
// everything else by name.
func VersionLess(a, b string) bool {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		if va.Equal(vb) {
			return a < b
		}
		return va.LessThan(vb)
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return a < b
}
