package policy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("load: %w", &NotFoundError{Version: "v3", Path: "evals/reviews/v3/review.json"})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConfiguration))
	assert.Equal(t, "ERROR: Review not found for v3", FormatError(err))
}

func TestConfigurationError_UnwrapsCause(t *testing.T) {
	cause := errors.New("not a number")
	err := &ConfigurationError{Source: "rules", Path: "rules.json", Field: "max_warnings_allowed", Err: cause}

	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "invalid rules configuration rules.json: field 'max_warnings_allowed': not a number", err.Error())
	assert.Equal(t, "ERROR: rules file rules.json: 'max_warnings_allowed' not a number", FormatError(err))
}

func TestConfigurationError_WholeDocument(t *testing.T) {
	err := &ConfigurationError{Source: "review", Path: "review.json", Err: errors.New("invalid JSON")}

	assert.Equal(t, "invalid review configuration review.json: invalid JSON", err.Error())
	assert.Equal(t, "ERROR: review file review.json: invalid JSON", FormatError(err))
}

func TestFormatError_Generic(t *testing.T) {
	assert.Equal(t, "ERROR: disk full", FormatError(errors.New("disk full")))
}

func TestCheckVersion(t *testing.T) {
	for _, ok := range []string{"v1", "1.2.0", "v2.0.0-rc.1", "prompt_7"} {
		assert.NoError(t, CheckVersion(ok), ok)
	}
	for _, bad := range []string{"", ".", "..", "a/b", `a\b`, "../v1"} {
		assert.ErrorIs(t, CheckVersion(bad), ErrInvalidVersion, bad)
	}
}
