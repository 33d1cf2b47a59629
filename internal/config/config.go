// Package config resolves the workspace layout promptgate reads from and
// writes to. Every location can be set by flag, then by environment
// variable, and falls back to the conventional repository layout.
package config

import (
	"path/filepath"
	"strings"
)

// Environment variables consulted when a flag is not given.
const (
	EnvReviewsDir  = "PROMPTGATE_REVIEWS_DIR"
	EnvRulesFile   = "PROMPTGATE_RULES_FILE"
	EnvStatusDir   = "PROMPTGATE_STATUS_DIR"
	EnvVersionsDir = "PROMPTGATE_VERSIONS_DIR"
	EnvDiffsDir    = "PROMPTGATE_DIFFS_DIR"
	EnvLogLevel    = "PROMPTGATE_LOG_LEVEL"
	EnvLogFormat   = "PROMPTGATE_LOG_FORMAT"
	EnvCI          = "PROMPTGATE_CI"
)

// Defaults relative to the workspace root.
const (
	DefaultReviewsDir  = "evals/reviews"
	DefaultRulesFile   = "workflows/promotion_rules.json"
	DefaultStatusDir   = "artifacts/status"
	DefaultVersionsDir = "prompts/versions"
	DefaultDiffsDir    = "artifacts/diffs"
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "console"
)

// Paths is the resolved workspace layout.
type Paths struct {
	ReviewsDir  string
	RulesFile   string
	StatusDir   string
	VersionsDir string
	DiffsDir    string
}

// Overrides carries flag values; empty fields are unset.
type Overrides struct {
	ReviewsDir  string
	RulesFile   string
	StatusDir   string
	VersionsDir string
	DiffsDir    string
}

// Resolve builds Paths from flags, then environ, then defaults. Relative
// results are joined onto root.
func Resolve(root string, environ []string, flags Overrides) Paths {
	env := ParseEnviron(environ)

	pick := func(flag, envVar, def string) string {
		value := def
		if v, ok := env[envVar]; ok && v != "" {
			value = v
		}
		if flag != "" {
			value = flag
		}
		if filepath.IsAbs(value) {
			return value
		}
		return filepath.Join(root, value)
	}

	return Paths{
		ReviewsDir:  pick(flags.ReviewsDir, EnvReviewsDir, DefaultReviewsDir),
		RulesFile:   pick(flags.RulesFile, EnvRulesFile, DefaultRulesFile),
		StatusDir:   pick(flags.StatusDir, EnvStatusDir, DefaultStatusDir),
		VersionsDir: pick(flags.VersionsDir, EnvVersionsDir, DefaultVersionsDir),
		DiffsDir:    pick(flags.DiffsDir, EnvDiffsDir, DefaultDiffsDir),
	}
}

// LogLevel returns the flag value if set, else PROMPTGATE_LOG_LEVEL, else the default.
func LogLevel(flag string, environ []string) string {
	if flag != "" {
		return flag
	}
	if v := ParseEnviron(environ)[EnvLogLevel]; v != "" {
		return v
	}
	return DefaultLogLevel
}

// LogFormat returns the flag value if set, else PROMPTGATE_LOG_FORMAT, else the default.
func LogFormat(flag string, environ []string) string {
	if flag != "" {
		return flag
	}
	if v := ParseEnviron(environ)[EnvLogFormat]; v != "" {
		return v
	}
	return DefaultLogFormat
}

// CIMode reports whether annotation output is requested by flag, by
// PROMPTGATE_CI or by the conventional CI variable.
func CIMode(flag bool, environ []string) bool {
	if flag {
		return true
	}
	env := ParseEnviron(environ)
	return truthy(env[EnvCI]) || truthy(env["CI"])
}

func truthy(val string) bool {
	val = strings.ToLower(val)
	return val == "true" || val == "1" || val == "yes"
}

// ParseEnviron converts an environ slice (["KEY=VALUE", ...]) into a map.
// Values may contain "="; entries without one are skipped.
func ParseEnviron(environ []string) map[string]string {
	result := make(map[string]string)
	for _, entry := range environ {
		idx := strings.Index(entry, "=")
		if idx == -1 {
			continue
		}
		result[entry[:idx]] = entry[idx+1:]
	}
	return result
}
