package policy

import (
	"encoding/json"
	"math"
	"time"
)

// Status is the outcome of a promotion decision.
type Status string

const (
	StatusPromote        Status = "promote"
	StatusReviewRequired Status = "review_required"
	StatusQuarantine     Status = "quarantine"
)

// Reason identifies which check decided the status.
type Reason string

const (
	ReasonScoreBelowMinimum  Reason = "score_below_minimum"
	ReasonViolationsExceeded Reason = "violations_exceeded"
	ReasonWarningsExceeded   Reason = "warnings_exceeded"
	ReasonLawNotCovered      Reason = "law_not_covered"
	ReasonAllChecksPassed    Reason = "all_checks_passed"
)

// TimestampLayout is the second-precision UTC layout used for evaluated_at_utc.
const TimestampLayout = "2006-01-02T15:04:05Z"

// UnreachableScore is the minimum compliance score applied when a rule set
// does not declare one. No finite score reaches it, so promotion is blocked.
var UnreachableScore = math.Inf(1)

// RuleSet holds the thresholds a review is evaluated against.
type RuleSet struct {
	MinimumComplianceScore float64
	MaxViolationsAllowed   int
	MaxWarningsAllowed     int
	RequiredLaws           []string // ordered, duplicates already removed
}

// ReviewResult is the already-typed review for a single version.
type ReviewResult struct {
	ComplianceScore float64
	Violations      []json.RawMessage
	Warnings        []json.RawMessage
	LawCoverage     map[string]bool // absent key means not covered
}

// Outcome is the result of evaluating a review against a rule set.
type Outcome struct {
	Status Status
	Reason Reason
	Law    string // first uncovered required law (ReasonLawNotCovered only)
}

// Inputs is the numeric snapshot a decision was made from.
type Inputs struct {
	ComplianceScore float64 `json:"compliance_score"`
	Violations      int     `json:"violations"`
	Warnings        int     `json:"warnings"`
}

// Decision is the audit payload handed to the status sink.
type Decision struct {
	Version         string `json:"version"`
	PromotionStatus Status `json:"promotion_status"`
	EvaluatedAt     string `json:"evaluated_at_utc"`
	Inputs          Inputs `json:"inputs"`
	Reason          Reason `json:"reason"`
	Law             string `json:"law,omitempty"`
	RulesDigest     string `json:"rules_digest,omitempty"`
}

// EvaluatedTime parses EvaluatedAt back into a time.
func (d Decision) EvaluatedTime() (time.Time, error) {
	return time.Parse(TimestampLayout, d.EvaluatedAt)
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPromote, StatusReviewRequired, StatusQuarantine:
		return true
	}
	return false
}
