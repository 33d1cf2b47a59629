package policy

import "time"

// Evaluate applies the promotion checks in order and returns on the first
// failing one. Score and violation failures dominate warnings, and warnings
// are checked before the per-law gate.
func Evaluate(review ReviewResult, rules RuleSet) Outcome {
	if review.ComplianceScore < rules.MinimumComplianceScore {
		return Outcome{Status: StatusQuarantine, Reason: ReasonScoreBelowMinimum}
	}

	if len(review.Violations) > rules.MaxViolationsAllowed {
		return Outcome{Status: StatusQuarantine, Reason: ReasonViolationsExceeded}
	}

	if len(review.Warnings) > rules.MaxWarningsAllowed {
		return Outcome{Status: StatusReviewRequired, Reason: ReasonWarningsExceeded}
	}

	for _, law := range rules.RequiredLaws {
		if !review.LawCoverage[law] {
			return Outcome{Status: StatusQuarantine, Reason: ReasonLawNotCovered, Law: law}
		}
	}

	return Outcome{Status: StatusPromote, Reason: ReasonAllChecksPassed}
}

// Decide evaluates review against rules and builds the decision payload for
// version. The timestamp is truncated to whole seconds in UTC.
func Decide(version string, review ReviewResult, rules RuleSet, at time.Time) Decision {
	outcome := Evaluate(review, rules)

	return Decision{
		Version:         version,
		PromotionStatus: outcome.Status,
		EvaluatedAt:     at.UTC().Truncate(time.Second).Format(TimestampLayout),
		Inputs:          SnapshotInputs(review),
		Reason:          outcome.Reason,
		Law:             outcome.Law,
	}
}

// SnapshotInputs extracts the numeric signals a decision depends on.
func SnapshotInputs(review ReviewResult) Inputs {
	return Inputs{
		ComplianceScore: review.ComplianceScore,
		Violations:      len(review.Violations),
		Warnings:        len(review.Warnings),
	}
}
