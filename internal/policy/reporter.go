package policy

import (
	"encoding/json"
	"fmt"
	"strings"

	"promptgate/internal/fingerprint"
)

// FormatCLI formats a decision for terminal output. The first line is the
// stable summary other tooling greps for.
func FormatCLI(d Decision) string {
	return fmt.Sprintf("Promotion decision for %s: %s\n", d.Version, d.PromotionStatus)
}

// FormatDetail formats the inputs and deciding reason for verbose output.
func FormatDetail(d Decision) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  Compliance score: %g\n", d.Inputs.ComplianceScore))
	sb.WriteString(fmt.Sprintf("  Violations:       %d\n", d.Inputs.Violations))
	sb.WriteString(fmt.Sprintf("  Warnings:         %d\n", d.Inputs.Warnings))
	sb.WriteString(fmt.Sprintf("  Reason:           %s\n", DescribeReason(d)))
	sb.WriteString(fmt.Sprintf("  Evaluated at:     %s\n", d.EvaluatedAt))
	if d.RulesDigest != "" {
		sb.WriteString(fmt.Sprintf("  Rules digest:     %s\n", fingerprint.Short(d.RulesDigest)))
	}
	return sb.String()
}

// FormatCI formats a decision as a GitHub Actions annotation. Quarantine is
// an error, review_required a warning and promote a notice.
func FormatCI(d Decision) string {
	level := "notice"
	switch d.PromotionStatus {
	case StatusQuarantine:
		level = "error"
	case StatusReviewRequired:
		level = "warning"
	}
	return fmt.Sprintf("::%s title=promotion %s::%s is %s (%s)\n",
		level, d.Version, d.Version, d.PromotionStatus, DescribeReason(d))
}

// FormatJSON formats a decision as indented JSON.
func FormatJSON(d Decision) (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DescribeReason renders the deciding check as a short human sentence.
func DescribeReason(d Decision) string {
	switch d.Reason {
	case ReasonScoreBelowMinimum:
		return fmt.Sprintf("compliance score %g is below the minimum", d.Inputs.ComplianceScore)
	case ReasonViolationsExceeded:
		return fmt.Sprintf("%d violation(s) exceed the allowance", d.Inputs.Violations)
	case ReasonWarningsExceeded:
		return fmt.Sprintf("%d warning(s) exceed the allowance", d.Inputs.Warnings)
	case ReasonLawNotCovered:
		return fmt.Sprintf("required law '%s' is not covered", d.Law)
	case ReasonAllChecksPassed:
		return "all checks passed"
	}
	return string(d.Reason)
}
