package status

import "promptgate/internal/policy"

// Summary is a lightweight view for listing stored decisions.
type Summary struct {
	Version         string        `json:"version"`
	PromotionStatus policy.Status `json:"promotion_status"`
	EvaluatedAt     string        `json:"evaluated_at_utc"`
}
