package classify

// Request is the inbound classification request.
type Request struct {
	ImageURL    string  `json:"image_url"`
	Description *string `json:"description"`
}

// Priority is derived from severity, never taken from the model.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// PriorityFor maps severity 1-2 to low, 3 to medium, 4 to high and 5 to critical.
func PriorityFor(severity int) Priority {
	switch {
	case severity <= 2:
		return PriorityLow
	case severity == 3:
		return PriorityMedium
	case severity == 4:
		return PriorityHigh
	default:
		return PriorityCritical
	}
}

// Result is a normalized classification. Every Result returned by Validate
// satisfies:
//   - CategoryID names a category in the request's snapshot, and
//     CategoryName/CategoryGroup are that category's stored values
//   - Severity is in [1,5] and Confidence in [0,1] with two decimals
//   - DueDateDays lies within the category's response window
//   - IsValidReport is false exactly when RejectionReason is non-nil
//   - ImageMatchesDescription false implies IsValidReport false
type Result struct {
	CategoryID              int      `json:"category_id"`
	CategoryName            string   `json:"category_name"`
	CategoryGroup           string   `json:"category_group"`
	Severity                int      `json:"severity"`
	Confidence              float64  `json:"confidence"`
	AIDescription           string   `json:"ai_description"`
	DueDateDays             int      `json:"due_date_days"`
	SuggestedPriority       Priority `json:"suggested_priority"`
	IsValidReport           bool     `json:"is_valid_report"`
	RejectionReason         *string  `json:"rejection_reason"`
	ImageMatchesDescription bool     `json:"image_matches_description"`
}
