package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"civicsight/internal/taxonomy"
)

const (
	minSeverity = 1
	maxSeverity = 5

	// Missing or non-boolean verdict flags default to true so an unclear
	// answer goes to human review instead of being dropped.
	failOpenVerdict = true

	genericRejectionReason  = "Report flagged as invalid by AI analysis."
	mismatchRejectionReason = "Image does not match the provided description."
)

// Validate turns a decoded model answer into a Result that satisfies the
// Result invariants, using cats as the only source of category truth. It either
// returns a fully populated Result or an error; it never fills fields partially.
func Validate(fields map[string]any, cats taxonomy.Snapshot) (Result, error) {
	cat, err := resolveCategory(fields, cats)
	if err != nil {
		return Result{}, err
	}

	rawSeverity, err := numberField(fields, "severity")
	if err != nil {
		return Result{}, err
	}
	rawConfidence, err := numberField(fields, "confidence")
	if err != nil {
		return Result{}, err
	}

	severity := clampSeverity(rawSeverity)
	res := Result{
		CategoryID:              cat.ID,
		CategoryName:            cat.Name,
		CategoryGroup:           cat.Group,
		Severity:                severity,
		Confidence:              clampConfidence(rawConfidence),
		AIDescription:           stringField(fields, "ai_description"),
		DueDateDays:             cat.DueDays(severity),
		SuggestedPriority:       PriorityFor(severity),
		IsValidReport:           boolField(fields, "is_valid_report"),
		ImageMatchesDescription: boolField(fields, "image_matches_description"),
	}
	if reason := strings.TrimSpace(stringField(fields, "rejection_reason")); reason != "" {
		res.RejectionReason = &reason
	}

	if !res.IsValidReport && res.RejectionReason == nil {
		res.RejectionReason = ptr(genericRejectionReason)
	}
	if res.IsValidReport {
		res.RejectionReason = nil
	}
	if !res.ImageMatchesDescription {
		res.IsValidReport = false
		if res.RejectionReason == nil {
			res.RejectionReason = ptr(mismatchRejectionReason)
		}
	}
	return res, nil
}

func resolveCategory(fields map[string]any, cats taxonomy.Snapshot) (taxonomy.Category, error) {
	if id, ok := intField(fields, "category_id"); ok {
		if cat, ok := cats.ByID(id); ok {
			return cat, nil
		}
	}
	if cat, ok := cats.ByName(strings.TrimSpace(stringField(fields, "category_name"))); ok {
		return cat, nil
	}
	return taxonomy.Category{}, fmt.Errorf("%w: category_id %s, category_name %q. Valid IDs: %s",
		ErrInvalidCategory, describeValue(fields["category_id"]), stringField(fields, "category_name"), joinIDs(cats))
}

// clampSeverity clamps before converting; out-of-range floats have no
// defined int conversion.
func clampSeverity(v float64) int {
	return int(math.Round(min(maxSeverity, max(minSeverity, v))))
}

func clampConfidence(v float64) float64 {
	return math.Round(min(1, max(0, v))*100) / 100
}

// numberField reads a required finite number. JSON numbers and numeric
// strings are accepted.
func numberField(fields map[string]any, key string) (float64, error) {
	v, ok := fields[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedJSON, key)
	}
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not a number: %s", ErrMalformedJSON, key, describeValue(v))
	}
	return f, nil
}

// intField reads an integral number. Anything else counts as absent.
func intField(fields map[string]any, key string) (int, bool) {
	f, ok := asFloat(fields[key])
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]any, key string) bool {
	if b, ok := fields[key].(bool); ok {
		return b
	}
	return failOpenVerdict
}

func describeValue(v any) string {
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func ptr(s string) *string {
	return &s
}
