package taxonomy

import (
	"math"
	"strings"
)

// Category is one active municipal issue category. The set fetched for a
// request is the only source of truth for valid classifications.
type Category struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	ExampleIssues   string `json:"example_issues"`
	Group           string `json:"category_group"`
	MinResponseDays int    `json:"min_response_days"`
	MaxResponseDays int    `json:"max_response_days"`
}

// DueDays interpolates the response window by severity:
//
//	max - ((severity-1)/4) * (max-min)
//
// rounded to the nearest day and clamped into [min, max].
func (c Category) DueDays(severity int) int {
	lo, hi := float64(c.MinResponseDays), float64(c.MaxResponseDays)
	days := int(math.Round(hi - (float64(severity-1)/4)*(hi-lo)))
	return min(c.MaxResponseDays, max(c.MinResponseDays, days))
}

// Snapshot is the immutable category set for one request.
type Snapshot []Category

// ByID returns the category with the given id.
func (s Snapshot) ByID(id int) (Category, bool) {
	for _, c := range s {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// ByName matches a category name case-insensitively.
func (s Snapshot) ByName(name string) (Category, bool) {
	if name == "" {
		return Category{}, false
	}
	for _, c := range s {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Category{}, false
}

// IDs returns the category ids in snapshot order.
func (s Snapshot) IDs() []int {
	out := make([]int, len(s))
	for i, c := range s {
		out[i] = c.ID
	}
	return out
}

// Names returns the category names in snapshot order.
func (s Snapshot) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}
