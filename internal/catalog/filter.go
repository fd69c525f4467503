package catalog

import (
	"fmt"
	"strings"
)

// Filter narrows a course list the way the scheduling page's subject list and
// search box do, plus weekday and credit criteria.
//
// An empty filter matches every course.
type Filter struct {
	// Subject restricts to codes starting with this subject (case-insensitive)
	Subject string `json:"subject,omitempty"`

	// Keyword is a case-insensitive substring of the code or title
	Keyword string `json:"keyword,omitempty"`

	// Days requires at least one slot on any of these weekdays
	Days []int `json:"days,omitempty"`

	MinCredits int `json:"min_credits,omitempty"`
	MaxCredits int `json:"max_credits,omitempty"`

	// MatchingOnly keeps only courses with a lecture/tutorial matching requirement
	MatchingOnly bool `json:"matching_only,omitempty"`
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return f.Subject == "" &&
		f.Keyword == "" &&
		len(f.Days) == 0 &&
		f.MinCredits == 0 &&
		f.MaxCredits == 0 &&
		!f.MatchingOnly
}

// Matches checks if a course passes all active criteria
func (f *Filter) Matches(c *Course) bool {
	if f.IsEmpty() {
		return true
	}

	if f.Subject != "" && !strings.HasPrefix(strings.ToUpper(c.Code), strings.ToUpper(f.Subject)) {
		return false
	}

	if f.Keyword != "" {
		term := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(c.Code), term) &&
			!strings.Contains(strings.ToLower(c.Title), term) {
			return false
		}
	}

	if len(f.Days) > 0 {
		matched := false
		for _, d := range f.Days {
			if c.HasDay(d) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MinCredits > 0 && c.Credits < f.MinCredits {
		return false
	}
	if f.MaxCredits > 0 && c.Credits > f.MaxCredits {
		return false
	}

	if f.MatchingOnly && !c.MatchingRequired {
		return false
	}

	return true
}

// Apply returns the courses matching the filter, preserving order
func (f *Filter) Apply(courses []*Course) []*Course {
	if f.IsEmpty() {
		return courses
	}

	filtered := make([]*Course, 0)
	for _, c := range courses {
		if f.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.Subject != "" {
		parts = append(parts, fmt.Sprintf("Subject: %s", strings.ToUpper(f.Subject)))
	}
	if f.Keyword != "" {
		parts = append(parts, fmt.Sprintf("Keyword: %s", f.Keyword))
	}
	if len(f.Days) > 0 {
		parts = append(parts, fmt.Sprintf("Days: %s", FormatDays(f.Days)))
	}
	if f.MinCredits > 0 {
		parts = append(parts, fmt.Sprintf("Min credits: %d", f.MinCredits))
	}
	if f.MaxCredits > 0 {
		parts = append(parts, fmt.Sprintf("Max credits: %d", f.MaxCredits))
	}
	if f.MatchingOnly {
		parts = append(parts, "Matching required")
	}
	return strings.Join(parts, " | ")
}
