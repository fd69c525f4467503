package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByCode    SortOrder = "code"
	SortByTitle   SortOrder = "title"
	SortByCredits SortOrder = "credits"
	// SortNone keeps catalog order (subject list order, then page order)
	SortNone SortOrder = "none"
)

// ParseSortOrder validates a sort order name
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case SortByCode, SortByTitle, SortByCredits, SortNone:
		return o, nil
	case "":
		return SortNone, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be code, title, credits or none)", s)
	}
}

// SortCourses sorts courses in place. Ties fall back to code order.
func SortCourses(courses []*Course, order SortOrder) {
	switch order {
	case SortByCode:
		sort.SliceStable(courses, func(i, j int) bool {
			return courses[i].Code < courses[j].Code
		})
	case SortByTitle:
		sort.SliceStable(courses, func(i, j int) bool {
			ti, tj := strings.ToLower(courses[i].Title), strings.ToLower(courses[j].Title)
			if ti != tj {
				return ti < tj
			}
			return courses[i].Code < courses[j].Code
		})
	case SortByCredits:
		sort.SliceStable(courses, func(i, j int) bool {
			if courses[i].Credits != courses[j].Credits {
				return courses[i].Credits < courses[j].Credits
			}
			return courses[i].Code < courses[j].Code
		})
	}
}
