package scraper

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

var timeRangePattern = regexp.MustCompile(`(\d{2}):(\d{2})(AM|PM)\s*-\s*(\d{2}):(\d{2})(AM|PM)`)

// TimeRange is the structured form of a catalog time string
type TimeRange struct {
	Days  []int
	Start float64
	End   float64
}

// ParseTimeString converts text like "MoWeFr10:00AM - 10:50AM".
// It returns false for empty or "TBA" input and for text without a
// recognisable HH:MMAM - HH:MMPM range.
func ParseTimeString(s string) (TimeRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "TBA" {
		return TimeRange{}, false
	}

	// Day codes are checked as plain substrings, not by splitting.
	seen := make(map[int]bool)
	days := make([]int, 0, len(catalog.DayCodes))
	for _, code := range catalog.DayCodes {
		if !strings.Contains(s, code) {
			continue
		}
		n, _ := catalog.DayNumber(code)
		if !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	sort.Ints(days)

	m := timeRangePattern.FindStringSubmatch(s)
	if m == nil {
		return TimeRange{}, false
	}

	return TimeRange{
		Days:  days,
		Start: toHour(m[1], m[2], m[3]),
		End:   toHour(m[4], m[5], m[6]),
	}, true
}

// toHour converts 12-hour clock parts to a fractional 24-hour value rounded
// to two decimals.
func toHour(hh, mm, period string) float64 {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)

	if period == "PM" && h != 12 {
		h += 12
	}
	if period == "AM" && h == 12 {
		h = 0
	}

	return math.Round((float64(h)+float64(m)/60)*100) / 100
}
