package catalog

import (
	"fmt"
	"strings"
)

// DayCodes lists the two-letter weekday abbreviations used by the catalog,
// in the order they are checked.
var DayCodes = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

var dayNumbers = map[string]int{
	"Mo": 1,
	"Tu": 2,
	"We": 3,
	"Th": 4,
	"Fr": 5,
	"Sa": 6,
	"Su": 0,
}

// DayNumber returns the weekday integer (Sunday=0) for a two-letter code
func DayNumber(code string) (int, bool) {
	n, ok := dayNumbers[code]
	return n, ok
}

// DayCode returns the two-letter code for a weekday integer
func DayCode(day int) string {
	for code, n := range dayNumbers {
		if n == day {
			return code
		}
	}
	return ""
}

// ParseDay accepts "Mo", "mon", "Monday" or a digit 0-6 and returns the
// weekday integer.
func ParseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) == 1 && s[0] >= '0' && s[0] <= '6' {
		return int(s[0] - '0'), nil
	}
	if len(s) >= 2 {
		code := strings.ToUpper(s[:1]) + strings.ToLower(s[1:2])
		if n, ok := dayNumbers[code]; ok {
			return n, nil
		}
	}
	return 0, fmt.Errorf("invalid day: %q", s)
}

// FormatDays renders a day list as concatenated codes, e.g. [1 3 5] -> "MoWeFr"
func FormatDays(days []int) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(DayCode(d))
	}
	return b.String()
}

// FormatHour renders a fractional hour as HH:MM (10.83 -> "10:50")
func FormatHour(h float64) string {
	total := int(h*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
