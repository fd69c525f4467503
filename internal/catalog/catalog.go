package catalog

import (
	"regexp"
	"strings"
)

// CodePattern matches a course code such as "COMP 3021" or "LANG 1003S".
var CodePattern = regexp.MustCompile(`[A-Z]{4}\s\d{4}[A-Z]?`)

var fullCodePattern = regexp.MustCompile(`^` + CodePattern.String() + `$`)

// Course is one entry of the generated course database
type Course struct {
	Code             string     `json:"code"`
	Title            string     `json:"title"`
	Credits          int        `json:"credits"`
	MatchingRequired bool       `json:"matchingRequired"`
	Exclusions       []string   `json:"exclusions"`
	Sections         []*Section `json:"sections"`
}

// Section is one class group of a course (e.g. "L1", "T2A")
type Section struct {
	ID    string  `json:"id"`
	Slots []*Slot `json:"slots"`
}

// Slot is one recurring weekly meeting of a section
type Slot struct {
	Time       string  `json:"time"` // Raw time text as shown in the catalog
	Venue      string  `json:"venue"`
	Instructor string  `json:"instructor"`
	Days       []int   `json:"days"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
}

// NewCourse creates a Course with non-nil exclusion and section lists so the
// serialized form always carries arrays.
func NewCourse(code, title string, credits int) *Course {
	return &Course{
		Code:       code,
		Title:      title,
		Credits:    credits,
		Exclusions: []string{},
		Sections:   []*Section{},
	}
}

// IsValidCode reports whether code is exactly one course code
func IsValidCode(code string) bool {
	return fullCodePattern.MatchString(code)
}

// Subject returns the subject part of a course code ("COMP 3021" -> "COMP")
func Subject(code string) string {
	code = strings.TrimSpace(code)
	if i := strings.IndexFunc(code, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return code[:i]
	}
	return code
}

// FindSection returns the section with the given id, or nil
func (c *Course) FindSection(id string) *Section {
	for _, s := range c.Sections {
		if strings.EqualFold(s.ID, id) {
			return s
		}
	}
	return nil
}

// HasDay reports whether any slot of the course meets on the given weekday
func (c *Course) HasDay(day int) bool {
	for _, s := range c.Sections {
		for _, slot := range s.Slots {
			for _, d := range slot.Days {
				if d == day {
					return true
				}
			}
		}
	}
	return false
}

// SlotCount returns the total number of slots across all sections
func (c *Course) SlotCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Slots)
	}
	return n
}

// FindCourse returns the course with the given code, ignoring case and
// surrounding whitespace, or nil.
func FindCourse(courses []*Course, code string) *Course {
	code = strings.Join(strings.Fields(code), " ")
	for _, c := range courses {
		if strings.EqualFold(c.Code, code) {
			return c
		}
	}
	return nil
}
