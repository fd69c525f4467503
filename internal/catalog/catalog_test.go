package catalog

import (
	"encoding/json"
	"strings"
	"testing"
)

func sampleCourses() []*Course {
	comp := NewCourse("COMP 3021", "Java Programming", 3)
	comp.MatchingRequired = true
	comp.Sections = []*Section{
		{ID: "L1", Slots: []*Slot{{Time: "MoWe10:30AM - 11:50AM", Days: []int{1, 3}, Start: 10.5, End: 11.83}}},
		{ID: "T1", Slots: []*Slot{{Time: "Fr06:00PM - 06:50PM", Days: []int{5}, Start: 18, End: 18.83}}},
	}

	lang := NewCourse("LANG 1003S", "English for Science", 0)
	lang.Sections = []*Section{
		{ID: "L01", Slots: []*Slot{{Time: "Sa09:00AM - 11:50AM", Days: []int{6}, Start: 9, End: 11.83}}},
	}

	math := NewCourse("MATH 1013", "Calculus IB", 3)
	math.Sections = []*Section{
		{ID: "L1", Slots: []*Slot{{Time: "TuTh09:00AM - 10:20AM", Days: []int{2, 4}, Start: 9, End: 10.33}}},
	}
	return []*Course{comp, lang, math}
}

func TestIsValidCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"COMP 3021", true},
		{"LANG 1003S", true},
		{"comp 3021", false},
		{"COMP3021", false},
		{"COMP 302", false},
		{"COMP 3021 ", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := IsValidCode(tt.code); got != tt.want {
				t.Errorf("IsValidCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestSubject(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"COMP 3021", "COMP"},
		{"  MATH 1013 ", "MATH"},
		{"ACCT", "ACCT"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Subject(tt.code); got != tt.want {
			t.Errorf("Subject(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestNewCourse_SerializesEmptyLists(t *testing.T) {
	data, err := json.Marshal(NewCourse("COMP 1021", "Intro", 3))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	if !strings.Contains(s, `"exclusions":[]`) {
		t.Errorf("exclusions should serialize as [], got %s", s)
	}
	if !strings.Contains(s, `"sections":[]`) {
		t.Errorf("sections should serialize as [], got %s", s)
	}
	if strings.Contains(s, "null") {
		t.Errorf("serialized course contains null: %s", s)
	}
}

func TestCourse_FieldOrder(t *testing.T) {
	c := sampleCourses()[0]
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	keys := []string{`"code"`, `"title"`, `"credits"`, `"matchingRequired"`, `"exclusions"`, `"sections"`,
		`"id"`, `"slots"`, `"time"`, `"venue"`, `"instructor"`, `"days"`, `"start"`, `"end"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(s, k)
		if idx < 0 {
			t.Fatalf("key %s missing in %s", k, s)
		}
		if idx < last {
			t.Errorf("key %s out of order in %s", k, s)
		}
		last = idx
	}
}

func TestFindSectionAndCourse(t *testing.T) {
	courses := sampleCourses()

	c := FindCourse(courses, "comp   3021")
	if c == nil {
		t.Fatal("FindCourse() returned nil")
	}
	if c.Code != "COMP 3021" {
		t.Errorf("FindCourse() code = %q", c.Code)
	}
	if FindCourse(courses, "COMP 9999") != nil {
		t.Error("FindCourse() should return nil for unknown code")
	}

	if s := c.FindSection("t1"); s == nil || s.ID != "T1" {
		t.Errorf("FindSection(t1) = %+v", s)
	}
	if c.FindSection("LA1") != nil {
		t.Error("FindSection(LA1) should be nil")
	}
}

func TestHasDayAndSlotCount(t *testing.T) {
	c := sampleCourses()[0]

	if !c.HasDay(5) {
		t.Error("HasDay(5) = false, want true")
	}
	if c.HasDay(0) {
		t.Error("HasDay(0) = true, want false")
	}
	if got := c.SlotCount(); got != 2 {
		t.Errorf("SlotCount() = %d, want 2", got)
	}
}
