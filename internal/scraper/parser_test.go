package scraper

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

func loadFixture(t *testing.T, name string) []*catalog.Course {
	t.Helper()
	f, err := os.Open("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	defer f.Close()

	courses, err := ParsePage(f)
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	return courses
}

func parseString(t *testing.T, page string) []*catalog.Course {
	t.Helper()
	courses, err := ParsePage(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	return courses
}

func TestParsePage_Fixture(t *testing.T) {
	courses := loadFixture(t, "COMP.html")

	// COMP 2011 has only TBA rows and the last block has no credits line
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}

	intro := courses[0]
	if intro.Code != "COMP 1021" {
		t.Errorf("expected code COMP 1021, got %q", intro.Code)
	}
	if intro.Title != "Introduction to Computer Science" {
		t.Errorf("unexpected title %q", intro.Title)
	}
	if intro.Credits != 3 {
		t.Errorf("expected 3 credits, got %d", intro.Credits)
	}
	if intro.MatchingRequired {
		t.Error("COMP 1021 should not require matching")
	}
	if want := []string{"COMP 1022P", "COMP 1022Q", "ISOM 3230"}; !reflect.DeepEqual(intro.Exclusions, want) {
		t.Errorf("exclusions = %v, expected %v", intro.Exclusions, want)
	}

	if len(intro.Sections) != 2 {
		t.Fatalf("expected sections L1 and T1, got %d sections", len(intro.Sections))
	}
	l1 := intro.Sections[0]
	if l1.ID != "L1" || len(l1.Slots) != 2 {
		t.Fatalf("expected L1 with 2 slots, got %q with %d", l1.ID, len(l1.Slots))
	}

	first := l1.Slots[0]
	expected := &catalog.Slot{
		Time:       "MoWe 09:00AM - 10:20AM",
		Venue:      "Rm 2465, Lift 25-26 (60)",
		Instructor: "CHAN, Tai ManLEE, Siu Ming",
		Days:       []int{1, 3},
		Start:      9,
		End:        10.33,
	}
	if !reflect.DeepEqual(first, expected) {
		t.Errorf("first slot = %+v, expected %+v", first, expected)
	}

	second := l1.Slots[1]
	if !reflect.DeepEqual(second.Days, []int{5}) || second.Start != 13.5 || second.End != 14.33 {
		t.Errorf("unexpected continuation slot %+v", second)
	}

	if intro.Sections[1].ID != "T1" {
		t.Errorf("expected second section T1, got %q", intro.Sections[1].ID)
	}

	topics := courses[1]
	if topics.Code != "COMP 4901X" {
		t.Errorf("expected code COMP 4901X, got %q", topics.Code)
	}
	if topics.Title != "Special Topics (Deep Learning)" {
		t.Errorf("unexpected title %q", topics.Title)
	}
	if !topics.MatchingRequired {
		t.Error("COMP 4901X should require matching")
	}
	if want := []string{"COMP 4211", "COMP 5212", "COMP 4211"}; !reflect.DeepEqual(topics.Exclusions, want) {
		t.Errorf("exclusions = %v, expected %v", topics.Exclusions, want)
	}
	tut := topics.FindSection("T1")
	if tut == nil {
		t.Fatal("expected section T1")
	}
	if s := tut.Slots[0]; !reflect.DeepEqual(s.Days, []int{6}) || s.Start != 0 || s.End != 0.83 {
		t.Errorf("unexpected midnight slot %+v", s)
	}
}

func TestParsePage_NoSectionsTable(t *testing.T) {
	page := `<html><body>
<div class="course"><h2>MATH 1012 - Calculus IA (4 units)</h2></div>
</body></html>`

	if courses := parseString(t, page); len(courses) != 0 {
		t.Errorf("expected no courses without a sections table, got %d", len(courses))
	}
}

func TestParsePage_SectionsTableAfterBlock(t *testing.T) {
	// The timetable may follow the course container instead of being nested.
	page := `<html><body>
<div class="course"><h2>MATH 1012 - Calculus IA (4 units)</h2></div>
<table class="sections">
<tr><td>L1 (1)</td><td>MoWe 03:00PM - 04:20PM</td><td>LTA</td><td>YU</td></tr>
</table>
<div class="course"><h2>MATH 1013 - Calculus IB (3 units)</h2></div>
<table class="sections">
<tr><td>L2 (2)</td><td>TuTh 09:00AM - 10:20AM</td><td>LTC</td><td>LI</td></tr>
</table>
</body></html>`

	courses := parseString(t, page)
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}
	if courses[0].Sections[0].ID != "L1" || courses[1].Sections[0].ID != "L2" {
		t.Errorf("courses attached to wrong tables: %q, %q", courses[0].Sections[0].ID, courses[1].Sections[0].ID)
	}
}

func TestParsePage_EmptyLists(t *testing.T) {
	page := `<div class="course"><h2>LANG 1002 - English (0 units)</h2>
<table class="sections"><tr><td>L1</td><td>Mo 09:00AM - 09:50AM</td><td>Rm 1</td><td>TBA</td></tr></table>
</div>`

	courses := parseString(t, page)
	if len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d", len(courses))
	}
	c := courses[0]
	if c.Credits != 0 {
		t.Errorf("expected 0 credits, got %d", c.Credits)
	}
	if c.Exclusions == nil || len(c.Exclusions) != 0 {
		t.Errorf("expected empty non-nil exclusions, got %#v", c.Exclusions)
	}
}

func TestParseCourseHeading(t *testing.T) {
	tests := []struct {
		text    string
		ok      bool
		code    string
		title   string
		credits int
	}{
		{"COMP 1021 - Introduction to Computer Science (3 units)", true, "COMP 1021", "Introduction to Computer Science", 3},
		{"ELEC 1100 - Introduction to Electro-Robot Design (4 units) extra", true, "ELEC 1100", "Introduction to Electro-Robot Design", 4},
		{"HUMA 1000A - Cultures (Part 1) (1 unit)", true, "HUMA 1000A", "Cultures (Part 1)", 1},
		{"LIFS 4950 - Research (2 units) (3 units)", true, "LIFS 4950", "Research", 2},
		{"comp 1021 - lower case (3 units)", false, "", "", 0},
		{"COMP 1021 Introduction (3 units)", false, "", "", 0},
		{"COMP 1021 - No credits", false, "", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			block, ok := parseCourseHeading(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, expected %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if block.Code != tt.code || block.Title != tt.title || block.Credits != tt.credits {
				t.Errorf("got %q/%q/%d, expected %q/%q/%d",
					block.Code, block.Title, block.Credits, tt.code, tt.title, tt.credits)
			}
		})
	}
}

func TestExtractExclusions(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "no attribute container",
			html:     `<div class="course"></div>`,
			expected: []string{},
		},
		{
			name:     "container without table",
			html:     `<div class="course"><div class="courseattr">none</div></div>`,
			expected: []string{},
		},
		{
			name:     "row without value cell",
			html:     `<div class="course"><div class="courseattr"><table><tr><th>EXCLUSION</th></tr></table></div></div>`,
			expected: []string{},
		},
		{
			name:     "case insensitive header",
			html:     `<div class="course"><div class="courseattr"><table><tr><th>exclusion</th><td>PHYS 1112 or PHYS 1312</td></tr></table></div></div>`,
			expected: []string{"PHYS 1112", "PHYS 1312"},
		},
		{
			name: "only the first attribute table is read",
			html: `<div class="course"><div class="courseattr"><table><tr><th>CO-REQUISITE</th><td>MATH 1013</td></tr></table>
<table><tr><th>EXCLUSION</th><td>MATH 1020</td></tr></table></div></div>`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("failed to parse: %v", err)
			}
			got := ExtractExclusions(doc.Find("div.course").First())
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractExclusions = %#v, expected %#v", got, tt.expected)
			}
		})
	}
}

func TestHasMatchingRequirement(t *testing.T) {
	tests := map[string]bool{
		"[Matching between Lecture & Tutorial required]": true,
		"Matching between Lecture & Lab required":        true,
		"Matching between Lecture & Seminar required":    false,
		"matching between lecture & tutorial required":   false,
		"": false,
	}
	for text, want := range tests {
		if got := HasMatchingRequirement(text); got != want {
			t.Errorf("HasMatchingRequirement(%q) = %v, expected %v", text, got, want)
		}
	}
}

func TestFlattenText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="x">  A <b> B </b><!-- hidden --><script>var y;</script><br> C </div>`))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	sel := doc.Find("#x")
	if got := flattenText(sel, " "); got != "A B C" {
		t.Errorf("flattenText with space = %q", got)
	}
	if got := flattenText(sel, ""); got != "ABC" {
		t.Errorf("flattenText without separator = %q", got)
	}
}
