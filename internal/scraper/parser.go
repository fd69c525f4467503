package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

var (
	// Example: "COMP 3021 - Java Programming (3 units)"
	courseTitlePattern = regexp.MustCompile(`([A-Z]{4}\s\d{4}[A-Z]?)\s-\s(.*?)\s\((\d+)\sunit`)

	matchingPattern = regexp.MustCompile(`Matching between Lecture & (Tutorial|Lab) required`)
)

// CourseBlock is a located course container with its parsed title line
type CourseBlock struct {
	Code    string
	Title   string
	Credits int

	sel *goquery.Selection
}

// ParsePage extracts every course with at least one timetabled section from
// one subject page.
func ParsePage(r io.Reader) ([]*catalog.Course, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	order := documentOrder(doc)
	tables := doc.Find("table.sections")

	courses := make([]*catalog.Course, 0)
	for _, block := range LocateCourses(doc) {
		idx := nextSectionsTable(block.sel.Get(0), tables.Nodes, order)
		if idx < 0 {
			continue
		}

		sections := GroupSections(tableRows(tables.Eq(idx)))
		if len(sections) == 0 {
			continue
		}

		course := catalog.NewCourse(block.Code, block.Title, block.Credits)
		course.MatchingRequired = HasMatchingRequirement(block.sel.Text())
		course.Exclusions = ExtractExclusions(block.sel)
		course.Sections = sections
		courses = append(courses, course)
	}

	return courses, nil
}

// LocateCourses returns every div.course whose text carries a valid title line
func LocateCourses(doc *goquery.Document) []*CourseBlock {
	blocks := make([]*CourseBlock, 0)
	doc.Find("div.course").Each(func(i int, sel *goquery.Selection) {
		block, ok := parseCourseHeading(flattenText(sel, " "))
		if !ok {
			return
		}
		block.sel = sel
		blocks = append(blocks, block)
	})
	return blocks
}

func parseCourseHeading(text string) (*CourseBlock, bool) {
	m := courseTitlePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	credits, err := strconv.Atoi(m[3])
	if err != nil {
		return nil, false
	}
	return &CourseBlock{Code: m[1], Title: m[2], Credits: credits}, true
}

// ExtractExclusions reads the course codes listed in the EXCLUSION row(s) of
// the block's attribute table. Order is kept and duplicates are not removed.
func ExtractExclusions(block *goquery.Selection) []string {
	exclusions := []string{}

	table := block.Find("div.courseattr").First().Find("table").First()
	if table.Length() == 0 {
		return exclusions
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		th := row.Find("th").First()
		if th.Length() == 0 || !strings.Contains(strings.ToUpper(th.Text()), "EXCLUSION") {
			return
		}
		td := row.Find("td").First()
		exclusions = append(exclusions, catalog.CodePattern.FindAllString(td.Text(), -1)...)
	})

	return exclusions
}

// HasMatchingRequirement reports whether the course text states that lecture
// and tutorial (or lab) sections must match.
func HasMatchingRequirement(text string) bool {
	return matchingPattern.MatchString(text)
}

// tableRows returns the stripped cell texts of every row in a table
func tableRows(table *goquery.Selection) [][]string {
	rows := make([][]string, 0)
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := make([]string, 0, minSectionCells)
		row.Find("td").Each(func(j int, td *goquery.Selection) {
			cells = append(cells, flattenText(td, ""))
		})
		rows = append(rows, cells)
	})
	return rows
}

// nextSectionsTable returns the index of the first sections table that starts
// after the course block's start tag in document order, or -1.
func nextSectionsTable(block *html.Node, tables []*html.Node, order map[*html.Node]int) int {
	pos := order[block]
	for i, t := range tables {
		if order[t] > pos {
			return i
		}
	}
	return -1
}

// documentOrder numbers every node of the document in pre-order
func documentOrder(doc *goquery.Document) map[*html.Node]int {
	order := make(map[*html.Node]int)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = len(order)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return order
}

// flattenText joins the trimmed, non-empty text nodes below sel with sep.
// Script and style contents are ignored.
func flattenText(sel *goquery.Selection, sep string) string {
	parts := make([]string, 0)
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, sep)
}
