package scraper

import (
	"strings"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

// minSectionCells is the number of cells a timetable row needs:
// section, date/time, room, instructor.
const minSectionCells = 4

// sectionFold is the accumulator carried across the rows of a sections table.
// The catalog prints the section id only on the first row of a section;
// following rows of the same section have an empty first cell.
type sectionFold struct {
	current string
	order   []string
	slots   map[string][]*catalog.Slot
}

func newSectionFold() *sectionFold {
	return &sectionFold{slots: make(map[string][]*catalog.Slot)}
}

// step applies one row of cell texts to the fold
func (f *sectionFold) step(cells []string) {
	if len(cells) < minSectionCells {
		return
	}

	first := cells[0]
	if strings.Contains(first, "Section") {
		return // header row
	}

	if first != "" {
		f.current = sectionID(first)
	}
	if f.current == "" {
		return // continuation row with no section declared yet
	}

	tr, ok := ParseTimeString(cells[1])
	if !ok {
		return
	}

	if _, exists := f.slots[f.current]; !exists {
		f.order = append(f.order, f.current)
	}
	f.slots[f.current] = append(f.slots[f.current], &catalog.Slot{
		Time:       cells[1],
		Venue:      cells[2],
		Instructor: cells[3],
		Days:       tr.Days,
		Start:      tr.Start,
		End:        tr.End,
	})
}

// sections returns the sections that collected at least one slot, in the
// order they were first seen.
func (f *sectionFold) sections() []*catalog.Section {
	out := make([]*catalog.Section, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, &catalog.Section{ID: id, Slots: f.slots[id]})
	}
	return out
}

// GroupSections folds timetable rows (cell texts per row) into sections
func GroupSections(rows [][]string) []*catalog.Section {
	f := newSectionFold()
	for _, cells := range rows {
		f.step(cells)
	}
	return f.sections()
}

// sectionID strips a trailing annotation: "L1 (1234)" -> "L1"
func sectionID(cell string) string {
	if i := strings.Index(cell, "("); i >= 0 {
		cell = cell[:i]
	}
	return strings.TrimSpace(cell)
}
