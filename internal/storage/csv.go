package storage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

// SlotCSVRow is one meeting slot flattened with its course and section
type SlotCSVRow struct {
	Code             string `csv:"code"`
	Title            string `csv:"title"`
	Credits          int    `csv:"credits"`
	MatchingRequired bool   `csv:"matching_required"`
	Section          string `csv:"section"`
	Time             string `csv:"time"`
	Venue            string `csv:"venue"`
	Instructor       string `csv:"instructor"`
	Days             string `csv:"days"`
	Start            string `csv:"start"`
	End              string `csv:"end"`
}

// FlattenSlots turns the course tree into one row per slot, in catalog order
func FlattenSlots(courses []*catalog.Course) []*SlotCSVRow {
	rows := make([]*SlotCSVRow, 0)
	for _, c := range courses {
		for _, s := range c.Sections {
			for _, slot := range s.Slots {
				rows = append(rows, &SlotCSVRow{
					Code:             c.Code,
					Title:            c.Title,
					Credits:          c.Credits,
					MatchingRequired: c.MatchingRequired,
					Section:          s.ID,
					Time:             slot.Time,
					Venue:            slot.Venue,
					Instructor:       slot.Instructor,
					Days:             catalog.FormatDays(slot.Days),
					Start:            strconv.FormatFloat(slot.Start, 'f', 2, 64),
					End:              strconv.FormatFloat(slot.End, 'f', 2, 64),
				})
			}
		}
	}
	return rows
}

// ExportCSV writes the flattened slot table with a header row
func ExportCSV(w io.Writer, courses []*catalog.Course) error {
	rows := FlattenSlots(courses)
	if len(rows) == 0 {
		return ErrNoCourses
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}
	return nil
}
