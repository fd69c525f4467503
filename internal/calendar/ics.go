package calendar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

const productID = "-//ust-catalog//section calendar//EN"

// ErrNoMeetings is returned when a section has no slot with a weekday
var ErrNoMeetings = errors.New("section has no scheduled meetings")

// HongKong is the campus time zone. Hong Kong has no daylight saving time.
var HongKong = time.FixedZone("HKT", 8*60*60)

// Options controls the recurrence of exported meetings
type Options struct {
	// TermStart is the first day classes may meet
	TermStart time.Time
	// Weeks is the number of weekly occurrences of each meeting
	Weeks int
	// Location interprets slot hours; defaults to HongKong
	Location *time.Location
	// Now stamps the events; defaults to time.Now
	Now func() time.Time
}

// SectionCalendar builds a calendar with one weekly recurring event per
// meeting day of every slot of the section.
func SectionCalendar(course *catalog.Course, section *catalog.Section, opts Options) (*ics.Calendar, error) {
	if opts.Weeks <= 0 {
		return nil, fmt.Errorf("weeks must be positive, got %d", opts.Weeks)
	}
	loc := opts.Location
	if loc == nil {
		loc = HongKong
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	termStart := time.Date(opts.TermStart.Year(), opts.TermStart.Month(), opts.TermStart.Day(), 0, 0, 0, 0, loc)
	stamp := now().UTC()
	count := 0

	for i, slot := range section.Slots {
		for _, day := range slot.Days {
			date := firstWeekday(termStart, time.Weekday(day))

			evt := cal.AddEvent(eventUID(course.Code, section.ID, i, day))
			evt.SetDtStampTime(stamp)
			evt.SetStartAt(atHour(date, slot.Start))
			evt.SetEndAt(atHour(date, slot.End))
			evt.SetSummary(fmt.Sprintf("%s %s", course.Code, section.ID))
			evt.SetLocation(slot.Venue)
			evt.SetDescription(describe(course, slot))
			evt.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", opts.Weeks))
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("%s %s: %w", course.Code, section.ID, ErrNoMeetings)
	}
	return cal, nil
}

// GenerateICS serializes the section calendar to iCalendar text
func GenerateICS(course *catalog.Course, section *catalog.Section, opts Options) (string, error) {
	cal, err := SectionCalendar(course, section, opts)
	if err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// firstWeekday returns the first date on or after start falling on day
func firstWeekday(start time.Time, day time.Weekday) time.Time {
	offset := (int(day) - int(start.Weekday()) + 7) % 7
	return start.AddDate(0, 0, offset)
}

// atHour places a fractional hour such as 10.83 on date, rounded to the minute
func atHour(date time.Time, hour float64) time.Time {
	minutes := int(math.Round(hour * 60))
	return date.Add(time.Duration(minutes) * time.Minute)
}

func eventUID(code, section string, slot, day int) string {
	return fmt.Sprintf("%s-%s-%d-%d@ust-catalog", strings.ReplaceAll(code, " ", ""), section, slot, day)
}

func describe(course *catalog.Course, slot *catalog.Slot) string {
	desc := course.Title
	if slot.Instructor != "" {
		desc += "\nInstructor: " + slot.Instructor
	}
	desc += "\n" + slot.Time
	return desc
}
