package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
	"github.com/pfrederiksen/ust-catalog/internal/logger"
	"github.com/pfrederiksen/ust-catalog/internal/scraper"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// FetchResult contains the summary of a fetch run
type FetchResult struct {
	Term     string               `json:"term"`
	Dir      string               `json:"dir"`
	Duration string               `json:"duration"`
	Report   *scraper.FetchReport `json:"report"`
	Metrics  *logger.Snapshot     `json:"metrics,omitempty"`
}

// ExtractResult contains the summary of an extract run
type ExtractResult struct {
	Report  *scraper.ExtractReport `json:"report"`
	Metrics *logger.Snapshot       `json:"metrics,omitempty"`
}

// SearchResult contains the courses matched by a search
type SearchResult struct {
	Filter  string            `json:"filter"`
	Total   int               `json:"total"`
	Courses []*catalog.Course `json:"courses"`
}

// WriteFetchResult writes the fetch summary in the specified format
func WriteFetchResult(w io.Writer, result *FetchResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		r := result.Report
		fmt.Fprintf(w, "Term %s -> %s\n", result.Term, result.Dir)
		fmt.Fprintf(w, "  Downloaded: %d\n", len(r.Downloaded))
		fmt.Fprintf(w, "  Skipped:    %d (already present)\n", len(r.Skipped))
		fmt.Fprintf(w, "  Not found:  %d\n", len(r.NotFound))
		fmt.Fprintf(w, "  Failed:     %d\n", len(r.Failed))
		if len(r.NotFound) > 0 {
			fmt.Fprintf(w, "\nNot found: %s\n", strings.Join(r.NotFound, ", "))
		}
		if len(r.Failed) > 0 {
			fmt.Fprintf(w, "\nFailed: %s\n", strings.Join(r.Failed, ", "))
		}
		if verbose {
			fmt.Fprintf(w, "\nRequests: %d in %s\n", r.Requests(), result.Duration)
			writeMetrics(w, result.Metrics)
		}
		fmt.Fprintln(w, "\nAll downloads finished.")
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteExtractResult writes the extract summary in the specified format
func WriteExtractResult(w io.Writer, result *ExtractResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		r := result.Report
		if verbose {
			for _, f := range r.Files {
				switch {
				case f.Missing:
					fmt.Fprintf(w, "  %s: missing\n", f.File)
				case f.Error != "":
					fmt.Fprintf(w, "  %s: error: %s\n", f.File, f.Error)
				default:
					fmt.Fprintf(w, "  %s: %d courses\n", f.File, f.Courses)
				}
			}
		}
		if !r.Written {
			fmt.Fprintln(w, "No data found")
		} else {
			fmt.Fprintf(w, "Wrote %d courses to %s\n", r.Courses, r.Output)
		}
		if verbose {
			writeMetrics(w, result.Metrics)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteSearchResult writes matched courses in the specified format
func WriteSearchResult(w io.Writer, result *SearchResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		if result.Total == 0 {
			fmt.Fprintln(w, "No courses found.")
			return nil
		}
		for _, c := range result.Courses {
			marker := ""
			if c.MatchingRequired {
				marker = " [matching]"
			}
			fmt.Fprintf(w, "%s  %s (%d units)%s\n", c.Code, c.Title, c.Credits, marker)
			if verbose {
				writeSections(w, c)
			}
		}
		if len(result.Courses) < result.Total {
			fmt.Fprintf(w, "\nShowing %d of %d courses (%s)\n", len(result.Courses), result.Total, result.Filter)
		} else {
			fmt.Fprintf(w, "\nTotal: %d courses (%s)\n", result.Total, result.Filter)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeSections(w io.Writer, c *catalog.Course) {
	if len(c.Exclusions) > 0 {
		fmt.Fprintf(w, "       Exclusions: %s\n", strings.Join(c.Exclusions, ", "))
	}
	for _, s := range c.Sections {
		for i, slot := range s.Slots {
			id := ""
			if i == 0 {
				id = s.ID
			}
			fmt.Fprintf(w, "       %-5s %-8s %s-%s  %s  %s\n", id,
				catalog.FormatDays(slot.Days),
				catalog.FormatHour(slot.Start), catalog.FormatHour(slot.End),
				slot.Venue, slot.Instructor)
		}
	}
}

func writeMetrics(w io.Writer, snap *logger.Snapshot) {
	if snap == nil {
		return
	}
	names := make([]string, 0, len(snap.Counters))
	for name := range snap.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %d\n", name, snap.Counters[name])
	}

	names = names[:0]
	for name := range snap.Timings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := snap.Timings[name]
		fmt.Fprintf(w, "  %s: %d in %s (avg %s)\n", name, t.Count, t.Total, t.Average)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
