package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ust-catalog/internal/calendar"
	"github.com/pfrederiksen/ust-catalog/internal/catalog"
	"github.com/pfrederiksen/ust-catalog/internal/logger"
	"github.com/pfrederiksen/ust-catalog/internal/storage"
)

var (
	flagSubject    string
	flagKeyword    string
	flagDays       []string
	flagMinCredits int
	flagMaxCredits int
	flagMatching   bool
	flagSort       string
	flagLimit      int

	flagTermStart string
	flagWeeks     int
)

// addFilterFlags registers the course filter flags shared by search and export-csv
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagCatalog, "catalog", "", "Course database file to read (default: output_file from config)")
	cmd.Flags().StringVar(&flagSubject, "subject", "", "Subject code prefix, e.g. COMP")
	cmd.Flags().StringVar(&flagKeyword, "keyword", "", "Case-insensitive text in code or title")
	cmd.Flags().StringSliceVar(&flagDays, "days", nil, "Weekdays with at least one meeting, e.g. Mo,We")
	cmd.Flags().IntVar(&flagMinCredits, "min-credits", 0, "Minimum credits")
	cmd.Flags().IntVar(&flagMaxCredits, "max-credits", 0, "Maximum credits")
	cmd.Flags().BoolVar(&flagMatching, "matching", false, "Only courses requiring lecture/tutorial matching")
	cmd.Flags().StringVar(&flagSort, "sort", "none", "Sort order: code, title, credits or none")
}

// buildFilter turns the filter flags into a catalog.Filter
func buildFilter() (*catalog.Filter, error) {
	f := &catalog.Filter{
		Subject:      strings.TrimSpace(flagSubject),
		Keyword:      strings.TrimSpace(flagKeyword),
		MinCredits:   flagMinCredits,
		MaxCredits:   flagMaxCredits,
		MatchingOnly: flagMatching,
	}
	for _, d := range flagDays {
		n, err := catalog.ParseDay(d)
		if err != nil {
			return nil, err
		}
		f.Days = append(f.Days, n)
	}
	if f.MaxCredits > 0 && f.MinCredits > f.MaxCredits {
		return nil, fmt.Errorf("--min-credits %d is greater than --max-credits %d", f.MinCredits, f.MaxCredits)
	}
	return f, nil
}

// loadFiltered reads the course database and applies the filter flags
func loadFiltered() ([]*catalog.Course, *catalog.Filter, error) {
	filter, err := buildFilter()
	if err != nil {
		return nil, nil, err
	}
	order, err := catalog.ParseSortOrder(flagSort)
	if err != nil {
		return nil, nil, err
	}

	courses, err := storage.LoadCatalog(catalogPath())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("Course database loaded", logger.Fields{"catalog": catalogPath(), "courses": len(courses)})

	matched := filter.Apply(courses)
	catalog.SortCourses(matched, order)
	return matched, filter, nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the extracted course database",
		Long: `List courses from the course database written by extract, optionally
narrowed by subject, keyword, meeting days, credits and matching requirement.`,
		Args: cobra.NoArgs,
		RunE: runSearch,
	}
	addFilterFlags(cmd)
	cmd.Flags().IntVar(&flagLimit, "limit", 0, "Maximum number of courses to show (0 = all)")
	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := parseFormat(flagFormat)

	courses, filter, err := loadFiltered()
	if err != nil {
		return err
	}

	result := &SearchResult{
		Filter: filter.String(),
		Total:  len(courses),
	}
	if flagLimit > 0 && len(courses) > flagLimit {
		courses = courses[:flagLimit]
	}
	result.Courses = courses

	return WriteSearchResult(cmd.OutOrStdout(), result, format, flagVerbose)
}

func newExportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export meeting slots as CSV",
		Long:  `Write one CSV row per meeting slot of the (filtered) course database.`,
		Args:  cobra.NoArgs,
		RunE:  runExportCSV,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVar(&flagDest, "dest", "-", "Destination file, - for stdout")
	return cmd
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	courses, _, err := loadFiltered()
	if err != nil {
		return err
	}

	return withDest(cmd, flagDest, func(w io.Writer) error {
		return storage.ExportCSV(w, courses)
	})
}

func newICSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics <course code> <section>",
		Short: "Export a section's weekly meetings as an iCalendar file",
		Long: `Write every weekly meeting of one course section as a recurring event,
starting on the first matching weekday on or after --term-start.

Example:
  ust-catalog ics "COMP 1021" L1 --term-start 2025-09-01 --dest comp1021.ics`,
		Args: cobra.ExactArgs(2),
		RunE: runICS,
	}
	cmd.Flags().StringVar(&flagCatalog, "catalog", "", "Course database file to read (default: output_file from config)")
	cmd.Flags().StringVar(&flagTermStart, "term-start", "", "First day of classes, YYYY-MM-DD (required)")
	cmd.Flags().IntVar(&flagWeeks, "weeks", 13, "Number of teaching weeks")
	cmd.Flags().StringVar(&flagDest, "dest", "-", "Destination file, - for stdout")
	cmd.MarkFlagRequired("term-start")
	return cmd
}

func runICS(cmd *cobra.Command, args []string) error {
	code := normalizeCode(args[0])
	if !catalog.IsValidCode(code) {
		return fmt.Errorf("invalid course code: %s", args[0])
	}

	termStart, err := time.Parse("2006-01-02", flagTermStart)
	if err != nil {
		return fmt.Errorf("invalid --term-start %q: expected YYYY-MM-DD", flagTermStart)
	}

	courses, err := storage.LoadCatalog(catalogPath())
	if err != nil {
		return err
	}
	course := catalog.FindCourse(courses, code)
	if course == nil {
		return fmt.Errorf("course %s not found in %s", code, catalogPath())
	}
	section := course.FindSection(strings.ToUpper(strings.TrimSpace(args[1])))
	if section == nil {
		return fmt.Errorf("section %s not found for %s", args[1], code)
	}

	out, err := calendar.GenerateICS(course, section, calendar.Options{
		TermStart: termStart,
		Weeks:     flagWeeks,
	})
	if err != nil {
		return err
	}

	return withDest(cmd, flagDest, func(w io.Writer) error {
		_, err := io.WriteString(w, out)
		return err
	})
}

// normalizeCode accepts "comp1021" or "COMP 1021" and returns "COMP 1021"
func normalizeCode(s string) string {
	s = strings.ToUpper(strings.Join(strings.Fields(s), ""))
	if len(s) > 4 {
		s = s[:4] + " " + s[4:]
	}
	return s
}

// withDest runs write against stdout for "-" or a newly created file
func withDest(cmd *cobra.Command, dest string, write func(io.Writer) error) error {
	if dest == "" || dest == "-" {
		return write(cmd.OutOrStdout())
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", dest, err)
	}
	logger.Info("Export written", logger.Fields{"dest": dest})
	return nil
}
