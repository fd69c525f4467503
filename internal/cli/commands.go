package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ust-catalog/internal/logger"
	"github.com/pfrederiksen/ust-catalog/internal/scraper"
	"github.com/pfrederiksen/ust-catalog/internal/storage"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download one schedule page per subject",
		Long: `Download the class schedule page of every configured subject into the
HTML directory. Pages that are already present are skipped without a request,
so an interrupted run can simply be started again.`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}

	cmd.Flags().StringVar(&flagHTMLDir, "html-dir", "", "Directory for downloaded pages (overrides config)")
	cmd.Flags().StringVar(&flagSubjects, "subjects", "", "Comma-separated subject codes (overrides config)")
	cmd.Flags().StringVar(&flagTerm, "term", "", "Term code such as 2530 (overrides config)")
	cmd.Flags().StringVar(&flagDelay, "delay", "", "Pause after each request, e.g. 1s (overrides config)")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	format, _ := parseFormat(flagFormat)

	if cmd.Flags().Changed("delay") {
		d, err := time.ParseDuration(flagDelay)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid delay: %s", flagDelay)
		}
		cfg.RequestDelay = d
	}

	pages, err := storage.NewPageStore(cfg.HTMLDir)
	if err != nil {
		return fmt.Errorf("initializing page store: %w", err)
	}

	fetcher := scraper.NewFetcher(scraper.FetcherOptions{
		PageURL:   cfg.PageURL,
		UserAgent: cfg.UserAgent,
		Referer:   cfg.Referer,
		Timeout:   cfg.RequestTimeout,
		Delay:     cfg.RequestDelay,
	}, pages, logger.Default())

	start := time.Now()
	report, err := fetcher.FetchAll(cmd.Context(), cfg.Subjects)
	if report == nil {
		return fmt.Errorf("fetching pages: %w", err)
	}

	result := &FetchResult{
		Term:     cfg.Term,
		Dir:      pages.Dir(),
		Report:   report,
		Duration: time.Since(start).Round(time.Millisecond).String(),
	}
	if flagVerbose {
		snap := logger.GetMetricsSnapshot()
		result.Metrics = &snap
	}
	if werr := WriteFetchResult(cmd.OutOrStdout(), result, format, flagVerbose); werr != nil {
		return fmt.Errorf("writing output: %w", werr)
	}

	if err != nil {
		return fmt.Errorf("fetching pages: %w", err)
	}
	return nil
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build the course database from downloaded pages",
		Long: `Parse every downloaded subject page, in subject order, and write all
courses with at least one timetabled section to the output file as a
JavaScript constant. Nothing is written when no course is found.`,
		Args: cobra.NoArgs,
		RunE: runExtract,
	}

	cmd.Flags().StringVar(&flagHTMLDir, "html-dir", "", "Directory with downloaded pages (overrides config)")
	cmd.Flags().StringVar(&flagOutput, "output", "", "Course database file to write (overrides config)")
	cmd.Flags().StringVar(&flagSubjects, "subjects", "", "Comma-separated subject codes (overrides config)")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	format, _ := parseFormat(flagFormat)

	pages, err := storage.NewPageStore(cfg.HTMLDir)
	if err != nil {
		return fmt.Errorf("initializing page store: %w", err)
	}

	extractor := scraper.NewExtractor(pages, logger.Default())
	courses, report, err := extractor.ExtractAll(cmd.Context(), cfg.PageFiles())
	if err != nil {
		return fmt.Errorf("extracting courses: %w", err)
	}

	err = storage.WriteCatalog(cfg.OutputFile, cfg.ConstantName, courses)
	switch {
	case errors.Is(err, storage.ErrNoCourses):
		logger.Warn("No data found", logger.Fields{"dir": pages.Dir()})
	case err != nil:
		return fmt.Errorf("writing course database: %w", err)
	default:
		report.Written = true
		report.Output = cfg.OutputFile
		logger.Info("Course database written", logger.Fields{
			"output":  cfg.OutputFile,
			"courses": report.Courses,
		})
	}

	result := &ExtractResult{Report: report}
	if flagVerbose {
		snap := logger.GetMetricsSnapshot()
		result.Metrics = &snap
	}
	if err := WriteExtractResult(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
