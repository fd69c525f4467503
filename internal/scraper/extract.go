package scraper

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
	"github.com/pfrederiksen/ust-catalog/internal/logger"
	"github.com/pfrederiksen/ust-catalog/internal/storage"
)

// FileResult records the outcome for one page file
type FileResult struct {
	File    string `json:"file"`
	Courses int    `json:"courses"`
	Missing bool   `json:"missing,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ExtractReport summarises an extraction run
type ExtractReport struct {
	Files   []FileResult `json:"files"`
	Courses int          `json:"courses"`
	Written bool         `json:"written"`
	Output  string       `json:"output,omitempty"`
}

// Extractor turns stored subject pages into course records
type Extractor struct {
	pages *storage.PageStore
	log   *logger.Logger
}

// NewExtractor creates an Extractor reading from pages
func NewExtractor(pages *storage.PageStore, log *logger.Logger) *Extractor {
	return &Extractor{pages: pages, log: log}
}

// ExtractAll parses the given page files in order and concatenates their
// courses. Missing files are skipped; a file that cannot be read or parsed is
// logged and contributes no courses.
func (e *Extractor) ExtractAll(ctx context.Context, files []string) ([]*catalog.Course, *ExtractReport, error) {
	all := make([]*catalog.Course, 0)
	report := &ExtractReport{Files: make([]FileResult, 0, len(files))}
	start := time.Now()

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return all, report, err
		}

		courses, err := e.ExtractFile(name)
		switch {
		case os.IsNotExist(err):
			e.log.Debug("Page not present", logger.Fields{"file": name})
			report.Files = append(report.Files, FileResult{File: name, Missing: true})
			continue
		case err != nil:
			e.log.Error("Page extraction failed", logger.Fields{"file": name}, err)
			report.Files = append(report.Files, FileResult{File: name, Error: err.Error()})
			logger.IncrCounter("extract.files_failed")
			continue
		}

		e.log.Info("Page read", logger.Fields{"file": name, "courses": len(courses)})
		report.Files = append(report.Files, FileResult{File: name, Courses: len(courses)})
		logger.IncrCounter("extract.files_read")
		all = append(all, courses...)
	}

	report.Courses = len(all)
	logger.SetGauge("extract.courses", float64(len(all)))
	logger.RecordTiming("extract.total", time.Since(start))
	return all, report, nil
}

// ExtractFile parses one stored page. The returned error satisfies
// os.IsNotExist when the page is absent.
func (e *Extractor) ExtractFile(name string) ([]*catalog.Course, error) {
	f, err := e.pages.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	courses, err := ParsePage(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return courses, nil
}
