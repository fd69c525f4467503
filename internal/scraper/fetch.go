package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/ust-catalog/internal/logger"
	"github.com/pfrederiksen/ust-catalog/internal/storage"
)

// DefaultTimeout applies when FetcherOptions.Timeout is not set
const DefaultTimeout = 20 * time.Second

// ErrNotFound is returned for subjects the server answers with 404
var ErrNotFound = errors.New("subject not found")

// ErrUnexpectedStatus is wrapped by StatusError
var ErrUnexpectedStatus = errors.New("unexpected status code")

// StatusError reports a response status other than 200 or 404
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }

// FetcherOptions configures a Fetcher
type FetcherOptions struct {
	// PageURL returns the address of a subject page
	PageURL   func(subject string) string
	UserAgent string
	Referer   string
	Timeout   time.Duration
	// Delay is the fixed pause after every request
	Delay time.Duration
}

// Fetcher downloads subject pages into a page store, one request at a time
type Fetcher struct {
	client *http.Client
	opts   FetcherOptions
	pages  *storage.PageStore
	log    *logger.Logger

	// sleep is replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// FetchReport lists what happened to each subject
type FetchReport struct {
	Downloaded []string `json:"downloaded"`
	Skipped    []string `json:"skipped"`
	NotFound   []string `json:"not_found"`
	Failed     []string `json:"failed"`
}

// Requests returns the number of network requests made
func (r *FetchReport) Requests() int {
	return len(r.Downloaded) + len(r.NotFound) + len(r.Failed)
}

// NewFetcher creates a Fetcher writing into pages
func NewFetcher(opts FetcherOptions, pages *storage.PageStore, log *logger.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Delay < 0 {
		opts.Delay = 0
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = legacyTLSConfig()

	return &Fetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:  opts,
		pages: pages,
		log:   log,
		sleep: sleepContext,
	}
}

// legacyTLSConfig accepts TLS 1.0+ and the insecure cipher suites the
// registration server still negotiates; without them it aborts the handshake.
func legacyTLSConfig() *tls.Config {
	suites := make([]uint16, 0)
	for _, cs := range tls.CipherSuites() {
		suites = append(suites, cs.ID)
	}
	for _, cs := range tls.InsecureCipherSuites() {
		suites = append(suites, cs.ID)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS10,
		CipherSuites: suites,
	}
}

// FetchAll downloads every subject whose page is not stored yet.
// Per-subject failures are logged and recorded in the report; only failing to
// create the page directory or context cancellation stop the loop.
func (f *Fetcher) FetchAll(ctx context.Context, subjects []string) (*FetchReport, error) {
	if err := f.pages.Init(); err != nil {
		return nil, err
	}

	report := &FetchReport{
		Downloaded: []string{},
		Skipped:    []string{},
		NotFound:   []string{},
		Failed:     []string{},
	}

	f.log.Info("Starting download", logger.Fields{"subjects": len(subjects), "dir": f.pages.Dir()})

	for _, subject := range subjects {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := storage.PageName(subject)
		if f.pages.Exists(name) {
			f.log.Info("Page already exists", logger.Fields{"subject": subject})
			report.Skipped = append(report.Skipped, subject)
			logger.IncrCounter("fetch.skipped")
			continue
		}

		start := time.Now()
		body, err := f.FetchSubject(ctx, subject)
		logger.RecordTiming("fetch.request", time.Since(start))

		switch {
		case err == nil:
			if err := f.pages.Save(name, body); err != nil {
				f.log.Error("Saving page failed", logger.Fields{"subject": subject}, err)
				report.Failed = append(report.Failed, subject)
				logger.IncrCounter("fetch.failed")
				break
			}
			f.log.Info("Page downloaded", logger.Fields{"subject": subject, "bytes": len(body)})
			report.Downloaded = append(report.Downloaded, subject)
			logger.IncrCounter("fetch.downloaded")
		case errors.Is(err, ErrNotFound):
			f.log.Warn("Subject not found", logger.Fields{"subject": subject})
			report.NotFound = append(report.NotFound, subject)
			logger.IncrCounter("fetch.not_found")
		default:
			f.log.Error("Page fetch failed", logger.Fields{"subject": subject}, err)
			report.Failed = append(report.Failed, subject)
			logger.IncrCounter("fetch.failed")
		}

		if err := f.sleep(ctx, f.opts.Delay); err != nil {
			return report, err
		}
	}

	f.log.Info("All downloads finished", logger.Fields{
		"downloaded": len(report.Downloaded),
		"skipped":    len(report.Skipped),
		"not_found":  len(report.NotFound),
		"failed":     len(report.Failed),
	})
	return report, nil
}

// FetchSubject performs one GET for a subject page and returns the body
func (f *Fetcher) FetchSubject(ctx context.Context, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.opts.PageURL(subject), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	if f.opts.Referer != "" {
		req.Header.Set("Referer", f.opts.Referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
