package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// PageStore holds one fetched HTML page per subject
type PageStore struct {
	dir string
}

// NewPageStore opens the page directory without creating it. Use Init before
// writing pages.
func NewPageStore(dir string) (*PageStore, error) {
	dir, err := expandHome(dir)
	if err != nil {
		return nil, err
	}
	return &PageStore{dir: dir}, nil
}

// Init creates the page directory if it doesn't exist
func (p *PageStore) Init() error {
	if err := os.MkdirAll(p.dir, 0755); err != nil {
		return fmt.Errorf("creating page directory: %w", err)
	}
	return nil
}

// Dir returns the page directory
func (p *PageStore) Dir() string {
	return p.dir
}

// PageName returns the file name used for a subject page
func PageName(subject string) string {
	return subject + ".html"
}

// Path returns the full path of a page file
func (p *PageStore) Path(name string) string {
	return filepath.Join(p.dir, name)
}

// Exists reports whether a page file is present
func (p *PageStore) Exists(name string) bool {
	_, err := os.Stat(p.Path(name))
	return err == nil
}

// Save stores a page atomically, replacing any previous content
func (p *PageStore) Save(name string, data []byte) error {
	if err := writeFileAtomic(p.Path(name), data, 0644); err != nil {
		return fmt.Errorf("saving page %s: %w", name, err)
	}
	return nil
}

// Open opens a stored page for reading. The error satisfies os.IsNotExist
// when the page was never fetched.
func (p *PageStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(p.Path(name))
}
