package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/pfrederiksen/ust-catalog/internal/catalog"
)

// DefaultConstantName is the identifier the scheduling page reads
const DefaultConstantName = "courseData"

// ErrNoCourses is returned when asked to write an empty course database
var ErrNoCourses = errors.New("no courses to write")

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
	artifactPattern   = regexp.MustCompile(`(?s)^\s*const\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(.*?);?\s*$`)
)

// EncodeCatalog writes "const <name> = [...];" with the JSON array indented by
// four spaces.
func EncodeCatalog(w io.Writer, name string, courses []*catalog.Course) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid constant name: %q", name)
	}
	if courses == nil {
		courses = []*catalog.Course{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(courses); err != nil {
		return fmt.Errorf("encoding courses: %w", err)
	}

	_, err := fmt.Fprintf(w, "const %s = %s;", name, bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}

// WriteCatalog atomically replaces the file at path with the encoded course
// database. An empty course list returns ErrNoCourses and leaves any existing
// file untouched.
func WriteCatalog(path, name string, courses []*catalog.Course) error {
	if len(courses) == 0 {
		return ErrNoCourses
	}

	path, err := expandHome(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := EncodeCatalog(&buf, name, courses); err != nil {
		return err
	}

	if err := writeFileAtomic(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// DecodeCatalog parses a file produced by EncodeCatalog
func DecodeCatalog(r io.Reader) ([]*catalog.Course, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	m := artifactPattern.FindSubmatch(data)
	if m == nil {
		return nil, fmt.Errorf("parsing catalog: expected \"const <name> = [...];\"")
	}

	var courses []*catalog.Course
	if err := json.Unmarshal(bytes.TrimSpace(m[2]), &courses); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return courses, nil
}

// LoadCatalog reads a course database file
func LoadCatalog(path string) ([]*catalog.Course, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("catalog %s not found (run extract first): %w", path, err)
		}
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	courses, err := DecodeCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return courses, nil
}
