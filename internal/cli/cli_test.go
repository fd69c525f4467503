package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

const schedulePage = `<html><body>
<div class="course">
  <div class="courseattr"><table><tr><th>EXCLUSION</th><td>COMP 1022P</td></tr></table></div>
  <h2>COMP 1021 - Introduction to Computer Science (3 units)</h2>
  <table class="sections">
    <tr><th>Section</th><th>Date &amp; Time</th><th>Room</th><th>Instructor</th></tr>
    <tr><td>L1 (1001)</td><td>MoWe 09:00AM - 10:20AM</td><td>Rm 2465</td><td>CHAN</td></tr>
    <tr><td>T1 (1002)</td><td>Th 06:00PM - 06:50PM</td><td>Rm 4210</td><td>WONG</td></tr>
  </table>
</div>
<div class="course">
  <h2>COMP 2011 - Programming with C++ (4 units)</h2>
  <div>Matching between Lecture &amp; Lab required</div>
  <table class="sections">
    <tr><td>L1 (2001)</td><td>TuTh 12:00PM - 01:20PM</td><td>LTA</td><td>HO</td></tr>
  </table>
</div>
</body></html>`

// runCLI executes the root command with args and returns stdout
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// writeConfig writes a config file pointing at dir and server
func writeConfig(t *testing.T, dir, serverURL string) string {
	t.Helper()
	path := filepath.Join(dir, "ust-catalog.yaml")
	content := "term: \"2530\"\n" +
		"url_template: \"" + serverURL + "/{term}/subject/{subject}\"\n" +
		"request_delay: 0s\n" +
		"html_dir: \"" + filepath.Join(dir, "html") + "\"\n" +
		"output_file: \"" + filepath.Join(dir, "courses.js") + "\"\n" +
		"subjects: [COMP, MATH]\n" +
		"logging:\n  level: error\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newScheduleServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	requests := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path == "/2530/subject/COMP" {
			w.Write([]byte(schedulePage))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func TestFetchExtractSearch(t *testing.T) {
	dir := t.TempDir()
	server, requests := newScheduleServer(t)
	cfgPath := writeConfig(t, dir, server.URL)

	out, err := runCLI(t, "fetch", "--config", cfgPath)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.Contains(out, "Downloaded: 1") || !strings.Contains(out, "Not found:  1") {
		t.Errorf("unexpected fetch summary:\n%s", out)
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("expected 2 requests, got %d", n)
	}

	// second run finds COMP on disk; MATH was not found and is requested again
	if _, err := runCLI(t, "fetch", "--config", cfgPath); err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if n := requests.Load(); n != 3 {
		t.Errorf("expected only MATH to be requested again, total requests %d", n)
	}

	out, err = runCLI(t, "extract", "--config", cfgPath)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(out, "Wrote 2 courses") {
		t.Errorf("unexpected extract summary:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "courses.js"))
	if err != nil {
		t.Fatalf("course database not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "const courseData = [") {
		t.Errorf("unexpected database prefix: %.40s", data)
	}

	out, err = runCLI(t, "search", "--config", cfgPath, "--keyword", "c++")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.Contains(out, "COMP 2011  Programming with C++ (4 units) [matching]") {
		t.Errorf("unexpected search output:\n%s", out)
	}
	if strings.Contains(out, "COMP 1021") {
		t.Errorf("keyword filter not applied:\n%s", out)
	}

	out, err = runCLI(t, "search", "--config", cfgPath, "--format", "json", "--days", "Th", "--sort", "credits")
	if err != nil {
		t.Fatalf("json search failed: %v", err)
	}
	var result SearchResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if result.Total != 2 || result.Courses[0].Code != "COMP 1021" {
		t.Errorf("unexpected JSON search result: %+v", result)
	}
}

func TestExtract_NoData(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "http://127.0.0.1:1")

	out, err := runCLI(t, "extract", "--config", cfgPath)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(out, "No data found") {
		t.Errorf("expected 'No data found', got:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "courses.js")); !os.IsNotExist(err) {
		t.Error("course database should not be written when nothing was found")
	}
}

func TestExportCSVAndICS(t *testing.T) {
	dir := t.TempDir()
	server, _ := newScheduleServer(t)
	cfgPath := writeConfig(t, dir, server.URL)

	if _, err := runCLI(t, "fetch", "--config", cfgPath, "--subjects", "comp"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if _, err := runCLI(t, "extract", "--config", cfgPath, "--subjects", "comp"); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	out, err := runCLI(t, "export-csv", "--config", cfgPath, "--subject", "COMP")
	if err != nil {
		t.Fatalf("export-csv failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header and 3 slot rows, got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "code,title,credits") {
		t.Errorf("unexpected CSV header %q", lines[0])
	}

	icsPath := filepath.Join(dir, "comp1021.ics")
	if _, err := runCLI(t, "ics", "comp1021", "l1", "--config", cfgPath, "--term-start", "2025-09-01", "--dest", icsPath); err != nil {
		t.Fatalf("ics failed: %v", err)
	}
	data, err := os.ReadFile(icsPath)
	if err != nil {
		t.Fatalf("ics file not written: %v", err)
	}
	if !strings.Contains(string(data), "SUMMARY:COMP 1021 L1") {
		t.Errorf("unexpected calendar:\n%s", data)
	}

	if _, err := runCLI(t, "ics", "COMP 1021", "L9", "--config", cfgPath, "--term-start", "2025-09-01"); err == nil {
		t.Error("expected error for unknown section")
	}
}

func TestInvalidInput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"search", "--config", cfgPath, "--format", "xml"}},
		{"missing config", []string{"search", "--config", filepath.Join(dir, "nope.yaml")}},
		{"bad subject", []string{"fetch", "--config", cfgPath, "--subjects", "COMP1"}},
		{"bad sort", []string{"search", "--config", cfgPath, "--sort", "date"}},
		{"bad day", []string{"search", "--config", cfgPath, "--days", "Xx"}},
		{"bad delay", []string{"fetch", "--config", cfgPath, "--delay", "soon"}},
		{"missing catalog", []string{"search", "--config", cfgPath}},
		{"bad course code", []string{"ics", "COMP", "L1", "--config", cfgPath, "--term-start", "2025-09-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("expected error for %v", tt.args)
			}
		})
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := map[string]string{
		"comp1021":    "COMP 1021",
		"COMP 1021":   "COMP 1021",
		" lang 1003s": "LANG 1003S",
		"COMP":        "COMP",
	}
	for in, want := range tests {
		if got := normalizeCode(in); got != want {
			t.Errorf("normalizeCode(%q) = %q, expected %q", in, got, want)
		}
	}
}
