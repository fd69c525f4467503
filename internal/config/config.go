// Package config loads ust-catalog settings from an optional YAML file and
// environment variables.
//
// Precedence, lowest first: built-in defaults, the YAML file, UST_* environment
// variables, then command-line flags applied by the cli package. Validate must
// be called after the last override.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up when --config is not given
const DefaultPath = "ust-catalog.yaml"

// ErrInvalid wraps every validation failure
var ErrInvalid = errors.New("invalid configuration")

var (
	subjectPattern    = regexp.MustCompile(`^[A-Z]{4}$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// Config is the full tool configuration
type Config struct {
	Term           string        `yaml:"term"`
	URLTemplate    string        `yaml:"url_template"`
	Referer        string        `yaml:"referer"`
	UserAgent      string        `yaml:"user_agent"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RequestDelay   time.Duration `yaml:"request_delay"`

	HTMLDir      string `yaml:"html_dir"`
	OutputFile   string `yaml:"output_file"`
	ConstantName string `yaml:"constant_name"`

	Subjects []string `yaml:"subjects"`
	// Files optionally lists the page file for each subject, same order
	Files []string `yaml:"files"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		Term:           "2530",
		URLTemplate:    "https://w5.ab.ust.hk/wcq/cgi-bin/{term}/subject/{subject}",
		Referer:        "https://w5.ab.ust.hk/wcq/cgi-bin/",
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		RequestTimeout: 20 * time.Second,
		RequestDelay:   time.Second,
		HTMLDir:        "html_files",
		OutputFile:     "courses.js",
		ConstantName:   "courseData",
		Subjects:       append([]string(nil), DefaultSubjects...),
	}
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	return cfg
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. A missing file is not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !required:
		// defaults only
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides fields from UST_* environment variables
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"UST_TERM":          &c.Term,
		"UST_URL_TEMPLATE":  &c.URLTemplate,
		"UST_HTML_DIR":      &c.HTMLDir,
		"UST_OUTPUT_FILE":   &c.OutputFile,
		"UST_CONSTANT_NAME": &c.ConstantName,
		"UST_LOG_LEVEL":     &c.Logging.Level,
		"UST_LOG_FORMAT":    &c.Logging.Format,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"UST_REQUEST_DELAY":   &c.RequestDelay,
		"UST_REQUEST_TIMEOUT": &c.RequestTimeout,
	}
	for key, dst := range durations {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}

	if v, ok := os.LookupEnv("UST_SUBJECTS"); ok {
		c.Subjects = splitList(v)
		c.Files = nil
	}
	return nil
}

// SetSubjects replaces the subject list and clears any explicit file list
func (c *Config) SetSubjects(subjects []string) {
	c.Subjects = make([]string, 0, len(subjects))
	for _, s := range subjects {
		c.Subjects = append(c.Subjects, strings.ToUpper(strings.TrimSpace(s)))
	}
	c.Files = nil
}

// PageFiles returns the page file name for each subject, in subject order
func (c *Config) PageFiles() []string {
	if len(c.Files) > 0 {
		return c.Files
	}
	files := make([]string, 0, len(c.Subjects))
	for _, s := range c.Subjects {
		files = append(files, s+".html")
	}
	return files
}

// PageURL expands the URL template for one subject
func (c *Config) PageURL(subject string) string {
	return strings.NewReplacer("{term}", c.Term, "{subject}", subject).Replace(c.URLTemplate)
}

// Validate checks the configuration, including that the subject and file
// lists stay consistent with each other.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Term) == "" {
		problems = append(problems, "term is required")
	}
	if !strings.Contains(c.URLTemplate, "{subject}") {
		problems = append(problems, "url_template must contain {subject}")
	}
	if c.RequestTimeout <= 0 {
		problems = append(problems, "request_timeout must be positive")
	}
	if c.RequestDelay < 0 {
		problems = append(problems, "request_delay must not be negative")
	}
	if strings.TrimSpace(c.HTMLDir) == "" {
		problems = append(problems, "html_dir is required")
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		problems = append(problems, "output_file is required")
	}
	if !identifierPattern.MatchString(c.ConstantName) {
		problems = append(problems, fmt.Sprintf("constant_name %q is not a valid identifier", c.ConstantName))
	}

	if len(c.Subjects) == 0 {
		problems = append(problems, "subjects must not be empty")
	}
	seen := make(map[string]bool, len(c.Subjects))
	for _, s := range c.Subjects {
		if !subjectPattern.MatchString(s) {
			problems = append(problems, fmt.Sprintf("subject %q must be 4 upper-case letters", s))
		}
		if seen[s] {
			problems = append(problems, fmt.Sprintf("subject %q listed twice", s))
		}
		seen[s] = true
	}

	if len(c.Files) > 0 {
		if len(c.Files) != len(c.Subjects) {
			problems = append(problems, fmt.Sprintf("files has %d entries but subjects has %d", len(c.Files), len(c.Subjects)))
		} else {
			for i, f := range c.Files {
				if want := c.Subjects[i] + ".html"; f != want {
					problems = append(problems, fmt.Sprintf("files[%d] is %q, want %q", i, f, want))
				}
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToUpper(f))
	}
	return out
}
