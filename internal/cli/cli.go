package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/ust-catalog/internal/config"
	"github.com/pfrederiksen/ust-catalog/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagFormat    string
	flagLogLevel  string
	flagLogFormat string
	flagVerbose   bool

	flagHTMLDir  string
	flagOutput   string
	flagSubjects string
	flagTerm     string
	flagDelay    string

	flagCatalog string
	flagDest    string
)

// cfg is loaded before any subcommand runs
var cfg *config.Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ust-catalog",
		Short: "Download and extract the HKUST class schedule",
		Long: `A CLI tool that downloads the HKUST class schedule one subject page at a
time and extracts the courses, sections and meeting times into a JavaScript
course database for the timetable planner.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", config.DefaultPath, "Path to the YAML config file")
	pf.StringVar(&flagFormat, "format", "text", "Output format: text or json")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flagLogFormat, "log-format", "", "Log format: json or console")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose output and debug logging")

	cmd.AddCommand(
		newFetchCmd(),
		newExtractCmd(),
		newSearchCmd(),
		newExportCSVCmd(),
		newICSCmd(),
	)

	return cmd
}

// setup loads the configuration, applies flag overrides and installs the
// default logger.
func setup(cmd *cobra.Command, args []string) error {
	if _, err := parseFormat(flagFormat); err != nil {
		return err
	}

	loaded, err := config.Load(flagConfig, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(loaded.Logging.Level)
	if err != nil {
		return err
	}
	format, err := logger.ParseFormat(loaded.Logging.Format)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.NewWithFormat(level, format, cmd.ErrOrStderr()))
	logger.ResetMetrics()

	cfg = loaded
	logger.Debug("Configuration loaded", logger.Fields{
		"config":   flagConfig,
		"term":     cfg.Term,
		"html_dir": cfg.HTMLDir,
		"subjects": len(cfg.Subjects),
	})
	return nil
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		c.Logging.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		c.Logging.Format = flagLogFormat
	}
	if flagVerbose && !flags.Changed("log-level") {
		c.Logging.Level = "debug"
	}
	if flags.Lookup("html-dir") != nil && flags.Changed("html-dir") {
		c.HTMLDir = flagHTMLDir
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		c.OutputFile = flagOutput
	}
	if flags.Lookup("subjects") != nil && flags.Changed("subjects") {
		c.SetSubjects(strings.Split(flagSubjects, ","))
	}
	if flags.Lookup("term") != nil && flags.Changed("term") {
		c.Term = flagTerm
	}
}

// catalogPath is the database file read by the lookup commands
func catalogPath() string {
	if flagCatalog != "" {
		return flagCatalog
	}
	return cfg.OutputFile
}

func parseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(s))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(ExitError)
	}
}
