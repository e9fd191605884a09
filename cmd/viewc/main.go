// Package main provides the CLI for the viewc markup compiler.
//
// Usage:
//
//	viewc generate [path...]   Expand view! blocks in *.mkp templates
//	viewc check [path...]      Parse and lower templates without writing
//	viewc expand [file|-]      Compile one markup block and print it
//	viewc fmt [path...]        Format the markup blocks of templates
//	viewc version              Print version information
//
// Examples:
//
//	viewc generate ./...             Recursively process all templates
//	viewc generate --dry-run ./ui    Show what would change
//	viewc check -v app.rs.mkp        Check one template with debug logs
//	echo 'text("hi")' | viewc expand -
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/grindlemire/viewc/internal/config"
	"github.com/grindlemire/viewc/internal/log"
)

// app carries global flags and the state they resolve to.
type app struct {
	cfgFile   string
	logFormat string
	verbose   bool
	quiet     bool
	noColor   bool

	cfg    *config.Config
	logger *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}

	if err := newRootCmd(a).Execute(); err != nil {
		color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "viewc",
		Short: "Compile declarative widget markup into GUI builder expressions",
		Long: `viewc compiles markup such as

  column ![spacing: 20] { text("Welcome") {} }

into nested builder calls for a retained-mode GUI toolkit. Templates
(*.mkp) are host source files whose view! { ... } blocks are expanded in
place: app.rs.mkp generates app.rs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.viewc.yaml or $HOME/.viewc.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log progress at debug level")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only print errors")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: text or json (overrides config)")

	rootCmd.AddCommand(generateCmd(a))
	rootCmd.AddCommand(checkCmd(a))
	rootCmd.AddCommand(expandCmd(a))
	rootCmd.AddCommand(fmtCmd(a))
	rootCmd.AddCommand(versionCmd(a))

	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	if a.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logCfg := log.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Component: "viewc"}
	if a.logFormat != "" {
		logCfg.Format = a.logFormat
	}
	switch {
	case a.verbose && a.quiet:
		return errors.New("--verbose and --quiet are mutually exclusive")
	case a.verbose:
		logCfg.Level = "debug"
	case a.quiet:
		logCfg.Level = "error"
	}

	logger, err := log.New(logCfg, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger

	if cfg.File != "" {
		a.logger.Debug("loaded config", "path", cfg.File)
	}
	return nil
}

// printf writes to stdout unless --quiet is set.
func (a *app) printf(format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(a.stdout, format, args...)
}

// reportedError is returned by commands whose individual failures were
// already printed. Its message is only the summary.
type reportedError struct {
	summary string
	err     error
}

func (e *reportedError) Error() string { return e.summary }

func (e *reportedError) Unwrap() error { return e.err }
