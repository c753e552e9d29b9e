package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Azhovan/assertenv"
	"github.com/Azhovan/assertenv/internal/logger"
	"github.com/Azhovan/assertenv/sourceenv"
	"github.com/Azhovan/assertenv/sourcefile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "0.1.0"

// DefaultSchemaFile is read when no --file flag is given.
const DefaultSchemaFile = "AssertEnv.toml"

// Deps holds the process resources the command uses. Zero fields fall back
// to the real process.
//
// Environ supplies the snapshot that is validated and handed to the command.
// The ASSERTENV_LOG_* logger settings are still read from the real process
// environment, since they configure assertenv itself.
type Deps struct {
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Environ  func() []string
	Replacer assertenv.Replacer // Overrides --spawn and the platform default
}

func (d Deps) withDefaults() Deps {
	if d.Stdin == nil {
		d.Stdin = os.Stdin
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Stderr == nil {
		d.Stderr = os.Stderr
	}
	if d.Environ == nil {
		d.Environ = os.Environ
	}
	return d
}

type options struct {
	files        []string
	envFiles     []string
	schemaFormat string
	format       string
	spawn        bool
	check        bool
	sources      bool
	verbose      bool
	showVersion  bool
}

// exitError carries a specific exit code out of RunE. A nil err means the
// failure has already been reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the CLI against the real process and returns the exit code.
func Execute() int {
	return Run(os.Args[1:], Deps{})
}

// Run executes the root command with args and returns the exit code.
func Run(args []string, deps Deps) int {
	deps = deps.withDefaults()

	if args == nil {
		args = []string{}
	}

	cmd := NewRootCommand(deps)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return assertenv.ExitOK
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(deps.Stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}

	// Flag and argument errors from cobra
	fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
	return assertenv.ExitUsage
}

// NewRootCommand creates the root command
func NewRootCommand(deps Deps) *cobra.Command {
	deps = deps.withDefaults()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "assertenv [flags] <command> [args...]",
		Short: "Simple runtime assertions for environment variables",
		Long: `assertenv - Simple runtime assertions for environment variables

assertenv checks the variables declared in a schema file against the current
environment. When every check passes it replaces itself with the command;
otherwise it lists every failing variable and exits with status 65.

A single command argument is split on whitespace (no quoting). Several
arguments are passed through as-is. Flags after the command belong to it.

Schema (AssertEnv.toml):
  [required]
  DB_HOST = "str"
  DB_PORT = "int"

  [optional]
  DEBUG = "bool"    # true, false, 1, 0, yes, no (any case)

Types: str, int, float, bool, any

Exit status:
  64  usage error        65  validation failed     78  schema error
  126 not executable     127 command not found

Examples:
  assertenv "node index.js"
  assertenv -f env.yaml -- ./server --port 8080
  assertenv --env-file .env --check`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion || opts.check {
				return nil
			}
			if len(args) < 1 {
				return fmt.Errorf("no command provided (use -h for help)")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "assertenv version "+version)
				return err
			}
			return runGate(cmd, opts, deps, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	flags := cmd.Flags()
	// Everything after the command belongs to the command.
	flags.SetInterspersed(false)
	flags.StringArrayVarP(&opts.files, "file", "f", nil, "Path to the schema file, repeatable (default: "+DefaultSchemaFile+")")
	flags.StringArrayVar(&opts.envFiles, "env-file", nil, "Dotenv file layered beneath the process environment, repeatable")
	flags.StringVar(&opts.schemaFormat, "schema-format", "", "Schema format: toml, yaml, json, plain (default: from file extension)")
	flags.StringVar(&opts.format, "format", "text", "Report format: text or json")
	flags.BoolVar(&opts.spawn, "spawn", false, "Run the command as a child and exit with its status instead of replacing this process")
	flags.BoolVar(&opts.check, "check", false, "Only validate and print the result; do not run a command")
	flags.BoolVar(&opts.sources, "sources", false, "Show which source supplied each offending value")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging on stderr")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	return cmd
}

func runGate(cmd *cobra.Command, opts *options, deps Deps, args []string) error {
	reportOpts, err := reportOptions(opts)
	if err != nil {
		return &exitError{code: assertenv.ExitUsage, err: err}
	}

	logCfg, err := logger.ConfigFromEnv()
	if err != nil {
		return &exitError{code: assertenv.ExitUsage, err: err}
	}
	if opts.verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg, deps.Stderr)
	if err != nil {
		return &exitError{code: assertenv.ExitUsage, err: err}
	}
	defer func() { _ = log.Sync() }()

	var argv []string
	if !opts.check {
		argv, err = assertenv.CommandLine(args)
		if err != nil {
			return &exitError{code: assertenv.ExitUsage, err: err}
		}
	}

	result, err := newLoader(opts, deps, log).Check(cmd.Context())
	if err != nil {
		return &exitError{code: assertenv.ExitSchema, err: err}
	}

	if opts.check {
		return printCheck(cmd, opts, result, reportOpts)
	}

	launcher := assertenv.NewLauncher().
		WithStderr(deps.Stderr).
		WithLogger(log).
		WithReplacer(selectReplacer(opts, deps)).
		WithReportOptions(reportOpts...)

	if code := launcher.Run(result.Report, argv, result.Env.Environ()); code != assertenv.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

func newLoader(opts *options, deps Deps, log *zap.Logger) *assertenv.Loader {
	files := opts.files
	if len(files) == 0 {
		files = []string{DefaultSchemaFile}
	}

	loader := assertenv.NewLoader().WithLogger(log)
	for _, path := range files {
		loader.WithSchema(sourcefile.New(path, sourcefile.Options{
			Format:   opts.schemaFormat,
			Required: true,
		}))
	}

	// Dotenv files first so the real environment wins.
	for _, path := range opts.envFiles {
		loader.WithEnvironment(sourceenv.NewDotenv(path, sourceenv.DotenvOptions{Required: true}))
	}
	loader.WithEnvironment(sourceenv.FromEntries(deps.Environ()...))

	return loader
}

func selectReplacer(opts *options, deps Deps) assertenv.Replacer {
	switch {
	case deps.Replacer != nil:
		return deps.Replacer
	case opts.spawn:
		return &assertenv.SpawnReplacer{
			Stdin:  deps.Stdin,
			Stdout: deps.Stdout,
			Stderr: deps.Stderr,
		}
	default:
		return assertenv.DefaultReplacer()
	}
}

func reportOptions(opts *options) ([]assertenv.ReportOption, error) {
	var reportOpts []assertenv.ReportOption
	switch opts.format {
	case "text":
	case "json":
		reportOpts = append(reportOpts, assertenv.AsJSON())
	default:
		return nil, fmt.Errorf("unknown report format %q (supported: text, json)", opts.format)
	}
	if opts.sources {
		reportOpts = append(reportOpts, assertenv.WithSources())
	}
	return reportOpts, nil
}

// printCheck reports a --check run. JSON goes to stdout; text violations go to
// stderr and a passing run lists every declared variable on stdout.
func printCheck(cmd *cobra.Command, opts *options, result *assertenv.Result, reportOpts []assertenv.ReportOption) error {
	if opts.format == "json" {
		if err := assertenv.WriteReport(cmd.OutOrStdout(), result.Report, reportOpts...); err != nil {
			return err
		}
	} else if result.Report.OK() {
		if err := assertenv.WriteProvenance(cmd.OutOrStdout(), assertenv.Trace(result.Schema, result.Env)); err != nil {
			return err
		}
	} else if err := assertenv.WriteReport(cmd.ErrOrStderr(), result.Report, reportOpts...); err != nil {
		return err
	}

	if !result.Report.OK() {
		return &exitError{code: assertenv.ExitValidation}
	}
	return nil
}
