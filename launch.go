package assertenv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Exit codes used by the launcher. They follow sysexits.h and shell
// conventions so callers can tell a failed gate from a failed target.
const (
	ExitOK            = 0
	ExitUsage         = 64  // EX_USAGE: bad flags or empty command
	ExitValidation    = 65  // EX_DATAERR: one or more variables failed validation
	ExitSchema        = 78  // EX_CONFIG: schema or environment source could not be loaded
	ExitNotExecutable = 126 // Program found but could not be executed
	ExitNotFound      = 127 // Program not found
)

// ErrEmptyCommand is returned when there is nothing to launch.
var ErrEmptyCommand = errors.New("assertenv: empty command")

// Launcher either reports a failed validation or hands the process over to a command.
type Launcher struct {
	replacer Replacer
	stderr   io.Writer
	log      *zap.Logger
	exit     func(int)
	report   []ReportOption
}

// NewLauncher creates a Launcher using DefaultReplacer, os.Stderr and os.Exit.
func NewLauncher() *Launcher {
	return &Launcher{
		replacer: DefaultReplacer(),
		stderr:   os.Stderr,
		log:      zap.NewNop(),
		exit:     os.Exit,
	}
}

// WithReplacer selects how the process is handed over.
func (l *Launcher) WithReplacer(r Replacer) *Launcher {
	if r != nil {
		l.replacer = r
	}
	return l
}

// WithStderr sets where violations and launch failures are written.
func (l *Launcher) WithStderr(w io.Writer) *Launcher {
	if w != nil {
		l.stderr = w
	}
	return l
}

// WithLogger sets the logger used for diagnostics.
func (l *Launcher) WithLogger(log *zap.Logger) *Launcher {
	if log != nil {
		l.log = log
	}
	return l
}

// WithReportOptions configures how violations are written (see WriteReport).
func (l *Launcher) WithReportOptions(opts ...ReportOption) *Launcher {
	l.report = append(l.report, opts...)
	return l
}

// Launch runs the gate and terminates the process with Run's exit code.
// With an image-replacing Replacer and a clean report it never returns
// because the process has become argv[0].
func (l *Launcher) Launch(report Report, argv []string, env []string) {
	l.exit(l.Run(report, argv, env))
}

// Run is Launch without terminating the process. It returns the exit code the
// process should end with: ExitValidation when report is non-empty, a launch
// failure code, or, for spawning replacers, the child's exit status.
func (l *Launcher) Run(report Report, argv []string, env []string) int {
	if !report.OK() {
		if err := WriteReport(l.stderr, report, l.report...); err != nil {
			l.log.Error("write validation report", zap.Error(err))
		}
		l.log.Debug("launch aborted", zap.Int("violations", len(report)))
		return ExitValidation
	}

	if len(argv) == 0 || argv[0] == "" {
		fmt.Fprintf(l.stderr, "error: %v\n", ErrEmptyCommand)
		return ExitUsage
	}

	l.log.Debug("handing off", zap.Strings("argv", argv), zap.String("mode", l.replacer.Mode()))
	// Replacement discards buffered log entries.
	_ = l.log.Sync()

	code, err := l.replacer.Replace(argv, env)
	if err != nil {
		fmt.Fprintf(l.stderr, "error: %v\n", err)

		var launchErr *LaunchError
		if errors.As(err, &launchErr) {
			return launchErr.ExitCode()
		}
		return ExitNotExecutable
	}

	return code
}

// SplitCommand splits a command line on whitespace into a program and its
// arguments. Quoting and escaping are not interpreted.
func SplitCommand(command string) []string {
	return strings.Fields(command)
}

// CommandLine resolves positional arguments into argv. A single argument is
// split with SplitCommand; several arguments are used verbatim.
func CommandLine(args []string) ([]string, error) {
	var argv []string
	switch len(args) {
	case 0:
		return nil, ErrEmptyCommand
	case 1:
		argv = SplitCommand(args[0])
	default:
		argv = append(argv, args...)
	}

	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}
