package assertenv

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
)

// Error codes for validation failures.
const (
	ErrCodeMissing      = "missing"
	ErrCodeEmpty        = "empty"
	ErrCodeTypeMismatch = "type_mismatch"
)

// Error codes for schema failures.
const (
	ErrCodeSyntax      = "syntax"
	ErrCodeUnknownType = "unknown_type"
	ErrCodeDuplicate   = "duplicate"
	ErrCodeInvalidName = "invalid_name"
	ErrCodeUnreadable  = "unreadable"
)

// Violation is a single variable that failed validation.
type Violation struct {
	Name     string
	Code     string  // ErrCodeMissing, ErrCodeEmpty or ErrCodeTypeMismatch
	Required bool    // Whether the variable was declared required
	Expected TypeTag // Set for ErrCodeTypeMismatch
	Actual   string  // Offending value, set for ErrCodeTypeMismatch
	Source   string  // Environment source that supplied the value, if any
}

// Message describes the failure without the variable name.
func (v Violation) Message() string {
	switch v.Code {
	case ErrCodeMissing:
		return "required variable is not set"
	case ErrCodeEmpty:
		return "required variable is set but empty"
	case ErrCodeTypeMismatch:
		kind := "optional"
		if v.Required {
			kind = "required"
		}
		return fmt.Sprintf("%s variable expected %s, got %q", kind, v.Expected, v.Actual)
	default:
		return "invalid value"
	}
}

// String formats the violation as "<category>: <variable> <detail>".
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s %s", v.Code, v.Name, v.Message())
}

// Report is the ordered result of one validation pass. Empty means success.
type Report []Violation

// OK reports whether validation passed.
func (r Report) OK() bool {
	return len(r) == 0
}

// Err returns nil for an empty report and *ValidationError otherwise.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Violations: r}
}

// ValidationError aggregates variable-level validation failures.
type ValidationError struct {
	Violations []Violation
}

// Error formats validation errors as a multi-line message.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "environment validation failed: no errors"
	}

	var b strings.Builder
	if len(e.Violations) == 1 {
		b.WriteString("environment validation failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "environment validation failed: %d errors\n", len(e.Violations))
	}

	for _, v := range e.Violations {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", v.Name, v.Code, v.Message())
	}

	return strings.TrimRight(b.String(), "\n")
}

// SchemaError reports a malformed schema. It is raised before any variable is checked.
type SchemaError struct {
	Source  string // Schema source name (e.g., "file:AssertEnv.toml")
	Line    int    // 1-based, 0 when unknown
	Name    string // Offending variable, if any
	Code    string // ErrCodeSyntax, ErrCodeUnknownType, ...
	Message string
	Err     error // Underlying parser or I/O error
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	b.WriteString(": ")
	if e.Name != "" {
		fmt.Fprintf(&b, "%s: ", e.Name)
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// LaunchError reports a failed hand-off to the target program.
type LaunchError struct {
	Program string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Program, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitCode follows shell conventions: 127 when the program cannot be found,
// 126 when it exists but cannot be executed.
func (e *LaunchError) ExitCode() int {
	if errors.Is(e.Err, exec.ErrNotFound) || errors.Is(e.Err, fs.ErrNotExist) {
		return ExitNotFound
	}
	return ExitNotExecutable
}
