package assertenv

import (
	"encoding/json"
	"fmt"
	"io"
)

// ReportOption configures report output using the functional options pattern.
type ReportOption func(*reportConfig)

// reportConfig holds options for WriteReport.
type reportConfig struct {
	sources bool   // Include source attribution for each violation
	asJSON  bool   // Output as JSON instead of text lines
	indent  string // Indentation for JSON output (default: "  ")
}

// WithSources includes the environment source of offending values.
func WithSources() ReportOption {
	return func(cfg *reportConfig) {
		cfg.sources = true
	}
}

// AsJSON outputs the report as a JSON document instead of text lines.
func AsJSON() ReportOption {
	return func(cfg *reportConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  ").
func WithIndent(indent string) ReportOption {
	return func(cfg *reportConfig) {
		cfg.indent = indent
	}
}

// WriteReport writes one line per violation, in report order:
//
//	<category>: <variable> <detail>
//
// An empty report writes nothing in text mode.
func WriteReport(w io.Writer, report Report, opts ...ReportOption) error {
	config := reportConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	if config.asJSON {
		return writeReportJSON(w, report, config)
	}
	return writeReportText(w, report, config)
}

func writeReportText(w io.Writer, report Report, config reportConfig) error {
	for _, v := range report {
		line := v.String()
		if config.sources && v.Source != "" {
			line += fmt.Sprintf(" (source: %s)", v.Source)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

type jsonReport struct {
	OK         bool            `json:"ok"`
	Violations []jsonViolation `json:"violations"`
}

type jsonViolation struct {
	Variable string `json:"variable"`
	Code     string `json:"code"`
	Required bool   `json:"required"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Message  string `json:"message"`
	Source   string `json:"source,omitempty"`
}

func writeReportJSON(w io.Writer, report Report, config reportConfig) error {
	out := jsonReport{
		OK:         report.OK(),
		Violations: make([]jsonViolation, 0, len(report)),
	}
	for _, v := range report {
		jv := jsonViolation{
			Variable: v.Name,
			Code:     v.Code,
			Required: v.Required,
			Message:  v.Message(),
		}
		if v.Code == ErrCodeTypeMismatch {
			jv.Expected = v.Expected.String()
			jv.Actual = v.Actual
		}
		if config.sources {
			jv.Source = v.Source
		}
		out.Violations = append(out.Violations, jv)
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(out, "", config.indent)
	} else {
		data, err = json.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// WriteProvenance writes "<variable>: <state>" lines for every declared
// variable, where state is "unset" or the source that supplied it.
func WriteProvenance(w io.Writer, prov *Provenance) error {
	if prov == nil {
		return fmt.Errorf("provenance is nil")
	}
	for _, v := range prov.Variables {
		state := "unset"
		if v.Set {
			state = "set"
			if v.SourceName != "" {
				state = "set (source: " + v.SourceName + ")"
			}
		}
		if _, err := fmt.Fprintf(w, "%s: %s %s\n", v.Name, v.Type, state); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}
