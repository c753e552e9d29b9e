package sourcefile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/assertenv"
)

// Supported formats.
const (
	FormatTOML  = "toml"
	FormatYAML  = "yaml"
	FormatJSON  = "json"
	FormatPlain = "plain"
)

// Section names shared by every format.
const (
	sectionRequired = "required"
	sectionOptional = "optional"
)

// Options configures file source behavior.
type Options struct {
	// Format: "toml", "yaml", "json", or "plain". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty schema).
	Required bool
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based schema source.
func New(path string, opts Options) assertenv.SchemaSource {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file. Malformed input is reported as *assertenv.SchemaError.
func (f *fileSource) Load(ctx context.Context) (*assertenv.Schema, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !f.opts.Required {
			return assertenv.NewSchema(), nil
		}
		return nil, &assertenv.SchemaError{
			Source:  f.Name(),
			Code:    assertenv.ErrCodeUnreadable,
			Message: fmt.Sprintf("read schema file %s", f.path),
			Err:     err,
		}
	}

	format := strings.ToLower(f.opts.Format)
	if format == "" {
		format = inferFormat(f.path)
	}

	switch format {
	case FormatTOML:
		schema, err := parseTOML(data, f.Name())
		var syntaxErr *tomlSyntaxError
		if errors.As(err, &syntaxErr) && f.opts.Format == "" {
			// Not TOML; the plain dialect also uses the .toml extension.
			return parsePlain(data, f.Name())
		}
		return schema, unwrapSyntax(err)
	case FormatYAML, "yml":
		return parseYAML(data, f.Name())
	case FormatJSON:
		return parseJSON(data, f.Name())
	case FormatPlain:
		return parsePlain(data, f.Name())
	default:
		return nil, &assertenv.SchemaError{
			Source:  f.Name(),
			Code:    assertenv.ErrCodeSyntax,
			Message: fmt.Sprintf("unsupported file format: %s (supported: toml, yaml, json, plain)", format),
		}
	}
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatPlain
	}
}

// builder accumulates declarations in file order.
type builder struct {
	source string
	schema *assertenv.Schema
}

func newBuilder(source string) *builder {
	return &builder{source: source, schema: assertenv.NewSchema()}
}

// add declares name in section. Any section header is accepted, but only
// required and optional may hold declarations. Unknown type tags fail
// immediately.
func (b *builder) add(section, name, tag string, line int) error {
	var required bool
	switch section {
	case sectionRequired:
		required = true
	case sectionOptional:
		required = false
	default:
		return b.errorf(line, name, assertenv.ErrCodeSyntax, "assignment outside of [required] or [optional] section")
	}

	typeTag, err := assertenv.ParseTypeTag(tag)
	if err != nil {
		return &assertenv.SchemaError{
			Source:  b.source,
			Line:    line,
			Name:    name,
			Code:    assertenv.ErrCodeUnknownType,
			Message: err.Error(),
		}
	}

	b.schema.Add(assertenv.Declaration{
		Name:     name,
		Required: required,
		Type:     typeTag,
		Source:   b.source,
		Line:     line,
	})
	return nil
}

func (b *builder) errorf(line int, name, code, format string, args ...any) error {
	return &assertenv.SchemaError{
		Source:  b.source,
		Line:    line,
		Name:    name,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// finish validates names and uniqueness within this file.
func (b *builder) finish() (*assertenv.Schema, error) {
	if err := b.schema.Check(); err != nil {
		return nil, err
	}
	return b.schema, nil
}
