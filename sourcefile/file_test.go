package sourcefile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Azhovan/assertenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func load(t *testing.T, path string, opts Options) (*assertenv.Schema, error) {
	t.Helper()
	return New(path, opts).Load(context.Background())
}

func requireSchemaError(t *testing.T, err error, code string) *assertenv.SchemaError {
	t.Helper()
	var schemaErr *assertenv.SchemaError
	require.True(t, errors.As(err, &schemaErr), "expected *SchemaError, got %T: %v", err, err)
	assert.Equal(t, code, schemaErr.Code, "unexpected code in %v", err)
	return schemaErr
}

func names(decls []assertenv.Declaration) []string {
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.Name)
	}
	return out
}

func TestFileSource_Load_TOML(t *testing.T) {
	path := writeFile(t, "AssertEnv.toml", `[required]
DB_HOST = "str"
DB_PORT = "int"

[optional]
DEBUG = "bool"   # true, false, 1, 0, yes, no
RATIO = 'float'
"my.var" = "any"
`)

	schema, err := load(t, path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_HOST", "DB_PORT"}, names(schema.Required))
	assert.Equal(t, []string{"DEBUG", "RATIO", "my.var"}, names(schema.Optional))

	assert.Equal(t, assertenv.Declaration{
		Name:     "DB_PORT",
		Required: true,
		Type:     assertenv.TypeInteger,
		Source:   "file:AssertEnv.toml",
		Line:     3,
	}, schema.Required[1])
	assert.Equal(t, assertenv.TypeFloat, schema.Optional[1].Type)
	assert.Equal(t, 7, schema.Optional[1].Line)
	assert.Equal(t, assertenv.TypeAny, schema.Optional[2].Type)
}

func TestFileSource_Load_TOMLSectionsInAnyOrder(t *testing.T) {
	path := writeFile(t, "schema.toml", `[optional]
B = "int"

[required]
A = "str"

[optional]
C = "bool"
`)

	schema, err := load(t, path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"A"}, names(schema.Required))
	assert.Equal(t, []string{"B", "C"}, names(schema.Optional))
}

func TestFileSource_Load_TOMLEmpty(t *testing.T) {
	for _, content := range []string{"", "# nothing declared\n", "[required]\n[optional]\n"} {
		path := writeFile(t, "schema.toml", content)

		schema, err := load(t, path, Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, schema.Len())
	}
}

func TestFileSource_Load_TOMLErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
		wantLine int
		wantVar  string
	}{
		{
			name:     "unknown type tag",
			content:  "[required]\nDB_PORT = \"integer\"\n",
			wantCode: assertenv.ErrCodeUnknownType,
			wantLine: 2,
			wantVar:  "DB_PORT",
		},
		{
			name:     "type tags are case-sensitive",
			content:  "[optional]\nDEBUG = \"Bool\"\n",
			wantCode: assertenv.ErrCodeUnknownType,
			wantLine: 2,
			wantVar:  "DEBUG",
		},
		{
			name:     "non-string value",
			content:  "[required]\nDB_PORT = 5432\n",
			wantCode: assertenv.ErrCodeUnknownType,
			wantLine: 2,
			wantVar:  "DB_PORT",
		},
		{
			name:     "assignment outside section",
			content:  "DB_HOST = \"str\"\n",
			wantCode: assertenv.ErrCodeSyntax,
			wantLine: 1,
			wantVar:  "DB_HOST",
		},
		{
			name:     "assignment in unknown section",
			content:  "[required]\nA = \"str\"\n[defaults]\nB = \"str\"\n",
			wantCode: assertenv.ErrCodeSyntax,
			wantLine: 4,
			wantVar:  "B",
		},
		{
			name:     "nested table",
			content:  "[required.db]\nHOST = \"str\"\n",
			wantCode: assertenv.ErrCodeSyntax,
			wantLine: 1,
		},
		{
			name:     "array table",
			content:  "[[required]]\nHOST = \"str\"\n",
			wantCode: assertenv.ErrCodeSyntax,
			wantLine: 1,
		},
		{
			name:     "dotted key",
			content:  "[required]\ndb.host = \"str\"\n",
			wantCode: assertenv.ErrCodeSyntax,
			wantLine: 2,
			wantVar:  "db.host",
		},
		{
			name:     "duplicate in one section",
			content:  "[required]\nA = \"str\"\nA = \"int\"\n",
			wantCode: assertenv.ErrCodeDuplicate,
			wantLine: 3,
			wantVar:  "A",
		},
		{
			name:     "empty name",
			content:  "[required]\n\"\" = \"str\"\n",
			wantCode: assertenv.ErrCodeInvalidName,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "AssertEnv.toml", tt.content)

			schema, err := load(t, path, Options{})
			assert.Nil(t, schema)

			schemaErr := requireSchemaError(t, err, tt.wantCode)
			assert.Equal(t, tt.wantLine, schemaErr.Line)
			assert.Equal(t, tt.wantVar, schemaErr.Name)
			assert.Equal(t, "file:AssertEnv.toml", schemaErr.Source)
		})
	}
}

func TestFileSource_Load_DuplicateAcrossSections(t *testing.T) {
	path := writeFile(t, "AssertEnv.toml", "[required]\nPORT = \"int\"\n[optional]\nPORT = \"str\"\n")

	_, err := load(t, path, Options{})

	schemaErr := requireSchemaError(t, err, assertenv.ErrCodeDuplicate)
	assert.Equal(t, "PORT", schemaErr.Name)
	assert.Equal(t, 4, schemaErr.Line)
	assert.Contains(t, schemaErr.Error(), "first declared as required at file:AssertEnv.toml:2")
}

func TestFileSource_Load_PlainFallback(t *testing.T) {
	path := writeFile(t, "AssertEnv.toml", `# Legacy schema
[required]
DB_HOST=str
DB_PORT = int   # port number

[optional]
DEBUG=bool
`)

	schema, err := load(t, path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_HOST", "DB_PORT"}, names(schema.Required))
	assert.Equal(t, []string{"DEBUG"}, names(schema.Optional))
	assert.Equal(t, assertenv.TypeInteger, schema.Required[1].Type)
	assert.Equal(t, 4, schema.Required[1].Line)
	assert.Equal(t, 7, schema.Optional[0].Line)
}

func TestFileSource_Load_ExplicitTOMLHasNoFallback(t *testing.T) {
	path := writeFile(t, "AssertEnv.toml", "[required]\nDB_HOST=str\n")

	_, err := load(t, path, Options{Format: "toml"})

	schemaErr := requireSchemaError(t, err, assertenv.ErrCodeSyntax)
	assert.Equal(t, "invalid TOML", schemaErr.Message)
	assert.Error(t, schemaErr.Err)
}

func TestFileSource_Load_Plain(t *testing.T) {
	content := "[required]\n  'API_KEY' = \"str\"\n\n[ optional ]\nWORKERS=int\n"

	for _, tt := range []struct {
		name string
		file string
		opts Options
	}{
		{"no extension", "assertenv", Options{}},
		{"unknown extension", "schema.env", Options{}},
		{"explicit format", "schema.txt", Options{Format: "plain"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, content)

			schema, err := load(t, path, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, []string{"API_KEY"}, names(schema.Required))
			assert.Equal(t, []string{"WORKERS"}, names(schema.Optional))
			assert.Equal(t, 5, schema.Optional[0].Line)
		})
	}
}

func TestFileSource_Load_PlainErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
		wantLine int
	}{
		{"missing equals", "[required]\nDB_HOST str\n", assertenv.ErrCodeSyntax, 2},
		{"outside section", "DB_HOST=str\n", assertenv.ErrCodeSyntax, 1},
		{"assignment in unknown section", "[misc]\nX=str\n", assertenv.ErrCodeSyntax, 2},
		{"unknown type", "[optional]\n\nX=number\n", assertenv.ErrCodeUnknownType, 3},
		{"empty name", "[required]\n=str\n", assertenv.ErrCodeInvalidName, 2},
		{"duplicate", "[required]\nX=str\n[optional]\nX=int\n", assertenv.ErrCodeDuplicate, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "schema.conf", tt.content)

			_, err := load(t, path, Options{})

			schemaErr := requireSchemaError(t, err, tt.wantCode)
			assert.Equal(t, tt.wantLine, schemaErr.Line)
		})
	}
}

func TestFileSource_Load_YAML(t *testing.T) {
	path := writeFile(t, "env.yaml", `# database settings
required:
  DB_HOST: str
  DB_PORT: int
optional:
  DEBUG: bool
  TIMEOUT: "float"
`)

	schema, err := load(t, path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_HOST", "DB_PORT"}, names(schema.Required))
	assert.Equal(t, []string{"DEBUG", "TIMEOUT"}, names(schema.Optional))
	assert.Equal(t, 4, schema.Required[1].Line)
	assert.Equal(t, assertenv.TypeFloat, schema.Optional[1].Type)
	assert.Equal(t, "file:env.yaml", schema.Optional[1].Source)
}

func TestFileSource_Load_YAMLEmpty(t *testing.T) {
	for _, content := range []string{"", "~\n", "required:\noptional:\n"} {
		path := writeFile(t, "env.yml", content)

		schema, err := load(t, path, Options{})
		require.NoError(t, err, "content %q", content)
		assert.Equal(t, 0, schema.Len())
	}
}

func TestFileSource_Load_YAMLErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"invalid syntax", "required: [DB_HOST\n", assertenv.ErrCodeSyntax},
		{"top level list", "- DB_HOST\n", assertenv.ErrCodeSyntax},
		{"section is a list", "required:\n  - DB_HOST\n", assertenv.ErrCodeSyntax},
		{"assignment in unknown section", "defaults:\n  A: str\n", assertenv.ErrCodeSyntax},
		{"unknown type", "optional:\n  A: string\n", assertenv.ErrCodeUnknownType},
		{"null type", "optional:\n  A:\n", assertenv.ErrCodeUnknownType},
		{"nested type", "optional:\n  A:\n    type: str\n", assertenv.ErrCodeUnknownType},
		{"duplicate", "required:\n  A: str\noptional:\n  A: int\n", assertenv.ErrCodeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "env.yaml", tt.content)

			_, err := load(t, path, Options{})
			requireSchemaError(t, err, tt.wantCode)
		})
	}
}

func TestFileSource_Load_JSON(t *testing.T) {
	path := writeFile(t, "env.json", `{
  "required": {
    "DB_HOST": "str",
    "DB_PORT": "int"
  },
  "optional": {
    "DEBUG": "bool"
  }
}
`)

	schema, err := load(t, path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"DB_HOST", "DB_PORT"}, names(schema.Required))
	assert.Equal(t, []string{"DEBUG"}, names(schema.Optional))
	assert.Equal(t, 4, schema.Required[1].Line)
	assert.Equal(t, 7, schema.Optional[0].Line)
}

func TestFileSource_Load_JSONEmpty(t *testing.T) {
	for _, content := range []string{"", "  \n", "{}", `{"required": null, "optional": {}}`} {
		path := writeFile(t, "env.json", content)

		schema, err := load(t, path, Options{})
		require.NoError(t, err, "content %q", content)
		assert.Equal(t, 0, schema.Len())
	}
}

func TestFileSource_Load_JSONErrors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"top level array", `["DB_HOST"]`, assertenv.ErrCodeSyntax},
		{"truncated", `{"required": {"A": "str"`, assertenv.ErrCodeSyntax},
		{"trailing data", `{"required": {"A": "str"}} {}`, assertenv.ErrCodeSyntax},
		{"section is a string", `{"required": "A"}`, assertenv.ErrCodeSyntax},
		{"assignment in unknown section", `{"extra": {"A": "str"}}`, assertenv.ErrCodeSyntax},
		{"non-string type", `{"optional": {"A": 1}}`, assertenv.ErrCodeUnknownType},
		{"unknown type", `{"optional": {"A": "number"}}`, assertenv.ErrCodeUnknownType},
		{"duplicate", `{"required": {"A": "str", "A": "int"}}`, assertenv.ErrCodeDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "env.json", tt.content)

			_, err := load(t, path, Options{})
			requireSchemaError(t, err, tt.wantCode)
		})
	}
}

func TestFileSource_Load_EmptyUnknownSections(t *testing.T) {
	tests := []struct {
		file    string
		content string
	}{
		{"AssertEnv.toml", "[meta]\n[required]\nA = \"str\"\n[notes]\n"},
		{"schema.conf", "[meta]\n[required]\nA=str\n[notes]\n"},
		{"env.yaml", "meta:\nrequired:\n  A: str\nnotes: {}\n"},
		{"env.json", `{"meta": null, "required": {"A": "str"}, "notes": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)

			schema, err := load(t, path, Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"A"}, names(schema.Required))
			assert.Empty(t, schema.Optional)
		})
	}
}

func TestFileSource_Load_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "AssertEnv.toml")

	t.Run("optional", func(t *testing.T) {
		schema, err := load(t, path, Options{})
		require.NoError(t, err)
		assert.Equal(t, 0, schema.Len())
	})

	t.Run("required", func(t *testing.T) {
		_, err := load(t, path, Options{Required: true})

		schemaErr := requireSchemaError(t, err, assertenv.ErrCodeUnreadable)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Equal(t, "file:AssertEnv.toml", schemaErr.Source)
	})
}

func TestFileSource_Load_ExplicitFormat(t *testing.T) {
	path := writeFile(t, "schema.cfg", "required:\n  A: str\n")

	for _, format := range []string{"yaml", "YAML", "yml"} {
		schema, err := load(t, path, Options{Format: format})
		require.NoError(t, err, "format %q", format)
		assert.Equal(t, []string{"A"}, names(schema.Required))
	}
}

func TestFileSource_Load_UnsupportedFormat(t *testing.T) {
	path := writeFile(t, "schema.xml", "<required/>")

	_, err := load(t, path, Options{Format: "xml"})

	schemaErr := requireSchemaError(t, err, assertenv.ErrCodeSyntax)
	assert.Contains(t, schemaErr.Message, "unsupported file format: xml")
}

func TestFileSource_Name(t *testing.T) {
	src := New("/etc/app/AssertEnv.toml", Options{})
	assert.Equal(t, "file:AssertEnv.toml", src.Name())
}

func TestInferFormat(t *testing.T) {
	tests := map[string]string{
		"AssertEnv.toml": FormatTOML,
		"env.YAML":       FormatYAML,
		"env.yml":        FormatYAML,
		"env.json":       FormatJSON,
		"AssertEnv":      FormatPlain,
		"schema.ini":     FormatPlain,
	}

	for path, want := range tests {
		assert.Equal(t, want, inferFormat(path), path)
	}
}
