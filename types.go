package assertenv

import (
	"context"
	"fmt"
	"strings"
)

// TypeTag is the expected shape of a variable's textual value.
type TypeTag int

const (
	TypeString TypeTag = iota + 1
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeAny
)

// ParseTypeTag maps a schema literal (str, int, float, bool, any) to a TypeTag.
// Surrounding whitespace is ignored; the literal itself is case-sensitive.
func ParseTypeTag(s string) (TypeTag, error) {
	switch strings.TrimSpace(s) {
	case "str":
		return TypeString, nil
	case "int":
		return TypeInteger, nil
	case "float":
		return TypeFloat, nil
	case "bool":
		return TypeBoolean, nil
	case "any":
		return TypeAny, nil
	default:
		return 0, fmt.Errorf("unknown type %q (supported: str, int, float, bool, any)", strings.TrimSpace(s))
	}
}

// String returns the schema literal for the tag.
func (t TypeTag) String() string {
	switch t {
	case TypeString:
		return "str"
	case TypeInteger:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "bool"
	case TypeAny:
		return "any"
	default:
		return "invalid"
	}
}

// Declaration is a single variable declared by a schema.
type Declaration struct {
	Name     string
	Required bool
	Type     TypeTag
	Source   string // Schema source name (e.g., "file:AssertEnv.toml"); may be empty
	Line     int    // 1-based line in Source, 0 when unknown
}

// SchemaSource produces a schema from a backend (usually a file).
type SchemaSource interface {
	// Load parses the backend. Malformed input must be reported as *SchemaError.
	Load(ctx context.Context) (*Schema, error)

	// Name identifies the source in diagnostics (e.g., "file:AssertEnv.toml").
	Name() string
}

// EnvSource provides environment entries in os.Environ form ("KEY=VALUE").
// Entry order is preserved in the snapshot handed to the launched program.
type EnvSource interface {
	Load(ctx context.Context) ([]string, error)

	// Name identifies the source in provenance (e.g., "env", "dotenv:.env").
	Name() string
}
