package sourcefile

import (
	"errors"
	"strings"

	"github.com/Azhovan/assertenv"
	"github.com/pelletier/go-toml/v2/unstable"
)

// tomlSyntaxError marks input that is not TOML at all, as opposed to TOML
// that does not describe a valid schema.
type tomlSyntaxError struct {
	err *assertenv.SchemaError
}

func (e *tomlSyntaxError) Error() string {
	return e.err.Error()
}

func (e *tomlSyntaxError) Unwrap() error {
	return e.err
}

func unwrapSyntax(err error) error {
	var syntaxErr *tomlSyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.err
	}
	return err
}

// parseTOML walks the document expression by expression so declaration
// order is preserved; decoding into a map would lose it.
func parseTOML(data []byte, source string) (*assertenv.Schema, error) {
	b := newBuilder(source)

	p := unstable.Parser{}
	p.Reset(data)

	section := ""
	for p.NextExpression() {
		expr := p.Expression()

		switch expr.Kind {
		case unstable.Table:
			parts, line := keyParts(&p, expr)
			if len(parts) != 1 {
				return nil, b.errorf(line, "", assertenv.ErrCodeSyntax, "nested table [%s] is not supported", strings.Join(parts, "."))
			}
			section = parts[0]

		case unstable.ArrayTable:
			parts, line := keyParts(&p, expr)
			return nil, b.errorf(line, "", assertenv.ErrCodeSyntax, "array table [[%s]] is not supported", strings.Join(parts, "."))

		case unstable.KeyValue:
			parts, line := keyParts(&p, expr)
			name := strings.Join(parts, ".")
			if len(parts) != 1 {
				return nil, b.errorf(line, name, assertenv.ErrCodeSyntax, "dotted keys are not supported; quote names that contain dots")
			}

			value := expr.Value()
			if value.Kind != unstable.String {
				return nil, b.errorf(line, name, assertenv.ErrCodeUnknownType, "type must be a string, got %s", strings.ToLower(value.Kind.String()))
			}

			if err := b.add(section, name, string(value.Data), line); err != nil {
				return nil, err
			}
		}
	}

	if err := p.Error(); err != nil {
		return nil, &tomlSyntaxError{err: &assertenv.SchemaError{
			Source:  source,
			Line:    errorLine(&p, err),
			Code:    assertenv.ErrCodeSyntax,
			Message: "invalid TOML",
			Err:     err,
		}}
	}

	return b.finish()
}

// keyParts returns the key segments of a table or key/value expression and
// the line of its first segment.
func keyParts(p *unstable.Parser, n *unstable.Node) ([]string, int) {
	var parts []string
	line := 0

	it := n.Key()
	for it.Next() {
		k := it.Node()
		if line == 0 {
			line = p.Shape(k.Raw).Start.Line
		}
		parts = append(parts, string(k.Data))
	}

	return parts, line
}

func errorLine(p *unstable.Parser, err error) int {
	var parserErr *unstable.ParserError
	if errors.As(err, &parserErr) && len(parserErr.Highlight) > 0 {
		return p.Shape(p.Range(parserErr.Highlight)).Start.Line
	}
	return 0
}
