package sourcefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Azhovan/assertenv"
)

// parseJSON reads {"required": {...}, "optional": {...}} from the token
// stream so object order is kept.
func parseJSON(data []byte, source string) (*assertenv.Schema, error) {
	b := newBuilder(source)
	if len(bytes.TrimSpace(data)) == 0 {
		return b.schema, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	syntax := func(err error) error {
		return &assertenv.SchemaError{
			Source:  source,
			Line:    lineAt(data, dec.InputOffset()),
			Code:    assertenv.ErrCodeSyntax,
			Message: "invalid JSON",
			Err:     err,
		}
	}

	if err := expectDelim(dec, '{'); err != nil {
		return nil, syntax(err)
	}

	for dec.More() {
		section, err := stringToken(dec)
		if err != nil {
			return nil, syntax(err)
		}
		line := lineAt(data, dec.InputOffset())

		tok, err := dec.Token()
		if err != nil {
			return nil, syntax(err)
		}
		if tok == nil {
			continue
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return nil, b.errorf(line, "", assertenv.ErrCodeSyntax, "section %q must be an object of variable names to types", section)
		}

		for dec.More() {
			name, err := stringToken(dec)
			if err != nil {
				return nil, syntax(err)
			}
			line := lineAt(data, dec.InputOffset())

			tok, err := dec.Token()
			if err != nil {
				return nil, syntax(err)
			}
			tag, ok := tok.(string)
			if !ok {
				return nil, b.errorf(line, name, assertenv.ErrCodeUnknownType, "type must be a string")
			}
			if err := b.add(section, name, tag, line); err != nil {
				return nil, err
			}
		}

		if err := expectDelim(dec, '}'); err != nil {
			return nil, syntax(err)
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, syntax(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, syntax(fmt.Errorf("unexpected data after top-level object"))
	}

	return b.finish()
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	s, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return s, nil
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}
