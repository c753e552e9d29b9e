package sourcefile

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/Azhovan/assertenv"
	"github.com/Azhovan/assertenv/internal/normalize"
)

// parsePlain reads the line-oriented dialect:
//
//	[required]
//	KEY1=str  # comment
//	KEY2 = int
//
// Tags may be unquoted. Everything after '#' is a comment.
func parsePlain(data []byte, source string) (*assertenv.Schema, error) {
	b := newBuilder(source)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	section := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := normalize.StripComment(scanner.Text())
		if line == "" {
			continue
		}

		if name, ok := normalize.SectionName(line); ok {
			section = name
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, b.errorf(lineNo, "", assertenv.ErrCodeSyntax, "invalid line format (expected NAME=type)")
		}

		name := normalize.TrimKey(key)
		if err := b.add(section, name, normalize.TrimKey(value), lineNo); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, &assertenv.SchemaError{
			Source:  source,
			Line:    lineNo,
			Code:    assertenv.ErrCodeSyntax,
			Message: "read schema",
			Err:     err,
		}
	}

	return b.finish()
}
