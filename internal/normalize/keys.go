package normalize

import (
	"strings"
)

// TrimKey strips surrounding whitespace and one pair of matching quotes.
// Examples:
//   - "  DB_HOST " → "DB_HOST"
//   - `"DB_HOST"` → "DB_HOST"
//   - "'str'" → "str"
func TrimKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) >= 2 {
		first, last := key[0], key[len(key)-1]
		if (first == '"' || first == '\'') && first == last {
			return key[1 : len(key)-1]
		}
	}
	return key
}

// ValidName reports whether name can be used as an environment variable name.
// The name must be non-empty and must not contain '=' or NUL, which the
// process environment cannot represent.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, "=\x00")
}

// SectionName extracts the name from a "[section]" header line.
// Examples:
//   - "[required]" → "required", true
//   - "[ optional ]" → "optional", true
//   - "required" → "", false
func SectionName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return strings.TrimSpace(line[1 : len(line)-1]), true
}

// StripComment removes a trailing '#' comment from a line.
func StripComment(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
