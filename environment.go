package assertenv

import (
	"sort"
	"strings"
)

// Environment is an immutable snapshot of environment variables.
// It is taken once and never re-read during validation.
type Environment struct {
	keys    []string // First-seen order
	values  map[string]string
	origins map[string]string // Key → source name
	raw     []string          // Entries of the only non-empty source, verbatim
}

// NewEnvironment builds a snapshot from a map. Keys are ordered lexically
// since map iteration order is undefined.
func NewEnvironment(values map[string]string) *Environment {
	b := newEnvBuilder()
	for _, k := range sortedKeys(values) {
		b.set(k, values[k], "")
	}
	return b.build()
}

// FromEnviron builds a snapshot from os.Environ-style "KEY=VALUE" entries.
func FromEnviron(entries []string, source string) *Environment {
	b := newEnvBuilder()
	b.layer(entries, source)
	return b.build()
}

// Lookup returns the value of name and whether it is set.
func (e *Environment) Lookup(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[name]
	return v, ok
}

// Len returns the number of variables in the snapshot.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Environ returns the snapshot for handing to the launched program. A
// snapshot built from a single source returns that source's entries
// verbatim, including nameless and repeated ones. Layered snapshots return
// merged "KEY=VALUE" entries in first-seen order.
func (e *Environment) Environ() []string {
	if e == nil {
		return nil
	}
	if e.raw != nil {
		return append([]string(nil), e.raw...)
	}
	out := make([]string, 0, len(e.keys))
	for _, k := range e.keys {
		out = append(out, k+"="+e.values[k])
	}
	return out
}

// envBuilder layers entries from several sources. Later sources override
// values of earlier ones without moving the key.
type envBuilder struct {
	keys    []string
	values  map[string]string
	origins map[string]string
	raw     []string
	layers  int // Non-empty layers seen
}

func newEnvBuilder() *envBuilder {
	return &envBuilder{
		values:  make(map[string]string),
		origins: make(map[string]string),
	}
}

func (b *envBuilder) layer(entries []string, source string) {
	if len(entries) > 0 {
		if b.layers == 0 {
			b.raw = append([]string(nil), entries...)
		} else {
			b.raw = nil
		}
		b.layers++
	}

	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			// Windows keeps per-drive cwd entries like "=C:=C:\\"; they have no name.
			continue
		}
		b.set(key, value, source)
	}
}

func (b *envBuilder) set(key, value, source string) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	b.origins[key] = source
}

func (b *envBuilder) build() *Environment {
	return &Environment{
		keys:    b.keys,
		values:  b.values,
		origins: b.origins,
		raw:     b.raw,
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
