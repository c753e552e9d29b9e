package sourceenv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Azhovan/assertenv"
	"github.com/joho/godotenv"
)

// DotenvOptions configures dotenv file behavior.
type DotenvOptions struct {
	// Required: if true, a missing file is an error. Default: false (contributes nothing).
	Required bool
}

type dotenvSource struct {
	path string
	opts DotenvOptions
}

// NewDotenv creates a source reading KEY=VALUE pairs from a dotenv file.
// ${VAR} references are expanded from earlier keys in the same file only;
// the process environment is never consulted.
func NewDotenv(path string, opts DotenvOptions) assertenv.EnvSource {
	return &dotenvSource{path: path, opts: opts}
}

// Load parses the file. Entries are sorted by key since dotenv maps are unordered.
func (d *dotenvSource) Load(ctx context.Context) ([]string, error) {
	values, err := godotenv.Read(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !d.opts.Required {
			return nil, nil
		}
		return nil, fmt.Errorf("read dotenv file %s: %w", d.path, err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]string, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, k+"="+values[k])
	}
	return entries, nil
}

// Name returns "dotenv:" followed by the file name.
func (d *dotenvSource) Name() string {
	return "dotenv:" + filepath.Base(d.path)
}
