package sourceenv

import (
	"context"
	"os"

	"github.com/Azhovan/assertenv"
)

type envSource struct {
	environ func() []string
}

// New creates a source reading the process environment.
func New() assertenv.EnvSource {
	return &envSource{environ: os.Environ}
}

// FromEntries creates a source returning fixed "KEY=VALUE" entries.
// Useful for tests and for callers that already hold an environment.
func FromEntries(entries ...string) assertenv.EnvSource {
	fixed := append([]string(nil), entries...)
	return &envSource{environ: func() []string { return fixed }}
}

// Load returns the environment entries unmodified and in order.
func (e *envSource) Load(ctx context.Context) ([]string, error) {
	return e.environ(), nil
}

// Name returns "env".
func (e *envSource) Name() string {
	return "env"
}
