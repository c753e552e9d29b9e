package assertenv

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Loader loads schemas and environment snapshots and validates one against the other.
// Schema sources are merged in order; environment sources are layered in order
// (later override earlier). Not safe for concurrent configuration changes.
type Loader struct {
	schemas []SchemaSource
	envs    []EnvSource
	log     *zap.Logger
}

// Result is the outcome of Loader.Check.
type Result struct {
	Schema *Schema
	Env    *Environment
	Report Report
}

// NewLoader creates a Loader with no sources and a no-op logger.
// Without environment sources, Load snapshots the process environment.
func NewLoader() *Loader {
	return &Loader{
		schemas: make([]SchemaSource, 0),
		envs:    make([]EnvSource, 0),
		log:     zap.NewNop(),
	}
}

// WithSchema adds a schema source. Declarations from all sources are merged in order.
func (l *Loader) WithSchema(src SchemaSource) *Loader {
	l.schemas = append(l.schemas, src)
	return l
}

// WithEnvironment adds an environment source. Later sources override earlier ones.
func (l *Loader) WithEnvironment(src EnvSource) *Loader {
	l.envs = append(l.envs, src)
	return l
}

// WithLogger sets the logger used for diagnostics.
func (l *Loader) WithLogger(log *zap.Logger) *Loader {
	if log != nil {
		l.log = log
	}
	return l
}

// LoadSchema loads and merges every schema source and rejects duplicates.
// All failures are returned as *SchemaError.
func (l *Loader) LoadSchema(ctx context.Context) (*Schema, error) {
	merged := NewSchema()

	for _, source := range l.schemas {
		schema, err := source.Load(ctx)
		if err != nil {
			var schemaErr *SchemaError
			if errors.As(err, &schemaErr) {
				return nil, err
			}
			return nil, &SchemaError{
				Source:  source.Name(),
				Code:    ErrCodeUnreadable,
				Message: "load schema",
				Err:     err,
			}
		}

		l.log.Debug("schema loaded",
			zap.String("source", source.Name()),
			zap.Int("required", len(schema.Required)),
			zap.Int("optional", len(schema.Optional)))

		merged.Merge(schema)
	}

	if err := merged.Check(); err != nil {
		return nil, err
	}

	return merged, nil
}

// LoadEnvironment takes the environment snapshot from all sources.
func (l *Loader) LoadEnvironment(ctx context.Context) (*Environment, error) {
	if len(l.envs) == 0 {
		return FromEnviron(os.Environ(), "env"), nil
	}

	b := newEnvBuilder()
	for _, source := range l.envs {
		entries, err := source.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load environment %s: %w", source.Name(), err)
		}
		l.log.Debug("environment layered",
			zap.String("source", source.Name()),
			zap.Int("entries", len(entries)))
		b.layer(entries, source.Name())
	}

	return b.build(), nil
}

// Check loads the schema, snapshots the environment once, and validates.
// A non-nil error means the schema or a source failed; validation failures
// are reported in Result.Report, never as an error.
func (l *Loader) Check(ctx context.Context) (*Result, error) {
	schema, err := l.LoadSchema(ctx)
	if err != nil {
		return nil, err
	}

	env, err := l.LoadEnvironment(ctx)
	if err != nil {
		return nil, err
	}

	report := Validate(schema, env)
	l.log.Debug("environment validated",
		zap.Int("declared", schema.Len()),
		zap.Int("violations", len(report)))

	return &Result{
		Schema: schema,
		Env:    env,
		Report: report,
	}, nil
}
