package dsl

import (
	"context"

	"github.com/rs/zerolog"

	envskema "github.com/reoring/envskema"
	js "github.com/reoring/envskema/jsonschema"
)

// Option configures a Config.
type Option func(*Config)

// WithLogger enables debug tracing of resolution. Only keys, paths and
// source names are logged, never values.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.log = l }
}

// FailFast stops validation at the first failing field.
func FailFast() Option {
	return func(c *Config) { c.failFast = true }
}

// Config is a defined shape ready to load from sources.
type Config struct {
	shape    Shape
	log      zerolog.Logger
	failFast bool
}

// Define wraps a shape. The shape must not be modified afterwards.
func Define(shape Shape, opts ...Option) *Config {
	if shape == nil {
		shape = Shape{}
	}
	c := &Config{shape: shape, log: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Shape returns the defined shape.
func (c *Config) Shape() Shape { return c.shape }

// Resolve merges the sources into one input tree without validating it.
// Sources apply left to right; later sources override earlier ones.
func (c *Config) Resolve(first envskema.Source, rest ...envskema.Source) map[string]any {
	tree, _ := c.resolve(first, rest)
	return tree
}

func (c *Config) resolve(first envskema.Source, rest []envskema.Source) (map[string]any, *resolver) {
	sources := append([]envskema.Source{first}, rest...)
	r := newResolver(c.log)
	return r.shape(c.shape, sources, envskema.Root()), r
}

// Parse validates an already merged tree against the shape.
func (c *Config) Parse(ctx context.Context, v any) (map[string]any, error) {
	return c.shape.parse(c.context(ctx), nil, v)
}

// JSONSchema exports the shape, including binding extensions.
func (c *Config) JSONSchema() (*js.Schema, error) { return c.shape.jsonSchema() }

// Load resolves the sources and validates the merged tree. A validation
// failure is returned as envskema.Issues.
func (c *Config) Load(ctx context.Context, first envskema.Source, rest ...envskema.Source) (map[string]any, error) {
	tree, _ := c.resolve(first, rest)
	out, err := c.Parse(ctx, tree)
	if err != nil {
		c.log.Debug().Err(err).Msg("configuration rejected")
		return nil, err
	}
	return out, nil
}

// SafeLoad is Load reporting failure inside the returned Result.
func (c *Config) SafeLoad(ctx context.Context, first envskema.Source, rest ...envskema.Source) envskema.Result[map[string]any] {
	out, err := c.Load(ctx, first, rest...)
	if err != nil {
		return envskema.Fail[map[string]any](envskema.ToIssues("/", err))
	}
	return envskema.OK(out)
}

// LoadWithMeta is Load returning presence flags and the name of the source
// that supplied each resolved field.
func (c *Config) LoadWithMeta(ctx context.Context, first envskema.Source, rest ...envskema.Source) (envskema.Decoded[map[string]any], error) {
	tree, r := c.resolve(first, rest)
	st := &parseState{ref: envskema.Root(), pm: envskema.PresenceMap{"/": envskema.PresenceSeen}}
	out, err := c.shape.parse(c.context(ctx), st, tree)
	return envskema.Decoded[map[string]any]{
		Value:    out,
		Presence: envskema.MergePresenceMaps(r.presence, st.pm),
		Origins:  r.origins,
	}, err
}

func (c *Config) context(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.failFast {
		ctx = envskema.WithFailFast(ctx, true)
	}
	return ctx
}
