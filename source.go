package envskema

import (
	"os"

	"github.com/caarlos0/env/v11"
)

// SourceKind tags the two variants of Source.
type SourceKind int

const (
	// SourceEnv is a flat string-keyed mapping addressed by external key.
	SourceEnv SourceKind = iota
	// SourceValues is a nested plain-value tree addressed by field name.
	SourceValues
)

func (k SourceKind) String() string {
	switch k {
	case SourceEnv:
		return "env"
	case SourceValues:
		return "values"
	default:
		return "unknown"
	}
}

// Source is one ordered input to resolution: either an environment snapshot
// or a values tree. Sources are immutable values; the resolver never writes
// into the maps they wrap.
type Source struct {
	kind   SourceKind
	name   string
	env    map[string]string
	values map[string]any
}

// Env wraps a key/value snapshot. A key that is missing from m is absent.
func Env(m map[string]string) Source {
	if m == nil {
		m = map[string]string{}
	}
	return Source{kind: SourceEnv, name: SourceEnv.String(), env: m}
}

// Environ parses "KEY=value" pairs in the format returned by os.Environ.
func Environ(pairs []string) Source { return Env(env.ToMap(pairs)) }

// OSEnv snapshots the current process environment. Later changes to the
// process environment do not affect the returned Source.
func OSEnv() Source { return Environ(os.Environ()) }

// Values wraps a nested plain-value tree, typically parsed from YAML or JSON.
// Values are taken as already typed and are never coerced.
func Values(tree map[string]any) Source {
	if tree == nil {
		tree = map[string]any{}
	}
	return Source{kind: SourceValues, name: SourceValues.String(), values: tree}
}

// Named returns a copy of s labelled name. The label shows up in provenance
// metadata and debug logs.
func (s Source) Named(name string) Source {
	s.name = name
	return s
}

// Kind returns the variant tag.
func (s Source) Kind() SourceKind { return s.kind }

// Name returns the label given by Named, or the kind name.
func (s Source) Name() string {
	if s.name == "" {
		return s.kind.String()
	}
	return s.name
}

// Lookup reads an external key from an environment source. It always reports
// false for values sources.
func (s Source) Lookup(key string) (string, bool) {
	if s.kind != SourceEnv {
		return "", false
	}
	v, ok := s.env[key]
	return v, ok
}

// Field reads a field by name from a values source. A present key holding
// nil is reported as defined (an explicit null). It always reports false for
// environment sources.
func (s Source) Field(name string) (any, bool) {
	if s.kind != SourceValues {
		return nil, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Narrow scopes a values source to the sub-tree at name, or to an empty tree
// when the entry is missing or not a mapping. Environment sources are
// returned unchanged because their keys are absolute.
func (s Source) Narrow(name string) Source {
	if s.kind != SourceValues {
		return s
	}
	sub, _ := s.values[name].(map[string]any)
	if sub == nil {
		sub = map[string]any{}
	}
	return Source{kind: SourceValues, name: s.name, values: sub}
}

// Tree returns the wrapped values tree (nil for environment sources).
func (s Source) Tree() map[string]any { return s.values }

// Keys returns a copy of the wrapped environment snapshot (nil for values
// sources).
func (s Source) Keys() map[string]string {
	if s.kind != SourceEnv {
		return nil
	}
	out := make(map[string]string, len(s.env))
	for k, v := range s.env {
		out[k] = v
	}
	return out
}
