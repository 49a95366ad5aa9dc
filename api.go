package envskema

import (
	"context"

	js "github.com/reoring/envskema/jsonschema"
)

// Schema is the validation surface shared by DSL nodes and whole
// configurations.
type Schema[T any] interface {
	// Parse validates an unknown input and returns the typed output. It
	// returns Issues when validation fails.
	Parse(ctx context.Context, v any) (T, error)

	// JSONSchema projects the schema into a JSON Schema representation.
	JSONSchema() (*js.Schema, error)
}

// SafeParse parses v with s and reports the outcome as a Result instead of
// an error.
func SafeParse[T any](ctx context.Context, s Schema[T], v any) Result[T] {
	val, err := s.Parse(ctx, v)
	if err != nil {
		return Fail[T](ToIssues("/", err))
	}
	return OK(val)
}

// Is returns true if v conforms to the schema s.
func Is[T any](ctx context.Context, s Schema[T], v any) bool {
	_, err := s.Parse(ctx, v)
	return err == nil
}

// ---- Parse-time context options (internal wiring, exported for subpackages) ----

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
)

// WithFailFast returns a child context that marks fail-fast parsing behavior.
// Groups stop collecting issues after the first failing field.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first issue.
func IsFailFast(ctx context.Context) bool {
	v := ctx.Value(_ctxKeyFailFast)
	b, _ := v.(bool)
	return b
}
