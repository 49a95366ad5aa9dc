package dsl

import (
	"context"
	"errors"
	"unicode/utf8"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/i18n"
	js "github.com/reoring/envskema/jsonschema"
)

// Combinators. Each returns a new layer linked to the receiver; the receiver
// is never modified, so a node can be shared between shapes.

func (s *Schema) wrap(kind LinkKind) *Schema {
	return &Schema{link: Link{Kind: kind, Inner: s}}
}

// Default substitutes v when the value is absent. v is parsed through the
// wrapped node, so it is normalized and validated like any input.
func (s *Schema) Default(v any) *Schema {
	out := s.wrap(LinkDefault)
	out.def = v
	return out
}

// Optional accepts an absent value and leaves it absent.
func (s *Schema) Optional() *Schema { return s.wrap(LinkOptional) }

// Nullable accepts an explicit nil and returns nil.
func (s *Schema) Nullable() *Schema { return s.wrap(LinkNullable) }

// Describe attaches a human-readable description, exported to JSON Schema.
func (s *Schema) Describe(text string) *Schema {
	out := s.wrap(LinkDescribe)
	out.desc = text
	return out
}

// Transform maps the parsed value through fn. fn only runs for present
// values. An error from fn becomes a custom issue unless it already is Issues.
func (s *Schema) Transform(fn func(ctx context.Context, v any) (any, error)) *Schema {
	out := s.wrap(LinkTransform)
	if fn == nil {
		fn = func(_ context.Context, v any) (any, error) { return v, nil }
	}
	out.transform = fn
	return out
}

// Refine adds a named check on the parsed value. It runs only for present
// values; a returned error becomes a custom issue tagged with name.
func (s *Schema) Refine(name string, fn func(ctx context.Context, v any) error) *Schema {
	out := s.wrap(LinkRefine)
	out.rule = name
	out.code = envskema.CodeCustom
	out.check = fn
	if fn == nil {
		out.check = func(context.Context, any) error { return nil }
	}
	return out
}

// Min sets an inclusive lower bound: the value itself for numbers, the rune
// count for strings. Other values pass.
func (s *Schema) Min(n float64) *Schema {
	out := s.wrap(LinkRefine)
	out.rule = "min"
	out.code = envskema.CodeTooSmall
	out.check = func(_ context.Context, v any) error {
		if got, ok := magnitude(v); ok && got < n {
			return boundIssue(envskema.CodeTooSmall, "min", n, got)
		}
		return nil
	}
	out.jsHook = func(sc *js.Schema) { sc.Minimum = jsPtrFloat(n) }
	return out
}

// Max sets an inclusive upper bound: the value itself for numbers, the rune
// count for strings. Other values pass.
func (s *Schema) Max(n float64) *Schema {
	out := s.wrap(LinkRefine)
	out.rule = "max"
	out.code = envskema.CodeTooBig
	out.check = func(_ context.Context, v any) error {
		if got, ok := magnitude(v); ok && got > n {
			return boundIssue(envskema.CodeTooBig, "max", n, got)
		}
		return nil
	}
	out.jsHook = func(sc *js.Schema) { sc.Maximum = jsPtrFloat(n) }
	return out
}

// ErrNotIntegral is returned by Int when a number has a fractional part.
var ErrNotIntegral = errors.New("expected an integer")

// Int rejects numbers with a fractional part.
func (s *Schema) Int() *Schema {
	return s.Refine("int", func(_ context.Context, v any) error {
		if f, ok := toFloat(v); ok && !isIntegral(f) {
			return ErrNotIntegral
		}
		return nil
	})
}

// ---- helpers ----
func jsPtrFloat(v float64) *float64 { return &v }

func magnitude(v any) (float64, bool) {
	if str, ok := v.(string); ok {
		return float64(utf8.RuneCountInString(str)), true
	}
	return toFloat(v)
}

func boundIssue(code, rule string, limit, got float64) envskema.Issues {
	return envskema.Issues{{
		Path:    "/",
		Code:    code,
		Message: i18n.T(code, nil),
		Params:  map[string]any{rule: limit, "got": got},
		Rule:    rule,
	}}
}
