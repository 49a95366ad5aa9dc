package dsl

import (
	"context"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/internal/annotate"
	js "github.com/reoring/envskema/jsonschema"
)

// SemanticType decides how a raw environment string is coerced.
type SemanticType int

const (
	// TypeString passes raw values through unchanged.
	TypeString SemanticType = iota
	// TypeNumber parses decimal numbers; unparseable input is treated as unset.
	TypeNumber
	// TypeBoolean accepts exactly "true" and "false".
	TypeBoolean
	// TypeEnum turns integral decimal strings into ints and leaves the rest as strings.
	TypeEnum
)

func (t SemanticType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Annotation records which external key a node reads and how to coerce it.
type Annotation struct {
	Key  string
	Type SemanticType
}

// annotations is keyed by node identity. Nodes never carry their binding
// themselves; an entry disappears with its node.
var annotations = annotate.New[Schema, Annotation]()

// AnnotationOf recovers the binding of n by walking its wrapping chain from
// the outermost layer inwards and returning the first registered annotation.
func AnnotationOf(n Node) (Annotation, bool) {
	if n == nil {
		return Annotation{}, false
	}
	for cur := n.Underlying(); cur != nil; cur = cur.link.Inner {
		if ann, ok := annotations.Lookup(cur); ok {
			return ann, true
		}
	}
	return Annotation{}, false
}

// Binder creates bound nodes for one external key.
type Binder struct {
	key string
}

// Bind starts a binding to the external key.
func Bind(key string) Binder { return Binder{key: key} }

// Key returns the external key.
func (b Binder) Key() string { return b.key }

// String binds a string field. The raw value is passed through as-is.
func (b Binder) String() *Bound { return newBound(String(), Annotation{Key: b.key, Type: TypeString}) }

// Number binds a number field. Unconvertible strings resolve as unset.
func (b Binder) Number() *Bound { return newBound(Number(), Annotation{Key: b.key, Type: TypeNumber}) }

// Bool binds a boolean field. Only "true" and "false" resolve; anything else
// is unset.
func (b Binder) Bool() *Bound { return newBound(Bool(), Annotation{Key: b.key, Type: TypeBoolean}) }

// Enum binds an enum over a list of strings.
func (b Binder) Enum(values ...string) *Bound {
	return newBound(Enum(values...), Annotation{Key: b.key, Type: TypeEnum})
}

// NativeEnum binds an enum over the values of a key->value table.
func (b Binder) NativeEnum(table map[string]any) *Bound {
	return newBound(NativeEnum(table), Annotation{Key: b.key, Type: TypeEnum})
}

// Bound is a node carrying a binding. It forwards every data operation to
// the wrapped node unchanged, and every combinator returns another Bound
// whose new outer layer is registered with the same annotation, so the
// binding survives any chain of combinators.
type Bound struct {
	s   *Schema
	ann Annotation
}

var _ Node = (*Bound)(nil)

func newBound(s *Schema, ann Annotation) *Bound {
	annotations.Register(s, ann)
	return &Bound{s: s, ann: ann}
}

func (b *Bound) rewrap(s *Schema) *Bound { return newBound(s, b.ann) }

func (*Bound) field() {}

// Annotation returns the binding carried by b.
func (b *Bound) Annotation() Annotation { return b.ann }

// Underlying returns the current outermost *Schema layer.
func (b *Bound) Underlying() *Schema { return b.s }

// ---- forwarded data operations ----

// Parse forwards to the wrapped node.
func (b *Bound) Parse(ctx context.Context, v any) (any, error) { return b.s.Parse(ctx, v) }

// SafeParse forwards to the wrapped node.
func (b *Bound) SafeParse(ctx context.Context, v any) envskema.Result[any] {
	return b.s.SafeParse(ctx, v)
}

// Unwrap returns the link of the wrapped node.
func (b *Bound) Unwrap() Link { return b.s.Unwrap() }

// Description forwards to the wrapped node.
func (b *Bound) Description() string { return b.s.Description() }

// Members returns the enum members of the wrapped node.
func (b *Bound) Members() []any { return b.s.Members() }

// JSONSchema forwards to the wrapped node and adds the binding extensions.
func (b *Bound) JSONSchema() (*js.Schema, error) {
	out, err := b.s.JSONSchema()
	if err != nil {
		return nil, err
	}
	out.Env = b.ann.Key
	out.EnvType = b.ann.Type.String()
	return out, nil
}

func (b *Bound) parseField(ctx context.Context, st *parseState, v any, present bool) (any, bool, error) {
	return b.s.parseField(ctx, st, v, present)
}

// ---- intercepted combinators ----

// Default is Schema.Default keeping the binding.
func (b *Bound) Default(v any) *Bound { return b.rewrap(b.s.Default(v)) }

// Optional is Schema.Optional keeping the binding.
func (b *Bound) Optional() *Bound { return b.rewrap(b.s.Optional()) }

// Nullable is Schema.Nullable keeping the binding.
func (b *Bound) Nullable() *Bound { return b.rewrap(b.s.Nullable()) }

// Describe is Schema.Describe keeping the binding.
func (b *Bound) Describe(text string) *Bound { return b.rewrap(b.s.Describe(text)) }

// Transform is Schema.Transform keeping the binding.
func (b *Bound) Transform(fn func(ctx context.Context, v any) (any, error)) *Bound {
	return b.rewrap(b.s.Transform(fn))
}

// Refine is Schema.Refine keeping the binding.
func (b *Bound) Refine(name string, fn func(ctx context.Context, v any) error) *Bound {
	return b.rewrap(b.s.Refine(name, fn))
}

// Min is Schema.Min keeping the binding.
func (b *Bound) Min(n float64) *Bound { return b.rewrap(b.s.Min(n)) }

// Max is Schema.Max keeping the binding.
func (b *Bound) Max(n float64) *Bound { return b.rewrap(b.s.Max(n)) }

// Int is Schema.Int keeping the binding.
func (b *Bound) Int() *Bound { return b.rewrap(b.s.Int()) }
