package dsl_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	envskema "github.com/reoring/envskema"
	g "github.com/reoring/envskema/dsl"
)

func TestBind_SemanticTypes(t *testing.T) {
	cases := []struct {
		name string
		node g.Node
		want g.SemanticType
	}{
		{"string", g.Bind("K").String(), g.TypeString},
		{"number", g.Bind("K").Number(), g.TypeNumber},
		{"boolean", g.Bind("K").Bool(), g.TypeBoolean},
		{"enum", g.Bind("K").Enum("a", "b"), g.TypeEnum},
		{"native enum", g.Bind("K").NativeEnum(map[string]any{"A": 1}), g.TypeEnum},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ann, ok := g.AnnotationOf(tc.node)
			if !ok {
				t.Fatalf("expected a binding")
			}
			if want := (g.Annotation{Key: "K", Type: tc.want}); ann != want {
				t.Fatalf("got %+v want %+v", ann, want)
			}
		})
	}
}

func TestBind_PlainNodeHasNoAnnotation(t *testing.T) {
	if _, ok := g.AnnotationOf(g.String().Default("x")); ok {
		t.Fatalf("an unbound node must have no binding")
	}
	if _, ok := g.AnnotationOf(nil); ok {
		t.Fatalf("nil must have no binding")
	}
}

// TestBind_SurvivesCombinatorChain checks that every layer of a chain built
// through Bound combinators carries the binding.
func TestBind_SurvivesCombinatorChain(t *testing.T) {
	b := g.Bind("LOG_LEVEL").String().
		Default("info").
		Optional().
		Transform(func(_ context.Context, v any) (any, error) { return strings.ToUpper(v.(string)), nil })

	want := g.Annotation{Key: "LOG_LEVEL", Type: g.TypeString}
	if b.Annotation() != want {
		t.Fatalf("got %+v want %+v", b.Annotation(), want)
	}

	layers := 0
	for cur := b.Underlying(); cur != nil; cur = cur.Unwrap().Inner {
		layers++
		ann, ok := g.AnnotationOf(cur)
		if !ok || ann != want {
			t.Fatalf("layer %d lost its binding: %+v ok=%v", layers, ann, ok)
		}
	}
	if layers != 4 {
		t.Fatalf("expected 4 layers, got %d", layers)
	}

	v, err := b.Parse(context.Background(), g.Undefined)
	if err != nil || v != "INFO" {
		t.Fatalf("unexpected parse: %v %v", v, err)
	}
}

// TestBind_PlainWrapperStillResolvable wraps a bound node's underlying
// schema with plain combinators; the binding is found further down the chain.
func TestBind_PlainWrapperStillResolvable(t *testing.T) {
	b := g.Bind("PORT").Number()
	wrapped := b.Underlying().Default(3000).Nullable()
	ann, ok := g.AnnotationOf(wrapped)
	if !ok || ann.Key != "PORT" {
		t.Fatalf("expected PORT through plain wrappers, got %+v ok=%v", ann, ok)
	}
}

func TestBind_IdentityNotEquality(t *testing.T) {
	a := g.Bind("A").String()
	b := g.Bind("B").String()

	annA, _ := g.AnnotationOf(a)
	annB, _ := g.AnnotationOf(b)
	if annA.Key != "A" || annB.Key != "B" {
		t.Fatalf("bindings crossed: %q %q", annA.Key, annB.Key)
	}

	cp := *a.Underlying()
	if _, ok := g.AnnotationOf(&cp); ok {
		t.Fatalf("a copy of a bound node must not inherit the binding")
	}
}

func TestBind_ForwardsDataOperations(t *testing.T) {
	ctx := context.Background()
	b := g.Bind("PORT").Number().Int().Min(1).Describe("listen port")

	v, err := b.Parse(ctx, "8080")
	if err != nil || v != 8080.0 {
		t.Fatalf("unexpected parse: %v %v", v, err)
	}
	if b.Description() != "listen port" {
		t.Fatalf("unexpected description: %q", b.Description())
	}
	if b.Unwrap().Kind != g.LinkDescribe {
		t.Fatalf("outermost layer must be a description, got %v", b.Unwrap().Kind)
	}

	res := b.SafeParse(ctx, 0)
	if res.OK() || res.Issues[0].Code != envskema.CodeTooSmall {
		t.Fatalf("expected too_small, got %#v", res)
	}

	e := g.Bind("MODE").Enum("a", "b").Nullable()
	if diff := cmp.Diff([]any{"a", "b"}, e.Members()); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_JSONSchemaExtensions(t *testing.T) {
	sc, err := g.Bind("DEBUG").Bool().Default(false).JSONSchema()
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if sc.Type != "boolean" || sc.Env != "DEBUG" || sc.EnvType != "boolean" {
		t.Fatalf("unexpected export: type=%q env=%q envType=%q", sc.Type, sc.Env, sc.EnvType)
	}
	if sc.Default != false {
		t.Fatalf("unexpected default: %#v", sc.Default)
	}
}
