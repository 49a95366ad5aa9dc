package dsl_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	envskema "github.com/reoring/envskema"
	g "github.com/reoring/envskema/dsl"
)

// TestPrimitives_Basics covers the base nodes on their own.
func TestPrimitives_Basics(t *testing.T) {
	ctx := context.Background()

	if v, err := g.String().Parse(ctx, "hello"); err != nil || v != "hello" {
		t.Fatalf("string parse ok expected, got v=%v err=%v", v, err)
	}
	if _, err := g.String().Parse(ctx, 1); err == nil {
		t.Fatalf("expected invalid_type for non-string")
	}

	for _, in := range []any{3000, int64(3000), 3000.0, json.Number("3000"), "3000", " 3000 "} {
		v, err := g.Number().Parse(ctx, in)
		if err != nil || v != 3000.0 {
			t.Fatalf("number parse of %#v: v=%v err=%v", in, v, err)
		}
	}
	if _, err := g.Number().Parse(ctx, "nope"); err == nil {
		t.Fatalf("expected invalid_type for non-numeric string")
	}
	for _, in := range []any{"inf", "-Infinity", " +Inf ", "NaN", "0x1p4", math.Inf(1), math.Inf(-1), math.NaN(), json.Number("Infinity")} {
		_, err := g.Number().Parse(ctx, in)
		iss, ok := envskema.AsIssues(err)
		if !ok || len(iss) != 1 || iss[0].Code != envskema.CodeInvalidType {
			t.Fatalf("number parse of %#v: expected invalid_type, got %v", in, err)
		}
	}

	if v, err := g.Bool().Parse(ctx, true); err != nil || v != true {
		t.Fatalf("bool parse ok expected, got v=%v err=%v", v, err)
	}
	if v, err := g.Bool().Parse(ctx, "false"); err != nil || v != false {
		t.Fatalf("bool parse of string expected ok, got v=%v err=%v", v, err)
	}
	if _, err := g.Bool().Parse(ctx, "nope"); err == nil {
		t.Fatalf("expected invalid_type for non-bool")
	}
}

func TestPrimitives_NilIsInvalidType(t *testing.T) {
	_, err := g.String().Parse(context.Background(), nil)
	iss, ok := envskema.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != envskema.CodeInvalidType {
		t.Fatalf("expected invalid_type for nil, got %v", err)
	}
	if got := iss[0].Params["got"]; got != "null" {
		t.Fatalf("expected got=null, got %v", got)
	}
}

func TestEnum_StringMembers(t *testing.T) {
	ctx := context.Background()
	e := g.Enum("a", "b", "c", "a")
	if got := e.Members(); len(got) != 3 {
		t.Fatalf("duplicates should be dropped: %v", got)
	}
	if v, err := e.Parse(ctx, "b"); err != nil || v != "b" {
		t.Fatalf("expected b, got v=%v err=%v", v, err)
	}
	_, err := e.Parse(ctx, "z")
	iss, _ := envskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != envskema.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %v", err)
	}
}

func TestEnum_Empty_RejectsEverything(t *testing.T) {
	if _, err := g.Enum().Parse(context.Background(), ""); err == nil {
		t.Fatalf("empty enum must reject")
	}
}

func TestNativeEnum_Mixed(t *testing.T) {
	ctx := context.Background()
	e := g.NativeEnum(map[string]any{"Active": 1, "Inactive": int64(0), "Pending": "pending"})

	if got := e.Members(); len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != "pending" {
		t.Fatalf("members must follow key order with ints normalized: %#v", got)
	}
	if v, err := e.Parse(ctx, 1); err != nil || v != 1 {
		t.Fatalf("expected 1, got v=%v err=%v", v, err)
	}
	if v, err := e.Parse(ctx, 0.0); err != nil || v != 0 {
		t.Fatalf("integral float must match int member, got v=%v err=%v", v, err)
	}
	if v, err := e.Parse(ctx, "pending"); err != nil || v != "pending" {
		t.Fatalf("expected pending, got v=%v err=%v", v, err)
	}
	if _, err := e.Parse(ctx, "1"); err == nil {
		t.Fatalf("a string must not match an int member")
	}
	if _, err := e.Parse(ctx, 3.14); err == nil {
		t.Fatalf("non-member must be rejected")
	}
}

func TestNativeEnum_PanicsOnUnsupportedMember(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for float member")
		}
	}()
	g.NativeEnum(map[string]any{"Pi": 3.14})
}

// TestCombinators_DefaultOptionalNullable exercises absence handling through
// the Undefined sentinel.
func TestCombinators_DefaultOptionalNullable(t *testing.T) {
	ctx := context.Background()

	if _, err := g.String().Parse(ctx, g.Undefined); err == nil {
		t.Fatalf("absent value must be required")
	}
	if v, err := g.Number().Default(3000).Parse(ctx, g.Undefined); err != nil || v != 3000.0 {
		t.Fatalf("default must be parsed through the inner node, got v=%v err=%v", v, err)
	}
	if v, err := g.Number().Default(3000).Parse(ctx, 8080); err != nil || v != 8080.0 {
		t.Fatalf("present value must win over default, got v=%v err=%v", v, err)
	}
	if _, err := g.Number().Default("nope").Parse(ctx, g.Undefined); err == nil {
		t.Fatalf("an invalid default must fail validation")
	}
	if v, err := g.String().Optional().Parse(ctx, g.Undefined); err != nil || v != nil {
		t.Fatalf("optional absent expected nil, got v=%v err=%v", v, err)
	}
	if v, err := g.String().Nullable().Parse(ctx, nil); err != nil || v != nil {
		t.Fatalf("nullable nil expected, got v=%v err=%v", v, err)
	}
	if _, err := g.String().Optional().Parse(ctx, nil); err == nil {
		t.Fatalf("optional does not imply nullable")
	}
}

func TestCombinators_TransformRefine(t *testing.T) {
	ctx := context.Background()
	upper := g.String().Transform(func(_ context.Context, v any) (any, error) {
		return strings.ToUpper(v.(string)), nil
	})
	if v, err := upper.Parse(ctx, "info"); err != nil || v != "INFO" {
		t.Fatalf("transform expected INFO, got v=%v err=%v", v, err)
	}

	calls := 0
	opt := g.String().Optional().Transform(func(_ context.Context, v any) (any, error) {
		calls++
		return v, nil
	})
	if _, err := opt.Parse(ctx, g.Undefined); err != nil || calls != 0 {
		t.Fatalf("transform must not run on absent values, calls=%d err=%v", calls, err)
	}

	boom := errors.New("boom")
	failing := g.String().Transform(func(context.Context, any) (any, error) { return nil, boom })
	_, err := failing.Parse(ctx, "x")
	iss, _ := envskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Code != envskema.CodeCustom || !errors.Is(iss[0].Cause, boom) {
		t.Fatalf("transform error must become custom issue, got %#v", iss)
	}

	nonEmpty := g.String().Refine("non_empty", func(_ context.Context, v any) error {
		if v.(string) == "" {
			return errors.New("must not be empty")
		}
		return nil
	})
	_, err = nonEmpty.Parse(ctx, "")
	iss, _ = envskema.AsIssues(err)
	if len(iss) != 1 || iss[0].Rule != "non_empty" || iss[0].Message != "must not be empty" {
		t.Fatalf("refine issue unexpected: %#v", iss)
	}
}

func TestCombinators_Bounds(t *testing.T) {
	ctx := context.Background()
	port := g.Number().Int().Min(1).Max(65535)

	if _, err := port.Parse(ctx, 8080); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	cases := map[any]string{
		0:       envskema.CodeTooSmall,
		70000:   envskema.CodeTooBig,
		80.5:    envskema.CodeCustom,
		"1e6":   envskema.CodeTooBig,
		"-1.00": envskema.CodeTooSmall,
	}
	for in, code := range cases {
		_, err := port.Parse(ctx, in)
		iss, _ := envskema.AsIssues(err)
		if len(iss) != 1 || iss[0].Code != code {
			t.Fatalf("input %v: expected %s, got %v", in, code, err)
		}
	}

	name := g.String().Min(2).Max(4)
	if _, err := name.Parse(ctx, "日本"); err != nil {
		t.Fatalf("string bounds count runes, err=%v", err)
	}
	if _, err := name.Parse(ctx, "a"); err == nil {
		t.Fatalf("expected too_small for short string")
	}
}

func TestCombinators_LinksAndDescription(t *testing.T) {
	base := g.String()
	d := base.Describe("listen host")
	o := d.Optional()

	if o.Unwrap().Kind != g.LinkOptional || o.Unwrap().Inner != d {
		t.Fatalf("optional must link to its receiver")
	}
	if d.Unwrap().Kind != g.LinkDescribe || d.Unwrap().Inner != base {
		t.Fatalf("describe must link to its receiver")
	}
	if base.Unwrap().Kind != g.LinkNone || base.Unwrap().Inner != nil {
		t.Fatalf("base node must have no link")
	}
	if o.Description() != "listen host" {
		t.Fatalf("description must be found through wrappers, got %q", o.Description())
	}
	if base.Description() != "" {
		t.Fatalf("combinators must not modify the receiver")
	}
	if !g.LinkTransform.IsEffect() || g.LinkDefault.IsEffect() {
		t.Fatalf("IsEffect mismatch")
	}
}

func TestSafeParse_ReportsIssues(t *testing.T) {
	res := g.Number().SafeParse(context.Background(), "nope")
	if res.OK() || res.Err() == nil || len(res.Issues) == 0 {
		t.Fatalf("expected failure result, got %#v", res)
	}
	res = g.Number().SafeParse(context.Background(), 1)
	if v, err := res.Unwrap(); err != nil || v != 1.0 {
		t.Fatalf("expected success, got v=%v err=%v", v, err)
	}
}

func TestJSONSchema_Node(t *testing.T) {
	sc, err := g.Number().Min(1).Max(10).Default(5).Nullable().Describe("retries").JSONSchema()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if sc.Type != "number" || sc.Default != 5 || !sc.Nullable || sc.Description != "retries" {
		t.Fatalf("unexpected schema: %#v", sc)
	}
	if sc.Minimum == nil || *sc.Minimum != 1 || sc.Maximum == nil || *sc.Maximum != 10 {
		t.Fatalf("bounds must be exported: %#v", sc)
	}

	es, _ := g.NativeEnum(map[string]any{"A": 1, "B": "b"}).JSONSchema()
	if es.Type != "" || len(es.Enum) != 2 {
		t.Fatalf("mixed enum must not declare a type: %#v", es)
	}
}
