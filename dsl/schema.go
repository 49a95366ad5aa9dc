package dsl

import (
	"context"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/i18n"
	js "github.com/reoring/envskema/jsonschema"
)

// Field is an entry of a Shape: either a Node or a nested Shape.
type Field interface {
	field()
}

// Node is a leaf schema. *Schema and *Bound are the only implementations.
type Node interface {
	Field
	envskema.Schema[any]

	// SafeParse is Parse reporting failure as a Result.
	SafeParse(ctx context.Context, v any) envskema.Result[any]
	// Unwrap exposes the wrapping link of the outermost layer.
	Unwrap() Link
	// Description returns the closest description along the wrapping chain.
	Description() string
	// Underlying returns the outermost *Schema layer.
	Underlying() *Schema

	parseField(ctx context.Context, st *parseState, v any, present bool) (any, bool, error)
}

// LinkKind tags how a Schema layer relates to the node it wraps.
type LinkKind int

const (
	LinkNone LinkKind = iota // base node, nothing wrapped
	LinkDefault
	LinkOptional
	LinkNullable
	LinkDescribe
	LinkTransform
	LinkRefine
)

func (k LinkKind) String() string {
	switch k {
	case LinkNone:
		return "none"
	case LinkDefault:
		return "default"
	case LinkOptional:
		return "optional"
	case LinkNullable:
		return "nullable"
	case LinkDescribe:
		return "describe"
	case LinkTransform:
		return "transform"
	case LinkRefine:
		return "refine"
	default:
		return "unknown"
	}
}

// IsEffect reports whether the wrapped node is the input schema of an effect
// (transform or refine) rather than the target of a plain combinator.
func (k LinkKind) IsEffect() bool { return k == LinkTransform || k == LinkRefine }

// Link is the explicit edge from a wrapper layer to the node it wraps.
type Link struct {
	Kind  LinkKind
	Inner *Schema
}

// Undefined stands for a missing value. Parse(ctx, Undefined) behaves as if
// the field were absent from its parent, which lets callers exercise Default
// and Optional directly.
var Undefined any = undefined{}

type undefined struct{}

type baseKind int

const (
	baseString baseKind = iota
	baseNumber
	baseBoolean
	baseEnum
)

func (k baseKind) String() string {
	switch k {
	case baseString:
		return "string"
	case baseNumber:
		return "number"
	case baseBoolean:
		return "boolean"
	case baseEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Schema is an immutable validation node. Combinator methods never modify
// the receiver; each returns a new layer linked to it.
type Schema struct {
	link Link

	// base nodes
	base  baseKind
	enums []any

	// wrapper payloads
	def       any
	desc      string
	transform func(context.Context, any) (any, error)
	check     func(context.Context, any) error
	rule      string
	code      string
	jsHook    func(*js.Schema)
}

var (
	_ Node                            = (*Schema)(nil)
	_ envskema.Schema[any]            = (*Schema)(nil)
	_ envskema.Schema[map[string]any] = (*Config)(nil)
)

func (*Schema) field() {}

// Underlying returns s itself.
func (s *Schema) Underlying() *Schema { return s }

// Unwrap returns the link to the wrapped node (Kind LinkNone for base nodes).
func (s *Schema) Unwrap() Link { return s.link }

// Parse validates v. Passing Undefined exercises absence handling; an absent
// result (Optional) is returned as nil.
func (s *Schema) Parse(ctx context.Context, v any) (any, error) {
	out, _, err := s.parseField(ctx, nil, v, v != Undefined)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SafeParse is Parse reporting failure as a Result.
func (s *Schema) SafeParse(ctx context.Context, v any) envskema.Result[any] {
	return envskema.SafeParse[any](ctx, s, v)
}

// Description returns the closest description along the wrapping chain.
func (s *Schema) Description() string {
	for cur := s; cur != nil; cur = cur.link.Inner {
		if cur.desc != "" {
			return cur.desc
		}
	}
	return ""
}

// parseField is the engine entry point. present=false means the value is
// missing from its parent; the returned bool reports whether the output is
// present.
func (s *Schema) parseField(ctx context.Context, st *parseState, v any, present bool) (any, bool, error) {
	switch s.link.Kind {
	case LinkNone:
		if !present {
			return nil, false, envskema.Issues{{Path: "/", Code: envskema.CodeRequired, Message: i18n.T(envskema.CodeRequired, nil), Hint: "required property missing"}}
		}
		out, err := s.parseBase(v)
		if err != nil {
			return nil, false, err
		}
		return out, true, nil
	case LinkDefault:
		if !present {
			st.mark(envskema.PresenceDefaultApplied)
			return s.link.Inner.parseField(ctx, st, s.def, true)
		}
		return s.link.Inner.parseField(ctx, st, v, present)
	case LinkOptional:
		if !present {
			return nil, false, nil
		}
		return s.link.Inner.parseField(ctx, st, v, present)
	case LinkNullable:
		if present && v == nil {
			return nil, true, nil
		}
		return s.link.Inner.parseField(ctx, st, v, present)
	case LinkDescribe:
		return s.link.Inner.parseField(ctx, st, v, present)
	case LinkTransform:
		out, ok, err := s.link.Inner.parseField(ctx, st, v, present)
		if err != nil || !ok {
			return out, ok, err
		}
		res, err := s.transform(ctx, out)
		if err != nil {
			return nil, false, effectIssues(envskema.CodeCustom, "transform", err)
		}
		return res, true, nil
	case LinkRefine:
		out, ok, err := s.link.Inner.parseField(ctx, st, v, present)
		if err != nil || !ok {
			return out, ok, err
		}
		if err := s.check(ctx, out); err != nil {
			return nil, false, effectIssues(s.code, s.rule, err)
		}
		return out, true, nil
	default:
		return nil, false, envskema.Issues{{Path: "/", Code: envskema.CodeParseError, Message: "unknown schema link"}}
	}
}

// JSONSchema projects the node into JSON Schema.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	if s.link.Kind == LinkNone {
		return s.baseJSONSchema(), nil
	}
	out, err := s.link.Inner.JSONSchema()
	if err != nil {
		return nil, err
	}
	switch s.link.Kind {
	case LinkDefault:
		out.Default = s.def
	case LinkNullable:
		out.Nullable = true
	case LinkDescribe:
		out.Description = s.desc
	case LinkRefine:
		if s.jsHook != nil {
			s.jsHook(out)
		}
	}
	return out, nil
}

// isOptional reports whether an absent input is acceptable, i.e. whether the
// chain contains an Optional or Default layer.
func (s *Schema) isOptional() bool {
	for cur := s; cur != nil; cur = cur.link.Inner {
		if cur.link.Kind == LinkOptional || cur.link.Kind == LinkDefault {
			return true
		}
	}
	return false
}

// effectIssues converts a user callback error into Issues. Issues returned by
// the callback are kept as-is.
func effectIssues(code, rule string, err error) envskema.Issues {
	if iss, ok := envskema.AsIssues(err); ok {
		return iss
	}
	return envskema.Issues{{Path: "/", Code: code, Message: err.Error(), Cause: err, Rule: rule}}
}

// ---- parse state ----

// parseState carries the current path and the presence map being collected.
// A nil *parseState is valid and records nothing.
type parseState struct {
	ref envskema.PathRef
	pm  envskema.PresenceMap
}

func (st *parseState) mark(p envskema.Presence) {
	if st == nil || st.pm == nil {
		return
	}
	st.pm[st.ref.Pointer()] |= p
}

func (st *parseState) child(name string) *parseState {
	if st == nil {
		return nil
	}
	return &parseState{ref: st.ref.Field(name), pm: st.pm}
}
