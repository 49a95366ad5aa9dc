package dsl

import (
	"context"
	"sort"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/i18n"
	js "github.com/reoring/envskema/jsonschema"
)

// Shape maps field names to leaf nodes or nested shapes. Keys are processed
// in ascending order so outputs and issue lists are deterministic.
type Shape map[string]Field

func (Shape) field() {}

// sortedKeys returns the shape keys in ascending order.
func (sh Shape) sortedKeys() []string {
	ks := make([]string, 0, len(sh))
	for k := range sh {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Leaves calls fn for every leaf node with its JSON Pointer, depth first in
// key order.
func (sh Shape) Leaves(fn func(path string, n Node)) {
	sh.walk(envskema.Root(), fn)
}

func (sh Shape) walk(ref envskema.PathRef, fn func(string, Node)) {
	for _, k := range sh.sortedKeys() {
		switch f := sh[k].(type) {
		case Shape:
			f.walk(ref.Field(k), fn)
		case Node:
			fn(ref.Field(k).Pointer(), f)
		}
	}
}

// parse validates src field by field. Unknown keys are dropped. Issue paths
// are relative to the shape and rebased by the caller.
func (sh Shape) parse(ctx context.Context, st *parseState, v any) (map[string]any, error) {
	src, ok := v.(map[string]any)
	if !ok {
		return nil, envskema.Issues{{Path: "/", Code: envskema.CodeInvalidType, Message: i18n.T(envskema.CodeInvalidType, map[string]string{"expected": "object"}), Hint: "expected object"}}
	}
	out := make(map[string]any, len(sh))
	var iss envskema.Issues
	for _, k := range sh.sortedKeys() {
		base := envskema.Root().Field(k).Pointer()
		cst := st.child(k)
		val, exists := src[k]
		var (
			parsed  any
			present bool
			err     error
		)
		switch f := sh[k].(type) {
		case Shape:
			// a missing group parses as empty so that nested defaults apply
			if !exists {
				val = map[string]any{}
			}
			parsed, err = f.parse(ctx, cst, val)
			present = err == nil
		case Node:
			if exists {
				cst.mark(envskema.PresenceSeen)
				if val == nil {
					cst.mark(envskema.PresenceWasNull)
				}
			}
			parsed, present, err = f.parseField(ctx, cst, val, exists)
		default:
			continue
		}
		if err != nil {
			iss = envskema.AppendIssues(iss, envskema.ToIssues("/", err).Rebase(base)...)
			if envskema.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		if present {
			out[k] = parsed
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// jsonSchema exports the shape as a JSON Schema object. Bound leaves carry
// their external key and semantic type.
func (sh Shape) jsonSchema() (*js.Schema, error) {
	props := make(map[string]*js.Schema, len(sh))
	req := []string{}
	for _, k := range sh.sortedKeys() {
		switch f := sh[k].(type) {
		case Shape:
			ps, err := f.jsonSchema()
			if err != nil {
				return nil, err
			}
			props[k] = ps
			req = append(req, k)
		case Node:
			ps, err := f.JSONSchema()
			if err != nil {
				return nil, err
			}
			if ann, ok := AnnotationOf(f); ok {
				ps.Env = ann.Key
				ps.EnvType = ann.Type.String()
			}
			props[k] = ps
			if !f.Underlying().isOptional() {
				req = append(req, k)
			}
		}
	}
	return &js.Schema{Type: "object", Properties: props, Required: req, AdditionalProperties: false}, nil
}
