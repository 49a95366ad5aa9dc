package dsl

import (
	"context"
	"reflect"

	envskema "github.com/reoring/envskema"
	js "github.com/reoring/envskema/jsonschema"
)

// Typed binds a Config to struct type T. Field keys are resolved with
// envskema.ResolveStructKey; nested shapes map to nested structs or pointers
// to structs.
func Typed[T any](c *Config) envskema.Schema[T] { return &typedConfig[T]{c: c} }

type typedConfig[T any] struct{ c *Config }

func (s *typedConfig[T]) Parse(ctx context.Context, v any) (T, error) {
	var zero T
	m, err := s.c.Parse(ctx, v)
	if err != nil {
		return zero, err
	}
	return Decode[T](m)
}

func (s *typedConfig[T]) JSONSchema() (*js.Schema, error) { return s.c.JSONSchema() }

// LoadAs loads c from the sources and decodes the result into T.
func LoadAs[T any](ctx context.Context, c *Config, first envskema.Source, rest ...envskema.Source) (T, error) {
	var zero T
	m, err := c.Load(ctx, first, rest...)
	if err != nil {
		return zero, err
	}
	return Decode[T](m)
}

// SafeLoadAs is LoadAs reporting failure inside the returned Result.
func SafeLoadAs[T any](ctx context.Context, c *Config, first envskema.Source, rest ...envskema.Source) envskema.Result[T] {
	v, err := LoadAs[T](ctx, c, first, rest...)
	if err != nil {
		return envskema.Fail[T](envskema.ToIssues("/", err))
	}
	return envskema.OK(v)
}

// Decode copies a validated tree into a new T. T must be a struct or a
// pointer to a struct. Keys without a matching field are ignored; a value
// that cannot be assigned or converted yields an invalid_type issue at its
// path.
func Decode[T any](tree map[string]any) (T, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	ptr := false
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt, ptr = rt.Elem(), true
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return zero, envskema.Issues{{Path: "/", Code: envskema.CodeParseError, Message: "Decode[T] requires struct T"}}
	}
	rv := reflect.New(rt)
	if err := decodeStruct(rv.Elem(), tree, envskema.Root()); err != nil {
		return zero, err
	}
	if ptr {
		return rv.Interface().(T), nil
	}
	return rv.Elem().Interface().(T), nil
}

func decodeStruct(rv reflect.Value, m map[string]any, ref envskema.PathRef) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := envskema.ResolveStructKey(sf)
		if key == "-" || key == "" {
			continue
		}
		val, ok := m[key]
		if !ok {
			continue
		}
		if err := assign(rv.Field(i), val, ref.Field(key)); err != nil {
			return err
		}
	}
	return nil
}

func assign(fv reflect.Value, val any, ref envskema.PathRef) error {
	if !fv.CanSet() {
		return nil
	}
	if val == nil {
		// nil leaves non-nillable fields at their zero value
		return nil
	}
	if sub, ok := val.(map[string]any); ok {
		switch {
		case fv.Kind() == reflect.Struct:
			return decodeStruct(fv, sub, ref)
		case fv.Kind() == reflect.Pointer && fv.Type().Elem().Kind() == reflect.Struct:
			nv := reflect.New(fv.Type().Elem())
			if err := decodeStruct(nv.Elem(), sub, ref); err != nil {
				return err
			}
			fv.Set(nv)
			return nil
		}
	}
	vv := reflect.ValueOf(val)
	target := fv.Type()
	if fv.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	var out reflect.Value
	switch {
	case vv.Type().AssignableTo(target):
		out = vv
	case convertible(vv, target):
		out = vv.Convert(target)
	default:
		return envskema.Issues{envskema.IssueAt(ref, envskema.CodeInvalidType, "field type mismatch",
			map[string]any{"expected": target.String(), "got": vv.Type().String()})}
	}
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(target)
		p.Elem().Set(out)
		fv.Set(p)
		return nil
	}
	fv.Set(out)
	return nil
}

// convertible excludes number to string conversion, which reflect allows
// but yields a rune rather than a decimal.
func convertible(v reflect.Value, t reflect.Type) bool {
	if !v.Type().ConvertibleTo(t) {
		return false
	}
	if t.Kind() == reflect.String && v.Kind() != reflect.String {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64 {
			return isIntegral(v.Float())
		}
	}
	return true
}
