package dsl

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	envskema "github.com/reoring/envskema"
	"github.com/reoring/envskema/i18n"
	js "github.com/reoring/envskema/jsonschema"
)

// String returns a schema accepting string values only.
func String() *Schema { return &Schema{base: baseString} }

// Number returns a schema producing a finite float64. It accepts Go numeric
// values, json.Number, and decimal strings (surrounding whitespace is
// ignored). Hexadecimal strings, NaN and infinities are rejected.
func Number() *Schema { return &Schema{base: baseNumber} }

// Bool returns a schema producing bool. It accepts bool values and the
// strings understood by strconv.ParseBool.
func Bool() *Schema { return &Schema{base: baseBoolean} }

// Enum returns a schema accepting exactly one of the given strings. An empty
// list rejects every value.
func Enum(values ...string) *Schema {
	members := make([]any, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		members = append(members, v)
	}
	return &Schema{base: baseEnum, enums: members}
}

// NativeEnum returns an enum schema over the values of a key->value table.
// Values may be strings or integers (mixed allowed); integer members are
// normalized to int and match any integral numeric input. Members are ordered
// by table key. It panics on other member types.
func NativeEnum(table map[string]any) *Schema {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	members := make([]any, 0, len(keys))
	for _, k := range keys {
		m, ok := normalizeMember(table[k])
		if !ok {
			panic(fmt.Sprintf("dsl.NativeEnum: unsupported member type %T for key %q", table[k], k))
		}
		if containsMember(members, m) {
			continue
		}
		members = append(members, m)
	}
	return &Schema{base: baseEnum, enums: members}
}

// Members returns a copy of the permitted values of an enum node, looking
// through wrapper layers. It returns nil for non-enum chains.
func (s *Schema) Members() []any {
	for cur := s; cur != nil; cur = cur.link.Inner {
		if cur.link.Kind == LinkNone && cur.base == baseEnum {
			return append([]any(nil), cur.enums...)
		}
	}
	return nil
}

func normalizeMember(v any) (any, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, _ := toFloat(t)
		if !isIntegral(f) {
			return nil, false
		}
		return int(f), true
	default:
		return nil, false
	}
}

func containsMember(members []any, m any) bool {
	for _, x := range members {
		if x == m {
			return true
		}
	}
	return false
}

// ---- base parsing ----

func (s *Schema) parseBase(v any) (any, error) {
	if v == nil {
		return nil, invalidType(s.base.String(), "null")
	}
	switch s.base {
	case baseString:
		str, ok := v.(string)
		if !ok {
			return nil, invalidType("string", typeName(v))
		}
		return str, nil
	case baseNumber:
		if str, ok := v.(string); ok {
			f, err := parseDecimal(str)
			if err != nil {
				iss := invalidType("number", "string")
				iss[0].Cause = err
				return nil, iss
			}
			return f, nil
		}
		f, ok := toFloat(v)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, invalidType("number", typeName(v))
		}
		return f, nil
	case baseBoolean:
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(t))
			if err != nil {
				iss := invalidType("boolean", "string")
				iss[0].Cause = err
				return nil, iss
			}
			return b, nil
		}
		return nil, invalidType("boolean", typeName(v))
	case baseEnum:
		for _, m := range s.enums {
			switch mv := m.(type) {
			case string:
				if str, ok := v.(string); ok && str == mv {
					return mv, nil
				}
			case int:
				if _, isStr := v.(string); isStr {
					continue
				}
				if f, ok := toFloat(v); ok && f == float64(mv) {
					return mv, nil
				}
			}
		}
		return nil, envskema.Issues{{
			Path:    "/",
			Code:    envskema.CodeInvalidEnum,
			Message: i18n.T(envskema.CodeInvalidEnum, nil),
			Params:  map[string]any{"options": append([]any(nil), s.enums...), "got": v},
		}}
	}
	return nil, invalidType(s.base.String(), typeName(v))
}

func (s *Schema) baseJSONSchema() *js.Schema {
	switch s.base {
	case baseString:
		return &js.Schema{Type: "string"}
	case baseNumber:
		return &js.Schema{Type: "number"}
	case baseBoolean:
		return &js.Schema{Type: "boolean"}
	case baseEnum:
		out := &js.Schema{Enum: append([]any{}, s.enums...)}
		allStrings := len(s.enums) > 0
		for _, m := range s.enums {
			if _, ok := m.(string); !ok {
				allStrings = false
			}
		}
		if allStrings {
			out.Type = "string"
		}
		return out
	}
	return &js.Schema{}
}

// ---- helpers ----

func invalidType(expected, got string) envskema.Issues {
	return envskema.Issues{{
		Path:    "/",
		Code:    envskema.CodeInvalidType,
		Message: i18n.T(envskema.CodeInvalidType, map[string]string{"expected": expected}),
		Params:  map[string]any{"expected": expected, "got": got},
	}}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return reflect.TypeOf(v).String()
}

// toFloat converts Go numeric kinds and json.Number to float64.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8, int16, int32, int64:
		return float64(reflect.ValueOf(t).Int()), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(t).Uint()), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	}
	return 0, false
}

// maxExactInt is the largest integer magnitude a float64 represents exactly.
const maxExactInt = 1 << 53

// errNotFinite reports a decimal string spelling NaN or an infinity.
var errNotFinite = errors.New("number is not finite")

// parseDecimal parses a finite base-10 float. strconv.ParseFloat also takes
// hex floats such as "0x1p4"; those are refused with strconv.ErrSyntax.
func parseDecimal(raw string) (float64, error) {
	str := strings.TrimSpace(raw)
	digits := strings.TrimLeft(str, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: str, Err: strconv.ErrSyntax}
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func isIntegral(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) && math.Abs(f) <= maxExactInt
}
