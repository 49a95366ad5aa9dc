package dsl

import (
	"github.com/rs/zerolog"

	envskema "github.com/reoring/envskema"
)

// resolver builds one merged input tree. It is created per call and never
// shared, so repeated resolutions are independent.
type resolver struct {
	log      zerolog.Logger
	origins  map[string]string
	presence envskema.PresenceMap
}

func newResolver(log zerolog.Logger) *resolver {
	return &resolver{
		log:      log,
		origins:  map[string]string{},
		presence: envskema.PresenceMap{},
	}
}

// shape resolves every field of sh against sources. Nested shapes always
// produce a (possibly empty) mapping; unresolved leaves are left out.
func (r *resolver) shape(sh Shape, sources []envskema.Source, ref envskema.PathRef) map[string]any {
	out := make(map[string]any, len(sh))
	for _, k := range sh.sortedKeys() {
		switch f := sh[k].(type) {
		case Shape:
			narrowed := make([]envskema.Source, len(sources))
			for i, src := range sources {
				narrowed[i] = src.Narrow(k)
			}
			out[k] = r.shape(f, narrowed, ref.Field(k))
		case Node:
			if v, ok := r.leaf(k, f, sources, ref.Field(k)); ok {
				out[k] = v
			}
		}
	}
	return out
}

// leaf resolves one field. Later sources override earlier ones.
func (r *resolver) leaf(name string, n Node, sources []envskema.Source, ref envskema.PathRef) (any, bool) {
	path := ref.Pointer()
	ann, ok := AnnotationOf(n)
	if !ok {
		r.log.Trace().Str("path", path).Msg("no binding; left to schema defaults")
		return nil, false
	}
	var (
		value   any
		defined bool
	)
	for _, src := range sources {
		switch src.Kind() {
		case envskema.SourceValues:
			v, ok := src.Field(name)
			if !ok {
				continue
			}
			value, defined = v, true
			r.origins[path] = src.Name()
		case envskema.SourceEnv:
			raw, present := src.Lookup(ann.Key)
			v, ok := Coerce(ann.Type, raw, present)
			if !ok {
				if present {
					r.log.Debug().Str("path", path).Str("key", ann.Key).Stringer("type", ann.Type).Str("source", src.Name()).
						Msg("environment value not coercible; treated as unset")
				}
				continue
			}
			value, defined = v, true
			r.origins[path] = src.Name()
		}
	}
	if !defined {
		return nil, false
	}
	r.presence[path] |= envskema.PresenceSeen
	r.log.Debug().Str("path", path).Str("source", r.origins[path]).Msg("field resolved")
	return value, true
}

// Coerce converts a raw environment string per semantic type. present=false
// means the key is unset. The boolean result is false when the value should
// be treated as unset.
func Coerce(t SemanticType, raw string, present bool) (any, bool) {
	if !present {
		return nil, false
	}
	switch t {
	case TypeString:
		return raw, true
	case TypeNumber:
		f, err := parseDecimal(raw)
		if err != nil {
			return nil, false
		}
		return f, true
	case TypeBoolean:
		switch raw {
		case "true":
			return true, true
		case "false":
			return false, true
		}
		return nil, false
	case TypeEnum:
		if f, err := parseDecimal(raw); err == nil && isIntegral(f) {
			return int(f), true
		}
		return raw, true
	}
	return nil, false
}
