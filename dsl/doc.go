// Package dsl provides the schema DSL for envskema: leaf nodes, combinators,
// bindings to external keys, and the loader that merges sources into one
// validated configuration.
//
// Overview
//   - Nodes: String()/Number()/Bool()/Enum()/NativeEnum() build base nodes. Combinators
//     (Default/Optional/Nullable/Describe/Transform/Refine/Min/Max/Int) wrap a node in a new
//     layer linked to it via Unwrap().
//   - Bindings: Bind("KEY").String() and friends build a *Bound. Its combinators return another
//     *Bound so the binding is never lost along a chain. AnnotationOf(n) reads it back.
//   - Shapes: Shape maps names to nodes or nested shapes. Define(shape) returns a *Config.
//   - Loading: Config.Resolve merges sources, Config.Load/SafeLoad also validate, and
//     LoadWithMeta reports presence flags and the source of every resolved field.
//   - Typed access: LoadAs[T]/SafeLoadAs[T]/Decode[T] copy a validated tree into a struct.
//
// Resolution rules
//   - Sources apply left to right; a later defined value replaces an earlier one.
//   - Values sources are read by field name and taken as-is; nested shapes narrow them to the
//     sub-tree of the same name.
//   - Env sources are read by the bound key and coerced by semantic type. A value that cannot
//     be coerced counts as unset, so the schema default or the required error applies.
//   - Fields without a binding are never resolved from sources.
//
// File layout (roles)
//   - schema.go: the Schema node, links, and the parse engine.
//   - primitives.go / adapter.go: base nodes and combinators.
//   - bind.go: SemanticType, Annotation, Binder and Bound.
//   - shape.go / resolve.go / define.go: shapes, the resolver, and Config.
//   - typed.go: struct decoding.
//
// Example
//
//	cfg := g.Define(g.Shape{
//	    "server": g.Shape{
//	        "host": g.Bind("HOST").String().Default("localhost"),
//	        "port": g.Bind("PORT").Number().Int().Default(3000),
//	    },
//	    "debug": g.Bind("DEBUG").Bool().Default(false),
//	})
//	v, err := cfg.Load(ctx, envskema.Values(fileTree), envskema.OSEnv())
//	if iss, ok := envskema.AsIssues(err); ok {
//	    for _, it := range iss {
//	        log.Printf("%s: %s", it.Path, it.Message)
//	    }
//	}
package dsl
