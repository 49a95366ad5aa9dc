// Package envskema binds schema fields to external key/value sources and
// loads a single validated configuration object from them.
//
// The root package holds the shared vocabulary:
//
//   - Source: an environment snapshot (Env, Environ, OSEnv) or a values tree (Values)
//   - Issues: the structured error model (JSON Pointer path, code, message)
//   - Result: the success/failure value returned by the Safe* entry points
//   - Decoded: a loaded value with presence and provenance metadata
//
// Design policy:
//   - Keep only shared types in the root package; the DSL lives under dsl/.
//   - File loaders live under source/, value converters under codec/, the CLI
//     under cmd/envskema.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	cfg := dsl.Define(dsl.Shape{
//	    "server": dsl.Shape{
//	        "host": dsl.Bind("HOST").String().Default("localhost"),
//	        "port": dsl.Bind("PORT").Number().Default(3000),
//	    },
//	})
//	v, err := cfg.Load(ctx, envskema.Values(fileTree), envskema.OSEnv())
package envskema
