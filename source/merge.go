package source

import (
	"fmt"
	"strings"

	"dario.cat/mergo"

	envskema "github.com/reoring/envskema"
)

// Merge layers trees left to right into a new tree. Nested mappings merge
// key by key; any other value in a later tree replaces the earlier one,
// lists included. The inputs are not modified.
func Merge(trees ...map[string]any) (map[string]any, error) {
	out := map[string]any{}
	for i, tree := range trees {
		if len(tree) == 0 {
			continue
		}
		// mergo writes into nested maps of dst, so every layer is copied first
		if err := mergo.Merge(&out, clone(tree), mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("source: merge tree %d: %w", i, err)
		}
	}
	return out, nil
}

// Files reads every path with ReadFile and merges the trees in order into a
// single values source named after the joined paths.
func Files(paths ...string) (envskema.Source, error) {
	trees := make([]map[string]any, 0, len(paths))
	for _, p := range paths {
		tree, err := ReadFile(p)
		if err != nil {
			return envskema.Source{}, err
		}
		trees = append(trees, tree)
	}
	merged, err := Merge(trees...)
	if err != nil {
		return envskema.Source{}, err
	}
	return envskema.Values(merged).Named(strings.Join(paths, ",")), nil
}

func clone(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for k, v := range tree {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return clone(t)
	case []any:
		arr := make([]any, len(t))
		for i := range t {
			arr[i] = cloneValue(t[i])
		}
		return arr
	default:
		return v
	}
}
