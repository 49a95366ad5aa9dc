package envskema

import "strings"

// Presence is the bit flag collected by LoadWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field value came from a source.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Schema default was applied.
)

// PresenceMap maps JSON Pointers to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the loaded value along with presence and provenance
// metadata. Origins maps the JSON Pointer of every field resolved from a
// source to the name of the source that supplied the winning value.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
	Origins  map[string]string
}

// Has reports whether all flags in want are set for path.
func (pm PresenceMap) Has(path string, want Presence) bool {
	return pm[path]&want == want
}

// Filter keeps only paths with one of the given prefixes. An empty prefix
// list returns pm unchanged.
func (pm PresenceMap) Filter(prefixes ...string) PresenceMap {
	if pm == nil || len(prefixes) == 0 {
		return pm
	}
	out := make(PresenceMap, len(pm))
	for k, v := range pm {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				out[k] = v
				break
			}
		}
	}
	return out
}

// MergePresenceMaps returns a new PresenceMap that is the bitwise-OR merge of a and b.
func MergePresenceMaps(a, b PresenceMap) PresenceMap {
	if a == nil && b == nil {
		return nil
	}
	out := make(PresenceMap, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] |= v
	}
	return out
}
