package collections

import (
	"sort"
)

// MergeMaps returns a new map holding every entry of maps. A key present in several maps
// takes the value of the last one.
func MergeMaps[K comparable, V any](maps ...map[K]V) map[K]V {
	size := 0
	for _, m := range maps {
		size += len(m)
	}

	out := make(map[K]V, size)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}

	return out
}

// NestedKeys returns every key of data and of the maps nested in it, depth first. Keys of a
// map are visited in sorted order so the result is deterministic.
func NestedKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := []string{}
	for _, k := range keys {
		out = append(out, k)
		if nested, ok := data[k].(map[string]any); ok {
			out = append(out, NestedKeys(nested)...)
		}
	}

	return out
}
