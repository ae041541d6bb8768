package stache

import "reflect"

// EnumerationConverter adapts a collection-like value the engine has no
// native concept of into a sequence of elements for section iteration.
type EnumerationConverter func(value any) []any

// EnumerationEntry is one row of the specificity-ordered converter table.
type EnumerationEntry struct {
	Key     reflect.Type
	Convert EnumerationConverter
}

// The default converter table is empty; slices and arrays iterate natively in
// the renderer. Converters exist for caller-defined collection types only.
func defaultEnumerationConverters() []EnumerationEntry {
	return nil
}

// orderEnumerationEntries applies the same specificity ordering as the value
// resolver table, reusing its containment relation over type keys.
func orderEnumerationEntries(entries []EnumerationEntry) []EnumerationEntry {
	resolverShaped := make([]ResolverEntry, len(entries))
	for i, entry := range entries {
		resolverShaped[i] = ResolverEntry{Key: entry.Key}
	}
	byKey := make(map[reflect.Type]EnumerationConverter, len(entries))
	for _, entry := range entries {
		byKey[entry.Key] = entry.Convert
	}
	ordered := orderBySpecificity(resolverShaped)
	out := make([]EnumerationEntry, len(ordered))
	for i, entry := range ordered {
		out[i] = EnumerationEntry{Key: entry.Key, Convert: byKey[entry.Key]}
	}
	return out
}
