package stache

import (
	"reflect"
	"strconv"
)

// ValueResolver extracts a named member from a runtime value. The second
// return reports presence: (nil, false) means the value has no such member.
// Resolvers never return errors; template typos degrade to absence.
type ValueResolver func(value any, name string) (any, bool)

// ResolverEntry is one row of the specificity-ordered value-resolver table.
type ResolverEntry struct {
	Key     reflect.Type
	Resolve ValueResolver
}

// Type keys for the built-in resolvers. The container keys are wildcards:
// SequenceType matches every slice and array, StringMapType every map with
// string-kind keys, AnyMapType every map, AnyType every value.
var (
	SequenceType  = reflect.TypeOf([]any(nil))
	StringMapType = reflect.TypeOf(map[string]any(nil))
	AnyMapType    = reflect.TypeOf(map[any]any(nil))
	AnyType       = reflect.TypeOf((*any)(nil)).Elem()
)

// defaultValueResolvers returns the built-in resolver table in registration
// order. The merge and ordering machinery in the registry takes it from here.
func defaultValueResolvers() []ResolverEntry {
	return []ResolverEntry{
		{Key: SequenceType, Resolve: resolveSequence},
		{Key: StringMapType, Resolve: resolveStringMap},
		{Key: AnyMapType, Resolve: resolveAnyMap},
		{Key: AnyType, Resolve: resolveReflect},
	}
}

// resolveSequence treats the member name as a non-negative element index.
func resolveSequence(value any, name string) (any, bool) {
	idx, err := strconv.Atoi(name)
	if err != nil || idx < 0 {
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if idx >= rv.Len() {
		return nil, false
	}
	return rv.Index(idx).Interface(), true
}

// resolveStringMap looks the name up directly in a string-keyed map.
func resolveStringMap(value any, name string) (any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	key := reflect.ValueOf(name).Convert(rv.Type().Key())
	elem := rv.MapIndex(key)
	if !elem.IsValid() {
		return nil, false
	}
	return elem.Interface(), true
}

// resolveAnyMap looks the name up in a map with looser key typing. The name
// is converted to the map's key type when possible.
func resolveAnyMap(value any, name string) (any, bool) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	keyType := rv.Type().Key()
	nameValue := reflect.ValueOf(name)
	var key reflect.Value
	switch {
	case nameValue.Type().AssignableTo(keyType):
		key = nameValue
	case keyType.Kind() == reflect.Interface && nameValue.Type().Implements(keyType):
		key = nameValue
	case nameValue.Type().ConvertibleTo(keyType) && keyType.Kind() == reflect.String:
		key = nameValue.Convert(keyType)
	default:
		return nil, false
	}
	elem := rv.MapIndex(key)
	if !elem.IsValid() {
		return nil, false
	}
	return elem.Interface(), true
}

// resolveReflect is the universal fallback: exact-name lookup across exported
// fields (including promoted ones) and exported zero-argument methods on both
// value and pointer receivers. Ambiguous promoted names and methods requiring
// arguments yield absence, never a guess.
func resolveReflect(value any, name string) (any, bool) {
	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		return nil, false
	}

	if out, ok := callNamedMethod(rv, name); ok {
		return out, true
	}
	// Pointer receivers need an addressable value; take one when the caller
	// passed a non-pointer.
	if rv.Kind() != reflect.Pointer && rv.CanInterface() {
		ptr := reflect.New(rv.Type())
		ptr.Elem().Set(rv)
		if out, ok := callNamedMethod(ptr, name); ok {
			return out, true
		}
	}

	elem := rv
	for elem.Kind() == reflect.Pointer {
		if elem.IsNil() {
			return nil, false
		}
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil, false
	}
	// FieldByName reports ambiguous promoted fields as not found, which is
	// exactly the required behavior.
	sf, ok := elem.Type().FieldByName(name)
	if !ok || sf.PkgPath != "" {
		return nil, false
	}
	return elem.FieldByIndex(sf.Index).Interface(), true
}

// callNamedMethod invokes an exported zero-argument method by exact name.
// Methods that take arguments or return nothing yield absence.
func callNamedMethod(rv reflect.Value, name string) (any, bool) {
	method := rv.MethodByName(name)
	if !method.IsValid() {
		return nil, false
	}
	mt := method.Type()
	if mt.NumIn() != 0 || mt.NumOut() == 0 {
		return nil, false
	}
	out := method.Call(nil)
	return out[0].Interface(), true
}

// typeKeyMatches reports whether a table key is satisfied by runtime type t.
func typeKeyMatches(key, t reflect.Type) bool {
	switch key {
	case AnyType:
		return true
	case SequenceType:
		return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
	case StringMapType:
		return t.Kind() == reflect.Map && t.Key().Kind() == reflect.String
	case AnyMapType:
		return t.Kind() == reflect.Map
	}
	return t.AssignableTo(key)
}

// typeKeyCovers reports whether every type matched by a is also matched by b.
// This containment relation drives the specificity ordering: a is strictly
// more specific than b when typeKeyCovers(a, b) holds and the converse does
// not.
func typeKeyCovers(a, b reflect.Type) bool {
	if a == b {
		return true
	}
	switch b {
	case AnyType:
		return true
	case SequenceType:
		return a.Kind() == reflect.Slice || a.Kind() == reflect.Array
	case AnyMapType:
		return a == StringMapType || a.Kind() == reflect.Map
	case StringMapType:
		return a.Kind() == reflect.Map && a.Key().Kind() == reflect.String
	}
	if a == SequenceType || a == StringMapType || a == AnyMapType || a == AnyType {
		// Wildcard keys match whole kind families; no plain key contains one.
		return false
	}
	return a.AssignableTo(b)
}

// moreSpecific reports a strict specificity relation between two type keys.
func moreSpecific(a, b reflect.Type) bool {
	return typeKeyCovers(a, b) && !typeKeyCovers(b, a)
}

// orderBySpecificity arranges entries most-specific-first. Entries are taken
// in registration order and each is placed before the first strictly less
// specific entry already in the result, so unrelated keys keep their
// registration order and subtype keys always precede their supertypes. The
// universal fallback key is forced last.
func orderBySpecificity(entries []ResolverEntry) []ResolverEntry {
	ordered := make([]ResolverEntry, 0, len(entries))
	var fallback []ResolverEntry
	for _, entry := range entries {
		if entry.Key == AnyType {
			fallback = append(fallback, entry)
			continue
		}
		at := len(ordered)
		for i, placed := range ordered {
			if moreSpecific(entry.Key, placed.Key) {
				at = i
				break
			}
		}
		ordered = append(ordered, ResolverEntry{})
		copy(ordered[at+1:], ordered[at:])
		ordered[at] = entry
	}
	return append(ordered, fallback...)
}
