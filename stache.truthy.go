package stache

import "reflect"

// TruthyCheck is a predicate consulted before the renderer's built-in
// truthiness rule. The second return reports whether the check has an
// opinion; (false, false) means "undetermined, ask the next check". Checks
// must not panic; absence of an opinion is the only non-answer.
type TruthyCheck func(value any) (truthy bool, determined bool)

// builtinTruthy is the renderer's own truthiness rule, the deciding authority
// when every configured check is undetermined. Nil, false, zero numbers,
// empty strings and empty collections are falsy; everything else is truthy.
func builtinTruthy(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.Len() > 0
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return builtinTruthy(rv.Elem().Interface())
	}
	return true
}
