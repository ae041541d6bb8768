package stache

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Shared fixture types for resolver and specificity tests.

type animal interface{ Kind() string }

type dog struct{ Name string }

func (d dog) Kind() string { return "dog" }

type cat struct{ Name string }

func (c cat) Kind() string { return "cat" }

type region struct{ Region string }

type account struct {
	region
	Owner   string
	balance int
}

func (a account) Balance() int { return a.balance }

func (a *account) PtrLabel() string { return "ptr" }

func (a account) WithArg(x int) int { return x }

type leftEmbed struct{ Twin int }

type rightEmbed struct{ Twin int }

type ambiguous struct {
	leftEmbed
	rightEmbed
}

var (
	dogType    = reflect.TypeOf(dog{})
	animalType = reflect.TypeOf((*animal)(nil)).Elem()
)

func TestSpecificityOrdering(t *testing.T) {
	marker := func(result string) ValueResolver {
		return func(any, string) (any, bool) { return result, true }
	}

	t.Run("subtype sorts before supertype", func(t *testing.T) {
		reg := NewRegistry(&Settings{
			ValueResolvers: map[reflect.Type]ValueResolver{
				animalType: marker("animal"),
				dogType:    marker("dog"),
			},
		})
		entries := reg.ValueResolvers()

		dogIdx, animalIdx := -1, -1
		for i, entry := range entries {
			switch entry.Key {
			case dogType:
				dogIdx = i
			case animalType:
				animalIdx = i
			}
		}
		require.GreaterOrEqual(t, dogIdx, 0)
		require.GreaterOrEqual(t, animalIdx, 0)
		assert.Less(t, dogIdx, animalIdx)
		assert.Equal(t, AnyType, entries[len(entries)-1].Key)
	})

	t.Run("dispatch prefers the most specific match", func(t *testing.T) {
		reg := NewRegistry(&Settings{
			ValueResolvers: map[reflect.Type]ValueResolver{
				animalType: marker("animal"),
				dogType:    marker("dog"),
			},
		})

		value, ok := reg.ResolveValue(dog{Name: "rex"}, "anything")
		require.True(t, ok)
		assert.Equal(t, "dog", value)

		// cat implements animal but has no resolver of its own.
		value, ok = reg.ResolveValue(cat{Name: "tom"}, "anything")
		require.True(t, ok)
		assert.Equal(t, "animal", value)
	})

	t.Run("ordering is deterministic across rebuilds", func(t *testing.T) {
		overrides := map[reflect.Type]ValueResolver{
			dogType:                 marker("dog"),
			reflect.TypeOf(cat{}):   marker("cat"),
			animalType:              marker("animal"),
			reflect.TypeOf(int(0)):  marker("int"),
			reflect.TypeOf(""):      marker("string"),
			reflect.TypeOf(0.0):     marker("float"),
			reflect.TypeOf(false):   marker("bool"),
			reflect.TypeOf([]int{}): marker("ints"),
		}
		first := NewRegistry(&Settings{ValueResolvers: overrides}).ValueResolvers()
		for i := 0; i < 16; i++ {
			again := NewRegistry(&Settings{ValueResolvers: overrides}).ValueResolvers()
			require.Len(t, again, len(first))
			for i := range first {
				assert.Equal(t, first[i].Key, again[i].Key)
			}
		}
	})

	t.Run("concrete slice key beats the sequence wildcard", func(t *testing.T) {
		reg := NewRegistry(&Settings{
			ValueResolvers: map[reflect.Type]ValueResolver{
				reflect.TypeOf([]int{}): marker("ints"),
			},
		})

		value, ok := reg.ResolveValue([]int{1, 2}, "0")
		require.True(t, ok)
		assert.Equal(t, "ints", value)

		// Other slice types still hit the built-in sequence resolver.
		value, ok = reg.ResolveValue([]string{"a", "b"}, "1")
		require.True(t, ok)
		assert.Equal(t, "b", value)
	})
}

func TestResolveValue_Sequence(t *testing.T) {
	reg := NewRegistry(nil)
	seq := []string{"zero", "one", "two"}

	t.Run("in-range index returns the element", func(t *testing.T) {
		value, ok := reg.ResolveValue(seq, "2")
		require.True(t, ok)
		assert.Equal(t, "two", value)
	})

	t.Run("out-of-range index is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(seq, "5")
		assert.False(t, ok)
	})

	t.Run("unparsable index is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(seq, "abc")
		assert.False(t, ok)
	})

	t.Run("negative index is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(seq, "-1")
		assert.False(t, ok)
	})

	t.Run("arrays resolve like slices", func(t *testing.T) {
		value, ok := reg.ResolveValue([3]int{7, 8, 9}, "0")
		require.True(t, ok)
		assert.Equal(t, 7, value)
	})
}

func TestResolveValue_Maps(t *testing.T) {
	reg := NewRegistry(nil)

	t.Run("string map round-trips", func(t *testing.T) {
		value, ok := reg.ResolveValue(map[string]any{"k": "v"}, "k")
		require.True(t, ok)
		assert.Equal(t, "v", value)
	})

	t.Run("absent key is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(map[string]any{"k": "v"}, "missing")
		assert.False(t, ok)
	})

	t.Run("typed string maps resolve", func(t *testing.T) {
		type label string
		value, ok := reg.ResolveValue(map[label]int{"n": 3}, "n")
		require.True(t, ok)
		assert.Equal(t, 3, value)
	})

	t.Run("any-keyed maps resolve by string key", func(t *testing.T) {
		value, ok := reg.ResolveValue(map[any]any{"k": 1, 2: "two"}, "k")
		require.True(t, ok)
		assert.Equal(t, 1, value)
	})

	t.Run("int-keyed maps cannot resolve string names", func(t *testing.T) {
		_, ok := reg.ResolveValue(map[int]string{2: "two"}, "2")
		assert.False(t, ok)
	})
}

func TestResolveValue_ReflectionFallback(t *testing.T) {
	reg := NewRegistry(nil)
	acct := account{region: region{Region: "eu"}, Owner: "ana", balance: 42}

	t.Run("exported field", func(t *testing.T) {
		value, ok := reg.ResolveValue(acct, "Owner")
		require.True(t, ok)
		assert.Equal(t, "ana", value)
	})

	t.Run("promoted field", func(t *testing.T) {
		value, ok := reg.ResolveValue(acct, "Region")
		require.True(t, ok)
		assert.Equal(t, "eu", value)
	})

	t.Run("zero-argument method", func(t *testing.T) {
		value, ok := reg.ResolveValue(acct, "Balance")
		require.True(t, ok)
		assert.Equal(t, 42, value)
	})

	t.Run("pointer-receiver method on a value", func(t *testing.T) {
		value, ok := reg.ResolveValue(acct, "PtrLabel")
		require.True(t, ok)
		assert.Equal(t, "ptr", value)
	})

	t.Run("pointer values resolve fields and methods", func(t *testing.T) {
		value, ok := reg.ResolveValue(&acct, "Owner")
		require.True(t, ok)
		assert.Equal(t, "ana", value)

		value, ok = reg.ResolveValue(&acct, "PtrLabel")
		require.True(t, ok)
		assert.Equal(t, "ptr", value)
	})

	t.Run("method requiring arguments is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(acct, "WithArg")
		assert.False(t, ok)
	})

	t.Run("unexported field is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(acct, "balance")
		assert.False(t, ok)
	})

	t.Run("ambiguous promoted field is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(ambiguous{}, "Twin")
		assert.False(t, ok)
	})

	t.Run("missing member is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(acct, "Nope")
		assert.False(t, ok)
	})

	t.Run("nil value is absent", func(t *testing.T) {
		_, ok := reg.ResolveValue(nil, "anything")
		assert.False(t, ok)
	})

	t.Run("nil pointer is absent", func(t *testing.T) {
		var p *account
		_, ok := reg.ResolveValue(p, "Owner")
		assert.False(t, ok)
	})
}

func TestResolveValue_FirstMatchIsFinal(t *testing.T) {
	// A type-matched resolver that reports absence ends the resolution; the
	// fallback is not retried even though it could resolve the member.
	reg := NewRegistry(&Settings{
		ValueResolvers: map[reflect.Type]ValueResolver{
			dogType: func(any, string) (any, bool) { return nil, false },
		},
	})

	_, ok := reg.ResolveValue(dog{Name: "rex"}, "Name")
	assert.False(t, ok)
}
