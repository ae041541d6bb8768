package stache

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdown struct{ From int }

func (c countdown) Kind() string { return "countdown" }

func TestEnumerationConverters(t *testing.T) {
	expand := func(v any) []any {
		c := v.(countdown)
		out := make([]any, 0, c.From)
		for i := c.From; i >= 1; i-- {
			out = append(out, i)
		}
		return out
	}

	t.Run("custom collections iterate in sections", func(t *testing.T) {
		engine := New(WithEnumerationConverter(reflect.TypeOf(countdown{}), expand))
		out := mustRender(t, engine, "{{#c}}{{.}} {{/c}}", map[string]any{"c": countdown{From: 3}})
		assert.Equal(t, "3 2 1 ", out)
	})

	t.Run("unconverted types still render as single frames", func(t *testing.T) {
		engine := New()
		out := mustRender(t, engine, "{{#c}}{{From}}{{/c}}", map[string]any{"c": countdown{From: 3}})
		assert.Equal(t, "3", out)
	})

	t.Run("specificity prefers the concrete key", func(t *testing.T) {
		reg := NewRegistry(&Settings{
			EnumerationConverters: map[reflect.Type]EnumerationConverter{
				reflect.TypeOf(countdown{}): func(any) []any { return []any{"concrete"} },
				animalType:                  func(any) []any { return []any{"interface"} },
			},
		})

		elements, ok := reg.EnumerateValue(countdown{From: 1})
		require.True(t, ok)
		assert.Equal(t, []any{"concrete"}, elements)

		// dog implements animal but has no concrete converter.
		elements, ok = reg.EnumerateValue(dog{})
		require.True(t, ok)
		assert.Equal(t, []any{"interface"}, elements)
	})

	t.Run("no converter means no enumeration", func(t *testing.T) {
		reg := NewRegistry(nil)
		_, ok := reg.EnumerateValue(countdown{From: 2})
		assert.False(t, ok)
	})

	t.Run("converters beat native slice iteration", func(t *testing.T) {
		engine := New(WithEnumerationConverter(reflect.TypeOf([]int{}), func(v any) []any {
			out := make([]any, 0)
			for _, n := range v.([]int) {
				if n%2 == 0 {
					out = append(out, n)
				}
			}
			return out
		}))
		out := mustRender(t, engine, "{{#nums}}{{.}}{{/nums}}", map[string]any{"nums": []int{1, 2, 3, 4}})
		assert.Equal(t, "24", out)
	})
}
