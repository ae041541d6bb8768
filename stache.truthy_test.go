package stache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthyChain(t *testing.T) {
	yesCheck := func(v any) (bool, bool) {
		if s, ok := v.(string); ok && s == "yes" {
			return true, true
		}
		return false, false
	}

	t.Run("first determined answer wins", func(t *testing.T) {
		reg := NewRegistry(&Settings{TruthyChecks: []TruthyCheck{yesCheck}})

		truthy, determined := reg.CheckTruthy("yes")
		assert.True(t, determined)
		assert.True(t, truthy)
	})

	t.Run("undetermined chain defers to the built-in rule", func(t *testing.T) {
		reg := NewRegistry(&Settings{TruthyChecks: []TruthyCheck{yesCheck}})

		_, determined := reg.CheckTruthy("no")
		assert.False(t, determined)

		// The renderer's built-in rule decides: non-empty strings are truthy.
		engine := NewWithRegistry(reg, nil)
		out := mustRender(t, engine, "{{#f}}Y{{/f}}", map[string]any{"f": "no"})
		assert.Equal(t, "Y", out)
	})

	t.Run("chain can flip built-in truthiness", func(t *testing.T) {
		noIsFalse := func(v any) (bool, bool) {
			if s, ok := v.(string); ok && s == "no" {
				return false, true
			}
			return false, false
		}
		engine := New(WithTruthyChecks(noIsFalse))

		out := mustRender(t, engine, "{{#f}}Y{{/f}}", map[string]any{"f": "no"})
		assert.Equal(t, "", out)

		out = mustRender(t, engine, "{{^f}}N{{/f}}", map[string]any{"f": "no"})
		assert.Equal(t, "N", out)
	})

	t.Run("later checks run only when earlier are undetermined", func(t *testing.T) {
		var consulted []int
		first := func(v any) (bool, bool) {
			consulted = append(consulted, 1)
			return true, v == "stop"
		}
		second := func(v any) (bool, bool) {
			consulted = append(consulted, 2)
			return false, false
		}
		reg := NewRegistry(&Settings{TruthyChecks: []TruthyCheck{first, second}})

		reg.CheckTruthy("stop")
		require.Equal(t, []int{1}, consulted)

		consulted = nil
		reg.CheckTruthy("go")
		require.Equal(t, []int{1, 2}, consulted)
	})
}

func TestBuiltinTruthy(t *testing.T) {
	falsy := []any{nil, false, "", 0, int64(0), uint(0), 0.0, []any{}, map[string]any{}, (*int)(nil)}
	for _, v := range falsy {
		assert.False(t, builtinTruthy(v), "%#v should be falsy", v)
	}

	truthy := []any{true, "x", 1, -1, 0.5, []any{0}, map[string]any{"k": 0}, struct{}{}}
	for _, v := range truthy {
		assert.True(t, builtinTruthy(v), "%#v should be truthy", v)
	}
}
