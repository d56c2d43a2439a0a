package reactivity_test

import (
	"testing"

	"github.com/chibivue-land/chibivue/reactivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repeated Reactive calls on the same target return the same wrapper
func TestReactiveIdentityStable(t *testing.T) {
	rs := failOnError(t)
	raw := map[string]any{"x": 1}

	a := reactivity.Reactive(rs, raw)
	b := reactivity.Reactive(rs, raw)
	assert.Same(t, a, b)

	// wrapping a wrapper is a no-op
	c := reactivity.Reactive(rs, a)
	assert.Same(t, a, c)
}

// non-container values are returned unwrapped
func TestReactiveExclusion(t *testing.T) {
	rs := failOnError(t)

	type widget struct{ id int }
	w := &widget{id: 1}

	assert.Same(t, w, reactivity.Reactive(rs, w).(*widget))
	assert.Equal(t, 42, reactivity.Reactive(rs, 42))
	assert.Equal(t, "s", reactivity.Reactive(rs, "s"))
}

// per-key reads only re-run effects for the key that changed
func TestStorePerKeyTracking(t *testing.T) {
	rs := failOnError(t)
	s := reactivity.Reactive(rs, map[string]any{"a": 1, "b": 2}).(*reactivity.Store)

	aRuns := 0
	reactivity.NewEffect(rs, func() error {
		aRuns++
		s.Get("a")
		return nil
	})

	s.Set("b", 20)
	assert.Equal(t, 1, aRuns)

	s.Set("a", 10)
	assert.Equal(t, 2, aRuns)

	// same value write is a no-op
	s.Set("a", 10)
	assert.Equal(t, 2, aRuns)
}

// key enumeration observers hear about additions and removals
func TestStoreIterationDep(t *testing.T) {
	rs := failOnError(t)
	s := reactivity.Reactive(rs, map[string]any{"a": 1}).(*reactivity.Store)

	var keys []string
	runs := 0
	reactivity.NewEffect(rs, func() error {
		runs++
		keys = s.Keys()
		return nil
	})
	require.Equal(t, []string{"a"}, keys)

	// changing an existing value doesn't touch the key set
	s.Set("a", 2)
	assert.Equal(t, 1, runs)

	s.Set("b", 1)
	require.Equal(t, 2, runs)
	require.Equal(t, []string{"a", "b"}, keys)

	s.Delete("a")
	require.Equal(t, 3, runs)
	assert.Equal(t, []string{"b"}, keys)
}

// nested containers wrap lazily and stay reactive
func TestStoreNestedWrap(t *testing.T) {
	rs := failOnError(t)
	s := reactivity.Reactive(rs, map[string]any{
		"inner": map[string]any{"n": 1},
	}).(*reactivity.Store)

	got := 0
	reactivity.NewEffect(rs, func() error {
		got = s.Get("inner").(*reactivity.Store).Get("n").(int)
		return nil
	})
	require.Equal(t, 1, got)

	s.Get("inner").(*reactivity.Store).Set("n", 5)
	assert.Equal(t, 5, got)
}

// list length observers hear about structural changes
func TestListLengthDep(t *testing.T) {
	rs := failOnError(t)
	l := reactivity.Reactive(rs, []any{"a", "b"}).(*reactivity.List)

	length := 0
	runs := 0
	reactivity.NewEffect(rs, func() error {
		runs++
		length = l.Len()
		return nil
	})
	require.Equal(t, 2, length)

	// in-range writes don't change the length
	l.Set(1, "B")
	assert.Equal(t, 1, runs)

	l.Append("c")
	require.Equal(t, 2, runs)
	require.Equal(t, 3, length)

	// writing past the end grows the list
	l.Set(5, "f")
	require.Equal(t, 3, runs)
	assert.Equal(t, 6, length)

	l.SetLen(1)
	require.Equal(t, 4, runs)
	assert.Equal(t, 1, length)
}

// per-index reads re-run only when that index changes
func TestListIndexTracking(t *testing.T) {
	rs := failOnError(t)
	l := reactivity.Reactive(rs, []any{10, 20}).(*reactivity.List)

	first := 0
	runs := 0
	reactivity.NewEffect(rs, func() error {
		runs++
		first = l.Get(0).(int)
		return nil
	})
	require.Equal(t, 10, first)

	l.Set(1, 200)
	assert.Equal(t, 1, runs)

	l.Set(0, 100)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 100, first)
}
