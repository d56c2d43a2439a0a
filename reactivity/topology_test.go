package reactivity_test

import (
	"fmt"
	"testing"

	"github.com/chibivue-land/chibivue/reactivity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failOnError(t *testing.T) *reactivity.ReactiveSystem {
	t.Helper()
	return reactivity.NewReactiveSystem(func(from reactivity.Source, err error) {
		assert.FailNow(t, err.Error())
	})
}

// should drop A->B->A updates
func TestTopologyDropAbaUpdates(t *testing.T) {
	rs := failOnError(t)

	//     A
	//   / |
	//  B  |
	//   \ |
	//     C
	//     |
	//     D
	a := reactivity.NewRef(rs, 2)
	b := reactivity.NewComputed(rs, func(oldValue int) int {
		return a.Value() - 1
	})
	c := reactivity.NewComputed(rs, func(oldValue int) int {
		return a.Value() + b.Value()
	})
	callCount := 0
	d := reactivity.NewComputed(rs, func(oldValue string) string {
		callCount++
		return fmt.Sprintf("d: %d", c.Value())
	})

	assert.Equal(t, "d: 3", d.Value())
	assert.Equal(t, 1, callCount)

	a.SetValue(4)
	d.Value()
	assert.Equal(t, 2, callCount)
}

// should only update every computed once on a diamond graph
func TestShouldOnlyUpdateEverySignalOnceDiamond(t *testing.T) {
	rs := failOnError(t)

	//     A
	//   /   \
	//  B     C
	//   \   /
	//     D
	a := reactivity.NewRef(rs, "a")
	b := reactivity.NewComputed(rs, func(oldValue string) string {
		return a.Value()
	})
	c := reactivity.NewComputed(rs, func(oldValue string) string {
		return a.Value()
	})

	callCount := 0
	d := reactivity.NewComputed(rs, func(oldValue string) string {
		callCount++
		return b.Value() + " " + c.Value()
	})

	assert.Equal(t, "a a", d.Value())
	assert.Equal(t, 1, callCount)
	callCount = 0

	a.SetValue("aa")
	assert.Equal(t, "aa aa", d.Value())
	assert.Equal(t, 1, callCount)
}

// should only update every computed once on a diamond graph with a tail
func TestShouldOnlyUpdateEverySignalOnceDiamondTail(t *testing.T) {
	rs := failOnError(t)

	//     A
	//   /   \
	//  B     C
	//   \   /
	//     D
	//     |
	//     E
	a := reactivity.NewRef(rs, "a")
	b := reactivity.NewComputed(rs, func(oldValue string) string {
		return a.Value()
	})
	c := reactivity.NewComputed(rs, func(oldValue string) string {
		return a.Value()
	})
	d := reactivity.NewComputed(rs, func(oldValue string) string {
		return b.Value() + " " + c.Value()
	})

	eCallCount := 0
	e := reactivity.NewComputed(rs, func(oldValue string) string {
		eCallCount++
		return d.Value()
	})

	assert.Equal(t, "a a", e.Value())
	assert.Equal(t, 1, eCallCount)

	a.SetValue("aa")
	assert.Equal(t, "aa aa", e.Value())
	assert.Equal(t, 2, eCallCount)
}

// should bail out if the intermediate result never changes
func TestBailOutIfResultIsTheSame(t *testing.T) {
	rs := failOnError(t)

	// A->B->C, B pins its value
	a := reactivity.NewRef(rs, "a")
	b := reactivity.NewComputed(rs, func(oldValue string) string {
		a.Value()
		return "foo"
	})

	callCount := 0
	c := reactivity.NewComputed(rs, func(oldValue string) string {
		callCount++
		return b.Value()
	})

	assert.Equal(t, "foo", c.Value())
	assert.Equal(t, 1, callCount)

	a.SetValue("aa")
	assert.Equal(t, "foo", c.Value())
	assert.Equal(t, 1, callCount)
}

// should not recompute computeds nobody listens to
func TestShouldOnlySubscribeToSignalsListenedTo(t *testing.T) {
	rs := failOnError(t)

	//    *A
	//   /   \
	// *B     C <- we don't listen to C
	a := reactivity.NewRef(rs, "a")
	b := reactivity.NewComputed(rs, func(oldValue string) string {
		return a.Value()
	})
	callCount := 0
	reactivity.NewComputed(rs, func(oldValue string) string {
		callCount++
		return a.Value()
	})

	assert.Equal(t, "a", b.Value())
	assert.Equal(t, 0, callCount)

	a.SetValue("aa")
	assert.Equal(t, "aa", b.Value())
	assert.Equal(t, 0, callCount)
}

// a lazy computed whose inputs never change must run its getter at most once
func TestLazyComputedRunsGetterOnce(t *testing.T) {
	rs := failOnError(t)

	a := reactivity.NewRef(rs, 10)
	callCount := 0
	c := reactivity.NewComputed(rs, func(oldValue int) int {
		callCount++
		return a.Value() * 2
	})

	for i := 0; i < 5; i++ {
		require.Equal(t, 20, c.Value())
	}
	assert.Equal(t, 1, callCount)
}

// dirty propagation reaches everything transitively downstream of a write
func TestDirtyPropagationReachesTransitiveSubscribers(t *testing.T) {
	rs := failOnError(t)

	a := reactivity.NewRef(rs, 1)
	b := reactivity.NewComputed(rs, func(oldValue int) int {
		return a.Value() + 1
	})
	c := reactivity.NewComputed(rs, func(oldValue int) int {
		return b.Value() + 1
	})
	effectRuns := 0
	observed := 0
	reactivity.NewEffect(rs, func() error {
		effectRuns++
		observed = c.Value()
		return nil
	})

	require.Equal(t, 3, observed)
	a.SetValue(5)
	assert.Equal(t, 2, effectRuns)
	assert.Equal(t, 7, observed)
	assert.Equal(t, 7, c.Value())
}
