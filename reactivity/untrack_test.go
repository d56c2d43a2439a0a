package reactivity_test

import (
	"testing"

	"github.com/chibivue-land/chibivue/reactivity"
	"github.com/stretchr/testify/assert"
)

// should pause tracking
func TestShouldPauseTracking(t *testing.T) {
	rs := failOnError(t)

	src := reactivity.NewRef(rs, 0)
	c := reactivity.NewComputed(rs, func(oldValue int) int {
		rs.PauseTracking()
		value := src.Value()
		rs.ResumeTracking()
		return value
	})
	assert.Equal(t, 0, c.Value())

	src.SetValue(1)
	assert.Equal(t, 0, c.Value())
}

// Untracked reads create no dependency edges
func TestUntrackedHelper(t *testing.T) {
	rs := failOnError(t)

	tracked := reactivity.NewRef(rs, 1)
	ignored := reactivity.NewRef(rs, 100)

	runs := 0
	total := 0
	reactivity.NewEffect(rs, func() error {
		runs++
		total = tracked.Value() + reactivity.Untracked(rs, ignored.Value)
		return nil
	})
	assert.Equal(t, 101, total)

	ignored.SetValue(200)
	assert.Equal(t, 1, runs)

	tracked.SetValue(2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 202, total)
}
