package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaTracker(t *testing.T) {
	dt := NewDeltaTracker(3)
	assert.Zero(t, dt.Max())

	dt.Observe(0, 0.5)
	dt.Observe(1, 2.0)
	dt.Observe(1, 1.0) // smaller than the cell's maximum, ignored
	dt.Observe(2, 0.1)
	assert.Equal(t, 2.0, dt.Max())

	dt.Reset()
	assert.Zero(t, dt.Max())

	dt.Observe(2, 0.25)
	assert.Equal(t, 0.25, dt.Max())
}
