package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestArrivalTracker(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewArrivalTracker(15 * time.Second)
	tracker.now = func() time.Time { return now }

	// baseline tidak pernah di-highlight
	assert.Empty(t, tracker.Observe([]uint{1, 2}))

	assert.Equal(t, []uint{3}, tracker.Observe([]uint{1, 2, 3}))

	now = now.Add(5 * time.Second)
	assert.Equal(t, []uint{3, 4}, tracker.Observe([]uint{1, 3, 4}))

	now = now.Add(11 * time.Second)
	assert.Equal(t, []uint{4}, tracker.Observe([]uint{1, 3, 4}), "order 3 highlight expired")

	// order yang hilang dari layar tidak lagi di-highlight
	assert.Empty(t, tracker.Observe([]uint{1}))

	tracker.Reset()
	assert.Empty(t, tracker.Observe([]uint{1, 9}))
}
