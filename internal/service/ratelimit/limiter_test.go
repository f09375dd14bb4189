package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowConsumesAndRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("10.0.0.1", 2, 1))
	assert.True(t, l.Allow("10.0.0.1", 2, 1))
	assert.False(t, l.Allow("10.0.0.1", 2, 1))
	assert.True(t, l.Allow("10.0.0.2", 2, 1), "buckets are per key")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1", 2, 1))
	assert.False(t, l.Allow("10.0.0.1", 2, 1))
}

func TestPrune(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return now }
	l.Allow("a", 1, 1)
	now = now.Add(time.Hour)
	l.Allow("b", 1, 1)

	assert.Equal(t, 1, l.Prune(10*time.Minute))
	assert.Len(t, l.m, 1)
}
