package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hack Day", "hack-day"},
		{"  Robotics   Club ", "robotics-club"},
		{"Inter-IIT Tech Meet", "inter-iit-tech-meet"},
		{"", ""},
		{"---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestUniqueIDAppendsCounter(t *testing.T) {
	taken := map[string]bool{"hack-day": true, "hack-day-2": true}
	id, err := uniqueID(context.Background(), "Hack Day", func(_ context.Context, id string) (bool, error) {
		return taken[id], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hack-day-3", id)
}

func TestUniqueIDFallsBackToRandom(t *testing.T) {
	id, err := uniqueID(context.Background(), "!!!", func(context.Context, string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Len(t, id, 8)
}

func TestClockTouchIsStrictlyIncreasing(t *testing.T) {
	fixed := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	clock := Clock(func() time.Time { return fixed })

	next := clock.touch(fixed)
	assert.True(t, next.After(fixed))
	assert.Equal(t, fixed.Add(time.Microsecond), next)

	later := Clock(func() time.Time { return fixed.Add(time.Hour) })
	assert.Equal(t, fixed.Add(time.Hour), later.touch(fixed))
}
