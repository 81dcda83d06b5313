package reputation_test

import (
	"testing"
	"time"

	"github.com/karmahq/repbot/internal/reputation"
	"github.com/stretchr/testify/assert"
)

// fakeClock returns a controllable clock for cooldown tests.
func fakeClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start

	clock := func() time.Time { return now }
	advance := func(d time.Duration) { now = now.Add(d) }

	return clock, advance
}

func TestCooldownTracker(t *testing.T) {
	t.Parallel()

	clock, advance := fakeClock(time.Unix(1000, 0))
	tracker := reputation.NewCooldownTracker(60*time.Second, clock)

	const giverID = uint64(42)

	// Givers that never granted are not on cooldown.
	assert.False(t, tracker.IsOnCooldown(giverID))
	assert.Equal(t, time.Duration(0), tracker.Remaining(giverID))

	tracker.RecordGrant(giverID)
	assert.True(t, tracker.IsOnCooldown(giverID))
	assert.Equal(t, 60*time.Second, tracker.Remaining(giverID))

	// One second before the window elapses the giver is still gated.
	advance(59 * time.Second)
	assert.True(t, tracker.IsOnCooldown(giverID))
	assert.Equal(t, time.Second, tracker.Remaining(giverID))

	// Exactly at the window boundary the cooldown has expired.
	advance(time.Second)
	assert.False(t, tracker.IsOnCooldown(giverID))
	assert.Equal(t, time.Duration(0), tracker.Remaining(giverID))
}

func TestCooldownTrackerIndependentGivers(t *testing.T) {
	t.Parallel()

	clock, _ := fakeClock(time.Unix(1000, 0))
	tracker := reputation.NewCooldownTracker(60*time.Second, clock)

	tracker.RecordGrant(1)

	assert.True(t, tracker.IsOnCooldown(1))
	assert.False(t, tracker.IsOnCooldown(2))
}

func TestCooldownTrackerRecordResetsWindow(t *testing.T) {
	t.Parallel()

	clock, advance := fakeClock(time.Unix(1000, 0))
	tracker := reputation.NewCooldownTracker(60*time.Second, clock)

	tracker.RecordGrant(1)
	advance(60 * time.Second)
	tracker.RecordGrant(1)

	assert.True(t, tracker.IsOnCooldown(1))
	assert.Equal(t, 60*time.Second, tracker.Remaining(1))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{
			name:     "zero",
			input:    0,
			expected: "0 seconds",
		},
		{
			name:     "partial seconds round up",
			input:    300 * time.Millisecond,
			expected: "1 second",
		},
		{
			name:     "seconds only",
			input:    45 * time.Second,
			expected: "45 seconds",
		},
		{
			name:     "one minute exactly",
			input:    time.Minute,
			expected: "1 minute",
		},
		{
			name:     "minutes and seconds",
			input:    2*time.Minute + 30*time.Second,
			expected: "2 minutes, 30 seconds",
		},
		{
			name:     "hours drop seconds",
			input:    time.Hour + 5*time.Minute + 10*time.Second,
			expected: "1 hour, 5 minutes",
		},
		{
			name:     "hours only",
			input:    2 * time.Hour,
			expected: "2 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, reputation.FormatDuration(tt.input))
		})
	}
}
