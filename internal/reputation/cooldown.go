package reputation

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// CooldownTracker remembers when each giver last granted a point and gates
// further grants until the configured window has elapsed. Entries live in
// process memory for the process lifetime; there is no persistence and no
// eviction. Different givers' entries are independent, so a single mutex
// over the map is enough.
type CooldownTracker struct {
	mu     sync.Mutex
	window time.Duration
	last   map[uint64]time.Time
	clock  func() time.Time
}

// NewCooldownTracker creates a tracker with the given window. A nil clock
// defaults to time.Now; tests inject their own to control time.
func NewCooldownTracker(window time.Duration, clock func() time.Time) *CooldownTracker {
	if clock == nil {
		clock = time.Now
	}

	return &CooldownTracker{
		window: window,
		last:   make(map[uint64]time.Time),
		clock:  clock,
	}
}

// IsOnCooldown reports whether the giver granted a point less than the
// window ago. Givers that never granted are never on cooldown.
func (t *CooldownTracker) IsOnCooldown(giverID uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[giverID]
	if !ok {
		return false
	}

	return t.clock().Sub(last) < t.window
}

// Remaining returns how long the giver must still wait, zero when the
// cooldown has expired or the giver never granted.
func (t *CooldownTracker) Remaining(giverID uint64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.last[giverID]
	if !ok {
		return 0
	}

	remaining := t.window - t.clock().Sub(last)
	if remaining < 0 {
		return 0
	}

	return remaining
}

// RecordGrant overwrites the giver's last-grant timestamp unconditionally.
func (t *CooldownTracker) RecordGrant(giverID uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last[giverID] = t.clock()
}

// FormatDuration renders a duration as a human string, largest unit first:
// hours and minutes when present, seconds only when there are no hours.
// Partial seconds round up so a nearly-expired cooldown still reads
// "1 second" rather than disappearing.
func FormatDuration(d time.Duration) string {
	total := int((d + time.Second - 1) / time.Second)
	if total <= 0 {
		return "0 seconds"
	}

	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string

	if hours > 0 {
		parts = append(parts, pluralize(hours, "hour"))
	}

	if minutes > 0 {
		parts = append(parts, pluralize(minutes, "minute"))
	}

	if seconds > 0 && hours == 0 {
		parts = append(parts, pluralize(seconds, "second"))
	}

	if len(parts) == 0 {
		return "0 seconds"
	}

	return strings.Join(parts, ", ")
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}
