package types_test

import (
	"encoding/json"
	"testing"

	"github.com/karmahq/repbot/internal/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountSetIncrementDecrement(t *testing.T) {
	t.Parallel()

	var set types.CountSet

	set.Increment(100)
	set.Increment(100)
	set.Increment(200)

	assert.Equal(t, int64(2), set.Get(100))
	assert.Equal(t, int64(1), set.Get(200))
	assert.Equal(t, 2, set.Len())

	assert.True(t, set.Decrement(100))
	assert.Equal(t, int64(1), set.Get(100))

	// Floors at zero instead of going negative.
	assert.True(t, set.Decrement(200))
	assert.False(t, set.Decrement(200))
	assert.Equal(t, int64(0), set.Get(200))

	// Zeroed entries stay in the set.
	assert.Equal(t, 2, set.Len())

	// Unknown IDs are never decremented.
	assert.False(t, set.Decrement(999))
}

func TestCountSetJSONOrder(t *testing.T) {
	t.Parallel()

	var set types.CountSet

	set.Increment(30)
	set.Increment(10)
	set.Increment(20)
	set.Increment(10)

	data, err := json.Marshal(set)
	require.NoError(t, err)

	// Keys must serialize in first-added order, not numeric order.
	assert.Equal(t, `{"30":1,"10":2,"20":1}`, string(data))

	var decoded types.CountSet
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []uint64{30, 10, 20}, decoded.IDs())
	assert.Equal(t, int64(2), decoded.Get(10))

	// Order survives a full marshal/unmarshal cycle.
	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestCountSetUnmarshalNull(t *testing.T) {
	t.Parallel()

	var set types.CountSet

	require.NoError(t, json.Unmarshal([]byte("null"), &set))
	assert.Equal(t, 0, set.Len())
}

func TestChannelBreakdownAdd(t *testing.T) {
	t.Parallel()

	var breakdown types.ChannelBreakdown

	breakdown.Add(1, "general")
	breakdown.Add(2, "help")
	breakdown.Add(1, "general-chat")

	entry, ok := breakdown.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(2), entry.Count)

	// Channel renames take effect on the next grant.
	assert.Equal(t, "general-chat", entry.Name)

	assert.Equal(t, []uint64{1, 2}, breakdown.IDs())
}

func TestChannelBreakdownDecrement(t *testing.T) {
	t.Parallel()

	var breakdown types.ChannelBreakdown

	breakdown.Add(1, "general")

	assert.True(t, breakdown.Decrement(1))
	assert.False(t, breakdown.Decrement(1))

	entry, ok := breakdown.Get(1)
	require.True(t, ok)
	assert.Equal(t, int64(0), entry.Count)

	assert.False(t, breakdown.Decrement(42))
}

func TestChannelBreakdownJSONOrder(t *testing.T) {
	t.Parallel()

	var breakdown types.ChannelBreakdown

	breakdown.Add(500, "later")
	breakdown.Add(100, "earlier")

	data, err := json.Marshal(breakdown)
	require.NoError(t, err)
	assert.Equal(t, `{"500":{"name":"later","count":1},"100":{"name":"earlier","count":1}}`, string(data))

	var decoded types.ChannelBreakdown
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, []uint64{500, 100}, decoded.IDs())

	entry, ok := decoded.Get(100)
	require.True(t, ok)
	assert.Equal(t, "earlier", entry.Name)
	assert.Equal(t, int64(1), entry.Count)
}
