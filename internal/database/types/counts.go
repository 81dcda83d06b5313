package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// CountSet maps IDs to non-negative counts while remembering the order in
// which IDs were first added. The JSON form is a plain object with decimal
// string keys, and key order round-trips through marshal/unmarshal so that
// count ties keep a stable order across read-modify-write cycles.
type CountSet struct {
	ids    []uint64
	counts map[uint64]int64
}

// Get returns the count for an ID, zero if the ID is not present.
func (s *CountSet) Get(id uint64) int64 {
	return s.counts[id]
}

// Len returns the number of IDs in the set.
func (s *CountSet) Len() int {
	return len(s.ids)
}

// IDs returns the IDs in first-added order. The returned slice is shared and
// must not be mutated by callers.
func (s *CountSet) IDs() []uint64 {
	return s.ids
}

// Increment adds one to the count for an ID, creating the entry if absent.
func (s *CountSet) Increment(id uint64) {
	if s.counts == nil {
		s.counts = make(map[uint64]int64)
	}

	if _, ok := s.counts[id]; !ok {
		s.ids = append(s.ids, id)
	}

	s.counts[id]++
}

// Decrement removes one from the count for an ID, floored at zero.
// It reports whether a point was actually removed. The entry stays in the
// set at zero rather than being pruned.
func (s *CountSet) Decrement(id uint64) bool {
	if s.counts[id] <= 0 {
		return false
	}

	s.counts[id]--

	return true
}

// MarshalJSON writes the set as a JSON object in first-added key order.
func (s CountSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, id := range s.ids {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(id, 10))
		buf.WriteString(`":`)
		buf.WriteString(strconv.FormatInt(s.counts[id], 10))
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording keys in document order.
func (s *CountSet) UnmarshalJSON(data []byte) error {
	s.ids = nil
	s.counts = make(map[uint64]int64)

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read count set object: %w", err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read count set key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected count set key token: %v", keyTok)
		}

		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid count set key %q: %w", key, err)
		}

		var count int64
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("failed to decode count for %q: %w", key, err)
		}

		if _, exists := s.counts[id]; !exists {
			s.ids = append(s.ids, id)
		}

		s.counts[id] = count
	}

	return nil
}

// ChannelPoints is one entry of a user's per-channel breakdown.
type ChannelPoints struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// ChannelBreakdown maps channel IDs to per-channel points with the same
// order-preserving JSON behavior as CountSet.
type ChannelBreakdown struct {
	ids     []uint64
	entries map[uint64]ChannelPoints
}

// Get returns the entry for a channel and whether it exists.
func (b *ChannelBreakdown) Get(channelID uint64) (ChannelPoints, bool) {
	entry, ok := b.entries[channelID]
	return entry, ok
}

// Len returns the number of channels in the breakdown.
func (b *ChannelBreakdown) Len() int {
	return len(b.ids)
}

// IDs returns the channel IDs in first-added order. The returned slice is
// shared and must not be mutated by callers.
func (b *ChannelBreakdown) IDs() []uint64 {
	return b.ids
}

// Add increments a channel's count, creating the entry if absent. The stored
// channel name is refreshed to the supplied value either way, since channels
// can be renamed between grants.
func (b *ChannelBreakdown) Add(channelID uint64, name string) {
	if b.entries == nil {
		b.entries = make(map[uint64]ChannelPoints)
	}

	entry, ok := b.entries[channelID]
	if !ok {
		b.ids = append(b.ids, channelID)
	}

	entry.Name = name
	entry.Count++
	b.entries[channelID] = entry
}

// Decrement removes one from a channel's count, floored at zero.
// It reports whether a point was actually removed.
func (b *ChannelBreakdown) Decrement(channelID uint64) bool {
	entry, ok := b.entries[channelID]
	if !ok || entry.Count <= 0 {
		return false
	}

	entry.Count--
	b.entries[channelID] = entry

	return true
}

// MarshalJSON writes the breakdown as a JSON object in first-added key order.
func (b ChannelBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, id := range b.ids {
		if i > 0 {
			buf.WriteByte(',')
		}

		entry, err := json.Marshal(b.entries[id])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal channel entry %d: %w", id, err)
		}

		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(id, 10))
		buf.WriteString(`":`)
		buf.Write(entry)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object, recording keys in document order.
func (b *ChannelBreakdown) UnmarshalJSON(data []byte) error {
	b.ids = nil
	b.entries = make(map[uint64]ChannelPoints)

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read channel breakdown object: %w", err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read channel breakdown key: %w", err)
		}

		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected channel breakdown key token: %v", keyTok)
		}

		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid channel breakdown key %q: %w", key, err)
		}

		var entry ChannelPoints
		if err := dec.Decode(&entry); err != nil {
			return fmt.Errorf("failed to decode channel entry %q: %w", key, err)
		}

		if _, exists := b.entries[id]; !exists {
			b.ids = append(b.ids, id)
		}

		b.entries[id] = entry
	}

	return nil
}
