package reputation_test

import (
	"testing"

	"github.com/karmahq/repbot/internal/reputation"
	"github.com/stretchr/testify/assert"
)

func TestTriggerDetectorMatch(t *testing.T) {
	t.Parallel()

	detector := reputation.NewTriggerDetector([]string{"thanks", "ty", "thank you"})

	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{
			name:     "plain trigger word",
			content:  "ty for the help",
			expected: true,
		},
		{
			name:     "case insensitive",
			content:  "THANKS a lot",
			expected: true,
		},
		{
			name:     "multi word phrase",
			content:  "thank you so much",
			expected: true,
		},
		{
			name:     "trigger at end",
			content:  "really, thanks",
			expected: true,
		},
		{
			name:     "punctuation boundary",
			content:  "thanks! that fixed it",
			expected: true,
		},
		{
			name:     "substring does not match",
			content:  "I went to a party",
			expected: false,
		},
		{
			name:     "prefix does not match",
			content:  "typical behavior",
			expected: false,
		},
		{
			name:     "suffix does not match",
			content:  "empty",
			expected: false,
		},
		{
			name:     "no trigger",
			content:  "hello there",
			expected: false,
		},
		{
			name:     "empty content",
			content:  "",
			expected: false,
		},
		{
			name:     "later occurrence matches after rejected one",
			content:  "typical, but ty anyway",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, detector.Match(tt.content))
		})
	}
}

func TestTriggerDetectorNormalizesConfig(t *testing.T) {
	t.Parallel()

	detector := reputation.NewTriggerDetector([]string{"  THANKS  ", ""})

	assert.True(t, detector.Match("thanks"))
	assert.False(t, detector.Match("some unrelated text"))
}
