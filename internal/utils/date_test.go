package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 12, 10, 11, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-12-15", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"December 15, 2024", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"Dec 15, 2024", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"15 December 2024", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"15.12.2024", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-12-15T14:00:00", time.Date(2024, 12, 15, 14, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", time.Date(2024, 12, 11, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input, time.UTC, now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	t.Run("unrecognized input is an error", func(t *testing.T) {
		for _, input := range []string{"whenever", "", "next blursday", "15th-ish"} {
			_, err := ParseDate(input, time.UTC, now)
			assert.Error(t, err, "input %q", input)
		}
	})
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		input     string
		hour, min int
	}{
		{"14:00", 14, 0},
		{"09:30", 9, 30},
		{"2:00 PM", 14, 0},
		{"2:00pm", 14, 0},
		{"2 PM", 14, 0},
		{"11 AM", 11, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			hour, min, err := ParseClock(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
			assert.Equal(t, tt.min, min)
		})
	}

	t.Run("unrecognized input is an error", func(t *testing.T) {
		for _, input := range []string{"noonish", "", "25:00"} {
			_, _, err := ParseClock(input)
			assert.Error(t, err, "input %q", input)
		}
	})
}
