package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindows(t *testing.T) {
	tests := []struct {
		name     string
		hours    OperatingHours
		expected []TimeWindow
	}{
		{
			name:     "closed day has no windows",
			hours:    OperatingHours{OpenTime: "09:00", CloseTime: "18:00", IsClosed: true},
			expected: nil,
		},
		{
			name:     "regular day is a single window",
			hours:    OperatingHours{OpenTime: "09:00", CloseTime: "18:00"},
			expected: []TimeWindow{{StartMinute: 540, EndMinute: 1080}},
		},
		{
			name:     "equal open and close means open 24 hours",
			hours:    OperatingHours{OpenTime: "10:00", CloseTime: "10:00"},
			expected: []TimeWindow{{StartMinute: 0, EndMinute: 1440}},
		},
		{
			name:     "midnight open and close means open 24 hours",
			hours:    OperatingHours{OpenTime: "00:00", CloseTime: "00:00"},
			expected: []TimeWindow{{StartMinute: 0, EndMinute: 1440}},
		},
		{
			name:  "close before open wraps past midnight into two windows",
			hours: OperatingHours{OpenTime: "22:00", CloseTime: "02:00"},
			expected: []TimeWindow{
				{StartMinute: 1320, EndMinute: 1440},
				{StartMinute: 0, EndMinute: 120},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windows, err := tt.hours.Windows()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, windows)
		})
	}
}

func TestWindowsInvalidTime(t *testing.T) {
	_, err := OperatingHours{OpenTime: "9am", CloseTime: "18:00"}.Windows()
	assert.Error(t, err)
}

func TestResolveWindows(t *testing.T) {
	hours := []OperatingHours{
		{DayOfWeek: 1, Category: GeneralCategory, OpenTime: "09:00", CloseTime: "18:00"},
		{DayOfWeek: 1, Category: "barbering", OpenTime: "10:00", CloseTime: "16:00"},
		{DayOfWeek: 2, Category: GeneralCategory, OpenTime: "09:00", CloseTime: "12:00", IsClosed: true},
	}

	t.Run("category row wins over general", func(t *testing.T) {
		windows, err := ResolveWindows(hours, 1, "barbering")
		require.NoError(t, err)
		assert.Equal(t, []TimeWindow{{StartMinute: 600, EndMinute: 960}}, windows)
	})

	t.Run("unknown category falls back to general", func(t *testing.T) {
		windows, err := ResolveWindows(hours, 1, "spa")
		require.NoError(t, err)
		assert.Equal(t, []TimeWindow{{StartMinute: 540, EndMinute: 1080}}, windows)
	})

	t.Run("closed general row means closed", func(t *testing.T) {
		windows, err := ResolveWindows(hours, 2, "spa")
		require.NoError(t, err)
		assert.Empty(t, windows)
	})

	t.Run("no row for the day means closed", func(t *testing.T) {
		windows, err := ResolveWindows(hours, 5, "barbering")
		require.NoError(t, err)
		assert.Empty(t, windows)
	})
}

func TestTimeWindowContains(t *testing.T) {
	w := TimeWindow{StartMinute: 540, EndMinute: 1080}

	assert.True(t, w.Contains(540, 600))
	assert.True(t, w.Contains(1020, 1080))
	assert.False(t, w.Contains(500, 560))
	assert.False(t, w.Contains(1050, 1110))
}

func TestTotalOpenMinutes(t *testing.T) {
	windows := []TimeWindow{
		{StartMinute: 1320, EndMinute: 1440},
		{StartMinute: 0, EndMinute: 120},
	}
	assert.Equal(t, 240, TotalOpenMinutes(windows))
	assert.Equal(t, 0, TotalOpenMinutes(nil))
}
