package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringMinutesOfDay(t *testing.T) {
	minutes, err := TimeString("10:30").MinutesOfDay()
	require.NoError(t, err)
	assert.Equal(t, 630, minutes)

	_, err = TimeString("24:00").MinutesOfDay()
	assert.Error(t, err)

	_, err = TimeString("1030").MinutesOfDay()
	assert.Error(t, err)
}

func TestTimeStringAddMinutes(t *testing.T) {
	ts, err := TimeString("23:00").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:45"), ts)

	// Переход за полночь внутри одного дня невозможен
	_, err = TimeString("23:00").AddMinutes(90)
	assert.Error(t, err)
}

func TestTimeStringOrdering(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("18:00"))
	assert.False(t, TimeString("18:00").IsBefore("09:00"))
	assert.True(t, TimeString("18:00").IsAfter("09:00"))
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	// PostgreSQL отдаёт TIME как HH:MM:SS — секунды отбрасываются
	require.NoError(t, ts.Scan("10:30:00"))
	assert.Equal(t, TimeString("10:30"), ts)

	require.NoError(t, ts.Scan([]byte("09:15")))
	assert.Equal(t, TimeString("09:15"), ts)
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 3, 4, 7, 5, 0, 0, time.UTC))
	assert.Equal(t, TimeString("07:05"), ts)
	assert.NoError(t, ts.Validate())
}
