package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayStartAndEnd(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	moment := time.Date(2026, 3, 4, 18, 45, 12, 0, loc)

	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, loc), DayStart(moment, loc))
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, loc), DayEnd(moment, loc))
}

func TestDayStartConvertsZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	// 23:00 UTC это уже следующий день в Маниле (UTC+8)
	utcEvening := time.Date(2026, 3, 4, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, loc), DayStart(utcEvening, loc))
}

func TestDayOffset(t *testing.T) {
	loc := time.UTC
	base := time.Date(2026, 3, 4, 8, 0, 0, 0, loc)

	assert.Equal(t, 0, DayOffset(base, base.Add(2*time.Hour), loc))
	assert.Equal(t, 1, DayOffset(base, base.AddDate(0, 0, 1), loc))
	assert.Equal(t, -2, DayOffset(base, base.AddDate(0, 0, -2), loc))
	// Смена дня определяется календарём, а не 24-часовыми интервалами
	assert.Equal(t, 1, DayOffset(base, time.Date(2026, 3, 5, 0, 30, 0, 0, loc), loc))
}

func TestDayOffsetAcrossDSTTransition(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2026-03-29 в Берлине длится 23 часа (переход на летнее время):
	// между полуночами 28-го и 30-го всего 47 часов, но календарных
	// дней по-прежнему два
	before := time.Date(2026, 3, 28, 10, 0, 0, 0, berlin)
	after := time.Date(2026, 3, 30, 10, 0, 0, 0, berlin)
	assert.Equal(t, 2, DayOffset(before, after, berlin))
	assert.Equal(t, -2, DayOffset(after, before, berlin))

	// Осенний переход: 25-часовые сутки тоже считаются за один день
	octBefore := time.Date(2026, 10, 24, 10, 0, 0, 0, berlin)
	octAfter := time.Date(2026, 10, 26, 10, 0, 0, 0, berlin)
	assert.Equal(t, 2, DayOffset(octBefore, octAfter, berlin))
}

func TestSameDay(t *testing.T) {
	loc := time.UTC
	a := time.Date(2026, 3, 4, 0, 1, 0, 0, loc)
	b := time.Date(2026, 3, 4, 23, 59, 0, 0, loc)

	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b.Add(2*time.Minute), loc))
}

func TestAtMinute(t *testing.T) {
	loc := time.UTC
	day := time.Date(2026, 3, 4, 15, 30, 0, 0, loc) // время внутри дня игнорируется

	assert.Equal(t, time.Date(2026, 3, 4, 10, 30, 0, 0, loc), AtMinute(day, 630, loc))
	// Минута за пределами дня переходит на следующий день
	assert.Equal(t, time.Date(2026, 3, 5, 0, 30, 0, 0, loc), AtMinute(day, 1470, loc))
}

func TestMinuteOfDay(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, 630, MinuteOfDay(time.Date(2026, 3, 4, 10, 30, 0, 0, loc), loc))
	assert.Equal(t, 0, MinuteOfDay(time.Date(2026, 3, 4, 0, 0, 59, 0, loc), loc))
}
