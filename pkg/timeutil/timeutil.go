// Package timeutil содержит утилиты для работы с календарными днями
// в фиксированном гражданском часовом поясе. Все функции чистые:
// текущее время всегда передаётся параметром, wall clock не читается.
package timeutil

import "time"

// DayStart возвращает начало календарного дня (00:00) в указанном поясе.
func DayStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayEnd возвращает начало следующего календарного дня.
// Интервал дня полуоткрытый: [DayStart, DayEnd).
func DayEnd(t time.Time, loc *time.Location) time.Time {
	return DayStart(t, loc).AddDate(0, 0, 1)
}

// SameDay проверяет, что два момента относятся к одному календарному дню.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayStart(a, loc).Equal(DayStart(b, loc))
}

// DayOffset возвращает целое число календарных дней между днём from и днём to.
// Отрицательное значение означает, что to раньше from.
// Считается по гражданским датам: переходы на летнее/зимнее время
// (23- и 25-часовые сутки) не влияют на результат.
func DayOffset(from, to time.Time, loc *time.Location) int {
	start := from.In(loc)
	target := to.In(loc)
	startUTC := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	targetUTC := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	return int(targetUTC.Sub(startUTC).Hours() / 24)
}

// MinuteOfDay возвращает количество минут с начала календарного дня.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// AtMinute возвращает момент времени: день day + minute минут от полуночи.
// Допускает minute >= 1440 (переход на следующий день) для вычисления
// конца интервала.
func AtMinute(day time.Time, minute int, loc *time.Location) time.Time {
	return DayStart(day, loc).Add(time.Duration(minute) * time.Minute)
}
