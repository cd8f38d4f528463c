package domain

import (
	"fmt"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// OperatingHours is one operating-hours row: a (day-of-week, category) pair
// with open/close times. Semantics:
//   - IsClosed — no window that day;
//   - OpenTime == CloseTime (not closed) — open the full 24 hours;
//   - CloseTime before OpenTime — the window wraps past midnight and is
//     split into two sub-windows within the same civil day.
type OperatingHours struct {
	BusinessID int64
	DayOfWeek  int // 0 = Sunday .. 6 = Saturday
	Category   string
	OpenTime   types.TimeString
	CloseTime  types.TimeString
	IsClosed   bool
}

// TimeWindow is a half-open [StartMinute, EndMinute) interval within a civil day
type TimeWindow struct {
	StartMinute int
	EndMinute   int
}

// Minutes returns the window length in minutes
func (w TimeWindow) Minutes() int {
	return w.EndMinute - w.StartMinute
}

// Contains reports whether [start, end) fits entirely inside the window
func (w TimeWindow) Contains(start, end int) bool {
	return start >= w.StartMinute && end <= w.EndMinute
}

// Windows expands the row into concrete sub-windows of the civil day
func (h OperatingHours) Windows() ([]TimeWindow, error) {
	if h.IsClosed {
		return nil, nil
	}

	open, err := h.OpenTime.MinutesOfDay()
	if err != nil {
		return nil, fmt.Errorf("domain: operating hours open time: %w", err)
	}
	close, err := h.CloseTime.MinutesOfDay()
	if err != nil {
		return nil, fmt.Errorf("domain: operating hours close time: %w", err)
	}

	switch {
	case open == close:
		// Равные open/close при не-закрытом дне означают «открыто 24 часа»
		return []TimeWindow{{StartMinute: 0, EndMinute: MinutesPerDay}}, nil
	case close < open:
		// Окно через полночь: две части внутри одного календарного дня
		windows := make([]TimeWindow, 0, 2)
		windows = append(windows, TimeWindow{StartMinute: open, EndMinute: MinutesPerDay})
		if close > 0 {
			windows = append(windows, TimeWindow{StartMinute: 0, EndMinute: close})
		}
		return windows, nil
	default:
		return []TimeWindow{{StartMinute: open, EndMinute: close}}, nil
	}
}

// ResolveWindows returns the open sub-windows for a category on a day of
// week, falling back to the GeneralCategory row when the category has no
// row of its own. No matching row means closed.
func ResolveWindows(hours []OperatingHours, dayOfWeek int, category string) ([]TimeWindow, error) {
	var fallback *OperatingHours
	for i := range hours {
		h := hours[i]
		if h.DayOfWeek != dayOfWeek {
			continue
		}
		if h.Category == category {
			return h.Windows()
		}
		if h.Category == GeneralCategory && fallback == nil {
			fallback = &hours[i]
		}
	}
	if fallback != nil {
		return fallback.Windows()
	}
	return nil, nil
}

// TotalOpenMinutes sums the lengths of the given windows
func TotalOpenMinutes(windows []TimeWindow) int {
	total := 0
	for _, w := range windows {
		total += w.Minutes()
	}
	return total
}
