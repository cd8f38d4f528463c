package domain

import "time"

// AttendanceStatus is the recorded attendance state of an employee for a day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on_leave"
)

// CountsAsPresent reports whether the status grants same-day capacity
func (s AttendanceStatus) CountsAsPresent() bool {
	return s == AttendancePresent || s == AttendanceLate
}

// AttendanceWindow is one clocked interval of an employee within a single
// calendar day. ClockOut is nil while the employee is still clocked in
// (open-ended window).
type AttendanceWindow struct {
	EmployeeID int64
	ClockIn    time.Time
	ClockOut   *time.Time
}

// Covers reports whether the window covers the whole [start, end) interval:
// clock-in at or before start, and no clock-out or clock-out at or after end.
func (w *AttendanceWindow) Covers(start, end time.Time) bool {
	if w.ClockIn.After(start) {
		return false
	}
	return w.ClockOut == nil || !w.ClockOut.Before(end)
}
