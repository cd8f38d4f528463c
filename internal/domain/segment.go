package domain

import "time"

// BookedSegment is a concrete time interval occupied by one service unit
// of an existing booking, derived from its non-cancelled line items.
// Exactly one of EmployeeID/OwnerID is set when the assignee is known;
// both nil means the segment is unassigned and occupies generic capacity.
type BookedSegment struct {
	BookingID  int64
	Category   string
	StartAt    time.Time
	EndAt      time.Time
	EmployeeID *int64
	OwnerID    *int64
}

// Unassigned reports whether the segment has no concrete assignee
func (s *BookedSegment) Unassigned() bool {
	return s.EmployeeID == nil && s.OwnerID == nil
}

// Overlaps reports a real interval overlap with [start, end).
// Touching boundaries (segment ends exactly when the interval starts,
// or vice versa) are not an overlap.
func (s *BookedSegment) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt.After(start)
}
