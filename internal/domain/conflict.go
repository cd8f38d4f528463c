package domain

import "time"

// ConflictReason is the staffing-relevant trigger that caused a re-check
type ConflictReason string

const (
	ConflictReasonHoursChanged       ConflictReason = "hours_changed"
	ConflictReasonAttendanceChanged  ConflictReason = "attendance_changed"
	ConflictReasonSpecialtiesChanged ConflictReason = "specialties_changed"
	ConflictReasonLeaveApproved      ConflictReason = "leave_approved"
	ConflictReasonManualRecheck      ConflictReason = "manual_recheck"
)

// Valid reports whether the reason is a known enum value
func (r ConflictReason) Valid() bool {
	switch r {
	case ConflictReasonHoursChanged,
		ConflictReasonAttendanceChanged,
		ConflictReasonSpecialtiesChanged,
		ConflictReasonLeaveApproved,
		ConflictReasonManualRecheck:
		return true
	}
	return false
}

// ConflictPayloadSchemaVersion versions the conflict event payload.
// The outbox is append-only; consumers dispatch on this field.
const ConflictPayloadSchemaVersion = 1

// ConflictSignal records that a previously accepted booking no longer
// matches computed capacity. Emitted at most once per (booking, calendar
// day); the outbox enforces the uniqueness at write time.
// The payload is a closed, versioned record: no free-form fields beyond
// the human-readable Detail.
type ConflictSignal struct {
	EventID       string
	BusinessID    int64
	BookingID     int64
	ScheduledAt   time.Time
	CustomerName  string
	Reason        ConflictReason
	Detail        string
	DetectedAt    time.Time
	SchemaVersion int
}
