package domain

import "time"

// SlotSource says which capacity source granted the slot
type SlotSource string

const (
	SlotSourceAttendance SlotSource = "attendance"
	SlotSourceRoster     SlotSource = "roster"
)

// SlotConfidence reflects how reliable the slot is: attendance-backed
// slots are confirmed, roster-assumed slots are tentative
type SlotConfidence string

const (
	SlotConfidenceConfirmed SlotConfidence = "confirmed"
	SlotConfidenceTentative SlotConfidence = "tentative"
)

// Slot is a candidate start time at which every requested service unit can
// be placed back-to-back with non-zero provider capacity. Unavailable
// slots are never emitted, so an emitted slot is always bookable.
// Capacity counts are the bottleneck (minimum) across all service units.
type Slot struct {
	StartAt            time.Time
	EndAt              time.Time
	AvailableEmployees int
	AvailableOwners    int
	Source             SlotSource
	Confidence         SlotConfidence
}
