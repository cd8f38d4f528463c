package domain

// Default policy values applied when a business has no explicit setting
const (
	DefaultHorizonDays          = 30
	DefaultMinLeadMinutes       = 60
	DefaultSlotIntervalMinutes  = 30
	DefaultSameDayStrictMinutes = 120
)

// Business validation constants
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 480   // 8 hours
	MaxHorizonDays         = 365   // 1 year
	MaxLeadMinutes         = 10080 // 1 week
)

// GeneralCategory is the operating-hours fallback category: a service
// category with no hours row of its own uses the "general" row for that day.
const GeneralCategory = "general"

// MinutesPerDay minutes in a civil day
const MinutesPerDay = 24 * 60

// MaxAlternativeSlots caps the alternatives attached to availability errors
const MaxAlternativeSlots = 5

// ConflictScanLimit caps how many future bookings a single reconciliation
// sweep evaluates
const ConflictScanLimit = 200

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveBookingStatuses список статусов, не потребляющих ёмкость.
// Используется при выборке занятых сегментов и при скане будущих бронирований.
var InactiveBookingStatuses = []BookingStatus{
	BookingStatusCancelled,
	BookingStatusDeclined,
	BookingStatusNoShow,
}

// ActiveBookingStatuses список статусов, потребляющих ёмкость.
// HOLD и PENDING блокируют слот наравне с ACCEPTED, пока активны.
var ActiveBookingStatuses = []BookingStatus{
	BookingStatusHold,
	BookingStatusPending,
	BookingStatusAccepted,
	BookingStatusInProgress,
}
