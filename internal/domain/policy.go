package domain

// PaymentType represents how a public booking is paid for
type PaymentType string

const (
	PaymentTypeFull        PaymentType = "full"
	PaymentTypeDownpayment PaymentType = "downpayment"
)

// Valid reports whether the payment type is a known enum value
func (p PaymentType) Valid() bool {
	return p == PaymentTypeFull || p == PaymentTypeDownpayment
}

// BusinessPolicy is the scheduling policy snapshot of one business.
// A normalized copy is re-fetched per computation; no caching is assumed.
type BusinessPolicy struct {
	BusinessID               int64
	HorizonDays              int // how many days ahead bookings may be placed
	MinLeadMinutes           int // minimum notice before a slot start
	SlotIntervalMinutes      int // candidate start step, floor 5 minutes
	SameDayStrictMinutes     int // same-day window where only attendance grants capacity
	AllowPublicFullPayment   bool
	AllowPublicDownpayment   bool
	DefaultPublicPaymentType PaymentType
	BookingV2Enabled         bool // when false, only same-day bookings are computed
}

// Normalize defaults and clamps all fields in place so the engine can
// rely on sane values regardless of what was stored.
func (p *BusinessPolicy) Normalize() {
	if p.HorizonDays <= 0 {
		p.HorizonDays = DefaultHorizonDays
	}
	if p.HorizonDays > MaxHorizonDays {
		p.HorizonDays = MaxHorizonDays
	}
	if p.MinLeadMinutes < 0 {
		p.MinLeadMinutes = 0
	}
	if p.MinLeadMinutes > MaxLeadMinutes {
		p.MinLeadMinutes = MaxLeadMinutes
	}
	if p.SlotIntervalMinutes <= 0 {
		p.SlotIntervalMinutes = DefaultSlotIntervalMinutes
	}
	if p.SlotIntervalMinutes < MinSlotIntervalMinutes {
		p.SlotIntervalMinutes = MinSlotIntervalMinutes
	}
	if p.SlotIntervalMinutes > MaxSlotIntervalMinutes {
		p.SlotIntervalMinutes = MaxSlotIntervalMinutes
	}
	if p.SameDayStrictMinutes < 0 {
		p.SameDayStrictMinutes = 0
	}
	if !p.DefaultPublicPaymentType.Valid() {
		p.DefaultPublicPaymentType = PaymentTypeFull
	}
}

// AllowsPublicPayment reports whether a public caller may use the payment type
func (p *BusinessPolicy) AllowsPublicPayment(t PaymentType) bool {
	switch t {
	case PaymentTypeFull:
		return p.AllowPublicFullPayment
	case PaymentTypeDownpayment:
		return p.AllowPublicDownpayment
	default:
		return false
	}
}
