package domain

import (
	"sort"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusHold       BookingStatus = "hold"
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusDeclined   BookingStatus = "declined"
	BookingStatusNoShow     BookingStatus = "no_show"
)

// ConsumesCapacity reports whether a booking in this status blocks slots.
// A HOLD consumes capacity identically to an accepted booking while active.
func (s BookingStatus) ConsumesCapacity() bool {
	for _, active := range ActiveBookingStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// BookingItemStatus represents the state of one booking line item
type BookingItemStatus string

const (
	BookingItemStatusActive    BookingItemStatus = "active"
	BookingItemStatusCancelled BookingItemStatus = "cancelled"
)

// BookingItem is one service line of a booking
type BookingItem struct {
	ServiceID int64
	Quantity  int
	Status    BookingItemStatus
}

// Booking is an existing booking as seen by the conflict reconciler:
// only the fields needed to re-validate it against current capacity.
type Booking struct {
	ID           int64
	BusinessID   int64
	CustomerName string
	ScheduledAt  time.Time
	Status       BookingStatus
	Items        []BookingItem
}

// ServiceQuantities aggregates non-cancelled line items into
// serviceID → total quantity
func (b *Booking) ServiceQuantities() map[int64]int {
	result := make(map[int64]int, len(b.Items))
	for _, item := range b.Items {
		if item.Status == BookingItemStatusCancelled {
			continue
		}
		result[item.ServiceID] += item.Quantity
	}
	return result
}

// ServiceSpecs converts the aggregated quantities to engine input,
// ordered by service id for determinism
func (b *Booking) ServiceSpecs() []ServiceSpec {
	quantities := b.ServiceQuantities()
	specs := make([]ServiceSpec, 0, len(quantities))
	for id, qty := range quantities {
		specs = append(specs, ServiceSpec{ServiceID: id, Quantity: qty})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ServiceID < specs[j].ServiceID })
	return specs
}
