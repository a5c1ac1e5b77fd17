package domain

import (
	"math"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {BookingStatusActive, BookingStatusRejected},
	BookingStatusActive:  {BookingStatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusActive, BookingStatusRejected, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCompleted
}

type Booking struct {
	ID               string        `json:"id"`
	EquipmentID      string        `json:"equipment_id"`
	RenterID         string        `json:"user_id"`
	StartDate        time.Time     `json:"start_date"`
	EndDate          time.Time     `json:"end_date"`
	Status           BookingStatus `json:"status"`
	TotalAmountCents int64         `json:"total_amount"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`

	// Joined rows, populated by list queries.
	Equipment *Equipment `json:"equipment,omitempty"`
	Renter    *Profile   `json:"profiles,omitempty"`
}

// RentalDays is the whole number of days a booking spans, rounded up.
// An end date before the start date counts as zero days.
func RentalDays(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int64(math.Ceil(d.Hours() / 24))
}

func DerivedTotal(dailyRateCents int64, start, end time.Time) int64 {
	return dailyRateCents * RentalDays(start, end)
}
