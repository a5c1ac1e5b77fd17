package booking

import "equiprent/internal/domain"

type Stats struct {
	ActiveBookings  int
	PendingBookings int
	TotalBookings   int
	// TotalEarnings sums stored totals of completed bookings, in cents.
	TotalEarnings int64
}

// Summarize reduces a fetched booking set. The result does not depend on order.
func Summarize(bookings []domain.Booking) Stats {
	s := Stats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case domain.BookingStatusActive:
			s.ActiveBookings++
		case domain.BookingStatusPending:
			s.PendingBookings++
		case domain.BookingStatusCompleted:
			s.TotalEarnings += b.TotalAmountCents
		}
	}
	return s
}

// DisplayTotal is the amount to show for b. Stored totals are trusted once a
// booking is completed; before that the total is derived from the listing rate.
func DisplayTotal(b domain.Booking) int64 {
	if b.Status == domain.BookingStatusCompleted || b.Equipment == nil {
		return b.TotalAmountCents
	}
	return domain.DerivedTotal(b.Equipment.DailyRateCents, b.StartDate, b.EndDate)
}

// Filter keeps bookings with the given status. An empty status keeps all.
func Filter(bookings []domain.Booking, status domain.BookingStatus) []domain.Booking {
	if status == "" {
		return bookings
	}
	out := make([]domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}
