package availability

import (
	"time"

	"eventspace/internal/domain/booking"
	"eventspace/internal/domain/shared/calendar"
	"eventspace/internal/domain/venues"
)

// Day is the availability of a venue on one calendar date.
type Day struct {
	Date        time.Time
	IsAvailable bool
}

// MonthQuery selects a calendar month. Month is zero-based (0 = January).
type MonthQuery struct {
	Month int
	Year  int
}

func (q MonthQuery) Validate() error {
	if q.Month < 0 || q.Month > 11 {
		return venues.Invalid("month", "must be between 0 and 11")
	}
	if q.Year < 1 || q.Year > 9999 {
		return venues.Invalid("year", "is out of range")
	}
	return nil
}

// Bounds returns [first day of month, first day of next month).
func (q MonthQuery) Bounds() (time.Time, time.Time) {
	return calendar.MonthBounds(time.Month(q.Month+1), q.Year)
}

// Month lists every day of the month. A day is available when it is not
// before today and no non-cancelled booking occupies it. Days are UTC
// calendar days, today included.
func Month(q MonthQuery, bookings []*booking.Booking, today time.Time) []Day {
	month := time.Month(q.Month + 1)
	n := calendar.DaysIn(month, q.Year)
	today = calendar.Truncate(today)

	occupied := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if b == nil || b.Status == booking.StatusCancelled {
			continue
		}
		occupied[calendar.Format(b.Date)] = struct{}{}
	}

	days := make([]Day, 0, n)
	for d := 1; d <= n; d++ {
		date := time.Date(q.Year, month, d, 0, 0, 0, 0, time.UTC)
		_, taken := occupied[calendar.Format(date)]
		days = append(days, Day{
			Date:        date,
			IsAvailable: !taken && !date.Before(today),
		})
	}
	return days
}
