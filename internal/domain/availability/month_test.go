package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventspace/internal/domain/booking"
	"eventspace/internal/domain/venues"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthLength(t *testing.T) {
	cases := []struct {
		q    MonthQuery
		want int
	}{
		{MonthQuery{Month: 0, Year: 2027}, 31},
		{MonthQuery{Month: 1, Year: 2027}, 28},
		{MonthQuery{Month: 1, Year: 2028}, 29},
		{MonthQuery{Month: 1, Year: 2100}, 28},
		{MonthQuery{Month: 1, Year: 2000}, 29},
		{MonthQuery{Month: 3, Year: 2027}, 30},
		{MonthQuery{Month: 11, Year: 2027}, 31},
	}
	for _, tc := range cases {
		days := Month(tc.q, nil, day(2020, time.January, 1))
		require.Len(t, days, tc.want)
		assert.Equal(t, 1, days[0].Date.Day())
		assert.Equal(t, time.Month(tc.q.Month+1), days[0].Date.Month())
	}
}

func TestMonthExcludesBookedAndPastDays(t *testing.T) {
	bookings := []*booking.Booking{
		{VenueID: "v", Date: day(2026, time.November, 20), Status: booking.StatusConfirmed},
		{VenueID: "v", Date: day(2026, time.November, 21), Status: booking.StatusPending},
		{VenueID: "v", Date: day(2026, time.November, 22), Status: booking.StatusCancelled},
	}
	today := time.Date(2026, time.November, 10, 15, 30, 0, 0, time.UTC)

	days := Month(MonthQuery{Month: 10, Year: 2026}, bookings, today)
	require.Len(t, days, 30)

	byDate := map[int]bool{}
	for _, d := range days {
		byDate[d.Date.Day()] = d.IsAvailable
	}
	assert.False(t, byDate[9], "past day")
	assert.True(t, byDate[10], "today is bookable")
	assert.False(t, byDate[20], "confirmed booking")
	assert.False(t, byDate[21], "pending booking")
	assert.True(t, byDate[22], "cancelled booking frees the day")
	assert.True(t, byDate[30])
}

func TestMonthUsesUTCBusinessDay(t *testing.T) {
	// 23:59 on Mar 10 in UTC-6 is already Mar 11 in UTC.
	today := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.FixedZone("CST", -6*60*60))
	days := Month(MonthQuery{Month: 2, Year: 2026}, nil, today)
	assert.False(t, days[9].IsAvailable)
	assert.True(t, days[10].IsAvailable)
}

func TestMonthQueryValidate(t *testing.T) {
	require.NoError(t, MonthQuery{Month: 0, Year: 2026}.Validate())
	require.NoError(t, MonthQuery{Month: 11, Year: 2026}.Validate())

	for _, q := range []MonthQuery{{Month: -1, Year: 2026}, {Month: 12, Year: 2026}, {Month: 3, Year: 0}} {
		var verr *venues.ValidationError
		assert.True(t, errors.As(q.Validate(), &verr), "%+v", q)
	}
}

func TestMonthQueryBounds(t *testing.T) {
	from, to := MonthQuery{Month: 11, Year: 2026}.Bounds()
	assert.Equal(t, day(2026, time.December, 1), from)
	assert.Equal(t, day(2027, time.January, 1), to)
}
