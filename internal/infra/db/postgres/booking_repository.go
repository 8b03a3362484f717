package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domainbooking "eventspace/internal/domain/booking"
	domainvenues "eventspace/internal/domain/venues"
)

const (
	bookingColumns = `id, venue_id, provider_id, client_id, day, guest_count, services,
	payment_method, total, status, created_at, updated_at, version`

	bookingDayConstraint = "bookings_active_day"
)

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	const op = "postgres.BookingRepository.ByID"
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, string(id))
	b, err := scanBooking(row)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, domainbooking.ErrBookingNotFound))
	}
	return b, nil
}

// Save inserts version-zero bookings and otherwise updates the row carrying
// the same version.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	const op = "postgres.BookingRepository.Save"
	db := conn(ctx, r.pool)
	next := b.Version + 1
	services := nonNil(b.SelectedServiceIDs)
	var err error
	if b.Version == 0 {
		_, err = db.Exec(ctx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			string(b.ID), string(b.VenueID), string(b.ProviderID), b.ClientID, b.Date.UTC(),
			b.GuestCount, services, string(b.PaymentMethod), b.Total, string(b.Status),
			b.CreatedAt.UTC(), b.UpdatedAt.UTC(), next,
		)
	} else {
		var tag pgconn.CommandTag
		tag, err = db.Exec(ctx, `
			UPDATE bookings SET
				day = $3, guest_count = $4, services = $5, payment_method = $6, total = $7,
				status = $8, updated_at = $9, version = $10
			WHERE id = $1 AND version = $2`,
			string(b.ID), b.Version, b.Date.UTC(), b.GuestCount, services,
			string(b.PaymentMethod), b.Total, string(b.Status), b.UpdatedAt.UTC(), next,
		)
		if err == nil && tag.RowsAffected() == 0 {
			return fmt.Errorf("%s:%w", op, ErrConcurrentUpdate)
		}
	}
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == bookingDayConstraint {
				return domainbooking.ErrDateUnavailable
			}
			return fmt.Errorf("%s:%w", op, ErrConcurrentUpdate)
		}
		return fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	b.Version = next
	return nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, "postgres.BookingRepository.ListByClient",
		`SELECT `+bookingColumns+` FROM bookings WHERE client_id = $1 ORDER BY created_at DESC, id`, clientID)
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, "postgres.BookingRepository.ListByVenue",
		`SELECT `+bookingColumns+` FROM bookings WHERE venue_id = $1 ORDER BY created_at DESC, id`, string(venueID))
}

func (r *BookingRepository) ListByVenueBetween(ctx context.Context, venueID domainvenues.VenueID, from, to time.Time) ([]*domainbooking.Booking, error) {
	return r.list(ctx, "postgres.BookingRepository.ListByVenueBetween",
		`SELECT `+bookingColumns+` FROM bookings
		WHERE venue_id = $1 AND day >= $2 AND day < $3
		ORDER BY day, created_at`, string(venueID), from.UTC(), to.UTC())
}

func (r *BookingRepository) list(ctx context.Context, op, sql string, args ...any) ([]*domainbooking.Booking, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	defer rows.Close()
	out := make([]*domainbooking.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return out, nil
}

func scanBooking(row pgx.Row) (*domainbooking.Booking, error) {
	var (
		b                         domainbooking.Booking
		id, venue, provider       string
		method, status            string
		day, createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &venue, &provider, &b.ClientID, &day, &b.GuestCount, &b.SelectedServiceIDs,
		&method, &b.Total, &status, &createdAt, &updatedAt, &b.Version)
	if err != nil {
		return nil, err
	}
	b.ID = domainbooking.BookingID(id)
	b.VenueID = domainvenues.VenueID(venue)
	b.ProviderID = domainvenues.ProviderID(provider)
	b.PaymentMethod = domainvenues.PaymentMethod(method)
	b.Status = domainbooking.Status(status)
	b.Date = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	b.CreatedAt = createdAt.UTC()
	b.UpdatedAt = updatedAt.UTC()
	return &b, nil
}
