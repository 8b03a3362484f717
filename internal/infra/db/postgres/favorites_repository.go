package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	domainvenues "eventspace/internal/domain/venues"
)

type FavoritesRepository struct {
	pool *pgxpool.Pool
}

func NewFavoritesRepository(pool *pgxpool.Pool) *FavoritesRepository {
	return &FavoritesRepository{pool: pool}
}

func (r *FavoritesRepository) Toggle(ctx context.Context, userID string, venueID domainvenues.VenueID) (bool, error) {
	const op = "postgres.FavoritesRepository.Toggle"
	db := conn(ctx, r.pool)
	tag, err := db.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND venue_id = $2`, userID, string(venueID))
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}
	if _, err := db.Exec(ctx, `INSERT INTO favorites (user_id, venue_id) VALUES ($1, $2)`, userID, string(venueID)); err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return true, nil
}

func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domainvenues.VenueID, error) {
	const op = "postgres.FavoritesRepository.ListByUser"
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT venue_id FROM favorites WHERE user_id = $1 ORDER BY created_at, venue_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	defer rows.Close()
	out := make([]domainvenues.VenueID, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		out = append(out, domainvenues.VenueID(id))
	}
	return out, rows.Err()
}
