package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domainvenues "eventspace/internal/domain/venues"
)

const venueColumns = `id, provider_id, name, description, address, zone, category, price, capacity,
	images, payment_methods, amenities, services, views, favorites, rating, review_count,
	status, created_at, updated_at`

type VenueRepository struct {
	pool *pgxpool.Pool
}

func NewVenueRepository(pool *pgxpool.Pool) *VenueRepository {
	return &VenueRepository{pool: pool}
}

func (r *VenueRepository) ByID(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	const op = "postgres.VenueRepository.ByID"
	row := conn(ctx, r.pool).QueryRow(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, string(id))
	v, err := scanVenue(row)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, domainvenues.ErrVenueNotFound))
	}
	return v, nil
}

func (r *VenueRepository) All(ctx context.Context) ([]*domainvenues.Venue, error) {
	return r.list(ctx, "postgres.VenueRepository.All", `SELECT `+venueColumns+` FROM venues ORDER BY seq`)
}

func (r *VenueRepository) ByProvider(ctx context.Context, provider domainvenues.ProviderID) ([]*domainvenues.Venue, error) {
	return r.list(ctx, "postgres.VenueRepository.ByProvider",
		`SELECT `+venueColumns+` FROM venues WHERE provider_id = $1 ORDER BY seq`, string(provider))
}

func (r *VenueRepository) list(ctx context.Context, op, sql string, args ...any) ([]*domainvenues.Venue, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	defer rows.Close()
	out := make([]*domainvenues.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return out, nil
}

// Save upserts the venue. The view counter is written on insert only;
// afterwards RecordView owns it.
func (r *VenueRepository) Save(ctx context.Context, v *domainvenues.Venue) error {
	const op = "postgres.VenueRepository.Save"
	services, err := json.Marshal(servicesToRows(v.Services))
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}
	_, err = conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO venues (`+venueColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO UPDATE SET
			provider_id = EXCLUDED.provider_id,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			address = EXCLUDED.address,
			zone = EXCLUDED.zone,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			capacity = EXCLUDED.capacity,
			images = EXCLUDED.images,
			payment_methods = EXCLUDED.payment_methods,
			amenities = EXCLUDED.amenities,
			services = EXCLUDED.services,
			favorites = EXCLUDED.favorites,
			rating = EXCLUDED.rating,
			review_count = EXCLUDED.review_count,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`,
		string(v.ID), string(v.ProviderID), v.Name, v.Description, v.Address, v.Zone,
		string(v.Category), v.Price, v.Capacity,
		nonNil(v.Images), methodsToStrings(v.PaymentMethods), nonNil(v.Amenities), services,
		v.Views, v.Favorites, v.Rating, v.ReviewCount, string(v.Status),
		v.CreatedAt.UTC(), v.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err, nil))
	}
	return nil
}

func (r *VenueRepository) RecordView(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	const op = "postgres.VenueRepository.RecordView"
	row := conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE venues SET views = views + 1 WHERE id = $1 RETURNING `+venueColumns, string(id))
	v, err := scanVenue(row)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err, domainvenues.ErrVenueNotFound))
	}
	return v, nil
}

type serviceRow struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsOptional  bool    `json:"isOptional"`
}

func servicesToRows(in []domainvenues.Service) []serviceRow {
	out := make([]serviceRow, 0, len(in))
	for _, s := range in {
		out = append(out, serviceRow(s))
	}
	return out
}

func methodsToStrings(in []domainvenues.PaymentMethod) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		out = append(out, string(m))
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func scanVenue(row pgx.Row) (*domainvenues.Venue, error) {
	var (
		v                    domainvenues.Venue
		id, provider         string
		category, status     string
		methods              []string
		services             []byte
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &provider, &v.Name, &v.Description, &v.Address, &v.Zone, &category, &v.Price, &v.Capacity,
		&v.Images, &methods, &v.Amenities, &services, &v.Views, &v.Favorites, &v.Rating, &v.ReviewCount,
		&status, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	var rows []serviceRow
	if len(services) > 0 {
		if err := json.Unmarshal(services, &rows); err != nil {
			return nil, err
		}
	}
	v.ID = domainvenues.VenueID(id)
	v.ProviderID = domainvenues.ProviderID(provider)
	v.Category = domainvenues.Category(category)
	v.Status = domainvenues.Status(status)
	v.PaymentMethods = make([]domainvenues.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		v.PaymentMethods = append(v.PaymentMethods, domainvenues.PaymentMethod(m))
	}
	v.Services = make([]domainvenues.Service, 0, len(rows))
	for _, s := range rows {
		v.Services = append(v.Services, domainvenues.Service(s))
	}
	v.CreatedAt = createdAt.UTC()
	v.UpdatedAt = updatedAt.UTC()
	return &v, nil
}
