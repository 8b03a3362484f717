// Package fixtures seeds the venue catalog from a JSON document kept on disk
// or in an S3 bucket.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"eventspace/internal/app/dto"
	"eventspace/internal/app/uow"
	domainvenues "eventspace/internal/domain/venues"
)

// Source opens the fixture document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

type FileSource struct {
	Path string
}

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(s.Path)
}

// ObjectOpener is satisfied by the S3 client.
type ObjectOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

type ObjectSource struct {
	Objects ObjectOpener
	Key     string
}

func (s ObjectSource) Open(ctx context.Context) (io.ReadCloser, error) {
	return s.Objects.Open(ctx, s.Key)
}

// Decode parses a JSON array of venues in the public API shape. Every entry
// goes through the same validation as a provider-created venue.
func Decode(r io.Reader, now time.Time) ([]*domainvenues.Venue, error) {
	var raw []dto.Venue
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("fixtures: decode: %w", err)
	}
	out := make([]*domainvenues.Venue, 0, len(raw))
	for i, item := range raw {
		v, err := toVenue(item, now)
		if err != nil {
			return nil, fmt.Errorf("fixtures: entry %d (%s): %w", i, item.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func toVenue(item dto.Venue, now time.Time) (*domainvenues.Venue, error) {
	methods := make([]domainvenues.PaymentMethod, 0, len(item.PaymentMethods))
	for _, m := range item.PaymentMethods {
		methods = append(methods, domainvenues.PaymentMethod(m))
	}
	services := make([]domainvenues.Service, 0, len(item.Services))
	for _, s := range item.Services {
		services = append(services, domainvenues.Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			IsOptional:  s.IsOptional,
		})
	}
	created := item.CreatedAt
	if created.IsZero() {
		created = now
	}
	v, err := domainvenues.NewVenue(domainvenues.CreateParams{
		ID:         domainvenues.VenueID(item.ID),
		ProviderID: domainvenues.ProviderID(item.ProviderID),
		Details: domainvenues.Details{
			Name:           item.Name,
			Description:    item.Description,
			Address:        item.Address,
			Zone:           item.Zone,
			Category:       domainvenues.Category(item.Category),
			Price:          item.Price,
			Capacity:       item.Capacity,
			Images:         item.Images,
			PaymentMethods: methods,
			Amenities:      item.Amenities,
			Services:       services,
		},
		Status:      domainvenues.Status(item.Status),
		Rating:      item.Rating,
		ReviewCount: item.ReviewCount,
		Views:       item.Views,
		Favorites:   item.Favorites,
		Now:         created,
	})
	if err != nil {
		return nil, err
	}
	v.ClearEvents()
	return v, nil
}

// Seed stores the venues that are not present yet and reports how many were
// added. Existing venues are left untouched.
func Seed(ctx context.Context, factory uow.UoWFactory, venues []*domainvenues.Venue) (int, error) {
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return 0, err
	}
	txCtx := uow.Bind(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(txCtx)
		}
	}()

	added := 0
	for _, v := range venues {
		_, err := unit.Venues().ByID(txCtx, v.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domainvenues.ErrVenueNotFound) {
			return 0, err
		}
		if err := unit.Venues().Save(txCtx, v); err != nil {
			return 0, err
		}
		added++
	}
	if err := unit.Commit(txCtx); err != nil {
		return 0, err
	}
	committed = true
	return added, nil
}

// Load reads, decodes and seeds in one step.
func Load(ctx context.Context, src Source, factory uow.UoWFactory, now time.Time, logger *slog.Logger) error {
	rc, err := src.Open(ctx)
	if err != nil {
		return fmt.Errorf("fixtures: open: %w", err)
	}
	defer rc.Close()
	venues, err := Decode(rc, now)
	if err != nil {
		return err
	}
	added, err := Seed(ctx, factory, venues)
	if err != nil {
		return fmt.Errorf("fixtures: seed: %w", err)
	}
	if logger != nil {
		logger.Info("venue fixtures loaded", "total", len(venues), "added", added)
	}
	return nil
}
