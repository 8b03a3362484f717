package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "eventspace/internal/domain/booking"
	domainreviews "eventspace/internal/domain/reviews"
	domainvenues "eventspace/internal/domain/venues"
)

// VenueRepository keeps venues in insertion order. Reads hand out clones so
// callers never share mutable state with the store.
type VenueRepository struct {
	mu    sync.RWMutex
	order []domainvenues.VenueID
	items map[domainvenues.VenueID]*domainvenues.Venue
}

func NewVenueRepository() *VenueRepository {
	return &VenueRepository{items: make(map[domainvenues.VenueID]*domainvenues.Venue)}
}

func (r *VenueRepository) ByID(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domainvenues.ErrVenueNotFound
	}
	return v.Clone(), nil
}

func (r *VenueRepository) All(ctx context.Context) ([]*domainvenues.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainvenues.Venue, 0, len(r.order))
	for _, id := range r.order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, r.items[id].Clone())
	}
	return out, nil
}

func (r *VenueRepository) ByProvider(ctx context.Context, provider domainvenues.ProviderID) ([]*domainvenues.Venue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainvenues.Venue, 0)
	for _, id := range r.order {
		if v := r.items[id]; v.ProviderID == provider {
			out = append(out, v.Clone())
		}
	}
	return out, nil
}

func (r *VenueRepository) Save(ctx context.Context, venue *domainvenues.Venue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := venue.Clone()
	if current, exists := r.items[venue.ID]; exists {
		// views only move through RecordView
		stored.Views = current.Views
	} else {
		r.order = append(r.order, venue.ID)
	}
	r.items[venue.ID] = stored
	return nil
}

func (r *VenueRepository) RecordView(ctx context.Context, id domainvenues.VenueID) (*domainvenues.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[id]
	if !ok {
		return nil, domainvenues.ErrVenueNotFound
	}
	v.RecordView()
	return v.Clone(), nil
}

// BookingRepository stores bookings by id with a per-venue index.
type BookingRepository struct {
	mu      sync.RWMutex
	items   map[domainbooking.BookingID]*domainbooking.Booking
	byVenue map[domainvenues.VenueID][]domainbooking.BookingID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		items:   make(map[domainbooking.BookingID]*domainbooking.Booking),
		byVenue: make(map[domainvenues.VenueID][]domainbooking.BookingID),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// Save inserts or replaces a booking. Inserting a second active booking for
// the same venue and day fails with ErrDateUnavailable.
func (r *BookingRepository) Save(ctx context.Context, booking *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if booking.Status != domainbooking.StatusCancelled {
		for _, id := range r.byVenue[booking.VenueID] {
			other := r.items[id]
			if id != booking.ID && other.Occupies(booking.Date) {
				return domainbooking.ErrDateUnavailable
			}
		}
	}
	if _, exists := r.items[booking.ID]; !exists {
		r.byVenue[booking.VenueID] = append(r.byVenue[booking.VenueID], booking.ID)
	}
	stored := cloneBooking(booking)
	stored.Version++
	booking.Version = stored.Version
	r.items[booking.ID] = stored
	return nil
}

func (r *BookingRepository) ListByClient(ctx context.Context, clientID string) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.items {
		if b.ClientID == clientID {
			out = append(out, cloneBooking(b))
		}
	}
	sortByCreated(out)
	return out, nil
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID) ([]*domainbooking.Booking, error) {
	return r.ListByVenueBetween(ctx, venueID, time.Time{}, time.Time{})
}

// ListByVenueBetween returns bookings dated in [from, to). Zero bounds are open.
func (r *BookingRepository) ListByVenueBetween(ctx context.Context, venueID domainvenues.VenueID, from, to time.Time) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byVenue[venueID]
	out := make([]*domainbooking.Booking, 0, len(ids))
	for _, id := range ids {
		b := r.items[id]
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && !b.Date.Before(to) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:                 b.ID,
		VenueID:            b.VenueID,
		ProviderID:         b.ProviderID,
		ClientID:           b.ClientID,
		Date:               b.Date,
		GuestCount:         b.GuestCount,
		SelectedServiceIDs: append([]string(nil), b.SelectedServiceIDs...),
		PaymentMethod:      b.PaymentMethod,
		Total:              b.Total,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Version:            b.Version,
	}
}

func sortByCreated(items []*domainbooking.Booking) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}

// ReviewsRepository stores reviews in submission order.
type ReviewsRepository struct {
	mu    sync.RWMutex
	items []*domainreviews.Review
}

func NewReviewsRepository() *ReviewsRepository {
	return &ReviewsRepository{}
}

func (r *ReviewsRepository) ByBooking(ctx context.Context, bookingID domainbooking.BookingID, authorID string) (*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rev := range r.items {
		if rev.BookingID == bookingID && rev.AuthorID == authorID {
			return cloneReview(rev), nil
		}
	}
	return nil, domainreviews.ErrNotFound
}

// ListByVenue returns reviews newest first. A non-positive limit means no limit.
func (r *ReviewsRepository) ListByVenue(ctx context.Context, venueID domainvenues.VenueID, limit, offset int) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matched := make([]*domainreviews.Review, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if rev := r.items[i]; rev.VenueID == venueID {
			matched = append(matched, rev)
		}
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*domainreviews.Review, 0, end-offset)
	for _, rev := range matched[offset:end] {
		out = append(out, cloneReview(rev))
	}
	return out, nil
}

func (r *ReviewsRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rev := range r.items {
		if rev.ID == review.ID {
			r.items[i] = cloneReview(review)
			return nil
		}
	}
	r.items = append(r.items, cloneReview(review))
	return nil
}

func cloneReview(r *domainreviews.Review) *domainreviews.Review {
	return &domainreviews.Review{
		ID:        r.ID,
		BookingID: r.BookingID,
		AuthorID:  r.AuthorID,
		VenueID:   r.VenueID,
		Rating:    r.Rating,
		Text:      r.Text,
		CreatedAt: r.CreatedAt,
	}
}

// FavoritesRepository keeps each user's favorites in the order they were added.
type FavoritesRepository struct {
	mu    sync.Mutex
	items map[string][]domainvenues.VenueID
}

func NewFavoritesRepository() *FavoritesRepository {
	return &FavoritesRepository{items: make(map[string][]domainvenues.VenueID)}
}

func (r *FavoritesRepository) Toggle(ctx context.Context, userID string, venueID domainvenues.VenueID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.items[userID]
	for i, id := range list {
		if id == venueID {
			r.items[userID] = append(list[:i:i], list[i+1:]...)
			return false, nil
		}
	}
	r.items[userID] = append(list, venueID)
	return true, nil
}

func (r *FavoritesRepository) ListByUser(ctx context.Context, userID string) ([]domainvenues.VenueID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domainvenues.VenueID(nil), r.items[userID]...), nil
}

var (
	_ domainvenues.Repository  = (*VenueRepository)(nil)
	_ domainbooking.Repository = (*BookingRepository)(nil)
	_ domainreviews.Repository = (*ReviewsRepository)(nil)
)
