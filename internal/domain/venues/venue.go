package venues

import (
	"context"
	"errors"
	"strings"
	"time"

	"eventspace/internal/domain/shared/events"
)

var (
	ErrVenueNotFound     = errors.New("venues: venue not found")
	ErrInvalidTransition = errors.New("venues: invalid status transition")
	ErrNotBookable       = errors.New("venues: venue is not open for bookings")
)

type VenueID string
type ProviderID string

type Category string

const (
	CategorySalonEventos Category = "SALON_EVENTOS"
	CategoryJardin       Category = "JARDIN"
	CategoryTerraza      Category = "TERRAZA"
	CategoryHacienda     Category = "HACIENDA"
	CategoryBodega       Category = "BODEGA"
	CategoryRestaurante  Category = "RESTAURANTE"
	CategoryHotel        Category = "HOTEL"
)

var categories = map[Category]struct{}{
	CategorySalonEventos: {},
	CategoryJardin:       {},
	CategoryTerraza:      {},
	CategoryHacienda:     {},
	CategoryBodega:       {},
	CategoryRestaurante:  {},
	CategoryHotel:        {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "TRANSFERENCIA"
	PaymentCash     PaymentMethod = "EFECTIVO"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentTransfer || m == PaymentCash
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusActive   Status = "ACTIVE"
	StatusFeatured Status = "FEATURED"
	StatusBanned   Status = "BANNED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusFeatured, StatusBanned:
		return true
	}
	return false
}

// Service is an extra a venue offers. Optional services are toggled by the
// client and priced on top of the rental; the rest are informational.
type Service struct {
	ID          string
	Name        string
	Description string
	Price       float64
	IsOptional  bool
}

type Venue struct {
	ID             VenueID
	ProviderID     ProviderID
	Name           string
	Description    string
	Address        string
	Zone           string
	Category       Category
	Price          float64
	Capacity       int
	Images         []string
	PaymentMethods []PaymentMethod
	Amenities      []string
	Services       []Service
	Views          int
	Favorites      int
	Rating         float64
	ReviewCount    int
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id VenueID) (*Venue, error)
	// All returns every stored venue in insertion order.
	All(ctx context.Context) ([]*Venue, error)
	ByProvider(ctx context.Context, provider ProviderID) ([]*Venue, error)
	Save(ctx context.Context, venue *Venue) error
	// RecordView bumps the view counter and returns the updated venue.
	RecordView(ctx context.Context, id VenueID) (*Venue, error)
}

// Details holds the provider-editable attributes.
type Details struct {
	Name           string
	Description    string
	Address        string
	Zone           string
	Category       Category
	Price          float64
	Capacity       int
	Images         []string
	PaymentMethods []PaymentMethod
	Amenities      []string
	Services       []Service
}

type CreateParams struct {
	ID         VenueID
	ProviderID ProviderID
	Details
	Status      Status
	Rating      float64
	ReviewCount int
	Views       int
	Favorites   int
	Now         time.Time
}

func NewVenue(params CreateParams) (*Venue, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, invalid("id", "is required")
	}
	if strings.TrimSpace(string(params.ProviderID)) == "" {
		return nil, invalid("providerId", "is required")
	}
	if err := params.Details.validate(); err != nil {
		return nil, err
	}
	if params.Rating < 0 || params.Rating > 5 {
		return nil, invalid("rating", "must be between 0 and 5")
	}
	if params.ReviewCount < 0 || params.Views < 0 || params.Favorites < 0 {
		return nil, invalid("counters", "must be non-negative")
	}
	status := params.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, invalid("status", "is unknown")
	}
	now := params.Now.UTC()
	v := &Venue{
		ID:          params.ID,
		ProviderID:  params.ProviderID,
		Status:      status,
		Rating:      params.Rating,
		ReviewCount: params.ReviewCount,
		Views:       params.Views,
		Favorites:   params.Favorites,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	v.apply(params.Details)
	v.Record(VenueCreated{VenueID: v.ID, ProviderID: v.ProviderID, At: now})
	return v, nil
}

func (d Details) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "is required")
	}
	if !d.Category.Valid() {
		return invalid("category", "is unknown")
	}
	if d.Capacity <= 0 {
		return invalid("capacity", "must be greater than zero")
	}
	if d.Price < 0 {
		return invalid("price", "must be non-negative")
	}
	for _, m := range d.PaymentMethods {
		if !m.Valid() {
			return invalid("paymentMethods", "contains an unknown method")
		}
	}
	seen := make(map[string]struct{}, len(d.Services))
	for _, s := range d.Services {
		if strings.TrimSpace(s.ID) == "" {
			return invalid("services", "service id is required")
		}
		if _, ok := seen[s.ID]; ok {
			return invalid("services", "duplicate service id "+s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Price < 0 {
			return invalid("services", "service price must be non-negative")
		}
	}
	return nil
}

func (v *Venue) apply(d Details) {
	v.Name = strings.TrimSpace(d.Name)
	v.Description = strings.TrimSpace(d.Description)
	v.Address = strings.TrimSpace(d.Address)
	v.Zone = strings.TrimSpace(d.Zone)
	v.Category = d.Category
	v.Price = d.Price
	v.Capacity = d.Capacity
	v.Images = append([]string{}, d.Images...)
	v.PaymentMethods = uniqueMethods(d.PaymentMethods)
	v.Amenities = append([]string{}, d.Amenities...)
	v.Services = append([]Service{}, d.Services...)
}

func (v *Venue) UpdateDetails(d Details, now time.Time) error {
	if err := d.validate(); err != nil {
		return err
	}
	v.apply(d)
	v.UpdatedAt = now.UTC()
	v.Record(VenueUpdated{VenueID: v.ID, At: v.UpdatedAt})
	return nil
}

// Action is an administrative status change.
type Action string

const (
	ActionApprove   Action = "approve"
	ActionFeature   Action = "feature"
	ActionUnfeature Action = "unfeature"
	ActionBan       Action = "ban"
	ActionReinstate Action = "reinstate"
)

func (v *Venue) Transition(action Action, now time.Time) error {
	from := v.Status
	var to Status
	switch action {
	case ActionApprove:
		if from != StatusPending {
			return ErrInvalidTransition
		}
		to = StatusActive
	case ActionFeature:
		if from != StatusActive {
			return ErrInvalidTransition
		}
		to = StatusFeatured
	case ActionUnfeature:
		if from != StatusFeatured {
			return ErrInvalidTransition
		}
		to = StatusActive
	case ActionBan:
		if from == StatusBanned {
			return ErrInvalidTransition
		}
		to = StatusBanned
	case ActionReinstate:
		if from != StatusBanned {
			return ErrInvalidTransition
		}
		to = StatusActive
	default:
		return invalid("action", "is unknown")
	}
	v.Status = to
	v.UpdatedAt = now.UTC()
	v.Record(VenueStatusChanged{VenueID: v.ID, From: from, To: to, At: v.UpdatedAt})
	return nil
}

// Bookable reports whether clients may book the venue.
func (v *Venue) Bookable() bool {
	return v.Status == StatusActive || v.Status == StatusFeatured
}

func (v *Venue) Listed() bool {
	return v.Status != StatusBanned
}

func (v *Venue) RecordView() {
	v.Views++
}

func (v *Venue) AddFavorite(user string, now time.Time) {
	v.Favorites++
	v.UpdatedAt = now.UTC()
	v.Record(VenueFavorited{VenueID: v.ID, UserID: user, Added: true, At: v.UpdatedAt})
}

func (v *Venue) RemoveFavorite(user string, now time.Time) {
	if v.Favorites > 0 {
		v.Favorites--
	}
	v.UpdatedAt = now.UTC()
	v.Record(VenueFavorited{VenueID: v.ID, UserID: user, Added: false, At: v.UpdatedAt})
}

// ApplyReview folds a new rating into the running average.
func (v *Venue) ApplyReview(rating int, now time.Time) error {
	if rating < 1 || rating > 5 {
		return invalid("rating", "must be between 1 and 5")
	}
	total := v.Rating*float64(v.ReviewCount) + float64(rating)
	v.ReviewCount++
	v.Rating = total / float64(v.ReviewCount)
	v.UpdatedAt = now.UTC()
	v.Record(VenueReviewed{VenueID: v.ID, Rating: rating, Average: v.Rating, At: v.UpdatedAt})
	return nil
}

// ReviseReview swaps one already counted rating for another.
func (v *Venue) ReviseReview(previous, rating int, now time.Time) error {
	if rating < 1 || rating > 5 || previous < 1 || previous > 5 {
		return invalid("rating", "must be between 1 and 5")
	}
	if v.ReviewCount == 0 {
		return invalid("rating", "venue has no reviews to revise")
	}
	total := v.Rating*float64(v.ReviewCount) - float64(previous) + float64(rating)
	v.Rating = min(max(total/float64(v.ReviewCount), 0), 5)
	v.UpdatedAt = now.UTC()
	v.Record(VenueReviewed{VenueID: v.ID, Rating: rating, Average: v.Rating, At: v.UpdatedAt})
	return nil
}

func (v *Venue) AcceptsPayment(m PaymentMethod) bool {
	for _, accepted := range v.PaymentMethods {
		if accepted == m {
			return true
		}
	}
	return false
}

func (v *Venue) Service(id string) (Service, bool) {
	for _, s := range v.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

// CoverImage is the first image, if any.
func (v *Venue) CoverImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// Clone returns a deep copy without pending events.
func (v *Venue) Clone() *Venue {
	if v == nil {
		return nil
	}
	cp := &Venue{
		ID:          v.ID,
		ProviderID:  v.ProviderID,
		Name:        v.Name,
		Description: v.Description,
		Address:     v.Address,
		Zone:        v.Zone,
		Category:    v.Category,
		Price:       v.Price,
		Capacity:    v.Capacity,
		Views:       v.Views,
		Favorites:   v.Favorites,
		Rating:      v.Rating,
		ReviewCount: v.ReviewCount,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
	cp.Images = append([]string{}, v.Images...)
	cp.PaymentMethods = append([]PaymentMethod{}, v.PaymentMethods...)
	cp.Amenities = append([]string{}, v.Amenities...)
	cp.Services = append([]Service{}, v.Services...)
	return cp
}

func uniqueMethods(in []PaymentMethod) []PaymentMethod {
	out := make([]PaymentMethod, 0, len(in))
	seen := make(map[PaymentMethod]struct{}, len(in))
	for _, m := range in {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
