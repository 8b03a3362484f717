package dto

import (
	"time"

	domainvenues "eventspace/internal/domain/venues"
)

type VenueService struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	IsOptional  bool    `json:"isOptional"`
}

// Venue is the public representation of a venue.
type Venue struct {
	ID             string         `json:"id"`
	ProviderID     string         `json:"providerId"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Address        string         `json:"address"`
	Zone           string         `json:"zone"`
	Category       string         `json:"category"`
	Price          float64        `json:"price"`
	Capacity       int            `json:"capacity"`
	Images         []string       `json:"images"`
	PaymentMethods []string       `json:"paymentMethods"`
	Amenities      []string       `json:"amenities"`
	Services       []VenueService `json:"services"`
	Views          int            `json:"views"`
	Favorites      int            `json:"favorites"`
	Rating         float64        `json:"rating"`
	ReviewCount    int            `json:"reviewCount"`
	Status         string         `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// VenuePage mirrors a catalog page.
type VenuePage struct {
	Data       []Venue `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"pageSize"`
	TotalPages int     `json:"totalPages"`
}

func MapVenue(v *domainvenues.Venue) Venue {
	if v == nil {
		return Venue{}
	}
	methods := make([]string, 0, len(v.PaymentMethods))
	for _, m := range v.PaymentMethods {
		methods = append(methods, string(m))
	}
	services := make([]VenueService, 0, len(v.Services))
	for _, s := range v.Services {
		services = append(services, VenueService{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			IsOptional:  s.IsOptional,
		})
	}
	return Venue{
		ID:             string(v.ID),
		ProviderID:     string(v.ProviderID),
		Name:           v.Name,
		Description:    v.Description,
		Address:        v.Address,
		Zone:           v.Zone,
		Category:       string(v.Category),
		Price:          v.Price,
		Capacity:       v.Capacity,
		Images:         nonNil(v.Images),
		PaymentMethods: methods,
		Amenities:      nonNil(v.Amenities),
		Services:       services,
		Views:          v.Views,
		Favorites:      v.Favorites,
		Rating:         v.Rating,
		ReviewCount:    v.ReviewCount,
		Status:         string(v.Status),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func MapVenues(vs []*domainvenues.Venue) []Venue {
	out := make([]Venue, 0, len(vs))
	for _, v := range vs {
		out = append(out, MapVenue(v))
	}
	return out
}

func MapVenuePage(p domainvenues.Page) VenuePage {
	return VenuePage{
		Data:       MapVenues(p.Items),
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// ServicesFromDTO converts request services into domain services.
func ServicesFromDTO(in []VenueService) []domainvenues.Service {
	out := make([]domainvenues.Service, 0, len(in))
	for _, s := range in {
		out = append(out, domainvenues.Service{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Price:       s.Price,
			IsOptional:  s.IsOptional,
		})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
