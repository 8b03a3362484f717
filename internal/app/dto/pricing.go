package dto

import domainpricing "eventspace/internal/domain/pricing"

type QuoteLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type Quote struct {
	VenueID       string      `json:"venueId"`
	GuestCount    int         `json:"guestCount"`
	OccupancyRate float64     `json:"occupancyRate"`
	BasePrice     float64     `json:"basePrice"`
	Discount      float64     `json:"discount"`
	RentalPrice   float64     `json:"rentalPrice"`
	Services      []QuoteLine `json:"services"`
	ServicesTotal float64     `json:"servicesTotal"`
	Total         float64     `json:"total"`
}

func MapQuote(q domainpricing.Quote) Quote {
	lines := make([]QuoteLine, 0, len(q.Services))
	for _, s := range q.Services {
		lines = append(lines, QuoteLine{ID: s.ID, Name: s.Name, Price: s.Price})
	}
	return Quote{
		VenueID:       string(q.VenueID),
		GuestCount:    q.GuestCount,
		OccupancyRate: q.OccupancyRate,
		BasePrice:     q.BasePrice,
		Discount:      q.Discount,
		RentalPrice:   q.RentalPrice,
		Services:      lines,
		ServicesTotal: q.ServicesTotal,
		Total:         q.Total,
	}
}
