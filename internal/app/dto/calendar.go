package dto

import (
	domainavailability "eventspace/internal/domain/availability"
	"eventspace/internal/domain/shared/calendar"
)

// DateAvailability is one day of a venue calendar.
type DateAvailability struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"isAvailable"`
}

func MapMonth(days []domainavailability.Day) []DateAvailability {
	out := make([]DateAvailability, 0, len(days))
	for _, d := range days {
		out = append(out, DateAvailability{Date: calendar.Format(d.Date), IsAvailable: d.IsAvailable})
	}
	return out
}
