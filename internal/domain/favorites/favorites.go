package favorites

import (
	"context"

	"eventspace/internal/domain/venues"
)

// Repository stores which users marked which venues as favorite.
type Repository interface {
	// Toggle flips the mark and reports whether it is now set.
	Toggle(ctx context.Context, userID string, venueID venues.VenueID) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]venues.VenueID, error)
}
