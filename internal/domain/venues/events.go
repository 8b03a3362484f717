package venues

import "time"

type VenueCreated struct {
	VenueID    VenueID
	ProviderID ProviderID
	At         time.Time
}

func (e VenueCreated) EventName() string     { return "venue.created" }
func (e VenueCreated) AggregateID() string   { return string(e.VenueID) }
func (e VenueCreated) OccurredAt() time.Time { return e.At }

type VenueUpdated struct {
	VenueID VenueID
	At      time.Time
}

func (e VenueUpdated) EventName() string     { return "venue.updated" }
func (e VenueUpdated) AggregateID() string   { return string(e.VenueID) }
func (e VenueUpdated) OccurredAt() time.Time { return e.At }

type VenueStatusChanged struct {
	VenueID VenueID
	From    Status
	To      Status
	At      time.Time
}

func (e VenueStatusChanged) EventName() string     { return "venue.status_changed" }
func (e VenueStatusChanged) AggregateID() string   { return string(e.VenueID) }
func (e VenueStatusChanged) OccurredAt() time.Time { return e.At }

type VenueFavorited struct {
	VenueID VenueID
	UserID  string
	Added   bool
	At      time.Time
}

func (e VenueFavorited) EventName() string     { return "venue.favorited" }
func (e VenueFavorited) AggregateID() string   { return string(e.VenueID) }
func (e VenueFavorited) OccurredAt() time.Time { return e.At }

type VenueReviewed struct {
	VenueID VenueID
	Rating  int
	Average float64
	At      time.Time
}

func (e VenueReviewed) EventName() string     { return "venue.reviewed" }
func (e VenueReviewed) AggregateID() string   { return string(e.VenueID) }
func (e VenueReviewed) OccurredAt() time.Time { return e.At }
