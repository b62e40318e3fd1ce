package models

import (
	"time"
)

type Event struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Venue         string    `json:"venue"`
	VenueCapacity int       `json:"venue_capacity"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Organizer     string    `json:"organizer"`
	Status        string    `json:"status"` // draft, published, started, ended
}
