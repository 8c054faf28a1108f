package model

import (
	"time"

	"eventease/pkg/dates"
)

const (
	LocationOnline   = "Online"
	LocationInPerson = "In-Person"
)

// Categories an event may be published under.
var Categories = []string{
	"Music", "Tech", "Business", "Workshop", "Webinar",
	"Conference", "Sports", "Arts", "Food", "Health", "Other",
}

type Event struct {
	ID           string       `json:"id,omitempty" bson:"_id,omitempty"`
	EventID      string       `json:"eventId" bson:"event_id"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description" bson:"description"`
	Category     string       `json:"category" bson:"category"`
	Location     string       `json:"location" bson:"location"`
	LocationType string       `json:"locationType" bson:"location_type"`
	Date         time.Time    `json:"date" bson:"date"`
	StartTime    string       `json:"startTime" bson:"start_time"`
	EndTime      string       `json:"endTime" bson:"end_time"`
	Capacity     int          `json:"capacity" bson:"capacity"`
	BookedSeats  int          `json:"bookedSeats" bson:"booked_seats"`
	Price        float64      `json:"price" bson:"price"`
	Image        string       `json:"image,omitempty" bson:"image,omitempty"`
	Organizer    string       `json:"organizer" bson:"organizer"`
	Status       dates.Status `json:"status" bson:"status"`
	CreatedBy    string       `json:"createdBy" bson:"created_by"`
	CreatedAt    time.Time    `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" bson:"updated_at"`

	// FormattedDate is a display-only projection set at the read boundary.
	FormattedDate string `json:"formattedDate,omitempty" bson:"-"`
}

// Refresh recomputes the derived read-time fields. The stored status is
// never trusted because "today" advances independently of writes.
func (e *Event) Refresh(now time.Time) {
	e.Status = dates.DeriveStatus(e.Date, now)
	e.FormattedDate = dates.FormatDate(e.Date)
}

// AvailableSeats is a convenience projection; the authoritative guard
// lives in the seat ledger's conditional update.
func (e *Event) AvailableSeats() int {
	return e.Capacity - e.BookedSeats
}

type CreateEventRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=150"`
	Description  string  `json:"description" validate:"required,min=3,max=5000"`
	Category     string  `json:"category" validate:"required,event_category"`
	Location     string  `json:"location" validate:"required,min=2,max=200"`
	LocationType string  `json:"locationType" validate:"required,oneof=Online In-Person"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string  `json:"startTime" validate:"required,time_of_day"`
	EndTime      string  `json:"endTime" validate:"required,time_of_day"`
	Capacity     int     `json:"capacity" validate:"required,min=1"`
	Price        float64 `json:"price" validate:"omitempty,gte=0"`
	Organizer    string  `json:"organizer" validate:"required,min=2,max=150"`
	Image        string  `json:"image" validate:"omitempty,max=500"`
}

type UpdateEventRequest struct {
	Title        *string  `json:"title,omitempty" validate:"omitempty,min=3,max=150"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,min=3,max=5000"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,event_category"`
	Location     *string  `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	LocationType *string  `json:"locationType,omitempty" validate:"omitempty,oneof=Online In-Person"`
	Date         *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime    *string  `json:"startTime,omitempty" validate:"omitempty,time_of_day"`
	EndTime      *string  `json:"endTime,omitempty" validate:"omitempty,time_of_day"`
	Capacity     *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	Price        *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Organizer    *string  `json:"organizer,omitempty" validate:"omitempty,min=2,max=150"`
	Image        *string  `json:"image,omitempty" validate:"omitempty,max=500"`
}

// EventFilter narrows event listings. Empty string fields mean "all";
// nil date bounds mean unbounded.
type EventFilter struct {
	Category     string
	LocationType string
	DateFrom     *time.Time
	DateTo       *time.Time
}
