package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultServiceName  = "New Service"
	DefaultServiceEmoji = "🚀"

	// DateLayout is the calendar-day layout used for event dates and range bounds.
	DateLayout = "2006-01-02"
)

// Service is one column of the timeline grid.
type Service struct {
	ServiceID uuid.UUID
	Name      string
	Emoji     string
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Classification is the classifier verdict attached to an event at creation.
type Classification struct {
	Category  string
	Highlight bool
	Reason    string
}

// TimelineEvent is immutable once stored.
type TimelineEvent struct {
	EventID   uuid.UUID
	ServiceID uuid.UUID
	Date      string
	Title     string
	Content   string
	Classification
	CreatedAt time.Time
}

// DateRange bounds are inclusive ISO dates.
type DateRange struct {
	Start string
	End   string
}

func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}
