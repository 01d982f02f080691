package grid

import (
	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
)

// Key identifies one (date, service) bucket.
func Key(date string, serviceID uuid.UUID) string {
	return date + "|" + serviceID.String()
}

// Buckets groups events by Key, keeping the input order inside each bucket.
type Buckets map[string][]domain.TimelineEvent

func Bucket(events []domain.TimelineEvent) Buckets {
	out := make(Buckets, len(events))
	for _, ev := range events {
		k := Key(ev.Date, ev.ServiceID)
		out[k] = append(out[k], ev)
	}
	return out
}

// Cell concatenates the buckets of every date in the row for one service.
func (b Buckets) Cell(row Row, serviceID uuid.UUID) []domain.TimelineEvent {
	var out []domain.TimelineEvent
	for _, date := range row.Dates {
		out = append(out, b[Key(date, serviceID)]...)
	}
	return out
}
