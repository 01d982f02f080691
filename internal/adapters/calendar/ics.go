// Package calendar renders timeline events as an iCalendar feed.
package calendar

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
)

const productID = "-//inkinno//project timeline//EN"

// Export writes one all-day VEVENT per timeline event. Events whose service is unknown
// are still exported, without the service prefix in the summary.
func Export(name string, services []domain.Service, events []domain.TimelineEvent, stamp time.Time) string {
	byID := make(map[uuid.UUID]domain.Service, len(services))
	for _, svc := range services {
		byID[svc.ServiceID] = svc
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	for _, ev := range events {
		day, err := domain.ParseDate(ev.Date)
		if err != nil {
			continue
		}
		vevent := cal.AddEvent(ev.EventID.String() + "@timeline")
		vevent.SetDtStampTime(stamp)
		vevent.SetCreatedTime(ev.CreatedAt)
		vevent.SetAllDayStartAt(day)
		vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
		vevent.SetSummary(summary(byID[ev.ServiceID], ev))
		vevent.SetDescription(description(ev))
		if ev.Category != "" {
			vevent.AddProperty(ical.ComponentPropertyCategories, ev.Category)
		}
		if ev.Highlight {
			vevent.SetProperty(ical.ComponentPropertyPriority, "1")
		}
	}
	return cal.Serialize()
}

func summary(svc domain.Service, ev domain.TimelineEvent) string {
	if svc.Name == "" {
		return ev.Title
	}
	return strings.TrimSpace(svc.Emoji+" "+svc.Name) + ": " + ev.Title
}

func description(ev domain.TimelineEvent) string {
	if ev.Reason == "" {
		return ev.Content
	}
	return ev.Content + "\n\n" + ev.Reason
}
