package postgres

import (
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

func toDomainService(m serviceModel) domain.Service {
	return domain.Service{
		ServiceID: m.ServiceID, Name: m.Name, Emoji: m.Emoji, Order: m.SortOrder,
		CreatedAt: m.CreatedAt.UTC(), UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func toDomainEvent(m eventModel) domain.TimelineEvent {
	return domain.TimelineEvent{
		EventID: m.EventID, ServiceID: m.ServiceID, Date: domain.FormatDate(m.EventDate),
		Title: m.Title, Content: m.Content,
		Classification: domain.Classification{Category: m.Category, Highlight: m.Highlight, Reason: m.Reason},
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

func toEventModel(ev domain.TimelineEvent) (eventModel, error) {
	day, err := domain.ParseDate(ev.Date)
	if err != nil {
		return eventModel{}, err
	}
	return eventModel{
		EventID: ev.EventID, ServiceID: ev.ServiceID, EventDate: day,
		Title: ev.Title, Content: ev.Content,
		Category: ev.Category, Highlight: ev.Highlight, Reason: ev.Reason,
		CreatedAt: ev.CreatedAt,
	}, nil
}

func toOutboxRecord(m outboxModel) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID: m.OutboxID, EventType: m.EventType, PartitionKey: m.PartitionKey,
		Payload: []byte(m.Payload), RetryCount: m.RetryCount, PublishedAt: m.PublishedAt,
		LastError: m.LastError, CreatedAt: m.CreatedAt,
		ClaimToken: m.ClaimToken, ClaimUntil: m.ClaimUntil,
	}
}
