package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Create(ctx context.Context, event domain.TimelineEvent) (domain.TimelineEvent, error) {
	rec, err := toEventModel(event)
	if err != nil {
		return domain.TimelineEvent{}, err
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.TimelineEvent{}, err
	}
	return toDomainEvent(rec), nil
}

func (r *eventRepository) ListAll(ctx context.Context) ([]domain.TimelineEvent, error) {
	var rows []eventModel
	if err := r.db.WithContext(ctx).Order("created_at desc, seq desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(rows), nil
}

func (r *eventRepository) ListInRange(ctx context.Context, rng domain.DateRange) ([]domain.TimelineEvent, error) {
	var rows []eventModel
	if err := r.db.WithContext(ctx).
		Where("event_date >= ? AND event_date <= ?", rng.Start, rng.End).
		Order("event_date asc, seq asc").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainEvents(rows), nil
}

func (r *eventRepository) ListIDsByService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(&eventModel{}).Where("service_id = ?", serviceID).Order("seq asc").Pluck("event_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *eventRepository) Delete(ctx context.Context, eventID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&eventModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toDomainEvents(rows []eventModel) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainEvent(row))
	}
	return out
}
