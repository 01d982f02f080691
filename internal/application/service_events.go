package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
)

// ListEvents returns every event newest first when rng is nil, otherwise the events
// dated within rng in date order. Store errors are logged and yield an empty list.
func (s *Service) ListEvents(ctx context.Context, rng *domain.DateRange) []domain.TimelineEvent {
	var (
		items []domain.TimelineEvent
		err   error
	)
	if rng == nil {
		items, err = s.events.ListAll(ctx)
	} else {
		items, err = s.events.ListInRange(ctx, *rng)
	}
	if err != nil {
		s.logger().ErrorContext(ctx, "list events failed",
			"operation", "list_events",
			"outcome", "failure",
			"ranged", rng != nil,
			"error", err,
		)
		return []domain.TimelineEvent{}
	}
	return items
}

// CreateEvent validates, classifies once and persists. Nothing is written when
// validation or classification fails.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (domain.TimelineEvent, error) {
	if err := domain.ValidateEventTitle(in.Title); err != nil {
		return domain.TimelineEvent{}, err
	}
	if err := domain.ValidateEventContent(in.Content); err != nil {
		return domain.TimelineEvent{}, err
	}
	date, err := domain.ParseDate(in.Date)
	if err != nil {
		return domain.TimelineEvent{}, err
	}
	serviceID, err := uuid.Parse(strings.TrimSpace(in.ServiceID))
	if err != nil {
		return domain.TimelineEvent{}, fmt.Errorf("%w: service_id must be a valid id", domain.ErrValidation)
	}
	if err := s.ensureService(ctx, serviceID); err != nil {
		return domain.TimelineEvent{}, err
	}

	content := strings.TrimSpace(in.Content)
	verdict, err := s.classifier.Classify(ctx, content)
	if err != nil {
		s.logger().WarnContext(ctx, "event classification failed",
			"operation", "classify_event",
			"outcome", "failure",
			"service_id", serviceID.String(),
			"error", err,
		)
		if !errors.Is(err, domain.ErrClassification) {
			err = fmt.Errorf("%w: %v", domain.ErrClassification, err)
		}
		return domain.TimelineEvent{}, err
	}
	if err := domain.ValidateClassification(verdict); err != nil {
		s.logger().WarnContext(ctx, "classifier returned an invalid verdict",
			"operation", "classify_event",
			"outcome", "failure",
			"service_id", serviceID.String(),
			"error", err,
		)
		return domain.TimelineEvent{}, err
	}
	verdict.Category = strings.TrimSpace(verdict.Category)
	verdict.Reason = strings.TrimSpace(verdict.Reason)

	// Classification can take seconds; the column may have been deleted meanwhile.
	if err := s.ensureService(ctx, serviceID); err != nil {
		return domain.TimelineEvent{}, err
	}

	created, err := s.events.Create(ctx, domain.TimelineEvent{
		EventID:        uuid.New(),
		ServiceID:      serviceID,
		Date:           domain.FormatDate(date),
		Title:          strings.TrimSpace(in.Title),
		Content:        content,
		Classification: verdict,
		CreatedAt:      s.nowFn(),
	})
	if err != nil {
		return domain.TimelineEvent{}, storeErr("create event", err)
	}
	s.enqueue(ctx, "timeline.event_created", created.ServiceID.String(), eventCreatedEventData{
		EventID:   created.EventID.String(),
		ServiceID: created.ServiceID.String(),
		Date:      created.Date,
		Title:     created.Title,
		Category:  created.Category,
		Highlight: created.Highlight,
	})
	return created, nil
}

func (s *Service) ensureService(ctx context.Context, serviceID uuid.UUID) error {
	if _, err := s.services.GetByID(ctx, serviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: service %s does not exist", domain.ErrValidation, serviceID)
		}
		return storeErr("load service", err)
	}
	return nil
}
