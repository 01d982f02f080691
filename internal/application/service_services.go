package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
	"golang.org/x/sync/errgroup"
)

// ListServices never fails: a store error is logged and yields an empty list.
func (s *Service) ListServices(ctx context.Context) []domain.Service {
	if cached, ok := s.cachedServices(ctx); ok {
		return cached
	}
	items, err := s.services.List(ctx)
	if err != nil {
		s.logger().ErrorContext(ctx, "list services failed",
			"operation", "list_services",
			"outcome", "failure",
			"error", err,
		)
		return []domain.Service{}
	}
	s.storeServicesCache(ctx, items)
	return items
}

func (s *Service) CreateService(ctx context.Context) (domain.Service, error) {
	svc, err := s.services.CreateNext(ctx, ports.CreateServiceParams{
		ServiceID: uuid.New(),
		Name:      domain.DefaultServiceName,
		Emoji:     domain.DefaultServiceEmoji,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		return domain.Service{}, storeErr("create service", err)
	}
	s.invalidateServices(ctx)
	s.enqueue(ctx, "timeline.service_created", svc.ServiceID.String(), serviceEventData{
		ServiceID: svc.ServiceID.String(),
		Name:      svc.Name,
		Emoji:     svc.Emoji,
		Order:     svc.Order,
	})
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, serviceID uuid.UUID, in UpdateServiceInput) (domain.Service, error) {
	if err := domain.ValidateServiceName(in.Name); err != nil {
		return domain.Service{}, err
	}
	if err := domain.ValidateEmoji(in.Emoji); err != nil {
		return domain.Service{}, err
	}
	svc, err := s.services.Update(ctx, ports.UpdateServiceParams{
		ServiceID: serviceID,
		Name:      strings.TrimSpace(in.Name),
		Emoji:     strings.TrimSpace(in.Emoji),
		UpdatedAt: s.nowFn(),
	})
	if err != nil {
		return domain.Service{}, storeErr("update service", err)
	}
	s.invalidateServices(ctx)
	s.enqueue(ctx, "timeline.service_updated", svc.ServiceID.String(), serviceEventData{
		ServiceID: svc.ServiceID.String(),
		Name:      svc.Name,
		Emoji:     svc.Emoji,
		Order:     svc.Order,
	})
	return svc, nil
}

// DeleteService removes the service and then its events, deleting events concurrently.
// Event deletes that fail are not rolled back; they are reported in SurvivingEventIDs and
// the returned error wraps ErrCascadeIncomplete.
func (s *Service) DeleteService(ctx context.Context, serviceID uuid.UUID) (DeleteServiceResult, error) {
	result := DeleteServiceResult{ServiceID: serviceID}
	if err := s.services.Delete(ctx, serviceID); err != nil {
		return result, storeErr("delete service", err)
	}
	s.invalidateServices(ctx)

	eventIDs, err := s.events.ListIDsByService(ctx, serviceID)
	if err != nil {
		s.enqueueServiceDeleted(ctx, result)
		return result, fmt.Errorf("%w: %w: list events of deleted service: %v", domain.ErrCascadeIncomplete, domain.ErrStore, err)
	}

	outcomes := make([]error, len(eventIDs))
	var g errgroup.Group
	g.SetLimit(s.cfg.CascadeConcurrency)
	for i, eventID := range eventIDs {
		i, eventID := i, eventID
		g.Go(func() error {
			outcomes[i] = s.events.Delete(ctx, eventID)
			return nil
		})
	}
	_ = g.Wait()

	for i, eventID := range eventIDs {
		if outcomes[i] != nil && !errors.Is(outcomes[i], domain.ErrNotFound) {
			s.logger().WarnContext(ctx, "cascade event delete failed",
				"operation", "delete_service_cascade",
				"outcome", "failure",
				"service_id", serviceID.String(),
				"event_id", eventID.String(),
				"error", outcomes[i],
			)
			result.SurvivingEventIDs = append(result.SurvivingEventIDs, eventID)
			continue
		}
		result.DeletedEventIDs = append(result.DeletedEventIDs, eventID)
	}
	s.enqueueServiceDeleted(ctx, result)

	if len(result.SurvivingEventIDs) > 0 {
		return result, fmt.Errorf("%w: %w: %d of %d events survived", domain.ErrCascadeIncomplete, domain.ErrStore,
			len(result.SurvivingEventIDs), len(eventIDs))
	}
	return result, nil
}

func (s *Service) enqueueServiceDeleted(ctx context.Context, result DeleteServiceResult) {
	s.enqueue(ctx, "timeline.service_deleted", result.ServiceID.String(), serviceDeletedEventData{
		ServiceID:         result.ServiceID.String(),
		DeletedEventIDs:   idStrings(result.DeletedEventIDs),
		SurvivingEventIDs: idStrings(result.SurvivingEventIDs),
	})
}
