package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

const servicesCacheKey = "timeline:services:v1"

// Name is the configured service identifier used in logs and outbox envelopes.
func (s *Service) Name() string {
	return s.cfg.ServiceName
}

func (s *Service) logger() *slog.Logger {
	return slog.Default().With(
		"service", s.cfg.ServiceName,
		"module", "application",
		"layer", "application",
	)
}

// storeErr keeps not-found distinguishable and folds everything else into ErrStore.
func storeErr(operation string, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrStore) {
		return err
	}
	return &domain.StoreError{Op: operation, Err: err}
}

type serviceEventData struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
	Order     int    `json:"order"`
}

type serviceDeletedEventData struct {
	ServiceID         string   `json:"service_id"`
	DeletedEventIDs   []string `json:"deleted_event_ids"`
	SurvivingEventIDs []string `json:"surviving_event_ids,omitempty"`
}

type eventCreatedEventData struct {
	EventID   string `json:"event_id"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Category  string `json:"category"`
	Highlight bool   `json:"highlight"`
}

// enqueue records a change notification for the outbox relay. Failures are logged only;
// the mutation has already been committed.
func (s *Service) enqueue(ctx context.Context, eventType, partitionKey string, data any) {
	if s.outbox == nil {
		return
	}
	occurredAt := s.nowFn()
	eventID := uuid.New()
	payload, err := json.Marshal(map[string]any{
		"event_id":       eventID.String(),
		"event_type":     eventType,
		"occurred_at":    occurredAt.Format(time.RFC3339),
		"source_service": s.cfg.ServiceName,
		"schema_version": "1.0",
		"partition_key":  partitionKey,
		"data":           data,
	})
	if err == nil {
		err = s.outbox.Enqueue(ctx, ports.OutboxEvent{
			EventID:      eventID,
			EventType:    eventType,
			PartitionKey: partitionKey,
			Payload:      payload,
			OccurredAt:   occurredAt,
		})
	}
	if err != nil {
		s.logger().WarnContext(ctx, "outbox enqueue failed",
			"operation", "enqueue_outbox",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}

type cachedService struct {
	ServiceID string    `json:"service_id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) cachedServices(ctx context.Context) ([]domain.Service, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, servicesCacheKey)
	if err != nil || raw == "" {
		return nil, false
	}
	var items []cachedService
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	out := make([]domain.Service, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ServiceID)
		if err != nil {
			return nil, false
		}
		out = append(out, domain.Service{
			ServiceID: id,
			Name:      item.Name,
			Emoji:     item.Emoji,
			Order:     item.Order,
			CreatedAt: item.CreatedAt,
			UpdatedAt: item.UpdatedAt,
		})
	}
	return out, true
}

func (s *Service) storeServicesCache(ctx context.Context, services []domain.Service) {
	if s.cache == nil {
		return
	}
	items := make([]cachedService, 0, len(services))
	for _, svc := range services {
		items = append(items, cachedService{
			ServiceID: svc.ServiceID.String(),
			Name:      svc.Name,
			Emoji:     svc.Emoji,
			Order:     svc.Order,
			CreatedAt: svc.CreatedAt,
			UpdatedAt: svc.UpdatedAt,
		})
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, servicesCacheKey, string(raw), s.cfg.ServicesCacheTTL); err != nil {
		s.logger().WarnContext(ctx, "services cache write failed",
			"operation", "cache_services",
			"outcome", "failure",
			"error", err,
		)
	}
}

func (s *Service) invalidateServices(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, servicesCacheKey); err != nil {
		s.logger().WarnContext(ctx, "services cache invalidation failed",
			"operation", "invalidate_services_cache",
			"outcome", "failure",
			"error", err,
		)
	}
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
