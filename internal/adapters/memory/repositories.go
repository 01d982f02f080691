// Package memory provides process-local repositories for tests and single-node runs
// without Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

type Repositories struct {
	Services *ServiceRepository
	Events   *EventRepository
	Outbox   *OutboxRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Services: &ServiceRepository{rows: map[uuid.UUID]serviceRow{}},
		Events:   &EventRepository{rows: map[uuid.UUID]eventRow{}},
		Outbox:   &OutboxRepository{},
	}
}

type serviceRow struct {
	seq int64
	svc domain.Service
}

type ServiceRepository struct {
	mu   sync.Mutex
	seq  int64
	rows map[uuid.UUID]serviceRow
}

func (r *ServiceRepository) List(_ context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]serviceRow, 0, len(r.rows))
	for _, row := range r.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].svc.Order != rows[j].svc.Order {
			return rows[i].svc.Order < rows[j].svc.Order
		}
		return rows[i].seq < rows[j].seq
	})
	out := make([]domain.Service, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.svc)
	}
	return out, nil
}

func (r *ServiceRepository) GetByID(_ context.Context, serviceID uuid.UUID) (domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[serviceID]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	return row.svc, nil
}

func (r *ServiceRepository) CreateNext(_ context.Context, params ports.CreateServiceParams) (domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order := 0
	if len(r.rows) > 0 {
		maxOrder := 0
		first := true
		for _, row := range r.rows {
			if first || row.svc.Order > maxOrder {
				maxOrder = row.svc.Order
				first = false
			}
		}
		order = maxOrder + 1
	}
	r.seq++
	svc := domain.Service{
		ServiceID: params.ServiceID,
		Name:      params.Name,
		Emoji:     params.Emoji,
		Order:     order,
		CreatedAt: params.CreatedAt,
		UpdatedAt: params.CreatedAt,
	}
	r.rows[svc.ServiceID] = serviceRow{seq: r.seq, svc: svc}
	return svc, nil
}

// Insert stores a service with an explicit order, bypassing allocation.
func (r *ServiceRepository) Insert(svc domain.Service) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.rows[svc.ServiceID] = serviceRow{seq: r.seq, svc: svc}
}

func (r *ServiceRepository) Update(_ context.Context, params ports.UpdateServiceParams) (domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[params.ServiceID]
	if !ok {
		return domain.Service{}, domain.ErrNotFound
	}
	row.svc.Name = params.Name
	row.svc.Emoji = params.Emoji
	row.svc.UpdatedAt = params.UpdatedAt
	r.rows[params.ServiceID] = row
	return row.svc, nil
}

func (r *ServiceRepository) Delete(_ context.Context, serviceID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[serviceID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, serviceID)
	return nil
}

type eventRow struct {
	seq int64
	ev  domain.TimelineEvent
}

type EventRepository struct {
	mu   sync.Mutex
	seq  int64
	rows map[uuid.UUID]eventRow
}

func (r *EventRepository) Create(_ context.Context, event domain.TimelineEvent) (domain.TimelineEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	r.rows[event.EventID] = eventRow{seq: r.seq, ev: event}
	return event, nil
}

func (r *EventRepository) ListAll(_ context.Context) ([]domain.TimelineEvent, error) {
	rows := r.snapshot(func(domain.TimelineEvent) bool { return true })
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].ev.CreatedAt.Equal(rows[j].ev.CreatedAt) {
			return rows[i].ev.CreatedAt.After(rows[j].ev.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	return events(rows), nil
}

func (r *EventRepository) ListInRange(_ context.Context, rng domain.DateRange) ([]domain.TimelineEvent, error) {
	rows := r.snapshot(func(ev domain.TimelineEvent) bool { return rng.Contains(ev.Date) })
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ev.Date != rows[j].ev.Date {
			return rows[i].ev.Date < rows[j].ev.Date
		}
		return rows[i].seq < rows[j].seq
	})
	return events(rows), nil
}

func (r *EventRepository) ListIDsByService(_ context.Context, serviceID uuid.UUID) ([]uuid.UUID, error) {
	rows := r.snapshot(func(ev domain.TimelineEvent) bool { return ev.ServiceID == serviceID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ev.EventID)
	}
	return out, nil
}

func (r *EventRepository) Delete(_ context.Context, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[eventID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, eventID)
	return nil
}

func (r *EventRepository) snapshot(keep func(domain.TimelineEvent) bool) []eventRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventRow, 0, len(r.rows))
	for _, row := range r.rows {
		if keep(row.ev) {
			out = append(out, row)
		}
	}
	return out
}

func events(rows []eventRow) []domain.TimelineEvent {
	out := make([]domain.TimelineEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ev)
	}
	return out
}

type OutboxRepository struct {
	mu   sync.Mutex
	rows []ports.OutboxRecord
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      append([]byte(nil), event.Payload...),
		CreatedAt:    event.OccurredAt,
	})
	return nil
}

func (r *OutboxRepository) ClaimUnpublished(_ context.Context, limit, maxAttempts int, claimToken string, claimUntil time.Time) ([]ports.OutboxRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	if claimToken == "" {
		return nil, fmt.Errorf("claim token is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	out := make([]ports.OutboxRecord, 0, limit)
	for i := range r.rows {
		row := &r.rows[i]
		if row.PublishedAt != nil || row.RetryCount >= maxAttempts {
			continue
		}
		if row.ClaimUntil != nil && !row.ClaimUntil.Before(now) {
			continue
		}
		token, until := claimToken, claimUntil
		row.ClaimToken, row.ClaimUntil = &token, &until
		out = append(out, *row)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.claimed(outboxID, claimToken)
	if row == nil {
		return nil
	}
	published := at
	row.PublishedAt = &published
	row.ClaimToken, row.ClaimUntil = nil, nil
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, claimToken, errMsg string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row := r.claimed(outboxID, claimToken)
	if row == nil {
		return nil
	}
	msg := errMsg
	row.RetryCount++
	row.LastError = &msg
	row.ClaimToken, row.ClaimUntil = nil, nil
	return nil
}

// claimed returns the row only while claimToken still holds it. A lost claim is a no-op
// for the caller, matching the conditional update in Postgres.
func (r *OutboxRepository) claimed(outboxID uuid.UUID, claimToken string) *ports.OutboxRecord {
	for i := range r.rows {
		row := &r.rows[i]
		if row.OutboxID == outboxID && row.ClaimToken != nil && *row.ClaimToken == claimToken {
			return row
		}
	}
	return nil
}

// Records returns a copy of every outbox row, published or not.
func (r *OutboxRepository) Records() []ports.OutboxRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.OutboxRecord(nil), r.rows...)
}
