package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
)

type CreateServiceParams struct {
	ServiceID uuid.UUID
	Name      string
	Emoji     string
	CreatedAt time.Time
}

type UpdateServiceParams struct {
	ServiceID uuid.UUID
	Name      string
	Emoji     string
	UpdatedAt time.Time
}

type ServiceRepository interface {
	// List returns services by order ascending, then creation time, then id.
	List(ctx context.Context) ([]domain.Service, error)
	GetByID(ctx context.Context, serviceID uuid.UUID) (domain.Service, error)
	// CreateNext assigns order = max(order)+1 (0 when empty) atomically with the insert.
	CreateNext(ctx context.Context, params CreateServiceParams) (domain.Service, error)
	Update(ctx context.Context, params UpdateServiceParams) (domain.Service, error)
	Delete(ctx context.Context, serviceID uuid.UUID) error
}

type EventRepository interface {
	Create(ctx context.Context, event domain.TimelineEvent) (domain.TimelineEvent, error)
	// ListAll orders by created_at descending.
	ListAll(ctx context.Context) ([]domain.TimelineEvent, error)
	// ListInRange returns start <= date <= end ordered by date ascending.
	ListInRange(ctx context.Context, rng domain.DateRange) ([]domain.TimelineEvent, error)
	ListIDsByService(ctx context.Context, serviceID uuid.UUID) ([]uuid.UUID, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
}

type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	CreatedAt    time.Time
	ClaimToken   *string
	ClaimUntil   *time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	// ClaimUnpublished leases up to limit pending records to claimToken until claimUntil.
	// Records already leased to another live claim, or that failed maxAttempts times, are skipped.
	ClaimUnpublished(ctx context.Context, limit, maxAttempts int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	// MarkPublished and MarkFailed only touch a record still held by claimToken.
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
