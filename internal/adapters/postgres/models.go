package postgres

import (
	"time"

	"github.com/google/uuid"
)

type serviceModel struct {
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid;primaryKey"`
	Seq       int64     `gorm:"column:seq;->"`
	Name      string    `gorm:"column:name"`
	Emoji     string    `gorm:"column:emoji"`
	SortOrder int       `gorm:"column:sort_order"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (serviceModel) TableName() string { return "services" }

type eventModel struct {
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;primaryKey"`
	Seq       int64     `gorm:"column:seq;->"`
	ServiceID uuid.UUID `gorm:"column:service_id;type:uuid"`
	EventDate time.Time `gorm:"column:event_date;type:date"`
	Title     string    `gorm:"column:title"`
	Content   string    `gorm:"column:content"`
	Category  string    `gorm:"column:category"`
	Highlight bool      `gorm:"column:highlight"`
	Reason    string    `gorm:"column:reason"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (eventModel) TableName() string { return "events" }

type outboxModel struct {
	OutboxID     uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      string     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
	RetryCount   int        `gorm:"column:retry_count"`
	LastError    *string    `gorm:"column:last_error"`
	LastErrorAt  *time.Time `gorm:"column:last_error_at"`
	ClaimToken   *string    `gorm:"column:claim_token"`
	ClaimUntil   *time.Time `gorm:"column:claim_until"`
}

func (outboxModel) TableName() string { return "timeline_outbox" }
