package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/grid"
)

type Config struct {
	ServiceName        string
	ServicesCacheTTL   time.Duration
	CascadeConcurrency int
	AllowedEmail       string
	SessionTTL         time.Duration
	AuthDisabled       bool
}

type UpdateServiceInput struct {
	Name  string
	Emoji string
}

type CreateEventInput struct {
	ServiceID string
	Date      string
	Title     string
	Content   string
}

// DeleteServiceResult reports per-event outcomes of the cascade. It is returned even when
// the cascade is incomplete.
type DeleteServiceResult struct {
	ServiceID         uuid.UUID
	DeletedEventIDs   []uuid.UUID
	SurvivingEventIDs []uuid.UUID
}

type GridQuery struct {
	Start string
	End   string
	Mode  string
	Order string
}

type GridRow struct {
	grid.Row
	Cells [][]domain.TimelineEvent
}

// Grid is rows x services; Cells[i] lines up with Services[i].
type Grid struct {
	Range      domain.DateRange
	Mode       grid.ViewMode
	Order      grid.Order
	Label      string
	Services   []domain.Service
	Rows       []GridRow
	CurrentRow int
}

type Session struct {
	Token     string
	Email     string
	ExpiresAt time.Time
}
