package postgres

import (
	"github.com/inkinno/projects/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Services ports.ServiceRepository
	Events   ports.EventRepository
	Outbox   ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Services: &serviceRepository{db: db},
		Events:   &eventRepository{db: db},
		Outbox:   &outboxRepository{db: db},
	}
}
