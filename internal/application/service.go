package application

import (
	"time"

	"github.com/inkinno/projects/internal/ports"
)

type Service struct {
	cfg        Config
	services   ports.ServiceRepository
	events     ports.EventRepository
	outbox     ports.OutboxRepository
	classifier ports.EventClassifier
	cache      ports.Cache
	identity   ports.IdentityVerifier
	sessions   ports.SessionSigner
	nowFn      func() time.Time
}

type Dependencies struct {
	Config     Config
	Services   ports.ServiceRepository
	Events     ports.EventRepository
	Outbox     ports.OutboxRepository
	Classifier ports.EventClassifier
	Cache      ports.Cache
	Identity   ports.IdentityVerifier
	Sessions   ports.SessionSigner
	Clock      func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "timeline-service"
	}
	if cfg.ServicesCacheTTL <= 0 {
		cfg.ServicesCacheTTL = 5 * time.Minute
	}
	if cfg.CascadeConcurrency <= 0 {
		cfg.CascadeConcurrency = 8
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	nowFn := deps.Clock
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	return &Service{
		cfg:        cfg,
		services:   deps.Services,
		events:     deps.Events,
		outbox:     deps.Outbox,
		classifier: deps.Classifier,
		cache:      deps.Cache,
		identity:   deps.Identity,
		sessions:   deps.Sessions,
		nowFn:      nowFn,
	}
}
