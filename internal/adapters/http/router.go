package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inkinno/projects/internal/application"
)

type Handler struct {
	service      *application.Service
	logger       *slog.Logger
	calendarName string
	nowFn        func() time.Time
}

// NewHandler tags every HTTP log line with the configured service name.
func NewHandler(service *application.Service) *Handler {
	return &Handler{
		service: service,
		logger: slog.Default().With(
			"service", service.Name(),
			"module", "http",
			"layer", "adapter",
		),
		calendarName: "Project timeline",
		nowFn:        func() time.Time { return time.Now().UTC() },
	}
}

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(handler.recoverMiddleware)
	r.Use(handler.loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Post("/auth/v1/session", handler.signIn)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handler.authMiddleware)

		r.Get("/session", handler.currentSession)
		r.Route("/services", func(r chi.Router) {
			r.Get("/", handler.listServices)
			r.Post("/", handler.createService)
			r.Patch("/{service_id}", handler.updateService)
			r.Delete("/{service_id}", handler.deleteService)
		})
		r.Get("/events", handler.listEvents)
		r.Post("/events", handler.createEvent)
		r.Get("/timeline", handler.getTimeline)
		r.Get("/calendar.ics", handler.exportCalendar)
	})
	return r
}
