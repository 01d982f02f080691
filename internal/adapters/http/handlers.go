package http

import (
	"errors"
	"net/http"

	"github.com/inkinno/projects/internal/adapters/calendar"
	"github.com/inkinno/projects/internal/application"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req contracts.SignInRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeValidationError(r.Context(), w, "sign_in", err)
		return
	}
	session, err := h.service.SignIn(r.Context(), req.Credential)
	if err != nil {
		h.writeMappedError(r.Context(), w, "sign_in", err)
		return
	}
	writeSuccess(w, http.StatusCreated, contracts.SessionResponse{
		Token:     session.Token,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or missing credentials")
		return
	}
	writeSuccess(w, http.StatusOK, contracts.SessionResponse{
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, toServiceResponses(h.service.ListServices(r.Context())))
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.service.CreateService(r.Context())
	if err != nil {
		h.writeMappedError(r.Context(), w, "create_service", err)
		return
	}
	writeSuccess(w, http.StatusCreated, toServiceResponse(svc))
}

func (h *Handler) updateService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := serviceIDParam(r)
	if err != nil {
		h.writeValidationError(r.Context(), w, "update_service", err)
		return
	}
	var req contracts.UpdateServiceRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeValidationError(r.Context(), w, "update_service", err)
		return
	}
	svc, err := h.service.UpdateService(r.Context(), serviceID, application.UpdateServiceInput{
		Name:  req.Name,
		Emoji: req.Emoji,
	})
	if err != nil {
		h.writeMappedError(r.Context(), w, "update_service", err)
		return
	}
	writeSuccess(w, http.StatusOK, toServiceResponse(svc))
}

func (h *Handler) deleteService(w http.ResponseWriter, r *http.Request) {
	serviceID, err := serviceIDParam(r)
	if err != nil {
		h.writeValidationError(r.Context(), w, "delete_service", err)
		return
	}
	res, err := h.service.DeleteService(r.Context(), serviceID)
	if errors.Is(err, domain.ErrCascadeIncomplete) {
		status, code, msg := mapDomainError(err)
		h.logOperationError(r.Context(), "delete_service", status, code, err)
		writeErrorWithData(w, status, code, msg, toDeleteServiceResponse(res))
		return
	}
	if err != nil {
		h.writeMappedError(r.Context(), w, "delete_service", err)
		return
	}
	writeSuccess(w, http.StatusOK, toDeleteServiceResponse(res))
}

func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeQuery(r)
	if err != nil {
		h.writeValidationError(r.Context(), w, "list_events", err)
		return
	}
	writeSuccess(w, http.StatusOK, toEventResponses(h.service.ListEvents(r.Context(), rng)))
}

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var req contracts.CreateEventRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeValidationError(r.Context(), w, "create_event", err)
		return
	}
	ev, err := h.service.CreateEvent(r.Context(), application.CreateEventInput{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Title:     req.Title,
		Content:   req.Content,
	})
	if err != nil {
		h.writeMappedError(r.Context(), w, "create_event", err)
		return
	}
	writeSuccess(w, http.StatusCreated, toEventResponse(ev))
}

func (h *Handler) getTimeline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	g, err := h.service.BuildGrid(r.Context(), application.GridQuery{
		Start: q.Get("start"),
		End:   q.Get("end"),
		Mode:  q.Get("mode"),
		Order: q.Get("order"),
	})
	if err != nil {
		h.writeMappedError(r.Context(), w, "get_timeline", err)
		return
	}
	writeSuccess(w, http.StatusOK, toGridResponse(g))
}

func (h *Handler) exportCalendar(w http.ResponseWriter, r *http.Request) {
	rng, err := rangeQuery(r)
	if err != nil {
		h.writeValidationError(r.Context(), w, "export_calendar", err)
		return
	}
	body := calendar.Export(h.calendarName,
		h.service.ListServices(r.Context()),
		h.service.ListEvents(r.Context(), rng),
		h.nowFn(),
	)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timeline.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}
