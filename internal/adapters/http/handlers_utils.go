package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/domain"
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func serviceIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "service_id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: service id must be a uuid", domain.ErrValidation)
	}
	return id, nil
}

// rangeQuery returns nil when neither bound is present. Supplying only one bound is an error.
func rangeQuery(r *http.Request) (*domain.DateRange, error) {
	start := strings.TrimSpace(r.URL.Query().Get("start"))
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if start == "" && end == "" {
		return nil, nil
	}
	rng, err := domain.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	return &rng, nil
}

func (h *Handler) writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	h.logOperationError(ctx, operation, status, code, err)
	writeError(w, status, code, msg)
}

func (h *Handler) writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	h.logOperationError(ctx, operation, http.StatusBadRequest, "VALIDATION_ERROR", err)
	writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
}

// logOperationError logs the full cause, including store driver detail that the response
// body leaves out. Server faults log at error level, caller faults at warn.
func (h *Handler) logOperationError(ctx context.Context, operation string, statusCode int, code string, err error) {
	level := slog.LevelWarn
	if statusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	attrs := []any{
		"operation", operation,
		"outcome", "failure",
		"status_code", statusCode,
		"error_code", code,
		"request_id", requestIDFromContext(ctx),
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
	}
	h.logger.Log(ctx, level, "http operation failed", attrs...)
}
