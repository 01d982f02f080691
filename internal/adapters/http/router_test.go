package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/adapters/ai"
	httpadapter "github.com/inkinno/projects/internal/adapters/http"
	"github.com/inkinno/projects/internal/adapters/memory"
	"github.com/inkinno/projects/internal/adapters/security"
	"github.com/inkinno/projects/internal/application"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

const allowedEmail = "owner@example.com"

func fixedClock() time.Time {
	return time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
}

type stubIdentity struct{}

func (stubIdentity) Verify(_ context.Context, credential string) (ports.Identity, error) {
	return ports.Identity{Subject: "sub-" + credential, Email: credential, EmailVerified: true}, nil
}

func newRouter(t *testing.T, authDisabled bool, clock func() time.Time, overrides ...func(*application.Dependencies)) http.Handler {
	t.Helper()
	signer, err := security.NewJWTSigner("0123456789abcdef0123456789abcdef")
	if err != nil {
		t.Fatalf("signer: %v", err)
	}
	repos := memory.NewRepositories()
	deps := application.Dependencies{
		Config: application.Config{
			AllowedEmail: allowedEmail,
			AuthDisabled: authDisabled,
		},
		Services:   repos.Services,
		Events:     repos.Events,
		Outbox:     repos.Outbox,
		Classifier: ai.NewKeywordClassifier(),
		Identity:   stubIdentity{},
		Sessions:   signer,
		Clock:      clock,
	}
	for _, override := range overrides {
		override(&deps)
	}
	svc := application.NewService(deps)
	return httpadapter.NewRouter(httpadapter.NewHandler(svc))
}

func do(t *testing.T, router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) contracts.Envelope[T] {
	t.Helper()
	var out contracts.Envelope[T]
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
	return out
}

func TestTimelineRoutes(t *testing.T) {
	router := newRouter(t, true, fixedClock)

	createRR := do(t, router, http.MethodPost, "/api/v1/services", "", "")
	if createRR.Code != http.StatusCreated {
		t.Fatalf("create service failed: status=%d body=%s", createRR.Code, createRR.Body.String())
	}
	created := decode[contracts.ServiceResponse](t, createRR).Data
	if created.Name != "New Service" || created.Emoji != "🚀" || created.Order != 0 {
		t.Fatalf("unexpected service: %+v", created)
	}

	updateRR := do(t, router, http.MethodPatch, "/api/v1/services/"+created.ID, `{"name":"Billing","emoji":"💳"}`, "")
	if updateRR.Code != http.StatusOK {
		t.Fatalf("update failed: status=%d body=%s", updateRR.Code, updateRR.Body.String())
	}

	eventRR := do(t, router, http.MethodPost, "/api/v1/events",
		`{"service_id":"`+created.ID+`","date":"2024-01-10","title":"Launch","content":"v2 launched to all users"}`, "")
	if eventRR.Code != http.StatusCreated {
		t.Fatalf("create event failed: status=%d body=%s", eventRR.Code, eventRR.Body.String())
	}
	ev := decode[contracts.EventResponse](t, eventRR).Data
	if ev.Category != "critical milestone" || !ev.Highlight {
		t.Fatalf("unexpected classification: %+v", ev)
	}

	listRR := do(t, router, http.MethodGet, "/api/v1/events?start=2024-01-01&end=2024-01-31", "", "")
	if events := decode[[]contracts.EventResponse](t, listRR).Data; len(events) != 1 || events[0].ID != ev.ID {
		t.Fatalf("unexpected events: %+v", events)
	}

	gridRR := do(t, router, http.MethodGet, "/api/v1/timeline?start=2024-01-01&end=2024-01-21&mode=week", "", "")
	if gridRR.Code != http.StatusOK {
		t.Fatalf("timeline failed: status=%d body=%s", gridRR.Code, gridRR.Body.String())
	}
	g := decode[contracts.GridResponse](t, gridRR).Data
	if len(g.Rows) != 3 || len(g.Services) != 1 || g.Services[0].Name != "Billing" {
		t.Fatalf("unexpected grid: rows=%d services=%+v", len(g.Rows), g.Services)
	}
	if cell := g.Rows[1].Cells[0]; len(cell.Events) != 1 || cell.Events[0].Title != "Launch" {
		t.Fatalf("event not bucketed into second week: %+v", g.Rows[1])
	}
	if g.CurrentRow != 1 {
		t.Fatalf("expected current row 1, got %d", g.CurrentRow)
	}

	icsRR := do(t, router, http.MethodGet, "/api/v1/calendar.ics", "", "")
	if icsRR.Code != http.StatusOK || !strings.Contains(icsRR.Body.String(), "BEGIN:VEVENT") {
		t.Fatalf("unexpected calendar export: status=%d body=%s", icsRR.Code, icsRR.Body.String())
	}

	deleteRR := do(t, router, http.MethodDelete, "/api/v1/services/"+created.ID, "", "")
	if deleteRR.Code != http.StatusOK {
		t.Fatalf("delete failed: status=%d body=%s", deleteRR.Code, deleteRR.Body.String())
	}
	deleted := decode[contracts.DeleteServiceResponse](t, deleteRR).Data
	if len(deleted.DeletedEventIDs) != 1 || deleted.DeletedEventIDs[0] != ev.ID {
		t.Fatalf("unexpected delete result: %+v", deleted)
	}
}

func TestErrorMapping(t *testing.T) {
	router := newRouter(t, true, fixedClock)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed service id", http.MethodDelete, "/api/v1/services/not-a-uuid", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown service", http.MethodDelete, "/api/v1/services/6f1c1f43-3b5e-4b1c-9a55-3f0e0d3f8c11", "", http.StatusNotFound, "NOT_FOUND"},
		{"unknown field", http.MethodPost, "/api/v1/events", `{"bogus":true}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"empty title", http.MethodPost, "/api/v1/events", `{"service_id":"6f1c1f43-3b5e-4b1c-9a55-3f0e0d3f8c11","date":"2024-01-10","title":"","content":"hello"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"half range", http.MethodGet, "/api/v1/events?start=2024-01-01", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"bad mode", http.MethodGet, "/api/v1/timeline?mode=month", "", http.StatusBadRequest, "VALIDATION_ERROR"},
		{"window too wide", http.MethodGet, "/api/v1/timeline?start=0001-01-01&end=9999-12-31&mode=day", "", http.StatusBadRequest, "VALIDATION_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, router, tc.method, tc.path, tc.body, "")
			if rr.Code != tc.status {
				t.Fatalf("status=%d want=%d body=%s", rr.Code, tc.status, rr.Body.String())
			}
			out := decode[any](t, rr)
			if out.Status != "error" || out.Code != tc.code {
				t.Fatalf("unexpected envelope: %+v", out)
			}
		})
	}
}

type blankClassifier struct{}

func (blankClassifier) Classify(context.Context, string) (domain.Classification, error) {
	return domain.Classification{Highlight: true}, nil
}

type brokenServices struct {
	ports.ServiceRepository
}

func (brokenServices) GetByID(context.Context, uuid.UUID) (domain.Service, error) {
	return domain.Service{}, errors.New("dial tcp 10.0.0.5:5432: connection refused")
}

func TestErrorMessagesCarryCause(t *testing.T) {
	const eventBody = `{"service_id":"6f1c1f43-3b5e-4b1c-9a55-3f0e0d3f8c11","date":"2024-03-01","title":"Launch","content":"Shipped v1"}`

	t.Run("classification", func(t *testing.T) {
		router := newRouter(t, true, fixedClock, func(deps *application.Dependencies) {
			deps.Classifier = blankClassifier{}
		})
		createRR := do(t, router, http.MethodPost, "/api/v1/services", "", "")
		serviceID := decode[contracts.ServiceResponse](t, createRR).Data.ID

		body := strings.Replace(eventBody, "6f1c1f43-3b5e-4b1c-9a55-3f0e0d3f8c11", serviceID, 1)
		rr := do(t, router, http.MethodPost, "/api/v1/events", body, "")
		if rr.Code != http.StatusBadGateway {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		out := decode[any](t, rr)
		if out.Code != "CLASSIFICATION_ERROR" || out.Message != "classification failed: category is missing" {
			t.Fatalf("unexpected envelope: %+v", out)
		}
		if events := decode[[]contracts.EventResponse](t, do(t, router, http.MethodGet, "/api/v1/events", "", "")).Data; len(events) != 0 {
			t.Fatalf("expected nothing stored, got %+v", events)
		}
	})

	t.Run("store", func(t *testing.T) {
		router := newRouter(t, true, fixedClock, func(deps *application.Dependencies) {
			deps.Services = brokenServices{ServiceRepository: deps.Services}
		})
		rr := do(t, router, http.MethodPost, "/api/v1/events", eventBody, "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
		}
		out := decode[any](t, rr)
		if out.Code != "STORE_ERROR" || out.Message != "store operation failed: load service" {
			t.Fatalf("unexpected envelope: %+v", out)
		}
	})
}

func TestRequestLogsCarryConfiguredServiceName(t *testing.T) {
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	router := newRouter(t, true, fixedClock, func(deps *application.Dependencies) {
		deps.Config.ServiceName = "timeline-staging"
	})
	do(t, router, http.MethodDelete, "/api/v1/services/not-a-uuid", "", "")

	var sawRequest, sawFailure bool
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		if entry["service"] != "timeline-staging" || entry["module"] != "http" {
			continue
		}
		switch entry["msg"] {
		case "http request completed":
			sawRequest = true
		case "http operation failed":
			sawFailure = entry["operation"] == "delete_service" && entry["error_code"] == "VALIDATION_ERROR"
		}
	}
	if !sawRequest || !sawFailure {
		t.Fatalf("expected request and failure logs tagged with the service name, got %s", buf.String())
	}
}

func TestSessionGuardsAPI(t *testing.T) {
	// Sessions are validated against the wall clock, so this router keeps real time.
	router := newRouter(t, false, nil)

	if rr := do(t, router, http.MethodGet, "/api/v1/services", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
	if rr := do(t, router, http.MethodPost, "/auth/v1/session", `{"credential":"intruder@example.com"}`, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign account, got %d body=%s", rr.Code, rr.Body.String())
	}

	signInRR := do(t, router, http.MethodPost, "/auth/v1/session", `{"credential":"`+allowedEmail+`"}`, "")
	if signInRR.Code != http.StatusCreated {
		t.Fatalf("sign-in failed: status=%d body=%s", signInRR.Code, signInRR.Body.String())
	}
	session := decode[contracts.SessionResponse](t, signInRR).Data
	if session.Token == "" || session.Email != allowedEmail {
		t.Fatalf("unexpected session: %+v", session)
	}

	if rr := do(t, router, http.MethodGet, "/api/v1/services", "", session.Token); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d body=%s", rr.Code, rr.Body.String())
	}
	whoRR := do(t, router, http.MethodGet, "/api/v1/session", "", session.Token)
	if who := decode[contracts.SessionResponse](t, whoRR).Data; who.Email != allowedEmail {
		t.Fatalf("unexpected current session: %+v", who)
	}
	if rr := do(t, router, http.MethodGet, "/healthz", "", ""); rr.Code != http.StatusOK {
		t.Fatalf("healthz should be public, got %d", rr.Code)
	}
}
