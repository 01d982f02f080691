package application_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkinno/projects/internal/adapters/memory"
	"github.com/inkinno/projects/internal/application"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/ports"
)

type fixture struct {
	service    *application.Service
	repos      *memory.Repositories
	classifier *fakeClassifier
	cache      *fakeCache
	events     ports.EventRepository
}

type fixtureOption func(*application.Dependencies, *fixture)

func withEvents(wrap func(ports.EventRepository) ports.EventRepository) fixtureOption {
	return func(deps *application.Dependencies, f *fixture) {
		deps.Events = wrap(deps.Events)
		f.events = deps.Events
	}
}

func withServices(repo ports.ServiceRepository) fixtureOption {
	return func(deps *application.Dependencies, _ *fixture) {
		deps.Services = repo
	}
}

func newFixture(opts ...fixtureOption) *fixture {
	repos := memory.NewRepositories()
	f := &fixture{
		repos: repos,
		classifier: &fakeClassifier{verdict: domain.Classification{
			Category:  "normal update",
			Highlight: false,
			Reason:    "routine change",
		}},
		cache:  &fakeCache{items: map[string]string{}},
		events: repos.Events,
	}
	deps := application.Dependencies{
		Config: application.Config{
			ServiceName:  "timeline-test",
			AllowedEmail: "owner@example.com",
		},
		Services:   repos.Services,
		Events:     repos.Events,
		Outbox:     repos.Outbox,
		Classifier: f.classifier,
		Cache:      f.cache,
		Identity:   fakeIdentity{},
		Sessions:   &fakeSessions{tokens: map[string]ports.SessionClaims{}},
		Clock:      func() time.Time { return time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC) },
	}
	for _, opt := range opts {
		opt(&deps, f)
	}
	f.service = application.NewService(deps)
	return f
}

func (f *fixture) mustCreateService(t *testing.T) domain.Service {
	t.Helper()
	svc, err := f.service.CreateService(context.Background())
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return svc
}

func (f *fixture) mustCreateEvent(t *testing.T, serviceID uuid.UUID, date, title string) domain.TimelineEvent {
	t.Helper()
	ev, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
		ServiceID: serviceID.String(),
		Date:      date,
		Title:     title,
		Content:   "content for " + title,
	})
	if err != nil {
		t.Fatalf("create event %q: %v", title, err)
	}
	return ev
}

func TestListServicesSortedByOrderWithInsertionTieBreak(t *testing.T) {
	t.Parallel()

	f := newFixture()
	now := time.Now().UTC()
	names := []struct {
		name  string
		order int
	}{
		{name: "c", order: 2},
		{name: "a", order: 0},
		{name: "b1", order: 1},
		{name: "b2", order: 1},
	}
	for _, n := range names {
		f.repos.Services.Insert(domain.Service{ServiceID: uuid.New(), Name: n.name, Emoji: "x", Order: n.order, CreatedAt: now})
	}

	got := f.service.ListServices(context.Background())
	want := []string{"a", "b1", "b2", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %d services, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Name, want[i])
		}
	}
}

func TestListServicesFailsSoft(t *testing.T) {
	t.Parallel()

	f := newFixture(withServices(failingServices{}))
	got := f.service.ListServices(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
}

func TestCreateServiceAllocatesNextOrderWithDefaults(t *testing.T) {
	t.Parallel()

	f := newFixture()
	first := f.mustCreateService(t)
	if first.Order != 0 {
		t.Fatalf("expected first order 0, got %d", first.Order)
	}
	if first.Name != domain.DefaultServiceName || first.Emoji != domain.DefaultServiceEmoji {
		t.Fatalf("unexpected defaults: %q %q", first.Name, first.Emoji)
	}

	f.repos.Services.Insert(domain.Service{ServiceID: uuid.New(), Name: "far", Emoji: "x", Order: 7})
	next := f.mustCreateService(t)
	if next.Order != 8 {
		t.Fatalf("expected order 8 after max 7, got %d", next.Order)
	}
}

func TestConcurrentCreateServiceNeverCollides(t *testing.T) {
	t.Parallel()

	f := newFixture()
	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.service.CreateService(context.Background()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent create: %v", err)
	}

	seen := map[int]bool{}
	for _, svc := range f.service.ListServices(context.Background()) {
		if seen[svc.Order] {
			t.Fatalf("duplicate order %d", svc.Order)
		}
		seen[svc.Order] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d services, got %d", n, len(seen))
	}
}

func TestUpdateServiceValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)

	cases := []struct {
		name    string
		in      application.UpdateServiceInput
		wantErr error
	}{
		{name: "empty name", in: application.UpdateServiceInput{Name: "  ", Emoji: "🛠"}, wantErr: domain.ErrValidation},
		{name: "empty emoji", in: application.UpdateServiceInput{Name: "API", Emoji: ""}, wantErr: domain.ErrValidation},
		{name: "emoji too long", in: application.UpdateServiceInput{Name: "API", Emoji: "abc"}, wantErr: domain.ErrValidation},
		{name: "two emoji", in: application.UpdateServiceInput{Name: "API", Emoji: "🚀🚀"}, wantErr: domain.ErrValidation},
		{name: "valid", in: application.UpdateServiceInput{Name: " API ", Emoji: "⚙️"}},
	}
	for _, tc := range cases {
		_, err := f.service.UpdateService(context.Background(), svc.ServiceID, tc.in)
		if tc.wantErr == nil {
			if err != nil {
				t.Fatalf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}

	got := f.service.ListServices(context.Background())
	if got[0].Name != "API" || got[0].Emoji != "⚙️" {
		t.Fatalf("expected trimmed update to persist, got %+v", got[0])
	}

	_, err := f.service.UpdateService(context.Background(), uuid.New(), application.UpdateServiceInput{Name: "x", Emoji: "y"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown service, got %v", err)
	}
}

func TestDeleteServiceCascadesToItsEventsOnly(t *testing.T) {
	t.Parallel()

	f := newFixture()
	doomed := f.mustCreateService(t)
	kept := f.mustCreateService(t)
	for i := 0; i < 5; i++ {
		f.mustCreateEvent(t, doomed.ServiceID, "2024-01-0"+fmt.Sprint(i+1), fmt.Sprintf("doomed %d", i))
	}
	keptEvent := f.mustCreateEvent(t, kept.ServiceID, "2024-01-03", "kept")

	res, err := f.service.DeleteService(context.Background(), doomed.ServiceID)
	if err != nil {
		t.Fatalf("delete service: %v", err)
	}
	if len(res.DeletedEventIDs) != 5 || len(res.SurvivingEventIDs) != 0 {
		t.Fatalf("unexpected cascade result: %+v", res)
	}
	for _, ev := range f.service.ListEvents(context.Background(), nil) {
		if ev.ServiceID == doomed.ServiceID {
			t.Fatalf("event %s of deleted service survived", ev.EventID)
		}
	}
	remaining := f.service.ListEvents(context.Background(), nil)
	if len(remaining) != 1 || remaining[0].EventID != keptEvent.EventID {
		t.Fatalf("expected only the other service's event to remain, got %+v", remaining)
	}
	if got := f.service.ListServices(context.Background()); len(got) != 1 || got[0].ServiceID != kept.ServiceID {
		t.Fatalf("expected one remaining service, got %+v", got)
	}
}

func TestDeleteServiceReportsSurvivingEvents(t *testing.T) {
	t.Parallel()

	flaky := &flakyEvents{fail: map[uuid.UUID]bool{}}
	f := newFixture(withEvents(func(inner ports.EventRepository) ports.EventRepository {
		flaky.EventRepository = inner
		return flaky
	}))
	svc := f.mustCreateService(t)
	stuck := f.mustCreateEvent(t, svc.ServiceID, "2024-01-02", "stuck")
	f.mustCreateEvent(t, svc.ServiceID, "2024-01-03", "gone")
	flaky.setFail(stuck.EventID)

	res, err := f.service.DeleteService(context.Background(), svc.ServiceID)
	if !errors.Is(err, domain.ErrCascadeIncomplete) || !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected incomplete cascade error, got %v", err)
	}
	if len(res.SurvivingEventIDs) != 1 || res.SurvivingEventIDs[0] != stuck.EventID {
		t.Fatalf("expected stuck event reported as survivor, got %+v", res.SurvivingEventIDs)
	}
	if len(res.DeletedEventIDs) != 1 {
		t.Fatalf("expected one deleted event, got %+v", res.DeletedEventIDs)
	}
}

func TestDeleteUnknownServiceIsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture()
	if _, err := f.service.DeleteService(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateEventRejectsEmptyTitleBeforeClassifier(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	_, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
		ServiceID: svc.ServiceID.String(),
		Date:      "2024-06-10",
		Title:     "   ",
		Content:   "Shipped v2 to all users",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.classifier.callCount() != 0 {
		t.Fatalf("classifier must not be called for invalid input")
	}
	if got := f.service.ListEvents(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no stored events, got %d", len(got))
	}
}

func TestCreateEventInputValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	cases := []struct {
		name string
		in   application.CreateEventInput
	}{
		{name: "short content", in: application.CreateEventInput{ServiceID: svc.ServiceID.String(), Date: "2024-06-10", Title: "t", Content: "ab"}},
		{name: "bad date", in: application.CreateEventInput{ServiceID: svc.ServiceID.String(), Date: "10/06/2024", Title: "t", Content: "abc"}},
		{name: "bad service id", in: application.CreateEventInput{ServiceID: "nope", Date: "2024-06-10", Title: "t", Content: "abc"}},
		{name: "unknown service", in: application.CreateEventInput{ServiceID: uuid.NewString(), Date: "2024-06-10", Title: "t", Content: "abc"}},
	}
	for _, tc := range cases {
		if _, err := f.service.CreateEvent(context.Background(), tc.in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
	if f.classifier.callCount() != 0 {
		t.Fatalf("classifier must not be called for invalid input, got %d calls", f.classifier.callCount())
	}
}

func TestCreateEventClassificationFailureStoresNothing(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	f.classifier.err = fmt.Errorf("%w: missing highlight", domain.ErrClassification)

	_, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
		ServiceID: svc.ServiceID.String(),
		Date:      "2024-06-10",
		Title:     "Launch",
		Content:   "Shipped v2 to all users",
	})
	if !errors.Is(err, domain.ErrClassification) {
		t.Fatalf("expected classification error, got %v", err)
	}
	if f.classifier.callCount() != 1 {
		t.Fatalf("expected exactly one classification attempt, got %d", f.classifier.callCount())
	}
	if got := f.service.ListEvents(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no stored events, got %d", len(got))
	}
}

func TestCreateEventInvalidVerdictStoresNothing(t *testing.T) {
	t.Parallel()

	verdicts := []domain.Classification{
		{},
		{Category: "  ", Highlight: true, Reason: "major release"},
		{Category: "critical milestone", Reason: "\t"},
	}
	for _, verdict := range verdicts {
		f := newFixture()
		svc := f.mustCreateService(t)
		f.classifier.verdict = verdict

		_, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
			ServiceID: svc.ServiceID.String(),
			Date:      "2024-03-01",
			Title:     "Launch",
			Content:   "Shipped v1",
		})
		if !errors.Is(err, domain.ErrClassification) {
			t.Fatalf("verdict %+v: expected classification error, got %v", verdict, err)
		}
		if got := f.service.ListEvents(context.Background(), nil); len(got) != 0 {
			t.Fatalf("verdict %+v: expected no stored events, got %+v", verdict, got)
		}
	}
}

func TestCreateEventRechecksServiceAfterClassification(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	f.classifier.onClassify = func() {
		if _, err := f.service.DeleteService(context.Background(), svc.ServiceID); err != nil {
			t.Errorf("delete service during classification: %v", err)
		}
	}

	_, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
		ServiceID: svc.ServiceID.String(),
		Date:      "2024-03-01",
		Title:     "Launch",
		Content:   "Shipped v1",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for deleted service, got %v", err)
	}
	if got := f.service.ListEvents(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected no orphan events, got %+v", got)
	}
}

func TestCreateEventLaunchScenario(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	f.classifier.verdict = domain.Classification{Category: "critical milestone", Highlight: true, Reason: "major release"}

	created, err := f.service.CreateEvent(context.Background(), application.CreateEventInput{
		ServiceID: svc.ServiceID.String(),
		Date:      "2024-03-01",
		Title:     "Launch",
		Content:   "Shipped v1",
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if created.Category != "critical milestone" || !created.Highlight || created.Reason != "major release" {
		t.Fatalf("classification not merged: %+v", created.Classification)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected server timestamp")
	}

	all := f.service.ListEvents(context.Background(), nil)
	if len(all) != 1 || all[0].EventID != created.EventID {
		t.Fatalf("expected launch event first in unranged list, got %+v", all)
	}
	stored := all[0]
	if stored.ServiceID != svc.ServiceID || stored.Date != "2024-03-01" || stored.Title != "Launch" || stored.Content != "Shipped v1" {
		t.Fatalf("stored record lost input fields: %+v", stored)
	}
	if stored.Category != "critical milestone" || !stored.Highlight || stored.Reason != "major release" {
		t.Fatalf("stored record lost classification: %+v", stored.Classification)
	}
	march := f.service.ListEvents(context.Background(), &domain.DateRange{Start: "2024-03-01", End: "2024-03-31"})
	if len(march) != 1 || march[0].EventID != created.EventID {
		t.Fatalf("expected launch event in march range, got %+v", march)
	}

	var sawCreated bool
	for _, rec := range f.repos.Outbox.Records() {
		if rec.EventType == "timeline.event_created" && strings.Contains(string(rec.Payload), created.EventID.String()) {
			sawCreated = true
		}
	}
	if !sawCreated {
		t.Fatalf("expected event_created outbox record")
	}
}

func TestListEventsRangeIsInclusiveAndDateOrdered(t *testing.T) {
	t.Parallel()

	f := newFixture()
	svc := f.mustCreateService(t)
	for _, d := range []string{"2024-03-31", "2024-03-01", "2024-02-29", "2024-03-15", "2024-04-01"} {
		f.mustCreateEvent(t, svc.ServiceID, d, "event "+d)
	}

	got := f.service.ListEvents(context.Background(), &domain.DateRange{Start: "2024-03-01", End: "2024-03-31"})
	want := []string{"2024-03-01", "2024-03-15", "2024-03-31"}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Date != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i].Date, want[i])
		}
	}
}

func TestListServicesUsesAndInvalidatesCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.mustCreateService(t)
	if got := f.service.ListServices(context.Background()); len(got) != 1 {
		t.Fatalf("expected one service, got %d", len(got))
	}
	if _, ok := f.cache.get("timeline:services:v1"); !ok {
		t.Fatalf("expected services list to be cached")
	}
	f.mustCreateService(t)
	if _, ok := f.cache.get("timeline:services:v1"); ok {
		t.Fatalf("expected cache invalidated after create")
	}
	if got := f.service.ListServices(context.Background()); len(got) != 2 {
		t.Fatalf("expected two services after invalidation, got %d", len(got))
	}
}

func TestBuildGridWeekMode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	a := f.mustCreateService(t)
	b := f.mustCreateService(t)
	f.mustCreateEvent(t, a.ServiceID, "2024-01-09", "a-week2")
	f.mustCreateEvent(t, a.ServiceID, "2024-01-12", "a-week2-later")
	f.mustCreateEvent(t, b.ServiceID, "2024-01-02", "b-week1")

	g, err := f.service.BuildGrid(context.Background(), application.GridQuery{Start: "2024-01-01", End: "2024-01-21"})
	if err != nil {
		t.Fatalf("build grid: %v", err)
	}
	if len(g.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(g.Rows))
	}
	if g.CurrentRow != 1 {
		t.Fatalf("expected current row 1 for 2024-01-10, got %d", g.CurrentRow)
	}
	if len(g.Rows[1].Cells[0]) != 2 || len(g.Rows[1].Cells[1]) != 0 {
		t.Fatalf("unexpected week 2 cells: %+v", g.Rows[1].Cells)
	}
	if len(g.Rows[0].Cells[1]) != 1 {
		t.Fatalf("expected b event in week 1")
	}
	if g.Label != "Jan 2024 - Jan 2024" {
		t.Fatalf("unexpected label %q", g.Label)
	}
}

func TestBuildGridValidation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	cases := []application.GridQuery{
		{Start: "2024-01-01"},
		{Start: "2024-01-01", End: "bad"},
		{Mode: "month"},
		{Order: "sideways"},
		{Start: "0001-01-01", End: "9999-12-31", Mode: "day"},
	}
	for _, q := range cases {
		if _, err := f.service.BuildGrid(context.Background(), q); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("query %+v: expected validation error, got %v", q, err)
		}
	}

	g, err := f.service.BuildGrid(context.Background(), application.GridQuery{Mode: "day"})
	if err != nil {
		t.Fatalf("default grid: %v", err)
	}
	if g.Range.Start != "2023-11-29" || g.Range.End != "2024-02-21" {
		t.Fatalf("unexpected default range %+v", g.Range)
	}
	if len(g.Rows) != 85 {
		t.Fatalf("expected 85 day rows, got %d", len(g.Rows))
	}
}

func TestSignInOnlyAllowsConfiguredAccount(t *testing.T) {
	t.Parallel()

	f := newFixture()
	session, err := f.service.SignIn(context.Background(), "owner@example.com")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if session.Token == "" || session.Email != "owner@example.com" {
		t.Fatalf("unexpected session %+v", session)
	}
	if _, err := f.service.Authorize(context.Background(), session.Token); err != nil {
		t.Fatalf("authorize issued token: %v", err)
	}

	if _, err := f.service.SignIn(context.Background(), "stranger@example.com"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for other account, got %v", err)
	}
	if _, err := f.service.SignIn(context.Background(), ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for empty credential, got %v", err)
	}
	if _, err := f.service.Authorize(context.Background(), "forged"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown token, got %v", err)
	}
}

type fakeClassifier struct {
	mu         sync.Mutex
	calls      int
	verdict    domain.Classification
	err        error
	onClassify func()
}

func (c *fakeClassifier) Classify(_ context.Context, _ string) (domain.Classification, error) {
	c.mu.Lock()
	c.calls++
	hook, verdict, err := c.onClassify, c.verdict, c.err
	c.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err != nil {
		return domain.Classification{}, err
	}
	return verdict, nil
}

func (c *fakeClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type fakeCache struct {
	mu    sync.Mutex
	items map[string]string
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.get(key)
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *fakeCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

type failingServices struct{ ports.ServiceRepository }

func (failingServices) List(context.Context) ([]domain.Service, error) {
	return nil, errors.New("database unavailable")
}

type flakyEvents struct {
	ports.EventRepository
	mu   sync.Mutex
	fail map[uuid.UUID]bool
}

func (e *flakyEvents) setFail(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fail[id] = true
}

func (e *flakyEvents) Delete(ctx context.Context, eventID uuid.UUID) error {
	e.mu.Lock()
	failing := e.fail[eventID]
	e.mu.Unlock()
	if failing {
		return errors.New("write timeout")
	}
	return e.EventRepository.Delete(ctx, eventID)
}

// fakeIdentity treats the credential itself as the verified email.
type fakeIdentity struct{}

func (fakeIdentity) Verify(_ context.Context, credential string) (ports.Identity, error) {
	return ports.Identity{Subject: "sub-" + credential, Email: credential, EmailVerified: true}, nil
}

type fakeSessions struct {
	mu     sync.Mutex
	tokens map[string]ports.SessionClaims
}

func (s *fakeSessions) Sign(claims ports.SessionClaims) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.NewString()
	s.tokens[token] = claims
	return token, nil
}

func (s *fakeSessions) ParseAndValidate(raw string) (ports.SessionClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.tokens[raw]
	if !ok {
		return ports.SessionClaims{}, errors.New("unknown token")
	}
	return claims, nil
}
