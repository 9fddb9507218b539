package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/claude/mesoplan/internal/ingest"
	"github.com/claude/mesoplan/internal/library"
	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/claude/mesoplan/internal/strategy"
	"github.com/claude/mesoplan/internal/template"
	"github.com/google/uuid"
)

const testKey = "test-key"

// memStore keeps plans in a map on top of the in-memory library.
type memStore struct {
	*library.Memory
	mu    sync.Mutex
	plans map[uuid.UUID]*models.Plan
}

var _ Store = (*memStore)(nil)

func newMemStore(t *testing.T) *memStore {
	t.Helper()
	exercises, err := library.SeedExercises()
	if err != nil {
		t.Fatal(err)
	}
	return &memStore{Memory: library.NewMemory(exercises...), plans: map[uuid.UUID]*models.Plan{}}
}

func (m *memStore) SavePlan(_ context.Context, p *models.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
	return nil
}

func (m *memStore) GetPlan(_ context.Context, id uuid.UUID) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}

func (m *memStore) ListPlans(_ context.Context) ([]models.PlanSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PlanSummary
	for _, p := range m.plans {
		out = append(out, models.PlanSummary{ID: p.ID, Name: p.Name, SessionCount: len(p.Sessions)})
	}
	return out, nil
}

func (m *memStore) DeletePlan(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

func (m *memStore) SetSessionCompleted(_ context.Context, planID, sessionID uuid.UUID, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[planID]
	if !ok {
		return models.ErrNotFound
	}
	s := p.Session(sessionID)
	if s == nil {
		return models.ErrNotFound
	}
	s.Completed = completed
	return nil
}

func (m *memStore) Ping(context.Context) error { return nil }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*Server, *memStore) {
	t.Helper()
	store := newMemStore(t)
	catalog := template.Default()
	svc := planner.NewService(strategy.Default, catalog, store, discard())
	return New(store, svc, catalog, testKey, discard()).Routes(), store
}

func do(t *testing.T, h http.Handler, method, path string, body any, key string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestGeneratePlan verifies an authorized request returns the plan, its
// report and the fallback flag, and persists it only when asked.
func TestGeneratePlan(t *testing.T) {
	srv, store := newTestServer(t)
	profile := map[string]any{"training_age": "Intermediate", "goal": "Strength", "days_available": 4}

	rec := do(t, srv, http.MethodPost, "/api/v1/plans", profile, testKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Plan             models.Plan             `json:"plan"`
		Report           models.ValidationReport `json:"report"`
		FallbackTemplate bool                    `json:"fallback_template"`
		Saved            bool                    `json:"saved"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Plan.Sessions) != 16 {
		t.Errorf("sessions = %d, want 16", len(resp.Plan.Sessions))
	}
	if !resp.Report.Valid || resp.FallbackTemplate || resp.Saved {
		t.Errorf("report=%v fallback=%v saved=%v", resp.Report.Valid, resp.FallbackTemplate, resp.Saved)
	}
	if len(store.plans) != 0 {
		t.Error("plan persisted without save flag")
	}

	profile["save"] = true
	rec = do(t, srv, http.MethodPost, "/api/v1/plans", profile, testKey)
	if rec.Code != http.StatusCreated || len(store.plans) != 1 {
		t.Fatalf("save: status = %d, stored = %d", rec.Code, len(store.plans))
	}
}

// TestGeneratePlanErrors verifies auth, input and no-template failures map to
// distinct status codes.
func TestGeneratePlanErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	valid := map[string]any{"training_age": "Novice", "goal": "Strength", "days_available": 3}

	tests := []struct {
		name string
		body any
		key  string
		want int
	}{
		{"missing key", valid, "", http.StatusUnauthorized},
		{"wrong key", valid, "nope", http.StatusForbidden},
		{"zero days", map[string]any{"training_age": "Novice", "goal": "Strength", "days_available": 0}, testKey, http.StatusBadRequest},
		{"no template", map[string]any{"training_age": "Novice", "goal": "Strength", "days_available": 6}, testKey, http.StatusUnprocessableEntity},
		{"invalid json", "not an object", testKey, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/api/v1/plans", tt.body, tt.key)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body)
			}
		})
	}
}

// TestPlanLifecycle verifies get, complete and delete on a stored plan.
func TestPlanLifecycle(t *testing.T) {
	srv, store := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/v1/plans",
		map[string]any{"training_age": "Novice", "goal": "Strength", "days_available": 3, "save": true}, testKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate status = %d", rec.Code)
	}
	var planID uuid.UUID
	var sessionID uuid.UUID
	for id, p := range store.plans {
		planID, sessionID = id, p.Sessions[0].ID
	}

	if rec := do(t, srv, http.MethodGet, "/api/v1/plans/"+planID.String(), nil, ""); rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/v1/plans", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("list status = %d", rec.Code)
	}

	path := "/api/v1/plans/" + planID.String() + "/sessions/" + sessionID.String() + "/complete"
	if rec := do(t, srv, http.MethodPost, path, nil, testKey); rec.Code != http.StatusOK {
		t.Errorf("complete status = %d", rec.Code)
	}
	if !store.plans[planID].Sessions[0].Completed {
		t.Error("session not marked completed")
	}
	if rec := do(t, srv, http.MethodDelete, path, nil, testKey); rec.Code != http.StatusOK {
		t.Errorf("uncomplete status = %d", rec.Code)
	}
	if store.plans[planID].Sessions[0].Completed {
		t.Error("session still completed")
	}

	if rec := do(t, srv, http.MethodDelete, "/api/v1/plans/"+planID.String(), nil, testKey); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/v1/plans/"+planID.String(), nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/api/v1/plans/not-a-uuid", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

// TestPutPlan verifies externally generated plans can be stored and that the
// body ID must match the path.
func TestPutPlan(t *testing.T) {
	srv, store := newTestServer(t)
	plan := models.Plan{ID: uuid.New(), Name: "Imported"}

	if rec := do(t, srv, http.MethodPut, "/api/v1/plans/"+uuid.NewString(), plan, testKey); rec.Code != http.StatusBadRequest {
		t.Errorf("mismatched id status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodPut, "/api/v1/plans/"+plan.ID.String(), plan, testKey); rec.Code != http.StatusCreated {
		t.Errorf("put status = %d", rec.Code)
	}
	if _, ok := store.plans[plan.ID]; !ok {
		t.Error("plan not stored")
	}

	plan.Name = "Imported again"
	if rec := do(t, srv, http.MethodPut, "/api/v1/plans/"+plan.ID.String(), plan, testKey); rec.Code != http.StatusCreated {
		t.Errorf("second put status = %d, want 201", rec.Code)
	}
	if got := store.plans[plan.ID]; got == nil || got.Name != "Imported again" {
		t.Errorf("stored plan = %+v, want the second version", got)
	}
}

// TestCatalogEndpoints verifies strategy, template and exercise listings.
func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/v1/strategies/unknown", nil, "")
	var strat struct {
		Strategy models.StrategyConfig `json:"strategy"`
	}
	json.NewDecoder(rec.Body).Decode(&strat)
	if strat.Strategy.Model != models.ModelWave {
		t.Errorf("unknown age model = %s, want Wave", strat.Strategy.Model)
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/templates", nil, "")
	var entries []template.Entry
	json.NewDecoder(rec.Body).Decode(&entries)
	if len(entries) != 3 {
		t.Errorf("templates = %d, want 3", len(entries))
	}

	rec = do(t, srv, http.MethodGet, "/api/v1/exercises?category=Isolation&muscle=Triceps&limit=1", nil, "")
	var exercises []models.Exercise
	json.NewDecoder(rec.Body).Decode(&exercises)
	if len(exercises) != 1 || exercises[0].PrimaryMuscle != "Triceps" {
		t.Errorf("exercises = %+v", exercises)
	}

	if rec := do(t, srv, http.MethodGet, "/api/v1/exercises?limit=-1", nil, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/healthz", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}
}

// TestImportExercises verifies the import endpoint requires the API key,
// stores valid records and rejects malformed bodies.
func TestImportExercises(t *testing.T) {
	srv, store := newTestServer(t)
	doc := "- {id: zercher_squat, name: Zercher Squat, category: Compound, pattern: Squat, primary_muscle: Quads, tier: 2}\n"

	if rec := do(t, srv, http.MethodPost, "/api/v1/exercises", doc, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/exercises", strings.NewReader(doc))
	req.Header.Set("X-API-Key", testKey)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res ingest.Result
	json.NewDecoder(rec.Body).Decode(&res)
	if res.ExercisesInserted != 1 {
		t.Errorf("result = %+v", res)
	}
	found, _ := store.FindExercises(context.Background(), models.ExerciseFilter{Category: models.CategoryCompound, Pattern: models.PatternSquat}, nil, 0)
	var ok bool
	for _, ex := range found {
		if ex.ID == "zercher_squat" && ex.IsUserCreated {
			ok = true
		}
	}
	if !ok {
		t.Error("imported exercise not found in library")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/exercises", strings.NewReader("exercises: ["))
	req.Header.Set("X-API-Key", testKey)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed status = %d, want 400", rec.Code)
	}
}
