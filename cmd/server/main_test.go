package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"schedule-engine/internal/engine"
	"schedule-engine/internal/handlers"
	"schedule-engine/internal/middleware"
	"schedule-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")

	content := `# комментарий
DB_HOST_TEST_MAIN=envfile-host

SOLVER_TIME_BUDGET_TEST_MAIN = 30
строка без знака равно
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("DB_HOST_TEST_MAIN", "")
	t.Setenv("SOLVER_TIME_BUDGET_TEST_MAIN", "")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "envfile-host", os.Getenv("DB_HOST_TEST_MAIN"))
	assert.Equal(t, "30", os.Getenv("SOLVER_TIME_BUDGET_TEST_MAIN"))
}

func TestLoadEnvFileDoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("OVERRIDE_TEST_MAIN=from-file\n"), 0o600))

	t.Setenv("OVERRIDE_TEST_MAIN", "from-system")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-system", os.Getenv("OVERRIDE_TEST_MAIN"))
}

func TestLoadEnvFileMissingIsNotAnError(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "no-such.env")))
}

// pingOK и pingFail - фиктивные пулы для health check
type pingOK struct{}

func (pingOK) Ping(ctx context.Context) error { return nil }

type pingFail struct{}

func (pingFail) Ping(ctx context.Context) error { return errors.New("connection refused") }

// routerStore - минимальное хранилище с одним предметом и преподавателем,
// достаточное для маршрутного smoke-теста генерации
type routerStore struct {
	subject models.Subject
	teacher models.Teacher
}

func newRouterStore() *routerStore {
	subj := models.Subject{
		ID: uuid.New(), Name: "English", Level: "1",
		Demand: models.DemandDescriptor{models.Presential: {7: 1}},
	}
	return &routerStore{
		subject: subj,
		teacher: models.Teacher{ID: uuid.New(), Name: "Anna", MaxHoursWeek: 32, MaxHoursDay: 8},
	}
}

func (s *routerStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return []models.Subject{s.subject}, nil
}

func (s *routerStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return []models.Teacher{s.teacher}, nil
}

func (s *routerStore) CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error) {
	return []models.Subject{s.subject}, nil
}

func (s *routerStore) DeleteAllAssignments(ctx context.Context) error { return nil }

func (s *routerStore) DeleteAllSections(ctx context.Context) error { return nil }

func (s *routerStore) InsertSection(ctx context.Context, _ models.Section) error { return nil }

func (s *routerStore) InsertAssignment(ctx context.Context, _ models.Assignment) error { return nil }

func (s *routerStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx engine.Store) error) error {
	return fn(ctx, s)
}

func newTestRouter(db handlers.DBPool) (http.Handler, *middleware.IPRateLimiter) {
	healthHandler := handlers.NewHealthHandler(db)
	scheduleHandler := handlers.NewScheduleHandler(newRouterStore(), engine.DefaultSchedulerConfig(), nil)
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Millisecond), 100)
	return newRouter(healthHandler, scheduleHandler, limiter), limiter
}

func TestRouterHealthEndpoint(t *testing.T) {
	router, limiter := newTestRouter(pingOK{})
	defer limiter.Stop()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.HealthCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "connected", resp.Database)
}

func TestRouterHealthEndpointDatabaseDown(t *testing.T) {
	router, limiter := newTestRouter(pingFail{})
	defer limiter.Stop()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router, limiter := newTestRouter(pingOK{})
	defer limiter.Stop()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouterGenerateEndpoint(t *testing.T) {
	router, limiter := newTestRouter(pingOK{})
	defer limiter.Stop()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate", nil)
	req.RemoteAddr = "10.1.1.1:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                      `json:"success"`
		Data    handlers.GenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Sections)
	assert.Equal(t, 4, resp.Data.Assignments)
}

func TestRouterGenerateEndpointRateLimited(t *testing.T) {
	healthHandler := handlers.NewHealthHandler(pingOK{})
	scheduleHandler := handlers.NewScheduleHandler(newRouterStore(), engine.DefaultSchedulerConfig(), nil)
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Hour), 1)
	defer limiter.Stop()
	router := newRouter(healthHandler, scheduleHandler, limiter)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate", nil)
	req.RemoteAddr = "10.1.1.2:1234"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router, limiter := newTestRouter(pingOK{})
	defer limiter.Stop()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
