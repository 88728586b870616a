package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"schedule-engine/internal/engine"
	"schedule-engine/internal/models"
	"schedule-engine/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore - хранилище в памяти для тестов handler-а; Transaction с откатом
// по снимку, как в настоящем хранилище
type memStore struct {
	subjects    []models.Subject
	teachers    []models.Teacher
	competences map[uuid.UUID][]models.Subject
	sections    []models.Section
	assignments []models.Assignment
}

func (s *memStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return append([]models.Subject{}, s.subjects...), nil
}

func (s *memStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return append([]models.Teacher{}, s.teachers...), nil
}

func (s *memStore) CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error) {
	return append([]models.Subject{}, s.competences[teacherID]...), nil
}

func (s *memStore) DeleteAllAssignments(ctx context.Context) error {
	s.assignments = nil
	return nil
}

func (s *memStore) DeleteAllSections(ctx context.Context) error {
	s.sections = nil
	return nil
}

func (s *memStore) InsertSection(ctx context.Context, section models.Section) error {
	s.sections = append(s.sections, section)
	return nil
}

func (s *memStore) InsertAssignment(ctx context.Context, assignment models.Assignment) error {
	s.assignments = append(s.assignments, assignment)
	return nil
}

func (s *memStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx engine.Store) error) error {
	sections := append([]models.Section{}, s.sections...)
	assignments := append([]models.Assignment{}, s.assignments...)
	if err := fn(ctx, s); err != nil {
		s.sections = sections
		s.assignments = assignments
		return err
	}
	return nil
}

func newSubject(name, level string, demand models.DemandDescriptor) models.Subject {
	return models.Subject{ID: uuid.New(), Name: name, Level: level, Demand: demand}
}

func newTeacher(name string) models.Teacher {
	return models.Teacher{ID: uuid.New(), Name: name, MaxHoursWeek: 32, MaxHoursDay: 8}
}

func generateRequest(t *testing.T, store engine.Store) *httptest.ResponseRecorder {
	t.Helper()
	handler := NewScheduleHandler(store, engine.DefaultSchedulerConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate", nil)
	w := httptest.NewRecorder()
	handler.Generate(w, req)
	return w
}

func TestGenerate_Success(t *testing.T) {
	subj := newSubject("English", "1", models.DemandDescriptor{models.Presential: {7: 1}})
	teacher := newTeacher("Anna")
	store := &memStore{
		subjects:    []models.Subject{subj},
		teachers:    []models.Teacher{teacher},
		competences: map[uuid.UUID][]models.Subject{teacher.ID: {subj}},
	}

	w := generateRequest(t, store)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    GenerateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Sections)
	assert.Equal(t, 4, resp.Data.Assignments) // Пн-Чт по одному занятию
	assert.Len(t, store.assignments, 4)
}

func TestGenerate_NoSubjectsReturns400(t *testing.T) {
	w := generateRequest(t, &memStore{})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.ErrCodeValidationFailed, resp.Error.Code)
}

func TestGenerate_CoverageFailureCarriesDiagnostic(t *testing.T) {
	// Две секции в одном слоте при единственном компетентном преподавателе
	subj := newSubject("English", "1", models.DemandDescriptor{models.Presential: {7: 2}})
	teacher := newTeacher("Anna")
	store := &memStore{
		subjects:    []models.Subject{subj},
		teachers:    []models.Teacher{teacher},
		competences: map[uuid.UUID][]models.Subject{teacher.ID: {subj}},
	}

	w := generateRequest(t, store)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.ErrCodeValidationFailed, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "English L1")
	assert.Contains(t, resp.Error.Message, "Mon–Thu 07:00")
}

func TestGenerate_InfeasibleReturnsDedicatedCode(t *testing.T) {
	// Presential@7 и online@9 смежны - единственный преподаватель не может
	// взять обе секции, альтернативы нет
	subj := newSubject("X", "1", models.DemandDescriptor{
		models.Presential:    {7: 1},
		models.OnlineWeekday: {9: 1},
	})
	teacher := newTeacher("Anna")
	store := &memStore{
		subjects:    []models.Subject{subj},
		teachers:    []models.Teacher{teacher},
		competences: map[uuid.UUID][]models.Subject{teacher.ID: {subj}},
	}

	w := generateRequest(t, store)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, response.ErrCodeInfeasible, resp.Error.Code)
	assert.Empty(t, store.assignments, "неудачная генерация не должна оставлять назначений")
}
