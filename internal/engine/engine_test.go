package engine

import (
	"context"
	"testing"

	"schedule-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	subjects    []models.Subject
	teachers    []models.Teacher
	competences map[uuid.UUID][]models.Subject
	sections    []models.Section
	assignments []models.Assignment
}

func (s *fakeStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return append([]models.Subject{}, s.subjects...), nil
}

func (s *fakeStore) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return append([]models.Teacher{}, s.teachers...), nil
}

func (s *fakeStore) CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error) {
	return append([]models.Subject{}, s.competences[teacherID]...), nil
}

func (s *fakeStore) DeleteAllAssignments(ctx context.Context) error {
	s.assignments = nil
	return nil
}

func (s *fakeStore) DeleteAllSections(ctx context.Context) error {
	s.sections = nil
	return nil
}

func (s *fakeStore) InsertSection(ctx context.Context, section models.Section) error {
	s.sections = append(s.sections, section)
	return nil
}

func (s *fakeStore) InsertAssignment(ctx context.Context, assignment models.Assignment) error {
	s.assignments = append(s.assignments, assignment)
	return nil
}

// Transaction снимает снимок состояния до запуска fn и восстанавливает его
// при ошибке - имитирует откат реального хранилища.
func (s *fakeStore) Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	backup := fakeStore{
		subjects:    append([]models.Subject{}, s.subjects...),
		teachers:    append([]models.Teacher{}, s.teachers...),
		sections:    append([]models.Section{}, s.sections...),
		assignments: append([]models.Assignment{}, s.assignments...),
	}

	err := fn(ctx, s)
	if err != nil {
		s.subjects = backup.subjects
		s.teachers = backup.teachers
		s.sections = backup.sections
		s.assignments = backup.assignments
		return err
	}
	return nil
}

func TestGenerateSchedule_NoSubjects(t *testing.T) {
	store := &fakeStore{}
	_, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	assert.ErrorIs(t, err, ErrNoSubjects)
}

func TestGenerateSchedule_SuccessPath(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{models.Presential: {7: 1, 9: 1}})
	t1 := teacher("Anna", 40, 8)
	t2 := teacher("Boris", 40, 8)

	store := &fakeStore{
		subjects: []models.Subject{subj},
		teachers: []models.Teacher{t1, t2},
		competences: map[uuid.UUID][]models.Subject{
			t1.ID: {subj},
			t2.ID: {subj},
		},
	}

	result, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SectionCount)
	assert.Equal(t, 8, result.AssignmentCount) // две будние секции * 4 дня
	assert.Len(t, store.sections, 2)
	assert.Len(t, store.assignments, 8)
	t.Log("TestGenerateSchedule_SuccessPath: PASSED - " + result.Message())
}

func TestGenerateSchedule_InfeasibleRollsBackState(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{
		models.Presential:    {7: 1},
		models.OnlineWeekday: {13: 1},
	})
	t1 := teacher("Anna", 40, 40)

	store := &fakeStore{
		subjects:    []models.Subject{subj},
		teachers:    []models.Teacher{t1},
		competences: map[uuid.UUID][]models.Subject{t1.ID: {subj}},
		// старое состояние, которое не должно переживать неудачную генерацию
		sections:    []models.Section{{Label: "stale"}},
		assignments: []models.Assignment{{}},
	}

	_, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	assert.ErrorIs(t, err, ErrInfeasible)
	require.Len(t, store.sections, 1)
	assert.Equal(t, "stale", store.sections[0].Label, "откат транзакции должен вернуть дореген. состояние")
	require.Len(t, store.assignments, 1)
}

func TestGenerateSchedule_ModalityMixSplitsAcrossTeachers(t *testing.T) {
	// presential@7 и online@9 смежны, поэтому один преподаватель обе секции
	// взять не может; со вторым компетентным преподавателем решение есть -
	// секции расходятся по разным людям
	subj := subject("X", "1", models.DemandDescriptor{
		models.Presential:    {7: 1},
		models.OnlineWeekday: {9: 1},
	})
	t1 := teacher("Anna", 32, 8)
	t2 := teacher("Boris", 32, 8)

	store := &fakeStore{
		subjects: []models.Subject{subj},
		teachers: []models.Teacher{t1, t2},
		competences: map[uuid.UUID][]models.Subject{
			t1.ID: {subj},
			t2.ID: {subj},
		},
	}

	result, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.SectionCount)

	teacherByHour := map[int]uuid.UUID{}
	for _, a := range store.assignments {
		teacherByHour[a.StartHour] = a.TeacherID
	}
	assert.NotEqual(t, teacherByHour[7], teacherByHour[9], "смежные presential и online должны достаться разным преподавателям")
}

func TestGenerateSchedule_SpreadsLoadAcrossTeachers(t *testing.T) {
	// три слота, три одинаковых преподавателя: вес охвата заставляет
	// задействовать всех троих вместо нагрузки одного
	subj := subject("X", "1", models.DemandDescriptor{
		models.Presential: {7: 1, 9: 1, 11: 1},
	})
	t1 := teacher("Anna", 32, 8)
	t2 := teacher("Boris", 32, 8)
	t3 := teacher("Clara", 32, 8)

	store := &fakeStore{
		subjects: []models.Subject{subj},
		teachers: []models.Teacher{t1, t2, t3},
		competences: map[uuid.UUID][]models.Subject{
			t1.ID: {subj},
			t2.ID: {subj},
			t3.ID: {subj},
		},
	}

	result, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.SectionCount)

	assigned := map[uuid.UUID]bool{}
	for _, a := range store.assignments {
		assigned[a.TeacherID] = true
	}
	assert.Len(t, assigned, 3, "все три преподавателя должны быть задействованы")
}

func TestGenerateSchedule_RepeatedRunsAreIdentical(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{
		models.Presential:    {7: 1, 9: 1},
		models.OnlineWeekend: {8: 1},
	})
	t1 := teacher("Anna", 32, 8)
	t2 := teacher("Boris", 32, 8)

	store := &fakeStore{
		subjects: []models.Subject{subj},
		teachers: []models.Teacher{t1, t2},
		competences: map[uuid.UUID][]models.Subject{
			t1.ID: {subj},
			t2.ID: {subj},
		},
	}

	_, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	require.NoError(t, err)
	first := make([]models.Assignment, len(store.assignments))
	copy(first, store.assignments)

	_, err = GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	require.NoError(t, err)

	require.Len(t, store.assignments, len(first))
	for i, a := range store.assignments {
		// ID строки генерируется заново; всё содержательное совпадает
		assert.Equal(t, first[i].Day, a.Day)
		assert.Equal(t, first[i].StartHour, a.StartHour)
		assert.Equal(t, first[i].EndHour, a.EndHour)
		assert.Equal(t, first[i].TeacherID, a.TeacherID)
		assert.Equal(t, first[i].SubjectID, a.SubjectID)
		assert.Equal(t, first[i].SectionLabel, a.SectionLabel)
	}
}

func TestGenerateSchedule_MalformedDescriptorPropagates(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{models.Presential: {7: -1}})
	store := &fakeStore{subjects: []models.Subject{subj}}

	_, err := GenerateSchedule(context.Background(), store, DefaultSchedulerConfig(), nil)
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
}

func TestIsKnownFailure(t *testing.T) {
	assert.True(t, IsKnownFailure(ErrNoSubjects))
	assert.True(t, IsKnownFailure(&InsufficientCoverageError{}))
	assert.False(t, IsKnownFailure(NewInternalError("boom", nil)))
}
