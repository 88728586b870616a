package engine

import (
	"context"
	"testing"

	"schedule-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	Store
	assignments []models.Assignment
}

func (r *recordingStore) InsertAssignment(ctx context.Context, a models.Assignment) error {
	r.assignments = append(r.assignments, a)
	return nil
}

func TestPersist_ExpandsWeekdaySectionToFourDays(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{models.Presential: {7: 1}})
	sections, err := Instantiate([]models.Subject{subj})
	require.NoError(t, err)

	t1 := teacher("Anna", 40, 8)
	teachers := []models.Teacher{t1}
	solution := &Solution{TeacherOf: []int{0}}

	store := &recordingStore{}
	count, err := Persist(context.Background(), store, sections, teachers, solution)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.Len(t, store.assignments, 4)

	days := map[models.Weekday]bool{}
	for _, a := range store.assignments {
		days[a.Day] = true
		assert.Equal(t, 7, a.StartHour)
		assert.Equal(t, 9, a.EndHour)
		assert.Equal(t, t1.ID, a.TeacherID)
		assert.Equal(t, subj.ID, a.SubjectID)
		assert.Equal(t, "A", a.SectionLabel)
	}
	assert.True(t, days[models.Mon] && days[models.Tue] && days[models.Wed] && days[models.Thu])
}

func TestPersist_WeekendSectionExpandsToSaturdayOnly(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{models.OnlineWeekend: {8: 1}})
	sections, err := Instantiate([]models.Subject{subj})
	require.NoError(t, err)

	t1 := teacher("Anna", 40, 8)
	teachers := []models.Teacher{t1}
	solution := &Solution{TeacherOf: []int{0}}

	store := &recordingStore{}
	count, err := Persist(context.Background(), store, sections, teachers, solution)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.assignments, 1)
	assert.Equal(t, models.Sat, store.assignments[0].Day)
	assert.Equal(t, 16, store.assignments[0].EndHour)
	t.Log("TestPersist_WeekendSectionExpandsToSaturdayOnly: PASSED - блок 8ч в субботу, один день")
}

func TestPersist_UnassignedSectionIsInternalError(t *testing.T) {
	subj := subject("English", "1", models.DemandDescriptor{models.Presential: {7: 1}})
	sections, err := Instantiate([]models.Subject{subj})
	require.NoError(t, err)

	teachers := []models.Teacher{teacher("Anna", 40, 8)}
	solution := &Solution{TeacherOf: []int{-1}}

	store := &recordingStore{}
	_, err = Persist(context.Background(), store, sections, teachers, solution)
	var internalErr *InternalError
	assert.ErrorAs(t, err, &internalErr)
}
