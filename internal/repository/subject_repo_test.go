package repository

import (
	"context"
	"testing"

	"schedule-engine/internal/database"
	"schedule-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectRepo_List_EmptyWhenNoSubjects(t *testing.T) {
	pool := database.SafeGetTestPool(t)
	db := database.GetTestDBInstance(t)
	database.CleanupTestTables(t, pool)

	repo := NewSubjectRepo(db.Sqlx)
	subjects, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestSubjectRepo_List_RoundTripsDemandDescriptor(t *testing.T) {
	pool := database.SafeGetTestPool(t)
	db := database.GetTestDBInstance(t)
	database.CleanupTestTables(t, pool)

	subj := insertTestSubject(t, db, "English", "1")

	repo := NewSubjectRepo(db.Sqlx)
	subjects, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, subj.ID, subjects[0].ID)
	assert.Equal(t, 1, subjects[0].Demand[models.Presential][7])
}
