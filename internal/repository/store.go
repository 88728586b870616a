package repository

import (
	"context"
	"database/sql"
	"fmt"

	"schedule-engine/internal/database"
	"schedule-engine/internal/engine"
	"schedule-engine/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// sqlExecutor is the subset of *sqlx.DB / *sqlx.Tx every repository in this
// package needs. Both types satisfy it, so the same repository code runs
// whether it is handed the pool or a transaction opened by Store.Transaction.
type sqlExecutor interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store implements engine.Store over Postgres, using sqlx for every
// query so the same code path carries reads and writes inside the single
// transaction that Transaction opens for a whole generation run.
type Store struct {
	db   *database.DB
	exec sqlExecutor
	inTx bool

	subjects    *SubjectRepo
	teachers    *TeacherRepo
	competences *CompetenceRepo
	sections    *SectionRepo
	assignments *AssignmentRepo

	competenceCache       map[uuid.UUID][]models.Subject
	competenceCacheLoaded bool
}

// NewStore builds the top-level Store backed by db's connection pool.
func NewStore(db *database.DB) *Store {
	return newScopedStore(db, db.Sqlx, false)
}

func newScopedStore(db *database.DB, exec sqlExecutor, inTx bool) *Store {
	return &Store{
		db:          db,
		exec:        exec,
		inTx:        inTx,
		subjects:    NewSubjectRepo(exec),
		teachers:    NewTeacherRepo(exec),
		competences: NewCompetenceRepo(exec),
		sections:    NewSectionRepo(exec),
		assignments: NewAssignmentRepo(exec),
	}
}

func (s *Store) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	return s.subjects.List(ctx)
}

func (s *Store) ListTeachers(ctx context.Context) ([]models.Teacher, error) {
	return s.teachers.List(ctx)
}

// CompetencesOf serves every teacher's competence set out of a cache primed
// on first use (one teacher list query plus one CompetencesOfBatch query), so
// a generation run with N teachers costs two queries instead of N (the engine
// asks once per teacher).
func (s *Store) CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error) {
	if !s.competenceCacheLoaded {
		teachers, err := s.teachers.List(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, len(teachers))
		for i, t := range teachers {
			ids[i] = t.ID
		}
		cache, err := s.competences.CompetencesOfBatch(ctx, ids)
		if err != nil {
			return nil, err
		}
		s.competenceCache = cache
		s.competenceCacheLoaded = true
	}
	return s.competenceCache[teacherID], nil
}

func (s *Store) DeleteAllAssignments(ctx context.Context) error {
	return s.assignments.DeleteAll(ctx)
}

func (s *Store) DeleteAllSections(ctx context.Context) error {
	return s.sections.DeleteAll(ctx)
}

func (s *Store) InsertSection(ctx context.Context, section models.Section) error {
	return s.sections.Insert(ctx, section)
}

func (s *Store) InsertAssignment(ctx context.Context, assignment models.Assignment) error {
	return s.assignments.Insert(ctx, assignment)
}

// Transaction opens one sqlx transaction and hands a Store scoped to it to
// fn. A Store already running inside a transaction reuses it instead of
// nesting, since the whole generation is meant to be one logical unit.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx engine.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}

	tx, err := s.db.Sqlx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	scoped := newScopedStore(s.db, tx, true)
	if err := fn(ctx, scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var _ sqlExecutor = (*sqlx.DB)(nil)
var _ sqlExecutor = (*sqlx.Tx)(nil)
