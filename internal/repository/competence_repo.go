package repository

import (
	"context"

	"schedule-engine/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CompetenceRepository - read path for a teacher's competence set.
type CompetenceRepository interface {
	CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error)
	CompetencesOfBatch(ctx context.Context, teacherIDs []uuid.UUID) (map[uuid.UUID][]models.Subject, error)
}

type CompetenceRepo struct {
	exec sqlExecutor
}

func NewCompetenceRepo(exec sqlExecutor) *CompetenceRepo {
	return &CompetenceRepo{exec: exec}
}

// CompetencesOf resolves one teacher's competence set. Kept for callers that
// only need a single teacher; Store prefers CompetencesOfBatch to avoid one
// round trip per teacher during generation (the validator touches every teacher).
func (r *CompetenceRepo) CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error) {
	var subjects []models.Subject
	query := `
		SELECT s.id, s.name, s.level, s.demand_descriptor
		FROM subjects s
		JOIN competences c ON c.subject_id = s.id
		WHERE c.teacher_id = $1
		ORDER BY s.name, s.level
	`
	if err := r.exec.SelectContext(ctx, &subjects, query, teacherID); err != nil {
		return nil, err
	}
	return subjects, nil
}

type competenceRow struct {
	TeacherID uuid.UUID               `db:"teacher_id"`
	ID        uuid.UUID               `db:"id"`
	Name      string                  `db:"name"`
	Level     string                  `db:"level"`
	Demand    models.DemandDescriptor `db:"demand_descriptor"`
}

// CompetencesOfBatch resolves every teacher's competence set in a single
// query, driven by a Postgres array parameter.
func (r *CompetenceRepo) CompetencesOfBatch(ctx context.Context, teacherIDs []uuid.UUID) (map[uuid.UUID][]models.Subject, error) {
	out := make(map[uuid.UUID][]models.Subject, len(teacherIDs))
	if len(teacherIDs) == 0 {
		return out, nil
	}

	ids := make([]string, len(teacherIDs))
	for i, id := range teacherIDs {
		ids[i] = id.String()
	}

	var rows []competenceRow
	query := `
		SELECT c.teacher_id, s.id, s.name, s.level, s.demand_descriptor
		FROM competences c
		JOIN subjects s ON s.id = c.subject_id
		WHERE c.teacher_id = ANY($1)
		ORDER BY s.name, s.level
	`
	if err := r.exec.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.TeacherID] = append(out[row.TeacherID], models.Subject{
			ID:     row.ID,
			Name:   row.Name,
			Level:  row.Level,
			Demand: row.Demand,
		})
	}
	return out, nil
}
