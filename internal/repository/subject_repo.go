package repository

import (
	"context"

	"schedule-engine/internal/models"
)

// SubjectRepository - read path for Subject. Subjects are long-lived and
// mutated only outside the generation engine, so only List is needed here.
type SubjectRepository interface {
	List(ctx context.Context) ([]models.Subject, error)
}

// SubjectRepo implements SubjectRepository over a sqlx-compatible executor,
// so the same code path works whether it runs against the pool or inside
// the transaction opened by Store.Transaction.
type SubjectRepo struct {
	exec sqlExecutor
}

func NewSubjectRepo(exec sqlExecutor) *SubjectRepo {
	return &SubjectRepo{exec: exec}
}

// List returns all subjects ordered by identity (name, level) - the order
// the instantiator expects its input in.
func (r *SubjectRepo) List(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	query := `SELECT id, name, level, demand_descriptor FROM subjects ORDER BY name, level`
	if err := r.exec.SelectContext(ctx, &subjects, query); err != nil {
		return nil, err
	}
	return subjects, nil
}
