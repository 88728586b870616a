package repository

import (
	"context"

	"schedule-engine/internal/models"
)

// AssignmentRepository - write path for Assignments, the final output of a
// generation run.
type AssignmentRepository interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, assignment models.Assignment) error
}

type AssignmentRepo struct {
	exec sqlExecutor
}

func NewAssignmentRepo(exec sqlExecutor) *AssignmentRepo {
	return &AssignmentRepo{exec: exec}
}

func (r *AssignmentRepo) DeleteAll(ctx context.Context) error {
	_, err := r.exec.ExecContext(ctx, `DELETE FROM assignments`)
	return err
}

func (r *AssignmentRepo) Insert(ctx context.Context, assignment models.Assignment) error {
	query := `
		INSERT INTO assignments (id, day, start_hour, end_hour, teacher_id, subject_id, section_label)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.exec.ExecContext(ctx, query,
		assignment.ID, int(assignment.Day), assignment.StartHour, assignment.EndHour,
		assignment.TeacherID, assignment.SubjectID, assignment.SectionLabel)
	return err
}
