package repository

import (
	"context"

	"schedule-engine/internal/models"
)

// TeacherRepository - read path for Teacher.
type TeacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
}

type TeacherRepo struct {
	exec sqlExecutor
}

func NewTeacherRepo(exec sqlExecutor) *TeacherRepo {
	return &TeacherRepo{exec: exec}
}

func (r *TeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	query := `SELECT id, name, max_hours_week, max_hours_day FROM teachers ORDER BY name`
	if err := r.exec.SelectContext(ctx, &teachers, query); err != nil {
		return nil, err
	}
	return teachers, nil
}
