package repository

import (
	"context"

	"schedule-engine/internal/models"
)

// SectionRepository - write path for Sections. Sections are ephemeral:
// every generation run wipes the previous cycle's sections before writing
// the new ones.
type SectionRepository interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, section models.Section) error
}

type SectionRepo struct {
	exec sqlExecutor
}

func NewSectionRepo(exec sqlExecutor) *SectionRepo {
	return &SectionRepo{exec: exec}
}

func (r *SectionRepo) DeleteAll(ctx context.Context) error {
	_, err := r.exec.ExecContext(ctx, `DELETE FROM sections`)
	return err
}

func (r *SectionRepo) Insert(ctx context.Context, section models.Section) error {
	query := `
		INSERT INTO sections (label, subject_id, shift, modality, start_hour)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.exec.ExecContext(ctx, query,
		section.Label, section.Subject.ID, string(section.Shift), string(section.Modality), section.StartHour)
	return err
}
