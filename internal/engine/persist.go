package engine

import (
	"context"
	"fmt"

	"schedule-engine/internal/models"

	"github.com/google/uuid"
)

// Persist материализует Solution в строки Assignment: для каждой
// секции с назначенным преподавателем разворачивает day_pattern в конкретные
// дни и пишет одну строку Assignment на каждый день. Вызывается внутри
// транзакции, открытой GenerateSchedule - сам Persist транзакций не
// открывает и не коммитит.
func Persist(ctx context.Context, store Store, sections []models.Section, teachers []models.Teacher, solution *Solution) (int, error) {
	if len(solution.TeacherOf) != len(sections) {
		return 0, NewInternalError(
			fmt.Sprintf("solution length mismatch: %d teachers for %d sections", len(solution.TeacherOf), len(sections)),
			nil,
		)
	}

	count := 0
	for i, section := range sections {
		teacherIdx := solution.TeacherOf[i]
		if teacherIdx < 0 || teacherIdx >= len(teachers) {
			return count, NewInternalError(fmt.Sprintf("section %s has no assigned teacher in solution", section.Label), nil)
		}
		teacher := teachers[teacherIdx]

		for _, day := range section.Pattern().Days() {
			assignment := models.Assignment{
				ID:           uuid.New(),
				Day:          day,
				StartHour:    section.StartHour,
				EndHour:      section.StartHour + section.BlockHours(),
				TeacherID:    teacher.ID,
				SubjectID:    section.Subject.ID,
				SectionLabel: section.Label,
			}
			if err := store.InsertAssignment(ctx, assignment); err != nil {
				return count, NewInternalError("insert assignment", err)
			}
			count++
		}
	}

	return count, nil
}
