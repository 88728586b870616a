package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"schedule-engine/internal/models"
	"schedule-engine/pkg/logger"

	"github.com/google/uuid"
)

// Result - сводка успешной генерации, возвращаемая вызывающему слою.
type Result struct {
	SectionCount    int
	AssignmentCount int
	Status          Status
}

// GenerateSchedule прогоняет полный цикл: Preparing -> Validating ->
// Modeling -> Solving -> Persisting -> Done, с остановкой на первой ошибке
// любого шага. Удаление предыдущего состояния и запись нового - одна
// транзакция хранилища: если решатель или любой шаг до него вернёт ошибку,
// откат транзакции не оставит частично удалённого или частично записанного
// расписания.
func GenerateSchedule(ctx context.Context, store Store, cfg SchedulerConfig, solver Solver) (*Result, error) {
	if solver == nil {
		solver = NewCompositeSolver()
	}

	result := &Result{}
	phaseLog := logger.Component("engine")

	err := store.Transaction(ctx, func(ctx context.Context, tx Store) error {
		phaseLog.Info().Msg("generation: preparing")
		subjects, err := tx.ListSubjects(ctx)
		if err != nil {
			return NewInternalError("list subjects", err)
		}
		if len(subjects) == 0 {
			return ErrNoSubjects
		}

		sections, err := Instantiate(subjects)
		if err != nil {
			return err
		}
		if len(sections) == 0 {
			return fmt.Errorf("%w: описанный спрос пуст, нечего планировать", ErrNoSubjects)
		}
		result.SectionCount = len(sections)

		teachers, err := tx.ListTeachers(ctx)
		if err != nil {
			return NewInternalError("list teachers", err)
		}

		competencesOf := make(map[uuid.UUID][]models.Subject, len(teachers))
		for _, teacher := range teachers {
			subs, err := tx.CompetencesOf(ctx, teacher.ID)
			if err != nil {
				return NewInternalError("list competences", err)
			}
			competencesOf[teacher.ID] = subs
		}

		phaseLog.Info().
			Int("subjects", len(subjects)).
			Int("sections", len(sections)).
			Int("teachers", len(teachers)).
			Msg("generation: validating")
		if err := Validate(sections, teachers, competencesOf); err != nil {
			return err
		}

		phaseLog.Info().Msg("generation: modeling")
		model, err := BuildModel(sections, teachers, competencesOf, cfg)
		if err != nil {
			return err
		}

		if err := tx.DeleteAllAssignments(ctx); err != nil {
			return NewInternalError("delete previous assignments", err)
		}
		if err := tx.DeleteAllSections(ctx); err != nil {
			return NewInternalError("delete previous sections", err)
		}
		for _, section := range sections {
			if err := tx.InsertSection(ctx, section); err != nil {
				return NewInternalError("insert section", err)
			}
		}

		phaseLog.Info().Dur("budget", cfg.SolverTimeBudget).Msg("generation: solving")
		solveStart := time.Now()
		status, solution, err := solver.Solve(ctx, model, cfg.SolverTimeBudget)
		if err != nil {
			return NewInternalError("solve", err)
		}
		result.Status = status

		switch status {
		case StatusOptimal, StatusFeasible:
		case StatusInfeasible:
			return ErrInfeasible
		case StatusTimeLimit:
			return ErrTimeLimit
		default:
			return NewInternalError(fmt.Sprintf("unknown solver status %d", status), nil)
		}

		phaseLog.Info().
			Int("solver_status", int(status)).
			Dur("solve_elapsed", time.Since(solveStart)).
			Msg("generation: persisting")
		assignmentCount, err := Persist(ctx, tx, sections, teachers, solution)
		if err != nil {
			return err
		}
		result.AssignmentCount = assignmentCount

		return nil
	})

	if err != nil {
		phaseLog.Error().Err(err).Msg("generation: failed")
		return nil, err
	}
	phaseLog.Info().
		Int("sections", result.SectionCount).
		Int("assignments", result.AssignmentCount).
		Msg("generation: done")
	return result, nil
}

// Message переводит успешный Result в пользовательское сообщение.
func (r *Result) Message() string {
	return fmt.Sprintf("расписание сгенерировано: %d секций, %d занятий назначено", r.SectionCount, r.AssignmentCount)
}

// IsKnownFailure сообщает, является ли err ожидаемой ошибкой входных данных
// или решателя (в отличие от непредвиденной InternalError).
func IsKnownFailure(err error) bool {
	var coverage *InsufficientCoverageError
	var capacity *InsufficientCapacityError
	var noCandidates *NoCandidatesError
	switch {
	case errors.Is(err, ErrNoSubjects),
		errors.Is(err, ErrMalformedDescriptor),
		errors.Is(err, ErrInfeasible),
		errors.Is(err, ErrTimeLimit),
		errors.As(err, &coverage),
		errors.As(err, &capacity),
		errors.As(err, &noCandidates):
		return true
	default:
		return false
	}
}
