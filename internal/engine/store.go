package engine

import (
	"context"

	"schedule-engine/internal/models"

	"github.com/google/uuid"
)

// Store - граница между ядром (этот пакет) и хранилищем. Реализация
// живёт в internal/repository; ядро не знает о Postgres/pgx/sqlx.
type Store interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	ListTeachers(ctx context.Context) ([]models.Teacher, error)
	CompetencesOf(ctx context.Context, teacherID uuid.UUID) ([]models.Subject, error)

	DeleteAllAssignments(ctx context.Context) error
	DeleteAllSections(ctx context.Context) error
	InsertSection(ctx context.Context, section models.Section) error
	InsertAssignment(ctx context.Context, assignment models.Assignment) error

	// Transaction выполняет fn в рамках одной транзакции хранилища; вся
	// генерация расписания - один логический вызов Transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
