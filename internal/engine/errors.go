package engine

import (
	"errors"
	"fmt"
)

// Таксономия ошибок генерации расписания. Каждый вид ошибки отображается
// на диагностическое сообщение, которое идёт пользователю без изменений.
var (
	ErrNoSubjects          = errors.New("не настроены предметы для генерации расписания")
	ErrMalformedDescriptor = errors.New("некорректный demand descriptor")
	ErrInfeasible          = errors.New("невозможно построить расписание: конфликт ограничений (например, недопустимое смешение presential/online без зазора)")
	ErrTimeLimit           = errors.New("решатель не успел найти допустимое расписание за отведённое время")
)

// InsufficientCoverageError - по слоту недостаточно компетентных
// преподавателей.
type InsufficientCoverageError struct {
	SubjectLabel string
	Slot         string
	Required     int
	Available    int
}

func (e *InsufficientCoverageError) Error() string {
	return fmt.Sprintf(
		"недостаточно преподавателей для покрытия %s в слоте %s (нужно %d, компетентны %d)",
		e.SubjectLabel, e.Slot, e.Required, e.Available,
	)
}

// InsufficientCapacityError - суммарные часы преподавателей не покрывают
// требуемую нагрузку предмета.
type InsufficientCapacityError struct {
	SubjectLabel string
	HoursNeed    int
	HoursHave    int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf(
		"запрошенная нагрузка по %s (%d ч.) превышает суммарную доступную вместимость преподавателей (%d ч.)",
		e.SubjectLabel, e.HoursNeed, e.HoursHave,
	)
}

// NoCandidatesError - builder обнаружил секцию без кандидатов (защита от
// пробелов в валидаторе).
type NoCandidatesError struct {
	SectionLabel string
	SubjectLabel string
}

func (e *NoCandidatesError) Error() string {
	return fmt.Sprintf("секция %s (%s) не имеет ни одного кандидата-преподавателя", e.SectionLabel, e.SubjectLabel)
}

// InternalError оборачивает неожиданные условия, предоставляя пользователю
// общее сообщение и сохраняя деталь для логирования.
type InternalError struct {
	Detail string
	Cause  error
}

func (e *InternalError) Error() string {
	return "внутренняя ошибка генерации расписания"
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(detail string, cause error) *InternalError {
	return &InternalError{Detail: detail, Cause: cause}
}
