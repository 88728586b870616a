package models

import "errors"

// Ошибки валидации доменных моделей
var (
	// Ошибки предмета
	ErrInvalidSubjectName = errors.New("название предмета обязательно")
	ErrInvalidLevel       = errors.New("уровень предмета обязателен")
	ErrInvalidDescriptor  = errors.New("некорректный формат demand descriptor")
	ErrNegativeCount      = errors.New("количество секций в descriptor не может быть отрицательным")
	ErrInvalidModality    = errors.New("неизвестная модальность в descriptor")

	// Ошибки преподавателя
	ErrInvalidTeacherName  = errors.New("имя преподавателя обязательно")
	ErrInvalidMaxHoursWeek = errors.New("максимум часов в неделю должен быть больше 0")
	ErrInvalidMaxHoursDay  = errors.New("максимум часов в день должен быть больше 0")

	// Ошибки компетенции
	ErrInvalidTeacherID = errors.New("некорректный ID преподавателя")
	ErrInvalidSubjectID = errors.New("некорректный ID предмета")

	// Ошибки секции
	ErrInvalidStartHour = errors.New("некорректный час начала секции")
)
