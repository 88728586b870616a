package models

import "github.com/google/uuid"

// Teacher представляет преподавателя и его лимиты учебной нагрузки.
type Teacher struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	MaxHoursWeek int       `db:"max_hours_week" json:"max_hours_week"`
	MaxHoursDay  int       `db:"max_hours_day" json:"max_hours_day"`
}

func (t *Teacher) Validate() error {
	if t.Name == "" {
		return ErrInvalidTeacherName
	}
	if t.MaxHoursWeek <= 0 {
		return ErrInvalidMaxHoursWeek
	}
	if t.MaxHoursDay <= 0 {
		return ErrInvalidMaxHoursDay
	}
	return nil
}
