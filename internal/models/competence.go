package models

import "github.com/google/uuid"

// Competence - авторизация преподавателя на ведение предмета (many-to-many).
// Простая связывающая таблица без собственного жизненного цикла кроме
// создания/удаления.
type Competence struct {
	TeacherID uuid.UUID `db:"teacher_id" json:"teacher_id"`
	SubjectID uuid.UUID `db:"subject_id" json:"subject_id"`
}

func (c *Competence) Validate() error {
	if c.TeacherID == uuid.Nil {
		return ErrInvalidTeacherID
	}
	if c.SubjectID == uuid.Nil {
		return ErrInvalidSubjectID
	}
	return nil
}
