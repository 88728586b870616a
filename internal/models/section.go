package models

import "github.com/google/uuid"

// Section - эфемерный экземпляр курса, порождаемый Instantiate на каждом
// цикле генерации. Section не переживает циклы: новый запуск удаляет все
// прежние секции и создаёт их заново.
type Section struct {
	// Index - позиция в срезе, построенном Instantiate; используется как
	// плотный индекс при построении модели.
	Index     int
	Label     string // A, B, ..., Z, AA, AB, ... в рамках предмета
	Subject   Subject
	Shift     Shift
	Modality  Modality
	StartHour int
}

// Pattern - паттерн дней недели, фиксированный модальностью секции.
func (s Section) Pattern() DayPattern {
	return s.Modality.DayPattern()
}

// BlockHours - длительность одного занятия секции.
func (s Section) BlockHours() int {
	return s.Modality.BlockHours()
}

// Slot идентифицирует атомарную единицу расписания (pattern, start_hour).
type Slot struct {
	Pattern   DayPattern
	StartHour int
}

func (s Section) Slot() Slot {
	return Slot{Pattern: s.Pattern(), StartHour: s.StartHour}
}

// SectionLabel формирует метку по базе 26: 0->A, 1->B, ..., 25->Z, 26->AA...
// Нумерация сбрасывается на 0 для каждого предмета.
func SectionLabel(n int) string {
	if n < 0 {
		return ""
	}
	var buf []byte
	for n >= 0 {
		buf = append([]byte{byte('A' + (n % 26))}, buf...)
		n = n/26 - 1
	}
	return string(buf)
}

// Assignment - конкретное назначение преподавателя на одно дневное
// вхождение секции.
type Assignment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Day       Weekday   `db:"day" json:"day"`
	StartHour int       `db:"start_hour" json:"start_hour"`
	EndHour   int       `db:"end_hour" json:"end_hour"`
	TeacherID uuid.UUID `db:"teacher_id" json:"teacher_id"`
	SubjectID uuid.UUID `db:"subject_id" json:"subject_id"`
	// SectionLabel связывает Assignment с породившей его Section; Section
	// сама по себе не хранится между циклами, поэтому метка - это всё,
	// что переживает цикл для группировки назначений одной секции.
	SectionLabel string `db:"section_label" json:"section_label"`
}
