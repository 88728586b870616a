package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// DemandDescriptor - вложенная карта modality -> start_hour -> count.
// Хранится как JSONB в колонке subjects.demand_descriptor.
type DemandDescriptor map[Modality]map[int]int

// Value реализует driver.Valuer для записи в Postgres как JSONB.
func (d DemandDescriptor) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan реализует sql.Scanner для чтения JSONB из Postgres.
func (d *DemandDescriptor) Scan(value interface{}) error {
	if value == nil {
		*d = DemandDescriptor{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return ErrInvalidDescriptor
	}

	// Документ приходит с ключами-модальностями в верхнем регистре и
	// строковыми часами (JSON не поддерживает int-ключи).
	var wire map[string]map[string]int
	if err := json.Unmarshal(raw, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}

	out := DemandDescriptor{}
	for modalityStr, hours := range wire {
		modality := Modality(modalityStr)
		if !modality.Valid() {
			return fmt.Errorf("%w: %s", ErrInvalidModality, modalityStr)
		}
		byHour := map[int]int{}
		for hourStr, count := range hours {
			var hour int
			if _, err := fmt.Sscanf(hourStr, "%d", &hour); err != nil {
				return fmt.Errorf("%w: час %q не является целым числом", ErrInvalidDescriptor, hourStr)
			}
			if count < 0 {
				return ErrNegativeCount
			}
			byHour[hour] = count
		}
		out[modality] = byHour
	}
	*d = out
	return nil
}

// Subject представляет учебный предмет, идентифицируемый парой (name, level).
type Subject struct {
	ID     uuid.UUID        `db:"id" json:"id"`
	Name   string           `db:"name" json:"name"`
	Level  string           `db:"level" json:"level"`
	Demand DemandDescriptor `db:"demand_descriptor" json:"demand_descriptor"`
}

// Identity возвращает (name, level), по которому определяется равенство предметов.
func (s Subject) Identity() [2]string {
	return [2]string{s.Name, s.Level}
}

// Label - удобочитаемая метка предмета для диагностик ("English L1").
func (s Subject) Label() string {
	return fmt.Sprintf("%s L%s", s.Name, s.Level)
}

func (s *Subject) Validate() error {
	if s.Name == "" {
		return ErrInvalidSubjectName
	}
	if s.Level == "" {
		return ErrInvalidLevel
	}
	return nil
}

// SortSubjects упорядочивает предметы по возрастанию идентичности (name, level);
// детерминированный порядок инстанцирования начинается отсюда.
func SortSubjects(subjects []Subject) {
	sort.Slice(subjects, func(i, j int) bool {
		a, b := subjects[i].Identity(), subjects[j].Identity()
		if a[0] != b[0] {
			return a[0] < b[0]
		}
		return a[1] < b[1]
	})
}
